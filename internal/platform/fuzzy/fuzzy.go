// Package fuzzy scores name similarity for entity resolution. Scores are
// Ratcliff-Obershelp sequence ratios over space-stripped keys, boosted when
// the two names share at least one whitespace token. Callers are expected
// to pass canonical keys (see platform/namekey) on both sides.
package fuzzy

import (
	"sort"
	"strings"
)

const (
	// AcceptThreshold admits a candidate into the regular result list.
	AcceptThreshold = 0.80
	// StrictThreshold is used for whole-index lookups where a wrong match
	// is worse than no match.
	StrictThreshold = 0.85

	tokenBoost = 0.25
	maxResults = 8
)

// Match pairs a candidate with its similarity score against the query.
type Match struct {
	Value string
	Score float64
}

// Ratio computes the Ratcliff-Obershelp similarity of two strings in
// [0, 1]. Both empty counts as identical.
func Ratio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 1.0
	}
	return 2 * float64(matchedRunes(ra, rb)) / float64(total)
}

// Score is the resolution score for a candidate: sequence similarity on the
// space-stripped keys plus a fixed boost when the token sets intersect. The
// boost deliberately favours reordered or partially transliterated names,
// so scores may exceed 1.
func Score(query, candidate string) float64 {
	score := Ratio(stripSpaces(query), stripSpaces(candidate))
	if tokensIntersect(query, candidate) {
		score += tokenBoost
	}
	return score
}

// Rank scores every candidate against the query and returns them ordered
// by score descending, ties broken by candidate ascending.
func Rank(query string, candidates []string) []Match {
	matches := make([]Match, 0, len(candidates))
	for _, candidate := range candidates {
		matches = append(matches, Match{Value: candidate, Score: Score(query, candidate)})
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].Value < matches[j].Value
	})
	return matches
}

// Best returns the candidates accepted for a query. An exact candidate wins
// outright. Otherwise every candidate scoring at least AcceptThreshold is
// returned (capped at a small maximum); when none qualify the single best
// candidate is returned anyway, so a non-empty candidate set always yields
// at least one result.
func Best(query string, candidates []string) []string {
	return bestAbove(query, candidates, AcceptThreshold)
}

// BestStrict behaves like Best with the acceptance threshold raised to
// StrictThreshold.
func BestStrict(query string, candidates []string) []string {
	return bestAbove(query, candidates, StrictThreshold)
}

func bestAbove(query string, candidates []string, threshold float64) []string {
	if len(candidates) == 0 {
		return nil
	}
	for _, candidate := range candidates {
		if candidate == query {
			return []string{candidate}
		}
	}

	ranked := Rank(query, candidates)
	accepted := make([]string, 0, maxResults)
	for _, match := range ranked {
		if match.Score < threshold || len(accepted) == maxResults {
			break
		}
		accepted = append(accepted, match.Value)
	}
	if len(accepted) == 0 {
		accepted = append(accepted, ranked[0].Value)
	}
	return accepted
}

// Closest returns the candidate with the highest plain sequence ratio
// against the query, provided it reaches the cutoff. No token boosting is
// applied; this mirrors catalogue-style resolution where a near miss must
// not be promoted by shared stopwords.
func Closest(query string, candidates []string, cutoff float64) (string, bool) {
	best := ""
	bestScore := 0.0
	for _, candidate := range candidates {
		score := Ratio(query, candidate)
		if score > bestScore || (score == bestScore && best != "" && candidate < best) {
			best = candidate
			bestScore = score
		}
	}
	if best == "" || bestScore < cutoff {
		return "", false
	}
	return best, true
}

func stripSpaces(s string) string {
	return strings.ReplaceAll(s, " ", "")
}

func tokensIntersect(a, b string) bool {
	fieldsA := strings.Fields(a)
	if len(fieldsA) == 0 {
		return false
	}
	set := make(map[string]struct{}, len(fieldsA))
	for _, tok := range fieldsA {
		set[tok] = struct{}{}
	}
	for _, tok := range strings.Fields(b) {
		if _, ok := set[tok]; ok {
			return true
		}
	}
	return false
}

type span struct {
	alo, ahi, blo, bhi int
}

// matchedRunes sums the sizes of the longest matching blocks found by
// recursively splitting around the longest common substring, the same
// procedure difflib's SequenceMatcher uses.
func matchedRunes(a, b []rune) int {
	matched := 0
	stack := []span{{0, len(a), 0, len(b)}}
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		i, j, size := longestMatch(a, b, s)
		if size == 0 {
			continue
		}
		matched += size
		if s.alo < i && s.blo < j {
			stack = append(stack, span{s.alo, i, s.blo, j})
		}
		if i+size < s.ahi && j+size < s.bhi {
			stack = append(stack, span{i + size, s.ahi, j + size, s.bhi})
		}
	}
	return matched
}

func longestMatch(a, b []rune, s span) (besti, bestj, bestsize int) {
	b2j := make(map[rune][]int, s.bhi-s.blo)
	for j := s.blo; j < s.bhi; j++ {
		b2j[b[j]] = append(b2j[b[j]], j)
	}

	besti, bestj = s.alo, s.blo
	lengths := make(map[int]int)
	for i := s.alo; i < s.ahi; i++ {
		next := make(map[int]int)
		for _, j := range b2j[a[i]] {
			size := lengths[j-1] + 1
			next[j] = size
			if size > bestsize {
				besti, bestj, bestsize = i-size+1, j-size+1, size
			}
		}
		lengths = next
	}
	return besti, bestj, bestsize
}
