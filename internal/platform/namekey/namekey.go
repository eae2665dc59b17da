// Package namekey produces canonical lookup keys for free-text football
// names. Every resolver in the index pipeline compares names through the
// same canonical form so that casing, diacritics, and spacing differences
// never cause a lookup miss.
package namekey

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/unicode/runenames"
)

// nonASCIIFolds maps letters that survive NFKD decomposition without an
// ASCII base form. Values are folded again by the final lowercase pass, so
// case only matters for the keys.
var nonASCIIFolds = map[rune]string{
	'ß': "ss",
	'ø': "o", 'Ø': "o",
	'æ': "ae", 'Æ': "ae",
	'ı': "i",
	'ð': "d", 'Ð': "d",
	'þ': "th", 'Þ': "th",
	'ł': "l", 'Ł': "l",
	'œ': "oe", 'Œ': "oe",
	'ŋ': "ng", 'Ŋ': "ng",
	'đ': "d", 'Đ': "d",
	'ħ': "h", 'Ħ': "h",
	'ŧ': "t", 'Ŧ': "t",
	'ĸ': "k",
}

// Canonicalize maps a display name onto its canonical key: NFKD
// decomposition, combining marks dropped, non-ASCII letters folded to ASCII,
// lowercased, interior whitespace collapsed. The function is pure and
// idempotent; empty input yields an empty key.
func Canonicalize(value string) string {
	if value == "" {
		return ""
	}

	decomposed := norm.NFKD.String(value)
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		if r < 128 {
			b.WriteRune(r)
			continue
		}
		if folded, ok := nonASCIIFolds[r]; ok {
			b.WriteString(folded)
			continue
		}
		if base, ok := baseLetter(r); ok {
			b.WriteRune(base)
		}
	}

	return strings.Join(strings.Fields(strings.ToLower(b.String())), " ")
}

// baseLetter recovers the ASCII base of an otherwise unmapped letter from
// its Unicode name, e.g. "LATIN SMALL LETTER D WITH STROKE" yields 'd'.
// Non-letters and letters without a single-character base are dropped.
func baseLetter(r rune) (rune, bool) {
	name := runenames.Name(r)
	idx := strings.Index(name, "LETTER ")
	if idx < 0 {
		return 0, false
	}
	rest := strings.Fields(name[idx+len("LETTER "):])
	if len(rest) == 0 || len(rest[0]) != 1 {
		return 0, false
	}
	base := rune(rest[0][0])
	if base < 'A' || base > 'Z' {
		return 0, false
	}
	return base, true
}

// KeyVariants returns every lookup key a name should be reachable under:
// the original spelling, its lowercase form, the canonical key, and the
// canonical key with spaces removed. Duplicates are collapsed, first
// occurrence wins.
func KeyVariants(name string) []string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil
	}

	canonical := Canonicalize(trimmed)
	candidates := []string{
		trimmed,
		strings.ToLower(trimmed),
		canonical,
		strings.ReplaceAll(canonical, " ", ""),
	}

	variants := make([]string, 0, len(candidates))
	seen := make(map[string]struct{}, len(candidates))
	for _, v := range candidates {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		variants = append(variants, v)
	}

	return variants
}

// StripSpaces removes every space from a canonical key. Fuzzy comparisons
// run on the space-free form so word-boundary differences do not dominate
// the similarity score.
func StripSpaces(key string) string {
	return strings.ReplaceAll(key, " ", "")
}

// NormalizeSeasonLabel rewrites the season spellings providers and humans
// use ("2024-2025", "2024/25", "2024") into the canonical "2024/2025" form.
// Labels that do not look like seasons are returned trimmed but otherwise
// untouched.
func NormalizeSeasonLabel(label string) string {
	trimmed := strings.TrimSpace(label)
	if trimmed == "" {
		return ""
	}

	normalized := strings.ReplaceAll(trimmed, "-", "/")
	if first, second, ok := strings.Cut(normalized, "/"); ok {
		first = strings.TrimSpace(first)
		second = strings.TrimSpace(second)
		if len(first) == 4 && len(second) == 2 && isDigits(first) && isDigits(second) {
			return first + "/" + first[:2] + second
		}
		if len(first) == 4 && len(second) == 4 && isDigits(first) && isDigits(second) {
			return first + "/" + second
		}
		return normalized
	}

	if len(normalized) == 4 && isDigits(normalized) {
		year, err := strconv.Atoi(normalized)
		if err == nil {
			return normalized + "/" + strconv.Itoa(year+1)
		}
	}

	return trimmed
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
