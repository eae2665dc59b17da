package fuzzy

import "testing"

func TestRatio(t *testing.T) {
	t.Parallel()

	if got := Ratio("abcd", "abcd"); got != 1.0 {
		t.Fatalf("identical strings should score 1.0, got %f", got)
	}
	if got := Ratio("", ""); got != 1.0 {
		t.Fatalf("two empty strings should score 1.0, got %f", got)
	}
	if got := Ratio("abcd", "bcde"); got != 0.75 {
		t.Fatalf("Ratio(abcd, bcde) = %f, want 0.75", got)
	}
	if got := Ratio("abc", "xyz"); got != 0.0 {
		t.Fatalf("disjoint strings should score 0.0, got %f", got)
	}
}

func TestScoreTokenBoost(t *testing.T) {
	t.Parallel()

	plain := Score("jordan henderson", "henderson jamie")
	if plain <= Ratio("jordanhenderson", "hendersonjamie") {
		t.Fatalf("shared token should boost score, got %f", plain)
	}

	unboosted := Score("abcdef", "abcxyz")
	if unboosted != Ratio("abcdef", "abcxyz") {
		t.Fatalf("disjoint tokens must not be boosted, got %f", unboosted)
	}
}

func TestBestExactShortCircuit(t *testing.T) {
	t.Parallel()

	got := Best("arsenal", []string{"arsenal fc", "arsenal", "arsenal women"})
	if len(got) != 1 || got[0] != "arsenal" {
		t.Fatalf("exact candidate should win outright, got %v", got)
	}
}

func TestBestReturnsFallbackWhenNothingQualifies(t *testing.T) {
	t.Parallel()

	got := Best("totally unrelated", []string{"abc", "defgh"})
	if len(got) != 1 {
		t.Fatalf("expected exactly one fallback result, got %v", got)
	}
}

func TestBestEmptyCandidates(t *testing.T) {
	t.Parallel()

	if got := Best("anything", nil); got != nil {
		t.Fatalf("expected nil for empty candidate set, got %v", got)
	}
}

func TestBestStrictNarrowsAcceptance(t *testing.T) {
	t.Parallel()

	// Both candidates share an 8-rune prefix with the query: plain ratio
	// 16/20 = 0.80, no shared tokens, so they clear Best but not BestStrict.
	query := "abcdefghij"
	candidates := []string{"abcdefghxy", "abcdefghzw"}

	loose := Best(query, candidates)
	if len(loose) != 2 {
		t.Fatalf("expected both candidates at the loose threshold, got %v", loose)
	}

	strict := BestStrict(query, candidates)
	if len(strict) != 1 {
		t.Fatalf("expected single fallback at the strict threshold, got %v", strict)
	}
}

func TestRankDeterministicOrder(t *testing.T) {
	t.Parallel()

	first := Rank("manchester", []string{"manchester city", "manchester united", "fc barcelona"})
	second := Rank("manchester", []string{"manchester city", "manchester united", "fc barcelona"})
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("ranking not deterministic at %d: %+v vs %+v", i, first[i], second[i])
		}
	}
	if first[len(first)-1].Value != "fc barcelona" {
		t.Fatalf("unrelated candidate should rank last, got %+v", first)
	}
}

func TestClosest(t *testing.T) {
	t.Parallel()

	got, ok := Closest("premier league", []string{"premier league", "ligue 1", "serie a"}, 0.75)
	if !ok || got != "premier league" {
		t.Fatalf("expected exact catalogue hit, got %q ok=%v", got, ok)
	}

	if _, ok := Closest("premier league", []string{"bundesliga", "eredivisie"}, 0.75); ok {
		t.Fatalf("expected no hit below cutoff")
	}
}
