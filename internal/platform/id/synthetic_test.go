package id

import "testing"

func TestSyntheticPlayerIDStable(t *testing.T) {
	t.Parallel()

	first := SyntheticPlayerID("Jill Scott", "Manchester City WFC")
	second := SyntheticPlayerID("Jill Scott", "Manchester City WFC")
	if first != second {
		t.Fatalf("expected stable id, got %d then %d", first, second)
	}
	if first <= 0 {
		t.Fatalf("expected positive id, got %d", first)
	}
	if first < syntheticBase {
		t.Fatalf("expected id %d above the synthetic base", first)
	}
}

func TestSyntheticPlayerIDDistinguishesTeams(t *testing.T) {
	t.Parallel()

	city := SyntheticPlayerID("Jill Scott", "Manchester City WFC")
	everton := SyntheticPlayerID("Jill Scott", "Everton LFC")
	if city == everton {
		t.Fatalf("same name at different teams should not share an id, got %d", city)
	}
}
