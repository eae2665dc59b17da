package sqlite

import (
	"strings"
	"testing"
)

func TestFormatQueryForTrace(t *testing.T) {
	t.Run("collapses whitespace", func(t *testing.T) {
		in := "SELECT player_id,\n\t\tmetric_value\n\tFROM season_summaries\n\tWHERE metric_key = ?"
		got := formatQueryForTrace(in)
		want := "SELECT player_id, metric_value FROM season_summaries WHERE metric_key = ?"
		if got != want {
			t.Fatalf("expected %q, got %q", want, got)
		}
	})

	t.Run("truncates long statements", func(t *testing.T) {
		in := "SELECT " + strings.Repeat("x", 2*maxTracedQueryLength)
		got := formatQueryForTrace(in)
		if len(got) != maxTracedQueryLength+len("...") {
			t.Fatalf("expected %d chars, got %d", maxTracedQueryLength+3, len(got))
		}
		if !strings.HasSuffix(got, "...") {
			t.Fatalf("expected ellipsis suffix, got %q", got[len(got)-10:])
		}
	})

	t.Run("empty stays empty", func(t *testing.T) {
		if got := formatQueryForTrace("   "); got != "" {
			t.Fatalf("expected empty, got %q", got)
		}
	})
}
