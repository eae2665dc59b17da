package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/openfooty/statindex/internal/domain/ranking"
	"github.com/openfooty/statindex/internal/domain/summary"
	"github.com/openfooty/statindex/internal/platform/logging"
)

func seedSummaryAt(t *testing.T, path string) {
	t.Helper()

	db, err := Open(path)
	if err != nil {
		t.Fatalf("open summary database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	repo := NewSummaryRepository(db, logging.NewNop())
	ctx := context.Background()
	if err := repo.EnsureSchema(ctx); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}

	entries := []summary.Entry{
		summaryEntry(4640, "Bethany England", "ST", 1320, map[string]float64{
			"player_season_goals_90": 0.61,
		}),
	}
	if err := repo.UpsertEntries(ctx, entries, "2024-07-01T00:00:00Z"); err != nil {
		t.Fatalf("seed summary entries: %v", err)
	}
}

func TestLazyRankingReaderRetriesUntilDatabaseAppears(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "summary.db")
	reader := NewLazyRankingReader(path)
	t.Cleanup(func() { reader.Close() })
	ctx := context.Background()

	if _, err := reader.MetricExists(ctx, "player_season_goals_90"); !errors.Is(err, ranking.ErrDatabaseMissing) {
		t.Fatalf("expected ErrDatabaseMissing before first ingest, got=%v", err)
	}

	seedSummaryAt(t, path)

	ok, err := reader.MetricExists(ctx, "player_season_goals_90")
	if err != nil {
		t.Fatalf("expected reader to open once the file exists, got=%v", err)
	}
	if !ok {
		t.Fatalf("expected stored metric to exist")
	}

	names, err := reader.ListPlayerNames(ctx, "2020/2021")
	if err != nil {
		t.Fatalf("list player names: %v", err)
	}
	if len(names) != 1 || names[0] != "Bethany England" {
		t.Fatalf("unexpected player names: %v", names)
	}
}

func TestLazyRankingReaderReopensAfterClose(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "summary.db")
	seedSummaryAt(t, path)

	reader := NewLazyRankingReader(path)
	t.Cleanup(func() { reader.Close() })
	ctx := context.Background()

	if _, err := reader.ListPlayerNames(ctx, "2020/2021"); err != nil {
		t.Fatalf("first open: %v", err)
	}
	if err := reader.Close(); err != nil {
		t.Fatalf("close reader: %v", err)
	}
	if _, err := reader.ListPlayerNames(ctx, "2020/2021"); err != nil {
		t.Fatalf("expected reader to reopen after close, got=%v", err)
	}
}
