package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/openfooty/statindex/internal/domain/ranking"
	"github.com/openfooty/statindex/internal/platform/logging"
)

func TestLazySummaryStoreLedgerReadDoesNotCreateFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "summary.db")
	store := NewLazySummaryStore(path, logging.NewNop())
	t.Cleanup(func() { store.Close() })
	ctx := context.Background()

	if _, err := store.ListRuns(ctx, 5); !errors.Is(err, ranking.ErrDatabaseMissing) {
		t.Fatalf("expected ErrDatabaseMissing before first ingest, got=%v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected ledger read to leave no file behind, stat err=%v", err)
	}
}

func TestLazySummaryStoreCreatesFileOnFirstWrite(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "summary.db")
	store := NewLazySummaryStore(path, logging.NewNop())
	t.Cleanup(func() { store.Close() })
	ctx := context.Background()

	if err := store.EnsureSchema(ctx); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected database file after first write, got=%v", err)
	}

	runID, err := store.BeginRun(ctx, "2024-07-01T00:00:00Z", "config/season_tracking.json")
	if err != nil {
		t.Fatalf("begin run: %v", err)
	}
	if err := store.CompleteRun(ctx, runID, "2024-07-01T00:05:00Z", "success", ""); err != nil {
		t.Fatalf("complete run: %v", err)
	}

	runs, err := store.ListRuns(ctx, 5)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 1 || runs[0].Status != "success" {
		t.Fatalf("unexpected runs: %+v", runs)
	}
}
