package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/openfooty/statindex/internal/domain/summary"
	"github.com/openfooty/statindex/internal/platform/logging"
)

func newSummaryRepository(t *testing.T) *SummaryRepository {
	t.Helper()

	db, err := Open(filepath.Join(t.TempDir(), "summary.db"))
	if err != nil {
		t.Fatalf("open summary database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	repo := NewSummaryRepository(db, logging.NewNop())
	if err := repo.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	return repo
}

func summaryEntry(playerID int64, name string, bucket string, minutes float64, metrics map[string]float64) summary.Entry {
	return summary.Entry{
		CompetitionID:   37,
		CompetitionName: "FA Women's Super League",
		SeasonID:        90,
		SeasonLabel:     "2020/2021",
		PlayerID:        playerID,
		PlayerName:      name,
		TeamID:          i64(746),
		TeamName:        "Manchester City WFC",
		Position:        "Center Midfield",
		PrimaryPosition: "Center Midfield",
		PositionBucket:  bucket,
		Minutes:         minutes,
		Metrics:         metrics,
		MetadataJSON:    "{}",
	}
}

func TestEnsureSchemaIdempotent(t *testing.T) {
	t.Parallel()

	repo := newSummaryRepository(t)
	if err := repo.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("expected second ensure to succeed, got=%v", err)
	}

	var columns []tableColumn
	if err := repo.db.Select(&columns, "PRAGMA table_info(player_season_summary)"); err != nil {
		t.Fatalf("inspect summary table: %v", err)
	}
	found := false
	for _, col := range columns {
		if col.Name == "position_bucket" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected position_bucket column after schema upgrade")
	}
}

func TestUpsertEntriesInsertsAndUpdates(t *testing.T) {
	t.Parallel()

	repo := newSummaryRepository(t)
	ctx := context.Background()

	entry := summaryEntry(10172, "Samantha Mewis", "CM", 1748, map[string]float64{
		"player_season_goals_90": 0.46,
	})
	if err := repo.UpsertEntries(ctx, []summary.Entry{entry}, "2024-07-01T00:00:00Z"); err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	entry.Minutes = 1838
	entry.Metrics["player_season_goals_90"] = 0.52
	if err := repo.UpsertEntries(ctx, []summary.Entry{entry}, "2024-07-02T00:00:00Z"); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	var count int
	if err := repo.db.Get(&count, "SELECT COUNT(*) FROM player_season_summary"); err != nil {
		t.Fatalf("count summary rows: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 summary row, got=%d", count)
	}

	var minutes float64
	var updated string
	err := repo.db.QueryRowx("SELECT minutes, last_updated FROM player_season_summary WHERE player_id = 10172").
		Scan(&minutes, &updated)
	if err != nil {
		t.Fatalf("read summary row: %v", err)
	}
	if minutes != 1838 {
		t.Fatalf("expected updated minutes 1838, got=%v", minutes)
	}
	if updated != "2024-07-02T00:00:00Z" {
		t.Fatalf("expected refreshed timestamp, got=%q", updated)
	}

	var value float64
	if err := repo.db.Get(&value, "SELECT metric_value FROM player_season_metric WHERE player_id = 10172"); err != nil {
		t.Fatalf("read metric row: %v", err)
	}
	if value != 0.52 {
		t.Fatalf("expected updated metric 0.52, got=%v", value)
	}
}

func TestRunLedgerLifecycle(t *testing.T) {
	t.Parallel()

	repo := newSummaryRepository(t)
	ctx := context.Background()

	runID, err := repo.BeginRun(ctx, "2024-07-01T00:00:00Z", "configs/tracking.json")
	if err != nil {
		t.Fatalf("begin run: %v", err)
	}

	runs, err := repo.ListRuns(ctx, 10)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got=%d", len(runs))
	}
	if runs[0].Status != summary.RunStatusRunning {
		t.Fatalf("expected running status, got=%q", runs[0].Status)
	}
	if runs[0].ConfigPath != "configs/tracking.json" {
		t.Fatalf("expected config path recorded, got=%q", runs[0].ConfigPath)
	}

	if err := repo.CompleteRun(ctx, runID, "2024-07-01T00:05:00Z", summary.RunStatusSuccess, "players=214"); err != nil {
		t.Fatalf("complete run: %v", err)
	}
	// Empty details on a later update keep the recorded ones.
	if err := repo.CompleteRun(ctx, runID, "2024-07-01T00:06:00Z", summary.RunStatusFailed, ""); err != nil {
		t.Fatalf("second complete: %v", err)
	}

	runs, err = repo.ListRuns(ctx, 10)
	if err != nil {
		t.Fatalf("list runs after completion: %v", err)
	}
	if runs[0].Status != summary.RunStatusFailed {
		t.Fatalf("expected failed status, got=%q", runs[0].Status)
	}
	if runs[0].Details != "players=214" {
		t.Fatalf("expected details preserved, got=%q", runs[0].Details)
	}
	if runs[0].CompletedAt != "2024-07-01T00:06:00Z" {
		t.Fatalf("expected latest completion timestamp, got=%q", runs[0].CompletedAt)
	}
}

func TestListRunsNewestFirst(t *testing.T) {
	t.Parallel()

	repo := newSummaryRepository(t)
	ctx := context.Background()

	for _, ts := range []string{"2024-07-01T00:00:00Z", "2024-07-02T00:00:00Z", "2024-07-03T00:00:00Z"} {
		if _, err := repo.BeginRun(ctx, ts, ""); err != nil {
			t.Fatalf("begin run: %v", err)
		}
	}

	runs, err := repo.ListRuns(ctx, 2)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got=%d", len(runs))
	}
	if runs[0].RunID <= runs[1].RunID {
		t.Fatalf("expected newest run first, got=%d then %d", runs[0].RunID, runs[1].RunID)
	}
	if runs[0].StartedAt != "2024-07-03T00:00:00Z" {
		t.Fatalf("expected latest run first, got=%q", runs[0].StartedAt)
	}
}

func TestReplacePercentilesDropsStaleCohorts(t *testing.T) {
	t.Parallel()

	repo := newSummaryRepository(t)
	ctx := context.Background()

	first := []summary.PercentileRow{
		{PlayerID: 10172, MetricName: "player_season_goals_90", CohortKey: summary.CohortKey(37, 90, "all"), Percentile: 100, MetricValue: 0.46},
		{PlayerID: 10172, MetricName: "player_season_goals_90", CohortKey: summary.CohortKey(37, 90, "position:CM"), Percentile: 100, MetricValue: 0.46},
	}
	if err := repo.ReplacePercentiles(ctx, 37, 90, first, "2024-07-01T00:00:00Z"); err != nil {
		t.Fatalf("first replace: %v", err)
	}

	second := []summary.PercentileRow{
		{PlayerID: 10172, MetricName: "player_season_goals_90", CohortKey: summary.CohortKey(37, 90, "all"), Percentile: 100, MetricValue: 0.52},
	}
	if err := repo.ReplacePercentiles(ctx, 37, 90, second, "2024-07-02T00:00:00Z"); err != nil {
		t.Fatalf("second replace: %v", err)
	}

	var count int
	if err := repo.db.Get(&count, "SELECT COUNT(*) FROM player_metric_percentile"); err != nil {
		t.Fatalf("count percentile rows: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected stale cohort removed, got=%d rows", count)
	}

	var cohort string
	if err := repo.db.Get(&cohort, "SELECT cohort_key FROM player_metric_percentile"); err != nil {
		t.Fatalf("read cohort key: %v", err)
	}
	if cohort != "37:90:all" {
		t.Fatalf("expected all cohort to survive, got=%q", cohort)
	}
}
