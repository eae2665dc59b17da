package summary

import "context"

// Repository persists season summaries, their percentile rows and the run
// ledger. All writes of one refresh carry the same timestamp so a season
// reads as one consistent snapshot.
type Repository interface {
	EnsureSchema(ctx context.Context) error
	BeginRun(ctx context.Context, startedAt, configPath string) (int64, error)
	CompleteRun(ctx context.Context, runID int64, completedAt, status, details string) error
	UpsertEntries(ctx context.Context, entries []Entry, updatedAt string) error
	ReplacePercentiles(ctx context.Context, competitionID, seasonID int64, rows []PercentileRow, updatedAt string) error
	ListRuns(ctx context.Context, limit int) ([]IngestionRun, error)
}
