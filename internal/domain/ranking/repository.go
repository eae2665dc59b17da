package ranking

import (
	"context"

	crerr "github.com/cockroachdb/errors"
)

var (
	// ErrDatabaseMissing reports that no summary database exists at the
	// configured path, meaning no ingestion run has completed yet.
	ErrDatabaseMissing = crerr.New("summary database missing")

	// ErrDatabaseCorrupt marks read failures against a database file that
	// exists but cannot be queried, missing tables included.
	ErrDatabaseCorrupt = crerr.New("summary database unreadable")
)

// Reader answers ranking queries from the season summary database. The
// database is opened read-only; implementations surface the missing-file and
// corrupt-file conditions as distinguishable errors.
type Reader interface {
	MetricExists(ctx context.Context, metric string) (bool, error)
	ResolveCohortSuffix(ctx context.Context, bucket string) (string, error)
	Rank(ctx context.Context, query Query) ([]Row, error)
	Snapshot(ctx context.Context, query SnapshotQuery) ([]SnapshotRow, error)
	ListMetrics(ctx context.Context, query MetricsQuery) ([]MetricInfo, error)
	ListCoverage(ctx context.Context, query CoverageQuery) ([]CoverageRow, error)
	ListPlayerNames(ctx context.Context, seasonLabel string) ([]string, error)
}
