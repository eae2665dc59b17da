package sqlite

import (
	"context"
	"sync"

	"github.com/jmoiron/sqlx"

	"github.com/openfooty/statindex/internal/domain/ranking"
)

// LazyRankingReader opens the summary database on first use instead of at
// construction, so the API can boot before any ingestion run has produced a
// file. While the file is absent every call reports ranking.ErrDatabaseMissing
// and the next call probes again; once an open succeeds the handle is kept.
// The summary store is rewritten in place and never deleted between runs, so
// a handle that opened once stays valid.
type LazyRankingReader struct {
	path string

	mu    sync.Mutex
	db    *sqlx.DB
	inner *RankingRepository
}

var _ ranking.Reader = (*LazyRankingReader)(nil)

func NewLazyRankingReader(path string) *LazyRankingReader {
	return &LazyRankingReader{path: path}
}

func (r *LazyRankingReader) repo() (*RankingRepository, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.inner != nil {
		return r.inner, nil
	}

	db, err := OpenReadOnly(r.path)
	if err != nil {
		return nil, err
	}
	r.db = db
	r.inner = NewRankingRepository(db)
	return r.inner, nil
}

// Close releases the handle if one was ever opened. A later call reopens.
func (r *LazyRankingReader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.db == nil {
		return nil
	}
	db := r.db
	r.db = nil
	r.inner = nil
	return db.Close()
}

func (r *LazyRankingReader) MetricExists(ctx context.Context, metric string) (bool, error) {
	repo, err := r.repo()
	if err != nil {
		return false, err
	}
	return repo.MetricExists(ctx, metric)
}

func (r *LazyRankingReader) ResolveCohortSuffix(ctx context.Context, bucket string) (string, error) {
	repo, err := r.repo()
	if err != nil {
		return "", err
	}
	return repo.ResolveCohortSuffix(ctx, bucket)
}

func (r *LazyRankingReader) Rank(ctx context.Context, query ranking.Query) ([]ranking.Row, error) {
	repo, err := r.repo()
	if err != nil {
		return nil, err
	}
	return repo.Rank(ctx, query)
}

func (r *LazyRankingReader) Snapshot(ctx context.Context, query ranking.SnapshotQuery) ([]ranking.SnapshotRow, error) {
	repo, err := r.repo()
	if err != nil {
		return nil, err
	}
	return repo.Snapshot(ctx, query)
}

func (r *LazyRankingReader) ListMetrics(ctx context.Context, query ranking.MetricsQuery) ([]ranking.MetricInfo, error) {
	repo, err := r.repo()
	if err != nil {
		return nil, err
	}
	return repo.ListMetrics(ctx, query)
}

func (r *LazyRankingReader) ListCoverage(ctx context.Context, query ranking.CoverageQuery) ([]ranking.CoverageRow, error) {
	repo, err := r.repo()
	if err != nil {
		return nil, err
	}
	return repo.ListCoverage(ctx, query)
}

func (r *LazyRankingReader) ListPlayerNames(ctx context.Context, seasonLabel string) ([]string, error) {
	repo, err := r.repo()
	if err != nil {
		return nil, err
	}
	return repo.ListPlayerNames(ctx, seasonLabel)
}
