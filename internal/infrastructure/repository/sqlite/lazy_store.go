package sqlite

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/jmoiron/sqlx"

	"github.com/openfooty/statindex/internal/domain/ranking"
	"github.com/openfooty/statindex/internal/domain/summary"
	"github.com/openfooty/statindex/internal/platform/logging"
)

// LazySummaryStore opens the summary database for writing on first use. The
// API wires it alongside LazyRankingReader so that booting the server never
// creates the database file; write calls create it on demand while the
// ledger read reports it missing until the first ingestion run produces one.
type LazySummaryStore struct {
	path   string
	logger *logging.Logger

	mu    sync.Mutex
	db    *sqlx.DB
	inner *SummaryRepository
}

var _ summary.Repository = (*LazySummaryStore)(nil)

func NewLazySummaryStore(path string, logger *logging.Logger) *LazySummaryStore {
	if logger == nil {
		logger = logging.Default()
	}
	return &LazySummaryStore{path: path, logger: logger}
}

// repo opens the database read-write, creating the file when absent.
func (s *LazySummaryStore) repo() (*SummaryRepository, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.inner != nil {
		return s.inner, nil
	}
	return s.openLocked()
}

// readRepo refuses to create the file: a ledger read before the first
// ingestion run reports ranking.ErrDatabaseMissing like every other read.
func (s *LazySummaryStore) readRepo() (*SummaryRepository, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.inner != nil {
		return s.inner, nil
	}
	if _, err := os.Stat(s.path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ranking.ErrDatabaseMissing, s.path)
		}
		return nil, fmt.Errorf("stat sqlite database: %w", err)
	}
	return s.openLocked()
}

func (s *LazySummaryStore) openLocked() (*SummaryRepository, error) {
	db, err := Open(s.path)
	if err != nil {
		return nil, err
	}
	s.db = db
	s.inner = NewSummaryRepository(db, s.logger)
	return s.inner, nil
}

// Close releases the handle if one was ever opened. A later call reopens.
func (s *LazySummaryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	db := s.db
	s.db = nil
	s.inner = nil
	return db.Close()
}

func (s *LazySummaryStore) EnsureSchema(ctx context.Context) error {
	repo, err := s.repo()
	if err != nil {
		return err
	}
	return repo.EnsureSchema(ctx)
}

func (s *LazySummaryStore) BeginRun(ctx context.Context, startedAt, configPath string) (int64, error) {
	repo, err := s.repo()
	if err != nil {
		return 0, err
	}
	return repo.BeginRun(ctx, startedAt, configPath)
}

func (s *LazySummaryStore) CompleteRun(ctx context.Context, runID int64, completedAt, status, details string) error {
	repo, err := s.repo()
	if err != nil {
		return err
	}
	return repo.CompleteRun(ctx, runID, completedAt, status, details)
}

func (s *LazySummaryStore) UpsertEntries(ctx context.Context, entries []summary.Entry, updatedAt string) error {
	repo, err := s.repo()
	if err != nil {
		return err
	}
	return repo.UpsertEntries(ctx, entries, updatedAt)
}

func (s *LazySummaryStore) ReplacePercentiles(ctx context.Context, competitionID, seasonID int64, rows []summary.PercentileRow, updatedAt string) error {
	repo, err := s.repo()
	if err != nil {
		return err
	}
	return repo.ReplacePercentiles(ctx, competitionID, seasonID, rows, updatedAt)
}

func (s *LazySummaryStore) ListRuns(ctx context.Context, limit int) ([]summary.IngestionRun, error) {
	repo, err := s.readRepo()
	if err != nil {
		return nil, err
	}
	return repo.ListRuns(ctx, limit)
}
