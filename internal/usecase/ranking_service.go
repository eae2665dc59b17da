package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/openfooty/statindex/internal/domain/ranking"
	"github.com/openfooty/statindex/internal/platform/fuzzy"
	"github.com/openfooty/statindex/internal/platform/logging"
	"github.com/openfooty/statindex/internal/platform/namekey"
)

const (
	defaultRankLimit     = 10
	defaultSnapshotLimit = 12
	defaultListLimit     = 50
	maxQueryLimit        = 200
)

// RankRequest carries raw caller input for a leaderboard: the metric may be
// an alias and Competitions a comma list mixing ids and names.
type RankRequest struct {
	Metric         string
	SeasonLabel    string
	Competitions   string
	CompetitionID  int64
	MinMinutes     *float64
	PositionBucket string
	SortOrder      string
	Limit          int
}

// SnapshotRequest fetches one player's stored metric lines. PlayerName is
// matched exactly first and fuzzily against the season's player names when
// the exact spelling finds nothing.
type SnapshotRequest struct {
	PlayerID       int64
	PlayerName     string
	SeasonLabel    string
	Competitions   string
	CompetitionID  int64
	PositionBucket string
	Limit          int
}

type MetricsRequest struct {
	SeasonLabel   string
	Competitions  string
	CompetitionID int64
	Limit         int
}

type CoverageRequest struct {
	Competitions  string
	CompetitionID int64
	Limit         int
}

// Snapshot is a resolved player snapshot: the identity line plus one row
// per stored metric.
type Snapshot struct {
	PlayerID     int64
	PlayerName   string
	ResolvedFrom string
	Rows         []ranking.SnapshotRow
}

// RankingService answers read queries against the season summary store. It
// owns alias resolution and the unknown-metric distinction; everything
// below it deals in stored column names only.
type RankingService struct {
	reader ranking.Reader
	logger *logging.Logger
}

func NewRankingService(reader ranking.Reader, logger *logging.Logger) *RankingService {
	if logger == nil {
		logger = logging.Default()
	}

	return &RankingService{
		reader: reader,
		logger: logger,
	}
}

// Rank returns the leaderboard for one metric. An unknown metric reports
// ErrUnknownMetric so callers can tell it apart from a season with no rows.
func (s *RankingService) Rank(ctx context.Context, req RankRequest) ([]ranking.Row, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RankingService.Rank")
	defer span.End()

	if s.reader == nil {
		return nil, fmt.Errorf("%w: ranking reader is not configured", ErrDependencyUnavailable)
	}
	if strings.TrimSpace(req.Metric) == "" {
		return nil, fmt.Errorf("%w: metric is required", ErrInvalidInput)
	}
	if strings.TrimSpace(req.SeasonLabel) == "" {
		return nil, fmt.Errorf("%w: season label is required", ErrInvalidInput)
	}

	metric := ranking.NormalizeMetric(req.Metric)
	exists, err := s.reader.MetricExists(ctx, metric)
	if err != nil {
		return nil, fmt.Errorf("check metric %q: %w", metric, err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMetric, metric)
	}

	suffix, err := s.reader.ResolveCohortSuffix(ctx, req.PositionBucket)
	if err != nil {
		return nil, fmt.Errorf("resolve cohort: %w", err)
	}

	ids, names := competitionSelection(req.Competitions, req.CompetitionID)
	rows, err := s.reader.Rank(ctx, ranking.Query{
		Metric:           metric,
		SeasonLabel:      req.SeasonLabel,
		CompetitionIDs:   ids,
		CompetitionNames: names,
		MinMinutes:       req.MinMinutes,
		PositionBucket:   req.PositionBucket,
		CohortSuffix:     suffix,
		Ascending:        strings.EqualFold(req.SortOrder, "asc"),
		Limit:            clampLimit(req.Limit, defaultRankLimit),
	})
	if err != nil {
		return nil, fmt.Errorf("rank by %q: %w", metric, err)
	}
	return rows, nil
}

// Snapshot resolves a player and returns every stored metric line. A name
// that matches nothing exactly is retried once through the fuzzy matcher
// over the season's player names; ErrNotFound means both passes came up
// empty.
func (s *RankingService) Snapshot(ctx context.Context, req SnapshotRequest) (Snapshot, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RankingService.Snapshot")
	defer span.End()

	if s.reader == nil {
		return Snapshot{}, fmt.Errorf("%w: ranking reader is not configured", ErrDependencyUnavailable)
	}
	if strings.TrimSpace(req.SeasonLabel) == "" {
		return Snapshot{}, fmt.Errorf("%w: season label is required", ErrInvalidInput)
	}
	if req.PlayerID == 0 && strings.TrimSpace(req.PlayerName) == "" {
		return Snapshot{}, fmt.Errorf("%w: player id or player name is required", ErrInvalidInput)
	}

	suffix, err := s.reader.ResolveCohortSuffix(ctx, req.PositionBucket)
	if err != nil {
		return Snapshot{}, fmt.Errorf("resolve cohort: %w", err)
	}

	ids, names := competitionSelection(req.Competitions, req.CompetitionID)
	query := ranking.SnapshotQuery{
		PlayerID:         req.PlayerID,
		PlayerName:       strings.TrimSpace(req.PlayerName),
		SeasonLabel:      req.SeasonLabel,
		CompetitionIDs:   ids,
		CompetitionNames: names,
		CohortSuffix:     suffix,
		Limit:            clampLimit(req.Limit, defaultSnapshotLimit),
	}

	rows, err := s.reader.Snapshot(ctx, query)
	if err != nil {
		return Snapshot{}, fmt.Errorf("player snapshot: %w", err)
	}

	resolvedFrom := ""
	if len(rows) == 0 && query.PlayerName != "" {
		resolved, ok, err := s.resolvePlayerName(ctx, query.PlayerName, req.SeasonLabel)
		if err != nil {
			return Snapshot{}, err
		}
		if ok && !strings.EqualFold(resolved, query.PlayerName) {
			retry := query
			retry.PlayerName = resolved
			rows, err = s.reader.Snapshot(ctx, retry)
			if err != nil {
				return Snapshot{}, fmt.Errorf("player snapshot: %w", err)
			}
			resolvedFrom = query.PlayerName
		}
	}
	if len(rows) == 0 {
		return Snapshot{}, fmt.Errorf("%w: no cached season metrics match the requested player", ErrNotFound)
	}

	return Snapshot{
		PlayerID:     rows[0].PlayerID,
		PlayerName:   rows[0].PlayerName,
		ResolvedFrom: resolvedFrom,
		Rows:         rows,
	}, nil
}

// ListMetrics enumerates the metric columns stored for a season.
func (s *RankingService) ListMetrics(ctx context.Context, req MetricsRequest) ([]ranking.MetricInfo, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RankingService.ListMetrics")
	defer span.End()

	if s.reader == nil {
		return nil, fmt.Errorf("%w: ranking reader is not configured", ErrDependencyUnavailable)
	}
	if strings.TrimSpace(req.SeasonLabel) == "" {
		return nil, fmt.Errorf("%w: season label is required", ErrInvalidInput)
	}

	ids, names := competitionSelection(req.Competitions, req.CompetitionID)
	metrics, err := s.reader.ListMetrics(ctx, ranking.MetricsQuery{
		SeasonLabel:      req.SeasonLabel,
		CompetitionIDs:   ids,
		CompetitionNames: names,
		Limit:            clampLimit(req.Limit, defaultListLimit),
	})
	if err != nil {
		return nil, fmt.Errorf("list metrics: %w", err)
	}
	return metrics, nil
}

// ListCoverage lists the competition seasons the store currently holds.
func (s *RankingService) ListCoverage(ctx context.Context, req CoverageRequest) ([]ranking.CoverageRow, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RankingService.ListCoverage")
	defer span.End()

	if s.reader == nil {
		return nil, fmt.Errorf("%w: ranking reader is not configured", ErrDependencyUnavailable)
	}

	ids, names := competitionSelection(req.Competitions, req.CompetitionID)
	rows, err := s.reader.ListCoverage(ctx, ranking.CoverageQuery{
		CompetitionIDs:   ids,
		CompetitionNames: names,
		Limit:            clampLimit(req.Limit, defaultListLimit),
	})
	if err != nil {
		return nil, fmt.Errorf("list coverage: %w", err)
	}
	return rows, nil
}

// resolvePlayerName fuzzily matches a misspelt player name against every
// name stored for the season. This is a whole-index lookup, so a candidate
// below the strict cutoff is dropped rather than guessed at; returning the
// wrong player's numbers is worse than returning nothing.
func (s *RankingService) resolvePlayerName(ctx context.Context, name, seasonLabel string) (string, bool, error) {
	candidates, err := s.reader.ListPlayerNames(ctx, seasonLabel)
	if err != nil {
		return "", false, fmt.Errorf("list player names: %w", err)
	}
	if len(candidates) == 0 {
		return "", false, nil
	}

	keys := make([]string, 0, len(candidates))
	byKey := make(map[string]string, len(candidates))
	for _, candidate := range candidates {
		key := namekey.Canonicalize(candidate)
		if key == "" {
			continue
		}
		if _, dup := byKey[key]; !dup {
			byKey[key] = candidate
			keys = append(keys, key)
		}
	}

	best, ok := fuzzy.Closest(namekey.Canonicalize(name), keys, fuzzy.StrictThreshold)
	if !ok {
		return "", false, nil
	}
	resolved := byKey[best]
	s.logger.DebugContext(ctx, "fuzzy resolved player name",
		"requested", name,
		"resolved", resolved,
	)
	return resolved, true, nil
}

// competitionSelection folds the raw filter string and the single id
// parameter into the repository's filter lists.
func competitionSelection(raw string, competitionID int64) ([]int64, []string) {
	ids, names := ranking.ParseCompetitionFilters(raw)
	if competitionID > 0 {
		ids = append(ids, competitionID)
	}
	return ids, names
}

func clampLimit(limit, fallback int) int {
	if limit <= 0 {
		return fallback
	}
	if limit > maxQueryLimit {
		return maxQueryLimit
	}
	return limit
}
