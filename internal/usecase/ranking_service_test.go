package usecase

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/openfooty/statindex/internal/domain/ranking"
	"github.com/openfooty/statindex/internal/platform/logging"
)

func TestRankingService_Rank_NormalizesMetricAndFilters(t *testing.T) {
	t.Parallel()

	reader := &stubRankingReader{
		metrics: map[string]bool{"player_season_goals_90": true},
		rankRows: []ranking.Row{
			{PlayerID: 901, PlayerName: "Erling Haaland", MetricValue: 1.05},
		},
	}
	service := NewRankingService(reader, logging.NewNop())

	rows, err := service.Rank(context.Background(), RankRequest{
		Metric:         "goals",
		SeasonLabel:    "2024/2025",
		Competitions:   "epl, brasileirao",
		PositionBucket: "ST",
	})
	if err != nil {
		t.Fatalf("Rank error: %v", err)
	}
	if len(rows) != 1 || rows[0].PlayerID != 901 {
		t.Fatalf("unexpected rows: %+v", rows)
	}

	query := reader.lastRank
	if query.Metric != "player_season_goals_90" {
		t.Fatalf("metric alias not resolved: %q", query.Metric)
	}
	if len(query.CompetitionIDs) != 1 || query.CompetitionIDs[0] != 2 {
		t.Fatalf("competition alias not resolved to id: %v", query.CompetitionIDs)
	}
	if len(query.CompetitionNames) != 1 || query.CompetitionNames[0] != "brasileirao" {
		t.Fatalf("free-text competition lost: %v", query.CompetitionNames)
	}
	if query.Limit != defaultRankLimit {
		t.Fatalf("default limit not applied: %d", query.Limit)
	}
	if query.Ascending {
		t.Fatal("default sort order must be descending")
	}
	if query.CohortSuffix != "position:ST" {
		t.Fatalf("cohort suffix not resolved: %q", query.CohortSuffix)
	}
}

func TestRankingService_Rank_UnknownMetric(t *testing.T) {
	t.Parallel()

	reader := &stubRankingReader{metrics: map[string]bool{}}
	service := NewRankingService(reader, logging.NewNop())

	_, err := service.Rank(context.Background(), RankRequest{
		Metric:      "player_season_made_up_metric",
		SeasonLabel: "2024/2025",
	})
	if !errors.Is(err, ErrUnknownMetric) {
		t.Fatalf("expected ErrUnknownMetric, got %v", err)
	}
}

func TestRankingService_Rank_ValidatesInput(t *testing.T) {
	t.Parallel()

	service := NewRankingService(&stubRankingReader{}, logging.NewNop())

	if _, err := service.Rank(context.Background(), RankRequest{SeasonLabel: "2024/2025"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("missing metric: got %v", err)
	}
	if _, err := service.Rank(context.Background(), RankRequest{Metric: "goals"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("missing season: got %v", err)
	}
}

func TestRankingService_Snapshot_ExactName(t *testing.T) {
	t.Parallel()

	reader := &stubRankingReader{
		snapshots: map[string][]ranking.SnapshotRow{
			"Erling Haaland": {
				{PlayerID: 901, PlayerName: "Erling Haaland", MetricName: "player_season_goals_90"},
			},
		},
	}
	service := NewRankingService(reader, logging.NewNop())

	snap, err := service.Snapshot(context.Background(), SnapshotRequest{
		PlayerName:  "Erling Haaland",
		SeasonLabel: "2024/2025",
	})
	if err != nil {
		t.Fatalf("Snapshot error: %v", err)
	}
	if snap.PlayerID != 901 || snap.ResolvedFrom != "" {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
}

func TestRankingService_Snapshot_FuzzyNameRetry(t *testing.T) {
	t.Parallel()

	reader := &stubRankingReader{
		playerNames: []string{"Erling Haaland", "Rodri"},
		snapshots: map[string][]ranking.SnapshotRow{
			"Erling Haaland": {
				{PlayerID: 901, PlayerName: "Erling Haaland", MetricName: "player_season_goals_90"},
			},
		},
	}
	service := NewRankingService(reader, logging.NewNop())

	snap, err := service.Snapshot(context.Background(), SnapshotRequest{
		PlayerName:  "Erling Haalland",
		SeasonLabel: "2024/2025",
	})
	if err != nil {
		t.Fatalf("Snapshot error: %v", err)
	}
	if snap.PlayerName != "Erling Haaland" {
		t.Fatalf("fuzzy retry did not resolve the stored spelling: %+v", snap)
	}
	if snap.ResolvedFrom != "Erling Haalland" {
		t.Fatalf("requested spelling not reported: %+v", snap)
	}
}

func TestRankingService_Snapshot_NotFound(t *testing.T) {
	t.Parallel()

	reader := &stubRankingReader{playerNames: []string{"Rodri"}}
	service := NewRankingService(reader, logging.NewNop())

	_, err := service.Snapshot(context.Background(), SnapshotRequest{
		PlayerName:  "Erling Haaland",
		SeasonLabel: "2024/2025",
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRankingService_Snapshot_RequiresIdentity(t *testing.T) {
	t.Parallel()

	service := NewRankingService(&stubRankingReader{}, logging.NewNop())

	_, err := service.Snapshot(context.Background(), SnapshotRequest{SeasonLabel: "2024/2025"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestRankingService_ListMetricsAndCoverage(t *testing.T) {
	t.Parallel()

	reader := &stubRankingReader{
		metricInfos: []ranking.MetricInfo{{Name: "player_season_goals_90", Rows: 420}},
		coverage:    []ranking.CoverageRow{{CompetitionID: 2, SeasonLabel: "2024/2025", PlayerCount: 512}},
	}
	service := NewRankingService(reader, logging.NewNop())

	metrics, err := service.ListMetrics(context.Background(), MetricsRequest{SeasonLabel: "2024/2025", Limit: 1000})
	if err != nil {
		t.Fatalf("ListMetrics error: %v", err)
	}
	if len(metrics) != 1 || metrics[0].Rows != 420 {
		t.Fatalf("unexpected metrics: %+v", metrics)
	}
	if reader.lastMetrics.Limit != maxQueryLimit {
		t.Fatalf("oversized limit not capped: %d", reader.lastMetrics.Limit)
	}

	if _, err := service.ListMetrics(context.Background(), MetricsRequest{}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("missing season: got %v", err)
	}

	rows, err := service.ListCoverage(context.Background(), CoverageRequest{})
	if err != nil {
		t.Fatalf("ListCoverage error: %v", err)
	}
	if len(rows) != 1 || rows[0].PlayerCount != 512 {
		t.Fatalf("unexpected coverage: %+v", rows)
	}
}

type stubRankingReader struct {
	metrics     map[string]bool
	rankRows    []ranking.Row
	snapshots   map[string][]ranking.SnapshotRow
	playerNames []string
	metricInfos []ranking.MetricInfo
	coverage    []ranking.CoverageRow

	lastRank     ranking.Query
	lastSnapshot ranking.SnapshotQuery
	lastMetrics  ranking.MetricsQuery
	lastCoverage ranking.CoverageQuery
}

func (s *stubRankingReader) MetricExists(_ context.Context, metric string) (bool, error) {
	return s.metrics[metric], nil
}

func (s *stubRankingReader) ResolveCohortSuffix(_ context.Context, bucket string) (string, error) {
	if bucket == "" {
		return "all", nil
	}
	return "position:" + bucket, nil
}

func (s *stubRankingReader) Rank(_ context.Context, query ranking.Query) ([]ranking.Row, error) {
	s.lastRank = query
	out := make([]ranking.Row, len(s.rankRows))
	copy(out, s.rankRows)
	return out, nil
}

func (s *stubRankingReader) Snapshot(_ context.Context, query ranking.SnapshotQuery) ([]ranking.SnapshotRow, error) {
	s.lastSnapshot = query
	key := query.PlayerName
	if key == "" {
		key = strconv.FormatInt(query.PlayerID, 10)
	}
	rows := s.snapshots[key]
	out := make([]ranking.SnapshotRow, len(rows))
	copy(out, rows)
	return out, nil
}

func (s *stubRankingReader) ListMetrics(_ context.Context, query ranking.MetricsQuery) ([]ranking.MetricInfo, error) {
	s.lastMetrics = query
	out := make([]ranking.MetricInfo, len(s.metricInfos))
	copy(out, s.metricInfos)
	return out, nil
}

func (s *stubRankingReader) ListCoverage(_ context.Context, query ranking.CoverageQuery) ([]ranking.CoverageRow, error) {
	s.lastCoverage = query
	out := make([]ranking.CoverageRow, len(s.coverage))
	copy(out, s.coverage)
	return out, nil
}

func (s *stubRankingReader) ListPlayerNames(_ context.Context, _ string) ([]string, error) {
	out := make([]string, len(s.playerNames))
	copy(out, s.playerNames)
	return out, nil
}
