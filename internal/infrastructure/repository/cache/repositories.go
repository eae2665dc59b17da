// Package cache decorates the ranking reader with an in-process TTL cache so
// hot leaderboard queries skip SQLite. The summary store is rebuilt by
// ingestion runs rather than mutated through this path, so entries are never
// invalidated here; they age out on the store's TTL.
package cache

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"github.com/openfooty/statindex/internal/domain/ranking"
	basecache "github.com/openfooty/statindex/internal/platform/cache"
)

type RankingReader struct {
	next  ranking.Reader
	cache *basecache.Store
}

var _ ranking.Reader = (*RankingReader)(nil)

func NewRankingReader(next ranking.Reader, cache *basecache.Store) *RankingReader {
	return &RankingReader{next: next, cache: cache}
}

func (r *RankingReader) MetricExists(ctx context.Context, metric string) (bool, error) {
	key := "ranking:metric:" + metric
	v, err := r.cache.Do(ctx, key, func() (any, error) {
		exists, err := r.next.MetricExists(ctx, metric)
		if err != nil {
			return nil, err
		}
		return exists, nil
	})
	if err != nil {
		return false, err
	}

	exists, _ := v.(bool)
	return exists, nil
}

func (r *RankingReader) ResolveCohortSuffix(ctx context.Context, bucket string) (string, error) {
	// The underlying lookup is case-insensitive, so the key can be too.
	key := "ranking:cohort:" + strings.ToLower(strings.TrimSpace(bucket))
	v, err := r.cache.Do(ctx, key, func() (any, error) {
		suffix, err := r.next.ResolveCohortSuffix(ctx, bucket)
		if err != nil {
			return nil, err
		}
		return suffix, nil
	})
	if err != nil {
		return "", err
	}

	suffix, _ := v.(string)
	return suffix, nil
}

func (r *RankingReader) Rank(ctx context.Context, query ranking.Query) ([]ranking.Row, error) {
	v, err := r.cache.Do(ctx, rankKey(query), func() (any, error) {
		rows, err := r.next.Rank(ctx, query)
		if err != nil {
			return nil, err
		}
		return append([]ranking.Row(nil), rows...), nil
	})
	if err != nil {
		return nil, err
	}

	rows, _ := v.([]ranking.Row)
	return append([]ranking.Row(nil), rows...), nil
}

func (r *RankingReader) Snapshot(ctx context.Context, query ranking.SnapshotQuery) ([]ranking.SnapshotRow, error) {
	v, err := r.cache.Do(ctx, snapshotKey(query), func() (any, error) {
		rows, err := r.next.Snapshot(ctx, query)
		if err != nil {
			return nil, err
		}
		return append([]ranking.SnapshotRow(nil), rows...), nil
	})
	if err != nil {
		return nil, err
	}

	rows, _ := v.([]ranking.SnapshotRow)
	return append([]ranking.SnapshotRow(nil), rows...), nil
}

func (r *RankingReader) ListMetrics(ctx context.Context, query ranking.MetricsQuery) ([]ranking.MetricInfo, error) {
	v, err := r.cache.Do(ctx, metricsKey(query), func() (any, error) {
		infos, err := r.next.ListMetrics(ctx, query)
		if err != nil {
			return nil, err
		}
		return append([]ranking.MetricInfo(nil), infos...), nil
	})
	if err != nil {
		return nil, err
	}

	infos, _ := v.([]ranking.MetricInfo)
	return append([]ranking.MetricInfo(nil), infos...), nil
}

func (r *RankingReader) ListCoverage(ctx context.Context, query ranking.CoverageQuery) ([]ranking.CoverageRow, error) {
	v, err := r.cache.Do(ctx, coverageKey(query), func() (any, error) {
		rows, err := r.next.ListCoverage(ctx, query)
		if err != nil {
			return nil, err
		}
		return append([]ranking.CoverageRow(nil), rows...), nil
	})
	if err != nil {
		return nil, err
	}

	rows, _ := v.([]ranking.CoverageRow)
	return append([]ranking.CoverageRow(nil), rows...), nil
}

func (r *RankingReader) ListPlayerNames(ctx context.Context, seasonLabel string) ([]string, error) {
	key := "ranking:player-names:" + seasonLabel
	v, err := r.cache.Do(ctx, key, func() (any, error) {
		names, err := r.next.ListPlayerNames(ctx, seasonLabel)
		if err != nil {
			return nil, err
		}
		return append([]string(nil), names...), nil
	})
	if err != nil {
		return nil, err
	}

	names, _ := v.([]string)
	return append([]string(nil), names...), nil
}

func rankKey(q ranking.Query) string {
	return strings.Join([]string{
		"ranking:rank",
		q.Metric,
		q.SeasonLabel,
		idsKey(q.CompetitionIDs),
		namesKey(q.CompetitionNames),
		minutesKey(q.MinMinutes),
		strings.ToLower(q.PositionBucket),
		q.CohortSuffix,
		strconv.FormatBool(q.Ascending),
		strconv.Itoa(q.Limit),
	}, "|")
}

func snapshotKey(q ranking.SnapshotQuery) string {
	return strings.Join([]string{
		"ranking:snapshot",
		strconv.FormatInt(q.PlayerID, 10),
		strings.ToLower(strings.TrimSpace(q.PlayerName)),
		q.SeasonLabel,
		idsKey(q.CompetitionIDs),
		namesKey(q.CompetitionNames),
		q.CohortSuffix,
		strconv.Itoa(q.Limit),
	}, "|")
}

func metricsKey(q ranking.MetricsQuery) string {
	return strings.Join([]string{
		"ranking:metrics",
		q.SeasonLabel,
		idsKey(q.CompetitionIDs),
		namesKey(q.CompetitionNames),
		strconv.Itoa(q.Limit),
	}, "|")
}

func coverageKey(q ranking.CoverageQuery) string {
	return strings.Join([]string{
		"ranking:coverage",
		idsKey(q.CompetitionIDs),
		namesKey(q.CompetitionNames),
		strconv.Itoa(q.Limit),
	}, "|")
}

// idsKey sorts before joining so filter order never splits the cache.
func idsKey(ids []int64) string {
	if len(ids) == 0 {
		return "-"
	}
	sorted := append([]int64(nil), ids...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	parts := make([]string, 0, len(sorted))
	for _, id := range sorted {
		parts = append(parts, strconv.FormatInt(id, 10))
	}
	return strings.Join(parts, ",")
}

func namesKey(names []string) string {
	if len(names) == 0 {
		return "-"
	}
	sorted := append([]string(nil), names...)
	sort.Strings(sorted)
	return strings.Join(sorted, ",")
}

func minutesKey(minutes *float64) string {
	if minutes == nil {
		return "-"
	}
	return strconv.FormatFloat(*minutes, 'g', -1, 64)
}
