package summary

import (
	"fmt"
	"sort"
	"strings"
)

// ComputePercentiles ranks each value against the whole slice. A value's
// percentile is the share of values at or equal to it, so the best of n
// distinct values scores 100 and the worst 100/n. Ties share a rank, and a
// single value always scores 100.
func ComputePercentiles(values []float64) []float64 {
	if len(values) == 0 {
		return nil
	}
	if len(values) == 1 {
		return []float64{100}
	}
	ranked := append([]float64(nil), values...)
	sort.Float64s(ranked)
	total := float64(len(ranked))

	percentiles := make([]float64, len(values))
	for i, value := range values {
		atOrBelow := sort.Search(len(ranked), func(j int) bool { return ranked[j] > value })
		percentiles[i] = float64(atOrBelow) / total * 100
	}
	return percentiles
}

// CohortKey builds the composite key percentile rows are stored under.
func CohortKey(competitionID, seasonID int64, suffix string) string {
	return fmt.Sprintf("%d:%d:%s", competitionID, seasonID, suffix)
}

// Cohort is one peer group percentiles are computed within.
type Cohort struct {
	Key     string
	Entries []Entry
}

// BuildCohorts emits the season-wide "all" cohort first, then one cohort per
// configured position bucket holding the entries whose listed position falls
// in the bucket's include set. Matching is case-insensitive.
func BuildCohorts(entries []Entry, buckets []PositionBucket, competitionID, seasonID int64) []Cohort {
	cohorts := []Cohort{{Key: CohortKey(competitionID, seasonID, "all"), Entries: entries}}
	for _, bucket := range buckets {
		if len(bucket.Include) == 0 {
			continue
		}
		include := make(map[string]struct{}, len(bucket.Include))
		for _, name := range bucket.Include {
			include[strings.ToLower(name)] = struct{}{}
		}
		var members []Entry
		for _, entry := range entries {
			if _, ok := include[strings.ToLower(entry.Position)]; ok {
				members = append(members, entry)
			}
		}
		cohorts = append(cohorts, Cohort{
			Key:     CohortKey(competitionID, seasonID, "position:"+bucket.Name),
			Entries: members,
		})
	}
	return cohorts
}

// ComputePercentileRows scores every metric within every cohort. The metric
// list is the union over all entries, so a player missing a metric simply
// drops out of that metric's field. Cohorts whose members carry no metrics
// at all are skipped.
func ComputePercentileRows(entries []Entry, cohorts []Cohort) []PercentileRow {
	names := gatherMetricNames(entries)
	if len(names) == 0 {
		return nil
	}

	var rows []PercentileRow
	for _, cohort := range cohorts {
		var scored []Entry
		for _, entry := range cohort.Entries {
			if len(entry.Metrics) > 0 {
				scored = append(scored, entry)
			}
		}
		if len(scored) == 0 {
			continue
		}
		for _, name := range names {
			var values []float64
			var players []int64
			for _, entry := range scored {
				if value, ok := entry.Metrics[name]; ok {
					values = append(values, value)
					players = append(players, entry.PlayerID)
				}
			}
			if len(values) == 0 {
				continue
			}
			percentiles := ComputePercentiles(values)
			for i, player := range players {
				rows = append(rows, PercentileRow{
					PlayerID:    player,
					MetricName:  name,
					CohortKey:   cohort.Key,
					Percentile:  percentiles[i],
					MetricValue: values[i],
				})
			}
		}
	}
	return rows
}

func gatherMetricNames(entries []Entry) []string {
	seen := make(map[string]struct{})
	for _, entry := range entries {
		for name := range entry.Metrics {
			seen[name] = struct{}{}
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
