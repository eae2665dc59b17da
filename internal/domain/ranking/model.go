// Package ranking models the read-side queries answered from the season
// summary store: leaderboards, player snapshots and coverage probes.
package ranking

// Query selects a leaderboard for one metric. Metric must already be the
// stored column name and CohortSuffix an existing cohort, see NormalizeMetric
// and Reader.ResolveCohortSuffix.
type Query struct {
	Metric           string
	SeasonLabel      string
	CompetitionIDs   []int64
	CompetitionNames []string
	MinMinutes       *float64
	PositionBucket   string
	CohortSuffix     string
	Ascending        bool
	Limit            int
}

// Row is one leaderboard line. Percentile is nil when the player's cohort
// was never scored for the metric.
type Row struct {
	PlayerID          int64
	PlayerName        string
	TeamName          string
	CompetitionID     int64
	CompetitionName   string
	SeasonLabel       string
	Position          string
	PrimaryPosition   string
	SecondaryPosition string
	PositionBucket    string
	Minutes           float64
	MetricValue       float64
	Percentile        *float64
	CohortKey         string
}

// SnapshotQuery fetches every stored metric for one player season. Exactly
// one of PlayerID or PlayerName must be set; a zero PlayerID means unset.
type SnapshotQuery struct {
	PlayerID         int64
	PlayerName       string
	SeasonLabel      string
	CompetitionIDs   []int64
	CompetitionNames []string
	CohortSuffix     string
	Limit            int
}

// SnapshotRow is one metric line of a player snapshot.
type SnapshotRow struct {
	PlayerID        int64
	PlayerName      string
	TeamName        string
	Position        string
	Minutes         float64
	CompetitionID   int64
	CompetitionName string
	MetricName      string
	MetricValue     *float64
	Percentile      *float64
}

// MetricsQuery enumerates the metric columns stored for a season.
type MetricsQuery struct {
	SeasonLabel      string
	CompetitionIDs   []int64
	CompetitionNames []string
	Limit            int
}

// MetricInfo is one stored metric column and the number of rows carrying it.
type MetricInfo struct {
	Name string
	Rows int64
}

// CoverageQuery lists which competition seasons the store currently holds.
type CoverageQuery struct {
	CompetitionIDs   []int64
	CompetitionNames []string
	Limit            int
}

// CoverageRow is one cached competition season and its player count.
type CoverageRow struct {
	CompetitionID   int64
	CompetitionName string
	SeasonLabel     string
	PlayerCount     int64
}
