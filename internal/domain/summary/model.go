// Package summary models per-player season aggregates and the percentile
// cohorts computed over them for the ranking surface.
package summary

// Entry is one player's aggregate line for one competition season. Metrics
// holds every numeric column the provider sent that is not an identity
// field, and MetadataJSON preserves the raw row for audits.
type Entry struct {
	CompetitionID     int64
	CompetitionName   string
	SeasonID          int64
	SeasonLabel       string
	PlayerID          int64
	PlayerName        string
	TeamID            *int64
	TeamName          string
	Position          string
	PrimaryPosition   string
	SecondaryPosition string
	PositionBucket    string
	Minutes           float64
	Metrics           map[string]float64
	MetadataJSON      string
}

// PercentileRow scores one player against one metric within one cohort.
type PercentileRow struct {
	PlayerID    int64
	MetricName  string
	CohortKey   string
	Percentile  float64
	MetricValue float64
}

// PositionBucket groups free-text position names into one percentile cohort.
// Buckets with an empty Include list are ignored.
type PositionBucket struct {
	Name    string
	Include []string
}

// SeasonScope pins the identity columns every entry of one refresh shares.
type SeasonScope struct {
	CompetitionID   int64
	CompetitionName string
	SeasonID        int64
	SeasonLabel     string
}

// IngestionRun is one line of the refresh ledger.
type IngestionRun struct {
	RunID       int64
	StartedAt   string
	CompletedAt string
	Status      string
	ConfigPath  string
	Details     string
}

const (
	RunStatusRunning = "running"
	RunStatusSuccess = "success"
	RunStatusFailed  = "failed"
)

// IngestResult reports what one competition season refresh touched.
type IngestResult struct {
	CompetitionID    int64
	CompetitionName  string
	SeasonID         int64
	SeasonLabel      string
	ProcessedPlayers int
	DryRun           bool
}
