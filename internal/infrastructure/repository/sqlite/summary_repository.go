package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/jmoiron/sqlx"

	"github.com/openfooty/statindex/internal/domain/summary"
	"github.com/openfooty/statindex/internal/platform/logging"
	qb "github.com/openfooty/statindex/internal/platform/querybuilder"
)

var summarySchema = []string{
	`CREATE TABLE IF NOT EXISTS player_season_summary (
		competition_id INTEGER NOT NULL,
		season_id INTEGER NOT NULL,
		season_label TEXT,
		player_id INTEGER NOT NULL,
		player_name TEXT NOT NULL,
		team_id INTEGER,
		team_name TEXT,
		position TEXT,
		minutes REAL,
		competition_name TEXT,
		metadata_json TEXT,
		last_updated TEXT NOT NULL,
		PRIMARY KEY (competition_id, season_id, player_id)
	)`,
	`CREATE TABLE IF NOT EXISTS player_season_metric (
		competition_id INTEGER NOT NULL,
		season_id INTEGER NOT NULL,
		player_id INTEGER NOT NULL,
		metric_name TEXT NOT NULL,
		metric_value REAL,
		updated_at TEXT NOT NULL,
		PRIMARY KEY (competition_id, season_id, player_id, metric_name)
	)`,
	`CREATE TABLE IF NOT EXISTS player_metric_percentile (
		competition_id INTEGER NOT NULL,
		season_id INTEGER NOT NULL,
		player_id INTEGER NOT NULL,
		metric_name TEXT NOT NULL,
		cohort_key TEXT NOT NULL,
		percentile REAL NOT NULL,
		metric_value REAL,
		updated_at TEXT NOT NULL,
		PRIMARY KEY (competition_id, season_id, player_id, metric_name, cohort_key)
	)`,
	`CREATE TABLE IF NOT EXISTS ingestion_runs (
		run_id INTEGER PRIMARY KEY AUTOINCREMENT,
		started_at TEXT NOT NULL,
		completed_at TEXT,
		status TEXT NOT NULL,
		config_path TEXT,
		details TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_player_summary_season
		ON player_season_summary (competition_id, season_id)`,
	`CREATE INDEX IF NOT EXISTS idx_player_metric_name
		ON player_season_metric (metric_name)`,
	`CREATE INDEX IF NOT EXISTS idx_percentile_metric
		ON player_metric_percentile (metric_name, cohort_key)`,
}

// Caches written before the position bucket columns existed are upgraded in
// place rather than rebuilt.
var summaryUpgradeColumns = []struct {
	table      string
	column     string
	definition string
}{
	{"player_season_summary", "position", "TEXT"},
	{"player_season_summary", "competition_name", "TEXT"},
	{"player_season_summary", "minutes", "REAL"},
	{"player_season_summary", "metadata_json", "TEXT"},
	{"player_season_summary", "primary_position", "TEXT"},
	{"player_season_summary", "secondary_position", "TEXT"},
	{"player_season_summary", "position_bucket", "TEXT"},
	{"ingestion_runs", "config_path", "TEXT"},
	{"ingestion_runs", "details", "TEXT"},
	{"player_metric_percentile", "metric_value", "REAL"},
}

type summaryInsertModel struct {
	CompetitionID     int64   `db:"competition_id"`
	SeasonID          int64   `db:"season_id"`
	SeasonLabel       string  `db:"season_label"`
	PlayerID          int64   `db:"player_id"`
	PlayerName        string  `db:"player_name"`
	TeamID            *int64  `db:"team_id"`
	TeamName          *string `db:"team_name"`
	Position          *string `db:"position"`
	PrimaryPosition   *string `db:"primary_position"`
	SecondaryPosition *string `db:"secondary_position"`
	PositionBucket    *string `db:"position_bucket"`
	Minutes           float64 `db:"minutes"`
	CompetitionName   *string `db:"competition_name"`
	MetadataJSON      *string `db:"metadata_json"`
	LastUpdated       string  `db:"last_updated"`
}

type metricInsertModel struct {
	CompetitionID int64   `db:"competition_id"`
	SeasonID      int64   `db:"season_id"`
	PlayerID      int64   `db:"player_id"`
	MetricName    string  `db:"metric_name"`
	MetricValue   float64 `db:"metric_value"`
	UpdatedAt     string  `db:"updated_at"`
}

type percentileInsertModel struct {
	CompetitionID int64   `db:"competition_id"`
	SeasonID      int64   `db:"season_id"`
	PlayerID      int64   `db:"player_id"`
	MetricName    string  `db:"metric_name"`
	CohortKey     string  `db:"cohort_key"`
	Percentile    float64 `db:"percentile"`
	MetricValue   float64 `db:"metric_value"`
	UpdatedAt     string  `db:"updated_at"`
}

type runModel struct {
	RunID       int64          `db:"run_id"`
	StartedAt   string         `db:"started_at"`
	CompletedAt sql.NullString `db:"completed_at"`
	Status      string         `db:"status"`
	ConfigPath  sql.NullString `db:"config_path"`
	Details     sql.NullString `db:"details"`
}

// SummaryRepository owns the season summary store: player rows, metric
// rows, percentile rows, and the ingestion run ledger.
type SummaryRepository struct {
	db     *sqlx.DB
	logger *logging.Logger
}

func NewSummaryRepository(db *sqlx.DB, logger *logging.Logger) *SummaryRepository {
	return &SummaryRepository{db: db, logger: logger}
}

func (r *SummaryRepository) EnsureSchema(ctx context.Context) error {
	for _, stmt := range summarySchema {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure summary schema: %w", err)
		}
	}
	for _, col := range summaryUpgradeColumns {
		r.ensureColumn(ctx, col.table, col.column, col.definition)
	}
	return nil
}

type tableColumn struct {
	CID          int            `db:"cid"`
	Name         string         `db:"name"`
	Type         string         `db:"type"`
	NotNull      int            `db:"notnull"`
	DefaultValue sql.NullString `db:"dflt_value"`
	PrimaryKey   int            `db:"pk"`
}

// ensureColumn is best effort: a failed upgrade is logged and the column is
// surfaced again by whichever statement needs it.
func (r *SummaryRepository) ensureColumn(ctx context.Context, table, column, definition string) {
	var columns []tableColumn
	if err := r.db.SelectContext(ctx, &columns, fmt.Sprintf("PRAGMA table_info(%s)", table)); err != nil {
		r.logger.WarnContext(ctx, "summary schema inspection failed", "table", table, "error", err)
		return
	}
	for _, col := range columns {
		if col.Name == column {
			return
		}
	}
	stmt := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", table, column, definition)
	if _, err := r.db.ExecContext(ctx, stmt); err != nil {
		r.logger.WarnContext(ctx, "summary column upgrade failed",
			"table", table, "column", column, "error", err)
	}
}

func (r *SummaryRepository) BeginRun(ctx context.Context, startedAt, configPath string) (int64, error) {
	query, args, err := qb.InsertInto("ingestion_runs").
		Columns("started_at", "status", "config_path", "details").
		Values(startedAt, summary.RunStatusRunning, nullString(configPath), nil).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build run insert: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("record ingestion run: %w", err)
	}
	runID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("read ingestion run id: %w", err)
	}
	return runID, nil
}

// CompleteRun closes a ledger row. Empty details keep whatever the run
// already recorded.
func (r *SummaryRepository) CompleteRun(ctx context.Context, runID int64, completedAt, status, details string) error {
	query, args, err := qb.Update("ingestion_runs").
		Set("completed_at", completedAt).
		Set("status", status).
		SetExpr("details", "COALESCE(?, details)", nullString(details)).
		Where(qb.Eq("run_id", runID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build run update: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("complete ingestion run %d: %w", runID, err)
	}
	return nil
}

func (r *SummaryRepository) UpsertEntries(ctx context.Context, entries []summary.Entry, updatedAt string) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin summary upsert: %w", err)
	}
	defer tx.Rollback()

	for _, entry := range entries {
		if err := upsertEntry(ctx, tx, entry, updatedAt); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit summary upsert: %w", err)
	}
	return nil
}

func upsertEntry(ctx context.Context, tx *sqlx.Tx, entry summary.Entry, updatedAt string) error {
	model := summaryInsertModel{
		CompetitionID:     entry.CompetitionID,
		SeasonID:          entry.SeasonID,
		SeasonLabel:       entry.SeasonLabel,
		PlayerID:          entry.PlayerID,
		PlayerName:        entry.PlayerName,
		TeamID:            entry.TeamID,
		TeamName:          optionalString(entry.TeamName),
		Position:          optionalString(entry.Position),
		PrimaryPosition:   optionalString(entry.PrimaryPosition),
		SecondaryPosition: optionalString(entry.SecondaryPosition),
		PositionBucket:    optionalString(entry.PositionBucket),
		Minutes:           entry.Minutes,
		CompetitionName:   optionalString(entry.CompetitionName),
		MetadataJSON:      optionalString(entry.MetadataJSON),
		LastUpdated:       updatedAt,
	}

	query, args, err := qb.InsertModel("player_season_summary", model, `ON CONFLICT (competition_id, season_id, player_id)
DO UPDATE SET
    season_label = EXCLUDED.season_label,
    player_name = EXCLUDED.player_name,
    team_id = EXCLUDED.team_id,
    team_name = EXCLUDED.team_name,
    position = EXCLUDED.position,
    primary_position = EXCLUDED.primary_position,
    secondary_position = EXCLUDED.secondary_position,
    position_bucket = EXCLUDED.position_bucket,
    minutes = EXCLUDED.minutes,
    competition_name = EXCLUDED.competition_name,
    metadata_json = EXCLUDED.metadata_json,
    last_updated = EXCLUDED.last_updated`)
	if err != nil {
		return fmt.Errorf("build summary upsert: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert summary for player %d: %w", entry.PlayerID, err)
	}

	for _, name := range sortedMetricNames(entry.Metrics) {
		metric := metricInsertModel{
			CompetitionID: entry.CompetitionID,
			SeasonID:      entry.SeasonID,
			PlayerID:      entry.PlayerID,
			MetricName:    name,
			MetricValue:   entry.Metrics[name],
			UpdatedAt:     updatedAt,
		}
		query, args, err := qb.InsertModel("player_season_metric", metric, `ON CONFLICT (competition_id, season_id, player_id, metric_name)
DO UPDATE SET
    metric_value = EXCLUDED.metric_value,
    updated_at = EXCLUDED.updated_at`)
		if err != nil {
			return fmt.Errorf("build metric upsert: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert metric %s for player %d: %w", name, entry.PlayerID, err)
		}
	}
	return nil
}

// ReplacePercentiles swaps the whole percentile slice for one season, so a
// rebuild never leaves rows from cohorts that no longer exist.
func (r *SummaryRepository) ReplacePercentiles(ctx context.Context, competitionID, seasonID int64, rows []summary.PercentileRow, updatedAt string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin percentile replace: %w", err)
	}
	defer tx.Rollback()

	query, args, err := qb.DeleteFrom("player_metric_percentile").
		Where(qb.Eq("competition_id", competitionID), qb.Eq("season_id", seasonID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build percentile delete: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("clear percentiles for competition %d season %d: %w", competitionID, seasonID, err)
	}

	for _, row := range rows {
		model := percentileInsertModel{
			CompetitionID: competitionID,
			SeasonID:      seasonID,
			PlayerID:      row.PlayerID,
			MetricName:    row.MetricName,
			CohortKey:     row.CohortKey,
			Percentile:    row.Percentile,
			MetricValue:   row.MetricValue,
			UpdatedAt:     updatedAt,
		}
		query, args, err := qb.InsertModel("player_metric_percentile", model, "")
		if err != nil {
			return fmt.Errorf("build percentile insert: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert percentile for player %d metric %s: %w", row.PlayerID, row.MetricName, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit percentile replace: %w", err)
	}
	return nil
}

func (r *SummaryRepository) ListRuns(ctx context.Context, limit int) ([]summary.IngestionRun, error) {
	query, args, err := qb.Select("run_id", "started_at", "completed_at", "status", "config_path", "details").
		From("ingestion_runs").
		OrderBy("run_id DESC").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build runs query: %w", err)
	}

	var rows []runModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list ingestion runs: %w", err)
	}

	runs := make([]summary.IngestionRun, 0, len(rows))
	for _, row := range rows {
		runs = append(runs, summary.IngestionRun{
			RunID:       row.RunID,
			StartedAt:   row.StartedAt,
			CompletedAt: row.CompletedAt.String,
			Status:      row.Status,
			ConfigPath:  row.ConfigPath.String,
			Details:     row.Details.String,
		})
	}
	return runs, nil
}

func sortedMetricNames(metrics map[string]float64) []string {
	names := make([]string, 0, len(metrics))
	for name := range metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
