package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/openfooty/statindex/internal/domain/ranking"
	qb "github.com/openfooty/statindex/internal/platform/querybuilder"
)

const rankSelectSQL = `SELECT s.player_id,
       s.player_name,
       s.team_name,
       s.competition_id,
       s.competition_name,
       s.season_label,
       s.position,
       s.primary_position,
       s.secondary_position,
       s.position_bucket,
       s.minutes,
       m.metric_value,
       p.percentile,
       p.cohort_key
  FROM player_season_summary s
  JOIN player_season_metric m
    ON m.competition_id = s.competition_id
   AND m.season_id = s.season_id
   AND m.player_id = s.player_id
   AND m.metric_name = ?
  LEFT JOIN player_metric_percentile p
    ON p.competition_id = s.competition_id
   AND p.season_id = s.season_id
   AND p.player_id = s.player_id
   AND p.metric_name = ?
   AND p.cohort_key = CAST(s.competition_id AS TEXT) || ':' || CAST(s.season_id AS TEXT) || ':' || ?`

const snapshotSelectSQL = `SELECT s.player_id,
       s.player_name,
       s.team_name,
       s.position,
       s.minutes,
       s.competition_id,
       s.competition_name,
       m.metric_name,
       m.metric_value,
       p.percentile
  FROM player_season_summary s
  JOIN player_season_metric m
    ON m.competition_id = s.competition_id
   AND m.season_id = s.season_id
   AND m.player_id = s.player_id
  LEFT JOIN player_metric_percentile p
    ON p.competition_id = s.competition_id
   AND p.season_id = s.season_id
   AND p.player_id = s.player_id
   AND p.metric_name = m.metric_name
   AND p.cohort_key = CAST(s.competition_id AS TEXT) || ':' || CAST(s.season_id AS TEXT) || ':' || ?`

const metricsSelectSQL = `SELECT m.metric_name,
       COUNT(*) AS row_count
  FROM player_season_metric m
  JOIN player_season_summary s
    ON s.competition_id = m.competition_id
   AND s.season_id = m.season_id
   AND s.player_id = m.player_id`

const coverageSelectSQL = `SELECT s.competition_id,
       COALESCE(s.competition_name, '') AS competition_name,
       s.season_label,
       COUNT(*) AS player_count
  FROM player_season_summary s`

const cohortBucketsSQL = `SELECT DISTINCT substr(cohort_key, instr(cohort_key, ':position:') + length(':position:')) AS bucket_name
  FROM player_metric_percentile
 WHERE cohort_key LIKE '%:position:%'`

type rankModel struct {
	PlayerID          int64           `db:"player_id"`
	PlayerName        sql.NullString  `db:"player_name"`
	TeamName          sql.NullString  `db:"team_name"`
	CompetitionID     int64           `db:"competition_id"`
	CompetitionName   sql.NullString  `db:"competition_name"`
	SeasonLabel       sql.NullString  `db:"season_label"`
	Position          sql.NullString  `db:"position"`
	PrimaryPosition   sql.NullString  `db:"primary_position"`
	SecondaryPosition sql.NullString  `db:"secondary_position"`
	PositionBucket    sql.NullString  `db:"position_bucket"`
	Minutes           sql.NullFloat64 `db:"minutes"`
	MetricValue       sql.NullFloat64 `db:"metric_value"`
	Percentile        sql.NullFloat64 `db:"percentile"`
	CohortKey         sql.NullString  `db:"cohort_key"`
}

type snapshotModel struct {
	PlayerID        int64           `db:"player_id"`
	PlayerName      sql.NullString  `db:"player_name"`
	TeamName        sql.NullString  `db:"team_name"`
	Position        sql.NullString  `db:"position"`
	Minutes         sql.NullFloat64 `db:"minutes"`
	CompetitionID   int64           `db:"competition_id"`
	CompetitionName sql.NullString  `db:"competition_name"`
	MetricName      string          `db:"metric_name"`
	MetricValue     sql.NullFloat64 `db:"metric_value"`
	Percentile      sql.NullFloat64 `db:"percentile"`
}

type metricInfoModel struct {
	MetricName string `db:"metric_name"`
	RowCount   int64  `db:"row_count"`
}

type coverageModel struct {
	CompetitionID   int64          `db:"competition_id"`
	CompetitionName string         `db:"competition_name"`
	SeasonLabel     sql.NullString `db:"season_label"`
	PlayerCount     int64          `db:"player_count"`
}

// RankingRepository answers leaderboard and snapshot queries against the
// summary store. It only reads; the store is written by ingestion runs.
type RankingRepository struct {
	db *sqlx.DB
}

func NewRankingRepository(db *sqlx.DB) *RankingRepository {
	return &RankingRepository{db: db}
}

func (r *RankingRepository) MetricExists(ctx context.Context, metric string) (bool, error) {
	query, args, err := qb.Select("1").
		From("player_season_metric").
		Where(qb.Eq("metric_name", metric)).
		Limit(1).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build metric probe: %w", err)
	}

	var one int
	err = r.db.GetContext(ctx, &one, query, args...)
	if isNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, readError("check metric", err)
	}
	return true, nil
}

// ResolveCohortSuffix maps a requested position bucket onto the cohort
// suffix actually stored, matching case-insensitively against the bucket
// names present in the percentile table. An empty bucket selects the season
// wide cohort.
func (r *RankingRepository) ResolveCohortSuffix(ctx context.Context, bucket string) (string, error) {
	trimmed := strings.TrimSpace(bucket)
	if trimmed == "" {
		return "all", nil
	}

	var names []string
	if err := r.db.SelectContext(ctx, &names, cohortBucketsSQL); err != nil {
		return "", readError("list cohort buckets", err)
	}
	for _, name := range names {
		if strings.EqualFold(name, trimmed) {
			return "position:" + name, nil
		}
	}
	return "position:" + trimmed, nil
}

func (r *RankingRepository) Rank(ctx context.Context, query ranking.Query) ([]ranking.Row, error) {
	where := []string{"s.season_label = ?"}
	args := []any{query.Metric, query.Metric, query.CohortSuffix, query.SeasonLabel}
	where, args = competitionFilters(where, args, query.CompetitionIDs, query.CompetitionNames)
	if query.MinMinutes != nil {
		where = append(where, "s.minutes >= ?")
		args = append(args, *query.MinMinutes)
	}
	// A bucket-scoped board only makes sense for players scored in that
	// cohort, so unscored rows drop out.
	if query.PositionBucket != "" {
		where = append(where, "p.percentile IS NOT NULL")
	}

	direction := "DESC"
	if query.Ascending {
		direction = "ASC"
	}

	stmt := rankSelectSQL +
		"\n WHERE " + strings.Join(where, "\n   AND ") +
		"\n ORDER BY m.metric_value " + direction + ", s.minutes DESC" +
		"\n LIMIT ?"
	args = append(args, query.Limit)

	var rows []rankModel
	if err := r.db.SelectContext(ctx, &rows, stmt, args...); err != nil {
		return nil, readError("rank players", err)
	}

	out := make([]ranking.Row, 0, len(rows))
	for _, row := range rows {
		out = append(out, ranking.Row{
			PlayerID:          row.PlayerID,
			PlayerName:        row.PlayerName.String,
			TeamName:          row.TeamName.String,
			CompetitionID:     row.CompetitionID,
			CompetitionName:   row.CompetitionName.String,
			SeasonLabel:       row.SeasonLabel.String,
			Position:          row.Position.String,
			PrimaryPosition:   row.PrimaryPosition.String,
			SecondaryPosition: row.SecondaryPosition.String,
			PositionBucket:    row.PositionBucket.String,
			Minutes:           row.Minutes.Float64,
			MetricValue:       row.MetricValue.Float64,
			Percentile:        nullableFloat(row.Percentile),
			CohortKey:         row.CohortKey.String,
		})
	}
	return out, nil
}

func (r *RankingRepository) Snapshot(ctx context.Context, query ranking.SnapshotQuery) ([]ranking.SnapshotRow, error) {
	where := []string{"s.season_label = ?"}
	args := []any{query.CohortSuffix, query.SeasonLabel}
	if query.PlayerID != 0 {
		where = append(where, "s.player_id = ?")
		args = append(args, query.PlayerID)
	} else if query.PlayerName != "" {
		where = append(where, "LOWER(s.player_name) = ?")
		args = append(args, strings.ToLower(strings.TrimSpace(query.PlayerName)))
	}
	where, args = competitionFilters(where, args, query.CompetitionIDs, query.CompetitionNames)

	stmt := snapshotSelectSQL +
		"\n WHERE " + strings.Join(where, "\n   AND ") +
		"\n ORDER BY p.percentile DESC NULLS LAST, m.metric_value DESC" +
		"\n LIMIT ?"
	args = append(args, query.Limit)

	var rows []snapshotModel
	if err := r.db.SelectContext(ctx, &rows, stmt, args...); err != nil {
		return nil, readError("load player snapshot", err)
	}

	out := make([]ranking.SnapshotRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, ranking.SnapshotRow{
			PlayerID:        row.PlayerID,
			PlayerName:      row.PlayerName.String,
			TeamName:        row.TeamName.String,
			Position:        row.Position.String,
			Minutes:         row.Minutes.Float64,
			CompetitionID:   row.CompetitionID,
			CompetitionName: row.CompetitionName.String,
			MetricName:      row.MetricName,
			MetricValue:     nullableFloat(row.MetricValue),
			Percentile:      nullableFloat(row.Percentile),
		})
	}
	return out, nil
}

func (r *RankingRepository) ListMetrics(ctx context.Context, query ranking.MetricsQuery) ([]ranking.MetricInfo, error) {
	where := []string{"s.season_label = ?"}
	args := []any{query.SeasonLabel}
	where, args = competitionFilters(where, args, query.CompetitionIDs, query.CompetitionNames)

	stmt := metricsSelectSQL +
		"\n WHERE " + strings.Join(where, "\n   AND ") +
		"\n GROUP BY m.metric_name" +
		"\n ORDER BY m.metric_name" +
		"\n LIMIT ?"
	args = append(args, query.Limit)

	var rows []metricInfoModel
	if err := r.db.SelectContext(ctx, &rows, stmt, args...); err != nil {
		return nil, readError("list metrics", err)
	}

	out := make([]ranking.MetricInfo, 0, len(rows))
	for _, row := range rows {
		out = append(out, ranking.MetricInfo{Name: row.MetricName, Rows: row.RowCount})
	}
	return out, nil
}

func (r *RankingRepository) ListCoverage(ctx context.Context, query ranking.CoverageQuery) ([]ranking.CoverageRow, error) {
	var where []string
	var args []any
	where, args = competitionFilters(where, args, query.CompetitionIDs, query.CompetitionNames)

	stmt := coverageSelectSQL
	if len(where) > 0 {
		stmt += "\n WHERE " + strings.Join(where, "\n   AND ")
	}
	stmt += "\n GROUP BY s.competition_id, s.competition_name, s.season_label" +
		"\n ORDER BY s.season_label DESC, s.competition_id" +
		"\n LIMIT ?"
	args = append(args, query.Limit)

	var rows []coverageModel
	if err := r.db.SelectContext(ctx, &rows, stmt, args...); err != nil {
		return nil, readError("list coverage", err)
	}

	out := make([]ranking.CoverageRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, ranking.CoverageRow{
			CompetitionID:   row.CompetitionID,
			CompetitionName: row.CompetitionName,
			SeasonLabel:     row.SeasonLabel.String,
			PlayerCount:     row.PlayerCount,
		})
	}
	return out, nil
}

// ListPlayerNames returns the distinct player names stored for a season,
// for fuzzy recovery when an exact snapshot lookup finds nothing.
func (r *RankingRepository) ListPlayerNames(ctx context.Context, seasonLabel string) ([]string, error) {
	query, args, err := qb.Select("DISTINCT player_name").
		From("player_season_summary").
		Where(qb.Eq("season_label", seasonLabel)).
		OrderBy("player_name").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build player name query: %w", err)
	}

	var names []string
	if err := r.db.SelectContext(ctx, &names, query, args...); err != nil {
		return nil, readError("list player names", err)
	}
	return names, nil
}

// competitionFilters appends the optional competition constraints shared by
// every read query. Name matches are case-insensitive.
func competitionFilters(where []string, args []any, ids []int64, names []string) ([]string, []any) {
	if len(ids) > 0 {
		where = append(where, "s.competition_id IN ("+placeholders(len(ids))+")")
		for _, id := range ids {
			args = append(args, id)
		}
	}
	if len(names) > 0 {
		where = append(where, "LOWER(s.competition_name) IN ("+placeholders(len(names))+")")
		for _, name := range names {
			args = append(args, strings.ToLower(name))
		}
	}
	return where, args
}

func nullableFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
