package sqlite

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/openfooty/statindex/internal/domain/catalog"
	"github.com/openfooty/statindex/internal/platform/logging"
)

var searchSchema = []string{
	`CREATE TABLE competitions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		competition_id INTEGER NOT NULL,
		season_id INTEGER NOT NULL,
		competition_name TEXT NOT NULL,
		season_name TEXT NOT NULL,
		competition_category TEXT NOT NULL,
		country TEXT,
		competition_stage TEXT,
		UNIQUE (competition_id, season_id)
	)`,
	`CREATE TABLE teams (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		team_id INTEGER NOT NULL,
		team_name TEXT NOT NULL,
		competition_id INTEGER NOT NULL,
		season_id INTEGER NOT NULL,
		season_name TEXT NOT NULL,
		competition_name TEXT NOT NULL,
		competition_category TEXT NOT NULL,
		UNIQUE (team_id, competition_id, season_id)
	)`,
	`CREATE TABLE players (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		player_id INTEGER NOT NULL,
		player_name TEXT NOT NULL,
		competition_id INTEGER NOT NULL,
		season_id INTEGER NOT NULL,
		team_id INTEGER,
		team_name TEXT,
		season_name TEXT NOT NULL,
		competition_name TEXT NOT NULL,
		competition_category TEXT NOT NULL,
		position TEXT,
		minutes REAL,
		UNIQUE (player_id, competition_id, season_id)
	)`,
	`CREATE TABLE matches (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		match_id INTEGER NOT NULL,
		competition_id INTEGER NOT NULL,
		season_id INTEGER NOT NULL,
		competition_name TEXT NOT NULL,
		season_name TEXT NOT NULL,
		match_date TEXT,
		kick_off TEXT,
		stadium_name TEXT,
		home_team_id INTEGER,
		home_team_name TEXT,
		away_team_id INTEGER,
		away_team_name TEXT,
		home_score INTEGER,
		away_score INTEGER,
		competition_stage TEXT,
		UNIQUE (match_id)
	)`,
	`CREATE TABLE match_players (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		match_id INTEGER NOT NULL,
		player_id INTEGER NOT NULL,
		team_id INTEGER,
		competition_id INTEGER NOT NULL,
		season_id INTEGER NOT NULL,
		competition_name TEXT NOT NULL,
		season_name TEXT NOT NULL,
		player_name TEXT,
		team_name TEXT,
		position TEXT,
		jersey_number TEXT,
		is_starter INTEGER,
		minutes_played REAL,
		UNIQUE (match_id, player_id, team_id)
	)`,
	`CREATE VIRTUAL TABLE competitions_fts USING fts5(
		competition_name, season_name, competition_category,
		content='competitions', content_rowid='id',
		tokenize='unicode61 remove_diacritics 2'
	)`,
	`CREATE VIRTUAL TABLE teams_fts USING fts5(
		team_name, competition_name, season_name,
		content='teams', content_rowid='id',
		tokenize='unicode61 remove_diacritics 2'
	)`,
	`CREATE VIRTUAL TABLE players_fts USING fts5(
		player_name, team_name, competition_name,
		content='players', content_rowid='id',
		tokenize='unicode61 remove_diacritics 2'
	)`,
}

var ftsPopulateStatements = []string{
	`INSERT INTO competitions_fts (rowid, competition_name, season_name, competition_category)
		SELECT id, competition_name, season_name, competition_category FROM competitions`,
	`INSERT INTO teams_fts (rowid, team_name, competition_name, season_name)
		SELECT id, team_name, competition_name, season_name FROM teams`,
	`INSERT INTO players_fts (rowid, player_name, team_name, competition_name)
		SELECT id, player_name, team_name, competition_name FROM players`,
}

var searchIndexStatements = []string{
	`CREATE INDEX idx_competitions_comp_season ON competitions (competition_id, season_id)`,
	`CREATE INDEX idx_teams_comp_season ON teams (competition_id, season_id)`,
	`CREATE INDEX idx_teams_name ON teams (team_name COLLATE NOCASE)`,
	`CREATE INDEX idx_players_comp_season ON players (competition_id, season_id)`,
	`CREATE INDEX idx_players_team ON players (team_id, competition_id, season_id)`,
	`CREATE INDEX idx_players_name ON players (player_name COLLATE NOCASE)`,
	`CREATE INDEX idx_matches_comp_season ON matches (competition_id, season_id)`,
	`CREATE INDEX idx_matches_team ON matches (home_team_id, away_team_id)`,
	`CREATE INDEX idx_match_players_match ON match_players (match_id)`,
	`CREATE INDEX idx_match_players_player ON match_players (player_id)`,
}

const (
	insertCompetitionSQL = `INSERT OR IGNORE INTO competitions
		(competition_id, season_id, competition_name, season_name, competition_category, country, competition_stage)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	insertTeamSQL = `INSERT OR IGNORE INTO teams
		(team_id, team_name, competition_id, season_id, season_name, competition_name, competition_category)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	insertPlayerSQL = `INSERT OR IGNORE INTO players
		(player_id, player_name, competition_id, season_id, team_id, team_name, season_name, competition_name, competition_category, position, minutes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	insertMatchSQL = `INSERT OR IGNORE INTO matches
		(match_id, competition_id, season_id, competition_name, season_name, match_date, kick_off, stadium_name, home_team_id, home_team_name, away_team_id, away_team_name, home_score, away_score, competition_stage)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	insertMatchPlayerSQL = `INSERT OR IGNORE INTO match_players
		(match_id, player_id, team_id, competition_id, season_id, competition_name, season_name, player_name, team_name, position, jersey_number, is_starter, minutes_played)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
)

// Fixtures in any other non-empty provider status are not indexed.
var indexableMatchStatuses = map[string]struct{}{
	"available": {},
	"played":    {},
	"postponed": {},
}

// IndexWriter rebuilds the relational search database from a finalized
// graph. Rebuilds are wholesale: the previous file is removed and every
// table reloaded inside one transaction, with the full text tables
// populated and the lookup indexes created after the bulk load.
type IndexWriter struct {
	path   string
	logger *logging.Logger
}

func NewIndexWriter(path string, logger *logging.Logger) *IndexWriter {
	return &IndexWriter{path: path, logger: logger}
}

func (w *IndexWriter) Rebuild(ctx context.Context, graph *catalog.Graph) error {
	if err := removeDatabase(w.path); err != nil {
		return err
	}

	db, err := Open(w.path)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin search index transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range searchSchema {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create search schema: %w", err)
		}
	}

	counts, err := w.loadGraph(ctx, tx, graph)
	if err != nil {
		return err
	}

	for _, stmt := range ftsPopulateStatements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("populate full text tables: %w", err)
		}
	}
	for _, stmt := range searchIndexStatements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create search indexes: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit search index: %w", err)
	}

	w.logger.InfoContext(ctx, "search index rebuilt",
		"path", w.path,
		"competitions", counts.competitions,
		"teams", counts.teams,
		"players", counts.players,
		"matches", counts.matches,
		"match_players", counts.matchPlayers,
	)
	return nil
}

type indexCounts struct {
	competitions int
	teams        int
	players      int
	matches      int
	matchPlayers int
}

func (w *IndexWriter) loadGraph(ctx context.Context, tx *sqlx.Tx, graph *catalog.Graph) (indexCounts, error) {
	var counts indexCounts
	var err error

	if counts.competitions, err = w.loadCompetitions(ctx, tx, graph); err != nil {
		return counts, err
	}
	if counts.teams, err = w.loadTeams(ctx, tx, graph); err != nil {
		return counts, err
	}
	if counts.players, err = w.loadPlayers(ctx, tx, graph); err != nil {
		return counts, err
	}
	if counts.matches, err = w.loadMatches(ctx, tx, graph); err != nil {
		return counts, err
	}
	if counts.matchPlayers, err = w.loadMatchPlayers(ctx, tx, graph); err != nil {
		return counts, err
	}
	return counts, nil
}

// loadCompetitions writes one row per (competition, season) pair so season
// labels stay searchable alongside the competition name.
func (w *IndexWriter) loadCompetitions(ctx context.Context, tx *sqlx.Tx, graph *catalog.Graph) (int, error) {
	stmt, err := tx.PreparexContext(ctx, insertCompetitionSQL)
	if err != nil {
		return 0, fmt.Errorf("prepare competitions insert: %w", err)
	}
	defer stmt.Close()

	rows := 0
	for _, compID := range sortedKeys(graph.Competitions) {
		comp := graph.Competitions[compID]
		for _, seasonID := range comp.Seasons.Sorted() {
			season, ok := graph.Seasons[seasonID]
			if !ok {
				continue
			}
			_, err := stmt.ExecContext(ctx,
				comp.ID, season.ID, comp.Name, season.Name,
				comp.Category, nullString(comp.Country), "")
			if err != nil {
				return rows, fmt.Errorf("insert competition %d season %d: %w", comp.ID, season.ID, err)
			}
			rows++
		}
	}
	return rows, nil
}

func (w *IndexWriter) loadTeams(ctx context.Context, tx *sqlx.Tx, graph *catalog.Graph) (int, error) {
	stmt, err := tx.PreparexContext(ctx, insertTeamSQL)
	if err != nil {
		return 0, fmt.Errorf("prepare teams insert: %w", err)
	}
	defer stmt.Close()

	rows := 0
	for _, row := range graph.TeamSeasons {
		season, comp, ok := seasonContext(graph, row.CompetitionID, row.SeasonID)
		if !ok {
			continue
		}
		_, err := stmt.ExecContext(ctx,
			row.TeamID, row.TeamName, row.CompetitionID, row.SeasonID,
			season.Name, comp.Name, comp.Category)
		if err != nil {
			return rows, fmt.Errorf("insert team %d season %d: %w", row.TeamID, row.SeasonID, err)
		}
		rows++
	}
	return rows, nil
}

func (w *IndexWriter) loadPlayers(ctx context.Context, tx *sqlx.Tx, graph *catalog.Graph) (int, error) {
	stmt, err := tx.PreparexContext(ctx, insertPlayerSQL)
	if err != nil {
		return 0, fmt.Errorf("prepare players insert: %w", err)
	}
	defer stmt.Close()

	rows := 0
	for _, row := range graph.PlayerSeasons {
		season, comp, ok := seasonContext(graph, row.CompetitionID, row.SeasonID)
		if !ok {
			continue
		}
		_, err := stmt.ExecContext(ctx,
			row.PlayerID, row.PlayerName, row.CompetitionID, row.SeasonID,
			row.TeamID, nullString(row.TeamName), season.Name, comp.Name,
			comp.Category, nullString(row.Position), row.Minutes)
		if err != nil {
			return rows, fmt.Errorf("insert player %d season %d: %w", row.PlayerID, row.SeasonID, err)
		}
		rows++
	}
	return rows, nil
}

func (w *IndexWriter) loadMatches(ctx context.Context, tx *sqlx.Tx, graph *catalog.Graph) (int, error) {
	stmt, err := tx.PreparexContext(ctx, insertMatchSQL)
	if err != nil {
		return 0, fmt.Errorf("prepare matches insert: %w", err)
	}
	defer stmt.Close()

	rows := 0
	for _, matchID := range sortedKeys(graph.Matches) {
		match := graph.Matches[matchID]
		if !matchStatusIndexable(match.Status) {
			continue
		}
		season, comp, ok := seasonContext(graph, match.CompetitionID, match.SeasonID)
		if !ok {
			continue
		}
		_, err := stmt.ExecContext(ctx,
			match.ID, match.CompetitionID, match.SeasonID, comp.Name, season.Name,
			nullString(match.MatchDate), nullString(match.KickOff), nullString(match.Stadium),
			match.HomeTeamID, nullString(match.HomeTeamName),
			match.AwayTeamID, nullString(match.AwayTeamName),
			match.HomeScore, match.AwayScore, nullString(match.Stage))
		if err != nil {
			return rows, fmt.Errorf("insert match %d: %w", match.ID, err)
		}
		rows++
	}
	return rows, nil
}

func (w *IndexWriter) loadMatchPlayers(ctx context.Context, tx *sqlx.Tx, graph *catalog.Graph) (int, error) {
	stmt, err := tx.PreparexContext(ctx, insertMatchPlayerSQL)
	if err != nil {
		return 0, fmt.Errorf("prepare match players insert: %w", err)
	}
	defer stmt.Close()

	rows := 0
	for _, appearance := range graph.Appearances {
		season, comp, ok := seasonContext(graph, appearance.CompetitionID, appearance.SeasonID)
		if !ok {
			continue
		}
		_, err := stmt.ExecContext(ctx,
			appearance.MatchID, appearance.PlayerID, appearance.TeamID,
			appearance.CompetitionID, appearance.SeasonID, comp.Name, season.Name,
			nullString(appearance.PlayerName), nullString(appearance.TeamName),
			nullString(appearance.Position), jerseyText(appearance.JerseyNumber),
			boolToInt(appearance.Starter), appearance.MinutesPlayed)
		if err != nil {
			return rows, fmt.Errorf("insert match player %d/%d: %w", appearance.MatchID, appearance.PlayerID, err)
		}
		rows++
	}
	return rows, nil
}

// matchStatusIndexable reports whether a fixture in the given provider
// status belongs in the index. The empty status is treated as indexable.
func matchStatusIndexable(status string) bool {
	status = strings.ToLower(strings.TrimSpace(status))
	if status == "" {
		return true
	}
	_, ok := indexableMatchStatuses[status]
	return ok
}

// seasonContext resolves the graph nodes an index row denormalizes from.
// Rows pointing at a season or competition the graph never ingested are
// dropped.
func seasonContext(graph *catalog.Graph, competitionID, seasonID int64) (*catalog.Season, *catalog.Competition, bool) {
	season, ok := graph.Seasons[seasonID]
	if !ok {
		return nil, nil, false
	}
	comp, ok := graph.Competitions[competitionID]
	if !ok {
		return nil, nil, false
	}
	return season, comp, true
}

func removeDatabase(path string) error {
	for _, p := range []string{path, path + "-wal", path + "-shm"} {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove previous index file %s: %w", p, err)
		}
	}
	return nil
}

func sortedKeys[V any](m map[int64]V) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func jerseyText(number *int64) any {
	if number == nil {
		return nil
	}
	return strconv.FormatInt(*number, 10)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
