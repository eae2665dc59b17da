package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"

	"github.com/openfooty/statindex/internal/domain/catalog"
	"github.com/openfooty/statindex/internal/platform/logging"
)

func i64(v int64) *int64     { return &v }
func f64(v float64) *float64 { return &v }

func indexTestGraph() *catalog.Graph {
	g := catalog.NewGraph()
	g.ObserveCompetition(catalog.CompetitionObservation{
		ID:       37,
		Name:     "FA Women's Super League",
		Country:  "England",
		Format:   "league",
		Category: "club_league",
	})
	g.ObserveSeason(90, "2020/2021", 37, "FA Women's Super League")

	g.ObserveMatch(catalog.MatchObservation{
		MatchID:       3764440,
		CompetitionID: 37,
		SeasonID:      90,
		Date:          "2021-01-09",
		Status:        "available",
		KickOff:       "12:30:00.000",
		Stadium:       "Academy Stadium",
		Home:          catalog.TeamStub{ID: i64(746), Name: "Manchester City WFC"},
		Away:          catalog.TeamStub{ID: i64(971), Name: "Chelsea FCW"},
		HomeScore:     i64(2),
		AwayScore:     i64(2),
		Stage:         "Regular Season",
	})
	// Not yet played, must stay out of the index.
	g.ObserveMatch(catalog.MatchObservation{
		MatchID:       3764441,
		CompetitionID: 37,
		SeasonID:      90,
		Date:          "2021-05-02",
		Status:        "scheduled",
		Home:          catalog.TeamStub{ID: i64(746), Name: "Manchester City WFC"},
		Away:          catalog.TeamStub{ID: i64(965), Name: "Arsenal WFC"},
	})

	g.AddTeamSeason(catalog.TeamSeasonRow{TeamID: 746, TeamName: "Manchester City WFC", CompetitionID: 37, SeasonID: 90})
	g.AddTeamSeason(catalog.TeamSeasonRow{TeamID: 971, TeamName: "Chelsea FCW", CompetitionID: 37, SeasonID: 90})

	g.AddPlayerSeason(catalog.PlayerSeasonRow{
		PlayerID:      10172,
		PlayerName:    "Samantha Mewis",
		CompetitionID: 37,
		SeasonID:      90,
		TeamID:        i64(746),
		TeamName:      "Manchester City WFC",
		Position:      "Center Midfield",
		Minutes:       f64(1748),
	})
	g.AddPlayerSeason(catalog.PlayerSeasonRow{
		PlayerID:      15624,
		PlayerName:    "Zećira Mušović",
		CompetitionID: 37,
		SeasonID:      90,
		TeamID:        i64(971),
		TeamName:      "Chelsea FCW",
		Position:      "Goalkeeper",
		Minutes:       f64(630),
	})

	g.AddAppearance(catalog.MatchAppearance{
		MatchID:       3764440,
		PlayerID:      10172,
		TeamID:        i64(746),
		CompetitionID: 37,
		SeasonID:      90,
		PlayerName:    "Samantha Mewis",
		TeamName:      "Manchester City WFC",
		Position:      "Center Midfield",
		JerseyNumber:  i64(22),
		Starter:       true,
		MinutesPlayed: f64(90),
	})

	g.Finalize()
	return g
}

func rebuildIndex(t *testing.T, graph *catalog.Graph) *sqlx.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "search.db")
	writer := NewIndexWriter(path, logging.NewNop())
	if err := writer.Rebuild(context.Background(), graph); err != nil {
		t.Fatalf("expected rebuild to succeed, got=%v", err)
	}

	db, err := OpenReadOnly(path)
	if err != nil {
		t.Fatalf("expected index to open read-only, got=%v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func countRows(t *testing.T, db *sqlx.DB, table string) int {
	t.Helper()
	var n int
	if err := db.Get(&n, "SELECT COUNT(*) FROM "+table); err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}

func TestRebuildLoadsGraph(t *testing.T) {
	t.Parallel()

	db := rebuildIndex(t, indexTestGraph())

	if got := countRows(t, db, "competitions"); got != 1 {
		t.Fatalf("expected 1 competition row, got=%d", got)
	}
	if got := countRows(t, db, "teams"); got != 2 {
		t.Fatalf("expected 2 team rows, got=%d", got)
	}
	if got := countRows(t, db, "players"); got != 2 {
		t.Fatalf("expected 2 player rows, got=%d", got)
	}

	var country string
	if err := db.Get(&country, "SELECT country FROM competitions WHERE competition_id = 37"); err != nil {
		t.Fatalf("read competition country: %v", err)
	}
	if country != "England" {
		t.Fatalf("expected country England, got=%q", country)
	}

	var minutes float64
	if err := db.Get(&minutes, "SELECT minutes FROM players WHERE player_id = 10172"); err != nil {
		t.Fatalf("read player minutes: %v", err)
	}
	if minutes != 1748 {
		t.Fatalf("expected 1748 minutes, got=%v", minutes)
	}
}

func TestRebuildSkipsUnplayedMatches(t *testing.T) {
	t.Parallel()

	db := rebuildIndex(t, indexTestGraph())

	if got := countRows(t, db, "matches"); got != 1 {
		t.Fatalf("expected 1 match row, got=%d", got)
	}

	var matchID int64
	if err := db.Get(&matchID, "SELECT match_id FROM matches"); err != nil {
		t.Fatalf("read match id: %v", err)
	}
	if matchID != 3764440 {
		t.Fatalf("expected match 3764440, got=%d", matchID)
	}
}

func TestRebuildWritesAppearances(t *testing.T) {
	t.Parallel()

	db := rebuildIndex(t, indexTestGraph())

	var jersey string
	var isStarter int
	var minutesPlayed float64
	err := db.QueryRowx("SELECT jersey_number, is_starter, minutes_played FROM match_players WHERE player_id = 10172").
		Scan(&jersey, &isStarter, &minutesPlayed)
	if err != nil {
		t.Fatalf("read appearance: %v", err)
	}
	if jersey != "22" {
		t.Fatalf("expected jersey stored as text 22, got=%q", jersey)
	}
	if isStarter != 1 {
		t.Fatalf("expected starter flag 1, got=%d", isStarter)
	}
	if minutesPlayed != 90 {
		t.Fatalf("expected 90 minutes played, got=%v", minutesPlayed)
	}
}

func TestRebuildFullTextSearch(t *testing.T) {
	t.Parallel()

	db := rebuildIndex(t, indexTestGraph())

	var name string
	if err := db.Get(&name, "SELECT player_name FROM players_fts WHERE players_fts MATCH 'mewis'"); err != nil {
		t.Fatalf("expected full text hit for mewis, got=%v", err)
	}
	if name != "Samantha Mewis" {
		t.Fatalf("expected Samantha Mewis, got=%q", name)
	}

	var team string
	if err := db.Get(&team, "SELECT team_name FROM teams_fts WHERE teams_fts MATCH 'chelsea'"); err != nil {
		t.Fatalf("expected full text hit for chelsea, got=%v", err)
	}
	if team != "Chelsea FCW" {
		t.Fatalf("expected Chelsea FCW, got=%q", team)
	}

	// The tokenizer strips diacritics, so the plain-ASCII spelling hits too.
	var keeper string
	if err := db.Get(&keeper, "SELECT player_name FROM players_fts WHERE players_fts MATCH 'musovic'"); err != nil {
		t.Fatalf("expected diacritic-insensitive hit for musovic, got=%v", err)
	}
	if keeper != "Zećira Mušović" {
		t.Fatalf("expected Zećira Mušović, got=%q", keeper)
	}
}

func TestRebuildReplacesPreviousDatabase(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "search.db")
	writer := NewIndexWriter(path, logging.NewNop())

	if err := writer.Rebuild(context.Background(), indexTestGraph()); err != nil {
		t.Fatalf("first rebuild: %v", err)
	}

	replacement := catalog.NewGraph()
	replacement.ObserveCompetition(catalog.CompetitionObservation{
		ID: 2, Name: "Premier League", Country: "England", Format: "league", Category: "club_league",
	})
	replacement.ObserveSeason(317, "2023/2024", 2, "Premier League")
	replacement.Finalize()

	if err := writer.Rebuild(context.Background(), replacement); err != nil {
		t.Fatalf("second rebuild: %v", err)
	}

	db, err := OpenReadOnly(path)
	if err != nil {
		t.Fatalf("open rebuilt index: %v", err)
	}
	defer db.Close()

	var compID int64
	if err := db.Get(&compID, "SELECT competition_id FROM competitions"); err != nil {
		t.Fatalf("read competition: %v", err)
	}
	if compID != 2 {
		t.Fatalf("expected only competition 2 after rebuild, got=%d", compID)
	}
	if got := countRows(t, db, "players"); got != 0 {
		t.Fatalf("expected no player rows after rebuild, got=%d", got)
	}
}
