package querybuilder

import "testing"

func TestSelectBuilder(t *testing.T) {
	query, args, err := Select("player_id", "player_name").
		From("players").
		Where(Eq("competition_id", 2), Gte("minutes", 450), IsNull("deleted_at")).
		OrderBy("player_name").
		Limit(10).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT player_id, player_name FROM players WHERE competition_id = ? AND minutes >= ? AND deleted_at IS NULL ORDER BY player_name LIMIT 10"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != 2 || args[1] != 450 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilderInAndExpr(t *testing.T) {
	query, args, err := Select("season_id").
		From("competitions").
		Where(
			In("competition_id", []any{2, 11}),
			Expr("LOWER(competition_name) = ?", "premier league"),
		).
		GroupBy("season_id").
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT season_id FROM competitions WHERE competition_id IN (?, ?) AND LOWER(competition_name) = ? GROUP BY season_id"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 3 || args[2] != "premier league" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilderEmptyIn(t *testing.T) {
	query, args, err := Select("id").
		From("teams").
		Where(In("team_id", nil)).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT id FROM teams WHERE 1=0"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 0 {
		t.Fatalf("expected no args, got %+v", args)
	}
}

func TestInsertBuilderWithUpsertSuffix(t *testing.T) {
	query, args, err := InsertInto("player_season_summary").
		Columns("competition_id", "season_id", "player_id", "minutes").
		Values(2, 317, 10172, 1890).
		Suffix("ON CONFLICT (competition_id, season_id, player_id) DO UPDATE SET minutes = excluded.minutes").
		ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO player_season_summary (competition_id, season_id, player_id, minutes) VALUES (?, ?, ?, ?) ON CONFLICT (competition_id, season_id, player_id) DO UPDATE SET minutes = excluded.minutes"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 4 || args[3] != 1890 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertBuilderRowMismatch(t *testing.T) {
	_, _, err := InsertInto("teams").
		Columns("team_id", "team_name").
		Values(1).
		ToSQL()
	if err == nil {
		t.Fatal("expected error for mismatched row width")
	}
}

func TestUpdateBuilder(t *testing.T) {
	query, args, err := Update("ingestion_runs").
		Set("status", "success").
		SetExpr("completed_at", "CURRENT_TIMESTAMP").
		Where(Eq("run_id", 7)).
		ToSQL()
	if err != nil {
		t.Fatalf("build update query: %v", err)
	}

	wantQuery := "UPDATE ingestion_runs SET status = ?, completed_at = CURRENT_TIMESTAMP WHERE run_id = ?"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "success" || args[1] != 7 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestDeleteBuilder(t *testing.T) {
	query, args, err := DeleteFrom("player_metric_percentile").
		Where(Eq("competition_id", 2), Eq("season_id", 317)).
		ToSQL()
	if err != nil {
		t.Fatalf("build delete query: %v", err)
	}

	wantQuery := "DELETE FROM player_metric_percentile WHERE competition_id = ? AND season_id = ?"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 {
		t.Fatalf("unexpected args: %+v", args)
	}

	if _, _, err := DeleteFrom("player_metric_percentile").ToSQL(); err == nil {
		t.Fatal("expected error for delete without conditions")
	}
}

func TestInsertModel(t *testing.T) {
	type row struct {
		ID   int64  `db:"id"`
		Name string `db:"name"`
		Skip string `db:"-"`
	}

	query, args, err := InsertModel("teams", row{ID: 21, Name: "Chelsea FCW"}, "")
	if err != nil {
		t.Fatalf("build insert from model: %v", err)
	}

	wantQuery := "INSERT INTO teams (id, name) VALUES (?, ?)"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != int64(21) || args[1] != "Chelsea FCW" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertModelFlattensEmbeddedFields(t *testing.T) {
	type seasonKey struct {
		CompetitionID int64 `db:"competition_id"`
		SeasonID      int64 `db:"season_id"`
	}
	type row struct {
		seasonKey
		Minutes float64 `db:"minutes"`
	}

	query, args, err := InsertModel("player_season_summary", row{
		seasonKey: seasonKey{CompetitionID: 2, SeasonID: 317},
		Minutes:   1980,
	}, "")
	if err != nil {
		t.Fatalf("build insert from model: %v", err)
	}

	wantQuery := "INSERT INTO player_season_summary (competition_id, season_id, minutes) VALUES (?, ?, ?)"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 3 || args[0] != int64(2) || args[1] != int64(317) || args[2] != float64(1980) {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestEqLiteral(t *testing.T) {
	query, args, err := Select("id").
		From("ingestion_runs").
		Where(EqLiteral("status", "running")).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT id FROM ingestion_runs WHERE status = 'running'"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 0 {
		t.Fatalf("expected no args, got %+v", args)
	}
}
