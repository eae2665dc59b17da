package catalog

import "testing"

func i64(v int64) *int64 { return &v }

func TestGraphMergesPlayerAcrossTeams(t *testing.T) {
	t.Parallel()

	g := NewGraph()
	g.ObserveCompetition(CompetitionObservation{ID: 37, Name: "FA Women's Super League", Country: "England", Format: "league"})
	g.ObserveSeason(90, "2020/2021", 37, "FA Women's Super League")

	g.ObserveLineupPlayer(LineupObservation{
		MatchID: 100, SeasonID: 90, TeamID: i64(746),
		PlayerID: 10172, PlayerName: "Jill Scott", Country: "England", Position: "Center Midfield",
	})
	g.ObserveLineupPlayer(LineupObservation{
		MatchID: 101, SeasonID: 90, TeamID: i64(971),
		PlayerID: 10172, PlayerName: "Jill Scott", Position: "Center Midfield",
	})

	if len(g.Players) != 1 {
		t.Fatalf("expected a single player node, got=%d", len(g.Players))
	}
	player := g.Players[10172]
	if !player.Teams.Has(746) || !player.Teams.Has(971) {
		t.Fatalf("expected both teams in the player team set, got %v", player.Teams.Sorted())
	}
	if !g.Rel.TeamToPlayers[746].Has(10172) || !g.Rel.TeamToPlayers[971].Has(10172) {
		t.Fatalf("team_to_players adjacency not mirrored")
	}
	if got := g.PlayerNames["jill scott"]; got != 10172 {
		t.Fatalf("name index lookup failed, got=%d", got)
	}
}

func TestGraphJerseyNumbersKeyedByTeamAndSeason(t *testing.T) {
	t.Parallel()

	g := NewGraph()
	g.ObserveLineupPlayer(LineupObservation{
		MatchID: 100, SeasonID: 90, TeamID: i64(746),
		PlayerID: 10172, PlayerName: "Jill Scott", JerseyNumber: i64(8),
	})
	g.ObserveLineupPlayer(LineupObservation{
		MatchID: 200, SeasonID: 42, TeamID: i64(746),
		PlayerID: 10172, PlayerName: "Jill Scott", JerseyNumber: i64(13),
	})

	jerseys := g.Players[10172].JerseyNumbers["746"]
	if jerseys["90"] != 8 || jerseys["42"] != 13 {
		t.Fatalf("unexpected jersey map: %v", jerseys)
	}
}

func TestGraphFinalizeRecomputesPlayerAggregates(t *testing.T) {
	t.Parallel()

	g := NewGraph()
	g.ObserveCompetition(CompetitionObservation{ID: 37, Name: "FA Women's Super League"})
	g.ObserveSeason(90, "2020/2021", 37, "FA Women's Super League")
	g.ObserveMatch(MatchObservation{
		MatchID: 100, CompetitionID: 37, SeasonID: 90, Date: "2020-09-05",
		Home: TeamStub{ID: i64(746), Name: "Manchester City WFC"},
		Away: TeamStub{ID: i64(971), Name: "Everton LFC"},
	})
	g.ObserveMatch(MatchObservation{
		MatchID: 101, CompetitionID: 37, SeasonID: 90, Date: "2021-05-09",
		Home: TeamStub{ID: i64(971), Name: "Everton LFC"},
		Away: TeamStub{ID: i64(746), Name: "Manchester City WFC"},
	})
	for _, matchID := range []int64{100, 101} {
		g.ObserveLineupPlayer(LineupObservation{
			MatchID: matchID, SeasonID: 90, TeamID: i64(746),
			PlayerID: 10172, PlayerName: "Jill Scott",
		})
	}
	// A stale payload-sourced range must lose to the observed match dates.
	g.Players[10172].DateRange = AppearanceRange{First: "2019-01-01", Last: "2019-12-31"}

	g.Finalize()

	player := g.Players[10172]
	if player.MatchCount != 2 {
		t.Fatalf("expected match count 2, got=%d", player.MatchCount)
	}
	if player.DateRange.First != "2020-09-05" || player.DateRange.Last != "2021-05-09" {
		t.Fatalf("unexpected appearance range: %+v", player.DateRange)
	}
	if !player.Competitions.Has(37) {
		t.Fatalf("competition membership not derived from seasons: %v", player.Competitions.Sorted())
	}
	if got := g.Competitions[37].Seasons.Sorted(); len(got) != 1 || got[0] != 90 {
		t.Fatalf("competition seasons not filled from adjacency: %v", got)
	}
}

func TestGraphMappingCreatesMatchStubs(t *testing.T) {
	t.Parallel()

	g := NewGraph()
	g.ObserveSeason(90, "2020/2021", 37, "FA Women's Super League")
	g.ObserveMatch(MatchObservation{
		MatchID: 100, CompetitionID: 37, SeasonID: 90, Date: "2020-09-05",
		Home: TeamStub{ID: i64(746), Name: "Manchester City WFC"},
		Away: TeamStub{ID: i64(971), Name: "Everton LFC"},
	})

	height := 168.0
	g.ObserveMapping(MappingObservation{
		CompetitionID: 37, SeasonID: 90,
		PlayerID: 10172, PlayerName: "Jill Scott",
		BirthDate: "1987-02-02", HeightCM: &height, PreferredFoot: "Right",
		TeamID: i64(746), TeamName: "Manchester City WFC",
		Matches: []MappedMatch{
			{ID: 100, Date: "2020-09-05"},
			{ID: 555, Date: "2020-10-11"},
		},
	})

	stub := g.Matches[555]
	if stub == nil || stub.HomeTeamID != nil || stub.MatchDate != "2020-10-11" {
		t.Fatalf("unexpected match stub: %+v", stub)
	}
	if g.Matches[100].HomeTeamID == nil {
		t.Fatalf("existing match record must not be replaced by a stub")
	}
	player := g.Players[10172]
	if player.BirthDate != "1987-02-02" || player.HeightCM == nil || player.PreferredFoot != "Right" {
		t.Fatalf("mapping attributes not merged: %+v", player)
	}
	if !g.Rel.PlayerToMatches[10172].Has(555) || !g.Rel.SeasonToMatches[90].Has(555) {
		t.Fatalf("stub adjacency missing")
	}
}

func TestGraphFinalizeSeasonTeamAggregates(t *testing.T) {
	t.Parallel()

	g := NewGraph()
	g.ObserveCompetition(CompetitionObservation{ID: 37, Name: "FA Women's Super League"})
	g.ObserveSeason(90, "2020/2021", 37, "FA Women's Super League")
	g.ObserveMatch(MatchObservation{
		MatchID: 100, CompetitionID: 37, SeasonID: 90, Date: "2020-09-05",
		Home: TeamStub{ID: i64(746), Name: "Manchester City WFC"},
		Away: TeamStub{ID: i64(971), Name: "Everton LFC"},
	})
	g.ObserveMatch(MatchObservation{
		MatchID: 101, CompetitionID: 37, SeasonID: 90, Date: "2020-09-12",
		Home: TeamStub{ID: i64(746), Name: "Manchester City WFC"},
		Away: TeamStub{ID: i64(972), Name: "Arsenal WFC"},
	})

	g.FinalizeSeason(37, 90)

	team := g.Teams[746]
	if !team.Seasons.Has(90) || !team.Competitions.Has(37) {
		t.Fatalf("season membership not folded into team: %+v", team)
	}
	if team.MatchCount != 2 {
		t.Fatalf("expected team match count 2, got=%d", team.MatchCount)
	}
	if g.Teams[971].MatchCount != 1 {
		t.Fatalf("expected away team match count 1, got=%d", g.Teams[971].MatchCount)
	}
}

func TestGraphKeepsFirstTeamName(t *testing.T) {
	t.Parallel()

	g := NewGraph()
	g.ObserveLineupTeam(746, "Manchester City WFC")
	g.ObserveLineupTeam(746, "Man City Women")

	if got := g.Teams[746].Name; got != "Manchester City WFC" {
		t.Fatalf("first observed name must win, got %q", got)
	}
	if g.TeamNames["man city women"] != 746 {
		t.Fatalf("later names must still be claimable in the name index")
	}
}

func TestDateRangeObserveIgnoresMalformedDates(t *testing.T) {
	t.Parallel()

	var r DateRange
	r.Observe("not-a-date")
	r.Observe("2020-13-40")
	if r.Start != "" || r.End != "" {
		t.Fatalf("malformed dates must not move the range: %+v", r)
	}

	r.Observe("2020-09-05T12:30:00Z")
	if r.Start != "2020-09-05" || r.End != "2020-09-05" {
		t.Fatalf("timestamps must be truncated to days: %+v", r)
	}
}

func TestIDSetMarshalsSorted(t *testing.T) {
	t.Parallel()

	set := IDSet{}
	set.Add(30)
	set.Add(2)
	set.Add(11)

	raw, err := set.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(raw) != "[2,11,30]" {
		t.Fatalf("unexpected serialization: %s", raw)
	}

	var empty IDSet
	raw, err = empty.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(raw) != "[]" {
		t.Fatalf("empty set must serialize as an empty array, got %s", raw)
	}
}
