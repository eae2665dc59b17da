package catalog

import (
	"strings"
	"testing"
)

func TestValidateCleanGraph(t *testing.T) {
	t.Parallel()

	g := NewGraph()
	g.ObserveCompetition(CompetitionObservation{ID: 37, Name: "FA Women's Super League", Country: "England"})
	g.ObserveSeason(90, "2020/2021", 37, "FA Women's Super League")
	g.ObserveMatch(MatchObservation{
		MatchID: 100, CompetitionID: 37, SeasonID: 90, Date: "2020-09-05",
		Home: TeamStub{ID: i64(746), Name: "Manchester City WFC"},
		Away: TeamStub{ID: i64(971), Name: "Everton LFC"},
	})
	g.ObserveLineupPlayer(LineupObservation{
		MatchID: 100, SeasonID: 90, TeamID: i64(746),
		PlayerID: 10172, PlayerName: "Jill Scott",
	})
	g.FinalizeSeason(37, 90)
	g.Finalize()

	if issues := Validate(g); len(issues) != 0 {
		t.Fatalf("expected a clean report, got %v", issues)
	}
}

func TestValidateReportsSeasonWithoutBacklink(t *testing.T) {
	t.Parallel()

	g := NewGraph()
	g.Seasons[90] = &Season{ID: 90, Name: "2020/2021", CompetitionID: 37, Teams: make(IDSet)}

	issues := Validate(g)
	if len(issues) != 1 || issues[0] != "Season 90 not linked back to competition 37" {
		t.Fatalf("unexpected issues: %v", issues)
	}
}

func TestValidateReportsUnmirroredPlayerMembership(t *testing.T) {
	t.Parallel()

	g := NewGraph()
	g.ObserveSeason(90, "2020/2021", 37, "FA Women's Super League")
	// Season-aggregate sightings update the player's own team set but not
	// the shared adjacency, so the report should call the link out.
	g.ObserveSeasonStat(StatObservation{
		SeasonID: 90, PlayerID: 301, PlayerName: "Sam Kerr", TeamID: i64(5), Position: "Centre Forward",
	})
	g.Finalize()

	issues := Validate(g)
	found := false
	for _, issue := range issues {
		if issue == "Player 301 not present in team_to_players[5]" {
			found = true
		}
	}
	if !found {
		t.Fatalf("missing unmirrored membership issue, got %v", issues)
	}
}

func TestValidateAppendsBuildIssuesLast(t *testing.T) {
	t.Parallel()

	g := NewGraph()
	g.Seasons[90] = &Season{ID: 90, CompetitionID: 37, Teams: make(IDSet)}
	g.AddIssue("list_matches failed for competition 37 season 90: boom")

	issues := Validate(g)
	if len(issues) != 2 {
		t.Fatalf("expected two issues, got %v", issues)
	}
	if !strings.HasPrefix(issues[0], "Season 90") {
		t.Fatalf("structural issues must come first, got %v", issues)
	}
	if issues[1] != "list_matches failed for competition 37 season 90: boom" {
		t.Fatalf("build issue not appended, got %v", issues)
	}
}
