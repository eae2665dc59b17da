package catalog

import (
	"fmt"
	"sort"
)

// Validate checks the referential integrity of a finalized graph and
// returns advisory issue strings. Structural checks come first, in id
// order, followed by the issues recorded during the build. Validation
// never blocks serialization.
func Validate(g *Graph) []string {
	issues := make([]string, 0, len(g.Issues))

	compIDs := make(IDSet)
	for _, comp := range g.Competitions {
		compIDs.Add(comp.ID)
	}
	if len(compIDs) != len(g.Competitions) {
		issues = append(issues, "Duplicate competition IDs detected")
	}

	distinctSeasons := make(IDSet)
	for _, season := range g.Seasons {
		distinctSeasons.Add(season.ID)
	}
	if len(distinctSeasons) != len(g.Seasons) {
		issues = append(issues, "Duplicate season IDs detected")
	}

	seasonIDs := make([]int64, 0, len(g.Seasons))
	for id := range g.Seasons {
		seasonIDs = append(seasonIDs, id)
	}
	sortIDs(seasonIDs)
	for _, seasonID := range seasonIDs {
		season := g.Seasons[seasonID]
		if !g.Rel.CompetitionToSeasons[season.CompetitionID].Has(seasonID) {
			issues = append(issues, fmt.Sprintf("Season %d not linked back to competition %d", seasonID, season.CompetitionID))
		}
	}

	teamIDs := make([]int64, 0, len(g.Teams))
	for id := range g.Teams {
		teamIDs = append(teamIDs, id)
	}
	sortIDs(teamIDs)
	for _, teamID := range teamIDs {
		for _, seasonID := range g.Teams[teamID].Seasons.Sorted() {
			if !g.Rel.SeasonToTeams[seasonID].Has(teamID) {
				issues = append(issues, fmt.Sprintf("Team %d not present in season_to_teams[%d]", teamID, seasonID))
			}
		}
	}

	playerIDs := make([]int64, 0, len(g.Players))
	for id := range g.Players {
		playerIDs = append(playerIDs, id)
	}
	sortIDs(playerIDs)
	for _, playerID := range playerIDs {
		for _, teamID := range g.Players[playerID].Teams.Sorted() {
			if !g.Rel.TeamToPlayers[teamID].Has(playerID) {
				issues = append(issues, fmt.Sprintf("Player %d not present in team_to_players[%d]", playerID, teamID))
			}
		}
	}

	return append(issues, g.Issues...)
}

func sortIDs(ids []int64) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}
