package catalog

import "strconv"

// CompetitionObservation is one catalogue row for a competition.
type CompetitionObservation struct {
	ID       int64
	Name     string
	Country  string
	Format   string
	Category string
}

// ManagerObservation is a manager attached to one side of a match.
type ManagerObservation struct {
	ID   int64
	Name string
}

// TeamStub is the partial team identity carried on a match payload.
type TeamStub struct {
	ID      *int64
	Name    string
	Country string
}

// MatchObservation is one match payload reduced to the fields the graph
// keeps. Date must already be truncated to YYYY-MM-DD.
type MatchObservation struct {
	MatchID       int64
	CompetitionID int64
	SeasonID      int64
	Date          string
	Week          *int64
	Home          TeamStub
	Away          TeamStub
	HomeManagers  []ManagerObservation
	AwayManagers  []ManagerObservation
	Status        string
	KickOff       string
	Stadium       string
	HomeScore     *int64
	AwayScore     *int64
	Stage         string
}

// LineupObservation is one player entry from a match lineup. PlayerID and
// PlayerName are both required to mint a player node; callers must filter
// entries missing either.
type LineupObservation struct {
	MatchID      int64
	SeasonID     int64
	TeamID       *int64
	PlayerID     int64
	PlayerName   string
	Country      string
	Position     string
	JerseyNumber *int64
}

// StatObservation is one row from the season-aggregate player statistics
// feed, used to enrich players never seen in lineups.
type StatObservation struct {
	SeasonID    int64
	PlayerID    int64
	PlayerName  string
	TeamID      *int64
	Nationality string
	Position    string
}

// MappedMatch is one entry of a player's match history on the mapping feed.
type MappedMatch struct {
	ID   int64
	Date string
}

// MappingObservation is one row from the player mapping feed. It carries
// biographical attributes no other feed has, and a match history that can
// stand in for an unavailable match list.
type MappingObservation struct {
	CompetitionID  int64
	SeasonID       int64
	PlayerID       int64
	PlayerName     string
	CountryOfBirth string
	BirthDate      string
	HeightCM       *float64
	WeightKG       *float64
	PreferredFoot  string
	TeamID         *int64
	TeamName       string
	EarliestMatch  string
	LatestMatch    string
	Matches        []MappedMatch
}

// ObserveCompetition records one catalogue competition and indexes its name
// variants.
func (g *Graph) ObserveCompetition(obs CompetitionObservation) {
	if _, ok := g.Competitions[obs.ID]; !ok {
		g.Competitions[obs.ID] = &Competition{
			ID:       obs.ID,
			Name:     obs.Name,
			Country:  obs.Country,
			Type:     obs.Format,
			Category: obs.Category,
			Seasons:  make(IDSet),
		}
	}
	g.CompetitionNames.Claim(obs.Name, obs.ID)
	if obs.Country != "" {
		g.CompetitionsByCountry[obs.Country] = append(g.CompetitionsByCountry[obs.Country], obs.ID)
	}
	if obs.Format != "" {
		g.CompetitionsByType[obs.Format] = append(g.CompetitionsByType[obs.Format], obs.ID)
	}
}

// ObserveSeason records one season under its competition.
func (g *Graph) ObserveSeason(seasonID int64, seasonName string, competitionID int64, competitionName string) {
	if _, ok := g.Seasons[seasonID]; !ok {
		g.Seasons[seasonID] = &Season{
			ID:              seasonID,
			Name:            seasonName,
			CompetitionID:   competitionID,
			CompetitionName: competitionName,
			Teams:           make(IDSet),
			MatchIDs:        make([]int64, 0),
		}
	}
	link(g.Rel.CompetitionToSeasons, competitionID, seasonID)
	if seasonName != "" {
		g.SeasonsByYear[seasonName] = append(g.SeasonsByYear[seasonName], seasonID)
	}
	g.SeasonsByCompetition[competitionID] = append(g.SeasonsByCompetition[competitionID], seasonID)
}

// ObserveMatch records a full match payload: the match node, the home and
// away team stubs, season aggregates, date ranges, and attached managers.
func (g *Graph) ObserveMatch(obs MatchObservation) {
	if obs.Home.ID != nil {
		g.ensureTeam(*obs.Home.ID, obs.Home.Name, obs.Home.Country)
		link(g.Rel.SeasonToTeams, obs.SeasonID, *obs.Home.ID)
		link(g.Rel.TeamToSeasons, *obs.Home.ID, obs.SeasonID)
	}
	if obs.Away.ID != nil {
		g.ensureTeam(*obs.Away.ID, obs.Away.Name, obs.Away.Country)
		link(g.Rel.SeasonToTeams, obs.SeasonID, *obs.Away.ID)
		link(g.Rel.TeamToSeasons, *obs.Away.ID, obs.SeasonID)
	}

	g.Matches[obs.MatchID] = &Match{
		ID:            obs.MatchID,
		SeasonID:      obs.SeasonID,
		CompetitionID: obs.CompetitionID,
		HomeTeamID:    obs.Home.ID,
		AwayTeamID:    obs.Away.ID,
		MatchDate:     obs.Date,
		MatchWeek:     obs.Week,
		Status:        obs.Status,
		KickOff:       obs.KickOff,
		Stadium:       obs.Stadium,
		HomeTeamName:  obs.Home.Name,
		AwayTeamName:  obs.Away.Name,
		HomeScore:     obs.HomeScore,
		AwayScore:     obs.AwayScore,
		Stage:         obs.Stage,
	}

	if season, ok := g.Seasons[obs.SeasonID]; ok {
		season.MatchIDs = append(season.MatchIDs, obs.MatchID)
		season.MatchCount++
		season.DateRange.Observe(obs.Date)
	}
	link(g.Rel.SeasonToMatches, obs.SeasonID, obs.MatchID)
	if comp, ok := g.Competitions[obs.CompetitionID]; ok {
		comp.DateRange.Observe(obs.Date)
	}

	g.observeManagers(obs.HomeManagers, obs.Home.ID, obs.SeasonID)
	g.observeManagers(obs.AwayManagers, obs.Away.ID, obs.SeasonID)
}

func (g *Graph) observeManagers(managers []ManagerObservation, teamID *int64, seasonID int64) {
	for _, mgr := range managers {
		if mgr.ID == 0 || mgr.Name == "" {
			continue
		}
		g.ensureManager(mgr.ID, mgr.Name)
		if teamID == nil {
			continue
		}
		g.ManagersByTeam[*teamID] = append(g.ManagersByTeam[*teamID], mgr.ID)
		g.ManagersBySeason[seasonID] = append(g.ManagersBySeason[seasonID], mgr.ID)
		node := g.Managers[mgr.ID]
		node.Teams.Add(*teamID)
		node.Seasons.Add(seasonID)
	}
}

// ObserveLineupTeam registers a team that appeared in a lineup block, which
// may carry a name the match payload did not.
func (g *Graph) ObserveLineupTeam(teamID int64, teamName string) {
	g.ensureTeam(teamID, teamName, "")
}

// ObserveSeasonTeam records a team known to belong to a season through a
// feed other than the match list, season-level team aggregates in practice.
func (g *Graph) ObserveSeasonTeam(seasonID, teamID int64, teamName string) {
	g.ensureTeam(teamID, teamName, "")
	link(g.Rel.SeasonToTeams, seasonID, teamID)
	link(g.Rel.TeamToSeasons, teamID, seasonID)
}

// ObserveLineupPlayer records one lineup entry: the player node, position
// and jersey observations, and the full player adjacency for the match.
func (g *Graph) ObserveLineupPlayer(obs LineupObservation) {
	g.ensurePlayer(obs.PlayerID, obs.PlayerName, obs.Country)
	player := g.Players[obs.PlayerID]

	if obs.Position != "" {
		player.Positions.Add(obs.Position)
		g.PlayersByPosition[obs.Position] = append(g.PlayersByPosition[obs.Position], obs.PlayerID)
	}
	if obs.TeamID != nil {
		player.Teams.Add(*obs.TeamID)
		g.PlayersByTeam[*obs.TeamID] = append(g.PlayersByTeam[*obs.TeamID], obs.PlayerID)
		if obs.JerseyNumber != nil {
			teamKey := strconv.FormatInt(*obs.TeamID, 10)
			seasonKey := strconv.FormatInt(obs.SeasonID, 10)
			byTeam, ok := player.JerseyNumbers[teamKey]
			if !ok {
				byTeam = make(map[string]int64)
				player.JerseyNumbers[teamKey] = byTeam
			}
			byTeam[seasonKey] = *obs.JerseyNumber
		}
		link(g.Rel.PlayerToTeams, obs.PlayerID, *obs.TeamID)
		link(g.Rel.TeamToPlayers, *obs.TeamID, obs.PlayerID)
	}

	link(g.Rel.PlayerToSeasons, obs.PlayerID, obs.SeasonID)
	link(g.Rel.PlayerToMatches, obs.PlayerID, obs.MatchID)
	link(g.Rel.MatchToPlayers, obs.MatchID, obs.PlayerID)
	link(g.Rel.SeasonToPlayers, obs.SeasonID, obs.PlayerID)
}

// ObserveSeasonStat merges one season-aggregate row into the player
// registry. Unlike lineup sightings this updates only the player's own
// sets, not the shared adjacency maps; the validation report surfaces the
// difference for players seen nowhere else.
func (g *Graph) ObserveSeasonStat(obs StatObservation) {
	g.ensurePlayer(obs.PlayerID, obs.PlayerName, obs.Nationality)
	player := g.Players[obs.PlayerID]

	if obs.Position != "" {
		player.Positions.Add(obs.Position)
		g.PlayersByPosition[obs.Position] = append(g.PlayersByPosition[obs.Position], obs.PlayerID)
	}
	if obs.TeamID != nil {
		player.Teams.Add(*obs.TeamID)
		g.PlayersByTeam[*obs.TeamID] = append(g.PlayersByTeam[*obs.TeamID], obs.PlayerID)
	}
	player.Seasons.Add(obs.SeasonID)
	g.PlayersBySeason[obs.SeasonID] = append(g.PlayersBySeason[obs.SeasonID], obs.PlayerID)
}

// ObserveMapping merges one player-mapping row: biographical attributes,
// team and season links, and minimal match stubs for matches known only
// through the player's history.
func (g *Graph) ObserveMapping(obs MappingObservation) {
	g.ensurePlayer(obs.PlayerID, obs.PlayerName, obs.CountryOfBirth)
	player := g.Players[obs.PlayerID]

	if obs.BirthDate != "" {
		player.BirthDate = obs.BirthDate
	}
	if obs.HeightCM != nil {
		player.HeightCM = obs.HeightCM
	}
	if obs.WeightKG != nil {
		player.WeightKG = obs.WeightKG
	}
	if obs.PreferredFoot != "" {
		player.PreferredFoot = obs.PreferredFoot
	}

	if obs.TeamID != nil {
		g.ensureTeam(*obs.TeamID, obs.TeamName, "")
		link(g.Rel.SeasonToTeams, obs.SeasonID, *obs.TeamID)
		link(g.Rel.TeamToSeasons, *obs.TeamID, obs.SeasonID)
		player.Teams.Add(*obs.TeamID)
		link(g.Rel.TeamToPlayers, *obs.TeamID, obs.PlayerID)
		g.PlayersByTeam[*obs.TeamID] = append(g.PlayersByTeam[*obs.TeamID], obs.PlayerID)
	}
	link(g.Rel.PlayerToSeasons, obs.PlayerID, obs.SeasonID)
	g.PlayersBySeason[obs.SeasonID] = append(g.PlayersBySeason[obs.SeasonID], obs.PlayerID)
	link(g.Rel.SeasonToPlayers, obs.SeasonID, obs.PlayerID)

	if obs.EarliestMatch != "" {
		if player.DateRange.First == "" || obs.EarliestMatch < player.DateRange.First {
			player.DateRange.First = obs.EarliestMatch
		}
	}
	if obs.LatestMatch != "" {
		if player.DateRange.Last == "" || obs.LatestMatch > player.DateRange.Last {
			player.DateRange.Last = obs.LatestMatch
		}
	}

	for _, played := range obs.Matches {
		if _, ok := g.Matches[played.ID]; !ok {
			g.Matches[played.ID] = &Match{
				ID:            played.ID,
				SeasonID:      obs.SeasonID,
				CompetitionID: obs.CompetitionID,
				MatchDate:     played.Date,
			}
		}
		link(g.Rel.PlayerToMatches, obs.PlayerID, played.ID)
		link(g.Rel.MatchToPlayers, played.ID, obs.PlayerID)
		link(g.Rel.SeasonToMatches, obs.SeasonID, played.ID)
	}
}

// AddTeamSeason appends one roster row for the relational index.
func (g *Graph) AddTeamSeason(row TeamSeasonRow) {
	g.TeamSeasons = append(g.TeamSeasons, row)
}

// AddPlayerSeason appends one player roster row for the relational index.
func (g *Graph) AddPlayerSeason(row PlayerSeasonRow) {
	g.PlayerSeasons = append(g.PlayerSeasons, row)
}

// AddAppearance appends one match participation row for the relational
// index.
func (g *Graph) AddAppearance(row MatchAppearance) {
	g.Appearances = append(g.Appearances, row)
}

// AddIssue records a build-time problem for the validation report.
func (g *Graph) AddIssue(issue string) {
	g.Issues = append(g.Issues, issue)
}

func (g *Graph) ensureTeam(teamID int64, name, country string) {
	if _, ok := g.Teams[teamID]; !ok {
		g.Teams[teamID] = &Team{
			ID:           teamID,
			Name:         name,
			Country:      country,
			Seasons:      make(IDSet),
			Competitions: make(IDSet),
			Players:      make(IDSet),
		}
	}
	if name != "" {
		g.TeamNames.Claim(name, teamID)
	}
	if country != "" {
		g.TeamsByCountry[country] = append(g.TeamsByCountry[country], teamID)
	}
}

func (g *Graph) ensurePlayer(playerID int64, name, country string) {
	if _, ok := g.Players[playerID]; !ok {
		g.Players[playerID] = &Player{
			ID:            playerID,
			Name:          name,
			Country:       country,
			Positions:     make(StringSet),
			Teams:         make(IDSet),
			Seasons:       make(IDSet),
			Competitions:  make(IDSet),
			Matches:       make(IDSet),
			JerseyNumbers: make(map[string]map[string]int64),
		}
	}
	if name != "" {
		// On collision the first claimant keeps the key.
		g.PlayerNames.Claim(name, playerID)
	}
	if country != "" {
		g.PlayersByCountry[country] = append(g.PlayersByCountry[country], playerID)
	}
}

func (g *Graph) ensureManager(managerID int64, name string) {
	if _, ok := g.Managers[managerID]; !ok {
		g.Managers[managerID] = &Manager{
			ID:      managerID,
			Name:    name,
			Teams:   make(IDSet),
			Seasons: make(IDSet),
		}
	}
	if name != "" {
		g.ManagerNames.Claim(name, managerID)
	}
}

// FinalizeSeason folds a completed season's team links into the team
// records: season and competition membership plus per-team match counts.
func (g *Graph) FinalizeSeason(competitionID, seasonID int64) {
	for teamID := range g.Rel.SeasonToTeams[seasonID] {
		if team, ok := g.Teams[teamID]; ok {
			team.Seasons.Add(seasonID)
			team.Competitions.Add(competitionID)
		}
	}
	for matchID := range g.Rel.SeasonToMatches[seasonID] {
		match, ok := g.Matches[matchID]
		if !ok {
			continue
		}
		for _, teamID := range []*int64{match.HomeTeamID, match.AwayTeamID} {
			if teamID == nil {
				continue
			}
			if team, ok := g.Teams[*teamID]; ok {
				team.MatchCount++
			}
		}
	}
}

// Finalize seals the graph for serialization: derived fields are recomputed
// from the adjacency maps, which are authoritative over whatever the source
// payloads claimed. Player match counts and appearance ranges come strictly
// from the matches the player is linked to.
func (g *Graph) Finalize() {
	for compID, comp := range g.Competitions {
		if seasons, ok := g.Rel.CompetitionToSeasons[compID]; ok {
			comp.Seasons = seasons
		}
	}

	for _, team := range g.Teams {
		managers := make(IDSet)
		for _, managerID := range g.ManagersByTeam[team.ID] {
			managers.Add(managerID)
		}
		team.Managers = managers.Sorted()
		if players, ok := g.Rel.TeamToPlayers[team.ID]; ok {
			team.Players = players
		}
	}

	for playerID, player := range g.Players {
		matchDates := make([]string, 0)
		for matchID := range g.Rel.PlayerToMatches[playerID] {
			if match, ok := g.Matches[matchID]; ok && match.MatchDate != "" {
				matchDates = append(matchDates, match.MatchDate)
			}
		}
		if len(matchDates) > 0 {
			first, last := matchDates[0], matchDates[0]
			for _, d := range matchDates[1:] {
				if d < first {
					first = d
				}
				if d > last {
					last = d
				}
			}
			player.DateRange.First = first
			player.DateRange.Last = last
		}

		if seasons, ok := g.Rel.PlayerToSeasons[playerID]; ok {
			player.Seasons = seasons
		} else {
			player.Seasons = make(IDSet)
		}
		competitions := make(IDSet)
		for seasonID := range player.Seasons {
			if season, ok := g.Seasons[seasonID]; ok {
				competitions.Add(season.CompetitionID)
			}
		}
		player.Competitions = competitions
		if matches, ok := g.Rel.PlayerToMatches[playerID]; ok {
			player.Matches = matches
		} else {
			player.Matches = make(IDSet)
		}
		player.MatchCount = len(player.Matches)
	}

	for seasonID, season := range g.Seasons {
		if teams, ok := g.Rel.SeasonToTeams[seasonID]; ok {
			season.Teams = teams
		}
		g.TeamsBySeason[seasonID] = season.Teams.Sorted()
	}
}
