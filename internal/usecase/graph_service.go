package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/openfooty/statindex/external/statsbomb"
	"github.com/openfooty/statindex/internal/domain/catalog"
	"github.com/openfooty/statindex/internal/platform/fuzzy"
	"github.com/openfooty/statindex/internal/platform/logging"
	"github.com/openfooty/statindex/internal/platform/namekey"
)

// rosterSampleMatches bounds how many matches per season feed the lineup
// roster fallback when the season-aggregate player feed has no rows.
const rosterSampleMatches = 20

// autoTargetCount is how many competitions an automatic build selects from
// the catalogue when no explicit targets are configured.
const autoTargetCount = 12

// GraphBuildConfig selects what one graph build walks. CompetitionIDs wins
// over Targets; with both empty the priority table plus a catalogue sweep
// decides. A LineupSampleSize of zero fetches lineups for every match.
type GraphBuildConfig struct {
	CompetitionIDs     []int64
	Targets            []CompetitionTarget
	SeasonLabels       []string
	IncludeLineups     bool
	IncludePlayerStats bool
	IncludeMapping     bool
	LineupSampleSize   int
}

// GraphService walks the upstream feeds into an entity graph. Every slice
// failure below the competition catalogue is caught and recorded on the
// graph as a validation issue, so one broken season never fails a build.
type GraphService struct {
	source statsbomb.Source
	cfg    GraphBuildConfig
	logger *logging.Logger
}

func NewGraphService(source statsbomb.Source, cfg GraphBuildConfig, logger *logging.Logger) *GraphService {
	if logger == nil {
		logger = logging.Default()
	}

	return &GraphService{
		source: source,
		cfg:    cfg,
		logger: logger,
	}
}

// Build walks every resolved target competition and returns the finalized
// graph. Only a failed catalogue listing is fatal.
func (s *GraphService) Build(ctx context.Context) (*catalog.Graph, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GraphService.Build")
	defer span.End()

	if s.source == nil {
		return nil, fmt.Errorf("%w: stats source is not configured", ErrDependencyUnavailable)
	}

	catalogue, err := s.source.ListCompetitions(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list competitions: %v", ErrDependencyUnavailable, err)
	}

	graph := catalog.NewGraph()
	targets := s.resolveTargets(graph, catalogue)
	s.logger.InfoContext(ctx, "building entity graph",
		"catalogue_rows", len(catalogue),
		"targets", len(targets),
	)

	for _, target := range targets {
		graph.ObserveCompetition(catalog.CompetitionObservation{
			ID:       target.CompetitionID,
			Name:     target.Name,
			Country:  target.Country,
			Format:   target.Format,
			Category: target.Category,
		})

		for _, season := range s.resolveSeasons(ctx, graph, target) {
			s.buildSeason(ctx, graph, target, season)
		}
	}

	graph.Finalize()
	counts := graph.Counts()
	s.logger.InfoContext(ctx, "entity graph finalized",
		"competitions", counts["competitions"],
		"seasons", counts["seasons"],
		"teams", counts["teams"],
		"players", counts["players"],
		"matches", counts["matches"],
		"issues", len(graph.Issues),
	)
	return graph, nil
}

// resolvedTarget is a competition target pinned to a catalogue id.
type resolvedTarget struct {
	CompetitionID int64
	Name          string
	Country       string
	Format        string
	Category      string
	MaxSeasons    int
	SeasonLabels  []string
}

// catalogueEntry is one deduplicated competition from the flattened
// per-season catalogue feed.
type catalogueEntry struct {
	ID      int64
	Name    string
	Country string
	Format  string
}

func (s *GraphService) resolveTargets(graph *catalog.Graph, catalogue []statsbomb.CompetitionRecord) []resolvedTarget {
	entries, byKey, order := collapseCatalogue(catalogue)

	if len(s.cfg.CompetitionIDs) > 0 {
		return s.targetsFromIDs(graph, entries)
	}
	if len(s.cfg.Targets) > 0 {
		return s.targetsFromSpecs(graph, s.cfg.Targets, entries, byKey, order, fuzzyResolveCutoff)
	}
	return s.autoTargets(entries, byKey, order)
}

const (
	// fuzzyResolveCutoff accepts looser matches for operator-supplied
	// targets, where a typo should not drop a whole competition.
	fuzzyResolveCutoff = 0.75
	// fuzzyCatalogueCutoff guards the automatic priority sweep, which has
	// no operator watching for a wrong pick.
	fuzzyCatalogueCutoff = 0.82
)

func (s *GraphService) targetsFromIDs(graph *catalog.Graph, entries map[int64]catalogueEntry) []resolvedTarget {
	targets := make([]resolvedTarget, 0, len(s.cfg.CompetitionIDs))
	for _, id := range s.cfg.CompetitionIDs {
		entry, ok := entries[id]
		if !ok {
			graph.AddIssue(fmt.Sprintf("competition %d not present in catalogue", id))
			continue
		}
		targets = append(targets, resolvedTarget{
			CompetitionID: entry.ID,
			Name:          entry.Name,
			Country:       entry.Country,
			Format:        entry.Format,
			Category:      categoryForFormat(entry.Format, entry.Name),
			SeasonLabels:  s.cfg.SeasonLabels,
		})
	}
	return targets
}

func (s *GraphService) targetsFromSpecs(
	graph *catalog.Graph,
	specs []CompetitionTarget,
	entries map[int64]catalogueEntry,
	byKey map[string]int64,
	order []string,
	cutoff float64,
) []resolvedTarget {
	targets := make([]resolvedTarget, 0, len(specs))
	for _, spec := range specs {
		id := spec.CompetitionID
		if id == 0 {
			id = matchCatalogueKey(spec, byKey, order, cutoff)
		}
		entry, ok := entries[id]
		if !ok {
			graph.AddIssue(fmt.Sprintf("competition %q could not be resolved from the catalogue", spec.Name))
			continue
		}
		labels := spec.SeasonLabels
		if len(labels) == 0 {
			labels = s.cfg.SeasonLabels
		}
		targets = append(targets, resolvedTarget{
			CompetitionID: entry.ID,
			Name:          entry.Name,
			Country:       entry.Country,
			Format:        entry.Format,
			Category:      spec.Category,
			MaxSeasons:    spec.MaxSeasons,
			SeasonLabels:  labels,
		})
	}
	return targets
}

// autoTargets resolves the priority table against the catalogue, then fills
// remaining slots with whatever leagues and cups the catalogue carries.
func (s *GraphService) autoTargets(entries map[int64]catalogueEntry, byKey map[string]int64, order []string) []resolvedTarget {
	var targets []resolvedTarget
	seen := make(map[int64]struct{})

	for _, spec := range priorityTargets {
		id := matchCatalogueKey(spec, byKey, order, fuzzyCatalogueCutoff)
		entry, ok := entries[id]
		if !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		targets = append(targets, resolvedTarget{
			CompetitionID: entry.ID,
			Name:          entry.Name,
			Country:       entry.Country,
			Format:        entry.Format,
			Category:      spec.Category,
			MaxSeasons:    spec.MaxSeasons,
			SeasonLabels:  s.cfg.SeasonLabels,
		})
	}

	limit := autoTargetCount
	if len(entries) < limit {
		limit = len(entries)
	}
	if len(seen) >= limit {
		return targets
	}
	for _, key := range order {
		entry := entries[byKey[key]]
		if _, dup := seen[entry.ID]; dup {
			continue
		}
		category, ok := catalogueCategory(entry.Format, entry.Name)
		if !ok {
			continue
		}
		seen[entry.ID] = struct{}{}
		targets = append(targets, resolvedTarget{
			CompetitionID: entry.ID,
			Name:          entry.Name,
			Country:       entry.Country,
			Format:        entry.Format,
			Category:      category,
			MaxSeasons:    2,
			SeasonLabels:  s.cfg.SeasonLabels,
		})
		if len(seen) >= limit {
			break
		}
	}
	return targets
}

// matchCatalogueKey tries the target's name and aliases as exact canonical
// keys, then falls back to one fuzzy pick over the whole catalogue.
func matchCatalogueKey(spec CompetitionTarget, byKey map[string]int64, order []string, cutoff float64) int64 {
	for _, candidate := range append([]string{spec.Name}, spec.Aliases...) {
		if id, ok := byKey[namekey.Canonicalize(candidate)]; ok {
			return id
		}
	}
	if key, ok := fuzzy.Closest(namekey.Canonicalize(spec.Name), order, cutoff); ok {
		return byKey[key]
	}
	return 0
}

// collapseCatalogue dedupes the flattened per-season catalogue into one
// entry per competition and a canonical-key lookup. First sighting wins;
// order preserves the catalogue's own ordering for deterministic fills.
func collapseCatalogue(catalogue []statsbomb.CompetitionRecord) (map[int64]catalogueEntry, map[string]int64, []string) {
	entries := make(map[int64]catalogueEntry)
	byKey := make(map[string]int64)
	var order []string
	for _, rec := range catalogue {
		if rec.CompetitionID == 0 || strings.TrimSpace(rec.CompetitionName) == "" {
			continue
		}
		if _, ok := entries[rec.CompetitionID]; !ok {
			entries[rec.CompetitionID] = catalogueEntry{
				ID:      rec.CompetitionID,
				Name:    rec.CompetitionName,
				Country: rec.CountryName,
				Format:  rec.CompetitionFormat,
			}
		}
		key := namekey.Canonicalize(rec.CompetitionName)
		if _, ok := byKey[key]; !ok && key != "" {
			byKey[key] = rec.CompetitionID
			order = append(order, key)
		}
	}
	return entries, byKey, order
}

func categoryForFormat(format, name string) string {
	if category, ok := catalogueCategory(format, name); ok {
		return category
	}
	return categoryLeague
}

// catalogueCategory buckets a catalogue competition by its advertised
// format, keeping only shapes the index understands.
func catalogueCategory(format, name string) (string, bool) {
	lowered := strings.ToLower(format)
	switch {
	case strings.Contains(lowered, "league"):
		return categoryLeague, true
	case strings.Contains(lowered, "cup"), strings.Contains(strings.ToLower(name), "champions"):
		return categoryCup, true
	}
	return "", false
}

type seasonRef struct {
	ID   int64
	Name string
}

// resolveSeasons lists a competition's seasons newest first, capped at the
// target's season budget. An unavailable or empty listing falls back to the
// distinct seasons visible on the player mapping feed; season labels from
// the config top up a short list afterwards.
func (s *GraphService) resolveSeasons(ctx context.Context, graph *catalog.Graph, target resolvedTarget) []seasonRef {
	rows, err := s.source.ListSeasons(ctx, target.CompetitionID)
	if err != nil {
		if !statsbomb.IsNotFound(err) {
			graph.AddIssue(fmt.Sprintf("list seasons failed for competition %d: %v", target.CompetitionID, err))
		}
		rows = nil
	}

	sorted := append([]statsbomb.SeasonRecord(nil), rows...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].SeasonID > sorted[j].SeasonID })

	var seasons []seasonRef
	seen := make(map[int64]struct{})
	for _, row := range sorted {
		if row.SeasonID == 0 {
			continue
		}
		if _, dup := seen[row.SeasonID]; dup {
			continue
		}
		seen[row.SeasonID] = struct{}{}
		seasons = append(seasons, seasonRef{ID: row.SeasonID, Name: row.SeasonName})
		if target.MaxSeasons > 0 && len(seasons) >= target.MaxSeasons {
			break
		}
	}

	if len(seasons) == 0 && s.cfg.IncludeMapping {
		seasons = s.seasonsFromMapping(ctx, graph, target.CompetitionID)
		for _, season := range seasons {
			seen[season.ID] = struct{}{}
		}
		if target.MaxSeasons > 0 && len(seasons) > target.MaxSeasons {
			seasons = seasons[:target.MaxSeasons]
		}
	}

	if target.MaxSeasons > 0 && len(seasons) < target.MaxSeasons {
		labels := target.SeasonLabels
		if len(labels) == 0 {
			labels = DefaultSeasonLabels
		}
		for _, label := range labels {
			if len(seasons) >= target.MaxSeasons {
				break
			}
			ref, ok := seasonForLabel(rows, label)
			if !ok {
				continue
			}
			if _, dup := seen[ref.ID]; dup {
				continue
			}
			seen[ref.ID] = struct{}{}
			seasons = append(seasons, ref)
		}
	}

	return seasons
}

// seasonsFromMapping derives (season id, season name) pairs from the player
// mapping feed when the seasons endpoint has nothing. Ordering is newest
// first to match the primary path.
func (s *GraphService) seasonsFromMapping(ctx context.Context, graph *catalog.Graph, competitionID int64) []seasonRef {
	mapping, err := s.source.GetPlayerMapping(ctx, statsbomb.MappingFilter{
		CompetitionID:  competitionID,
		AllAccountData: true,
	})
	if err != nil {
		if !statsbomb.IsNotFound(err) {
			graph.AddIssue(fmt.Sprintf("player mapping season fallback failed for competition %d: %v", competitionID, err))
		}
		return nil
	}

	seen := make(map[int64]string)
	for _, row := range mapping {
		if row.SeasonID == 0 {
			continue
		}
		if _, dup := seen[row.SeasonID]; !dup {
			seen[row.SeasonID] = row.SeasonName
		}
	}
	if len(seen) == 0 {
		return nil
	}

	seasons := make([]seasonRef, 0, len(seen))
	for id, name := range seen {
		seasons = append(seasons, seasonRef{ID: id, Name: name})
	}
	sort.Slice(seasons, func(i, j int) bool { return seasons[i].ID > seasons[j].ID })
	return seasons
}

// seasonForLabel matches a human season label against provider rows after
// normalizing both sides, so "2024-25" finds "2024/2025".
func seasonForLabel(rows []statsbomb.SeasonRecord, label string) (seasonRef, bool) {
	want := namekey.Canonicalize(namekey.NormalizeSeasonLabel(label))
	if want == "" {
		return seasonRef{}, false
	}
	for _, row := range rows {
		if namekey.Canonicalize(namekey.NormalizeSeasonLabel(row.SeasonName)) == want {
			return seasonRef{ID: row.SeasonID, Name: row.SeasonName}, true
		}
	}
	return seasonRef{}, false
}

// buildSeason ingests one (competition, season) slice: matches, lineups,
// roster rows, then the two enrichment passes.
func (s *GraphService) buildSeason(ctx context.Context, graph *catalog.Graph, target resolvedTarget, season seasonRef) {
	graph.ObserveSeason(season.ID, season.Name, target.CompetitionID, target.Name)

	matches, err := s.source.ListMatches(ctx, target.CompetitionID, season.ID)
	if err != nil {
		if !statsbomb.IsNotFound(err) {
			graph.AddIssue(fmt.Sprintf("list matches failed for competition %d season %d: %v", target.CompetitionID, season.ID, err))
		}
		matches = nil
	}

	for _, match := range matches {
		graph.ObserveMatch(matchObservation(match, target.CompetitionID, season.ID))
	}

	roster := make(map[int64]catalog.PlayerSeasonRow)
	if s.cfg.IncludeLineups {
		s.walkLineups(ctx, graph, target, season, matches, roster)
	}

	graph.FinalizeSeason(target.CompetitionID, season.ID)

	s.addTeamRows(ctx, graph, target, season)
	s.addPlayerRows(ctx, graph, target, season, roster)

	if s.cfg.IncludeMapping {
		s.enrichFromMapping(ctx, graph, target.CompetitionID, season.ID)
	}
}

// walkLineups fetches the lineup blocks for a season's matches, feeding the
// graph, the appearance rows, and the roster fallback. The fetch budget is
// the configured sample size; the roster fallback only ever reads the first
// rosterSampleMatches matches regardless.
func (s *GraphService) walkLineups(
	ctx context.Context,
	graph *catalog.Graph,
	target resolvedTarget,
	season seasonRef,
	matches []statsbomb.MatchRecord,
	roster map[int64]catalog.PlayerSeasonRow,
) {
	seenAppearance := make(map[[2]int64]struct{})
	attempted := 0
	for _, match := range matches {
		if match.MatchID == 0 {
			continue
		}
		if s.cfg.LineupSampleSize > 0 && attempted >= s.cfg.LineupSampleSize {
			break
		}
		attempted++

		lineups, err := s.source.GetLineups(ctx, match.MatchID)
		if err != nil {
			if !statsbomb.IsNotFound(err) {
				s.logger.WarnContext(ctx, "lineups unavailable",
					"match_id", match.MatchID,
					"competition_id", target.CompetitionID,
					"error", err.Error(),
				)
			}
			continue
		}

		for _, block := range lineups {
			var teamID *int64
			if block.TeamID > 0 {
				graph.ObserveLineupTeam(block.TeamID, block.TeamName)
				id := block.TeamID
				teamID = &id
			}
			for _, player := range block.Lineup {
				if player.PlayerID == 0 || strings.TrimSpace(player.PlayerName) == "" {
					continue
				}
				graph.ObserveLineupPlayer(catalog.LineupObservation{
					MatchID:      match.MatchID,
					SeasonID:     season.ID,
					TeamID:       teamID,
					PlayerID:     player.PlayerID,
					PlayerName:   player.PlayerName,
					Country:      player.CountryName(),
					Position:     player.PrimaryPosition(),
					JerseyNumber: player.JerseyNumber,
				})

				key := [2]int64{match.MatchID, player.PlayerID}
				if _, dup := seenAppearance[key]; !dup {
					seenAppearance[key] = struct{}{}
					graph.AddAppearance(catalog.MatchAppearance{
						MatchID:       match.MatchID,
						PlayerID:      player.PlayerID,
						TeamID:        teamID,
						CompetitionID: target.CompetitionID,
						SeasonID:      season.ID,
						PlayerName:    player.PlayerName,
						TeamName:      block.TeamName,
						Position:      player.PrimaryPosition(),
						JerseyNumber:  player.JerseyNumber,
						Starter:       player.Starter(),
						MinutesPlayed: player.MinutesPlayed,
					})
				}

				if attempted <= rosterSampleMatches {
					if _, held := roster[player.PlayerID]; !held {
						roster[player.PlayerID] = catalog.PlayerSeasonRow{
							PlayerID:      player.PlayerID,
							PlayerName:    player.PlayerName,
							CompetitionID: target.CompetitionID,
							SeasonID:      season.ID,
							TeamID:        teamID,
							TeamName:      block.TeamName,
							Position:      player.PrimaryPosition(),
						}
					}
				}
			}
		}
	}
}

// addTeamRows emits the season's team roster for the relational index.
// Season-level team aggregates are the preferred source; when that feed has
// nothing the teams observed on match payloads stand in, and either way the
// identities reach the season's team set.
func (s *GraphService) addTeamRows(ctx context.Context, graph *catalog.Graph, target resolvedTarget, season seasonRef) {
	stats, err := s.source.GetTeamSeasonStats(ctx, target.CompetitionID, season.ID)
	if err != nil {
		if !statsbomb.IsNotFound(err) {
			s.logger.WarnContext(ctx, "team season stats unavailable",
				"competition_id", target.CompetitionID,
				"season_id", season.ID,
				"error", err.Error(),
			)
		}
		stats = nil
	}

	seen := make(map[int64]struct{})
	for _, row := range stats {
		if row.TeamID == 0 || strings.TrimSpace(row.TeamName) == "" {
			continue
		}
		if _, dup := seen[row.TeamID]; dup {
			continue
		}
		seen[row.TeamID] = struct{}{}
		graph.ObserveSeasonTeam(season.ID, row.TeamID, row.TeamName)
		graph.AddTeamSeason(catalog.TeamSeasonRow{
			TeamID:        row.TeamID,
			TeamName:      row.TeamName,
			CompetitionID: target.CompetitionID,
			SeasonID:      season.ID,
		})
	}
	if len(seen) > 0 {
		return
	}

	for _, teamID := range graph.Rel.SeasonToTeams[season.ID].Sorted() {
		team, ok := graph.Teams[teamID]
		if !ok || team.Name == "" {
			continue
		}
		graph.AddTeamSeason(catalog.TeamSeasonRow{
			TeamID:        teamID,
			TeamName:      team.Name,
			CompetitionID: target.CompetitionID,
			SeasonID:      season.ID,
		})
	}
}

// addPlayerRows emits the season's player roster. The season-aggregate feed
// both enriches the graph and supplies the rows; with nothing there the
// lineup roster sample stands in.
func (s *GraphService) addPlayerRows(
	ctx context.Context,
	graph *catalog.Graph,
	target resolvedTarget,
	season seasonRef,
	roster map[int64]catalog.PlayerSeasonRow,
) {
	var stats []statsbomb.PlayerSeasonRecord
	if s.cfg.IncludePlayerStats {
		rows, err := s.source.GetPlayerSeasonStats(ctx, target.CompetitionID, season.ID)
		if err != nil {
			if !statsbomb.IsNotFound(err) {
				s.logger.WarnContext(ctx, "player season stats unavailable",
					"competition_id", target.CompetitionID,
					"season_id", season.ID,
					"error", err.Error(),
				)
			}
			rows = nil
		}
		stats = rows
	}

	emitted := make(map[int64]struct{})
	for _, row := range stats {
		if row.PlayerID == 0 || strings.TrimSpace(row.PlayerName) == "" {
			continue
		}

		var teamID *int64
		if row.TeamID > 0 {
			id := row.TeamID
			teamID = &id
		}
		graph.ObserveSeasonStat(catalog.StatObservation{
			SeasonID:    season.ID,
			PlayerID:    row.PlayerID,
			PlayerName:  row.PlayerName,
			TeamID:      teamID,
			Nationality: row.CountryName,
			Position:    row.Position,
		})

		if _, dup := emitted[row.PlayerID]; dup {
			continue
		}
		emitted[row.PlayerID] = struct{}{}
		minutes := row.Minutes
		graph.AddPlayerSeason(catalog.PlayerSeasonRow{
			PlayerID:      row.PlayerID,
			PlayerName:    row.PlayerName,
			CompetitionID: target.CompetitionID,
			SeasonID:      season.ID,
			TeamID:        teamID,
			TeamName:      row.TeamName,
			Position:      row.Position,
			Minutes:       &minutes,
		})
	}
	if len(emitted) > 0 {
		return
	}

	if len(roster) == 0 {
		s.logger.WarnContext(ctx, "no player data collected",
			"competition_id", target.CompetitionID,
			"season_id", season.ID,
		)
		return
	}
	ids := make([]int64, 0, len(roster))
	for id := range roster {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		graph.AddPlayerSeason(roster[id])
	}
}

// enrichFromMapping runs the second enrichment pass over the player mapping
// feed, which carries biographical attributes and can synthesize match stubs
// for appearances the match list never produced.
func (s *GraphService) enrichFromMapping(ctx context.Context, graph *catalog.Graph, competitionID, seasonID int64) {
	mapping, err := s.source.GetPlayerMapping(ctx, statsbomb.MappingFilter{
		CompetitionID:    competitionID,
		SeasonID:         seasonID,
		AddMatchesPlayed: true,
	})
	if err != nil {
		if !statsbomb.IsNotFound(err) {
			graph.AddIssue(fmt.Sprintf("player mapping enrichment failed for competition %d season %d: %v", competitionID, seasonID, err))
		}
		return
	}

	for _, row := range mapping {
		if row.OfflinePlayerID == 0 || strings.TrimSpace(row.PlayerName) == "" {
			continue
		}

		var teamID *int64
		if row.OfflineTeamID > 0 {
			id := row.OfflineTeamID
			teamID = &id
		}
		matches := make([]catalog.MappedMatch, 0, len(row.MatchesPlayed))
		for _, played := range row.MatchesPlayed {
			if played.MatchID == 0 {
				continue
			}
			matches = append(matches, catalog.MappedMatch{ID: played.MatchID, Date: played.MatchDate})
		}

		graph.ObserveMapping(catalog.MappingObservation{
			CompetitionID:  competitionID,
			SeasonID:       seasonID,
			PlayerID:       row.OfflinePlayerID,
			PlayerName:     row.PlayerName,
			CountryOfBirth: row.CountryOfBirth,
			BirthDate:      row.BirthDate,
			HeightCM:       row.HeightCM,
			WeightKG:       row.WeightKG,
			PreferredFoot:  row.PreferredFoot,
			TeamID:         teamID,
			TeamName:       row.TeamName,
			EarliestMatch:  row.EarliestMatchDate,
			LatestMatch:    row.MostRecentMatchDate,
			Matches:        matches,
		})
	}
}

// matchObservation reduces a provider match payload to the graph's shape.
func matchObservation(match statsbomb.MatchRecord, competitionID, seasonID int64) catalog.MatchObservation {
	obs := catalog.MatchObservation{
		MatchID:       match.MatchID,
		CompetitionID: competitionID,
		SeasonID:      seasonID,
		Date:          match.ResolvedDate(),
		Home:          teamStub(match.HomeTeam),
		Away:          teamStub(match.AwayTeam),
		HomeManagers:  managerObservations(match.HomeTeam.Managers, match.HomeManagers),
		AwayManagers:  managerObservations(match.AwayTeam.Managers, match.AwayManagers),
		Status:        match.MatchStatus,
		KickOff:       match.ResolvedKickOff(),
		HomeScore:     match.HomeScore,
		AwayScore:     match.AwayScore,
		Stage:         match.StageName(),
	}
	if match.MatchWeek > 0 {
		week := match.MatchWeek
		obs.Week = &week
	}
	if match.Stadium != nil {
		obs.Stadium = strings.TrimSpace(match.Stadium.Name)
	}
	return obs
}

func teamStub(team statsbomb.MatchTeamRecord) catalog.TeamStub {
	stub := catalog.TeamStub{
		Name:    team.ResolvedName(),
		Country: team.CountryName(),
	}
	if id := team.ResolvedID(); id > 0 {
		stub.ID = &id
	}
	return stub
}

// managerObservations merges the nested and top-level manager spellings a
// match payload can carry.
func managerObservations(groups ...[]statsbomb.ManagerRecord) []catalog.ManagerObservation {
	var out []catalog.ManagerObservation
	seen := make(map[int64]struct{})
	for _, group := range groups {
		for _, mgr := range group {
			id := mgr.ResolvedID()
			if id == 0 {
				continue
			}
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, catalog.ManagerObservation{ID: id, Name: mgr.ResolvedName()})
		}
	}
	return out
}
