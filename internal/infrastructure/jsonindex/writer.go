// Package jsonindex serializes a finalized catalog graph into the JSON
// lookup files consumed by offline tooling: per-entity indexes, the
// relationship graph, build statistics and the validation report.
package jsonindex

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bytedance/sonic"
	"github.com/valyala/bytebufferpool"

	"github.com/openfooty/statindex/internal/domain/catalog"
	"github.com/openfooty/statindex/internal/platform/logging"
)

// Map keys are sorted so a rebuild over unchanged data is byte-identical.
var indexCodec = sonic.Config{SortMapKeys: true}.Froze()

const (
	competitionsFile  = "competitions_index.json"
	seasonsFile       = "seasons_index.json"
	teamsFile         = "teams_index.json"
	playersFile       = "players_index.json"
	managersFile      = "managers_index.json"
	matchesFile       = "matches_index.json"
	relationshipsFile = "relationship_graph.json"
	statsFile         = "stats_summary.json"
	validationFile    = "validation_report.json"
	guideFile         = "quick_lookup_guide.md"
)

type competitionsPayload struct {
	GeneratedAt string                         `json:"generated_at"`
	ByID        map[int64]*catalog.Competition `json:"by_id"`
	ByName      catalog.NameIndex              `json:"by_name"`
	ByCountry   map[string][]int64             `json:"by_country"`
	ByType      map[string][]int64             `json:"by_type"`
}

type seasonsPayload struct {
	GeneratedAt   string                    `json:"generated_at"`
	ByID          map[int64]*catalog.Season `json:"by_id"`
	ByYear        map[string][]int64        `json:"by_year"`
	ByCompetition map[int64]catalog.IDSet   `json:"by_competition"`
}

type teamsPayload struct {
	GeneratedAt string                  `json:"generated_at"`
	ByID        map[int64]*catalog.Team `json:"by_id"`
	ByName      catalog.NameIndex       `json:"by_name"`
	ByCountry   map[string][]int64      `json:"by_country"`
	BySeason    map[int64][]int64       `json:"by_season"`
}

type playersPayload struct {
	GeneratedAt string                    `json:"generated_at"`
	ByID        map[int64]*catalog.Player `json:"by_id"`
	ByName      catalog.NameIndex         `json:"by_name"`
	ByTeam      map[int64]catalog.IDSet   `json:"by_team"`
	BySeason    map[int64]catalog.IDSet   `json:"by_season"`
	ByPosition  map[string][]int64        `json:"by_position"`
	ByCountry   map[string][]int64        `json:"by_country"`
}

type managersPayload struct {
	GeneratedAt string                     `json:"generated_at"`
	ByID        map[int64]*catalog.Manager `json:"by_id"`
	ByName      catalog.NameIndex          `json:"by_name"`
	ByTeam      map[int64][]int64          `json:"by_team"`
	BySeason    map[int64][]int64          `json:"by_season"`
}

type matchesPayload struct {
	GeneratedAt string                   `json:"generated_at"`
	ByID        map[int64]*catalog.Match `json:"by_id"`
}

type relationshipsPayload struct {
	GeneratedAt          string                  `json:"generated_at"`
	CompetitionToSeasons map[int64]catalog.IDSet `json:"competition_to_seasons"`
	SeasonToTeams        map[int64]catalog.IDSet `json:"season_to_teams"`
	SeasonToPlayers      map[int64]catalog.IDSet `json:"season_to_players"`
	TeamToSeasons        map[int64]catalog.IDSet `json:"team_to_seasons"`
	TeamToPlayers        map[int64]catalog.IDSet `json:"team_to_players"`
	PlayerToTeams        map[int64]catalog.IDSet `json:"player_to_teams"`
	PlayerToSeasons      map[int64]catalog.IDSet `json:"player_to_seasons"`
	PlayerToMatches      map[int64]catalog.IDSet `json:"player_to_matches"`
	SeasonToMatches      map[int64]catalog.IDSet `json:"season_to_matches"`
	MatchToPlayers       map[int64]catalog.IDSet `json:"match_to_players"`
}

type dateCoverage struct {
	Start *string `json:"start"`
	End   *string `json:"end"`
}

type statsPayload struct {
	GeneratedAt  string         `json:"generated_at"`
	Counts       map[string]int `json:"counts"`
	DateCoverage dateCoverage   `json:"date_coverage"`
}

type validationPayload struct {
	GeneratedAt string   `json:"generated_at"`
	Issues      []string `json:"issues"`
}

// Writer persists one finalized graph as the JSON index file set plus the
// lookup guide. Every file of one write carries the same generated_at
// stamp.
type Writer struct {
	dir    string
	logger *logging.Logger
	now    func() time.Time
}

func NewWriter(dir string, logger *logging.Logger) *Writer {
	return &Writer{dir: dir, logger: logger, now: time.Now}
}

func (w *Writer) WriteIndex(ctx context.Context, graph *catalog.Graph, issues []string) error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("create index directory: %w", err)
	}

	generatedAt := w.now().UTC().Format(time.RFC3339)
	if issues == nil {
		issues = []string{}
	}
	start, end := graph.DateCoverage()

	files := []struct {
		name    string
		payload any
	}{
		{competitionsFile, competitionsPayload{
			GeneratedAt: generatedAt,
			ByID:        graph.Competitions,
			ByName:      graph.CompetitionNames,
			ByCountry:   graph.CompetitionsByCountry,
			ByType:      graph.CompetitionsByType,
		}},
		{seasonsFile, seasonsPayload{
			GeneratedAt:   generatedAt,
			ByID:          graph.Seasons,
			ByYear:        graph.SeasonsByYear,
			ByCompetition: graph.Rel.CompetitionToSeasons,
		}},
		{teamsFile, teamsPayload{
			GeneratedAt: generatedAt,
			ByID:        graph.Teams,
			ByName:      graph.TeamNames,
			ByCountry:   graph.TeamsByCountry,
			BySeason:    graph.TeamsBySeason,
		}},
		{playersFile, playersPayload{
			GeneratedAt: generatedAt,
			ByID:        graph.Players,
			ByName:      graph.PlayerNames,
			ByTeam:      graph.Rel.TeamToPlayers,
			BySeason:    mergeRosters(graph.Rel.SeasonToPlayers, graph.PlayersBySeason),
			ByPosition:  graph.PlayersByPosition,
			ByCountry:   graph.PlayersByCountry,
		}},
		{managersFile, managersPayload{
			GeneratedAt: generatedAt,
			ByID:        graph.Managers,
			ByName:      graph.ManagerNames,
			ByTeam:      graph.ManagersByTeam,
			BySeason:    graph.ManagersBySeason,
		}},
		{matchesFile, matchesPayload{
			GeneratedAt: generatedAt,
			ByID:        graph.Matches,
		}},
		{relationshipsFile, relationshipsPayload{
			GeneratedAt:          generatedAt,
			CompetitionToSeasons: graph.Rel.CompetitionToSeasons,
			SeasonToTeams:        graph.Rel.SeasonToTeams,
			SeasonToPlayers:      graph.Rel.SeasonToPlayers,
			TeamToSeasons:        graph.Rel.TeamToSeasons,
			TeamToPlayers:        graph.Rel.TeamToPlayers,
			PlayerToTeams:        graph.Rel.PlayerToTeams,
			PlayerToSeasons:      graph.Rel.PlayerToSeasons,
			PlayerToMatches:      graph.Rel.PlayerToMatches,
			SeasonToMatches:      graph.Rel.SeasonToMatches,
			MatchToPlayers:       graph.Rel.MatchToPlayers,
		}},
		{statsFile, statsPayload{
			GeneratedAt: generatedAt,
			Counts:      graph.Counts(),
			DateCoverage: dateCoverage{
				Start: optionalDate(start),
				End:   optionalDate(end),
			},
		}},
		{validationFile, validationPayload{
			GeneratedAt: generatedAt,
			Issues:      issues,
		}},
	}

	for _, file := range files {
		if err := w.writeJSON(filepath.Join(w.dir, file.name), file.payload); err != nil {
			return err
		}
	}
	if err := w.writeGuide(generatedAt); err != nil {
		return err
	}

	w.logger.InfoContext(ctx, "index files written",
		"dir", w.dir,
		"files", len(files)+1,
		"issues", len(issues),
	)
	return nil
}

func (w *Writer) writeJSON(path string, payload any) error {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if err := indexCodec.NewEncoder(buf).Encode(payload); err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}

func (w *Writer) writeGuide(generatedAt string) error {
	guide := fmt.Sprintf(`# Quick Lookup Guide

Generated: %s

Files written under this directory:

- competitions_index.json: by_id, by_name, by_country, by_type
- seasons_index.json: by_id, by_year, by_competition
- teams_index.json: by_id, by_name, by_country, by_season
- players_index.json: by_id, by_name, by_team, by_season, by_position, by_country
- managers_index.json: by_id, by_name, by_team, by_season
- matches_index.json: by_id (summary per match)
- relationship_graph.json: cross-entity links for instant traversal
- stats_summary.json: entity counts and date coverage
- validation_report.json: relationship integrity findings

Lookup notes:

- by_id maps are keyed by the provider id rendered as a string.
- by_name maps are keyed by canonical name variants (lowercase, punctuation
  stripped). Resolve a name there first, then fetch the record from by_id.
- relationship_graph.json links entities in both directions, so roster,
  appearance and season traversals never scan a full index.
- Fields that depend on upstream availability (kick-off times, birth dates,
  manager spells) are null or absent when the provider omitted them.

Rebuild with the indexer CLI to refresh the data. Every file of one build
carries the same generated_at stamp, so a mixed set means a partial write.
`, generatedAt)

	path := filepath.Join(w.dir, guideFile)
	if err := os.WriteFile(path, []byte(guide), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", guideFile, err)
	}
	return nil
}

// mergeRosters unions the lineup-driven adjacency with roster sightings
// that only reached the per-player registries, the season aggregate feed
// in particular.
func mergeRosters(rel map[int64]catalog.IDSet, extra map[int64][]int64) map[int64]catalog.IDSet {
	merged := make(map[int64]catalog.IDSet, len(rel))
	for seasonID, ids := range rel {
		set := make(catalog.IDSet, len(ids))
		for id := range ids {
			set.Add(id)
		}
		merged[seasonID] = set
	}
	for seasonID, ids := range extra {
		set, ok := merged[seasonID]
		if !ok {
			set = make(catalog.IDSet)
			merged[seasonID] = set
		}
		for _, id := range ids {
			set.Add(id)
		}
	}
	return merged
}

func optionalDate(day string) *string {
	if day == "" {
		return nil
	}
	return &day
}
