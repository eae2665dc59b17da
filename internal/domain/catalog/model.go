// Package catalog models the entity graph built from upstream football
// data: competitions, seasons, teams, players, managers, and matches,
// cross-linked through bidirectional adjacency maps. One Graph is built per
// indexing run and finalized before serialization.
package catalog

import (
	"sort"
	"strconv"
	"time"

	"github.com/bytedance/sonic"

	"github.com/openfooty/statindex/internal/platform/namekey"
)

// IDSet is a set of provider identifiers. It marshals as a sorted JSON
// array so serialized output is deterministic.
type IDSet map[int64]struct{}

func (s IDSet) Add(id int64) {
	s[id] = struct{}{}
}

func (s IDSet) Has(id int64) bool {
	_, ok := s[id]
	return ok
}

func (s IDSet) Sorted() []int64 {
	ids := make([]int64, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (s IDSet) MarshalJSON() ([]byte, error) {
	ids := s.Sorted()
	buf := make([]byte, 0, len(ids)*8+2)
	buf = append(buf, '[')
	for i, id := range ids {
		if i > 0 {
			buf = append(buf, ',')
		}
		buf = strconv.AppendInt(buf, id, 10)
	}
	return append(buf, ']'), nil
}

// StringSet is a set of observed string values, serialized sorted.
type StringSet map[string]struct{}

func (s StringSet) Add(v string) {
	s[v] = struct{}{}
}

func (s StringSet) Sorted() []string {
	values := make([]string, 0, len(s))
	for v := range s {
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}

func (s StringSet) MarshalJSON() ([]byte, error) {
	return sonic.Marshal(s.Sorted())
}

// NameIndex maps every lookup variant of a display name to an entity id.
// The first entity to claim a variant keeps it.
type NameIndex map[string]int64

func (idx NameIndex) Claim(name string, id int64) {
	for _, key := range namekey.KeyVariants(name) {
		if _, ok := idx[key]; !ok {
			idx[key] = id
		}
	}
}

// DateRange tracks the earliest and latest ISO dates observed for an
// entity. Dates that do not parse as YYYY-MM-DD are ignored.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

func (r *DateRange) Observe(date string) {
	if len(date) < 10 {
		return
	}
	day := date[:10]
	if _, err := time.Parse("2006-01-02", day); err != nil {
		return
	}
	if r.Start == "" || day < r.Start {
		r.Start = day
	}
	if r.End == "" || day > r.End {
		r.End = day
	}
}

// AppearanceRange is a player's first and last known appearance dates.
type AppearanceRange struct {
	First string `json:"first"`
	Last  string `json:"last"`
}

// Competition is one tournament as listed in the provider catalogue.
// Category is the coarse league/cup classification used by the relational
// index; it is empty when no target configuration covers the competition.
type Competition struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Country   string    `json:"country"`
	Type      string    `json:"type"`
	Category  string    `json:"category,omitempty"`
	Seasons   IDSet     `json:"seasons"`
	DateRange DateRange `json:"date_range"`
}

// Season belongs to exactly one competition. MatchIDs keeps ingestion
// order; Teams is replaced from the adjacency maps at finalize time.
type Season struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	CompetitionID   int64     `json:"competition_id"`
	CompetitionName string    `json:"competition_name"`
	Teams           IDSet     `json:"teams"`
	MatchIDs        []int64   `json:"match_ids"`
	DateRange       DateRange `json:"date_range"`
	MatchCount      int       `json:"match_count"`
}

// Team is created on first sighting and merged on every later one, never
// replaced. The first observed name wins; later sightings only extend the
// name index.
type Team struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	Country      string  `json:"country"`
	Seasons      IDSet   `json:"seasons"`
	Competitions IDSet   `json:"competitions"`
	Managers     []int64 `json:"managers"`
	Players      IDSet   `json:"players"`
	MatchCount   int     `json:"match_count"`
}

// Player merges identity across lineups, season aggregates, and the player
// mapping feed, all keyed by the same numeric id. JerseyNumbers is keyed by
// team id then season id. MatchCount and the appearance range are
// recomputed from adjacency at finalize time.
type Player struct {
	ID            int64                       `json:"id"`
	Name          string                      `json:"name"`
	CommonName    string                      `json:"common_name"`
	Country       string                      `json:"country"`
	BirthDate     string                      `json:"birth_date"`
	HeightCM      *float64                    `json:"height_cm,omitempty"`
	WeightKG      *float64                    `json:"weight_kg,omitempty"`
	PreferredFoot string                      `json:"preferred_foot,omitempty"`
	Positions     StringSet                   `json:"positions"`
	Teams         IDSet                       `json:"teams"`
	Seasons       IDSet                       `json:"seasons"`
	Competitions  IDSet                       `json:"competitions"`
	Matches       IDSet                       `json:"matches"`
	JerseyNumbers map[string]map[string]int64 `json:"jersey_numbers"`
	DateRange     AppearanceRange             `json:"date_range"`
	MatchCount    int                         `json:"match_count"`
}

type Manager struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Teams   IDSet  `json:"teams"`
	Seasons IDSet  `json:"seasons"`
}

// Match is a minimal record enriched opportunistically from whichever
// source supplied it first. Team ids are nil when the match is known only
// through a player's match history.
type Match struct {
	ID            int64  `json:"id"`
	SeasonID      int64  `json:"season_id"`
	CompetitionID int64  `json:"competition_id"`
	HomeTeamID    *int64 `json:"home_team_id"`
	AwayTeamID    *int64 `json:"away_team_id"`
	MatchDate     string `json:"match_date"`
	MatchWeek     *int64 `json:"match_week"`
	Status        string `json:"match_status,omitempty"`
	KickOff       string `json:"kick_off,omitempty"`
	Stadium       string `json:"stadium_name,omitempty"`
	HomeTeamName  string `json:"home_team_name,omitempty"`
	AwayTeamName  string `json:"away_team_name,omitempty"`
	HomeScore     *int64 `json:"home_score,omitempty"`
	AwayScore     *int64 `json:"away_score,omitempty"`
	Stage         string `json:"competition_stage,omitempty"`
}

// TeamSeasonRow is one (team, competition, season) membership destined for
// the relational index.
type TeamSeasonRow struct {
	TeamID        int64
	TeamName      string
	CompetitionID int64
	SeasonID      int64
}

// PlayerSeasonRow is one (player, competition, season) roster entry for the
// relational index. Minutes is nil when the entry came from lineups rather
// than season aggregates.
type PlayerSeasonRow struct {
	PlayerID      int64
	PlayerName    string
	CompetitionID int64
	SeasonID      int64
	TeamID        *int64
	TeamName      string
	Position      string
	Minutes       *float64
}

// MatchAppearance is one player's participation in one match.
type MatchAppearance struct {
	MatchID       int64
	PlayerID      int64
	TeamID        *int64
	CompetitionID int64
	SeasonID      int64
	PlayerName    string
	TeamName      string
	Position      string
	JerseyNumber  *int64
	Starter       bool
	MinutesPlayed *float64
}

// Relationships holds every cross-entity adjacency map. Keys are entity
// ids; values are the linked id sets.
type Relationships struct {
	CompetitionToSeasons map[int64]IDSet
	SeasonToTeams        map[int64]IDSet
	SeasonToPlayers      map[int64]IDSet
	SeasonToMatches      map[int64]IDSet
	TeamToSeasons        map[int64]IDSet
	TeamToPlayers        map[int64]IDSet
	PlayerToTeams        map[int64]IDSet
	PlayerToSeasons      map[int64]IDSet
	PlayerToMatches      map[int64]IDSet
	MatchToPlayers       map[int64]IDSet
}

func newRelationships() *Relationships {
	return &Relationships{
		CompetitionToSeasons: make(map[int64]IDSet),
		SeasonToTeams:        make(map[int64]IDSet),
		SeasonToPlayers:      make(map[int64]IDSet),
		SeasonToMatches:      make(map[int64]IDSet),
		TeamToSeasons:        make(map[int64]IDSet),
		TeamToPlayers:        make(map[int64]IDSet),
		PlayerToTeams:        make(map[int64]IDSet),
		PlayerToSeasons:      make(map[int64]IDSet),
		PlayerToMatches:      make(map[int64]IDSet),
		MatchToPlayers:       make(map[int64]IDSet),
	}
}

func link(m map[int64]IDSet, key, id int64) {
	set, ok := m[key]
	if !ok {
		set = make(IDSet)
		m[key] = set
	}
	set.Add(id)
}

// Graph is the full entity graph for one indexing run. It is mutated
// through the Observe methods during the build, then sealed by Finalize;
// serializers treat a finalized graph as read-only.
type Graph struct {
	Competitions map[int64]*Competition
	Seasons      map[int64]*Season
	Teams        map[int64]*Team
	Players      map[int64]*Player
	Managers     map[int64]*Manager
	Matches      map[int64]*Match

	Rel *Relationships

	CompetitionNames      NameIndex
	CompetitionsByCountry map[string][]int64
	CompetitionsByType    map[string][]int64

	SeasonsByYear        map[string][]int64
	SeasonsByCompetition map[int64][]int64

	TeamNames      NameIndex
	TeamsByCountry map[string][]int64
	TeamsBySeason  map[int64][]int64

	PlayerNames       NameIndex
	PlayersByCountry  map[string][]int64
	PlayersBySeason   map[int64][]int64
	PlayersByPosition map[string][]int64
	PlayersByTeam     map[int64][]int64

	ManagerNames     NameIndex
	ManagersByTeam   map[int64][]int64
	ManagersBySeason map[int64][]int64

	TeamSeasons   []TeamSeasonRow
	PlayerSeasons []PlayerSeasonRow
	Appearances   []MatchAppearance

	Issues []string
}

func NewGraph() *Graph {
	return &Graph{
		Competitions: make(map[int64]*Competition),
		Seasons:      make(map[int64]*Season),
		Teams:        make(map[int64]*Team),
		Players:      make(map[int64]*Player),
		Managers:     make(map[int64]*Manager),
		Matches:      make(map[int64]*Match),

		Rel: newRelationships(),

		CompetitionNames:      make(NameIndex),
		CompetitionsByCountry: make(map[string][]int64),
		CompetitionsByType:    make(map[string][]int64),

		SeasonsByYear:        make(map[string][]int64),
		SeasonsByCompetition: make(map[int64][]int64),

		TeamNames:      make(NameIndex),
		TeamsByCountry: make(map[string][]int64),
		TeamsBySeason:  make(map[int64][]int64),

		PlayerNames:       make(NameIndex),
		PlayersByCountry:  make(map[string][]int64),
		PlayersBySeason:   make(map[int64][]int64),
		PlayersByPosition: make(map[string][]int64),
		PlayersByTeam:     make(map[int64][]int64),

		ManagerNames:     make(NameIndex),
		ManagersByTeam:   make(map[int64][]int64),
		ManagersBySeason: make(map[int64][]int64),
	}
}

// Counts reports how many entities of each kind the graph holds.
func (g *Graph) Counts() map[string]int {
	return map[string]int{
		"competitions": len(g.Competitions),
		"seasons":      len(g.Seasons),
		"teams":        len(g.Teams),
		"players":      len(g.Players),
		"managers":     len(g.Managers),
		"matches":      len(g.Matches),
	}
}

// DateCoverage returns the earliest and latest match dates observed across
// all competitions. Both values are empty when no dated match was seen.
func (g *Graph) DateCoverage() (start, end string) {
	for _, comp := range g.Competitions {
		if comp.DateRange.Start != "" && (start == "" || comp.DateRange.Start < start) {
			start = comp.DateRange.Start
		}
		if comp.DateRange.End != "" && (end == "" || comp.DateRange.End > end) {
			end = comp.DateRange.End
		}
	}
	return start, end
}
