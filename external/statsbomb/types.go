package statsbomb

import "strings"

// CompetitionRecord is one row of the live competition catalogue. The feed is
// flattened: a competition appears once per season it has data for.
type CompetitionRecord struct {
	CompetitionID            int64  `json:"competition_id"`
	SeasonID                 int64  `json:"season_id"`
	CompetitionName          string `json:"competition_name"`
	SeasonName               string `json:"season_name"`
	CountryName              string `json:"country_name"`
	CompetitionFormat        string `json:"competition_format"`
	CompetitionGender        string `json:"competition_gender"`
	CompetitionYouth         bool   `json:"competition_youth"`
	CompetitionInternational bool   `json:"competition_international"`
}

type SeasonRecord struct {
	SeasonID   int64  `json:"season_id"`
	SeasonName string `json:"season_name"`
}

type CountryRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ManagerRecord appears nested under matches. Older payloads use id/name,
// newer ones manager_id/manager_name.
type ManagerRecord struct {
	ID          int64       `json:"id"`
	ManagerID   int64       `json:"manager_id"`
	Name        string      `json:"name"`
	ManagerName string      `json:"manager_name"`
	Nickname    string      `json:"nickname"`
	Country     *CountryRef `json:"country"`
}

func (m ManagerRecord) ResolvedID() int64 {
	if m.ID > 0 {
		return m.ID
	}
	return m.ManagerID
}

func (m ManagerRecord) ResolvedName() string {
	if strings.TrimSpace(m.Name) != "" {
		return strings.TrimSpace(m.Name)
	}
	return strings.TrimSpace(m.ManagerName)
}

// MatchTeamRecord carries the side-specific key spellings the matches feed
// uses (home_team_id vs team_id and so on); callers go through the Resolved
// accessors instead of reading fields directly.
type MatchTeamRecord struct {
	HomeTeamID   int64           `json:"home_team_id"`
	AwayTeamID   int64           `json:"away_team_id"`
	TeamID       int64           `json:"team_id"`
	HomeTeamName string          `json:"home_team_name"`
	AwayTeamName string          `json:"away_team_name"`
	TeamName     string          `json:"team_name"`
	Country      *CountryRef     `json:"country"`
	Managers     []ManagerRecord `json:"managers"`
}

func (t MatchTeamRecord) ResolvedID() int64 {
	if t.HomeTeamID > 0 {
		return t.HomeTeamID
	}
	if t.AwayTeamID > 0 {
		return t.AwayTeamID
	}
	return t.TeamID
}

func (t MatchTeamRecord) ResolvedName() string {
	for _, candidate := range []string{t.HomeTeamName, t.AwayTeamName, t.TeamName} {
		if strings.TrimSpace(candidate) != "" {
			return strings.TrimSpace(candidate)
		}
	}
	return ""
}

func (t MatchTeamRecord) CountryName() string {
	if t.Country == nil {
		return ""
	}
	return strings.TrimSpace(t.Country.Name)
}

type StadiumRecord struct {
	ID      int64       `json:"id"`
	Name    string      `json:"name"`
	Country *CountryRef `json:"country"`
}

type RefereeRecord struct {
	ID      int64       `json:"id"`
	Name    string      `json:"name"`
	Country *CountryRef `json:"country"`
}

type CompetitionStageRecord struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type MatchRecord struct {
	MatchID          int64                   `json:"match_id"`
	MatchDate        string                  `json:"match_date"`
	MatchDateUTC     string                  `json:"match_date_utc"`
	KickOff          string                  `json:"kick_off"`
	KickOffUTC       string                  `json:"kick_off_utc"`
	MatchWeek        int64                   `json:"match_week"`
	MatchStatus      string                  `json:"match_status"`
	HomeTeam         MatchTeamRecord         `json:"home_team"`
	AwayTeam         MatchTeamRecord         `json:"away_team"`
	HomeScore        *int64                  `json:"home_score"`
	AwayScore        *int64                  `json:"away_score"`
	HomeManagers     []ManagerRecord         `json:"home_managers"`
	AwayManagers     []ManagerRecord         `json:"away_managers"`
	Stadium          *StadiumRecord          `json:"stadium"`
	Referee          *RefereeRecord          `json:"referee"`
	CompetitionStage *CompetitionStageRecord `json:"competition_stage"`
}

// ResolvedDate returns the calendar date of the match as YYYY-MM-DD,
// truncating any timestamp suffix.
func (m MatchRecord) ResolvedDate() string {
	date := strings.TrimSpace(m.MatchDate)
	if date == "" {
		date = strings.TrimSpace(m.MatchDateUTC)
	}
	if len(date) > 10 {
		date = date[:10]
	}
	return date
}

func (m MatchRecord) ResolvedKickOff() string {
	if strings.TrimSpace(m.KickOff) != "" {
		return strings.TrimSpace(m.KickOff)
	}
	return strings.TrimSpace(m.KickOffUTC)
}

func (m MatchRecord) StageName() string {
	if m.CompetitionStage == nil {
		return ""
	}
	return strings.TrimSpace(m.CompetitionStage.Name)
}

type LineupPosition struct {
	PositionID  int64  `json:"position_id"`
	Position    string `json:"position"`
	From        string `json:"from"`
	To          string `json:"to"`
	StartReason string `json:"start_reason"`
	EndReason   string `json:"end_reason"`
}

type LineupPlayer struct {
	PlayerID       int64            `json:"player_id"`
	PlayerName     string           `json:"player_name"`
	PlayerNickname string           `json:"player_nickname"`
	JerseyNumber   *int64           `json:"jersey_number"`
	Country        *CountryRef      `json:"country"`
	Positions      []LineupPosition `json:"positions"`
	MinutesPlayed  *float64         `json:"minutes_played"`
}

func (p LineupPlayer) CountryName() string {
	if p.Country == nil {
		return ""
	}
	return strings.TrimSpace(p.Country.Name)
}

// PrimaryPosition is the first position the feed lists for the appearance.
func (p LineupPlayer) PrimaryPosition() string {
	if len(p.Positions) == 0 {
		return ""
	}
	return strings.TrimSpace(p.Positions[0].Position)
}

// Starter reports whether any position entry was held from kickoff.
func (p LineupPlayer) Starter() bool {
	for _, pos := range p.Positions {
		if strings.HasPrefix(strings.ToLower(strings.TrimSpace(pos.StartReason)), "starting") {
			return true
		}
	}
	return false
}

type LineupRecord struct {
	TeamID   int64          `json:"team_id"`
	TeamName string         `json:"team_name"`
	Lineup   []LineupPlayer `json:"lineup"`
}

// TeamSeasonRecord is one row of season-level team aggregates. Identity
// fields are lifted out of the payload; the remaining numeric columns stay in
// Fields for metric extraction.
type TeamSeasonRecord struct {
	TeamID        int64
	TeamName      string
	CompetitionID int64
	SeasonID      int64
	Fields        map[string]any
}

// PlayerSeasonRecord is one row of season-level player aggregates. The feed
// is a flat record mixing identity columns with several dozen metric columns,
// so the full payload is retained in Fields alongside the lifted identities.
type PlayerSeasonRecord struct {
	PlayerID          int64
	PlayerName        string
	TeamID            int64
	TeamName          string
	CompetitionID     int64
	SeasonID          int64
	Position          string
	PrimaryPosition   string
	SecondaryPosition string
	Minutes           float64
	BirthDate         string
	CountryName       string
	Fields            map[string]any
}

// PlayerMappingRecord is one row of the cross-competition player mapping
// feed. It links live and offline player identities and carries biographical
// attributes plus an optional per-match appearance history.
type PlayerMappingRecord struct {
	LivePlayerID        int64
	OfflinePlayerID     int64
	PlayerName          string
	OfflineTeamID       int64
	TeamName            string
	CompetitionID       int64
	SeasonID            int64
	SeasonName          string
	BirthDate           string
	HeightCM            *float64
	WeightKG            *float64
	PreferredFoot       string
	CountryOfBirth      string
	EarliestMatchDate   string
	MostRecentMatchDate string
	MatchesPlayed       []MappingMatchRecord
}

type MappingMatchRecord struct {
	MatchID   int64
	MatchDate string
}

// MappingFilter narrows a player mapping request. Zero values are omitted
// from the query string.
type MappingFilter struct {
	CompetitionID    int64
	SeasonID         int64
	LivePlayerID     int64
	OfflinePlayerID  int64
	MatchDateFrom    string
	MatchDateTo      string
	AllAccountData   bool
	AddMatchesPlayed bool
}
