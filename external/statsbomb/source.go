package statsbomb

import "context"

// Source is the read surface the index pipeline consumes. Every method maps
// to one upstream endpoint and returns the slice for that exact scope: a nil
// error with zero rows means the endpoint answered and had nothing, while a
// missing endpoint surfaces as an error satisfying IsNotFound.
type Source interface {
	ListCompetitions(ctx context.Context) ([]CompetitionRecord, error)
	ListSeasons(ctx context.Context, competitionID int64) ([]SeasonRecord, error)
	ListMatches(ctx context.Context, competitionID, seasonID int64) ([]MatchRecord, error)
	GetLineups(ctx context.Context, matchID int64) ([]LineupRecord, error)
	GetTeamSeasonStats(ctx context.Context, competitionID, seasonID int64) ([]TeamSeasonRecord, error)
	GetPlayerSeasonStats(ctx context.Context, competitionID, seasonID int64) ([]PlayerSeasonRecord, error)
	GetPlayerMapping(ctx context.Context, filter MappingFilter) ([]PlayerMappingRecord, error)
}

var _ Source = (*Client)(nil)
