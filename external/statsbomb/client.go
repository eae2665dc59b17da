package statsbomb

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/openfooty/statindex/internal/platform/logging"
	"github.com/openfooty/statindex/internal/platform/resilience"
)

const (
	defaultBaseURL        = "https://data.statsbombservices.com/api"
	defaultMappingBaseURL = "https://data.statsbomb.com/api"

	competitionsVersion = "v4"
	seasonsVersion      = "v6"
	matchesVersion      = "v6"
	lineupsVersion      = "v4"
	teamStatsVersion    = "v2"
	playerStatsVersion  = "v4"
	mappingVersion      = "v1"
)

var bearerTokenRegex = regexp.MustCompile(`(?i)bearer\s+[^\s"']+`)

var (
	errStatsBombTransient = crerr.New("statsbomb transient failure")

	// ErrNotFound marks a 404 from the provider: the requested slice of the
	// hierarchy does not exist for this account. Callers distinguish it from
	// an empty result via IsNotFound.
	ErrNotFound = crerr.New("statsbomb resource not found")

	// ErrUnavailable is returned without calling the provider while the
	// circuit breaker holds the connection open.
	ErrUnavailable = crerr.New("statsbomb provider unavailable")
)

// IsNotFound reports whether err stems from a missing upstream endpoint as
// opposed to an endpoint that answered with zero rows.
func IsNotFound(err error) bool {
	return err != nil && stderrors.Is(err, ErrNotFound)
}

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	MappingBaseURL string
	Token          string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

type Client struct {
	httpClient     *http.Client
	baseURL        string
	mappingBaseURL string
	token          string
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight[[]byte]
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 30 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	mappingBaseURL := strings.TrimRight(strings.TrimSpace(cfg.MappingBaseURL), "/")
	if mappingBaseURL == "" {
		mappingBaseURL = defaultMappingBaseURL
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		mappingBaseURL: mappingBaseURL,
		token:          strings.TrimSpace(cfg.Token),
		maxRetries:     maxInt(cfg.MaxRetries, 0),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

func (c *Client) ListCompetitions(ctx context.Context) ([]CompetitionRecord, error) {
	path := fmt.Sprintf("/%s/competitions", competitionsVersion)
	var records []CompetitionRecord
	if _, err := c.doJSON(ctx, c.baseURL, path, nil, &records); err != nil {
		return nil, fmt.Errorf("fetch competitions: %w", err)
	}
	return records, nil
}

func (c *Client) ListSeasons(ctx context.Context, competitionID int64) ([]SeasonRecord, error) {
	if competitionID <= 0 {
		return nil, fmt.Errorf("competition id must be greater than zero")
	}

	path := fmt.Sprintf("/%s/competitions/%d/seasons", seasonsVersion, competitionID)
	var records []SeasonRecord
	if _, err := c.doJSON(ctx, c.baseURL, path, nil, &records); err != nil {
		return nil, fmt.Errorf("fetch seasons competition_id=%d: %w", competitionID, err)
	}
	return records, nil
}

func (c *Client) ListMatches(ctx context.Context, competitionID, seasonID int64) ([]MatchRecord, error) {
	if competitionID <= 0 {
		return nil, fmt.Errorf("competition id must be greater than zero")
	}
	if seasonID <= 0 {
		return nil, fmt.Errorf("season id must be greater than zero")
	}

	path := fmt.Sprintf("/%s/competitions/%d/seasons/%d/matches", matchesVersion, competitionID, seasonID)
	var records []MatchRecord
	if _, err := c.doJSON(ctx, c.baseURL, path, nil, &records); err != nil {
		return nil, fmt.Errorf("fetch matches competition_id=%d season_id=%d: %w", competitionID, seasonID, err)
	}
	return records, nil
}

func (c *Client) GetLineups(ctx context.Context, matchID int64) ([]LineupRecord, error) {
	if matchID <= 0 {
		return nil, fmt.Errorf("match id must be greater than zero")
	}

	path := fmt.Sprintf("/%s/lineups/%d", lineupsVersion, matchID)
	var records []LineupRecord
	if _, err := c.doJSON(ctx, c.baseURL, path, nil, &records); err != nil {
		return nil, fmt.Errorf("fetch lineups match_id=%d: %w", matchID, err)
	}
	return records, nil
}

func (c *Client) GetTeamSeasonStats(ctx context.Context, competitionID, seasonID int64) ([]TeamSeasonRecord, error) {
	if competitionID <= 0 {
		return nil, fmt.Errorf("competition id must be greater than zero")
	}
	if seasonID <= 0 {
		return nil, fmt.Errorf("season id must be greater than zero")
	}

	path := fmt.Sprintf("/%s/competitions/%d/seasons/%d/team-stats", teamStatsVersion, competitionID, seasonID)
	var items []map[string]any
	if _, err := c.doJSON(ctx, c.baseURL, path, nil, &items); err != nil {
		return nil, fmt.Errorf("fetch team stats competition_id=%d season_id=%d: %w", competitionID, seasonID, err)
	}

	records := make([]TeamSeasonRecord, 0, len(items))
	for _, item := range items {
		records = append(records, mapTeamSeasonRecord(item, competitionID, seasonID))
	}
	return records, nil
}

func (c *Client) GetPlayerSeasonStats(ctx context.Context, competitionID, seasonID int64) ([]PlayerSeasonRecord, error) {
	if competitionID <= 0 {
		return nil, fmt.Errorf("competition id must be greater than zero")
	}
	if seasonID <= 0 {
		return nil, fmt.Errorf("season id must be greater than zero")
	}

	path := fmt.Sprintf("/%s/competitions/%d/seasons/%d/player-stats", playerStatsVersion, competitionID, seasonID)
	var items []map[string]any
	if _, err := c.doJSON(ctx, c.baseURL, path, nil, &items); err != nil {
		return nil, fmt.Errorf("fetch player stats competition_id=%d season_id=%d: %w", competitionID, seasonID, err)
	}

	records := make([]PlayerSeasonRecord, 0, len(items))
	for _, item := range items {
		records = append(records, mapPlayerSeasonRecord(item, competitionID, seasonID))
	}
	return records, nil
}

func (c *Client) GetPlayerMapping(ctx context.Context, filter MappingFilter) ([]PlayerMappingRecord, error) {
	query := map[string]string{}
	if filter.CompetitionID > 0 {
		query["competition-id"] = strconv.FormatInt(filter.CompetitionID, 10)
	}
	if filter.SeasonID > 0 {
		query["season-id"] = strconv.FormatInt(filter.SeasonID, 10)
	}
	if filter.LivePlayerID > 0 {
		query["live-player-id"] = strconv.FormatInt(filter.LivePlayerID, 10)
	}
	if filter.OfflinePlayerID > 0 {
		query["offline-player-id"] = strconv.FormatInt(filter.OfflinePlayerID, 10)
	}
	if strings.TrimSpace(filter.MatchDateFrom) != "" {
		query["match-date-from"] = strings.TrimSpace(filter.MatchDateFrom)
	}
	if strings.TrimSpace(filter.MatchDateTo) != "" {
		query["match-date-to"] = strings.TrimSpace(filter.MatchDateTo)
	}
	if filter.AllAccountData {
		query["all-account-data"] = "true"
	}
	if filter.AddMatchesPlayed {
		query["add-matches-played"] = "true"
	}

	path := fmt.Sprintf("/%s/player-mapping", mappingVersion)
	var items []map[string]any
	if _, err := c.doJSON(ctx, c.mappingBaseURL, path, query, &items); err != nil {
		return nil, fmt.Errorf("fetch player mapping: %w", err)
	}

	records := make([]PlayerMappingRecord, 0, len(items))
	for _, item := range items {
		records = append(records, mapPlayerMappingRecord(item))
	}
	return records, nil
}

func (c *Client) doJSON(ctx context.Context, baseURL, path string, query map[string]string, target any) ([]byte, error) {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "statsbomb circuit breaker rejected request", "state", c.breaker.State())
			return nil, fmt.Errorf("%w: circuit open", ErrUnavailable)
		}
	}

	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}

	fullURL := baseURL + path
	if encoded := values.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	raw, err, _ := c.flight.Do(fullURL, func() ([]byte, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && isStatsBombCircuitFailure(reqErr) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return nil, err
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return nil, fmt.Errorf("decode provider payload: %w", err)
	}

	return raw, nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")
		if c.token != "" {
			req.Header.Set("authorization", "Bearer "+c.token)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %s", errStatsBombTransient, sanitizeSensitiveText(err.Error(), c.token))
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 6<<20))
			_ = resp.Body.Close()
			if readErr != nil {
				lastErr = fmt.Errorf("%w: read response body: %v", errStatsBombTransient, readErr)
			} else if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return raw, nil
			} else if resp.StatusCode == http.StatusNotFound {
				return nil, fmt.Errorf("%w: status=404 url=%s", ErrNotFound, fullURL)
			} else if isRetryableStatus(resp.StatusCode) {
				lastErr = fmt.Errorf("%w: provider status=%d body=%s", errStatsBombTransient, resp.StatusCode, abbreviateBody(raw))
			} else {
				return nil, fmt.Errorf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("provider request failed")
	}
	c.logger.WarnContext(ctx, "statsbomb request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func sanitizeSensitiveText(value, token string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return value
	}
	if token != "" {
		value = strings.ReplaceAll(value, token, "REDACTED")
	}
	value = bearerTokenRegex.ReplaceAllString(value, "Bearer REDACTED")
	return value
}

func isStatsBombCircuitFailure(err error) bool {
	if err == nil {
		return false
	}
	return stderrors.Is(err, errStatsBombTransient)
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}

func mapTeamSeasonRecord(item map[string]any, competitionID, seasonID int64) TeamSeasonRecord {
	teamID := getInt64(item, "team_id")
	teamName := getString(item, "team_name")
	if nested := nestedMap(item, "team"); nested != nil {
		if teamID <= 0 {
			teamID = getInt64(nested, "team_id")
		}
		if teamName == "" {
			teamName = getString(nested, "team_name")
		}
	}
	if v := getInt64(item, "competition_id"); v > 0 {
		competitionID = v
	}
	if v := getInt64(item, "season_id"); v > 0 {
		seasonID = v
	}

	return TeamSeasonRecord{
		TeamID:        teamID,
		TeamName:      teamName,
		CompetitionID: competitionID,
		SeasonID:      seasonID,
		Fields:        item,
	}
}

func mapPlayerSeasonRecord(item map[string]any, competitionID, seasonID int64) PlayerSeasonRecord {
	teamID := getInt64(item, "team_id")
	teamName := getString(item, "team_name")
	if nested := nestedMap(item, "team"); nested != nil {
		if teamID <= 0 {
			teamID = getInt64(nested, "team_id")
		}
		if teamName == "" {
			teamName = getString(nested, "team_name")
		}
	}
	if v := getInt64(item, "competition_id"); v > 0 {
		competitionID = v
	}
	if v := getInt64(item, "season_id"); v > 0 {
		seasonID = v
	}

	primary := getStringAny(item, "primary_position", "player_position", "position")

	return PlayerSeasonRecord{
		PlayerID:          getInt64(item, "player_id"),
		PlayerName:        getString(item, "player_name"),
		TeamID:            teamID,
		TeamName:          teamName,
		CompetitionID:     competitionID,
		SeasonID:          seasonID,
		Position:          getStringAny(item, "position", "player_position", "primary_position"),
		PrimaryPosition:   primary,
		SecondaryPosition: getString(item, "secondary_position"),
		Minutes:           getFloat64Any(item, "player_season_minutes", "minutes_played", "player_minutes"),
		BirthDate:         getStringAny(item, "birth_date", "player_birth_date"),
		CountryName:       getStringAny(item, "nationality_name", "country_name"),
		Fields:            item,
	}
}

func mapPlayerMappingRecord(item map[string]any) PlayerMappingRecord {
	record := PlayerMappingRecord{
		LivePlayerID:        getInt64(item, "live_player_id"),
		OfflinePlayerID:     getInt64(item, "offline_player_id"),
		PlayerName:          getString(item, "player_name"),
		OfflineTeamID:       getInt64(item, "offline_team_id"),
		TeamName:            getString(item, "team_name"),
		CompetitionID:       getInt64(item, "competition_id"),
		SeasonID:            getInt64(item, "season_id"),
		SeasonName:          getString(item, "season_name"),
		BirthDate:           getString(item, "player_birth_date"),
		PreferredFoot:       getStringAny(item, "player_preferred_foot", "player_perferred_foot"),
		CountryOfBirth:      getString(item, "country_of_birth_name"),
		EarliestMatchDate:   getString(item, "earliest_match_date"),
		MostRecentMatchDate: getString(item, "most_recent_match_date"),
	}
	if value, ok := lookupFloat64(item, "player_height"); ok {
		record.HeightCM = &value
	}
	if value, ok := lookupFloat64(item, "player_weight"); ok {
		record.WeightKG = &value
	}

	rawMatches, ok := item["matches_played"].([]any)
	if !ok {
		return record
	}
	record.MatchesPlayed = make([]MappingMatchRecord, 0, len(rawMatches))
	for _, rawMatch := range rawMatches {
		matchItem, ok := rawMatch.(map[string]any)
		if !ok {
			continue
		}
		matchID := getInt64(matchItem, "offline_match_id")
		if matchID <= 0 {
			matchID = getInt64(matchItem, "match_id")
		}
		if matchID <= 0 {
			continue
		}
		record.MatchesPlayed = append(record.MatchesPlayed, MappingMatchRecord{
			MatchID:   matchID,
			MatchDate: getString(matchItem, "match_date"),
		})
	}
	return record
}

func getString(src map[string]any, key string) string {
	if src == nil {
		return ""
	}
	raw, ok := src[key]
	if !ok || raw == nil {
		return ""
	}
	value, ok := raw.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(value)
}

func getStringAny(src map[string]any, keys ...string) string {
	for _, key := range keys {
		if value := getString(src, key); value != "" {
			return value
		}
	}
	return ""
}

func getInt64(src map[string]any, key string) int64 {
	if src == nil {
		return 0
	}
	raw, ok := src[key]
	if !ok || raw == nil {
		return 0
	}
	switch typed := raw.(type) {
	case float64:
		return int64(typed)
	case float32:
		return int64(typed)
	case int:
		return int64(typed)
	case int64:
		return typed
	case string:
		v, err := strconv.ParseInt(strings.TrimSpace(typed), 10, 64)
		if err != nil {
			return 0
		}
		return v
	default:
		return 0
	}
}

func getFloat64Any(src map[string]any, keys ...string) float64 {
	for _, key := range keys {
		if value, ok := lookupFloat64(src, key); ok {
			return value
		}
	}
	return 0
}

func lookupFloat64(src map[string]any, key string) (float64, bool) {
	if src == nil {
		return 0, false
	}
	raw, ok := src[key]
	if !ok || raw == nil {
		return 0, false
	}
	switch typed := raw.(type) {
	case float64:
		return typed, true
	case float32:
		return float64(typed), true
	case int:
		return float64(typed), true
	case int64:
		return float64(typed), true
	case string:
		v, err := strconv.ParseFloat(strings.TrimSpace(typed), 64)
		if err != nil {
			return 0, false
		}
		return v, true
	default:
		return 0, false
	}
}

func nestedMap(src map[string]any, key string) map[string]any {
	if src == nil {
		return nil
	}
	obj, ok := src[key].(map[string]any)
	if !ok {
		return nil
	}
	return obj
}

func maxInt(left, right int) int {
	if left > right {
		return left
	}
	return right
}
