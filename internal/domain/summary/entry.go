package summary

import (
	"strconv"
	"strings"

	"github.com/bytedance/sonic"

	"github.com/openfooty/statindex/internal/platform/id"
)

// Sorted keys keep metadata byte-stable across rebuilds.
var metadataCodec = sonic.Config{SortMapKeys: true}.Froze()

// BuildEntry shapes one raw player-season row into a summary entry. The
// second return is false when the row carries no player identity at all,
// not even a name to derive one from.
func BuildEntry(record map[string]any, scope SeasonScope) (Entry, bool) {
	playerID, ok := PlayerIdentifier(record)
	if !ok {
		return Entry{}, false
	}

	primary := textField(record, "primary_position", "player_position", "position")
	entry := Entry{
		CompetitionID:     scope.CompetitionID,
		CompetitionName:   scope.CompetitionName,
		SeasonID:          scope.SeasonID,
		SeasonLabel:       scope.SeasonLabel,
		PlayerID:          playerID,
		PlayerName:        textField(record, "player_name"),
		TeamName:          textField(record, "team_name"),
		Position:          textField(record, "position", "player_position"),
		PrimaryPosition:   primary,
		SecondaryPosition: textField(record, "secondary_position"),
		PositionBucket:    BucketForPosition(primary),
		Metrics:           ExtractMetrics(record),
		MetadataJSON:      encodeMetadata(record),
	}
	if entry.Position == "" {
		entry.Position = primary
	}
	if teamID, found := intField(record, "team_id"); found {
		entry.TeamID = &teamID
	}

	entry.Minutes = MinutesOf(record)
	return entry, true
}

// MinutesOf reads a raw row's minutes played. A zero in the preferred
// column falls through to the backup column before either is parsed, and an
// unparseable value counts as zero.
func MinutesOf(record map[string]any) float64 {
	raw := record["player_season_minutes"]
	if !truthy(raw) {
		raw = record["minutes_played"]
	}
	minutes, _ := NormalizeNumeric(raw)
	return minutes
}

// PlayerIdentifier resolves the player id of a raw row, falling back to a
// checksum of the player and team names when the provider sent no id.
func PlayerIdentifier(record map[string]any) (int64, bool) {
	for _, key := range []string{"player_id", "playerId", "id"} {
		if value, ok := intField(record, key); ok {
			return value, true
		}
	}
	name := textField(record, "player_name")
	if name == "" {
		return 0, false
	}
	return id.SyntheticPlayerID(name, textField(record, "team_name")), true
}

func encodeMetadata(record map[string]any) string {
	encoded, err := metadataCodec.Marshal(record)
	if err != nil {
		return "{}"
	}
	return string(encoded)
}

func textField(record map[string]any, keys ...string) string {
	for _, key := range keys {
		if value, ok := record[key].(string); ok && value != "" {
			return value
		}
	}
	return ""
}

func intField(record map[string]any, key string) (int64, bool) {
	switch value := record[key].(type) {
	case int64:
		return value, true
	case int:
		return int64(value), true
	case uint64:
		return int64(value), true
	case float64:
		return int64(value), true
	case float32:
		return int64(value), true
	case string:
		parsed, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	}
	return 0, false
}

func truthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != ""
	case float64:
		return v != 0
	case float32:
		return v != 0
	case int:
		return v != 0
	case int64:
		return v != 0
	case uint64:
		return v != 0
	}
	return value != nil
}
