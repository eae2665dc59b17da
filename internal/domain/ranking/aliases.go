package ranking

import (
	"strconv"
	"strings"
)

// Short metric names accepted at the query surface, folded onto the columns
// the provider actually ships.
var metricAliases = map[string]string{
	"goals":                      "player_season_goals_90",
	"goals_90":                   "player_season_goals_90",
	"progressive_passes":         "player_season_progressive_passes",
	"progressive_passes_90":      "player_season_progressive_passes_90",
	"progressive_passes_per90":   "player_season_progressive_passes_90",
	"progressive_passes_per_90":  "player_season_progressive_passes_90",
	"final_third_entries":        "player_season_final_third_entries",
	"passes_completed":           "player_season_complete_passes",
	"passes_completed_90":        "player_season_complete_passes_90",
	"passes_completed_per90":     "player_season_complete_passes_90",
	"passes_attempted":           "player_season_total_passes",
	"passes_attempted_90":        "player_season_total_passes_90",
	"assist_90":                  "player_season_assists_90",
	"assists":                    "player_season_assists_90",
	"assists_90":                 "player_season_assists_90",
	"assists_per90":              "player_season_assists_90",
	"key_passes":                 "player_season_key_passes_90",
	"key_passes_90":              "player_season_key_passes_90",
	"progressive_carries":        "player_season_carries_90",
	"carries_90":                 "player_season_carries_90",
	"carry_length":               "player_season_carry_length",
	"carry_ratio":                "player_season_carry_ratio",
	"crosses_90":                 "player_season_crosses_90",
	"crossing_ratio":             "player_season_crossing_ratio",
	"box_cross_ratio":            "player_season_box_cross_ratio",
	"pressures":                  "player_season_pressures_90",
	"pressures_90":               "player_season_pressures_90",
	"counterpressures":           "player_season_counterpressures_90",
	"pressure_regains":           "player_season_pressure_regains_90",
	"padj_pressures":             "player_season_padj_pressures_90",
	"padj_tackles_interceptions": "player_season_padj_tackles_and_interceptions_90",
	"interceptions":              "player_season_interceptions_90",
	"clearances":                 "player_season_clearance_90",
	"ball_recoveries":            "player_season_ball_recoveries_90",
	"aggressive_actions":         "player_season_aggressive_actions_90",
	"aerial_ratio":               "player_season_aerial_ratio",
	"aerial_wins":                "player_season_aerial_wins_90",
	"challenge_ratio":            "player_season_challenge_ratio",
	"conversion_ratio":           "player_season_conversion_ratio",
	"shots_touch_ratio":          "player_season_shot_touch_ratio",
	"deep_progressions":          "player_season_deep_progressions_90",
	"obv_carry":                  "player_season_obv_dribble_carry_90",
	"obv_pass":                   "player_season_obv_pass_90",
	"obv_shot":                   "player_season_obv_shot_90",
	"xag":                        "player_season_expected_assists",
	"xa":                         "player_season_expected_assists",
	"xa_90":                      "player_season_expected_assists_90",
	"shots_on_target":            "player_season_shot_on_target_ratio",
	"shots_on_target_ratio":      "player_season_shot_on_target_ratio",
	"shot_on_target_ratio":       "player_season_shot_on_target_ratio",
	"shots_on_target_90":         "player_season_np_shots_90",
	"shots_on_target_per90":      "player_season_np_shots_90",
	"shots":                      "player_season_np_shots_90",
	"shots_90":                   "player_season_np_shots_90",
	"shots_per90":                "player_season_np_shots_90",
	"npxg":                       "player_season_non_penalty_xg",
	"npxg_90":                    "player_season_non_penalty_xg_90",
}

// Competition names and abbreviations pinned to provider ids.
var competitionAliases = map[string]int64{
	"premier league":         2,
	"english premier league": 2,
	"england premier league": 2,
	"epl":                    2,
	"la liga":                11,
	"laliga":                 11,
	"spanish la liga":        11,
	"serie a":                12,
	"italian serie a":        12,
	"ligue 1":                7,
	"french ligue 1":         7,
	"champions league":       16,
	"uefa champions league":  16,
	"ucl":                    16,
	"championsleague":        16,
	"europa league":          35,
	"uefa europa league":     35,
	"uel":                    35,
	"europaleague":           35,
}

// NormalizeMetric folds a human metric reference onto its stored column
// name. Unknown references pass through untouched so fully qualified column
// names keep working.
func NormalizeMetric(name string) string {
	canonical := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
	if column, ok := metricAliases[canonical]; ok {
		return column
	}
	return name
}

// ParseCompetitionFilters splits a comma list of competition references into
// provider ids and lowercased free-text names. Aliases and numeric tokens
// become ids, deduplicated in first-seen order; everything else is matched
// later against competition_name.
func ParseCompetitionFilters(raw string) ([]int64, []string) {
	if raw == "" {
		return nil, nil
	}
	var ids []int64
	var names []string
	seen := make(map[int64]struct{})
	appendID := func(id int64) {
		if _, dup := seen[id]; dup {
			return
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	for _, token := range strings.Split(raw, ",") {
		cleaned := strings.TrimSpace(token)
		if cleaned == "" {
			continue
		}
		lowered := strings.ToLower(cleaned)
		if id, ok := competitionAliases[lowered]; ok {
			appendID(id)
			continue
		}
		if id, ok := competitionAliases[strings.ReplaceAll(lowered, " ", "")]; ok {
			appendID(id)
			continue
		}
		if id, err := strconv.ParseInt(cleaned, 10, 64); err == nil && id >= 0 {
			appendID(id)
			continue
		}
		names = append(names, lowered)
	}
	return ids, names
}
