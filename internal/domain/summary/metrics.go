package summary

import (
	"math"
	"strconv"
	"strings"
)

// Identity and bookkeeping columns that never become metrics.
var identityFields = map[string]struct{}{
	"competition_id":        {},
	"season_id":             {},
	"season_label":          {},
	"competition_name":      {},
	"player_id":             {},
	"player_name":           {},
	"team_id":               {},
	"team_name":             {},
	"position":              {},
	"minutes":               {},
	"player_season_minutes": {},
	"minutes_played":        {},
}

// ExtractMetrics keeps every column of a raw row that is numeric and not an
// identity field. Values that cannot be read as a finite number are dropped.
func ExtractMetrics(record map[string]any) map[string]float64 {
	metrics := make(map[string]float64)
	for key, value := range record {
		if _, skip := identityFields[key]; skip {
			continue
		}
		if number, ok := NormalizeNumeric(value); ok {
			metrics[key] = number
		}
	}
	return metrics
}

// NormalizeNumeric coerces a raw value to a float, rejecting NaN and
// infinities so the percentile math stays defined.
func NormalizeNumeric(value any) (float64, bool) {
	var number float64
	switch v := value.(type) {
	case bool:
		if v {
			number = 1
		}
	case float64:
		number = v
	case float32:
		number = float64(v)
	case int:
		number = float64(v)
	case int64:
		number = float64(v)
	case uint64:
		number = float64(v)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		number = parsed
	default:
		return 0, false
	}
	if math.IsNaN(number) || math.IsInf(number, 0) {
		return 0, false
	}
	return number, true
}
