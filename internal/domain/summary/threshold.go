package summary

// ThresholdPolicy filters a season's rows down to players with enough
// minutes for percentiles to mean anything. All three limits are optional;
// zero disables a limit.
type ThresholdPolicy struct {
	MinMinutes        float64
	MinMinutesPercent float64
	MinMinutesFloor   float64
}

// Candidates lists the minute limits to try, in order: the dynamic share of
// the busiest player's minutes, the absolute minimum when it differs from
// the first candidate, then the floor.
func (p ThresholdPolicy) Candidates(maxMinutes float64) []float64 {
	var candidates []float64
	if p.MinMinutesPercent > 0 {
		if dynamic := maxMinutes * p.MinMinutesPercent; dynamic > 0 {
			candidates = append(candidates, dynamic)
		}
	}
	if p.MinMinutes > 0 && (len(candidates) == 0 || p.MinMinutes != candidates[0]) {
		candidates = append(candidates, p.MinMinutes)
	}
	if p.MinMinutesFloor > 0 {
		candidates = append(candidates, p.MinMinutesFloor)
	}
	return candidates
}

// Select returns the first candidate limit that keeps at least one of the
// given minute totals, or 0 when every candidate would empty the season and
// the rows should be ingested unfiltered.
func (p ThresholdPolicy) Select(minutes []float64) float64 {
	var maxMinutes float64
	for _, m := range minutes {
		if m > maxMinutes {
			maxMinutes = m
		}
	}
	for _, limit := range p.Candidates(maxMinutes) {
		for _, m := range minutes {
			if m >= limit {
				return limit
			}
		}
	}
	return 0
}
