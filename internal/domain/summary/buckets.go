package summary

import "strings"

// positionBuckets maps position-name fragments onto coarse buckets. Order
// matters: the first fragment contained in the lowercased name wins.
var positionBuckets = []struct {
	fragment string
	bucket   string
}{
	{"goalkeeper", "GK"},
	{"keeper", "GK"},
	{"centre back", "CB"},
	{"center back", "CB"},
	{"central defender", "CB"},
	{"full back", "FB"},
	{"left back", "FB"},
	{"right back", "FB"},
	{"wing back", "WB"},
	{"wing-back", "WB"},
	{"defensive midfielder", "DM"},
	{"holding midfielder", "DM"},
	{"anchor", "DM"},
	{"central midfielder", "CM"},
	{"centre midfielder", "CM"},
	{"attacking midfielder", "AM"},
	{"second striker", "AM"},
	{"winger", "W"},
	{"wide forward", "W"},
	{"left wing", "W"},
	{"right wing", "W"},
	{"forward", "ST"},
	{"striker", "ST"},
	{"centre forward", "ST"},
	{"central forward", "ST"},
}

// BucketForPosition assigns a free-text position name to its percentile
// bucket, or returns the empty string when no fragment matches.
func BucketForPosition(position string) string {
	if position == "" {
		return ""
	}
	lowered := strings.ToLower(position)
	for _, candidate := range positionBuckets {
		if strings.Contains(lowered, candidate.fragment) {
			return candidate.bucket
		}
	}
	return ""
}
