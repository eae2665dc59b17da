// Package id derives fallback identifiers for entities the upstream
// provider did not assign one.
package id

import "hash/crc32"

// syntheticBase lifts checksummed ids above bit 40. Provider player ids are
// small integers, so every synthetic id lands in a range no real id reaches.
const syntheticBase = int64(1) << 40

// SyntheticPlayerID checksums "name|team" into a stand-in player id for
// rows that carry a name but no provider id. The value is stable for one
// ingestion source and sits above syntheticBase so it cannot shadow a
// provider id; treat it strictly as a last-resort identity, never as a
// cross-provider join key.
func SyntheticPlayerID(name, team string) int64 {
	sum := crc32.ChecksumIEEE([]byte(name + "|" + team))
	if sum == 0 {
		sum = 1
	}
	return syntheticBase | int64(sum)
}
