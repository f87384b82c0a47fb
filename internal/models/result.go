package models

// SourceNone is the source tag reported when no result source yielded
// any confirmed position for the requested races.
const SourceNone = "none"

// ResultRow is a single finishing-position row as returned by a result
// source. Depending on the source, identity is a stable horse id or a
// display name.
type ResultRow struct {
	RaceID    string `db:"race_id" json:"race_id"`
	HorseID   string `db:"horse_id" json:"horse_id"`
	HorseName string `db:"horse_name" json:"horse_name"`
	Position  int    `db:"position" json:"position"`
}

// RacePositions maps an identity key (horse id or bare name) to a
// confirmed finishing position within one race.
type RacePositions map[string]int

// ResultSet holds every confirmed position resolved for a race day,
// keyed by race id, plus the tag of the source that produced it.
type ResultSet struct {
	Positions map[string]RacePositions `json:"positions"`
	Source    string                   `json:"source"`
}

// NewResultSet returns an empty result set tagged with the given source.
func NewResultSet(source string) *ResultSet {
	return &ResultSet{
		Positions: make(map[string]RacePositions),
		Source:    source,
	}
}

// Add records a confirmed position under the given identity key.
// Positions of zero or less mean "no confirmed result" and are dropped.
func (rs *ResultSet) Add(raceID, identityKey string, position int) {
	if position <= 0 || identityKey == "" {
		return
	}
	if rs.Positions[raceID] == nil {
		rs.Positions[raceID] = make(RacePositions)
	}
	if _, exists := rs.Positions[raceID][identityKey]; !exists {
		rs.Positions[raceID][identityKey] = position
	}
}

// HasResult reports whether at least one confirmed position is known
// for the race.
func (rs *ResultSet) HasResult(raceID string) bool {
	return len(rs.Positions[raceID]) > 0
}

// CompletedRaces counts races with at least one confirmed position.
func (rs *ResultSet) CompletedRaces() int {
	count := 0
	for _, positions := range rs.Positions {
		if len(positions) > 0 {
			count++
		}
	}
	return count
}

// IsEmpty reports whether the set holds no confirmed positions at all.
func (rs *ResultSet) IsEmpty() bool {
	return rs.CompletedRaces() == 0
}
