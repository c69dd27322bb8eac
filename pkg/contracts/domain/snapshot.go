package domain

import "time"

// LatestSnapshot is the one-row-per-entity view of a cleaned Dataset: the
// chronologically last observation for each country, ordered descending by
// cumulative case count. Derived once per pipeline run and immutable.
type LatestSnapshot struct {
	Entries     []Observation `json:"entries"`
	GeneratedAt time.Time     `json:"generated_at"`
}

// Len returns the number of entities in the snapshot.
func (s LatestSnapshot) Len() int {
	return len(s.Entries)
}

// Clone returns a deep copy of the snapshot.
func (s LatestSnapshot) Clone() LatestSnapshot {
	out := LatestSnapshot{GeneratedAt: s.GeneratedAt}
	if s.Entries == nil {
		return out
	}
	out.Entries = make([]Observation, len(s.Entries))
	for i, o := range s.Entries {
		out.Entries[i] = o.Clone()
	}
	return out
}

// TrendPoint is one date of the global trend series: cumulative cases and
// deaths summed across all countries for that date. Consumers must only be
// handed points that were grouped by date upstream; summing raw
// multi-country rows directly would double count.
type TrendPoint struct {
	Date        time.Time `json:"date"`
	TotalCases  float64   `json:"total_cases"`
	TotalDeaths float64   `json:"total_deaths"`
}
