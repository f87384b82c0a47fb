package analytics

import "github.com/yourusername/racedash/internal/models"

// Raw model outputs are independent per-entry estimates and need not
// sum to 1 across a field. Rescaling by the race sum makes displayed
// percentages comparable across runners.

// ProbabilitySum totals a model's raw probabilities over one race's
// entries.
func ProbabilitySum(entries []*models.RaceEntry, model models.ModelSpec) float64 {
	sum := 0.0
	for _, entry := range entries {
		sum += entry.Probability(model.ProbabilityField)
	}
	return sum
}

// Normalize rescales a raw probability by the race sum. A sum of zero
// returns the raw value unchanged rather than propagating NaN.
func Normalize(raw, sum float64) float64 {
	if sum > 0 {
		return raw / sum
	}
	return raw
}

// RaceNormalizer caches per-race probability sums for one model so the
// sum is computed once per race however many entries are displayed.
type RaceNormalizer struct {
	model models.ModelSpec
	sums  map[string]float64
}

// NewRaceNormalizer precomputes race sums for the given model.
func NewRaceNormalizer(entriesByRace map[string][]*models.RaceEntry, model models.ModelSpec) *RaceNormalizer {
	sums := make(map[string]float64, len(entriesByRace))
	for raceID, entries := range entriesByRace {
		sums[raceID] = ProbabilitySum(entries, model)
	}
	return &RaceNormalizer{model: model, sums: sums}
}

// Normalize rescales one entry's raw probability within its race.
func (n *RaceNormalizer) Normalize(raw float64, raceID string) float64 {
	return Normalize(raw, n.sums[raceID])
}
