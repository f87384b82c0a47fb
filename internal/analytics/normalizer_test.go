package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yourusername/racedash/internal/models"
)

func TestProbabilitySum(t *testing.T) {
	entries := []*models.RaceEntry{
		newEntry("r1", "h1", "A", 0.5),
		newEntry("r1", "h2", "B", 0.3),
		newEntry("r1", "h3", "C", 0.4),
	}

	assert.InDelta(t, 1.2, ProbabilitySum(entries, testModel), 1e-9)
	assert.Equal(t, 0.0, ProbabilitySum(nil, testModel))
}

func TestNormalize(t *testing.T) {
	assert.InDelta(t, 0.25, Normalize(0.3, 1.2), 1e-9)

	// A zero or negative sum passes the raw value through instead of
	// dividing by zero.
	assert.Equal(t, 0.3, Normalize(0.3, 0))
	assert.Equal(t, 0.3, Normalize(0.3, -1))
}

func TestRaceNormalizerRescalesWithinRace(t *testing.T) {
	entriesByRace := map[string][]*models.RaceEntry{
		"r1": {
			newEntry("r1", "h1", "A", 2.0),
			newEntry("r1", "h2", "B", 1.0),
			newEntry("r1", "h3", "C", 1.0),
		},
		"r2": {
			newEntry("r2", "h4", "D", 0.0),
		},
	}

	normalizer := NewRaceNormalizer(entriesByRace, testModel)

	assert.InDelta(t, 0.5, normalizer.Normalize(2.0, "r1"), 1e-9)
	assert.InDelta(t, 0.25, normalizer.Normalize(1.0, "r1"), 1e-9)

	// Zero-sum race: raw value unchanged.
	assert.Equal(t, 0.0, normalizer.Normalize(0.0, "r2"))

	// Unknown race id behaves like a zero sum.
	assert.Equal(t, 0.7, normalizer.Normalize(0.7, "r99"))
}

func TestRaceNormalizerNormalizedValuesSumToOne(t *testing.T) {
	entries := []*models.RaceEntry{
		newEntry("r1", "h1", "A", 0.41),
		newEntry("r1", "h2", "B", 0.27),
		newEntry("r1", "h3", "C", 0.13),
		newEntry("r1", "h4", "D", 0.08),
	}
	normalizer := NewRaceNormalizer(map[string][]*models.RaceEntry{"r1": entries}, testModel)

	total := 0.0
	for _, entry := range entries {
		total += normalizer.Normalize(entry.Probability(testModel.ProbabilityField), "r1")
	}
	assert.InDelta(t, 1.0, total, 1e-9)
}
