package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResultSetAdd(t *testing.T) {
	set := NewResultSet("runner_results")

	set.Add("r1", "h1", 1)
	set.Add("r1", "h2", 4)
	set.Add("r2", "h3", 0)  // unconfirmed, dropped
	set.Add("r2", "h4", -2) // dropped
	set.Add("r3", "", 1)    // no identity, dropped

	assert.Equal(t, 1, set.Positions["r1"]["h1"])
	assert.Equal(t, 4, set.Positions["r1"]["h2"])
	assert.True(t, set.HasResult("r1"))
	assert.False(t, set.HasResult("r2"))
	assert.False(t, set.HasResult("r3"))
	assert.Equal(t, 1, set.CompletedRaces())
}

func TestResultSetFirstWriteWins(t *testing.T) {
	set := NewResultSet("runner_results")

	set.Add("r1", "h1", 1)
	set.Add("r1", "h1", 5)

	assert.Equal(t, 1, set.Positions["r1"]["h1"])
}

func TestResultSetEmpty(t *testing.T) {
	set := NewResultSet(SourceNone)

	assert.True(t, set.IsEmpty())
	assert.Equal(t, 0, set.CompletedRaces())
	assert.False(t, set.HasResult("r1"))

	set.Add("r1", "h1", 2)
	assert.False(t, set.IsEmpty())
}

func TestRaceAbandoned(t *testing.T) {
	tests := []struct {
		name string
		race Race
		want bool
	}{
		{name: "explicit flag", race: Race{IsAbandoned: true}, want: true},
		{name: "status abandoned", race: Race{Status: "ABANDONED"}, want: true},
		{name: "status cancelled", race: Race{Status: "Cancelled"}, want: true},
		{name: "going mentions abandoned", race: Race{Going: "Good (Abandoned 14:10)"}, want: true},
		{name: "running race", race: Race{Status: "scheduled", Going: "Good to Soft"}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.race.Abandoned())
		})
	}
}

func TestEntryProbability(t *testing.T) {
	entry := &RaceEntry{Probabilities: map[string]float64{"mlp_proba": 0.42}}

	assert.Equal(t, 0.42, entry.Probability("mlp_proba"))
	assert.Equal(t, 0.0, entry.Probability("rf_proba"))

	bare := &RaceEntry{}
	assert.Equal(t, 0.0, bare.Probability("mlp_proba"))
}

func TestEntryHasConfirmedResult(t *testing.T) {
	first := 1
	zero := 0

	assert.True(t, (&RaceEntry{FinishingPosition: &first}).HasConfirmedResult())
	assert.False(t, (&RaceEntry{FinishingPosition: &zero}).HasConfirmedResult())
	assert.False(t, (&RaceEntry{}).HasConfirmedResult())
}

func TestDefaultModels(t *testing.T) {
	specs := DefaultModels()

	assert.Len(t, specs, 5)
	for _, spec := range specs {
		assert.NotEmpty(t, spec.Name)
		assert.NotEmpty(t, spec.ProbabilityField)
	}

	ensemble, ok := EnsembleModel(specs)
	assert.True(t, ok)
	assert.Equal(t, "ensemble", ensemble.Name)
	assert.True(t, ensemble.Ensemble)
}

func TestEnsembleModelFallback(t *testing.T) {
	specs := []ModelSpec{{Name: "mlp", ProbabilityField: "mlp_proba"}}

	spec, ok := EnsembleModel(specs)
	assert.True(t, ok)
	assert.Equal(t, "mlp", spec.Name)

	_, ok = EnsembleModel(nil)
	assert.False(t, ok)
}

func TestModelPerformanceHasData(t *testing.T) {
	assert.False(t, (&ModelPerformance{}).HasData())
	assert.False(t, (&ModelPerformance{TotalRaces: 8}).HasData())
	assert.True(t, (&ModelPerformance{CompletedRaces: 1}).HasData())
}
