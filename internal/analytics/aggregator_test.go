package analytics

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/racedash/internal/models"
)

var testModel = models.ModelSpec{Name: "mlp", ProbabilityField: "mlp_proba"}

func newRace(id, offTime string) *models.Race {
	return &models.Race{
		ID:      id,
		Date:    "2026-08-30",
		Course:  "Ascot",
		OffTime: offTime,
	}
}

func newEntry(raceID, horseID, name string, proba float64) *models.RaceEntry {
	return &models.RaceEntry{
		EntryID:       raceID + "-" + horseID,
		RaceID:        raceID,
		HorseID:       horseID,
		HorseName:     name,
		Probabilities: map[string]float64{"mlp_proba": proba},
	}
}

func TestAggregateNilInputs(t *testing.T) {
	_, err := Aggregate(nil, map[string][]*models.RaceEntry{}, nil, testModel)
	assert.ErrorIs(t, err, models.ErrNilRaces)

	_, err = Aggregate([]*models.Race{}, nil, nil, testModel)
	assert.ErrorIs(t, err, models.ErrNilEntries)
}

func TestAggregateEmptyDay(t *testing.T) {
	perf, err := Aggregate([]*models.Race{}, map[string][]*models.RaceEntry{}, nil, testModel)
	require.NoError(t, err)

	assert.Equal(t, 0, perf.TotalRaces)
	assert.Equal(t, 0, perf.CompletedRaces)
	assert.Equal(t, models.SourceNone, perf.ResultsSource)
	assert.Equal(t, models.TrendNormal, perf.Trend)
	assert.False(t, perf.HasData())
}

func TestAggregateNoResultsYet(t *testing.T) {
	// A card full of races with no settled results is a normal morning
	// state, never an error.
	races := []*models.Race{newRace("r1", "01:30"), newRace("r2", "02:05")}
	entries := map[string][]*models.RaceEntry{
		"r1": {newEntry("r1", "h1", "Frankel", 0.6)},
		"r2": {newEntry("r2", "h2", "Kingmambo", 0.4)},
	}

	perf, err := Aggregate(races, entries, models.NewResultSet(models.SourceNone), testModel)
	require.NoError(t, err)

	assert.Equal(t, 2, perf.TotalRaces)
	assert.Equal(t, 0, perf.CompletedRaces)
	assert.Empty(t, perf.RaceResults)
	assert.Equal(t, models.SourceNone, perf.ResultsSource)
}

func TestAggregateCountsWinsAndLosses(t *testing.T) {
	races := []*models.Race{
		newRace("r1", "01:30"),
		newRace("r2", "02:05"),
		newRace("r3", "02:40"),
	}
	entries := map[string][]*models.RaceEntry{
		"r1": {newEntry("r1", "h1", "Frankel", 0.6), newEntry("r1", "h2", "Kingmambo", 0.3)},
		"r2": {newEntry("r2", "h3", "Desert Orchid", 0.5), newEntry("r2", "h4", "Red Rum", 0.2)},
		"r3": {newEntry("r3", "h5", "Sea The Stars", 0.7)},
	}

	results := models.NewResultSet("runner_results")
	results.Add("r1", "h1", 1)
	results.Add("r2", "h3", 2)
	results.Add("r3", "h5", 4)

	perf, err := Aggregate(races, entries, results, testModel)
	require.NoError(t, err)

	assert.Equal(t, 3, perf.TotalRaces)
	assert.Equal(t, 3, perf.CompletedRaces)
	assert.Equal(t, 1, perf.Wins)
	assert.Equal(t, 2, perf.Losses)
	assert.Equal(t, 2, perf.Top3)
	assert.InDelta(t, 100.0/3.0, perf.WinRate, 0.01)
	assert.Equal(t, "runner_results", perf.ResultsSource)

	// Wins and losses always partition the completed count.
	assert.Equal(t, perf.CompletedRaces, perf.Wins+perf.Losses)
	assert.LessOrEqual(t, perf.Top3, perf.CompletedRaces)
}

func TestAggregateFallsBackToNextRankedPick(t *testing.T) {
	// The top pick is a non-runner with no recorded result; the second
	// pick won, and that is the outcome the model is credited with.
	races := []*models.Race{newRace("r1", "01:30")}
	entries := map[string][]*models.RaceEntry{
		"r1": {
			newEntry("r1", "h1", "Scratched Runner", 0.8),
			newEntry("r1", "h2", "Kingmambo", 0.5),
		},
	}

	results := models.NewResultSet("runner_results")
	results.Add("r1", "h2", 1)
	results.Add("r1", "h9", 2)

	perf, err := Aggregate(races, entries, results, testModel)
	require.NoError(t, err)

	assert.Equal(t, 1, perf.CompletedRaces)
	assert.Equal(t, 1, perf.Wins)
	require.Len(t, perf.RaceResults, 1)
	assert.Equal(t, "Kingmambo", perf.RaceResults[0].HorseName)
	assert.True(t, perf.RaceResults[0].IsWinner)
}

func TestAggregateSkipsRaceWhenNoPickMatches(t *testing.T) {
	races := []*models.Race{newRace("r1", "01:30")}
	entries := map[string][]*models.RaceEntry{
		"r1": {newEntry("r1", "h1", "Frankel", 0.6)},
	}

	// The race has a result, but for horses the card knows nothing about.
	results := models.NewResultSet("runner_results")
	results.Add("r1", "h99", 1)

	perf, err := Aggregate(races, entries, results, testModel)
	require.NoError(t, err)

	assert.Equal(t, 1, perf.TotalRaces)
	assert.Equal(t, 0, perf.CompletedRaces)
	assert.Empty(t, perf.RaceResults)
}

func TestAggregateSkipsAbandonedRaces(t *testing.T) {
	abandoned := newRace("r1", "01:30")
	abandoned.IsAbandoned = true
	races := []*models.Race{abandoned}
	entries := map[string][]*models.RaceEntry{
		"r1": {newEntry("r1", "h1", "Frankel", 0.6)},
	}

	results := models.NewResultSet("runner_results")
	results.Add("r1", "h1", 1)

	perf, err := Aggregate(races, entries, results, testModel)
	require.NoError(t, err)

	assert.Equal(t, 0, perf.CompletedRaces)
}

func TestAggregateResultsInOffTimeOrder(t *testing.T) {
	// The 11:30 morning race ran before the 01:30 afternoon race.
	races := []*models.Race{newRace("r1", "01:30"), newRace("r2", "11:30")}
	entries := map[string][]*models.RaceEntry{
		"r1": {newEntry("r1", "h1", "Frankel", 0.6)},
		"r2": {newEntry("r2", "h2", "Kingmambo", 0.4)},
	}

	results := models.NewResultSet("runner_results")
	results.Add("r1", "h1", 2)
	results.Add("r2", "h2", 1)

	perf, err := Aggregate(races, entries, results, testModel)
	require.NoError(t, err)

	require.Len(t, perf.RaceResults, 2)
	assert.Equal(t, "r2", perf.RaceResults[0].RaceID)
	assert.Equal(t, "r1", perf.RaceResults[1].RaceID)
}

func TestAggregateNormalizesDisplayedProbability(t *testing.T) {
	races := []*models.Race{newRace("r1", "01:30")}
	entries := map[string][]*models.RaceEntry{
		"r1": {
			newEntry("r1", "h1", "Frankel", 2.0),
			newEntry("r1", "h2", "Kingmambo", 1.0),
			newEntry("r1", "h3", "Red Rum", 1.0),
		},
	}

	results := models.NewResultSet("runner_results")
	results.Add("r1", "h1", 1)

	perf, err := Aggregate(races, entries, results, testModel)
	require.NoError(t, err)

	require.Len(t, perf.RaceResults, 1)
	assert.InDelta(t, 0.5, perf.RaceResults[0].Probability, 1e-9)
}

func TestAggregateTrendClassification(t *testing.T) {
	buildDay := func(completed, wins int) *models.ModelPerformance {
		races := make([]*models.Race, 0, completed)
		entries := make(map[string][]*models.RaceEntry, completed)
		results := models.NewResultSet("runner_results")

		for i := 0; i < completed; i++ {
			raceID := fmt.Sprintf("r%d", i)
			horseID := fmt.Sprintf("h%d", i)
			races = append(races, newRace(raceID, fmt.Sprintf("01:%02d", i)))
			entries[raceID] = []*models.RaceEntry{newEntry(raceID, horseID, "Runner", 0.5)}
			position := 2
			if i < wins {
				position = 1
			}
			results.Add(raceID, horseID, position)
		}

		perf, err := Aggregate(races, entries, results, testModel)
		require.NoError(t, err)
		return perf
	}

	assert.Equal(t, models.TrendHot, buildDay(5, 2).Trend)    // 40%
	assert.Equal(t, models.TrendCold, buildDay(10, 1).Trend)  // 10%
	assert.Equal(t, models.TrendNormal, buildDay(5, 1).Trend) // 20%
	assert.Equal(t, models.TrendNormal, buildDay(0, 0).Trend)
}

func TestAggregateDueWinner(t *testing.T) {
	buildDay := func(completed, wins int) *models.ModelPerformance {
		races := make([]*models.Race, 0, completed)
		entries := make(map[string][]*models.RaceEntry, completed)
		results := models.NewResultSet("runner_results")

		for i := 0; i < completed; i++ {
			raceID := fmt.Sprintf("r%d", i)
			horseID := fmt.Sprintf("h%d", i)
			races = append(races, newRace(raceID, fmt.Sprintf("02:%02d", i)))
			entries[raceID] = []*models.RaceEntry{newEntry(raceID, horseID, "Runner", 0.5)}
			position := 3
			if i < wins {
				position = 1
			}
			results.Add(raceID, horseID, position)
		}

		perf, err := Aggregate(races, entries, results, testModel)
		require.NoError(t, err)
		return perf
	}

	// Six winless races: overdue.
	assert.True(t, buildDay(6, 0).DueWinner)
	// Only four losses so far: not yet.
	assert.False(t, buildDay(4, 0).DueWinner)
	// Plenty of losses but a healthy win rate: not due.
	assert.False(t, buildDay(10, 4).DueWinner)
}
