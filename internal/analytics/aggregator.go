package analytics

import (
	"sort"

	"github.com/yourusername/racedash/internal/identity"
	"github.com/yourusername/racedash/internal/metrics"
	"github.com/yourusername/racedash/internal/models"
	"github.com/yourusername/racedash/internal/raceclock"
)

// Trend and due-winner thresholds. Win rates are percentages.
const (
	hotWinRate       = 40.0
	coldWinRate      = 10.0
	dueWinnerRate    = 20.0
	dueWinnerLosses  = 5
	top3PositionsMax = 3
)

// Aggregate rolls one model's matched picks across a day's races into a
// performance summary. Data gaps (missing entries, unmatched picks,
// empty result sets) are skipped, never fatal; only a nil races list or
// nil entries map is an error.
func Aggregate(
	races []*models.Race,
	entriesByRace map[string][]*models.RaceEntry,
	results *models.ResultSet,
	model models.ModelSpec,
) (*models.ModelPerformance, error) {
	if races == nil {
		return nil, models.ErrNilRaces
	}
	if entriesByRace == nil {
		return nil, models.ErrNilEntries
	}
	if results == nil {
		results = models.NewResultSet(models.SourceNone)
	}

	perf := &models.ModelPerformance{
		ModelName:     model.Name,
		TotalRaces:    len(races),
		ResultsSource: results.Source,
		RaceResults:   make([]models.RaceResultLine, 0, len(races)),
	}
	if len(races) > 0 {
		perf.Date = races[0].Date
	}

	normalizer := NewRaceNormalizer(entriesByRace, model)

	for _, race := range sortChronologically(races) {
		if race.Abandoned() || !results.HasResult(race.ID) {
			continue
		}
		entries := entriesByRace[race.ID]
		if len(entries) == 0 {
			continue
		}

		pick, position, ok := matchRankedPick(entries, results.Positions[race.ID], model)
		if !ok {
			// Every ranked candidate was a non-runner or a source gap;
			// the race is excluded from this model's tally.
			continue
		}

		isWinner := position == 1
		perf.CompletedRaces++
		if isWinner {
			perf.Wins++
		} else {
			perf.Losses++
		}
		if position >= 1 && position <= top3PositionsMax {
			perf.Top3++
		}

		raw := pick.Probability(model.ProbabilityField)
		perf.RaceResults = append(perf.RaceResults, models.RaceResultLine{
			RaceID:            race.ID,
			Course:            race.Course,
			OffTime:           race.OffTime,
			HorseName:         pick.HorseName,
			Probability:       normalizer.Normalize(raw, race.ID),
			FinishingPosition: position,
			IsWinner:          isWinner,
		})
	}

	if perf.CompletedRaces > 0 {
		perf.WinRate = float64(perf.Wins) / float64(perf.CompletedRaces) * 100
	}
	perf.Trend = classifyTrend(perf.WinRate, perf.CompletedRaces)
	perf.DueWinner = (perf.CompletedRaces-perf.Wins) >= dueWinnerLosses && perf.WinRate < dueWinnerRate

	return perf, nil
}

// matchRankedPick walks the model's ranked candidates and returns the
// first one the identity matcher can place. A model's literal top pick
// may be a declared non-runner with no recorded result; falling through
// to the next-best pick avoids systematically undercounting the model.
func matchRankedPick(
	entries []*models.RaceEntry,
	positions models.RacePositions,
	model models.ModelSpec,
) (*models.RaceEntry, int, bool) {
	for _, candidate := range RankPicks(entries, model) {
		match := identity.MatchPosition(candidate, positions)
		if match.Matched() {
			return candidate, match.Position, true
		}
		if match.Stage == identity.StageAmbiguous {
			metrics.RecordAmbiguousMatch(model.Name)
		}
	}
	metrics.RecordUnmatchedPick(model.Name)
	return nil, 0, false
}

// classifyTrend buckets a day's win rate. A model with no settled races
// is always "normal", never "cold".
func classifyTrend(winRate float64, completed int) string {
	switch {
	case completed == 0:
		return models.TrendNormal
	case winRate >= hotWinRate:
		return models.TrendHot
	case winRate <= coldWinRate:
		return models.TrendCold
	default:
		return models.TrendNormal
	}
}

// sortChronologically orders races by normalized off-time without
// mutating the caller's slice.
func sortChronologically(races []*models.Race) []*models.Race {
	sorted := make([]*models.Race, len(races))
	copy(sorted, races)
	sort.SliceStable(sorted, func(i, j int) bool {
		return raceclock.MustNormalize(sorted[i].OffTime) < raceclock.MustNormalize(sorted[j].OffTime)
	})
	return sorted
}
