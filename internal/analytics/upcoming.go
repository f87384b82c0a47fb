package analytics

import (
	"github.com/yourusername/racedash/internal/models"
	"github.com/yourusername/racedash/internal/raceclock"
)

// NextPick finds the model's live pick in the next race still to be
// run: the first race, in off-time order, strictly after nowMinutes
// with no confirmed result. The match-fallback step does not apply
// here; there is no result to match against yet. Returns nil when the
// card is finished.
func NextPick(
	races []*models.Race,
	entriesByRace map[string][]*models.RaceEntry,
	results *models.ResultSet,
	model models.ModelSpec,
	nowMinutes int,
) *models.NextRunner {
	if results == nil {
		results = models.NewResultSet(models.SourceNone)
	}
	normalizer := NewRaceNormalizer(entriesByRace, model)

	for _, race := range sortChronologically(races) {
		if race.Abandoned() {
			continue
		}
		if raceclock.MustNormalize(race.OffTime) <= nowMinutes {
			continue
		}
		if results.HasResult(race.ID) {
			continue
		}

		pick := TopPick(entriesByRace[race.ID], model)
		if pick == nil {
			continue
		}

		next := &models.NextRunner{
			RaceID:      race.ID,
			Course:      race.Course,
			OffTime:     race.OffTime,
			HorseName:   pick.HorseName,
			Probability: normalizer.Normalize(pick.Probability(model.ProbabilityField), race.ID),
		}
		if pick.CurrentOdds != nil {
			next.CurrentOdds = pick.CurrentOdds.String()
		}
		return next
	}

	return nil
}
