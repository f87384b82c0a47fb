package analytics

import (
	"sort"

	"github.com/yourusername/racedash/internal/models"
)

// RankPicks orders a race's entries by the model's probability, highest
// first. The sort is stable so probability ties keep card order, and
// entries without a value for the model rank last.
func RankPicks(entries []*models.RaceEntry, model models.ModelSpec) []*models.RaceEntry {
	ranked := make([]*models.RaceEntry, len(entries))
	copy(ranked, entries)

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Probability(model.ProbabilityField) > ranked[j].Probability(model.ProbabilityField)
	})

	return ranked
}

// TopPick returns the model's highest-probability entry, or nil for an
// empty field.
func TopPick(entries []*models.RaceEntry, model models.ModelSpec) *models.RaceEntry {
	ranked := RankPicks(entries, model)
	if len(ranked) == 0 {
		return nil
	}
	return ranked[0]
}
