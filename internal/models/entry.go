package models

import (
	"math"

	"github.com/shopspring/decimal"
)

// RaceEntry represents a declared runner in a race
type RaceEntry struct {
	EntryID           string             `db:"id" json:"id" validate:"required"`
	RaceID            string             `db:"race_id" json:"race_id" validate:"required"`
	HorseID           string             `db:"horse_id" json:"horse_id"`
	HorseName         string             `db:"horse_name" json:"horse_name" validate:"required"`
	TrainerName       string             `db:"trainer_name" json:"trainer_name"`
	JockeyName        string             `db:"jockey_name" json:"jockey_name"`
	CurrentOdds       *decimal.Decimal   `db:"current_odds" json:"current_odds"`
	Probabilities     map[string]float64 `db:"-" json:"probabilities"`
	FinishingPosition *int               `db:"finishing_position" json:"finishing_position"`
}

// Probability returns the raw probability this entry carries for the
// given model field. Missing or non-numeric values rank as 0 so they
// always sort last.
func (e *RaceEntry) Probability(field string) float64 {
	p, ok := e.Probabilities[field]
	if !ok || math.IsNaN(p) || math.IsInf(p, 0) {
		return 0
	}
	return p
}

// HasConfirmedResult reports whether the entry row itself carries a
// finishing position. A position of zero or less is never a finish.
func (e *RaceEntry) HasConfirmedResult() bool {
	return e.FinishingPosition != nil && *e.FinishingPosition >= 1
}
