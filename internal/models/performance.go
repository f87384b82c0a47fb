package models

import "time"

// Trend classifications for a model's race-day form.
const (
	TrendHot    = "hot"
	TrendNormal = "normal"
	TrendCold   = "cold"
)

// RaceResultLine is one settled race in a model's day, in off-time order.
type RaceResultLine struct {
	RaceID            string  `json:"race_id"`
	Course            string  `json:"course"`
	OffTime           string  `json:"off_time"`
	HorseName         string  `json:"horse_name"`
	Probability       float64 `json:"probability"`
	FinishingPosition int     `json:"finishing_position"`
	IsWinner          bool    `json:"is_winner"`
}

// NextRunner is a model's live pick in the next race still to be run.
type NextRunner struct {
	RaceID      string  `json:"race_id"`
	Course      string  `json:"course"`
	OffTime     string  `json:"off_time"`
	HorseName   string  `json:"horse_name"`
	Probability float64 `json:"probability"`
	CurrentOdds string  `json:"current_odds,omitempty"`
}

// ModelPerformance is the per-model race-day summary. It is recomputed
// from scratch on every refresh and never mutated incrementally.
type ModelPerformance struct {
	ModelName       string           `json:"model_name"`
	Date            string           `json:"date"`
	TotalRaces      int              `json:"total_races_today"`
	CompletedRaces  int              `json:"completed_races"`
	Wins            int              `json:"wins"`
	Losses          int              `json:"losses"`
	Top3            int              `json:"top3"`
	WinRate         float64          `json:"win_rate"`
	Trend           string           `json:"trend"`
	DueWinner       bool             `json:"due_winner"`
	RaceResults     []RaceResultLine `json:"race_results"`
	NextRunner      *NextRunner      `json:"next_runner,omitempty"`
	ResultsSource   string           `json:"results_source"`
	LastUpdated     time.Time        `json:"last_updated"`
}

// HasData reports whether any race has settled for this model. Callers
// must use this rather than testing WinRate against zero: a 0% rate
// with completed races is real data, a 0% rate without is "N/A".
func (p *ModelPerformance) HasData() bool {
	return p.CompletedRaces > 0
}
