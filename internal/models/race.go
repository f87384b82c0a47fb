package models

import "strings"

// Race represents a single race on a day's card
type Race struct {
	ID          string `db:"race_id" json:"race_id" validate:"required"`
	Date        string `db:"date" json:"date" validate:"required,datetime=2006-01-02"`
	Course      string `db:"course_name" json:"course_name" validate:"required"`
	OffTime     string `db:"off_time" json:"off_time" validate:"required"`
	Going       string `db:"going" json:"going"`
	Status      string `db:"race_status" json:"race_status"`
	IsAbandoned bool   `db:"is_abandoned" json:"is_abandoned"`
}

// Abandoned reports whether the race was called off. Feeds encode this
// inconsistently: an explicit flag, a race_status value, or an
// "ABANDONED" going description.
func (r *Race) Abandoned() bool {
	if r.IsAbandoned {
		return true
	}
	if strings.EqualFold(r.Status, "abandoned") || strings.EqualFold(r.Status, "cancelled") {
		return true
	}
	return strings.Contains(strings.ToLower(r.Going), "abandoned")
}
