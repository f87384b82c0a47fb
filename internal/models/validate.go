package models

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateRace checks a race record as it crosses the fetch boundary.
func ValidateRace(race *Race) error {
	if err := validate.Struct(race); err != nil {
		return fmt.Errorf("invalid race record: %w", err)
	}
	return nil
}

// ValidateEntry checks an entry record as it crosses the fetch boundary.
func ValidateEntry(entry *RaceEntry) error {
	if err := validate.Struct(entry); err != nil {
		return fmt.Errorf("invalid entry record: %w", err)
	}
	return nil
}
