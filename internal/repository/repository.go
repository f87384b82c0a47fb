package repository

import (
	"fmt"

	"github.com/yourusername/racedash/internal/database"
	"github.com/yourusername/racedash/internal/models"
)

// Repositories holds all repository implementations
type Repositories struct {
	Race         RaceRepository
	Entry        EntryRepository
	RunnerResult RunnerResultRepository
	Archive      ArchiveResultRepository
}

// NewRepositories creates and returns all repository implementations
func NewRepositories(db *database.DB, specs []models.ModelSpec) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}
	if len(specs) == 0 {
		return nil, models.ErrNoModels
	}

	return &Repositories{
		Race:         NewPostgresRaceRepository(db),
		Entry:        NewPostgresEntryRepository(db, specs),
		RunnerResult: NewPostgresRunnerResultRepository(db),
		Archive:      NewPostgresArchiveResultRepository(db),
	}, nil
}
