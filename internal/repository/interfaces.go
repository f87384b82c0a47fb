package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/yourusername/racedash/internal/models"
)

// RaceRepository defines the interface for race card data access
type RaceRepository interface {
	GetByDate(ctx context.Context, date string) ([]*models.Race, error)
}

// EntryRepository defines the interface for runner entry data access
type EntryRepository interface {
	GetByRaceIDs(ctx context.Context, raceIDs []string) (map[string][]*models.RaceEntry, error)
	GetFinishingPositions(ctx context.Context, raceIDs []string) ([]models.ResultRow, error)
	UpdateOdds(ctx context.Context, entryID string, odds decimal.Decimal) error
}

// RunnerResultRepository defines the interface for the dedicated
// per-runner results table
type RunnerResultRepository interface {
	GetPositions(ctx context.Context, raceIDs []string) ([]models.ResultRow, error)
}

// ArchiveResultRepository defines the interface for the archival
// results table, scoped to a single race day
type ArchiveResultRepository interface {
	GetPositionsForDate(ctx context.Context, date string, raceIDs []string) ([]models.ResultRow, error)
}
