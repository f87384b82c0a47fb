package repository

import (
	"context"
	"fmt"

	"github.com/yourusername/racedash/internal/database"
	"github.com/yourusername/racedash/internal/models"
)

const errScanResultRow = "failed to scan result row: %w"

// PostgresRunnerResultRepository implements RunnerResultRepository for
// the dedicated runner_results table, the primary result source.
type PostgresRunnerResultRepository struct {
	db *database.DB
}

// NewPostgresRunnerResultRepository creates a new runner result repository
func NewPostgresRunnerResultRepository(db *database.DB) RunnerResultRepository {
	return &PostgresRunnerResultRepository{db: db}
}

// GetPositions retrieves confirmed positions keyed by horse id.
func (r *PostgresRunnerResultRepository) GetPositions(ctx context.Context, raceIDs []string) ([]models.ResultRow, error) {
	if len(raceIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT race_id, COALESCE(horse_id, ''), COALESCE(horse_name, ''), position
		FROM runner_results
		WHERE race_id = ANY($1) AND position > 0
	`

	return scanResultRows(ctx, r.db, query, raceIDs)
}

// PostgresArchiveResultRepository implements ArchiveResultRepository
// for the results_archive table. Archive rows identify runners by
// display name only and cover many days, so queries are scoped to one
// date.
type PostgresArchiveResultRepository struct {
	db *database.DB
}

// NewPostgresArchiveResultRepository creates a new archive result repository
func NewPostgresArchiveResultRepository(db *database.DB) ArchiveResultRepository {
	return &PostgresArchiveResultRepository{db: db}
}

// GetPositionsForDate retrieves archived positions for one race day.
func (r *PostgresArchiveResultRepository) GetPositionsForDate(ctx context.Context, date string, raceIDs []string) ([]models.ResultRow, error) {
	if len(raceIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT race_id, '', horse, actual_position
		FROM results_archive
		WHERE date = $1 AND race_id = ANY($2) AND actual_position > 0
	`

	return scanResultRows(ctx, r.db, query, date, raceIDs)
}

func scanResultRows(ctx context.Context, db *database.DB, query string, args ...any) ([]models.ResultRow, error) {
	rows, err := db.GetPool().Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query result rows: %w", err)
	}
	defer rows.Close()

	var results []models.ResultRow
	for rows.Next() {
		var row models.ResultRow
		if err := rows.Scan(&row.RaceID, &row.HorseID, &row.HorseName, &row.Position); err != nil {
			return nil, fmt.Errorf(errScanResultRow, err)
		}
		results = append(results, row)
	}

	return results, rows.Err()
}
