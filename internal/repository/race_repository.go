package repository

import (
	"context"
	"fmt"

	"github.com/yourusername/racedash/internal/database"
	"github.com/yourusername/racedash/internal/models"
)

const errScanRace = "failed to scan race: %w"

// PostgresRaceRepository implements RaceRepository for PostgreSQL
type PostgresRaceRepository struct {
	db *database.DB
}

// NewPostgresRaceRepository creates a new race repository
func NewPostgresRaceRepository(db *database.DB) RaceRepository {
	return &PostgresRaceRepository{db: db}
}

// GetByDate retrieves all races scheduled on a calendar date, ordered
// by off-time as stored. Callers re-sort with the racing clock
// convention; the raw column ordering puts "01:30" before "11:00".
func (r *PostgresRaceRepository) GetByDate(ctx context.Context, date string) ([]*models.Race, error) {
	query := `
		SELECT race_id, date, course_name, off_time,
		       COALESCE(going, ''), COALESCE(race_status, ''), COALESCE(is_abandoned, false)
		FROM races
		WHERE date = $1
		ORDER BY off_time ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("failed to query races by date: %w", err)
	}
	defer rows.Close()

	var races []*models.Race
	for rows.Next() {
		race := &models.Race{}
		err := rows.Scan(
			&race.ID, &race.Date, &race.Course, &race.OffTime,
			&race.Going, &race.Status, &race.IsAbandoned,
		)
		if err != nil {
			return nil, fmt.Errorf(errScanRace, err)
		}
		if err := models.ValidateRace(race); err != nil {
			// Malformed feed rows are dropped at the boundary, not
			// propagated into aggregation.
			continue
		}
		races = append(races, race)
	}

	return races, rows.Err()
}
