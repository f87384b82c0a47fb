package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/yourusername/racedash/internal/database"
	"github.com/yourusername/racedash/internal/models"
)

const errScanEntry = "failed to scan entry: %w"

// PostgresEntryRepository implements EntryRepository for PostgreSQL.
// The race_entries table carries one probability column per configured
// model (mlp_proba, rf_proba, ...), so the select list is built from
// the model set at construction time.
type PostgresEntryRepository struct {
	db         *database.DB
	probFields []string
	query      string
}

// NewPostgresEntryRepository creates a new entry repository for the
// given model set.
func NewPostgresEntryRepository(db *database.DB, specs []models.ModelSpec) EntryRepository {
	fields := make([]string, 0, len(specs))
	for _, spec := range specs {
		fields = append(fields, spec.ProbabilityField)
	}

	query := fmt.Sprintf(`
		SELECT id, race_id, COALESCE(horse_id, ''), horse_name,
		       COALESCE(trainer_name, ''), COALESCE(jockey_name, ''),
		       current_odds, finishing_position, %s
		FROM race_entries
		WHERE race_id = ANY($1)
	`, strings.Join(fields, ", "))

	return &PostgresEntryRepository{db: db, probFields: fields, query: query}
}

// GetByRaceIDs retrieves all entries for the given races, grouped by
// race id.
func (r *PostgresEntryRepository) GetByRaceIDs(ctx context.Context, raceIDs []string) (map[string][]*models.RaceEntry, error) {
	entriesByRace := make(map[string][]*models.RaceEntry, len(raceIDs))
	if len(raceIDs) == 0 {
		return entriesByRace, nil
	}

	rows, err := r.db.GetPool().Query(ctx, r.query, raceIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		entry := &models.RaceEntry{Probabilities: make(map[string]float64, len(r.probFields))}
		var odds *decimal.Decimal
		probas := make([]*float64, len(r.probFields))

		dest := []any{
			&entry.EntryID, &entry.RaceID, &entry.HorseID, &entry.HorseName,
			&entry.TrainerName, &entry.JockeyName, &odds, &entry.FinishingPosition,
		}
		for i := range probas {
			dest = append(dest, &probas[i])
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf(errScanEntry, err)
		}

		entry.CurrentOdds = odds
		for i, p := range probas {
			if p != nil {
				entry.Probabilities[r.probFields[i]] = *p
			}
		}
		if err := models.ValidateEntry(entry); err != nil {
			continue
		}

		entriesByRace[entry.RaceID] = append(entriesByRace[entry.RaceID], entry)
	}

	return entriesByRace, rows.Err()
}

// GetFinishingPositions reads confirmed positions straight off the
// entry rows, the fallback result source when the dedicated results
// table has nothing.
func (r *PostgresEntryRepository) GetFinishingPositions(ctx context.Context, raceIDs []string) ([]models.ResultRow, error) {
	if len(raceIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT race_id, COALESCE(horse_id, ''), horse_name, finishing_position
		FROM race_entries
		WHERE race_id = ANY($1) AND finishing_position IS NOT NULL AND finishing_position > 0
	`

	rows, err := r.db.GetPool().Query(ctx, query, raceIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query entry positions: %w", err)
	}
	defer rows.Close()

	var results []models.ResultRow
	for rows.Next() {
		var row models.ResultRow
		if err := rows.Scan(&row.RaceID, &row.HorseID, &row.HorseName, &row.Position); err != nil {
			return nil, fmt.Errorf(errScanEntry, err)
		}
		results = append(results, row)
	}

	return results, rows.Err()
}

// UpdateOdds writes the latest live price for an entry.
func (r *PostgresEntryRepository) UpdateOdds(ctx context.Context, entryID string, odds decimal.Decimal) error {
	query := `UPDATE race_entries SET current_odds = $2 WHERE id = $1`

	commandTag, err := r.db.GetPool().Exec(ctx, query, entryID, odds)
	if err != nil {
		return fmt.Errorf("failed to update entry odds: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}
