package resultsource

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/racedash/internal/identity"
	"github.com/yourusername/racedash/internal/metrics"
	"github.com/yourusername/racedash/internal/models"
)

// defaultBatchSize bounds the id list handed to a source in one call.
// Backing APIs cap IN-clause / query-string sizes well below a full
// day's card, so ids are always chunked and merged.
const defaultBatchSize = 100

// Resolver tries an ordered list of position sources until one yields
// at least one confirmed position.
type Resolver struct {
	sources   []PositionSource
	batchSize int
	logger    *logrus.Logger
}

// NewResolver creates a resolver over the given sources, in priority
// order.
func NewResolver(sources []PositionSource, batchSize int, logger *logrus.Logger) *Resolver {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	return &Resolver{sources: sources, batchSize: batchSize, logger: logger}
}

// Resolve returns every confirmed position known for the given races
// and the tag of the source that produced them. A failing source is
// logged and skipped; when every source is empty or failing the result
// is an empty set tagged "none", which callers must read as "no
// completed races yet", never as an error.
func (r *Resolver) Resolve(ctx context.Context, raceIDs []string) *models.ResultSet {
	if len(raceIDs) == 0 {
		return models.NewResultSet(models.SourceNone)
	}

	for _, source := range r.sources {
		set := r.resolveFromSource(ctx, source, raceIDs)
		if !set.IsEmpty() {
			r.logger.WithFields(logrus.Fields{
				"source":          source.Name(),
				"completed_races": set.CompletedRaces(),
			}).Debug("Result source satisfied resolution")
			return set
		}
	}

	return models.NewResultSet(models.SourceNone)
}

func (r *Resolver) resolveFromSource(ctx context.Context, source PositionSource, raceIDs []string) *models.ResultSet {
	set := models.NewResultSet(source.Name())

	for start := 0; start < len(raceIDs); start += r.batchSize {
		end := start + r.batchSize
		if end > len(raceIDs) {
			end = len(raceIDs)
		}

		rows, err := source.FetchPositions(ctx, raceIDs[start:end])
		if err != nil {
			// One broken source must not abort the resolution; the
			// next source in priority order gets its chance.
			metrics.RecordSourceFailure(source.Name())
			r.logger.WithError(err).WithField("source", source.Name()).Warn("Result source query failed, continuing")
			continue
		}
		mergeRows(set, rows)
	}

	return set
}

// mergeRows folds source rows into the set, keying each position by the
// horse id when the source carries one and by bare name otherwise.
func mergeRows(set *models.ResultSet, rows []models.ResultRow) {
	for _, row := range rows {
		key := row.HorseID
		if key == "" {
			key = identity.BareName(row.HorseName)
		}
		set.Add(row.RaceID, key, row.Position)
	}
}
