// Package resultsource resolves finishing positions for a set of races
// by trying backing sources in a fixed priority order.
package resultsource

import (
	"context"

	"github.com/yourusername/racedash/internal/models"
)

// PositionSource is one backing source of finishing positions. The
// resolver hands each source bounded batches of race ids; a source
// returns only rows with confirmed positions (> 0) and reports errors
// rather than guessing.
type PositionSource interface {
	// Name returns the tag reported when this source satisfies a
	// resolution.
	Name() string

	// FetchPositions retrieves confirmed positions for one batch of
	// race ids.
	FetchPositions(ctx context.Context, raceIDs []string) ([]models.ResultRow, error)
}
