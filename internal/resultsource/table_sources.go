package resultsource

import (
	"context"

	"github.com/yourusername/racedash/internal/models"
	"github.com/yourusername/racedash/internal/raceclock"
	"github.com/yourusername/racedash/internal/repository"
)

// The three table-backed sources replace the near-duplicate fetch
// strategies that grew up over time: per-runner results, the
// finishing-position column on entries, and the day-scoped archive.
// Each is a plain PositionSource so new sources slot in without
// touching aggregation.

// RunnerResultSource reads the dedicated per-runner results table.
type RunnerResultSource struct {
	repo repository.RunnerResultRepository
}

// NewRunnerResultSource creates the primary table source.
func NewRunnerResultSource(repo repository.RunnerResultRepository) *RunnerResultSource {
	return &RunnerResultSource{repo: repo}
}

func (s *RunnerResultSource) Name() string {
	return "runner_results"
}

func (s *RunnerResultSource) FetchPositions(ctx context.Context, raceIDs []string) ([]models.ResultRow, error) {
	return s.repo.GetPositions(ctx, raceIDs)
}

// EntryPositionSource reads finishing positions written back onto the
// entry rows themselves.
type EntryPositionSource struct {
	repo repository.EntryRepository
}

// NewEntryPositionSource creates the entry-column fallback source.
func NewEntryPositionSource(repo repository.EntryRepository) *EntryPositionSource {
	return &EntryPositionSource{repo: repo}
}

func (s *EntryPositionSource) Name() string {
	return "entry_positions"
}

func (s *EntryPositionSource) FetchPositions(ctx context.Context, raceIDs []string) ([]models.ResultRow, error) {
	return s.repo.GetFinishingPositions(ctx, raceIDs)
}

// ArchiveSource reads the archival results table, scoped to the clock's
// current date.
type ArchiveSource struct {
	repo  repository.ArchiveResultRepository
	clock raceclock.Clock
}

// NewArchiveSource creates the archive fallback source.
func NewArchiveSource(repo repository.ArchiveResultRepository, clock raceclock.Clock) *ArchiveSource {
	return &ArchiveSource{repo: repo, clock: clock}
}

func (s *ArchiveSource) Name() string {
	return "results_archive"
}

func (s *ArchiveSource) FetchPositions(ctx context.Context, raceIDs []string) ([]models.ResultRow, error) {
	return s.repo.GetPositionsForDate(ctx, s.clock.Today(), raceIDs)
}
