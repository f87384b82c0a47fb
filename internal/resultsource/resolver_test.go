package resultsource

import (
	"context"
	"fmt"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/racedash/internal/models"
)

type stubSource struct {
	name    string
	rows    []models.ResultRow
	err     error
	batches [][]string
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) FetchPositions(ctx context.Context, raceIDs []string) ([]models.ResultRow, error) {
	batch := make([]string, len(raceIDs))
	copy(batch, raceIDs)
	s.batches = append(s.batches, batch)
	if s.err != nil {
		return nil, s.err
	}
	return s.rows, nil
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func TestResolveUsesFirstSourceWithData(t *testing.T) {
	primary := &stubSource{
		name: "runner_results",
		rows: []models.ResultRow{{RaceID: "r1", HorseID: "h1", Position: 1}},
	}
	secondary := &stubSource{
		name: "entry_positions",
		rows: []models.ResultRow{{RaceID: "r1", HorseID: "h1", Position: 9}},
	}

	resolver := NewResolver([]PositionSource{primary, secondary}, 100, testLogger())
	set := resolver.Resolve(context.Background(), []string{"r1"})

	assert.Equal(t, "runner_results", set.Source)
	assert.Equal(t, 1, set.Positions["r1"]["h1"])
	assert.Empty(t, secondary.batches, "lower-priority source must not be queried")
}

func TestResolveFallsThroughEmptySource(t *testing.T) {
	primary := &stubSource{name: "runner_results"}
	secondary := &stubSource{
		name: "entry_positions",
		rows: []models.ResultRow{{RaceID: "r1", HorseID: "h1", Position: 2}},
	}

	resolver := NewResolver([]PositionSource{primary, secondary}, 100, testLogger())
	set := resolver.Resolve(context.Background(), []string{"r1"})

	assert.Equal(t, "entry_positions", set.Source)
	assert.Equal(t, 2, set.Positions["r1"]["h1"])
}

func TestResolveContinuesPastFailingSource(t *testing.T) {
	broken := &stubSource{name: "runner_results", err: fmt.Errorf("relation does not exist")}
	working := &stubSource{
		name: "results_archive",
		rows: []models.ResultRow{{RaceID: "r1", HorseName: "Frankel (GB)", Position: 1}},
	}

	resolver := NewResolver([]PositionSource{broken, working}, 100, testLogger())
	set := resolver.Resolve(context.Background(), []string{"r1"})

	assert.Equal(t, "results_archive", set.Source)
	assert.Equal(t, 1, set.Positions["r1"]["frankel"])
}

func TestResolveAllSourcesEmptyTagsNone(t *testing.T) {
	resolver := NewResolver([]PositionSource{
		&stubSource{name: "runner_results"},
		&stubSource{name: "entry_positions", err: fmt.Errorf("timeout")},
	}, 100, testLogger())

	set := resolver.Resolve(context.Background(), []string{"r1", "r2"})

	assert.True(t, set.IsEmpty())
	assert.Equal(t, models.SourceNone, set.Source)
}

func TestResolveNoRaceIDs(t *testing.T) {
	source := &stubSource{name: "runner_results"}
	resolver := NewResolver([]PositionSource{source}, 100, testLogger())

	set := resolver.Resolve(context.Background(), nil)

	assert.True(t, set.IsEmpty())
	assert.Equal(t, models.SourceNone, set.Source)
	assert.Empty(t, source.batches)
}

func TestResolveBatchesRequests(t *testing.T) {
	source := &stubSource{
		name: "runner_results",
		rows: []models.ResultRow{{RaceID: "r1", HorseID: "h1", Position: 1}},
	}

	resolver := NewResolver([]PositionSource{source}, 2, testLogger())
	resolver.Resolve(context.Background(), []string{"r1", "r2", "r3", "r4", "r5"})

	require.Len(t, source.batches, 3)
	assert.Equal(t, []string{"r1", "r2"}, source.batches[0])
	assert.Equal(t, []string{"r3", "r4"}, source.batches[1])
	assert.Equal(t, []string{"r5"}, source.batches[2])
}

func TestResolveDropsUnconfirmedPositions(t *testing.T) {
	source := &stubSource{
		name: "runner_results",
		rows: []models.ResultRow{
			{RaceID: "r1", HorseID: "h1", Position: 1},
			{RaceID: "r1", HorseID: "h2", Position: 0},
			{RaceID: "r1", HorseID: "h3", Position: -1},
			{RaceID: "r2", Position: 2}, // no identity at all
		},
	}

	resolver := NewResolver([]PositionSource{source}, 100, testLogger())
	set := resolver.Resolve(context.Background(), []string{"r1", "r2"})

	assert.Equal(t, 1, len(set.Positions["r1"]))
	assert.False(t, set.HasResult("r2"))
}

func TestResolveKeysByBareNameWhenNoHorseID(t *testing.T) {
	source := &stubSource{
		name: "results_archive",
		rows: []models.ResultRow{{RaceID: "r1", HorseName: "Kingmambo (IRE)", Position: 3}},
	}

	resolver := NewResolver([]PositionSource{source}, 100, testLogger())
	set := resolver.Resolve(context.Background(), []string{"r1"})

	assert.Equal(t, 3, set.Positions["r1"]["kingmambo"])
}

func TestNewResolverDefaultsBatchSize(t *testing.T) {
	source := &stubSource{name: "runner_results", rows: []models.ResultRow{{RaceID: "r1", HorseID: "h1", Position: 1}}}
	resolver := NewResolver([]PositionSource{source}, 0, testLogger())

	resolver.Resolve(context.Background(), []string{"r1"})
	require.Len(t, source.batches, 1)
}
