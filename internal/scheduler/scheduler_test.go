package scheduler

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/racedash/internal/cache"
	"github.com/yourusername/racedash/internal/models"
)

func newTestScheduler(snapshots *cache.SnapshotCache) *Scheduler {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return NewScheduler(nil, snapshots, time.UTC, logger)
}

func TestStartRequiresJobs(t *testing.T) {
	sched := newTestScheduler(nil)
	assert.Error(t, sched.Start())
	assert.False(t, sched.IsRunning())
}

func TestStartAndStop(t *testing.T) {
	sched := newTestScheduler(nil)
	require.NoError(t, sched.ScheduleRefresh(3600))

	require.NoError(t, sched.Start())
	assert.True(t, sched.IsRunning())

	assert.Error(t, sched.Start(), "double start must fail")

	require.NoError(t, sched.Stop())
	assert.False(t, sched.IsRunning())

	// Stopping twice is a no-op.
	assert.NoError(t, sched.Stop())
}

func TestCannotScheduleWhileRunning(t *testing.T) {
	sched := newTestScheduler(nil)
	require.NoError(t, sched.ScheduleRefresh(3600))
	require.NoError(t, sched.Start())
	defer sched.Stop()

	assert.Error(t, sched.ScheduleRefresh(60))
	assert.Error(t, sched.ScheduleDailyReset("0 0 * * *"))
}

func TestScheduleDailyResetRejectsBadCron(t *testing.T) {
	sched := newTestScheduler(nil)
	assert.Error(t, sched.ScheduleDailyReset("not a cron expression"))
}

func TestDailyResetClearsSnapshots(t *testing.T) {
	snapshots := cache.NewSnapshotCache(time.Minute)
	snapshots.Set(cache.SnapshotKey{Model: "mlp", Date: "2026-08-30"}, &models.ModelPerformance{ModelName: "mlp"})
	require.Equal(t, 1, snapshots.ItemCount())

	sched := newTestScheduler(snapshots)
	// Every-second schedule so the job fires within the test window.
	require.NoError(t, sched.ScheduleDailyReset("@every 1s"))
	require.NoError(t, sched.Start())
	defer sched.Stop()

	assert.Eventually(t, func() bool {
		return snapshots.ItemCount() == 0
	}, 3*time.Second, 50*time.Millisecond)
}
