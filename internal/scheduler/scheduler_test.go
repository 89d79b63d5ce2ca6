package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/kelly-board/internal/logger"
	"github.com/yourusername/kelly-board/internal/models"
)

type countingRefresher struct {
	calls int32
	err   error
}

func (r *countingRefresher) Refresh(ctx context.Context) (*models.Board, error) {
	atomic.AddInt32(&r.calls, 1)
	if r.err != nil {
		return models.NewBoard(1000, 0.05), r.err
	}
	return models.NewBoard(1000, 0.05), nil
}

func TestSchedulerStartRequiresJobs(t *testing.T) {
	s := NewScheduler(&countingRefresher{}, logger.NewDiscardLogger())
	assert.Error(t, s.Start())
	assert.False(t, s.IsRunning())
}

func TestSchedulerRejectsInvalidCron(t *testing.T) {
	s := NewScheduler(&countingRefresher{}, logger.NewDiscardLogger())
	assert.Error(t, s.ScheduleRefresh("not a cron"))
}

func TestSchedulerLifecycle(t *testing.T) {
	s := NewScheduler(&countingRefresher{}, logger.NewDiscardLogger())
	require.NoError(t, s.ScheduleRefresh("*/5 * * * *"))
	require.NoError(t, s.ScheduleInterval(60))

	require.NoError(t, s.Start())
	assert.True(t, s.IsRunning())
	assert.Error(t, s.Start())
	assert.Error(t, s.ScheduleInterval(30))

	assert.Len(t, s.Entries(), 2)
	next := s.GetNextRun()
	assert.False(t, next.IsZero())
	assert.True(t, next.After(time.Now().Add(-time.Second)))

	require.NoError(t, s.Stop())
	assert.False(t, s.IsRunning())
	assert.True(t, s.GetNextRun().IsZero())
	assert.NoError(t, s.Stop())
}

func TestSchedulerRunNow(t *testing.T) {
	refresher := &countingRefresher{}
	s := NewScheduler(refresher, logger.NewDiscardLogger())

	s.RunNow(context.Background())
	assert.Equal(t, int32(1), atomic.LoadInt32(&refresher.calls))

	refresher.err = errors.New("fetch failed")
	assert.NotPanics(t, func() { s.RunNow(context.Background()) })
	assert.Equal(t, int32(2), atomic.LoadInt32(&refresher.calls))
}

func TestSchedulerIntervalFloor(t *testing.T) {
	refresher := &countingRefresher{}
	s := NewScheduler(refresher, logger.NewDiscardLogger())

	require.NoError(t, s.ScheduleInterval(1))
	require.NoError(t, s.Start())
	defer s.Stop()

	entries := s.Entries()
	require.Len(t, entries, 1)
	gap := entries[0].Next.Sub(time.Now())
	assert.Greater(t, gap, 3*time.Second)
}
