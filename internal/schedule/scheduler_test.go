package schedule

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docversions/internal/foundation/errors"
)

func TestScheduler_ScheduleCron(t *testing.T) {
	t.Run("returns job id for valid cron", func(t *testing.T) {
		s, err := NewScheduler()
		require.NoError(t, err)
		t.Cleanup(func() { _ = s.Stop(context.Background()) })

		id, err := s.ScheduleCron("sync", "0 */4 * * *", func() {})
		require.NoError(t, err)
		require.NotEmpty(t, id)
	})

	t.Run("rejects invalid cron", func(t *testing.T) {
		s, err := NewScheduler()
		require.NoError(t, err)
		t.Cleanup(func() { _ = s.Stop(context.Background()) })

		_, err = s.ScheduleCron("sync", "this is not a cron", func() {})
		require.True(t, errors.HasCategory(err, errors.CategoryConfig))
	})
}

func TestScheduler_ScheduleEvery(t *testing.T) {
	t.Run("returns job id for valid interval", func(t *testing.T) {
		s, err := NewScheduler()
		require.NoError(t, err)
		t.Cleanup(func() { _ = s.Stop(context.Background()) })

		id, err := s.ScheduleEvery("sync", 10*time.Second, func() {})
		require.NoError(t, err)
		require.NotEmpty(t, id)
	})

	t.Run("rejects non-positive interval", func(t *testing.T) {
		s, err := NewScheduler()
		require.NoError(t, err)
		t.Cleanup(func() { _ = s.Stop(context.Background()) })

		_, err = s.ScheduleEvery("sync", 0, func() {})
		require.True(t, errors.HasCategory(err, errors.CategoryConfig))
	})
}

func TestScheduler_RunsWithoutOverlap(t *testing.T) {
	s, err := NewScheduler()
	require.NoError(t, err)

	var running, maxRunning, runs atomic.Int32
	_, err = s.ScheduleEvery("sync", 10*time.Millisecond, func() {
		n := running.Add(1)
		if n > maxRunning.Load() {
			maxRunning.Store(n)
		}
		time.Sleep(30 * time.Millisecond)
		running.Add(-1)
		runs.Add(1)
	})
	require.NoError(t, err)

	s.Start(context.Background())
	require.Eventually(t, func() bool { return runs.Load() >= 2 }, 2*time.Second, 5*time.Millisecond)
	require.NoError(t, s.Stop(context.Background()))
	require.Equal(t, int32(1), maxRunning.Load())
}

func TestScheduler_NextRun(t *testing.T) {
	s, err := NewScheduler()
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Stop(context.Background()) })

	id, err := s.ScheduleEvery("sync", time.Hour, func() {})
	require.NoError(t, err)
	s.Start(context.Background())

	require.Eventually(t, func() bool {
		next, err := s.NextRun(id)
		return err == nil && next.After(time.Now())
	}, time.Second, 10*time.Millisecond)

	_, err = s.NextRun("missing")
	require.True(t, errors.HasCategory(err, errors.CategoryNotFound))
}
