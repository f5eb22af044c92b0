package jobs

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testScheduler() *Scheduler {
	return NewScheduler(slog.New(slog.NewTextHandler(io.Discard, nil)), time.Second)
}

func TestRegisterRejectsBadSchedule(t *testing.T) {
	s := testScheduler()
	err := s.Register("bad", "not a cron expression", func(ctx context.Context) error { return nil })
	assert.Error(t, err)
}

func TestRunNow(t *testing.T) {
	s := testScheduler()

	var runs atomic.Int32
	require.NoError(t, s.Register("count", "0 0 * * * *", func(ctx context.Context) error {
		runs.Add(1)
		return nil
	}))

	assert.False(t, s.RunNow("missing"))
	assert.True(t, s.RunNow("count"))

	assert.Eventually(t, func() bool { return runs.Load() == 1 }, time.Second, 10*time.Millisecond)
}

func TestRunNowLogsFailure(t *testing.T) {
	s := testScheduler()

	done := make(chan struct{})
	require.NoError(t, s.Register("failing", "0 0 * * * *", func(ctx context.Context) error {
		close(done)
		return errors.New("boom")
	}))

	require.True(t, s.RunNow("failing"))
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("job did not run")
	}
}

func TestJobs(t *testing.T) {
	s := testScheduler()
	require.NoError(t, s.Register("a", "0 */5 * * * *", func(ctx context.Context) error { return nil }))
	require.NoError(t, s.Register("b", "0 0 * * * *", func(ctx context.Context) error { return nil }))
	assert.Len(t, s.Jobs(), 2)
}
