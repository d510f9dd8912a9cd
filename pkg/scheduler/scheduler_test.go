package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitForCount(t *testing.T, counter *int64, want int64) {
	t.Helper()

	deadline := time.After(2 * time.Second)
	for {
		if atomic.LoadInt64(counter) >= want {
			return
		}
		select {
		case <-deadline:
			t.Fatalf("counter stuck at %d, want at least %d", atomic.LoadInt64(counter), want)
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestSchedulerRunsRegisteredTask(t *testing.T) {
	s := NewScheduler()

	var runs int64
	s.RegisterPeriodicTask("tick", 10*time.Millisecond, func(ctx context.Context) {
		atomic.AddInt64(&runs, 1)
	})

	s.Start(context.Background())
	defer s.Stop()

	waitForCount(t, &runs, 3)
}

func TestSchedulerStopHaltsTasks(t *testing.T) {
	s := NewScheduler()

	var runs int64
	s.RegisterPeriodicTask("tick", 10*time.Millisecond, func(ctx context.Context) {
		atomic.AddInt64(&runs, 1)
	})

	s.Start(context.Background())
	waitForCount(t, &runs, 1)
	s.Stop()

	after := atomic.LoadInt64(&runs)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, after, atomic.LoadInt64(&runs))
}

func TestSchedulerContextCancelHaltsTasks(t *testing.T) {
	s := NewScheduler()

	var runs int64
	s.RegisterPeriodicTask("tick", 10*time.Millisecond, func(ctx context.Context) {
		atomic.AddInt64(&runs, 1)
	})

	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)
	waitForCount(t, &runs, 1)
	cancel()
	s.Stop()

	after := atomic.LoadInt64(&runs)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, after, atomic.LoadInt64(&runs))
}

// A panicking tick must not kill the ticker goroutine.
func TestSchedulerSurvivesPanickingTask(t *testing.T) {
	s := NewScheduler()

	var runs int64
	s.RegisterPeriodicTask("flaky", 10*time.Millisecond, func(ctx context.Context) {
		n := atomic.AddInt64(&runs, 1)
		if n == 1 {
			panic("first run exploded")
		}
	})

	s.Start(context.Background())
	defer s.Stop()

	waitForCount(t, &runs, 3)
}

func TestSchedulerRunsTasksIndependently(t *testing.T) {
	s := NewScheduler()

	var fast, slow int64
	s.RegisterPeriodicTask("fast", 10*time.Millisecond, func(ctx context.Context) {
		atomic.AddInt64(&fast, 1)
	})
	s.RegisterPeriodicTask("slow", 30*time.Millisecond, func(ctx context.Context) {
		atomic.AddInt64(&slow, 1)
	})

	s.Start(context.Background())
	defer s.Stop()

	waitForCount(t, &fast, 5)
	waitForCount(t, &slow, 1)
	require.Greater(t, atomic.LoadInt64(&fast), atomic.LoadInt64(&slow))
}

func TestSchedulerDoubleStartIsNoop(t *testing.T) {
	s := NewScheduler()

	var runs int64
	s.RegisterPeriodicTask("tick", 10*time.Millisecond, func(ctx context.Context) {
		atomic.AddInt64(&runs, 1)
	})

	s.Start(context.Background())
	s.Start(context.Background())
	defer s.Stop()

	waitForCount(t, &runs, 1)
}
