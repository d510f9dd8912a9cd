package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// PeriodicTask is one named duty on its own cadence. The body runs on a
// ticker goroutine; it is never invoked concurrently with itself.
type PeriodicTask struct {
	Name     string
	Interval time.Duration
	Fn       func(ctx context.Context)
}

// Scheduler owns a set of periodic tasks and their lifecycle. Tasks are
// registered before Start; Stop (or cancelling the Start context) halts
// every ticker and waits for in-flight runs to finish.
type Scheduler struct {
	mu      sync.Mutex
	tasks   []PeriodicTask
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	started bool
}

func NewScheduler() *Scheduler {
	return &Scheduler{}
}

func (s *Scheduler) RegisterPeriodicTask(name string, interval time.Duration, fn func(ctx context.Context)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = append(s.tasks, PeriodicTask{Name: name, Interval: interval, Fn: fn})
}

func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return
	}
	s.started = true

	ctx, s.cancel = context.WithCancel(ctx)

	for _, task := range s.tasks {
		s.wg.Add(1)
		go s.run(ctx, task)
	}
}

func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	s.wg.Wait()
}

func (s *Scheduler) run(ctx context.Context, task PeriodicTask) {
	defer s.wg.Done()

	ticker := time.NewTicker(task.Interval)
	defer ticker.Stop()

	logrus.Infof("Periodic task %q started (interval %s)", task.Name, task.Interval)

	for {
		select {
		case <-ctx.Done():
			logrus.Infof("Periodic task %q stopped", task.Name)
			return
		case <-ticker.C:
			s.runOnce(ctx, task)
		}
	}
}

// runOnce isolates a panicking tick so one bad run never kills the ticker.
func (s *Scheduler) runOnce(ctx context.Context, task PeriodicTask) {
	defer func() {
		if r := recover(); r != nil {
			logrus.Errorf("Periodic task %q panicked: %v", task.Name, r)
		}
	}()

	task.Fn(ctx)
}
