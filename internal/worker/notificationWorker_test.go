package worker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/VitorSanchespy/sys-npj-1-sub001/internal/service"
	"github.com/VitorSanchespy/sys-npj-1-sub001/pkg/scheduler"
)

// stubNotificationService counts duty invocations; the CRUD surface is
// never touched by the worker.
type stubNotificationService struct {
	service.NotificationService

	dispatchCalls int64
	scanCalls     int64
	purgeCalls    int64
	dispatchErr   error
}

func (s *stubNotificationService) DispatchDue(context.Context) (int, int, error) {
	atomic.AddInt64(&s.dispatchCalls, 1)
	return 1, 0, s.dispatchErr
}

func (s *stubNotificationService) ScanStaleProcesses(context.Context) (int, error) {
	atomic.AddInt64(&s.scanCalls, 1)
	return 0, nil
}

func (s *stubNotificationService) PurgeOldNotifications(context.Context) (int64, error) {
	atomic.AddInt64(&s.purgeCalls, 1)
	return 0, nil
}

func TestNotificationWorkerDuties(t *testing.T) {
	stub := &stubNotificationService{}
	w := NewNotificationWorker(stub, time.Minute, time.Hour, time.Hour)

	w.Dispatch(context.Background())
	w.ScanStale(context.Background())
	w.Purge(context.Background())

	assert.EqualValues(t, 1, stub.dispatchCalls)
	assert.EqualValues(t, 1, stub.scanCalls)
	assert.EqualValues(t, 1, stub.purgeCalls)
}

func TestNotificationWorkerDispatchErrorIsContained(t *testing.T) {
	stub := &stubNotificationService{dispatchErr: assert.AnError}
	w := NewNotificationWorker(stub, time.Minute, time.Hour, time.Hour)

	// Must not panic; the tick logs and moves on.
	w.Dispatch(context.Background())
	assert.EqualValues(t, 1, stub.dispatchCalls)
}

func TestNotificationWorkerRegistersAllDuties(t *testing.T) {
	stub := &stubNotificationService{}
	w := NewNotificationWorker(stub, 10*time.Millisecond, 10*time.Millisecond, 10*time.Millisecond)

	s := scheduler.NewScheduler()
	w.Register(s)

	s.Start(context.Background())
	defer s.Stop()

	deadline := time.After(2 * time.Second)
	for atomic.LoadInt64(&stub.dispatchCalls) == 0 ||
		atomic.LoadInt64(&stub.scanCalls) == 0 ||
		atomic.LoadInt64(&stub.purgeCalls) == 0 {
		select {
		case <-deadline:
			t.Fatal("not every registered duty ran")
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestNotificationWorkerDefaultIntervals(t *testing.T) {
	w := NewNotificationWorker(&stubNotificationService{}, 0, 0, 0)

	assert.Equal(t, 5*time.Minute, w.dispatchInterval)
	assert.Equal(t, 24*time.Hour, w.staleInterval)
	assert.Equal(t, 7*24*time.Hour, w.purgeInterval)
}
