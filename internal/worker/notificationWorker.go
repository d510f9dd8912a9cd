package worker

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/VitorSanchespy/sys-npj-1-sub001/internal/service"
	"github.com/VitorSanchespy/sys-npj-1-sub001/pkg/scheduler"
)

// NotificationWorker owns the three periodic duties of the notification
// core: draining due deliveries, the daily staleness scan, and the weekly
// purge. Each duty body is a plain method; the scheduler only provides
// the cadence.
type NotificationWorker struct {
	notificationService service.NotificationService

	dispatchInterval time.Duration
	staleInterval    time.Duration
	purgeInterval    time.Duration
}

func NewNotificationWorker(
	notificationService service.NotificationService,
	dispatchInterval, staleInterval, purgeInterval time.Duration,
) *NotificationWorker {
	if dispatchInterval <= 0 {
		dispatchInterval = 5 * time.Minute
	}
	if staleInterval <= 0 {
		staleInterval = 24 * time.Hour
	}
	if purgeInterval <= 0 {
		purgeInterval = 7 * 24 * time.Hour
	}

	return &NotificationWorker{
		notificationService: notificationService,
		dispatchInterval:    dispatchInterval,
		staleInterval:       staleInterval,
		purgeInterval:       purgeInterval,
	}
}

// Register wires the three duties into the scheduler, each on its own cadence.
func (w *NotificationWorker) Register(s *scheduler.Scheduler) {
	s.RegisterPeriodicTask("notification_dispatch", w.dispatchInterval, w.Dispatch)
	s.RegisterPeriodicTask("stale_process_scan", w.staleInterval, w.ScanStale)
	s.RegisterPeriodicTask("notification_purge", w.purgeInterval, w.Purge)
}

// Dispatch drains one batch of due notifications.
func (w *NotificationWorker) Dispatch(ctx context.Context) {
	sent, failed, err := w.notificationService.DispatchDue(ctx)
	if err != nil {
		logrus.Errorf("Notification dispatch tick failed: %v", err)
		return
	}

	if sent == 0 && failed == 0 {
		logrus.Debug("No due notifications found for dispatch")
		return
	}

	logrus.Infof("Notification dispatch completed: %d sent, %d failed", sent, failed)

	if failed > 0 {
		logrus.Warnf("%d notifications failed delivery this tick", failed)
	}
}

// ScanStale synthesizes staleness alerts for inactive processes.
func (w *NotificationWorker) ScanStale(ctx context.Context) {
	alerts, err := w.notificationService.ScanStaleProcesses(ctx)
	if err != nil {
		logrus.Errorf("Stale process scan failed: %v", err)
		return
	}

	if alerts == 0 {
		logrus.Info("Stale process scan found nothing to alert")
		return
	}

	logrus.Infof("Stale process scan created %d alert(s)", alerts)
}

// Purge removes delivered notifications past the retention window.
func (w *NotificationWorker) Purge(ctx context.Context) {
	purged, err := w.notificationService.PurgeOldNotifications(ctx)
	if err != nil {
		logrus.Errorf("Notification purge failed: %v", err)
		return
	}

	logrus.Infof("Notification purge removed %d record(s)", purged)
}
