package service

import (
	"context"
	"time"

	"github.com/VitorSanchespy/sys-npj-1-sub001/internal/entity"
)

type UserService interface {
	// Основные операции
	Register(ctx context.Context, req *RegisterUserRequest) (*entity.User, error)
	GetUserByID(ctx context.Context, id int64) (*entity.User, error)
	GetUserByEmail(ctx context.Context, email string) (*entity.User, error)
	UpdateUser(ctx context.Context, id int64, req *UpdateUserRequest) (*entity.User, error)
	DeleteUser(ctx context.Context, id int64) error

	GetAllUsers(ctx context.Context) ([]*entity.User, error)
}

type ProcessService interface {
	CreateProcess(ctx context.Context, req *CreateProcessRequest) (*entity.Process, error)
	GetProcess(ctx context.Context, id int64) (*entity.Process, error)
	GetAllProcesses(ctx context.Context) ([]*entity.Process, error)
	UpdateProcess(ctx context.Context, id int64, req *UpdateProcessRequest) (*entity.Process, error)
	DeleteProcess(ctx context.Context, id int64) error

	// Movimentações
	AddProcessUpdate(ctx context.Context, req *AddProcessUpdateRequest) (*entity.ProcessUpdate, error)
	GetProcessUpdates(ctx context.Context, processID int64) ([]*entity.ProcessUpdate, error)
}

type ScheduleService interface {
	CreateSchedule(ctx context.Context, req *CreateScheduleRequest) (*entity.Schedule, error)
	GetSchedule(ctx context.Context, id int64) (*entity.Schedule, error)
	GetUserSchedules(ctx context.Context, userID int64) ([]*entity.Schedule, error)
	UpdateSchedule(ctx context.Context, id int64, req *UpdateScheduleRequest) (*entity.Schedule, error)
	CancelSchedule(ctx context.Context, id int64) error
}

type NotificationService interface {
	// Основные операции
	CreateNotification(ctx context.Context, req *CreateNotificationRequest) (*entity.Notification, error)
	GetNotification(ctx context.Context, id int64) (*entity.Notification, error)
	GetNotificationStatus(ctx context.Context, id int64) (entity.NotificationStatus, error)
	GetUserNotifications(ctx context.Context, userID int64) ([]*entity.Notification, error)
	MarkNotificationRead(ctx context.Context, id, userID int64) error

	// Preferências
	GetPreferences(ctx context.Context, userID int64) (*entity.NotificationPreference, error)
	UpdatePreferences(ctx context.Context, userID int64, req *UpdatePreferencesRequest) (*entity.NotificationPreference, error)

	// Scheduler duties: each body is one tick of the corresponding
	// periodic task and can be invoked directly in tests.
	DispatchDue(ctx context.Context) (sent, failed int, err error)
	ScanStaleProcesses(ctx context.Context) (alerts int, err error)
	PurgeOldNotifications(ctx context.Context) (purged int64, err error)
}

// Mailer is the delivery channel as the notification service sees it.
type Mailer interface {
	Send(to, subject, textBody, htmlBody string) error
}

// NotificationCache is the optional redis fast path; every answer it gives
// is re-checked against the store before anything user-visible happens.
type NotificationCache interface {
	SetStatus(ctx context.Context, id int64, status entity.NotificationStatus) error
	GetStatus(ctx context.Context, id int64) (entity.NotificationStatus, error)
	MarkAlertedToday(ctx context.Context, userID int64, day time.Time) (bool, error)
	AlertedToday(ctx context.Context, userID int64, day time.Time) (bool, error)
}
