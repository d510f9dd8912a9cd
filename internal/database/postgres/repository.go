package repository

import (
	"context"
	"time"

	"github.com/VitorSanchespy/sys-npj-1-sub001/internal/entity"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	Delete(ctx context.Context, id int64) error

	GetAll(ctx context.Context) ([]*entity.User, error)
}

type ProcessRepository interface {
	Create(ctx context.Context, process *entity.Process) error
	GetByID(ctx context.Context, id int64) (*entity.Process, error)
	GetByNumero(ctx context.Context, numero string) (*entity.Process, error)
	Update(ctx context.Context, process *entity.Process) error
	Delete(ctx context.Context, id int64) error

	GetAll(ctx context.Context) ([]*entity.Process, error)
	GetByResponsavel(ctx context.Context, userID int64) ([]*entity.Process, error)

	// Movimentações
	AddUpdate(ctx context.Context, update *entity.ProcessUpdate) error
	GetUpdates(ctx context.Context, processID int64) ([]*entity.ProcessUpdate, error)

	// Staleness scan: open processes of the user created before the cutoff
	// with no movimentação at or after it.
	CountStale(ctx context.Context, userID int64, cutoff time.Time) (int, error)
}

type ScheduleRepository interface {
	Create(ctx context.Context, schedule *entity.Schedule) error
	GetByID(ctx context.Context, id int64) (*entity.Schedule, error)
	Update(ctx context.Context, schedule *entity.Schedule) error
	Delete(ctx context.Context, id int64) error

	GetByUserID(ctx context.Context, userID int64) ([]*entity.Schedule, error)
	GetByDateRange(ctx context.Context, from, to time.Time) ([]*entity.Schedule, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, n *entity.Notification) error
	GetByID(ctx context.Context, id int64) (*entity.Notification, error)
	GetByUserID(ctx context.Context, userID int64) ([]*entity.Notification, error)

	// ClaimDue transactionally flips a batch of due, deliverable records
	// under the given claim token and returns them. A record already
	// claimed by another in-flight tick is skipped.
	ClaimDue(ctx context.Context, claimToken string, now time.Time, maxAttempts, limit int) ([]*entity.Notification, error)

	MarkSent(ctx context.Context, id int64, sentAt time.Time) error
	MarkFailed(ctx context.Context, id int64, detail string) error
	MarkRead(ctx context.Context, id, userID int64) error

	// HasAlertSince reports whether an alerta for the user was created at
	// or after the given instant. The staleness scan uses it as the
	// authoritative once-per-day guard.
	HasAlertSince(ctx context.Context, userID int64, since time.Time) (bool, error)

	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type PreferenceRepository interface {
	// GetOrCreate returns the user's preference row, inserting the
	// defaults on first access.
	GetOrCreate(ctx context.Context, userID int64) (*entity.NotificationPreference, error)
	Update(ctx context.Context, pref *entity.NotificationPreference) error

	// GetAlertEnabled returns every preference row with at least one
	// alerta channel switched on, for the staleness scan.
	GetAlertEnabled(ctx context.Context) ([]*entity.NotificationPreference, error)
}
