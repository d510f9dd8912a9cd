package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	repository "github.com/VitorSanchespy/sys-npj-1-sub001/internal/database/postgres"
	"github.com/VitorSanchespy/sys-npj-1-sub001/internal/entity"
)

type memScheduleRepo struct {
	repository.ScheduleRepository

	nextID    int64
	schedules map[int64]*entity.Schedule
}

func newMemScheduleRepo() *memScheduleRepo {
	return &memScheduleRepo{schedules: make(map[int64]*entity.Schedule)}
}

func (r *memScheduleRepo) Create(_ context.Context, schedule *entity.Schedule) error {
	r.nextID++
	schedule.ID = r.nextID
	stored := *schedule
	r.schedules[schedule.ID] = &stored
	return nil
}

func (r *memScheduleRepo) GetByID(_ context.Context, id int64) (*entity.Schedule, error) {
	schedule, ok := r.schedules[id]
	if !ok {
		return nil, entity.ErrScheduleNotFound
	}
	copied := *schedule
	return &copied, nil
}

func (r *memScheduleRepo) Update(_ context.Context, schedule *entity.Schedule) error {
	if _, ok := r.schedules[schedule.ID]; !ok {
		return entity.ErrScheduleNotFound
	}
	stored := *schedule
	r.schedules[schedule.ID] = &stored
	return nil
}

// Creating a schedule also queues the lembrete that the dispatcher will
// later deliver, timed one lead before the appointment.
func TestCreateScheduleEnqueuesReminder(t *testing.T) {
	scheduleRepo := newMemScheduleRepo()
	notificationRepo := newMemNotificationRepo()
	svc := NewScheduleService(scheduleRepo, notificationRepo, 24*time.Hour)

	dataHora := time.Now().Add(72 * time.Hour).Truncate(time.Second)
	schedule, err := svc.CreateSchedule(context.Background(), &CreateScheduleRequest{
		UsuarioID: 1,
		Titulo:    "  Audiência de conciliação ",
		DataHora:  entity.CustomTime{Time: dataHora},
		Local:     "Sala 3",
	})
	require.NoError(t, err)
	assert.Equal(t, "Audiência de conciliação", schedule.Titulo)
	assert.Equal(t, entity.ScheduleStatusMarcado, schedule.Status)

	notifications, err := notificationRepo.GetByUserID(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, notifications, 1)

	reminder := notifications[0]
	assert.Equal(t, entity.NotificationKindLembrete, reminder.Tipo)
	assert.Equal(t, entity.NotificationChannelAmbos, reminder.Canal)
	assert.Equal(t, entity.NotificationStatusPendente, reminder.Status)
	assert.Contains(t, reminder.Mensagem, "Audiência de conciliação")
	assert.Contains(t, reminder.Mensagem, "Sala 3")
	assert.WithinDuration(t, dataHora.Add(-24*time.Hour), reminder.DataEnvio, time.Second)
}

// An appointment closer than the lead gets its reminder immediately
// instead of in the past.
func TestCreateScheduleImminentReminderClampedToNow(t *testing.T) {
	scheduleRepo := newMemScheduleRepo()
	notificationRepo := newMemNotificationRepo()
	svc := NewScheduleService(scheduleRepo, notificationRepo, 24*time.Hour)

	_, err := svc.CreateSchedule(context.Background(), &CreateScheduleRequest{
		UsuarioID: 1,
		Titulo:    "Atendimento",
		DataHora:  entity.CustomTime{Time: time.Now().Add(2 * time.Hour)},
	})
	require.NoError(t, err)

	notifications, err := notificationRepo.GetByUserID(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.WithinDuration(t, time.Now(), notifications[0].DataEnvio, 5*time.Second)
}

func TestCancelSchedule(t *testing.T) {
	scheduleRepo := newMemScheduleRepo()
	svc := NewScheduleService(scheduleRepo, newMemNotificationRepo(), 24*time.Hour)

	schedule, err := svc.CreateSchedule(context.Background(), &CreateScheduleRequest{
		UsuarioID: 1,
		Titulo:    "Atendimento",
		DataHora:  entity.CustomTime{Time: time.Now().Add(48 * time.Hour)},
	})
	require.NoError(t, err)

	require.NoError(t, svc.CancelSchedule(context.Background(), schedule.ID))
	assert.Equal(t, entity.ScheduleStatusCancelado, scheduleRepo.schedules[schedule.ID].Status)

	assert.ErrorIs(t, svc.CancelSchedule(context.Background(), 999), entity.ErrScheduleNotFound)
}

func TestUpdateSchedulePartial(t *testing.T) {
	scheduleRepo := newMemScheduleRepo()
	svc := NewScheduleService(scheduleRepo, newMemNotificationRepo(), 24*time.Hour)

	created, err := svc.CreateSchedule(context.Background(), &CreateScheduleRequest{
		UsuarioID: 1,
		Titulo:    "Atendimento",
		DataHora:  entity.CustomTime{Time: time.Now().Add(48 * time.Hour)},
		Local:     "Sala 1",
	})
	require.NoError(t, err)

	updated, err := svc.UpdateSchedule(context.Background(), created.ID, &UpdateScheduleRequest{
		Local: "Sala 2",
	})
	require.NoError(t, err)

	assert.Equal(t, "Sala 2", updated.Local)
	assert.Equal(t, "Atendimento", updated.Titulo)
	assert.True(t, updated.DataHora.Equal(created.DataHora))
}
