package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	repository "github.com/VitorSanchespy/sys-npj-1-sub001/internal/database/postgres"
	"github.com/VitorSanchespy/sys-npj-1-sub001/internal/entity"
)

// CreateScheduleRequest representa os dados de criação de agendamento
type CreateScheduleRequest struct {
	UsuarioID int64             `json:"usuario_id" binding:"required"`
	Titulo    string            `json:"titulo" binding:"required,min=2,max=255"`
	Descricao string            `json:"descricao"`
	DataHora  entity.CustomTime `json:"data_hora" binding:"required"`
	Local     string            `json:"local" binding:"max=255"`
}

type UpdateScheduleRequest struct {
	Titulo    string             `json:"titulo" binding:"omitempty,min=2,max=255"`
	Descricao string             `json:"descricao"`
	DataHora  *entity.CustomTime `json:"data_hora"`
	Local     string             `json:"local" binding:"max=255"`
	Status    string             `json:"status" binding:"omitempty,oneof=marcado realizado cancelado"`
}

type scheduleService struct {
	scheduleRepo     repository.ScheduleRepository
	notificationRepo repository.NotificationRepository
	reminderLead     time.Duration
}

func NewScheduleService(scheduleRepo repository.ScheduleRepository, notificationRepo repository.NotificationRepository, reminderLead time.Duration) ScheduleService {
	if reminderLead <= 0 {
		reminderLead = 24 * time.Hour
	}

	return &scheduleService{
		scheduleRepo:     scheduleRepo,
		notificationRepo: notificationRepo,
		reminderLead:     reminderLead,
	}
}

func (s *scheduleService) CreateSchedule(ctx context.Context, req *CreateScheduleRequest) (*entity.Schedule, error) {
	schedule := &entity.Schedule{
		UsuarioID: req.UsuarioID,
		Titulo:    strings.TrimSpace(req.Titulo),
		Descricao: req.Descricao,
		DataHora:  req.DataHora.Time,
		Local:     strings.TrimSpace(req.Local),
		Status:    entity.ScheduleStatusMarcado,
		CreatedAt: time.Now(),
	}

	if err := s.scheduleRepo.Create(ctx, schedule); err != nil {
		return nil, fmt.Errorf("create schedule: %w", err)
	}

	s.enqueueReminder(ctx, schedule)

	return schedule, nil
}

// enqueueReminder records the lembrete the scheduler will deliver before
// the appointment. A failure here never fails the schedule write.
func (s *scheduleService) enqueueReminder(ctx context.Context, schedule *entity.Schedule) {
	sendAt := schedule.DataHora.Add(-s.reminderLead)
	if sendAt.Before(time.Now()) {
		sendAt = time.Now()
	}

	notification := &entity.Notification{
		UsuarioID: schedule.UsuarioID,
		Tipo:      entity.NotificationKindLembrete,
		Titulo:    "Lembrete de agendamento",
		Mensagem: fmt.Sprintf("Você tem %q marcado para %s%s.",
			schedule.Titulo,
			schedule.DataHora.Format("02/01/2006 15:04"),
			localSuffix(schedule.Local)),
		Canal:     entity.NotificationChannelAmbos,
		Status:    entity.NotificationStatusPendente,
		DataEnvio: sendAt,
		CreatedAt: time.Now(),
	}

	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		logrus.Errorf("Failed to enqueue reminder for schedule %d: %v", schedule.ID, err)
	}
}

func localSuffix(local string) string {
	if local == "" {
		return ""
	}
	return " em " + local
}

func (s *scheduleService) GetSchedule(ctx context.Context, id int64) (*entity.Schedule, error) {
	return s.scheduleRepo.GetByID(ctx, id)
}

func (s *scheduleService) GetUserSchedules(ctx context.Context, userID int64) ([]*entity.Schedule, error) {
	return s.scheduleRepo.GetByUserID(ctx, userID)
}

func (s *scheduleService) UpdateSchedule(ctx context.Context, id int64, req *UpdateScheduleRequest) (*entity.Schedule, error) {
	schedule, err := s.scheduleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Titulo != "" {
		schedule.Titulo = strings.TrimSpace(req.Titulo)
	}
	if req.Descricao != "" {
		schedule.Descricao = req.Descricao
	}
	if req.DataHora != nil {
		schedule.DataHora = req.DataHora.Time
	}
	if req.Local != "" {
		schedule.Local = strings.TrimSpace(req.Local)
	}
	if req.Status != "" {
		schedule.Status = entity.ScheduleStatus(req.Status)
	}

	if err := s.scheduleRepo.Update(ctx, schedule); err != nil {
		return nil, fmt.Errorf("update schedule: %w", err)
	}

	return schedule, nil
}

func (s *scheduleService) CancelSchedule(ctx context.Context, id int64) error {
	schedule, err := s.scheduleRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	schedule.Status = entity.ScheduleStatusCancelado
	return s.scheduleRepo.Update(ctx, schedule)
}
