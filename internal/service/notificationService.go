package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	repository "github.com/VitorSanchespy/sys-npj-1-sub001/internal/database/postgres"
	"github.com/VitorSanchespy/sys-npj-1-sub001/internal/entity"
)

// CreateNotificationRequest representa os dados de criação de notificação
type CreateNotificationRequest struct {
	UsuarioID int64              `json:"usuario_id" binding:"required"`
	Tipo      string             `json:"tipo" binding:"required,oneof=lembrete alerta"`
	Titulo    string             `json:"titulo" binding:"required,min=1,max=255"`
	Mensagem  string             `json:"mensagem" binding:"required,min=1"`
	Canal     string             `json:"canal" binding:"omitempty,oneof=email sistema ambos"`
	DataEnvio *entity.CustomTime `json:"data_envio"`
}

type UpdatePreferencesRequest struct {
	EmailLembretes   *bool `json:"email_lembretes"`
	EmailAlertas     *bool `json:"email_alertas"`
	SistemaLembretes *bool `json:"sistema_lembretes"`
	SistemaAlertas   *bool `json:"sistema_alertas"`
	DiasInatividade  *int  `json:"dias_inatividade" binding:"omitempty,min=1,max=365"`
	HoraEnvio        *int  `json:"hora_envio" binding:"omitempty,min=0,max=23"`
}

// NotificationServiceConfig bounds the scheduler duties.
type NotificationServiceConfig struct {
	BatchSize     int
	MaxAttempts   int
	RetentionDays int
}

type notificationService struct {
	notificationRepo repository.NotificationRepository
	prefRepo         repository.PreferenceRepository
	userRepo         repository.UserRepository
	processRepo      repository.ProcessRepository
	mailer           Mailer
	cache            NotificationCache
	config           NotificationServiceConfig
}

func NewNotificationService(
	notificationRepo repository.NotificationRepository,
	prefRepo repository.PreferenceRepository,
	userRepo repository.UserRepository,
	processRepo repository.ProcessRepository,
	mailer Mailer,
	cache NotificationCache,
	config NotificationServiceConfig,
) NotificationService {
	if config.BatchSize <= 0 {
		config.BatchSize = 50
	}
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = 5
	}
	if config.RetentionDays <= 0 {
		config.RetentionDays = 30
	}

	return &notificationService{
		notificationRepo: notificationRepo,
		prefRepo:         prefRepo,
		userRepo:         userRepo,
		processRepo:      processRepo,
		mailer:           mailer,
		cache:            cache,
		config:           config,
	}
}

func (s *notificationService) CreateNotification(ctx context.Context, req *CreateNotificationRequest) (*entity.Notification, error) {
	canal := entity.NotificationChannel(req.Canal)
	if canal == "" {
		canal = entity.NotificationChannelEmail
	}

	sendAt := time.Now()
	if req.DataEnvio != nil && !req.DataEnvio.IsZero() {
		sendAt = req.DataEnvio.Time
	}

	notification := &entity.Notification{
		UsuarioID: req.UsuarioID,
		Tipo:      entity.NotificationKind(req.Tipo),
		Titulo:    strings.TrimSpace(req.Titulo),
		Mensagem:  req.Mensagem,
		Canal:     canal,
		Status:    entity.NotificationStatusPendente,
		DataEnvio: sendAt,
		CreatedAt: time.Now(),
	}

	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		return nil, fmt.Errorf("create notification: %w", err)
	}

	s.cacheStatus(ctx, notification.ID, entity.NotificationStatusPendente)

	return notification, nil
}

func (s *notificationService) GetNotification(ctx context.Context, id int64) (*entity.Notification, error) {
	return s.notificationRepo.GetByID(ctx, id)
}

// GetNotificationStatus answers from the redis cache when it can; a miss
// or a cache error falls back to the store and refreshes the cache.
func (s *notificationService) GetNotificationStatus(ctx context.Context, id int64) (entity.NotificationStatus, error) {
	if s.cache != nil {
		status, err := s.cache.GetStatus(ctx, id)
		if err != nil {
			logrus.Warnf("Notification status cache read failed for %d: %v", id, err)
		} else if status != "" {
			return status, nil
		}
	}

	notification, err := s.notificationRepo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}

	s.cacheStatus(ctx, id, notification.Status)

	return notification.Status, nil
}

func (s *notificationService) GetUserNotifications(ctx context.Context, userID int64) ([]*entity.Notification, error) {
	return s.notificationRepo.GetByUserID(ctx, userID)
}

func (s *notificationService) MarkNotificationRead(ctx context.Context, id, userID int64) error {
	if err := s.notificationRepo.MarkRead(ctx, id, userID); err != nil {
		return err
	}

	s.cacheStatus(ctx, id, entity.NotificationStatusLido)
	return nil
}

func (s *notificationService) GetPreferences(ctx context.Context, userID int64) (*entity.NotificationPreference, error) {
	return s.prefRepo.GetOrCreate(ctx, userID)
}

func (s *notificationService) UpdatePreferences(ctx context.Context, userID int64, req *UpdatePreferencesRequest) (*entity.NotificationPreference, error) {
	pref, err := s.prefRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.EmailLembretes != nil {
		pref.EmailLembretes = *req.EmailLembretes
	}
	if req.EmailAlertas != nil {
		pref.EmailAlertas = *req.EmailAlertas
	}
	if req.SistemaLembretes != nil {
		pref.SistemaLembretes = *req.SistemaLembretes
	}
	if req.SistemaAlertas != nil {
		pref.SistemaAlertas = *req.SistemaAlertas
	}
	if req.DiasInatividade != nil {
		pref.DiasInatividade = *req.DiasInatividade
	}
	if req.HoraEnvio != nil {
		pref.HoraEnvio = *req.HoraEnvio
	}

	if err := s.prefRepo.Update(ctx, pref); err != nil {
		return nil, fmt.Errorf("update preferences: %w", err)
	}

	return pref, nil
}

// DispatchDue is one tick of the delivery duty: claim a bounded batch of
// due records under a fresh token, then deliver each one independently.
// A failing record is marked erro and never aborts the rest of the batch.
func (s *notificationService) DispatchDue(ctx context.Context) (sent, failed int, err error) {
	token := uuid.NewString()

	batch, err := s.notificationRepo.ClaimDue(ctx, token, time.Now(), s.config.MaxAttempts, s.config.BatchSize)
	if err != nil {
		return 0, 0, fmt.Errorf("claim due notifications: %w", err)
	}

	for _, notification := range batch {
		if ctx.Err() != nil {
			return sent, failed, ctx.Err()
		}

		if s.deliverOne(ctx, notification) {
			sent++
		} else {
			failed++
		}
	}

	return sent, failed, nil
}

// deliverOne attempts one record and records the outcome. Panics inside a
// single delivery are contained here so the batch keeps going.
func (s *notificationService) deliverOne(ctx context.Context, n *entity.Notification) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			logrus.Errorf("Delivery of notification %d panicked: %v", n.ID, r)
			s.markFailed(ctx, n.ID, fmt.Sprintf("panic: %v", r))
			ok = false
		}
	}()

	pref, err := s.prefRepo.GetOrCreate(ctx, n.UsuarioID)
	if err != nil {
		s.markFailed(ctx, n.ID, fmt.Sprintf("load preferences: %v", err))
		return false
	}

	wantEmail := (n.Canal == entity.NotificationChannelEmail || n.Canal == entity.NotificationChannelAmbos) &&
		pref.EmailEnabled(n.Tipo)

	if wantEmail {
		user, err := s.userRepo.GetByID(ctx, n.UsuarioID)
		if err != nil {
			s.markFailed(ctx, n.ID, fmt.Sprintf("load recipient: %v", err))
			return false
		}

		if err := s.mailer.Send(user.Email, n.Titulo, n.Mensagem, ""); err != nil {
			s.markFailed(ctx, n.ID, err.Error())
			return false
		}
	}

	// A record whose channels are all gated off by preference still ends
	// enviado: the recipient opted out, there is nothing left to deliver.
	if err := s.notificationRepo.MarkSent(ctx, n.ID, time.Now()); err != nil {
		logrus.Errorf("Failed to mark notification %d sent: %v", n.ID, err)
		return false
	}

	s.cacheStatus(ctx, n.ID, entity.NotificationStatusEnviado)
	return true
}

func (s *notificationService) markFailed(ctx context.Context, id int64, detail string) {
	if err := s.notificationRepo.MarkFailed(ctx, id, detail); err != nil {
		logrus.Errorf("Failed to mark notification %d erro: %v", id, err)
		return
	}

	s.cacheStatus(ctx, id, entity.NotificationStatusErro)
}

// ScanStaleProcesses is one tick of the daily staleness duty: for every
// user with alerts enabled, count open processes without recent activity
// and synthesize at most one alerta per user per day.
func (s *notificationService) ScanStaleProcesses(ctx context.Context) (alerts int, err error) {
	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	prefs, err := s.prefRepo.GetAlertEnabled(ctx)
	if err != nil {
		return 0, fmt.Errorf("list alert-enabled users: %w", err)
	}

	for _, pref := range prefs {
		if ctx.Err() != nil {
			return alerts, ctx.Err()
		}

		// Redis fast path; the store query below stays authoritative.
		if s.cache != nil {
			if alerted, err := s.cache.AlertedToday(ctx, pref.UsuarioID, now); err == nil && alerted {
				continue
			}
		}

		already, err := s.notificationRepo.HasAlertSince(ctx, pref.UsuarioID, startOfDay)
		if err != nil {
			return alerts, fmt.Errorf("check existing alert for user %d: %w", pref.UsuarioID, err)
		}
		if already {
			continue
		}

		cutoff := now.AddDate(0, 0, -pref.DiasInatividade)
		count, err := s.processRepo.CountStale(ctx, pref.UsuarioID, cutoff)
		if err != nil {
			return alerts, fmt.Errorf("count stale processes for user %d: %w", pref.UsuarioID, err)
		}
		if count == 0 {
			continue
		}

		// One summary alert per user, not one per process.
		notification := &entity.Notification{
			UsuarioID: pref.UsuarioID,
			Tipo:      entity.NotificationKindAlerta,
			Titulo:    "Processos sem movimentação",
			Mensagem: fmt.Sprintf("Você tem %d processo(s) sem movimentação há mais de %d dias.",
				count, pref.DiasInatividade),
			Canal:     entity.NotificationChannelAmbos,
			Status:    entity.NotificationStatusPendente,
			DataEnvio: sendHourToday(now, pref.HoraEnvio),
			CreatedAt: now,
		}

		if err := s.notificationRepo.Create(ctx, notification); err != nil {
			return alerts, fmt.Errorf("create stale alert for user %d: %w", pref.UsuarioID, err)
		}
		alerts++

		if s.cache != nil {
			if _, err := s.cache.MarkAlertedToday(ctx, pref.UsuarioID, now); err != nil {
				logrus.Warnf("Failed to mark daily alert for user %d in cache: %v", pref.UsuarioID, err)
			}
		}
	}

	return alerts, nil
}

// sendHourToday schedules for the user's preferred hour, or immediately
// when that hour already passed today.
func sendHourToday(now time.Time, hour int) time.Time {
	at := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())
	if at.Before(now) {
		return now
	}
	return at
}

// PurgeOldNotifications is one tick of the weekly purge duty.
func (s *notificationService) PurgeOldNotifications(ctx context.Context) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -s.config.RetentionDays)

	purged, err := s.notificationRepo.PurgeOlderThan(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge notifications: %w", err)
	}

	return purged, nil
}

func (s *notificationService) cacheStatus(ctx context.Context, id int64, status entity.NotificationStatus) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetStatus(ctx, id, status); err != nil {
		logrus.Warnf("Failed to cache status of notification %d: %v", id, err)
	}
}
