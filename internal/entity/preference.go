package entity

import "time"

// NotificationPreference holds the per-user channel/kind toggles consulted
// by the delivery loop, plus the staleness threshold used by the daily scan.
// Created lazily with defaults on first access, one row per user.
type NotificationPreference struct {
	UsuarioID        int64     `json:"usuario_id" db:"usuario_id"`
	EmailLembretes   bool      `json:"email_lembretes" db:"email_lembretes"`
	EmailAlertas     bool      `json:"email_alertas" db:"email_alertas"`
	SistemaLembretes bool      `json:"sistema_lembretes" db:"sistema_lembretes"`
	SistemaAlertas   bool      `json:"sistema_alertas" db:"sistema_alertas"`
	DiasInatividade  int       `json:"dias_inatividade" db:"dias_inatividade"`
	HoraEnvio        int       `json:"hora_envio" db:"hora_envio"`
	UpdatedAt        time.Time `json:"atualizado_em" db:"atualizado_em"`
}

// DefaultNotificationPreference is what a user gets before ever touching
// the settings screen.
func DefaultNotificationPreference(usuarioID int64) *NotificationPreference {
	return &NotificationPreference{
		UsuarioID:        usuarioID,
		EmailLembretes:   true,
		EmailAlertas:     true,
		SistemaLembretes: true,
		SistemaAlertas:   true,
		DiasInatividade:  30,
		HoraEnvio:        9,
	}
}

// EmailEnabled reports whether the email channel is on for the given kind.
func (p *NotificationPreference) EmailEnabled(kind NotificationKind) bool {
	switch kind {
	case NotificationKindLembrete:
		return p.EmailLembretes
	case NotificationKindAlerta:
		return p.EmailAlertas
	}
	return false
}

// SistemaEnabled reports whether the in-app channel is on for the given kind.
func (p *NotificationPreference) SistemaEnabled(kind NotificationKind) bool {
	switch kind {
	case NotificationKindLembrete:
		return p.SistemaLembretes
	case NotificationKindAlerta:
		return p.SistemaAlertas
	}
	return false
}
