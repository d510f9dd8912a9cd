package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/VitorSanchespy/sys-npj-1-sub001/internal/entity"
)

type preferenceRepository struct {
	db *sql.DB
}

func NewPreferenceRepository(db *sql.DB) PreferenceRepository {
	return &preferenceRepository{db: db}
}

// GetOrCreate inserts the default row on first access. ON CONFLICT keeps a
// concurrent first access from failing on the primary key.
func (r *preferenceRepository) GetOrCreate(ctx context.Context, userID int64) (*entity.NotificationPreference, error) {
	insert := `
		INSERT INTO notificacao_preferencias
			(usuario_id, email_lembretes, email_alertas, sistema_lembretes, sistema_alertas, dias_inatividade, hora_envio, atualizado_em)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (usuario_id) DO NOTHING
	`

	defaults := entity.DefaultNotificationPreference(userID)
	if _, err := r.db.ExecContext(ctx, insert,
		userID,
		defaults.EmailLembretes,
		defaults.EmailAlertas,
		defaults.SistemaLembretes,
		defaults.SistemaAlertas,
		defaults.DiasInatividade,
		defaults.HoraEnvio,
		time.Now(),
	); err != nil {
		return nil, err
	}

	query := `
		SELECT usuario_id, email_lembretes, email_alertas, sistema_lembretes, sistema_alertas, dias_inatividade, hora_envio, atualizado_em
		FROM notificacao_preferencias
		WHERE usuario_id = $1
	`

	var pref entity.NotificationPreference
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&pref.UsuarioID,
		&pref.EmailLembretes,
		&pref.EmailAlertas,
		&pref.SistemaLembretes,
		&pref.SistemaAlertas,
		&pref.DiasInatividade,
		&pref.HoraEnvio,
		&pref.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &pref, nil
}

func (r *preferenceRepository) Update(ctx context.Context, pref *entity.NotificationPreference) error {
	query := `
		UPDATE notificacao_preferencias
		SET email_lembretes = $1, email_alertas = $2, sistema_lembretes = $3, sistema_alertas = $4,
		    dias_inatividade = $5, hora_envio = $6, atualizado_em = $7
		WHERE usuario_id = $8
	`

	result, err := r.db.ExecContext(ctx, query,
		pref.EmailLembretes,
		pref.EmailAlertas,
		pref.SistemaLembretes,
		pref.SistemaAlertas,
		pref.DiasInatividade,
		pref.HoraEnvio,
		time.Now(),
		pref.UsuarioID,
	)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return entity.ErrUserNotFound
	}

	return nil
}

func (r *preferenceRepository) GetAlertEnabled(ctx context.Context) ([]*entity.NotificationPreference, error) {
	query := `
		SELECT usuario_id, email_lembretes, email_alertas, sistema_lembretes, sistema_alertas, dias_inatividade, hora_envio, atualizado_em
		FROM notificacao_preferencias
		WHERE email_alertas = TRUE OR sistema_alertas = TRUE
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var prefs []*entity.NotificationPreference
	for rows.Next() {
		var pref entity.NotificationPreference
		if err := rows.Scan(
			&pref.UsuarioID,
			&pref.EmailLembretes,
			&pref.EmailAlertas,
			&pref.SistemaLembretes,
			&pref.SistemaAlertas,
			&pref.DiasInatividade,
			&pref.HoraEnvio,
			&pref.UpdatedAt,
		); err != nil {
			return nil, err
		}
		prefs = append(prefs, &pref)
	}

	return prefs, rows.Err()
}
