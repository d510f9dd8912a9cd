package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/VitorSanchespy/sys-npj-1-sub001/internal/entity"
)

type notificationRepository struct {
	db *sql.DB
}

func NewNotificationRepository(db *sql.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, n *entity.Notification) error {
	query := `
		INSERT INTO notificacoes (usuario_id, tipo, titulo, mensagem, canal, status, tentativas, data_envio, criado_em)
		VALUES ($1, $2, $3, $4, $5, $6, 0, $7, $8)
		RETURNING id
	`

	return r.db.QueryRowContext(ctx, query,
		n.UsuarioID,
		n.Tipo,
		n.Titulo,
		n.Mensagem,
		n.Canal,
		entity.NotificationStatusPendente,
		n.DataEnvio,
		n.CreatedAt,
	).Scan(&n.ID)
}

func (r *notificationRepository) GetByID(ctx context.Context, id int64) (*entity.Notification, error) {
	query := `
		SELECT id, usuario_id, tipo, titulo, mensagem, canal, status, tentativas, COALESCE(erro_detalhes, ''), data_envio, enviado_em, criado_em
		FROM notificacoes
		WHERE id = $1
	`

	var n entity.Notification
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&n.ID,
		&n.UsuarioID,
		&n.Tipo,
		&n.Titulo,
		&n.Mensagem,
		&n.Canal,
		&n.Status,
		&n.Tentativas,
		&n.ErroDetalhes,
		&n.DataEnvio,
		&n.EnviadoEm,
		&n.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, entity.ErrNotificationNotFound
	}
	if err != nil {
		return nil, err
	}

	return &n, nil
}

func (r *notificationRepository) GetByUserID(ctx context.Context, userID int64) ([]*entity.Notification, error) {
	query := `
		SELECT id, usuario_id, tipo, titulo, mensagem, canal, status, tentativas, COALESCE(erro_detalhes, ''), data_envio, enviado_em, criado_em
		FROM notificacoes
		WHERE usuario_id = $1
		ORDER BY criado_em DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []*entity.Notification
	for rows.Next() {
		var n entity.Notification
		if err := rows.Scan(
			&n.ID,
			&n.UsuarioID,
			&n.Tipo,
			&n.Titulo,
			&n.Mensagem,
			&n.Canal,
			&n.Status,
			&n.Tentativas,
			&n.ErroDetalhes,
			&n.DataEnvio,
			&n.EnviadoEm,
			&n.CreatedAt,
		); err != nil {
			return nil, err
		}
		notifications = append(notifications, &n)
	}

	return notifications, rows.Err()
}

// claimStaleAfter bounds how long a claim may sit without an outcome. A
// tick that died mid-batch leaves its tokens behind; once the claim is
// this old the rows become claimable again instead of staying stuck.
const claimStaleAfter = 15 * time.Minute

// ClaimDue flips due pendente records (and erro records still under the
// attempt ceiling) to the given claim token in one statement, so two
// overlapping dispatcher ticks never pick up the same record. SKIP LOCKED
// keeps a second claim from blocking on rows the first is flipping.
func (r *notificationRepository) ClaimDue(ctx context.Context, claimToken string, now time.Time, maxAttempts, limit int) ([]*entity.Notification, error) {
	query := `
		UPDATE notificacoes
		SET claim_token = $1, claimed_at = $2
		WHERE id IN (
			SELECT id FROM notificacoes
			WHERE (claim_token IS NULL OR claimed_at < $5)
			  AND data_envio <= $2
			  AND (status = 'pendente' OR (status = 'erro' AND tentativas < $3))
			ORDER BY data_envio
			LIMIT $4
			FOR UPDATE SKIP LOCKED
		)
		RETURNING id, usuario_id, tipo, titulo, mensagem, canal, status, tentativas, COALESCE(erro_detalhes, ''), data_envio, enviado_em, criado_em
	`

	rows, err := r.db.QueryContext(ctx, query, claimToken, now, maxAttempts, limit, now.Add(-claimStaleAfter))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var claimed []*entity.Notification
	for rows.Next() {
		var n entity.Notification
		if err := rows.Scan(
			&n.ID,
			&n.UsuarioID,
			&n.Tipo,
			&n.Titulo,
			&n.Mensagem,
			&n.Canal,
			&n.Status,
			&n.Tentativas,
			&n.ErroDetalhes,
			&n.DataEnvio,
			&n.EnviadoEm,
			&n.CreatedAt,
		); err != nil {
			return nil, err
		}
		claimed = append(claimed, &n)
	}

	return claimed, rows.Err()
}

func (r *notificationRepository) MarkSent(ctx context.Context, id int64, sentAt time.Time) error {
	query := `
		UPDATE notificacoes
		SET status = 'enviado', tentativas = tentativas + 1, erro_detalhes = NULL, enviado_em = $1, claim_token = NULL, claimed_at = NULL
		WHERE id = $2 AND status IN ('pendente', 'erro')
	`

	result, err := r.db.ExecContext(ctx, query, sentAt, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return entity.ErrNotificationNotFound
	}

	return nil
}

func (r *notificationRepository) MarkFailed(ctx context.Context, id int64, detail string) error {
	query := `
		UPDATE notificacoes
		SET status = 'erro', tentativas = tentativas + 1, erro_detalhes = $1, claim_token = NULL, claimed_at = NULL
		WHERE id = $2 AND status IN ('pendente', 'erro')
	`

	result, err := r.db.ExecContext(ctx, query, detail, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return entity.ErrNotificationNotFound
	}

	return nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, id, userID int64) error {
	// Only a delivered sistema-channel notification can become lido.
	query := `
		UPDATE notificacoes
		SET status = 'lido'
		WHERE id = $1 AND usuario_id = $2 AND status = 'enviado' AND canal IN ('sistema', 'ambos')
	`

	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return entity.ErrNotificationNotFound
	}

	return nil
}

func (r *notificationRepository) HasAlertSince(ctx context.Context, userID int64, since time.Time) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM notificacoes
			WHERE usuario_id = $1 AND tipo = 'alerta' AND criado_em >= $2
		)
	`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, userID, since).Scan(&exists); err != nil {
		return false, err
	}

	return exists, nil
}

func (r *notificationRepository) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `
		DELETE FROM notificacoes
		WHERE status IN ('enviado', 'lido') AND enviado_em IS NOT NULL AND enviado_em < $1
	`

	result, err := r.db.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}
