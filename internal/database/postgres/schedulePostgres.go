package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/VitorSanchespy/sys-npj-1-sub001/internal/entity"
)

type scheduleRepository struct {
	db *sql.DB
}

func NewScheduleRepository(db *sql.DB) ScheduleRepository {
	return &scheduleRepository{db: db}
}

func (r *scheduleRepository) Create(ctx context.Context, schedule *entity.Schedule) error {
	query := `
		INSERT INTO agendamentos (usuario_id, titulo, descricao, data_hora, local, status, criado_em)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	return r.db.QueryRowContext(ctx, query,
		schedule.UsuarioID,
		schedule.Titulo,
		schedule.Descricao,
		schedule.DataHora,
		schedule.Local,
		schedule.Status,
		schedule.CreatedAt,
	).Scan(&schedule.ID)
}

func (r *scheduleRepository) GetByID(ctx context.Context, id int64) (*entity.Schedule, error) {
	query := `
		SELECT id, usuario_id, titulo, descricao, data_hora, local, status, criado_em
		FROM agendamentos
		WHERE id = $1
	`

	var s entity.Schedule
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&s.ID,
		&s.UsuarioID,
		&s.Titulo,
		&s.Descricao,
		&s.DataHora,
		&s.Local,
		&s.Status,
		&s.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, entity.ErrScheduleNotFound
	}
	if err != nil {
		return nil, err
	}

	return &s, nil
}

func (r *scheduleRepository) Update(ctx context.Context, schedule *entity.Schedule) error {
	query := `
		UPDATE agendamentos
		SET titulo = $1, descricao = $2, data_hora = $3, local = $4, status = $5
		WHERE id = $6
	`

	result, err := r.db.ExecContext(ctx, query,
		schedule.Titulo,
		schedule.Descricao,
		schedule.DataHora,
		schedule.Local,
		schedule.Status,
		schedule.ID,
	)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return entity.ErrScheduleNotFound
	}

	return nil
}

func (r *scheduleRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM agendamentos WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return entity.ErrScheduleNotFound
	}

	return nil
}

func (r *scheduleRepository) GetByUserID(ctx context.Context, userID int64) ([]*entity.Schedule, error) {
	query := `
		SELECT id, usuario_id, titulo, descricao, data_hora, local, status, criado_em
		FROM agendamentos
		WHERE usuario_id = $1
		ORDER BY data_hora
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSchedules(rows)
}

func (r *scheduleRepository) GetByDateRange(ctx context.Context, from, to time.Time) ([]*entity.Schedule, error) {
	query := `
		SELECT id, usuario_id, titulo, descricao, data_hora, local, status, criado_em
		FROM agendamentos
		WHERE data_hora BETWEEN $1 AND $2
		ORDER BY data_hora
	`

	rows, err := r.db.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSchedules(rows)
}

func scanSchedules(rows *sql.Rows) ([]*entity.Schedule, error) {
	var schedules []*entity.Schedule
	for rows.Next() {
		var s entity.Schedule
		if err := rows.Scan(
			&s.ID,
			&s.UsuarioID,
			&s.Titulo,
			&s.Descricao,
			&s.DataHora,
			&s.Local,
			&s.Status,
			&s.CreatedAt,
		); err != nil {
			return nil, err
		}
		schedules = append(schedules, &s)
	}

	return schedules, rows.Err()
}
