package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/VitorSanchespy/sys-npj-1-sub001/internal/entity"
)

type processRepository struct {
	db *sql.DB
}

func NewProcessRepository(db *sql.DB) ProcessRepository {
	return &processRepository{db: db}
}

func (r *processRepository) Create(ctx context.Context, process *entity.Process) error {
	query := `
		INSERT INTO processos (numero_processo, titulo, descricao, status, responsavel_id, criado_em, atualizado_em)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		RETURNING id
	`

	return r.db.QueryRowContext(ctx, query,
		strings.ToUpper(strings.TrimSpace(process.NumeroProcesso)),
		process.Titulo,
		process.Descricao,
		process.Status,
		process.ResponsavelID,
		process.CreatedAt,
	).Scan(&process.ID)
}

func (r *processRepository) GetByID(ctx context.Context, id int64) (*entity.Process, error) {
	query := `
		SELECT id, numero_processo, titulo, descricao, status, responsavel_id, criado_em, atualizado_em
		FROM processos
		WHERE id = $1
	`

	var p entity.Process
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID,
		&p.NumeroProcesso,
		&p.Titulo,
		&p.Descricao,
		&p.Status,
		&p.ResponsavelID,
		&p.CreatedAt,
		&p.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, entity.ErrProcessNotFound
	}
	if err != nil {
		return nil, err
	}

	return &p, nil
}

func (r *processRepository) GetByNumero(ctx context.Context, numero string) (*entity.Process, error) {
	query := `
		SELECT id, numero_processo, titulo, descricao, status, responsavel_id, criado_em, atualizado_em
		FROM processos
		WHERE numero_processo = $1
	`

	var p entity.Process
	err := r.db.QueryRowContext(ctx, query, strings.ToUpper(strings.TrimSpace(numero))).Scan(
		&p.ID,
		&p.NumeroProcesso,
		&p.Titulo,
		&p.Descricao,
		&p.Status,
		&p.ResponsavelID,
		&p.CreatedAt,
		&p.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &p, nil
}

func (r *processRepository) Update(ctx context.Context, process *entity.Process) error {
	query := `
		UPDATE processos
		SET numero_processo = $1, titulo = $2, descricao = $3, status = $4, responsavel_id = $5, atualizado_em = $6
		WHERE id = $7
	`

	result, err := r.db.ExecContext(ctx, query,
		strings.ToUpper(strings.TrimSpace(process.NumeroProcesso)),
		process.Titulo,
		process.Descricao,
		process.Status,
		process.ResponsavelID,
		time.Now(),
		process.ID,
	)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return entity.ErrProcessNotFound
	}

	return nil
}

func (r *processRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM processos WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return entity.ErrProcessNotFound
	}

	return nil
}

func (r *processRepository) GetAll(ctx context.Context) ([]*entity.Process, error) {
	query := `
		SELECT id, numero_processo, titulo, descricao, status, responsavel_id, criado_em, atualizado_em
		FROM processos
		ORDER BY criado_em DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanProcesses(rows)
}

func (r *processRepository) GetByResponsavel(ctx context.Context, userID int64) ([]*entity.Process, error) {
	query := `
		SELECT id, numero_processo, titulo, descricao, status, responsavel_id, criado_em, atualizado_em
		FROM processos
		WHERE responsavel_id = $1
		ORDER BY criado_em DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanProcesses(rows)
}

func (r *processRepository) AddUpdate(ctx context.Context, update *entity.ProcessUpdate) error {
	query := `
		INSERT INTO processo_movimentacoes (processo_id, usuario_id, descricao, criado_em)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	return r.db.QueryRowContext(ctx, query,
		update.ProcessoID,
		update.UsuarioID,
		update.Descricao,
		update.CreatedAt,
	).Scan(&update.ID)
}

func (r *processRepository) GetUpdates(ctx context.Context, processID int64) ([]*entity.ProcessUpdate, error) {
	query := `
		SELECT id, processo_id, usuario_id, descricao, criado_em
		FROM processo_movimentacoes
		WHERE processo_id = $1
		ORDER BY criado_em DESC
	`

	rows, err := r.db.QueryContext(ctx, query, processID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var updates []*entity.ProcessUpdate
	for rows.Next() {
		var u entity.ProcessUpdate
		if err := rows.Scan(&u.ID, &u.ProcessoID, &u.UsuarioID, &u.Descricao, &u.CreatedAt); err != nil {
			return nil, err
		}
		updates = append(updates, &u)
	}

	return updates, rows.Err()
}

func (r *processRepository) CountStale(ctx context.Context, userID int64, cutoff time.Time) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM processos p
		WHERE p.responsavel_id = $1
		  AND p.status IN ('aberto', 'em_andamento')
		  AND p.criado_em < $2
		  AND NOT EXISTS (
			SELECT 1 FROM processo_movimentacoes m
			WHERE m.processo_id = p.id AND m.criado_em >= $2
		  )
	`

	var count int
	if err := r.db.QueryRowContext(ctx, query, userID, cutoff).Scan(&count); err != nil {
		return 0, err
	}

	return count, nil
}

func scanProcesses(rows *sql.Rows) ([]*entity.Process, error) {
	var processes []*entity.Process
	for rows.Next() {
		var p entity.Process
		if err := rows.Scan(
			&p.ID,
			&p.NumeroProcesso,
			&p.Titulo,
			&p.Descricao,
			&p.Status,
			&p.ResponsavelID,
			&p.CreatedAt,
			&p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		processes = append(processes, &p)
	}

	return processes, rows.Err()
}
