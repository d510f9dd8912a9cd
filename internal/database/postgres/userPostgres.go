package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/VitorSanchespy/sys-npj-1-sub001/internal/entity"
)

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO usuarios (nome, email, telefone, role, criado_em)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	return r.db.QueryRowContext(ctx, query,
		user.Nome,
		strings.ToLower(strings.TrimSpace(user.Email)),
		strings.TrimSpace(user.Telefone),
		user.Role,
		user.CreatedAt,
	).Scan(&user.ID)
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	query := `
		SELECT id, nome, email, telefone, role, criado_em
		FROM usuarios
		WHERE id = $1
	`

	var user entity.User
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&user.ID,
		&user.Nome,
		&user.Email,
		&user.Telefone,
		&user.Role,
		&user.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, entity.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	query := `
		SELECT id, nome, email, telefone, role, criado_em
		FROM usuarios
		WHERE LOWER(email) = LOWER($1)
	`

	var user entity.User
	err := r.db.QueryRowContext(ctx, query, strings.TrimSpace(email)).Scan(
		&user.ID,
		&user.Nome,
		&user.Email,
		&user.Telefone,
		&user.Role,
		&user.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userRepository) Update(ctx context.Context, user *entity.User) error {
	query := `
		UPDATE usuarios
		SET nome = $1, email = $2, telefone = $3, role = $4
		WHERE id = $5
	`

	result, err := r.db.ExecContext(ctx, query,
		user.Nome,
		strings.ToLower(strings.TrimSpace(user.Email)),
		strings.TrimSpace(user.Telefone),
		user.Role,
		user.ID,
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

func (r *userRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM usuarios WHERE id = $1`, id)
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

func (r *userRepository) GetAll(ctx context.Context) ([]*entity.User, error) {
	query := `
		SELECT id, nome, email, telefone, role, criado_em
		FROM usuarios
		ORDER BY nome
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*entity.User
	for rows.Next() {
		var user entity.User
		if err := rows.Scan(
			&user.ID,
			&user.Nome,
			&user.Email,
			&user.Telefone,
			&user.Role,
			&user.CreatedAt,
		); err != nil {
			return nil, err
		}
		users = append(users, &user)
	}

	return users, rows.Err()
}
