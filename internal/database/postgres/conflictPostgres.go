package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/VitorSanchespy/sys-npj-1-sub001/internal/conflict"
)

// conflictStore implements conflict.Store over the same tables the entity
// repositories write to. Field names are checked against an allow-list
// before being interpolated; values always go through placeholders.
type conflictStore struct {
	db *sql.DB
}

func NewConflictStore(db *sql.DB) conflict.Store {
	return &conflictStore{db: db}
}

var uniqueFieldColumns = map[string]map[string]string{
	"usuarios": {
		"email":    "LOWER(TRIM(email))",
		"telefone": "TRIM(telefone)",
	},
	"processos": {
		"numero_processo": "numero_processo",
	},
}

func (s *conflictStore) FindByUniqueField(ctx context.Context, entityType, field, normalized string, excludeID int64) (*conflict.ConflictRef, error) {
	fields, ok := uniqueFieldColumns[entityType]
	if !ok {
		return nil, fmt.Errorf("no uniqueness rules for entity %q", entityType)
	}
	column, ok := fields[field]
	if !ok {
		return nil, fmt.Errorf("no uniqueness rule for %s.%s", entityType, field)
	}

	query := fmt.Sprintf(`
		SELECT id, %s, criado_em
		FROM %s
		WHERE %s = $1 AND id != $2
		LIMIT 1
	`, column, entityType, column)

	var ref conflict.ConflictRef
	err := s.db.QueryRowContext(ctx, query, normalized, excludeID).Scan(&ref.ID, &ref.Value, &ref.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &ref, nil
}

func (s *conflictStore) FindOverlapping(ctx context.Context, entityType string, subjectID int64, at time.Time, margin time.Duration, excludeID int64) ([]conflict.ConflictRef, error) {
	if entityType != "agendamentos" {
		return nil, fmt.Errorf("no overlap rules for entity %q", entityType)
	}

	// Cancelled schedules do not block a slot.
	query := `
		SELECT id, titulo, data_hora, criado_em
		FROM agendamentos
		WHERE usuario_id = $1
		  AND data_hora BETWEEN $2 AND $3
		  AND id != $4
		  AND status != 'cancelado'
		ORDER BY data_hora
	`

	rows, err := s.db.QueryContext(ctx, query, subjectID, at.Add(-margin), at.Add(margin), excludeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var refs []conflict.ConflictRef
	for rows.Next() {
		var ref conflict.ConflictRef
		if err := rows.Scan(&ref.ID, &ref.Value, &ref.At, &ref.CreatedAt); err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}

	return refs, rows.Err()
}
