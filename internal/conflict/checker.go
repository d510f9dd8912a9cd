// Package conflict holds the pure decision functions behind the
// anti-duplication layer: given a candidate value and the already
// persisted records, decide Allow or Reject with a structured reason.
// Nothing here writes to the store; the UNIQUE indexes created by the
// migrations remain the final authority for races this pre-check
// cannot close.
package conflict

import (
	"context"
	"fmt"
	"strings"
	"time"
)

type Reason string

const (
	ReasonUnique         Reason = "valor_duplicado"
	ReasonOverlap        Reason = "horario_conflitante"
	ReasonExactDuplicate Reason = "registro_identico"
)

// ConflictRef summarizes the already persisted record a candidate collided with.
type ConflictRef struct {
	ID        int64     `json:"id"`
	Value     string    `json:"valor"`
	At        time.Time `json:"data_hora,omitempty"`
	CreatedAt time.Time `json:"criado_em"`
}

// Result is the outcome of one constraint check. Zero value is not
// meaningful; use Allow() or the Check functions.
type Result struct {
	Allowed        bool
	Reason         Reason
	Field          string
	Message        string
	SubmittedValue string
	Conflict       *ConflictRef
}

func Allow() Result {
	return Result{Allowed: true}
}

// Store is the read-only capability the checker needs from persistence.
// The Postgres repositories implement it for production; tests use an
// in-memory fake.
type Store interface {
	// FindByUniqueField returns the record of the given entity whose
	// field equals the normalized value, or nil when none exists.
	// Records with id == excludeID are ignored (self on update).
	FindByUniqueField(ctx context.Context, entityType, field, normalized string, excludeID int64) (*ConflictRef, error)

	// FindOverlapping returns the records of the given entity belonging
	// to subjectID whose timestamp falls within [at-margin, at+margin],
	// excluding excludeID.
	FindOverlapping(ctx context.Context, entityType string, subjectID int64, at time.Time, margin time.Duration, excludeID int64) ([]ConflictRef, error)
}

// UniquenessConstraint names one "no two records may share this field" rule.
type UniquenessConstraint struct {
	EntityType string
	Field      string
	CaseFold   bool
	Uppercase  bool
}

// Normalize applies the constraint's canonical form: always trimmed,
// case-folded or uppercased when the rule says so.
func (c UniquenessConstraint) Normalize(v string) string {
	v = strings.TrimSpace(v)
	if c.Uppercase {
		return strings.ToUpper(v)
	}
	if c.CaseFold {
		return strings.ToLower(v)
	}
	return v
}

// OverlapConstraint names one "no two records for the same subject within
// the margin" rule over a (subject, timestamp) pair.
type OverlapConstraint struct {
	EntityType   string
	SubjectField string
	TimeField    string
	Margin       time.Duration
}

// CheckUnique decides whether a candidate value may be written under the
// given uniqueness rule. An absent value is Allowed: field presence is a
// different validation's concern.
func CheckUnique(ctx context.Context, store Store, c UniquenessConstraint, value string, excludeID int64) (Result, error) {
	if strings.TrimSpace(value) == "" {
		return Allow(), nil
	}

	normalized := c.Normalize(value)
	existing, err := store.FindByUniqueField(ctx, c.EntityType, c.Field, normalized, excludeID)
	if err != nil {
		return Result{}, fmt.Errorf("conflict check on %s.%s: %w", c.EntityType, c.Field, err)
	}
	if existing == nil {
		return Allow(), nil
	}

	return Result{
		Reason:         ReasonUnique,
		Field:          c.Field,
		Message:        fmt.Sprintf("%s já cadastrado: %q", c.Field, strings.TrimSpace(value)),
		SubmittedValue: value,
		Conflict:       existing,
	}, nil
}

// CheckOverlap decides whether a candidate (subject, title, timestamp) may
// be written under the given overlap rule. Two distinct rejections can come
// out of it: an exact duplicate (same subject, same normalized title, same
// instant) and a margin overlap. The exact-duplicate check runs first.
func CheckOverlap(ctx context.Context, store Store, c OverlapConstraint, subjectID int64, title string, at time.Time, excludeID int64) (Result, error) {
	if at.IsZero() || subjectID == 0 {
		return Allow(), nil
	}

	refs, err := store.FindOverlapping(ctx, c.EntityType, subjectID, at, c.Margin, excludeID)
	if err != nil {
		return Result{}, fmt.Errorf("overlap check on %s: %w", c.EntityType, err)
	}
	if len(refs) == 0 {
		return Allow(), nil
	}

	normTitle := strings.ToLower(strings.TrimSpace(title))
	for i := range refs {
		ref := refs[i]
		if ref.At.Equal(at) && strings.ToLower(strings.TrimSpace(ref.Value)) == normTitle {
			return Result{
				Reason:         ReasonExactDuplicate,
				Field:          c.TimeField,
				Message:        fmt.Sprintf("registro idêntico já existe: %q em %s", ref.Value, ref.At.Format("2006-01-02 15:04")),
				SubmittedValue: at.Format(time.RFC3339),
				Conflict:       &ref,
			}, nil
		}
	}

	ref := refs[0]
	return Result{
		Reason:         ReasonOverlap,
		Field:          c.TimeField,
		Message:        fmt.Sprintf("conflito de horário com %q em %s (margem de %d minutos)", ref.Value, ref.At.Format("2006-01-02 15:04"), int(c.Margin.Minutes())),
		SubmittedValue: at.Format(time.RFC3339),
		Conflict:       &ref,
	}, nil
}
