package conflict

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore is an in-memory conflict.Store over a handful of records.
type fakeStore struct {
	unique  map[string]map[string][]ConflictRef // entityType -> field -> records (Value holds normalized form)
	entries []fakeScheduleEntry
	err     error
}

type fakeScheduleEntry struct {
	ref       ConflictRef
	subjectID int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{unique: make(map[string]map[string][]ConflictRef)}
}

func (s *fakeStore) addUnique(entityType, field string, ref ConflictRef) {
	if s.unique[entityType] == nil {
		s.unique[entityType] = make(map[string][]ConflictRef)
	}
	s.unique[entityType][field] = append(s.unique[entityType][field], ref)
}

func (s *fakeStore) addSchedule(subjectID int64, ref ConflictRef) {
	s.entries = append(s.entries, fakeScheduleEntry{ref: ref, subjectID: subjectID})
}

func (s *fakeStore) FindByUniqueField(_ context.Context, entityType, field, normalized string, excludeID int64) (*ConflictRef, error) {
	if s.err != nil {
		return nil, s.err
	}

	for _, ref := range s.unique[entityType][field] {
		if ref.Value == normalized && ref.ID != excludeID {
			found := ref
			return &found, nil
		}
	}
	return nil, nil
}

func (s *fakeStore) FindOverlapping(_ context.Context, _ string, subjectID int64, at time.Time, margin time.Duration, excludeID int64) ([]ConflictRef, error) {
	if s.err != nil {
		return nil, s.err
	}

	var refs []ConflictRef
	for _, entry := range s.entries {
		if entry.subjectID != subjectID || entry.ref.ID == excludeID {
			continue
		}
		if !entry.ref.At.Before(at.Add(-margin)) && !entry.ref.At.After(at.Add(margin)) {
			refs = append(refs, entry.ref)
		}
	}
	return refs, nil
}

// TestCheckUnique covers the email uniqueness rule: any casing or
// whitespace variant of an existing email collides, while updating a
// record with its own value passes.
func TestCheckUnique(t *testing.T) {
	emailRule := UniquenessConstraint{EntityType: "usuarios", Field: "email", CaseFold: true}

	store := newFakeStore()
	store.addUnique("usuarios", "email", ConflictRef{ID: 1, Value: "a@x.com", CreatedAt: time.Now()})

	tests := []struct {
		name      string
		value     string
		excludeID int64
		allowed   bool
	}{
		{
			name:    "exact duplicate email",
			value:   "a@x.com",
			allowed: false,
		},
		{
			name:    "case variant collides",
			value:   "A@X.com",
			allowed: false,
		},
		{
			name:    "whitespace variant collides",
			value:   " A@X.COM ",
			allowed: false,
		},
		{
			name:    "unused email passes",
			value:   "b@x.com",
			allowed: true,
		},
		{
			name:      "own record excluded on update",
			value:     "a@x.com",
			excludeID: 1,
			allowed:   true,
		},
		{
			name:    "absent value defers to presence validation",
			value:   "   ",
			allowed: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := CheckUnique(context.Background(), store, emailRule, tt.value, tt.excludeID)
			require.NoError(t, err)
			assert.Equal(t, tt.allowed, result.Allowed)

			if !tt.allowed {
				assert.Equal(t, ReasonUnique, result.Reason)
				assert.Equal(t, "email", result.Field)
				assert.Equal(t, tt.value, result.SubmittedValue)
				require.NotNil(t, result.Conflict)
				assert.Equal(t, int64(1), result.Conflict.ID)
			}
		})
	}
}

func TestCheckUniqueNormalization(t *testing.T) {
	numeroRule := UniquenessConstraint{EntityType: "processos", Field: "numero_processo", Uppercase: true}

	assert.Equal(t, "PROC-2025/001", numeroRule.Normalize("  proc-2025/001 "))

	store := newFakeStore()
	store.addUnique("processos", "numero_processo", ConflictRef{ID: 7, Value: "PROC-2025/001"})

	result, err := CheckUnique(context.Background(), store, numeroRule, "proc-2025/001", 0)
	require.NoError(t, err)
	assert.False(t, result.Allowed)
}

// TestCheckOverlapMargin covers the 30-minute window around an existing
// schedule: anything inside it (inclusive) collides, one minute past the
// edge passes.
func TestCheckOverlapMargin(t *testing.T) {
	rule := OverlapConstraint{EntityType: "agendamentos", SubjectField: "usuario_id", TimeField: "data_hora", Margin: 30 * time.Minute}
	base := time.Date(2025, 1, 10, 10, 0, 0, 0, time.UTC)

	store := newFakeStore()
	store.addSchedule(1, ConflictRef{ID: 10, Value: "Hearing", At: base, CreatedAt: base.Add(-time.Hour)})

	tests := []struct {
		name    string
		at      time.Time
		allowed bool
	}{
		{"same minute", base, false},
		{"20 minutes after", base.Add(20 * time.Minute), false},
		{"exactly 30 minutes after", base.Add(30 * time.Minute), false},
		{"31 minutes after", base.Add(31 * time.Minute), true},
		{"exactly 30 minutes before", base.Add(-30 * time.Minute), false},
		{"31 minutes before", base.Add(-31 * time.Minute), true},
		{"one hour after", base.Add(time.Hour), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := CheckOverlap(context.Background(), store, rule, 1, "Follow-up", tt.at, 0)
			require.NoError(t, err)
			assert.Equal(t, tt.allowed, result.Allowed)

			if !tt.allowed {
				assert.Equal(t, ReasonOverlap, result.Reason)
				require.NotNil(t, result.Conflict)
				assert.Equal(t, int64(10), result.Conflict.ID)
				assert.True(t, result.Conflict.At.Equal(base))
			}
		})
	}
}

func TestCheckOverlapOtherSubject(t *testing.T) {
	rule := OverlapConstraint{EntityType: "agendamentos", Margin: 30 * time.Minute}
	base := time.Date(2025, 1, 10, 10, 0, 0, 0, time.UTC)

	store := newFakeStore()
	store.addSchedule(1, ConflictRef{ID: 10, Value: "Hearing", At: base})

	// Same slot, different user: no conflict.
	result, err := CheckOverlap(context.Background(), store, rule, 2, "Hearing", base, 0)
	require.NoError(t, err)
	assert.True(t, result.Allowed)
}

// TestCheckOverlapExactDuplicate: same user, same normalized title, same
// instant is a distinct rejection reason from the margin overlap.
func TestCheckOverlapExactDuplicate(t *testing.T) {
	rule := OverlapConstraint{EntityType: "agendamentos", TimeField: "data_hora", Margin: 30 * time.Minute}
	base := time.Date(2025, 1, 10, 10, 0, 0, 0, time.UTC)

	store := newFakeStore()
	store.addSchedule(1, ConflictRef{ID: 10, Value: "Hearing", At: base})

	result, err := CheckOverlap(context.Background(), store, rule, 1, "  hearing ", base, 0)
	require.NoError(t, err)
	assert.False(t, result.Allowed)
	assert.Equal(t, ReasonExactDuplicate, result.Reason)

	// Same instant, different title: plain overlap, not exact duplicate.
	result, err = CheckOverlap(context.Background(), store, rule, 1, "Follow-up", base, 0)
	require.NoError(t, err)
	assert.False(t, result.Allowed)
	assert.Equal(t, ReasonOverlap, result.Reason)
}

func TestCheckOverlapMissingFields(t *testing.T) {
	rule := OverlapConstraint{EntityType: "agendamentos", Margin: 30 * time.Minute}
	store := newFakeStore()

	result, err := CheckOverlap(context.Background(), store, rule, 0, "Hearing", time.Now(), 0)
	require.NoError(t, err)
	assert.True(t, result.Allowed)

	result, err = CheckOverlap(context.Background(), store, rule, 1, "Hearing", time.Time{}, 0)
	require.NoError(t, err)
	assert.True(t, result.Allowed)
}

// Determinism: the same store snapshot and candidate always produce the
// same result.
func TestCheckUniqueDeterministic(t *testing.T) {
	rule := UniquenessConstraint{EntityType: "usuarios", Field: "email", CaseFold: true}
	store := newFakeStore()
	store.addUnique("usuarios", "email", ConflictRef{ID: 1, Value: "a@x.com"})

	first, err := CheckUnique(context.Background(), store, rule, "A@x.com", 0)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		again, err := CheckUnique(context.Background(), store, rule, "A@x.com", 0)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestCheckUniqueStoreError(t *testing.T) {
	rule := UniquenessConstraint{EntityType: "usuarios", Field: "email", CaseFold: true}
	store := newFakeStore()
	store.err = assert.AnError

	_, err := CheckUnique(context.Background(), store, rule, "a@x.com", 0)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "usuarios.email"))
}
