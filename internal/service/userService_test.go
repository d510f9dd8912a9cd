package service

import (
	"context"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	repository "github.com/VitorSanchespy/sys-npj-1-sub001/internal/database/postgres"
	"github.com/VitorSanchespy/sys-npj-1-sub001/internal/entity"
)

// memUserStore mirrors the unique index on LOWER(TRIM(email)): a second
// insert with a taken email surfaces the driver's 23505, the way Postgres
// would after the middleware pre-check lost a race.
type memUserStore struct {
	repository.UserRepository

	nextID int64
	users  map[int64]*entity.User
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: make(map[int64]*entity.User)}
}

func (r *memUserStore) Create(_ context.Context, user *entity.User) error {
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return &pq.Error{Code: "23505", Constraint: "idx_usuarios_email"}
		}
	}
	r.nextID++
	user.ID = r.nextID
	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r *memUserStore) GetByID(_ context.Context, id int64) (*entity.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, entity.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *memUserStore) Update(_ context.Context, user *entity.User) error {
	for id, existing := range r.users {
		if id != user.ID && existing.Email == user.Email {
			return &pq.Error{Code: "23505", Constraint: "idx_usuarios_email"}
		}
	}
	if _, ok := r.users[user.ID]; !ok {
		return entity.ErrUserNotFound
	}
	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func TestRegisterNormalizesAndDefaults(t *testing.T) {
	users := newMemUserStore()
	prefs := newMemPrefRepo()
	svc := NewUserService(users, prefs)

	user, err := svc.Register(context.Background(), &RegisterUserRequest{
		Nome:     "  Ana Souza ",
		Email:    " Ana.Souza@NPJ.br ",
		Telefone: " 65999990000 ",
	})
	require.NoError(t, err)

	assert.Equal(t, "Ana Souza", user.Nome)
	assert.Equal(t, "ana.souza@npj.br", user.Email)
	assert.Equal(t, "65999990000", user.Telefone)
	assert.Equal(t, entity.UserRoleAluno, user.Role)

	// Registration eagerly materializes the default preference row.
	pref, ok := prefs.prefs[user.ID]
	require.True(t, ok)
	assert.True(t, pref.EmailLembretes)
	assert.Equal(t, 30, pref.DiasInatividade)
}

// The unique index is the close of the race the middleware pre-check
// leaves open; its violation maps to the domain sentinel.
func TestRegisterDuplicateEmail(t *testing.T) {
	users := newMemUserStore()
	svc := NewUserService(users, newMemPrefRepo())

	_, err := svc.Register(context.Background(), &RegisterUserRequest{
		Nome:  "Ana Souza",
		Email: "ana@npj.br",
	})
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), &RegisterUserRequest{
		Nome:  "Outra Ana",
		Email: " ANA@npj.br ",
	})
	assert.ErrorIs(t, err, entity.ErrEmailExists)
}

func TestUpdateUserDuplicateEmail(t *testing.T) {
	users := newMemUserStore()
	svc := NewUserService(users, newMemPrefRepo())

	first, err := svc.Register(context.Background(), &RegisterUserRequest{Nome: "Ana", Email: "ana@npj.br"})
	require.NoError(t, err)
	second, err := svc.Register(context.Background(), &RegisterUserRequest{Nome: "Bia", Email: "bia@npj.br"})
	require.NoError(t, err)

	_, err = svc.UpdateUser(context.Background(), second.ID, &UpdateUserRequest{Email: first.Email})
	assert.ErrorIs(t, err, entity.ErrEmailExists)

	// Re-submitting your own email is not a violation.
	updated, err := svc.UpdateUser(context.Background(), second.ID, &UpdateUserRequest{
		Nome:  "Bia Lima",
		Email: " BIA@npj.br ",
	})
	require.NoError(t, err)
	assert.Equal(t, "bia@npj.br", updated.Email)
	assert.Equal(t, "Bia Lima", updated.Nome)
}

func TestRegisterExplicitRole(t *testing.T) {
	svc := NewUserService(newMemUserStore(), newMemPrefRepo())

	user, err := svc.Register(context.Background(), &RegisterUserRequest{
		Nome:  "Prof. Carlos",
		Email: "carlos@npj.br",
		Role:  "professor",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.UserRoleProfessor, user.Role)
}
