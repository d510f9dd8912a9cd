package service

import (
	"context"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	repository "github.com/VitorSanchespy/sys-npj-1-sub001/internal/database/postgres"
	"github.com/VitorSanchespy/sys-npj-1-sub001/internal/entity"
)

type memProcessStore struct {
	repository.ProcessRepository

	nextID    int64
	processes map[int64]*entity.Process
	updates   map[int64][]*entity.ProcessUpdate
}

func newMemProcessStore() *memProcessStore {
	return &memProcessStore{
		processes: make(map[int64]*entity.Process),
		updates:   make(map[int64][]*entity.ProcessUpdate),
	}
}

func (r *memProcessStore) Create(_ context.Context, process *entity.Process) error {
	for _, existing := range r.processes {
		if existing.NumeroProcesso == process.NumeroProcesso {
			return &pq.Error{Code: "23505", Constraint: "idx_processos_numero"}
		}
	}
	r.nextID++
	process.ID = r.nextID
	stored := *process
	r.processes[process.ID] = &stored
	return nil
}

func (r *memProcessStore) GetByID(_ context.Context, id int64) (*entity.Process, error) {
	process, ok := r.processes[id]
	if !ok {
		return nil, entity.ErrProcessNotFound
	}
	copied := *process
	return &copied, nil
}

func (r *memProcessStore) AddUpdate(_ context.Context, update *entity.ProcessUpdate) error {
	r.updates[update.ProcessoID] = append(r.updates[update.ProcessoID], update)
	return nil
}

func (r *memProcessStore) GetUpdates(_ context.Context, processID int64) ([]*entity.ProcessUpdate, error) {
	return r.updates[processID], nil
}

func newProcessFixture() (ProcessService, *memProcessStore) {
	users := newMemUserStore()
	users.users[1] = &entity.User{ID: 1, Nome: "Ana", Email: "ana@npj.br", Role: entity.UserRoleProfessor}
	users.nextID = 1

	store := newMemProcessStore()
	return NewProcessService(store, users), store
}

func TestCreateProcessCanonicalNumber(t *testing.T) {
	svc, _ := newProcessFixture()

	process, err := svc.CreateProcess(context.Background(), &CreateProcessRequest{
		NumeroProcesso: "  proc-2025/001 ",
		Titulo:         " Ação de alimentos ",
		ResponsavelID:  1,
	})
	require.NoError(t, err)

	assert.Equal(t, "PROC-2025/001", process.NumeroProcesso)
	assert.Equal(t, "Ação de alimentos", process.Titulo)
	assert.Equal(t, entity.ProcessStatusAberto, process.Status)
}

func TestCreateProcessDuplicateNumber(t *testing.T) {
	svc, _ := newProcessFixture()

	_, err := svc.CreateProcess(context.Background(), &CreateProcessRequest{
		NumeroProcesso: "PROC-2025/001",
		Titulo:         "Ação de alimentos",
		ResponsavelID:  1,
	})
	require.NoError(t, err)

	// Any casing collapses to the same canonical number.
	_, err = svc.CreateProcess(context.Background(), &CreateProcessRequest{
		NumeroProcesso: "proc-2025/001",
		Titulo:         "Outra ação",
		ResponsavelID:  1,
	})
	assert.ErrorIs(t, err, entity.ErrProcessNumberExists)
}

func TestCreateProcessUnknownResponsavel(t *testing.T) {
	svc, _ := newProcessFixture()

	_, err := svc.CreateProcess(context.Background(), &CreateProcessRequest{
		NumeroProcesso: "PROC-2025/001",
		Titulo:         "Ação de alimentos",
		ResponsavelID:  99,
	})
	assert.ErrorIs(t, err, entity.ErrUserNotFound)
}

func TestAddProcessUpdate(t *testing.T) {
	svc, _ := newProcessFixture()

	process, err := svc.CreateProcess(context.Background(), &CreateProcessRequest{
		NumeroProcesso: "PROC-2025/001",
		Titulo:         "Ação de alimentos",
		ResponsavelID:  1,
	})
	require.NoError(t, err)

	update, err := svc.AddProcessUpdate(context.Background(), &AddProcessUpdateRequest{
		ProcessoID: process.ID,
		UsuarioID:  1,
		Descricao:  "Petição inicial protocolada",
	})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), update.CreatedAt, 5*time.Second)

	updates, err := svc.GetProcessUpdates(context.Background(), process.ID)
	require.NoError(t, err)
	require.Len(t, updates, 1)
	assert.Equal(t, "Petição inicial protocolada", updates[0].Descricao)

	// A movimentação on a nonexistent process is refused.
	_, err = svc.AddProcessUpdate(context.Background(), &AddProcessUpdateRequest{
		ProcessoID: 999,
		UsuarioID:  1,
		Descricao:  "Despacho",
	})
	assert.ErrorIs(t, err, entity.ErrProcessNotFound)
}
