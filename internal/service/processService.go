package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	repository "github.com/VitorSanchespy/sys-npj-1-sub001/internal/database/postgres"
	"github.com/VitorSanchespy/sys-npj-1-sub001/internal/entity"
)

// CreateProcessRequest representa os dados de cadastro de processo
type CreateProcessRequest struct {
	NumeroProcesso string `json:"numero_processo" binding:"required,min=3,max=100"`
	Titulo         string `json:"titulo" binding:"required,min=2,max=255"`
	Descricao      string `json:"descricao"`
	ResponsavelID  int64  `json:"responsavel_id" binding:"required"`
}

type UpdateProcessRequest struct {
	NumeroProcesso string `json:"numero_processo" binding:"omitempty,min=3,max=100"`
	Titulo         string `json:"titulo" binding:"omitempty,min=2,max=255"`
	Descricao      string `json:"descricao"`
	Status         string `json:"status" binding:"omitempty,oneof=aberto em_andamento concluido arquivado"`
	ResponsavelID  int64  `json:"responsavel_id"`
}

type AddProcessUpdateRequest struct {
	ProcessoID int64  `json:"processo_id"`
	UsuarioID  int64  `json:"usuario_id" binding:"required"`
	Descricao  string `json:"descricao" binding:"required,min=1"`
}

type processService struct {
	processRepo repository.ProcessRepository
	userRepo    repository.UserRepository
}

func NewProcessService(processRepo repository.ProcessRepository, userRepo repository.UserRepository) ProcessService {
	return &processService{
		processRepo: processRepo,
		userRepo:    userRepo,
	}
}

func (s *processService) CreateProcess(ctx context.Context, req *CreateProcessRequest) (*entity.Process, error) {
	if _, err := s.userRepo.GetByID(ctx, req.ResponsavelID); err != nil {
		return nil, fmt.Errorf("responsável não encontrado: %w", err)
	}

	process := &entity.Process{
		NumeroProcesso: strings.ToUpper(strings.TrimSpace(req.NumeroProcesso)),
		Titulo:         strings.TrimSpace(req.Titulo),
		Descricao:      req.Descricao,
		Status:         entity.ProcessStatusAberto,
		ResponsavelID:  req.ResponsavelID,
		CreatedAt:      time.Now(),
	}

	if err := s.processRepo.Create(ctx, process); err != nil {
		if isUniqueViolation(err) {
			return nil, entity.ErrProcessNumberExists
		}
		return nil, fmt.Errorf("create process: %w", err)
	}

	return process, nil
}

func (s *processService) GetProcess(ctx context.Context, id int64) (*entity.Process, error) {
	return s.processRepo.GetByID(ctx, id)
}

func (s *processService) GetAllProcesses(ctx context.Context) ([]*entity.Process, error) {
	return s.processRepo.GetAll(ctx)
}

func (s *processService) UpdateProcess(ctx context.Context, id int64, req *UpdateProcessRequest) (*entity.Process, error) {
	process, err := s.processRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.NumeroProcesso != "" {
		process.NumeroProcesso = strings.ToUpper(strings.TrimSpace(req.NumeroProcesso))
	}
	if req.Titulo != "" {
		process.Titulo = strings.TrimSpace(req.Titulo)
	}
	if req.Descricao != "" {
		process.Descricao = req.Descricao
	}
	if req.Status != "" {
		process.Status = entity.ProcessStatus(req.Status)
	}
	if req.ResponsavelID != 0 {
		process.ResponsavelID = req.ResponsavelID
	}

	if err := s.processRepo.Update(ctx, process); err != nil {
		if isUniqueViolation(err) {
			return nil, entity.ErrProcessNumberExists
		}
		return nil, fmt.Errorf("update process: %w", err)
	}

	return process, nil
}

func (s *processService) DeleteProcess(ctx context.Context, id int64) error {
	return s.processRepo.Delete(ctx, id)
}

func (s *processService) AddProcessUpdate(ctx context.Context, req *AddProcessUpdateRequest) (*entity.ProcessUpdate, error) {
	if _, err := s.processRepo.GetByID(ctx, req.ProcessoID); err != nil {
		return nil, err
	}

	update := &entity.ProcessUpdate{
		ProcessoID: req.ProcessoID,
		UsuarioID:  req.UsuarioID,
		Descricao:  req.Descricao,
		CreatedAt:  time.Now(),
	}

	if err := s.processRepo.AddUpdate(ctx, update); err != nil {
		return nil, fmt.Errorf("add process update: %w", err)
	}

	return update, nil
}

func (s *processService) GetProcessUpdates(ctx context.Context, processID int64) ([]*entity.ProcessUpdate, error) {
	return s.processRepo.GetUpdates(ctx, processID)
}
