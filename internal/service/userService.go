package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	repository "github.com/VitorSanchespy/sys-npj-1-sub001/internal/database/postgres"
	"github.com/VitorSanchespy/sys-npj-1-sub001/internal/entity"
)

// RegisterUserRequest representa os dados de cadastro de usuário
type RegisterUserRequest struct {
	Nome     string `json:"nome" binding:"required,min=2,max=255"`
	Email    string `json:"email" binding:"required,email"`
	Telefone string `json:"telefone" binding:"max=50"`
	Role     string `json:"role" binding:"omitempty,oneof=aluno professor admin"`
}

type UpdateUserRequest struct {
	Nome     string `json:"nome" binding:"omitempty,min=2,max=255"`
	Email    string `json:"email" binding:"omitempty,email"`
	Telefone string `json:"telefone" binding:"max=50"`
	Role     string `json:"role" binding:"omitempty,oneof=aluno professor admin"`
}

type userService struct {
	userRepo repository.UserRepository
	prefRepo repository.PreferenceRepository
}

func NewUserService(userRepo repository.UserRepository, prefRepo repository.PreferenceRepository) UserService {
	return &userService{
		userRepo: userRepo,
		prefRepo: prefRepo,
	}
}

func (s *userService) Register(ctx context.Context, req *RegisterUserRequest) (*entity.User, error) {
	role := entity.UserRole(req.Role)
	if role == "" {
		role = entity.UserRoleAluno
	}

	user := &entity.User{
		Nome:      strings.TrimSpace(req.Nome),
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Telefone:  strings.TrimSpace(req.Telefone),
		Role:      role,
		CreatedAt: time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// The unique index closes the check-then-write race the
		// middleware cannot.
		if isUniqueViolation(err) {
			return nil, entity.ErrEmailExists
		}
		return nil, fmt.Errorf("register user: %w", err)
	}

	// Preference row is created lazily with defaults; doing it here just
	// saves the first scheduler tick a round trip. Failure is not fatal.
	if s.prefRepo != nil {
		if _, err := s.prefRepo.GetOrCreate(ctx, user.ID); err != nil {
			return user, nil
		}
	}

	return user, nil
}

func (s *userService) GetUserByID(ctx context.Context, id int64) (*entity.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *userService) GetUserByEmail(ctx context.Context, email string) (*entity.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, entity.ErrUserNotFound
	}

	return user, nil
}

func (s *userService) UpdateUser(ctx context.Context, id int64, req *UpdateUserRequest) (*entity.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Nome != "" {
		user.Nome = strings.TrimSpace(req.Nome)
	}
	if req.Email != "" {
		user.Email = strings.ToLower(strings.TrimSpace(req.Email))
	}
	if req.Telefone != "" {
		user.Telefone = strings.TrimSpace(req.Telefone)
	}
	if req.Role != "" {
		user.Role = entity.UserRole(req.Role)
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		if isUniqueViolation(err) {
			return nil, entity.ErrEmailExists
		}
		return nil, fmt.Errorf("update user: %w", err)
	}

	return user, nil
}

func (s *userService) DeleteUser(ctx context.Context, id int64) error {
	return s.userRepo.Delete(ctx, id)
}

func (s *userService) GetAllUsers(ctx context.Context) ([]*entity.User, error) {
	return s.userRepo.GetAll(ctx)
}

func isUniqueViolation(err error) bool {
	if pqErr, ok := err.(*pq.Error); ok {
		return pqErr.Code == "23505"
	}
	return false
}
