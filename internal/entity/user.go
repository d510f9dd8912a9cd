package entity

import "time"

type UserRole string

const (
	UserRoleAluno     UserRole = "aluno"
	UserRoleProfessor UserRole = "professor"
	UserRoleAdmin     UserRole = "admin"
)

type User struct {
	ID        int64     `json:"id" db:"id"`
	Nome      string    `json:"nome" db:"nome"`
	Email     string    `json:"email" db:"email"`
	Telefone  string    `json:"telefone" db:"telefone"`
	Role      UserRole  `json:"role" db:"role"`
	CreatedAt time.Time `json:"criado_em" db:"criado_em"`
}
