package entity

import (
	"time"
)

type ProcessStatus string

const (
	ProcessStatusAberto      ProcessStatus = "aberto"
	ProcessStatusEmAndamento ProcessStatus = "em_andamento"
	ProcessStatusConcluido   ProcessStatus = "concluido"
	ProcessStatusArquivado   ProcessStatus = "arquivado"
)

// IsOpen reports whether the process still counts for the staleness scan.
func (s ProcessStatus) IsOpen() bool {
	return s == ProcessStatusAberto || s == ProcessStatusEmAndamento
}

type Process struct {
	ID             int64         `json:"id" db:"id"`
	NumeroProcesso string        `json:"numero_processo" db:"numero_processo"`
	Titulo         string        `json:"titulo" db:"titulo"`
	Descricao      string        `json:"descricao" db:"descricao"`
	Status         ProcessStatus `json:"status" db:"status"`
	ResponsavelID  int64         `json:"responsavel_id" db:"responsavel_id"`
	CreatedAt      time.Time     `json:"criado_em" db:"criado_em"`
	UpdatedAt      time.Time     `json:"atualizado_em" db:"atualizado_em"`
}

// ProcessUpdate is a movimentação: any recorded activity on a process.
// The staleness scan treats a process with no update after the cutoff as inactive.
type ProcessUpdate struct {
	ID         int64     `json:"id" db:"id"`
	ProcessoID int64     `json:"processo_id" db:"processo_id"`
	UsuarioID  int64     `json:"usuario_id" db:"usuario_id"`
	Descricao  string    `json:"descricao" db:"descricao"`
	CreatedAt  time.Time `json:"criado_em" db:"criado_em"`
}
