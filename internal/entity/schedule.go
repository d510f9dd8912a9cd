package entity

import "time"

type ScheduleStatus string

const (
	ScheduleStatusMarcado   ScheduleStatus = "marcado"
	ScheduleStatusRealizado ScheduleStatus = "realizado"
	ScheduleStatusCancelado ScheduleStatus = "cancelado"
)

type Schedule struct {
	ID        int64          `json:"id" db:"id"`
	UsuarioID int64          `json:"usuario_id" db:"usuario_id"`
	Titulo    string         `json:"titulo" db:"titulo"`
	Descricao string         `json:"descricao" db:"descricao"`
	DataHora  time.Time      `json:"data_hora" db:"data_hora"`
	Local     string         `json:"local" db:"local"`
	Status    ScheduleStatus `json:"status" db:"status"`
	CreatedAt time.Time      `json:"criado_em" db:"criado_em"`
}
