package entity

import (
	"database/sql"
	"time"
)

type NotificationStatus string

const (
	NotificationStatusPendente NotificationStatus = "pendente"
	NotificationStatusEnviado  NotificationStatus = "enviado"
	NotificationStatusErro     NotificationStatus = "erro"
	NotificationStatusLido     NotificationStatus = "lido"
)

type NotificationKind string

const (
	NotificationKindLembrete NotificationKind = "lembrete"
	NotificationKindAlerta   NotificationKind = "alerta"
)

type NotificationChannel string

const (
	NotificationChannelEmail   NotificationChannel = "email"
	NotificationChannelSistema NotificationChannel = "sistema"
	NotificationChannelAmbos   NotificationChannel = "ambos"
)

// Notification is a persisted unit of work: send this message via this
// channel at (or after) DataEnvio. Status moves pendente -> enviado|erro;
// erro may be retried until the attempt ceiling, enviado may become lido
// when the recipient opens a sistema-channel notification. It never goes
// back to pendente.
type Notification struct {
	ID           int64               `json:"id" db:"id"`
	UsuarioID    int64               `json:"usuario_id" db:"usuario_id"`
	Tipo         NotificationKind    `json:"tipo" db:"tipo"`
	Titulo       string              `json:"titulo" db:"titulo"`
	Mensagem     string              `json:"mensagem" db:"mensagem"`
	Canal        NotificationChannel `json:"canal" db:"canal"`
	Status       NotificationStatus  `json:"status" db:"status"`
	Tentativas   int                 `json:"tentativas" db:"tentativas"`
	ErroDetalhes string              `json:"erro_detalhes,omitempty" db:"erro_detalhes"`
	DataEnvio    time.Time           `json:"data_envio" db:"data_envio"`
	EnviadoEm    sql.NullTime        `json:"enviado_em,omitempty" db:"enviado_em"`
	CreatedAt    time.Time           `json:"criado_em" db:"criado_em"`
}
