package postgres

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/VitorSanchespy/sys-npj-1-sub001/config"

	_ "github.com/lib/pq"
)

func NewPostgresDB(cfg *config.DatabaseConfig) (*sql.DB, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("Successfully connected to PostgreSQL")
	return db, nil
}

func RunMigrations(db *sql.DB) error {
	// Read migration files and execute them
	// This is a simplified version - you might want to use a proper migration tool
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS usuarios (
			id SERIAL PRIMARY KEY,
			nome VARCHAR(255) NOT NULL,
			email VARCHAR(255) NOT NULL,
			telefone VARCHAR(50) DEFAULT '',
			role VARCHAR(20) NOT NULL DEFAULT 'aluno',
			criado_em TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS processos (
			id SERIAL PRIMARY KEY,
			numero_processo VARCHAR(100) NOT NULL,
			titulo VARCHAR(255) NOT NULL,
			descricao TEXT DEFAULT '',
			status VARCHAR(20) NOT NULL DEFAULT 'aberto',
			responsavel_id INTEGER REFERENCES usuarios(id),
			criado_em TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			atualizado_em TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS processo_movimentacoes (
			id SERIAL PRIMARY KEY,
			processo_id INTEGER REFERENCES processos(id) ON DELETE CASCADE,
			usuario_id INTEGER REFERENCES usuarios(id),
			descricao TEXT NOT NULL,
			criado_em TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS agendamentos (
			id SERIAL PRIMARY KEY,
			usuario_id INTEGER REFERENCES usuarios(id),
			titulo VARCHAR(255) NOT NULL,
			descricao TEXT DEFAULT '',
			data_hora TIMESTAMP NOT NULL,
			local VARCHAR(255) DEFAULT '',
			status VARCHAR(20) NOT NULL DEFAULT 'marcado',
			criado_em TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS notificacoes (
			id SERIAL PRIMARY KEY,
			usuario_id INTEGER REFERENCES usuarios(id),
			tipo VARCHAR(20) NOT NULL,
			titulo VARCHAR(255) NOT NULL,
			mensagem TEXT NOT NULL,
			canal VARCHAR(10) NOT NULL DEFAULT 'email',
			status VARCHAR(10) NOT NULL DEFAULT 'pendente',
			tentativas INTEGER NOT NULL DEFAULT 0,
			erro_detalhes TEXT,
			data_envio TIMESTAMP NOT NULL,
			enviado_em TIMESTAMP,
			claim_token VARCHAR(36),
			claimed_at TIMESTAMP,
			criado_em TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS notificacao_preferencias (
			usuario_id INTEGER PRIMARY KEY REFERENCES usuarios(id) ON DELETE CASCADE,
			email_lembretes BOOLEAN NOT NULL DEFAULT TRUE,
			email_alertas BOOLEAN NOT NULL DEFAULT TRUE,
			sistema_lembretes BOOLEAN NOT NULL DEFAULT TRUE,
			sistema_alertas BOOLEAN NOT NULL DEFAULT TRUE,
			dias_inatividade INTEGER NOT NULL DEFAULT 30,
			hora_envio INTEGER NOT NULL DEFAULT 9,
			atualizado_em TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		// The unique indexes are the authoritative guard behind the
		// anti-duplication pre-check: a race that slips past the
		// middleware still fails here.
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_usuarios_email ON usuarios(LOWER(TRIM(email)))`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_processos_numero ON processos(numero_processo)`,

		// Indexes
		`CREATE INDEX IF NOT EXISTS idx_agendamentos_usuario_data ON agendamentos(usuario_id, data_hora)`,
		`CREATE INDEX IF NOT EXISTS idx_notificacoes_status_envio ON notificacoes(status, data_envio)`,
		`CREATE INDEX IF NOT EXISTS idx_notificacoes_usuario ON notificacoes(usuario_id)`,
		`CREATE INDEX IF NOT EXISTS idx_movimentacoes_processo ON processo_movimentacoes(processo_id, criado_em)`,
		`CREATE INDEX IF NOT EXISTS idx_processos_responsavel ON processos(responsavel_id, status)`,
	}

	for _, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("failed to execute migration: %v", err)
		}
	}

	log.Println("Database migrations completed successfully")
	return nil
}
