// Package postgres — слой хранения поверх database/sql с драйвером pgx.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // Драйвер Postgres
)

type Store struct {
	db *sql.DB
}

// NewStore создает пул соединений. Живость проверяется в main через Ping.
func NewStore(connString string) *Store {
	db, err := sql.Open("pgx", connString)
	if err != nil {
		log.Fatal(err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)
	return &Store{db: db}
}

// Ping проверяет доступность базы при старте
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error {
	return s.db.Close()
}

// EnsureSchema создает таблицы при первом запуске. Идемпотентна.
func (s *Store) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id            UUID PRIMARY KEY,
			username      TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			is_admin      BOOLEAN NOT NULL DEFAULT FALSE,
			created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS detections (
			id         UUID PRIMARY KEY,
			username   TEXT NOT NULL,
			mode       TEXT NOT NULL,
			input      TEXT NOT NULL,
			url_input  TEXT NOT NULL DEFAULT '',
			label      TEXT NOT NULL,
			verdict    TEXT NOT NULL,
			confidence DOUBLE PRECISION NOT NULL,
			result     JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_detections_username_created
			ON detections (username, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_detections_created
			ON detections (created_at DESC)`,
		`CREATE TABLE IF NOT EXISTS feedback (
			id           UUID PRIMARY KEY,
			username     TEXT NOT NULL,
			detection_id UUID,
			type         TEXT NOT NULL,
			comments     TEXT NOT NULL DEFAULT '',
			created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS contacts (
			id         UUID PRIMARY KEY,
			name       TEXT NOT NULL,
			email      TEXT NOT NULL,
			subject    TEXT NOT NULL,
			message    TEXT NOT NULL,
			status     TEXT NOT NULL DEFAULT 'new',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("postgres: ensure schema: %w", err)
		}
	}
	return nil
}
