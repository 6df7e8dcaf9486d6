package repository

import (
	"context"
	"fmt"

	"github.com/AlekseyZapadovnikov/org-chart/conf"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DBPool описывает минимальный интерфейс пула подключений к PostgreSQL.
type DBPool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
	Close()
}

// Storage инкапсулирует пул подключений и хранит сотрудников в PostgreSQL.
type Storage struct {
	pool DBPool
}

// NewStorage создаёт пул подключений к PostgreSQL и проверяет соединение.
func NewStorage(ctx context.Context, cfg *conf.DbConf) (*Storage, error) {
	pool, err := pgxpool.New(ctx, cfg.ConnString())
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	// Проверяем подключение.
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Storage{pool: pool}, nil
}

const createEmployeesTable = `
CREATE TABLE IF NOT EXISTS employees (
	id          BIGINT PRIMARY KEY,
	name        TEXT NOT NULL,
	designation TEXT NOT NULL DEFAULT '',
	team        TEXT NOT NULL DEFAULT '',
	manager_id  BIGINT REFERENCES employees (id) ON DELETE SET NULL DEFERRABLE INITIALLY DEFERRED,
	avatar      TEXT NOT NULL DEFAULT ''
)`

const createManagerIndex = `CREATE INDEX IF NOT EXISTS employees_manager_id_idx ON employees (manager_id)`

// EnsureSchema создаёт таблицу сотрудников, если её ещё нет.
func (s *Storage) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, createEmployeesTable); err != nil {
		return fmt.Errorf("create employees table: %w", err)
	}
	if _, err := s.pool.Exec(ctx, createManagerIndex); err != nil {
		return fmt.Errorf("create manager index: %w", err)
	}
	return nil
}

// Close закрывает пул подключений, когда он больше не нужен.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}
