// Package postgres persists submissions and templates to a JSONB documents
// table in PostgreSQL through the pgx database/sql driver.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"annexvii/internal/infra/persistence/sqldoc"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
)

const (
	defaultDriver = "pgx"
	defaultDSN    = "postgres://localhost/annexvii?sslmode=disable"
)

var (
	sqlOpen = sql.Open
	openMu  sync.Mutex
)

var dialect = sqldoc.Dialect{
	Name: "postgres",
	Schema: []string{
		`CREATE TABLE IF NOT EXISTS documents (
			kind TEXT NOT NULL,
			account_id TEXT NOT NULL,
			id TEXT NOT NULL,
			payload JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			PRIMARY KEY (kind, account_id, id)
		)`,
		`CREATE INDEX IF NOT EXISTS documents_account_idx ON documents (account_id, kind)`,
	},
	Select: `SELECT kind, payload FROM documents`,
	Upsert: `INSERT INTO documents(kind, account_id, id, payload) VALUES($1,$2,$3,$4)
		ON CONFLICT(kind, account_id, id) DO UPDATE SET payload=EXCLUDED.payload, updated_at=now()`,
	Delete: `DELETE FROM documents WHERE kind = $1 AND account_id = $2 AND id = $3`,
}

// Store is a Postgres-backed repository.
type Store struct {
	*sqldoc.Store
}

// NewStore opens the database at dsn (falls back to defaultDSN), ensures the
// documents table exists and loads every stored document.
func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		dsn = defaultDSN
	}
	openMu.Lock()
	db, err := sqlOpen(defaultDriver, dsn)
	openMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	docs, err := sqldoc.Open(ctx, db, dialect)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{Store: docs}, nil
}

// OverrideSQLOpen swaps the sqlOpen function for tests and returns a restore function.
func OverrideSQLOpen(fn func(driverName, dataSourceName string) (*sql.DB, error)) func() {
	openMu.Lock()
	defer openMu.Unlock()
	prev := sqlOpen
	sqlOpen = fn
	return func() {
		openMu.Lock()
		defer openMu.Unlock()
		sqlOpen = prev
	}
}
