// Package sqlite persists submissions and templates to an embedded SQLite
// file as JSON documents.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"annexvii/internal/infra/persistence/sqldoc"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

// DefaultPath is used when no database path is configured.
const DefaultPath = "annexvii.db"

var dialect = sqldoc.Dialect{
	Name: "sqlite",
	Schema: []string{
		`CREATE TABLE IF NOT EXISTS documents (
			kind TEXT NOT NULL,
			account_id TEXT NOT NULL,
			id TEXT NOT NULL,
			payload BLOB NOT NULL,
			PRIMARY KEY (kind, account_id, id)
		)`,
	},
	Select: `SELECT kind, payload FROM documents`,
	Upsert: `INSERT INTO documents(kind, account_id, id, payload) VALUES(?,?,?,?)
		ON CONFLICT(kind, account_id, id) DO UPDATE SET payload=excluded.payload`,
	Delete: `DELETE FROM documents WHERE kind = ? AND account_id = ? AND id = ?`,
}

// Store is a SQLite-backed repository.
type Store struct {
	*sqldoc.Store
	path string
}

// NewStore opens (creating if needed) the database at path and loads every
// stored document.
func NewStore(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		path = DefaultPath
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One writer at a time; the driver serializes anyway.
	db.SetMaxOpenConns(1)
	docs, err := sqldoc.Open(ctx, db, dialect)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{Store: docs, path: path}, nil
}

// Path returns the configured database path.
func (s *Store) Path() string { return s.path }
