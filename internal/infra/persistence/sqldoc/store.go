// Package sqldoc keeps submissions and templates as JSON rows of a single
// documents table. Reads are served from an in-memory store hydrated on open;
// every save writes its row through to the database before the memory copy
// is replaced. The sqlite and postgres backends supply the dialect.
package sqldoc

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	"annexvii/internal/infra/persistence/memory"
	"annexvii/pkg/domain"
)

// Document kinds stored in the kind column.
const (
	KindSubmission = "submission"
	KindTemplate   = "template"
)

// Dialect holds the backend specific statements. Upsert and Delete take
// (kind, account_id, id[, payload]) in that order.
type Dialect struct {
	Name   string
	Schema []string
	Select string
	Upsert string
	Delete string
}

// Store is a domain.Repository over a documents table.
type Store struct {
	*memory.Store
	db      *sql.DB
	dialect Dialect
	mu      sync.Mutex
}

var _ domain.Repository = (*Store)(nil)

// Open applies the schema, hydrates memory from every stored row and
// returns the store.
func Open(ctx context.Context, db *sql.DB, dialect Dialect) (*Store, error) {
	for _, stmt := range dialect.Schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return nil, fmt.Errorf("%s: apply schema: %w", dialect.Name, err)
		}
	}
	snapshot, err := load(ctx, db, dialect)
	if err != nil {
		return nil, err
	}
	mem := memory.NewStore()
	mem.ImportState(snapshot)
	return &Store{Store: mem, db: db, dialect: dialect}, nil
}

func load(ctx context.Context, db *sql.DB, dialect Dialect) (memory.Snapshot, error) {
	rows, err := db.QueryContext(ctx, dialect.Select)
	if err != nil {
		return memory.Snapshot{}, fmt.Errorf("%s: select documents: %w", dialect.Name, err)
	}
	defer func() { _ = rows.Close() }()

	var snapshot memory.Snapshot
	for rows.Next() {
		var kind string
		var payload []byte
		if err := rows.Scan(&kind, &payload); err != nil {
			return memory.Snapshot{}, fmt.Errorf("%s: scan document: %w", dialect.Name, err)
		}
		switch kind {
		case KindSubmission:
			var sub domain.Submission
			if err := json.Unmarshal(payload, &sub); err != nil {
				return memory.Snapshot{}, fmt.Errorf("%s: decode submission: %w", dialect.Name, err)
			}
			snapshot.Submissions = append(snapshot.Submissions, sub)
		case KindTemplate:
			var tmpl domain.Template
			if err := json.Unmarshal(payload, &tmpl); err != nil {
				return memory.Snapshot{}, fmt.Errorf("%s: decode template: %w", dialect.Name, err)
			}
			snapshot.Templates = append(snapshot.Templates, tmpl)
		}
	}
	if err := rows.Err(); err != nil {
		return memory.Snapshot{}, fmt.Errorf("%s: iterate documents: %w", dialect.Name, err)
	}
	return snapshot, nil
}

// SaveSubmission upserts the submission row, then the memory copy.
func (s *Store) SaveSubmission(ctx context.Context, submission domain.Submission, accountID string) error {
	submission.AccountID = accountID
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.upsert(ctx, KindSubmission, accountID, submission.ID, submission); err != nil {
		return err
	}
	return s.Store.SaveSubmission(ctx, submission, accountID)
}

// SaveTemplate checks the name against memory, upserts the row, then the
// memory copy.
func (s *Store) SaveTemplate(ctx context.Context, template domain.Template, accountID string) error {
	template.AccountID = accountID
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.CheckTemplateName(template, accountID); err != nil {
		return err
	}
	if err := s.upsert(ctx, KindTemplate, accountID, template.ID, template); err != nil {
		return err
	}
	return s.Store.SaveTemplate(ctx, template, accountID)
}

// DeleteTemplate removes the row and the memory copy.
func (s *Store) DeleteTemplate(ctx context.Context, id, accountID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.GetTemplate(ctx, id, accountID); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, s.dialect.Delete, KindTemplate, accountID, id); err != nil {
		return fmt.Errorf("%s: delete template: %w", s.dialect.Name, err)
	}
	return s.Store.DeleteTemplate(ctx, id, accountID)
}

func (s *Store) upsert(ctx context.Context, kind, accountID, id string, doc any) error {
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%s: encode %s: %w", s.dialect.Name, kind, err)
	}
	if _, err := s.db.ExecContext(ctx, s.dialect.Upsert, kind, accountID, id, payload); err != nil {
		return fmt.Errorf("%s: upsert %s: %w", s.dialect.Name, kind, err)
	}
	return nil
}

// DB exposes the underlying sql.DB for integration testing hooks.
func (s *Store) DB() *sql.DB { return s.db }

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }
