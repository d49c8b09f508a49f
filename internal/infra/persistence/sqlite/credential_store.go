// Package sqlite stores the credential set in an embedded SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"

	"demohub/internal/domain/entity"
	domainerrors "demohub/internal/domain/errors"
	"demohub/internal/domain/repository"
	"demohub/internal/errors"
)

const schema = `
CREATE TABLE IF NOT EXISTS credentials (
	position  INTEGER NOT NULL,
	username  TEXT    NOT NULL UNIQUE,
	password  TEXT    NOT NULL,
	access    TEXT    NOT NULL DEFAULT '[]',
	is_active INTEGER NOT NULL DEFAULT 0
);`

// dbtx is the subset of database/sql shared by *sql.DB and *sql.Tx.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// CredentialStore keeps one row per record. Save and Update replace the whole
// table inside a single transaction; position preserves record order.
type CredentialStore struct {
	db *sql.DB
	mu sync.Mutex
}

var _ repository.CredentialStore = (*CredentialStore)(nil)

// Open opens (or creates) the database at dsn and ensures the schema exists.
// Use ":memory:" for a throwaway database.
func Open(ctx context.Context, dsn string, logger *slog.Logger) (*CredentialStore, error) {
	if dsn == "" {
		return nil, domainerrors.ErrConfiguration.WithDetails("sqlite path must be provided")
	}

	if dsn != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
			return nil, errors.Wrap(err, "create database directory")
		}
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite database")
	}
	// A single connection keeps ":memory:" databases alive and serializes writers.
	db.SetMaxOpenConns(1)

	store, err := NewCredentialStore(ctx, db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	logger.Info("SQLite credential store initialized", slog.String("path", dsn))

	return store, nil
}

// NewCredentialStore wraps an already opened database.
func NewCredentialStore(ctx context.Context, db *sql.DB) (*CredentialStore, error) {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, errors.Wrap(err, "create credentials schema")
	}

	return &CredentialStore{db: db}, nil
}

// Close releases the database handle.
func (s *CredentialStore) Close() error {
	return s.db.Close()
}

func (s *CredentialStore) Load(ctx context.Context) (entity.Credentials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return loadAll(ctx, s.db)
}

func (s *CredentialStore) Save(ctx context.Context, records entity.Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.withTx(ctx, func(tx dbtx) error {
		return replaceAll(ctx, tx, records)
	})
}

func (s *CredentialStore) Update(ctx context.Context, fn repository.MutateFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.withTx(ctx, func(tx dbtx) error {
		records, err := loadAll(ctx, tx)
		if err != nil {
			return err
		}

		updated, err := fn(records)
		if err != nil {
			return err
		}

		if err := ctx.Err(); err != nil {
			return errors.Wrap(err, "update credentials")
		}

		return replaceAll(ctx, tx, updated)
	})
}

// withTx commits when fn succeeds and rolls back otherwise, rethrowing panics.
func (s *CredentialStore) withTx(ctx context.Context, fn func(tx dbtx) error) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return domainerrors.ErrStoreUnavailable.WithDetails(err.Error())
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		if cerr := tx.Commit(); cerr != nil {
			err = domainerrors.ErrStoreUnavailable.WithDetails(cerr.Error())
		}
	}()

	return fn(tx)
}

func loadAll(ctx context.Context, q dbtx) (entity.Credentials, error) {
	rows, err := q.QueryContext(ctx, `SELECT username, password, access, is_active FROM credentials ORDER BY position`)
	if err != nil {
		return nil, domainerrors.ErrStoreUnavailable.WithDetails(err.Error())
	}
	defer rows.Close()

	records := entity.Credentials{}
	for rows.Next() {
		var (
			c      entity.Credential
			access string
		)
		if err := rows.Scan(&c.Username, &c.PasswordHash, &access, &c.IsActive); err != nil {
			return nil, domainerrors.ErrStoreUnavailable.WithDetails(err.Error())
		}
		if err := json.Unmarshal([]byte(access), &c.Access); err != nil {
			return nil, domainerrors.ErrStoreUnavailable.WithDetails("malformed access list for " + c.Username)
		}
		if c.Access == nil {
			c.Access = []string{}
		}
		records = append(records, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, domainerrors.ErrStoreUnavailable.WithDetails(err.Error())
	}

	return records, nil
}

func replaceAll(ctx context.Context, tx dbtx, records entity.Credentials) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM credentials`); err != nil {
		return domainerrors.ErrStoreUnavailable.WithDetails(err.Error())
	}

	position := 0
	for _, r := range records {
		if r == nil {
			continue
		}

		access := r.Access
		if access == nil {
			access = []string{}
		}
		encoded, err := json.Marshal(access)
		if err != nil {
			return errors.Wrap(err, "encode access list")
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO credentials (position, username, password, access, is_active) VALUES (?, ?, ?, ?, ?)`,
			position, r.Username, r.PasswordHash, string(encoded), r.IsActive,
		)
		if err != nil {
			return domainerrors.ErrStoreUnavailable.WithDetails(err.Error())
		}
		position++
	}

	return nil
}
