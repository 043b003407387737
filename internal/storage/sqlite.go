// Package storage persists punch events, day records and the operation
// log in a single SQLite file. The store exposes the narrow query surface
// the reconciliation engine needs plus a transaction scope; multi-step
// mutations always run inside WithTx so a crash or a concurrently
// launched process never observes a half-applied operation.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"

	"github.com/umpire274/timelog/internal/reconcile"
)

// Store is the SQLite-backed event store. It implements reconcile.Store.
type Store struct {
	db  *sql.DB
	log zerolog.Logger
}

// Open opens (creating if needed) the database at path and migrates the
// schema. Use ":memory:" for an in-memory database in tests.
func Open(path string, log zerolog.Logger) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if path == ":memory:" {
		// Each pooled connection would otherwise see its own empty database.
		db.SetMaxOpenConns(1)
	}

	s := &Store{db: db, log: log}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS events (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		date        TEXT NOT NULL,              -- YYYY-MM-DD
		time        TEXT NOT NULL,              -- HH:MM
		kind        TEXT NOT NULL CHECK (kind IN ('in','out')),
		position    TEXT NOT NULL CHECK (position IN ('O','R','H','C','M')),
		lunch_break INTEGER NOT NULL DEFAULT 0, -- minutes, typically set on out
		work_gap    INTEGER NOT NULL DEFAULT 0,
		pair        INTEGER NOT NULL DEFAULT 0,
		source      TEXT NOT NULL DEFAULT 'cli',
		meta        TEXT NOT NULL DEFAULT '',
		created_at  TEXT NOT NULL               -- ISO 8601
	);

	CREATE INDEX IF NOT EXISTS idx_events_date ON events(date, time);

	CREATE TABLE IF NOT EXISTS day_records (
		date        TEXT PRIMARY KEY,           -- YYYY-MM-DD
		position    TEXT NOT NULL DEFAULT 'O' CHECK (position IN ('O','R','H','C','M')),
		start_time  TEXT NOT NULL DEFAULT '',
		end_time    TEXT NOT NULL DEFAULT '',
		lunch_break INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS oplog (
		id        INTEGER PRIMARY KEY AUTOINCREMENT,
		at        TEXT NOT NULL,                -- ISO 8601
		operation TEXT NOT NULL,
		target    TEXT NOT NULL DEFAULT '',
		message   TEXT NOT NULL
	);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return err
	}
	s.log.Debug().Msg("schema migrated")
	return nil
}

// WithTx runs fn inside a transaction: committed when fn returns nil,
// rolled back in full otherwise.
func (s *Store) WithTx(ctx context.Context, fn func(tx reconcile.TxStore) error) error {
	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer sqlTx.Rollback()

	if err := fn(&txStore{q: sqlTx}); err != nil {
		return err
	}
	return sqlTx.Commit()
}

// querier is the subset of database/sql shared by *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// txStore adapts an open transaction to the reconcile.TxStore surface.
type txStore struct {
	q *sql.Tx
}
