package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const schemaVersion = 2

const (
	kindText   = "text"
	kindObject = "object"
)

// SQLiteStore implements Store using a local SQLite database with one row
// per key.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens (or creates) a SQLite database at dbPath.
// It auto-creates the parent directory (e.g. ~/.habits/) and runs
// schema migrations to ensure the database is up to date.
func NewSQLite(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Single connection for WAL mode simplicity.
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// migrate runs schema migrations up to the current version.
func (s *SQLiteStore) migrate() error {
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER NOT NULL
	)`); err != nil {
		return fmt.Errorf("create version table: %w", err)
	}

	var ver int
	err := s.db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&ver)
	if errors.Is(err, sql.ErrNoRows) {
		ver = 0
	} else if err != nil {
		return fmt.Errorf("read version: %w", err)
	}

	if ver < 1 {
		if err := s.migrateV1(); err != nil {
			return err
		}
	}

	if ver < 2 {
		if err := s.migrateV2(); err != nil {
			return err
		}
	}

	return nil
}

func (s *SQLiteStore) migrateV1() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS slots (
			key        TEXT PRIMARY KEY,
			value      TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`INSERT INTO schema_version (version) VALUES (1)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate v1: %w", err)
		}
	}
	return nil
}

// migrateV2 tags each row with the form its value was written in. Rows
// written before v2 were all plain text.
func (s *SQLiteStore) migrateV2() error {
	stmts := []string{
		`ALTER TABLE slots ADD COLUMN kind TEXT NOT NULL DEFAULT 'text'`,
		`UPDATE schema_version SET version = 2`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate v2: %w", err)
		}
	}
	return nil
}

// Get returns the value stored under key.
func (s *SQLiteStore) Get(ctx context.Context, key string) (Value, error) {
	var kind, value string
	err := s.db.QueryRowContext(ctx,
		`SELECT kind, value FROM slots WHERE key = ?`, key,
	).Scan(&kind, &value)
	if errors.Is(err, sql.ErrNoRows) {
		return Value{Kind: KindNone}, nil
	}
	if err != nil {
		return Value{}, fmt.Errorf("get %s: %w", key, err)
	}
	switch kind {
	case kindText:
		return Value{Kind: KindText, Text: value}, nil
	case kindObject:
		return Value{Kind: KindObject, Object: json.RawMessage(value)}, nil
	default:
		return Value{}, fmt.Errorf("get %s: unknown value kind %q", key, kind)
	}
}

// Set stores text under key.
func (s *SQLiteStore) Set(ctx context.Context, key, text string) error {
	return s.put(ctx, key, kindText, text)
}

// SetObject stores obj under key as a legacy structured value.
func (s *SQLiteStore) SetObject(ctx context.Context, key string, obj json.RawMessage) error {
	return s.put(ctx, key, kindObject, string(obj))
}

func (s *SQLiteStore) put(ctx context.Context, key, kind, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO slots (key, kind, value, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET kind = excluded.kind, value = excluded.value, updated_at = excluded.updated_at`,
		key, kind, value, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Delete removes key.
func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM slots WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
