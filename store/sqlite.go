package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps the description in a settings table of a SQLite file.
type SQLiteStore struct {
	conn   *sql.DB
	closed atomic.Bool
}

// OpenSQLite opens (creating if needed) the database at path and ensures
// the schema exists. Parent directories are created as required.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// A single connection keeps ":memory:" databases consistent across calls.
	conn.SetMaxOpenConns(1)

	s := &SQLiteStore{conn: conn}
	if err := s.initSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`
	_, err := s.conn.Exec(schema)
	return err
}

func (s *SQLiteStore) Load(ctx context.Context) (string, error) {
	if s.closed.Load() {
		return "", ErrClosed
	}
	query := `SELECT value FROM settings WHERE key = ?`
	var value string
	err := s.conn.QueryRowContext(ctx, query, TextKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("load text: %w", err)
	}
	return value, nil
}

func (s *SQLiteStore) Save(ctx context.Context, text string) error {
	if s.closed.Load() {
		return ErrClosed
	}
	query := `
	INSERT INTO settings (key, value) VALUES (?, ?)
	ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`
	if _, err := s.conn.ExecContext(ctx, query, TextKey, text); err != nil {
		return fmt.Errorf("save text: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	return s.conn.Close()
}
