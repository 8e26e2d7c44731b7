package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// SQLiteKV is a KV stored in a single SQLite file.
type SQLiteKV struct {
	db *sql.DB
}

var _ KV = (*SQLiteKV)(nil)

// OpenSQLite opens (or creates) the SQLite database at path and applies migrations.
func OpenSQLite(path string) (*SQLiteKV, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating data dir %s: %w", dir, err)
		}
	}

	if err := RunMigrations("sqlite", "sqlite://"+path); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}
	// One connection keeps the read-modify-write on a single writer.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}
	return &SQLiteKV{db: db}, nil
}

// Get returns the value and version stored under key.
func (s *SQLiteKV) Get(ctx context.Context, key string) ([]byte, int64, error) {
	var value string
	var version int64
	err := s.db.QueryRowContext(ctx,
		`SELECT value, version FROM kv WHERE key = ?`, key).Scan(&value, &version)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, 0, nil
	}
	if err != nil {
		return nil, 0, fmt.Errorf("querying %s: %w", key, err)
	}
	return []byte(value), version, nil
}

// Put replaces the value under key if its version still equals expect.
func (s *SQLiteKV) Put(ctx context.Context, key string, value []byte, expect int64) (int64, error) {
	var res sql.Result
	var err error
	if expect == 0 {
		res, err = s.db.ExecContext(ctx,
			`INSERT INTO kv (key, value, version) VALUES (?, ?, 1) ON CONFLICT(key) DO NOTHING`,
			key, string(value))
	} else {
		res, err = s.db.ExecContext(ctx,
			`UPDATE kv SET value = ?, version = version + 1, updated_at = CURRENT_TIMESTAMP
			 WHERE key = ? AND version = ?`,
			string(value), key, expect)
	}
	if err != nil {
		return 0, fmt.Errorf("writing %s: %w", key, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("writing %s: %w", key, err)
	}
	if n == 0 {
		return 0, ErrConflict
	}
	return expect + 1, nil
}

// Close closes the database.
func (s *SQLiteKV) Close() error {
	return s.db.Close()
}
