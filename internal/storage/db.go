package storage

import (
	"context"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed migrations
var migrationsFS embed.FS

// PostgresKV is a KV backed by a pgxpool.Pool.
type PostgresKV struct {
	Pool *pgxpool.Pool
}

var _ KV = (*PostgresKV)(nil)

// NewPostgres creates a PostgresKV with a connection pool.
func NewPostgres(ctx context.Context, dsn string) (*PostgresKV, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("creating pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return &PostgresKV{Pool: pool}, nil
}

// Close closes the connection pool.
func (db *PostgresKV) Close() error {
	db.Pool.Close()
	return nil
}

// Get returns the value and version stored under key.
func (db *PostgresKV) Get(ctx context.Context, key string) ([]byte, int64, error) {
	var value []byte
	var version int64
	err := db.Pool.QueryRow(ctx,
		`SELECT value, version FROM kv WHERE key = $1`, key).Scan(&value, &version)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, 0, nil
	}
	if err != nil {
		return nil, 0, fmt.Errorf("querying %s: %w", key, err)
	}
	return value, version, nil
}

// Put replaces the value under key if its version still equals expect.
func (db *PostgresKV) Put(ctx context.Context, key string, value []byte, expect int64) (int64, error) {
	if expect == 0 {
		tag, err := db.Pool.Exec(ctx,
			`INSERT INTO kv (key, value, version) VALUES ($1, $2, 1) ON CONFLICT DO NOTHING`,
			key, value)
		if err != nil {
			return 0, fmt.Errorf("inserting %s: %w", key, err)
		}
		if tag.RowsAffected() == 0 {
			return 0, ErrConflict
		}
		return 1, nil
	}

	tag, err := db.Pool.Exec(ctx,
		`UPDATE kv SET value = $2, version = version + 1, updated_at = now()
		 WHERE key = $1 AND version = $3`,
		key, value, expect)
	if err != nil {
		return 0, fmt.Errorf("updating %s: %w", key, err)
	}
	if tag.RowsAffected() == 0 {
		return 0, ErrConflict
	}
	return expect + 1, nil
}

// RunMigrations applies all pending embedded migrations for driver
// ("sqlite" or "postgres") against the database at url.
func RunMigrations(driver, url string) error {
	src, err := iofs.New(migrationsFS, "migrations/"+driver)
	if err != nil {
		return fmt.Errorf("loading %s migrations: %w", driver, err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, url)
	if err != nil {
		return fmt.Errorf("creating migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}
