package storage

import (
	"context"
	"fmt"
)

// Open migrates and connects the backend named by driver. sqlitePath is used
// for "sqlite", dsn for "postgres".
func Open(ctx context.Context, driver, sqlitePath, dsn string) (KV, error) {
	switch driver {
	case "sqlite":
		return OpenSQLite(sqlitePath)
	case "postgres":
		if err := RunMigrations("postgres", dsn); err != nil {
			return nil, err
		}
		return NewPostgres(ctx, dsn)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}
