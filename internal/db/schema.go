package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

var ErrSchemaNotReady = errors.New("database schema not ready")

// SchemaChecker reports whether the migrations table is at the expected
// version and clean. It backs the upstream health probe.
type SchemaChecker struct {
	db   *sql.DB
	want uint
}

func NewSchemaChecker(dsn string) (*SchemaChecker, error) {
	db, err := openDB(dsn)
	if err != nil {
		return nil, fmt.Errorf("open db for schema checks: %w", err)
	}
	return &SchemaChecker{db: db, want: LatestVersion}, nil
}

func (c *SchemaChecker) Close() error {
	return c.db.Close()
}

// Version reads the golang-migrate bookkeeping row.
func (c *SchemaChecker) Version(ctx context.Context) (uint, bool, error) {
	var (
		version int64
		dirty   bool
	)
	err := c.db.QueryRowContext(ctx, `SELECT version, dirty FROM schema_migrations LIMIT 1`).Scan(&version, &dirty)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("read schema version: %w", err)
	}
	return uint(version), dirty, nil
}

func (c *SchemaChecker) Check(ctx context.Context) error {
	version, dirty, err := c.Version(ctx)
	if err != nil {
		return err
	}
	if dirty {
		return fmt.Errorf("%w: version %d is dirty", ErrSchemaNotReady, version)
	}
	if version < c.want {
		return fmt.Errorf("%w: at version %d, want %d", ErrSchemaNotReady, version, c.want)
	}
	return nil
}
