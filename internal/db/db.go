// Package db owns the pgx pool used for schema migrations, reference data
// seeding and health checks.
package db

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Gorgija/ehour/config"
	"github.com/Gorgija/ehour/internal/reference"
)

//go:embed schema.sql
var schemaSQL string

type DB struct {
	Pool *pgxpool.Pool
}

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Open creates the pool and fails fast when the database is unreachable.
func Open(ctx context.Context, c *config.DatabaseConfig) (*DB, error) {
	cfg, err := pgxpool.ParseConfig(c.DSN())
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	cfg.MaxConns = int32(max(c.MaxConns, 1))
	cfg.MinConns = int32(max(c.MinConns, 0))
	cfg.MaxConnIdleTime = 5 * time.Minute
	cfg.HealthCheckPeriod = 30 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}

	return &DB{Pool: pool}, nil
}

func (d *DB) Close() {
	if d != nil && d.Pool != nil {
		d.Pool.Close()
	}
}

// Ping lets DB stand in for the pool in health checks.
func (d *DB) Ping(ctx context.Context) error {
	return d.Pool.Ping(ctx)
}

// Migrate applies the embedded schema. Every statement is idempotent.
func (d *DB) Migrate(ctx context.Context) error {
	return migrate(ctx, d.Pool)
}

// Seed upserts the roles and assignment types of data.
func (d *DB) Seed(ctx context.Context, data reference.Data) error {
	tx, err := d.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin seed: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := seed(ctx, tx, data); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit seed: %w", err)
	}
	return nil
}

func migrate(ctx context.Context, db execer) error {
	if _, err := db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

const (
	upsertRole = `
INSERT INTO user_roles (role, name) VALUES ($1, $2)
ON CONFLICT (role) DO UPDATE SET name = EXCLUDED.name`

	upsertAssignmentType = `
INSERT INTO project_assignment_types (id, code, name) VALUES ($1, $2, $3)
ON CONFLICT (id) DO UPDATE SET code = EXCLUDED.code, name = EXCLUDED.name`
)

func seed(ctx context.Context, db execer, data reference.Data) error {
	for _, r := range data.Roles {
		if _, err := db.Exec(ctx, upsertRole, r.Role, r.Name); err != nil {
			return fmt.Errorf("seed role %s: %w", r.Role, err)
		}
	}
	for _, t := range data.AssignmentTypes {
		if _, err := db.Exec(ctx, upsertAssignmentType, t.ID, t.Code, t.Name); err != nil {
			return fmt.Errorf("seed assignment type %s: %w", t.Code, err)
		}
	}
	return nil
}
