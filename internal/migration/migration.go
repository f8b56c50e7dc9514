package migration

import (
	"context"

	"conversor/internal/errors"
	"conversor/internal/logger"

	"github.com/jmoiron/sqlx"
)

// Migrator defines the interface for database migration operations
type Migrator interface {
	Run(ctx context.Context, db *sqlx.DB) error
	Version() string
}

// MigrationRunner handles database schema migrations
type MigrationRunner struct {
	version string
}

// NewRunner creates a new migration runner
func NewRunner() *MigrationRunner {
	return &MigrationRunner{
		version: "1.0.0",
	}
}

// Version returns the migration version
func (r *MigrationRunner) Version() string {
	return r.version
}

// Run executes all database migrations in the correct order
func (r *MigrationRunner) Run(ctx context.Context, db *sqlx.DB) error {
	for _, step := range r.steps() {
		if _, err := db.ExecContext(ctx, step.sql); err != nil {
			return errors.Wrapf(err, "failed to %s", step.name)
		}
	}
	logger.Infof("[Migration] Schema %s is up to date", r.version)
	return nil
}

type step struct {
	name string
	sql  string
}

func (r *MigrationRunner) steps() []step {
	return []step{
		{
			name: "create conversion_results table",
			sql: `
				CREATE TABLE IF NOT EXISTS conversion_results (
					id UUID PRIMARY KEY,
					filename TEXT NOT NULL,
					layout VARCHAR(50) NOT NULL,
					rows JSONB NOT NULL DEFAULT '[]'::jsonb,
					created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
					expires_at TIMESTAMP WITH TIME ZONE
				)`,
		},
		{
			name: "create expiry index",
			sql: `
				CREATE INDEX IF NOT EXISTS idx_conversion_results_expires_at
				ON conversion_results (expires_at)
				WHERE expires_at IS NOT NULL`,
		},
	}
}
