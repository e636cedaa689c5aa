// AgentSkills Registry - Content-Addressed Skill Package Registry
// Copyright 2026 AgentSkills Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/agentskills/registry

package database

import (
	"context"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
	goosedb "github.com/pressly/goose/v3/database"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var embedMigrations embed.FS

// migrate applies all pending migrations for the active driver. The two
// dialect directories carry the same schema expressed in each engine's
// native types.
func (s *Store) migrate(ctx context.Context) error {
	dir := "migrations/sqlite"
	dialect := goosedb.DialectSQLite3
	if s.postgres {
		dir = "migrations/postgres"
		dialect = goosedb.DialectPostgres
	}

	migrationFS, err := fs.Sub(embedMigrations, dir)
	if err != nil {
		return fmt.Errorf("create migration sub filesystem: %w", err)
	}

	provider, err := goose.NewProvider(dialect, s.db, migrationFS)
	if err != nil {
		return fmt.Errorf("create goose provider: %w", err)
	}

	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}
