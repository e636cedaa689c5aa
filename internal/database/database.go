// AgentSkills Registry - Content-Addressed Skill Package Registry
// Copyright 2026 AgentSkills Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/agentskills/registry

// Package database implements the registry's relational store on
// database/sql with two interchangeable drivers: pgx for PostgreSQL in
// production and modernc.org/sqlite for local development and tests.
// The DATABASE_URL scheme selects the driver. Schema management runs
// through embedded goose migrations on open.
//
// All queries are written with "?" placeholders and rebound to the
// PostgreSQL "$n" form when the pgx driver is active, so every statement
// works unmodified on both engines.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	sqlite3 "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	// Database drivers register with database/sql on import.
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/agentskills/registry/internal/config"
	"github.com/agentskills/registry/internal/logging"
	"github.com/agentskills/registry/internal/metrics"
)

// Sentinel errors returned by store operations. Handlers translate these
// to HTTP status codes.
var (
	ErrNotFound       = errors.New("database: not found")
	ErrVersionExists  = errors.New("database: version already exists")
	ErrAlreadyStarred = errors.New("database: already starred")
	ErrNotStarred     = errors.New("database: not starred")
)

// Store wraps the SQL connection pool and knows which driver backs it.
type Store struct {
	db       *sql.DB
	postgres bool
}

// Open connects to the database named by cfg.URL, applies pool settings,
// and runs pending migrations. URL schemes postgres:// and postgresql://
// select the pgx driver; sqlite:// (or a bare file path) selects the
// embedded SQLite driver.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*Store, error) {
	driver, dsn := driverFor(cfg.URL)

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &Store{db: db, postgres: driver == "pgx"}
	if err := store.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	logging.Info().Str("driver", driver).Msg("Database ready")
	return store, nil
}

// driverFor maps a DATABASE_URL to a registered driver name and DSN.
func driverFor(url string) (driver, dsn string) {
	switch {
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return "pgx", url
	case strings.HasPrefix(url, "sqlite://"):
		return "sqlite", strings.TrimPrefix(url, "sqlite://")
	default:
		return "sqlite", url
	}
}

// Close releases the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// Health verifies connectivity with a ping.
func (s *Store) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// rebind converts "?" placeholders to "$n" for PostgreSQL. SQLite takes
// the query as written.
func (s *Store) rebind(query string) string {
	if !s.postgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

// isUniqueViolation reports whether err is a unique-constraint failure on
// either engine.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	var sqliteErr *sqlite3.Error
	if errors.As(err, &sqliteErr) {
		code := sqliteErr.Code()
		return code == sqlite3lib.SQLITE_CONSTRAINT_UNIQUE ||
			code == sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	return false
}

// rollback rolls back tx, ignoring errors (tx may already be committed).
func rollback(tx *sql.Tx) { _ = tx.Rollback() }

// observe records query duration and outcome for Prometheus.
func observe(operation string, start time.Time, err error) {
	metrics.RecordDBQuery(operation, time.Since(start), err)
}
