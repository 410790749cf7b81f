// SafarSafe - Tourist Safety Tracking and Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safarsafe

// Package postgres implements the location store on PostgreSQL with a pgx
// connection pool. The schema is managed by goose migrations embedded in the
// binary.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver for database/sql, used by goose
	"github.com/pressly/goose/v3"

	"github.com/tomtom215/safarsafe/internal/config"
	"github.com/tomtom215/safarsafe/internal/logging"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const migrateTimeout = 60 * time.Second

// Store is the PostgreSQL location store.
type Store struct {
	pool *pgxpool.Pool
	sb   sq.StatementBuilderType
	now  func() time.Time
}

// New migrates the database named by cfg.DSN to the latest schema version
// and returns a store backed by a fresh connection pool.
func New(ctx context.Context, cfg *config.DatabaseConfig) (*Store, error) {
	if err := Migrate(ctx, cfg.DSN); err != nil {
		return nil, err
	}

	pool, err := NewPool(ctx, cfg)
	if err != nil {
		return nil, err
	}
	logging.Info().
		Int32("max_conns", cfg.MaxConns).
		Int32("min_conns", cfg.MinConns).
		Msg("Postgres location store ready")
	return NewWithPool(pool), nil
}

// NewWithPool wraps an existing pool. The schema must already be migrated.
func NewWithPool(pool *pgxpool.Pool) *Store {
	return &Store{
		pool: pool,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
		now:  time.Now,
	}
}

// NewPool parses the DSN, applies pool limits and pings the server so a bad
// DSN fails at startup.
func NewPool(ctx context.Context, cfg *config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse database DSN: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	poolCfg.MinConns = cfg.MinConns
	if cfg.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

// Migrate applies every pending embedded migration.
func Migrate(ctx context.Context, dsn string) error {
	ctx, cancel := context.WithTimeout(ctx, migrateTimeout)
	defer cancel()

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("sql.Open: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("db ping: %w", err)
	}

	migrations, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("open embedded migrations: %w", err)
	}
	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations)
	if err != nil {
		return fmt.Errorf("goose new provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	for _, r := range results {
		logging.Info().
			Int64("version", r.Source.Version).
			Dur("duration", r.Duration).
			Msg("Applied migration")
	}
	return nil
}

// Ping checks that a pooled connection can reach the server.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Driver returns the engine name.
func (s *Store) Driver() string {
	return "postgres"
}

// Close releases every pooled connection.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}
