// SafarSafe - Tourist Safety Tracking and Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safarsafe

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/safarsafe/internal/config"
	"github.com/tomtom215/safarsafe/internal/database/postgres"
	"github.com/tomtom215/safarsafe/internal/models"
)

// Store is the location store contract shared by the DuckDB and Postgres engines.
type Store interface {
	CreateTourist(ctx context.Context, t *models.Tourist) error
	GetTouristByEmail(ctx context.Context, email string) (*models.Tourist, error)
	GetTouristByID(ctx context.Context, id string) (*models.Tourist, error)

	AppendLocation(ctx context.Context, touristID string, p models.Point, at time.Time) (*models.LocationRecord, error)
	QueryLocations(ctx context.Context, touristID string, r models.TimeRange) ([]models.LocationRecord, error)

	SavePanic(ctx context.Context, ev *models.PanicEvent) error
	ListPanics(ctx context.Context, touristID string) ([]models.PanicEvent, error)

	Ping(ctx context.Context) error
	Driver() string
	Close() error
}

var (
	_ Store = (*DB)(nil)
	_ Store = (*postgres.Store)(nil)
)

// Open returns the engine selected by cfg.Driver.
func Open(ctx context.Context, cfg *config.DatabaseConfig) (Store, error) {
	switch cfg.Driver {
	case "postgres":
		return postgres.New(ctx, cfg)
	case "duckdb", "":
		return New(cfg)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}
