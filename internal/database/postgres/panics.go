// SafarSafe - Tourist Safety Tracking and Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safarsafe

package postgres

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/tomtom215/safarsafe/internal/models"
)

// SavePanic writes a panic event to the audit table and sets its ID.
func (s *Store) SavePanic(ctx context.Context, ev *models.PanicEvent) error {
	if ev.TouristID == "" {
		return models.ErrIncompleteData
	}
	if err := ev.Point.Validate(); err != nil {
		return err
	}
	ev.TriggeredAt = models.StoreTime(ev.TriggeredAt)

	query, args, err := s.sb.Insert("panic_events").
		Columns("tourist_id", "latitude", "longitude", "triggered_at").
		Values(ev.TouristID, ev.Point.Latitude, ev.Point.Longitude, ev.TriggeredAt).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert panic: %w", err)
	}
	if err := s.pool.QueryRow(ctx, query, args...).Scan(&ev.ID); err != nil {
		return mapError(ctx, err)
	}
	return nil
}

// ListPanics returns a tourist's panic events, oldest first.
func (s *Store) ListPanics(ctx context.Context, touristID string) ([]models.PanicEvent, error) {
	query, args, err := s.sb.Select("id", "tourist_id", "latitude", "longitude", "triggered_at").
		From("panic_events").
		Where(sq.Eq{"tourist_id": touristID}).
		OrderBy("triggered_at ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select panics: %w", err)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(ctx, err)
	}
	events, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.PanicEvent, error) {
		var ev models.PanicEvent
		err := row.Scan(&ev.ID, &ev.TouristID, &ev.Point.Latitude, &ev.Point.Longitude, &ev.TriggeredAt)
		ev.TriggeredAt = ev.TriggeredAt.UTC()
		return ev, err
	})
	if err != nil {
		return nil, mapError(ctx, err)
	}
	return events, nil
}
