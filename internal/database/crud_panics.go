// SafarSafe - Tourist Safety Tracking and Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safarsafe

package database

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/tomtom215/safarsafe/internal/models"
)

// SavePanic writes a panic event to the audit table and sets its ID. The same
// range and referential rules as AppendLocation apply.
func (db *DB) SavePanic(ctx context.Context, ev *models.PanicEvent) error {
	if ev.TouristID == "" {
		return models.ErrIncompleteData
	}
	if err := ev.Point.Validate(); err != nil {
		return err
	}
	ev.TriggeredAt = models.StoreTime(ev.TriggeredAt)

	query, args, err := db.sb.Insert("panic_events").
		Columns("tourist_id", "latitude", "longitude", "triggered_at").
		Values(ev.TouristID, ev.Point.Latitude, ev.Point.Longitude, ev.TriggeredAt).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert panic: %w", err)
	}
	return db.insertReturningID(ctx, query, args, &ev.ID)
}

// ListPanics returns a tourist's panic events, oldest first.
func (db *DB) ListPanics(ctx context.Context, touristID string) ([]models.PanicEvent, error) {
	query, args, err := db.sb.Select("id", "tourist_id", "latitude", "longitude", "triggered_at").
		From("panic_events").
		Where(sq.Eq{"tourist_id": touristID}).
		OrderBy("triggered_at ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select panics: %w", err)
	}

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapReadError(ctx, err)
	}
	defer closeQuietly(rows)

	events := make([]models.PanicEvent, 0)
	for rows.Next() {
		var ev models.PanicEvent
		if err := rows.Scan(&ev.ID, &ev.TouristID, &ev.Point.Latitude, &ev.Point.Longitude, &ev.TriggeredAt); err != nil {
			return nil, mapReadError(ctx, err)
		}
		ev.TriggeredAt = ev.TriggeredAt.UTC()
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, mapReadError(ctx, err)
	}
	return events, nil
}
