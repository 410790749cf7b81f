// SafarSafe - Tourist Safety Tracking and Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safarsafe

package database

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/tomtom215/safarsafe/internal/models"
)

const (
	maxConflictRetries = 3
	conflictBackoff    = 10 * time.Millisecond
)

// AppendLocation records one location fact and returns it with its assigned id.
//
// The point is range-checked before any write (models.ErrInvalidPoint). A
// tourist id that does not exist fails the foreign key and nothing is stored
// (models.ErrUnknownTourist). Transaction conflicts are retried a few times;
// any other driver failure is a models.ErrStorage.
func (db *DB) AppendLocation(ctx context.Context, touristID string, p models.Point, at time.Time) (*models.LocationRecord, error) {
	if touristID == "" {
		return nil, models.ErrIncompleteData
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	rec := &models.LocationRecord{
		TouristID:  touristID,
		Point:      p,
		RecordedAt: models.StoreTime(at),
	}

	query, args, err := db.sb.Insert("location_history").
		Columns("tourist_id", "latitude", "longitude", "recorded_at").
		Values(rec.TouristID, p.Latitude, p.Longitude, rec.RecordedAt).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert location: %w", err)
	}

	if err := db.insertReturningID(ctx, query, args, &rec.ID); err != nil {
		return nil, err
	}
	return rec, nil
}

// QueryLocations returns a tourist's records inside r, oldest first. Records
// sharing a timestamp come back in id order.
func (db *DB) QueryLocations(ctx context.Context, touristID string, r models.TimeRange) ([]models.LocationRecord, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	where := sq.And{sq.Eq{"tourist_id": touristID}}
	if !r.From.IsZero() {
		where = append(where, sq.GtOrEq{"recorded_at": models.StoreTime(r.From)})
	}
	if !r.To.IsZero() {
		where = append(where, sq.Lt{"recorded_at": models.StoreTime(r.To)})
	}

	query, args, err := db.sb.Select("id", "tourist_id", "latitude", "longitude", "recorded_at").
		From("location_history").
		Where(where).
		OrderBy("recorded_at ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select locations: %w", err)
	}

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapReadError(ctx, err)
	}
	defer closeQuietly(rows)

	records := make([]models.LocationRecord, 0)
	for rows.Next() {
		var rec models.LocationRecord
		if err := rows.Scan(&rec.ID, &rec.TouristID, &rec.Point.Latitude, &rec.Point.Longitude, &rec.RecordedAt); err != nil {
			return nil, mapReadError(ctx, err)
		}
		rec.RecordedAt = rec.RecordedAt.UTC()
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, mapReadError(ctx, err)
	}
	return records, nil
}

// insertReturningID runs an INSERT ... RETURNING id, retrying DuckDB
// transaction conflicts with linear backoff.
func (db *DB) insertReturningID(ctx context.Context, query string, args []interface{}, id *int64) error {
	var err error
	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		err = db.conn.QueryRowContext(ctx, query, args...).Scan(id)
		if err == nil || !isTransactionConflict(err) {
			break
		}
		select {
		case <-ctx.Done():
			return mapWriteError(ctx, ctx.Err())
		case <-time.After(time.Duration(attempt+1) * conflictBackoff):
		}
	}
	return mapWriteError(ctx, err)
}
