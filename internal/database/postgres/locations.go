// SafarSafe - Tourist Safety Tracking and Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safarsafe

package postgres

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/tomtom215/safarsafe/internal/models"
)

// AppendLocation inserts one location fact. Validation and failure kinds
// match the DuckDB store.
func (s *Store) AppendLocation(ctx context.Context, touristID string, p models.Point, at time.Time) (*models.LocationRecord, error) {
	if touristID == "" {
		return nil, models.ErrIncompleteData
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	rec := &models.LocationRecord{TouristID: touristID, Point: p, RecordedAt: models.StoreTime(at)}
	query, args, err := s.sb.Insert("location_history").
		Columns("tourist_id", "latitude", "longitude", "recorded_at").
		Values(touristID, p.Latitude, p.Longitude, rec.RecordedAt).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert location: %w", err)
	}

	if err := s.pool.QueryRow(ctx, query, args...).Scan(&rec.ID); err != nil {
		return nil, mapError(ctx, err)
	}
	return rec, nil
}

// QueryLocations returns records in r ordered by timestamp, then id.
func (s *Store) QueryLocations(ctx context.Context, touristID string, r models.TimeRange) ([]models.LocationRecord, error) {
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

	query, args, err := s.sb.Select("id", "tourist_id", "latitude", "longitude", "recorded_at").
		From("location_history").
		Where(where).
		OrderBy("recorded_at ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select locations: %w", err)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(ctx, err)
	}
	records, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.LocationRecord, error) {
		var rec models.LocationRecord
		err := row.Scan(&rec.ID, &rec.TouristID, &rec.Point.Latitude, &rec.Point.Longitude, &rec.RecordedAt)
		rec.RecordedAt = rec.RecordedAt.UTC()
		return rec, err
	})
	if err != nil {
		return nil, mapError(ctx, err)
	}
	return records, nil
}
