// SafarSafe - Tourist Safety Tracking and Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safarsafe

package postgres

import (
	"context"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/tomtom215/safarsafe/internal/models"
)

var touristColumns = []string{"id", "full_name", "email", "password_hash", "created_at"}

// CreateTourist inserts a tourist, assigning an id and creation time when empty.
func (s *Store) CreateTourist(ctx context.Context, t *models.Tourist) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = s.now()
	}
	t.CreatedAt = models.StoreTime(t.CreatedAt)
	t.Email = strings.ToLower(strings.TrimSpace(t.Email))

	query, args, err := s.sb.Insert("tourists").
		Columns(touristColumns...).
		Values(t.ID, t.FullName, t.Email, t.PasswordHash, t.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert tourist: %w", err)
	}
	if _, err := s.pool.Exec(ctx, query, args...); err != nil {
		return mapError(ctx, err)
	}
	return nil
}

func (s *Store) GetTouristByEmail(ctx context.Context, email string) (*models.Tourist, error) {
	return s.getTourist(ctx, sq.Eq{"email": strings.ToLower(strings.TrimSpace(email))})
}

func (s *Store) GetTouristByID(ctx context.Context, id string) (*models.Tourist, error) {
	return s.getTourist(ctx, sq.Eq{"id": id})
}

func (s *Store) getTourist(ctx context.Context, where sq.Eq) (*models.Tourist, error) {
	query, args, err := s.sb.Select(touristColumns...).From("tourists").Where(where).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select tourist: %w", err)
	}

	var t models.Tourist
	if err := s.pool.QueryRow(ctx, query, args...).
		Scan(&t.ID, &t.FullName, &t.Email, &t.PasswordHash, &t.CreatedAt); err != nil {
		return nil, mapError(ctx, err)
	}
	t.CreatedAt = t.CreatedAt.UTC()
	return &t, nil
}
