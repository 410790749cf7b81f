// SafarSafe - Tourist Safety Tracking and Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safarsafe

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/tomtom215/safarsafe/internal/models"
)

var touristColumns = []string{"id", "full_name", "email", "password_hash", "created_at"}

// CreateTourist inserts a tourist. An empty ID is filled with a random UUID
// and a zero CreatedAt with the current time. The email is stored lowercased.
// Returns models.ErrEmailTaken when the email is already registered.
func (db *DB) CreateTourist(ctx context.Context, t *models.Tourist) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = db.now()
	}
	t.CreatedAt = models.StoreTime(t.CreatedAt)
	t.Email = normalizeEmail(t.Email)

	query, args, err := db.sb.Insert("tourists").
		Columns(touristColumns...).
		Values(t.ID, t.FullName, t.Email, t.PasswordHash, t.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert tourist: %w", err)
	}

	if _, err := db.conn.ExecContext(ctx, query, args...); err != nil {
		return mapWriteError(ctx, err)
	}
	return nil
}

// GetTouristByEmail returns models.ErrNotFound when no tourist has that email.
func (db *DB) GetTouristByEmail(ctx context.Context, email string) (*models.Tourist, error) {
	return db.getTourist(ctx, "email", normalizeEmail(email))
}

// GetTouristByID returns models.ErrNotFound when the id is unknown.
func (db *DB) GetTouristByID(ctx context.Context, id string) (*models.Tourist, error) {
	return db.getTourist(ctx, "id", id)
}

func (db *DB) getTourist(ctx context.Context, column, value string) (*models.Tourist, error) {
	query, args, err := db.sb.Select(touristColumns...).
		From("tourists").
		Where(sq.Eq{column: value}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select tourist: %w", err)
	}

	var t models.Tourist
	err = db.conn.QueryRowContext(ctx, query, args...).
		Scan(&t.ID, &t.FullName, &t.Email, &t.PasswordHash, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, mapReadError(ctx, err)
	}
	t.CreatedAt = t.CreatedAt.UTC()
	return &t, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
