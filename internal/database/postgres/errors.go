// SafarSafe - Tourist Safety Tracking and Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safarsafe

package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/tomtom215/safarsafe/internal/models"
)

// SQLSTATE codes mapped into the taxonomy.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
	codeQueryCanceled       = "57014"
)

// mapError converts pgx and Postgres errors into models errors.
func mapError(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return models.Wrap(models.ErrStorageTimeout, err)
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return models.Wrap(models.ErrNotFound, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			return models.Wrap(models.ErrEmailTaken, err)
		case codeForeignKeyViolation:
			return models.Wrap(models.ErrUnknownTourist, err)
		case codeCheckViolation:
			return models.Wrap(models.ErrInvalidPoint, err)
		case codeQueryCanceled:
			return models.Wrap(models.ErrStorageTimeout, err)
		}
	}

	return models.Wrap(models.ErrStorage, err)
}
