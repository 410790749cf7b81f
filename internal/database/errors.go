// SafarSafe - Tourist Safety Tracking and Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safarsafe

package database

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/tomtom215/safarsafe/internal/models"
)

// closeQuietly closes a resource and ignores the error. Use only in error paths.
func closeQuietly(closer io.Closer) {
	if closer != nil {
		_ = closer.Close()
	}
}

// isUniqueConstraintError matches DuckDB's
// `Duplicate key "email: x" violates unique constraint` message.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "primary key constraint") ||
		strings.Contains(msg, "duplicate key")
}

// isForeignKeyError matches `Violates foreign key constraint because key ... does not exist`.
func isForeignKeyError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(strings.ToLower(err.Error()), "foreign key")
}

func isCheckConstraintError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(strings.ToLower(err.Error()), "check constraint")
}

// isTransactionConflict checks if an error is a DuckDB transaction conflict
func isTransactionConflict(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "Transaction conflict") ||
		strings.Contains(msg, "Conflict on update")
}

// mapWriteError converts a DuckDB write error into the taxonomy. ctx is the
// context the statement ran under; a cancelled or expired context wins over
// whatever error text the driver produced.
func mapWriteError(ctx context.Context, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(ctx.Err(), context.DeadlineExceeded), errors.Is(err, context.DeadlineExceeded):
		return models.Wrap(models.ErrStorageTimeout, err)
	case isForeignKeyError(err):
		return models.Wrap(models.ErrUnknownTourist, err)
	case isCheckConstraintError(err):
		return models.Wrap(models.ErrInvalidPoint, err)
	case isUniqueConstraintError(err):
		return models.Wrap(models.ErrEmailTaken, err)
	default:
		return models.Wrap(models.ErrStorage, err)
	}
}

// mapReadError converts a DuckDB read error into the taxonomy.
func mapReadError(ctx context.Context, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(ctx.Err(), context.DeadlineExceeded), errors.Is(err, context.DeadlineExceeded):
		return models.Wrap(models.ErrStorageTimeout, err)
	default:
		return models.Wrap(models.ErrStorage, err)
	}
}
