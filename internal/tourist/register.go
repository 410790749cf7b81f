// SafarSafe - Tourist Safety Tracking and Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safarsafe

package tourist

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/tomtom215/safarsafe/internal/logging"
	"github.com/tomtom215/safarsafe/internal/metrics"
	"github.com/tomtom215/safarsafe/internal/models"
)

// Register creates a tourist. Email uniqueness is enforced by the store and
// surfaces as ErrEmailTaken.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*models.Tourist, error) {
	input.normalize()
	if err := input.Validate(); err != nil {
		metrics.TouristRegistrations.WithLabelValues("invalid").Inc()
		return nil, err
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		metrics.TouristRegistrations.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("tourist.Register hash password: %w", err)
	}

	t := &models.Tourist{
		ID:           uuid.NewString(),
		FullName:     input.FullName,
		Email:        input.Email,
		PasswordHash: hash,
		CreatedAt:    models.StoreTime(s.now()),
	}
	if err := s.store.CreateTourist(ctx, t); err != nil {
		if errors.Is(err, models.ErrEmailTaken) {
			metrics.TouristRegistrations.WithLabelValues("conflict").Inc()
			return nil, models.WithMessage(models.ErrEmailTaken, "Email already registered")
		}
		metrics.TouristRegistrations.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("tourist.Register: %w", err)
	}

	metrics.TouristRegistrations.WithLabelValues("created").Inc()
	logging.Ctx(ctx).Info().Str("tourist_id", t.ID).Msg("tourist registered")
	return t, nil
}
