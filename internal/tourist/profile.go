// SafarSafe - Tourist Safety Tracking and Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safarsafe

package tourist

import (
	"context"
	"errors"
	"fmt"

	"github.com/tomtom215/safarsafe/internal/models"
)

// Profile returns the tourist behind a verified token.
func (s *Service) Profile(ctx context.Context, touristID string) (*models.Tourist, error) {
	t, err := s.store.GetTouristByID(ctx, touristID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.WithMessage(models.ErrNotFound, "Profile not found")
		}
		return nil, fmt.Errorf("tourist.Profile: %w", err)
	}
	return t, nil
}

// History returns the tourist's own location records in r, oldest first.
func (s *Service) History(ctx context.Context, touristID string, r models.TimeRange) ([]models.LocationRecord, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	records, err := s.store.QueryLocations(ctx, touristID, r)
	if err != nil {
		return nil, fmt.Errorf("tourist.History: %w", err)
	}
	return records, nil
}

// Panics returns the tourist's audited panic events, oldest first.
func (s *Service) Panics(ctx context.Context, touristID string) ([]models.PanicEvent, error) {
	events, err := s.store.ListPanics(ctx, touristID)
	if err != nil {
		return nil, fmt.Errorf("tourist.Panics: %w", err)
	}
	return events, nil
}
