// SafarSafe - Tourist Safety Tracking and Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safarsafe

package tourist

import (
	"context"
	"errors"
	"fmt"

	"github.com/tomtom215/safarsafe/internal/auth"
	"github.com/tomtom215/safarsafe/internal/logging"
	"github.com/tomtom215/safarsafe/internal/models"
)

var errInvalidCredentials = models.WithMessage(models.ErrUnauthorized, "Invalid credentials")

// LoginResult carries an issued bearer token.
type LoginResult struct {
	Token   string
	Claims  *auth.Claims
	Tourist *models.Tourist
}

// Login verifies an email and password and issues a token. Unknown emails,
// wrong passwords and missing fields all fail with "Invalid credentials".
func (s *Service) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	email := normalizeEmail(input.Email)
	if email == "" || input.Password == "" {
		return nil, errInvalidCredentials
	}

	t, err := s.store.GetTouristByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			_ = s.hasher.Compare(s.dummyHash, input.Password)
			return nil, errInvalidCredentials
		}
		return nil, fmt.Errorf("tourist.Login get tourist: %w", err)
	}

	if err := s.hasher.Compare(t.PasswordHash, input.Password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return nil, errInvalidCredentials
		}
		return nil, fmt.Errorf("tourist.Login verify password: %w", err)
	}

	token, claims, err := s.tokens.Issue(t.ID)
	if err != nil {
		return nil, fmt.Errorf("tourist.Login issue token: %w", err)
	}

	logging.Ctx(ctx).Info().Str("tourist_id", t.ID).Msg("tourist logged in")
	return &LoginResult{Token: token, Claims: claims, Tourist: t}, nil
}

// Logout revokes the presented token until it expires.
func (s *Service) Logout(ctx context.Context, claims *auth.Claims) error {
	if err := s.tokens.Revoke(ctx, claims); err != nil {
		return fmt.Errorf("tourist.Logout: %w", err)
	}
	logging.Ctx(ctx).Info().Str("tourist_id", claims.TouristID()).Msg("tourist logged out")
	return nil
}
