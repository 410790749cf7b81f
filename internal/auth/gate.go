// SafarSafe - Tourist Safety Tracking and Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safarsafe

package auth

import (
	"context"
	"errors"

	"github.com/tomtom215/safarsafe/internal/logging"
	"github.com/tomtom215/safarsafe/internal/metrics"
	"github.com/tomtom215/safarsafe/internal/models"
)

// Gate verifies bearer credentials and resolves them to a tourist id. It is
// shared by the HTTP middleware and the real-time upgrade handler.
type Gate struct {
	tokens  *JWTManager
	revoked RevocationStore
}

// NewGate returns a gate over tokens. A nil revocation store disables the
// revocation check.
func NewGate(tokens *JWTManager, revoked RevocationStore) *Gate {
	return &Gate{tokens: tokens, revoked: revoked}
}

// Issue signs a token for touristID.
func (g *Gate) Issue(touristID string) (string, *Claims, error) {
	return g.tokens.GenerateToken(touristID)
}

// Verify returns the claims for credential or an Unauthorized error. A
// failing revocation lookup is also reported as Unauthorized since the
// credential cannot be shown to be live.
func (g *Gate) Verify(ctx context.Context, credential string) (*Claims, error) {
	if credential == "" {
		metrics.AuthVerifications.WithLabelValues("missing").Inc()
		return nil, models.WithMessage(models.ErrUnauthorized, "missing token")
	}

	claims, err := g.tokens.ValidateToken(credential)
	if err != nil {
		metrics.AuthVerifications.WithLabelValues("invalid").Inc()
		logging.Ctx(ctx).Debug().Err(err).Msg("Token validation failed")
		return nil, models.Wrap(models.ErrUnauthorized, err)
	}

	if g.revoked != nil {
		revoked, err := g.revoked.IsRevoked(ctx, claims.ID)
		if err != nil {
			metrics.AuthVerifications.WithLabelValues("error").Inc()
			logging.Ctx(ctx).Error().Err(err).Str("jti", claims.ID).Msg("Revocation lookup failed")
			return nil, models.Wrap(models.ErrUnauthorized, err)
		}
		if revoked {
			metrics.AuthVerifications.WithLabelValues("revoked").Inc()
			return nil, models.WithMessage(models.ErrUnauthorized, "token revoked")
		}
	}

	metrics.AuthVerifications.WithLabelValues("ok").Inc()
	return claims, nil
}

// Revoke invalidates the token described by claims until it expires.
func (g *Gate) Revoke(ctx context.Context, claims *Claims) error {
	if claims == nil {
		return errors.New("revoke: nil claims")
	}
	if g.revoked == nil {
		return nil
	}
	return g.revoked.Revoke(ctx, &RevocationEntry{
		JTI:       claims.ID,
		TouristID: claims.TouristID(),
		ExpiresAt: claims.Expiry(),
	})
}
