// SafarSafe - Tourist Safety Tracking and Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safarsafe

// Package tourist implements account operations: registration, login,
// logout, profile lookup and location history.
package tourist

import (
	"context"
	"time"

	"github.com/tomtom215/safarsafe/internal/auth"
	"github.com/tomtom215/safarsafe/internal/models"
)

// store is the subset of the location store the service reads and writes.
type store interface {
	CreateTourist(ctx context.Context, t *models.Tourist) error
	GetTouristByEmail(ctx context.Context, email string) (*models.Tourist, error)
	GetTouristByID(ctx context.Context, id string) (*models.Tourist, error)
	QueryLocations(ctx context.Context, touristID string, r models.TimeRange) ([]models.LocationRecord, error)
	ListPanics(ctx context.Context, touristID string) ([]models.PanicEvent, error)
}

// tokenIssuer issues and revokes bearer tokens.
type tokenIssuer interface {
	Issue(touristID string) (string, *auth.Claims, error)
	Revoke(ctx context.Context, claims *auth.Claims) error
}

// passwordHasher hashes and verifies credentials.
type passwordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// Service implements tourist account operations.
type Service struct {
	store  store
	tokens tokenIssuer
	hasher passwordHasher
	now    func() time.Time

	// dummyHash is compared against when the email is unknown so both login
	// failures cost one bcrypt comparison.
	dummyHash string
}

// NewService creates a Service.
func NewService(s store, tokens tokenIssuer, hasher passwordHasher) (*Service, error) {
	dummy, err := hasher.Hash("safarsafe-dummy-password-0")
	if err != nil {
		return nil, err
	}
	return &Service{
		store:     s,
		tokens:    tokens,
		hasher:    hasher,
		now:       time.Now,
		dummyHash: dummy,
	}, nil
}
