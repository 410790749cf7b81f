// SafarSafe - Tourist Safety Tracking and Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safarsafe

package services

import (
	"context"
	"time"

	"github.com/tomtom215/safarsafe/internal/logging"
)

const defaultRevocationGCInterval = 10 * time.Minute

// ExpiredRevocationCleaner is satisfied by auth.RevocationStore.
type ExpiredRevocationCleaner interface {
	CleanupExpired(ctx context.Context) (int, error)
}

// RevocationGCService periodically drops revocation entries whose tokens
// have expired. A failed sweep is logged and retried on the next tick.
type RevocationGCService struct {
	store    ExpiredRevocationCleaner
	interval time.Duration
}

// NewRevocationGCService creates the sweeper.
func NewRevocationGCService(store ExpiredRevocationCleaner, interval time.Duration) *RevocationGCService {
	if interval <= 0 {
		interval = defaultRevocationGCInterval
	}
	return &RevocationGCService{store: store, interval: interval}
}

// Serve implements suture.Service.
func (s *RevocationGCService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *RevocationGCService) sweep(ctx context.Context) {
	removed, err := s.store.CleanupExpired(ctx)
	if err != nil {
		logging.Warn().Err(err).Msg("revocation sweep failed")
		return
	}
	if removed > 0 {
		logging.Debug().Int("removed", removed).Msg("expired revocations removed")
	}
}

func (s *RevocationGCService) String() string {
	return "revocation-gc"
}
