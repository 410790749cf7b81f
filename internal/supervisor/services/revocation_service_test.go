// SafarSafe - Tourist Safety Tracking and Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safarsafe

package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tomtom215/safarsafe/internal/auth"
)

type countingCleaner struct {
	calls atomic.Int32
	err   error
}

func (c *countingCleaner) CleanupExpired(context.Context) (int, error) {
	c.calls.Add(1)
	return 1, c.err
}

var _ ExpiredRevocationCleaner = (*auth.MemoryRevocationStore)(nil)

func TestRevocationGCService_Sweeps(t *testing.T) {
	for _, name := range []string{"ok", "failing"} {
		t.Run(name, func(t *testing.T) {
			cleaner := &countingCleaner{}
			if name == "failing" {
				cleaner.err = errors.New("badger: closed")
			}
			svc := NewRevocationGCService(cleaner, 10*time.Millisecond)

			ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
			defer cancel()

			if err := svc.Serve(ctx); !errors.Is(err, context.DeadlineExceeded) {
				t.Errorf("Serve() = %v, want context.DeadlineExceeded", err)
			}
			if cleaner.calls.Load() < 2 {
				t.Errorf("sweeps = %d, want at least 2", cleaner.calls.Load())
			}
		})
	}
}

func TestNewRevocationGCService_DefaultInterval(t *testing.T) {
	svc := NewRevocationGCService(&countingCleaner{}, 0)
	if svc.interval != defaultRevocationGCInterval {
		t.Errorf("interval = %v, want %v", svc.interval, defaultRevocationGCInterval)
	}
}
