// SafarSafe - Tourist Safety Tracking and Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safarsafe

package ingest

import (
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/safarsafe/internal/logging"
	"github.com/tomtom215/safarsafe/internal/metrics"
	"github.com/tomtom215/safarsafe/internal/models"
)

// BreakerOptions tunes the circuit breaker in front of the location store.
type BreakerOptions struct {
	// MaxRequests is the number of trial calls allowed while half-open.
	MaxRequests uint32
	// Interval resets the closed-state counts; zero never resets.
	Interval time.Duration
	// Timeout is how long the breaker stays open before going half-open.
	Timeout time.Duration
	// FailureThreshold is the number of consecutive storage failures that
	// opens the breaker.
	FailureThreshold uint32
}

// storeBreaker wraps store calls with a gobreaker circuit breaker. Only
// storage-kind errors count as failures; validation and referential faults
// are the caller's problem and leave the breaker closed.
type storeBreaker struct {
	cb   *gobreaker.CircuitBreaker[struct{}]
	name string
}

func newStoreBreaker(name string, opts BreakerOptions) *storeBreaker {
	if opts.MaxRequests == 0 {
		opts.MaxRequests = 1
	}
	if opts.FailureThreshold == 0 {
		opts.FailureThreshold = 5
	}
	threshold := opts.FailureThreshold

	metrics.CircuitBreakerState.WithLabelValues(name).Set(0) // 0 = closed

	cb := gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        name,
		MaxRequests: opts.MaxRequests,
		Interval:    opts.Interval,
		Timeout:     opts.Timeout,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			shouldTrip := counts.ConsecutiveFailures >= threshold
			if shouldTrip {
				logging.Warn().
					Str("breaker", name).
					Uint32("consecutive_failures", counts.ConsecutiveFailures).
					Msg("[CIRCUIT BREAKER] Opening circuit")
			}
			return shouldTrip
		},

		IsSuccessful: func(err error) bool {
			return err == nil || models.KindOf(err) != models.KindStorage
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("[CIRCUIT BREAKER] State transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
		},
	})

	return &storeBreaker{cb: cb, name: name}
}

// execute runs fn through the breaker. A rejected call reports
// StorageUnavailable without touching the store.
func (b *storeBreaker) execute(fn func() error) error {
	_, err := b.cb.Execute(func() (struct{}, error) {
		return struct{}{}, fn()
	})
	if err == nil {
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "success").Inc()
		return nil
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "rejected").Inc()
		return models.Wrap(models.ErrStorageUnavailable, err)
	}
	metrics.CircuitBreakerRequests.WithLabelValues(b.name, "failure").Inc()
	return err
}

func (b *storeBreaker) state() gobreaker.State {
	return b.cb.State()
}

func stateToFloat(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
