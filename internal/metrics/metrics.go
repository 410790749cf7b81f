// SafarSafe - Tourist Safety Tracking and Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safarsafe

// Package metrics defines the Prometheus collectors exported at /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Store Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "safarsafe_store_query_duration_seconds",
			Help:    "Duration of location store operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "driver"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "safarsafe_store_errors_total",
			Help: "Total number of location store errors by taxonomy reason",
		},
		[]string{"operation", "driver", "reason"},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "safarsafe_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "safarsafe_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "safarsafe_api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "safarsafe_api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// WebSocket Metrics
	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "safarsafe_websocket_connections",
			Help: "Current number of admitted real-time connections",
		},
	)

	WSMessagesReceived = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "safarsafe_websocket_messages_received_total",
			Help: "Total number of inbound real-time frames",
		},
		[]string{"type"},
	)

	WSEvictions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "safarsafe_websocket_slow_consumer_evictions_total",
			Help: "Total number of connections evicted because their send queue was full",
		},
	)

	BroadcastDeliveries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "safarsafe_broadcast_deliveries_total",
			Help: "Total number of broadcast frames by per-recipient result",
		},
		[]string{"type", "result"}, // result: delivered, dropped
	)

	// Ingestion Metrics
	IngestOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "safarsafe_ingest_events_total",
			Help: "Total number of location events by final state and reason",
		},
		[]string{"state", "reason"},
	)

	PersistDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "safarsafe_persist_duration_seconds",
			Help:    "Duration of bounded persistence calls",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"kind"}, // location, panic
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "safarsafe_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "safarsafe_circuit_breaker_requests_total",
			Help: "Total number of calls through a circuit breaker by result",
		},
		[]string{"name", "result"}, // success, failure, rejected
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "safarsafe_circuit_breaker_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	PanicAlerts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "safarsafe_panic_alerts_total",
			Help: "Total number of panic alerts by outcome",
		},
		[]string{"outcome"}, // broadcast, rejected, audit_failed
	)

	// Auth Metrics
	AuthVerifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "safarsafe_auth_verifications_total",
			Help: "Total number of bearer credential verifications",
		},
		[]string{"result"}, // ok, invalid, revoked, error
	)

	RevocationOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "safarsafe_revocation_operations_total",
			Help: "Total number of token revocation store operations",
		},
		[]string{"operation", "outcome"},
	)

	TouristRegistrations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "safarsafe_tourist_registrations_total",
			Help: "Total number of registration attempts",
		},
		[]string{"outcome"},
	)
)

// RecordDBQuery records a store operation. reason is empty on success.
func RecordDBQuery(operation, driver string, duration time.Duration, reason string) {
	DBQueryDuration.WithLabelValues(operation, driver).Observe(duration.Seconds())
	if reason != "" {
		DBQueryErrors.WithLabelValues(operation, driver, reason).Inc()
	}
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordBroadcast records the per-recipient result of one broadcast.
func RecordBroadcast(eventType string, delivered, dropped int) {
	if delivered > 0 {
		BroadcastDeliveries.WithLabelValues(eventType, "delivered").Add(float64(delivered))
	}
	if dropped > 0 {
		BroadcastDeliveries.WithLabelValues(eventType, "dropped").Add(float64(dropped))
	}
}

// RecordIngest records the final state of one location event.
func RecordIngest(state, reason string) {
	IngestOutcomes.WithLabelValues(state, reason).Inc()
}

// RecordPersist records the latency of a bounded persistence call.
func RecordPersist(kind string, duration time.Duration) {
	PersistDuration.WithLabelValues(kind).Observe(duration.Seconds())
}
