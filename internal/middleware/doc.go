// SafarSafe - Tourist Safety Tracking and Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safarsafe

/*
Package middleware provides HTTP middleware components for the application.

All middleware has the chi signature func(http.Handler) http.Handler and
works alongside the chi ecosystem middleware (RealIP, Recoverer, cors,
httprate) wired in package api.

Key Components:

  - RequestID: reuses X-Request-ID and X-Correlation-ID from upstream or
    generates UUIDs, and puts both in the logging context
  - PrometheusMetrics: request count, latency and in-flight gauge, labeled by
    chi route pattern
  - AccessLog: one zerolog line per request

Ordering:

	r.Use(middleware.RequestID)         // ids first so every log line has them
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.AccessLog)
	r.Use(middleware.PrometheusMetrics)

Both wrappers use chi's WrapResponseWriter, which keeps http.Hijacker, so the
WebSocket upgrade route can sit behind them.
*/
package middleware
