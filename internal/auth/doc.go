// SafarSafe - Tourist Safety Tracking and Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safarsafe

/*
Package auth is the identity gate of SafarSafe.

A tourist logs in with email and password and receives a short-lived HS256
bearer token whose subject is the tourist id. Every protected HTTP route and
every real-time location update is checked against that token by Gate.Verify,
which fails with models.ErrUnauthorized for a missing, malformed, expired,
wrongly signed or revoked credential.

Components:

  - JWTManager: issues and parses tokens. Each token carries a random jti.
  - PasswordHasher: bcrypt hashing with a configurable cost.
  - RevocationStore: remembers logged-out jti values until the token would
    have expired anyway. MemoryRevocationStore is the default;
    BadgerRevocationStore persists across restarts using Badger TTL entries.
  - Middleware: chi-compatible bearer authentication writing a JSON 401.

Usage:

	tokens, err := auth.NewJWTManager(&cfg.Security)
	revoked, err := auth.NewRevocationStore(cfg.Security.RevocationStore, cfg.Security.RevocationStorePath)
	gate := auth.NewGate(tokens, revoked)

	r.With(auth.NewMiddleware(gate).Authenticate).Get("/api/tourist/profile", h.Profile)
*/
package auth
