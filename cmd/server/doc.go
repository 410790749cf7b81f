// SafarSafe - Tourist Safety Tracking and Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safarsafe

/*
Command server runs the SafarSafe backend: tourist accounts, panic alerts,
location history and the real-time WebSocket channel.

Components are wired in order: configuration (koanf, with an optional .env
file), zerolog, the location store (DuckDB or Postgres), the token
revocation store (memory or BadgerDB), the token gate, the tourist service,
the connection registry and ingestion engine, and finally the chi router.
The supervisor tree then runs the revocation sweeper, the registry and the
HTTP server until SIGINT or SIGTERM.

Required environment:

	JWT_SECRET   32+ character token signing secret

Common settings:

	HTTP_PORT, HTTP_HOST          listen address (default 0.0.0.0:5000)
	DB_DRIVER                     duckdb or postgres
	DUCKDB_PATH / DB_DSN          store location
	REVOCATION_STORE              memory or badger
	CORS_ORIGINS                  comma-separated allowed origins
	REALTIME_REQUIRE_AUTH         reject anonymous location updates
	REALTIME_ALLOW_OBSERVERS      admit connections without a credential
	LOG_LEVEL, LOG_FORMAT         zerolog level and json or console output
*/
package main
