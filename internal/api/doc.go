// SafarSafe - Tourist Safety Tracking and Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safarsafe

/*
Package api serves the SafarSafe HTTP surface on a chi router.

Routes:

	POST /api/tourist/register   create an account
	POST /api/tourist/login      exchange credentials for a bearer token
	POST /api/tourist/logout     revoke the presented token (auth)
	GET  /api/tourist/profile    the authenticated tourist (auth)
	POST /api/tourist/panic      broadcast a new-panic-alert (auth)
	GET  /api/tourist/locations  location history, json or geojson (auth)
	GET  /api/tourist/panics     audited panic events (auth)
	GET  /ws                     real-time channel
	GET  /api/health/live        liveness probe
	GET  /api/health/ready       readiness probe, 503 when the store is down
	GET  /metrics                Prometheus metrics
	GET  /swagger/*              Swagger UI and doc.json

Every error body has the form {"error": message, "code": code}. Taxonomy
kinds map to statuses: validation 400, auth 401, not found 404, conflict
409, referential 422, storage 500, and 503 when the store timed out or its
circuit breaker is open.

Middleware order: request id, real IP, panic recovery, access log, CORS,
Prometheus, then per-group security headers, per-IP rate limits (httprate)
and bearer authentication.
*/
package api
