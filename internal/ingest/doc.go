// SafarSafe - Tourist Safety Tracking and Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safarsafe

/*
Package ingest is the ingestion and broadcast engine.

Every updateLocation frame moves through

	Received -> Validated -> Persisted -> Broadcast -> Acknowledged

or ends Rejected, in which case the sender alone gets a location-rejected
frame. The engine checks the connection's inbound budget and credential,
validates the point, appends it to the location store under a bounded
timeout, binds the connection to the tourist and broadcasts a
tourist-location-change to every registry member.

Store calls go through a sony/gobreaker circuit breaker. Storage faults and
timeouts count toward opening it; client faults such as an out-of-range point
or an unknown tourist do not. While it is open, events are rejected with
StorageUnavailable without calling the store.

TriggerPanic is the request-path entry for panic alerts. It writes the audit
record first, broadcasts new-panic-alert with a server timestamp and succeeds
even when no one is connected.
*/
package ingest
