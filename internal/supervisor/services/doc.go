// SafarSafe - Tourist Safety Tracking and Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safarsafe

/*
Package services adapts SafarSafe components to suture's Serve pattern.

Each wrapper implements suture.Service and fmt.Stringer:

  - HTTPServerService runs *http.Server and shuts it down gracefully on
    cancellation.
  - RegistryService keeps the WebSocket connection registry open and closes
    every connection on shutdown.
  - RevocationGCService sweeps expired entries out of the token revocation
    store on a ticker.

Returning an error from Serve asks the supervisor to restart the service
with backoff; returning ctx.Err() after cancellation is a clean stop.
*/
package services
