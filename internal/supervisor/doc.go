// SafarSafe - Tourist Safety Tracking and Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safarsafe

/*
Package supervisor runs SafarSafe's long-lived services under a suture v4
tree:

	safarsafe
	├── data-layer
	│   └── revocation-gc
	├── messaging-layer
	│   └── websocket-registry
	└── api-layer
	    └── http-server

A service whose Serve returns an error is restarted with backoff. Repeated
failures back off their own layer without touching the others. Canceling the
root context shuts every service down, bounded by TreeConfig.ShutdownTimeout,
and UnstoppedServiceReport names any that overran it.

Supervisor events are logged through log/slog via sutureslog; the slog
handler is backed by the zerolog logger (see logging.NewSlogLogger).
*/
package supervisor
