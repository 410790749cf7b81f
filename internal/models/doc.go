// SafarSafe - Tourist Safety Tracking and Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safarsafe

/*
Package models defines the domain types shared by every SafarSafe layer.

Key Components:

  - Tourist: registered end user, identified by an opaque UUID string
  - Point: WGS84 coordinate pair with range validation
  - LocationRecord: immutable, append-only location fact
  - PanicEvent: emergency signal, broadcast and kept for audit
  - TimeRange: half-open [From, To) interval used by history queries
  - Error: the failure taxonomy shared by the HTTP and real-time paths

Error Handling:

Stores and services return *Error values, usually built with Wrap from one of
the sentinel errors. Callers branch with errors.Is against a sentinel, which
matches on Kind and Reason, or with KindOf when only the kind matters:

	if errors.Is(err, models.ErrUnknownTourist) { ... }
	switch models.KindOf(err) {
	case models.KindValidation: ...
	}
*/
package models
