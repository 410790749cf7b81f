// SafarSafe - Tourist Safety Tracking and Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safarsafe

package models

import "time"

// PanicEvent is a tourist-initiated emergency signal. ID is zero until the
// event has been written to the audit table.
type PanicEvent struct {
	ID          int64     `json:"id,omitempty"`
	TouristID   string    `json:"touristId"`
	Point       Point     `json:"location"`
	TriggeredAt time.Time `json:"timestamp"`
}
