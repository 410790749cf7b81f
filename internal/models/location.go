// SafarSafe - Tourist Safety Tracking and Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safarsafe

package models

import (
	"fmt"
	"math"
	"time"
)

// Coordinate bounds in degrees (WGS84).
const (
	MinLatitude  = -90.0
	MaxLatitude  = 90.0
	MinLongitude = -180.0
	MaxLongitude = 180.0
)

// Point is a WGS84 coordinate pair.
type Point struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Validate returns ErrInvalidPoint unless latitude is in [-90, 90] and
// longitude is in [-180, 180]. NaN and infinities are rejected.
func (p Point) Validate() error {
	if math.IsNaN(p.Latitude) || math.IsInf(p.Latitude, 0) ||
		p.Latitude < MinLatitude || p.Latitude > MaxLatitude {
		return WithMessage(ErrInvalidPoint, fmt.Sprintf("latitude %v out of range [-90, 90]", p.Latitude))
	}
	if math.IsNaN(p.Longitude) || math.IsInf(p.Longitude, 0) ||
		p.Longitude < MinLongitude || p.Longitude > MaxLongitude {
		return WithMessage(ErrInvalidPoint, fmt.Sprintf("longitude %v out of range [-180, 180]", p.Longitude))
	}
	return nil
}

// LocationRecord is an accepted location update. Records are never mutated or deleted.
type LocationRecord struct {
	ID         int64     `json:"id"`
	TouristID  string    `json:"touristId"`
	Point      Point     `json:"point"`
	RecordedAt time.Time `json:"recordedAt"`
}

// TimeRange is the half-open interval [From, To). A zero bound is open.
type TimeRange struct {
	From time.Time
	To   time.Time
}

// Contains reports whether t falls inside the range.
func (r TimeRange) Contains(t time.Time) bool {
	if !r.From.IsZero() && t.Before(r.From) {
		return false
	}
	if !r.To.IsZero() && !t.Before(r.To) {
		return false
	}
	return true
}

// Validate rejects ranges whose end is not after their start.
func (r TimeRange) Validate() error {
	if !r.From.IsZero() && !r.To.IsZero() && !r.To.After(r.From) {
		return WithMessage(ErrValidation, "time range end must be after start")
	}
	return nil
}

// StoreTime normalizes a timestamp to the precision every store keeps: UTC,
// truncated to microseconds.
func StoreTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}
