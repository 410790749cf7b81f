// SafarSafe - Tourist Safety Tracking and Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safarsafe

package api

import (
	"time"

	"github.com/tomtom215/safarsafe/internal/models"
	"github.com/tomtom215/safarsafe/internal/validation"
)

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	Error  string                  `json:"error"`
	Code   string                  `json:"code"`
	Fields []validation.FieldError `json:"fields,omitempty"`
}

// MessageResponse is a bare confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}

// RegisterRequest is the POST /api/tourist/register body.
type RegisterRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterResponse confirms a registration.
type RegisterResponse struct {
	Message   string `json:"message"`
	TouristID string `json:"touristId"`
}

// LoginRequest is the POST /api/tourist/login body.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the bearer token.
type LoginResponse struct {
	Message   string    `json:"message"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// ProfileResponse is the GET /api/tourist/profile body.
type ProfileResponse struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

// PanicRequest is the POST /api/tourist/panic body. Pointers tell a missing
// coordinate apart from zero.
type PanicRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// PanicResponse confirms a broadcast panic alert.
type PanicResponse struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Delivered int       `json:"delivered"`
}

// HistoryQuery holds the GET /api/tourist/locations query parameters.
type HistoryQuery struct {
	From   string `json:"from" validate:"rfc3339"`
	To     string `json:"to" validate:"rfc3339"`
	Format string `json:"format" validate:"omitempty,oneof=json geojson"`
}

// HistoryResponse is the JSON rendition of a location history.
type HistoryResponse struct {
	TouristID string                  `json:"touristId"`
	Count     int                     `json:"count"`
	Records   []models.LocationRecord `json:"records"`
}

// PanicsResponse lists audited panic events.
type PanicsResponse struct {
	TouristID string              `json:"touristId"`
	Count     int                 `json:"count"`
	Events    []models.PanicEvent `json:"events"`
}

// HealthResponse reports liveness or readiness.
type HealthResponse struct {
	Status      string  `json:"status"`
	Database    string  `json:"database,omitempty"`
	Connections int     `json:"connections"`
	Uptime      float64 `json:"uptime"`
}
