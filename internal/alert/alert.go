// SafarSafe - Tourist Safety Tracking and Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safarsafe

// Package alert defines the named-event protocol spoken over the real-time
// connection. Every frame is a JSON text message {"type": kind, "data": payload}.
package alert

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/safarsafe/internal/models"
)

// Kind names a frame type.
type Kind string

const (
	// KindUpdateLocation is sent by a tourist client with its current position.
	KindUpdateLocation Kind = "updateLocation"
	// KindLocationChange is broadcast after a location update is persisted.
	KindLocationChange Kind = "tourist-location-change"
	// KindPanicAlert is broadcast when a tourist triggers the panic signal.
	KindPanicAlert Kind = "new-panic-alert"
	// KindLocationRejected is sent only to the originator of a rejected update.
	KindLocationRejected Kind = "location-rejected"

	KindPing Kind = "ping"
	KindPong Kind = "pong"
)

// NACK codes carried in a Rejection.
const (
	CodeValidation       = "VALIDATION_ERROR"
	CodeAuth             = "AUTH_ERROR"
	CodeReferential      = "REFERENTIAL_ERROR"
	CodeStorage          = "STORAGE_ERROR"
	CodeRateLimited      = "RATE_LIMITED"
	CodeUnsupportedEvent = "UNSUPPORTED_EVENT"
	CodeInternal         = "INTERNAL_ERROR"
)

// Envelope is the outer frame. Data is kept raw so it can be decoded per kind
// and echoed back verbatim in a rejection.
type Envelope struct {
	Type Kind            `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// LocationUpdate is the updateLocation payload. Fields are pointers so a
// missing field can be told apart from a zero coordinate.
type LocationUpdate struct {
	TouristID *string  `json:"touristId"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// Complete reports whether all three fields are present and the id is not
// empty.
func (u *LocationUpdate) Complete() bool {
	return u.TouristID != nil && *u.TouristID != "" && u.Latitude != nil && u.Longitude != nil
}

// Point returns the coordinates. Call only after Complete.
func (u *LocationUpdate) Point() models.Point {
	return models.Point{Latitude: *u.Latitude, Longitude: *u.Longitude}
}

// LocationChange is the tourist-location-change payload.
type LocationChange struct {
	TouristID string  `json:"touristId"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Location is a bare coordinate pair inside a panic alert.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// PanicAlert is the new-panic-alert payload.
type PanicAlert struct {
	TouristID string   `json:"touristId"`
	Location  Location `json:"location"`
	// Timestamp is RFC 3339 in UTC.
	Timestamp string `json:"timestamp"`
}

// NewPanicAlert builds the payload for a panic at p triggered at ts.
func NewPanicAlert(touristID string, p models.Point, ts time.Time) PanicAlert {
	return PanicAlert{
		TouristID: touristID,
		Location:  Location{Latitude: p.Latitude, Longitude: p.Longitude},
		Timestamp: ts.UTC().Format(time.RFC3339Nano),
	}
}

// Rejection is the location-rejected payload.
type Rejection struct {
	Code      string          `json:"code"`
	Reason    string          `json:"reason,omitempty"`
	Message   string          `json:"message"`
	Retryable bool            `json:"retryable"`
	Event     json.RawMessage `json:"event,omitempty"`
}

// Encode marshals payload inside an envelope of the given kind. A nil payload
// produces a frame without data.
func Encode(kind Kind, payload any) ([]byte, error) {
	env := Envelope{Type: kind}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode %s payload: %w", kind, err)
		}
		env.Data = data
	}
	frame, err := json.Marshal(&env)
	if err != nil {
		return nil, fmt.Errorf("encode %s frame: %w", kind, err)
	}
	return frame, nil
}

// Decode parses the outer envelope. A frame that is not a JSON object with a
// type is Malformed.
func Decode(frame []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(frame, &env); err != nil {
		return nil, models.Wrap(models.ErrMalformed, err)
	}
	if env.Type == "" {
		return nil, models.WithMessage(models.ErrMalformed, "frame has no type")
	}
	return &env, nil
}

// DecodeLocationUpdate parses an updateLocation payload. Missing fields and
// payloads that do not decode both fail with IncompleteData.
func DecodeLocationUpdate(data json.RawMessage) (*LocationUpdate, error) {
	if len(data) == 0 {
		return nil, models.ErrIncompleteData
	}
	var u LocationUpdate
	if err := json.Unmarshal(data, &u); err != nil {
		return nil, models.Wrap(models.ErrIncompleteData, err)
	}
	if !u.Complete() {
		return nil, models.ErrIncompleteData
	}
	return &u, nil
}

// CodeFor maps an error to its NACK code.
func CodeFor(err error) string {
	switch models.KindOf(err) {
	case models.KindValidation:
		return CodeValidation
	case models.KindAuth:
		return CodeAuth
	case models.KindReferential:
		return CodeReferential
	case models.KindStorage:
		return CodeStorage
	default:
		return CodeInternal
	}
}

// RejectionFor builds a rejection from a taxonomy error, echoing event.
func RejectionFor(err error, event json.RawMessage) Rejection {
	msg := models.MessageOf(err)
	if msg == "" {
		msg = "internal error"
	}
	return Rejection{
		Code:      CodeFor(err),
		Reason:    models.ReasonOf(err),
		Message:   msg,
		Retryable: models.IsRetryable(err),
		Event:     event,
	}
}
