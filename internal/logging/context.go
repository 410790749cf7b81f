// SafarSafe - Tourist Safety Tracking and Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safarsafe

package logging

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type contextKey string

const (
	correlationIDKey contextKey = "correlation_id"
	requestIDKey     contextKey = "request_id"
	connectionIDKey  contextKey = "connection_id"
	touristIDKey     contextKey = "tourist_id"
)

// GenerateCorrelationID returns the first 8 characters of a random UUID.
func GenerateCorrelationID() string {
	return uuid.New().String()[:8]
}

// GenerateRequestID returns a full random UUID.
func GenerateRequestID() string {
	return uuid.New().String()
}

func ContextWithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey, id)
}

// ContextWithNewCorrelationID attaches a freshly generated correlation ID.
func ContextWithNewCorrelationID(ctx context.Context) context.Context {
	return ContextWithCorrelationID(ctx, GenerateCorrelationID())
}

// CorrelationIDFromContext returns "" when no correlation ID is set.
func CorrelationIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(correlationIDKey).(string); ok {
		return id
	}
	return ""
}

func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext returns "" when no request ID is set.
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// ContextWithConnectionID tags a context with a real-time connection id so
// events logged while handling that connection's frames can be correlated.
func ContextWithConnectionID(ctx context.Context, id uint64) context.Context {
	return context.WithValue(ctx, connectionIDKey, id)
}

// ConnectionIDFromContext returns 0 when no connection ID is set.
func ConnectionIDFromContext(ctx context.Context) uint64 {
	if id, ok := ctx.Value(connectionIDKey).(uint64); ok {
		return id
	}
	return 0
}

// ContextWithTouristID tags a context with the authenticated tourist.
func ContextWithTouristID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, touristIDKey, id)
}

// TouristIDFromContext returns "" when no tourist ID is set.
func TouristIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(touristIDKey).(string); ok {
		return id
	}
	return ""
}

// Ctx returns the global logger enriched with the IDs found in ctx.
//
//	logging.Ctx(ctx).Info().Msg("Processing request")
func Ctx(ctx context.Context) *zerolog.Logger {
	l := CtxWith(ctx).Logger()
	return &l
}

// CtxWith returns a logger context pre-populated from ctx, for callers that
// want to add more fields before building the logger.
func CtxWith(ctx context.Context) zerolog.Context {
	logCtx := With()
	if id := CorrelationIDFromContext(ctx); id != "" {
		logCtx = logCtx.Str("correlation_id", id)
	}
	if id := RequestIDFromContext(ctx); id != "" {
		logCtx = logCtx.Str("request_id", id)
	}
	if id := ConnectionIDFromContext(ctx); id != 0 {
		logCtx = logCtx.Uint64("connection_id", id)
	}
	if id := TouristIDFromContext(ctx); id != "" {
		logCtx = logCtx.Str("tourist_id", id)
	}
	return logCtx
}
