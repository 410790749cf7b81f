// SafarSafe - Tourist Safety Tracking and Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safarsafe

package middleware

import (
	"context"
	"net/http"

	"github.com/tomtom215/safarsafe/internal/logging"
)

const (
	RequestIDHeader     = "X-Request-ID"
	CorrelationIDHeader = "X-Correlation-ID"

	// maxInboundIDLength bounds ids accepted from upstream proxies.
	maxInboundIDLength = 128
)

// RequestID reuses or generates a request id and a correlation id, echoes
// both in response headers and puts them in the logging context.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := inboundID(r.Header.Get(RequestIDHeader))
		if requestID == "" {
			requestID = logging.GenerateRequestID()
		}
		correlationID := inboundID(r.Header.Get(CorrelationIDHeader))
		if correlationID == "" {
			correlationID = logging.GenerateCorrelationID()
		}

		w.Header().Set(RequestIDHeader, requestID)
		w.Header().Set(CorrelationIDHeader, correlationID)

		ctx := logging.ContextWithRequestID(r.Context(), requestID)
		ctx = logging.ContextWithCorrelationID(ctx, correlationID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestID extracts the request ID from context
func GetRequestID(ctx context.Context) string {
	return logging.RequestIDFromContext(ctx)
}

// inboundID drops ids that are too long or contain control characters.
func inboundID(id string) string {
	if len(id) > maxInboundIDLength {
		return ""
	}
	for i := 0; i < len(id); i++ {
		if id[i] < 0x20 || id[i] == 0x7F {
			return ""
		}
	}
	return id
}
