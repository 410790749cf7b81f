// SafarSafe - Tourist Safety Tracking and Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safarsafe

package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/safarsafe/internal/logging"
	"github.com/tomtom215/safarsafe/internal/models"
)

type contextKey string

// ClaimsContextKey is the request context key holding *Claims.
const ClaimsContextKey contextKey = "claims"

// errInvalidHeader is returned for an Authorization header that is present
// but not of the form "Bearer <token>".
var errInvalidHeader = errors.New("invalid authorization header")

// ContextWithClaims returns ctx carrying claims.
func ContextWithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, ClaimsContextKey, claims)
}

// ClaimsFromContext returns the claims placed by Authenticate.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(ClaimsContextKey).(*Claims)
	return claims, ok && claims != nil
}

// BearerToken extracts the token from the Authorization header. It returns
// "" with no error when the header is absent.
func BearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", nil
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", errInvalidHeader
	}
	return strings.TrimSpace(parts[1]), nil
}

// UpgradeToken extracts the credential of a WebSocket upgrade request: the
// Authorization header first, then the token query parameter, since browsers
// cannot set headers on a WebSocket handshake.
func UpgradeToken(r *http.Request) (string, error) {
	token, err := BearerToken(r)
	if err != nil || token != "" {
		return token, err
	}
	return r.URL.Query().Get("token"), nil
}

// Middleware enforces bearer authentication on HTTP routes.
type Middleware struct {
	gate *Gate
}

// NewMiddleware creates the authentication middleware
func NewMiddleware(gate *Gate) *Middleware {
	return &Middleware{gate: gate}
}

// Authenticate rejects requests without a valid bearer token with 401 and
// otherwise stores the claims in the request context.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := BearerToken(r)
		if err != nil {
			writeUnauthorized(w, "Unauthorized: invalid authorization header")
			return
		}

		claims, err := m.gate.Verify(r.Context(), token)
		if err != nil {
			msg := "Unauthorized: invalid token"
			if token == "" {
				msg = "Unauthorized: missing token"
			} else if models.MessageOf(err) == "token revoked" {
				msg = "Unauthorized: token revoked"
			}
			writeUnauthorized(w, msg)
			return
		}

		ctx := ContextWithClaims(r.Context(), claims)
		ctx = logging.ContextWithTouristID(ctx, claims.TouristID())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func writeUnauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", `Bearer realm="safarsafe"`)
	w.WriteHeader(http.StatusUnauthorized)
	//nolint:errcheck // response already committed
	json.NewEncoder(w).Encode(map[string]string{
		"error": msg,
		"code":  "AUTH_ERROR",
	})
}
