// SafarSafe - Tourist Safety Tracking and Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safarsafe

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tomtom215/safarsafe/internal/auth"
	"github.com/tomtom215/safarsafe/internal/config"
	"github.com/tomtom215/safarsafe/internal/ingest"
	"github.com/tomtom215/safarsafe/internal/logging"
	"github.com/tomtom215/safarsafe/internal/models"
	"github.com/tomtom215/safarsafe/internal/tourist"
	ws "github.com/tomtom215/safarsafe/internal/websocket"
)

// TouristService is the account and history surface behind /api/tourist.
type TouristService interface {
	Register(ctx context.Context, input tourist.RegisterInput) (*models.Tourist, error)
	Login(ctx context.Context, input tourist.LoginInput) (*tourist.LoginResult, error)
	Logout(ctx context.Context, claims *auth.Claims) error
	Profile(ctx context.Context, touristID string) (*models.Tourist, error)
	History(ctx context.Context, touristID string, r models.TimeRange) ([]models.LocationRecord, error)
	Panics(ctx context.Context, touristID string) ([]models.PanicEvent, error)
}

// PanicTrigger broadcasts panic alerts.
type PanicTrigger interface {
	TriggerPanic(ctx context.Context, touristID string, p models.Point) (*ingest.PanicResult, error)
}

// CredentialVerifier checks the credential presented on a WebSocket upgrade.
type CredentialVerifier interface {
	Verify(ctx context.Context, credential string) (*auth.Claims, error)
}

// Pinger reports store reachability for the readiness probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Dependencies are the collaborators of a Handler.
type Dependencies struct {
	Config   *config.Config
	Tourists TouristService
	Panics   PanicTrigger
	Verifier CredentialVerifier
	Store    Pinger
	Hub      *ws.Hub
	// Frames handles inbound WebSocket frames.
	Frames ws.FrameHandler
}

// Handler contains dependencies for API handlers
//
// Handler methods are split across files:
//   - handlers_tourist.go: register, login, logout, profile
//   - handlers_panic.go: panic trigger and panic history
//   - handlers_history.go: location history as JSON or GeoJSON
//   - handlers_ws.go: real-time channel upgrade
//   - handlers_health.go: liveness and readiness probes
type Handler struct {
	config    *config.Config
	tourists  TouristService
	panics    PanicTrigger
	verifier  CredentialVerifier
	store     Pinger
	hub       *ws.Hub
	frames    ws.FrameHandler
	startTime time.Time
}

// NewHandler creates a Handler.
func NewHandler(deps Dependencies) *Handler {
	return &Handler{
		config:    deps.Config,
		tourists:  deps.Tourists,
		panics:    deps.Panics,
		verifier:  deps.Verifier,
		store:     deps.Store,
		hub:       deps.Hub,
		frames:    deps.Frames,
		startTime: time.Now(),
	}
}

// getUpgrader creates a WebSocket upgrader with origin checking and a
// handshake timeout.
func (h *Handler) getUpgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		CheckOrigin:      h.checkWebSocketOrigin,
		HandshakeTimeout: 10 * time.Second,
	}
}

// checkWebSocketOrigin validates WebSocket connection origins. Requests
// without an Origin header come from native apps and are allowed.
func (h *Handler) checkWebSocketOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}

	if h.config == nil {
		return true
	}

	for _, allowedOrigin := range h.config.Security.CORSOrigins {
		if allowedOrigin == "*" || allowedOrigin == origin {
			return true
		}
	}

	logging.Warn().Str("origin", sanitizeLogValue(origin)).Msg("WebSocket connection rejected from unauthorized origin")
	return false
}

// claimsOrUnauthorized returns the verified claims set by the auth
// middleware, answering 401 when they are missing.
func claimsOrUnauthorized(w http.ResponseWriter, r *http.Request) (*auth.Claims, bool) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok || claims.TouristID() == "" {
		respondError(w, r, http.StatusUnauthorized, CodeAuth, "Unauthorized", nil)
		return nil, false
	}
	return claims, true
}
