// SafarSafe - Tourist Safety Tracking and Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safarsafe

package api

import (
	"context"
	"net/http"

	"github.com/tomtom215/safarsafe/internal/auth"
	"github.com/tomtom215/safarsafe/internal/logging"
	ws "github.com/tomtom215/safarsafe/internal/websocket"
)

// WebSocket upgrades a request to the real-time channel. A credential is
// taken from the Authorization header or the token query parameter; a
// presented credential must verify. Connections without one join as
// anonymous observers when observers are allowed.
//
// GET /ws
//
// @Summary Real-time channel
// @Description Upgrades to a WebSocket carrying updateLocation in and tourist-location-change, new-panic-alert and location-rejected out. A credential is optional.
// @Tags Realtime
// @Param token query string false "Bearer token"
// @Success 101 "Switching protocols"
// @Failure 401 {object} ErrorResponse "Invalid credential"
// @Failure 403 "Origin not allowed"
// @Router /ws [get]
func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	if h.hub == nil {
		logging.Warn().Msg("WebSocket connection rejected: hub not initialized")
		respondError(w, r, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "WebSocket service unavailable", nil)
		return
	}

	identity, ok := h.upgradeIdentity(w, r)
	if !ok {
		return
	}

	upgrader := h.getUpgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("WebSocket upgrade error")
		return
	}

	client := ws.NewClient(h.hub, conn, h.frames, h.clientOptions(identity))
	if err := h.hub.Admit(client); err != nil {
		logging.Ctx(r.Context()).Info().Err(err).Msg("WebSocket connection not admitted")
		_ = conn.Close()
		return
	}
	client.Start(context.WithoutCancel(r.Context()))
}

// upgradeIdentity resolves the tourist id of an upgrade request, or "" for
// an observer. It answers 401 and returns false when the request may not
// connect.
func (h *Handler) upgradeIdentity(w http.ResponseWriter, r *http.Request) (string, bool) {
	token, err := auth.UpgradeToken(r)
	if err != nil {
		respondError(w, r, http.StatusUnauthorized, CodeAuth, "Unauthorized: invalid authorization header", err)
		return "", false
	}

	if token == "" {
		if h.config != nil && !h.config.Realtime.AllowObservers {
			respondError(w, r, http.StatusUnauthorized, CodeAuth, "Unauthorized: missing token", nil)
			return "", false
		}
		return "", true
	}

	claims, err := h.verifier.Verify(r.Context(), token)
	if err != nil {
		respondError(w, r, http.StatusUnauthorized, CodeAuth, "Unauthorized: invalid token", err)
		return "", false
	}
	return claims.TouristID(), true
}

func (h *Handler) clientOptions(identity string) ws.ClientOptions {
	opts := ws.ClientOptions{Identity: identity}
	if h.config != nil {
		rt := h.config.Realtime
		opts.SendBuffer = rt.SendBuffer
		opts.MaxMessageSize = rt.MaxMessageSize
		opts.InboundRate = rt.InboundRate
		opts.InboundBurst = rt.InboundBurst
	}
	return opts
}
