// SafarSafe - Tourist Safety Tracking and Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safarsafe

package api

import (
	"context"
	"net/http"
	"time"
)

const readinessTimeout = 2 * time.Second

// HealthLive handles liveness probe requests. It returns 200 while the
// process is serving.
//
// GET /api/health/live
//
// @Summary Liveness probe
// @Tags Core
// @Produce json
// @Success 200 {object} HealthResponse "Service is alive"
// @Router /api/health/live [get]
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, &HealthResponse{
		Status:      "alive",
		Connections: h.connections(),
		Uptime:      time.Since(h.startTime).Seconds(),
	})
}

// HealthReady handles readiness probe requests. It returns 503 when the
// location store does not answer a ping.
//
// GET /api/health/ready
//
// @Summary Readiness probe
// @Description Returns 503 when the location store does not answer a ping.
// @Tags Core
// @Produce json
// @Success 200 {object} HealthResponse "Service is ready"
// @Failure 503 {object} HealthResponse "Location store unreachable"
// @Router /api/health/ready [get]
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	dbConnected := h.store != nil && h.store.Ping(ctx) == nil

	statusCode := http.StatusOK
	resp := &HealthResponse{
		Status:      "ready",
		Database:    "connected",
		Connections: h.connections(),
		Uptime:      time.Since(h.startTime).Seconds(),
	}
	if !dbConnected {
		statusCode = http.StatusServiceUnavailable
		resp.Status = "not_ready"
		resp.Database = "unreachable"
	}
	respondJSON(w, statusCode, resp)
}

func (h *Handler) connections() int {
	if h.hub == nil {
		return 0
	}
	return h.hub.ClientCount()
}
