// SafarSafe - Tourist Safety Tracking and Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safarsafe

package api

import (
	"net/http"

	"github.com/tomtom215/safarsafe/internal/models"
)

// Panic broadcasts a new-panic-alert to every real-time connection.
//
// POST /api/tourist/panic
//
// @Summary Raise a panic alert
// @Description Broadcasts new-panic-alert with the submitted location to every real-time connection and records the event.
// @Tags Alerts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body PanicRequest true "Current location"
// @Success 200 {object} PanicResponse "Panic alert sent successfully"
// @Failure 400 {object} ErrorResponse "Location data is required"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 422 {object} ErrorResponse "Unknown tourist"
// @Router /api/tourist/panic [post]
func (h *Handler) Panic(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsOrUnauthorized(w, r)
	if !ok {
		return
	}

	var req PanicRequest
	if err := decodeJSON(w, r, &req); err != nil || req.Latitude == nil || req.Longitude == nil {
		respondError(w, r, http.StatusBadRequest, CodeValidation, "Location data is required", err)
		return
	}

	res, err := h.panics.TriggerPanic(r.Context(), claims.TouristID(), models.Point{
		Latitude:  *req.Latitude,
		Longitude: *req.Longitude,
	})
	if err != nil {
		respondDomainError(w, r, err, "Failed to send panic alert")
		return
	}

	respondJSON(w, http.StatusOK, &PanicResponse{
		Message:   "Panic alert sent successfully",
		Timestamp: res.Event.TriggeredAt,
		Delivered: res.Delivered,
	})
}

// PanicHistory lists the authenticated tourist's audited panic events.
//
// GET /api/tourist/panics
//
// @Summary List panic events
// @Description Lists the authenticated tourist's recorded panic alerts, oldest first.
// @Tags Alerts
// @Produce json
// @Security BearerAuth
// @Success 200 {object} PanicsResponse "Panic events"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Router /api/tourist/panics [get]
func (h *Handler) PanicHistory(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsOrUnauthorized(w, r)
	if !ok {
		return
	}

	events, err := h.tourists.Panics(r.Context(), claims.TouristID())
	if err != nil {
		respondDomainError(w, r, err, "Failed to load panic history")
		return
	}
	if events == nil {
		events = []models.PanicEvent{}
	}
	respondJSON(w, http.StatusOK, &PanicsResponse{
		TouristID: claims.TouristID(),
		Count:     len(events),
		Events:    events,
	})
}
