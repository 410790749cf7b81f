// SafarSafe - Tourist Safety Tracking and Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safarsafe

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/safarsafe/internal/models"
	"github.com/tomtom215/safarsafe/internal/validation"
)

const (
	formatJSON    = "json"
	formatGeoJSON = "geojson"
)

// Locations returns the authenticated tourist's location history, oldest
// first. from is inclusive, to is exclusive; both are optional RFC 3339
// timestamps. format=geojson answers with a FeatureCollection.
//
// GET /api/tourist/locations
//
// @Summary Location history
// @Description Returns the authenticated tourist's recorded locations in [from, to), oldest first.
// @Tags Tracking
// @Produce json
// @Produce application/geo+json
// @Security BearerAuth
// @Param from query string false "Inclusive lower bound (RFC 3339)"
// @Param to query string false "Exclusive upper bound (RFC 3339)"
// @Param format query string false "Response format" Enums(json, geojson)
// @Success 200 {object} HistoryResponse "Location history"
// @Failure 400 {object} ErrorResponse "Invalid query"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Router /api/tourist/locations [get]
func (h *Handler) Locations(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsOrUnauthorized(w, r)
	if !ok {
		return
	}

	q := HistoryQuery{
		From:   r.URL.Query().Get("from"),
		To:     r.URL.Query().Get("to"),
		Format: r.URL.Query().Get("format"),
	}
	if verr := validation.ValidateStruct(&q); verr != nil {
		respondDomainError(w, r, verr, "Invalid query parameters")
		return
	}

	rng, err := q.timeRange()
	if err != nil {
		respondDomainError(w, r, err, "Invalid query parameters")
		return
	}

	records, err := h.tourists.History(r.Context(), claims.TouristID(), rng)
	if err != nil {
		respondDomainError(w, r, err, "Failed to load location history")
		return
	}
	if records == nil {
		records = []models.LocationRecord{}
	}

	if q.Format == formatGeoJSON {
		respondGeoJSON(w, r, claims.TouristID(), records)
		return
	}
	respondJSON(w, http.StatusOK, &HistoryResponse{
		TouristID: claims.TouristID(),
		Count:     len(records),
		Records:   records,
	})
}

func (q *HistoryQuery) timeRange() (models.TimeRange, error) {
	var rng models.TimeRange
	var err error
	if q.From != "" {
		if rng.From, err = time.Parse(time.RFC3339, q.From); err != nil {
			return rng, models.Wrap(models.ErrValidation, err)
		}
	}
	if q.To != "" {
		if rng.To, err = time.Parse(time.RFC3339, q.To); err != nil {
			return rng, models.Wrap(models.ErrValidation, err)
		}
	}
	return rng, nil
}
