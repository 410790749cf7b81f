// SafarSafe - Tourist Safety Tracking and Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safarsafe

package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/safarsafe/internal/logging"
	"github.com/tomtom215/safarsafe/internal/models"
	"github.com/tomtom215/safarsafe/internal/validation"
)

// Error codes in response bodies.
const (
	CodeValidation  = "VALIDATION_ERROR"
	CodeAuth        = "AUTH_ERROR"
	CodeConflict    = "CONFLICT"
	CodeNotFound    = "NOT_FOUND"
	CodeStorage     = "STORAGE_ERROR"
	CodeReferential = "REFERENTIAL_ERROR"
	CodeInternal    = "INTERNAL_ERROR"
)

// sanitizeLogValue removes control characters from strings to prevent log injection attacks.
func sanitizeLogValue(s string) string {
	var result strings.Builder
	result.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			result.WriteString(fmt.Sprintf("\\x%02x", r))
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// respondJSON sends v as a JSON body with status.
func respondJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Debug().Err(err).Msg("Failed to write JSON response")
	}
}

// respondError sends {"error": message, "code": code}. err is logged, never
// sent to the client.
func respondError(w http.ResponseWriter, r *http.Request, status int, code, message string, err error) {
	if err != nil {
		ev := logging.Ctx(r.Context()).Info()
		if status >= http.StatusInternalServerError {
			ev = logging.Ctx(r.Context()).Error()
		}
		ev.Str("code", code).
			Int("status", status).
			Str("error", sanitizeLogValue(err.Error())).
			Msg("API error")
	}
	respondJSON(w, status, &ErrorResponse{Error: message, Code: code})
}

// respondDomainError maps a taxonomy error to its status and code. Storage and
// unclassified failures answer with fallback instead of the internal message.
func respondDomainError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status, code := statusFor(err)
	message := models.MessageOf(err)
	if message == "" || status >= http.StatusInternalServerError {
		message = fallback
	}

	var verr *validation.RequestValidationError
	if errors.As(err, &verr) {
		logging.Ctx(r.Context()).Debug().Err(err).Msg("request validation failed")
		respondJSON(w, status, &ErrorResponse{Error: message, Code: code, Fields: verr.Fields()})
		return
	}
	respondError(w, r, status, code, message, err)
}

func statusFor(err error) (int, string) {
	switch models.KindOf(err) {
	case models.KindValidation:
		return http.StatusBadRequest, CodeValidation
	case models.KindAuth:
		return http.StatusUnauthorized, CodeAuth
	case models.KindConflict:
		return http.StatusConflict, CodeConflict
	case models.KindNotFound:
		return http.StatusNotFound, CodeNotFound
	case models.KindReferential:
		return http.StatusUnprocessableEntity, CodeReferential
	case models.KindStorage:
		if errors.Is(err, models.ErrStorageTimeout) || errors.Is(err, models.ErrStorageUnavailable) {
			return http.StatusServiceUnavailable, CodeStorage
		}
		return http.StatusInternalServerError, CodeStorage
	default:
		return http.StatusInternalServerError, CodeInternal
	}
}

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 64 * 1024

// decodeJSON reads a JSON body into v. A body that is not a JSON object
// fails with Malformed.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return models.Wrap(models.ErrMalformed, err)
	}
	return nil
}
