// SafarSafe - Tourist Safety Tracking and Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safarsafe

package api

import (
	"net/http"

	"github.com/tomtom215/safarsafe/internal/models"
	"github.com/tomtom215/safarsafe/internal/tourist"
)

// Register creates a tourist account.
//
// POST /api/tourist/register
//
// @Summary Register a tourist
// @Description Creates a tourist account. fullName, email and password are required; the email must be unused.
// @Tags Tourist
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Account details"
// @Success 201 {object} RegisterResponse "Registration successful"
// @Failure 400 {object} ErrorResponse "Missing required fields"
// @Failure 409 {object} ErrorResponse "Email already registered"
// @Failure 500 {object} ErrorResponse "Registration failed"
// @Router /api/tourist/register [post]
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, CodeValidation, "Missing required fields", err)
		return
	}

	t, err := h.tourists.Register(r.Context(), tourist.RegisterInput{
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondDomainError(w, r, err, "Registration failed")
		return
	}

	respondJSON(w, http.StatusCreated, &RegisterResponse{
		Message:   "Registration successful",
		TouristID: t.ID,
	})
}

// Login exchanges an email and password for a bearer token.
//
// POST /api/tourist/login
//
// @Summary Log in
// @Description Exchanges an email and password for a bearer token.
// @Tags Tourist
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Credentials"
// @Success 200 {object} LoginResponse "Login successful"
// @Failure 400 {object} ErrorResponse "Invalid request body"
// @Failure 401 {object} ErrorResponse "Invalid credentials"
// @Router /api/tourist/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, CodeValidation, "Invalid request body", err)
		return
	}

	res, err := h.tourists.Login(r.Context(), tourist.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondDomainError(w, r, err, "Login failed")
		return
	}

	respondJSON(w, http.StatusOK, &LoginResponse{
		Message:   "Login successful",
		Token:     res.Token,
		ExpiresAt: res.Claims.Expiry(),
	})
}

// Logout revokes the presented token.
//
// POST /api/tourist/logout
//
// @Summary Log out
// @Description Revokes the presented bearer token until it expires.
// @Tags Tourist
// @Produce json
// @Security BearerAuth
// @Success 200 {object} MessageResponse "Logout successful"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Router /api/tourist/logout [post]
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsOrUnauthorized(w, r)
	if !ok {
		return
	}
	if err := h.tourists.Logout(r.Context(), claims); err != nil {
		respondDomainError(w, r, err, "Logout failed")
		return
	}
	respondJSON(w, http.StatusOK, &MessageResponse{Message: "Logout successful"})
}

// Profile returns the authenticated tourist.
//
// GET /api/tourist/profile
//
// @Summary Get profile
// @Description Returns the authenticated tourist.
// @Tags Tourist
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ProfileResponse "Tourist profile"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Profile not found"
// @Router /api/tourist/profile [get]
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsOrUnauthorized(w, r)
	if !ok {
		return
	}

	t, err := h.tourists.Profile(r.Context(), claims.TouristID())
	if err != nil {
		respondDomainError(w, r, err, "Failed to load profile")
		return
	}
	respondJSON(w, http.StatusOK, profileResponse(t))
}

func profileResponse(t *models.Tourist) *ProfileResponse {
	return &ProfileResponse{ID: t.ID, FullName: t.FullName, Email: t.Email}
}
