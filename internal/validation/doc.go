// SafarSafe - Tourist Safety Tracking and Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safarsafe

// Package validation validates request schemas with go-playground/validator v10.
//
// A single validator instance is built once and reused; it caches struct
// metadata and is safe for concurrent use. Errors name fields by their json
// tag, and a *RequestValidationError unwraps to models.ErrValidation so the
// HTTP layer maps it to 400 without a special case.
//
// Custom tags:
//   - rfc3339: empty or an RFC 3339 timestamp
//
// Example:
//
//	type RegisterRequest struct {
//	    FullName string `json:"fullName" validate:"required,max=200"`
//	    Email    string `json:"email" validate:"required,email,max=254"`
//	    Password string `json:"password" validate:"required,max=72"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    // verr.Fields() lists each failed rule
//	}
package validation
