// SafarSafe - Tourist Safety Tracking and Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safarsafe

package tourist

import (
	"strings"

	"github.com/tomtom215/safarsafe/internal/models"
	"github.com/tomtom215/safarsafe/internal/validation"
)

// maxPasswordBytes is the longest input bcrypt hashes.
const maxPasswordBytes = 72

// RegisterInput holds the registration fields.
type RegisterInput struct {
	FullName string `json:"fullName" validate:"max=200"`
	Email    string `json:"email" validate:"email,max=254"`
	Password string `json:"password" validate:"max=72"`
}

func (i *RegisterInput) normalize() {
	i.FullName = strings.TrimSpace(i.FullName)
	i.Email = normalizeEmail(i.Email)
}

// Validate rejects missing fields with IncompleteData and malformed ones with
// the failed rules.
func (i *RegisterInput) Validate() error {
	if i.FullName == "" || i.Email == "" || i.Password == "" {
		return models.WithMessage(models.ErrIncompleteData, "Missing required fields")
	}
	if verr := validation.ValidateStruct(i); verr != nil {
		return verr
	}
	if len(i.Password) > maxPasswordBytes {
		return models.WithMessage(models.ErrValidation, "password must be at most 72 bytes")
	}
	return nil
}

// LoginInput holds the login fields.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
