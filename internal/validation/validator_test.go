// SafarSafe - Tourist Safety Tracking and Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safarsafe

package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/tomtom215/safarsafe/internal/models"
)

func TestGetValidator_Singleton(t *testing.T) {
	v1 := GetValidator()
	v2 := GetValidator()

	if v1 != v2 {
		t.Error("GetValidator() should return the same singleton instance")
	}
	if v1 == nil {
		t.Error("GetValidator() should not return nil")
	}
}

type signup struct {
	FullName string `json:"fullName" validate:"required,max=20"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,max=72"`
	Since    string `json:"since" validate:"rfc3339"`
	Internal string `json:"-" validate:"omitempty,max=1"`
}

func validSignup() signup {
	return signup{FullName: "Ada Lovelace", Email: "ada@example.com", Password: "engine42"}
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*signup)
		wantField string
		wantTag   string
		wantMsg   string
	}{
		{name: "valid", mutate: func(*signup) {}},
		{
			name:      "missing name",
			mutate:    func(s *signup) { s.FullName = "" },
			wantField: "fullName",
			wantTag:   "required",
			wantMsg:   "fullName is required",
		},
		{
			name:      "name too long",
			mutate:    func(s *signup) { s.FullName = strings.Repeat("x", 21) },
			wantField: "fullName",
			wantTag:   "max",
			wantMsg:   "fullName must be at most 20 characters",
		},
		{
			name:      "bad email",
			mutate:    func(s *signup) { s.Email = "not-an-email" },
			wantField: "email",
			wantTag:   "email",
			wantMsg:   "email must be a valid email address",
		},
		{
			name:   "one character password",
			mutate: func(s *signup) { s.Password = "p" },
		},
		{
			name:      "password over bcrypt limit",
			mutate:    func(s *signup) { s.Password = strings.Repeat("p", 73) },
			wantField: "password",
			wantTag:   "max",
			wantMsg:   "password must be at most 72 characters",
		},
		{
			name:   "rfc3339 accepted",
			mutate: func(s *signup) { s.Since = "2026-01-02T03:04:05Z" },
		},
		{
			name:      "rfc3339 rejected",
			mutate:    func(s *signup) { s.Since = "yesterday" },
			wantField: "since",
			wantTag:   "rfc3339",
			wantMsg:   "since must be an RFC 3339 timestamp",
		},
		{
			name:      "field without json name",
			mutate:    func(s *signup) { s.Internal = "toolong" },
			wantField: "Internal",
			wantTag:   "max",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSignup()
			tt.mutate(&s)

			verr := ValidateStruct(&s)
			if tt.wantTag == "" {
				if verr != nil {
					t.Fatalf("ValidateStruct() = %v, want nil", verr)
				}
				return
			}
			if verr == nil {
				t.Fatal("ValidateStruct() = nil, want error")
			}
			fields := verr.Fields()
			if len(fields) != 1 {
				t.Fatalf("Fields() = %+v, want one failure", fields)
			}
			if fields[0].Field != tt.wantField || fields[0].Tag != tt.wantTag {
				t.Errorf("failure = %s/%s, want %s/%s", fields[0].Field, fields[0].Tag, tt.wantField, tt.wantTag)
			}
			if tt.wantMsg != "" && fields[0].Message != tt.wantMsg {
				t.Errorf("message = %q, want %q", fields[0].Message, tt.wantMsg)
			}
		})
	}
}

func TestValidateStruct_MultipleErrors(t *testing.T) {
	verr := ValidateStruct(&signup{})
	if verr == nil {
		t.Fatal("ValidateStruct() = nil, want error")
	}
	if got := len(verr.Fields()); got != 3 {
		t.Errorf("len(Fields()) = %d, want 3", got)
	}
	if !strings.Contains(verr.Error(), "; ") {
		t.Errorf("Error() = %q, want joined messages", verr.Error())
	}
}

func TestRequestValidationError_IsValidationKind(t *testing.T) {
	verr := ValidateStruct(&signup{})
	var err error = verr

	if !errors.Is(err, models.ErrValidation) {
		t.Error("errors.Is(verr, ErrValidation) = false")
	}
	if models.KindOf(err) != models.KindValidation {
		t.Errorf("KindOf() = %v, want validation", models.KindOf(err))
	}
	if models.MessageOf(err) != verr.Error() {
		t.Errorf("MessageOf() = %q, want %q", models.MessageOf(err), verr.Error())
	}
}

func TestValidateStruct_NotAStruct(t *testing.T) {
	verr := ValidateStruct("plain string")
	if verr == nil || verr.Fields()[0].Field != "unknown" {
		t.Errorf("ValidateStruct(string) = %v, want unknown-field error", verr)
	}
}
