// SafarSafe - Tourist Safety Tracking and Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safarsafe

package models

import (
	"errors"
	"fmt"
	"math"
	"testing"
	"time"
)

func TestPointValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		point Point
		valid bool
	}{
		{"origin", Point{0, 0}, true},
		{"bangalore", Point{12.9, 77.6}, true},
		{"north pole", Point{90, 0}, true},
		{"south pole antimeridian", Point{-90, -180}, true},
		{"east antimeridian", Point{0, 180}, true},
		{"latitude above range", Point{90.0001, 0}, false},
		{"latitude below range", Point{-91, 0}, false},
		{"longitude above range", Point{0, 180.5}, false},
		{"longitude below range", Point{0, -181}, false},
		{"nan latitude", Point{math.NaN(), 0}, false},
		{"infinite longitude", Point{0, math.Inf(1)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.point.Validate()
			if tt.valid && err != nil {
				t.Fatalf("Validate() error = %v, want nil", err)
			}
			if !tt.valid {
				if !errors.Is(err, ErrInvalidPoint) {
					t.Fatalf("Validate() error = %v, want ErrInvalidPoint", err)
				}
				if KindOf(err) != KindValidation {
					t.Errorf("KindOf() = %v, want validation", KindOf(err))
				}
			}
		})
	}
}

func TestErrorMatching(t *testing.T) {
	t.Parallel()

	cause := errors.New("deadline exceeded")
	err := fmt.Errorf("append location: %w", Wrap(ErrStorageTimeout, cause))

	if !errors.Is(err, ErrStorageTimeout) {
		t.Error("errors.Is(err, ErrStorageTimeout) = false, want true")
	}
	if errors.Is(err, ErrStorage) {
		t.Error("errors.Is(err, ErrStorage) = true, want false (different reason)")
	}
	if !errors.Is(err, &Error{Kind: KindStorage}) {
		t.Error("errors.Is with kind-only target = false, want true")
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
	if KindOf(err) != KindStorage {
		t.Errorf("KindOf() = %v, want storage", KindOf(err))
	}
	if ReasonOf(err) != ReasonStorageTimeout {
		t.Errorf("ReasonOf() = %q, want %q", ReasonOf(err), ReasonStorageTimeout)
	}
	if !IsRetryable(err) {
		t.Error("IsRetryable() = false, want true")
	}
	if MessageOf(err) != "storage timeout" {
		t.Errorf("MessageOf() = %q, want storage timeout", MessageOf(err))
	}
}

func TestWrapDoesNotMutateSentinel(t *testing.T) {
	t.Parallel()

	_ = Wrap(ErrUnknownTourist, errors.New("fk violation"))
	_ = WithMessage(ErrUnknownTourist, "tourist t-1 does not exist")

	if ErrUnknownTourist.Cause != nil {
		t.Error("Wrap mutated the sentinel cause")
	}
	if ErrUnknownTourist.Message != "unknown tourist" {
		t.Errorf("WithMessage mutated the sentinel message: %q", ErrUnknownTourist.Message)
	}
}

func TestKindOfForeignError(t *testing.T) {
	t.Parallel()

	err := errors.New("plain")
	if KindOf(err) != KindUnknown {
		t.Errorf("KindOf(plain) = %v, want unknown", KindOf(err))
	}
	if IsRetryable(err) {
		t.Error("IsRetryable(plain) = true, want false")
	}
}

func TestTimeRange(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	r := TimeRange{From: base, To: base.Add(time.Hour)}

	if !r.Contains(base) {
		t.Error("range should contain its start")
	}
	if r.Contains(base.Add(time.Hour)) {
		t.Error("range should not contain its end")
	}
	if r.Contains(base.Add(-time.Nanosecond)) {
		t.Error("range should not contain times before start")
	}
	if !(TimeRange{}).Contains(base) {
		t.Error("open range should contain everything")
	}
	if err := (TimeRange{From: base, To: base}).Validate(); !errors.Is(err, ErrValidation) {
		t.Errorf("empty range Validate() = %v, want validation error", err)
	}
	if err := r.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
}

func TestStoreTime(t *testing.T) {
	t.Parallel()

	in := time.Date(2026, 3, 1, 12, 0, 0, 123456789, time.FixedZone("IST", 5*3600+1800))
	got := StoreTime(in)
	if got.Location() != time.UTC {
		t.Errorf("StoreTime location = %v, want UTC", got.Location())
	}
	if got.Nanosecond() != 123456000 {
		t.Errorf("StoreTime nanos = %d, want 123456000", got.Nanosecond())
	}
	if !got.Equal(in.Truncate(time.Microsecond)) {
		t.Error("StoreTime changed the instant")
	}
}
