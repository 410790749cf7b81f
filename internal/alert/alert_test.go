// SafarSafe - Tourist Safety Tracking and Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safarsafe

package alert

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/safarsafe/internal/models"
)

func TestEncodeFrameShape(t *testing.T) {
	frame, err := Encode(KindLocationChange, LocationChange{TouristID: "t1", Latitude: 12.5, Longitude: -3.25})
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(frame, &raw); err != nil {
		t.Fatalf("frame is not JSON: %v", err)
	}
	if raw["type"] != "tourist-location-change" {
		t.Errorf("type = %v, want tourist-location-change", raw["type"])
	}
	data, ok := raw["data"].(map[string]any)
	if !ok {
		t.Fatalf("data = %T, want object", raw["data"])
	}
	if data["touristId"] != "t1" || data["latitude"] != 12.5 || data["longitude"] != -3.25 {
		t.Errorf("data = %v", data)
	}
}

func TestEncodeWithoutPayload(t *testing.T) {
	frame, err := Encode(KindPong, nil)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if string(frame) != `{"type":"pong"}` {
		t.Errorf("frame = %s, want {\"type\":\"pong\"}", frame)
	}
}

func TestNewPanicAlert(t *testing.T) {
	ts := time.Date(2026, 3, 4, 5, 6, 7, 0, time.FixedZone("IST", 19800))
	p := NewPanicAlert("t1", models.Point{Latitude: 28.6, Longitude: 77.2}, ts)

	frame, _ := Encode(KindPanicAlert, p)
	want := `{"type":"new-panic-alert","data":{"touristId":"t1","location":{"latitude":28.6,"longitude":77.2},"timestamp":"2026-03-03T23:36:07Z"}}`
	if string(frame) != want {
		t.Errorf("frame =\n%s\nwant\n%s", frame, want)
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		frame   string
		want    Kind
		wantErr bool
	}{
		{"update", `{"type":"updateLocation","data":{"touristId":"a"}}`, KindUpdateLocation, false},
		{"ping", `{"type":"ping"}`, KindPing, false},
		{"not json", `hello`, "", true},
		{"array", `[1,2]`, "", true},
		{"no type", `{"data":{}}`, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, err := Decode([]byte(tt.frame))
			if tt.wantErr {
				if !errors.Is(err, models.ErrMalformed) {
					t.Errorf("Decode() error = %v, want ErrMalformed", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if env.Type != tt.want {
				t.Errorf("Type = %q, want %q", env.Type, tt.want)
			}
		})
	}
}

func TestDecodeLocationUpdate(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr bool
	}{
		{"complete", `{"touristId":"a","latitude":1.5,"longitude":2.5}`, false},
		{"zero coordinates are present", `{"touristId":"a","latitude":0,"longitude":0}`, false},
		{"missing latitude", `{"touristId":"a","longitude":2.5}`, true},
		{"missing longitude", `{"touristId":"a","latitude":1.5}`, true},
		{"missing touristId", `{"latitude":1.5,"longitude":2.5}`, true},
		{"empty touristId", `{"touristId":"","latitude":1.5,"longitude":2.5}`, true},
		{"null latitude", `{"touristId":"a","latitude":null,"longitude":2.5}`, true},
		{"string latitude", `{"touristId":"a","latitude":"north","longitude":2.5}`, true},
		{"empty", ``, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := DecodeLocationUpdate(json.RawMessage(tt.data))
			if tt.wantErr {
				if !errors.Is(err, models.ErrIncompleteData) {
					t.Errorf("DecodeLocationUpdate() error = %v, want ErrIncompleteData", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodeLocationUpdate() error = %v", err)
			}
			if *u.TouristID != "a" {
				t.Errorf("TouristID = %q", *u.TouristID)
			}
		})
	}
}

func TestRejectionFor(t *testing.T) {
	event := json.RawMessage(`{"touristId":"a"}`)
	tests := []struct {
		err       error
		code      string
		reason    string
		retryable bool
	}{
		{models.ErrIncompleteData, CodeValidation, models.ReasonIncompleteData, false},
		{models.ErrInvalidPoint, CodeValidation, models.ReasonInvalidPoint, false},
		{models.ErrIdentityMismatch, CodeAuth, models.ReasonIdentityMismatch, false},
		{models.ErrUnknownTourist, CodeReferential, models.ReasonUnknownTourist, false},
		{models.Wrap(models.ErrStorageTimeout, errors.New("deadline")), CodeStorage, models.ReasonStorageTimeout, true},
		{models.ErrStorageUnavailable, CodeStorage, models.ReasonStorageUnavailable, true},
		{errors.New("boom"), CodeInternal, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.code+"/"+tt.reason, func(t *testing.T) {
			r := RejectionFor(tt.err, event)
			if r.Code != tt.code || r.Reason != tt.reason || r.Retryable != tt.retryable {
				t.Errorf("RejectionFor() = %+v, want code %s reason %s retryable %v", r, tt.code, tt.reason, tt.retryable)
			}
			if r.Message == "" || strings.Contains(r.Message, "deadline") {
				t.Errorf("Message = %q, want taxonomy message without cause", r.Message)
			}
			if string(r.Event) != string(event) {
				t.Errorf("Event = %s, want echo", r.Event)
			}
		})
	}
}
