// SafarSafe - Tourist Safety Tracking and Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safarsafe

package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/safarsafe/internal/alert"
	"github.com/tomtom215/safarsafe/internal/models"
)

func TestRegister(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/tourist/register", RegisterRequest{
		FullName: "Asha Traveller",
		Email:    "Asha@Example.com",
		Password: "passw0rd!",
	}, "")
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp RegisterResponse
	decode(t, w, &resp)
	if resp.Message != "Registration successful" {
		t.Errorf("message = %q", resp.Message)
	}
	if resp.TouristID == "" {
		t.Error("touristId is empty")
	}

	t.Run("duplicate email", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/tourist/register", RegisterRequest{
			FullName: "Someone Else",
			Email:    "asha@example.com",
			Password: "an0therpass",
		}, "")
		expectError(t, w, http.StatusConflict, "Email already registered")
	})
}

func TestRegister_Errors(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name    string
		body    any
		status  int
		message string
	}{
		{"missing full name", RegisterRequest{Email: "a@example.com", Password: "passw0rd!"}, http.StatusBadRequest, "Missing required fields"},
		{"missing password", RegisterRequest{FullName: "A", Email: "a@example.com"}, http.StatusBadRequest, "Missing required fields"},
		{"empty object", map[string]string{}, http.StatusBadRequest, "Missing required fields"},
		{"not json", "{nope", http.StatusBadRequest, "Missing required fields"},
		{"bad email", RegisterRequest{FullName: "A", Email: "not-an-email", Password: "passw0rd!"}, http.StatusBadRequest, ""},
		{"password over bcrypt limit", RegisterRequest{FullName: "A", Email: "b@example.com", Password: strings.Repeat("p", 73)}, http.StatusBadRequest, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodPost, "/api/tourist/register", tt.body, "")
			expectError(t, w, tt.status, tt.message)
		})
	}
}

func TestRegister_ValidationFields(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/tourist/register", RegisterRequest{
		FullName: "A",
		Email:    "not-an-email",
		Password: strings.Repeat("p", 73),
	}, "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
	var resp ErrorResponse
	decode(t, w, &resp)
	if len(resp.Fields) != 2 {
		t.Fatalf("fields = %+v, want email and password", resp.Fields)
	}
}

// TestRegisterLoginPanic walks the basic tourist flow with the smallest
// accepted credentials: register, log in, then raise a panic that an
// anonymous observer receives.
func TestRegisterLoginPanic(t *testing.T) {
	env := newTestEnv(t)
	srv := httptest.NewServer(env.router)
	t.Cleanup(srv.Close)

	w := env.do(t, http.MethodPost, "/api/tourist/register",
		`{"fullName":"A","email":"a@x.com","password":"p"}`, "")
	if w.Code != http.StatusCreated {
		t.Fatalf("register status = %d, body = %s", w.Code, w.Body.String())
	}
	var reg RegisterResponse
	decode(t, w, &reg)
	if _, err := uuid.Parse(reg.TouristID); err != nil {
		t.Fatalf("touristId %q is not a UUID: %v", reg.TouristID, err)
	}

	w = env.do(t, http.MethodPost, "/api/tourist/login", `{"email":"a@x.com","password":"p"}`, "")
	if w.Code != http.StatusOK {
		t.Fatalf("login status = %d, body = %s", w.Code, w.Body.String())
	}
	var login LoginResponse
	decode(t, w, &login)
	if login.Message != "Login successful" || login.Token == "" {
		t.Fatalf("login = %+v", login)
	}

	observer := dial(t, srv, "")
	waitForClients(t, env, 1)

	w = env.do(t, http.MethodPost, "/api/tourist/panic", `{"latitude":12.9,"longitude":77.6}`, login.Token)
	if w.Code != http.StatusOK {
		t.Fatalf("panic status = %d, body = %s", w.Code, w.Body.String())
	}
	var ack PanicResponse
	decode(t, w, &ack)
	if ack.Message != "Panic alert sent successfully" {
		t.Errorf("panic message = %q", ack.Message)
	}

	frame := readUntil(t, observer, alert.KindPanicAlert)
	var payload alert.PanicAlert
	if err := json.Unmarshal(frame.Data, &payload); err != nil {
		t.Fatalf("decode panic alert: %v", err)
	}
	if payload.TouristID != reg.TouristID {
		t.Errorf("touristId = %q, want %q", payload.TouristID, reg.TouristID)
	}
	if payload.Location.Latitude != 12.9 || payload.Location.Longitude != 77.6 {
		t.Errorf("location = %+v, want {12.9 77.6}", payload.Location)
	}
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	touristID, token := env.registerAndLogin(t, "login@example.com")

	claims, err := env.gate.Verify(context.Background(), token)
	if err != nil {
		t.Fatalf("Verify(token) error = %v", err)
	}
	if claims.TouristID() != touristID {
		t.Errorf("token subject = %q, want %q", claims.TouristID(), touristID)
	}
}

func TestLogin_Errors(t *testing.T) {
	env := newTestEnv(t)
	env.registerAndLogin(t, "known@example.com")

	tests := []struct {
		name    string
		body    any
		status  int
		message string
	}{
		{"wrong password", LoginRequest{Email: "known@example.com", Password: "wrongpass1"}, http.StatusUnauthorized, "Invalid credentials"},
		{"unknown email", LoginRequest{Email: "nobody@example.com", Password: "passw0rd!"}, http.StatusUnauthorized, "Invalid credentials"},
		{"missing password", LoginRequest{Email: "known@example.com"}, http.StatusUnauthorized, "Invalid credentials"},
		{"malformed body", "[1,2", http.StatusBadRequest, "Invalid request body"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodPost, "/api/tourist/login", tt.body, "")
			expectError(t, w, tt.status, tt.message)
		})
	}
}

func TestProfile(t *testing.T) {
	env := newTestEnv(t)
	touristID, token := env.registerAndLogin(t, "profile@example.com")

	w := env.do(t, http.MethodGet, "/api/tourist/profile", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp ProfileResponse
	decode(t, w, &resp)
	if resp.ID != touristID || resp.Email != "profile@example.com" || resp.FullName != "Test Tourist" {
		t.Errorf("profile = %+v", resp)
	}
	if strings.Contains(w.Body.String(), "password") {
		t.Errorf("profile leaks password material: %s", w.Body.String())
	}
}

func TestProfile_Unauthorized(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name  string
		token string
	}{
		{"no token", ""},
		{"garbage token", "not-a-jwt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodGet, "/api/tourist/profile", nil, tt.token)
			expectError(t, w, http.StatusUnauthorized, "")
		})
	}
}

func TestProfile_DeletedTourist(t *testing.T) {
	env := newTestEnv(t)

	// A valid token for an id the store has never seen.
	token, _, err := env.gate.Issue("00000000-0000-0000-0000-000000000000")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	w := env.do(t, http.MethodGet, "/api/tourist/profile", nil, token)
	expectError(t, w, http.StatusNotFound, "Profile not found")
}

func TestLogout_RevokesToken(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.registerAndLogin(t, "logout@example.com")

	w := env.do(t, http.MethodPost, "/api/tourist/logout", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("logout status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp MessageResponse
	decode(t, w, &resp)
	if resp.Message != "Logout successful" {
		t.Errorf("message = %q", resp.Message)
	}

	w = env.do(t, http.MethodGet, "/api/tourist/profile", nil, token)
	expectError(t, w, http.StatusUnauthorized, "Unauthorized: token revoked")
}

func TestPanic(t *testing.T) {
	env := newTestEnv(t)
	touristID, token := env.registerAndLogin(t, "panic@example.com")

	w := env.do(t, http.MethodPost, "/api/tourist/panic", map[string]float64{"latitude": 27.1751, "longitude": 78.0421}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp PanicResponse
	decode(t, w, &resp)
	if resp.Message != "Panic alert sent successfully" {
		t.Errorf("message = %q", resp.Message)
	}

	w = env.do(t, http.MethodGet, "/api/tourist/panics", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("panics status = %d", w.Code)
	}
	var history PanicsResponse
	decode(t, w, &history)
	if history.Count != 1 || history.Events[0].TouristID != touristID {
		t.Errorf("panic history = %+v", history)
	}
}

func TestPanic_Errors(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.registerAndLogin(t, "panic-errors@example.com")

	tests := []struct {
		name    string
		body    any
		status  int
		message string
	}{
		{"missing latitude", map[string]float64{"longitude": 10}, http.StatusBadRequest, "Location data is required"},
		{"missing both", map[string]float64{}, http.StatusBadRequest, "Location data is required"},
		{"null longitude", `{"latitude": 1, "longitude": null}`, http.StatusBadRequest, "Location data is required"},
		{"malformed", "{", http.StatusBadRequest, "Location data is required"},
		{"out of range", map[string]float64{"latitude": 91, "longitude": 0}, http.StatusBadRequest, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodPost, "/api/tourist/panic", tt.body, token)
			expectError(t, w, tt.status, tt.message)
		})
	}

	t.Run("zero coordinates are valid", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/tourist/panic", map[string]float64{"latitude": 0, "longitude": 0}, token)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
		}
	})
}

func TestPanic_UnknownTourist(t *testing.T) {
	env := newTestEnv(t)

	token, _, err := env.gate.Issue("11111111-1111-1111-1111-111111111111")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	w := env.do(t, http.MethodPost, "/api/tourist/panic", map[string]float64{"latitude": 1, "longitude": 1}, token)
	expectError(t, w, http.StatusUnprocessableEntity, "")
}

func TestPanic_RequiresAuth(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, http.MethodPost, "/api/tourist/panic", map[string]float64{"latitude": 1, "longitude": 1}, "")
	expectError(t, w, http.StatusUnauthorized, "Unauthorized: missing token")
}

func TestLocations(t *testing.T) {
	env := newTestEnv(t)
	touristID, token := env.registerAndLogin(t, "history@example.com")

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	for i, p := range []models.Point{{Latitude: 1, Longitude: 2}, {Latitude: 1.5, Longitude: 2.5}, {Latitude: 2, Longitude: 3}} {
		if _, err := env.store.AppendLocation(context.Background(), touristID, p, base.Add(time.Duration(i)*time.Minute)); err != nil {
			t.Fatalf("AppendLocation() error = %v", err)
		}
	}

	t.Run("all", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/tourist/locations", nil, token)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
		}
		var resp HistoryResponse
		decode(t, w, &resp)
		if resp.Count != 3 || len(resp.Records) != 3 {
			t.Fatalf("count = %d, records = %d", resp.Count, len(resp.Records))
		}
		for i := 1; i < len(resp.Records); i++ {
			if resp.Records[i].RecordedAt.Before(resp.Records[i-1].RecordedAt) {
				t.Errorf("records not oldest first: %v", resp.Records)
			}
		}
	})

	t.Run("range", func(t *testing.T) {
		path := "/api/tourist/locations?from=2026-03-01T10:01:00Z&to=2026-03-01T10:02:00Z"
		w := env.do(t, http.MethodGet, path, nil, token)
		var resp HistoryResponse
		decode(t, w, &resp)
		if resp.Count != 1 || resp.Records[0].Point.Latitude != 1.5 {
			t.Errorf("range result = %+v", resp)
		}
	})

	t.Run("geojson", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/tourist/locations?format=geojson", nil, token)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
		}
		if ct := w.Header().Get("Content-Type"); ct != geoJSONContentType {
			t.Errorf("Content-Type = %q", ct)
		}
		if !strings.Contains(w.Body.String(), `"FeatureCollection"`) || !strings.Contains(w.Body.String(), `"LineString"`) {
			t.Errorf("body = %s", w.Body.String())
		}
	})

	t.Run("other tourists see nothing", func(t *testing.T) {
		_, other := env.registerAndLogin(t, "other@example.com")
		w := env.do(t, http.MethodGet, "/api/tourist/locations", nil, other)
		var resp HistoryResponse
		decode(t, w, &resp)
		if resp.Count != 0 || resp.Records == nil {
			t.Errorf("other tourist history = %+v", resp)
		}
	})
}

func TestLocations_BadQuery(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.registerAndLogin(t, "badquery@example.com")

	for _, q := range []string{
		"?from=yesterday",
		"?to=2026-13-01",
		"?format=kml",
		"?from=2026-03-02T00:00:00Z&to=2026-03-01T00:00:00Z",
	} {
		t.Run(q, func(t *testing.T) {
			w := env.do(t, http.MethodGet, "/api/tourist/locations"+q, nil, token)
			expectError(t, w, http.StatusBadRequest, "")
		})
	}
}

type failingPinger struct{}

func (failingPinger) Ping(context.Context) error { return errors.New("connection refused") }

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	for _, path := range []string{"/api/health/live", "/api/health/ready"} {
		w := env.do(t, http.MethodGet, path, nil, "")
		if w.Code != http.StatusOK {
			t.Errorf("%s status = %d, body = %s", path, w.Code, w.Body.String())
		}
	}

	t.Run("store down", func(t *testing.T) {
		h := NewHandler(Dependencies{Config: env.cfg, Store: failingPinger{}, Hub: env.hub})
		w := httptest.NewRecorder()
		h.HealthReady(w, httptest.NewRequest(http.MethodGet, "/api/health/ready", nil))
		if w.Code != http.StatusServiceUnavailable {
			t.Fatalf("status = %d", w.Code)
		}
		var resp HealthResponse
		decode(t, w, &resp)
		if resp.Status != "not_ready" || resp.Database != "unreachable" {
			t.Errorf("resp = %+v", resp)
		}
	})
}

func TestRouter_MetricsAndNotFound(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, http.MethodGet, "/api/health/live", nil, "")

	w := env.do(t, http.MethodGet, "/metrics", nil, "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "safarsafe_api_requests_total") {
		t.Errorf("/metrics status = %d", w.Code)
	}

	w = env.do(t, http.MethodGet, "/api/nope", nil, "")
	expectError(t, w, http.StatusNotFound, "Not found")

	if w.Header().Get("X-Request-ID") == "" {
		t.Error("X-Request-ID header not set")
	}
}

func TestRouter_SwaggerDocCoversRoutes(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/swagger/doc.json", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("/swagger/doc.json status = %d", w.Code)
	}
	var doc struct {
		Swagger string                    `json:"swagger"`
		Paths   map[string]map[string]any `json:"paths"`
	}
	decode(t, w, &doc)
	if doc.Swagger != "2.0" {
		t.Errorf("swagger = %q, want 2.0", doc.Swagger)
	}

	routes, ok := env.router.(chi.Routes)
	if !ok {
		t.Fatalf("router %T does not expose its routes", env.router)
	}
	walk := func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		if !strings.HasPrefix(route, "/api/") && route != "/ws" {
			return nil
		}
		if _, ok := doc.Paths[route][strings.ToLower(method)]; !ok {
			t.Errorf("%s %s is not documented", method, route)
		}
		return nil
	}
	if err := chi.Walk(routes, walk); err != nil {
		t.Fatalf("chi.Walk() error = %v", err)
	}
}
