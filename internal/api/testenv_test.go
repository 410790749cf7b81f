// SafarSafe - Tourist Safety Tracking and Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safarsafe

package api

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"

	_ "github.com/tomtom215/safarsafe/docs"
	"github.com/tomtom215/safarsafe/internal/auth"
	"github.com/tomtom215/safarsafe/internal/config"
	"github.com/tomtom215/safarsafe/internal/database"
	"github.com/tomtom215/safarsafe/internal/ingest"
	"github.com/tomtom215/safarsafe/internal/logging"
	"github.com/tomtom215/safarsafe/internal/tourist"
	ws "github.com/tomtom215/safarsafe/internal/websocket"
)

//nolint:gochecknoinits // init ensures consistent logging for tests
func init() {
	logging.Init(logging.Config{
		Level:  "info",
		Format: "console",
		Output: io.Discard,
	})
}

// testDBSemaphore serializes DuckDB-backed tests.
var testDBSemaphore = make(chan struct{}, 1)

func testConfig() *config.Config {
	return &config.Config{
		Security: config.SecurityConfig{
			JWTSecret:         "api-test-secret-with-at-least-32-characters",
			TokenTTL:          time.Hour,
			TokenIssuer:       "safarsafe-test",
			BcryptCost:        4,
			RateLimitDisabled: true,
			CORSOrigins:       []string{"*"},
		},
		Database: config.DatabaseConfig{
			Driver:    "duckdb",
			Path:      ":memory:",
			MaxMemory: "256MB",
			Threads:   2,
		},
		Realtime: config.RealtimeConfig{
			RequireAuth:    true,
			AllowObservers: true,
			SendBuffer:     32,
			MaxMessageSize: 64 * 1024,
		},
		Engine: config.EngineConfig{
			PersistTimeout:          2 * time.Second,
			PersistPanics:           true,
			BreakerFailureThreshold: 5,
			BreakerTimeout:          time.Minute,
		},
	}
}

// testEnv is a fully wired server over an in-memory DuckDB store.
type testEnv struct {
	cfg     *config.Config
	store   database.Store
	gate    *auth.Gate
	hub     *ws.Hub
	handler *Handler
	router  http.Handler
}

func newTestEnv(t *testing.T, mutate ...func(*config.Config)) *testEnv {
	t.Helper()

	testDBSemaphore <- struct{}{}
	t.Cleanup(func() { <-testDBSemaphore })

	cfg := testConfig()
	for _, m := range mutate {
		m(cfg)
	}

	store, err := database.Open(t.Context(), &cfg.Database)
	if err != nil {
		t.Fatalf("database.Open() error = %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	})

	jwtManager, err := auth.NewJWTManager(&cfg.Security)
	if err != nil {
		t.Fatalf("NewJWTManager() error = %v", err)
	}
	gate := auth.NewGate(jwtManager, auth.NewMemoryRevocationStore())

	svc, err := tourist.NewService(store, gate, auth.NewPasswordHasher(cfg.Security.BcryptCost))
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}

	hub := ws.NewHub()
	engine := ingest.New(store, hub, ingest.OptionsFromConfig(cfg))

	handler := NewHandler(Dependencies{
		Config:   cfg,
		Tourists: svc,
		Panics:   engine,
		Verifier: gate,
		Store:    store,
		Hub:      hub,
		Frames:   engine,
	})
	router := NewRouter(handler, NewChiMiddleware(ChiMiddlewareConfigFrom(&cfg.Security)), auth.NewMiddleware(gate))

	return &testEnv{
		cfg:     cfg,
		store:   store,
		gate:    gate,
		hub:     hub,
		handler: handler,
		router:  router.SetupChi(),
	}
}

// do sends a request through the router. body is marshaled unless it is a
// string, which is sent verbatim.
func (e *testEnv) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// registerAndLogin creates an account and returns its id and a token.
func (e *testEnv) registerAndLogin(t *testing.T, email string) (string, string) {
	t.Helper()

	w := e.do(t, http.MethodPost, "/api/tourist/register", RegisterRequest{
		FullName: "Test Tourist",
		Email:    email,
		Password: "passw0rd!",
	}, "")
	if w.Code != http.StatusCreated {
		t.Fatalf("register status = %d, body = %s", w.Code, w.Body.String())
	}
	var reg RegisterResponse
	decode(t, w, &reg)

	w = e.do(t, http.MethodPost, "/api/tourist/login", LoginRequest{Email: email, Password: "passw0rd!"}, "")
	if w.Code != http.StatusOK {
		t.Fatalf("login status = %d, body = %s", w.Code, w.Body.String())
	}
	var login LoginResponse
	decode(t, w, &login)
	return reg.TouristID, login.Token
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
}

func expectError(t *testing.T, w *httptest.ResponseRecorder, status int, message string) {
	t.Helper()
	if w.Code != status {
		t.Fatalf("status = %d, want %d, body = %s", w.Code, status, w.Body.String())
	}
	var resp ErrorResponse
	decode(t, w, &resp)
	if message != "" && resp.Error != message {
		t.Errorf("error = %q, want %q", resp.Error, message)
	}
	if resp.Code == "" {
		t.Error("error response has no code")
	}
}
