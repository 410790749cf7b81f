// SafarSafe - Tourist Safety Tracking and Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safarsafe

package api

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/tomtom215/safarsafe/internal/alert"
	"github.com/tomtom215/safarsafe/internal/config"
)

const frameTimeout = 5 * time.Second

func wsURL(srv *httptest.Server, token string) string {
	u := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	if token != "" {
		u += "?token=" + token
	}
	return u
}

func dial(t *testing.T, srv *httptest.Server, token string) *websocket.Conn {
	t.Helper()
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, token), nil)
	if err != nil {
		status := 0
		if resp != nil {
			status = resp.StatusCode
		}
		t.Fatalf("Dial() error = %v (status %d)", err, status)
	}
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

// waitForClients blocks until the hub has admitted n connections.
func waitForClients(t *testing.T, env *testEnv, n int) {
	t.Helper()
	deadline := time.Now().Add(frameTimeout)
	for env.hub.ClientCount() < n {
		if time.Now().After(deadline) {
			t.Fatalf("hub has %d clients, want %d", env.hub.ClientCount(), n)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

// readUntil returns the first frame of kind, skipping others.
func readUntil(t *testing.T, conn *websocket.Conn, kind alert.Kind) alert.Envelope {
	t.Helper()
	if err := conn.SetReadDeadline(time.Now().Add(frameTimeout)); err != nil {
		t.Fatalf("SetReadDeadline() error = %v", err)
	}
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("waiting for %s: %v", kind, err)
		}
		var env alert.Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			t.Fatalf("decode frame %q: %v", data, err)
		}
		if env.Type == kind {
			return env
		}
	}
}

func sendUpdate(t *testing.T, conn *websocket.Conn, touristID string, lat, lng float64) {
	t.Helper()
	frame, err := alert.Encode(alert.KindUpdateLocation, map[string]any{
		"touristId": touristID,
		"latitude":  lat,
		"longitude": lng,
	})
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
		t.Fatalf("WriteMessage() error = %v", err)
	}
}

func TestWebSocket_PanicReachesObserver(t *testing.T) {
	env := newTestEnv(t)
	srv := httptest.NewServer(env.router)
	t.Cleanup(srv.Close)

	touristID, token := env.registerAndLogin(t, "e2e@example.com")

	observer := dial(t, srv, "")
	waitForClients(t, env, 1)

	body, _ := json.Marshal(map[string]float64{"latitude": 27.1751, "longitude": 78.0421})
	req, _ := http.NewRequest(http.MethodPost, srv.URL+"/api/tourist/panic", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("panic request error = %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("panic status = %d", resp.StatusCode)
	}

	frame := readUntil(t, observer, alert.KindPanicAlert)
	var payload alert.PanicAlert
	if err := json.Unmarshal(frame.Data, &payload); err != nil {
		t.Fatalf("decode panic alert: %v", err)
	}
	if payload.TouristID != touristID {
		t.Errorf("touristId = %q, want %q", payload.TouristID, touristID)
	}
	if payload.Location.Latitude != 27.1751 || payload.Location.Longitude != 78.0421 {
		t.Errorf("location = %+v", payload.Location)
	}
	if _, err := time.Parse(time.RFC3339Nano, payload.Timestamp); err != nil {
		t.Errorf("timestamp %q is not RFC 3339: %v", payload.Timestamp, err)
	}
}

func TestWebSocket_LocationUpdateFlow(t *testing.T) {
	env := newTestEnv(t)
	srv := httptest.NewServer(env.router)
	t.Cleanup(srv.Close)

	touristID, token := env.registerAndLogin(t, "tracker@example.com")

	observer := dial(t, srv, "")
	reporter := dial(t, srv, token)
	waitForClients(t, env, 2)

	sendUpdate(t, reporter, touristID, 12.9716, 77.5946)

	frame := readUntil(t, observer, alert.KindLocationChange)
	var change alert.LocationChange
	if err := json.Unmarshal(frame.Data, &change); err != nil {
		t.Fatalf("decode location change: %v", err)
	}
	if change.TouristID != touristID || change.Latitude != 12.9716 || change.Longitude != 77.5946 {
		t.Errorf("location change = %+v", change)
	}

	// The originator hears its own broadcast too.
	readUntil(t, reporter, alert.KindLocationChange)

	w := env.do(t, http.MethodGet, "/api/tourist/locations", nil, token)
	var history HistoryResponse
	decode(t, w, &history)
	if history.Count != 1 {
		t.Fatalf("history count = %d, want 1", history.Count)
	}

	t.Run("out of range is rejected to sender only", func(t *testing.T) {
		sendUpdate(t, reporter, touristID, 123, 0)
		frame := readUntil(t, reporter, alert.KindLocationRejected)
		var rej alert.Rejection
		if err := json.Unmarshal(frame.Data, &rej); err != nil {
			t.Fatalf("decode rejection: %v", err)
		}
		if rej.Code != alert.CodeValidation {
			t.Errorf("code = %q, want %q", rej.Code, alert.CodeValidation)
		}
	})

	t.Run("spoofed identity is rejected", func(t *testing.T) {
		sendUpdate(t, reporter, "someone-else", 1, 1)
		frame := readUntil(t, reporter, alert.KindLocationRejected)
		var rej alert.Rejection
		if err := json.Unmarshal(frame.Data, &rej); err != nil {
			t.Fatalf("decode rejection: %v", err)
		}
		if rej.Code != alert.CodeAuth {
			t.Errorf("code = %q, want %q", rej.Code, alert.CodeAuth)
		}
	})
}

func TestWebSocket_UpgradeAuth(t *testing.T) {
	t.Run("invalid token", func(t *testing.T) {
		env := newTestEnv(t)
		srv := httptest.NewServer(env.router)
		t.Cleanup(srv.Close)

		_, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, "forged"), nil)
		if err == nil {
			t.Fatal("Dial() with a forged token succeeded")
		}
		if resp == nil || resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("response = %v, want 401", resp)
		}
		_ = resp.Body.Close()
	})

	t.Run("observers disabled", func(t *testing.T) {
		env := newTestEnv(t, func(c *config.Config) { c.Realtime.AllowObservers = false })
		srv := httptest.NewServer(env.router)
		t.Cleanup(srv.Close)

		_, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, ""), nil)
		if err == nil {
			t.Fatal("anonymous Dial() succeeded with observers disabled")
		}
		if resp == nil || resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("response = %v, want 401", resp)
		}
		_ = resp.Body.Close()
	})
}

func TestCheckWebSocketOrigin(t *testing.T) {
	cfg := testConfig()
	cfg.Security.CORSOrigins = []string{"https://app.safarsafe.example"}
	h := NewHandler(Dependencies{Config: cfg})

	tests := []struct {
		name   string
		origin string
		want   bool
	}{
		{"native client without origin", "", true},
		{"allowed origin", "https://app.safarsafe.example", true},
		{"foreign origin", "https://evil.example", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/ws", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			if got := h.checkWebSocketOrigin(req); got != tt.want {
				t.Errorf("checkWebSocketOrigin() = %v, want %v", got, tt.want)
			}
		})
	}
}
