// SafarSafe - Tourist Safety Tracking and Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safarsafe

package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/safarsafe/internal/websocket"
)

type mockRegistry struct {
	err  error
	runs atomic.Int32
}

func (m *mockRegistry) RunWithContext(ctx context.Context) error {
	m.runs.Add(1)
	if m.err != nil {
		return m.err
	}
	<-ctx.Done()
	return ctx.Err()
}

var (
	_ suture.Service     = (*RegistryService)(nil)
	_ ConnectionRegistry = (*websocket.Hub)(nil)
)

func TestRegistryService_Serve(t *testing.T) {
	t.Run("returns on cancellation", func(t *testing.T) {
		reg := &mockRegistry{}
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		if err := NewRegistryService(reg).Serve(ctx); !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("Serve() = %v, want context.DeadlineExceeded", err)
		}
		if reg.runs.Load() != 1 {
			t.Errorf("runs = %d, want 1", reg.runs.Load())
		}
	})

	t.Run("propagates registry errors", func(t *testing.T) {
		want := errors.New("registry failed")
		if err := NewRegistryService(&mockRegistry{err: want}).Serve(context.Background()); !errors.Is(err, want) {
			t.Errorf("Serve() = %v, want %v", err, want)
		}
	})
}

func TestRegistryService_ClosesHubOnShutdown(t *testing.T) {
	hub := websocket.NewHub()
	c := websocket.NewClient(hub, nil, nil, websocket.ClientOptions{SendBuffer: 1})
	if err := hub.Admit(c); err != nil {
		t.Fatalf("Admit() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = NewRegistryService(hub).Serve(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return")
	}
	if hub.ClientCount() != 0 {
		t.Errorf("ClientCount() = %d after shutdown, want 0", hub.ClientCount())
	}
	if err := hub.Admit(websocket.NewClient(hub, nil, nil, websocket.ClientOptions{})); !errors.Is(err, websocket.ErrHubClosed) {
		t.Errorf("Admit() after shutdown = %v, want ErrHubClosed", err)
	}
}
