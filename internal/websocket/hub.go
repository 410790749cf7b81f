// SafarSafe - Tourist Safety Tracking and Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safarsafe

package websocket

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/tomtom215/safarsafe/internal/logging"
	"github.com/tomtom215/safarsafe/internal/metrics"
)

// ShutdownReason identifies why the hub is shutting down.
type ShutdownReason string

const (
	// ShutdownReasonContextCanceled is the normal graceful path (SIGTERM).
	ShutdownReasonContextCanceled ShutdownReason = "context_canceled"

	// ShutdownReasonContextDeadline may indicate a hung operation during shutdown.
	ShutdownReasonContextDeadline ShutdownReason = "context_deadline"
)

var (
	// ErrUnknownConnection is returned when binding a connection id that is
	// not admitted.
	ErrUnknownConnection = errors.New("unknown connection")

	// ErrHubClosed is returned by Admit while the hub is shutting down.
	ErrHubClosed = errors.New("websocket hub is shutting down")
)

// BroadcastResult summarizes one broadcast. Recipients is the size of the
// snapshot; every recipient is counted either delivered or dropped.
type BroadcastResult struct {
	Recipients int
	Delivered  int
	Dropped    int
}

// Hub is the connection registry. Membership changes take the write lock;
// Broadcast copies the member set under the read lock and delivers outside
// it, so Remove never waits on a slow broadcast.
type Hub struct {
	mu       sync.RWMutex
	clients  map[uint64]*Client
	stopping bool
}

// NewHub creates an empty registry.
func NewHub() *Hub {
	return &Hub{clients: make(map[uint64]*Client)}
}

// Admit adds c to the registry.
func (h *Hub) Admit(c *Client) error {
	h.mu.Lock()
	if h.stopping {
		h.mu.Unlock()
		return ErrHubClosed
	}
	h.clients[c.id] = c
	total := len(h.clients)
	h.mu.Unlock()

	metrics.WSConnections.Set(float64(total))
	logging.Info().
		Uint64("connection_id", c.id).
		Bool("authenticated", c.identity != "").
		Int("total_clients", total).
		Msg("websocket client connected")
	return nil
}

// BindIdentity associates a tourist id with an admitted connection. Binding
// the id a connection already carries is a no-op.
func (h *Hub) BindIdentity(id uint64, touristID string) error {
	h.mu.RLock()
	c, ok := h.clients[id]
	h.mu.RUnlock()
	if !ok {
		return ErrUnknownConnection
	}
	c.bind(touristID)
	return nil
}

// Remove drops a connection and closes its send queue. Removing an unknown or
// already removed id is a no-op. It reports whether a member was removed.
func (h *Hub) Remove(id uint64) bool {
	h.mu.Lock()
	c, ok := h.clients[id]
	if ok {
		delete(h.clients, id)
	}
	total := len(h.clients)
	h.mu.Unlock()

	if !ok {
		return false
	}
	c.close()
	metrics.WSConnections.Set(float64(total))
	logging.Info().
		Uint64("connection_id", id).
		Int("total_clients", total).
		Msg("websocket client disconnected")
	return true
}

// snapshot returns the current members ordered by connection id.
func (h *Hub) snapshot() []*Client {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	sort.Slice(clients, func(i, j int) bool {
		return clients[i].id < clients[j].id
	})
	return clients
}

// Broadcast enqueues frame on every connection admitted at the time of the
// call. A connection removed mid-broadcast is counted as dropped. A
// connection whose queue is full is dropped and evicted after the traversal.
// Neither affects delivery to the others.
func (h *Hub) Broadcast(frame []byte) BroadcastResult {
	clients := h.snapshot()
	result := BroadcastResult{Recipients: len(clients)}

	var slow []*Client
	for _, c := range clients {
		switch c.enqueue(frame) {
		case sendOK:
			result.Delivered++
		case sendFull:
			result.Dropped++
			slow = append(slow, c)
		case sendClosed:
			result.Dropped++
		}
	}

	for _, c := range slow {
		if h.Remove(c.id) {
			metrics.WSEvictions.Inc()
			logging.Warn().Uint64("connection_id", c.id).Msg("evicted slow websocket consumer")
		}
	}
	return result
}

// SendTo enqueues frame on a single connection. It reports false when the
// connection is unknown, closed or its queue is full.
func (h *Hub) SendTo(id uint64, frame []byte) bool {
	h.mu.RLock()
	c, ok := h.clients[id]
	h.mu.RUnlock()
	if !ok {
		return false
	}
	return c.enqueue(frame) == sendOK
}

// ClientCount returns the number of admitted connections.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// RunWithContext runs the registry as a supervised service. Membership is
// managed synchronously, so the service only owns the shutdown: when ctx
// ends every client is closed and ctx.Err() is returned.
func (h *Hub) RunWithContext(ctx context.Context) error {
	h.mu.Lock()
	h.stopping = false
	h.mu.Unlock()

	<-ctx.Done()
	h.logGracefulShutdown(ctx)
	return ctx.Err()
}

// logGracefulShutdown closes all clients and logs the shutdown without an
// error field, since cancellation is the expected path.
func (h *Hub) logGracefulShutdown(ctx context.Context) {
	closed := h.closeAllClients()

	logging.Info().
		Str("component", "websocket-hub").
		Str("reason", string(getShutdownReason(ctx))).
		Int("clients_closed", closed).
		Msg("websocket hub stopped")
}

func getShutdownReason(ctx context.Context) ShutdownReason {
	switch ctx.Err() {
	case context.DeadlineExceeded:
		return ShutdownReasonContextDeadline
	default:
		return ShutdownReasonContextCanceled
	}
}

// closeAllClients empties the registry in connection id order and refuses
// further admissions until the hub runs again.
func (h *Hub) closeAllClients() int {
	h.mu.Lock()
	h.stopping = true
	clients := make([]*Client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.clients = make(map[uint64]*Client)
	h.mu.Unlock()

	sort.Slice(clients, func(i, j int) bool {
		return clients[i].id < clients[j].id
	})
	for _, c := range clients {
		c.close()
	}
	metrics.WSConnections.Set(0)
	return len(clients)
}
