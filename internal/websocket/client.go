// SafarSafe - Tourist Safety Tracking and Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safarsafe

package websocket

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/tomtom215/safarsafe/internal/alert"
	"github.com/tomtom215/safarsafe/internal/logging"
	"github.com/tomtom215/safarsafe/internal/metrics"
)

const (
	writeWait             = 10 * time.Second
	pongWait              = 60 * time.Second
	pingPeriod            = (pongWait * 9) / 10
	defaultMaxMessageSize = 64 * 1024
	defaultSendBuffer     = 256
)

// clientIDCounter hands out monotonically increasing connection ids so
// broadcasts iterate in a stable order.
var clientIDCounter atomic.Uint64

// Conn is the view of a connection handed to a FrameHandler.
type Conn interface {
	ID() uint64
	// Identity is the tourist id proven by the upgrade credential, or "" for
	// an anonymous observer.
	Identity() string
	// TouristID is the id bound by the last accepted location update.
	TouristID() string
	// AllowInbound consumes one token of the connection's inbound budget.
	AllowInbound() bool
	// Send enqueues a frame for this connection only.
	Send(frame []byte) bool
}

// FrameHandler processes decoded inbound frames other than ping. Frames of a
// connection are handled one at a time, in arrival order.
type FrameHandler interface {
	HandleFrame(ctx context.Context, c Conn, env *alert.Envelope)
}

// ClientOptions tunes a single connection.
type ClientOptions struct {
	Identity       string
	SendBuffer     int
	MaxMessageSize int64
	// InboundRate is in frames per second; zero or less disables the limit.
	InboundRate  float64
	InboundBurst int
}

type sendStatus int

const (
	sendOK sendStatus = iota
	sendFull
	sendClosed
)

// Client is a middleman between the websocket connection and the hub
type Client struct {
	id       uint64
	identity string
	hub      *Hub
	conn     *websocket.Conn
	handler  FrameHandler
	limiter  *rate.Limiter
	maxSize  int64

	mu        sync.Mutex
	send      chan []byte
	closed    bool
	touristID string
}

// NewClient creates a Client with a fresh connection id. conn may be nil in
// tests that only exercise the registry.
func NewClient(hub *Hub, conn *websocket.Conn, handler FrameHandler, opts ClientOptions) *Client {
	if opts.SendBuffer <= 0 {
		opts.SendBuffer = defaultSendBuffer
	}
	if opts.MaxMessageSize <= 0 {
		opts.MaxMessageSize = defaultMaxMessageSize
	}

	limit := rate.Inf
	if opts.InboundRate > 0 {
		limit = rate.Limit(opts.InboundRate)
	}
	burst := opts.InboundBurst
	if burst <= 0 {
		burst = 1
	}

	return &Client{
		id:       clientIDCounter.Add(1),
		identity: opts.Identity,
		hub:      hub,
		conn:     conn,
		handler:  handler,
		limiter:  rate.NewLimiter(limit, burst),
		maxSize:  opts.MaxMessageSize,
		send:     make(chan []byte, opts.SendBuffer),
	}
}

func (c *Client) ID() uint64 {
	return c.id
}

func (c *Client) Identity() string {
	return c.identity
}

func (c *Client) TouristID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.touristID
}

func (c *Client) AllowInbound() bool {
	return c.limiter.Allow()
}

func (c *Client) Send(frame []byte) bool {
	return c.enqueue(frame) == sendOK
}

func (c *Client) bind(touristID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.touristID == touristID {
		return
	}
	if c.touristID != "" {
		logging.Debug().
			Uint64("connection_id", c.id).
			Str("previous", c.touristID).
			Str("tourist_id", touristID).
			Msg("websocket connection rebound")
	}
	c.touristID = touristID
}

// enqueue never blocks. The mutex orders it against close so a send on a
// closed channel cannot happen.
func (c *Client) enqueue(frame []byte) sendStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return sendClosed
	}
	select {
	case c.send <- frame:
		return sendOK
	default:
		return sendFull
	}
}

// close is idempotent. The write pump drains what is queued and then sends a
// close frame.
func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// readPump pumps frames from the websocket connection to the handler
func (c *Client) readPump(ctx context.Context) {
	defer func() {
		c.hub.Remove(c.id)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(c.maxSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		logging.Error().Err(err).Msg("failed to set read deadline")
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, frame, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				logging.Ctx(ctx).Warn().Err(err).Msg("unexpected websocket close error")
			}
			return
		}
		c.handleFrame(ctx, frame)
	}
}

func (c *Client) handleFrame(ctx context.Context, frame []byte) {
	env, err := alert.Decode(frame)
	if err != nil {
		metrics.WSMessagesReceived.WithLabelValues("malformed").Inc()
		logging.Ctx(ctx).Debug().Err(err).Msg("rejected malformed websocket frame")
		if nack, encErr := alert.Encode(alert.KindLocationRejected, alert.RejectionFor(err, nil)); encErr == nil {
			c.Send(nack)
		}
		return
	}

	metrics.WSMessagesReceived.WithLabelValues(string(env.Type)).Inc()
	if env.Type == alert.KindPing {
		if pong, encErr := alert.Encode(alert.KindPong, nil); encErr == nil {
			c.Send(pong)
		}
		return
	}
	if c.handler != nil {
		c.handler.HandleFrame(ctx, c, env)
	}
}

// writePump pumps frames from the send queue to the websocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				logging.Error().Err(err).Msg("failed to set write deadline")
				return
			}
			if !ok {
				// The hub closed the channel
				_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				logging.Debug().Err(err).Uint64("connection_id", c.id).Msg("failed to write websocket frame")
				return
			}

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				logging.Error().Err(err).Msg("failed to set write deadline for ping")
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Start begins reading and writing for the client. ctx must outlive the
// upgrade request; it only carries logging values.
func (c *Client) Start(ctx context.Context) {
	ctx = logging.ContextWithConnectionID(ctx, c.id)
	if c.identity != "" {
		ctx = logging.ContextWithTouristID(ctx, c.identity)
	}
	go c.writePump()
	go c.readPump(ctx)
}
