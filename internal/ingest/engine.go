// SafarSafe - Tourist Safety Tracking and Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safarsafe

package ingest

import (
	"context"
	"errors"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/safarsafe/internal/alert"
	"github.com/tomtom215/safarsafe/internal/config"
	"github.com/tomtom215/safarsafe/internal/logging"
	"github.com/tomtom215/safarsafe/internal/metrics"
	"github.com/tomtom215/safarsafe/internal/models"
	"github.com/tomtom215/safarsafe/internal/websocket"
)

const defaultPersistTimeout = 5 * time.Second

// LocationStore is the subset of the location store the engine writes to.
type LocationStore interface {
	AppendLocation(ctx context.Context, touristID string, p models.Point, at time.Time) (*models.LocationRecord, error)
	SavePanic(ctx context.Context, ev *models.PanicEvent) error
}

// Registry is the subset of the connection registry the engine publishes to.
type Registry interface {
	BindIdentity(id uint64, touristID string) error
	Broadcast(frame []byte) websocket.BroadcastResult
}

// State is the lifecycle position of one location-update event.
type State string

const (
	StateReceived     State = "received"
	StateValidated    State = "validated"
	StatePersisted    State = "persisted"
	StateBroadcast    State = "broadcast"
	StateAcknowledged State = "acknowledged"
	StateRejected     State = "rejected"
)

// Outcome is the terminal result of one event.
type Outcome struct {
	State  State
	Record *models.LocationRecord
	Err    error
	// Delivered is the number of registry members the broadcast reached.
	Delivered int
}

// ErrRateLimited rejects events beyond a connection's inbound budget.
var ErrRateLimited = errors.New("inbound rate limit exceeded")

// errAuthRequired rejects updates from connections without a credential.
var errAuthRequired = models.WithMessage(models.ErrUnauthorized, "authentication required to report locations")

// Options configures an Engine.
type Options struct {
	// RequireAuth rejects updates from connections that presented no credential.
	RequireAuth bool
	// PersistTimeout bounds every store call.
	PersistTimeout time.Duration
	// PersistPanics writes panic events to the store before they are broadcast.
	PersistPanics bool
	Breaker       BreakerOptions
}

// OptionsFromConfig maps the realtime and engine settings onto Options.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		RequireAuth:    cfg.Realtime.RequireAuth,
		PersistTimeout: cfg.Engine.PersistTimeout,
		PersistPanics:  cfg.Engine.PersistPanics,
		Breaker: BreakerOptions{
			MaxRequests:      cfg.Engine.BreakerMaxRequests,
			Interval:         cfg.Engine.BreakerInterval,
			Timeout:          cfg.Engine.BreakerTimeout,
			FailureThreshold: cfg.Engine.BreakerFailureThreshold,
		},
	}
}

// Engine validates, persists and broadcasts location updates and panic
// alerts. It is safe for concurrent use and holds no lock across store calls.
type Engine struct {
	store    LocationStore
	registry Registry
	opts     Options
	breaker  *storeBreaker
	now      func() time.Time
}

var _ websocket.FrameHandler = (*Engine)(nil)

// New creates an Engine.
func New(store LocationStore, registry Registry, opts Options) *Engine {
	if opts.PersistTimeout <= 0 {
		opts.PersistTimeout = defaultPersistTimeout
	}
	return &Engine{
		store:    store,
		registry: registry,
		opts:     opts,
		breaker:  newStoreBreaker("location-store", opts.Breaker),
		now:      time.Now,
	}
}

// HandleFrame dispatches one inbound frame from c. Rejections are answered
// with a location-rejected frame to c only.
func (e *Engine) HandleFrame(ctx context.Context, c websocket.Conn, env *alert.Envelope) {
	switch env.Type {
	case alert.KindUpdateLocation:
		out := e.Ingest(ctx, c, env.Data)
		if out.State == StateRejected {
			e.nack(ctx, c, rejectionFor(out.Err, env.Data))
		}
	default:
		logging.Ctx(ctx).Debug().Str("type", string(env.Type)).Msg("unsupported websocket event")
		e.nack(ctx, c, alert.Rejection{
			Code:    alert.CodeUnsupportedEvent,
			Message: "unsupported event type " + string(env.Type),
			Event:   env.Data,
		})
	}
}

// Ingest runs one updateLocation payload from c through the pipeline.
func (e *Engine) Ingest(ctx context.Context, c websocket.Conn, data json.RawMessage) Outcome {
	out := e.ingest(ctx, c, data)

	reason := ""
	if out.State == StateRejected {
		reason = reasonLabel(out.Err)
		ev := logging.Ctx(ctx).Info()
		if models.KindOf(out.Err) == models.KindStorage {
			ev = logging.Ctx(ctx).Warn()
		}
		ev.Err(out.Err).Str("reason", reason).Msg("location update rejected")
	}
	metrics.RecordIngest(string(out.State), reason)
	return out
}

func (e *Engine) ingest(ctx context.Context, c websocket.Conn, data json.RawMessage) Outcome {
	if !c.AllowInbound() {
		return rejected(ErrRateLimited)
	}

	update, err := alert.DecodeLocationUpdate(data)
	if err != nil {
		return rejected(err)
	}
	touristID := *update.TouristID

	switch identity := c.Identity(); {
	case identity == "" && e.opts.RequireAuth:
		return rejected(errAuthRequired)
	case identity != "" && identity != touristID:
		return rejected(models.ErrIdentityMismatch)
	}

	point := update.Point()
	if err := point.Validate(); err != nil {
		return rejected(err)
	}

	var record *models.LocationRecord
	at := e.now()
	err = e.persist(ctx, "location", func(ctx context.Context) error {
		r, err := e.store.AppendLocation(ctx, touristID, point, at)
		record = r
		return err
	})
	if err != nil {
		return Outcome{State: StateRejected, Err: err}
	}

	if err := e.registry.BindIdentity(c.ID(), touristID); err != nil {
		logging.Ctx(ctx).Debug().Err(err).Msg("connection left before identity binding")
	}

	frame, err := alert.Encode(alert.KindLocationChange, alert.LocationChange{
		TouristID: touristID,
		Latitude:  *update.Latitude,
		Longitude: *update.Longitude,
	})
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("failed to encode location change")
		return Outcome{State: StatePersisted, Record: record}
	}
	res := e.registry.Broadcast(frame)
	metrics.RecordBroadcast(string(alert.KindLocationChange), res.Delivered, res.Dropped)

	return Outcome{State: StateAcknowledged, Record: record, Delivered: res.Delivered}
}

// persist runs fn under the persistence timeout and the circuit breaker. The
// deadline is enforced here, so a store that ignores ctx still gets a
// StorageTimeout back on time; its goroutine finishes in the background.
//
// That late write may still commit. The record then exists without a
// broadcast and the sender holds a retryable NACK, so a client retry stores
// it twice. Storage is at least once; do not add a second write or a
// compensating delete here.
func (e *Engine) persist(ctx context.Context, kind string, fn func(ctx context.Context) error) error {
	start := time.Now()
	defer func() { metrics.RecordPersist(kind, time.Since(start)) }()

	err := e.breaker.execute(func() error {
		ctx, cancel := context.WithTimeout(ctx, e.opts.PersistTimeout)
		defer cancel()

		done := make(chan error, 1)
		go func() { done <- fn(ctx) }()

		select {
		case err := <-done:
			if err != nil && errors.Is(err, context.DeadlineExceeded) {
				return models.Wrap(models.ErrStorageTimeout, err)
			}
			return err
		case <-ctx.Done():
			return models.Wrap(models.ErrStorageTimeout, ctx.Err())
		}
	})
	if err != nil && models.KindOf(err) == models.KindUnknown {
		return models.Wrap(models.ErrStorage, err)
	}
	return err
}

func (e *Engine) nack(ctx context.Context, c websocket.Conn, r alert.Rejection) {
	frame, err := alert.Encode(alert.KindLocationRejected, r)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("failed to encode rejection")
		return
	}
	if !c.Send(frame) {
		logging.Ctx(ctx).Debug().Msg("rejection not delivered, connection gone")
	}
}

func rejected(err error) Outcome {
	return Outcome{State: StateRejected, Err: err}
}

func rejectionFor(err error, event json.RawMessage) alert.Rejection {
	if errors.Is(err, ErrRateLimited) {
		return alert.Rejection{
			Code:      alert.CodeRateLimited,
			Reason:    "RateLimited",
			Message:   err.Error(),
			Retryable: true,
			Event:     event,
		}
	}
	return alert.RejectionFor(err, event)
}

func reasonLabel(err error) string {
	if errors.Is(err, ErrRateLimited) {
		return "RateLimited"
	}
	if r := models.ReasonOf(err); r != "" {
		return r
	}
	return "Unknown"
}
