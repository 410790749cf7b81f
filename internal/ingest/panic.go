// SafarSafe - Tourist Safety Tracking and Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safarsafe

package ingest

import (
	"context"

	"github.com/tomtom215/safarsafe/internal/alert"
	"github.com/tomtom215/safarsafe/internal/logging"
	"github.com/tomtom215/safarsafe/internal/metrics"
	"github.com/tomtom215/safarsafe/internal/models"
)

// PanicResult describes a broadcast panic alert.
type PanicResult struct {
	Event      models.PanicEvent
	Recipients int
	Delivered  int
	// Audited is false when the audit write failed or is disabled.
	Audited bool
}

// TriggerPanic broadcasts a new-panic-alert for an authenticated tourist. The
// audit write comes first so a referential failure can stop the broadcast;
// storage failures are logged and the alert still goes out.
func (e *Engine) TriggerPanic(ctx context.Context, touristID string, p models.Point) (*PanicResult, error) {
	if touristID == "" {
		metrics.PanicAlerts.WithLabelValues("rejected").Inc()
		return nil, models.WithMessage(models.ErrUnauthorized, "panic requires an authenticated tourist")
	}
	if err := p.Validate(); err != nil {
		metrics.PanicAlerts.WithLabelValues("rejected").Inc()
		return nil, err
	}

	ev := models.PanicEvent{
		TouristID:   touristID,
		Point:       p,
		TriggeredAt: models.StoreTime(e.now()),
	}
	res := &PanicResult{}

	if e.opts.PersistPanics {
		// The store gets its own copy; after a timeout it may still be writing.
		saved := ev
		err := e.persist(ctx, "panic", func(ctx context.Context) error {
			return e.store.SavePanic(ctx, &saved)
		})
		switch {
		case err == nil:
			ev.ID = saved.ID
			res.Audited = true
		case models.KindOf(err) == models.KindReferential, models.KindOf(err) == models.KindValidation:
			metrics.PanicAlerts.WithLabelValues("rejected").Inc()
			return nil, err
		default:
			metrics.PanicAlerts.WithLabelValues("audit_failed").Inc()
			logging.Ctx(ctx).Error().Err(err).Str("tourist_id", touristID).Msg("panic audit write failed, broadcasting anyway")
		}
	}

	frame, err := alert.Encode(alert.KindPanicAlert, alert.NewPanicAlert(touristID, p, ev.TriggeredAt))
	if err != nil {
		return nil, err
	}
	out := e.registry.Broadcast(frame)
	metrics.RecordBroadcast(string(alert.KindPanicAlert), out.Delivered, out.Dropped)
	metrics.PanicAlerts.WithLabelValues("broadcast").Inc()

	res.Event = ev
	res.Recipients = out.Recipients
	res.Delivered = out.Delivered

	logging.Ctx(ctx).Warn().
		Str("tourist_id", touristID).
		Float64("latitude", p.Latitude).
		Float64("longitude", p.Longitude).
		Int("delivered", out.Delivered).
		Msg("panic alert broadcast")
	return res, nil
}
