// SafarSafe - Tourist Safety Tracking and Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safarsafe

package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordDBQuery(t *testing.T) {
	tests := []struct {
		name      string
		operation string
		reason    string
		wantErr   float64
	}{
		{"success", "append_location", "", 0},
		{"timeout", "append_location_timeout_case", "StorageTimeout", 1},
		{"referential", "save_panic", "UnknownTourist", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := testutil.ToFloat64(DBQueryErrors.WithLabelValues(tt.operation, "duckdb", tt.reason))
			RecordDBQuery(tt.operation, "duckdb", 3*time.Millisecond, tt.reason)
			after := testutil.ToFloat64(DBQueryErrors.WithLabelValues(tt.operation, "duckdb", tt.reason))
			if got := after - before; got != tt.wantErr {
				t.Errorf("error counter delta = %v, want %v", got, tt.wantErr)
			}
		})
	}
}

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("POST", "/api/tourist/panic", "200"))
	RecordAPIRequest("POST", "/api/tourist/panic", "200", 12*time.Millisecond)
	after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("POST", "/api/tourist/panic", "200"))
	if after-before != 1 {
		t.Errorf("APIRequestsTotal delta = %v, want 1", after-before)
	}
}

func TestTrackActiveRequest(t *testing.T) {
	before := testutil.ToFloat64(APIActiveRequests)
	TrackActiveRequest(true)
	if got := testutil.ToFloat64(APIActiveRequests); got != before+1 {
		t.Errorf("after inc = %v, want %v", got, before+1)
	}
	TrackActiveRequest(false)
	if got := testutil.ToFloat64(APIActiveRequests); got != before {
		t.Errorf("after dec = %v, want %v", got, before)
	}
}

func TestRecordBroadcast(t *testing.T) {
	delivered := BroadcastDeliveries.WithLabelValues("test-event", "delivered")
	dropped := BroadcastDeliveries.WithLabelValues("test-event", "dropped")
	d0, x0 := testutil.ToFloat64(delivered), testutil.ToFloat64(dropped)

	RecordBroadcast("test-event", 3, 1)
	RecordBroadcast("test-event", 0, 0)

	if got := testutil.ToFloat64(delivered) - d0; got != 3 {
		t.Errorf("delivered delta = %v, want 3", got)
	}
	if got := testutil.ToFloat64(dropped) - x0; got != 1 {
		t.Errorf("dropped delta = %v, want 1", got)
	}
}

func TestRecordIngest(t *testing.T) {
	c := IngestOutcomes.WithLabelValues("Rejected", "IncompleteData")
	before := testutil.ToFloat64(c)
	RecordIngest("Rejected", "IncompleteData")
	if got := testutil.ToFloat64(c) - before; got != 1 {
		t.Errorf("IngestOutcomes delta = %v, want 1", got)
	}
}

func TestRecordPersist(t *testing.T) {
	RecordPersist("location", 2*time.Millisecond)
	if n := testutil.CollectAndCount(PersistDuration); n == 0 {
		t.Error("PersistDuration collected no series")
	}
}
