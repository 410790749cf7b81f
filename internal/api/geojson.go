// SafarSafe - Tourist Safety Tracking and Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safarsafe

package api

import (
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/tomtom215/safarsafe/internal/logging"
	"github.com/tomtom215/safarsafe/internal/models"
)

const geoJSONContentType = "application/geo+json"

// trackCollection renders records as one Point feature per record, preceded
// by a LineString of the whole track when it has at least two points.
func trackCollection(touristID string, records []models.LocationRecord) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	if len(records) >= 2 {
		line := make(orb.LineString, 0, len(records))
		for i := range records {
			line = append(line, toOrb(records[i].Point))
		}
		track := geojson.NewFeature(line)
		track.Properties["touristId"] = touristID
		track.Properties["from"] = records[0].RecordedAt.Format(time.RFC3339Nano)
		track.Properties["to"] = records[len(records)-1].RecordedAt.Format(time.RFC3339Nano)
		fc.Append(track)
	}

	for i := range records {
		f := geojson.NewFeature(toOrb(records[i].Point))
		f.ID = records[i].ID
		f.Properties["touristId"] = touristID
		f.Properties["recordedAt"] = records[i].RecordedAt.Format(time.RFC3339Nano)
		fc.Append(f)
	}
	return fc
}

// toOrb converts to orb's [longitude, latitude] order.
func toOrb(p models.Point) orb.Point {
	return orb.Point{p.Longitude, p.Latitude}
}

func respondGeoJSON(w http.ResponseWriter, r *http.Request, touristID string, records []models.LocationRecord) {
	data, err := json.Marshal(trackCollection(touristID, records))
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, CodeInternal, "Failed to encode GeoJSON", err)
		return
	}
	w.Header().Set("Content-Type", geoJSONContentType)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		logging.Ctx(r.Context()).Debug().Err(err).Msg("Failed to write GeoJSON response")
	}
}
