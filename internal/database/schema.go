// SafarSafe - Tourist Safety Tracking and Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safarsafe

package database

// schema is applied statement by statement at startup. Every statement is
// idempotent. Timestamps are stored as naive UTC TIMESTAMP so the ICU
// extension is never needed.
const schema = `
CREATE TABLE IF NOT EXISTS tourists (
	id            TEXT PRIMARY KEY,
	full_name     TEXT NOT NULL,
	email         TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	created_at    TIMESTAMP NOT NULL
);

CREATE SEQUENCE IF NOT EXISTS location_history_id_seq START 1;

CREATE TABLE IF NOT EXISTS location_history (
	id          BIGINT PRIMARY KEY DEFAULT nextval('location_history_id_seq'),
	tourist_id  TEXT NOT NULL REFERENCES tourists(id),
	latitude    DOUBLE NOT NULL CHECK (latitude BETWEEN -90 AND 90),
	longitude   DOUBLE NOT NULL CHECK (longitude BETWEEN -180 AND 180),
	recorded_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_location_history_tourist_time
	ON location_history (tourist_id, recorded_at);

CREATE SEQUENCE IF NOT EXISTS panic_events_id_seq START 1;

CREATE TABLE IF NOT EXISTS panic_events (
	id           BIGINT PRIMARY KEY DEFAULT nextval('panic_events_id_seq'),
	tourist_id   TEXT NOT NULL REFERENCES tourists(id),
	latitude     DOUBLE NOT NULL CHECK (latitude BETWEEN -90 AND 90),
	longitude    DOUBLE NOT NULL CHECK (longitude BETWEEN -180 AND 180),
	triggered_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_panic_events_tourist_time
	ON panic_events (tourist_id, triggered_at)
`
