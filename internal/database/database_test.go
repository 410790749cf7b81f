// SafarSafe - Tourist Safety Tracking and Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safarsafe

package database

import (
	"context"
	"testing"
	"time"

	"github.com/tomtom215/safarsafe/internal/config"
	"github.com/tomtom215/safarsafe/internal/models"
)

// testDBSemaphore serializes DuckDB tests. Concurrent CGO calls from many
// in-memory databases can hang on constrained CI runners, so the semaphore is
// held for a test's whole lifetime and released in t.Cleanup.
var testDBSemaphore = make(chan struct{}, 1)

// setupTestDB creates a new in-memory test database.
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	testDBSemaphore <- struct{}{}
	t.Cleanup(func() {
		<-testDBSemaphore
	})

	db, err := New(&config.DatabaseConfig{
		Driver:    "duckdb",
		Path:      ":memory:",
		MaxMemory: "256MB",
		Threads:   2,
	})
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	})
	return db
}

// insertTestTourist registers a tourist and returns its id.
func insertTestTourist(t *testing.T, db *DB, email string) string {
	t.Helper()

	tourist := &models.Tourist{
		FullName:     "Test Tourist",
		Email:        email,
		PasswordHash: "$2a$04$placeholderhashplaceholderhashplacehold",
	}
	if err := db.CreateTourist(context.Background(), tourist); err != nil {
		t.Fatalf("CreateTourist(%s) error = %v", email, err)
	}
	return tourist.ID
}

func TestNewCreatesSchema(t *testing.T) {
	db := setupTestDB(t)

	for _, table := range []string{"tourists", "location_history", "panic_events"} {
		var n int
		err := db.Conn().QueryRow(
			"SELECT COUNT(*) FROM information_schema.tables WHERE table_name = ?", table,
		).Scan(&n)
		if err != nil {
			t.Fatalf("information_schema query for %s: %v", table, err)
		}
		if n != 1 {
			t.Errorf("table %s count = %d, want 1", table, n)
		}
	}
}

func TestPing(t *testing.T) {
	db := setupTestDB(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.Ping(ctx); err != nil {
		t.Fatalf("Ping() error = %v", err)
	}
	if db.Driver() != "duckdb" {
		t.Errorf("Driver() = %q, want duckdb", db.Driver())
	}
}

func TestOpenSelectsDuckDB(t *testing.T) {
	testDBSemaphore <- struct{}{}
	defer func() { <-testDBSemaphore }()

	store, err := Open(context.Background(), &config.DatabaseConfig{Driver: "duckdb", Path: ":memory:"})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer store.Close()

	if store.Driver() != "duckdb" {
		t.Errorf("Driver() = %q, want duckdb", store.Driver())
	}
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	if _, err := Open(context.Background(), &config.DatabaseConfig{Driver: "mysql"}); err == nil {
		t.Fatal("Open() with unknown driver should fail")
	}
}
