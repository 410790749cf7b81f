// SafarSafe - Tourist Safety Tracking and Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safarsafe

// Package config loads SafarSafe configuration from struct defaults, an
// optional YAML file and environment variables, in that order of precedence.
package config

import (
	"time"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Security SecurityConfig `koanf:"security"`
	Database DatabaseConfig `koanf:"database"`
	Realtime RealtimeConfig `koanf:"realtime"`
	Engine   EngineConfig   `koanf:"engine"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	// Environment is development, staging or production.
	Environment string `koanf:"environment"`
}

// SecurityConfig holds token, password and HTTP hardening settings
type SecurityConfig struct {
	JWTSecret string `koanf:"jwt_secret"`
	// TokenTTL is how long an issued bearer token stays valid.
	TokenTTL time.Duration `koanf:"token_ttl"`
	// TokenIssuer is written to and required in the iss claim.
	TokenIssuer string `koanf:"token_issuer"`
	BcryptCost  int    `koanf:"bcrypt_cost"`

	RateLimitReqs     int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`

	CORSOrigins []string `koanf:"cors_origins"`

	// RevocationStore is memory or badger.
	RevocationStore     string `koanf:"revocation_store"`
	RevocationStorePath string `koanf:"revocation_store_path"`
	// RevocationGCInterval is how often the badger value log GC runs.
	RevocationGCInterval time.Duration `koanf:"revocation_gc_interval"`
}

// DatabaseConfig selects and tunes the location store engine
type DatabaseConfig struct {
	// Driver is duckdb or postgres.
	Driver string `koanf:"driver"`

	// DuckDB settings.
	Path      string `koanf:"path"`
	MaxMemory string `koanf:"max_memory"`
	Threads   int    `koanf:"threads"`

	// Postgres settings.
	DSN             string        `koanf:"dsn"`
	MaxConns        int32         `koanf:"max_conns"`
	MinConns        int32         `koanf:"min_conns"`
	MaxConnLifetime time.Duration `koanf:"max_conn_lifetime"`
}

// RealtimeConfig holds WebSocket connection settings
type RealtimeConfig struct {
	// RequireAuth rejects updateLocation from connections without a credential.
	RequireAuth bool `koanf:"require_auth"`
	// AllowObservers admits connections that present no credential.
	AllowObservers bool  `koanf:"allow_observers"`
	SendBuffer     int   `koanf:"send_buffer"`
	MaxMessageSize int64 `koanf:"max_message_size"`
	// InboundRate is the sustained updateLocation rate per connection, in events per second.
	InboundRate  float64 `koanf:"inbound_rate"`
	InboundBurst int     `koanf:"inbound_burst"`
}

// EngineConfig tunes the ingestion pipeline
type EngineConfig struct {
	PersistTimeout time.Duration `koanf:"persist_timeout"`
	PersistPanics  bool          `koanf:"persist_panics"`

	BreakerMaxRequests      uint32        `koanf:"breaker_max_requests"`
	BreakerInterval         time.Duration `koanf:"breaker_interval"`
	BreakerTimeout          time.Duration `koanf:"breaker_timeout"`
	BreakerFailureThreshold uint32        `koanf:"breaker_failure_threshold"`
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Load reads configuration with koanf. A .env file in the working directory
// is applied to the process environment first.
func Load() (*Config, error) {
	loadDotEnv()
	return LoadWithKoanf()
}

// IsProduction reports whether the server runs with production safeguards.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// ListenAddr returns host:port for the HTTP server.
func (c *Config) ListenAddr() string {
	return joinHostPort(c.Server.Host, c.Server.Port)
}
