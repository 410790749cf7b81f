// SafarSafe - Tourist Safety Tracking and Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safarsafe

package config

import (
	"fmt"
	"strings"
	"time"
)

// Validate checks the loaded configuration and returns the first problem found.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	if err := c.validateDatabase(); err != nil {
		return err
	}
	if err := c.validateRealtime(); err != nil {
		return err
	}
	if err := c.validateEngine(); err != nil {
		return err
	}
	return c.validateLogging()
}

var validEnvironments = map[string]bool{
	"development": true,
	"staging":     true,
	"production":  true,
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("SERVER_TIMEOUT must be positive")
	}
	if !validEnvironments[c.Server.Environment] {
		return fmt.Errorf("ENVIRONMENT must be one of: development, staging, production")
	}
	return nil
}

// Token, password and rate limit bounds.
const (
	minJWTSecretLength   = 32
	minBcryptCost        = 4
	maxBcryptCost        = 31
	minTokenTTL          = time.Minute
	maxTokenTTL          = 30 * 24 * time.Hour
	minRateLimitRequests = 1
	maxRateLimitRequests = 100000
	minRateLimitWindow   = time.Second
	maxRateLimitWindow   = time.Hour
)

func (c *Config) validateSecurity() error {
	if err := c.validateJWTSecret(); err != nil {
		return err
	}
	if c.Security.TokenTTL < minTokenTTL || c.Security.TokenTTL > maxTokenTTL {
		return fmt.Errorf("TOKEN_TTL must be between %v and %v", minTokenTTL, maxTokenTTL)
	}
	if c.Security.BcryptCost < minBcryptCost || c.Security.BcryptCost > maxBcryptCost {
		return fmt.Errorf("BCRYPT_COST must be between %d and %d", minBcryptCost, maxBcryptCost)
	}
	if err := c.validateCORS(); err != nil {
		return err
	}
	if err := c.validateRateLimits(); err != nil {
		return err
	}
	return c.validateRevocation()
}

func (c *Config) validateJWTSecret() error {
	if c.Security.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if len(c.Security.JWTSecret) < minJWTSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d characters for security", minJWTSecretLength)
	}
	if containsPlaceholder(c.Security.JWTSecret) {
		return fmt.Errorf("JWT_SECRET contains a placeholder value - generate a secure secret with: openssl rand -base64 32")
	}
	return nil
}

func containsPlaceholder(s string) bool {
	lower := strings.ToLower(s)
	for _, p := range []string{"changeme", "change_me", "replace_with", "your_secret"} {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// validateCORS rejects a wildcard origin in production. Bearer tokens live in
// browser storage on the dashboard, so any origin could call the API with them.
func (c *Config) validateCORS() error {
	if c.hasWildcardCORS() && c.IsProduction() {
		return fmt.Errorf("CORS_ORIGINS=* (wildcard) is not allowed in production. " +
			"Set specific origins: CORS_ORIGINS=https://dashboard.example.org")
	}
	return nil
}

func (c *Config) hasWildcardCORS() bool {
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

// ShouldWarnAboutCORS reports a wildcard CORS setting outside production.
func (c *Config) ShouldWarnAboutCORS() bool {
	return c.hasWildcardCORS()
}

func (c *Config) validateRateLimits() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

func (c *Config) validateRevocation() error {
	switch c.Security.RevocationStore {
	case "memory":
		return nil
	case "badger":
		if c.Security.RevocationStorePath == "" {
			return fmt.Errorf("REVOCATION_STORE_PATH is required when REVOCATION_STORE is badger")
		}
		if c.Security.RevocationGCInterval <= 0 {
			return fmt.Errorf("REVOCATION_GC_INTERVAL must be positive")
		}
		return nil
	default:
		return fmt.Errorf("REVOCATION_STORE must be one of: memory, badger")
	}
}

func (c *Config) validateDatabase() error {
	switch c.Database.Driver {
	case "duckdb":
		if c.Database.Path == "" {
			return fmt.Errorf("DUCKDB_PATH is required when DB_DRIVER is duckdb")
		}
		if c.Database.Threads < 0 {
			return fmt.Errorf("DUCKDB_THREADS must not be negative")
		}
	case "postgres":
		if c.Database.DSN == "" {
			return fmt.Errorf("DB_DSN is required when DB_DRIVER is postgres")
		}
		if c.Database.MaxConns < 1 {
			return fmt.Errorf("DB_MAX_CONNS must be at least 1")
		}
		if c.Database.MinConns < 0 || c.Database.MinConns > c.Database.MaxConns {
			return fmt.Errorf("DB_MIN_CONNS must be between 0 and DB_MAX_CONNS")
		}
	default:
		return fmt.Errorf("DB_DRIVER must be one of: duckdb, postgres")
	}
	return nil
}

const (
	maxSendBuffer     = 65536
	minMaxMessageSize = 512
)

func (c *Config) validateRealtime() error {
	r := c.Realtime
	if r.SendBuffer < 1 || r.SendBuffer > maxSendBuffer {
		return fmt.Errorf("WS_SEND_BUFFER must be between 1 and %d", maxSendBuffer)
	}
	if r.MaxMessageSize < minMaxMessageSize {
		return fmt.Errorf("WS_MAX_MESSAGE_SIZE must be at least %d bytes", minMaxMessageSize)
	}
	if r.InboundRate <= 0 {
		return fmt.Errorf("WS_INBOUND_RATE must be positive")
	}
	if r.InboundBurst < 1 {
		return fmt.Errorf("WS_INBOUND_BURST must be at least 1")
	}
	return nil
}

func (c *Config) validateEngine() error {
	e := c.Engine
	if e.PersistTimeout <= 0 {
		return fmt.Errorf("PERSIST_TIMEOUT must be positive")
	}
	if e.BreakerFailureThreshold < 1 {
		return fmt.Errorf("BREAKER_FAILURE_THRESHOLD must be at least 1")
	}
	if e.BreakerTimeout <= 0 {
		return fmt.Errorf("BREAKER_TIMEOUT must be positive")
	}
	return nil
}

var validLogFormats = map[string]bool{"json": true, "console": true}

var validLogLevels = map[string]bool{
	"trace": true, "debug": true, "info": true, "warn": true, "error": true, "fatal": true, "panic": true, "disabled": true,
}

func (c *Config) validateLogging() error {
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error, fatal, panic, disabled")
	}
	if !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}
