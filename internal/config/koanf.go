// SafarSafe - Tourist Safety Tracking and Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safarsafe

package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the config files searched in order. The first one found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/safarsafe/config.yaml",
	"/etc/safarsafe/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// DotEnvPathEnvVar overrides the .env file path.
const DotEnvPathEnvVar = "DOTENV_PATH"

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            5000,
			Host:            "0.0.0.0",
			Timeout:         30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			Environment:     "development",
		},
		Security: SecurityConfig{
			TokenTTL:             time.Hour,
			TokenIssuer:          "safarsafe",
			BcryptCost:           10,
			RateLimitReqs:        100,
			RateLimitWindow:      time.Minute,
			CORSOrigins:          []string{"*"},
			RevocationStore:      "memory",
			RevocationStorePath:  "/data/revocations",
			RevocationGCInterval: 10 * time.Minute,
		},
		Database: DatabaseConfig{
			Driver:          "duckdb",
			Path:            "/data/safarsafe.duckdb",
			MaxMemory:       "1GB",
			Threads:         0,
			MaxConns:        10,
			MinConns:        1,
			MaxConnLifetime: time.Hour,
		},
		Realtime: RealtimeConfig{
			RequireAuth:    true,
			AllowObservers: true,
			SendBuffer:     256,
			MaxMessageSize: 64 * 1024,
			InboundRate:    5,
			InboundBurst:   10,
		},
		Engine: EngineConfig{
			PersistTimeout:          5 * time.Second,
			PersistPanics:           true,
			BreakerMaxRequests:      3,
			BreakerInterval:         30 * time.Second,
			BreakerTimeout:          10 * time.Second,
			BreakerFailureThreshold: 5,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// LoadWithKoanf builds the configuration in three layers (defaults, file,
// environment) and validates the result.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// loadDotEnv copies a .env file into the process environment. Variables that
// are already set keep their value. A missing file is not an error.
func loadDotEnv() {
	path := os.Getenv(DotEnvPathEnvVar)
	if path == "" {
		path = ".env"
	}
	_ = godotenv.Load(path)
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths are parsed from comma-separated strings when they come from env vars.
var sliceConfigPaths = []string{
	"security.cors_origins",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) == 0 {
			continue
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to koanf paths.
// Unmapped variables are ignored.
var envMappings = map[string]string{
	"http_port":        "server.port",
	"http_host":        "server.host",
	"server_timeout":   "server.timeout",
	"shutdown_timeout": "server.shutdown_timeout",
	"environment":      "server.environment",

	"jwt_secret":             "security.jwt_secret",
	"token_ttl":              "security.token_ttl",
	"token_issuer":           "security.token_issuer",
	"bcrypt_cost":            "security.bcrypt_cost",
	"rate_limit_requests":    "security.rate_limit_requests",
	"rate_limit_window":      "security.rate_limit_window",
	"disable_rate_limit":     "security.rate_limit_disabled",
	"cors_origins":           "security.cors_origins",
	"revocation_store":       "security.revocation_store",
	"revocation_store_path":  "security.revocation_store_path",
	"revocation_gc_interval": "security.revocation_gc_interval",

	"db_driver":            "database.driver",
	"duckdb_path":          "database.path",
	"duckdb_max_memory":    "database.max_memory",
	"duckdb_threads":       "database.threads",
	"db_dsn":               "database.dsn",
	"db_max_conns":         "database.max_conns",
	"db_min_conns":         "database.min_conns",
	"db_max_conn_lifetime": "database.max_conn_lifetime",

	"realtime_require_auth":    "realtime.require_auth",
	"realtime_allow_observers": "realtime.allow_observers",
	"ws_send_buffer":           "realtime.send_buffer",
	"ws_max_message_size":      "realtime.max_message_size",
	"ws_inbound_rate":          "realtime.inbound_rate",
	"ws_inbound_burst":         "realtime.inbound_burst",

	"persist_timeout":           "engine.persist_timeout",
	"persist_panics":            "engine.persist_panics",
	"breaker_max_requests":      "engine.breaker_max_requests",
	"breaker_interval":          "engine.breaker_interval",
	"breaker_timeout":           "engine.breaker_timeout",
	"breaker_failure_threshold": "engine.breaker_failure_threshold",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc maps JWT_SECRET to security.jwt_secret, DB_DSN to
// database.dsn and so on. It returns "" for unknown variables so the rest of
// the environment does not leak into the configuration.
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}

func joinHostPort(host string, port int) string {
	return net.JoinHostPort(host, strconv.Itoa(port))
}
