// SafarSafe - Tourist Safety Tracking and Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safarsafe

package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/tomtom215/safarsafe/docs" // Import generated swagger docs
	"github.com/tomtom215/safarsafe/internal/config"
	"github.com/tomtom215/safarsafe/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("environment", cfg.Server.Environment).
		Str("addr", cfg.ListenAddr()).
		Str("db_driver", cfg.Database.Driver).
		Str("revocation_store", cfg.Security.RevocationStore).
		Bool("require_auth", cfg.Realtime.RequireAuth).
		Bool("allow_observers", cfg.Realtime.AllowObservers).
		Msg("Starting SafarSafe")

	if cfg.ShouldWarnAboutCORS() {
		logging.Warn().Msg("CORS_ORIGINS=* allows any origin; set explicit origins before going to production")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, err := newApp(ctx, cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize")
	}
	defer a.close()

	tree, err := a.tree()
	if err != nil {
		logging.Error().Err(err).Msg("Failed to build supervisor tree")
		return
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree...")
	for err := range tree.ServeBackground(ctx) {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("SafarSafe stopped")
}
