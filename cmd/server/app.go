// SafarSafe - Tourist Safety Tracking and Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safarsafe

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/tomtom215/safarsafe/internal/api"
	"github.com/tomtom215/safarsafe/internal/auth"
	"github.com/tomtom215/safarsafe/internal/config"
	"github.com/tomtom215/safarsafe/internal/database"
	"github.com/tomtom215/safarsafe/internal/ingest"
	"github.com/tomtom215/safarsafe/internal/logging"
	"github.com/tomtom215/safarsafe/internal/supervisor"
	"github.com/tomtom215/safarsafe/internal/supervisor/services"
	"github.com/tomtom215/safarsafe/internal/tourist"
	ws "github.com/tomtom215/safarsafe/internal/websocket"
)

// app holds every wired component of a running server.
type app struct {
	cfg     *config.Config
	store   database.Store
	revoked auth.RevocationStore
	hub     *ws.Hub
	handler http.Handler
}

// newApp opens the stores and wires the HTTP surface. On error everything
// opened so far is closed.
func newApp(ctx context.Context, cfg *config.Config) (_ *app, err error) {
	a := &app{cfg: cfg}
	defer func() {
		if err != nil {
			a.close()
		}
	}()

	a.store, err = database.Open(ctx, &cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("open location store: %w", err)
	}
	logging.Info().Str("driver", a.store.Driver()).Msg("Location store initialized")

	a.revoked, err = auth.NewRevocationStore(cfg.Security.RevocationStore, cfg.Security.RevocationStorePath)
	if err != nil {
		return nil, fmt.Errorf("open revocation store: %w", err)
	}

	jwtManager, err := auth.NewJWTManager(&cfg.Security)
	if err != nil {
		return nil, fmt.Errorf("create token manager: %w", err)
	}
	gate := auth.NewGate(jwtManager, a.revoked)

	tourists, err := tourist.NewService(a.store, gate, auth.NewPasswordHasher(cfg.Security.BcryptCost))
	if err != nil {
		return nil, fmt.Errorf("create tourist service: %w", err)
	}

	a.hub = ws.NewHub()
	engine := ingest.New(a.store, a.hub, ingest.OptionsFromConfig(cfg))

	handler := api.NewHandler(api.Dependencies{
		Config:   cfg,
		Tourists: tourists,
		Panics:   engine,
		Verifier: gate,
		Store:    a.store,
		Hub:      a.hub,
		Frames:   engine,
	})
	chiMW := api.NewChiMiddleware(api.ChiMiddlewareConfigFrom(&cfg.Security))
	a.handler = api.NewRouter(handler, chiMW, auth.NewMiddleware(gate)).SetupChi()

	return a, nil
}

// tree builds the supervisor tree that serves a.
func (a *app) tree() (*supervisor.SupervisorTree, error) {
	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: a.cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("create supervisor tree: %w", err)
	}

	server := &http.Server{
		Addr:              a.cfg.ListenAddr(),
		Handler:           a.handler,
		ReadHeaderTimeout: a.cfg.Server.Timeout,
		ReadTimeout:       a.cfg.Server.Timeout,
		IdleTimeout:       2 * a.cfg.Server.Timeout,
	}

	tree.AddDataService(services.NewRevocationGCService(a.revoked, a.cfg.Security.RevocationGCInterval))
	tree.AddMessagingService(services.NewRegistryService(a.hub))
	tree.AddAPIService(services.NewHTTPServerService(server, server.Addr, a.cfg.Server.ShutdownTimeout))
	return tree, nil
}

// close releases the stores. It is safe on a partially built app.
func (a *app) close() {
	var errs []error
	if a.revoked != nil {
		errs = append(errs, a.revoked.Close())
	}
	if a.store != nil {
		errs = append(errs, a.store.Close())
	}
	if err := errors.Join(errs...); err != nil {
		logging.Error().Err(err).Msg("Error closing stores")
	}
}
