// SafarSafe - Tourist Safety Tracking and Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safarsafe

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/tomtom215/safarsafe/internal/middleware"
)

// Authenticator guards routes that need a verified bearer token.
type Authenticator interface {
	Authenticate(next http.Handler) http.Handler
}

// Router wires handlers to routes.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
	auth          Authenticator
}

// NewRouter creates a Router.
func NewRouter(handler *Handler, chiMW *ChiMiddleware, auth Authenticator) *Router {
	return &Router{handler: handler, chiMiddleware: chiMW, auth: auth}
}

// SetupChi configures all HTTP routes.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// Applied to every route, in order.
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.AccessLog)
	r.Use(router.chiMiddleware.CORS()) // CORS must be global to handle OPTIONS preflight
	r.Use(middleware.PrometheusMetrics)

	r.Route("/api/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitCustom(RateLimitHealth))
		r.Use(APISecurityHeaders())
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})

	r.Route("/api/tourist", func(r chi.Router) {
		r.Use(APISecurityHeaders())
		r.Use(router.chiMiddleware.RateLimit())

		r.With(router.chiMiddleware.RateLimitCustom(RateLimitRegister)).Post("/register", router.handler.Register)
		r.With(router.chiMiddleware.RateLimitCustom(RateLimitLogin)).Post("/login", router.handler.Login)

		r.Group(func(r chi.Router) {
			r.Use(router.auth.Authenticate)
			r.Get("/profile", router.handler.Profile)
			r.Post("/logout", router.handler.Logout)
			r.Get("/locations", router.handler.Locations)
			r.Get("/panics", router.handler.PanicHistory)
			r.With(router.chiMiddleware.RateLimitCustom(RateLimitPanic)).Post("/panic", router.handler.Panic)
		})
	})

	r.With(router.chiMiddleware.RateLimitCustom(RateLimitWebSocket)).Get("/ws", router.handler.WebSocket)

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("list"),
		httpSwagger.DomID("swagger-ui"),
	))

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		respondError(w, req, http.StatusNotFound, CodeNotFound, "Not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		respondError(w, req, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
	})

	return r
}
