// Signalcast - Campaign Recommendation Streaming Simulator
// Copyright 2026 Signalcast contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/signalcast/signalcast

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Router assembles the HTTP surface from handlers and middleware.
type Router struct {
	handler *Handler
	mw      *Middleware
}

// NewRouter creates a router. A nil middleware config uses the defaults.
func NewRouter(handler *Handler, mwConfig *MiddlewareConfig) *Router {
	return &Router{
		handler: handler,
		mw:      NewMiddleware(mwConfig),
	}
}

// Setup configures all HTTP routes using the chi router.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to all routes in order.
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.mw.CORS())

	// Operational endpoints stay outside the rate limiter so probes and
	// scrapes are never throttled.
	r.Get("/health", router.handler.Health)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/ws", router.handler.WebSocket)

	r.Route("/api", func(r chi.Router) {
		r.Use(router.mw.RateLimit())
		r.Use(PrometheusMetrics)

		r.Route("/sources", func(r chi.Router) {
			r.Get("/", router.handler.Sources)
			r.Get("/health", router.handler.SourcesHealth)
			r.Put("/{id}/config", router.handler.UpdateSourceConfig)
			r.Post("/{id}/reset", router.handler.ResetSource)
			r.Post("/{id}/test", router.handler.TestSource)
		})

		r.Route("/recommend", func(r chi.Router) {
			r.Post("/", router.handler.Recommend)
			r.Post("/batch", router.handler.RecommendBatch)
		})

		r.Route("/validate", func(r chi.Router) {
			r.Post("/", router.handler.Validate)
			r.Post("/batch", router.handler.ValidateBatch)
			r.Get("/stats", router.handler.ValidateStats)
			r.Post("/stats/reset", router.handler.ResetValidateStats)
			r.Get("/sample", router.handler.ValidateSample)
		})

		r.Route("/stream", func(r chi.Router) {
			r.Get("/stats", router.handler.StreamStats)
			r.Post("/global/start", router.handler.GlobalStreamStart)
			r.Post("/global/stop", router.handler.GlobalStreamStop)
		})
	})

	return r
}
