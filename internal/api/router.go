// Shopmetrics - E-Commerce Marketing Analytics Dashboard
// Copyright 2026 Shopmetrics Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopmetrics/shopmetrics

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Router assembles the HTTP surface: the JSON API, the Prometheus
// endpoint, and the server-rendered dashboard page.
type Router struct {
	handler    *Handler
	middleware *Middleware
	dashboard  http.Handler
}

// NewRouter builds a router from its parts. dashboard serves GET / and may
// be nil when the HTML page is disabled.
func NewRouter(handler *Handler, mw *Middleware, dashboard http.Handler) *Router {
	if mw == nil {
		mw = NewMiddleware(nil)
	}
	return &Router{handler: handler, middleware: mw, dashboard: dashboard}
}

// Setup configures all routes and returns the root handler.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to every route in order.
	r.Use(RequestIDWithLogging())
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.middleware.CORS())
	r.Use(RequestLogging())

	// Health endpoint: no rate limit so monitoring never gets throttled.
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(SecurityHeaders())
		r.Get("/", router.handler.Health)
	})

	// Report endpoints.
	r.Route("/api/v1/report", func(r chi.Router) {
		r.Use(router.middleware.RateLimit())
		r.Use(SecurityHeaders())
		r.Use(PrometheusMetrics())

		r.Get("/", router.handler.Report)
		r.Get("/summary", router.handler.ReportSummary)
		r.Get("/cohorts", router.handler.ReportCohorts)
		r.Get("/basket", router.handler.ReportBasket)
		r.Get("/tops", router.handler.ReportTops)
		r.Get("/locations", router.handler.ReportLocations)
		r.Get("/dataset", router.handler.ReportDataset)
	})

	// Prometheus scrape endpoint.
	r.Handle("/metrics", promhttp.Handler())

	// Dashboard page.
	if router.dashboard != nil {
		r.Get("/", router.dashboard.ServeHTTP)
	}

	return r
}
