// Shopmetrics - E-Commerce Marketing Analytics Dashboard
// Copyright 2026 Shopmetrics Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopmetrics/shopmetrics

// Package main is the entry point for the Shopmetrics server.
//
// Shopmetrics is a self-hosted e-commerce marketing analytics dashboard.
// It loads order, line-item, and customer CSV extracts into an embedded
// DuckDB database at startup and serves windowed business reports over
// HTTP: headline metrics with period-over-period deltas, monthly cohort
// retention, market-basket product combinations, top-seller panels, and a
// customer-location map.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: layered via Koanf v2 (defaults, YAML file, env vars)
//  2. Database: embedded DuckDB; CSV extracts ingested with read_csv
//  3. Report service: source tables materialized into immutable slices
//  4. HTTP server: Chi router under a Suture supervisor tree
//
// # Configuration
//
// Highest priority wins:
//   - Environment variables (SERVER_PORT, DATA_ORDERS_CSV, ...)
//   - Config file (config.yaml, or CONFIG_PATH)
//   - Built-in defaults
//
// # Signal Handling
//
// The server shuts down gracefully on SIGINT and SIGTERM: it stops
// accepting connections, waits for in-flight requests up to the server
// timeout, then closes the database.
//
// # Example Usage
//
//	export DATA_ORDERS_CSV=data/order.csv
//	export DATA_LINE_ITEMS_CSV=data/line_item.csv
//	export DATA_CUSTOMERS_CSV=data/customer.csv
//	export DATA_ZIP_LOOKUP_JSON=data/zips.json
//	./shopmetrics
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/shopmetrics/shopmetrics/internal/api"
	"github.com/shopmetrics/shopmetrics/internal/config"
	"github.com/shopmetrics/shopmetrics/internal/database"
	"github.com/shopmetrics/shopmetrics/internal/logging"
	"github.com/shopmetrics/shopmetrics/internal/metrics"
	"github.com/shopmetrics/shopmetrics/internal/mining"
	"github.com/shopmetrics/shopmetrics/internal/report"
	"github.com/shopmetrics/shopmetrics/internal/supervisor"
	"github.com/shopmetrics/shopmetrics/internal/web"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Config is not available yet; use the default logger.
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("version", version).
		Str("addr", cfg.Server.Addr()).
		Str("db_path", cfg.Database.Path).
		Str("environment", cfg.Server.Environment).
		Msg("Starting Shopmetrics")

	metrics.AppInfo.WithLabelValues(version, runtime.Version()).Set(1)

	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := db.Ingest(ctx, cfg.Data); err != nil {
		logging.Fatal().Err(err).Msg("Failed to ingest source extracts")
	}

	svc, err := report.New(ctx, db, mining.NewApriori(), cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to build report service")
	}

	dashboard, err := web.NewDashboard(svc)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to build dashboard page")
	}

	handler := api.NewHandler(svc, version)
	mw := api.NewMiddleware(&api.MiddlewareConfig{
		CORSAllowedOrigins: cfg.API.CORSOrigins,
		CORSAllowedMethods: []string{"GET", "OPTIONS"},
		CORSAllowedHeaders: []string{"Content-Type"},
		CORSMaxAge:         86400,
		RateLimitRequests:  cfg.API.RateLimitReqs,
		RateLimitWindow:    cfg.API.RateLimitWindow,
	})
	router := api.NewRouter(handler, mw, dashboard)

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  2 * cfg.Server.Timeout,
	}

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.Timeout,
	})
	tree.AddAPIService(supervisor.NewHTTPServerService(server, cfg.Server.Timeout))

	startedAt := time.Now()
	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				metrics.AppUptime.Set(time.Since(startedAt).Seconds())
			}
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Str("addr", cfg.Server.Addr()).Msg("Serving dashboard")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, s := range unstopped {
		logging.Warn().Str("service", s.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Shopmetrics stopped gracefully")
}
