// Shopmetrics - E-Commerce Marketing Analytics Dashboard
// Copyright 2026 Shopmetrics Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopmetrics/shopmetrics

// Package main is the Shopmetrics importer CLI. It builds a file-backed
// DuckDB database from the CSV extracts ahead of time, so the server can
// start against a pre-built database instead of ingesting at boot.
//
// Usage:
//
//	shopmetrics-import -db data/shopmetrics.duckdb \
//	    -orders data/order.csv -line-items data/line_item.csv \
//	    -customers data/customer.csv
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/schollz/progressbar/v3"

	"github.com/shopmetrics/shopmetrics/internal/config"
	"github.com/shopmetrics/shopmetrics/internal/database"
	"github.com/shopmetrics/shopmetrics/internal/logging"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	dbPath := flag.String("db", "data/shopmetrics.duckdb", "output DuckDB database file")
	ordersCSV := flag.String("orders", cfg.Data.OrdersCSV, "orders CSV extract")
	lineItemsCSV := flag.String("line-items", cfg.Data.LineItemsCSV, "line-items CSV extract")
	customersCSV := flag.String("customers", cfg.Data.CustomersCSV, "customers CSV extract")
	quiet := flag.Bool("quiet", false, "suppress the progress bar")
	flag.Parse()

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: "console",
		Caller: false,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbCfg := cfg.Database
	dbCfg.Path = *dbPath
	db, err := database.New(&dbCfg)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()

	data := config.DataConfig{
		OrdersCSV:    *ordersCSV,
		LineItemsCSV: *lineItemsCSV,
		CustomersCSV: *customersCSV,
	}

	steps := []struct {
		name string
		run  func(context.Context) error
	}{
		{"ingest extracts", func(ctx context.Context) error { return db.Ingest(ctx, data) }},
		{"verify tables", func(ctx context.Context) error { return verifyTables(ctx, db) }},
	}

	var bar *progressbar.ProgressBar
	if !*quiet {
		bar = progressbar.Default(int64(len(steps)))
	}

	for _, step := range steps {
		if err := step.run(ctx); err != nil {
			return fmt.Errorf("%s: %w", step.name, err)
		}
		if bar != nil {
			_ = bar.Add(1)
		}
	}

	logging.Info().Str("db", *dbPath).Msg("Import complete")
	return nil
}

// verifyTables confirms the ingested tables are queryable and non-empty
// enough to serve a report.
func verifyTables(ctx context.Context, db *database.DB) error {
	orders, err := db.Orders(ctx)
	if err != nil {
		return err
	}
	if len(orders) == 0 {
		return fmt.Errorf("orders table is empty after ingest")
	}
	if _, err := db.LineItems(ctx); err != nil {
		return err
	}
	if _, err := db.Customers(ctx); err != nil {
		return err
	}
	return nil
}
