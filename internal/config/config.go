// Shopmetrics - E-Commerce Marketing Analytics Dashboard
// Copyright 2026 Shopmetrics Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopmetrics/shopmetrics

// Package config provides layered configuration for Shopmetrics.
//
// Configuration is resolved in three layers with later layers overriding
// earlier ones:
//
//  1. Built-in defaults
//  2. Optional YAML config file (CONFIG_PATH or the default search paths)
//  3. Environment variables (SERVER_PORT, DATA_ORDERS_CSV, ...)
package config

import (
	"fmt"
	"time"
)

// Config is the root configuration for the Shopmetrics server and importer.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Data     DataConfig     `koanf:"data"`
	Basket   BasketConfig   `koanf:"basket"`
	Geo      GeoConfig      `koanf:"geo"`
	API      APIConfig      `koanf:"api"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the listen address.
	Host string `koanf:"host"`

	// Port is the listen port.
	Port int `koanf:"port"`

	// Timeout bounds request read/write and graceful shutdown.
	Timeout time.Duration `koanf:"timeout"`

	// Environment is "development" or "production".
	Environment string `koanf:"environment"`
}

// DatabaseConfig holds embedded DuckDB settings.
type DatabaseConfig struct {
	// Path is the DuckDB database file. ":memory:" keeps everything in RAM,
	// which is the default since the source of truth is the CSV extracts.
	Path string `koanf:"path"`

	// MaxMemory caps DuckDB memory usage (e.g. "2GB").
	MaxMemory string `koanf:"max_memory"`

	// Threads is the DuckDB thread count. 0 = runtime.NumCPU().
	Threads int `koanf:"threads"`
}

// DataConfig points at the source extracts loaded once at startup.
type DataConfig struct {
	// OrdersCSV is the orders extract (one row per order).
	OrdersCSV string `koanf:"orders_csv"`

	// LineItemsCSV is the line-items extract (many rows per order).
	LineItemsCSV string `koanf:"line_items_csv"`

	// CustomersCSV is the customers extract (one row per customer).
	CustomersCSV string `koanf:"customers_csv"`

	// ZipLookupJSON maps 5-digit postal codes to place/state/lat/lon.
	ZipLookupJSON string `koanf:"zip_lookup_json"`
}

// BasketConfig tunes the market-basket summarizer.
type BasketConfig struct {
	// MinSupport is the minimum itemset support passed to the miner.
	MinSupport float64 `koanf:"min_support"`

	// MinLift is the minimum association-rule lift passed to the miner.
	MinLift float64 `koanf:"min_lift"`

	// TopN caps the rendered product-combination table.
	TopN int `koanf:"top_n"`
}

// GeoConfig tunes the customer-location cluster panel.
type GeoConfig struct {
	// OrderThreshold keeps only states with strictly more lookup rows
	// than this value.
	OrderThreshold int `koanf:"order_threshold"`
}

// APIConfig holds API behavior settings.
type APIConfig struct {
	// RateLimitReqs is the per-IP request budget per RateLimitWindow.
	RateLimitReqs int `koanf:"rate_limit_reqs"`

	// RateLimitWindow is the rate limit window duration.
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`

	// CORSOrigins lists allowed CORS origins.
	CORSOrigins []string `koanf:"cors_origins"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Validate checks the configuration for values that would fail at runtime.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server.timeout must be positive, got %s", c.Server.Timeout)
	}
	if c.Data.OrdersCSV == "" {
		return fmt.Errorf("data.orders_csv is required")
	}
	if c.Data.LineItemsCSV == "" {
		return fmt.Errorf("data.line_items_csv is required")
	}
	if c.Data.CustomersCSV == "" {
		return fmt.Errorf("data.customers_csv is required")
	}
	if c.Basket.MinSupport <= 0 || c.Basket.MinSupport > 1 {
		return fmt.Errorf("basket.min_support must be in (0, 1], got %g", c.Basket.MinSupport)
	}
	if c.Basket.MinLift < 0 {
		return fmt.Errorf("basket.min_lift must be non-negative, got %g", c.Basket.MinLift)
	}
	if c.Basket.TopN < 1 {
		return fmt.Errorf("basket.top_n must be at least 1, got %d", c.Basket.TopN)
	}
	if c.Geo.OrderThreshold < 0 {
		return fmt.Errorf("geo.order_threshold must be non-negative, got %d", c.Geo.OrderThreshold)
	}
	if c.API.RateLimitReqs < 1 {
		return fmt.Errorf("api.rate_limit_reqs must be at least 1, got %d", c.API.RateLimitReqs)
	}
	return nil
}

// Addr returns the host:port listen address.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
