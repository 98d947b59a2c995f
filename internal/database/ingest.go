// Shopmetrics - E-Commerce Marketing Analytics Dashboard
// Copyright 2026 Shopmetrics Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopmetrics/shopmetrics

package database

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/shopmetrics/shopmetrics/internal/config"
	"github.com/shopmetrics/shopmetrics/internal/logging"
	"github.com/shopmetrics/shopmetrics/internal/metrics"
	"github.com/shopmetrics/shopmetrics/internal/models"
)

// Ingestion reads the CSV extracts through DuckDB's read_csv. Every column
// comes in as VARCHAR and is cast explicitly; TRY_CAST turns unparseable
// timestamps and totals into NULL instead of failing the load, matching
// the coerce-to-null contract of the source extracts.

// ingestOrdersSQL loads the orders extract.
const ingestOrdersSQL = `
CREATE OR REPLACE TABLE orders AS
SELECT
    "Name"                                    AS name,
    CAST("Cust_ID" AS VARCHAR)                AS customer_id,
    TRY_CAST("Created at" AS TIMESTAMP)       AS created_at,
    "Financial Status"                        AS financial_status,
    TRY_CAST("Total" AS DOUBLE)               AS total,
    CAST("Shipping Zip" AS VARCHAR)           AS shipping_zip
FROM read_csv(%s, header = true, all_varchar = true)
`

// ingestLineItemsSQL loads the line-items extract.
const ingestLineItemsSQL = `
CREATE OR REPLACE TABLE line_items AS
SELECT
    "Name"                                    AS order_name,
    "Lineitem name"                           AS name,
    CAST("Lineitem sku" AS VARCHAR)           AS sku,
    CAST("Discount Code" AS VARCHAR)          AS discount_code,
    TRY_CAST("Created at" AS TIMESTAMP)       AS created_at
FROM read_csv(%s, header = true, all_varchar = true)
`

// ingestCustomersSQL loads the customers extract.
const ingestCustomersSQL = `
CREATE OR REPLACE TABLE customers AS
SELECT
    CAST("Cust_ID" AS VARCHAR)                AS id,
    TRY_CAST("first_order" AS TIMESTAMP)      AS first_order,
    TRY_CAST("last_order" AS TIMESTAMP)       AS last_order
FROM read_csv(%s, header = true, all_varchar = true)
`

// Ingest loads the three CSV extracts into DuckDB tables, replacing any
// previous contents. Called once at startup (or by the importer CLI).
func (db *DB) Ingest(ctx context.Context, data config.DataConfig) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	steps := []struct {
		table string
		query string
		path  string
	}{
		{"orders", ingestOrdersSQL, data.OrdersCSV},
		{"line_items", ingestLineItemsSQL, data.LineItemsCSV},
		{"customers", ingestCustomersSQL, data.CustomersCSV},
	}

	for _, step := range steps {
		start := time.Now()
		query := fmt.Sprintf(step.query, quoteLiteral(step.path))
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("ingest %s from %s: %w", step.table, step.path, err)
		}
		metrics.DBQueryDuration.WithLabelValues("ingest", step.table).Observe(time.Since(start).Seconds())

		count, err := db.tableCount(ctx, step.table)
		if err != nil {
			return fmt.Errorf("count %s: %w", step.table, err)
		}
		metrics.RowsLoaded.WithLabelValues(step.table).Set(float64(count))
		logging.Info().Str("table", step.table).Int64("rows", count).Msg("Extract ingested")
	}

	return nil
}

// tableCount returns the row count of a table.
func (db *DB) tableCount(ctx context.Context, table string) (int64, error) {
	var count int64
	// table comes from the fixed ingestion steps, never from user input
	row := db.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table)
	if err := row.Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// quoteLiteral quotes a string as a SQL literal for read_csv paths.
func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// placeRecord mirrors one entry of the postal lookup JSON.
type placeRecord struct {
	PlaceName string  `json:"place_name"`
	StateName string  `json:"state_name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// LoadZipLookup reads the postal-code lookup JSON (zip -> place) into a
// map keyed by 5-digit zip.
func LoadZipLookup(path string) (map[string]models.Place, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read zip lookup %s: %w", path, err)
	}

	records := make(map[string]placeRecord)
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("parse zip lookup %s: %w", path, err)
	}

	lookup := make(map[string]models.Place, len(records))
	for zip, rec := range records {
		lookup[zip] = models.Place{
			Zip:       zip,
			PlaceName: rec.PlaceName,
			StateName: rec.StateName,
			Latitude:  rec.Latitude,
			Longitude: rec.Longitude,
		}
	}

	logging.Info().Int("places", len(lookup)).Str("path", path).Msg("Postal lookup loaded")
	return lookup, nil
}
