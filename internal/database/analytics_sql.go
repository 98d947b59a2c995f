// Shopmetrics - E-Commerce Marketing Analytics Dashboard
// Copyright 2026 Shopmetrics Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopmetrics/shopmetrics

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopmetrics/shopmetrics/internal/metrics"
	"github.com/shopmetrics/shopmetrics/internal/models"
)

// Full-dataset aggregates that do not depend on the report window. These
// run in DuckDB rather than in Go because they scan the whole orders and
// line_items tables on every call.

// OrdersPerDay counts orders per calendar day over the whole dataset,
// feeding the calendar heatmap. Orders with a NULL created_at are excluded.
func (db *DB) OrdersPerDay(ctx context.Context) ([]models.DayCount, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	var queryErr error
	defer func() {
		metrics.RecordDBQuery("orders_per_day", "orders", time.Since(start), queryErr)
	}()

	rows, err := db.conn.QueryContext(ctx, `
		SELECT strftime(CAST(created_at AS DATE), '%Y-%m-%d') AS day,
		       COUNT(*) AS orders
		FROM orders
		WHERE created_at IS NOT NULL
		GROUP BY day
		ORDER BY day
	`)
	if err != nil {
		queryErr = err
		return nil, fmt.Errorf("query orders per day: %w", err)
	}
	defer rows.Close()

	var out []models.DayCount
	for rows.Next() {
		var dc models.DayCount
		if err := rows.Scan(&dc.Date, &dc.Count); err != nil {
			queryErr = err
			return nil, fmt.Errorf("scan orders-per-day row: %w", err)
		}
		out = append(out, dc)
	}
	if err := rows.Err(); err != nil {
		queryErr = err
		return nil, fmt.Errorf("iterate orders-per-day rows: %w", err)
	}
	return out, nil
}

// TopProductsAllTime ranks products by line-item count over the whole
// dataset. Ties break on name so the ranking is stable across runs.
func (db *DB) TopProductsAllTime(ctx context.Context, limit int) ([]models.ProductCount, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	var queryErr error
	defer func() {
		metrics.RecordDBQuery("top_products", "line_items", time.Since(start), queryErr)
	}()

	rows, err := db.conn.QueryContext(ctx, `
		SELECT name, COUNT(*) AS items
		FROM line_items
		WHERE name IS NOT NULL AND name <> ''
		GROUP BY name
		ORDER BY items DESC, name ASC
		LIMIT ?
	`, limit)
	if err != nil {
		queryErr = err
		return nil, fmt.Errorf("query top products: %w", err)
	}
	defer rows.Close()

	var out []models.ProductCount
	for rows.Next() {
		var pc models.ProductCount
		if err := rows.Scan(&pc.Name, &pc.Count); err != nil {
			queryErr = err
			return nil, fmt.Errorf("scan top-products row: %w", err)
		}
		out = append(out, pc)
	}
	if err := rows.Err(); err != nil {
		queryErr = err
		return nil, fmt.Errorf("iterate top-products rows: %w", err)
	}
	return out, nil
}

// DataRange returns the earliest and latest non-NULL order timestamps,
// which the report service uses to resolve the full-dataset window. ok is
// false when the orders table holds no timestamped rows.
func (db *DB) DataRange(ctx context.Context) (earliest, latest time.Time, ok bool, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	var queryErr error
	defer func() {
		metrics.RecordDBQuery("data_range", "orders", time.Since(start), queryErr)
	}()

	row := db.conn.QueryRowContext(ctx, `
		SELECT MIN(created_at), MAX(created_at)
		FROM orders
	`)
	var minAt, maxAt sql.NullTime
	if scanErr := row.Scan(&minAt, &maxAt); scanErr != nil {
		queryErr = scanErr
		return time.Time{}, time.Time{}, false, fmt.Errorf("scan data range: %w", scanErr)
	}
	if !minAt.Valid || !maxAt.Valid {
		return time.Time{}, time.Time{}, false, nil
	}
	return minAt.Time.UTC(), maxAt.Time.UTC(), true, nil
}
