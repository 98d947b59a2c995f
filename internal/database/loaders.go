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

// Loaders materialize the ingested tables into model slices. The report
// service holds the slices for the process lifetime; NULL timestamps come
// out as zero time.Time values, which the windowing layer never matches.

// Orders loads all orders.
func (db *DB) Orders(ctx context.Context) ([]models.Order, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	defer func() {
		metrics.DBQueryDuration.WithLabelValues("load", "orders").Observe(time.Since(start).Seconds())
	}()

	rows, err := db.conn.QueryContext(ctx, `
		SELECT name, customer_id, created_at, financial_status, total, shipping_zip
		FROM orders
	`)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		var (
			o         models.Order
			name      sql.NullString
			custID    sql.NullString
			createdAt sql.NullTime
			status    sql.NullString
			total     sql.NullFloat64
			zip       sql.NullString
		)
		if err := rows.Scan(&name, &custID, &createdAt, &status, &total, &zip); err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		o.Name = name.String
		o.CustomerID = custID.String
		if createdAt.Valid {
			o.CreatedAt = createdAt.Time.UTC()
		}
		o.FinancialStatus = status.String
		o.Total = total.Float64
		o.ShippingZip = zip.String
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order rows: %w", err)
	}
	return orders, nil
}

// LineItems loads all line items.
func (db *DB) LineItems(ctx context.Context) ([]models.LineItem, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	defer func() {
		metrics.DBQueryDuration.WithLabelValues("load", "line_items").Observe(time.Since(start).Seconds())
	}()

	rows, err := db.conn.QueryContext(ctx, `
		SELECT order_name, name, sku, discount_code, created_at
		FROM line_items
	`)
	if err != nil {
		return nil, fmt.Errorf("query line items: %w", err)
	}
	defer rows.Close()

	var items []models.LineItem
	for rows.Next() {
		var (
			li        models.LineItem
			orderName sql.NullString
			name      sql.NullString
			sku       sql.NullString
			discount  sql.NullString
			createdAt sql.NullTime
		)
		if err := rows.Scan(&orderName, &name, &sku, &discount, &createdAt); err != nil {
			return nil, fmt.Errorf("scan line item row: %w", err)
		}
		li.OrderName = orderName.String
		li.Name = name.String
		li.SKU = sku.String
		li.DiscountCode = discount.String
		if createdAt.Valid {
			li.CreatedAt = createdAt.Time.UTC()
		}
		items = append(items, li)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate line item rows: %w", err)
	}
	return items, nil
}

// Customers loads all customers.
func (db *DB) Customers(ctx context.Context) ([]models.Customer, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	defer func() {
		metrics.DBQueryDuration.WithLabelValues("load", "customers").Observe(time.Since(start).Seconds())
	}()

	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, first_order, last_order
		FROM customers
	`)
	if err != nil {
		return nil, fmt.Errorf("query customers: %w", err)
	}
	defer rows.Close()

	var customers []models.Customer
	for rows.Next() {
		var (
			c          models.Customer
			id         sql.NullString
			firstOrder sql.NullTime
			lastOrder  sql.NullTime
		)
		if err := rows.Scan(&id, &firstOrder, &lastOrder); err != nil {
			return nil, fmt.Errorf("scan customer row: %w", err)
		}
		c.ID = id.String
		if firstOrder.Valid {
			c.FirstOrder = firstOrder.Time.UTC()
		}
		if lastOrder.Valid {
			c.LastOrder = lastOrder.Time.UTC()
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate customer rows: %w", err)
	}
	return customers, nil
}
