// Shopmetrics - E-Commerce Marketing Analytics Dashboard
// Copyright 2026 Shopmetrics Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopmetrics/shopmetrics

// Package models provides data structures for the Shopmetrics application.
// This file contains the immutable source records loaded once per process
// from the CSV extracts. None of these are mutated after load; every report
// render derives its own structures from them.
package models

import "time"

// Order is one row of the orders extract.
type Order struct {
	// Name is the order identifier ("#1001" style in Shopify exports).
	Name string `json:"name"`

	// CustomerID links the order to a Customer.
	CustomerID string `json:"customer_id"`

	// CreatedAt is the order creation timestamp. Zero when the source value
	// failed to parse; such rows never match any window bound.
	CreatedAt time.Time `json:"created_at"`

	// FinancialStatus is the payment state ("paid", "pending", "refunded", ...).
	FinancialStatus string `json:"financial_status"`

	// Total is the order total in the shop currency.
	Total float64 `json:"total"`

	// ShippingZip is the raw shipping postal code. May carry ZIP+4 suffixes;
	// consumers match on the 5-digit prefix.
	ShippingZip string `json:"shipping_zip"`
}

// FinancialStatusPaid is the financial status counted as a completed sale.
const FinancialStatusPaid = "paid"

// LineItem is one row of the line-items extract. Many line items belong to
// one order.
type LineItem struct {
	// OrderName is the foreign key to Order.Name.
	OrderName string `json:"order_name"`

	// Name is the product name as sold.
	Name string `json:"name"`

	// SKU is the stock keeping unit, possibly empty.
	SKU string `json:"sku"`

	// DiscountCode is the discount code applied to the order, possibly empty.
	DiscountCode string `json:"discount_code"`

	// CreatedAt is the line-item creation timestamp. Zero when unparseable.
	CreatedAt time.Time `json:"created_at"`
}

// Customer is one row of the customers extract.
type Customer struct {
	// ID is the customer identifier.
	ID string `json:"id"`

	// FirstOrder is the customer's earliest order timestamp. A customer is
	// "new" in a window when FirstOrder falls inside it. Zero when
	// unparseable.
	FirstOrder time.Time `json:"first_order"`

	// LastOrder is the customer's most recent order timestamp. Zero when
	// unparseable.
	LastOrder time.Time `json:"last_order"`
}

// Place is one entry of the postal-code lookup table.
type Place struct {
	// Zip is the 5-digit postal code.
	Zip string `json:"zip"`

	// PlaceName is the city or locality name.
	PlaceName string `json:"place_name"`

	// StateName is the state or region name.
	StateName string `json:"state_name"`

	// Latitude and Longitude locate the postal code centroid.
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}
