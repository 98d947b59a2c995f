// Shopmetrics - E-Commerce Marketing Analytics Dashboard
// Copyright 2026 Shopmetrics Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopmetrics/shopmetrics

package models

import "time"

// WindowInfo echoes the resolved report window back to the client.
type WindowInfo struct {
	Start         time.Time `json:"start"`
	End           time.Time `json:"end"`
	PreviousStart time.Time `json:"previous_start"`
	PreviousEnd   time.Time `json:"previous_end"`
}

// ProductCombination is one row of the top product-combinations table
// produced by the market-basket summarizer.
type ProductCombination struct {
	// Rank is 1-based presentation order (highest support first).
	Rank int `json:"rank"`

	// Products is the combined antecedent+consequent item set, sorted.
	Products []string `json:"products"`

	// PctOfOrders is the itemset support as a percentage of qualifying
	// orders, rounded to two decimals.
	PctOfOrders float64 `json:"pct_of_orders"`
}

// FrequentItemset is a product set with its support, as returned by a
// basket miner.
type FrequentItemset struct {
	Items   []string `json:"items"`
	Support float64  `json:"support"`
}

// AssociationRule is a mined product association with its standard metrics.
type AssociationRule struct {
	Antecedents []string `json:"antecedents"`
	Consequents []string `json:"consequents"`
	Support     float64  `json:"support"`
	Confidence  float64  `json:"confidence"`
	Lift        float64  `json:"lift"`
}

// ProductCount is a product name with its line-item count.
type ProductCount struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

// WeekdayCount is an order count for one day of the week.
type WeekdayCount struct {
	Weekday string `json:"weekday"`
	Count   int64  `json:"count"`
}

// CountBucket is one bucket of the orders-per-customer distribution: how
// many customers placed exactly Orders orders in the window.
type CountBucket struct {
	Orders    int64 `json:"orders"`
	Customers int64 `json:"customers"`
}

// DayCount is an order count for one calendar date, used by the calendar
// heatmap panel.
type DayCount struct {
	Date  string `json:"date"` // "2006-01-02"
	Count int64  `json:"count"`
}

// TopPanels holds the audience/top-product tiles for the active window.
type TopPanels struct {
	// TopProduct is the most frequent line-item name, shortened for display.
	TopProduct string `json:"top_product"`

	// TopSKU is the most frequent non-empty SKU.
	TopSKU string `json:"top_sku"`

	// TopDiscountCode is the most frequent non-empty discount code.
	TopDiscountCode string `json:"top_discount_code"`

	// TopCity is the most frequent shipping destination resolved through the
	// postal lookup.
	TopCity string `json:"top_city"`

	// TopProducts is the top-10 products by line-item count.
	TopProducts []ProductCount `json:"top_products"`

	// OrdersByWeekday is the order count per day of week, Monday first.
	OrdersByWeekday []WeekdayCount `json:"orders_by_weekday"`

	// OrdersPerCustomer is the distribution of order counts across
	// customers: most common count first.
	OrdersPerCustomer []CountBucket `json:"orders_per_customer"`

	// TotalOrders is the order count for the window.
	TotalOrders int64 `json:"total_orders"`
}

// GeoPoint is one marker in the customer-location cluster.
type GeoPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	PlaceName string  `json:"place_name"`
}

// GeoClusters is the customer-location map panel: a center to open the map
// on and the cluster markers.
type GeoClusters struct {
	CenterLatitude  float64    `json:"center_latitude"`
	CenterLongitude float64    `json:"center_longitude"`
	Points          []GeoPoint `json:"points"`
}

// DatasetPanels holds the panels computed over the whole dataset rather
// than the requested window: the calendar series of orders per day and the
// all-time top products. They are loaded once at startup and identical in
// every report.
type DatasetPanels struct {
	OrdersPerDay []DayCount     `json:"orders_per_day"`
	TopProducts  []ProductCount `json:"top_products"`
}

// ReportData is one full report render: everything the dashboard needs for
// a given date range. It is recomputed from scratch on every request and
// never persisted.
type ReportData struct {
	Window    WindowInfo           `json:"window"`
	Summary   SummaryComparison    `json:"summary"`
	Cohorts   CohortAnalytics      `json:"cohorts"`
	Basket    []ProductCombination `json:"basket"`
	Tops      TopPanels            `json:"tops"`
	Locations GeoClusters          `json:"locations"`
	Dataset   DatasetPanels        `json:"dataset"`
}
