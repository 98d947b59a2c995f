// Shopmetrics - E-Commerce Marketing Analytics Dashboard
// Copyright 2026 Shopmetrics Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopmetrics/shopmetrics

package models

import (
	"math"
	"strconv"
)

// NullFloat is a float64 whose NaN and infinite values marshal as JSON null.
// The analytics pipeline deliberately propagates NaN (empty-window AOV,
// zero-sized cohort divisions) instead of failing; JSON has no NaN literal,
// so the gap is rendered as null.
type NullFloat float64

// MarshalJSON renders NaN/Inf as null and other values as plain numbers.
func (f NullFloat) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, v, 'f', -1, 64), nil
}

// IsNull reports whether the value renders as JSON null.
func (f NullFloat) IsNull() bool {
	v := float64(f)
	return math.IsNaN(v) || math.IsInf(v, 0)
}

// Summary metric names. These are the keys of every map in
// SummaryComparison; current, previous, delta, and upward are parallel
// structures over the same key set.
const (
	MetricOrders             = "orders"
	MetricSales              = "sales"
	MetricAOV                = "aov"
	MetricRevenue            = "revenue"
	MetricNewCustomers       = "new_customers"
	MetricReturningCustomers = "returning_customers"
)

// MetricNames lists all summary metrics in presentation order.
var MetricNames = []string{
	MetricOrders,
	MetricSales,
	MetricAOV,
	MetricRevenue,
	MetricNewCustomers,
	MetricReturningCustomers,
}

// SummaryStats holds the point-in-time business metrics for one period.
//
// ReturningCustomers is distinct ordering customers minus new customers and
// can go negative when the order window and customer window are drawn from
// inconsistent ranges. That arithmetic is preserved as-is; see DESIGN.md.
type SummaryStats struct {
	Orders             int64   `json:"orders"`
	Sales              int64   `json:"sales"`
	AOV                float64 `json:"-"`
	Revenue            float64 `json:"revenue"`
	NewCustomers       int64   `json:"new_customers"`
	ReturningCustomers int64   `json:"returning_customers"`
}

// Metrics returns the stats as a name-keyed map. AOV is NaN for an empty
// order subset.
func (s SummaryStats) Metrics() map[string]NullFloat {
	return map[string]NullFloat{
		MetricOrders:             NullFloat(s.Orders),
		MetricSales:              NullFloat(s.Sales),
		MetricAOV:                NullFloat(s.AOV),
		MetricRevenue:            NullFloat(s.Revenue),
		MetricNewCustomers:       NullFloat(s.NewCustomers),
		MetricReturningCustomers: NullFloat(s.ReturningCustomers),
	}
}

// SummaryComparison is the period-over-period comparison for the headline
// tiles: current and previous period metrics, their difference, and the
// direction flag per metric (delta > 0; ties are false).
type SummaryComparison struct {
	Current  map[string]NullFloat `json:"current"`
	Previous map[string]NullFloat `json:"previous"`
	Delta    map[string]NullFloat `json:"delta"`
	Upward   map[string]bool      `json:"upward"`
}
