// Shopmetrics - E-Commerce Marketing Analytics Dashboard
// Copyright 2026 Shopmetrics Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopmetrics/shopmetrics

package analytics

import (
	"math"

	"github.com/shopmetrics/shopmetrics/internal/models"
)

// Summarize computes the headline metrics for one period.
//
// The order subset and customer subset are expected to come from the same
// window, but that is not enforced: returning customers is distinct
// ordering customers minus new customers and goes negative when the two
// subsets disagree. The original dashboard behaves the same way and the
// arithmetic is kept bit-for-bit; see DESIGN.md.
//
// AOV is NaN for an empty order subset. Callers propagate it; rendering
// turns it into JSON null.
func Summarize(orders []models.Order, customers []models.Customer) models.SummaryStats {
	var stats models.SummaryStats
	stats.Orders = int64(len(orders))
	stats.NewCustomers = int64(len(customers))

	var revenue float64
	distinct := make(map[string]struct{}, len(orders))
	for _, o := range orders {
		if o.FinancialStatus == models.FinancialStatusPaid {
			stats.Sales++
		}
		revenue += o.Total
		distinct[o.CustomerID] = struct{}{}
	}

	stats.Revenue = revenue
	if len(orders) == 0 {
		stats.AOV = math.NaN()
	} else {
		stats.AOV = revenue / float64(len(orders))
	}
	stats.ReturningCustomers = int64(len(distinct)) - stats.NewCustomers

	return stats
}

// Compare produces the period-over-period comparison: current, previous,
// delta = current - previous, and upward = delta > 0 per metric. A tie is
// not upward. NaN deltas (empty-period AOV) compare false.
//
// Pure and total: there are no failure modes beyond NaN propagation.
func Compare(current, previous models.SummaryStats) models.SummaryComparison {
	cur := current.Metrics()
	prev := previous.Metrics()

	delta := make(map[string]models.NullFloat, len(cur))
	upward := make(map[string]bool, len(cur))
	for _, name := range models.MetricNames {
		d := float64(cur[name]) - float64(prev[name])
		delta[name] = models.NullFloat(d)
		upward[name] = d > 0
	}

	return models.SummaryComparison{
		Current:  cur,
		Previous: prev,
		Delta:    delta,
		Upward:   upward,
	}
}
