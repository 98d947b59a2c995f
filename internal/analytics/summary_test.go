// Shopmetrics - E-Commerce Marketing Analytics Dashboard
// Copyright 2026 Shopmetrics Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopmetrics/shopmetrics

package analytics

import (
	"math"
	"testing"
	"time"

	"github.com/shopmetrics/shopmetrics/internal/models"
)

func TestSummarizeBasic(t *testing.T) {
	orders := []models.Order{
		{Name: "#1", CustomerID: "a", Total: 10, FinancialStatus: models.FinancialStatusPaid},
		{Name: "#2", CustomerID: "a", Total: 20, FinancialStatus: "refunded"},
		{Name: "#3", CustomerID: "b", Total: 30, FinancialStatus: models.FinancialStatusPaid},
	}
	customers := []models.Customer{{ID: "a"}}

	stats := Summarize(orders, customers)

	if stats.Orders != 3 {
		t.Errorf("Orders = %d, want 3", stats.Orders)
	}
	if stats.Sales != 2 {
		t.Errorf("Sales = %d, want 2 (paid only)", stats.Sales)
	}
	if stats.Revenue != 60 {
		t.Errorf("Revenue = %g, want 60", stats.Revenue)
	}
	if stats.AOV != 20 {
		t.Errorf("AOV = %g, want 20", stats.AOV)
	}
	if stats.NewCustomers != 1 {
		t.Errorf("NewCustomers = %d, want 1", stats.NewCustomers)
	}
	// 2 distinct ordering customers - 1 new = 1 returning.
	if stats.ReturningCustomers != 1 {
		t.Errorf("ReturningCustomers = %d, want 1", stats.ReturningCustomers)
	}
}

func TestSummarizeEmptyOrdersYieldsNaNAOV(t *testing.T) {
	stats := Summarize(nil, nil)
	if !math.IsNaN(stats.AOV) {
		t.Errorf("AOV = %g, want NaN for empty order subset", stats.AOV)
	}
	if stats.Orders != 0 || stats.Sales != 0 || stats.Revenue != 0 {
		t.Errorf("empty subset produced non-zero counts: %+v", stats)
	}
}

func TestSummarizeReturningCustomersCanGoNegative(t *testing.T) {
	// One ordering customer but two customers acquired in the window:
	// distinct(1) - new(2) = -1. The subtraction is preserved as-is.
	orders := []models.Order{{Name: "#1", CustomerID: "a", Total: 5}}
	customers := []models.Customer{{ID: "a"}, {ID: "b"}}

	stats := Summarize(orders, customers)
	if stats.ReturningCustomers != -1 {
		t.Errorf("ReturningCustomers = %d, want -1", stats.ReturningCustomers)
	}
}

func TestCompareDeltaAndDirection(t *testing.T) {
	current := models.SummaryStats{Orders: 10, Sales: 8, AOV: 25, Revenue: 250, NewCustomers: 4, ReturningCustomers: 2}
	previous := models.SummaryStats{Orders: 12, Sales: 8, AOV: 20, Revenue: 240, NewCustomers: 1, ReturningCustomers: 5}

	cmp := Compare(current, previous)

	if got := float64(cmp.Delta[models.MetricOrders]); got != -2 {
		t.Errorf("delta[orders] = %g, want -2", got)
	}
	if cmp.Upward[models.MetricOrders] {
		t.Error("upward[orders] = true, want false for a decline")
	}
	// Tie: delta is zero and the direction flag stays false.
	if got := float64(cmp.Delta[models.MetricSales]); got != 0 {
		t.Errorf("delta[sales] = %g, want 0", got)
	}
	if cmp.Upward[models.MetricSales] {
		t.Error("upward[sales] = true, want false on a tie")
	}
	if !cmp.Upward[models.MetricAOV] {
		t.Error("upward[aov] = false, want true for an increase")
	}
}

func TestCompareNaNDeltaIsNotUpward(t *testing.T) {
	current := Summarize([]models.Order{{Name: "#1", CustomerID: "a", Total: 10}}, nil)
	previous := Summarize(nil, nil) // AOV is NaN

	cmp := Compare(current, previous)

	if !cmp.Delta[models.MetricAOV].IsNull() {
		t.Error("delta[aov] should be NaN when the previous period is empty")
	}
	if cmp.Upward[models.MetricAOV] {
		t.Error("upward[aov] = true, want false for NaN delta")
	}
}

func TestCompareKeySetsAreParallel(t *testing.T) {
	cmp := Compare(models.SummaryStats{}, models.SummaryStats{})
	for _, name := range models.MetricNames {
		if _, ok := cmp.Current[name]; !ok {
			t.Errorf("current missing metric %q", name)
		}
		if _, ok := cmp.Delta[name]; !ok {
			t.Errorf("delta missing metric %q", name)
		}
		if _, ok := cmp.Upward[name]; !ok {
			t.Errorf("upward missing metric %q", name)
		}
	}
}

func TestSummarizeDoesNotMutateInput(t *testing.T) {
	orders := []models.Order{{Name: "#1", CustomerID: "a", Total: 12.5, CreatedAt: time.Now()}}
	before := orders[0]
	_ = Summarize(orders, nil)
	if orders[0] != before {
		t.Error("Summarize mutated its input slice")
	}
}
