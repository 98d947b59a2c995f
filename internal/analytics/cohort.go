// Shopmetrics - E-Commerce Marketing Analytics Dashboard
// Copyright 2026 Shopmetrics Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopmetrics/shopmetrics

package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/shopmetrics/shopmetrics/internal/models"
)

// cohortMonthLabel formats an acquisition month for matrix row keys.
const cohortMonthLabel = "2006-01"

// MonthOf truncates a timestamp to the first day of its calendar month,
// preserving the location.
func MonthOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// cohortIndex is the 1-based count of months between an order's month and
// its customer's cohort month. The acquisition month is index 1, not 0,
// matching the retention denominator at index 1 below.
func cohortIndex(orderMonth, cohortMonth time.Time) int {
	return (orderMonth.Year()-cohortMonth.Year())*12 +
		(int(orderMonth.Month()) - int(cohortMonth.Month())) + 1
}

// cohortCell accumulates one (cohort month, cohort index) group.
type cohortCell struct {
	customers map[string]struct{}
	totalSum  float64
	orderN    int
}

// Cohorts assigns each order's customer to a monthly acquisition cohort and
// pivots the orders into two matrices indexed by (cohort month, cohort
// index):
//
//   - retention: distinct customers per cell divided by the cohort's
//     index-1 size. A value above 1 is passed through unmodified; a
//     zero-sized denominator yields NaN, rendered as a gap.
//   - average order: mean order total per cell, rounded to one decimal.
//
// Missing (month, index) combinations are absent cells, not zeros. Orders
// with a zero creation timestamp are skipped: they belong to no month. The
// input slice is never modified; all derived values live in the result.
//
// A cohort with a single order is valid output: retention 1.0 at index 1
// and nothing beyond.
func Cohorts(orders []models.Order) models.CohortAnalytics {
	// Cohort month per customer: minimum order month across the subset.
	cohortMonths := make(map[string]time.Time)
	for _, o := range orders {
		if o.CreatedAt.IsZero() {
			continue
		}
		m := MonthOf(o.CreatedAt)
		if existing, ok := cohortMonths[o.CustomerID]; !ok || m.Before(existing) {
			cohortMonths[o.CustomerID] = m
		}
	}

	// Group orders by (cohort month, cohort index).
	cells := make(map[time.Time]map[int]*cohortCell)
	for _, o := range orders {
		if o.CreatedAt.IsZero() {
			continue
		}
		orderMonth := MonthOf(o.CreatedAt)
		cohortMonth := cohortMonths[o.CustomerID]
		idx := cohortIndex(orderMonth, cohortMonth)

		row, ok := cells[cohortMonth]
		if !ok {
			row = make(map[int]*cohortCell)
			cells[cohortMonth] = row
		}
		cell, ok := row[idx]
		if !ok {
			cell = &cohortCell{customers: make(map[string]struct{})}
			row[idx] = cell
		}
		cell.customers[o.CustomerID] = struct{}{}
		cell.totalSum += o.Total
		cell.orderN++
	}

	months := make([]time.Time, 0, len(cells))
	for m := range cells {
		months = append(months, m)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Before(months[j]) })

	indexSet := make(map[int]struct{})
	var out models.CohortAnalytics

	for _, month := range months {
		row := cells[month]
		label := month.Format(cohortMonthLabel)

		// The cohort's initial size is its distinct-customer count at
		// index 1. Division by zero propagates NaN, never throws.
		var initial float64
		if first, ok := row[1]; ok {
			initial = float64(len(first.customers))
		}

		indexes := make([]int, 0, len(row))
		for idx := range row {
			indexes = append(indexes, idx)
			indexSet[idx] = struct{}{}
		}
		sort.Ints(indexes)

		retention := models.CohortRow{CohortMonth: label, Cells: make(map[int]models.NullFloat, len(row))}
		avgOrder := models.CohortRow{CohortMonth: label, Cells: make(map[int]models.NullFloat, len(row))}

		for _, idx := range indexes {
			cell := row[idx]

			var ratio float64
			if initial == 0 {
				ratio = math.NaN()
			} else {
				ratio = float64(len(cell.customers)) / initial
			}
			retention.Cells[idx] = models.NullFloat(ratio)
			out.RetentionLong = append(out.RetentionLong, models.CohortPoint{
				CohortMonth: month,
				CohortIndex: idx,
				Value:       models.NullFloat(ratio),
			})

			avg := roundTo1(cell.totalSum / float64(cell.orderN))
			avgOrder.Cells[idx] = models.NullFloat(avg)
			out.AverageOrderLong = append(out.AverageOrderLong, models.CohortPoint{
				CohortMonth: month,
				CohortIndex: idx,
				Value:       models.NullFloat(avg),
			})
		}

		out.Retention.Rows = append(out.Retention.Rows, retention)
		out.AverageOrder.Rows = append(out.AverageOrder.Rows, avgOrder)
	}

	allIndexes := make([]int, 0, len(indexSet))
	for idx := range indexSet {
		allIndexes = append(allIndexes, idx)
	}
	sort.Ints(allIndexes)
	out.Retention.Indexes = allIndexes
	out.AverageOrder.Indexes = allIndexes

	return out
}

// roundTo1 rounds to one decimal place.
func roundTo1(v float64) float64 {
	return math.Round(v*10) / 10
}
