// Shopmetrics - E-Commerce Marketing Analytics Dashboard
// Copyright 2026 Shopmetrics Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopmetrics/shopmetrics

// This file contains monthly cohort retention models. Customers are grouped
// into acquisition-month cohorts; orders are bucketed by months elapsed
// since acquisition (1-based, so the acquisition month itself is index 1).
package models

import "time"

// CohortRow is one cohort (all customers acquired in the same calendar
// month) across its cohort indexes.
type CohortRow struct {
	// CohortMonth is the acquisition month label ("YYYY-MM").
	CohortMonth string `json:"cohort_month"`

	// Cells maps cohort index (1-based) to the cell value. A missing index
	// is a gap in the rendered heatmap, not a zero.
	Cells map[int]NullFloat `json:"cells"`
}

// CohortMatrix is a pivot of cohort month x cohort index.
type CohortMatrix struct {
	// Rows are sorted ascending by cohort month.
	Rows []CohortRow `json:"rows"`

	// Indexes is the sorted union of cohort indexes observed in any row,
	// used by renderers as the column axis.
	Indexes []int `json:"indexes"`
}

// Cell returns the value at (cohortMonth, index) and whether it exists.
func (m *CohortMatrix) Cell(cohortMonth string, index int) (NullFloat, bool) {
	for i := range m.Rows {
		if m.Rows[i].CohortMonth == cohortMonth {
			v, ok := m.Rows[i].Cells[index]
			return v, ok
		}
	}
	return 0, false
}

// CohortPoint is one melted (long-form) cell for tooltip-style rendering.
type CohortPoint struct {
	CohortMonth time.Time `json:"cohort_month"`
	CohortIndex int       `json:"cohort_index"`
	Value       NullFloat `json:"value"`
}

// CohortAnalytics bundles the two cohort pivots and their melted forms.
//
// Retention values are fractions of the cohort's index-1 size. Values above
// 1 are possible when acquisition-month counting disagrees with later-month
// counting and are passed through unclamped.
type CohortAnalytics struct {
	Retention        CohortMatrix  `json:"retention"`
	AverageOrder     CohortMatrix  `json:"average_order"`
	RetentionLong    []CohortPoint `json:"retention_long"`
	AverageOrderLong []CohortPoint `json:"average_order_long"`
}
