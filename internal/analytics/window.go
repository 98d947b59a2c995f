// Shopmetrics - E-Commerce Marketing Analytics Dashboard
// Copyright 2026 Shopmetrics Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopmetrics/shopmetrics

// Package analytics implements the windowed report computations: time
// windowing, summary aggregation with period-over-period deltas, monthly
// cohort retention, market-basket post-processing, and the top panels.
//
// Everything here is pure computation over the immutable source slices; no
// function mutates its input, and no state survives a call.
package analytics

import (
	"fmt"
	"time"

	"github.com/shopmetrics/shopmetrics/internal/models"
)

// Window is a time interval used to slice timestamped rows. Both bounds are
// exclusive: a row with ts == Start or ts == End belongs to neither the
// window nor its previous window. That keeps a boundary event from being
// counted twice when consecutive windows share an edge.
type Window struct {
	Start time.Time
	End   time.Time
}

// NewWindow builds a window from its bounds.
func NewWindow(start, end time.Time) Window {
	return Window{Start: start, End: end}
}

// Duration returns End - Start.
func (w Window) Duration() time.Duration {
	return w.End.Sub(w.Start)
}

// Previous returns the equal-length window immediately preceding w.
// Previous().End == w.Start, so a row exactly on the shared edge is
// excluded from both.
func (w Window) Previous() Window {
	return Window{Start: w.Start.Add(-w.Duration()), End: w.Start}
}

// Contains reports whether ts falls strictly inside the window. Zero
// timestamps (unparseable source values) never match.
func (w Window) Contains(ts time.Time) bool {
	if ts.IsZero() {
		return false
	}
	return ts.After(w.Start) && ts.Before(w.End)
}

// String renders the window for logging.
func (w Window) String() string {
	return fmt.Sprintf("(%s, %s)", w.Start.Format(time.RFC3339), w.End.Format(time.RFC3339))
}

// Info returns the window and its previous window as a serializable pair.
func (w Window) Info() models.WindowInfo {
	prev := w.Previous()
	return models.WindowInfo{
		Start:         w.Start,
		End:           w.End,
		PreviousStart: prev.Start,
		PreviousEnd:   prev.End,
	}
}

// Slice partitions rows into the subset inside w and the subset inside the
// immediately preceding equal-length window. The two results are always
// disjoint; rows on either bound of either window are dropped. An empty
// result is valid output, not a failure.
func Slice[T any](rows []T, ts func(T) time.Time, w Window) (current, previous []T) {
	prev := w.Previous()
	current = make([]T, 0)
	previous = make([]T, 0)
	for _, row := range rows {
		t := ts(row)
		switch {
		case w.Contains(t):
			current = append(current, row)
		case prev.Contains(t):
			previous = append(previous, row)
		}
	}
	return current, previous
}

// SliceOrders slices orders by creation timestamp.
func SliceOrders(orders []models.Order, w Window) (current, previous []models.Order) {
	return Slice(orders, func(o models.Order) time.Time { return o.CreatedAt }, w)
}

// SliceLineItems slices line items by creation timestamp.
func SliceLineItems(items []models.LineItem, w Window) (current, previous []models.LineItem) {
	return Slice(items, func(li models.LineItem) time.Time { return li.CreatedAt }, w)
}

// SliceCustomers slices customers by first-order timestamp, so the current
// subset is exactly the customers acquired inside the window.
func SliceCustomers(customers []models.Customer, w Window) (current, previous []models.Customer) {
	return Slice(customers, func(c models.Customer) time.Time { return c.FirstOrder }, w)
}
