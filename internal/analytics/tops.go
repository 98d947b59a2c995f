// Shopmetrics - E-Commerce Marketing Analytics Dashboard
// Copyright 2026 Shopmetrics Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopmetrics/shopmetrics

package analytics

import (
	"sort"
	"strings"
	"time"

	"github.com/shopmetrics/shopmetrics/internal/models"
)

// topProductDisplayWidth bounds the top-product tile text.
const topProductDisplayWidth = 20

// topProductsLimit is the length of the top-products table.
const topProductsLimit = 10

// Tops computes the audience/top-product tiles for one window: most
// frequent product (shortened for the tile), SKU, discount code, shipping
// city, the top-10 products table, order counts by weekday, and the
// orders-per-customer distribution.
func Tops(orders []models.Order, items []models.LineItem, lookup map[string]models.Place) models.TopPanels {
	panels := models.TopPanels{
		TotalOrders: int64(len(orders)),
	}

	productCounts := countValues(items, func(li models.LineItem) string { return li.Name })
	panels.TopProduct = shorten(topValue(productCounts), topProductDisplayWidth)
	panels.TopSKU = topValue(countValues(items, func(li models.LineItem) string { return li.SKU }))
	panels.TopDiscountCode = topValue(countValues(items, func(li models.LineItem) string { return li.DiscountCode }))
	panels.TopCity = topCity(orders, lookup)
	panels.TopProducts = rankCounts(productCounts, topProductsLimit)
	panels.OrdersByWeekday = ordersByWeekday(orders)
	panels.OrdersPerCustomer = ordersPerCustomer(orders)

	return panels
}

// ordersPerCustomer buckets customers by how many orders they placed in the
// window: a count of counts. Buckets are sorted most-common first, lower
// order count first on ties; orders without a customer are skipped.
func ordersPerCustomer(orders []models.Order) []models.CountBucket {
	perCustomer := make(map[string]int64)
	for _, o := range orders {
		if o.CustomerID != "" {
			perCustomer[o.CustomerID]++
		}
	}

	buckets := make(map[int64]int64)
	for _, n := range perCustomer {
		buckets[n]++
	}

	out := make([]models.CountBucket, 0, len(buckets))
	for n, customers := range buckets {
		out = append(out, models.CountBucket{Orders: n, Customers: customers})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Customers != out[j].Customers {
			return out[i].Customers > out[j].Customers
		}
		return out[i].Orders < out[j].Orders
	})
	return out
}

// countValues tallies non-empty values extracted from line items.
func countValues(items []models.LineItem, extract func(models.LineItem) string) map[string]int64 {
	counts := make(map[string]int64)
	for _, li := range items {
		if v := extract(li); v != "" {
			counts[v]++
		}
	}
	return counts
}

// topValue returns the most frequent key, ties broken lexicographically.
// Empty input yields "".
func topValue(counts map[string]int64) string {
	var best string
	var bestCount int64 = -1
	for value, count := range counts {
		if count > bestCount || (count == bestCount && value < best) {
			best = value
			bestCount = count
		}
	}
	return best
}

// rankCounts returns the limit highest counts, descending, names ascending
// on ties.
func rankCounts(counts map[string]int64, limit int) []models.ProductCount {
	ranked := make([]models.ProductCount, 0, len(counts))
	for name, count := range counts {
		ranked = append(ranked, models.ProductCount{Name: name, Count: count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Name < ranked[j].Name
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// topCity resolves shipping zips through the postal lookup and returns the
// most frequent place name. Zips longer than five characters (ZIP+4) are
// matched on their 5-digit prefix.
func topCity(orders []models.Order, lookup map[string]models.Place) string {
	counts := make(map[string]int64)
	for _, o := range orders {
		zip := o.ShippingZip
		if len(zip) > 5 {
			zip = zip[:5]
		}
		if place, ok := lookup[zip]; ok {
			counts[place.PlaceName]++
		}
	}
	return topValue(counts)
}

// weekdays orders the weekday axis Monday-first, matching the dashboard.
var weekdays = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

// ordersByWeekday counts orders per day of week. Orders with a zero
// timestamp are skipped.
func ordersByWeekday(orders []models.Order) []models.WeekdayCount {
	counts := make(map[time.Weekday]int64, 7)
	for _, o := range orders {
		if o.CreatedAt.IsZero() {
			continue
		}
		counts[o.CreatedAt.Weekday()]++
	}

	out := make([]models.WeekdayCount, 0, len(weekdays))
	for _, day := range weekdays {
		out = append(out, models.WeekdayCount{Weekday: day.String(), Count: counts[day]})
	}
	return out
}

// shorten collapses whitespace and truncates s at a word boundary so that
// the result, placeholder included, fits the width.
func shorten(s string, width int) string {
	const placeholder = "..."

	words := strings.Fields(s)
	joined := strings.Join(words, " ")
	if len(joined) <= width {
		return joined
	}

	kept := ""
	for _, word := range words {
		candidate := word
		if kept != "" {
			candidate = kept + " " + word
		}
		if len(candidate)+len(placeholder) > width {
			break
		}
		kept = candidate
	}
	if kept == "" {
		// First word alone exceeds the width; cut mid-word.
		cut := width - len(placeholder)
		if cut < 0 {
			cut = 0
		}
		kept = joined[:cut]
	}
	return kept + placeholder
}
