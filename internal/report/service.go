// Shopmetrics - E-Commerce Marketing Analytics Dashboard
// Copyright 2026 Shopmetrics Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopmetrics/shopmetrics

// Package report composes the analytics panels into one dashboard render.
// The Service owns the immutable source slices loaded at startup and hands
// windowed views of them to the pure computations in internal/analytics;
// nothing here writes back to the source data.
package report

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopmetrics/shopmetrics/internal/analytics"
	"github.com/shopmetrics/shopmetrics/internal/config"
	"github.com/shopmetrics/shopmetrics/internal/database"
	"github.com/shopmetrics/shopmetrics/internal/geo"
	"github.com/shopmetrics/shopmetrics/internal/logging"
	"github.com/shopmetrics/shopmetrics/internal/metrics"
	"github.com/shopmetrics/shopmetrics/internal/models"
)

// ErrNoData is returned when a full-dataset window is requested but the
// orders table holds no timestamped rows.
var ErrNoData = errors.New("no timestamped orders loaded")

// Service renders reports over the source data loaded at startup. The
// slices are read-only after construction, so a Service is safe for
// concurrent use by the HTTP handlers.
type Service struct {
	orders    []models.Order
	lineItems []models.LineItem
	customers []models.Customer
	zipLookup map[string]models.Place

	earliest time.Time
	latest   time.Time
	hasData  bool

	// Full-dataset panels, computed once at construction.
	dataset models.DatasetPanels

	miner  analytics.Miner
	basket analytics.BasketConfig
	geoCfg config.GeoConfig
}

// allTimeTopProductsLimit is the length of the all-time top-products table.
const allTimeTopProductsLimit = 10

// New loads the source tables from the database and builds a Service.
func New(ctx context.Context, db *database.DB, miner analytics.Miner, cfg *config.Config) (*Service, error) {
	orders, err := db.Orders(ctx)
	if err != nil {
		return nil, fmt.Errorf("load orders: %w", err)
	}
	lineItems, err := db.LineItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("load line items: %w", err)
	}
	customers, err := db.Customers(ctx)
	if err != nil {
		return nil, fmt.Errorf("load customers: %w", err)
	}
	zipLookup, err := database.LoadZipLookup(cfg.Data.ZipLookupJSON)
	if err != nil {
		return nil, fmt.Errorf("load zip lookup: %w", err)
	}

	earliest, latest, hasData, err := db.DataRange(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve data range: %w", err)
	}

	ordersPerDay, err := db.OrdersPerDay(ctx)
	if err != nil {
		return nil, fmt.Errorf("load orders per day: %w", err)
	}
	allTimeTop, err := db.TopProductsAllTime(ctx, allTimeTopProductsLimit)
	if err != nil {
		return nil, fmt.Errorf("load all-time top products: %w", err)
	}

	svc := &Service{
		orders:    orders,
		lineItems: lineItems,
		customers: customers,
		zipLookup: zipLookup,
		earliest:  earliest,
		latest:    latest,
		hasData:   hasData,
		dataset: models.DatasetPanels{
			OrdersPerDay: ordersPerDay,
			TopProducts:  allTimeTop,
		},
		miner: miner,
		basket: analytics.BasketConfig{
			MinSupport: cfg.Basket.MinSupport,
			MinLift:    cfg.Basket.MinLift,
			TopN:       cfg.Basket.TopN,
		},
		geoCfg: cfg.Geo,
	}

	logging.Info().
		Int("orders", len(orders)).
		Int("line_items", len(lineItems)).
		Int("customers", len(customers)).
		Int("places", len(zipLookup)).
		Msg("Report service ready")

	return svc, nil
}

// NewFromData builds a Service directly from in-memory slices. Used by
// tests and by callers that load data through a different path.
func NewFromData(orders []models.Order, lineItems []models.LineItem, customers []models.Customer, zipLookup map[string]models.Place, miner analytics.Miner, basket analytics.BasketConfig, geoCfg config.GeoConfig) *Service {
	svc := &Service{
		orders:    orders,
		lineItems: lineItems,
		customers: customers,
		zipLookup: zipLookup,
		miner:     miner,
		basket:    basket,
		geoCfg:    geoCfg,
	}
	for _, o := range orders {
		if o.CreatedAt.IsZero() {
			continue
		}
		if !svc.hasData || o.CreatedAt.Before(svc.earliest) {
			svc.earliest = o.CreatedAt
		}
		if !svc.hasData || o.CreatedAt.After(svc.latest) {
			svc.latest = o.CreatedAt
		}
		svc.hasData = true
	}
	svc.dataset = datasetFromSlices(orders, lineItems)
	return svc
}

// datasetFromSlices computes the full-dataset panels in Go for callers
// that bypass the database loaders.
func datasetFromSlices(orders []models.Order, items []models.LineItem) models.DatasetPanels {
	perDay := make(map[string]int64)
	for _, o := range orders {
		if o.CreatedAt.IsZero() {
			continue
		}
		perDay[o.CreatedAt.Format("2006-01-02")]++
	}
	days := make([]string, 0, len(perDay))
	for day := range perDay {
		days = append(days, day)
	}
	sort.Strings(days)

	var ds models.DatasetPanels
	for _, day := range days {
		ds.OrdersPerDay = append(ds.OrdersPerDay, models.DayCount{Date: day, Count: perDay[day]})
	}

	counts := make(map[string]int64)
	for _, li := range items {
		if li.Name != "" {
			counts[li.Name]++
		}
	}
	for name, count := range counts {
		ds.TopProducts = append(ds.TopProducts, models.ProductCount{Name: name, Count: count})
	}
	sort.Slice(ds.TopProducts, func(i, j int) bool {
		if ds.TopProducts[i].Count != ds.TopProducts[j].Count {
			return ds.TopProducts[i].Count > ds.TopProducts[j].Count
		}
		return ds.TopProducts[i].Name < ds.TopProducts[j].Name
	})
	if len(ds.TopProducts) > allTimeTopProductsLimit {
		ds.TopProducts = ds.TopProducts[:allTimeTopProductsLimit]
	}
	return ds
}

// FullWindow returns a window covering every timestamped order. The bounds
// are padded by a second on each side because window bounds are exclusive.
func (s *Service) FullWindow() (analytics.Window, error) {
	if !s.hasData {
		return analytics.Window{}, ErrNoData
	}
	return analytics.NewWindow(s.earliest.Add(-time.Second), s.latest.Add(time.Second)), nil
}

// Render computes a full report for the window: summary comparison, cohort
// matrices, market-basket combinations, top panels, and the location map.
func (s *Service) Render(ctx context.Context, w analytics.Window) (*models.ReportData, error) {
	start := time.Now()
	var renderErr error
	defer func() {
		metrics.RecordReportRender("full", time.Since(start), renderErr)
	}()

	curOrders, prevOrders := analytics.SliceOrders(s.orders, w)
	curItems, _ := analytics.SliceLineItems(s.lineItems, w)
	curCustomers, prevCustomers := analytics.SliceCustomers(s.customers, w)

	data := &models.ReportData{Window: w.Info()}

	data.Summary = s.renderSummary(curOrders, prevOrders, curCustomers, prevCustomers)
	data.Cohorts = s.renderCohorts(curOrders)

	basket, err := s.renderBasket(ctx, curItems)
	if err != nil {
		renderErr = err
		return nil, err
	}
	data.Basket = basket

	data.Tops = s.renderTops(curOrders, curItems)
	data.Locations = s.renderLocations()
	data.Dataset = s.dataset

	logging.Ctx(ctx).Debug().
		Str("window", w.String()).
		Int("orders", len(curOrders)).
		Dur("elapsed", time.Since(start)).
		Msg("Report rendered")

	return data, nil
}

// Summary computes the summary comparison panel alone.
func (s *Service) Summary(w analytics.Window) models.SummaryComparison {
	curOrders, prevOrders := analytics.SliceOrders(s.orders, w)
	curCustomers, prevCustomers := analytics.SliceCustomers(s.customers, w)
	return s.renderSummary(curOrders, prevOrders, curCustomers, prevCustomers)
}

// Cohorts computes the cohort panel alone.
func (s *Service) Cohorts(w analytics.Window) models.CohortAnalytics {
	curOrders, _ := analytics.SliceOrders(s.orders, w)
	return s.renderCohorts(curOrders)
}

// Basket computes the market-basket panel alone.
func (s *Service) Basket(ctx context.Context, w analytics.Window) ([]models.ProductCombination, error) {
	curItems, _ := analytics.SliceLineItems(s.lineItems, w)
	return s.renderBasket(ctx, curItems)
}

// Tops computes the top panels alone.
func (s *Service) Tops(w analytics.Window) models.TopPanels {
	curOrders, _ := analytics.SliceOrders(s.orders, w)
	curItems, _ := analytics.SliceLineItems(s.lineItems, w)
	return s.renderTops(curOrders, curItems)
}

// Locations computes the customer-location panel. It does not depend on
// the window: the postal lookup describes the customer base, not orders.
func (s *Service) Locations() models.GeoClusters {
	return s.renderLocations()
}

// Dataset returns the full-dataset panels: the orders-per-day calendar
// series and the all-time top products. They are precomputed at
// construction and shared by every report.
func (s *Service) Dataset() models.DatasetPanels {
	return s.dataset
}

func (s *Service) renderSummary(curOrders, prevOrders []models.Order, curCustomers, prevCustomers []models.Customer) models.SummaryComparison {
	start := time.Now()
	defer func() {
		metrics.RecordReportRender("summary", time.Since(start), nil)
	}()

	current := analytics.Summarize(curOrders, curCustomers)
	previous := analytics.Summarize(prevOrders, prevCustomers)
	return analytics.Compare(current, previous)
}

func (s *Service) renderCohorts(curOrders []models.Order) models.CohortAnalytics {
	start := time.Now()
	defer func() {
		metrics.RecordReportRender("cohorts", time.Since(start), nil)
	}()

	return analytics.Cohorts(curOrders)
}

func (s *Service) renderBasket(ctx context.Context, curItems []models.LineItem) ([]models.ProductCombination, error) {
	start := time.Now()
	var err error
	defer func() {
		metrics.RecordReportRender("basket", time.Since(start), err)
	}()

	var combos []models.ProductCombination
	combos, err = analytics.TopCombinations(ctx, s.miner, curItems, s.basket)
	if err != nil {
		return nil, fmt.Errorf("top combinations: %w", err)
	}
	return combos, nil
}

func (s *Service) renderTops(curOrders []models.Order, curItems []models.LineItem) models.TopPanels {
	start := time.Now()
	defer func() {
		metrics.RecordReportRender("tops", time.Since(start), nil)
	}()

	return analytics.Tops(curOrders, curItems, s.zipLookup)
}

func (s *Service) renderLocations() models.GeoClusters {
	start := time.Now()
	defer func() {
		metrics.RecordReportRender("locations", time.Since(start), nil)
	}()

	return geo.Clusters(s.zipLookup, s.geoCfg.OrderThreshold)
}
