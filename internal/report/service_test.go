// Shopmetrics - E-Commerce Marketing Analytics Dashboard
// Copyright 2026 Shopmetrics Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopmetrics/shopmetrics

package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopmetrics/shopmetrics/internal/analytics"
	"github.com/shopmetrics/shopmetrics/internal/config"
	"github.com/shopmetrics/shopmetrics/internal/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// stubMiner lets the service tests run without the real mining pass.
type stubMiner struct {
	rules []models.AssociationRule
	err   error
}

func (s *stubMiner) Mine(ctx context.Context, baskets [][]string, minSupport, minLift float64) ([]models.FrequentItemset, []models.AssociationRule, error) {
	return nil, s.rules, s.err
}

func testService(miner analytics.Miner) *Service {
	orders := []models.Order{
		{Name: "#1", CustomerID: "a", CreatedAt: date(2021, 2, 10), Total: 40, FinancialStatus: models.FinancialStatusPaid, ShippingZip: "02139"},
		{Name: "#2", CustomerID: "b", CreatedAt: date(2021, 2, 20), Total: 60, FinancialStatus: models.FinancialStatusPaid, ShippingZip: "02139"},
		{Name: "#3", CustomerID: "a", CreatedAt: date(2021, 1, 15), Total: 30, FinancialStatus: models.FinancialStatusPaid, ShippingZip: "94107"},
	}
	lineItems := []models.LineItem{
		{OrderName: "#1", Name: "Green Tea", SKU: "GT-1", CreatedAt: date(2021, 2, 10)},
		{OrderName: "#1", Name: "Mug", SKU: "MG-1", CreatedAt: date(2021, 2, 10)},
		{OrderName: "#2", Name: "Green Tea", SKU: "GT-1", CreatedAt: date(2021, 2, 20)},
		{OrderName: "#3", Name: "Teapot", SKU: "TP-1", CreatedAt: date(2021, 1, 15)},
	}
	customers := []models.Customer{
		{ID: "a", FirstOrder: date(2021, 1, 15), LastOrder: date(2021, 2, 10)},
		{ID: "b", FirstOrder: date(2021, 2, 20), LastOrder: date(2021, 2, 20)},
	}
	lookup := map[string]models.Place{
		"02139": {PlaceName: "Cambridge", StateName: "Massachusetts", Latitude: 42.36, Longitude: -71.10},
		"94107": {PlaceName: "San Francisco", StateName: "California", Latitude: 37.77, Longitude: -122.39},
	}
	return NewFromData(orders, lineItems, customers, lookup, miner,
		analytics.DefaultBasketConfig(), config.GeoConfig{OrderThreshold: 0})
}

func febWindow() analytics.Window {
	return analytics.NewWindow(date(2021, 2, 1), date(2021, 3, 1))
}

func TestRenderComposesAllPanels(t *testing.T) {
	miner := &stubMiner{rules: []models.AssociationRule{
		{Antecedents: []string{"Green Tea"}, Consequents: []string{"Mug"}, Support: 0.5},
	}}
	svc := testService(miner)

	data, err := svc.Render(context.Background(), febWindow())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	if got := float64(data.Summary.Current[models.MetricOrders]); got != 2 {
		t.Errorf("summary orders = %g, want 2", got)
	}
	// Customer a was acquired before February: 2 distinct - 1 new = 1.
	if got := float64(data.Summary.Current[models.MetricReturningCustomers]); got != 1 {
		t.Errorf("returning customers = %g, want 1", got)
	}
	if len(data.Cohorts.Retention.Rows) != 1 {
		t.Errorf("cohort rows = %d, want 1 (February only)", len(data.Cohorts.Retention.Rows))
	}
	if len(data.Basket) != 1 || data.Basket[0].PctOfOrders != 50.0 {
		t.Errorf("basket = %v, want one combination at 50%%", data.Basket)
	}
	if data.Tops.TopProduct != "Green Tea" {
		t.Errorf("top product = %q, want Green Tea", data.Tops.TopProduct)
	}
	if data.Tops.TotalOrders != 2 {
		t.Errorf("total orders = %d, want 2 (window only)", data.Tops.TotalOrders)
	}
	if len(data.Locations.Points) != 2 {
		t.Errorf("location points = %d, want 2", len(data.Locations.Points))
	}
	if !data.Window.Start.Equal(date(2021, 2, 1)) {
		t.Errorf("window info start = %v, want 2021-02-01", data.Window.Start)
	}
	if !data.Window.PreviousEnd.Equal(date(2021, 2, 1)) {
		t.Errorf("previous window end = %v, want the shared edge", data.Window.PreviousEnd)
	}
}

func TestDatasetPanelsCoverWholeDataset(t *testing.T) {
	svc := testService(&stubMiner{})

	ds := svc.Dataset()

	// Three orders on three distinct days, January included.
	if len(ds.OrdersPerDay) != 3 {
		t.Fatalf("orders per day = %v, want 3 days", ds.OrdersPerDay)
	}
	if ds.OrdersPerDay[0].Date != "2021-01-15" || ds.OrdersPerDay[0].Count != 1 {
		t.Errorf("first day = %+v, want 2021-01-15 with 1 order", ds.OrdersPerDay[0])
	}
	if len(ds.TopProducts) == 0 || ds.TopProducts[0].Name != "Green Tea" {
		t.Errorf("all-time top products = %v, want Green Tea first", ds.TopProducts)
	}

	// The dataset block rides along on every report, regardless of window.
	data, err := svc.Render(context.Background(), febWindow())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if len(data.Dataset.OrdersPerDay) != 3 {
		t.Errorf("report dataset days = %d, want 3 (not windowed)", len(data.Dataset.OrdersPerDay))
	}
}

func TestRenderPreviousWindowFeedsDeltas(t *testing.T) {
	svc := testService(&stubMiner{})

	data, err := svc.Render(context.Background(), febWindow())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	// January had 1 order against February's 2.
	if got := float64(data.Summary.Delta[models.MetricOrders]); got != 1 {
		t.Errorf("delta orders = %g, want 1", got)
	}
	if !data.Summary.Upward[models.MetricOrders] {
		t.Error("orders delta should point upward")
	}
}

func TestRenderPropagatesMinerError(t *testing.T) {
	svc := testService(&stubMiner{err: errors.New("boom")})

	if _, err := svc.Render(context.Background(), febWindow()); err == nil {
		t.Fatal("expected miner failure to surface from Render")
	}
}

func TestFullWindowCoversEveryOrder(t *testing.T) {
	svc := testService(&stubMiner{})

	w, err := svc.FullWindow()
	if err != nil {
		t.Fatalf("FullWindow: %v", err)
	}

	// Exclusive bounds, so both the earliest and latest orders must still
	// fall inside.
	if !w.Contains(date(2021, 1, 15)) {
		t.Error("earliest order outside the full window")
	}
	if !w.Contains(date(2021, 2, 20)) {
		t.Error("latest order outside the full window")
	}
}

func TestFullWindowNoData(t *testing.T) {
	svc := NewFromData(nil, nil, nil, nil, &stubMiner{},
		analytics.DefaultBasketConfig(), config.GeoConfig{})

	if _, err := svc.FullWindow(); !errors.Is(err, ErrNoData) {
		t.Fatalf("FullWindow err = %v, want ErrNoData", err)
	}
}

func TestFullWindowIgnoresZeroTimestamps(t *testing.T) {
	orders := []models.Order{
		{Name: "#1", CreatedAt: time.Time{}},
		{Name: "#2", CreatedAt: date(2021, 6, 1)},
	}
	svc := NewFromData(orders, nil, nil, nil, &stubMiner{},
		analytics.DefaultBasketConfig(), config.GeoConfig{})

	w, err := svc.FullWindow()
	if err != nil {
		t.Fatalf("FullWindow: %v", err)
	}
	if !w.Contains(date(2021, 6, 1)) {
		t.Error("the only timestamped order is outside the full window")
	}
	if w.Contains(date(2020, 6, 1)) {
		t.Error("window stretched toward the zero timestamp")
	}
}

func TestPanelMethodsMatchRender(t *testing.T) {
	miner := &stubMiner{rules: []models.AssociationRule{
		{Antecedents: []string{"Green Tea"}, Consequents: []string{"Mug"}, Support: 0.5},
	}}
	svc := testService(miner)
	w := febWindow()

	full, err := svc.Render(context.Background(), w)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	summary := svc.Summary(w)
	if summary.Current[models.MetricRevenue] != full.Summary.Current[models.MetricRevenue] {
		t.Error("Summary() disagrees with Render()")
	}

	cohorts := svc.Cohorts(w)
	if len(cohorts.Retention.Rows) != len(full.Cohorts.Retention.Rows) {
		t.Error("Cohorts() disagrees with Render()")
	}

	basket, err := svc.Basket(context.Background(), w)
	if err != nil {
		t.Fatalf("Basket: %v", err)
	}
	if len(basket) != len(full.Basket) {
		t.Error("Basket() disagrees with Render()")
	}

	tops := svc.Tops(w)
	if tops.TopProduct != full.Tops.TopProduct {
		t.Error("Tops() disagrees with Render()")
	}

	locations := svc.Locations()
	if len(locations.Points) != len(full.Locations.Points) {
		t.Error("Locations() disagrees with Render()")
	}
}
