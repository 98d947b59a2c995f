// Shopmetrics - E-Commerce Marketing Analytics Dashboard
// Copyright 2026 Shopmetrics Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopmetrics/shopmetrics

package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	json "github.com/goccy/go-json"

	"github.com/shopmetrics/shopmetrics/internal/analytics"
	"github.com/shopmetrics/shopmetrics/internal/config"
	"github.com/shopmetrics/shopmetrics/internal/models"
	"github.com/shopmetrics/shopmetrics/internal/report"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type stubMiner struct {
	rules []models.AssociationRule
}

func (s *stubMiner) Mine(ctx context.Context, baskets [][]string, minSupport, minLift float64) ([]models.FrequentItemset, []models.AssociationRule, error) {
	return nil, s.rules, nil
}

// testRouter assembles a full router over a small in-memory dataset.
func testRouter(t *testing.T) http.Handler {
	t.Helper()

	orders := []models.Order{
		{Name: "#1", CustomerID: "a", CreatedAt: date(2021, 2, 10), Total: 40, FinancialStatus: models.FinancialStatusPaid, ShippingZip: "02139"},
		{Name: "#2", CustomerID: "b", CreatedAt: date(2021, 2, 20), Total: 60, FinancialStatus: models.FinancialStatusPaid, ShippingZip: "02139"},
	}
	lineItems := []models.LineItem{
		{OrderName: "#1", Name: "Green Tea", SKU: "GT-1", CreatedAt: date(2021, 2, 10)},
		{OrderName: "#1", Name: "Mug", SKU: "MG-1", CreatedAt: date(2021, 2, 10)},
		{OrderName: "#2", Name: "Green Tea", SKU: "GT-1", CreatedAt: date(2021, 2, 20)},
	}
	customers := []models.Customer{
		{ID: "a", FirstOrder: date(2021, 2, 10), LastOrder: date(2021, 2, 10)},
		{ID: "b", FirstOrder: date(2021, 2, 20), LastOrder: date(2021, 2, 20)},
	}
	lookup := map[string]models.Place{
		"02139": {PlaceName: "Cambridge", StateName: "Massachusetts", Latitude: 42.36, Longitude: -71.10},
	}

	svc := report.NewFromData(orders, lineItems, customers, lookup, &stubMiner{},
		analytics.DefaultBasketConfig(), config.GeoConfig{OrderThreshold: 0})

	handler := NewHandler(svc, "test")
	return NewRouter(handler, NewMiddleware(nil), nil).Setup()
}

func doRequest(t *testing.T, router http.Handler, path string) (*httptest.ResponseRecorder, models.APIResponse) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var resp models.APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode %s response: %v\nbody: %s", path, err, rec.Body.String())
	}
	return rec, resp
}

func TestHealthEndpoint(t *testing.T) {
	router := testRouter(t)

	rec, resp := doRequest(t, router, "/api/v1/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if resp.Status != "success" {
		t.Errorf("status field = %q, want success", resp.Status)
	}

	data, ok := resp.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("data = %T, want object", resp.Data)
	}
	if data["status"] != "healthy" {
		t.Errorf("health status = %v, want healthy", data["status"])
	}
	if data["version"] != "test" {
		t.Errorf("version = %v, want test", data["version"])
	}
}

func TestReportEndpoint(t *testing.T) {
	router := testRouter(t)

	rec, resp := doRequest(t, router, "/api/v1/report?start=2021-02-01&end=2021-02-28")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200\nbody: %s", rec.Code, rec.Body.String())
	}
	if resp.Status != "success" {
		t.Errorf("status = %q, want success", resp.Status)
	}

	data, ok := resp.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("data = %T, want object", resp.Data)
	}
	summary, ok := data["summary"].(map[string]interface{})
	if !ok {
		t.Fatalf("summary missing from report payload: %v", data)
	}
	current, ok := summary["current"].(map[string]interface{})
	if !ok {
		t.Fatalf("summary.current missing: %v", summary)
	}
	if got := current["orders"]; got != float64(2) {
		t.Errorf("summary.current.orders = %v, want 2", got)
	}
}

func TestReportEndpointInclusiveEndDate(t *testing.T) {
	router := testRouter(t)

	// The second order falls exactly on the end date and must be counted.
	_, resp := doRequest(t, router, "/api/v1/report/summary?start=2021-02-01&end=2021-02-20")

	data := resp.Data.(map[string]interface{})
	current := data["current"].(map[string]interface{})
	if got := current["orders"]; got != float64(2) {
		t.Errorf("orders = %v, want 2 (end date inclusive)", got)
	}
}

func TestReportEndpointAllRange(t *testing.T) {
	router := testRouter(t)

	rec, resp := doRequest(t, router, "/api/v1/report/summary?all=true")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200\nbody: %s", rec.Code, rec.Body.String())
	}

	data := resp.Data.(map[string]interface{})
	current := data["current"].(map[string]interface{})
	if got := current["orders"]; got != float64(2) {
		t.Errorf("orders = %v, want the full dataset", got)
	}
}

func TestReportEndpointValidation(t *testing.T) {
	router := testRouter(t)

	tests := []struct {
		name string
		path string
	}{
		{"missing params", "/api/v1/report"},
		{"bad date", "/api/v1/report?start=02/01/2021&end=2021-02-28"},
		{"end before start", "/api/v1/report?start=2021-02-28&end=2021-02-01"},
		{"missing end", "/api/v1/report?start=2021-02-01"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, resp := doRequest(t, router, tt.path)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400\nbody: %s", rec.Code, rec.Body.String())
			}
			if resp.Status != "error" {
				t.Errorf("status = %q, want error", resp.Status)
			}
			if resp.Error == nil || resp.Error.Code != "VALIDATION_ERROR" {
				t.Errorf("error = %+v, want VALIDATION_ERROR", resp.Error)
			}
		})
	}
}

func TestReportEndpointNoData(t *testing.T) {
	svc := report.NewFromData(nil, nil, nil, nil, &stubMiner{},
		analytics.DefaultBasketConfig(), config.GeoConfig{})
	router := NewRouter(NewHandler(svc, "test"), NewMiddleware(nil), nil).Setup()

	rec, resp := doRequest(t, router, "/api/v1/report?all=true")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if resp.Error == nil || resp.Error.Code != "NOT_FOUND" {
		t.Errorf("error = %+v, want NOT_FOUND", resp.Error)
	}
}

func TestPanelEndpoints(t *testing.T) {
	router := testRouter(t)

	for _, panel := range []string{"summary", "cohorts", "basket", "tops", "locations"} {
		t.Run(panel, func(t *testing.T) {
			rec, resp := doRequest(t, router,
				"/api/v1/report/"+panel+"?start=2021-02-01&end=2021-02-28")
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200\nbody: %s", rec.Code, rec.Body.String())
			}
			if resp.Status != "success" {
				t.Errorf("status = %q, want success", resp.Status)
			}
		})
	}
}

func TestDatasetEndpoint(t *testing.T) {
	router := testRouter(t)

	rec, resp := doRequest(t, router, "/api/v1/report/dataset")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (no window params required)", rec.Code)
	}

	data, ok := resp.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("data = %T, want object", resp.Data)
	}
	days, ok := data["orders_per_day"].([]interface{})
	if !ok || len(days) != 2 {
		t.Errorf("orders_per_day = %v, want 2 days", data["orders_per_day"])
	}
	if _, ok := data["top_products"]; !ok {
		t.Error("top_products missing from dataset payload")
	}
}

func TestReportResponseHeaders(t *testing.T) {
	router := testRouter(t)

	rec, _ := doRequest(t, router, "/api/v1/report/summary?all=true")
	if got := rec.Header().Get("Content-Type"); got != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", got)
	}
	if rec.Header().Get("ETag") == "" {
		t.Error("ETag header missing")
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("X-Request-ID header missing")
	}
	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q, want nosniff", got)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	router := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestUnknownRoute(t *testing.T) {
	router := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/unknown", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}
