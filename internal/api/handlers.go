// Shopmetrics - E-Commerce Marketing Analytics Dashboard
// Copyright 2026 Shopmetrics Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopmetrics/shopmetrics

package api

import (
	"net/http"
	"runtime"
	"time"

	"github.com/shopmetrics/shopmetrics/internal/analytics"
	"github.com/shopmetrics/shopmetrics/internal/logging"
	"github.com/shopmetrics/shopmetrics/internal/models"
	"github.com/shopmetrics/shopmetrics/internal/report"
)

// Handler serves the dashboard API from a report service.
type Handler struct {
	svc       *report.Service
	version   string
	startTime time.Time
}

// NewHandler creates an API handler.
func NewHandler(svc *report.Service, version string) *Handler {
	return &Handler{
		svc:       svc,
		version:   version,
		startTime: time.Now(),
	}
}

// Health reports process liveness, version, and uptime.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: map[string]interface{}{
			"status":     "healthy",
			"version":    h.version,
			"go_version": runtime.Version(),
			"uptime_s":   int64(time.Since(h.startTime).Seconds()),
		},
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}

// Report renders the full dashboard payload for the requested window.
func (h *Handler) Report(w http.ResponseWriter, r *http.Request) {
	req := parseReportRequest(r)
	window, apiErr := h.resolveWindow(req)
	if apiErr != nil {
		respondError(w, statusFor(apiErr), apiErr.Code, apiErr.Message, nil)
		return
	}

	start := time.Now()
	data, err := h.svc.Render(r.Context(), window)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Report render failed")
		respondError(w, http.StatusInternalServerError, "RENDER_ERROR",
			"Failed to render report", err)
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   data,
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
		},
	})
}

// ReportSummary renders the summary panel alone.
func (h *Handler) ReportSummary(w http.ResponseWriter, r *http.Request) {
	h.panel(w, r, func(window analytics.Window) (interface{}, error) {
		return h.svc.Summary(window), nil
	})
}

// ReportCohorts renders the cohort matrices alone.
func (h *Handler) ReportCohorts(w http.ResponseWriter, r *http.Request) {
	h.panel(w, r, func(window analytics.Window) (interface{}, error) {
		return h.svc.Cohorts(window), nil
	})
}

// ReportBasket renders the product-combination table alone.
func (h *Handler) ReportBasket(w http.ResponseWriter, r *http.Request) {
	h.panel(w, r, func(window analytics.Window) (interface{}, error) {
		return h.svc.Basket(r.Context(), window)
	})
}

// ReportTops renders the top panels alone.
func (h *Handler) ReportTops(w http.ResponseWriter, r *http.Request) {
	h.panel(w, r, func(window analytics.Window) (interface{}, error) {
		return h.svc.Tops(window), nil
	})
}

// ReportDataset renders the full-dataset panels: the orders-per-day
// calendar series and the all-time top products. Takes no window
// parameters because the panels cover the whole dataset by definition.
func (h *Handler) ReportDataset(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status:   "success",
		Data:     h.svc.Dataset(),
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}

// ReportLocations renders the customer-location clusters. The panel does
// not depend on the window but accepts the same parameters for symmetry.
func (h *Handler) ReportLocations(w http.ResponseWriter, r *http.Request) {
	h.panel(w, r, func(window analytics.Window) (interface{}, error) {
		return h.svc.Locations(), nil
	})
}

// panel factors the shared parse/validate/respond flow of the per-panel
// endpoints.
func (h *Handler) panel(w http.ResponseWriter, r *http.Request, compute func(analytics.Window) (interface{}, error)) {
	req := parseReportRequest(r)
	window, apiErr := h.resolveWindow(req)
	if apiErr != nil {
		respondError(w, statusFor(apiErr), apiErr.Code, apiErr.Message, nil)
		return
	}

	start := time.Now()
	data, err := compute(window)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Panel render failed")
		respondError(w, http.StatusInternalServerError, "RENDER_ERROR",
			"Failed to render panel", err)
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   data,
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
		},
	})
}

// statusFor maps API error codes to HTTP status codes.
func statusFor(apiErr *models.APIError) int {
	switch apiErr.Code {
	case "VALIDATION_ERROR":
		return http.StatusBadRequest
	case "NOT_FOUND":
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
