// Shopmetrics - E-Commerce Marketing Analytics Dashboard
// Copyright 2026 Shopmetrics Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopmetrics/shopmetrics

package api

import (
	"net/http"
	"time"

	"github.com/shopmetrics/shopmetrics/internal/analytics"
	"github.com/shopmetrics/shopmetrics/internal/models"
)

// dateLayout is the wire format for report range parameters.
const dateLayout = "2006-01-02"

// ReportRequest carries the query parameters of the report endpoints.
// When All is set, Start and End are ignored and the window spans the
// whole dataset.
type ReportRequest struct {
	Start string `validate:"required_without=All,omitempty,datetime=2006-01-02"`
	End   string `validate:"required_without=All,omitempty,datetime=2006-01-02"`
	All   bool
}

// parseReportRequest extracts the report parameters from the query string.
func parseReportRequest(r *http.Request) ReportRequest {
	q := r.URL.Query()
	return ReportRequest{
		Start: q.Get("start"),
		End:   q.Get("end"),
		All:   q.Get("all") == "true",
	}
}

// resolveWindow validates the request and turns it into a report window.
// The end date is advanced by one day so that orders on the end date
// itself fall inside the exclusive-bound window; the start bound is pulled
// back a second for the same reason.
func (h *Handler) resolveWindow(req ReportRequest) (analytics.Window, *models.APIError) {
	if apiErr := validateRequest(&req); apiErr != nil {
		return analytics.Window{}, apiErr
	}

	if req.All {
		w, err := h.svc.FullWindow()
		if err != nil {
			return analytics.Window{}, &models.APIError{
				Code:    "NOT_FOUND",
				Message: "No timestamped orders loaded",
			}
		}
		return w, nil
	}

	start, err := time.Parse(dateLayout, req.Start)
	if err != nil {
		return analytics.Window{}, &models.APIError{
			Code:    "VALIDATION_ERROR",
			Message: "start must be a date in YYYY-MM-DD format",
		}
	}
	end, err := time.Parse(dateLayout, req.End)
	if err != nil {
		return analytics.Window{}, &models.APIError{
			Code:    "VALIDATION_ERROR",
			Message: "end must be a date in YYYY-MM-DD format",
		}
	}

	if end.Before(start) {
		return analytics.Window{}, &models.APIError{
			Code:    "VALIDATION_ERROR",
			Message: "end must not be before start",
		}
	}

	return analytics.NewWindow(start.Add(-time.Second), end.AddDate(0, 0, 1)), nil
}
