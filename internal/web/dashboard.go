// Shopmetrics - E-Commerce Marketing Analytics Dashboard
// Copyright 2026 Shopmetrics Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopmetrics/shopmetrics

// Package web serves the server-rendered dashboard page. The page is a
// single html/template with a date-range form; submitting the form renders
// the report for that range. All chart interactivity lives in the JSON API;
// this page is the plain-HTML view of the same data.
package web

import (
	_ "embed"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/shopmetrics/shopmetrics/internal/analytics"
	"github.com/shopmetrics/shopmetrics/internal/logging"
	"github.com/shopmetrics/shopmetrics/internal/models"
	"github.com/shopmetrics/shopmetrics/internal/report"
)

//go:embed dashboard.html.tmpl
var dashboardTemplate string

// dateLayout is the form wire format for the date-range inputs.
const dateLayout = "2006-01-02"

// Dashboard renders the HTML dashboard from the report service.
type Dashboard struct {
	svc  *report.Service
	tmpl *template.Template
}

// pageData is the template context for one page render. Dataset is always
// present; Report only after a valid form submission.
type pageData struct {
	Start      string
	End        string
	All        bool
	FormError  string
	Dataset    models.DatasetPanels
	BusiestDay models.DayCount
	Report     *models.ReportData
}

// NewDashboard parses the embedded template and builds the page handler.
func NewDashboard(svc *report.Service) (*Dashboard, error) {
	tmpl, err := template.New("dashboard").Funcs(funcMap()).Parse(dashboardTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse dashboard template: %w", err)
	}
	return &Dashboard{svc: svc, tmpl: tmpl}, nil
}

// funcMap provides the formatting helpers the template uses.
func funcMap() template.FuncMap {
	return template.FuncMap{
		// metric renders a nullable metric value, em-dash when null.
		"metric": func(v models.NullFloat) string {
			if v.IsNull() {
				return "—"
			}
			return fmt.Sprintf("%.2f", float64(v))
		},
		// arrow renders the period-over-period direction indicator.
		"arrow": func(upward bool) string {
			if upward {
				return "↑"
			}
			return "↓"
		},
		"pct": func(v float64) string {
			return fmt.Sprintf("%.2f%%", v)
		},
		// cell renders one cohort pivot cell; missing cells stay blank.
		"cell": func(row models.CohortRow, idx int) string {
			v, ok := row.Cells[idx]
			if !ok {
				return ""
			}
			if v.IsNull() {
				return "—"
			}
			return fmt.Sprintf("%g", float64(v))
		},
		"join": func(items []string, sep string) string {
			out := ""
			for i, item := range items {
				if i > 0 {
					out += sep
				}
				out += item
			}
			return out
		},
	}
}

// ServeHTTP renders the dashboard. Without form parameters it shows the
// empty form; with a valid range it renders the full report inline.
func (d *Dashboard) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := pageData{
		Start:   q.Get("start"),
		End:     q.Get("end"),
		All:     q.Get("all") == "true",
		Dataset: d.svc.Dataset(),
	}
	page.BusiestDay = busiestDay(page.Dataset.OrdersPerDay)

	if page.All || page.Start != "" || page.End != "" {
		window, err := d.resolveWindow(page)
		if err != nil {
			page.FormError = err.Error()
		} else {
			data, renderErr := d.svc.Render(r.Context(), window)
			if renderErr != nil {
				logging.Ctx(r.Context()).Error().Err(renderErr).Msg("Dashboard render failed")
				http.Error(w, "failed to render report", http.StatusInternalServerError)
				return
			}
			page.Report = data
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	if err := d.tmpl.Execute(w, page); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Dashboard template execution failed")
	}
}

// resolveWindow turns the form state into a report window: the whole
// dataset when the toggle is on, otherwise the submitted date range.
func (d *Dashboard) resolveWindow(page pageData) (analytics.Window, error) {
	if page.All {
		return d.svc.FullWindow()
	}
	return parseRange(page.Start, page.End)
}

// busiestDay returns the calendar day with the most orders, earliest day
// on ties. Zero value when the series is empty.
func busiestDay(days []models.DayCount) models.DayCount {
	var best models.DayCount
	for _, day := range days {
		if day.Count > best.Count {
			best = day
		}
	}
	return best
}

// parseRange validates the form inputs and converts them into a window,
// widening the bounds the same way the API does so both surfaces agree.
func parseRange(startStr, endStr string) (analytics.Window, error) {
	if startStr == "" || endStr == "" {
		return analytics.Window{}, fmt.Errorf("both start and end dates are required")
	}
	start, err := time.Parse(dateLayout, startStr)
	if err != nil {
		return analytics.Window{}, fmt.Errorf("start must be a date in YYYY-MM-DD format")
	}
	end, err := time.Parse(dateLayout, endStr)
	if err != nil {
		return analytics.Window{}, fmt.Errorf("end must be a date in YYYY-MM-DD format")
	}
	if end.Before(start) {
		return analytics.Window{}, fmt.Errorf("end must not be before start")
	}
	return analytics.NewWindow(start.Add(-time.Second), end.AddDate(0, 0, 1)), nil
}
