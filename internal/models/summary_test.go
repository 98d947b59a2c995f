// Shopmetrics - E-Commerce Marketing Analytics Dashboard
// Copyright 2026 Shopmetrics Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopmetrics/shopmetrics

package models

import (
	"math"
	"testing"

	json "github.com/goccy/go-json"
)

func TestNullFloatMarshal(t *testing.T) {
	tests := []struct {
		name string
		in   NullFloat
		want string
	}{
		{"value", NullFloat(12.5), "12.5"},
		{"zero", NullFloat(0), "0"},
		{"nan", NullFloat(math.NaN()), "null"},
		{"positive inf", NullFloat(math.Inf(1)), "null"},
		{"negative inf", NullFloat(math.Inf(-1)), "null"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := json.Marshal(tt.in)
			if err != nil {
				t.Fatalf("Marshal: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("Marshal(%v) = %s, want %s", float64(tt.in), got, tt.want)
			}
		})
	}
}

func TestNullFloatIsNull(t *testing.T) {
	if NullFloat(1).IsNull() {
		t.Error("IsNull(1) = true")
	}
	if !NullFloat(math.NaN()).IsNull() {
		t.Error("IsNull(NaN) = false")
	}
	if !NullFloat(math.Inf(1)).IsNull() {
		t.Error("IsNull(+Inf) = false")
	}
}

func TestSummaryStatsMetrics(t *testing.T) {
	stats := SummaryStats{
		Orders:             3,
		Sales:              2,
		AOV:                20,
		Revenue:            60,
		NewCustomers:       1,
		ReturningCustomers: 1,
	}

	m := stats.Metrics()
	for _, name := range MetricNames {
		if _, ok := m[name]; !ok {
			t.Errorf("Metrics() missing %q", name)
		}
	}
	if got := float64(m[MetricAOV]); got != 20 {
		t.Errorf("metrics[aov] = %g, want 20", got)
	}
}
