// Shopmetrics - E-Commerce Marketing Analytics Dashboard
// Copyright 2026 Shopmetrics Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopmetrics/shopmetrics

// Package geo builds the customer-location cluster panel from the postal
// lookup table.
package geo

import (
	"sort"

	"github.com/shopmetrics/shopmetrics/internal/models"
)

// Clusters keeps the lookup entries whose state has strictly more entries
// than orderThreshold, and returns the mean lat/lon of the kept entries as
// the map center plus one marker per entry.
//
// An empty result (threshold too high, or empty lookup) yields a zero
// center and no points; the map widget falls back to its default view.
func Clusters(lookup map[string]models.Place, orderThreshold int) models.GeoClusters {
	stateCounts := make(map[string]int)
	for _, place := range lookup {
		stateCounts[place.StateName]++
	}

	popular := make(map[string]struct{})
	for state, count := range stateCounts {
		if count > orderThreshold {
			popular[state] = struct{}{}
		}
	}

	zips := make([]string, 0, len(lookup))
	for zip, place := range lookup {
		if _, ok := popular[place.StateName]; ok {
			zips = append(zips, zip)
		}
	}
	sort.Strings(zips)

	var out models.GeoClusters
	var latSum, lonSum float64
	for _, zip := range zips {
		place := lookup[zip]
		latSum += place.Latitude
		lonSum += place.Longitude
		out.Points = append(out.Points, models.GeoPoint{
			Latitude:  place.Latitude,
			Longitude: place.Longitude,
			PlaceName: place.PlaceName,
		})
	}

	if len(out.Points) > 0 {
		out.CenterLatitude = latSum / float64(len(out.Points))
		out.CenterLongitude = lonSum / float64(len(out.Points))
	}
	return out
}
