// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Metric keys selectable on the map
const (
	MetricCount   = "count_per_1k"
	MetricInjured = "injured_per_1k"
	MetricKilled  = "killed_per_1k"
	MetricTotal   = "total_per_1k"
)

// Domain types

// Incident is one row of the GVA mass shooting export.
type Incident struct {
	ID           string    `json:"id"`
	Date         time.Time `json:"date"`
	State        string    `json:"state"`
	CityOrCounty string    `json:"city_or_county"`
	Address      string    `json:"address"`
	Killed       int       `json:"killed"`
	Injured      int       `json:"injured"`
}

type StateShape struct {
	FIPS     string       `json:"state_fips"`
	Name     string       `json:"name"`
	StUSPS   string       `json:"stusps"`
	Geometry orb.Geometry `json:"-"`
}

type GunLaw struct {
	State    string `json:"state"`
	Year     int    `json:"year"`
	LawTotal int    `json:"lawtotal"`
}

type CensusRow struct {
	State      string `json:"state"`
	Population int64  `json:"population"`
}

// StateTotals holds the summed incident columns for one state
type StateTotals struct {
	State              string `json:"state"`
	Count              int    `json:"count"`
	Injured            int    `json:"injured"`
	Killed             int    `json:"killed"`
	TotalInjuredKilled int    `json:"total_injured_killed"`
}

// StateSummary is one state after joining incident totals, census, gun laws
// and the state outline. Nil pointers are values missing from a join.
type StateSummary struct {
	State  string `json:"state"`
	StUSPS string `json:"stusps"`
	FIPS   string `json:"state_fips"`

	Count              *int `json:"count"`
	Injured            *int `json:"injured"`
	Killed             *int `json:"killed"`
	TotalInjuredKilled *int `json:"total_injured_killed"`

	Population *int64   `json:"population"`
	PopPer1k   *float64 `json:"pop_per_1k"`
	LawTotal   *int     `json:"lawtotal"`

	CountPer1k   *float64 `json:"count_per_1k"`
	InjuredPer1k *float64 `json:"injured_per_1k"`
	KilledPer1k  *float64 `json:"killed_per_1k"`
	TotalPer1k   *float64 `json:"total_per_1k"`

	Geometry orb.Geometry `json:"-"`
}

// Metric returns the rate column named by key, or false for an unknown key.
func (s StateSummary) Metric(key string) (*float64, bool) {
	switch key {
	case MetricCount:
		return s.CountPer1k, true
	case MetricInjured:
		return s.InjuredPer1k, true
	case MetricKilled:
		return s.KilledPer1k, true
	case MetricTotal:
		return s.TotalPer1k, true
	}
	return nil, false
}

// Map types

type LegendEntry struct {
	Value float64 `json:"value"`
	Color string  `json:"color"`
}

type Legend struct {
	Title    string        `json:"title"`
	Position string        `json:"position"`
	Entries  []LegendEntry `json:"entries"`
}

// MapView is the initial viewport of the basemap
type MapView struct {
	Center          [2]float64 `json:"center"`
	Zoom            int        `json:"zoom"`
	MinZoom         int        `json:"min_zoom"`
	MaxZoom         int        `json:"max_zoom"`
	ScrollWheelZoom bool       `json:"scroll_wheel_zoom"`
	Dragging        bool       `json:"dragging"`
}

// LayerStyle mirrors the Leaflet path options the page applies
type LayerStyle struct {
	Color       string  `json:"color"`
	Weight      float64 `json:"weight"`
	Opacity     float64 `json:"opacity"`
	FillOpacity float64 `json:"fillOpacity"`
	DashArray   string  `json:"dashArray,omitempty"`
}

type MapStyle struct {
	Choropleth LayerStyle `json:"choropleth"`
	Hover      LayerStyle `json:"hover"`
	NaNColor   string     `json:"nan_color"`
	NaNOpacity float64    `json:"nan_opacity"`
}

type MapResponse struct {
	Metric   string                     `json:"metric"`
	Title    string                     `json:"title"`
	Start    string                     `json:"start,omitempty"`
	End      string                     `json:"end,omitempty"`
	View     MapView                    `json:"view"`
	Style    MapStyle                   `json:"style"`
	Legend   Legend                     `json:"legend"`
	Features *geojson.FeatureCollection `json:"geojson"`
}

// Response types

type StatesResponse struct {
	Start  string         `json:"start,omitempty"`
	End    string         `json:"end,omitempty"`
	States []StateSummary `json:"states"`
}

type ReloadResponse struct {
	Incidents int       `json:"incidents"`
	States    int       `json:"states"`
	LoadedAt  time.Time `json:"loaded_at"`
}

type ImportResponse struct {
	Imported int `json:"imported"`
	ReloadResponse
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
