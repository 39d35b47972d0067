// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package choropleth

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/paulmach/orb/geojson"

	"github.com/danielhkuo/gva-map/analysis"
	"github.com/danielhkuo/gva-map/models"
)

const (
	NaNColor       = "grey"
	NaNOpacity     = 0.5
	FillOpacity    = 0.8
	BorderColor    = "black"
	LegendPosition = "bottomright"
	missing        = "n/a"
)

// Metrics lists the radio button choices in display order
var Metrics = []string{models.MetricCount, models.MetricInjured, models.MetricKilled}

var metricTitles = map[string]string{
	models.MetricCount:   "Shooting per 1k",
	models.MetricInjured: "Injured per 1k",
	models.MetricKilled:  "Killed per 1k",
	models.MetricTotal:   "Injured or Killed per 1k",
}

// Title returns the display label of a metric
func Title(metric string) (string, error) {
	t, ok := metricTitles[metric]
	if !ok {
		return "", fmt.Errorf("%w: %q", analysis.ErrUnknownMetric, metric)
	}
	return t, nil
}

// DefaultView centers the contiguous US
func DefaultView() models.MapView {
	return models.MapView{
		Center:          [2]float64{38, -99},
		Zoom:            4,
		MinZoom:         2,
		MaxZoom:         6,
		ScrollWheelZoom: true,
		Dragging:        true,
	}
}

// DefaultStyle holds the layer options of the colored layer and the hover
// overlay.
func DefaultStyle() models.MapStyle {
	return models.MapStyle{
		Choropleth: models.LayerStyle{
			Color:       BorderColor,
			Weight:      1,
			Opacity:     1,
			FillOpacity: FillOpacity,
		},
		Hover: models.LayerStyle{
			Color:     "#4B86F7",
			Weight:    5,
			Opacity:   0.75,
			DashArray: "1",
		},
		NaNColor:   NaNColor,
		NaNOpacity: NaNOpacity,
	}
}

// BuildLegend pairs the legend stops of a metric with its colormap. A metric
// with no values in range yields a legend without entries.
func BuildLegend(rows []models.StateSummary, metric string, parts int) (models.Legend, error) {
	title, err := Title(metric)
	if err != nil {
		return models.Legend{}, err
	}
	cm, err := ForMetric(metric)
	if err != nil {
		return models.Legend{}, err
	}

	legend := models.Legend{Title: title, Position: LegendPosition, Entries: []models.LegendEntry{}}

	stops, err := analysis.DivideMetric(rows, metric, parts)
	if errors.Is(err, analysis.ErrNoValues) {
		return legend, nil
	}
	if err != nil {
		return models.Legend{}, err
	}

	// One stop per palette color pairs them directly; otherwise colors are
	// sampled along the ramp.
	palette := cm.Hex()
	lo, hi := stops[0], stops[len(stops)-1]
	for i, v := range stops {
		color := cm.At(v, lo, hi)
		if len(stops) == len(palette) {
			color = palette[i]
		}
		legend.Entries = append(legend.Entries, models.LegendEntry{Value: v, Color: color})
	}
	return legend, nil
}

// Render builds the map payload for one metric: a GeoJSON feature per state
// carrying its fill style, tooltip labels and statistics, plus the legend.
func Render(rows []models.StateSummary, metric string) (*models.MapResponse, error) {
	legend, err := BuildLegend(rows, metric, analysis.DefaultParts)
	if err != nil {
		return nil, err
	}
	cm, err := ForMetric(metric)
	if err != nil {
		return nil, err
	}

	values, err := analysis.MetricValues(rows, metric)
	if err != nil {
		return nil, err
	}
	lo, hi, boundsErr := analysis.Bounds(values)

	fc := geojson.NewFeatureCollection()
	for _, r := range rows {
		if r.Geometry == nil {
			continue
		}
		f := geojson.NewFeature(r.Geometry)
		f.ID = r.FIPS
		f.Properties = Properties(r)

		v, _ := r.Metric(metric)
		if v == nil || boundsErr != nil {
			f.Properties["fill_color"] = NaNColor
			f.Properties["fill_opacity"] = NaNOpacity
		} else {
			f.Properties["fill_color"] = cm.At(*v, lo, hi)
			f.Properties["fill_opacity"] = FillOpacity
		}
		fc.Append(f)
	}

	return &models.MapResponse{
		Metric:   metric,
		Title:    legend.Title,
		View:     DefaultView(),
		Style:    DefaultStyle(),
		Legend:   legend,
		Features: fc,
	}, nil
}

// Properties flattens a state row into GeoJSON feature properties
func Properties(r models.StateSummary) geojson.Properties {
	return geojson.Properties{
		"state":                r.State,
		"stusps":               r.StUSPS,
		"state_fips":           r.FIPS,
		"count":                intOrNil(r.Count),
		"injured":              intOrNil(r.Injured),
		"killed":               intOrNil(r.Killed),
		"total_injured_killed": intOrNil(r.TotalInjuredKilled),
		"population":           formatPopulation(r.Population),
		"pop_per_1k":           formatPopPer1k(r.PopPer1k),
		"lawtotal":             intOrNil(r.LawTotal),
		"count_per_1k":         floatOrNil(r.CountPer1k),
		"injured_per_1k":       floatOrNil(r.InjuredPer1k),
		"killed_per_1k":        floatOrNil(r.KilledPer1k),
		"total_per_1k":         floatOrNil(r.TotalPer1k),
		"hover_label":          HoverLabel(r),
		"click_label":          ClickLabel(r),
	}
}

// HoverLabel is shown under the map while the pointer is over a state
func HoverLabel(r models.StateSummary) string {
	return fmt.Sprintf("State: %s, Population per 1k: %s, Mass Shooting per 1k: %s",
		r.StUSPS, formatPopPer1k(r.PopPer1k), formatRate(r.CountPer1k))
}

// ClickLabel is shown under the map after a state is clicked
func ClickLabel(r models.StateSummary) string {
	law := missing
	if r.LawTotal != nil {
		law = strconv.Itoa(*r.LawTotal)
	}
	return fmt.Sprintf("State: %s, Population: %s, Gun Laws: %s, Injured per 1k: %s, Killed per 1k: %s",
		r.State, formatPopulation(r.Population), law, formatRate(r.InjuredPer1k), formatRate(r.KilledPer1k))
}

func formatPopulation(p *int64) string {
	if p == nil {
		return missing
	}
	return humanize.Comma(*p)
}

func formatPopPer1k(p *float64) string {
	if p == nil {
		return missing
	}
	return humanize.Comma(int64(*p))
}

func formatRate(v *float64) string {
	if v == nil {
		return missing
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func intOrNil(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func floatOrNil(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}
