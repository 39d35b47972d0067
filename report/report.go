// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package report

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/danielhkuo/gva-map/choropleth"
	"github.com/danielhkuo/gva-map/models"
)

// ErrNoBars is returned when no state has a value for the metric
var ErrNoBars = errors.New("no states with a value to chart")

const (
	DefaultTop = 10
	MaxTop     = 60

	barWidth   = 40
	barSpacing = 16
	chartH     = 480
)

// Bar is one state's value in a chart
type Bar struct {
	Label string
	Value float64
}

// TopStates returns the top states by metric, largest first. States without
// a value are left out.
func TopStates(rows []models.StateSummary, metric string, top int) ([]Bar, error) {
	if top <= 0 {
		top = DefaultTop
	}
	if top > MaxTop {
		top = MaxTop
	}

	bars := make([]Bar, 0, len(rows))
	for _, r := range rows {
		v, ok := r.Metric(metric)
		if !ok {
			return nil, fmt.Errorf("unknown metric %q", metric)
		}
		if v == nil {
			continue
		}
		label := r.StUSPS
		if label == "" {
			label = r.State
		}
		bars = append(bars, Bar{Label: label, Value: *v})
	}

	sort.SliceStable(bars, func(i, j int) bool {
		if bars[i].Value != bars[j].Value {
			return bars[i].Value > bars[j].Value
		}
		return bars[i].Label < bars[j].Label
	})
	if len(bars) > top {
		bars = bars[:top]
	}
	return bars, nil
}

// BarChart writes a PNG bar chart of the top states for metric. Bars are
// colored with the metric's map colormap.
func BarChart(w io.Writer, rows []models.StateSummary, metric string, top int) error {
	title, err := choropleth.Title(metric)
	if err != nil {
		return err
	}
	cm, err := choropleth.ForMetric(metric)
	if err != nil {
		return err
	}
	bars, err := TopStates(rows, metric, top)
	if err != nil {
		return err
	}
	if len(bars) == 0 {
		return ErrNoBars
	}

	hi := bars[0].Value
	if hi <= 0 {
		hi = 1
	}
	lo := bars[len(bars)-1].Value

	values := make([]chart.Value, len(bars))
	for i, b := range bars {
		fill := drawing.ColorFromHex(strings.TrimPrefix(cm.At(b.Value, lo, hi), "#"))
		values[i] = chart.Value{
			Label: b.Label,
			Value: b.Value,
			Style: chart.Style{
				FillColor:   fill,
				StrokeColor: drawing.ColorBlack,
				StrokeWidth: 1,
			},
		}
	}

	width := len(bars)*(barWidth+barSpacing) + 120
	if width < 480 {
		width = 480
	}

	graph := chart.BarChart{
		Title:      title,
		Background: chart.Style{Padding: chart.Box{Top: 48, Left: 16, Right: 16, Bottom: 16}},
		Width:      width,
		Height:     chartH,
		BarWidth:   barWidth,
		BarSpacing: barSpacing,
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: hi * 1.1},
		},
		Bars: values,
	}
	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}
