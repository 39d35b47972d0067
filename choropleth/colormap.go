// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package choropleth

import (
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/danielhkuo/gva-map/analysis"
	"github.com/danielhkuo/gva-map/models"
)

// Colormap is a linear color scale through evenly spaced stops
type Colormap struct {
	Name  string
	stops []colorful.Color
}

// Seven-class ColorBrewer sequential schemes
var (
	Blues7   = mustColormap("Blues_07", "#eff3ff", "#c6dbef", "#9ecae1", "#6baed6", "#4292c6", "#2171b5", "#084594")
	Greens7  = mustColormap("Greens_07", "#edf8e9", "#c7e9c0", "#a1d99b", "#74c476", "#41ab5d", "#238b45", "#005a32")
	Reds7    = mustColormap("Reds_07", "#fee5d9", "#fcbba1", "#fc9272", "#fb6a4a", "#ef3b2c", "#cb181d", "#99000d")
	Purples7 = mustColormap("Purples_07", "#f2f0f7", "#dadaeb", "#bcbddc", "#9e9ac8", "#807dba", "#6a51a3", "#4a1486")
)

var metricColormaps = map[string]Colormap{
	models.MetricCount:   Blues7,
	models.MetricInjured: Greens7,
	models.MetricKilled:  Reds7,
	models.MetricTotal:   Purples7,
}

// NewColormap parses hex stops. At least two stops are required.
func NewColormap(name string, hexes ...string) (Colormap, error) {
	if len(hexes) < 2 {
		return Colormap{}, fmt.Errorf("colormap %s: need at least 2 colors, got %d", name, len(hexes))
	}
	stops := make([]colorful.Color, len(hexes))
	for i, h := range hexes {
		c, err := colorful.Hex(h)
		if err != nil {
			return Colormap{}, fmt.Errorf("colormap %s: %w", name, err)
		}
		stops[i] = c
	}
	return Colormap{Name: name, stops: stops}, nil
}

func mustColormap(name string, hexes ...string) Colormap {
	cm, err := NewColormap(name, hexes...)
	if err != nil {
		panic(err)
	}
	return cm
}

// ForMetric returns the colormap used for a metric key
func ForMetric(metric string) (Colormap, error) {
	cm, ok := metricColormaps[metric]
	if !ok {
		return Colormap{}, fmt.Errorf("%w: %q", analysis.ErrUnknownMetric, metric)
	}
	return cm, nil
}

// Hex returns the stop colors as #rrggbb strings
func (c Colormap) Hex() []string {
	out := make([]string, len(c.stops))
	for i, s := range c.stops {
		out[i] = s.Hex()
	}
	return out
}

// At maps value onto the scale spanning [vmin, vmax]. Values outside the
// range clamp to the end stops; a degenerate range maps to the first stop.
func (c Colormap) At(value, vmin, vmax float64) string {
	if len(c.stops) == 0 {
		return ""
	}
	t := 0.0
	if vmax > vmin {
		t = (value - vmin) / (vmax - vmin)
	}
	t = math.Max(0, math.Min(1, t))

	pos := t * float64(len(c.stops)-1)
	i := int(math.Floor(pos))
	if i >= len(c.stops)-1 {
		return c.stops[len(c.stops)-1].Hex()
	}
	return c.stops[i].BlendRgb(c.stops[i+1], pos-float64(i)).Clamped().Hex()
}
