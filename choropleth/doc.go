// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package choropleth colors joined state rows and packages them as a GeoJSON
FeatureCollection for the Leaflet page.

	resp, err := choropleth.Render(rows, models.MetricCount)

Each feature carries its fill color, fill opacity, hover label and click label.
States without a value for the metric are drawn grey at half opacity.

# Colormaps

Seven-stop ColorBrewer ramps, one per metric:

	count_per_1k    Blues
	injured_per_1k  Greens
	killed_per_1k   Reds
	total_per_1k    Purples

Colormap.At blends linearly between stops over [min, max].
*/
package choropleth
