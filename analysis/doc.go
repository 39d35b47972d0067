// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package analysis turns raw incident rows into per-state map values.

# Pipeline

	rows := analysis.Summarize(tables, analysis.Query{Start: start, End: end})

Summarize runs, in order:

  - FilterByDate: start <= date < end
  - GroupByState: sum count, injured, killed, injured+killed; sort descending
  - Join: outer join with census and gun laws, inner join with state outlines
  - RatePer1k: pop_per_1k and the four *_per_1k columns

# Legend Stops

	stops, err := analysis.DivideMetric(rows, models.MetricCount, analysis.DefaultParts)

Returns evenly spaced values from the column minimum to its maximum. Missing
values are skipped; a column with no values returns ErrNoValues.
*/
package analysis
