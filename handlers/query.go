// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/danielhkuo/gva-map/analysis"
	"github.com/danielhkuo/gva-map/choropleth"
	"github.com/danielhkuo/gva-map/models"
	"github.com/danielhkuo/gva-map/store"
)

// DateLayout is the format of the start and end query parameters
const DateLayout = "2006-01-02"

var errBadQuery = errors.New("bad query")

// mapQuery is a parsed ?metric=&start=&end= query
type mapQuery struct {
	Metric string
	Query  analysis.Query

	// inclusive dates echoed back to the client, empty when unbounded
	Start string
	End   string
}

// parseMapQuery reads metric, start and end. end is inclusive; missing dates
// default to the dataset's first and last incident before the range is
// checked.
func parseMapQuery(r *http.Request, ds *store.Dataset, scale float64) (mapQuery, error) {
	q := mapQuery{
		Metric: r.URL.Query().Get("metric"),
		Query:  analysis.Query{Scale: scale},
	}
	if q.Metric == "" {
		q.Metric = models.MetricCount
	}
	if _, err := choropleth.Title(q.Metric); err != nil {
		return q, fmt.Errorf("%w: unknown metric %q", errBadQuery, q.Metric)
	}

	start, err := parseDateParam(r, "start")
	if err != nil {
		return q, err
	}
	end, err := parseDateParam(r, "end")
	if err != nil {
		return q, err
	}

	first, last, ok := ds.DateRange()
	if start.IsZero() && ok {
		start = first
	}
	if end.IsZero() && ok {
		end = last
	}
	if !start.IsZero() && !end.IsZero() && start.After(end) {
		return q, fmt.Errorf("%w: start %s is after end %s", errBadQuery, start.Format(DateLayout), end.Format(DateLayout))
	}

	q.Query.Start = start
	if !end.IsZero() {
		q.Query.End = end.AddDate(0, 0, 1)
		q.End = end.Format(DateLayout)
	}
	if !start.IsZero() {
		q.Start = start.Format(DateLayout)
	}
	return q, nil
}

func parseDateParam(r *http.Request, name string) (time.Time, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(DateLayout, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s must be YYYY-MM-DD", errBadQuery, name)
	}
	return t, nil
}

// parseTop reads ?top=, falling back to def
func parseTop(r *http.Request, def int) (int, error) {
	v := r.URL.Query().Get("top")
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: top must be a positive integer", errBadQuery)
	}
	return n, nil
}
