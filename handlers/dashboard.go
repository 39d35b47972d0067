// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/gva-map/analysis"
	"github.com/danielhkuo/gva-map/choropleth"
	"github.com/danielhkuo/gva-map/cliparse"
	"github.com/danielhkuo/gva-map/middleware"
	"github.com/danielhkuo/gva-map/models"
	"github.com/danielhkuo/gva-map/report"
	"github.com/danielhkuo/gva-map/store"
)

type DashboardHandler struct {
	cfg  cliparse.Config
	data *store.Holder
}

func NewDashboardHandler(cfg cliparse.Config, data *store.Holder) *DashboardHandler {
	return &DashboardHandler{cfg: cfg, data: data}
}

// summarize parses the query and runs the pipeline against the current
// snapshot. It writes the error response itself and returns ok=false on
// failure.
func (h *DashboardHandler) summarize(w http.ResponseWriter, r *http.Request) (mapQuery, []models.StateSummary, bool) {
	ds := h.data.Get()
	if ds == nil {
		middleware.ErrorResponse(w, http.StatusServiceUnavailable, "Dataset not loaded")
		return mapQuery{}, nil, false
	}

	q, err := parseMapQuery(r, ds, h.cfg.RateScale)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return q, nil, false
	}
	return q, analysis.Summarize(ds.Tables, q.Query), true
}

// GetMap handles GET /api/map?metric=&start=&end=
// Returns the colored GeoJSON layer, legend and view for a metric and date range.
// start and end are YYYY-MM-DD and both inclusive: incidents on the end date
// are counted (internally the filter runs up to end + 1 day, exclusive).
func (h *DashboardHandler) GetMap(w http.ResponseWriter, r *http.Request) {
	q, rows, ok := h.summarize(w, r)
	if !ok {
		return
	}

	resp, err := choropleth.Render(rows, q.Metric)
	if err != nil {
		slog.Error("failed to render map", "metric", q.Metric, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to render map")
		return
	}
	resp.Start = q.Start
	resp.End = q.End

	middleware.JSONResponse(w, http.StatusOK, resp)
}

// GetStates handles GET /api/states
// Returns the joined per-state rows with rates
func (h *DashboardHandler) GetStates(w http.ResponseWriter, r *http.Request) {
	q, rows, ok := h.summarize(w, r)
	if !ok {
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.StatesResponse{
		Start:  q.Start,
		End:    q.End,
		States: rows,
	})
}

// GetLegend handles GET /api/legend
func (h *DashboardHandler) GetLegend(w http.ResponseWriter, r *http.Request) {
	q, rows, ok := h.summarize(w, r)
	if !ok {
		return
	}

	legend, err := choropleth.BuildLegend(rows, q.Metric, analysis.DefaultParts)
	if err != nil {
		slog.Error("failed to build legend", "metric", q.Metric, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to build legend")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, legend)
}

// GetChart handles GET /api/charts/{metric}
// Returns a PNG bar chart of the top states
func (h *DashboardHandler) GetChart(w http.ResponseWriter, r *http.Request) {
	// the path segment names the metric; reuse the query parser for dates
	query := r.URL.Query()
	query.Set("metric", r.PathValue("metric"))
	r.URL.RawQuery = query.Encode()

	top, err := parseTop(r, report.DefaultTop)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	q, rows, ok := h.summarize(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	err = report.BarChart(&buf, rows, q.Metric, top)
	if errors.Is(err, report.ErrNoBars) {
		middleware.ErrorResponse(w, http.StatusNotFound, "No states have a value for this metric and date range")
		return
	}
	if err != nil {
		slog.Error("failed to render chart", "metric", q.Metric, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to render chart")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Error("failed to write chart", "error", err)
	}
}
