// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"bytes"
	"embed"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/gva-map/choropleth"
	"github.com/danielhkuo/gva-map/middleware"
	"github.com/danielhkuo/gva-map/models"
)

//go:embed templates/index.html
var templateFS embed.FS

var indexTmpl = template.Must(template.ParseFS(templateFS, "templates/index.html"))

type metricOption struct {
	Key     string
	Label   string
	Checked bool
}

type indexData struct {
	Title   string
	Metrics []metricOption
	MinDate string
	MaxDate string
}

// Index handles GET /
// Renders the dashboard page; the map itself is fetched from /api/map
func (h *DashboardHandler) Index(w http.ResponseWriter, r *http.Request) {
	// GET / also matches every unrouted path
	if r.URL.Path != "/" {
		middleware.ErrorResponse(w, http.StatusNotFound, "Not found")
		return
	}

	data := indexData{Title: "Mass Shootings in the US"}
	for _, m := range choropleth.Metrics {
		label, _ := choropleth.Title(m)
		data.Metrics = append(data.Metrics, metricOption{Key: m, Label: label, Checked: m == models.MetricCount})
	}
	if ds := h.data.Get(); ds != nil {
		if first, last, ok := ds.DateRange(); ok {
			data.MinDate = first.Format(DateLayout)
			data.MaxDate = last.Format(DateLayout)
		}
	}

	var buf bytes.Buffer
	if err := indexTmpl.Execute(&buf, data); err != nil {
		slog.Error("failed to render page", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to render page")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
