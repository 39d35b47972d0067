// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/danielhkuo/gva-map/cliparse"
	"github.com/danielhkuo/gva-map/handlers"
	"github.com/danielhkuo/gva-map/middleware"
	"github.com/danielhkuo/gva-map/store"
)

func NewRouter(db *sql.DB, cfg cliparse.Config, data *store.Holder) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	dashboardHandler := handlers.NewDashboardHandler(cfg, data)
	adminHandler := handlers.NewAdminHandler(db, cfg, data)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Map data (public, recomputed per request)
	mux.HandleFunc("GET /api/map", middleware.WithLogging(dashboardHandler.GetMap))
	mux.HandleFunc("GET /api/states", middleware.WithLogging(dashboardHandler.GetStates))
	mux.HandleFunc("GET /api/legend", middleware.WithLogging(dashboardHandler.GetLegend))
	mux.HandleFunc("GET /api/charts/{metric}", middleware.WithLogging(dashboardHandler.GetChart))

	// Dataset management (admin operations)
	mux.HandleFunc("POST /admin/reload", middleware.WithLogging(adminHandler.Reload))
	mux.HandleFunc("POST /admin/import", middleware.WithLogging(adminHandler.Import))

	// Dashboard page
	mux.HandleFunc("GET /", middleware.WithLogging(dashboardHandler.Index))

	return mux
}
