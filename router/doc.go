// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the dashboard.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(db, cfg, holder)

# Endpoints

Health:

	GET /health

Dashboard (public):

	GET /                     - Map page
	GET /api/map              - Colored GeoJSON, legend and view
	GET /api/states           - Joined per-state rows with rates
	GET /api/legend           - Legend stops only
	GET /api/charts/{metric}  - PNG bar chart of the top states

The /api endpoints accept metric=, start= and end= (YYYY-MM-DD, end
inclusive); charts also take top=.

Dataset management (admin, requires X-Admin-Key):

	POST /admin/reload - Reload every table from the database
	POST /admin/import - Upsert a GVA CSV export, then reload

# Handler Initialization

	dashboardHandler := handlers.NewDashboardHandler(cfg, holder)
	adminHandler := handlers.NewAdminHandler(db, cfg, holder)

Both share the same store.Holder, so a reload is visible to the next
dashboard request.
*/
package router
