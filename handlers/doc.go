// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the mass shootings map.

# Handler Types

  - DashboardHandler: the map page and the map, states, legend and chart APIs
  - AdminHandler: dataset reload and GVA export import

Handlers are created via constructor functions:

	dashboardHandler := handlers.NewDashboardHandler(cfg, holder)
	adminHandler := handlers.NewAdminHandler(db, cfg, holder)

# Recomputation

Every dashboard request reads the current store.Dataset snapshot and runs
filter, group, join and rate computation from scratch. Nothing is cached
between requests; the page re-fetches /api/map whenever the metric or the
date range changes.

# Query Parameters

	metric  count_per_1k (default), injured_per_1k, killed_per_1k, total_per_1k
	start   first day, YYYY-MM-DD (default: first incident)
	end     last day, inclusive (default: last incident)

An unknown metric, a malformed date or start after end is a 400.

# Admin Operations

Admin operations require the X-Admin-Key header, generated per scope:

	gva admin-key reload
	gva admin-key import
*/
package handlers
