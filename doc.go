// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the mass shootings map server.

The server shows mass shooting incidents from the Gun Violence Archive as a
choropleth of US states: shootings, injured or killed per thousand residents,
over a selectable date range, next to census population and state gun law
totals.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	ADMIN_KEY_SALT=... go run .

Or with flags:

	go run . -p 3318 -d file:gva.db --data ./data --admin-salt dev

A .env file in the working directory is read first.

# Configuration

Required settings:

  - ADMIN_KEY_SALT (--admin-salt): Secret for admin key HMAC

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_URL (-d): SQLite file or PostgreSQL URL (default: file:gva.db)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - DATA_DIR (--data): Seed files for an empty database (default: data)
  - RATE_SCALE (--rate-scale): Rate multiplier (default: 100)

# Startup

On start the schema is created, an empty database is seeded from DATA_DIR
(mass_shootings.csv, census.csv, gun_laws.csv, states.geojson) and every
table is loaded into memory. Requests compute against that snapshot until
POST /admin/reload or /admin/import replaces it.

# Architecture

  - handlers: HTTP request handlers (dashboard, admin)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - analysis: Filtering, aggregation, join, rates and legend stops
  - choropleth: Colormaps, GeoJSON rendering and labels
  - report: PNG bar charts
  - store: In-memory dataset snapshot
  - seed: CSV and GeoJSON parsing, seeding and import
  - scraper: Headless browser download of the GVA export
  - models: Domain and response types
  - auth: Admin key generation and validation
  - db: Connections and schema creation
  - cliparse: Configuration parsing

The gva command (cmd/gva) downloads, imports and seeds data outside the
server.
*/
package main
