// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the database and creates its schema.

# Connections

Open accepts "sqlite" (modernc.org/sqlite, pure Go) or "postgres"
(lib/pq) and pings before returning:

	conn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)

SQLite connections are limited to one open connection.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - incident: one row per mass shooting, keyed by GVA incident ID
  - state_shape: state outlines as GeoJSON geometry text, keyed by FIPS
  - gun_law: firearm law totals per (state, year)
  - census: population per state

Tables join on the state name. Incident dates are stored as YYYY-MM-DD
text so both drivers compare them the same way.

# Placeholders

Queries are written with ? placeholders; Rebind converts them to $1, $2, ...
for PostgreSQL.
*/
package db
