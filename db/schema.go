// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Supported database types
const (
	TypeSQLite   = "sqlite"
	TypePostgres = "postgres"
)

// Open connects to a SQLite or PostgreSQL database and verifies the
// connection.
func Open(dbType, url string) (*sql.DB, error) {
	var driver string
	switch dbType {
	case TypeSQLite, "":
		driver = "sqlite"
	case TypePostgres:
		driver = "postgres"
	default:
		return nil, fmt.Errorf("unsupported database type %q", dbType)
	}

	conn, err := sql.Open(driver, url)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if driver == "sqlite" {
		// a single writer avoids SQLITE_BUSY during seeding
		conn.SetMaxOpenConns(1)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return conn, nil
}

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// Rebind rewrites ? placeholders as $1, $2, ... for PostgreSQL. Queries for
// SQLite are returned unchanged.
func Rebind(dbType, query string) string {
	if dbType != TypePostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

const schema = `
-- Incidents from the GVA mass shooting export
CREATE TABLE IF NOT EXISTS incident (
    id TEXT PRIMARY KEY,
    incident_date TEXT NOT NULL, -- YYYY-MM-DD, sorts as text
    state TEXT NOT NULL,
    city_or_county TEXT NOT NULL DEFAULT '',
    address TEXT NOT NULL DEFAULT '',
    killed INTEGER NOT NULL DEFAULT 0 CHECK (killed >= 0),
    injured INTEGER NOT NULL DEFAULT 0 CHECK (injured >= 0)
);

CREATE INDEX IF NOT EXISTS idx_incident_date ON incident(incident_date);
CREATE INDEX IF NOT EXISTS idx_incident_state ON incident(state);

-- State outlines
CREATE TABLE IF NOT EXISTS state_shape (
    state_fips TEXT PRIMARY KEY,
    name TEXT NOT NULL UNIQUE,
    stusps TEXT NOT NULL,
    geometry TEXT NOT NULL -- GeoJSON geometry object
);

-- Gun law totals per state and year
CREATE TABLE IF NOT EXISTS gun_law (
    state TEXT NOT NULL,
    year INTEGER NOT NULL,
    lawtotal INTEGER NOT NULL,
    PRIMARY KEY (state, year)
);

-- Census population per state
CREATE TABLE IF NOT EXISTS census (
    state TEXT PRIMARY KEY,
    population BIGINT NOT NULL CHECK (population >= 0)
);
`
