// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/gva-map/cliparse"
	"github.com/danielhkuo/gva-map/db"
	"github.com/danielhkuo/gva-map/store"
)

// SetupTestDB creates a fresh in-memory SQLite database with the full schema
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open(db.TypeSQLite, ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         3318,
		DatabaseURL:  ":memory:",
		DatabaseType: db.TypeSQLite,
		DataDir:      "testdata",
		AdminKeySalt: "test-admin-salt",
		RateScale:    100,
	}
}

// TestState is one fixture state; its outline is a unit square at X
type TestState struct {
	FIPS, Name, StUSPS string
	Population         int64
	LawTotal           int
	X                  float64
}

// DefaultStates are the fixture states used across handler tests
var DefaultStates = []TestState{
	{"17", "Illinois", "IL", 12_800_000, 65, 0},
	{"48", "Texas", "TX", 29_100_000, 20, 2},
	{"50", "Vermont", "VT", 643_000, 31, 4},
}

// InsertTestState writes the outline, census and 2020 gun law rows of a state
func InsertTestState(t *testing.T, conn *sql.DB, s TestState) {
	t.Helper()

	geom := fmt.Sprintf(`{"type":"Polygon","coordinates":[[[%[1]g,0],[%[2]g,0],[%[2]g,1],[%[1]g,1],[%[1]g,0]]]}`, s.X, s.X+1)
	stmts := []struct {
		query string
		args  []any
	}{
		{`INSERT INTO state_shape (state_fips, name, stusps, geometry) VALUES (?, ?, ?, ?)`, []any{s.FIPS, s.Name, s.StUSPS, geom}},
		{`INSERT INTO census (state, population) VALUES (?, ?)`, []any{s.Name, s.Population}},
		{`INSERT INTO gun_law (state, year, lawtotal) VALUES (?, 2020, ?)`, []any{s.Name, s.LawTotal}},
	}
	for _, st := range stmts {
		if _, err := conn.Exec(st.query, st.args...); err != nil {
			t.Fatalf("Failed to insert test state %s: %v", s.Name, err)
		}
	}
}

// InsertTestIncident writes one incident row; date is YYYY-MM-DD
func InsertTestIncident(t *testing.T, conn *sql.DB, id, date, state string, injured, killed int) {
	t.Helper()

	_, err := conn.Exec(`
		INSERT INTO incident (id, incident_date, state, city_or_county, address, killed, injured)
		VALUES (?, ?, ?, 'Springfield', '1 Main St', ?, ?)
	`, id, date, state, killed, injured)
	if err != nil {
		t.Fatalf("Failed to insert test incident: %v", err)
	}
}

// SeedFixtures inserts DefaultStates and a small set of incidents between
// 2019-10-01 and 2022-12-31
func SeedFixtures(t *testing.T, conn *sql.DB) {
	t.Helper()

	for _, s := range DefaultStates {
		InsertTestState(t, conn, s)
	}
	InsertTestIncident(t, conn, "1", "2019-10-01", "Illinois", 4, 0)
	InsertTestIncident(t, conn, "2", "2020-06-15", "Illinois", 5, 1)
	InsertTestIncident(t, conn, "3", "2021-03-20", "Texas", 3, 2)
	InsertTestIncident(t, conn, "4", "2022-12-31", "Texas", 6, 4)
}

// LoadTestHolder loads the current database contents into a Holder
func LoadTestHolder(t *testing.T, conn *sql.DB) *store.Holder {
	t.Helper()

	ds, err := store.Load(context.Background(), conn)
	if err != nil {
		t.Fatalf("Failed to load dataset: %v", err)
	}
	return store.NewHolder(ds)
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
