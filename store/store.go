// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/paulmach/orb/geojson"

	"github.com/danielhkuo/gva-map/analysis"
	"github.com/danielhkuo/gva-map/models"
)

// DateLayout is how incident dates are stored
const DateLayout = "2006-01-02"

// Dataset is an immutable snapshot of all four tables
type Dataset struct {
	analysis.Tables
	LoadedAt time.Time
}

// Load reads every table into memory.
func Load(ctx context.Context, db *sql.DB) (*Dataset, error) {
	incidents, err := loadIncidents(ctx, db)
	if err != nil {
		return nil, fmt.Errorf("failed to load incidents: %w", err)
	}
	shapes, err := loadShapes(ctx, db)
	if err != nil {
		return nil, fmt.Errorf("failed to load state shapes: %w", err)
	}
	laws, err := loadLaws(ctx, db)
	if err != nil {
		return nil, fmt.Errorf("failed to load gun laws: %w", err)
	}
	census, err := loadCensus(ctx, db)
	if err != nil {
		return nil, fmt.Errorf("failed to load census: %w", err)
	}

	return &Dataset{
		Tables: analysis.Tables{
			Incidents: incidents,
			Shapes:    shapes,
			Laws:      laws,
			Census:    census,
		},
		LoadedAt: time.Now(),
	}, nil
}

// DateRange returns the first and last incident dates. ok is false for an
// empty dataset.
func (d *Dataset) DateRange() (first, last time.Time, ok bool) {
	for i, inc := range d.Incidents {
		if i == 0 || inc.Date.Before(first) {
			first = inc.Date
		}
		if i == 0 || inc.Date.After(last) {
			last = inc.Date
		}
	}
	return first, last, len(d.Incidents) > 0
}

func loadIncidents(ctx context.Context, db *sql.DB) ([]models.Incident, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, incident_date, state, city_or_county, address, killed, injured
		FROM incident
		ORDER BY incident_date, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	incidents := []models.Incident{}
	for rows.Next() {
		var inc models.Incident
		var date string
		if err := rows.Scan(&inc.ID, &date, &inc.State, &inc.CityOrCounty, &inc.Address, &inc.Killed, &inc.Injured); err != nil {
			return nil, err
		}
		inc.Date, err = time.Parse(DateLayout, date)
		if err != nil {
			return nil, fmt.Errorf("incident %s: bad date %q: %w", inc.ID, date, err)
		}
		incidents = append(incidents, inc)
	}
	return incidents, rows.Err()
}

func loadShapes(ctx context.Context, db *sql.DB) ([]models.StateShape, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT state_fips, name, stusps, geometry
		FROM state_shape
		ORDER BY state_fips
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	shapes := []models.StateShape{}
	for rows.Next() {
		var s models.StateShape
		var raw string
		if err := rows.Scan(&s.FIPS, &s.Name, &s.StUSPS, &raw); err != nil {
			return nil, err
		}
		g, err := geojson.UnmarshalGeometry([]byte(raw))
		if err != nil {
			return nil, fmt.Errorf("state %s: bad geometry: %w", s.Name, err)
		}
		s.Geometry = g.Geometry()
		shapes = append(shapes, s)
	}
	return shapes, rows.Err()
}

func loadLaws(ctx context.Context, db *sql.DB) ([]models.GunLaw, error) {
	rows, err := db.QueryContext(ctx, `SELECT state, year, lawtotal FROM gun_law ORDER BY state, year`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	laws := []models.GunLaw{}
	for rows.Next() {
		var l models.GunLaw
		if err := rows.Scan(&l.State, &l.Year, &l.LawTotal); err != nil {
			return nil, err
		}
		laws = append(laws, l)
	}
	return laws, rows.Err()
}

func loadCensus(ctx context.Context, db *sql.DB) ([]models.CensusRow, error) {
	rows, err := db.QueryContext(ctx, `SELECT state, population FROM census ORDER BY state`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	census := []models.CensusRow{}
	for rows.Next() {
		var c models.CensusRow
		if err := rows.Scan(&c.State, &c.Population); err != nil {
			return nil, err
		}
		census = append(census, c)
	}
	return census, rows.Err()
}

// Holder hands out the current dataset and lets a reload replace it
type Holder struct {
	mu sync.RWMutex
	ds *Dataset
}

func NewHolder(ds *Dataset) *Holder {
	return &Holder{ds: ds}
}

func (h *Holder) Get() *Dataset {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.ds
}

// Swap installs ds and returns the previous snapshot
func (h *Holder) Swap(ds *Dataset) *Dataset {
	h.mu.Lock()
	defer h.mu.Unlock()
	old := h.ds
	h.ds = ds
	return old
}
