// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package seed

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/paulmach/orb/geojson"
	"golang.org/x/sync/errgroup"

	"github.com/danielhkuo/gva-map/db"
	"github.com/danielhkuo/gva-map/models"
)

// File names looked up in the data directory
const (
	IncidentsFile = "mass_shootings.csv"
	CensusFile    = "census.csv"
	GunLawsFile   = "gun_laws.csv"
	StatesFile    = "states.geojson"
)

// Summary counts rows written per table
type Summary struct {
	Skipped   bool `json:"skipped"`
	Incidents int  `json:"incidents"`
	Shapes    int  `json:"shapes"`
	Laws      int  `json:"laws"`
	Census    int  `json:"census"`
	BadRows   int  `json:"bad_rows"`
}

// Seeder writes parsed datasets to the database
type Seeder struct {
	conn   *sql.DB
	dbType string
}

func NewSeeder(conn *sql.DB, dbType string) *Seeder {
	return &Seeder{conn: conn, dbType: dbType}
}

// SeedFromDir loads the four dataset files from dir when the incident table
// is empty. Missing files are skipped with a warning.
func (s *Seeder) SeedFromDir(ctx context.Context, dir string) (Summary, error) {
	var count int
	if err := s.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM incident").Scan(&count); err != nil {
		return Summary{}, fmt.Errorf("failed to check incident table: %w", err)
	}
	if count > 0 {
		slog.Info("incident table not empty, skipping seeding", "rows", count)
		return Summary{Skipped: true}, nil
	}

	var (
		incidents Result[models.Incident]
		census    Result[models.CensusRow]
		laws      Result[models.GunLaw]
		shapes    Result[models.StateShape]
	)

	var g errgroup.Group
	g.Go(func() (err error) {
		incidents, err = parseFile(filepath.Join(dir, IncidentsFile), ParseIncidentsCSV)
		return err
	})
	g.Go(func() (err error) {
		census, err = parseFile(filepath.Join(dir, CensusFile), ParseCensusCSV)
		return err
	})
	g.Go(func() (err error) {
		laws, err = parseFile(filepath.Join(dir, GunLawsFile), ParseGunLawsCSV)
		return err
	})
	g.Go(func() (err error) {
		shapes, err = parseFile(filepath.Join(dir, StatesFile), func(r io.Reader) (Result[models.StateShape], error) {
			data, err := io.ReadAll(r)
			if err != nil {
				return Result[models.StateShape]{}, err
			}
			return ParseStatesGeoJSON(data)
		})
		return err
	})
	if err := g.Wait(); err != nil {
		return Summary{}, err
	}

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.insertIncidents(ctx, tx, incidents.Rows); err != nil {
		return Summary{}, err
	}
	if err := s.insertShapes(ctx, tx, shapes.Rows); err != nil {
		return Summary{}, err
	}
	if err := s.insertLaws(ctx, tx, laws.Rows); err != nil {
		return Summary{}, err
	}
	if err := s.insertCensus(ctx, tx, census.Rows); err != nil {
		return Summary{}, err
	}
	if err := tx.Commit(); err != nil {
		return Summary{}, fmt.Errorf("failed to commit seed: %w", err)
	}

	sum := Summary{
		Incidents: len(incidents.Rows),
		Shapes:    len(shapes.Rows),
		Laws:      len(laws.Rows),
		Census:    len(census.Rows),
		BadRows:   incidents.Skipped + census.Skipped + laws.Skipped + shapes.Skipped,
	}
	slog.Info("database seeded",
		"dir", dir,
		"incidents", sum.Incidents,
		"shapes", sum.Shapes,
		"laws", sum.Laws,
		"census", sum.Census,
		"bad_rows", sum.BadRows,
	)
	return sum, nil
}

// ImportIncidents upserts the rows of a GVA export and returns how many were
// written.
func (s *Seeder) ImportIncidents(ctx context.Context, r io.Reader) (int, error) {
	res, err := ParseIncidentsCSV(r)
	if err != nil {
		return 0, err
	}
	if res.Skipped > 0 {
		slog.Warn("skipped malformed incident rows", "count", res.Skipped)
	}

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.insertIncidents(ctx, tx, res.Rows); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit import: %w", err)
	}
	return len(res.Rows), nil
}

// ImportIncidentsFile is ImportIncidents for a file on disk
func (s *Seeder) ImportIncidentsFile(ctx context.Context, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return s.ImportIncidents(ctx, f)
}

func parseFile[T any](path string, parse func(io.Reader) (Result[T], error)) (Result[T], error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Warn("seed file not found, skipping", "path", path)
		return Result[T]{}, nil
	}
	if err != nil {
		return Result[T]{}, err
	}
	defer f.Close()

	res, err := parse(f)
	if err != nil {
		return res, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return res, nil
}

func (s *Seeder) insertIncidents(ctx context.Context, tx *sql.Tx, rows []models.Incident) error {
	stmt, err := tx.PrepareContext(ctx, db.Rebind(s.dbType, `
		INSERT INTO incident (id, incident_date, state, city_or_county, address, killed, injured)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			incident_date = excluded.incident_date,
			state = excluded.state,
			city_or_county = excluded.city_or_county,
			address = excluded.address,
			killed = excluded.killed,
			injured = excluded.injured
	`))
	if err != nil {
		return fmt.Errorf("failed to prepare incident insert: %w", err)
	}
	defer stmt.Close()

	for _, inc := range rows {
		_, err := stmt.ExecContext(ctx, inc.ID, inc.Date.Format("2006-01-02"), inc.State,
			inc.CityOrCounty, inc.Address, inc.Killed, inc.Injured)
		if err != nil {
			return fmt.Errorf("failed to insert incident %s: %w", inc.ID, err)
		}
	}
	return nil
}

func (s *Seeder) insertShapes(ctx context.Context, tx *sql.Tx, rows []models.StateShape) error {
	stmt, err := tx.PrepareContext(ctx, db.Rebind(s.dbType, `
		INSERT INTO state_shape (state_fips, name, stusps, geometry)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (state_fips) DO NOTHING
	`))
	if err != nil {
		return fmt.Errorf("failed to prepare shape insert: %w", err)
	}
	defer stmt.Close()

	for _, sh := range rows {
		geom, err := geojson.NewGeometry(sh.Geometry).MarshalJSON()
		if err != nil {
			return fmt.Errorf("failed to encode geometry for %s: %w", sh.Name, err)
		}
		if _, err := stmt.ExecContext(ctx, sh.FIPS, sh.Name, sh.StUSPS, string(geom)); err != nil {
			return fmt.Errorf("failed to insert shape %s: %w", sh.Name, err)
		}
	}
	return nil
}

func (s *Seeder) insertLaws(ctx context.Context, tx *sql.Tx, rows []models.GunLaw) error {
	stmt, err := tx.PrepareContext(ctx, db.Rebind(s.dbType, `
		INSERT INTO gun_law (state, year, lawtotal)
		VALUES (?, ?, ?)
		ON CONFLICT (state, year) DO NOTHING
	`))
	if err != nil {
		return fmt.Errorf("failed to prepare gun law insert: %w", err)
	}
	defer stmt.Close()

	for _, l := range rows {
		if _, err := stmt.ExecContext(ctx, l.State, l.Year, l.LawTotal); err != nil {
			return fmt.Errorf("failed to insert gun law %s/%d: %w", l.State, l.Year, err)
		}
	}
	return nil
}

func (s *Seeder) insertCensus(ctx context.Context, tx *sql.Tx, rows []models.CensusRow) error {
	stmt, err := tx.PrepareContext(ctx, db.Rebind(s.dbType, `
		INSERT INTO census (state, population)
		VALUES (?, ?)
		ON CONFLICT (state) DO NOTHING
	`))
	if err != nil {
		return fmt.Errorf("failed to prepare census insert: %w", err)
	}
	defer stmt.Close()

	for _, c := range rows {
		if _, err := stmt.ExecContext(ctx, c.State, c.Population); err != nil {
			return fmt.Errorf("failed to insert census %s: %w", c.State, err)
		}
	}
	return nil
}
