// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package seed

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/paulmach/orb/geojson"

	"github.com/danielhkuo/gva-map/models"
)

var ErrMissingColumn = errors.New("missing required column")

// incidentNamespace derives stable IDs for exports without an incident ID
var incidentNamespace = uuid.MustParse("6f1c1c52-6a3e-4f9e-9a55-3f0e7a9e2b10")

// Date layouts seen in GVA exports and hand-made fixtures
var dateLayouts = []string{"January 2, 2006", "2006-01-02", "1/2/2006"}

// Result reports what a parser kept and skipped
type Result[T any] struct {
	Rows    []T
	Skipped int
}

// ParseIncidentsCSV reads a GVA mass shooting export.
func ParseIncidentsCSV(r io.Reader) (Result[models.Incident], error) {
	var res Result[models.Incident]

	reader, cols, err := openCSV(r)
	if err != nil {
		return res, err
	}
	date, err := cols.require("incident_date", "date")
	if err != nil {
		return res, err
	}
	state, err := cols.require("state")
	if err != nil {
		return res, err
	}
	id := cols.find("incident_id")
	city := cols.find("city_or_county", "city")
	address := cols.find("address")
	killed, err := cols.require("#_killed", "victims_killed", "killed")
	if err != nil {
		return res, err
	}
	injured, err := cols.require("#_injured", "victims_injured", "injured")
	if err != nil {
		return res, err
	}

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			if !isParseError(err) {
				return res, fmt.Errorf("failed to read CSV: %w", err)
			}
			res.Skipped++
			continue
		}

		inc := models.Incident{
			ID:           field(row, id),
			State:        field(row, state),
			CityOrCounty: field(row, city),
			Address:      field(row, address),
		}
		inc.Date, err = parseDate(field(row, date))
		if err != nil || inc.State == "" {
			res.Skipped++
			continue
		}
		if inc.Killed, err = parseCount(field(row, killed)); err != nil {
			res.Skipped++
			continue
		}
		if inc.Injured, err = parseCount(field(row, injured)); err != nil {
			res.Skipped++
			continue
		}
		if inc.ID == "" {
			key := strings.Join([]string{inc.Date.Format("2006-01-02"), inc.State, inc.CityOrCounty, inc.Address}, "|")
			inc.ID = uuid.NewSHA1(incidentNamespace, []byte(key)).String()
		}
		res.Rows = append(res.Rows, inc)
	}
	return res, nil
}

// ParseCensusCSV reads state,population rows.
func ParseCensusCSV(r io.Reader) (Result[models.CensusRow], error) {
	var res Result[models.CensusRow]

	reader, cols, err := openCSV(r)
	if err != nil {
		return res, err
	}
	state, err := cols.require("state", "name")
	if err != nil {
		return res, err
	}
	pop, err := cols.require("population", "total_population")
	if err != nil {
		return res, err
	}

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			if !isParseError(err) {
				return res, fmt.Errorf("failed to read CSV: %w", err)
			}
			res.Skipped++
			continue
		}
		n, err := strconv.ParseInt(stripNumber(field(row, pop)), 10, 64)
		if err != nil || n < 0 || field(row, state) == "" {
			res.Skipped++
			continue
		}
		res.Rows = append(res.Rows, models.CensusRow{State: field(row, state), Population: n})
	}
	return res, nil
}

// ParseGunLawsCSV reads state,year,lawtotal rows. The State Firearm Laws
// database carries one column per law; those are ignored.
func ParseGunLawsCSV(r io.Reader) (Result[models.GunLaw], error) {
	var res Result[models.GunLaw]

	reader, cols, err := openCSV(r)
	if err != nil {
		return res, err
	}
	state, err := cols.require("state")
	if err != nil {
		return res, err
	}
	year, err := cols.require("year")
	if err != nil {
		return res, err
	}
	total, err := cols.require("lawtotal")
	if err != nil {
		return res, err
	}

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			if !isParseError(err) {
				return res, fmt.Errorf("failed to read CSV: %w", err)
			}
			res.Skipped++
			continue
		}
		y, yerr := strconv.Atoi(field(row, year))
		n, nerr := strconv.Atoi(field(row, total))
		if yerr != nil || nerr != nil || field(row, state) == "" {
			res.Skipped++
			continue
		}
		res.Rows = append(res.Rows, models.GunLaw{State: field(row, state), Year: y, LawTotal: n})
	}
	return res, nil
}

// ParseStatesGeoJSON reads a FeatureCollection of state outlines. Both the
// lowercase (name, stusps, state_fips) and Census TIGER (NAME, STUSPS,
// STATEFP) property names are accepted.
func ParseStatesGeoJSON(data []byte) (Result[models.StateShape], error) {
	var res Result[models.StateShape]

	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return res, fmt.Errorf("failed to parse GeoJSON: %w", err)
	}

	for _, f := range fc.Features {
		s := models.StateShape{
			Name:     propString(f.Properties, "name", "NAME"),
			StUSPS:   propString(f.Properties, "stusps", "STUSPS"),
			FIPS:     propString(f.Properties, "state_fips", "STATEFP", "statefp"),
			Geometry: f.Geometry,
		}
		if s.FIPS == "" && f.ID != nil {
			s.FIPS = fmt.Sprint(f.ID)
		}
		if s.Name == "" || s.FIPS == "" || s.Geometry == nil {
			res.Skipped++
			continue
		}
		if len(s.FIPS) == 1 {
			s.FIPS = "0" + s.FIPS
		}
		res.Rows = append(res.Rows, s)
	}
	return res, nil
}

// columns maps normalized header names to their index
type columns map[string]int

func openCSV(r io.Reader) (*csv.Reader, columns, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read CSV headers: %w", err)
	}

	cols := make(columns, len(headers))
	for i, h := range headers {
		key := normalizeHeader(h)
		if _, dup := cols[key]; !dup {
			cols[key] = i
		}
	}
	return reader, cols, nil
}

// isParseError reports a malformed record the reader can skip past
func isParseError(err error) bool {
	var perr *csv.ParseError
	return errors.As(err, &perr)
}

func (c columns) find(names ...string) int {
	for _, n := range names {
		if i, ok := c[n]; ok {
			return i
		}
	}
	return -1
}

func (c columns) require(names ...string) (int, error) {
	if i := c.find(names...); i >= 0 {
		return i, nil
	}
	return -1, fmt.Errorf("%w: %s", ErrMissingColumn, names[0])
}

// normalizeHeader converts "# Killed" to "#_killed"
func normalizeHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	h = strings.ToLower(strings.TrimSpace(h))
	return strings.Join(strings.Fields(h), "_")
}

func field(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// parseCount treats an empty cell as zero
func parseCount(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(stripNumber(s))
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("negative count %d", n)
	}
	return n, nil
}

func stripNumber(s string) string {
	return strings.ReplaceAll(s, ",", "")
}

func propString(props geojson.Properties, keys ...string) string {
	for _, k := range keys {
		v, ok := props[k]
		if !ok || v == nil {
			continue
		}
		switch t := v.(type) {
		case string:
			return strings.TrimSpace(t)
		case float64:
			return strconv.FormatFloat(t, 'f', -1, 64)
		default:
			return fmt.Sprint(t)
		}
	}
	return ""
}
