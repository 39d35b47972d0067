// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package analysis

import (
	"errors"
	"math"
	"sort"
	"time"

	"github.com/danielhkuo/gva-map/models"
)

var (
	ErrNoValues      = errors.New("no values to divide")
	ErrTooFewParts   = errors.New("parts must be at least 2")
	ErrUnknownMetric = errors.New("unknown metric")
)

// DefaultRateScale multiplies count / population-in-thousands so that rates
// land in a readable range.
const DefaultRateScale = 100

// DefaultParts is the number of legend stops on the map
const DefaultParts = 7

// Tables is the read-only input of every computation
type Tables struct {
	Incidents []models.Incident
	Shapes    []models.StateShape
	Laws      []models.GunLaw
	Census    []models.CensusRow
}

// Query selects the incident window and rate scale
type Query struct {
	Start time.Time // inclusive, zero = unbounded
	End   time.Time // exclusive, zero = unbounded
	Scale float64
}

// Summarize runs the full pipeline: filter, group, join, rates.
func Summarize(t Tables, q Query) []models.StateSummary {
	scale := q.Scale
	if scale <= 0 {
		scale = DefaultRateScale
	}

	totals := GroupByState(FilterByDate(t.Incidents, q.Start, q.End))
	rows := Join(totals, t.Census, t.Laws, t.Shapes)
	RatePer1k(rows, scale)
	return rows
}

// FilterByDate keeps incidents with start <= date < end.
func FilterByDate(incidents []models.Incident, start, end time.Time) []models.Incident {
	out := make([]models.Incident, 0, len(incidents))
	for _, inc := range incidents {
		if !start.IsZero() && inc.Date.Before(start) {
			continue
		}
		if !end.IsZero() && !inc.Date.Before(end) {
			continue
		}
		out = append(out, inc)
	}
	return out
}

// GroupByState sums count, injured, killed and injured+killed per state and
// sorts descending by count, then injured, then killed.
func GroupByState(incidents []models.Incident) []models.StateTotals {
	grouped := make(map[string]*models.StateTotals)
	order := make([]string, 0)

	for _, inc := range incidents {
		g, ok := grouped[inc.State]
		if !ok {
			g = &models.StateTotals{State: inc.State}
			grouped[inc.State] = g
			order = append(order, inc.State)
		}
		g.Count++
		g.Injured += inc.Injured
		g.Killed += inc.Killed
		g.TotalInjuredKilled += inc.Injured + inc.Killed
	}

	totals := make([]models.StateTotals, 0, len(order))
	for _, state := range order {
		totals = append(totals, *grouped[state])
	}

	sort.SliceStable(totals, func(i, j int) bool {
		a, b := totals[i], totals[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		if a.Injured != b.Injured {
			return a.Injured > b.Injured
		}
		if a.Killed != b.Killed {
			return a.Killed > b.Killed
		}
		return a.State < b.State
	})
	return totals
}

// Join outer-joins incident totals with census and gun law rows on state,
// then keeps the states that have an outline. Rows come back sorted by state
// name. When a state has several law years the latest one wins.
func Join(totals []models.StateTotals, census []models.CensusRow, laws []models.GunLaw, shapes []models.StateShape) []models.StateSummary {
	byState := make(map[string]*models.StateSummary)
	row := func(state string) *models.StateSummary {
		r, ok := byState[state]
		if !ok {
			r = &models.StateSummary{State: state}
			byState[state] = r
		}
		return r
	}

	for _, t := range totals {
		r := row(t.State)
		r.Count = intPtr(t.Count)
		r.Injured = intPtr(t.Injured)
		r.Killed = intPtr(t.Killed)
		r.TotalInjuredKilled = intPtr(t.TotalInjuredKilled)
	}

	for _, c := range census {
		pop := c.Population
		row(c.State).Population = &pop
	}

	lawYear := make(map[string]int)
	for _, l := range laws {
		if y, ok := lawYear[l.State]; ok && y >= l.Year {
			continue
		}
		lawYear[l.State] = l.Year
		row(l.State).LawTotal = intPtr(l.LawTotal)
	}

	out := make([]models.StateSummary, 0, len(shapes))
	for _, s := range shapes {
		r, ok := byState[s.Name]
		if !ok {
			continue
		}
		joined := *r
		joined.StUSPS = s.StUSPS
		joined.FIPS = s.FIPS
		joined.Geometry = s.Geometry
		out = append(out, joined)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].State < out[j].State })
	return out
}

// RatePer1k fills pop_per_1k and the four rate columns in place:
//
//	pop_per_1k = round(population / 1000)  (halves to even)
//	rate       = round(value / pop_per_1k * scale, 2)
//
// A rate stays nil when its numerator or the population is missing.
func RatePer1k(rows []models.StateSummary, scale float64) {
	for i := range rows {
		r := &rows[i]
		r.PopPer1k, r.CountPer1k, r.InjuredPer1k, r.KilledPer1k, r.TotalPer1k = nil, nil, nil, nil, nil
		if r.Population == nil {
			continue
		}
		popK := math.RoundToEven(float64(*r.Population) / 1000)
		r.PopPer1k = &popK
		if popK == 0 {
			continue
		}
		r.CountPer1k = rate(r.Count, popK, scale)
		r.InjuredPer1k = rate(r.Injured, popK, scale)
		r.KilledPer1k = rate(r.Killed, popK, scale)
		r.TotalPer1k = rate(r.TotalInjuredKilled, popK, scale)
	}
}

func rate(v *int, popK, scale float64) *float64 {
	if v == nil {
		return nil
	}
	out := Round2(float64(*v) / popK * scale)
	return &out
}

// MetricValues returns the present values of a rate column.
func MetricValues(rows []models.StateSummary, metric string) ([]float64, error) {
	values := make([]float64, 0, len(rows))
	for _, r := range rows {
		v, ok := r.Metric(metric)
		if !ok {
			return nil, ErrUnknownMetric
		}
		if v != nil && !math.IsNaN(*v) {
			values = append(values, *v)
		}
	}
	return values, nil
}

// DivideMetric returns parts evenly spaced values from the minimum to the
// maximum of a rate column, rounded to 2 decimals.
func DivideMetric(rows []models.StateSummary, metric string, parts int) ([]float64, error) {
	values, err := MetricValues(rows, metric)
	if err != nil {
		return nil, err
	}
	lo, hi, err := Bounds(values)
	if err != nil {
		return nil, err
	}
	stops, err := Linspace(lo, hi, parts)
	if err != nil {
		return nil, err
	}
	for i := range stops {
		stops[i] = Round2(stops[i])
	}
	return stops, nil
}

// Bounds returns the minimum and maximum of values.
func Bounds(values []float64) (float64, float64, error) {
	if len(values) == 0 {
		return 0, 0, ErrNoValues
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi, nil
}

// Linspace returns n evenly spaced values over [start, stop]. The last value
// is stop exactly.
func Linspace(start, stop float64, n int) ([]float64, error) {
	if n < 2 {
		return nil, ErrTooFewParts
	}
	out := make([]float64, n)
	step := (stop - start) / float64(n-1)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	out[n-1] = stop
	return out, nil
}

// Round2 rounds to 2 decimal places, halves to even.
func Round2(v float64) float64 {
	return math.RoundToEven(v*100) / 100
}

func intPtr(v int) *int { return &v }
