// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danielhkuo/gva-map/models"
	"github.com/danielhkuo/gva-map/store"
	"github.com/danielhkuo/gva-map/testutil"
)

func setupDashboard(t *testing.T) *DashboardHandler {
	t.Helper()
	conn := testutil.SetupTestDB(t)
	testutil.SeedFixtures(t, conn)
	return NewDashboardHandler(testutil.GetTestConfig(), testutil.LoadTestHolder(t, conn))
}

func featureByState(t *testing.T, resp *models.MapResponse, state string) map[string]interface{} {
	t.Helper()
	for _, f := range resp.Features.Features {
		if f.Properties["state"] == state {
			return f.Properties
		}
	}
	t.Fatalf("No feature for state %s", state)
	return nil
}

func TestGetMap(t *testing.T) {
	handler := setupDashboard(t)

	tests := []struct {
		name           string
		query          string
		expectedStatus int
		checkResponse  func(t *testing.T, resp *models.MapResponse)
	}{
		{
			name:           "defaults to full range and shooting count",
			query:          "",
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, resp *models.MapResponse) {
				if resp.Metric != models.MetricCount {
					t.Errorf("Expected metric %s, got %s", models.MetricCount, resp.Metric)
				}
				if resp.Title != "Shooting per 1k" {
					t.Errorf("Expected title 'Shooting per 1k', got '%s'", resp.Title)
				}
				if resp.Start != "2019-10-01" || resp.End != "2022-12-31" {
					t.Errorf("Expected range 2019-10-01..2022-12-31, got %s..%s", resp.Start, resp.End)
				}
				if len(resp.Features.Features) != 3 {
					t.Errorf("Expected 3 features, got %d", len(resp.Features.Features))
				}
				if len(resp.Legend.Entries) != 7 {
					t.Errorf("Expected 7 legend entries, got %d", len(resp.Legend.Entries))
				}

				il := featureByState(t, resp, "Illinois")
				if il["count_per_1k"] != 0.02 {
					t.Errorf("Expected Illinois count_per_1k 0.02, got %v", il["count_per_1k"])
				}
				if il["fill_opacity"] != 0.8 {
					t.Errorf("Expected fill opacity 0.8, got %v", il["fill_opacity"])
				}

				vt := featureByState(t, resp, "Vermont")
				if vt["fill_color"] != "grey" || vt["fill_opacity"] != 0.5 {
					t.Errorf("Expected Vermont to render grey at 0.5, got %v %v", vt["fill_color"], vt["fill_opacity"])
				}
				if vt["count_per_1k"] != nil {
					t.Errorf("Expected null count_per_1k for Vermont, got %v", vt["count_per_1k"])
				}
			},
		},
		{
			name:           "start date drops earlier incidents",
			query:          "?metric=injured_per_1k&start=2021-01-01",
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, resp *models.MapResponse) {
				il := featureByState(t, resp, "Illinois")
				if il["injured_per_1k"] != nil {
					t.Errorf("Expected no Illinois incidents after 2021, got %v", il["injured_per_1k"])
				}
				if il["fill_color"] != "grey" {
					t.Errorf("Expected Illinois to render grey, got %v", il["fill_color"])
				}
				tx := featureByState(t, resp, "Texas")
				if tx["injured"] != float64(9) {
					t.Errorf("Expected Texas injured 9, got %v", tx["injured"])
				}
			},
		},
		{
			name:           "end date is inclusive",
			query:          "?start=2022-12-31&end=2022-12-31",
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, resp *models.MapResponse) {
				tx := featureByState(t, resp, "Texas")
				if tx["count"] != float64(1) {
					t.Errorf("Expected Texas count 1 on 2022-12-31, got %v", tx["count"])
				}
			},
		},
		{
			name:           "labels",
			query:          "?metric=killed_per_1k",
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, resp *models.MapResponse) {
				tx := featureByState(t, resp, "Texas")
				if tx["hover_label"] != "State: TX, Population per 1k: 29,100, Mass Shooting per 1k: 0.01" {
					t.Errorf("Unexpected hover label: %v", tx["hover_label"])
				}
				want := "State: Texas, Population: 29,100,000, Gun Laws: 20, Injured per 1k: 0.03, Killed per 1k: 0.02"
				if tx["click_label"] != want {
					t.Errorf("Expected click label %q, got %v", want, tx["click_label"])
				}
			},
		},
		{
			name:           "unknown metric",
			query:          "?metric=bogus",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "bad date",
			query:          "?start=10/01/2019",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "start after end",
			query:          "?start=2022-01-01&end=2021-01-01",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "start after last incident",
			query:          "?start=2023-06-01",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "end before first incident",
			query:          "?end=2019-01-01",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/map"+tt.query, nil)
			w := httptest.NewRecorder()

			handler.GetMap(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)
			if tt.checkResponse != nil && w.Code == http.StatusOK {
				var resp models.MapResponse
				testutil.AssertJSON(t, w, &resp)
				tt.checkResponse(t, &resp)
			}
		})
	}
}

func TestGetStates(t *testing.T) {
	handler := setupDashboard(t)

	req := httptest.NewRequest("GET", "/api/states?end=2020-12-31", nil)
	w := httptest.NewRecorder()
	handler.GetStates(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.StatesResponse
	testutil.AssertJSON(t, w, &resp)

	if resp.End != "2020-12-31" {
		t.Errorf("Expected end 2020-12-31, got %s", resp.End)
	}
	if len(resp.States) != 3 {
		t.Fatalf("Expected 3 states, got %d", len(resp.States))
	}

	names := []string{resp.States[0].State, resp.States[1].State, resp.States[2].State}
	if strings.Join(names, ",") != "Illinois,Texas,Vermont" {
		t.Errorf("Expected states sorted by name, got %v", names)
	}

	il := resp.States[0]
	if il.Count == nil || *il.Count != 2 {
		t.Errorf("Expected Illinois count 2, got %v", il.Count)
	}
	if il.TotalInjuredKilled == nil || *il.TotalInjuredKilled != 10 {
		t.Errorf("Expected Illinois total 10, got %v", il.TotalInjuredKilled)
	}
	if resp.States[1].Count != nil {
		t.Errorf("Expected no Texas incidents before 2021, got %d", *resp.States[1].Count)
	}
	if resp.States[2].LawTotal == nil || *resp.States[2].LawTotal != 31 {
		t.Errorf("Expected Vermont lawtotal 31, got %v", resp.States[2].LawTotal)
	}
}

func TestGetLegend(t *testing.T) {
	handler := setupDashboard(t)

	t.Run("spans min to max", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/legend?metric=killed_per_1k", nil)
		w := httptest.NewRecorder()
		handler.GetLegend(w, req)

		testutil.AssertStatus(t, w, http.StatusOK)

		var legend models.Legend
		testutil.AssertJSON(t, w, &legend)

		if legend.Title != "Killed per 1k" {
			t.Errorf("Expected title 'Killed per 1k', got '%s'", legend.Title)
		}
		if legend.Position != "bottomright" {
			t.Errorf("Expected position bottomright, got %s", legend.Position)
		}
		if len(legend.Entries) != 7 {
			t.Fatalf("Expected 7 entries, got %d", len(legend.Entries))
		}
		if legend.Entries[0].Value != 0.01 || legend.Entries[6].Value != 0.02 {
			t.Errorf("Expected legend 0.01..0.02, got %v..%v", legend.Entries[0].Value, legend.Entries[6].Value)
		}
		if legend.Entries[0].Color != "#fee5d9" || legend.Entries[6].Color != "#99000d" {
			t.Errorf("Expected Reds endpoints, got %s..%s", legend.Entries[0].Color, legend.Entries[6].Color)
		}
	})

	t.Run("empty range yields no entries", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/legend?start=2018-01-01&end=2018-12-31", nil)
		w := httptest.NewRecorder()
		handler.GetLegend(w, req)

		testutil.AssertStatus(t, w, http.StatusOK)

		var legend models.Legend
		testutil.AssertJSON(t, w, &legend)
		if len(legend.Entries) != 0 {
			t.Errorf("Expected no entries, got %d", len(legend.Entries))
		}
	})
}

func TestGetChart(t *testing.T) {
	handler := setupDashboard(t)

	tests := []struct {
		name           string
		metric         string
		query          string
		expectedStatus int
	}{
		{"count chart", models.MetricCount, "", http.StatusOK},
		{"total chart with top", models.MetricTotal, "?top=1", http.StatusOK},
		{"unknown metric", "bogus", "", http.StatusBadRequest},
		{"bad top", models.MetricCount, "?top=zero", http.StatusBadRequest},
		{"no values in range", models.MetricCount, "?start=2018-01-01&end=2018-12-31", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/charts/"+tt.metric+tt.query, nil)
			req.SetPathValue("metric", tt.metric)
			w := httptest.NewRecorder()

			handler.GetChart(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)
			if tt.expectedStatus == http.StatusOK {
				if ct := w.Header().Get("Content-Type"); ct != "image/png" {
					t.Errorf("Expected Content-Type image/png, got %s", ct)
				}
				if !bytes.HasPrefix(w.Body.Bytes(), []byte("\x89PNG")) {
					t.Error("Expected PNG body")
				}
			}
		})
	}
}

func TestIndex(t *testing.T) {
	handler := setupDashboard(t)

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()
	handler.Index(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Expected HTML content type, got %s", ct)
	}
	body := w.Body.String()
	for _, want := range []string{
		"Mass Shootings in the US",
		"Change Date",
		`value="count_per_1k" checked`,
		"Injured per 1k",
		`min="2019-10-01"`,
		`max="2022-12-31"`,
		"gunviolencearchive.org",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("Expected page to contain %q", want)
		}
	}

	t.Run("hover and click update the label", func(t *testing.T) {
		for _, want := range []string{
			"label.textContent = f.properties.hover_label",
			"label.textContent = f.properties.click_label",
		} {
			if !strings.Contains(body, want) {
				t.Errorf("Expected page script to contain %q", want)
			}
		}
	})

	t.Run("unknown path", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.Index(w, httptest.NewRequest("GET", "/nope", nil))
		testutil.AssertStatus(t, w, http.StatusNotFound)
	})
}

func TestDashboard_NoDataset(t *testing.T) {
	handler := NewDashboardHandler(testutil.GetTestConfig(), store.NewHolder(nil))

	w := httptest.NewRecorder()
	handler.GetMap(w, httptest.NewRequest("GET", "/api/map", nil))
	testutil.AssertStatus(t, w, http.StatusServiceUnavailable)

	// the page still renders, without date bounds
	w = httptest.NewRecorder()
	handler.Index(w, httptest.NewRequest("GET", "/", nil))
	testutil.AssertStatus(t, w, http.StatusOK)
}
