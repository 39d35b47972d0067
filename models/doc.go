// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines the domain and response types shared across packages.

# Domain Types

Rows of the four source tables:

  - Incident: one mass shooting (date, state, killed, injured)
  - StateShape: a state outline with FIPS code and postal abbreviation
  - GunLaw: number of firearm laws in a state for a year
  - CensusRow: state population

StateTotals is the per-state aggregate of incidents. StateSummary is a state
after joining totals, census, gun laws and its outline, with the per-1k rates
filled in. Values absent from a join are nil pointers and encode as null.

# Metrics

The rate columns are addressed by key: count_per_1k, injured_per_1k,
killed_per_1k and total_per_1k. StateSummary.Metric looks one up by key.

# Response Types

  - MapResponse: GeoJSON features with fill style and labels, legend, view
  - StatesResponse: joined rows for a date range
  - ReloadResponse: counts after an admin reload
  - ErrorResponse: error, message
*/
package models
