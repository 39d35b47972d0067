// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package store loads the incident, census, gun law and state outline tables
// into an in-memory snapshot.
//
// A Dataset is never modified after Load returns. Handlers read the current
// snapshot through a Holder; an admin reload builds a new Dataset and swaps
// it in, so in-flight requests keep computing against the one they started
// with.
package store
