// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package scraper downloads the mass shooting CSV export from the Gun
// Violence Archive with a headless browser.
//
// The site only offers the export behind two clicks: the export tab on the
// report page, then a download link on the generated export page. Each step
// waits up to Config.WaitTimeout for its element; the whole run is bounded by
// Config.DownloadTimeout.
package scraper
