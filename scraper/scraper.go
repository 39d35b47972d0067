// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package scraper

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

const (
	DefaultURL = "https://www.gunviolencearchive.org/mass-shooting"

	// ExportXPath is the "Export as CSV" tab on the report page
	ExportXPath = `//*[@id="content"]/div/div/div/div[1]/ul/li[2]/a`
	// DownloadXPath is the link shown once the export has been generated
	DownloadXPath = `//*[@id="block-system-main"]/div/a[1]`

	// FallbackFilename is used when the site does not suggest a name
	FallbackFilename = "mass_shootings.csv"
)

// ErrNoDownload is returned when the browser reports no finished download
var ErrNoDownload = errors.New("download did not complete")

// Config controls a single export run
type Config struct {
	URL             string
	DownloadDir     string
	Headless        bool
	WaitTimeout     time.Duration
	DownloadTimeout time.Duration
}

// DefaultConfig returns the settings used by the CLI
func DefaultConfig() Config {
	return Config{
		URL:             DefaultURL,
		DownloadDir:     "data",
		Headless:        true,
		WaitTimeout:     10 * time.Second,
		DownloadTimeout: 2 * time.Minute,
	}
}

// Downloader drives a headless Chrome through the GVA export flow
type Downloader struct {
	cfg Config
}

func NewDownloader(cfg Config) *Downloader {
	def := DefaultConfig()
	if cfg.URL == "" {
		cfg.URL = def.URL
	}
	if cfg.DownloadDir == "" {
		cfg.DownloadDir = def.DownloadDir
	}
	if cfg.WaitTimeout <= 0 {
		cfg.WaitTimeout = def.WaitTimeout
	}
	if cfg.DownloadTimeout <= 0 {
		cfg.DownloadTimeout = def.DownloadTimeout
	}
	return &Downloader{cfg: cfg}
}

// Download opens the report page, requests the CSV export and waits for the
// file. It returns the path of the downloaded file.
func (d *Downloader) Download(ctx context.Context) (string, error) {
	dir, err := filepath.Abs(d.cfg.DownloadDir)
	if err != nil {
		return "", fmt.Errorf("resolve download dir: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create download dir: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, d.cfg.DownloadTimeout)
	defer cancel()

	l := launcher.New().Headless(d.cfg.Headless)
	controlURL, err := l.Launch()
	if err != nil {
		return "", fmt.Errorf("launch browser: %w", err)
	}
	defer l.Cleanup()

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return "", fmt.Errorf("connect to browser: %w", err)
	}
	defer browser.Close()

	slog.Info("opening report page", "url", d.cfg.URL)
	page, err := browser.Page(proto.TargetCreateTarget{URL: d.cfg.URL})
	if err != nil {
		return "", fmt.Errorf("open %s: %w", d.cfg.URL, err)
	}
	if err := page.WaitLoad(); err != nil {
		return "", fmt.Errorf("wait for page load: %w", err)
	}

	if err := d.click(page, ExportXPath); err != nil {
		return "", fmt.Errorf("export button: %w", err)
	}
	slog.Info("export requested, waiting for download link")

	wait := browser.WaitDownload(dir)
	if err := d.click(page, DownloadXPath); err != nil {
		return "", fmt.Errorf("download link: %w", err)
	}

	path, err := finishDownload(ctx, dir, wait())
	if err != nil {
		return "", err
	}
	slog.Info("download complete", "path", path)
	return path, nil
}

// finishDownload moves a completed download into place. The download waiter
// also returns when ctx ends, possibly after the download began, so a
// cancelled ctx means the GUID file is partial and gets removed.
func finishDownload(ctx context.Context, dir string, info *proto.PageDownloadWillBegin) (string, error) {
	if err := ctx.Err(); err != nil {
		if info != nil && info.GUID != "" {
			partial := filepath.Join(dir, filepath.Base(info.GUID))
			if rmErr := os.Remove(partial); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
				slog.Warn("failed to remove partial download", "path", partial, "error", rmErr)
			}
		}
		return "", fmt.Errorf("wait for download: %w", err)
	}
	if info == nil {
		return "", ErrNoDownload
	}

	path, err := moveDownload(dir, info.GUID, info.SuggestedFilename)
	if err != nil {
		return "", fmt.Errorf("save download: %w", err)
	}
	return path, nil
}

// click waits for the element at xpath to become visible, then clicks it
func (d *Downloader) click(page *rod.Page, xpath string) error {
	el, err := page.Timeout(d.cfg.WaitTimeout).ElementX(xpath)
	if err != nil {
		return err
	}
	el = el.CancelTimeout().Timeout(d.cfg.WaitTimeout)
	if err := el.WaitVisible(); err != nil {
		return err
	}
	return el.Click(proto.InputMouseButtonLeft, 1)
}

// moveDownload renames the GUID-named file Chrome writes into its suggested
// name. An existing file with that name is replaced.
func moveDownload(dir, guid, suggested string) (string, error) {
	if guid == "" {
		return "", ErrNoDownload
	}
	name := filepath.Base(strings.TrimSpace(suggested))
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = FallbackFilename
	}

	src := filepath.Join(dir, guid)
	if _, err := os.Stat(src); err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoDownload, err)
	}
	dst := filepath.Join(dir, name)
	if err := os.Rename(src, dst); err != nil {
		return "", err
	}
	return dst, nil
}
