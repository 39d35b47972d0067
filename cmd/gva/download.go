// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/danielhkuo/gva-map/scraper"
	"github.com/danielhkuo/gva-map/seed"
)

func newDownloadCmd(root *rootOptions) *cobra.Command {
	cfg := scraper.DefaultConfig()
	var importAfter bool

	cmd := &cobra.Command{
		Use:   "download",
		Short: "Download the mass shooting CSV export with a headless browser",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := scraper.NewDownloader(cfg).Download(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)

			if !importAfter {
				return nil
			}
			conn, err := root.open()
			if err != nil {
				return err
			}
			defer conn.Close()

			n, err := seed.NewSeeder(conn, root.databaseType).ImportIncidentsFile(cmd.Context(), path)
			if err != nil {
				return err
			}
			slog.Info("incidents imported", "path", path, "rows", n)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&cfg.URL, "url", cfg.URL, "Report page to export")
	f.StringVar(&cfg.DownloadDir, "dir", cfg.DownloadDir, "Directory to save the export in")
	f.BoolVar(&cfg.Headless, "headless", cfg.Headless, "Run the browser without a window")
	f.DurationVar(&cfg.WaitTimeout, "wait", cfg.WaitTimeout, "How long to wait for each button")
	f.DurationVar(&cfg.DownloadTimeout, "timeout", cfg.DownloadTimeout, "Limit for the whole run")
	f.BoolVar(&importAfter, "import", false, "Import the downloaded file into the database")
	return cmd
}
