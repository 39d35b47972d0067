// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Command gva downloads the Gun Violence Archive mass shooting export and
// loads it, with census, gun law and state outline files, into the database
// the map server reads.
package main

import (
	"database/sql"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/danielhkuo/gva-map/cliparse"
	"github.com/danielhkuo/gva-map/db"
)

type rootOptions struct {
	databaseURL  string
	databaseType string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "gva",
		Short:         "Fetch and load mass shooting data for the map server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&opts.databaseURL, "db", "d", envOr("DATABASE_URL", cliparse.DefaultDatabaseURL), "Database URL")
	root.PersistentFlags().StringVarP(&opts.databaseType, "db-type", "t", envOr("DATABASE_TYPE", db.TypeSQLite), "Database type (sqlite or postgres)")

	root.AddCommand(
		newDownloadCmd(opts),
		newImportCmd(opts),
		newSeedCmd(opts),
		newAdminKeyCmd(),
	)
	return root
}

// open connects and makes sure the schema exists
func (o *rootOptions) open() (*sql.DB, error) {
	conn, err := db.Open(o.databaseType, o.databaseURL)
	if err != nil {
		return nil, err
	}
	if err := db.CreateSchema(conn); err != nil {
		conn.Close()
		return nil, err
	}
	return conn, nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func main() {
	if err := cliparse.LoadDotEnv(".env"); err != nil {
		slog.Error("Error loading .env", "error", err)
		os.Exit(1)
	}

	if err := newRootCmd().Execute(); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}
