// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/danielhkuo/gva-map/auth"
	"github.com/danielhkuo/gva-map/cliparse"
	"github.com/danielhkuo/gva-map/seed"
)

func newImportCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.csv>...",
		Short: "Upsert GVA CSV exports into the incident table",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := root.open()
			if err != nil {
				return err
			}
			defer conn.Close()

			s := seed.NewSeeder(conn, root.databaseType)
			total := 0
			for _, path := range args {
				n, err := s.ImportIncidentsFile(cmd.Context(), path)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				slog.Info("incidents imported", "path", path, "rows", n)
				total += n
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d incidents\n", total)
			return nil
		},
	}
}

func newSeedCmd(root *rootOptions) *cobra.Command {
	dir := envOr("DATA_DIR", cliparse.DefaultDataDir)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the data directory into an empty database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := root.open()
			if err != nil {
				return err
			}
			defer conn.Close()

			sum, err := seed.NewSeeder(conn, root.databaseType).SeedFromDir(cmd.Context(), dir)
			if err != nil {
				return err
			}
			if sum.Skipped {
				fmt.Fprintln(cmd.OutOrStdout(), "database already has incidents, nothing seeded")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d incidents, %d states, %d gun law rows, %d census rows (%d bad rows skipped)\n",
				sum.Incidents, sum.Shapes, sum.Laws, sum.Census, sum.BadRows)
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "data", dir, "Directory with the seed files")
	return cmd
}

func newAdminKeyCmd() *cobra.Command {
	salt := envOr("ADMIN_KEY_SALT", "")

	cmd := &cobra.Command{
		Use:       "admin-key <scope>",
		Short:     "Print the X-Admin-Key for a scope (reload or import)",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{auth.ScopeReload, auth.ScopeImport},
		RunE: func(cmd *cobra.Command, args []string) error {
			scope := args[0]
			if scope != auth.ScopeReload && scope != auth.ScopeImport {
				return fmt.Errorf("unknown scope %q (use %s or %s)", scope, auth.ScopeReload, auth.ScopeImport)
			}
			if salt == "" {
				return fmt.Errorf("ADMIN_KEY_SALT required")
			}
			fmt.Fprintln(cmd.OutOrStdout(), auth.GenerateAdminKey(scope, salt))
			return nil
		},
	}
	cmd.Flags().StringVar(&salt, "admin-salt", salt, "Admin key salt (prefer env)")
	return cmd
}
