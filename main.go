// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/danielhkuo/gva-map/cliparse"
	"github.com/danielhkuo/gva-map/db"
	"github.com/danielhkuo/gva-map/middleware"
	"github.com/danielhkuo/gva-map/router"
	"github.com/danielhkuo/gva-map/seed"
	"github.com/danielhkuo/gva-map/store"
)

func main() {
	var err error

	if err := cliparse.LoadDotEnv(".env"); err != nil {
		slog.Error("Error loading .env", "error", err)
		os.Exit(1)
	}

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	// Connect and verify
	dbConn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer dbConn.Close()

	// Create schema (tables)
	if err := db.CreateSchema(dbConn); err != nil {
		slog.Error("schema creation failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database schema ready", "type", cfg.DatabaseType)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Seed an empty database from the data directory
	if _, err := seed.NewSeeder(dbConn, cfg.DatabaseType).SeedFromDir(ctx, cfg.DataDir); err != nil {
		slog.Error("seeding failed", "dir", cfg.DataDir, "error", err)
		os.Exit(1)
	}

	ds, err := store.Load(ctx, dbConn)
	if err != nil {
		slog.Error("dataset load failed", "error", err)
		os.Exit(1)
	}
	if first, last, ok := ds.DateRange(); ok {
		slog.Info("Dataset loaded",
			"incidents", len(ds.Incidents),
			"states", len(ds.Shapes),
			"first", first.Format(store.DateLayout),
			"last", last.Format(store.DateLayout),
		)
	} else {
		slog.Warn("Dataset has no incidents", "states", len(ds.Shapes))
	}

	// Create router
	mux := router.NewRouter(dbConn, cfg, store.NewHolder(ds))

	// Create server
	server := http.Server{
		Handler:           chimw.Recoverer(chimw.Compress(5)(middleware.CORS(mux))),
		Addr:              ":" + strconv.Itoa(cfg.Port),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		// Wait for Ctrl-C signal
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}
