// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseURL: SQLite file or PostgreSQL connection string (default: file:gva.db)
  - DatabaseType: sqlite or postgres (default: sqlite)
  - DataDir: Directory holding the seed files (default: data)
  - AdminKeySalt: Secret for admin key HMAC (required)
  - RateScale: Multiplier applied to per-1k rates (default: 100)

# CLI Flags

	-p            Server port
	-d            Database URL
	-t            Database type
	--data        Seed data directory
	--rate-scale  Rate multiplier
	--admin-salt  Admin key salt

# Environment Variables

Flags fall back to environment variables:

	PORT           → -p
	DATABASE_URL   → -d
	DATABASE_TYPE  → -t
	DATA_DIR       → --data
	RATE_SCALE     → --rate-scale
	ADMIN_KEY_SALT → --admin-salt

CLI flags take precedence over environment variables. LoadDotEnv reads a
.env file first; variables already present in the environment are kept.

# Validation

ParseFlags returns an error if ADMIN_KEY_SALT is missing, the port or rate
scale is out of range, or the database type is unknown.
*/
package cliparse
