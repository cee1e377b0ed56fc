// Copyright (c) 2026 Yekumot.
// MIT License; see LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: server listen port (default: 3856)
  - DatabaseURL: connection string or sqlite path (required)
  - DatabaseType: "sqlite" or "postgres" (default: sqlite)
  - AdminKeySalt: secret for the site admin key HMAC (required)

# Environment Variables

Flags fall back to environment variables:

	PORT           → -p
	DATABASE_URL   → -d
	DATABASE_TYPE  → -t
	ADMIN_KEY_SALT → --admin-salt

CLI flags take precedence over environment variables.
*/
package cliparse
