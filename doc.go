// Copyright (c) 2026 Yekumot.
// MIT License; see LICENSE.

/*
Package main provides the entry point for the Yekumot API server.

Yekumot is the backend for a fan-wiki around an online video series: users
browse video chapters, pin timestamped references to moments in a video,
cross-link references to wiki entries, verify each other's references, and
earn points for contributions.

# Starting the Server

The server reads configuration from environment variables (a .env file is
loaded if present) or CLI flags:

	DATABASE_URL=postgres://... ADMIN_KEY_SALT=... go run main.go

Or with flags:

	go run main.go -p 3856 -d yekumot.db -t sqlite --admin-salt secret

# Configuration

Required settings:

  - DATABASE_URL (-d): connection string, or a file path for sqlite
  - ADMIN_KEY_SALT (--admin-salt): secret for the site admin key HMAC

Optional settings:

  - PORT (-p): server port (default: 3856)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (accounts, chapters, references,
    verifications, links, entities)
  - router: route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - models: request/response types, entity kinds, point tariffs
  - auth: tokens, password hashing, admin key
  - db: schema creation and driver selection
  - cliparse: configuration parsing

See package documentation for each component.
*/
package main
