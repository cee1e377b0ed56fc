// Copyright (c) 2026 Yekumot.
// MIT License; see LICENSE.

/*
Package db handles driver selection, schema creation, and error
classification.

# Opening

	conn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)

Supported database types are "postgres" (lib/pq) and "sqlite"
(modernc.org/sqlite). The DDL works against both.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - account, session, profile: identity and point balances
  - chapter: video chapters
  - reference: timestamped references with cached verification state
  - verification: one row per (reference, account)
  - reference_link: directed reference-to-reference edges
  - reference_connection: typed reference-to-entity associations
  - wiki_entity: the five structurally identical content kinds
  - point_award: idempotency ledger for point credits

The uniqueness rules the application depends on live here as UNIQUE
constraints: (reference, account) verifications, (source, target) links,
(kind, entity, reference) connections, (kind, title) entities, and
(account, action, subject) awards.

# Error Classification

	if db.IsUniqueViolation(err) { ... }

Detects duplicate-key failures from either driver so handlers can surface
them as conflicts.
*/
package db
