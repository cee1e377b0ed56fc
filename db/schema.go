// Copyright (c) 2026 Yekumot.
// MIT License; see LICENSE.

package db

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Open connects to the configured database. databaseType is "postgres" or
// "sqlite"; the DDL in this package works against both.
func Open(databaseType, databaseURL string) (*sql.DB, error) {
	driver := "postgres"
	if databaseType == "sqlite" {
		driver = "sqlite"
	}
	conn, err := sql.Open(driver, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", databaseType, err)
	}
	if databaseType == "sqlite" {
		// A single connection keeps every statement on the same in-memory
		// or file handle and avoids SQLITE_BUSY under test concurrency.
		conn.SetMaxOpenConns(1)
	}
	return conn, nil
}

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const schema = `
-- Accounts and sessions
CREATE TABLE IF NOT EXISTS account (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS session (
    token_hash TEXT PRIMARY KEY,
    account_id TEXT NOT NULL REFERENCES account(id) ON DELETE CASCADE,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    expires_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_session_account ON session(account_id);

-- Profiles (lazily created; id matches account id)
CREATE TABLE IF NOT EXISTS profile (
    id TEXT PRIMARY KEY REFERENCES account(id) ON DELETE CASCADE,
    username TEXT NOT NULL,
    points INTEGER NOT NULL DEFAULT 0 CHECK (points >= 0)
);

-- Video chapters
CREATE TABLE IF NOT EXISTS chapter (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    video_url TEXT NOT NULL,
    order_index INTEGER NOT NULL DEFAULT 0
);

-- Timestamped references into chapters
CREATE TABLE IF NOT EXISTS reference (
    id TEXT PRIMARY KEY,
    chapter_id TEXT NOT NULL REFERENCES chapter(id) ON DELETE CASCADE,
    ts_seconds INTEGER NOT NULL CHECK (ts_seconds >= 0),
    title TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    image_url TEXT NOT NULL DEFAULT '',
    created_by TEXT REFERENCES account(id) ON DELETE SET NULL,
    verified BOOLEAN NOT NULL DEFAULT FALSE,
    verification_count INTEGER NOT NULL DEFAULT 0 CHECK (verification_count >= 0),
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_reference_chapter ON reference(chapter_id);
CREATE INDEX IF NOT EXISTS idx_reference_chapter_ts ON reference(chapter_id, ts_seconds);

-- One verification per (reference, account)
CREATE TABLE IF NOT EXISTS verification (
    id TEXT PRIMARY KEY,
    reference_id TEXT NOT NULL REFERENCES reference(id) ON DELETE CASCADE,
    account_id TEXT NOT NULL REFERENCES account(id) ON DELETE CASCADE,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    UNIQUE (reference_id, account_id)
);

CREATE INDEX IF NOT EXISTS idx_verification_reference ON verification(reference_id);

-- Directed reference-to-reference edges
CREATE TABLE IF NOT EXISTS reference_link (
    id TEXT PRIMARY KEY,
    source_reference_id TEXT NOT NULL REFERENCES reference(id) ON DELETE CASCADE,
    target_reference_id TEXT NOT NULL REFERENCES reference(id) ON DELETE CASCADE,
    UNIQUE (source_reference_id, target_reference_id)
);

CREATE INDEX IF NOT EXISTS idx_reference_link_source ON reference_link(source_reference_id);

-- Typed reference-to-entity associations
CREATE TABLE IF NOT EXISTS reference_connection (
    id TEXT PRIMARY KEY,
    entity_kind TEXT NOT NULL,
    entity_id TEXT NOT NULL,
    reference_id TEXT NOT NULL REFERENCES reference(id) ON DELETE CASCADE,
    created_by TEXT,
    UNIQUE (entity_kind, entity_id, reference_id)
);

CREATE INDEX IF NOT EXISTS idx_reference_connection_entity ON reference_connection(entity_kind, entity_id);

-- Wiki entities (characters, programs, advertisements, concepts, universe items)
CREATE TABLE IF NOT EXISTS wiki_entity (
    id TEXT PRIMARY KEY,
    entity_kind TEXT NOT NULL CHECK (entity_kind IN ('character', 'program', 'advertisement', 'concept', 'universe_item')),
    title TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    content TEXT NOT NULL DEFAULT '',
    image_url TEXT NOT NULL DEFAULT '',
    view_count INTEGER NOT NULL DEFAULT 0,
    verified BOOLEAN NOT NULL DEFAULT FALSE,
    created_by TEXT NOT NULL,
    updated_by TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    UNIQUE (entity_kind, title)
);

CREATE INDEX IF NOT EXISTS idx_wiki_entity_kind ON wiki_entity(entity_kind);

-- Point award ledger; the unique key makes awards idempotent
CREATE TABLE IF NOT EXISTS point_award (
    id TEXT PRIMARY KEY,
    account_id TEXT NOT NULL,
    action TEXT NOT NULL,
    subject_id TEXT NOT NULL,
    points INTEGER NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    UNIQUE (account_id, action, subject_id)
);

CREATE INDEX IF NOT EXISTS idx_point_award_account ON point_award(account_id);
`
