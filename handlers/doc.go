// Copyright (c) 2026 Yekumot.
// MIT License; see LICENSE.

/*
Package handlers contains HTTP request handlers for the Yekumot API.

# Handler Types

Each handler is a struct with database and config dependencies:

  - AccountHandler: signup, login, logout, profiles
  - ChapterHandler: chapter catalog (creation is admin-gated)
  - ReferenceHandler: timestamped references on chapters
  - VerificationHandler: quorum-based reference verification
  - LinkHandler: reference-to-reference and reference-to-entity edges
  - EntityHandler: wiki entity CRUD with point awards

Handlers are created via constructor functions that accept *sql.DB and Config:

	entityHandler := handlers.NewEntityHandler(db, cfg)

# Authentication

Authenticated endpoints read the X-Session-Token header; the token is
hashed and matched against an unexpired session row. The caller's profile
is created lazily on first authenticated access, with a username derived
from the email local part.

# Verification Model

A reference becomes verified once 2 distinct users other than its creator
have verified it:

	POST /references/{id}/verify

The insert, the recount, and the cached counter update commit in one
transaction, so verified == (verification_count >= 2) always holds. A user
can verify a given reference at most once, and never their own.

# Cross-Link Model

Reference links are directed edges; only the source-to-target side is
created and queried. Entity connections associate a reference with a wiki
entry; both kinds of edge reject duplicates with 409.

# Points Policy

Contribution actions award fixed amounts: creating a wiki entry grants 10
points, editing one grants 2. Awards are recorded in a ledger keyed on
(account, action, subject), so replays never double-credit, and they commit
in the same transaction as the rewarded action.
*/
package handlers
