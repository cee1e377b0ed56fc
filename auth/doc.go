// Copyright (c) 2026 Yekumot.
// MIT License; see LICENSE.

/*
Package auth provides authentication and token generation utilities.

# Session Tokens

Session tokens are random 24-byte (192-bit) secrets:

	token, err := auth.GenerateSessionToken()

The token itself is returned to the client; only its SHA-256 hash
(auth.HashToken) is stored in the session table.

# Passwords

Passwords are hashed with bcrypt:

	hash, err := auth.HashPassword(password)
	err = auth.CheckPassword(hash, password)

# Admin Key

The site admin key uses HMAC-SHA256 over a fixed subject, so it is
deterministic from the salt and validated without database state:

	adminKey := auth.GenerateAdminKey(salt)
	err := auth.ValidateAdminKey(adminKey, salt)

# ID Generation

Random hex IDs where a UUID would be overkill:

	id, err := auth.GenerateID(16)  // 32 hex characters
*/
package auth
