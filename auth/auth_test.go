// Copyright (c) 2026 Yekumot.
// MIT License; see LICENSE.

package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateID(t *testing.T) {
	id, err := GenerateID(16)
	require.NoError(t, err)
	assert.Len(t, id, 32) // hex doubles the byte length

	other, err := GenerateID(16)
	require.NoError(t, err)
	assert.NotEqual(t, id, other)
}

func TestSessionTokens(t *testing.T) {
	token, err := GenerateSessionToken()
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.NotContains(t, token, "=")

	other, err := GenerateSessionToken()
	require.NoError(t, err)
	assert.NotEqual(t, token, other)

	// Hashing is deterministic and never stores the raw token form
	hash := HashToken(token)
	assert.Equal(t, hash, HashToken(token))
	assert.NotEqual(t, token, hash)
	assert.Len(t, hash, 64)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("a-fine-password")
	require.NoError(t, err)
	assert.NotEqual(t, "a-fine-password", hash)

	assert.NoError(t, CheckPassword(hash, "a-fine-password"))
	assert.ErrorIs(t, CheckPassword(hash, "wrong-password"), ErrInvalidCredentials)
}

func TestAdminKey(t *testing.T) {
	key := GenerateAdminKey("salt-one")

	assert.NoError(t, ValidateAdminKey(key, "salt-one"))
	assert.ErrorIs(t, ValidateAdminKey(key, "salt-two"), ErrInvalidAdminKey)
	assert.ErrorIs(t, ValidateAdminKey("forged", "salt-one"), ErrInvalidAdminKey)

	// Deterministic per salt so restarts keep the same key
	assert.Equal(t, key, GenerateAdminKey("salt-one"))
}

func TestUsernameFromEmail(t *testing.T) {
	tests := []struct {
		email string
		want  string
	}{
		{"dana@example.com", "dana"},
		{"first.last@example.co.il", "first.last"},
		{"no-at-sign", "no-at-sign"},
		{"@leading", "@leading"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, UsernameFromEmail(tt.email), "email %q", tt.email)
	}
}
