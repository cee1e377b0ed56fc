// Copyright (c) 2026 Yekumot.
// MIT License; see LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/yekumot/server/auth"
	"github.com/yekumot/server/db"
	"github.com/yekumot/server/middleware"
	"github.com/yekumot/server/models"
)

// dbtx is the subset of *sql.DB and *sql.Tx the shared helpers need, so
// they run both standalone and inside transactions.
type dbtx interface {
	Exec(query string, args ...any) (sql.Result, error)
	QueryRow(query string, args ...any) *sql.Row
}

var errNoSession = errors.New("no valid session")

// currentAccount resolves the X-Session-Token header to an account ID.
func currentAccount(q dbtx, r *http.Request) (string, error) {
	token := r.Header.Get("X-Session-Token")
	if token == "" {
		return "", errNoSession
	}

	var accountID string
	var expiresAt time.Time
	err := q.QueryRow(`
		SELECT account_id, expires_at FROM session WHERE token_hash = $1
	`, auth.HashToken(token)).Scan(&accountID, &expiresAt)

	if err == sql.ErrNoRows {
		return "", errNoSession
	}
	if err != nil {
		return "", err
	}
	if time.Now().After(expiresAt) {
		return "", errNoSession
	}
	return accountID, nil
}

// requireAccount resolves the caller's session or writes a 401.
// The bool reports whether the caller may proceed.
func requireAccount(q dbtx, w http.ResponseWriter, r *http.Request) (string, bool) {
	accountID, err := currentAccount(q, r)
	if err == errNoSession {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "X-Session-Token header with a valid session required")
		return "", false
	}
	if err != nil {
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return "", false
	}
	return accountID, true
}

// ensureProfile fetches the account's profile, creating it on first
// authenticated access with a username derived from the email local part.
func ensureProfile(q dbtx, accountID string) (models.Profile, error) {
	var p models.Profile
	err := q.QueryRow(`
		SELECT id, username, points FROM profile WHERE id = $1
	`, accountID).Scan(&p.ID, &p.Username, &p.Points)

	if err == nil {
		return p, nil
	}
	if err != sql.ErrNoRows {
		return models.Profile{}, err
	}

	var email string
	err = q.QueryRow(`SELECT email FROM account WHERE id = $1`, accountID).Scan(&email)
	if err != nil {
		return models.Profile{}, err
	}

	p = models.Profile{
		ID:       accountID,
		Username: auth.UsernameFromEmail(email),
		Points:   0,
	}
	_, err = q.Exec(`
		INSERT INTO profile (id, username, points) VALUES ($1, $2, $3)
	`, p.ID, p.Username, p.Points)
	if db.IsUniqueViolation(err) {
		// Lost the creation race; the row exists now.
		err = q.QueryRow(`
			SELECT id, username, points FROM profile WHERE id = $1
		`, accountID).Scan(&p.ID, &p.Username, &p.Points)
	}
	if err != nil {
		return models.Profile{}, err
	}
	return p, nil
}
