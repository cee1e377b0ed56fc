// Copyright (c) 2026 Yekumot.
// MIT License; see LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yekumot/server/auth"
	"github.com/yekumot/server/cliparse"
	"github.com/yekumot/server/db"
)

// SetupTestDB opens a fresh in-memory database with the full schema.
// Each call gets its own database; no external server is needed.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         3856,
		DatabaseURL:  ":memory:",
		DatabaseType: "sqlite",
		AdminKeySalt: "test-admin-salt",
	}
}

// CreateTestAccount inserts an account with an active session and returns
// both the account ID and a usable session token.
func CreateTestAccount(t *testing.T, conn *sql.DB, email string) (accountID, sessionToken string) {
	t.Helper()

	accountID = uuid.NewString()
	hash, err := auth.HashPassword("correct-horse-battery")
	if err != nil {
		t.Fatalf("Failed to hash test password: %v", err)
	}
	_, err = conn.Exec(`
		INSERT INTO account (id, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4)
	`, accountID, email, hash, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test account: %v", err)
	}

	sessionToken, err = auth.GenerateSessionToken()
	if err != nil {
		t.Fatalf("Failed to generate session token: %v", err)
	}
	now := time.Now()
	_, err = conn.Exec(`
		INSERT INTO session (token_hash, account_id, created_at, expires_at)
		VALUES ($1, $2, $3, $4)
	`, auth.HashToken(sessionToken), accountID, now, now.Add(auth.SessionTTL))
	if err != nil {
		t.Fatalf("Failed to create test session: %v", err)
	}

	return accountID, sessionToken
}

// CreateTestChapter inserts a chapter and returns its ID
func CreateTestChapter(t *testing.T, conn *sql.DB, title string, orderIndex int) string {
	t.Helper()

	chapterID := uuid.NewString()
	_, err := conn.Exec(`
		INSERT INTO chapter (id, title, description, video_url, order_index)
		VALUES ($1, $2, '', $3, $4)
	`, chapterID, title, "https://videos.example/"+chapterID, orderIndex)
	if err != nil {
		t.Fatalf("Failed to create test chapter: %v", err)
	}

	return chapterID
}

// CreateTestReference inserts a reference created by the given account
func CreateTestReference(t *testing.T, conn *sql.DB, chapterID, createdBy string, tsSeconds int, title string) string {
	t.Helper()

	referenceID := uuid.NewString()
	_, err := conn.Exec(`
		INSERT INTO reference (id, chapter_id, ts_seconds, title, description, image_url,
		                       created_by, verified, verification_count, created_at)
		VALUES ($1, $2, $3, $4, '', '', $5, $6, 0, $7)
	`, referenceID, chapterID, tsSeconds, title, createdBy, false, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test reference: %v", err)
	}

	return referenceID
}

// CreateTestEntity inserts a wiki entity and returns its ID
func CreateTestEntity(t *testing.T, conn *sql.DB, kind, title, createdBy string) string {
	t.Helper()

	entityID := uuid.NewString()
	now := time.Now()
	_, err := conn.Exec(`
		INSERT INTO wiki_entity (id, entity_kind, title, description, content, image_url,
		                         view_count, verified, created_by, updated_by, created_at, updated_at)
		VALUES ($1, $2, $3, '', '', '', 0, $4, $5, $6, $7, $8)
	`, entityID, kind, title, false, createdBy, createdBy, now, now)
	if err != nil {
		t.Fatalf("Failed to create test entity: %v", err)
	}

	return entityID
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
