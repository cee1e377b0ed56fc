// Copyright (c) 2026 Yekumot.
// MIT License; see LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yekumot/server/auth"
	"github.com/yekumot/server/cliparse"
	"github.com/yekumot/server/db"
	"github.com/yekumot/server/middleware"
	"github.com/yekumot/server/models"
)

type AccountHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewAccountHandler(db *sql.DB, cfg cliparse.Config) *AccountHandler {
	return &AccountHandler{db: db, cfg: cfg}
}

// Signup handles POST /auth/signup
func (h *AccountHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if !strings.Contains(req.Email, "@") {
		middleware.ErrorResponse(w, http.StatusBadRequest, "a valid email is required")
		return
	}
	if len(req.Password) < 8 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "password must be at least 8 characters")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		slog.Error("failed to hash password", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create account")
		return
	}

	accountID := uuid.NewString()
	_, err = h.db.Exec(`
		INSERT INTO account (id, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4)
	`, accountID, req.Email, hash, time.Now())

	if db.IsUniqueViolation(err) {
		middleware.ErrorResponse(w, http.StatusConflict, "Email already registered")
		return
	}
	if err != nil {
		slog.Error("failed to insert account", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create account")
		return
	}

	token, err := h.createSession(accountID)
	if err != nil {
		slog.Error("failed to create session", "error", err, "account_id", accountID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create account")
		return
	}

	slog.Info("account created", "account_id", accountID)

	middleware.JSONResponse(w, http.StatusCreated, models.SignupResponse{
		AccountID:    accountID,
		SessionToken: token,
	})
}

// Login handles POST /auth/login
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	var accountID, hash string
	err := h.db.QueryRow(`
		SELECT id, password_hash FROM account WHERE email = $1
	`, req.Email).Scan(&accountID, &hash)

	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	if err != nil {
		slog.Error("failed to query account", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if err := auth.CheckPassword(hash, req.Password); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	token, err := h.createSession(accountID)
	if err != nil {
		slog.Error("failed to create session", "error", err, "account_id", accountID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to sign in")
		return
	}

	slog.Info("account signed in", "account_id", accountID)

	middleware.JSONResponse(w, http.StatusOK, models.LoginResponse{
		SessionToken: token,
	})
}

// Logout handles POST /auth/logout
func (h *AccountHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := r.Header.Get("X-Session-Token")
	if token == "" {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "X-Session-Token header required")
		return
	}

	_, err := h.db.Exec(`
		DELETE FROM session WHERE token_hash = $1
	`, auth.HashToken(token))
	if err != nil {
		slog.Error("failed to delete session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to sign out")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Me handles GET /auth/me
// The profile is created here on first authenticated access.
func (h *AccountHandler) Me(w http.ResponseWriter, r *http.Request) {
	accountID, ok := requireAccount(h.db, w, r)
	if !ok {
		return
	}

	profile, err := ensureProfile(h.db, accountID)
	if err != nil {
		slog.Error("failed to load profile", "error", err, "account_id", accountID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, profile)
}

// GetProfile handles GET /profiles/{id}
func (h *AccountHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	profileID := r.PathValue("id")
	if profileID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "profile id is required")
		return
	}

	var p models.Profile
	err := h.db.QueryRow(`
		SELECT id, username, points FROM profile WHERE id = $1
	`, profileID).Scan(&p.ID, &p.Username, &p.Points)

	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Profile not found")
		return
	}
	if err != nil {
		slog.Error("failed to query profile", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, p)
}

func (h *AccountHandler) createSession(accountID string) (string, error) {
	token, err := auth.GenerateSessionToken()
	if err != nil {
		return "", err
	}

	now := time.Now()
	_, err = h.db.Exec(`
		INSERT INTO session (token_hash, account_id, created_at, expires_at)
		VALUES ($1, $2, $3, $4)
	`, auth.HashToken(token), accountID, now, now.Add(auth.SessionTTL))
	if err != nil {
		return "", err
	}
	return token, nil
}
