// Copyright (c) 2026 Yekumot.
// MIT License; see LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/yekumot/server/cliparse"
	"github.com/yekumot/server/db"
	"github.com/yekumot/server/middleware"
	"github.com/yekumot/server/models"
)

type VerificationHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewVerificationHandler(db *sql.DB, cfg cliparse.Config) *VerificationHandler {
	return &VerificationHandler{db: db, cfg: cfg}
}

// Cast handles POST /references/{id}/verify
//
// The insert, the recount, and the reference update run in one transaction
// so concurrent voters cannot under-count each other. The reference flips
// to verified once the count reaches the quorum.
func (h *VerificationHandler) Cast(w http.ResponseWriter, r *http.Request) {
	referenceID := r.PathValue("id")
	if referenceID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "reference id is required")
		return
	}

	accountID, ok := requireAccount(h.db, w, r)
	if !ok {
		return
	}

	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	var createdBy sql.NullString
	err = tx.QueryRow(`
		SELECT created_by FROM reference WHERE id = $1
	`, referenceID).Scan(&createdBy)

	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Reference not found")
		return
	}
	if err != nil {
		slog.Error("failed to query reference", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if createdBy.Valid && createdBy.String == accountID {
		middleware.ErrorResponse(w, http.StatusForbidden, "You cannot verify your own reference")
		return
	}

	_, err = tx.Exec(`
		INSERT INTO verification (id, reference_id, account_id)
		VALUES ($1, $2, $3)
	`, uuid.NewString(), referenceID, accountID)

	if db.IsUniqueViolation(err) {
		middleware.ErrorResponse(w, http.StatusConflict, "You have already verified this reference")
		return
	}
	if err != nil {
		slog.Error("failed to insert verification", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to verify reference")
		return
	}

	var count int
	err = tx.QueryRow(`
		SELECT COUNT(*) FROM verification WHERE reference_id = $1
	`, referenceID).Scan(&count)
	if err != nil {
		slog.Error("failed to count verifications", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to verify reference")
		return
	}

	verified := count >= models.VerificationQuorum
	_, err = tx.Exec(`
		UPDATE reference SET verification_count = $1, verified = $2 WHERE id = $3
	`, count, verified, referenceID)
	if err != nil {
		slog.Error("failed to update reference", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to verify reference")
		return
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to verify reference")
		return
	}

	slog.Info("verification cast", "reference_id", referenceID, "account_id", accountID, "count", count, "verified", verified)

	middleware.JSONResponse(w, http.StatusOK, models.VerifyResponse{
		VerificationCount: count,
		Verified:          verified,
	})
}
