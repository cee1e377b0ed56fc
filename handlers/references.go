// Copyright (c) 2026 Yekumot.
// MIT License; see LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/yekumot/server/cliparse"
	"github.com/yekumot/server/middleware"
	"github.com/yekumot/server/models"
)

type ReferenceHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewReferenceHandler(db *sql.DB, cfg cliparse.Config) *ReferenceHandler {
	return &ReferenceHandler{db: db, cfg: cfg}
}

// referenceSelect is the shared projection for reference reads. The
// creator's profile may not exist (deleted account, or never materialized),
// in which case the username scans as NULL and displays as Anonymous.
const referenceSelect = `
	SELECT r.id, r.chapter_id, r.ts_seconds, r.title, r.description, r.image_url,
	       r.created_by, p.username, r.verified, r.verification_count, r.created_at
	FROM reference r
	LEFT JOIN profile p ON p.id = r.created_by
`

func scanReference(scan func(dest ...any) error) (models.Reference, error) {
	var ref models.Reference
	var createdBy, username sql.NullString
	err := scan(
		&ref.ID, &ref.ChapterID, &ref.TsSeconds, &ref.Title, &ref.Description,
		&ref.ImageURL, &createdBy, &username, &ref.Verified,
		&ref.VerificationCount, &ref.CreatedAt,
	)
	if err != nil {
		return models.Reference{}, err
	}
	if createdBy.Valid {
		ref.CreatedBy = &createdBy.String
	}
	ref.CreatorName = models.AnonymousName
	if username.Valid {
		ref.CreatorName = username.String
	}
	return ref, nil
}

// Create handles POST /chapters/{id}/references
func (h *ReferenceHandler) Create(w http.ResponseWriter, r *http.Request) {
	chapterID := r.PathValue("id")
	if chapterID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "chapter id is required")
		return
	}

	accountID, ok := requireAccount(h.db, w, r)
	if !ok {
		return
	}

	var req models.CreateReferenceRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Title == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "title is required")
		return
	}
	if req.TsSeconds < 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "ts_seconds must be non-negative")
		return
	}

	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	var chapterExists bool
	err = tx.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM chapter WHERE id = $1)
	`, chapterID).Scan(&chapterExists)
	if err != nil {
		slog.Error("failed to query chapter", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if !chapterExists {
		middleware.ErrorResponse(w, http.StatusNotFound, "Chapter not found")
		return
	}

	// No second reference may land within ±3s of an existing one on the
	// same chapter.
	var crowded bool
	err = tx.QueryRow(`
		SELECT EXISTS(
			SELECT 1 FROM reference
			WHERE chapter_id = $1 AND ts_seconds BETWEEN $2 AND $3
		)
	`, chapterID, req.TsSeconds-models.ReferenceWindowSeconds, req.TsSeconds+models.ReferenceWindowSeconds).Scan(&crowded)
	if err != nil {
		slog.Error("failed to check timestamp window", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if crowded {
		middleware.ErrorResponse(w, http.StatusConflict, "A reference already exists at this time")
		return
	}

	if _, err := ensureProfile(tx, accountID); err != nil {
		slog.Error("failed to ensure profile", "error", err, "account_id", accountID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	referenceID := uuid.NewString()
	_, err = tx.Exec(`
		INSERT INTO reference (id, chapter_id, ts_seconds, title, description, image_url,
		                       created_by, verified, verification_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, referenceID, chapterID, req.TsSeconds, req.Title, req.Description, req.ImageURL,
		accountID, false, 0, time.Now())
	if err != nil {
		slog.Error("failed to insert reference", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create reference")
		return
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create reference")
		return
	}

	slog.Info("reference created", "reference_id", referenceID, "chapter_id", chapterID, "ts_seconds", req.TsSeconds)

	middleware.JSONResponse(w, http.StatusCreated, models.CreateReferenceResponse{
		ReferenceID: referenceID,
	})
}

// ListByChapter handles GET /chapters/{id}/references
func (h *ReferenceHandler) ListByChapter(w http.ResponseWriter, r *http.Request) {
	chapterID := r.PathValue("id")
	if chapterID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "chapter id is required")
		return
	}

	var chapterExists bool
	err := h.db.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM chapter WHERE id = $1)
	`, chapterID).Scan(&chapterExists)
	if err != nil {
		slog.Error("failed to query chapter", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if !chapterExists {
		middleware.ErrorResponse(w, http.StatusNotFound, "Chapter not found")
		return
	}

	rows, err := h.db.Query(referenceSelect+`
		WHERE r.chapter_id = $1
		ORDER BY r.ts_seconds
	`, chapterID)
	if err != nil {
		slog.Error("failed to query references", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	references := []models.Reference{}
	for rows.Next() {
		ref, err := scanReference(rows.Scan)
		if err != nil {
			slog.Error("failed to scan reference", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		references = append(references, ref)
	}

	middleware.JSONResponse(w, http.StatusOK, references)
}

// Get handles GET /references/{id}
func (h *ReferenceHandler) Get(w http.ResponseWriter, r *http.Request) {
	referenceID := r.PathValue("id")
	if referenceID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "reference id is required")
		return
	}

	row := h.db.QueryRow(referenceSelect+`
		WHERE r.id = $1
	`, referenceID)

	ref, err := scanReference(row.Scan)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Reference not found")
		return
	}
	if err != nil {
		slog.Error("failed to query reference", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, ref)
}
