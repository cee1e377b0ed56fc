// Copyright (c) 2026 Yekumot.
// MIT License; see LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/yekumot/server/auth"
	"github.com/yekumot/server/cliparse"
	"github.com/yekumot/server/middleware"
	"github.com/yekumot/server/models"
)

type ChapterHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewChapterHandler(db *sql.DB, cfg cliparse.Config) *ChapterHandler {
	return &ChapterHandler{db: db, cfg: cfg}
}

// Create handles POST /chapters
// Chapters are static content; only the deployment admin may add them.
func (h *ChapterHandler) Create(w http.ResponseWriter, r *http.Request) {
	adminKey := r.Header.Get("X-Admin-Key")
	if err := auth.ValidateAdminKey(adminKey, h.cfg.AdminKeySalt); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin key")
		return
	}

	var req models.CreateChapterRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Title == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "title is required")
		return
	}
	if req.VideoURL == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "video_url is required")
		return
	}

	chapterID := uuid.NewString()
	_, err := h.db.Exec(`
		INSERT INTO chapter (id, title, description, video_url, order_index)
		VALUES ($1, $2, $3, $4, $5)
	`, chapterID, req.Title, req.Description, req.VideoURL, req.OrderIndex)

	if err != nil {
		slog.Error("failed to insert chapter", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create chapter")
		return
	}

	slog.Info("chapter created", "chapter_id", chapterID, "title", req.Title)

	middleware.JSONResponse(w, http.StatusCreated, models.CreateChapterResponse{
		ChapterID: chapterID,
	})
}

// List handles GET /chapters
func (h *ChapterHandler) List(w http.ResponseWriter, r *http.Request) {
	rows, err := h.db.Query(`
		SELECT id, title, description, video_url, order_index
		FROM chapter
		ORDER BY order_index
	`)
	if err != nil {
		slog.Error("failed to query chapters", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	chapters := []models.Chapter{}
	for rows.Next() {
		var c models.Chapter
		if err := rows.Scan(&c.ID, &c.Title, &c.Description, &c.VideoURL, &c.OrderIndex); err != nil {
			slog.Error("failed to scan chapter", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		chapters = append(chapters, c)
	}

	middleware.JSONResponse(w, http.StatusOK, chapters)
}

// Get handles GET /chapters/{id}
func (h *ChapterHandler) Get(w http.ResponseWriter, r *http.Request) {
	chapterID := r.PathValue("id")
	if chapterID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "chapter id is required")
		return
	}

	var c models.Chapter
	err := h.db.QueryRow(`
		SELECT id, title, description, video_url, order_index
		FROM chapter
		WHERE id = $1
	`, chapterID).Scan(&c.ID, &c.Title, &c.Description, &c.VideoURL, &c.OrderIndex)

	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Chapter not found")
		return
	}
	if err != nil {
		slog.Error("failed to query chapter", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, c)
}
