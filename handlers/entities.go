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
	"github.com/yekumot/server/db"
	"github.com/yekumot/server/middleware"
	"github.com/yekumot/server/models"
)

type EntityHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewEntityHandler(db *sql.DB, cfg cliparse.Config) *EntityHandler {
	return &EntityHandler{db: db, cfg: cfg}
}

// Create handles POST /entities/{kind}
// Creating an entry awards the creator 10 points; the award and the insert
// commit together.
func (h *EntityHandler) Create(w http.ResponseWriter, r *http.Request) {
	kind := r.PathValue("kind")
	if !models.ValidKind(kind) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid entity kind")
		return
	}

	accountID, ok := requireAccount(h.db, w, r)
	if !ok {
		return
	}

	var req models.CreateEntityRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Title == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "title is required")
		return
	}

	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	if _, err := ensureProfile(tx, accountID); err != nil {
		slog.Error("failed to ensure profile", "error", err, "account_id", accountID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	entityID := uuid.NewString()
	now := time.Now()
	_, err = tx.Exec(`
		INSERT INTO wiki_entity (id, entity_kind, title, description, content, image_url,
		                         view_count, verified, created_by, updated_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, entityID, kind, req.Title, req.Description, req.Content, req.ImageURL,
		0, false, accountID, accountID, now, now)

	if db.IsUniqueViolation(err) {
		middleware.ErrorResponse(w, http.StatusConflict, "An entry with this title already exists")
		return
	}
	if err != nil {
		slog.Error("failed to insert entity", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create entry")
		return
	}

	if err := awardPoints(tx, accountID, models.ActionEntityCreate, entityID, models.PointsEntityCreate); err != nil {
		slog.Error("failed to award points", "error", err, "account_id", accountID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create entry")
		return
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create entry")
		return
	}

	slog.Info("entity created", "entity_kind", kind, "entity_id", entityID, "title", req.Title)

	middleware.JSONResponse(w, http.StatusCreated, models.CreateEntityResponse{
		EntityID: entityID,
	})
}

// List handles GET /entities/{kind}
func (h *EntityHandler) List(w http.ResponseWriter, r *http.Request) {
	kind := r.PathValue("kind")
	if !models.ValidKind(kind) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid entity kind")
		return
	}

	rows, err := h.db.Query(`
		SELECT id, title, image_url, view_count
		FROM wiki_entity
		WHERE entity_kind = $1
		ORDER BY title
	`, kind)
	if err != nil {
		slog.Error("failed to query entities", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	entities := []models.EntitySummary{}
	for rows.Next() {
		var e models.EntitySummary
		if err := rows.Scan(&e.ID, &e.Title, &e.ImageURL, &e.ViewCount); err != nil {
			slog.Error("failed to scan entity", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		entities = append(entities, e)
	}

	middleware.JSONResponse(w, http.StatusOK, entities)
}

// Get handles GET /entities/{kind}/{id}
// Every fetch bumps the view counter; the increment is a single UPDATE so
// concurrent readers never lose counts.
func (h *EntityHandler) Get(w http.ResponseWriter, r *http.Request) {
	kind := r.PathValue("kind")
	entityID := r.PathValue("id")
	if !models.ValidKind(kind) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid entity kind")
		return
	}

	res, err := h.db.Exec(`
		UPDATE wiki_entity SET view_count = view_count + 1
		WHERE entity_kind = $1 AND id = $2
	`, kind, entityID)
	if err != nil {
		slog.Error("failed to increment view count", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "Entity not found")
		return
	}

	var e models.WikiEntity
	err = h.db.QueryRow(`
		SELECT id, entity_kind, title, description, content, image_url,
		       view_count, verified, created_by, updated_by, created_at, updated_at
		FROM wiki_entity
		WHERE entity_kind = $1 AND id = $2
	`, kind, entityID).Scan(
		&e.ID, &e.EntityKind, &e.Title, &e.Description, &e.Content, &e.ImageURL,
		&e.ViewCount, &e.Verified, &e.CreatedBy, &e.UpdatedBy, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		slog.Error("failed to query entity", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.EntityDetail{
		WikiEntity: e,
		Sections:   models.SplitSections(e.Content),
	})
}

// Update handles PUT /entities/{kind}/{id}
// Any authenticated user may edit; the first edit of an entry by a given
// user awards 2 points.
func (h *EntityHandler) Update(w http.ResponseWriter, r *http.Request) {
	kind := r.PathValue("kind")
	entityID := r.PathValue("id")
	if !models.ValidKind(kind) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid entity kind")
		return
	}

	accountID, ok := requireAccount(h.db, w, r)
	if !ok {
		return
	}

	var req models.UpdateEntityRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Title == nil && req.Description == nil && req.Content == nil && req.ImageURL == nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "nothing to update")
		return
	}
	if req.Title != nil && *req.Title == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "title cannot be empty")
		return
	}

	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	var e models.WikiEntity
	err = tx.QueryRow(`
		SELECT id, entity_kind, title, description, content, image_url,
		       view_count, verified, created_by, updated_by, created_at, updated_at
		FROM wiki_entity
		WHERE entity_kind = $1 AND id = $2
	`, kind, entityID).Scan(
		&e.ID, &e.EntityKind, &e.Title, &e.Description, &e.Content, &e.ImageURL,
		&e.ViewCount, &e.Verified, &e.CreatedBy, &e.UpdatedBy, &e.CreatedAt, &e.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Entity not found")
		return
	}
	if err != nil {
		slog.Error("failed to query entity", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if req.Title != nil {
		e.Title = *req.Title
	}
	if req.Description != nil {
		e.Description = *req.Description
	}
	if req.Content != nil {
		e.Content = *req.Content
	}
	if req.ImageURL != nil {
		e.ImageURL = *req.ImageURL
	}
	e.UpdatedBy = accountID
	e.UpdatedAt = time.Now()

	_, err = tx.Exec(`
		UPDATE wiki_entity
		SET title = $1, description = $2, content = $3, image_url = $4,
		    updated_by = $5, updated_at = $6
		WHERE entity_kind = $7 AND id = $8
	`, e.Title, e.Description, e.Content, e.ImageURL, e.UpdatedBy, e.UpdatedAt, kind, entityID)

	if db.IsUniqueViolation(err) {
		middleware.ErrorResponse(w, http.StatusConflict, "An entry with this title already exists")
		return
	}
	if err != nil {
		slog.Error("failed to update entity", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update entry")
		return
	}

	if _, err := ensureProfile(tx, accountID); err != nil {
		slog.Error("failed to ensure profile", "error", err, "account_id", accountID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if err := awardPoints(tx, accountID, models.ActionEntityEdit, entityID, models.PointsEntityEdit); err != nil {
		slog.Error("failed to award points", "error", err, "account_id", accountID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update entry")
		return
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update entry")
		return
	}

	slog.Info("entity updated", "entity_kind", kind, "entity_id", entityID, "updated_by", accountID)

	middleware.JSONResponse(w, http.StatusOK, models.EntityDetail{
		WikiEntity: e,
		Sections:   models.SplitSections(e.Content),
	})
}

// Delete handles DELETE /entities/{kind}/{id}
// Only the creator may delete an entry. Its connections go with it.
func (h *EntityHandler) Delete(w http.ResponseWriter, r *http.Request) {
	kind := r.PathValue("kind")
	entityID := r.PathValue("id")
	if !models.ValidKind(kind) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid entity kind")
		return
	}

	accountID, ok := requireAccount(h.db, w, r)
	if !ok {
		return
	}

	var createdBy string
	err := h.db.QueryRow(`
		SELECT created_by FROM wiki_entity WHERE entity_kind = $1 AND id = $2
	`, kind, entityID).Scan(&createdBy)

	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Entity not found")
		return
	}
	if err != nil {
		slog.Error("failed to query entity", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if createdBy != accountID {
		middleware.ErrorResponse(w, http.StatusForbidden, "Only the creator can delete this entry")
		return
	}

	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		DELETE FROM reference_connection WHERE entity_kind = $1 AND entity_id = $2
	`, kind, entityID)
	if err != nil {
		slog.Error("failed to delete connections", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete entry")
		return
	}

	_, err = tx.Exec(`
		DELETE FROM wiki_entity WHERE entity_kind = $1 AND id = $2
	`, kind, entityID)
	if err != nil {
		slog.Error("failed to delete entity", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete entry")
		return
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete entry")
		return
	}

	slog.Info("entity deleted", "entity_kind", kind, "entity_id", entityID)

	w.WriteHeader(http.StatusNoContent)
}
