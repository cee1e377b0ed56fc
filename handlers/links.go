// Copyright (c) 2026 Yekumot.
// MIT License; see LICENSE.

package handlers

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/yekumot/server/cliparse"
	"github.com/yekumot/server/db"
	"github.com/yekumot/server/middleware"
	"github.com/yekumot/server/models"
)

type LinkHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewLinkHandler(db *sql.DB, cfg cliparse.Config) *LinkHandler {
	return &LinkHandler{db: db, cfg: cfg}
}

// CreateLink handles POST /references/{id}/links
//
// Links are directed: only the source-to-target edge is created, and only
// that side is ever queried. The inverse edge is a distinct link.
func (h *LinkHandler) CreateLink(w http.ResponseWriter, r *http.Request) {
	sourceID := r.PathValue("id")
	if sourceID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "reference id is required")
		return
	}

	if _, ok := requireAccount(h.db, w, r); !ok {
		return
	}

	var req models.LinkReferencesRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.TargetReferenceID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "target_reference_id is required")
		return
	}
	if req.TargetReferenceID == sourceID {
		middleware.ErrorResponse(w, http.StatusBadRequest, "A reference cannot link to itself")
		return
	}

	if ok, err := h.referenceExists(sourceID); err != nil {
		slog.Error("failed to query reference", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	} else if !ok {
		middleware.ErrorResponse(w, http.StatusNotFound, "Reference not found")
		return
	}
	if ok, err := h.referenceExists(req.TargetReferenceID); err != nil {
		slog.Error("failed to query reference", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	} else if !ok {
		middleware.ErrorResponse(w, http.StatusNotFound, "Target reference not found")
		return
	}

	linkID := uuid.NewString()
	_, err := h.db.Exec(`
		INSERT INTO reference_link (id, source_reference_id, target_reference_id)
		VALUES ($1, $2, $3)
	`, linkID, sourceID, req.TargetReferenceID)

	if db.IsUniqueViolation(err) {
		middleware.ErrorResponse(w, http.StatusConflict, "References are already linked")
		return
	}
	if err != nil {
		slog.Error("failed to insert reference link", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to link references")
		return
	}

	slog.Info("references linked", "source", sourceID, "target", req.TargetReferenceID)

	middleware.JSONResponse(w, http.StatusCreated, models.LinkReferencesResponse{
		LinkID: linkID,
	})
}

// ListLinks handles GET /references/{id}/links
// Returns the references this one links to (outgoing edges only).
func (h *LinkHandler) ListLinks(w http.ResponseWriter, r *http.Request) {
	sourceID := r.PathValue("id")
	if sourceID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "reference id is required")
		return
	}

	if ok, err := h.referenceExists(sourceID); err != nil {
		slog.Error("failed to query reference", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	} else if !ok {
		middleware.ErrorResponse(w, http.StatusNotFound, "Reference not found")
		return
	}

	rows, err := h.db.Query(`
		SELECT r.id, r.chapter_id, r.ts_seconds, r.title, r.description, r.image_url,
		       r.created_by, p.username, r.verified, r.verification_count, r.created_at
		FROM reference_link l
		JOIN reference r ON r.id = l.target_reference_id
		LEFT JOIN profile p ON p.id = r.created_by
		WHERE l.source_reference_id = $1
		ORDER BY r.ts_seconds
	`, sourceID)
	if err != nil {
		slog.Error("failed to query reference links", "error", err)
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

// Connect handles POST /references/{id}/connections
func (h *LinkHandler) Connect(w http.ResponseWriter, r *http.Request) {
	referenceID := r.PathValue("id")
	if referenceID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "reference id is required")
		return
	}

	accountID, ok := requireAccount(h.db, w, r)
	if !ok {
		return
	}

	var req models.ConnectEntityRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if !models.ValidKind(req.EntityKind) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "entity_kind must be one of: "+strings.Join(models.EntityKinds, ", "))
		return
	}
	if req.EntityID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "entity_id is required")
		return
	}

	if ok, err := h.referenceExists(referenceID); err != nil {
		slog.Error("failed to query reference", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	} else if !ok {
		middleware.ErrorResponse(w, http.StatusNotFound, "Reference not found")
		return
	}

	var entityExists bool
	err := h.db.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM wiki_entity WHERE entity_kind = $1 AND id = $2)
	`, req.EntityKind, req.EntityID).Scan(&entityExists)
	if err != nil {
		slog.Error("failed to query entity", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if !entityExists {
		middleware.ErrorResponse(w, http.StatusNotFound, "Entity not found")
		return
	}

	connectionID := uuid.NewString()
	_, err = h.db.Exec(`
		INSERT INTO reference_connection (id, entity_kind, entity_id, reference_id, created_by)
		VALUES ($1, $2, $3, $4, $5)
	`, connectionID, req.EntityKind, req.EntityID, referenceID, accountID)

	if db.IsUniqueViolation(err) {
		middleware.ErrorResponse(w, http.StatusConflict, "Reference is already linked to this entry")
		return
	}
	if err != nil {
		slog.Error("failed to insert reference connection", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to connect reference")
		return
	}

	slog.Info("reference connected", "reference_id", referenceID, "entity_kind", req.EntityKind, "entity_id", req.EntityID)

	middleware.JSONResponse(w, http.StatusCreated, models.ConnectEntityResponse{
		ConnectionID: connectionID,
	})
}

// ListEntityReferences handles GET /entities/{kind}/{id}/references
// Resolves the connection rows for the entity, then batch-fetches the
// referenced rows.
func (h *LinkHandler) ListEntityReferences(w http.ResponseWriter, r *http.Request) {
	kind := r.PathValue("kind")
	entityID := r.PathValue("id")
	if !models.ValidKind(kind) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid entity kind")
		return
	}

	var entityExists bool
	err := h.db.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM wiki_entity WHERE entity_kind = $1 AND id = $2)
	`, kind, entityID).Scan(&entityExists)
	if err != nil {
		slog.Error("failed to query entity", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if !entityExists {
		middleware.ErrorResponse(w, http.StatusNotFound, "Entity not found")
		return
	}

	rows, err := h.db.Query(`
		SELECT reference_id FROM reference_connection
		WHERE entity_kind = $1 AND entity_id = $2
	`, kind, entityID)
	if err != nil {
		slog.Error("failed to query connections", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	referenceIDs := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			slog.Error("failed to scan connection", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		referenceIDs = append(referenceIDs, id)
	}

	references := []models.Reference{}
	if len(referenceIDs) == 0 {
		middleware.JSONResponse(w, http.StatusOK, references)
		return
	}

	placeholders := make([]string, len(referenceIDs))
	args := make([]any, len(referenceIDs))
	for i, id := range referenceIDs {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}

	refRows, err := h.db.Query(referenceSelect+`
		WHERE r.id IN (`+strings.Join(placeholders, ", ")+`)
		ORDER BY r.ts_seconds
	`, args...)
	if err != nil {
		slog.Error("failed to query references", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer refRows.Close()

	for refRows.Next() {
		ref, err := scanReference(refRows.Scan)
		if err != nil {
			slog.Error("failed to scan reference", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		references = append(references, ref)
	}

	middleware.JSONResponse(w, http.StatusOK, references)
}

func (h *LinkHandler) referenceExists(referenceID string) (bool, error) {
	var exists bool
	err := h.db.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM reference WHERE id = $1)
	`, referenceID).Scan(&exists)
	return exists, err
}
