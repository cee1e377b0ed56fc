// Copyright (c) 2026 Yekumot.
// MIT License; see LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/yekumot/server/models"
	"github.com/yekumot/server/testutil"
)

func postLink(t *testing.T, handler *LinkHandler, sourceID, targetID, sessionToken string) *httptest.ResponseRecorder {
	t.Helper()
	req := testutil.MakeRequest("POST", "/references/"+sourceID+"/links",
		models.LinkReferencesRequest{TargetReferenceID: targetID},
		map[string]string{"X-Session-Token": sessionToken})
	req.SetPathValue("id", sourceID)
	w := httptest.NewRecorder()
	handler.CreateLink(w, req)
	return w
}

func TestLinkReferences(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewLinkHandler(conn, cfg)

	accountID, sessionToken := testutil.CreateTestAccount(t, conn, "alice@example.com")
	chapterID := testutil.CreateTestChapter(t, conn, "Chapter 1", 1)
	r1 := testutil.CreateTestReference(t, conn, chapterID, accountID, 10, "R1")
	r2 := testutil.CreateTestReference(t, conn, chapterID, accountID, 20, "R2")

	w := postLink(t, handler, r1, r2, sessionToken)
	testutil.AssertStatus(t, w, http.StatusCreated)

	// Linking the same ordered pair again is a conflict
	w = postLink(t, handler, r1, r2, sessionToken)
	testutil.AssertStatus(t, w, http.StatusConflict)

	// Exactly one row for (r1, r2), none for the reverse pair
	var forward, reverse int
	if err := conn.QueryRow(`
		SELECT COUNT(*) FROM reference_link
		WHERE source_reference_id = $1 AND target_reference_id = $2
	`, r1, r2).Scan(&forward); err != nil {
		t.Fatalf("Failed to count links: %v", err)
	}
	if err := conn.QueryRow(`
		SELECT COUNT(*) FROM reference_link
		WHERE source_reference_id = $1 AND target_reference_id = $2
	`, r2, r1).Scan(&reverse); err != nil {
		t.Fatalf("Failed to count links: %v", err)
	}
	if forward != 1 || reverse != 0 {
		t.Errorf("Link rows: got forward=%d reverse=%d, want 1/0", forward, reverse)
	}

	// The reverse direction is a distinct edge and may be created explicitly
	w = postLink(t, handler, r2, r1, sessionToken)
	testutil.AssertStatus(t, w, http.StatusCreated)
}

func TestLinkReferenceErrors(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewLinkHandler(conn, cfg)

	accountID, sessionToken := testutil.CreateTestAccount(t, conn, "alice@example.com")
	chapterID := testutil.CreateTestChapter(t, conn, "Chapter 1", 1)
	r1 := testutil.CreateTestReference(t, conn, chapterID, accountID, 10, "R1")

	tests := []struct {
		name           string
		sourceID       string
		targetID       string
		sessionToken   string
		expectedStatus int
	}{
		{
			name:           "self link",
			sourceID:       r1,
			targetID:       r1,
			sessionToken:   sessionToken,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "missing target id",
			sourceID:       r1,
			targetID:       "",
			sessionToken:   sessionToken,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "source not found",
			sourceID:       "no-such-reference",
			targetID:       r1,
			sessionToken:   sessionToken,
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "target not found",
			sourceID:       r1,
			targetID:       "no-such-reference",
			sessionToken:   sessionToken,
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "no session",
			sourceID:       r1,
			targetID:       "anything",
			sessionToken:   "",
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postLink(t, handler, tt.sourceID, tt.targetID, tt.sessionToken)
			testutil.AssertStatus(t, w, tt.expectedStatus)
		})
	}
}

func TestListLinksOutgoingOnly(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewLinkHandler(conn, cfg)

	accountID, sessionToken := testutil.CreateTestAccount(t, conn, "alice@example.com")
	chapterID := testutil.CreateTestChapter(t, conn, "Chapter 1", 1)
	r1 := testutil.CreateTestReference(t, conn, chapterID, accountID, 10, "R1")
	r2 := testutil.CreateTestReference(t, conn, chapterID, accountID, 20, "R2")
	r3 := testutil.CreateTestReference(t, conn, chapterID, accountID, 30, "R3")

	// r1 -> r2 and r3 -> r1
	postLink(t, handler, r1, r2, sessionToken)
	postLink(t, handler, r3, r1, sessionToken)

	req := testutil.MakeRequest("GET", "/references/"+r1+"/links", nil, nil)
	req.SetPathValue("id", r1)
	w := httptest.NewRecorder()
	handler.ListLinks(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var refs []models.Reference
	testutil.AssertJSON(t, w, &refs)
	if len(refs) != 1 {
		t.Fatalf("Expected 1 outgoing link, got %d", len(refs))
	}
	if refs[0].ID != r2 {
		t.Errorf("Outgoing link target: got %s, want %s", refs[0].ID, r2)
	}
}

func TestConnectReferenceToEntity(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewLinkHandler(conn, cfg)

	accountID, sessionToken := testutil.CreateTestAccount(t, conn, "alice@example.com")
	chapterID := testutil.CreateTestChapter(t, conn, "Chapter 1", 1)
	referenceID := testutil.CreateTestReference(t, conn, chapterID, accountID, 10, "R1")
	entityID := testutil.CreateTestEntity(t, conn, models.KindCharacter, "Shmulik", accountID)

	connect := func(kind, entity string) *httptest.ResponseRecorder {
		req := testutil.MakeRequest("POST", "/references/"+referenceID+"/connections",
			models.ConnectEntityRequest{EntityKind: kind, EntityID: entity},
			map[string]string{"X-Session-Token": sessionToken})
		req.SetPathValue("id", referenceID)
		w := httptest.NewRecorder()
		handler.Connect(w, req)
		return w
	}

	w := connect(models.KindCharacter, entityID)
	testutil.AssertStatus(t, w, http.StatusCreated)

	// Duplicate triple is a conflict
	w = connect(models.KindCharacter, entityID)
	testutil.AssertStatus(t, w, http.StatusConflict)

	var rows int
	if err := conn.QueryRow(`
		SELECT COUNT(*) FROM reference_connection
		WHERE entity_kind = $1 AND entity_id = $2 AND reference_id = $3
	`, models.KindCharacter, entityID, referenceID).Scan(&rows); err != nil {
		t.Fatalf("Failed to count connections: %v", err)
	}
	if rows != 1 {
		t.Errorf("Connection rows: got %d, want 1", rows)
	}

	// Unknown kind and unknown entity
	w = connect("villain", entityID)
	testutil.AssertStatus(t, w, http.StatusBadRequest)
	w = connect(models.KindProgram, entityID)
	testutil.AssertStatus(t, w, http.StatusNotFound)
}

func TestListEntityReferences(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewLinkHandler(conn, cfg)

	accountID, sessionToken := testutil.CreateTestAccount(t, conn, "alice@example.com")
	chapterID := testutil.CreateTestChapter(t, conn, "Chapter 1", 1)
	entityID := testutil.CreateTestEntity(t, conn, models.KindAdvertisement, "Cornflakes spot", accountID)

	r1 := testutil.CreateTestReference(t, conn, chapterID, accountID, 200, "Late mention")
	r2 := testutil.CreateTestReference(t, conn, chapterID, accountID, 50, "Early mention")
	testutil.CreateTestReference(t, conn, chapterID, accountID, 120, "Unconnected")

	for _, ref := range []string{r1, r2} {
		req := testutil.MakeRequest("POST", "/references/"+ref+"/connections",
			models.ConnectEntityRequest{EntityKind: models.KindAdvertisement, EntityID: entityID},
			map[string]string{"X-Session-Token": sessionToken})
		req.SetPathValue("id", ref)
		w := httptest.NewRecorder()
		handler.Connect(w, req)
		testutil.AssertStatus(t, w, http.StatusCreated)
	}

	req := testutil.MakeRequest("GET", "/entities/advertisement/"+entityID+"/references", nil, nil)
	req.SetPathValue("kind", models.KindAdvertisement)
	req.SetPathValue("id", entityID)
	w := httptest.NewRecorder()
	handler.ListEntityReferences(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var refs []models.Reference
	testutil.AssertJSON(t, w, &refs)
	if len(refs) != 2 {
		t.Fatalf("Expected 2 connected references, got %d", len(refs))
	}
	// Batch fetch comes back in timestamp order
	if refs[0].ID != r2 || refs[1].ID != r1 {
		t.Errorf("Connected references out of order: got [%s %s]", refs[0].ID, refs[1].ID)
	}
}
