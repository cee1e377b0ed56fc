// Copyright (c) 2026 Yekumot.
// MIT License; see LICENSE.

package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/yekumot/server/auth"
	"github.com/yekumot/server/models"
	"github.com/yekumot/server/testutil"
)

func TestHealthCheck(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	mux := NewRouter(conn, cfg)

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", w.Code)
	}
	if w.Body.String() != "OK" {
		t.Errorf("Expected OK body, got %s", w.Body.String())
	}
}

func TestMethodNotAllowed(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	mux := NewRouter(conn, cfg)

	req := httptest.NewRequest("DELETE", "/chapters", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected 405, got %d", w.Code)
	}
}

// TestFullWikiWorkflow drives the whole surface through the mux: an admin
// publishes a chapter, two fans sign up, one pins a reference, the other
// verifies it toward the quorum, a wiki entry is created, connected, and
// read back with its references.
func TestFullWikiWorkflow(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	mux := NewRouter(conn, cfg)

	do := func(method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
		req := testutil.MakeRequest(method, path, body, headers)
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, req)
		return w
	}

	// 1. Admin publishes a chapter
	adminKey := auth.GenerateAdminKey(cfg.AdminKeySalt)
	w := do("POST", "/chapters", models.CreateChapterRequest{
		Title:      "The Pilot",
		VideoURL:   "https://videos.example/pilot",
		OrderIndex: 1,
	}, map[string]string{"X-Admin-Key": adminKey})
	testutil.AssertStatus(t, w, http.StatusCreated)

	var chapter models.CreateChapterResponse
	testutil.AssertJSON(t, w, &chapter)

	// Without the key, chapter creation is rejected
	w = do("POST", "/chapters", models.CreateChapterRequest{
		Title:    "Bootleg",
		VideoURL: "https://videos.example/bootleg",
	}, nil)
	testutil.AssertStatus(t, w, http.StatusUnauthorized)

	// 2. Two fans sign up
	w = do("POST", "/auth/signup", models.SignupRequest{
		Email: "noa@example.com", Password: "a-fine-password",
	}, nil)
	testutil.AssertStatus(t, w, http.StatusCreated)
	var noa models.SignupResponse
	testutil.AssertJSON(t, w, &noa)

	w = do("POST", "/auth/signup", models.SignupRequest{
		Email: "tamar@example.com", Password: "a-fine-password",
	}, nil)
	testutil.AssertStatus(t, w, http.StatusCreated)
	var tamar models.SignupResponse
	testutil.AssertJSON(t, w, &tamar)

	noaAuth := map[string]string{"X-Session-Token": noa.SessionToken}
	tamarAuth := map[string]string{"X-Session-Token": tamar.SessionToken}

	// 3. Noa pins a reference
	w = do("POST", "/chapters/"+chapter.ChapterID+"/references", models.CreateReferenceRequest{
		TsSeconds: 73,
		Title:     "First appearance of the red phone",
	}, noaAuth)
	testutil.AssertStatus(t, w, http.StatusCreated)
	var ref models.CreateReferenceResponse
	testutil.AssertJSON(t, w, &ref)

	// 4. Noa cannot verify her own reference; Tamar can
	w = do("POST", "/references/"+ref.ReferenceID+"/verify", nil, noaAuth)
	testutil.AssertStatus(t, w, http.StatusForbidden)

	w = do("POST", "/references/"+ref.ReferenceID+"/verify", nil, tamarAuth)
	testutil.AssertStatus(t, w, http.StatusOK)
	var verify models.VerifyResponse
	testutil.AssertJSON(t, w, &verify)
	if verify.VerificationCount != 1 || verify.Verified {
		t.Errorf("After one vote: got count=%d verified=%v", verify.VerificationCount, verify.Verified)
	}

	// 5. Tamar creates a wiki entry and earns create points
	w = do("POST", "/entities/universe_item", models.CreateEntityRequest{
		Title:   "The red phone",
		Content: "## History\nIt rings at the worst moments.",
	}, tamarAuth)
	testutil.AssertStatus(t, w, http.StatusCreated)
	var entity models.CreateEntityResponse
	testutil.AssertJSON(t, w, &entity)

	w = do("GET", "/profiles/"+tamar.AccountID, nil, nil)
	testutil.AssertStatus(t, w, http.StatusOK)
	var profile models.Profile
	testutil.AssertJSON(t, w, &profile)
	if profile.Points != models.PointsEntityCreate {
		t.Errorf("Creator points: got %d, want %d", profile.Points, models.PointsEntityCreate)
	}
	if profile.Username != "tamar" {
		t.Errorf("Username: got %q, want tamar", profile.Username)
	}

	// 6. Noa connects the reference to the entry
	w = do("POST", "/references/"+ref.ReferenceID+"/connections", models.ConnectEntityRequest{
		EntityKind: models.KindUniverseItem,
		EntityID:   entity.EntityID,
	}, noaAuth)
	testutil.AssertStatus(t, w, http.StatusCreated)

	// 7. The entry's reference list includes Noa's pin
	w = do("GET", "/entities/universe_item/"+entity.EntityID+"/references", nil, nil)
	testutil.AssertStatus(t, w, http.StatusOK)
	var refs []models.Reference
	testutil.AssertJSON(t, w, &refs)
	if len(refs) != 1 || refs[0].ID != ref.ReferenceID {
		t.Fatalf("Connected references: got %+v", refs)
	}
	if refs[0].CreatorName != "noa" {
		t.Errorf("Creator name: got %q, want noa", refs[0].CreatorName)
	}

	// 8. Reading the entry bumps its view count and splits sections
	w = do("GET", "/entities/universe_item/"+entity.EntityID, nil, nil)
	testutil.AssertStatus(t, w, http.StatusOK)
	var detail models.EntityDetail
	testutil.AssertJSON(t, w, &detail)
	if detail.ViewCount != 1 {
		t.Errorf("View count: got %d, want 1", detail.ViewCount)
	}
	if len(detail.Sections) != 1 || detail.Sections[0].Heading != "History" {
		t.Errorf("Sections: got %+v", detail.Sections)
	}

	// 9. Chapter listing shows the published chapter
	w = do("GET", "/chapters", nil, nil)
	testutil.AssertStatus(t, w, http.StatusOK)
	var chapters []models.Chapter
	testutil.AssertJSON(t, w, &chapters)
	if len(chapters) != 1 || chapters[0].Title != "The Pilot" {
		t.Errorf("Chapters: got %+v", chapters)
	}
}
