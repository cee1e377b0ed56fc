// Copyright (c) 2026 Yekumot.
// MIT License; see LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/yekumot/server/cliparse"
	"github.com/yekumot/server/handlers"
	"github.com/yekumot/server/middleware"
)

func NewRouter(db *sql.DB, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	accountHandler := handlers.NewAccountHandler(db, cfg)
	chapterHandler := handlers.NewChapterHandler(db, cfg)
	referenceHandler := handlers.NewReferenceHandler(db, cfg)
	verificationHandler := handlers.NewVerificationHandler(db, cfg)
	linkHandler := handlers.NewLinkHandler(db, cfg)
	entityHandler := handlers.NewEntityHandler(db, cfg)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Accounts and sessions
	mux.HandleFunc("POST /auth/signup", middleware.WithLogging(accountHandler.Signup))
	mux.HandleFunc("POST /auth/login", middleware.WithLogging(accountHandler.Login))
	mux.HandleFunc("POST /auth/logout", middleware.WithLogging(accountHandler.Logout))
	mux.HandleFunc("GET /auth/me", middleware.WithLogging(accountHandler.Me))
	mux.HandleFunc("GET /profiles/{id}", middleware.WithLogging(accountHandler.GetProfile))

	// Chapters (creation is admin-only)
	mux.HandleFunc("GET /chapters", middleware.WithLogging(chapterHandler.List))
	mux.HandleFunc("POST /chapters", middleware.WithLogging(chapterHandler.Create))
	mux.HandleFunc("GET /chapters/{id}", middleware.WithLogging(chapterHandler.Get))

	// References
	mux.HandleFunc("POST /chapters/{id}/references", middleware.WithLogging(referenceHandler.Create))
	mux.HandleFunc("GET /chapters/{id}/references", middleware.WithLogging(referenceHandler.ListByChapter))
	mux.HandleFunc("GET /references/{id}", middleware.WithLogging(referenceHandler.Get))

	// Verification
	mux.HandleFunc("POST /references/{id}/verify", middleware.WithLogging(verificationHandler.Cast))

	// Cross-links
	mux.HandleFunc("POST /references/{id}/links", middleware.WithLogging(linkHandler.CreateLink))
	mux.HandleFunc("GET /references/{id}/links", middleware.WithLogging(linkHandler.ListLinks))
	mux.HandleFunc("POST /references/{id}/connections", middleware.WithLogging(linkHandler.Connect))
	mux.HandleFunc("GET /entities/{kind}/{id}/references", middleware.WithLogging(linkHandler.ListEntityReferences))

	// Wiki entities
	mux.HandleFunc("GET /entities/{kind}", middleware.WithLogging(entityHandler.List))
	mux.HandleFunc("POST /entities/{kind}", middleware.WithLogging(entityHandler.Create))
	mux.HandleFunc("GET /entities/{kind}/{id}", middleware.WithLogging(entityHandler.Get))
	mux.HandleFunc("PUT /entities/{kind}/{id}", middleware.WithLogging(entityHandler.Update))
	mux.HandleFunc("DELETE /entities/{kind}/{id}", middleware.WithLogging(entityHandler.Delete))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("yekumot API v1"))
	})

	return mux
}
