// Copyright (c) 2026 Yekumot.
// MIT License; see LICENSE.

/*
Package router defines HTTP routes for the Yekumot API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(db, cfg)

# Endpoints

Health:

	GET /health

Accounts and sessions:

	POST /auth/signup   - Create account, returns session token
	POST /auth/login    - Sign in
	POST /auth/logout   - Invalidate session
	GET  /auth/me       - Current profile (created lazily)
	GET  /profiles/{id} - Public profile

Chapters (creation requires X-Admin-Key):

	GET  /chapters
	POST /chapters
	GET  /chapters/{id}

References and verification (writes require X-Session-Token):

	POST /chapters/{id}/references - Create timestamped reference
	GET  /chapters/{id}/references - List by timestamp
	GET  /references/{id}
	POST /references/{id}/verify   - Cast a verification

Cross-links:

	POST /references/{id}/links          - Link to another reference
	GET  /references/{id}/links          - Outgoing links
	POST /references/{id}/connections    - Connect to a wiki entity
	GET  /entities/{kind}/{id}/references - References connected to an entity

Wiki entities:

	GET    /entities/{kind}
	POST   /entities/{kind}
	GET    /entities/{kind}/{id}      - Increments view_count
	PUT    /entities/{kind}/{id}
	DELETE /entities/{kind}/{id}      - Creator only
*/
package router
