// Copyright (c) 2026 Yekumot.
// MIT License; see LICENSE.

package models

import "time"

// Wiki entity kinds. Each kind is a structurally identical content record;
// they share one table with entity_kind as the discriminator.
const (
	KindCharacter     = "character"
	KindProgram       = "program"
	KindAdvertisement = "advertisement"
	KindConcept       = "concept"
	KindUniverseItem  = "universe_item"
)

// EntityKinds lists every valid wiki entity kind.
var EntityKinds = []string{
	KindCharacter,
	KindProgram,
	KindAdvertisement,
	KindConcept,
	KindUniverseItem,
}

// ValidKind reports whether kind names a wiki entity kind.
func ValidKind(kind string) bool {
	for _, k := range EntityKinds {
		if k == kind {
			return true
		}
	}
	return false
}

// VerificationQuorum is the distinct-voter count that flips a reference
// to verified.
const VerificationQuorum = 2

// ReferenceWindowSeconds is the exclusion window around an existing
// reference's timestamp: no second reference may land within ±3 seconds
// of it on the same chapter.
const ReferenceWindowSeconds = 3

// Point award actions and tariffs.
const (
	ActionEntityCreate = "entity_create"
	ActionEntityEdit   = "entity_edit"

	PointsEntityCreate = 10
	PointsEntityEdit   = 2
)

// AnonymousName is shown when a reference has no surviving creator.
const AnonymousName = "Anonymous"

// Request types

type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type CreateChapterRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	VideoURL    string `json:"video_url"`
	OrderIndex  int    `json:"order_index"`
}

type CreateReferenceRequest struct {
	TsSeconds   int    `json:"ts_seconds"`
	Title       string `json:"title"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
}

type LinkReferencesRequest struct {
	TargetReferenceID string `json:"target_reference_id"`
}

type ConnectEntityRequest struct {
	EntityKind string `json:"entity_kind"`
	EntityID   string `json:"entity_id"`
}

type CreateEntityRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Content     string `json:"content"`
	ImageURL    string `json:"image_url"`
}

// UpdateEntityRequest carries partial edits; nil fields are left untouched.
type UpdateEntityRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Content     *string `json:"content"`
	ImageURL    *string `json:"image_url"`
}

// Response types

type SignupResponse struct {
	AccountID    string `json:"account_id"`
	SessionToken string `json:"session_token"`
}

type LoginResponse struct {
	SessionToken string `json:"session_token"`
}

type CreateChapterResponse struct {
	ChapterID string `json:"chapter_id"`
}

type CreateReferenceResponse struct {
	ReferenceID string `json:"reference_id"`
}

type VerifyResponse struct {
	VerificationCount int  `json:"verification_count"`
	Verified          bool `json:"verified"`
}

type LinkReferencesResponse struct {
	LinkID string `json:"link_id"`
}

type ConnectEntityResponse struct {
	ConnectionID string `json:"connection_id"`
}

type CreateEntityResponse struct {
	EntityID string `json:"entity_id"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Domain types

type Chapter struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	VideoURL    string `json:"video_url"`
	OrderIndex  int    `json:"order_index"`
}

type Reference struct {
	ID                string    `json:"id"`
	ChapterID         string    `json:"chapter_id"`
	TsSeconds         int       `json:"ts_seconds"`
	Title             string    `json:"title"`
	Description       string    `json:"description"`
	ImageURL          string    `json:"image_url"`
	CreatedBy         *string   `json:"created_by,omitempty"`
	CreatorName       string    `json:"creator_name"`
	Verified          bool      `json:"verified"`
	VerificationCount int       `json:"verification_count"`
	CreatedAt         time.Time `json:"created_at"`
}

type ReferenceConnection struct {
	ID          string `json:"id"`
	EntityKind  string `json:"entity_kind"`
	EntityID    string `json:"entity_id"`
	ReferenceID string `json:"reference_id"`
	CreatedBy   string `json:"created_by"`
}

type WikiEntity struct {
	ID          string    `json:"id"`
	EntityKind  string    `json:"entity_kind"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Content     string    `json:"content"`
	ImageURL    string    `json:"image_url"`
	ViewCount   int       `json:"view_count"`
	Verified    bool      `json:"verified"`
	CreatedBy   string    `json:"created_by"`
	UpdatedBy   string    `json:"updated_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// EntitySummary is the list-view projection of a wiki entity.
type EntitySummary struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	ImageURL  string `json:"image_url"`
	ViewCount int    `json:"view_count"`
}

// EntityDetail is a full entity plus its parsed content sections.
type EntityDetail struct {
	WikiEntity
	Sections []Section `json:"sections"`
}

type Profile struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Points   int    `json:"points"`
}
