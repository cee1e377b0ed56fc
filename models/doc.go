// Copyright (c) 2026 Yekumot.
// MIT License; see LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Domain Types

  - Chapter: a video chapter in catalog order
  - Reference: a timestamped pointer into a chapter, with its cached
    verification state
  - ReferenceConnection: a typed association between a reference and a
    wiki entity
  - WikiEntity: a user-editable content record; the five kinds (character,
    program, advertisement, concept, universe_item) are structurally
    identical and share this type
  - Profile: username and point balance for an account
  - Section: one "## "-delimited block of entity content

# Constants

Entity kinds:

	KindCharacter, KindProgram, KindAdvertisement, KindConcept, KindUniverseItem

Business rules:

	VerificationQuorum      = 2  // distinct voters to flip verified
	ReferenceWindowSeconds  = 3  // ± exclusion window per chapter
	PointsEntityCreate      = 10
	PointsEntityEdit        = 2
*/
package models
