// Copyright (c) 2026 Yekumot.
// MIT License; see LICENSE.

package db

import (
	"errors"
	"strings"

	"github.com/lib/pq"
)

// IsUniqueViolation reports whether err is a unique-constraint violation
// from either supported driver. Postgres exposes a typed error code;
// the sqlite driver only gives us the message text.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
