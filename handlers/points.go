// Copyright (c) 2026 Yekumot.
// MIT License; see LICENSE.

package handlers

import (
	"github.com/google/uuid"
)

// awardPoints credits a fixed point amount to an account's profile for a
// completed contribution action. The ledger row is keyed on
// (account, action, subject), so replaying the same logical action never
// double-credits: the balance only moves when the ledger insert lands.
// The caller's profile row must already exist (see ensureProfile) and the
// caller is expected to run this inside the same transaction as the action
// being rewarded.
func awardPoints(q dbtx, accountID, action, subjectID string, points int) error {
	res, err := q.Exec(`
		INSERT INTO point_award (id, account_id, action, subject_id, points)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT DO NOTHING
	`, uuid.NewString(), accountID, action, subjectID, points)
	if err != nil {
		return err
	}

	inserted, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if inserted == 0 {
		// Already awarded for this action and subject.
		return nil
	}

	_, err = q.Exec(`
		UPDATE profile SET points = points + $1 WHERE id = $2
	`, points, accountID)
	return err
}
