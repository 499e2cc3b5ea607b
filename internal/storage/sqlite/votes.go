package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/planmyoutings/outings/internal/models"
	"github.com/planmyoutings/outings/internal/storage"
)

// ToggleVote atomically flips the vote of (planID, userID) and returns the
// new state plus a fresh count taken inside the same transaction.
//
// The whole operation runs in one immediate transaction: the plan/group
// check, the delete-or-insert, and the count all see a consistent view, and
// concurrent toggles for the same pair queue on SQLite's write lock rather
// than interleaving. PRIMARY KEY (plan_id, user_id) guarantees that no
// sequence of operations can leave duplicate rows for a pair.
func (s *SQLiteStore) ToggleVote(ctx context.Context, groupID, planID, userID string) (storage.VoteState, int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Reject plan ids reached through the wrong group's token.
	var one int
	err = tx.QueryRowContext(ctx,
		"SELECT 1 FROM plans WHERE id = ? AND group_id = ?", planID, groupID,
	).Scan(&one)
	if err == sql.ErrNoRows {
		return "", 0, storage.ErrPlanNotFound
	}
	if err != nil {
		return "", 0, fmt.Errorf("failed to check plan: %w", err)
	}

	res, err := tx.ExecContext(ctx,
		"DELETE FROM votes WHERE plan_id = ? AND user_id = ?", planID, userID,
	)
	if err != nil {
		return "", 0, fmt.Errorf("failed to delete vote: %w", err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return "", 0, fmt.Errorf("failed to read rows affected: %w", err)
	}

	state := storage.Unvoted
	if deleted == 0 {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO votes (plan_id, user_id, created_at) VALUES (?, ?, ?)",
			planID, userID, time.Now().Unix(),
		)
		if err != nil {
			return "", 0, fmt.Errorf("failed to insert vote: %w", err)
		}
		state = storage.Voted
	}

	var count int
	if err := tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM votes WHERE plan_id = ?", planID,
	).Scan(&count); err != nil {
		return "", 0, fmt.Errorf("failed to count votes: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return state, count, nil
}

// CountVotes returns the number of persisted votes for a plan.
func (s *SQLiteStore) CountVotes(ctx context.Context, planID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM votes WHERE plan_id = ?", planID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count votes: %w", err)
	}
	return count, nil
}

// listVotes returns the vote rows for a plan. Used by tests to assert the
// at-most-one-row invariant directly.
func (s *SQLiteStore) listVotes(ctx context.Context, planID string) ([]models.Vote, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT plan_id, user_id, created_at FROM votes WHERE plan_id = ?", planID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list votes: %w", err)
	}
	defer rows.Close()

	var votes []models.Vote
	for rows.Next() {
		var v models.Vote
		if err := rows.Scan(&v.PlanID, &v.UserID, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan vote: %w", err)
		}
		votes = append(votes, v)
	}
	return votes, rows.Err()
}
