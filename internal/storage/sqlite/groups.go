package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/planmyoutings/outings/internal/models"
	"github.com/planmyoutings/outings/internal/storage"
)

// CreateGroup persists a new group and, when a creator is set, the creator's
// membership in the same transaction. The token must be generated by the
// caller; a collision with an existing token is reported as
// storage.ErrTokenCollision so the caller can retry with a fresh one.
func (s *SQLiteStore) CreateGroup(ctx context.Context, group *models.Group) error {
	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	if group.CreatedAt == 0 {
		group.CreatedAt = time.Now().Unix()
	}
	group.Token = strings.ToUpper(group.Token)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO groups (id, token, name, creator_id, created_at) VALUES (?, ?, ?, ?, ?)",
		group.ID, group.Token, group.Name, group.CreatorID, group.CreatedAt,
	)
	if uniqueViolation(err, "groups.token") {
		return storage.ErrTokenCollision
	}
	if err != nil {
		return fmt.Errorf("failed to insert group: %w", err)
	}

	// Creator is also the first member.
	if group.CreatorID != "" {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO group_members (group_id, user_id, joined_at) VALUES (?, ?, ?)",
			group.ID, group.CreatorID, group.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert creator membership: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetGroupByToken resolves a share token to its group. Tokens are stored
// uppercase; lookup normalizes case so pasted tokens always match.
func (s *SQLiteStore) GetGroupByToken(ctx context.Context, token string) (*models.Group, error) {
	group := &models.Group{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, token, name, creator_id, created_at FROM groups WHERE token = ?",
		strings.ToUpper(token),
	).Scan(&group.ID, &group.Token, &group.Name, &group.CreatorID, &group.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, storage.ErrGroupNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}

	return group, nil
}

// AddMember inserts a membership row. The (group_id, user_id) primary key
// enforces at most one membership per pair; the constraint hit is translated
// into storage.ErrAlreadyMember.
func (s *SQLiteStore) AddMember(ctx context.Context, groupID, userID string) error {
	var one int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM groups WHERE id = ?", groupID).Scan(&one)
	if err == sql.ErrNoRows {
		return storage.ErrGroupNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to check group existence: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO group_members (group_id, user_id, joined_at) VALUES (?, ?, ?)",
		groupID, userID, time.Now().Unix(),
	)
	if uniqueViolation(err, "group_members") {
		return storage.ErrAlreadyMember
	}
	if err != nil {
		return fmt.Errorf("failed to insert membership: %w", err)
	}

	return nil
}

// ListMembers returns the memberships of a group in join order.
func (s *SQLiteStore) ListMembers(ctx context.Context, groupID string) ([]models.Membership, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT group_id, user_id, joined_at FROM group_members WHERE group_id = ? ORDER BY joined_at",
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	var members []models.Membership
	for rows.Next() {
		var m models.Membership
		if err := rows.Scan(&m.GroupID, &m.UserID, &m.JoinedAt); err != nil {
			return nil, fmt.Errorf("failed to scan membership: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate members: %w", err)
	}

	return members, nil
}

// ListUserGroups returns every group the user belongs to.
func (s *SQLiteStore) ListUserGroups(ctx context.Context, userID string) ([]*models.Group, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT g.id, g.token, g.name, g.creator_id, g.created_at
		 FROM groups g
		 JOIN group_members gm ON g.id = gm.group_id
		 WHERE gm.user_id = ?
		 ORDER BY gm.joined_at`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list user groups: %w", err)
	}
	defer rows.Close()

	var groups []*models.Group
	for rows.Next() {
		group := &models.Group{}
		if err := rows.Scan(&group.ID, &group.Token, &group.Name, &group.CreatorID, &group.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, group)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate groups: %w", err)
	}

	return groups, nil
}
