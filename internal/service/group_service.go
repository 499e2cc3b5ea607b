// Package service implements the application operations over the storage
// layer: group coordination, the plan catalog, the vote ledger, the
// suggestion pipeline, accounts and events. Services are stateless between
// calls; every bit of shared state lives in the store.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/planmyoutings/outings/internal/grouptoken"
	"github.com/planmyoutings/outings/internal/models"
	"github.com/planmyoutings/outings/internal/storage"
)

// tokenRetries bounds collision retries during group creation. With 8 hex
// chars of entropy exhausting this is effectively unreachable.
const tokenRetries = 5

// GroupService coordinates group creation, token issuance, membership and
// aggregated snapshots.
type GroupService struct {
	store storage.Store
}

// NewGroupService creates a new GroupService with the given storage backend.
func NewGroupService(store storage.Store) *GroupService {
	return &GroupService{store: store}
}

// Create creates a group with a freshly issued unique token. When creatorID
// is set the creator becomes the first member.
func (s *GroupService) Create(ctx context.Context, name, creatorID string) (*models.Group, error) {
	var lastErr error
	for attempt := 0; attempt < tokenRetries; attempt++ {
		token, err := grouptoken.New()
		if err != nil {
			return nil, err
		}

		group := &models.Group{Token: token, Name: name, CreatorID: creatorID}
		err = s.store.CreateGroup(ctx, group)
		if err == storage.ErrTokenCollision {
			lastErr = err
			continue
		}
		if err != nil {
			slog.Error("CreateGroup failed", "name", name, "error", err)
			return nil, err
		}

		slog.Info("Group created", "group_id", group.ID, "token", group.Token)
		return group, nil
	}
	return nil, fmt.Errorf("failed to issue a unique group token: %w", lastErr)
}

// Join adds the user to the group identified by token. Unknown tokens and
// duplicate joins surface as the distinct storage sentinels.
func (s *GroupService) Join(ctx context.Context, token, userID string) error {
	group, err := s.store.GetGroupByToken(ctx, grouptoken.Normalize(token))
	if err != nil {
		return err
	}

	if err := s.store.AddMember(ctx, group.ID, userID); err != nil {
		if err == storage.ErrAlreadyMember {
			slog.Info("Join rejected, already a member", "group_id", group.ID, "user_id", userID)
		} else {
			slog.Error("Join failed", "group_id", group.ID, "user_id", userID, "error", err)
		}
		return err
	}

	slog.Info("Member joined", "group_id", group.ID, "user_id", userID)
	return nil
}

// Snapshot returns the group and every plan with a live vote count computed
// at read time, reflecting the plan catalog and the vote ledger at that
// instant.
func (s *GroupService) Snapshot(ctx context.Context, token string) (*models.GroupSnapshot, error) {
	group, err := s.store.GetGroupByToken(ctx, grouptoken.Normalize(token))
	if err != nil {
		return nil, err
	}

	plans, err := s.store.ListPlans(ctx, group.ID)
	if err != nil {
		slog.Error("Snapshot failed", "group_id", group.ID, "error", err)
		return nil, err
	}

	return &models.GroupSnapshot{Group: *group, Plans: plans}, nil
}

// ListForUser returns every group the user is a member of.
func (s *GroupService) ListForUser(ctx context.Context, userID string) ([]*models.Group, error) {
	return s.store.ListUserGroups(ctx, userID)
}
