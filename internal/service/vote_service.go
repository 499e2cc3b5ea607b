package service

import (
	"context"
	"log/slog"

	"github.com/planmyoutings/outings/internal/grouptoken"
	"github.com/planmyoutings/outings/internal/metrics"
	"github.com/planmyoutings/outings/internal/storage"
)

// VoteService is the vote ledger: the toggle state machine over
// (plan, user) pairs. It exposes no "set" operation: callers can only flip
// the current state, and the returned state plus fresh count is their view
// of the outcome.
type VoteService struct {
	store storage.Store
}

// NewVoteService creates a new VoteService with the given storage backend.
func NewVoteService(store storage.Store) *VoteService {
	return &VoteService{store: store}
}

// Toggle flips the vote of (planID, userID) within the group the token
// resolves to. Plan ids reached through another group's token are rejected
// with storage.ErrPlanNotFound. The returned count reflects the caller's
// just-applied change plus every other committed vote.
func (s *VoteService) Toggle(ctx context.Context, token, planID, userID string) (storage.VoteState, int, error) {
	group, err := s.store.GetGroupByToken(ctx, grouptoken.Normalize(token))
	if err != nil {
		return "", 0, err
	}

	state, count, err := s.store.ToggleVote(ctx, group.ID, planID, userID)
	if err != nil {
		if err != storage.ErrPlanNotFound {
			slog.Error("ToggleVote failed", "group_id", group.ID, "plan_id", planID, "user_id", userID, "error", err)
		}
		return "", 0, err
	}

	metrics.VotesToggled.WithLabelValues(string(state)).Inc()
	slog.Info("Vote toggled",
		"group_id", group.ID,
		"plan_id", planID,
		"user_id", userID,
		"state", state,
		"votes", count,
	)
	return state, count, nil
}
