package service

import (
	"context"
	"log/slog"

	"github.com/planmyoutings/outings/internal/grouptoken"
	"github.com/planmyoutings/outings/internal/models"
	"github.com/planmyoutings/outings/internal/storage"
)

// PlanService is the plan catalog: batch insertion of candidate plans into
// a group. Plans are immutable; there is no update or delete.
type PlanService struct {
	store storage.Store
}

// NewPlanService creates a new PlanService with the given storage backend.
func NewPlanService(store storage.Store) *PlanService {
	return &PlanService{store: store}
}

// NewPlan is one candidate in an add-plans batch.
type NewPlan struct {
	Title string
	Place []byte // opaque JSON payload, stored as-is
}

// Add resolves the token and inserts the batch atomically, returning the
// number inserted. Deduplication is deliberately absent: retried calls with
// identical titles create distinct rows.
func (s *PlanService) Add(ctx context.Context, token string, batch []NewPlan) (int, error) {
	group, err := s.store.GetGroupByToken(ctx, grouptoken.Normalize(token))
	if err != nil {
		return 0, err
	}

	plans := make([]*models.Plan, len(batch))
	for i, p := range batch {
		plans[i] = &models.Plan{Title: p.Title, Place: p.Place}
	}

	inserted, err := s.store.AddPlans(ctx, group.ID, plans)
	if err != nil {
		slog.Error("AddPlans failed", "group_id", group.ID, "count", len(batch), "error", err)
		return 0, err
	}

	slog.Info("Plans added", "group_id", group.ID, "inserted", inserted)
	return inserted, nil
}
