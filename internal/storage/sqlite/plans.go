package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/planmyoutings/outings/internal/models"
)

// AddPlans inserts the batch of plans atomically into the given group.
// Place payloads are stored as the submitted JSON text and must round-trip
// exactly, so no normalization happens here. Repeated calls with identical
// titles create distinct rows.
func (s *SQLiteStore) AddPlans(ctx context.Context, groupID string, plans []*models.Plan) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().Unix()
	for _, plan := range plans {
		if plan.ID == "" {
			plan.ID = uuid.New().String()
		}
		plan.GroupID = groupID
		if plan.CreatedAt == 0 {
			plan.CreatedAt = now
		}

		place := plan.Place
		if len(place) == 0 {
			place = json.RawMessage("{}")
		}

		_, err = tx.ExecContext(ctx,
			"INSERT INTO plans (id, group_id, title, place_json, created_at) VALUES (?, ?, ?, ?, ?)",
			plan.ID, plan.GroupID, plan.Title, string(place), plan.CreatedAt,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to insert plan: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return len(plans), nil
}

// ListPlans returns every plan in the group with a vote count computed at
// read time, never cached, so the snapshot reflects all committed votes.
// Ordering by rowid preserves insertion order; created_at has only second
// resolution and ties within a batch.
func (s *SQLiteStore) ListPlans(ctx context.Context, groupID string) ([]models.PlanTally, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT p.id, p.group_id, p.title, p.place_json, p.created_at,
		        (SELECT COUNT(*) FROM votes v WHERE v.plan_id = p.id)
		 FROM plans p
		 WHERE p.group_id = ?
		 ORDER BY p.rowid`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	defer rows.Close()

	var tallies []models.PlanTally
	for rows.Next() {
		var t models.PlanTally
		var place string
		if err := rows.Scan(&t.ID, &t.GroupID, &t.Title, &place, &t.CreatedAt, &t.Votes); err != nil {
			return nil, fmt.Errorf("failed to scan plan: %w", err)
		}
		t.Place = json.RawMessage(place)
		tallies = append(tallies, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate plans: %w", err)
	}

	return tallies, nil
}
