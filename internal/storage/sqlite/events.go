package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/planmyoutings/outings/internal/models"
	"github.com/planmyoutings/outings/internal/storage"
)

// CreateEvent persists an event and records the creator as the first
// attending participant in the same transaction.
func (s *SQLiteStore) CreateEvent(ctx context.Context, event *models.Event) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.CreatedAt == 0 {
		event.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO events (id, creator_id, group_id, title, starts_at, event_type,
		                     location, duration_hours, description, cost_estimate,
		                     max_participants, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		event.ID, event.CreatorID, event.GroupID, event.Title, event.StartsAt,
		event.Type, event.Location, event.DurationHours, event.Description,
		event.CostEstimate, event.MaxParticipants, event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO event_participants (event_id, user_id, status, joined_at) VALUES (?, ?, ?, ?)",
		event.ID, event.CreatorID, models.StatusAttending, event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert creator participation: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetEvent retrieves an event by ID.
func (s *SQLiteStore) GetEvent(ctx context.Context, eventID string) (*models.Event, error) {
	event := &models.Event{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, creator_id, group_id, title, starts_at, event_type, location,
		        duration_hours, description, cost_estimate, max_participants, created_at
		 FROM events WHERE id = ?`,
		eventID,
	).Scan(&event.ID, &event.CreatorID, &event.GroupID, &event.Title, &event.StartsAt,
		&event.Type, &event.Location, &event.DurationHours, &event.Description,
		&event.CostEstimate, &event.MaxParticipants, &event.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, storage.ErrEventNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	return event, nil
}

// UpsertRSVP inserts or replaces the participant status for (event, user).
// The upsert keeps RSVP idempotent: re-submitting a status is a no-op and
// changing it replaces the previous row.
func (s *SQLiteStore) UpsertRSVP(ctx context.Context, eventID, userID, status string) error {
	var one int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM events WHERE id = ?", eventID).Scan(&one)
	if err == sql.ErrNoRows {
		return storage.ErrEventNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to check event existence: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO event_participants (event_id, user_id, status, joined_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (event_id, user_id) DO UPDATE SET status = excluded.status`,
		eventID, userID, status, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert rsvp: %w", err)
	}

	return nil
}

// ListParticipants returns the RSVPs for an event.
func (s *SQLiteStore) ListParticipants(ctx context.Context, eventID string) ([]models.EventParticipant, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT event_id, user_id, status, joined_at FROM event_participants WHERE event_id = ? ORDER BY joined_at",
		eventID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	defer rows.Close()

	var participants []models.EventParticipant
	for rows.Next() {
		var p models.EventParticipant
		if err := rows.Scan(&p.EventID, &p.UserID, &p.Status, &p.JoinedAt); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		participants = append(participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate participants: %w", err)
	}

	return participants, nil
}

// ListUserEvents returns events relevant to a user. Filter selects events
// the user created, is participating in, that belong to the user's groups,
// or the union of all three.
func (s *SQLiteStore) ListUserEvents(ctx context.Context, userID, filter string) ([]*models.Event, error) {
	var query string
	var args []any

	switch filter {
	case "created":
		query = `SELECT DISTINCT e.* FROM events e
		         WHERE e.creator_id = ?
		         ORDER BY e.starts_at DESC`
		args = []any{userID}
	case "participating":
		query = `SELECT DISTINCT e.* FROM events e
		         JOIN event_participants ep ON e.id = ep.event_id
		         WHERE ep.user_id = ?
		         ORDER BY e.starts_at DESC`
		args = []any{userID}
	case "group":
		query = `SELECT DISTINCT e.* FROM events e
		         JOIN group_members gm ON e.group_id = gm.group_id
		         WHERE gm.user_id = ?
		         ORDER BY e.starts_at DESC`
		args = []any{userID}
	default: // "all"
		query = `SELECT DISTINCT e.* FROM events e
		         LEFT JOIN event_participants ep ON e.id = ep.event_id
		         LEFT JOIN group_members gm ON e.group_id = gm.group_id
		         WHERE e.creator_id = ? OR ep.user_id = ? OR gm.user_id = ?
		         ORDER BY e.starts_at DESC`
		args = []any{userID, userID, userID}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list user events: %w", err)
	}
	defer rows.Close()

	var events []*models.Event
	for rows.Next() {
		event := &models.Event{}
		if err := rows.Scan(&event.ID, &event.CreatorID, &event.GroupID, &event.Title,
			&event.StartsAt, &event.Type, &event.Location, &event.DurationHours,
			&event.Description, &event.CostEstimate, &event.MaxParticipants,
			&event.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate events: %w", err)
	}

	return events, nil
}
