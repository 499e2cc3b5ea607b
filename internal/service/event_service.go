package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/planmyoutings/outings/internal/grouptoken"
	"github.com/planmyoutings/outings/internal/models"
	"github.com/planmyoutings/outings/internal/storage"
)

// ErrInvalidRSVP is returned for a status outside the allowed enumeration.
var ErrInvalidRSVP = errors.New("status must be attending, maybe or not_attending")

// EventService manages scheduled outings and their RSVPs.
type EventService struct {
	store storage.Store
}

// NewEventService creates a new EventService with the given storage backend.
func NewEventService(store storage.Store) *EventService {
	return &EventService{store: store}
}

// Create persists an event. When token is non-empty the event is attached
// to that group; the creator is always recorded as attending.
func (s *EventService) Create(ctx context.Context, token string, event *models.Event) (*models.Event, error) {
	if token != "" {
		group, err := s.store.GetGroupByToken(ctx, grouptoken.Normalize(token))
		if err != nil {
			return nil, err
		}
		event.GroupID = group.ID
	}

	if err := s.store.CreateEvent(ctx, event); err != nil {
		slog.Error("CreateEvent failed", "creator_id", event.CreatorID, "error", err)
		return nil, err
	}

	slog.Info("Event created", "event_id", event.ID, "group_id", event.GroupID)
	return event, nil
}

// RSVP upserts the user's participation status for an event.
func (s *EventService) RSVP(ctx context.Context, eventID, userID, status string) error {
	if !models.ValidRSVPStatus(status) {
		return ErrInvalidRSVP
	}

	if err := s.store.UpsertRSVP(ctx, eventID, userID, status); err != nil {
		if err != storage.ErrEventNotFound {
			slog.Error("RSVP failed", "event_id", eventID, "user_id", userID, "error", err)
		}
		return err
	}

	slog.Info("RSVP recorded", "event_id", eventID, "user_id", userID, "status", status)
	return nil
}

// Participants returns the RSVPs for an event.
func (s *EventService) Participants(ctx context.Context, eventID string) ([]models.EventParticipant, error) {
	if _, err := s.store.GetEvent(ctx, eventID); err != nil {
		return nil, err
	}
	return s.store.ListParticipants(ctx, eventID)
}

// ListForUser returns the user's events under the given filter ("created",
// "participating", "group" or "all").
func (s *EventService) ListForUser(ctx context.Context, userID, filter string) ([]*models.Event, error) {
	switch filter {
	case "", "all", "created", "participating", "group":
	default:
		filter = "all"
	}
	return s.store.ListUserEvents(ctx, userID, filter)
}
