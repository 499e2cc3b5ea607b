package models

// RSVP statuses for event participants.
const (
	StatusAttending    = "attending"
	StatusMaybe        = "maybe"
	StatusNotAttending = "not_attending"
)

// ValidRSVPStatus reports whether s is one of the allowed RSVP statuses.
func ValidRSVPStatus(s string) bool {
	switch s {
	case StatusAttending, StatusMaybe, StatusNotAttending:
		return true
	}
	return false
}

// Event is a scheduled outing created by a user, optionally attached to a
// group so members can find it.
type Event struct {
	// ID is the unique identifier for the event (UUID format).
	ID string

	// CreatorID is the user who created the event. The creator is recorded
	// as the first attending participant.
	CreatorID string

	// GroupID is the group this event is attached to, empty if standalone.
	GroupID string

	// Title is the display name of the event.
	Title string

	// StartsAt is the Unix timestamp when the event begins.
	StartsAt int64

	// Type categorizes the event (e.g., "Restaurant", "Movie", "Outdoor Activity").
	Type string

	// Location is the free-text venue description.
	Location string

	// DurationHours is the planned duration.
	DurationHours float64

	// Description is optional free text.
	Description string

	// CostEstimate is the estimated per-person cost, 0 if unknown.
	CostEstimate float64

	// MaxParticipants caps attendance, 0 for unlimited.
	MaxParticipants int

	// CreatedAt is the Unix timestamp when the event was created.
	CreatedAt int64
}

// EventParticipant records a user's RSVP for an event. Upserting the same
// (event, user) pair replaces the status.
type EventParticipant struct {
	EventID  string
	UserID   string
	Status   string
	JoinedAt int64
}
