package models

// Group represents an outing group joined via a shared token.
//
// A group is immutable after creation except for membership growth; plans
// and votes hang off it but are modeled separately.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// Token is the short shareable code used to join and address the group.
	// Fixed-length uppercase hex; lookups are case-insensitive.
	Token string

	// Name is the display name of the group (e.g., "Friends Night").
	Name string

	// CreatorID is the user who created the group. The creator is also the
	// first member. Empty when the group was created anonymously.
	CreatorID string

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64
}

// Membership is the (group, user) join relation. At most one row exists per
// pair; a second join attempt is rejected with a distinct outcome.
type Membership struct {
	GroupID  string
	UserID   string
	JoinedAt int64
}
