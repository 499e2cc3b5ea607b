package models

import "encoding/json"

// Plan is a candidate outing proposed to a group. Plans are immutable once
// created; there is no edit or delete operation.
type Plan struct {
	// ID is the unique identifier for the plan (UUID format).
	ID string

	// GroupID is the group this plan belongs to.
	GroupID string

	// Title is the human-readable name shown on ballots.
	Title string

	// Place is the venue payload. The core treats it as an uninterpreted
	// blob: it is stored and returned byte-for-byte as submitted. The
	// conventional minimal shape is {name, address, lat, lon}.
	Place json.RawMessage

	// CreatedAt is the Unix timestamp when the plan was created.
	CreatedAt int64
}

// PlanTally is a plan together with its live vote count, as returned by
// group snapshots and vote operations.
type PlanTally struct {
	Plan
	Votes int
}

// Vote records that a user has voted for a plan. The row's existence is the
// vote; there is no weight or ranking.
type Vote struct {
	PlanID    string
	UserID    string
	CreatedAt int64
}

// GroupSnapshot is a point-in-time aggregated read of a group's plans and
// vote counts.
type GroupSnapshot struct {
	Group Group
	Plans []PlanTally
}

// Place is the decoded form of the conventional place payload. The suggest
// pipeline produces it; the catalog never depends on it.
type Place struct {
	Name    string  `json:"name"`
	Address string  `json:"address,omitempty"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}
