// Package models defines the core domain models for PlanMyOutings.
//
// The collaborative core is Group -> Plan -> Vote: a group of users shares a
// short token, any member proposes plans (candidate venues), and members
// toggle votes until the group converges on a choice.
//
//   - User: registered account; memberships and votes reference its ID.
//   - Group: outing group identified by a shareable token.
//   - Plan: candidate outing scoped to one group, carrying an opaque place
//     payload that round-trips exactly as submitted.
//   - Vote: (plan, user) relation; existence is the vote. At most one row
//     per pair at any time.
//   - Event: scheduled outing with RSVP tracking, optionally attached to a
//     group.
//
// Relationships use ID strings rather than pointers to avoid circular
// references. IDs are UUIDs; the group token is a separate short code.
package models
