// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/planmyoutings/outings/internal/models"
)

// Sentinel errors returned by Store implementations. Services translate
// storage-layer integrity violations into these so callers can render a
// precise message instead of a generic failure.
var (
	ErrGroupNotFound = errors.New("group not found")
	ErrPlanNotFound  = errors.New("plan not found in group")
	ErrEventNotFound = errors.New("event not found")
	ErrUserNotFound  = errors.New("user not found")

	ErrAlreadyMember  = errors.New("already a member of this group")
	ErrTokenCollision = errors.New("group token already exists")
	ErrUsernameTaken  = errors.New("username already exists")
	ErrEmailTaken     = errors.New("email already registered")
	ErrMobileTaken    = errors.New("mobile number already registered")
)

// VoteState is the post-toggle state of a (plan, user) pair.
type VoteState string

const (
	Voted   VoteState = "voted"
	Unvoted VoteState = "unvoted"
)

// Store defines the interface for the durable group/plan/vote state.
// All mutations of the shared tables go through this interface; presentation
// code never writes to storage directly, which is what preserves the stated
// invariants under concurrent requests.
type Store interface {
	// CreateUser persists a new user. Uniqueness violations are reported as
	// ErrUsernameTaken, ErrEmailTaken or ErrMobileTaken.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByIdentifier retrieves a user by username, email or mobile.
	// Returns ErrUserNotFound if no user matches.
	GetUserByIdentifier(ctx context.Context, identifier string) (*models.User, error)

	// GetUserByID retrieves a user by ID. Returns ErrUserNotFound if absent.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// DeleteUser removes the user row. Votes, memberships and RSVPs made
	// under the ID are left in place. Returns ErrUserNotFound if absent.
	DeleteUser(ctx context.Context, id string) error

	// CreateGroup persists a new group with its pre-generated token and, when
	// group.CreatorID is set, the creator's membership, atomically.
	// A duplicate token is reported as ErrTokenCollision.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroupByToken resolves a share token (case-insensitive) to its group.
	// Returns ErrGroupNotFound for unknown tokens.
	GetGroupByToken(ctx context.Context, token string) (*models.Group, error)

	// AddMember inserts a membership row. Returns ErrGroupNotFound for an
	// unknown group and ErrAlreadyMember for a duplicate (group, user) pair.
	AddMember(ctx context.Context, groupID, userID string) error

	// ListMembers returns the memberships of a group in join order.
	ListMembers(ctx context.Context, groupID string) ([]models.Membership, error)

	// ListUserGroups returns every group the user belongs to.
	ListUserGroups(ctx context.Context, userID string) ([]*models.Group, error)

	// AddPlans inserts the batch of plans atomically into the given group and
	// returns the number inserted. No deduplication: identical titles create
	// distinct rows.
	AddPlans(ctx context.Context, groupID string, plans []*models.Plan) (int, error)

	// ListPlans returns every plan in the group with a vote count computed at
	// read time.
	ListPlans(ctx context.Context, groupID string) ([]models.PlanTally, error)

	// ToggleVote atomically flips the vote of (planID, userID) and returns
	// the new state along with a fresh vote count for the plan. The plan must
	// belong to groupID, otherwise ErrPlanNotFound is returned.
	ToggleVote(ctx context.Context, groupID, planID, userID string) (VoteState, int, error)

	// CountVotes returns the number of persisted votes for a plan.
	CountVotes(ctx context.Context, planID string) (int, error)

	// CreateEvent persists an event and the creator's attending RSVP
	// atomically.
	CreateEvent(ctx context.Context, event *models.Event) error

	// GetEvent retrieves an event by ID. Returns ErrEventNotFound if absent.
	GetEvent(ctx context.Context, eventID string) (*models.Event, error)

	// UpsertRSVP inserts or replaces the participant status for
	// (eventID, userID). Returns ErrEventNotFound for an unknown event.
	UpsertRSVP(ctx context.Context, eventID, userID, status string) error

	// ListParticipants returns the RSVPs for an event.
	ListParticipants(ctx context.Context, eventID string) ([]models.EventParticipant, error)

	// ListUserEvents returns events relevant to the user. Filter is one of
	// "created", "participating", "group" or "all".
	ListUserEvents(ctx context.Context, userID, filter string) ([]*models.Event, error)

	// Close releases any resources held by the store.
	Close() error
}
