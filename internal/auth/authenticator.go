package auth

import (
	"context"

	"github.com/planmyoutings/outings/internal/models"
)

// Authenticator defines the interface for authentication implementations.
// This abstraction allows swapping between different auth methods (password,
// passkeys, OAuth, etc.) without changing the service layer code.
type Authenticator interface {
	// Register creates a new user account. Registration holds the uniqueness
	// rules for username, email and mobile; duplicates surface as distinct
	// errors so the caller can render an accurate message.
	Register(ctx context.Context, reg Registration) (*models.User, error)

	// Authenticate verifies the credentials and returns the user if valid.
	// The identifier may be a username, email address or mobile number.
	Authenticate(ctx context.Context, identifier, credential string) (*models.User, error)

	// ValidateCredential checks if the credential meets the implementation's
	// requirements (length, character classes, etc.).
	ValidateCredential(credential string) error

	// Delete removes the account. Content the user produced (votes,
	// memberships, RSVPs) stays behind under the now-orphaned ID.
	Delete(ctx context.Context, userID string) error
}

// Registration carries the fields of a new account request. Email and
// Mobile are optional; empty values skip the uniqueness checks.
type Registration struct {
	Username string
	Name     string
	Password string
	Email    string
	Mobile   string
	Age      int
	Gender   string
}
