package auth

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/planmyoutings/outings/internal/models"
	"github.com/planmyoutings/outings/internal/storage"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrMissingFields      = errors.New("username, name and password are required")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrInvalidMobile      = errors.New("invalid mobile number")
)

var (
	emailPattern  = regexp.MustCompile(`^[\w.-]+@[\w.-]+\.\w+$`)
	mobilePattern = regexp.MustCompile(`^\+?[0-9]{10,15}$`)
	upperPattern  = regexp.MustCompile(`[A-Z]`)
	lowerPattern  = regexp.MustCompile(`[a-z]`)
	// Any printable non-alphanumeric counts as a special character.
	specialPattern = regexp.MustCompile(`[!@#$%^&*()_+\-=\[\]{};:'",.<>?/\\|` + "`" + `~]`)
)

// PasswordError collects every rule a candidate password violates, so the
// caller can show all of them at once instead of one per attempt.
type PasswordError struct {
	Problems []string
}

func (e *PasswordError) Error() string {
	return "weak password: " + strings.Join(e.Problems, "; ")
}

// PasswordAuthenticator implements password-based authentication using bcrypt.
type PasswordAuthenticator struct {
	store storage.Store
}

// NewPasswordAuthenticator creates a new password-based authenticator backed
// by the given store.
func NewPasswordAuthenticator(store storage.Store) *PasswordAuthenticator {
	return &PasswordAuthenticator{store: store}
}

// ValidateCredential checks the password rules: more than 5 characters, at
// least one uppercase, one lowercase and one special character, no spaces.
func (a *PasswordAuthenticator) ValidateCredential(credential string) error {
	var problems []string
	if len(credential) < 6 {
		problems = append(problems, "must be more than 5 characters")
	}
	if !upperPattern.MatchString(credential) {
		problems = append(problems, "must contain at least one uppercase letter")
	}
	if !lowerPattern.MatchString(credential) {
		problems = append(problems, "must contain at least one lowercase letter")
	}
	if !specialPattern.MatchString(credential) {
		problems = append(problems, "must contain at least one special character")
	}
	if strings.Contains(credential, " ") {
		problems = append(problems, "must not contain blank spaces")
	}
	if len(problems) > 0 {
		return &PasswordError{Problems: problems}
	}
	return nil
}

// Register creates a new user account with a hashed password. The store's
// uniqueness constraints surface as storage.ErrUsernameTaken,
// storage.ErrEmailTaken or storage.ErrMobileTaken.
func (a *PasswordAuthenticator) Register(ctx context.Context, reg Registration) (*models.User, error) {
	if reg.Username == "" || reg.Name == "" || reg.Password == "" {
		return nil, ErrMissingFields
	}
	if err := a.ValidateCredential(reg.Password); err != nil {
		return nil, err
	}
	if reg.Email != "" && !emailPattern.MatchString(reg.Email) {
		return nil, ErrInvalidEmail
	}
	if reg.Mobile != "" && !mobilePattern.MatchString(reg.Mobile) {
		return nil, ErrInvalidMobile
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(reg.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     reg.Username,
		Name:         reg.Name,
		PasswordHash: string(hashed),
		Email:        reg.Email,
		Mobile:       reg.Mobile,
		Age:          reg.Age,
		Gender:       strings.ToLower(reg.Gender),
	}

	if err := a.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Delete removes the account row. Storage reports an unknown ID as
// storage.ErrUserNotFound.
func (a *PasswordAuthenticator) Delete(ctx context.Context, userID string) error {
	return a.store.DeleteUser(ctx, userID)
}

// Authenticate verifies the identifier and password, returning the user if
// valid. Lookup misses and hash mismatches produce the same error so the
// response does not reveal which accounts exist.
func (a *PasswordAuthenticator) Authenticate(ctx context.Context, identifier, credential string) (*models.User, error) {
	if identifier == "" || credential == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := a.store.GetUserByIdentifier(ctx, identifier)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(credential)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}
