package service

import (
	"context"
	"log/slog"

	"github.com/planmyoutings/outings/internal/auth"
	"github.com/planmyoutings/outings/internal/models"
)

// AuthService handles registration and login, pairing the authenticator
// with JWT session issuance.
type AuthService struct {
	authenticator auth.Authenticator
	jwt           *auth.JWTManager
}

// NewAuthService creates a new AuthService.
func NewAuthService(authenticator auth.Authenticator, jwt *auth.JWTManager) *AuthService {
	return &AuthService{authenticator: authenticator, jwt: jwt}
}

// Session is a logged-in user together with their bearer token.
type Session struct {
	User  *models.User
	Token string
}

// Register creates an account and returns a fresh session for it.
func (s *AuthService) Register(ctx context.Context, reg auth.Registration) (*Session, error) {
	user, err := s.authenticator.Register(ctx, reg)
	if err != nil {
		return nil, err
	}

	token, err := s.jwt.Generate(user)
	if err != nil {
		slog.Error("token generation failed after registration", "user_id", user.ID, "error", err)
		return nil, err
	}

	slog.Info("User registered", "user_id", user.ID, "username", user.Username)
	return &Session{User: user, Token: token}, nil
}

// Login verifies the identifier (username, email or mobile) and password and
// returns a session.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (*Session, error) {
	user, err := s.authenticator.Authenticate(ctx, identifier, password)
	if err != nil {
		return nil, err
	}

	token, err := s.jwt.Generate(user)
	if err != nil {
		slog.Error("token generation failed after login", "user_id", user.ID, "error", err)
		return nil, err
	}

	slog.Info("User logged in", "user_id", user.ID)
	return &Session{User: user, Token: token}, nil
}

// DeleteAccount removes the user's account. Votes, memberships and RSVPs
// made under the ID remain; only the login is gone.
func (s *AuthService) DeleteAccount(ctx context.Context, userID string) error {
	if err := s.authenticator.Delete(ctx, userID); err != nil {
		return err
	}

	slog.Info("User account deleted", "user_id", userID)
	return nil
}
