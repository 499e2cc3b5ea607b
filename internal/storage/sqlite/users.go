package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/planmyoutings/outings/internal/models"
	"github.com/planmyoutings/outings/internal/storage"
)

// CreateUser inserts a new user into the database. Duplicate username, email
// or mobile are translated into the matching sentinel error so callers can
// tell the user which field collided.
func (s *SQLiteStore) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.CreatedAt == 0 {
		user.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, username, name, password_hash, email, mobile, age, gender, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID, user.Username, user.Name, user.PasswordHash,
		nullable(user.Email), nullable(user.Mobile), user.Age, user.Gender, user.CreatedAt,
	)
	switch {
	case uniqueViolation(err, "users.username"):
		return storage.ErrUsernameTaken
	case uniqueViolation(err, "users.email"):
		return storage.ErrEmailTaken
	case uniqueViolation(err, "users.mobile"):
		return storage.ErrMobileTaken
	case err != nil:
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetUserByIdentifier retrieves a user by username, falling back to email
// when the identifier contains '@' and to mobile when it is all digits.
func (s *SQLiteStore) GetUserByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	user, err := s.getUserWhere(ctx, "username = ?", identifier)
	if err != storage.ErrUserNotFound {
		return user, err
	}

	if strings.Contains(identifier, "@") {
		return s.getUserWhere(ctx, "email = ?", identifier)
	}
	if identifier != "" && strings.Trim(identifier, "0123456789+") == "" {
		return s.getUserWhere(ctx, "mobile = ?", identifier)
	}
	return nil, storage.ErrUserNotFound
}

// GetUserByID retrieves a user by their ID.
func (s *SQLiteStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.getUserWhere(ctx, "id = ?", id)
}

// DeleteUser removes the user row only. Votes, memberships and RSVPs keep
// their user_id strings; nothing references users by foreign key.
func (s *SQLiteStore) DeleteUser(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return storage.ErrUserNotFound
	}
	return nil
}

func (s *SQLiteStore) getUserWhere(ctx context.Context, where string, arg any) (*models.User, error) {
	user := &models.User{}
	var email, mobile sql.NullString

	err := s.db.QueryRowContext(ctx,
		`SELECT id, username, name, password_hash, email, mobile, age, gender, created_at
		 FROM users WHERE `+where,
		arg,
	).Scan(&user.ID, &user.Username, &user.Name, &user.PasswordHash,
		&email, &mobile, &user.Age, &user.Gender, &user.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, storage.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	user.Email = email.String
	user.Mobile = mobile.String
	return user, nil
}
