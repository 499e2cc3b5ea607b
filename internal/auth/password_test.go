package auth

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/planmyoutings/outings/internal/storage"
	"github.com/planmyoutings/outings/internal/storage/sqlite"
)

func newTestAuthenticator(t *testing.T) *PasswordAuthenticator {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return NewPasswordAuthenticator(store)
}

func TestValidateCredential(t *testing.T) {
	a := newTestAuthenticator(t)

	tests := []struct {
		name     string
		password string
		problems []string
	}{
		{"valid", "Secr3t!", nil},
		{"too short", "Ab!", []string{"more than 5 characters"}},
		{"no uppercase", "secret!", []string{"uppercase letter"}},
		{"no lowercase", "SECRET!", []string{"lowercase letter"}},
		{"no special", "Secret1", []string{"special character"}},
		{"contains space", "Sec ret!", []string{"blank spaces"}},
		{"everything wrong", "abc", []string{
			"more than 5 characters", "uppercase letter", "special character",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := a.ValidateCredential(tt.password)
			if len(tt.problems) == 0 {
				if err != nil {
					t.Fatalf("expected valid, got %v", err)
				}
				return
			}

			var pwErr *PasswordError
			if !errors.As(err, &pwErr) {
				t.Fatalf("expected PasswordError, got %v", err)
			}
			for _, want := range tt.problems {
				if !strings.Contains(pwErr.Error(), want) {
					t.Errorf("expected problem %q in %q", want, pwErr.Error())
				}
			}
		})
	}
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("hashes the password", func(t *testing.T) {
		a := newTestAuthenticator(t)

		user, err := a.Register(ctx, Registration{
			Username: "asha", Name: "Asha", Password: "Secr3t!",
		})
		if err != nil {
			t.Fatalf("failed to register: %v", err)
		}
		if user.ID == "" {
			t.Error("expected a generated user ID")
		}
		if user.PasswordHash == "Secr3t!" || user.PasswordHash == "" {
			t.Error("password must be stored hashed")
		}
	})

	t.Run("missing fields", func(t *testing.T) {
		a := newTestAuthenticator(t)

		if _, err := a.Register(ctx, Registration{Username: "x"}); !errors.Is(err, ErrMissingFields) {
			t.Errorf("expected ErrMissingFields, got %v", err)
		}
	})

	t.Run("invalid email and mobile", func(t *testing.T) {
		a := newTestAuthenticator(t)

		_, err := a.Register(ctx, Registration{
			Username: "x", Name: "X", Password: "Secr3t!", Email: "not-an-email",
		})
		if !errors.Is(err, ErrInvalidEmail) {
			t.Errorf("expected ErrInvalidEmail, got %v", err)
		}

		_, err = a.Register(ctx, Registration{
			Username: "x", Name: "X", Password: "Secr3t!", Mobile: "12ab",
		})
		if !errors.Is(err, ErrInvalidMobile) {
			t.Errorf("expected ErrInvalidMobile, got %v", err)
		}
	})

	t.Run("duplicate username", func(t *testing.T) {
		a := newTestAuthenticator(t)

		reg := Registration{Username: "asha", Name: "Asha", Password: "Secr3t!"}
		if _, err := a.Register(ctx, reg); err != nil {
			t.Fatalf("failed to register: %v", err)
		}
		if _, err := a.Register(ctx, reg); !errors.Is(err, storage.ErrUsernameTaken) {
			t.Errorf("expected ErrUsernameTaken, got %v", err)
		}
	})

	t.Run("gender is normalized", func(t *testing.T) {
		a := newTestAuthenticator(t)

		user, err := a.Register(ctx, Registration{
			Username: "ravi", Name: "Ravi", Password: "Secr3t!", Gender: "Male",
		})
		if err != nil {
			t.Fatalf("failed to register: %v", err)
		}
		if user.Gender != "male" {
			t.Errorf("expected lowercase gender, got %q", user.Gender)
		}
	})
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	a := newTestAuthenticator(t)

	_, err := a.Register(ctx, Registration{
		Username: "asha", Name: "Asha", Password: "Secr3t!",
		Email: "asha@example.com", Mobile: "9876543210",
	})
	if err != nil {
		t.Fatalf("failed to register: %v", err)
	}

	t.Run("by username, email and mobile", func(t *testing.T) {
		for _, identifier := range []string{"asha", "asha@example.com", "9876543210"} {
			user, err := a.Authenticate(ctx, identifier, "Secr3t!")
			if err != nil {
				t.Errorf("authenticate by %q: %v", identifier, err)
				continue
			}
			if user.Username != "asha" {
				t.Errorf("authenticate by %q: got user %q", identifier, user.Username)
			}
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		if _, err := a.Authenticate(ctx, "asha", "Wrong0ne!"); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("unknown user gets the same error", func(t *testing.T) {
		if _, err := a.Authenticate(ctx, "nobody", "Secr3t!"); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("empty credential", func(t *testing.T) {
		if _, err := a.Authenticate(ctx, "asha", ""); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("expected ErrInvalidCredentials, got %v", err)
		}
	})
}
