package models

// User represents a registered user account.
//
// Email and Mobile are optional but unique when present; either can be used
// alongside the username as a login identifier.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// Username is the unique login handle.
	Username string

	// Name is the display name of the user.
	Name string

	// PasswordHash is the bcrypt hash of the user's password.
	// Never serialized to clients.
	PasswordHash string

	// Email is the user's email address, unique if set.
	Email string

	// Mobile is the user's mobile number, unique if set.
	Mobile string

	// Age is the self-reported age in years (0 if not provided).
	Age int

	// Gender is the self-reported gender ("" if not provided).
	Gender string

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64
}
