package db

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrConstraintUnique is returned when an insert or update violates a
	// unique constraint, e.g. an email already in use.
	ErrConstraintUnique = errors.New("unique constraint violation")
	// ErrUserNotFound is returned by updates addressing a missing user.
	ErrUserNotFound = errors.New("user not found")
)

// DbAuth is the user store used by the credential handlers.
//
// Getters return a nil user and nil error when no record matches; errors
// are reserved for database failures.
type DbAuth interface {
	GetUserByEmail(email string) (*User, error)
	GetUserById(id string) (*User, error)
	GetUserByVerificationToken(token string) (*User, error)

	// CreateUser inserts a new unverified user. It returns
	// ErrConstraintUnique if the email is already registered.
	CreateUser(user User) (*User, error)

	// VerifyEmail marks the user verified and clears the verification
	// token, provided the user still holds verificationToken. Otherwise it
	// returns ErrUserNotFound: a token verifies once.
	VerifyEmail(userId string, verificationToken string) error
	UpdateToken(userId string, token string) error
	UpdatePassword(userId string, passwordHash string) error
	UpdateAvatar(userId string, avatarURL string) error

	// UpdateUser writes the non-nil fields of update and returns the
	// resulting record.
	UpdateUser(userId string, update UserUpdate) (*User, error)
}

// TimeFormat formats t as RFC3339 in UTC, the format of stored timestamps.
func TimeFormat(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// TimeParse parses a stored RFC3339 timestamp. The empty string yields the
// zero time.
func TimeParse(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid RFC3339 time %q: %w", s, err)
	}
	return t.UTC(), nil
}
