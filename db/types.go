package db

import "time"

// User represents a user from the database.
// Timestamps (Created and Updated) use RFC3339 format in UTC timezone.
// Example: "2024-03-07T15:04:05Z"
type User struct {
	ID    string
	Email string
	Name  string
	// Password is the bcrypt hash, never the plaintext.
	Password  string
	AvatarURL string
	Verified  bool
	// VerificationToken is set while the user is unverified and empty
	// (NULL in the table) afterwards.
	VerificationToken string
	// Token is the last issued session token, empty after logout.
	Token      string
	DailyNorma float64
	Gender     string
	Created    time.Time
	Updated    time.Time
}

// UserUpdate is the allow-list of user fields writable through profile
// operations. Nil fields are left untouched.
type UserUpdate struct {
	Name       *string
	Gender     *string
	DailyNorma *float64
	// Password must already be hashed.
	Password *string
}

// IsEmpty reports whether the update writes no field.
func (u UserUpdate) IsEmpty() bool {
	return u.Name == nil && u.Gender == nil && u.DailyNorma == nil && u.Password == nil
}
