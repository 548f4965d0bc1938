package mock

import (
	"github.com/aquanorma/credentials/db"
)

// Compile-time check to ensure Db implements the DbAuth interface
var _ db.DbAuth = (*Db)(nil)

// Db implements db.DbAuth for testing purposes.
// Use function fields to allow overriding behavior in specific tests.
type Db struct {
	GetUserByEmailFunc             func(email string) (*db.User, error)
	GetUserByIdFunc                func(id string) (*db.User, error)
	GetUserByVerificationTokenFunc func(token string) (*db.User, error)
	CreateUserFunc                 func(user db.User) (*db.User, error)
	VerifyEmailFunc                func(userId, verificationToken string) error
	UpdateTokenFunc                func(userId string, token string) error
	UpdatePasswordFunc             func(userId string, passwordHash string) error
	UpdateAvatarFunc               func(userId string, avatarURL string) error
	UpdateUserFunc                 func(userId string, update db.UserUpdate) (*db.User, error)
}

func (m *Db) GetUserByEmail(email string) (*db.User, error) {
	if m.GetUserByEmailFunc != nil {
		return m.GetUserByEmailFunc(email)
	}
	return nil, nil // Default: not found
}

func (m *Db) GetUserById(id string) (*db.User, error) {
	if m.GetUserByIdFunc != nil {
		return m.GetUserByIdFunc(id)
	}
	return nil, nil
}

func (m *Db) GetUserByVerificationToken(token string) (*db.User, error) {
	if m.GetUserByVerificationTokenFunc != nil {
		return m.GetUserByVerificationTokenFunc(token)
	}
	return nil, nil
}

func (m *Db) CreateUser(user db.User) (*db.User, error) {
	if m.CreateUserFunc != nil {
		return m.CreateUserFunc(user)
	}
	// Default: echo back with an id
	if user.ID == "" {
		user.ID = "mock-user-id"
	}
	return &user, nil
}

func (m *Db) VerifyEmail(userId, verificationToken string) error {
	if m.VerifyEmailFunc != nil {
		return m.VerifyEmailFunc(userId, verificationToken)
	}
	return nil
}

func (m *Db) UpdateToken(userId string, token string) error {
	if m.UpdateTokenFunc != nil {
		return m.UpdateTokenFunc(userId, token)
	}
	return nil
}

func (m *Db) UpdatePassword(userId string, passwordHash string) error {
	if m.UpdatePasswordFunc != nil {
		return m.UpdatePasswordFunc(userId, passwordHash)
	}
	return nil
}

func (m *Db) UpdateAvatar(userId string, avatarURL string) error {
	if m.UpdateAvatarFunc != nil {
		return m.UpdateAvatarFunc(userId, avatarURL)
	}
	return nil
}

func (m *Db) UpdateUser(userId string, update db.UserUpdate) (*db.User, error) {
	if m.UpdateUserFunc != nil {
		return m.UpdateUserFunc(userId, update)
	}
	return &db.User{ID: userId}, nil
}
