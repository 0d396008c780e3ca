package models

import (
	"strings"
	"time"

	"github.com/yasinhessnawi1/password-reset-backend/internal/constants"
)

// User represents a registered account.
// It contains authentication information and core user attributes.
type User struct {
	ID           string    `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Token        string    `json:"-" db:"token"`
	Role         string    `json:"role" db:"role"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// NewUser creates a new User with the default role.
// The password hash is populated by the caller before the user is stored.
func NewUser(name, email string) *User {
	now := time.Now().UTC()
	return &User{
		Name:      strings.TrimSpace(name),
		Email:     NormalizeEmail(email),
		Role:      constants.RoleUser,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// TableName returns the database table name for the User model.
func (u *User) TableName() string {
	return constants.TableUsers
}

// Sanitize removes sensitive information from the User object when sending to clients.
// This ensures the password hash and session token are never exposed.
func (u *User) Sanitize() *User {
	sanitized := *u
	sanitized.PasswordHash = ""
	sanitized.Token = ""
	return &sanitized
}

// NormalizeEmail trims surrounding whitespace from an address.
// Case is preserved so lookups match what the user registered with.
func NormalizeEmail(email string) string {
	return strings.TrimSpace(email)
}

// UserCredentials represents the login credentials provided by a user.
type UserCredentials struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,max=72,maxbytes=72"`
}

// UserRegistration represents the data required for user registration.
type UserRegistration struct {
	Name     string `json:"name" validate:"required,notblank,max=100"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,max=72,maxbytes=72"`
}

// UserUpdate carries the mutable credential fields of a user.
// Nil fields are left unchanged by the store.
type UserUpdate struct {
	PasswordHash *string
	Token        *string
}

// IsEmpty reports whether the update changes nothing.
func (u UserUpdate) IsEmpty() bool {
	return u.PasswordHash == nil && u.Token == nil
}

// LoginResponse is returned on successful authentication.
type LoginResponse struct {
	Token string `json:"token"`
	Role  string `json:"role"`
}
