// Package handlers provides the HTTP request handlers for the auth API.
package handlers

import (
	"context"

	"github.com/yasinhessnawi1/password-reset-backend/internal/models"
)

// AuthServiceInterface defines the account operations used by AuthHandler.
type AuthServiceInterface interface {
	// Register creates an account and returns the sanitized record.
	Register(ctx context.Context, name, email, password string) (*models.User, error)

	// Login verifies credentials and returns the session token and role.
	Login(ctx context.Context, email, password string) (*models.LoginResponse, error)
}

// PasswordResetServiceInterface defines the reset operations used by PasswordResetHandler.
type PasswordResetServiceInterface interface {
	// ForgotPassword emails a reset link to the account holder.
	ForgotPassword(ctx context.Context, email string) error

	// ResetPassword sets a new password when the reset token is valid.
	ResetPassword(ctx context.Context, id, token, newPassword string) (*models.User, error)
}
