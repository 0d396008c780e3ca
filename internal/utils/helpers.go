// Package utils provides utility functions and helpers for common operations
// used throughout the application: errors, responses, request validation,
// logging, and a few string helpers.
package utils

import "strings"

// MaskEmail masks the user part of an email address, showing only the first and last character.
// It is used wherever an address is written to logs.
//
// For example: "user@example.com" becomes "u**r@example.com"
//
// Parameters:
//   - email: the email address to mask
//
// Returns:
//   - the masked email address, or the original string if it's not a valid email format
func MaskEmail(email string) string {
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return email
	}

	user := parts[0]
	domain := parts[1]

	if len(user) <= 2 {
		return email
	}

	return string(user[0]) + strings.Repeat("*", len(user)-2) + string(user[len(user)-1]) + "@" + domain
}
