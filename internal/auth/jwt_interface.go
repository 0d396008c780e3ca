package auth

// TokenService issues and verifies the signed tokens used for sessions and
// password resets.
type TokenService interface {
	// IssueLoginToken issues the session token for a successful login
	IssueLoginToken(userID string) (string, error)

	// IssueResetToken issues a short-lived password reset token
	IssueResetToken(userID string) (string, error)

	// Verify checks signature and expiry and returns the embedded user ID
	Verify(tokenString string) (string, error)

	// VerifyReset is Verify restricted to reset tokens
	VerifyReset(tokenString string) (string, error)
}

var _ TokenService = (*JWTService)(nil)
