package models

// ForgotPasswordRequest requests a reset link for an account.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email,max=255"`
}

// ResetPasswordRequest carries the new password. The user ID and token
// come from the reset link path.
type ResetPasswordRequest struct {
	Password string `json:"password" validate:"required,max=72,maxbytes=72"`
}
