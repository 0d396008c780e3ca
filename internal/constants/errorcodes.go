// Package constants provides shared constant values used throughout the application.
//
// The errorcodes.go file defines constants related to error handling, categorization,
// and messaging. User-facing messages follow the wording clients of this API
// already depend on, and never reveal implementation details.
package constants

// Error Types define the categories of errors that can occur in the application.
// These are used for internal error classification and handling.
const (
	// ErrorNotFound indicates that a requested resource could not be found.
	ErrorNotFound = "resource not found"

	// ErrorBadRequest indicates that the request was malformed or invalid.
	ErrorBadRequest = "invalid request"

	// ErrorInternalServer indicates an unexpected internal error.
	ErrorInternalServer = "internal server error"

	// ErrorValidation indicates that input validation failed.
	ErrorValidation = "validation error"

	// ErrorDuplicate indicates an attempt to create a resource that already exists.
	ErrorDuplicate = "duplicate resource"

	// ErrorInvalidCredentials indicates that authentication credentials are incorrect.
	ErrorInvalidCredentials = "invalid credentials"

	// ErrorExpiredToken indicates that a signed token has expired.
	ErrorExpiredToken = "expired token"

	// ErrorInvalidToken indicates that a signed token is malformed or invalid.
	ErrorInvalidToken = "invalid token"

	// ErrorTransport indicates that an outbound notification could not be delivered.
	ErrorTransport = "transport failure"

	// ErrorStore indicates that the credential store could not complete an operation.
	ErrorStore = "store failure"
)

// User-Facing Error Messages define standardized messages that can be safely presented to users.
const (
	// MsgUserAlreadyExists is returned when registering an email that is taken.
	MsgUserAlreadyExists = "User already exists"

	// MsgInvalidCredentials is returned for both unknown emails and wrong passwords.
	MsgInvalidCredentials = "Invalid credentials"

	// MsgUserNotFound is returned when a forgot or reset request names no user.
	MsgUserNotFound = "User not found"

	// MsgInvalidOrExpiredToken is returned for any reset token that fails verification.
	MsgInvalidOrExpiredToken = "Invalid or expired token"

	// MsgEmailSendFailed is returned when the reset email could not be delivered.
	MsgEmailSendFailed = "Failed to send password reset email"

	// MsgInternalServerError provides a generic server error message.
	MsgInternalServerError = "An internal server error occurred"

	// MsgRequestBodyTooLarge indicates that the request payload exceeds size limits.
	MsgRequestBodyTooLarge = "Request body too large"

	// MsgEmptyRequestBody indicates that a request body was expected but not provided.
	MsgEmptyRequestBody = "Request body must not be empty"

	// MsgMalformedJSON indicates that the request body contains invalid JSON.
	MsgMalformedJSON = "Request body contains malformed JSON"

	// MsgResourceNotFound indicates that the requested resource does not exist.
	MsgResourceNotFound = "The requested resource could not be found"

	// MsgMethodNotAllowed indicates that the HTTP method is not supported for the endpoint.
	MsgMethodNotAllowed = "This method is not allowed for this resource"

	// MsgServiceUnhealthy is returned by the health check when the store is unreachable.
	MsgServiceUnhealthy = "Service is not healthy"
)

// Success Messages confirm completed operations.
const (
	MsgWelcome             = "Welcome to Password Reset Backend"
	MsgUserRegistered      = "User registered successfully"
	MsgLoginSuccessful     = "Login successful"
	MsgResetEmailSent      = "Password reset email sent"
	MsgPasswordResetDone   = "Password reset successful"
	MsgPasswordTooLong     = "Must be at most 72 bytes long"
	ResetEmailSubject      = "Password Reset"
	ResetEmailBodyTemplate = "Click the link to reset your password: %s\n\nIf you did not request this, please ignore this email."
)

// Logger Constants define values used for structured logging.
const (
	// LogCategoryAuth is the log category for authentication-related events.
	LogCategoryAuth = "auth"

	// LogEventLogin is the log event type for user login.
	LogEventLogin = "login"

	// LogEventRegister is the log event type for user registration.
	LogEventRegister = "register"

	// LogEventForgotPassword is the log event type for reset email requests.
	LogEventForgotPassword = "forgot_password"

	// LogEventPasswordReset is the log event type for completed password resets.
	LogEventPasswordReset = "password_reset"

	// LogRedactedValue is used to replace sensitive values in logs.
	LogRedactedValue = "[REDACTED]"
)
