// Package constants provides shared constant values used throughout the application.
//
// The general_const.go file defines general-purpose constants related to routing
// parameters, user roles and token types. These constants keep the names used by
// handlers, services and stores in one place.
package constants

// URL Parameters define path parameter names used in route definitions.
// These constants are used when defining routes with path parameters and
// when extracting those parameters from requests.
const (
	// ParamUserID is the URL parameter carrying the user identifier in a reset link.
	ParamUserID = "id"

	// ParamResetToken is the URL parameter carrying the signed reset token.
	ParamResetToken = "token"
)

// User Roles define the classification attached to every user record.
const (
	// RoleUser is the role assigned to self-registered accounts.
	RoleUser = "user"

	// RoleAdmin is the role assigned to the seeded administrator account.
	RoleAdmin = "admin"
)

// Token Types distinguish the purpose a signed token was issued for.
const (
	// TokenTypeLogin marks a token issued on successful login.
	TokenTypeLogin = "login"

	// TokenTypeReset marks a token issued for a password reset link.
	TokenTypeReset = "reset"
)
