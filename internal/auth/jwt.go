package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"github.com/yasinhessnawi1/password-reset-backend/internal/config"
	"github.com/yasinhessnawi1/password-reset-backend/internal/constants"
	"github.com/yasinhessnawi1/password-reset-backend/internal/utils"
)

// JWT errors
var (
	ErrInvalidSigningMethod = errors.New("invalid signing method")
	ErrMissingSecret        = errors.New("jwt secret is not configured")
)

// CustomClaims represents the claims in a JWT token
type CustomClaims struct {
	UserID    string `json:"user_id"`
	TokenType string `json:"token_type"` // "login" or "reset"
	jwt.RegisteredClaims

	now func() time.Time
}

// Valid checks the time-based claims against the service clock.
// Tokens without an exp claim never expire.
func (c *CustomClaims) Valid() error {
	now := time.Now
	if c.now != nil {
		now = c.now
	}
	t := now()

	if !c.VerifyExpiresAt(t, false) {
		return jwt.ErrTokenExpired
	}
	if !c.VerifyIssuedAt(t, false) {
		return jwt.ErrTokenUsedBeforeIssued
	}
	if !c.VerifyNotBefore(t, false) {
		return jwt.ErrTokenNotValidYet
	}
	return nil
}

// JWTService issues and verifies HS256 tokens
type JWTService struct {
	Config *config.JWTSettings
	now    func() time.Time
}

// NewJWTService creates a new JWTService instance
func NewJWTService(cfg *config.JWTSettings) *JWTService {
	return &JWTService{
		Config: cfg,
		now:    time.Now,
	}
}

// WithClock replaces the time source used for issuing and verifying tokens.
func (s *JWTService) WithClock(now func() time.Time) *JWTService {
	s.now = now
	return s
}

// IssueLoginToken issues the session token stored on the user after login.
// It carries no expiry unless a login expiry is configured.
func (s *JWTService) IssueLoginToken(userID string) (string, error) {
	return s.generateToken(userID, constants.TokenTypeLogin, s.Config.LoginExpiry)
}

// IssueResetToken issues a password reset token valid for the configured reset expiry.
func (s *JWTService) IssueResetToken(userID string) (string, error) {
	expiry := s.Config.ResetExpiry
	if expiry <= 0 {
		expiry = constants.DefaultResetTokenExpiry
	}
	return s.generateToken(userID, constants.TokenTypeReset, expiry)
}

// generateToken creates a new JWT token with the provided parameters.
// A zero expiry omits the exp claim.
func (s *JWTService) generateToken(userID, tokenType string, expiry time.Duration) (string, error) {
	if s.Config == nil || s.Config.Secret == "" {
		return "", ErrMissingSecret
	}

	now := s.now()
	claims := &CustomClaims{
		UserID:    userID,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.Config.Issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ID:        uuid.New().String(),
		},
	}
	if expiry > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(expiry))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(s.Config.Secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// ValidateToken validates a JWT token and returns its claims if valid.
// Errors are *utils.AppError of kind ErrInvalidToken; expiry additionally
// matches ErrExpiredToken.
func (s *JWTService) ValidateToken(tokenString string) (*CustomClaims, error) {
	if s.Config == nil || s.Config.Secret == "" {
		return nil, utils.NewInvalidTokenError()
	}

	claims := &CustomClaims{now: s.now}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSigningMethod
		}
		return []byte(s.Config.Secret), nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, utils.NewExpiredTokenError()
		}
		return nil, utils.NewInvalidTokenError()
	}

	if !token.Valid || claims.UserID == "" {
		return nil, utils.NewInvalidTokenError()
	}

	return claims, nil
}

// Verify checks a token of any type and returns the embedded user ID.
func (s *JWTService) Verify(tokenString string) (string, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return "", err
	}
	return claims.UserID, nil
}

// VerifyReset checks a password reset token and returns the embedded user ID.
// Login tokens are rejected so a non-expiring session token cannot reset a password.
func (s *JWTService) VerifyReset(tokenString string) (string, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return "", err
	}
	if claims.TokenType != constants.TokenTypeReset {
		return "", utils.NewInvalidTokenError()
	}
	return claims.UserID, nil
}
