package auth_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yasinhessnawi1/password-reset-backend/internal/auth"
	"github.com/yasinhessnawi1/password-reset-backend/internal/config"
	"github.com/yasinhessnawi1/password-reset-backend/internal/utils"
)

// fakeClock is a settable time source for validity window tests
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestService(clock *fakeClock) *auth.JWTService {
	cfg := &config.JWTSettings{
		Secret:      "test-secret",
		Issuer:      "test-issuer",
		ResetExpiry: time.Hour,
	}
	return auth.NewJWTService(cfg).WithClock(clock.Now)
}

func baseTime() time.Time {
	return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
}

// tamper flips one character in the middle of the signature segment
func tamper(token string) string {
	i := strings.LastIndex(token, ".") + 10
	replacement := byte('A')
	if token[i] == 'A' {
		replacement = 'B'
	}
	return token[:i] + string(replacement) + token[i+1:]
}

func TestNewJWTService(t *testing.T) {
	cfg := &config.JWTSettings{Secret: "test-secret", Issuer: "test-issuer"}

	service := auth.NewJWTService(cfg)

	require.NotNil(t, service)
	assert.Same(t, cfg, service.Config)
}

func TestIssueLoginToken(t *testing.T) {
	clock := &fakeClock{t: baseTime()}
	service := newTestService(clock)

	token, err := service.IssueLoginToken("user-42")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-42", claims.UserID)
	assert.Equal(t, "user-42", claims.Subject)
	assert.Equal(t, "login", claims.TokenType)
	assert.Equal(t, "test-issuer", claims.Issuer)
	assert.NotEmpty(t, claims.ID)
	assert.Nil(t, claims.ExpiresAt, "login tokens carry no exp by default")
}

func TestLoginTokenNeverExpiresByDefault(t *testing.T) {
	clock := &fakeClock{t: baseTime()}
	service := newTestService(clock)

	token, err := service.IssueLoginToken("user-42")
	require.NoError(t, err)

	clock.Advance(365 * 24 * time.Hour)

	userID, err := service.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-42", userID)
}

func TestLoginTokenWithConfiguredExpiry(t *testing.T) {
	clock := &fakeClock{t: baseTime()}
	service := auth.NewJWTService(&config.JWTSettings{
		Secret:      "test-secret",
		LoginExpiry: 24 * time.Hour,
	}).WithClock(clock.Now)

	token, err := service.IssueLoginToken("user-42")
	require.NoError(t, err)

	clock.Advance(25 * time.Hour)

	_, err = service.Verify(token)
	require.Error(t, err)
	assert.True(t, errors.Is(err, utils.ErrExpiredToken))
}

func TestIssueResetToken(t *testing.T) {
	clock := &fakeClock{t: baseTime()}
	service := newTestService(clock)

	token, err := service.IssueResetToken("user-7")
	require.NoError(t, err)

	claims, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "reset", claims.TokenType)
	require.NotNil(t, claims.ExpiresAt)
	assert.Equal(t, baseTime().Add(time.Hour), claims.ExpiresAt.Time.UTC())
}

func TestResetTokenValidityWindow(t *testing.T) {
	clock := &fakeClock{t: baseTime()}
	service := newTestService(clock)

	token, err := service.IssueResetToken("user-7")
	require.NoError(t, err)

	clock.Advance(59 * time.Minute)
	userID, err := service.VerifyReset(token)
	require.NoError(t, err, "token must be accepted before expiry")
	assert.Equal(t, "user-7", userID)

	clock.Advance(2 * time.Minute)
	_, err = service.VerifyReset(token)
	require.Error(t, err, "token must be rejected after expiry")

	assert.True(t, errors.Is(err, utils.ErrInvalidToken), "expiry surfaces as an invalid token")
	assert.True(t, errors.Is(err, utils.ErrExpiredToken), "expiry stays distinguishable")
	assert.Equal(t, 400, utils.StatusCode(err))
}

func TestResetTokenDefaultsToOneHour(t *testing.T) {
	clock := &fakeClock{t: baseTime()}
	service := auth.NewJWTService(&config.JWTSettings{Secret: "test-secret"}).WithClock(clock.Now)

	token, err := service.IssueResetToken("user-7")
	require.NoError(t, err)

	claims, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, baseTime().Add(time.Hour), claims.ExpiresAt.Time.UTC())
}

func TestVerifyResetRejectsLoginToken(t *testing.T) {
	clock := &fakeClock{t: baseTime()}
	service := newTestService(clock)

	token, err := service.IssueLoginToken("user-7")
	require.NoError(t, err)

	_, err = service.VerifyReset(token)
	require.Error(t, err)
	assert.True(t, errors.Is(err, utils.ErrInvalidToken))
	assert.False(t, errors.Is(err, utils.ErrExpiredToken))
}

func TestVerifyRejectsInvalidTokens(t *testing.T) {
	clock := &fakeClock{t: baseTime()}
	service := newTestService(clock)

	valid, err := service.IssueResetToken("user-7")
	require.NoError(t, err)

	otherSecret := auth.NewJWTService(&config.JWTSettings{Secret: "other-secret"}).WithClock(clock.Now)
	foreign, err := otherSecret.IssueResetToken("user-7")
	require.NoError(t, err)

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, &auth.CustomClaims{
		UserID:    "user-7",
		TokenType: "reset",
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"Tampered signature", tamper(valid)},
		{"Wrong secret", foreign},
		{"Malformed", "not.a.jwt"},
		{"Empty", ""},
		{"None algorithm", noneToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Verify(tt.token)
			require.Error(t, err)

			var appErr *utils.AppError
			require.True(t, errors.As(err, &appErr))
			assert.True(t, errors.Is(err, utils.ErrInvalidToken))
			assert.Equal(t, "Invalid or expired token", appErr.Message)
		})
	}
}

func TestVerifyRejectsTokenWithoutUserID(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &auth.CustomClaims{
		TokenType: "reset",
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	service := newTestService(&fakeClock{t: baseTime()})

	_, err = service.Verify(token)
	assert.True(t, errors.Is(err, utils.ErrInvalidToken))
}

func TestTokenNotValidBeforeIssue(t *testing.T) {
	clock := &fakeClock{t: baseTime()}
	service := newTestService(clock)

	token, err := service.IssueResetToken("user-7")
	require.NoError(t, err)

	clock.Advance(-time.Minute)

	_, err = service.Verify(token)
	assert.True(t, errors.Is(err, utils.ErrInvalidToken))
	assert.False(t, errors.Is(err, utils.ErrExpiredToken))
}

func TestIssueWithoutSecret(t *testing.T) {
	service := auth.NewJWTService(&config.JWTSettings{})

	_, err := service.IssueLoginToken("user-1")
	assert.ErrorIs(t, err, auth.ErrMissingSecret)

	_, err = service.Verify("anything")
	assert.True(t, errors.Is(err, utils.ErrInvalidToken))
}

func TestTokensAreUnique(t *testing.T) {
	service := newTestService(&fakeClock{t: baseTime()})

	first, err := service.IssueResetToken("user-1")
	require.NoError(t, err)
	second, err := service.IssueResetToken("user-1")
	require.NoError(t, err)

	assert.NotEqual(t, first, second, "jti makes tokens issued in the same second distinct")
}
