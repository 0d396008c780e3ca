// Package service implements the password reset auth workflow and its
// outbound email transport.
package service

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/yasinhessnawi1/password-reset-backend/internal/auth"
	"github.com/yasinhessnawi1/password-reset-backend/internal/constants"
	"github.com/yasinhessnawi1/password-reset-backend/internal/metrics"
	"github.com/yasinhessnawi1/password-reset-backend/internal/models"
	"github.com/yasinhessnawi1/password-reset-backend/internal/repository"
	"github.com/yasinhessnawi1/password-reset-backend/internal/utils"
)

// AuthOptions holds the workflow settings taken from configuration.
type AuthOptions struct {
	// ResetURLBase is the frontend reset page; the link is <base>/<id>/<token>
	ResetURLBase string
	// EnforceSubjectMatch rejects reset tokens issued for a different user
	EnforceSubjectMatch bool
}

// AuthService handles registration, login and password reset
type AuthService struct {
	userRepo repository.UserRepository
	tokens   auth.TokenService
	hasher   auth.Hasher
	mailer   Mailer
	opts     AuthOptions

	// dummyHash is compared against on unknown emails so a failed login
	// costs one hash verification either way
	dummyOnce sync.Once
	dummyHash string
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo repository.UserRepository,
	tokens auth.TokenService,
	hasher auth.Hasher,
	mailer Mailer,
	opts AuthOptions,
) *AuthService {
	opts.ResetURLBase = strings.TrimRight(opts.ResetURLBase, "/")
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
		hasher:   hasher,
		mailer:   mailer,
		opts:     opts,
	}
}

// Register creates a new user account with the default role.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	user, err := s.createUser(ctx, name, email, password, constants.RoleUser)
	if err != nil {
		metrics.RecordAuthEvent(constants.LogEventRegister, false)
		utils.LogAuth(constants.LogEventRegister, "", email, false, err.Error())
		return nil, err
	}

	metrics.RecordAuthEvent(constants.LogEventRegister, true)
	utils.LogAuth(constants.LogEventRegister, user.ID, user.Email, true, "")

	return user.Sanitize(), nil
}

// CreateUserWithRole creates an account with an explicit role. It is used by
// the seeder and shares the duplicate checks of Register.
func (s *AuthService) CreateUserWithRole(ctx context.Context, name, email, password, role string) (*models.User, error) {
	user, err := s.createUser(ctx, name, email, password, role)
	if err != nil {
		return nil, err
	}
	return user.Sanitize(), nil
}

func (s *AuthService) createUser(ctx context.Context, name, email, password, role string) (*models.User, error) {
	email = models.NormalizeEmail(email)

	_, err := s.userRepo.GetByEmail(ctx, email)
	if err == nil {
		return nil, utils.NewDuplicateError(constants.MsgUserAlreadyExists, constants.ColumnEmail)
	}
	if !utils.IsNotFoundError(err) {
		return nil, utils.ParseError(err)
	}

	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, utils.ParseError(err)
	}

	user := models.NewUser(name, email)
	user.PasswordHash = passwordHash
	user.Role = role

	// The store's unique index decides concurrent registrations of one email.
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, utils.ParseError(err)
	}

	return user, nil
}

// Login verifies credentials, issues a login token and stores it as the
// user's session token. Unknown email and wrong password are the same error.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.LoginResponse, error) {
	email = models.NormalizeEmail(email)

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if utils.IsNotFoundError(err) {
			_, _ = s.hasher.Verify(password, s.unknownUserHash())
			return nil, s.loginFailed("", email, "user not found")
		}
		return nil, utils.ParseError(err)
	}

	match, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Stored password hash could not be verified")
	}
	if !match {
		return nil, s.loginFailed(user.ID, email, "invalid password")
	}

	token, err := s.tokens.IssueLoginToken(user.ID)
	if err != nil {
		return nil, utils.NewInternalServerError(fmt.Errorf("failed to issue login token: %w", err))
	}

	if _, err := s.userRepo.UpdateByID(ctx, user.ID, models.UserUpdate{Token: &token}); err != nil {
		return nil, utils.ParseError(err)
	}

	metrics.RecordAuthEvent(constants.LogEventLogin, true)
	utils.LogAuth(constants.LogEventLogin, user.ID, user.Email, true, "")

	return &models.LoginResponse{
		Token: token,
		Role:  user.Role,
	}, nil
}

func (s *AuthService) unknownUserHash() string {
	s.dummyOnce.Do(func() {
		hash, err := s.hasher.Hash(uuid.NewString())
		if err != nil {
			log.Error().Err(err).Msg("Failed to build placeholder password hash")
			return
		}
		s.dummyHash = hash
	})
	return s.dummyHash
}

func (s *AuthService) loginFailed(userID, email, reason string) error {
	metrics.RecordAuthEvent(constants.LogEventLogin, false)
	utils.LogAuth(constants.LogEventLogin, userID, email, false, reason)
	return utils.NewInvalidCredentialsError()
}

// ForgotPassword issues a reset token and emails the reset link.
// An unknown email is reported as a 400 not found.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	email = models.NormalizeEmail(email)

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if utils.IsNotFoundError(err) {
			metrics.RecordAuthEvent(constants.LogEventForgotPassword, false)
			utils.LogAuth(constants.LogEventForgotPassword, "", email, false, "user not found")
			return utils.NewNotFoundError(constants.MsgUserNotFound).WithStatus(http.StatusBadRequest)
		}
		return utils.ParseError(err)
	}

	token, err := s.tokens.IssueResetToken(user.ID)
	if err != nil {
		return utils.NewInternalServerError(fmt.Errorf("failed to issue reset token: %w", err))
	}

	body := fmt.Sprintf(constants.ResetEmailBodyTemplate, s.ResetLink(user.ID, token))

	// The token is stateless, so a failed send leaves nothing to undo.
	if err := s.mailer.Send(ctx, user.Email, constants.ResetEmailSubject, body); err != nil {
		metrics.RecordEmailSend(false)
		metrics.RecordAuthEvent(constants.LogEventForgotPassword, false)
		utils.LogAuth(constants.LogEventForgotPassword, user.ID, user.Email, false, "email send failed")
		return utils.NewTransportError(err)
	}

	metrics.RecordEmailSend(true)
	metrics.RecordAuthEvent(constants.LogEventForgotPassword, true)
	utils.LogAuth(constants.LogEventForgotPassword, user.ID, user.Email, true, "")

	return nil
}

// ResetLink builds the frontend reset URL for a user and token.
func (s *AuthService) ResetLink(userID, token string) string {
	return fmt.Sprintf("%s/%s/%s", s.opts.ResetURLBase, userID, token)
}

// ResetPassword replaces the password of the user named by id when token is
// a valid reset token. Invalid tokens never reach the store.
func (s *AuthService) ResetPassword(ctx context.Context, id, token, newPassword string) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if utils.IsNotFoundError(err) {
			metrics.RecordAuthEvent(constants.LogEventPasswordReset, false)
		}
		return nil, utils.ParseError(err)
	}

	tokenUserID, err := s.tokens.VerifyReset(token)
	if err != nil {
		metrics.RecordAuthEvent(constants.LogEventPasswordReset, false)
		utils.LogAuth(constants.LogEventPasswordReset, user.ID, user.Email, false, "invalid token")
		return nil, utils.ParseError(err)
	}

	if tokenUserID != user.ID {
		log.Warn().
			Str("user_id", user.ID).
			Str("token_user_id", tokenUserID).
			Bool("enforced", s.opts.EnforceSubjectMatch).
			Msg("Reset token was issued for a different user")

		if s.opts.EnforceSubjectMatch {
			metrics.RecordAuthEvent(constants.LogEventPasswordReset, false)
			utils.LogAuth(constants.LogEventPasswordReset, user.ID, user.Email, false, "token subject mismatch")
			return nil, utils.NewInvalidTokenError()
		}
	}

	passwordHash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return nil, utils.ParseError(err)
	}

	updated, err := s.userRepo.UpdateByID(ctx, user.ID, models.UserUpdate{PasswordHash: &passwordHash})
	if err != nil {
		return nil, utils.ParseError(err)
	}

	metrics.RecordAuthEvent(constants.LogEventPasswordReset, true)
	utils.LogAuth(constants.LogEventPasswordReset, user.ID, user.Email, true, "")

	return updated.Sanitize(), nil
}
