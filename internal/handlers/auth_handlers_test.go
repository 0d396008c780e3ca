package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yasinhessnawi1/password-reset-backend/internal/constants"
	"github.com/yasinhessnawi1/password-reset-backend/internal/models"
	"github.com/yasinhessnawi1/password-reset-backend/internal/utils"
)

// MockAuthService is a mock implementation of both service interfaces
type MockAuthService struct {
	RegisterFunc       func(ctx context.Context, name, email, password string) (*models.User, error)
	LoginFunc          func(ctx context.Context, email, password string) (*models.LoginResponse, error)
	ForgotPasswordFunc func(ctx context.Context, email string) error
	ResetPasswordFunc  func(ctx context.Context, id, token, newPassword string) (*models.User, error)
}

func (m *MockAuthService) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	return m.RegisterFunc(ctx, name, email, password)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*models.LoginResponse, error) {
	return m.LoginFunc(ctx, email, password)
}

func (m *MockAuthService) ForgotPassword(ctx context.Context, email string) error {
	return m.ForgotPasswordFunc(ctx, email)
}

func (m *MockAuthService) ResetPassword(ctx context.Context, id, token, newPassword string) (*models.User, error) {
	return m.ResetPasswordFunc(ctx, id, token, newPassword)
}

// decodeResponse parses the standard envelope
func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) (map[string]interface{}, *utils.ErrorInfo, bool) {
	t.Helper()
	var body struct {
		Success bool                   `json:"success"`
		Data    map[string]interface{} `json:"data"`
		Error   *utils.ErrorInfo       `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Data, body.Error, body.Success
}

func newJSONRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestNewAuthHandler_PanicsOnNil(t *testing.T) {
	assert.Panics(t, func() { NewAuthHandler(nil) })
	assert.Panics(t, func() { NewPasswordResetHandler(nil) })
}

func TestAuthHandler_Register(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		registerErr    error
		expectedStatus int
		expectedCode   string
		expectCall     bool
	}{
		{
			name:           "Success",
			body:           `{"name":"Alice","email":"alice@example.com","password":"p1"}`,
			expectedStatus: http.StatusCreated,
			expectCall:     true,
		},
		{
			name:           "Already exists",
			body:           `{"name":"Alice","email":"alice@example.com","password":"p1"}`,
			registerErr:    utils.NewDuplicateError(constants.MsgUserAlreadyExists, "email"),
			expectedStatus: http.StatusBadRequest,
			expectedCode:   constants.CodeDuplicateResource,
			expectCall:     true,
		},
		{
			name:           "Store failure",
			body:           `{"name":"Alice","email":"alice@example.com","password":"p1"}`,
			registerErr:    utils.NewStoreError(errors.New("connection refused")),
			expectedStatus: http.StatusInternalServerError,
			expectedCode:   constants.CodeStoreFailure,
			expectCall:     true,
		},
		{
			name:           "Missing name",
			body:           `{"email":"alice@example.com","password":"p1"}`,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   constants.CodeValidationError,
		},
		{
			name:           "Invalid email",
			body:           `{"name":"Alice","email":"not-an-email","password":"p1"}`,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   constants.CodeValidationError,
		},
		{
			name:           "Malformed JSON",
			body:           `{"name":`,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   constants.CodeBadRequest,
		},
		{
			name:           "Unknown field",
			body:           `{"name":"Alice","email":"alice@example.com","password":"p1","role":"admin"}`,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   constants.CodeValidationError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			svc := &MockAuthService{
				RegisterFunc: func(ctx context.Context, name, email, password string) (*models.User, error) {
					called = true
					if tt.registerErr != nil {
						return nil, tt.registerErr
					}
					return &models.User{ID: "user-1", Name: name, Email: email, Role: constants.RoleUser}, nil
				},
			}
			handler := NewAuthHandler(svc)

			rec := httptest.NewRecorder()
			handler.Register(rec, newJSONRequest(http.MethodPost, "/register", tt.body))

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Equal(t, tt.expectCall, called)

			data, errInfo, success := decodeResponse(t, rec)
			if tt.expectedCode != "" {
				assert.False(t, success)
				require.NotNil(t, errInfo)
				assert.Equal(t, tt.expectedCode, errInfo.Code)
				return
			}

			assert.True(t, success)
			assert.Equal(t, constants.MsgUserRegistered, data["message"])
			user := data["user"].(map[string]interface{})
			assert.Equal(t, "user-1", user["id"])
			assert.NotContains(t, user, "password_hash")
			assert.NotContains(t, user, "token")
		})
	}
}

func TestAuthHandler_Login(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc := &MockAuthService{
			LoginFunc: func(ctx context.Context, email, password string) (*models.LoginResponse, error) {
				assert.Equal(t, "alice@example.com", email)
				assert.Equal(t, "p1", password)
				return &models.LoginResponse{Token: "jwt-token", Role: constants.RoleUser}, nil
			},
		}

		rec := httptest.NewRecorder()
		NewAuthHandler(svc).Login(rec, newJSONRequest(http.MethodPost, "/login", `{"email":"alice@example.com","password":"p1"}`))

		assert.Equal(t, http.StatusOK, rec.Code)
		data, _, success := decodeResponse(t, rec)
		assert.True(t, success)
		assert.Equal(t, "jwt-token", data["token"])
		assert.Equal(t, constants.RoleUser, data["role"])
	})

	t.Run("Invalid credentials", func(t *testing.T) {
		svc := &MockAuthService{
			LoginFunc: func(ctx context.Context, email, password string) (*models.LoginResponse, error) {
				return nil, utils.NewInvalidCredentialsError()
			},
		}

		rec := httptest.NewRecorder()
		NewAuthHandler(svc).Login(rec, newJSONRequest(http.MethodPost, "/login", `{"email":"alice@example.com","password":"bad"}`))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		_, errInfo, _ := decodeResponse(t, rec)
		require.NotNil(t, errInfo)
		assert.Equal(t, constants.CodeInvalidCredentials, errInfo.Code)
		assert.Equal(t, constants.MsgInvalidCredentials, errInfo.Message)
	})

	t.Run("Empty body", func(t *testing.T) {
		rec := httptest.NewRecorder()
		NewAuthHandler(&MockAuthService{}).Login(rec, newJSONRequest(http.MethodPost, "/login", ""))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		_, errInfo, _ := decodeResponse(t, rec)
		assert.Equal(t, constants.MsgEmptyRequestBody, errInfo.Message)
	})
}

func TestPasswordResetHandler_ForgotPassword(t *testing.T) {
	tests := []struct {
		name           string
		serviceErr     error
		expectedStatus int
		expectedCode   string
	}{
		{name: "Success", expectedStatus: http.StatusOK},
		{
			name:           "Unknown email",
			serviceErr:     utils.NewNotFoundError(constants.MsgUserNotFound).WithStatus(http.StatusBadRequest),
			expectedStatus: http.StatusBadRequest,
			expectedCode:   constants.CodeUserNotFound,
		},
		{
			name:           "Transport failure",
			serviceErr:     utils.NewTransportError(errors.New("sendgrid returned status 401")),
			expectedStatus: http.StatusInternalServerError,
			expectedCode:   constants.CodeTransportFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &MockAuthService{
				ForgotPasswordFunc: func(ctx context.Context, email string) error {
					return tt.serviceErr
				},
			}

			rec := httptest.NewRecorder()
			NewPasswordResetHandler(svc).ForgotPassword(rec, newJSONRequest(http.MethodPost, "/forgot-password", `{"email":"alice@example.com"}`))

			assert.Equal(t, tt.expectedStatus, rec.Code)
			data, errInfo, _ := decodeResponse(t, rec)
			if tt.expectedCode == "" {
				assert.Equal(t, constants.MsgResetEmailSent, data["message"])
				return
			}
			require.NotNil(t, errInfo)
			assert.Equal(t, tt.expectedCode, errInfo.Code)
			assert.NotContains(t, rec.Body.String(), "sendgrid", "developer info must not leak")
		})
	}
}

func TestPasswordResetHandler_ResetPassword(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		serviceErr     error
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "Success",
			body:           `{"password":"p3"}`,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Unknown user",
			body:           `{"password":"p3"}`,
			serviceErr:     utils.NewNotFoundError(constants.MsgUserNotFound),
			expectedStatus: http.StatusNotFound,
			expectedCode:   constants.CodeUserNotFound,
		},
		{
			name:           "Expired token",
			body:           `{"password":"p3"}`,
			serviceErr:     utils.NewExpiredTokenError(),
			expectedStatus: http.StatusBadRequest,
			expectedCode:   constants.CodeTokenInvalid,
		},
		{
			name:           "Missing password",
			body:           `{}`,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   constants.CodeValidationError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &MockAuthService{
				ResetPasswordFunc: func(ctx context.Context, id, token, newPassword string) (*models.User, error) {
					assert.Equal(t, "user-1", id)
					assert.Equal(t, "a.b.c", token)
					if tt.serviceErr != nil {
						return nil, tt.serviceErr
					}
					return &models.User{ID: id, Name: "Alice", Email: "alice@example.com", Role: constants.RoleUser}, nil
				},
			}

			r := chi.NewRouter()
			r.Post(constants.ResetPasswordPath, NewPasswordResetHandler(svc).ResetPassword)

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, newJSONRequest(http.MethodPost, "/reset-password/user-1/a.b.c", tt.body))

			assert.Equal(t, tt.expectedStatus, rec.Code)
			data, errInfo, _ := decodeResponse(t, rec)
			if tt.expectedCode == "" {
				assert.Equal(t, constants.MsgPasswordResetDone, data["message"])
				assert.Equal(t, "user-1", data["user"].(map[string]interface{})["id"])
				return
			}
			require.NotNil(t, errInfo)
			assert.Equal(t, tt.expectedCode, errInfo.Code)
		})
	}
}
