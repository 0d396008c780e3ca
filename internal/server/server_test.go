package server

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yasinhessnawi1/password-reset-backend/internal/config"
	"github.com/yasinhessnawi1/password-reset-backend/internal/constants"
	"github.com/yasinhessnawi1/password-reset-backend/internal/models"
	"github.com/yasinhessnawi1/password-reset-backend/internal/utils"
)

// MockStore implements database.Store
type MockStore struct {
	healthErr error
	closed    bool
}

func (m *MockStore) HealthCheck(ctx context.Context) error {
	return m.healthErr
}

func (m *MockStore) Close() {
	m.closed = true
}

// MockUserRepository is an in-memory repository.UserRepository
type MockUserRepository struct {
	mu    sync.Mutex
	users map[string]*models.User
	seq   int
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{users: make(map[string]*models.User)}
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, utils.NewNotFoundError(constants.MsgUserNotFound)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, utils.NewNotFoundError(constants.MsgUserNotFound)
	}
	copied := *u
	return &copied, nil
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == user.Email {
			return utils.NewDuplicateError(constants.MsgUserAlreadyExists, constants.ColumnEmail)
		}
	}
	m.seq++
	user.ID = fmt.Sprintf("user-%d", m.seq)
	copied := *user
	m.users[user.ID] = &copied
	return nil
}

func (m *MockUserRepository) UpdateByID(ctx context.Context, id string, update models.UserUpdate) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, utils.NewNotFoundError(constants.MsgUserNotFound)
	}
	if update.PasswordHash != nil {
		u.PasswordHash = *update.PasswordHash
	}
	if update.Token != nil {
		u.Token = *update.Token
	}
	copied := *u
	return &copied, nil
}

func createTestConfig() *config.AppConfig {
	return &config.AppConfig{
		App: config.AppSettings{
			Environment: constants.EnvTesting,
			Name:        "password-reset-backend",
			Version:     "1.2.3",
		},
		Database: config.DatabaseSettings{
			Driver: constants.DriverMongoDB,
		},
		Server: config.ServerSettings{
			Host:            "127.0.0.1",
			Port:            0,
			ReadTimeout:     5 * time.Second,
			WriteTimeout:    10 * time.Second,
			IdleTimeout:     30 * time.Second,
			ShutdownTimeout: 5 * time.Second,
		},
		JWT: config.JWTSettings{
			Secret:      "test-secret-key-for-server-tests",
			Issuer:      "password-reset-backend",
			ResetExpiry: time.Hour,
		},
		CORS: config.CORSSettings{
			AllowedOrigins: []string{"http://localhost:3000"},
		},
		PasswordHash: config.HashSettings{
			Algorithm:  constants.HashAlgorithmBcrypt,
			BcryptCost: 4,
		},
		Email: config.EmailSettings{
			Provider:     constants.EmailProviderLog,
			FromAddress:  "noreply@example.com",
			ResetURLBase: "http://localhost:3000/reset-password",
			SendTimeout:  time.Second,
		},
	}
}

func newTestServer(t *testing.T) (*Server, *MockStore, *MockUserRepository) {
	t.Helper()
	store := &MockStore{}
	repo := NewMockUserRepository()
	s, err := New(createTestConfig(), store, repo)
	require.NoError(t, err)
	return s, store, repo
}

func TestNew(t *testing.T) {
	s, store, _ := newTestServer(t)

	assert.Same(t, store, s.Store)
	require.NotNil(t, s.Handlers)
	assert.NotNil(t, s.Handlers.AuthHandler)
	assert.NotNil(t, s.Handlers.PasswordResetHandler)
	assert.NotNil(t, s.AuthService)
	assert.NotNil(t, s.GetRouter())
	assert.Equal(t, "127.0.0.1:0", s.httpServer.Addr)
	assert.Equal(t, 30*time.Second, s.httpServer.IdleTimeout)
}

func TestNew_InvalidServices(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(cfg *config.AppConfig)
	}{
		{
			name:   "Unsupported hash algorithm",
			mutate: func(cfg *config.AppConfig) { cfg.PasswordHash.Algorithm = "md5" },
		},
		{
			name:   "Unsupported email provider",
			mutate: func(cfg *config.AppConfig) { cfg.Email.Provider = "carrier-pigeon" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := createTestConfig()
			tt.mutate(cfg)

			s, err := New(cfg, &MockStore{}, NewMockUserRepository())

			require.Error(t, err)
			assert.Nil(t, s)
			assert.Contains(t, err.Error(), "failed to set up services")
		})
	}
}

func TestShutdown(t *testing.T) {
	s, store, _ := newTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	require.NoError(t, s.Shutdown(ctx))
	assert.True(t, store.closed)
}

func TestHealthCheckFailureIsLoggedNotLeaked(t *testing.T) {
	s, store, _ := newTestServer(t)
	store.healthErr = errors.New("dial tcp 10.0.0.5:27017: connection refused")

	rec := doRequest(s, "GET", constants.HealthPath, "", nil)

	assert.Equal(t, 503, rec.Code)
	assert.NotContains(t, rec.Body.String(), "10.0.0.5")
}
