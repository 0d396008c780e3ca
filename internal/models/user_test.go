package models_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yasinhessnawi1/password-reset-backend/internal/models"
)

func TestUser_TableName(t *testing.T) {
	user := &models.User{ID: "user-1"}

	assert.Equal(t, "users", user.TableName(), "TableName should return the correct database table name")
}

func TestNewUser(t *testing.T) {
	now := time.Now().UTC()
	user := models.NewUser("  Ada Lovelace ", " ada@example.com ")

	assert.NotNil(t, user, "NewUser should return a non-nil User")
	assert.Equal(t, "Ada Lovelace", user.Name, "Name should be trimmed")
	assert.Equal(t, "ada@example.com", user.Email, "Email should be trimmed")
	assert.Equal(t, "user", user.Role, "New users get the default role")
	assert.Empty(t, user.PasswordHash, "PasswordHash should be empty initially")
	assert.Empty(t, user.Token, "Token should be empty initially")
	assert.Empty(t, user.ID, "A new User has no ID until stored")
	assert.WithinDuration(t, now, user.CreatedAt, time.Second)
	assert.Equal(t, user.CreatedAt, user.UpdatedAt)
}

func TestUser_Sanitize(t *testing.T) {
	user := &models.User{
		ID:           "user-1",
		Name:         "Ada",
		Email:        "ada@example.com",
		PasswordHash: "$2a$10$hash",
		Token:        "eyJhbGciOiJIUzI1NiJ9.payload.sig",
		Role:         "admin",
	}

	sanitized := user.Sanitize()

	assert.Empty(t, sanitized.PasswordHash, "Sanitize should clear the password hash")
	assert.Empty(t, sanitized.Token, "Sanitize should clear the session token")
	assert.Equal(t, user.ID, sanitized.ID)
	assert.Equal(t, user.Role, sanitized.Role)
	assert.Equal(t, "$2a$10$hash", user.PasswordHash, "Sanitize must not modify the original")
}

func TestUser_JSONOmitsSecrets(t *testing.T) {
	user := &models.User{
		ID:           "user-1",
		Name:         "Ada",
		Email:        "ada@example.com",
		PasswordHash: "$2a$10$hash",
		Token:        "session-token",
		Role:         "user",
	}

	data, err := json.Marshal(user)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.NotContains(t, decoded, "password_hash")
	assert.NotContains(t, decoded, "token")
	assert.NotContains(t, string(data), "$2a$10$hash")
	assert.Equal(t, "Ada", decoded["name"])
	assert.Equal(t, "user", decoded["role"])
}

func TestUserUpdate_IsEmpty(t *testing.T) {
	hash := "h"

	assert.True(t, models.UserUpdate{}.IsEmpty())
	assert.False(t, models.UserUpdate{PasswordHash: &hash}.IsEmpty())
	assert.False(t, models.UserUpdate{Token: &hash}.IsEmpty())
}
