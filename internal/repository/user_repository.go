// Package repository implements the credential store used by the auth
// workflow. UserRepository has a MongoDB implementation and a SQL
// implementation for PostgreSQL and MySQL; both enforce email uniqueness in
// the store itself.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/yasinhessnawi1/password-reset-backend/internal/constants"
	"github.com/yasinhessnawi1/password-reset-backend/internal/database"
	"github.com/yasinhessnawi1/password-reset-backend/internal/models"
	"github.com/yasinhessnawi1/password-reset-backend/internal/utils"
)

// UserRepository defines methods for interacting with user data
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	UpdateByID(ctx context.Context, id string, update models.UserUpdate) (*models.User, error)
}

const userColumns = "id, name, email, password_hash, token, role, created_at, updated_at"

// SQLUserRepository is a database/sql implementation of UserRepository
// for PostgreSQL and MySQL.
type SQLUserRepository struct {
	db *database.Pool
}

// NewSQLUserRepository creates a new SQLUserRepository
func NewSQLUserRepository(db *database.Pool) *SQLUserRepository {
	return &SQLUserRepository{
		db: db,
	}
}

// rowScanner is satisfied by *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(row rowScanner) (*models.User, error) {
	user := &models.User{}
	var token sql.NullString
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&token,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	user.Token = token.String
	return user, nil
}

func nullableToken(token string) sql.NullString {
	return sql.NullString{String: token, Valid: token != ""}
}

// Create adds a new user to the database. The identifier is generated here.
func (r *SQLUserRepository) Create(ctx context.Context, user *models.User) error {
	startTime := time.Now()

	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.Role == "" {
		user.Role = constants.RoleUser
	}

	query := r.db.Rebind(`
        INSERT INTO users (` + userColumns + `)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)
    `)

	args := []interface{}{
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
		nullableToken(user.Token),
		user.Role,
		user.CreatedAt,
		user.UpdatedAt,
	}
	_, err := r.db.ExecContext(ctx, query, args...)

	utils.LogDBQuery(query, args, time.Since(startTime), err)

	if err != nil {
		if utils.IsUniqueViolation(err) {
			return utils.NewDuplicateError(constants.MsgUserAlreadyExists, constants.ColumnEmail)
		}
		return utils.NewStoreError(fmt.Errorf("failed to create user: %w", err))
	}

	log.Info().
		Str("user_id", user.ID).
		Str("email", utils.MaskEmail(user.Email)).
		Msg("User created")

	return nil
}

// GetByID retrieves a user by ID
func (r *SQLUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.getOne(ctx, r.db.DB, constants.ColumnID, id)
}

// GetByEmail retrieves a user by email
func (r *SQLUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, r.db.DB, constants.ColumnEmail, email)
}

// queryer is satisfied by *sql.DB and *sql.Tx
type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

func (r *SQLUserRepository) getOne(ctx context.Context, q queryer, column, value string) (*models.User, error) {
	startTime := time.Now()

	query := r.db.Rebind(fmt.Sprintf(`
        SELECT %s
        FROM users
        WHERE %s = ?
    `, userColumns, column))

	user, err := scanUser(q.QueryRowContext(ctx, query, value))

	utils.LogDBQuery(query, []interface{}{value}, time.Since(startTime), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.NewNotFoundError(constants.MsgUserNotFound)
		}
		return nil, utils.NewStoreError(fmt.Errorf("failed to get user by %s: %w", column, err))
	}

	return user, nil
}

// UpdateByID applies the non-nil fields of update and returns the updated user.
// The update and the read-back run in one transaction.
func (r *SQLUserRepository) UpdateByID(ctx context.Context, id string, update models.UserUpdate) (*models.User, error) {
	if update.IsEmpty() {
		return r.GetByID(ctx, id)
	}

	setClauses := make([]string, 0, 3)
	args := make([]interface{}, 0, 4)

	if update.PasswordHash != nil {
		setClauses = append(setClauses, constants.ColumnPasswordHash+" = ?")
		args = append(args, *update.PasswordHash)
	}
	if update.Token != nil {
		setClauses = append(setClauses, constants.ColumnToken+" = ?")
		args = append(args, nullableToken(*update.Token))
	}
	setClauses = append(setClauses, constants.ColumnUpdatedAt+" = ?")
	args = append(args, time.Now().UTC(), id)

	query := r.db.Rebind(fmt.Sprintf(`
        UPDATE users
        SET %s
        WHERE id = ?
    `, strings.Join(setClauses, ", ")))

	var updated *models.User
	err := r.db.Transaction(ctx, func(tx *sql.Tx) error {
		startTime := time.Now()
		result, err := tx.ExecContext(ctx, query, args...)
		utils.LogDBQuery(query, args, time.Since(startTime), err)
		if err != nil {
			return utils.NewStoreError(fmt.Errorf("failed to update user: %w", err))
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return utils.NewStoreError(fmt.Errorf("failed to get rows affected: %w", err))
		}
		if rowsAffected == 0 {
			return utils.NewNotFoundError(constants.MsgUserNotFound)
		}

		updated, err = r.getOne(ctx, tx, constants.ColumnID, id)
		return err
	})
	if err != nil {
		return nil, utils.ParseError(err)
	}

	log.Info().
		Str("user_id", id).
		Bool("password_changed", update.PasswordHash != nil).
		Bool("token_changed", update.Token != nil).
		Msg("User updated")

	return updated, nil
}
