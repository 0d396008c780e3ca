package migrations

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/yasinhessnawi1/password-reset-backend/internal/constants"
)

// GetMigrations returns the ordered migrations for the given SQL driver.
func GetMigrations(driver string) []Migration {
	return []Migration{
		createUsersTable(driver),
	}
}

// createUsersTable creates the users table with a unique email constraint
func createUsersTable(driver string) Migration {
	timestampType := "TIMESTAMP"
	emailType := "VARCHAR(255)"
	if driver == constants.DriverMySQL {
		// DATETIME avoids MySQL's implicit ON UPDATE behaviour for TIMESTAMP columns
		timestampType = "DATETIME(6)"
		// Binary collation keeps email matching case-sensitive like the other stores
		emailType = "VARCHAR(255) CHARACTER SET utf8mb4 COLLATE utf8mb4_bin"
	}

	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			%s VARCHAR(36) PRIMARY KEY,
			%s VARCHAR(100) NOT NULL,
			%s %s NOT NULL,
			%s VARCHAR(255) NOT NULL,
			%s TEXT NULL,
			%s VARCHAR(20) NOT NULL DEFAULT '%s',
			%s %s NOT NULL,
			%s %s NOT NULL,
			CONSTRAINT %s UNIQUE (%s)
		)
	`,
		constants.TableUsers,
		constants.ColumnID,
		constants.ColumnName,
		constants.ColumnEmail, emailType,
		constants.ColumnPasswordHash,
		constants.ColumnToken,
		constants.ColumnRole, constants.RoleUser,
		constants.ColumnCreatedAt, timestampType,
		constants.ColumnUpdatedAt, timestampType,
		constants.IndexUsersEmail, constants.ColumnEmail,
	)

	return Migration{
		Name:        "create_users_table",
		Description: "Creates the users table",
		TableName:   constants.TableUsers,
		RunSQL: func(ctx context.Context, tx *sql.Tx) error {
			_, err := tx.ExecContext(ctx, query)
			return err
		},
	}
}
