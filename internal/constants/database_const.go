// Package constants provides shared constant values used throughout the application.
//
// The database_const.go file defines constants related to database operations,
// including table and collection names, column names, driver error codes, and
// logging fields. Centralizing these names keeps the SQL and MongoDB stores
// consistent with the migrations that create them.
package constants

// Table Names define the names of database tables and collections.
const (
	// TableUsers is the SQL table that stores user account information.
	TableUsers = "users"

	// CollectionUsers is the MongoDB collection that stores user documents.
	CollectionUsers = "users"
)

// Column Names define the field names shared by the SQL columns and BSON documents.
const (
	ColumnID           = "id"
	ColumnMongoID      = "_id"
	ColumnName         = "name"
	ColumnEmail        = "email"
	ColumnPasswordHash = "password_hash"
	ColumnToken        = "token"
	ColumnRole         = "role"
	ColumnCreatedAt    = "created_at"
	ColumnUpdatedAt    = "updated_at"
)

// Index Names define database index names.
const (
	// IndexUsersEmail is the unique index that enforces email uniqueness.
	IndexUsersEmail = "idx_users_email_unique"
)

// Database Schema Names define the names of database schemas.
const (
	// SchemaInformation is the name of the SQL information schema.
	SchemaInformation = "information_schema"
)

// Driver Error Codes identify unique-constraint violations for each backend.
const (
	// PGErrorDuplicateConstraint is the PostgreSQL unique_violation SQLSTATE.
	PGErrorDuplicateConstraint = "23505"

	// MySQLErrorDuplicateEntry is the MySQL ER_DUP_ENTRY error number.
	MySQLErrorDuplicateEntry = 1062

	// MongoErrorDuplicateKey is the MongoDB duplicate key error code.
	MongoErrorDuplicateKey = 11000
)

// PostgreSQL connection string parameters
const (
	PostgresSSLDisable = "sslmode=disable connect_timeout=15"
)

// Logger Constants define field names and values used in structured logging.
const (
	LogFieldQuery      = "query"
	LogFieldArgs       = "args"
	LogFieldDuration   = "duration"
	LogFieldError      = "error"
	LogFieldCollection = "collection"
)
