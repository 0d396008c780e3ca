// Package constants provides shared constant values used throughout the application.
//
// The defaults.go file defines default values and limits used throughout the application.
// These constants provide fallbacks for configuration settings, establish
// boundaries for resource usage, and define password hashing parameters.
package constants

// Default Configuration Values define fallback settings when not specified in configuration.
const (
	// DefaultAppName is the application name reported by the version endpoint.
	DefaultAppName = "password-reset-backend"

	// DefaultAppVersion is the version reported when none is configured.
	DefaultAppVersion = "1.0.0"

	// DefaultServerHost is the default interface the HTTP server binds to.
	DefaultServerHost = "0.0.0.0"

	// DefaultServerPort is the default HTTP server port.
	DefaultServerPort = 8080

	// DefaultDBDriver is the default credential store backend.
	DefaultDBDriver = DriverMongoDB

	// DefaultMongoURI is the default MongoDB connection string.
	DefaultMongoURI = "mongodb://localhost:27017"

	// DefaultDBName is the default database name.
	DefaultDBName = "password_reset"

	// DefaultPostgresPort is the default PostgreSQL port.
	DefaultPostgresPort = 5432

	// DefaultMySQLPort is the default MySQL port.
	DefaultMySQLPort = 3306

	// DefaultDBMaxConnections is the default maximum number of database connections.
	DefaultDBMaxConnections = 20

	// DefaultDBMinConnections is the default minimum number of database connections.
	DefaultDBMinConnections = 5

	// DefaultLogLevel is the default logging verbosity level.
	DefaultLogLevel = "info"

	// DefaultLogFormat is the default logging output format.
	DefaultLogFormat = "json"

	// DefaultConfigPath is the configuration file read when --config is not given.
	DefaultConfigPath = "./configs/config.yaml"
)

// Environment Types define the recognized application running environments.
// These constants are used to adjust behavior based on the deployment environment.
const (
	// EnvDevelopment identifies a development environment with debugging features enabled.
	EnvDevelopment = "development"

	// EnvTesting identifies a testing environment for automated tests.
	EnvTesting = "testing"

	// EnvProduction identifies a production environment with optimized settings.
	EnvProduction = "production"
)

// MaxRequestBodySize is the maximum size in bytes for HTTP request bodies.
const MaxRequestBodySize = 1048576 // 1MB in bytes

// Default Password Hash Settings define the parameters for password hashing.
const (
	// DefaultHashAlgorithm is the algorithm used when none is configured.
	DefaultHashAlgorithm = HashAlgorithmBcrypt

	// DefaultBcryptCost is the bcrypt work factor.
	DefaultBcryptCost = 10

	// DefaultPasswordHashMemory is the memory cost parameter for Argon2id hashing.
	// Higher values increase security but require more memory.
	DefaultPasswordHashMemory = 64 * 1024

	// DefaultPasswordHashIterations is the number of iterations for Argon2id hashing.
	DefaultPasswordHashIterations = 3

	// DefaultPasswordHashParallelism is the parallelism parameter for Argon2id hashing.
	DefaultPasswordHashParallelism = 2

	// DefaultPasswordHashSaltLength is the length in bytes of the random salt.
	DefaultPasswordHashSaltLength = 16

	// DefaultPasswordHashKeyLength is the length in bytes of the generated hash.
	DefaultPasswordHashKeyLength = 32
)

// Token and Email Defaults define values used by the reset flow.
const (
	// DefaultJWTIssuer is the issuer claim value for JWT tokens.
	DefaultJWTIssuer = "password-reset-backend"

	// DefaultResetURLBase is the front-end route that receives /{id}/{token}.
	DefaultResetURLBase = "http://localhost:5173/reset-password"

	// DefaultEmailProvider is the mail transport used when none is configured.
	DefaultEmailProvider = EmailProviderLog

	// DefaultFromName is the sender display name on outgoing mail.
	DefaultFromName = "Password Reset"
)
