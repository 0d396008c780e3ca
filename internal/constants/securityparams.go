package constants

// Context Key Names
const (
	RequestIDContextKey = "request_id"
	UserIDContextKey    = "user_id"
)

// Password Hash Algorithms
const (
	HashAlgorithmBcrypt   = "bcrypt"
	HashAlgorithmArgon2id = "argon2id"
)

// Email Providers
const (
	EmailProviderSendGrid = "sendgrid"
	EmailProviderLog      = "log"
)

// Database Drivers
const (
	DriverMongoDB  = "mongodb"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)
