package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/yasinhessnawi1/password-reset-backend/internal/constants"
)

// ErrConfiguration is wrapped by every validation failure. Callers treat it as fatal.
var ErrConfiguration = errors.New("configuration failure")

// AppConfig represents the entire application configuration
type AppConfig struct {
	App           AppSettings           `yaml:"app"`
	Database      DatabaseSettings      `yaml:"database"`
	Server        ServerSettings        `yaml:"server"`
	JWT           JWTSettings           `yaml:"jwt"`
	Logging       LoggingSettings       `yaml:"logging"`
	CORS          CORSSettings          `yaml:"cors"`
	PasswordHash  HashSettings          `yaml:"password_hash"`
	Email         EmailSettings         `yaml:"email"`
	PasswordReset PasswordResetSettings `yaml:"password_reset"`
	Seed          SeedSettings          `yaml:"seed"`
}

// AppSettings contains general application settings
type AppSettings struct {
	Environment string `yaml:"environment" env:"APP_ENV"`
	Name        string `yaml:"name" env:"APP_NAME"`
	Version     string `yaml:"version" env:"APP_VERSION"`
}

// DatabaseSettings contains credential store connection settings.
// URI is used by the mongodb driver; the SQL drivers use the discrete fields.
type DatabaseSettings struct {
	Driver   string        `yaml:"driver" env:"DB_DRIVER"`
	URI      string        `yaml:"uri" env:"DB_URI"`
	Host     string        `yaml:"host" env:"DB_HOST"`
	Port     int           `yaml:"port" env:"DB_PORT"`
	Name     string        `yaml:"name" env:"DB_NAME"`
	User     string        `yaml:"user" env:"DB_USER"`
	Password string        `yaml:"password" env:"DB_PASSWORD"`
	MaxConns int           `yaml:"max_conns" env:"DB_MAX_CONNS"`
	MinConns int           `yaml:"min_conns" env:"DB_MIN_CONNS"`
	Timeout  time.Duration `yaml:"timeout" env:"DB_TIMEOUT"`
}

// ServerSettings contains HTTP server settings
type ServerSettings struct {
	Host            string        `yaml:"host" env:"SERVER_HOST"`
	Port            int           `yaml:"port" env:"SERVER_PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"SERVER_READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env:"SERVER_IDLE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT"`
}

// JWTSettings contains token signing settings.
// A zero LoginExpiry issues login tokens without an expiry claim.
type JWTSettings struct {
	Secret      string        `yaml:"secret" env:"JWT_SECRET"`
	Issuer      string        `yaml:"issuer" env:"JWT_ISSUER"`
	ResetExpiry time.Duration `yaml:"reset_expiry" env:"JWT_RESET_EXPIRY"`
	LoginExpiry time.Duration `yaml:"login_expiry" env:"JWT_LOGIN_EXPIRY"`
}

// LoggingSettings contains logging configuration
type LoggingSettings struct {
	Level      string `yaml:"level" env:"LOG_LEVEL"`
	Format     string `yaml:"format" env:"LOG_FORMAT"`
	RequestLog bool   `yaml:"request_log" env:"LOG_REQUESTS"`
}

// CORSSettings contains CORS configuration
type CORSSettings struct {
	AllowedOrigins   []string `yaml:"allowed_origins" env:"ALLOWED_ORIGINS"`
	AllowCredentials bool     `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS"`
}

// HashSettings contains password hashing settings
type HashSettings struct {
	Algorithm   string `yaml:"algorithm" env:"HASH_ALGORITHM"`
	BcryptCost  int    `yaml:"bcrypt_cost" env:"HASH_BCRYPT_COST"`
	Memory      uint32 `yaml:"memory" env:"HASH_MEMORY"`
	Iterations  uint32 `yaml:"iterations" env:"HASH_ITERATIONS"`
	Parallelism uint8  `yaml:"parallelism" env:"HASH_PARALLELISM"`
	SaltLength  uint32 `yaml:"salt_length" env:"HASH_SALT_LENGTH"`
	KeyLength   uint32 `yaml:"key_length" env:"HASH_KEY_LENGTH"`
}

// EmailSettings contains outbound mail settings
type EmailSettings struct {
	Provider     string        `yaml:"provider" env:"EMAIL_PROVIDER"`
	APIKey       string        `yaml:"api_key" env:"SENDGRID_API_KEY"`
	FromAddress  string        `yaml:"from_address" env:"EMAIL_FROM_ADDRESS"`
	FromName     string        `yaml:"from_name" env:"EMAIL_FROM_NAME"`
	ResetURLBase string        `yaml:"reset_url_base" env:"RESET_URL_BASE"`
	SendTimeout  time.Duration `yaml:"send_timeout" env:"EMAIL_SEND_TIMEOUT"`
}

// PasswordResetSettings controls how reset requests are checked
type PasswordResetSettings struct {
	EnforceSubjectMatch bool `yaml:"enforce_subject_match" env:"RESET_ENFORCE_SUBJECT_MATCH"`
}

// SeedSettings describes the optional administrator account created at startup
type SeedSettings struct {
	AdminName     string `yaml:"admin_name" env:"SEED_ADMIN_NAME"`
	AdminEmail    string `yaml:"admin_email" env:"SEED_ADMIN_EMAIL"`
	AdminPassword string `yaml:"admin_password" env:"SEED_ADMIN_PASSWORD"`
}

// ConnectionString returns the DSN for the configured SQL driver.
func (dbs *DatabaseSettings) ConnectionString() string {
	if dbs.Driver == constants.DriverPostgres {
		return fmt.Sprintf(
			"host=%s port=%d user=%s password=%s dbname=%s %s",
			dbs.Host, dbs.Port, dbs.User, dbs.Password, dbs.Name, constants.PostgresSSLDisable,
		)
	}

	// MariaDB/MySQL connection string format: username:password@tcp(host:port)/dbname
	password := dbs.Password
	if password != "" {
		password = ":" + password
	}

	return fmt.Sprintf(
		"%s%s@tcp(%s:%d)/%s?parseTime=true&loc=UTC&clientFoundRows=true&charset=utf8mb4&collation=utf8mb4_unicode_ci",
		dbs.User, password, dbs.Host, dbs.Port, dbs.Name,
	)
}

// IsSQL reports whether the configured driver is a database/sql backend.
func (dbs *DatabaseSettings) IsSQL() bool {
	return dbs.Driver == constants.DriverPostgres || dbs.Driver == constants.DriverMySQL
}

// ServerAddress returns the complete server address
func (ss *ServerSettings) ServerAddress() string {
	return fmt.Sprintf("%s:%d", ss.Host, ss.Port)
}

// IsDevelopment checks if the application is running in development mode
func (as *AppSettings) IsDevelopment() bool {
	return strings.ToLower(as.Environment) == constants.EnvDevelopment
}

// IsProduction checks if the application is running in production mode
func (as *AppSettings) IsProduction() bool {
	return strings.ToLower(as.Environment) == constants.EnvProduction
}

// IsTesting checks if the application is running in testing mode
func (as *AppSettings) IsTesting() bool {
	return strings.ToLower(as.Environment) == constants.EnvTesting
}

// SeedEnabled reports whether an administrator account should be seeded.
func (ss *SeedSettings) SeedEnabled() bool {
	return ss.AdminEmail != "" && ss.AdminPassword != ""
}

// Load loads the configuration from a config file and environment variables.
// A missing file is not an error; defaults and the environment fill the gaps.
func Load(configPath string) (*AppConfig, error) {
	config := &AppConfig{}

	if _, err := os.Stat(configPath); err == nil {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}

		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	}

	// Override with environment variables
	if err := LoadEnv(config); err != nil {
		return nil, fmt.Errorf("error loading environment variables: %w", err)
	}

	setDefaults(config)

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logConfig(config)

	return config, nil
}

// setDefaults sets default values for any missing configuration
func setDefaults(config *AppConfig) {
	// App defaults
	if config.App.Environment == "" {
		config.App.Environment = constants.EnvDevelopment
	}
	if config.App.Name == "" {
		config.App.Name = constants.DefaultAppName
	}
	if config.App.Version == "" {
		config.App.Version = constants.DefaultAppVersion
	}

	// Server defaults
	if config.Server.Host == "" {
		config.Server.Host = constants.DefaultServerHost
	}
	if config.Server.Port == 0 {
		config.Server.Port = constants.DefaultServerPort
	}
	if config.Server.ReadTimeout == 0 {
		config.Server.ReadTimeout = constants.DefaultReadTimeout
	}
	if config.Server.WriteTimeout == 0 {
		config.Server.WriteTimeout = constants.DefaultWriteTimeout
	}
	if config.Server.IdleTimeout == 0 {
		config.Server.IdleTimeout = constants.DefaultIdleTimeout
	}
	if config.Server.ShutdownTimeout == 0 {
		config.Server.ShutdownTimeout = constants.DefaultShutdownTimeout
	}

	// Database defaults
	config.Database.Driver = strings.ToLower(config.Database.Driver)
	if config.Database.Driver == "" {
		config.Database.Driver = constants.DefaultDBDriver
	}
	if config.Database.Driver == constants.DriverMongoDB && config.Database.URI == "" {
		config.Database.URI = constants.DefaultMongoURI
	}
	if config.Database.Name == "" {
		config.Database.Name = constants.DefaultDBName
	}
	if config.Database.Port == 0 {
		switch config.Database.Driver {
		case constants.DriverPostgres:
			config.Database.Port = constants.DefaultPostgresPort
		case constants.DriverMySQL:
			config.Database.Port = constants.DefaultMySQLPort
		}
	}
	if config.Database.MaxConns == 0 {
		config.Database.MaxConns = constants.DefaultDBMaxConnections
	}
	if config.Database.MinConns == 0 {
		config.Database.MinConns = constants.DefaultDBMinConnections
	}
	if config.Database.Timeout == 0 {
		config.Database.Timeout = constants.DBConnectionTimeout
	}

	// JWT defaults
	if config.JWT.Issuer == "" {
		config.JWT.Issuer = constants.DefaultJWTIssuer
	}
	if config.JWT.ResetExpiry == 0 {
		config.JWT.ResetExpiry = constants.DefaultResetTokenExpiry
	}

	// Logging defaults
	if config.Logging.Level == "" {
		config.Logging.Level = constants.DefaultLogLevel
	}
	if config.Logging.Format == "" {
		config.Logging.Format = constants.DefaultLogFormat
	}

	// CORS defaults
	if len(config.CORS.AllowedOrigins) == 0 {
		config.CORS.AllowedOrigins = []string{"*"}
	}

	// Password hash defaults
	config.PasswordHash.Algorithm = strings.ToLower(config.PasswordHash.Algorithm)
	if config.PasswordHash.Algorithm == "" {
		config.PasswordHash.Algorithm = constants.DefaultHashAlgorithm
	}
	if config.PasswordHash.BcryptCost == 0 {
		config.PasswordHash.BcryptCost = constants.DefaultBcryptCost
	}
	if config.PasswordHash.Memory == 0 {
		config.PasswordHash.Memory = constants.DefaultPasswordHashMemory
	}
	if config.PasswordHash.Iterations == 0 {
		config.PasswordHash.Iterations = constants.DefaultPasswordHashIterations
	}
	if config.PasswordHash.Parallelism == 0 {
		config.PasswordHash.Parallelism = constants.DefaultPasswordHashParallelism
	}
	if config.PasswordHash.SaltLength == 0 {
		config.PasswordHash.SaltLength = constants.DefaultPasswordHashSaltLength
	}
	if config.PasswordHash.KeyLength == 0 {
		config.PasswordHash.KeyLength = constants.DefaultPasswordHashKeyLength
	}

	// Email defaults
	config.Email.Provider = strings.ToLower(config.Email.Provider)
	if config.Email.Provider == "" {
		config.Email.Provider = constants.DefaultEmailProvider
	}
	if config.Email.FromName == "" {
		config.Email.FromName = constants.DefaultFromName
	}
	if config.Email.ResetURLBase == "" {
		config.Email.ResetURLBase = constants.DefaultResetURLBase
	}
	config.Email.ResetURLBase = strings.TrimRight(config.Email.ResetURLBase, "/")
	if config.Email.SendTimeout == 0 {
		config.Email.SendTimeout = constants.DefaultEmailSendTimeout
	}

	// Seed defaults
	if config.Seed.AdminName == "" {
		config.Seed.AdminName = "Administrator"
	}
}

// validateConfig validates that the configuration has all required values.
// Every returned error wraps ErrConfiguration.
func validateConfig(config *AppConfig) error {
	env := strings.ToLower(config.App.Environment)
	if env != constants.EnvDevelopment && env != constants.EnvTesting && env != constants.EnvProduction {
		log.Warn().
			Str("environment", config.App.Environment).
			Msg("Invalid environment, defaulting to development")
		config.App.Environment = constants.EnvDevelopment
	}

	// Tokens cannot be signed or verified without a secret
	if config.JWT.Secret == "" {
		return fmt.Errorf("%w: JWT secret must be set", ErrConfiguration)
	}
	if config.App.IsProduction() && config.JWT.Secret == "changeme" {
		return fmt.Errorf("%w: JWT secret must be changed in production", ErrConfiguration)
	}
	if config.JWT.LoginExpiry < 0 {
		return fmt.Errorf("%w: JWT login expiry must not be negative", ErrConfiguration)
	}

	switch config.Database.Driver {
	case constants.DriverMongoDB:
		if config.Database.URI == "" {
			return fmt.Errorf("%w: database uri must be set for mongodb", ErrConfiguration)
		}
	case constants.DriverPostgres, constants.DriverMySQL:
		if config.Database.User == "" {
			return fmt.Errorf("%w: database user must be set", ErrConfiguration)
		}
		if config.Database.Host == "" {
			return fmt.Errorf("%w: database host must be set", ErrConfiguration)
		}
	default:
		return fmt.Errorf("%w: unsupported database driver: %s", ErrConfiguration, config.Database.Driver)
	}

	switch config.PasswordHash.Algorithm {
	case constants.HashAlgorithmBcrypt, constants.HashAlgorithmArgon2id:
	default:
		return fmt.Errorf("%w: unsupported password hash algorithm: %s", ErrConfiguration, config.PasswordHash.Algorithm)
	}

	switch config.Email.Provider {
	case constants.EmailProviderSendGrid:
		if config.Email.APIKey == "" {
			return fmt.Errorf("%w: sendgrid api key must be set", ErrConfiguration)
		}
		if config.Email.FromAddress == "" {
			return fmt.Errorf("%w: email from address must be set", ErrConfiguration)
		}
	case constants.EmailProviderLog:
		if config.App.IsProduction() {
			log.Warn().Msg("Log-only email provider configured in production; reset emails will not be delivered")
		}
	default:
		return fmt.Errorf("%w: unsupported email provider: %s", ErrConfiguration, config.Email.Provider)
	}

	logLevel := strings.ToLower(config.Logging.Level)
	validLevels := []string{"debug", "info", "warn", "error", "fatal", "panic"}
	validLevel := false
	for _, level := range validLevels {
		if logLevel == level {
			validLevel = true
			break
		}
	}
	if !validLevel {
		return fmt.Errorf("%w: invalid log level: %s", ErrConfiguration, config.Logging.Level)
	}

	return nil
}

// logConfig logs the current configuration, masking sensitive values
func logConfig(config *AppConfig) {
	event := log.Info().
		Str("environment", config.App.Environment).
		Str("version", config.App.Version).
		Str("server", config.Server.ServerAddress()).
		Str("db_driver", config.Database.Driver).
		Str("db_name", config.Database.Name).
		Str("hash_algorithm", config.PasswordHash.Algorithm).
		Str("email_provider", config.Email.Provider).
		Dur("reset_expiry", config.JWT.ResetExpiry).
		Bool("enforce_subject_match", config.PasswordReset.EnforceSubjectMatch).
		Str("log_level", config.Logging.Level).
		Str("jwt_secret", constants.LogRedactedValue)

	if config.Database.IsSQL() {
		event = event.Str("db_host", config.Database.Host).Int("db_port", config.Database.Port)
	}
	if config.Email.APIKey != "" {
		event = event.Str("sendgrid_api_key", constants.LogRedactedValue)
	}

	event.Msg("Configuration loaded")
}
