package utils

import (
	"database/sql"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/yasinhessnawi1/password-reset-backend/internal/config"
	"github.com/yasinhessnawi1/password-reset-backend/internal/constants"
)

// InitLogger initializes the application logger with the given configuration
func InitLogger(cfg *config.AppConfig) {
	log.Logger = newLogger(os.Stdout, cfg)

	if err := SetLogLevel(cfg.Logging.Level); err != nil {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	log.Info().Str("level", GetLogLevel()).Msg("Logger initialized")
}

// newLogger builds the process logger. Console output is only honoured
// outside production.
func newLogger(out io.Writer, cfg *config.AppConfig) zerolog.Logger {
	if strings.ToLower(cfg.Logging.Format) == "console" && !cfg.App.IsProduction() {
		out = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
		}
	}

	return zerolog.New(out).
		With().
		Timestamp().
		Str("app", cfg.App.Name).
		Str("version", cfg.App.Version).
		Str("env", cfg.App.Environment).
		Logger()
}

// RequestLogger creates a logger with request-specific context
func RequestLogger(requestID, userID, method, path string) zerolog.Logger {
	logger := log.With().
		Str(constants.RequestIDContextKey, requestID).
		Str("method", method).
		Str("path", path)

	if userID != "" {
		logger = logger.Str(constants.UserIDContextKey, userID)
	}

	return logger.Logger()
}

// LogHTTPRequest logs an HTTP request with request details
func LogHTTPRequest(requestID, method, path, remoteAddr, userAgent string, statusCode int, latency time.Duration) {
	// Probe endpoints are only interesting when debugging
	if path == constants.HealthPath || path == constants.MetricsPath {
		if zerolog.GlobalLevel() > zerolog.DebugLevel {
			return
		}
	}

	event := log.Info()
	switch {
	case statusCode >= 500:
		event = log.Error()
	case statusCode >= 400:
		event = log.Warn()
	case path == constants.HealthPath || path == constants.MetricsPath:
		event = log.Debug()
	}

	event.
		Str(constants.RequestIDContextKey, requestID).
		Str("method", method).
		Str("path", path).
		Str("remote_addr", remoteAddr).
		Str("user_agent", userAgent).
		Int("status", statusCode).
		Dur("latency", latency).
		Msg("HTTP Request")
}

// LogPanic logs a recovered panic value with the request logger
func LogPanic(logger zerolog.Logger, recovered interface{}, stack []byte) {
	logger.Error().
		Interface("panic", recovered).
		Str("stack", string(stack)).
		Msg("Panic recovered in request handler")
}

// RedactArgs masks string arguments of queries that touch credentials.
func RedactArgs(query string, args []interface{}) []interface{} {
	lower := strings.ToLower(query)
	sensitive := strings.Contains(lower, constants.ColumnPasswordHash) ||
		strings.Contains(lower, "secret") ||
		strings.Contains(lower, constants.ColumnToken)

	safeArgs := make([]interface{}, len(args))
	for i, arg := range args {
		if sensitive {
			switch arg.(type) {
			case string, sql.NullString:
				safeArgs[i] = constants.LogRedactedValue
				continue
			}
		}
		safeArgs[i] = arg
	}
	return safeArgs
}

// LogDBQuery logs a SQL query for debugging with sensitive arguments redacted
func LogDBQuery(query string, args []interface{}, duration time.Duration, err error) {
	event := log.Debug()
	if err != nil {
		event = log.Error().Err(err)
	}

	event.
		Str(constants.LogFieldQuery, query).
		Interface(constants.LogFieldArgs, RedactArgs(query, args)).
		Dur(constants.LogFieldDuration, duration).
		Msg("Database query executed")
}

// LogStoreOperation logs a document store operation. Filters and documents
// are never logged because they carry credentials.
func LogStoreOperation(collection, operation string, duration time.Duration, err error) {
	event := log.Debug()
	if err != nil {
		event = log.Error().Err(err)
	}

	event.
		Str(constants.LogFieldCollection, collection).
		Str("operation", operation).
		Dur(constants.LogFieldDuration, duration).
		Msg("Store operation executed")
}

// LogAuth logs authentication events. Passwords and tokens are never passed here.
func LogAuth(event string, userID, email string, success bool, reason string) {
	logEvent := log.Info()
	if !success {
		logEvent = log.Warn()
	}

	logEvent = logEvent.
		Str("category", constants.LogCategoryAuth).
		Str("event", event).
		Str(constants.UserIDContextKey, userID).
		Str("email", MaskEmail(email)).
		Bool("success", success)

	if reason != "" {
		logEvent = logEvent.Str("reason", reason)
	}

	logEvent.Msg("Authentication event")
}

// GetLogLevel returns the current global log level as a string
func GetLogLevel() string {
	return zerolog.GlobalLevel().String()
}

// SetLogLevel updates the global log level
func SetLogLevel(level string) error {
	parsedLevel, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return fmt.Errorf("invalid log level: %s", level)
	}

	zerolog.SetGlobalLevel(parsedLevel)
	log.Debug().Str("level", parsedLevel.String()).Msg("Log level changed")

	return nil
}
