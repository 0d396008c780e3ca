package database

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql" // Import MySQL driver
	_ "github.com/lib/pq"              // Import PostgreSQL driver
	"github.com/rs/zerolog/log"

	"github.com/yasinhessnawi1/password-reset-backend/internal/config"
	"github.com/yasinhessnawi1/password-reset-backend/internal/constants"
	"github.com/yasinhessnawi1/password-reset-backend/internal/utils"
)

// Pool represents a SQL connection pool together with the dialect it speaks
type Pool struct {
	*sql.DB
	Driver string
}

// Connect creates a new SQL connection pool for the configured driver.
// For MySQL the database is created first if it does not exist.
func Connect(ctx context.Context, cfg *config.DatabaseSettings) (*Pool, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	log.Info().
		Str("driver", cfg.Driver).
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Str("database", cfg.Name).
		Str("user", cfg.User).
		Msg("Connecting to database")

	if cfg.Driver == constants.DriverMySQL {
		if err := ensureMySQLDatabase(ctx, cfg); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open(cfg.Driver, cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConns)
	db.SetMaxIdleConns(cfg.MinConns)
	db.SetConnMaxLifetime(constants.DBConnMaxLifetime)
	db.SetConnMaxIdleTime(constants.DBConnMaxIdleTime)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Info().Msg("Successfully connected to database")

	return &Pool{DB: db, Driver: cfg.Driver}, nil
}

// ensureMySQLDatabase connects without a schema and creates the configured one.
func ensureMySQLDatabase(ctx context.Context, cfg *config.DatabaseSettings) error {
	rootCfg := *cfg
	rootCfg.Name = ""

	rootDB, err := sql.Open(constants.DriverMySQL, rootCfg.ConnectionString())
	if err != nil {
		return fmt.Errorf("failed to connect to root database: %w", err)
	}
	defer rootDB.Close()

	if _, err := rootDB.ExecContext(ctx, fmt.Sprintf("CREATE DATABASE IF NOT EXISTS `%s`", cfg.Name)); err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}

	log.Info().Msgf("Ensured database '%s' exists", cfg.Name)
	return nil
}

// Close closes the database connection pool
func (p *Pool) Close() {
	if p != nil && p.DB != nil {
		log.Info().Msg("Closing database connection pool")
		if err := p.DB.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close database connection pool")
		}
	}
}

// Rebind rewrites ? placeholders into the dialect of the pool.
// PostgreSQL uses $1..$n; MySQL keeps ?.
func (p *Pool) Rebind(query string) string {
	if p.Driver != constants.DriverPostgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

// Transaction executes a function within a transaction
func (p *Pool) Transaction(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := p.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	// Handle panics to ensure proper rollback
	defer func() {
		if r := recover(); r != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Error().Err(rbErr).Msg("Failed to rollback transaction after panic")
			}
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("failed to rollback transaction: %w", rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// HealthCheck performs a health check on the database connection
func (p *Pool) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, constants.DBHealthCheckTimeout)
	defer cancel()

	if err := p.PingContext(ctx); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}

	var result int
	if err := p.QueryRowContext(ctx, "SELECT 1").Scan(&result); err != nil {
		return fmt.Errorf("database query test failed: %w", err)
	}

	if result != 1 {
		return fmt.Errorf("database returned unexpected result: %d", result)
	}

	return nil
}

// QueryTimer measures a query and logs it when stopped
func QueryTimer(query string, args []interface{}) func(err error) {
	start := time.Now()
	return func(err error) {
		utils.LogDBQuery(query, args, time.Since(start), err)
	}
}
