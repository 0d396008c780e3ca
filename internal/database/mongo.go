package database

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/yasinhessnawi1/password-reset-backend/internal/config"
	"github.com/yasinhessnawi1/password-reset-backend/internal/constants"
)

// Mongo wraps a MongoDB client and the application database
type Mongo struct {
	Client   *mongo.Client
	Database *mongo.Database
}

// ConnectMongo opens a MongoDB client and verifies it with a primary ping.
func ConnectMongo(ctx context.Context, cfg *config.DatabaseSettings) (*Mongo, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	log.Info().
		Str("driver", cfg.Driver).
		Str("database", cfg.Name).
		Msg("Connecting to database")

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetMaxPoolSize(uint64(cfg.MaxConns)).
		SetMinPoolSize(uint64(cfg.MinConns)).
		SetConnectTimeout(cfg.Timeout).
		SetServerSelectionTimeout(cfg.Timeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	log.Info().Msg("Successfully connected to database")

	return NewMongo(client, cfg.Name), nil
}

// NewMongo binds an existing client to the named database
func NewMongo(client *mongo.Client, name string) *Mongo {
	return &Mongo{
		Client:   client,
		Database: client.Database(name),
	}
}

// Users returns the users collection
func (m *Mongo) Users() *mongo.Collection {
	return m.Database.Collection(constants.CollectionUsers)
}

// Close disconnects the client
func (m *Mongo) Close() {
	if m == nil || m.Client == nil {
		return
	}

	log.Info().Msg("Closing database connection pool")

	ctx, cancel := context.WithTimeout(context.Background(), constants.DBHealthCheckTimeout)
	defer cancel()

	if err := m.Client.Disconnect(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to disconnect from mongodb")
	}
}

// HealthCheck pings the primary
func (m *Mongo) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, constants.DBHealthCheckTimeout)
	defer cancel()

	if err := m.Client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}
	return nil
}
