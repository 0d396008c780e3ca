// Package database provides connections to the credential store backends:
// a SQL pool for PostgreSQL and MySQL, and a MongoDB client.
package database

import "context"

// Store is the lifecycle surface shared by every backend connection.
// The server holds one Store for health checks and shutdown.
type Store interface {
	// HealthCheck verifies the backend is reachable
	HealthCheck(ctx context.Context) error

	// Close releases the connection
	Close()
}

var (
	_ Store = (*Pool)(nil)
	_ Store = (*Mongo)(nil)
)
