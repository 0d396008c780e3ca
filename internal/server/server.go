// Package server provides the HTTP server for the password reset backend.
// It wires the credential store, auth services and handlers together and
// manages the server lifecycle, including graceful shutdown.
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	"github.com/yasinhessnawi1/password-reset-backend/internal/auth"
	"github.com/yasinhessnawi1/password-reset-backend/internal/config"
	"github.com/yasinhessnawi1/password-reset-backend/internal/database"
	"github.com/yasinhessnawi1/password-reset-backend/internal/handlers"
	"github.com/yasinhessnawi1/password-reset-backend/internal/metrics"
	"github.com/yasinhessnawi1/password-reset-backend/internal/repository"
	"github.com/yasinhessnawi1/password-reset-backend/internal/service"
	"github.com/yasinhessnawi1/password-reset-backend/internal/utils"
	"github.com/yasinhessnawi1/password-reset-backend/migrations"
	"github.com/yasinhessnawi1/password-reset-backend/scripts"
)

// Handlers contains all HTTP handlers for the application.
type Handlers struct {
	// AuthHandler serves registration and login
	AuthHandler *handlers.AuthHandler

	// PasswordResetHandler serves the forgot and reset password flow
	PasswordResetHandler *handlers.PasswordResetHandler
}

// Server represents the API server.
// It owns the credential store connection and the HTTP listener.
type Server struct {
	// Config contains application configuration
	Config *config.AppConfig

	// Store is the credential store connection, SQL or MongoDB
	Store database.Store

	// Handlers contains all HTTP request handlers
	Handlers *Handlers

	// AuthService runs the registration, login and reset workflows
	AuthService *service.AuthService

	router     chi.Router
	registry   *prometheus.Registry
	httpServer *http.Server
}

// NewServer connects to the configured store, prepares its schema and builds
// a server ready to start.
func NewServer(ctx context.Context, cfg *config.AppConfig) (*Server, error) {
	store, userRepo, err := OpenStore(ctx, &cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to set up database: %w", err)
	}

	s, err := New(cfg, store, userRepo)
	if err != nil {
		store.Close()
		return nil, err
	}

	seeder := scripts.NewSeeder(s.AuthService, &cfg.Seed)
	if err := seeder.SeedDatabase(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to seed database: %w", err)
	}

	return s, nil
}

// New builds a server on top of an open store. The caller keeps ownership of
// the store until the server is shut down.
func New(cfg *config.AppConfig, store database.Store, userRepo repository.UserRepository) (*Server, error) {
	utils.InitValidator()

	s := &Server{
		Config:   cfg,
		Store:    store,
		registry: metrics.NewRegistry(),
	}

	if err := s.setupServices(userRepo); err != nil {
		return nil, fmt.Errorf("failed to set up services: %w", err)
	}

	s.setupHandlers()
	s.SetupRoutes()

	s.httpServer = &http.Server{
		Addr:         cfg.Server.ServerAddress(),
		Handler:      s.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return s, nil
}

// OpenStore connects to the configured credential store and makes sure its
// schema exists: SQL tables via the migrator, or the MongoDB unique email
// index. It returns the store together with the matching user repository.
func OpenStore(ctx context.Context, cfg *config.DatabaseSettings) (database.Store, repository.UserRepository, error) {
	if cfg.IsSQL() {
		pool, err := database.Connect(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}

		migrator := migrations.NewMigrator(pool)
		if err := migrator.RunMigrations(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("failed to run database migrations: %w", err)
		}

		return pool, repository.NewSQLUserRepository(pool), nil
	}

	store, err := database.ConnectMongo(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	userRepo := repository.NewMongoUserRepository(store.Users())
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		store.Close()
		return nil, nil, fmt.Errorf("failed to create indexes: %w", err)
	}

	return store, userRepo, nil
}

// setupServices creates the token service, hasher and mailer from
// configuration and builds the auth workflow on top of them.
func (s *Server) setupServices(userRepo repository.UserRepository) error {
	hasher, err := auth.NewHasher(&s.Config.PasswordHash)
	if err != nil {
		return err
	}

	mailer, err := service.NewMailer(&s.Config.Email)
	if err != nil {
		return err
	}

	s.AuthService = service.NewAuthService(
		userRepo,
		auth.NewJWTService(&s.Config.JWT),
		hasher,
		mailer,
		service.AuthOptions{
			ResetURLBase:        s.Config.Email.ResetURLBase,
			EnforceSubjectMatch: s.Config.PasswordReset.EnforceSubjectMatch,
		},
	)

	return nil
}

func (s *Server) setupHandlers() {
	s.Handlers = &Handlers{
		AuthHandler:          handlers.NewAuthHandler(s.AuthService),
		PasswordResetHandler: handlers.NewPasswordResetHandler(s.AuthService),
	}
}

// Start starts the HTTP server and blocks until it fails or a shutdown
// signal (SIGINT, SIGTERM) is received, then shuts down gracefully.
func (s *Server) Start() error {
	serverErrors := make(chan error, 1)

	go func() {
		log.Info().
			Str("address", s.httpServer.Addr).
			Str("driver", s.Config.Database.Driver).
			Msg("Starting server")

		serverErrors <- s.httpServer.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	select {
	case err := <-serverErrors:
		s.Store.Close()
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info().
			Str("signal", sig.String()).
			Msg("Shutdown signal received")

		ctx, cancel := context.WithTimeout(context.Background(), s.Config.Server.ShutdownTimeout)
		defer cancel()

		if err := s.Shutdown(ctx); err != nil {
			if closeErr := s.httpServer.Close(); closeErr != nil {
				log.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
	}

	return nil
}

// Shutdown waits for in-flight requests to finish, then closes the store.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	log.Info().Msg("Server stopped gracefully")

	s.Store.Close()
	log.Info().Msg("Database connection closed")

	return nil
}
