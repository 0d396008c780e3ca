package main

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/yasinhessnawi1/password-reset-backend/internal/config"
	"github.com/yasinhessnawi1/password-reset-backend/internal/constants"
	"github.com/yasinhessnawi1/password-reset-backend/internal/server"
	"github.com/yasinhessnawi1/password-reset-backend/internal/utils"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command with the serve, migrate and version
// subcommands.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "password-reset-backend",
		Short:        "Password reset authentication backend",
		Long:         `Registration, login and email-based password reset over HTTP.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", constants.DefaultConfigPath, "config file path")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Long: `Connect to the credential store, prepare its schema, seed the
administrator account if configured and serve the API until SIGINT or SIGTERM.`,
		RunE: runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log.Info().
		Str("version", cfg.App.Version).
		Str("environment", cfg.App.Environment).
		Msg("Starting password reset backend")

	srv, err := server.NewServer(cmd.Context(), cfg)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create server")
		return err
	}

	return srv.Start()
}

// NewMigrateCmd creates the migrate subcommand.
func NewMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the credential store schema",
		Long:  `Create the SQL users table or the MongoDB unique email index, then exit.`,
		RunE:  runMigrate,
	}
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	cmd.Printf("Preparing %s schema...\n", cfg.Database.Driver)
	store, _, err := server.OpenStore(ctx, &cfg.Database)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	defer store.Close()

	cmd.Println("Migrations completed successfully")
	return nil
}

// NewVersionCmd creates the version subcommand.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("Password Reset Backend\nVersion: %s\nCommit: %s\nBuild Date: %s\n", version, commit, buildDate)
		},
	}
}

// loadConfig reads .env, the config file and the environment, then sets up
// logging and validation. Errors wrap config.ErrConfiguration when the
// settings are invalid.
func loadConfig() (*config.AppConfig, error) {
	// A missing .env file is fine; configuration may come from the environment
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg(".env file not found, using process environment")
	}

	cfg, err := config.Load(configFile)
	if err != nil {
		log.Error().Err(err).Str("config", configFile).Msg("Failed to load configuration")
		return nil, err
	}

	if version != "dev" {
		cfg.App.Version = version
	}

	utils.InitLogger(cfg)
	utils.InitValidator()

	return cfg, nil
}
