// Package scripts provides startup data seeding.
//
// Seeds are idempotent: each one checks the store before writing, so the
// seeder is safe to run on every start against new and existing databases.
package scripts

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/yasinhessnawi1/password-reset-backend/internal/config"
	"github.com/yasinhessnawi1/password-reset-backend/internal/constants"
	"github.com/yasinhessnawi1/password-reset-backend/internal/models"
	"github.com/yasinhessnawi1/password-reset-backend/internal/utils"
)

// AccountCreator creates accounts with an explicit role.
type AccountCreator interface {
	CreateUserWithRole(ctx context.Context, name, email, password, role string) (*models.User, error)
}

// Seeder handles database seeding.
type Seeder struct {
	accounts AccountCreator
	cfg      *config.SeedSettings
}

// NewSeeder creates a new seeder.
func NewSeeder(accounts AccountCreator, cfg *config.SeedSettings) *Seeder {
	return &Seeder{
		accounts: accounts,
		cfg:      cfg,
	}
}

// SeedDatabase runs every seed in order and stops at the first failure.
func (s *Seeder) SeedDatabase(ctx context.Context) error {
	log.Info().Msg("Seeding database")
	startTime := time.Now()

	seeds := []struct {
		Name     string
		SeedFunc func(ctx context.Context) error
	}{
		{"admin_account", s.seedAdminAccount},
	}

	for _, seed := range seeds {
		log.Debug().Str("seed", seed.Name).Msg("Running seed")
		if err := seed.SeedFunc(ctx); err != nil {
			return fmt.Errorf("seed %s failed: %w", seed.Name, err)
		}
	}

	log.Info().
		Dur("duration", time.Since(startTime)).
		Msg("Database seeding completed")

	return nil
}

// seedAdminAccount creates the configured administrator unless an account
// with that email already exists.
func (s *Seeder) seedAdminAccount(ctx context.Context) error {
	if !s.cfg.SeedEnabled() {
		log.Debug().Msg("No administrator configured, skipping admin seed")
		return nil
	}

	user, err := s.accounts.CreateUserWithRole(ctx, s.cfg.AdminName, s.cfg.AdminEmail, s.cfg.AdminPassword, constants.RoleAdmin)
	if err != nil {
		if utils.IsDuplicateError(err) {
			log.Debug().
				Str("email", utils.MaskEmail(s.cfg.AdminEmail)).
				Msg("Administrator account already exists")
			return nil
		}
		return err
	}

	log.Info().
		Str("user_id", user.ID).
		Str("email", utils.MaskEmail(user.Email)).
		Msg("Administrator account created")

	return nil
}
