package db

import (
	"context"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"observation-tracker/internal/config"
	"observation-tracker/internal/contact"
	"observation-tracker/internal/observation"
	"observation-tracker/internal/user"
)

// Migrate runs database migrations
func Migrate() {
	err := AppDb.AutoMigrate(
		&user.User{},
		&observation.Observation{},
		&observation.Recipient{},
		&observation.Revision{},
		&contact.Contact{},
	)

	if err != nil {
		log.Fatal().Err(err).Msg("Database migration failed")
	}

	log.Info().Msg("Database schema migrated successfully")
}

// SeedData creates the configured auto-recipient users when they don't exist
// yet (for development only). Creation of any observation requires them, so a
// fresh dev database would otherwise reject every submission.
func SeedData() {
	ctx := context.Background()
	repo := user.NewRepository(AppDb)

	for i, publicID := range config.AppConfig.AutoRecipientIDs {
		exists, err := repo.PublicIDExists(ctx, publicID)
		if err != nil {
			log.Error().Err(err).Str("user_id", publicID).Msg("Error checking auto-recipient")
			continue
		}
		if exists {
			continue
		}

		hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		if err != nil {
			log.Error().Err(err).Msg("Error hashing seed password")
			continue
		}

		seeded := &user.User{
			UserID:       publicID,
			Name:         "Auto Recipient",
			Email:        publicID + "@seed.local",
			PasswordHash: string(hash),
		}
		if err := repo.Create(ctx, seeded); err != nil {
			log.Error().Err(err).Str("user_id", publicID).Msg("Error seeding auto-recipient")
			continue
		}
		log.Info().Int("index", i).Str("user_id", publicID).Msg("Seeded auto-recipient user")
	}
}
