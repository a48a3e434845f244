package main

import (
	"context"
	"os"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/errs"
	"github.com/pageza/foodgram/backend/internal/logging"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/types"
)

const testPassword = "testpassword123"

func main() {
	log := logging.Component("seed")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	logging.Init(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	log = logging.Component("seed")

	db, err := database.New(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := database.RunMigrations(db); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	auth := service.NewAuthService(db, cfg.JWTSecret)
	ctx := context.Background()

	testUsers := []struct {
		first, last, email, username string
		staff                        bool
	}{
		{"John", "Doe", "john.doe@example.com", "johndoe", false},
		{"Jane", "Smith", "jane.smith@example.com", "janesmith", false},
		{"Bob", "Wilson", "bob.wilson@example.com", "bobwilson", false},
		{"Admin", "User", "admin@example.com", "admin", true},
	}

	for _, u := range testUsers {
		user, err := auth.Register(ctx, &types.RegisterRequest{
			Email:     u.email,
			Username:  u.username,
			FirstName: u.first,
			LastName:  u.last,
			Password:  testPassword,
		})
		if errs.IsKind(err, errs.KindAlreadyExists) {
			log.Info().Str("email", u.email).Msg("user already exists, skipping")
			continue
		}
		if err != nil {
			log.Error().Err(err).Str("email", u.email).Msg("failed to create user")
			continue
		}

		if u.staff {
			if err := db.Model(&models.User{}).Where("id = ?", user.ID).Update("is_staff", true).Error; err != nil {
				log.Error().Err(err).Str("email", u.email).Msg("failed to grant staff")
			}
		}
		log.Info().Str("email", u.email).Bool("staff", u.staff).Msg("created test user")
	}

	log.Info().Str("password", testPassword).Msg("test users ready")
}
