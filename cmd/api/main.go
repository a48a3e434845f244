package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/api"
	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/logging"
	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/router"
	"github.com/pageza/foodgram/backend/internal/server"
	"github.com/pageza/foodgram/backend/internal/service"
)

func main() {
	log := logging.Component("main")

	// Initialize configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	logging.Init(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	log = logging.Component("main")

	db, err := database.New(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := database.RunMigrations(db); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	images, err := newImageStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to configure image storage")
	}

	deps := api.NewDependencies(db, cfg.JWTSecret, images)
	deps.PDFFontPath = cfg.PDFFontPath

	if cfg.RecipeCreateLimit > 0 {
		redisClient, err := database.NewRedisClient(cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer redisClient.Close()
		deps.RecipeCreateLimiter = middleware.NewRecipeCreationRateLimiter(redisClient, cfg.RecipeCreateLimit)
	}

	srv := server.New(cfg, router.SetupRouter(cfg, deps))

	// Channel to listen for errors coming from the server
	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	// Channel to listen for an interrupt or terminate signal from the OS
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			log.Fatal().Err(err).Msg("server error")
		}
		return
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("received signal")
	}

	log.Info().Msg("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server shutdown error")
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info().Msg("server stopped")
}

// newImageStore uploads to S3 when a bucket is configured and to the local
// media directory otherwise.
func newImageStore(cfg *config.Config) (service.ImageStore, error) {
	if cfg.S3Bucket == "" {
		return service.NewLocalImageStore(cfg.MediaDir, cfg.MediaURL), nil
	}
	s3Config, err := config.NewS3Config(context.Background(), cfg)
	if err != nil {
		return nil, err
	}
	return service.NewS3ImageStore(s3Config), nil
}
