package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/logging"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
)

func main() {
	ingredientsPath := flag.String("ingredients", "data/ingredients.json", "JSON list of {name, measurement_unit}")
	tagsPath := flag.String("tags", "data/tags.json", "JSON list of {name, color, slug}")
	flag.Parse()

	log := logging.Component("catalog")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	logging.Init(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	log = logging.Component("catalog")

	db, err := database.New(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := database.RunMigrations(db); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	catalog := service.NewCatalogService(db)
	ctx := context.Background()

	var ingredients []service.IngredientImport
	if err := readJSON(*ingredientsPath, &ingredients); err != nil {
		log.Fatal().Err(err).Str("path", *ingredientsPath).Msg("failed to read ingredients")
	}
	created, err := catalog.ImportIngredients(ctx, ingredients)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to import ingredients")
	}
	log.Info().Int("created", created).Int("total", len(ingredients)).Msg("ingredients loaded")

	var tags []models.Tag
	if err := readJSON(*tagsPath, &tags); err != nil {
		log.Fatal().Err(err).Str("path", *tagsPath).Msg("failed to read tags")
	}
	created, err = catalog.ImportTags(ctx, tags)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to import tags")
	}
	log.Info().Int("created", created).Int("total", len(tags)).Msg("tags loaded")
}

func readJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}
