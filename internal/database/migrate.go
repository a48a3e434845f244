package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/logging"
	"github.com/pageza/foodgram/backend/internal/models"
)

// RunMigrations creates or updates every table, index and unique
// constraint the services rely on.
func RunMigrations(db *gorm.DB) error {
	log := logging.Component("database")
	log.Info().Str("dialect", db.Dialector.Name()).Msg("running auto-migration")

	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}
