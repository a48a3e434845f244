package database

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/models"
)

func TestNewSQLiteAndMigrate(t *testing.T) {
	cfg := &config.Config{
		DBDriver:   "sqlite",
		SQLitePath: filepath.Join(t.TempDir(), "test.db"),
	}

	db, err := New(cfg)
	require.NoError(t, err)
	require.NoError(t, RunMigrations(db))
	assert.NoError(t, HealthCheck(context.Background(), db))

	for _, m := range models.All() {
		assert.True(t, db.Migrator().HasTable(m))
	}
}

func TestUniqueViolationIsTranslated(t *testing.T) {
	cfg := &config.Config{
		DBDriver:   "sqlite",
		SQLitePath: filepath.Join(t.TempDir(), "test.db"),
	}
	db, err := New(cfg)
	require.NoError(t, err)
	require.NoError(t, RunMigrations(db))

	require.NoError(t, db.Create(&models.Tag{Name: "Breakfast", Slug: "breakfast"}).Error)
	err = db.Create(&models.Tag{Name: "Breakfast", Slug: "other"}).Error

	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err))
}

func TestIsUniqueViolation(t *testing.T) {
	assert.False(t, IsUniqueViolation(nil))
	assert.True(t, IsUniqueViolation(gorm.ErrDuplicatedKey))
	assert.True(t, IsUniqueViolation(errors.New("UNIQUE constraint failed: tags.name")))
	assert.True(t, IsUniqueViolation(errors.New(`ERROR: duplicate key value violates unique constraint "idx_tags_name"`)))
	assert.False(t, IsUniqueViolation(errors.New("connection refused")))
}
