package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/testhelpers"
)

// memoryImages is an ImageStore that keeps uploads in memory.
type memoryImages struct {
	mu      sync.Mutex
	objects map[string][]byte
	fail    bool
}

func newMemoryImages() *memoryImages {
	return &memoryImages{objects: map[string][]byte{}}
}

func (m *memoryImages) Save(_ context.Context, key string, data []byte, _ string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return "", errors.New("bucket unavailable")
	}
	m.objects[key] = data
	return "https://images.test/" + key, nil
}

func (m *memoryImages) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}

// newRecipeService wires a RecipeService over a fresh sqlite database.
func newRecipeService(t *testing.T) (*RecipeService, *gorm.DB, *memoryImages) {
	t.Helper()
	db := testhelpers.SetupSQLiteDatabase(t)
	images := newMemoryImages()
	svc := NewRecipeService(db, NewRecipeValidator(NewCatalogService(db)), images)
	return svc, db, images
}
