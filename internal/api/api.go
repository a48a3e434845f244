package api

import (
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/service"
)

// NewDependencies builds every service over db. The recipe creation
// limiter and PDF font are left for the caller to set.
func NewDependencies(db *gorm.DB, jwtSecret string, images service.ImageStore) Dependencies {
	catalog := service.NewCatalogService(db)
	projector := service.NewProjector(db)

	return Dependencies{
		Auth:         service.NewAuthService(db, jwtSecret),
		Recipes:      service.NewRecipeService(db, service.NewRecipeValidator(catalog), images),
		Relations:    service.NewRelationService(db, projector),
		Catalog:      catalog,
		ShoppingList: service.NewShoppingListService(db),
		Projector:    projector,
	}
}
