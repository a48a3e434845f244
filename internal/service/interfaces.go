package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/render"
	"github.com/pageza/foodgram/backend/internal/types"
)

// IAuthService defines the interface for authentication operations
type IAuthService interface {
	Register(ctx context.Context, req *types.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.User, error)
	GenerateToken(user *models.User) (string, error)
	ValidateToken(token string) (*types.TokenClaims, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	ListUsers(ctx context.Context, limit, offset int) ([]models.User, int64, error)
}

// IRecipeService defines the interface for recipe operations
type IRecipeService interface {
	CreateRecipe(ctx context.Context, authorID uuid.UUID, payload *types.RecipePayload) (*models.Recipe, error)
	UpdateRecipe(ctx context.Context, actor *models.User, id uuid.UUID, payload *types.RecipePayload) (*models.Recipe, error)
	DeleteRecipe(ctx context.Context, actor *models.User, id uuid.UUID) error
	GetRecipe(ctx context.Context, id uuid.UUID) (*models.Recipe, error)
	ListRecipes(ctx context.Context, viewer types.Viewer, filter types.RecipeFilter, limit, offset int) ([]models.Recipe, int64, error)
}

// IRelationService defines the interface for favorites, cart and follows
type IRelationService interface {
	Favorite(ctx context.Context, user *models.User, recipeID uuid.UUID) (types.RecipeSummary, error)
	Unfavorite(ctx context.Context, user *models.User, recipeID uuid.UUID) error
	AddToCart(ctx context.Context, user *models.User, recipeID uuid.UUID) (types.RecipeSummary, error)
	RemoveFromCart(ctx context.Context, user *models.User, recipeID uuid.UUID) error
	Subscribe(ctx context.Context, user *models.User, authorID uuid.UUID, recipesLimit int) (*types.SubscriptionView, error)
	Unsubscribe(ctx context.Context, user *models.User, authorID uuid.UUID) error
	Subscriptions(ctx context.Context, user *models.User, limit, offset, recipesLimit int) ([]types.SubscriptionView, int64, error)
}

// ICatalogService defines the interface for tag and ingredient reads
type ICatalogService interface {
	ListTags(ctx context.Context) ([]models.Tag, error)
	GetTag(ctx context.Context, id uuid.UUID) (*models.Tag, error)
	GetIngredient(ctx context.Context, id uuid.UUID) (*models.Ingredient, error)
	SearchIngredients(ctx context.Context, query string) ([]models.Ingredient, error)
}

// IShoppingListService defines the interface for shopping list downloads
type IShoppingListService interface {
	Document(ctx context.Context, user *models.User) (render.Document, error)
}

// IProjector defines the interface for viewer-relative representations
type IProjector interface {
	Recipe(ctx context.Context, viewer types.Viewer, recipe *models.Recipe) (*types.RecipeView, error)
	Recipes(ctx context.Context, viewer types.Viewer, recipes []models.Recipe) ([]types.RecipeView, error)
	User(ctx context.Context, viewer types.Viewer, user *models.User) (*types.UserView, error)
	Users(ctx context.Context, viewer types.Viewer, users []models.User) ([]types.UserView, error)
}

var (
	_ IAuthService         = (*AuthService)(nil)
	_ IRecipeService       = (*RecipeService)(nil)
	_ IRelationService     = (*RelationService)(nil)
	_ ICatalogService      = (*CatalogService)(nil)
	_ IShoppingListService = (*ShoppingListService)(nil)
	_ IProjector           = (*Projector)(nil)
	_ Catalog              = (*CatalogService)(nil)
	_ ImageStore           = (*S3ImageStore)(nil)
	_ ImageStore           = (*LocalImageStore)(nil)
)
