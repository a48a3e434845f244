package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/errs"
	"github.com/pageza/foodgram/backend/internal/logging"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
)

// RelationService manages favorites, the shopping cart and follows through
// the toggle protocol.
type RelationService struct {
	db        *gorm.DB
	projector *Projector
	log       zerolog.Logger
}

func NewRelationService(db *gorm.DB, projector *Projector) *RelationService {
	return &RelationService{
		db:        db,
		projector: projector,
		log:       logging.Component("relations"),
	}
}

// Favorite adds recipeID to the user's favorites.
func (s *RelationService) Favorite(ctx context.Context, user *models.User, recipeID uuid.UUID) (types.RecipeSummary, error) {
	return s.toggleRecipe(ctx, ToggleAdd, favoritePair(user.ID, recipeID), recipeID)
}

// Unfavorite removes recipeID from the user's favorites.
func (s *RelationService) Unfavorite(ctx context.Context, user *models.User, recipeID uuid.UUID) error {
	_, err := s.toggleRecipe(ctx, ToggleRemove, favoritePair(user.ID, recipeID), recipeID)
	return err
}

// AddToCart puts recipeID in the user's shopping cart.
func (s *RelationService) AddToCart(ctx context.Context, user *models.User, recipeID uuid.UUID) (types.RecipeSummary, error) {
	return s.toggleRecipe(ctx, ToggleAdd, cartPair(user.ID, recipeID), recipeID)
}

// RemoveFromCart takes recipeID out of the user's shopping cart.
func (s *RelationService) RemoveFromCart(ctx context.Context, user *models.User, recipeID uuid.UUID) error {
	_, err := s.toggleRecipe(ctx, ToggleRemove, cartPair(user.ID, recipeID), recipeID)
	return err
}

// Subscribe makes user follow authorID and returns the author as a
// subscription entry.
func (s *RelationService) Subscribe(ctx context.Context, user *models.User, authorID uuid.UUID, recipesLimit int) (*types.SubscriptionView, error) {
	if user.ID == authorID {
		return nil, errs.InvalidOperation("you cannot subscribe to yourself")
	}
	author, err := s.findUser(ctx, authorID)
	if err != nil {
		return nil, err
	}

	view, err := Toggle(ctx, s.db, ToggleAdd, followPair(user.ID, authorID), func(ctx context.Context) (types.SubscriptionView, error) {
		views, err := s.projector.Subscriptions(ctx, types.AuthenticatedViewer(user.ID), []models.User{*author}, recipesLimit)
		if err != nil {
			return types.SubscriptionView{}, err
		}
		return views[0], nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Debug().
		Str("user_id", user.ID.String()).
		Str("author_id", authorID.String()).
		Msg("subscribed")
	return &view, nil
}

// Unsubscribe stops user following authorID.
func (s *RelationService) Unsubscribe(ctx context.Context, user *models.User, authorID uuid.UUID) error {
	if _, err := s.findUser(ctx, authorID); err != nil {
		return err
	}
	_, err := Toggle[struct{}](ctx, s.db, ToggleRemove, followPair(user.ID, authorID), nil)
	return err
}

// Subscriptions returns one page of the authors user follows and the total.
func (s *RelationService) Subscriptions(ctx context.Context, user *models.User, limit, offset, recipesLimit int) ([]types.SubscriptionView, int64, error) {
	db := s.db.WithContext(ctx)
	followed := db.Model(&models.Follow{}).Select("author_id").Where("user_id = ?", user.ID)

	var total int64
	if err := db.Model(&models.User{}).Where("id IN (?)", followed).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var authors []models.User
	err := db.Where("id IN (?)", followed).
		Order("username").
		Limit(limit).
		Offset(offset).
		Find(&authors).Error
	if err != nil {
		return nil, 0, err
	}

	views, err := s.projector.Subscriptions(ctx, types.AuthenticatedViewer(user.ID), authors, recipesLimit)
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

func (s *RelationService) toggleRecipe(ctx context.Context, op ToggleOp, pair RelationPair, recipeID uuid.UUID) (types.RecipeSummary, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return types.RecipeSummary{}, errs.NotFound("recipe")
		}
		return types.RecipeSummary{}, err
	}

	return Toggle(ctx, s.db, op, pair, func(context.Context) (types.RecipeSummary, error) {
		return RecipeSummary(&recipe), nil
	})
}

func (s *RelationService) findUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFound("user")
		}
		return nil, err
	}
	return &user, nil
}

func favoritePair(userID, recipeID uuid.UUID) RelationPair {
	return newModelPair("favorite",
		&models.Favorite{UserID: userID, RecipeID: recipeID},
		map[string]interface{}{"user_id": userID, "recipe_id": recipeID})
}

func cartPair(userID, recipeID uuid.UUID) RelationPair {
	return newModelPair("shopping_cart",
		&models.ShoppingListEntry{UserID: userID, RecipeID: recipeID},
		map[string]interface{}{"user_id": userID, "recipe_id": recipeID})
}

func followPair(userID, authorID uuid.UUID) RelationPair {
	return newModelPair("follow",
		&models.Follow{UserID: userID, AuthorID: authorID},
		map[string]interface{}{"user_id": userID, "author_id": authorID})
}
