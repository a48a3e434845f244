package service

import (
	"context"
	"errors"
	"sort"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/errs"
	"github.com/pageza/foodgram/backend/internal/logging"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
)

// RecipeService handles recipe operations
type RecipeService struct {
	db        *gorm.DB
	validator *RecipeValidator
	images    ImageStore
	log       zerolog.Logger
}

// NewRecipeService creates a new RecipeService instance
func NewRecipeService(db *gorm.DB, validator *RecipeValidator, images ImageStore) *RecipeService {
	return &RecipeService{
		db:        db,
		validator: validator,
		images:    images,
		log:       logging.Component("recipes"),
	}
}

// CreateRecipe validates payload and stores the recipe with its links and
// image in one transaction.
func (s *RecipeService) CreateRecipe(ctx context.Context, authorID uuid.UUID, payload *types.RecipePayload) (*models.Recipe, error) {
	draft, err := s.validator.ValidateCreate(ctx, authorID, payload)
	if err != nil {
		return nil, err
	}

	recipe := &models.Recipe{
		AuthorID:    authorID,
		Name:        *draft.Name,
		Text:        *draft.Text,
		CookingTime: *draft.CookingTime,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(recipe).Error; err != nil {
			if database.IsUniqueViolation(err) {
				return errs.DuplicateName()
			}
			return err
		}
		if err := replaceTags(tx, recipe.ID, draft.Tags); err != nil {
			return err
		}
		if err := replaceIngredients(tx, recipe.ID, draft.Ingredients); err != nil {
			return err
		}
		return s.storeImage(ctx, tx, recipe, draft.Image)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("recipe_id", recipe.ID.String()).
		Str("author_id", authorID.String()).
		Msg("recipe created")
	return s.GetRecipe(ctx, recipe.ID)
}

// UpdateRecipe applies the supplied fields of payload. Supplied link sets
// replace the stored ones; absent ones are left as they are.
func (s *RecipeService) UpdateRecipe(ctx context.Context, actor *models.User, id uuid.UUID, payload *types.RecipePayload) (*models.Recipe, error) {
	recipe, err := s.findRecipe(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanModify(recipe.AuthorID) {
		return nil, errs.Forbidden()
	}

	draft, err := s.validator.ValidateUpdate(ctx, recipe.AuthorID, recipe.ID, payload)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if draft.Tags != nil {
			if err := replaceTags(tx, recipe.ID, draft.Tags); err != nil {
				return err
			}
		}
		if draft.Ingredients != nil {
			if err := replaceIngredients(tx, recipe.ID, draft.Ingredients); err != nil {
				return err
			}
		}

		// a recipe never ends up without ingredients
		var links int64
		if err := tx.Model(&models.RecipeIngredient{}).Where("recipe_id = ?", recipe.ID).Count(&links).Error; err != nil {
			return err
		}
		if links == 0 {
			return errs.MissingField("ingredients")
		}

		updates := map[string]interface{}{}
		if draft.Name != nil {
			updates["name"] = *draft.Name
		}
		if draft.Text != nil {
			updates["text"] = *draft.Text
		}
		if draft.CookingTime != nil {
			updates["cooking_time"] = *draft.CookingTime
		}
		if len(updates) > 0 {
			if err := tx.Model(&models.Recipe{}).Where("id = ?", recipe.ID).Updates(updates).Error; err != nil {
				if database.IsUniqueViolation(err) {
					return errs.DuplicateName()
				}
				return err
			}
		}
		return s.storeImage(ctx, tx, recipe, draft.Image)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("recipe_id", recipe.ID.String()).Msg("recipe updated")
	return s.GetRecipe(ctx, recipe.ID)
}

// DeleteRecipe removes a recipe and every record referencing it.
func (s *RecipeService) DeleteRecipe(ctx context.Context, actor *models.User, id uuid.UUID) error {
	recipe, err := s.findRecipe(ctx, id)
	if err != nil {
		return err
	}
	if !actor.CanModify(recipe.AuthorID) {
		return errs.Forbidden()
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, m := range []interface{}{
			&models.RecipeTag{},
			&models.RecipeIngredient{},
			&models.Favorite{},
			&models.ShoppingListEntry{},
		} {
			if err := tx.Where("recipe_id = ?", recipe.ID).Delete(m).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&models.Recipe{}, "id = ?", recipe.ID).Error
	})
	if err != nil {
		return err
	}

	s.log.Info().Str("recipe_id", recipe.ID.String()).Msg("recipe deleted")
	return nil
}

// GetRecipe retrieves a recipe by ID with its author, tags and ingredients.
func (s *RecipeService) GetRecipe(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	err := s.withDetails(s.db.WithContext(ctx)).First(&recipe, "recipes.id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFound("recipe")
		}
		return nil, err
	}

	recipes := []models.Recipe{recipe}
	sortIngredients(recipes)
	if err := loadTags(s.db.WithContext(ctx), recipes); err != nil {
		return nil, err
	}
	return &recipes[0], nil
}

// ListRecipes returns one page of recipes matching filter, newest first,
// and the total number of matches. Viewer-relative filters are ignored for
// anonymous viewers.
func (s *RecipeService) ListRecipes(ctx context.Context, viewer types.Viewer, filter types.RecipeFilter, limit, offset int) ([]models.Recipe, int64, error) {
	db := s.db.WithContext(ctx)

	var authorID uuid.UUID
	if filter.Author != "" {
		id, err := uuid.Parse(filter.Author)
		if err != nil {
			return nil, 0, &errs.Error{Kind: errs.KindInvalidValue, Field: "author", Message: "author must be a user id"}
		}
		authorID = id
	}

	scope := func(q *gorm.DB) *gorm.DB {
		if authorID != uuid.Nil {
			q = q.Where("recipes.author_id = ?", authorID)
		}
		if len(filter.Tags) > 0 {
			tagged := db.Table("recipe_tags").
				Select("recipe_tags.recipe_id").
				Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
				Where("tags.slug IN ?", filter.Tags)
			q = q.Where("recipes.id IN (?)", tagged)
		}
		if viewer.Authenticated && filter.IsFavorited {
			q = q.Where("recipes.id IN (?)",
				db.Model(&models.Favorite{}).Select("recipe_id").Where("user_id = ?", viewer.ID))
		}
		if viewer.Authenticated && filter.IsInShoppingCart {
			q = q.Where("recipes.id IN (?)",
				db.Model(&models.ShoppingListEntry{}).Select("recipe_id").Where("user_id = ?", viewer.ID))
		}
		return q
	}

	var total int64
	if err := db.Model(&models.Recipe{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var recipes []models.Recipe
	err := s.withDetails(db).
		Scopes(scope).
		Order("recipes.pub_date DESC").
		Limit(limit).
		Offset(offset).
		Find(&recipes).Error
	if err != nil {
		return nil, 0, err
	}
	sortIngredients(recipes)
	if err := loadTags(db, recipes); err != nil {
		return nil, 0, err
	}
	return recipes, total, nil
}

func (s *RecipeService) findRecipe(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFound("recipe")
		}
		return nil, err
	}
	return &recipe, nil
}

func (s *RecipeService) withDetails(q *gorm.DB) *gorm.DB {
	return q.Preload("Author").Preload("Ingredients.Ingredient.Unit")
}

func sortIngredients(recipes []models.Recipe) {
	for i := range recipes {
		links := recipes[i].Ingredients
		sort.SliceStable(links, func(a, b int) bool {
			return links[a].Ingredient.Name < links[b].Ingredient.Name
		})
	}
}

// storeImage uploads img and records its location. A failed upload rolls
// back the surrounding transaction.
func (s *RecipeService) storeImage(ctx context.Context, tx *gorm.DB, recipe *models.Recipe, img *DecodedImage) error {
	if img == nil {
		return nil
	}
	location, err := s.images.Save(ctx, img.Key(), img.Data, img.ContentType)
	if err != nil {
		s.log.Error().Err(err).Str("recipe_id", recipe.ID.String()).Msg("image upload failed")
		return err
	}
	recipe.Image = location
	return tx.Model(&models.Recipe{}).Where("id = ?", recipe.ID).Update("image", location).Error
}

func replaceTags(tx *gorm.DB, recipeID uuid.UUID, tagIDs []uuid.UUID) error {
	if err := tx.Where("recipe_id = ?", recipeID).Delete(&models.RecipeTag{}).Error; err != nil {
		return err
	}
	if len(tagIDs) == 0 {
		return nil
	}
	links := make([]models.RecipeTag, len(tagIDs))
	for i, id := range tagIDs {
		links[i] = models.RecipeTag{RecipeID: recipeID, TagID: id}
	}
	return tx.Create(&links).Error
}

func replaceIngredients(tx *gorm.DB, recipeID uuid.UUID, amounts []IngredientAmount) error {
	if err := tx.Where("recipe_id = ?", recipeID).Delete(&models.RecipeIngredient{}).Error; err != nil {
		return err
	}
	if len(amounts) == 0 {
		return nil
	}
	links := make([]models.RecipeIngredient, len(amounts))
	for i, a := range amounts {
		links[i] = models.RecipeIngredient{RecipeID: recipeID, IngredientID: a.IngredientID, Amount: a.Amount}
	}
	if err := tx.Create(&links).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return errs.DuplicateIngredient()
		}
		return err
	}
	return nil
}

type recipeTagRow struct {
	RecipeID uuid.UUID
	models.Tag
}

// loadTags fills Tags on every recipe, each ordered by name.
func loadTags(db *gorm.DB, recipes []models.Recipe) error {
	if len(recipes) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(recipes))
	index := make(map[uuid.UUID]int, len(recipes))
	for i := range recipes {
		ids[i] = recipes[i].ID
		index[recipes[i].ID] = i
		recipes[i].Tags = []models.Tag{}
	}

	var rows []recipeTagRow
	err := db.Table("tags").
		Select("recipe_tags.recipe_id, tags.*").
		Joins("JOIN recipe_tags ON recipe_tags.tag_id = tags.id").
		Where("recipe_tags.recipe_id IN ?", ids).
		Order("tags.name").
		Scan(&rows).Error
	if err != nil {
		return err
	}
	for _, row := range rows {
		i := index[row.RecipeID]
		recipes[i].Tags = append(recipes[i].Tags, row.Tag)
	}
	return nil
}
