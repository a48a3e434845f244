package service

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
)

// Projector builds read representations relative to a viewer. Anonymous
// viewers get false for every viewer-relative flag without a store lookup.
type Projector struct {
	db *gorm.DB
}

func NewProjector(db *gorm.DB) *Projector {
	return &Projector{db: db}
}

// Recipe projects a single recipe.
func (p *Projector) Recipe(ctx context.Context, viewer types.Viewer, recipe *models.Recipe) (*types.RecipeView, error) {
	views, err := p.Recipes(ctx, viewer, []models.Recipe{*recipe})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// Recipes projects a page of recipes with one lookup per viewer relation.
// Recipes must carry their author, tags and ingredients.
func (p *Projector) Recipes(ctx context.Context, viewer types.Viewer, recipes []models.Recipe) ([]types.RecipeView, error) {
	recipeIDs := make([]uuid.UUID, len(recipes))
	authorIDs := make([]uuid.UUID, len(recipes))
	for i := range recipes {
		recipeIDs[i] = recipes[i].ID
		authorIDs[i] = recipes[i].AuthorID
	}

	favorited, err := p.viewerSet(ctx, viewer, &models.Favorite{}, "recipe_id", recipeIDs)
	if err != nil {
		return nil, err
	}
	inCart, err := p.viewerSet(ctx, viewer, &models.ShoppingListEntry{}, "recipe_id", recipeIDs)
	if err != nil {
		return nil, err
	}
	following, err := p.viewerSet(ctx, viewer, &models.Follow{}, "author_id", authorIDs)
	if err != nil {
		return nil, err
	}

	views := make([]types.RecipeView, len(recipes))
	for i := range recipes {
		r := &recipes[i]

		tags := make([]types.TagView, len(r.Tags))
		for j, tag := range r.Tags {
			tags[j] = TagView(tag)
		}

		ingredients := make([]types.RecipeIngredientView, len(r.Ingredients))
		for j, link := range r.Ingredients {
			ingredients[j] = types.RecipeIngredientView{
				ID:              link.Ingredient.ID,
				Name:            link.Ingredient.Name,
				MeasurementUnit: link.Ingredient.Unit.Name,
				Amount:          link.Amount,
			}
		}

		views[i] = types.RecipeView{
			ID:               r.ID,
			Name:             r.Name,
			Text:             r.Text,
			Image:            r.Image,
			CookingTime:      r.CookingTime,
			IsFavorited:      favorited[r.ID],
			IsInShoppingCart: inCart[r.ID],
			Tags:             tags,
			Author:           userView(&r.Author, following[r.AuthorID]),
			Ingredients:      ingredients,
		}
	}
	return views, nil
}

// User projects a single user.
func (p *Projector) User(ctx context.Context, viewer types.Viewer, user *models.User) (*types.UserView, error) {
	views, err := p.Users(ctx, viewer, []models.User{*user})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// Users projects users with the viewer's follow state.
func (p *Projector) Users(ctx context.Context, viewer types.Viewer, users []models.User) ([]types.UserView, error) {
	ids := make([]uuid.UUID, len(users))
	for i := range users {
		ids[i] = users[i].ID
	}
	following, err := p.viewerSet(ctx, viewer, &models.Follow{}, "author_id", ids)
	if err != nil {
		return nil, err
	}

	views := make([]types.UserView, len(users))
	for i := range users {
		views[i] = userView(&users[i], following[users[i].ID])
	}
	return views, nil
}

// Subscriptions projects authors with their newest recipes, at most
// recipesLimit each (all when recipesLimit < 0), and their recipe count.
func (p *Projector) Subscriptions(ctx context.Context, viewer types.Viewer, authors []models.User, recipesLimit int) ([]types.SubscriptionView, error) {
	users, err := p.Users(ctx, viewer, authors)
	if err != nil {
		return nil, err
	}
	if len(authors) == 0 {
		return []types.SubscriptionView{}, nil
	}

	ids := make([]uuid.UUID, len(authors))
	for i := range authors {
		ids[i] = authors[i].ID
	}

	var counts []struct {
		AuthorID uuid.UUID
		Total    int64
	}
	err = p.db.WithContext(ctx).Model(&models.Recipe{}).
		Select("author_id, COUNT(*) AS total").
		Where("author_id IN ?", ids).
		Group("author_id").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	totals := make(map[uuid.UUID]int64, len(counts))
	for _, c := range counts {
		totals[c.AuthorID] = c.Total
	}

	views := make([]types.SubscriptionView, len(authors))
	for i := range authors {
		summaries := []types.RecipeSummary{}
		if recipesLimit != 0 && totals[authors[i].ID] > 0 {
			var recipes []models.Recipe
			q := p.db.WithContext(ctx).
				Where("author_id = ?", authors[i].ID).
				Order("pub_date DESC")
			if recipesLimit > 0 {
				q = q.Limit(recipesLimit)
			}
			if err := q.Find(&recipes).Error; err != nil {
				return nil, err
			}
			summaries = RecipeSummaries(recipes)
		}
		views[i] = types.SubscriptionView{
			UserView:     users[i],
			Recipes:      summaries,
			RecipesCount: totals[authors[i].ID],
		}
	}
	return views, nil
}

// viewerSet returns which of ids appear in column of model's rows owned by
// the viewer.
func (p *Projector) viewerSet(ctx context.Context, viewer types.Viewer, model interface{}, column string, ids []uuid.UUID) (map[uuid.UUID]bool, error) {
	set := map[uuid.UUID]bool{}
	if !viewer.Authenticated || len(ids) == 0 {
		return set, nil
	}

	var found []uuid.UUID
	err := p.db.WithContext(ctx).Model(model).
		Where("user_id = ?", viewer.ID).
		Where(column+" IN ?", ids).
		Pluck(column, &found).Error
	if err != nil {
		return nil, err
	}
	for _, id := range found {
		set[id] = true
	}
	return set, nil
}

// RecipeSummary is the short form of a recipe.
func RecipeSummary(r *models.Recipe) types.RecipeSummary {
	return types.RecipeSummary{
		ID:          r.ID,
		Name:        r.Name,
		Image:       r.Image,
		CookingTime: r.CookingTime,
	}
}

func RecipeSummaries(recipes []models.Recipe) []types.RecipeSummary {
	out := make([]types.RecipeSummary, len(recipes))
	for i := range recipes {
		out[i] = RecipeSummary(&recipes[i])
	}
	return out
}

func TagView(tag models.Tag) types.TagView {
	return types.TagView{ID: tag.ID, Name: tag.Name, Color: tag.Color, Slug: tag.Slug}
}

func IngredientView(ing *models.Ingredient) types.IngredientView {
	return types.IngredientView{ID: ing.ID, Name: ing.Name, MeasurementUnit: ing.Unit.Name}
}

func userView(u *models.User, subscribed bool) types.UserView {
	return types.UserView{
		ID:           u.ID,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Email:        u.Email,
		IsSubscribed: subscribed,
	}
}
