package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/render"
)

// ShoppingLine is the total amount of one ingredient across the cart.
type ShoppingLine struct {
	Name   string
	Unit   string
	Amount int64
}

func (l ShoppingLine) String() string {
	return fmt.Sprintf("%s (%s) - %d", l.Name, l.Unit, l.Amount)
}

// ShoppingListService aggregates the ingredients of a user's cart.
type ShoppingListService struct {
	db *gorm.DB
}

func NewShoppingListService(db *gorm.DB) *ShoppingListService {
	return &ShoppingListService{db: db}
}

// Lines sums ingredient amounts over every recipe in the user's cart,
// grouped by ingredient name and unit and ordered by name.
func (s *ShoppingListService) Lines(ctx context.Context, userID uuid.UUID) ([]ShoppingLine, error) {
	db := s.db.WithContext(ctx)
	cart := db.Model(&models.ShoppingListEntry{}).Select("recipe_id").Where("user_id = ?", userID)

	lines := []ShoppingLine{}
	err := db.Table("recipe_ingredients").
		Select("ingredients.name AS name, units.name AS unit, SUM(recipe_ingredients.amount) AS amount").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Joins("JOIN units ON units.id = ingredients.unit_id").
		Where("recipe_ingredients.recipe_id IN (?)", cart).
		Group("ingredients.name, units.name").
		Order("ingredients.name, units.name").
		Scan(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}

// Document builds the shopping list of user, headed by their username.
func (s *ShoppingListService) Document(ctx context.Context, user *models.User) (render.Document, error) {
	lines, err := s.Lines(ctx, user.ID)
	if err != nil {
		return render.Document{}, err
	}

	doc := render.Document{
		Title: "Shopping list for " + user.Username,
		Lines: make([]string, len(lines)),
	}
	for i, line := range lines {
		doc.Lines[i] = line.String()
	}
	return doc, nil
}
