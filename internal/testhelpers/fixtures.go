package testhelpers

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/models"
)

// CreateUser inserts a user with a unique email.
func CreateUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username:     username,
		Email:        fmt.Sprintf("%s+%s@example.com", username, uuid.NewString()[:8]),
		FirstName:    "Test",
		LastName:     "User",
		PasswordHash: "hashed_password",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateTag inserts a tag whose slug is the lowercased name.
func CreateTag(t *testing.T, db *gorm.DB, name string) *models.Tag {
	t.Helper()
	tag := &models.Tag{Name: name, Color: "#E26C2D", Slug: slug(name)}
	require.NoError(t, db.Create(tag).Error)
	return tag
}

// CreateIngredient inserts an ingredient, creating its unit when missing.
func CreateIngredient(t *testing.T, db *gorm.DB, name, unit string) *models.Ingredient {
	t.Helper()
	var u models.Unit
	require.NoError(t, db.Where(models.Unit{Name: unit}).FirstOrCreate(&u).Error)

	ing := &models.Ingredient{Name: name, UnitID: u.ID}
	require.NoError(t, db.Create(ing).Error)
	ing.Unit = u
	return ing
}

// Amount pairs an ingredient with a quantity for CreateRecipe.
type Amount struct {
	Ingredient *models.Ingredient
	Amount     int
}

// CreateRecipe inserts a recipe with its links directly, bypassing validation.
func CreateRecipe(t *testing.T, db *gorm.DB, author *models.User, name string, tags []*models.Tag, amounts ...Amount) *models.Recipe {
	t.Helper()
	recipe := &models.Recipe{
		AuthorID:    author.ID,
		Name:        name,
		Text:        "Mix and cook.",
		CookingTime: 10,
		Image:       "recipes/images/" + slug(name) + ".png",
	}
	require.NoError(t, db.Create(recipe).Error)

	for _, tag := range tags {
		require.NoError(t, db.Create(&models.RecipeTag{RecipeID: recipe.ID, TagID: tag.ID}).Error)
	}
	for _, a := range amounts {
		require.NoError(t, db.Create(&models.RecipeIngredient{
			RecipeID:     recipe.ID,
			IngredientID: a.Ingredient.ID,
			Amount:       a.Amount,
		}).Error)
	}
	return recipe
}

// Count returns the number of rows of model m.
func Count(t *testing.T, db *gorm.DB, m interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(m).Count(&n).Error)
	return n
}

func slug(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch {
		case r >= 'A' && r <= 'Z':
			out = append(out, r+('a'-'A'))
		case r == ' ':
			out = append(out, '-')
		default:
			out = append(out, r)
		}
	}
	return string(out)
}
