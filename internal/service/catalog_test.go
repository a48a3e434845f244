package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/internal/errs"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
)

func TestSearchIngredientsRanksMatches(t *testing.T) {
	db := testhelpers.SetupSQLiteDatabase(t)
	catalog := NewCatalogService(db)
	ctx := context.Background()

	testhelpers.CreateIngredient(t, db, "Cocoa", "g")
	testhelpers.CreateIngredient(t, db, "Oatmeal", "g")
	testhelpers.CreateIngredient(t, db, "Milk", "ml")
	testhelpers.CreateIngredient(t, db, "Tomato", "pcs")

	found, err := catalog.SearchIngredients(ctx, "OA")
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "Oatmeal", found[0].Name)
	assert.Equal(t, "Cocoa", found[1].Name)
	assert.Equal(t, "g", found[0].Unit.Name)

	all, err := catalog.SearchIngredients(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 4)
	assert.Equal(t, "Cocoa", all[0].Name)
}

func TestCatalogLookups(t *testing.T) {
	db := testhelpers.SetupSQLiteDatabase(t)
	catalog := NewCatalogService(db)
	ctx := context.Background()

	tag := testhelpers.CreateTag(t, db, "Lunch")
	got, err := catalog.GetTag(ctx, tag.ID)
	require.NoError(t, err)
	assert.Equal(t, "lunch", got.Slug)

	_, err = catalog.GetTag(ctx, uuid.New())
	assert.True(t, errs.IsKind(err, errs.KindNotFound))

	_, err = catalog.GetIngredient(ctx, uuid.New())
	assert.True(t, errs.IsKind(err, errs.KindNotFound))

	n, err := catalog.CountTags(ctx, []uuid.UUID{tag.ID, uuid.New()})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestRecipeNameTaken(t *testing.T) {
	db := testhelpers.SetupSQLiteDatabase(t)
	catalog := NewCatalogService(db)
	ctx := context.Background()

	alice := testhelpers.CreateUser(t, db, "alice")
	recipe := testhelpers.CreateRecipe(t, db, alice, "Soup", nil)

	taken, err := catalog.RecipeNameTaken(ctx, alice.ID, "Soup", uuid.Nil)
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = catalog.RecipeNameTaken(ctx, alice.ID, "Soup", recipe.ID)
	require.NoError(t, err)
	assert.False(t, taken)

	taken, err = catalog.RecipeNameTaken(ctx, uuid.New(), "Soup", uuid.Nil)
	require.NoError(t, err)
	assert.False(t, taken)
}

func TestImportIngredientsIsIdempotent(t *testing.T) {
	db := testhelpers.SetupSQLiteDatabase(t)
	catalog := NewCatalogService(db)
	ctx := context.Background()

	items := []IngredientImport{
		{Name: "flour", MeasurementUnit: "g"},
		{Name: "milk", MeasurementUnit: "ml"},
		{Name: "sugar", MeasurementUnit: "g"},
	}

	created, err := catalog.ImportIngredients(ctx, items)
	require.NoError(t, err)
	assert.Equal(t, 3, created)

	created, err = catalog.ImportIngredients(ctx, items)
	require.NoError(t, err)
	assert.Zero(t, created)

	assert.Equal(t, int64(2), testhelpers.Count(t, db, &models.Unit{}))
	assert.Equal(t, int64(3), testhelpers.Count(t, db, &models.Ingredient{}))

	_, err = catalog.ImportIngredients(ctx, []IngredientImport{{Name: "salt"}})
	assert.True(t, errs.IsKind(err, errs.KindInvalidValue))
	assert.Equal(t, int64(3), testhelpers.Count(t, db, &models.Ingredient{}))
}

func TestImportTagsSkipsExistingSlugs(t *testing.T) {
	db := testhelpers.SetupSQLiteDatabase(t)
	catalog := NewCatalogService(db)
	ctx := context.Background()

	testhelpers.CreateTag(t, db, "Breakfast")

	created, err := catalog.ImportTags(ctx, []models.Tag{
		{Name: "Breakfast", Color: "#E26C2D", Slug: "breakfast"},
		{Name: "Dinner", Color: "#8775D2", Slug: "dinner"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, created)
	assert.Equal(t, int64(2), testhelpers.Count(t, db, &models.Tag{}))
}
