package service

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/render"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
)

func TestShoppingListSumsAcrossRecipes(t *testing.T) {
	db := testhelpers.SetupSQLiteDatabase(t)
	svc := NewShoppingListService(db)
	ctx := context.Background()

	author := testhelpers.CreateUser(t, db, "chef")
	buyer := testhelpers.CreateUser(t, db, "buyer")
	flour := testhelpers.CreateIngredient(t, db, "Flour", "g")
	eggs := testhelpers.CreateIngredient(t, db, "Eggs", "pcs")
	butter := testhelpers.CreateIngredient(t, db, "Butter", "g")

	bread := testhelpers.CreateRecipe(t, db, author, "Bread", nil,
		testhelpers.Amount{Ingredient: flour, Amount: 200})
	cake := testhelpers.CreateRecipe(t, db, author, "Cake", nil,
		testhelpers.Amount{Ingredient: flour, Amount: 300},
		testhelpers.Amount{Ingredient: eggs, Amount: 4})
	// not in the cart
	testhelpers.CreateRecipe(t, db, author, "Cookies", nil,
		testhelpers.Amount{Ingredient: butter, Amount: 100})

	require.NoError(t, db.Create(&models.ShoppingListEntry{UserID: buyer.ID, RecipeID: bread.ID}).Error)
	require.NoError(t, db.Create(&models.ShoppingListEntry{UserID: buyer.ID, RecipeID: cake.ID}).Error)

	lines, err := svc.Lines(ctx, buyer.ID)
	require.NoError(t, err)
	assert.Equal(t, []ShoppingLine{
		{Name: "Eggs", Unit: "pcs", Amount: 4},
		{Name: "Flour", Unit: "g", Amount: 500},
	}, lines)

	doc, err := svc.Document(ctx, buyer)
	require.NoError(t, err)
	assert.Equal(t, "Shopping list for buyer", doc.Title)
	assert.Equal(t, []string{"Eggs (pcs) - 4", "Flour (g) - 500"}, doc.Lines)
}

func TestShoppingListSeparatesUnits(t *testing.T) {
	db := testhelpers.SetupSQLiteDatabase(t)
	svc := NewShoppingListService(db)

	user := testhelpers.CreateUser(t, db, "buyer")
	grams := testhelpers.CreateIngredient(t, db, "Sugar", "g")
	spoons := testhelpers.CreateIngredient(t, db, "Sugar", "tbsp")
	recipe := testhelpers.CreateRecipe(t, db, user, "Syrup", nil,
		testhelpers.Amount{Ingredient: grams, Amount: 100},
		testhelpers.Amount{Ingredient: spoons, Amount: 2})
	require.NoError(t, db.Create(&models.ShoppingListEntry{UserID: user.ID, RecipeID: recipe.ID}).Error)

	lines, err := svc.Lines(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, []ShoppingLine{
		{Name: "Sugar", Unit: "g", Amount: 100},
		{Name: "Sugar", Unit: "tbsp", Amount: 2},
	}, lines)
}

func TestShoppingListEmptyCart(t *testing.T) {
	db := testhelpers.SetupSQLiteDatabase(t)
	svc := NewShoppingListService(db)
	user := testhelpers.CreateUser(t, db, "nobody")

	doc, err := svc.Document(context.Background(), user)
	require.NoError(t, err)
	assert.Empty(t, doc.Lines)

	var buf bytes.Buffer
	require.NoError(t, render.Text{}.Render(&buf, doc))
	assert.Equal(t, "Shopping list for nobody\n\n", buf.String())
}
