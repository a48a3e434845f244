package api

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/internal/mocks"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/render"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
	"github.com/pageza/foodgram/backend/internal/types"
)

type errorBody struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
	Field string `json:"field"`
}

func recipeBody(t *testing.T, name string, tag *models.Tag, ing *models.Ingredient, amount int) map[string]interface{} {
	return map[string]interface{}{
		"name":         name,
		"text":         "Stir well.",
		"cooking_time": 15,
		"image":        pngDataURI(t),
		"tags":         []string{tag.ID.String()},
		"ingredients": []map[string]interface{}{
			{"id": ing.ID.String(), "amount": amount},
		},
	}
}

func TestRecipeLifecycle(t *testing.T) {
	a := newTestAPI(t)
	alice, aliceToken := a.user(t, "alice")
	_, bobToken := a.user(t, "bob")
	tag := testhelpers.CreateTag(t, a.db, "Breakfast")
	flour := testhelpers.CreateIngredient(t, a.db, "flour", "g")

	w := a.do(t, http.MethodPost, "/api/recipes/", aliceToken, recipeBody(t, "Pancakes", tag, flour, 200))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[types.RecipeView](t, w)
	assert.Equal(t, "Pancakes", created.Name)
	assert.Equal(t, alice.Username, created.Author.Username)
	require.Len(t, created.Ingredients, 1)
	assert.Equal(t, 200, created.Ingredients[0].Amount)
	assert.Equal(t, "g", created.Ingredients[0].MeasurementUnit)
	require.Len(t, created.Tags, 1)
	assert.Equal(t, "breakfast", created.Tags[0].Slug)
	assert.NotEmpty(t, created.Image)

	path := "/api/recipes/" + created.ID.String() + "/"

	w = a.do(t, http.MethodGet, path, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, decode[types.RecipeView](t, w).IsFavorited)

	w = a.do(t, http.MethodPatch, path, bobToken, map[string]interface{}{"name": "Stolen"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = a.do(t, http.MethodPatch, path, aliceToken, map[string]interface{}{"name": "Crepes"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode[types.RecipeView](t, w)
	assert.Equal(t, "Crepes", updated.Name)
	assert.Len(t, updated.Ingredients, 1)

	w = a.do(t, http.MethodDelete, path, bobToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = a.do(t, http.MethodDelete, path, aliceToken, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = a.do(t, http.MethodGet, path, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateRecipeErrors(t *testing.T) {
	a := newTestAPI(t)
	_, token := a.user(t, "alice")
	tag := testhelpers.CreateTag(t, a.db, "Lunch")
	flour := testhelpers.CreateIngredient(t, a.db, "flour", "g")

	w := a.do(t, http.MethodPost, "/api/recipes/", "", recipeBody(t, "Soup", tag, flour, 1))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	body := recipeBody(t, "Soup", tag, flour, 1)
	delete(body, "name")
	w = a.do(t, http.MethodPost, "/api/recipes/", token, body)
	require.Equal(t, http.StatusBadRequest, w.Code)
	e := decode[errorBody](t, w)
	assert.Equal(t, "missing_field", e.Kind)
	assert.Equal(t, "name", e.Field)

	w = a.do(t, http.MethodPost, "/api/recipes/", token, recipeBody(t, "Soup", tag, flour, 0))
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_value", decode[errorBody](t, w).Kind)

	w = a.do(t, http.MethodPost, "/api/recipes/", token, recipeBody(t, "Soup", tag, flour, 3))
	require.Equal(t, http.StatusCreated, w.Code)
	w = a.do(t, http.MethodPost, "/api/recipes/", token, recipeBody(t, "Soup", tag, flour, 3))
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "duplicate_name", decode[errorBody](t, w).Kind)
}

func TestListRecipesPaginatesAndFilters(t *testing.T) {
	a := newTestAPI(t)
	alice, _ := a.user(t, "alice")
	bob, bobToken := a.user(t, "bob")
	breakfast := testhelpers.CreateTag(t, a.db, "Breakfast")
	dinner := testhelpers.CreateTag(t, a.db, "Dinner")

	for _, name := range []string{"A", "B", "C", "D", "E", "F"} {
		testhelpers.CreateRecipe(t, a.db, alice, name, []*models.Tag{dinner})
	}
	porridge := testhelpers.CreateRecipe(t, a.db, bob, "Porridge", []*models.Tag{breakfast})

	w := a.do(t, http.MethodGet, "/api/recipes/", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	page := decode[Page[types.RecipeView]](t, w)
	assert.Equal(t, int64(7), page.Count)
	assert.Len(t, page.Results, 6)
	require.NotNil(t, page.Next)
	assert.Contains(t, *page.Next, "page=2")
	assert.Nil(t, page.Previous)

	w = a.do(t, http.MethodGet, "/api/recipes/?page=2", "", nil)
	page = decode[Page[types.RecipeView]](t, w)
	assert.Len(t, page.Results, 1)
	assert.Nil(t, page.Next)
	assert.NotNil(t, page.Previous)

	w = a.do(t, http.MethodGet, "/api/recipes/?tags=breakfast", "", nil)
	page = decode[Page[types.RecipeView]](t, w)
	require.Len(t, page.Results, 1)
	assert.Equal(t, porridge.ID, page.Results[0].ID)

	w = a.do(t, http.MethodGet, "/api/recipes/?author="+alice.ID.String()+"&limit=10", "", nil)
	page = decode[Page[types.RecipeView]](t, w)
	assert.Equal(t, int64(6), page.Count)

	// the filter is ignored for anonymous viewers
	w = a.do(t, http.MethodGet, "/api/recipes/?is_favorited=1", "", nil)
	assert.Equal(t, int64(7), decode[Page[types.RecipeView]](t, w).Count)

	w = a.do(t, http.MethodPost, "/api/recipes/"+porridge.ID.String()+"/favorite/", bobToken, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	w = a.do(t, http.MethodGet, "/api/recipes/?is_favorited=1", bobToken, nil)
	page = decode[Page[types.RecipeView]](t, w)
	require.Len(t, page.Results, 1)
	assert.True(t, page.Results[0].IsFavorited)

	w = a.do(t, http.MethodGet, "/api/recipes/?limit=1000", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFavoriteAndCartToggles(t *testing.T) {
	a := newTestAPI(t)
	alice, token := a.user(t, "alice")
	recipe := testhelpers.CreateRecipe(t, a.db, alice, "Soup", nil)

	for _, relation := range []string{"favorite", "shopping_cart"} {
		t.Run(relation, func(t *testing.T) {
			path := "/api/recipes/" + recipe.ID.String() + "/" + relation + "/"

			w := a.do(t, http.MethodPost, path, token, nil)
			require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
			summary := decode[types.RecipeSummary](t, w)
			assert.Equal(t, recipe.ID, summary.ID)
			assert.Equal(t, "Soup", summary.Name)

			w = a.do(t, http.MethodPost, path, token, nil)
			require.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, "already_exists", decode[errorBody](t, w).Kind)

			w = a.do(t, http.MethodDelete, path, token, nil)
			assert.Equal(t, http.StatusNoContent, w.Code)

			w = a.do(t, http.MethodDelete, path, token, nil)
			assert.Equal(t, http.StatusNotFound, w.Code)

			w = a.do(t, http.MethodPost, path, "", nil)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}

	w := a.do(t, http.MethodPost, "/api/recipes/00000000-0000-0000-0000-000000000000/favorite/", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDownloadShoppingCart(t *testing.T) {
	a := newTestAPI(t)
	alice, token := a.user(t, "alice")
	flour := testhelpers.CreateIngredient(t, a.db, "flour", "g")
	eggs := testhelpers.CreateIngredient(t, a.db, "eggs", "pcs")
	bread := testhelpers.CreateRecipe(t, a.db, alice, "Bread", nil, testhelpers.Amount{Ingredient: flour, Amount: 300})
	cake := testhelpers.CreateRecipe(t, a.db, alice, "Cake", nil,
		testhelpers.Amount{Ingredient: flour, Amount: 200},
		testhelpers.Amount{Ingredient: eggs, Amount: 3},
	)
	for _, r := range []*models.Recipe{bread, cake} {
		w := a.do(t, http.MethodPost, "/api/recipes/"+r.ID.String()+"/shopping_cart/", token, nil)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := a.do(t, http.MethodGet, "/api/recipes/download_shopping_cart/?format=txt", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="buy_list.txt"`, w.Header().Get("Content-Disposition"))
	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	assert.Equal(t, []string{"Shopping list for alice", "", "eggs (pcs) - 3", "flour (g) - 500"}, lines)

	w = a.do(t, http.MethodGet, "/api/recipes/download_shopping_cart/", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="buy_list.pdf"`, w.Header().Get("Content-Disposition"))
	assert.True(t, strings.HasPrefix(w.Body.String(), "%PDF-"))

	w = a.do(t, http.MethodGet, "/api/recipes/download_shopping_cart/?format=docx", token, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "format", decode[errorBody](t, w).Field)

	w = a.do(t, http.MethodGet, "/api/recipes/download_shopping_cart/", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestDownloadShoppingCartStoreFailure(t *testing.T) {
	list := new(mocks.MockShoppingListService)
	list.On("Document", mock.Anything, mock.AnythingOfType("*models.User")).
		Return(render.Document{}, errors.New("connection reset"))

	a := newTestAPI(t, func(d *Dependencies) { d.ShoppingList = list })
	_, token := a.user(t, "alice")

	w := a.do(t, http.MethodGet, "/api/recipes/download_shopping_cart/?format=txt", token, nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "internal server error", decode[errorBody](t, w).Error)
	list.AssertExpectations(t)
}

func TestRecipeRouteErrors(t *testing.T) {
	a := newTestAPI(t)
	alice, token := a.user(t, "alice")
	recipe := testhelpers.CreateRecipe(t, a.db, alice, "Soup", nil)

	w := a.do(t, http.MethodPut, "/api/recipes/"+recipe.ID.String()+"/", token, nil)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)

	w = a.do(t, http.MethodGet, "/api/recipes/not-a-uuid/", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = a.do(t, http.MethodGet, "/api/nothing-here/", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = a.do(t, http.MethodGet, "/api/recipes/", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
