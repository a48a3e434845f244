package api

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/foodgram/backend/internal/errs"
	"github.com/pageza/foodgram/backend/internal/metrics"
	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/render"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/types"
)

type RecipeHandler struct {
	recipes      service.IRecipeService
	relations    service.IRelationService
	shoppingList service.IShoppingListService
	projector    service.IProjector
	users        *userResolver
	createLimit  *middleware.RateLimiter
	pdfFontPath  string
}

func NewRecipeHandler(deps Dependencies) *RecipeHandler {
	return &RecipeHandler{
		recipes:      deps.Recipes,
		relations:    deps.Relations,
		shoppingList: deps.ShoppingList,
		projector:    deps.Projector,
		users:        &userResolver{auth: deps.Auth},
		createLimit:  deps.RecipeCreateLimiter,
		pdfFontPath:  deps.PDFFontPath,
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup, auth, optionalAuth gin.HandlerFunc) {
	recipes := router.Group("/recipes")
	{
		recipes.GET("/", optionalAuth, h.ListRecipes)
		create := []gin.HandlerFunc{auth}
		if h.createLimit != nil {
			create = append(create, h.createLimit.RateLimitMiddleware())
		}
		recipes.POST("/", append(create, h.CreateRecipe)...)
		recipes.GET("/download_shopping_cart/", auth, h.DownloadShoppingCart)

		recipes.GET("/:id/", optionalAuth, h.GetRecipe)
		recipes.PATCH("/:id/", auth, h.UpdateRecipe)
		recipes.DELETE("/:id/", auth, h.DeleteRecipe)

		recipes.POST("/:id/favorite/", auth, h.Favorite)
		recipes.DELETE("/:id/favorite/", auth, h.Unfavorite)
		recipes.POST("/:id/shopping_cart/", auth, h.AddToCart)
		recipes.DELETE("/:id/shopping_cart/", auth, h.RemoveFromCart)
	}
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	var filter types.RecipeFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		respondError(c, bindError(err))
		return
	}
	p, err := parsePagination(c)
	if err != nil {
		respondError(c, err)
		return
	}

	ctx := c.Request.Context()
	viewer := middleware.Viewer(c)
	recipes, total, err := h.recipes.ListRecipes(ctx, viewer, filter, p.limit, p.offset())
	if err != nil {
		respondError(c, err)
		return
	}
	views, err := h.projector.Recipes(ctx, viewer, recipes)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, newPage(c, p, total, views))
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	recipe, err := h.recipes.GetRecipe(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	view, err := h.projector.Recipe(ctx, middleware.Viewer(c), recipe)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	var payload types.RecipePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, bindError(err))
		return
	}
	user, ok := h.users.current(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	recipe, err := h.recipes.CreateRecipe(ctx, user.ID, &payload)
	if err != nil {
		respondError(c, err)
		return
	}
	view, err := h.projector.Recipe(ctx, middleware.Viewer(c), recipe)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, view)
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var payload types.RecipePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, bindError(err))
		return
	}
	user, ok := h.users.current(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	recipe, err := h.recipes.UpdateRecipe(ctx, user, id, &payload)
	if err != nil {
		respondError(c, err)
		return
	}
	view, err := h.projector.Recipe(ctx, middleware.Viewer(c), recipe)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	user, ok := h.users.current(c)
	if !ok {
		return
	}

	if err := h.recipes.DeleteRecipe(c.Request.Context(), user, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) Favorite(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	user, ok := h.users.current(c)
	if !ok {
		return
	}

	summary, err := h.relations.Favorite(c.Request.Context(), user, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, summary)
}

func (h *RecipeHandler) Unfavorite(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	user, ok := h.users.current(c)
	if !ok {
		return
	}

	if err := h.relations.Unfavorite(c.Request.Context(), user, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) AddToCart(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	user, ok := h.users.current(c)
	if !ok {
		return
	}

	summary, err := h.relations.AddToCart(c.Request.Context(), user, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, summary)
}

func (h *RecipeHandler) RemoveFromCart(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	user, ok := h.users.current(c)
	if !ok {
		return
	}

	if err := h.relations.RemoveFromCart(c.Request.Context(), user, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DownloadShoppingCart returns the aggregated shopping list as an
// attachment, a PDF unless ?format=txt is given.
func (h *RecipeHandler) DownloadShoppingCart(c *gin.Context) {
	renderer, err := render.ForFormat(c.Query("format"), h.pdfFontPath)
	if err != nil {
		respondError(c, &errs.Error{Kind: errs.KindInvalidValue, Field: "format", Message: err.Error()})
		return
	}
	user, ok := h.users.current(c)
	if !ok {
		return
	}

	doc, err := h.shoppingList.Document(c.Request.Context(), user)
	if err != nil {
		respondError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := renderer.Render(&buf, doc); err != nil {
		respondError(c, err)
		return
	}

	metrics.RecordShoppingListDownload(renderer.Extension())
	c.Header("Content-Disposition", `attachment; filename="buy_list.`+renderer.Extension()+`"`)
	c.Data(http.StatusOK, renderer.ContentType(), buf.Bytes())
}
