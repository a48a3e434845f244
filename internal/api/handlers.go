package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pageza/foodgram/backend/internal/errs"
	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/types"
)

// Dependencies are the services the handlers are built from.
type Dependencies struct {
	Auth                service.IAuthService
	Recipes             service.IRecipeService
	Relations           service.IRelationService
	Catalog             service.ICatalogService
	ShoppingList        service.IShoppingListService
	Projector           service.IProjector
	RecipeCreateLimiter *middleware.RateLimiter // nil disables the limit
	PDFFontPath         string
}

// HealthCheck returns the health status of the API
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "Foodgram API is running",
	})
}

// RegisterRoutes registers all API routes
func RegisterRoutes(router *gin.Engine, deps Dependencies) {
	router.HandleMethodNotAllowed = true
	router.NoRoute(func(c *gin.Context) {
		respondError(c, errs.NotFound("page"))
	})
	router.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "method " + c.Request.Method + " not allowed"})
	})

	// Health check endpoint (no auth required)
	router.GET("/health", HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	auth := middleware.AuthMiddleware(deps.Auth)
	optionalAuth := middleware.OptionalAuth(deps.Auth)

	v1 := router.Group("/api")
	NewRecipeHandler(deps).RegisterRoutes(v1, auth, optionalAuth)
	NewCatalogHandler(deps.Catalog).RegisterRoutes(v1)
	NewUserHandler(deps).RegisterRoutes(v1, auth, optionalAuth)
	NewAuthHandler(deps.Auth).RegisterRoutes(v1, auth)
}

// pathID binds the {id} segment, answering 404 when it is not a uuid.
func pathID(c *gin.Context) (uuid.UUID, bool) {
	var param types.IDParam
	if err := c.ShouldBindUri(&param); err != nil {
		respondError(c, errs.NotFound(""))
		return uuid.Nil, false
	}
	id, err := uuid.Parse(param.ID)
	if err != nil {
		respondError(c, errs.NotFound(""))
		return uuid.Nil, false
	}
	return id, true
}

// userResolver loads the authenticated user's record.
type userResolver struct {
	auth service.IAuthService
}

func (r *userResolver) current(c *gin.Context) (*models.User, bool) {
	id, ok := middleware.UserID(c)
	if !ok {
		respondError(c, errs.NotAuthenticated())
		return nil, false
	}
	user, err := r.auth.GetUserByID(c.Request.Context(), id)
	if err != nil {
		if errs.IsKind(err, errs.KindNotFound) {
			// token outlived its user
			err = errs.NotAuthenticated()
		}
		respondError(c, err)
		return nil, false
	}
	return user, true
}
