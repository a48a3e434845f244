package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/types"
)

type UserHandler struct {
	auth      service.IAuthService
	relations service.IRelationService
	projector service.IProjector
	users     *userResolver
}

func NewUserHandler(deps Dependencies) *UserHandler {
	return &UserHandler{
		auth:      deps.Auth,
		relations: deps.Relations,
		projector: deps.Projector,
		users:     &userResolver{auth: deps.Auth},
	}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup, auth, optionalAuth gin.HandlerFunc) {
	users := router.Group("/users")
	{
		users.POST("/", h.Register)
		users.GET("/", optionalAuth, h.ListUsers)
		users.GET("/me/", auth, h.Me)
		users.GET("/subscriptions/", auth, h.Subscriptions)
		users.GET("/:id/", optionalAuth, h.GetUser)
		users.POST("/:id/subscribe/", auth, h.Subscribe)
		users.DELETE("/:id/subscribe/", auth, h.Unsubscribe)
	}
}

func (h *UserHandler) Register(c *gin.Context) {
	var req types.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindError(err))
		return
	}

	user, err := h.auth.Register(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":         user.ID,
		"email":      user.Email,
		"username":   user.Username,
		"first_name": user.FirstName,
		"last_name":  user.LastName,
	})
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	p, err := parsePagination(c)
	if err != nil {
		respondError(c, err)
		return
	}

	ctx := c.Request.Context()
	users, total, err := h.auth.ListUsers(ctx, p.limit, p.offset())
	if err != nil {
		respondError(c, err)
		return
	}
	views, err := h.projector.Users(ctx, middleware.Viewer(c), users)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, newPage(c, p, total, views))
}

func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	user, err := h.auth.GetUserByID(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	view, err := h.projector.User(ctx, middleware.Viewer(c), user)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *UserHandler) Me(c *gin.Context) {
	user, ok := h.users.current(c)
	if !ok {
		return
	}
	view, err := h.projector.User(c.Request.Context(), middleware.Viewer(c), user)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *UserHandler) Subscriptions(c *gin.Context) {
	p, err := parsePagination(c)
	if err != nil {
		respondError(c, err)
		return
	}
	user, ok := h.users.current(c)
	if !ok {
		return
	}

	views, total, err := h.relations.Subscriptions(c.Request.Context(), user, p.limit, p.offset(), recipesLimit(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, newPage(c, p, total, views))
}

func (h *UserHandler) Subscribe(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	user, ok := h.users.current(c)
	if !ok {
		return
	}

	view, err := h.relations.Subscribe(c.Request.Context(), user, id, recipesLimit(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

func (h *UserHandler) Unsubscribe(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	user, ok := h.users.current(c)
	if !ok {
		return
	}

	if err := h.relations.Unsubscribe(c.Request.Context(), user, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// recipesLimit reads ?recipes_limit; a missing or malformed value means
// no limit.
func recipesLimit(c *gin.Context) int {
	n, err := strconv.Atoi(c.Query("recipes_limit"))
	if err != nil || n < 0 {
		return -1
	}
	return n
}
