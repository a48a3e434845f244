package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pageza/foodgram/backend/internal/errs"
	"github.com/pageza/foodgram/backend/internal/types"
)

// Context keys set by the auth middleware.
const (
	UserIDKey   = "user_id"
	UsernameKey = "username"
	IsStaffKey  = "is_staff"
)

// TokenValidator is an interface for validating JWT tokens
type TokenValidator interface {
	ValidateToken(token string) (*types.TokenClaims, error)
}

// AuthMiddleware rejects requests without a valid token.
func AuthMiddleware(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			abortWithError(c, errs.NotAuthenticated())
			return
		}
		if !authenticate(c, validator, token) {
			return
		}
		c.Next()
	}
}

// OptionalAuth authenticates the request when a token is present and lets
// anonymous requests through. A malformed or invalid token is still
// rejected.
func OptionalAuth(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.Next()
			return
		}
		token, ok := bearerToken(c)
		if !ok {
			abortWithError(c, &errs.Error{Kind: errs.KindNotAuthenticated, Message: "invalid authorization header format"})
			return
		}
		if !authenticate(c, validator, token) {
			return
		}
		c.Next()
	}
}

// UserID returns the authenticated user's id, if any.
func UserID(c *gin.Context) (uuid.UUID, bool) {
	v, exists := c.Get(UserIDKey)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

// Viewer returns the identity read projections are computed for.
func Viewer(c *gin.Context) types.Viewer {
	if id, ok := UserID(c); ok {
		return types.AuthenticatedViewer(id)
	}
	return types.Anonymous()
}

func authenticate(c *gin.Context, validator TokenValidator, token string) bool {
	claims, err := validator.ValidateToken(token)
	if err != nil {
		abortWithError(c, &errs.Error{Kind: errs.KindNotAuthenticated, Message: "invalid or expired token", Cause: err})
		return false
	}

	// Store user info in context
	c.Set(UserIDKey, claims.UserID)
	c.Set(UsernameKey, claims.Username)
	c.Set(IsStaffKey, claims.IsStaff)
	return true
}

// bearerToken accepts "Bearer <token>" and "Token <token>".
func bearerToken(c *gin.Context) (string, bool) {
	parts := strings.Fields(c.GetHeader("Authorization"))
	if len(parts) != 2 {
		return "", false
	}
	switch parts[0] {
	case "Bearer", "Token":
		return parts[1], true
	default:
		return "", false
	}
}

func abortWithError(c *gin.Context, e *errs.Error) {
	body := gin.H{"error": e.Message, "kind": e.Kind}
	if e.Field != "" {
		body["field"] = e.Field
	}
	c.AbortWithStatusJSON(e.StatusCode(), body)
}
