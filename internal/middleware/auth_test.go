package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/pageza/foodgram/backend/internal/types"
)

type stubValidator struct {
	token  string
	claims *types.TokenClaims
}

func (v stubValidator) ValidateToken(token string) (*types.TokenClaims, error) {
	if token != v.token {
		return nil, errors.New("bad token")
	}
	return v.claims, nil
}

func newAuthRouter() (*gin.Engine, uuid.UUID) {
	gin.SetMode(gin.TestMode)
	userID := uuid.New()
	validator := stubValidator{token: "good", claims: &types.TokenClaims{UserID: userID, Username: "alice"}}

	router := gin.New()
	viewer := func(c *gin.Context) {
		v := Viewer(c)
		c.JSON(http.StatusOK, gin.H{"authenticated": v.Authenticated, "id": v.ID})
	}
	router.GET("/required", AuthMiddleware(validator), viewer)
	router.GET("/optional", OptionalAuth(validator), viewer)
	return router, userID
}

func TestAuthMiddleware(t *testing.T) {
	router, userID := newAuthRouter()

	tests := []struct {
		name   string
		path   string
		header string
		status int
		body   string
	}{
		{"required without header", "/required", "", http.StatusUnauthorized, ""},
		{"required with bad token", "/required", "Bearer nope", http.StatusUnauthorized, ""},
		{"required with bearer", "/required", "Bearer good", http.StatusOK, userID.String()},
		{"required with token scheme", "/required", "Token good", http.StatusOK, userID.String()},
		{"optional anonymous", "/optional", "", http.StatusOK, `"authenticated":false`},
		{"optional malformed", "/optional", "good", http.StatusUnauthorized, ""},
		{"optional authenticated", "/optional", "Bearer good", http.StatusOK, `"authenticated":true`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			assert.Equal(t, tt.status, rr.Code)
			if tt.status == http.StatusUnauthorized {
				assert.Contains(t, rr.Body.String(), `"kind":"not_authenticated"`)
			}
			if tt.body != "" {
				assert.Contains(t, rr.Body.String(), tt.body)
			}
		})
	}
}
