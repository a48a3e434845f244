package router

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/api"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
)

func setup(t *testing.T) (*gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mediaDir := t.TempDir()
	cfg := &config.Config{
		JWTSecret:   "test-secret",
		CORSOrigins: []string{"http://localhost:3000"},
		MediaDir:    mediaDir,
		MediaURL:    "/media/",
	}
	db := testhelpers.SetupSQLiteDatabase(t)
	deps := api.NewDependencies(db, cfg.JWTSecret, service.NewLocalImageStore(mediaDir, cfg.MediaURL))
	return SetupRouter(cfg, deps), mediaDir
}

func TestCORSPreflight(t *testing.T) {
	r, _ := setup(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/recipes/", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestMetricsEndpoint(t *testing.T) {
	r, _ := setup(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "foodgram_api_requests_total")
}

func TestServesLocalMedia(t *testing.T) {
	r, mediaDir := setup(t)
	require.NoError(t, os.MkdirAll(filepath.Join(mediaDir, "recipes"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(mediaDir, "recipes", "a.png"), []byte("png"), 0o644))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/media/recipes/a.png", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "png", w.Body.String())
}
