package router

import (
	"github.com/gin-gonic/gin"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/api"
	"github.com/pageza/foodgram/backend/internal/middleware"
)

// SetupRouter configures the middleware chain and the application routes
func SetupRouter(cfg *config.Config, deps api.Dependencies) *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.Recovery(),
		middleware.RequestLogger(),
		middleware.Metrics(),
		middleware.CORS(cfg.CORSOrigins),
	)

	// Locally stored recipe images
	if cfg.S3Bucket == "" && cfg.MediaDir != "" {
		router.Static(cfg.MediaURL, cfg.MediaDir)
	}

	api.RegisterRoutes(router, deps)
	return router
}
