package router

import (
	"github.com/gin-gonic/gin"

	"github.com/pageza/porkchop/backend/internal/api"
	"github.com/pageza/porkchop/backend/internal/middleware"
)

// SetupRouter configures the middleware chain and the application routes
func SetupRouter(appOrigin string, deps api.Dependencies) *gin.Engine {
	router := gin.New()

	// recovery must run inside the logger and metrics
	router.Use(middleware.RequestLogger(deps.Logger))
	if deps.Metrics != nil {
		router.Use(deps.Metrics.Handler())
	}
	router.Use(middleware.ErrorHandler(deps.Logger))
	router.Use(middleware.CORS(appOrigin))

	api.RegisterRoutes(router, deps)

	return router
}
