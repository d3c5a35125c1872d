package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/pageza/porkchop/backend/internal/middleware"
	"github.com/pageza/porkchop/backend/internal/service"
	"github.com/pageza/porkchop/backend/internal/session"
)

// Dependencies is everything the route handlers need
type Dependencies struct {
	Sessions      *session.Manager
	Identity      service.IIdentityProvider
	SignUp        service.ISignUpService
	Users         service.IUserService
	Subscriptions service.ISubscriptionService
	Recipes       service.IRecipeService
	Analytics     service.IAnalyticsService
	Chef          service.IChefService
	ChefLimiter   *middleware.RateLimiter
	Metrics       *middleware.Metrics
	Gatherer      prometheus.Gatherer
	Auth          AuthConfig
	Logger        *zap.Logger
}

// RegisterRoutes mounts /api, /api/auth, the protected /api/v1 group and /metrics
func RegisterRoutes(r *gin.Engine, deps Dependencies) {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	if deps.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	root := r.Group("/api")
	root.GET("/health", Health)

	NewAuthHandler(deps.Sessions, deps.Identity, deps.SignUp, deps.Users, deps.Auth, log).RegisterRoutes(root)

	v1 := root.Group("/v1")
	v1.Use(
		middleware.RequireSession(deps.Sessions, deps.Identity, log),
		middleware.RequireCSRF(deps.Sessions, log),
	)

	NewRecipeHandler(deps.Recipes, log).RegisterRoutes(v1)
	NewChefHandler(deps.Chef, deps.ChefLimiter, deps.Metrics, log).RegisterRoutes(v1)
	NewSessionHandler(deps.Users, deps.Subscriptions, log).RegisterRoutes(v1)
	NewSubscriptionHandler(deps.Subscriptions, log).RegisterRoutes(v1)
	NewAnalyticsHandler(deps.Analytics, log).RegisterRoutes(v1)
}
