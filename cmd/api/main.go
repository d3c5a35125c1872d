package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/pageza/porkchop/backend/config"
	"github.com/pageza/porkchop/backend/internal/api"
	"github.com/pageza/porkchop/backend/internal/database"
	"github.com/pageza/porkchop/backend/internal/logger"
	"github.com/pageza/porkchop/backend/internal/middleware"
	"github.com/pageza/porkchop/backend/internal/router"
	"github.com/pageza/porkchop/backend/internal/server"
	"github.com/pageza/porkchop/backend/internal/service"
	"github.com/pageza/porkchop/backend/internal/session"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		Development: cfg.Environment == config.Development,
	})
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = zapLogger.Sync() }()

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := run(cfg, zapLogger); err != nil {
		zapLogger.Fatal("server error", zap.Error(err))
	}
}

func run(cfg *config.Config, zapLogger *zap.Logger) error {
	ctx := context.Background()

	db, err := database.New(cfg, zapLogger)
	if err != nil {
		return err
	}

	// Redis is optional; without it sessions live in memory and the chef
	// endpoint is not rate limited
	var (
		store   session.Store
		limiter *middleware.RateLimiter
	)
	redisClient, err := database.NewRedisClient(cfg, zapLogger)
	switch {
	case err == nil:
		defer redisClient.Close()
		store = session.NewRedisStore(redisClient)
		limiter = middleware.NewChefRateLimiter(redisClient, cfg.ChefRateLimitPerHour, zapLogger)
	case errors.Is(err, database.ErrRedisNotConfigured):
		zapLogger.Info("redis not configured, using in-memory sessions")
		store = session.NewMemoryStore()
	default:
		zapLogger.Warn("redis unavailable, using in-memory sessions", zap.Error(err))
		store = session.NewMemoryStore()
	}

	var images service.ImageSigner
	s3cfg, err := config.NewS3Config(ctx, cfg)
	if err != nil {
		zapLogger.Warn("recipe image storage unavailable", zap.Error(err))
	} else if s3cfg != nil {
		images = s3cfg
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := middleware.NewMetrics(reg)

	users := service.NewUserService(db)
	identity := service.NewWristbandService(service.WristbandConfig{
		ApplicationDomain: cfg.WristbandDomain,
		ClientID:          cfg.WristbandClientID,
		ClientSecret:      cfg.WristbandClientSecret,
		CallbackURL:       cfg.CallbackURL,
	})

	handler := router.SetupRouter(cfg.AppDomainURL, api.Dependencies{
		Sessions:      session.NewManager(store, cfg.SessionSecret, cfg.SessionMaxAge, cfg.SecureCookies()),
		Identity:      identity,
		SignUp:        service.NewSupabaseAuthService(cfg.SupabaseURL, cfg.SupabaseKey),
		Users:         users,
		Subscriptions: service.NewSubscriptionService(db, users, zapLogger),
		Recipes:       service.NewRecipeService(db, images, zapLogger),
		Analytics:     service.NewAnalyticsService(db),
		Chef: service.NewChefService(service.ChefConfig{
			APIKey:    cfg.ClaudeAPIKey,
			APIURL:    cfg.ClaudeAPIURL,
			Model:     cfg.ClaudeModel,
			MaxTokens: cfg.ClaudeMaxTokens,
		}),
		ChefLimiter: limiter,
		Metrics:     metrics,
		Gatherer:    reg,
		Auth: api.AuthConfig{
			AppDomainURL:        cfg.AppDomainURL,
			LoginURL:            cfg.LoginURL,
			DefaultTenant:       cfg.DefaultTenant,
			UseTenantSubdomains: cfg.UseTenantSubdomains,
		},
		Logger: zapLogger,
	})

	srv := server.New(cfg, handler, zapLogger)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			return err
		}
	case sig := <-quit:
		zapLogger.Info("received signal", zap.String("signal", sig.String()))
	}

	zapLogger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	zapLogger.Info("server stopped")
	return nil
}
