package database

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/pageza/porkchop/backend/config"
)

// ErrRedisNotConfigured is returned when neither REDIS_URL nor REDIS_HOST is set
var ErrRedisNotConfigured = fmt.Errorf("redis is not configured")

// NewRedisClient creates a new Redis client
func NewRedisClient(cfg *config.Config, log *zap.Logger) (*redis.Client, error) {
	var opts *redis.Options
	switch {
	case cfg.RedisURL != "":
		parsed, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
		}
		opts = parsed
	case cfg.RedisHost != "":
		port := cfg.RedisPort
		if port == "" {
			port = "6379"
		}
		opts = &redis.Options{
			Addr:     fmt.Sprintf("%s:%s", cfg.RedisHost, port),
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}
	default:
		return nil, ErrRedisNotConfigured
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	log.Info("successfully connected to Redis", zap.String("addr", opts.Addr))
	return client, nil
}
