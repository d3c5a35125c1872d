package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/pageza/porkchop/backend/config"
	"github.com/pageza/porkchop/backend/internal/database"
	"github.com/pageza/porkchop/backend/internal/logger"
	"github.com/pageza/porkchop/backend/internal/models"
	"github.com/pageza/porkchop/backend/internal/service"
)

func main() {
	file := flag.String("file", "seed/recipes.json", "JSON file with the recipes to seed")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{Level: cfg.LogLevel, Format: "console"})
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = zapLogger.Sync() }()

	raw, err := os.ReadFile(*file)
	if err != nil {
		zapLogger.Fatal("failed to read seed file", zap.String("file", *file), zap.Error(err))
	}
	var recipes []models.Recipe
	if err := json.Unmarshal(raw, &recipes); err != nil {
		zapLogger.Fatal("failed to parse seed file", zap.String("file", *file), zap.Error(err))
	}

	db, err := database.New(cfg, zapLogger)
	if err != nil {
		zapLogger.Fatal("failed to connect to database", zap.Error(err))
	}

	added, err := service.NewRecipeService(db, nil, zapLogger).SeedRecipes(context.Background(), recipes)
	if err != nil {
		zapLogger.Fatal("failed to seed recipes", zap.Error(err))
	}
	zapLogger.Info("seeded recipes", zap.Int("added", added), zap.Int("total", len(recipes)))
}
