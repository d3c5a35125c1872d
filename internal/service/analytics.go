package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/porkchop/backend/internal/models"
)

// DefaultMostCookedLimit is used when the caller gives no usable limit
const DefaultMostCookedLimit = 10

// AnalyticsService records cooked recipes
type AnalyticsService struct {
	db *gorm.DB
}

// NewAnalyticsService creates a new AnalyticsService instance
func NewAnalyticsService(db *gorm.DB) *AnalyticsService {
	return &AnalyticsService{db: db}
}

// LogRecipeCooked stores one cook of recipeID by userID
func (s *AnalyticsService) LogRecipeCooked(ctx context.Context, userID, recipeID string) error {
	if userID == "" || recipeID == "" {
		return ErrMissingFields
	}
	id, err := uuid.Parse(recipeID)
	if err != nil {
		return ErrInvalidRecipeID
	}

	entry := &models.RecipeAnalytics{UserID: userID, RecipeID: id}
	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to log recipe cook: %w", err)
	}
	return nil
}

// MostCooked returns recipes ordered by how often they were cooked
func (s *AnalyticsService) MostCooked(ctx context.Context, limit int) ([]models.RecipeCookCount, error) {
	if limit <= 0 {
		limit = DefaultMostCookedLimit
	}

	var counts []models.RecipeCookCount
	err := s.db.WithContext(ctx).
		Table("recipe_analytics AS ra").
		Select("ra.recipe_id AS recipe_id, r.name AS name, COUNT(*) AS cook_count").
		Joins("JOIN recipes r ON r.id = ra.recipe_id").
		Group("ra.recipe_id, r.name").
		Order("cook_count DESC, r.name ASC").
		Limit(limit).
		Scan(&counts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get most cooked recipes: %w", err)
	}
	return counts, nil
}
