package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/porkchop/backend/internal/matching"
	"github.com/pageza/porkchop/backend/internal/models"
)

// RecipeService handles recipe listing and matching
type RecipeService struct {
	db     *gorm.DB
	images ImageSigner
	log    *zap.Logger
}

// NewRecipeService creates a new RecipeService instance. images may be nil
// when no storage bucket is configured.
func NewRecipeService(db *gorm.DB, images ImageSigner, log *zap.Logger) *RecipeService {
	return &RecipeService{db: db, images: images, log: log}
}

// ListRecipes returns every recipe in store order
func (s *RecipeService) ListRecipes(ctx context.Context) ([]models.Recipe, error) {
	var recipes []models.Recipe
	if err := s.db.WithContext(ctx).Find(&recipes).Error; err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	s.signImages(ctx, recipes)
	return recipes, nil
}

// MatchRecipes scores every recipe against the selection and returns the ones
// above the match threshold, best first
func (s *RecipeService) MatchRecipes(ctx context.Context, sel matching.Selection) ([]models.MatchedRecipe, error) {
	recipes, err := s.ListRecipes(ctx)
	if err != nil {
		return nil, err
	}

	ranked := matching.Rank(recipes, models.Recipe.MatchTags, sel)
	matched := make([]models.MatchedRecipe, 0, len(ranked))
	for _, r := range ranked {
		matched = append(matched, models.MatchedRecipe{Recipe: r.Item, Match: r.Score})
	}
	return matched, nil
}

func (s *RecipeService) signImages(ctx context.Context, recipes []models.Recipe) {
	if s.images == nil {
		return
	}
	for i := range recipes {
		if !isStorageKey(recipes[i].Image) {
			continue
		}
		signed, err := s.images.PresignURL(ctx, recipes[i].Image)
		if err != nil {
			s.log.Warn("failed to presign recipe image", zap.String("key", recipes[i].Image), zap.Error(err))
			continue
		}
		recipes[i].Image = signed
	}
}

// SeedRecipes inserts the recipes whose name is not in the store yet and
// returns how many were added
func (s *RecipeService) SeedRecipes(ctx context.Context, recipes []models.Recipe) (int, error) {
	added := 0
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range recipes {
			var count int64
			if err := tx.Model(&models.Recipe{}).Where("name = ?", recipes[i].Name).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				s.log.Debug("recipe already seeded", zap.String("name", recipes[i].Name))
				continue
			}
			if err := tx.Create(&recipes[i]).Error; err != nil {
				return err
			}
			added++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to seed recipes: %w", err)
	}
	return added, nil
}
