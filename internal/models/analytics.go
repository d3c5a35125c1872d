package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RecipeAnalytics records one cooking of a recipe by a user
type RecipeAnalytics struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID   string    `gorm:"type:text;not null;index" json:"user_id"`
	RecipeID uuid.UUID `gorm:"type:uuid;not null;index" json:"recipe_id"`
	CookedAt time.Time `gorm:"not null" json:"cooked_at"`
}

func (RecipeAnalytics) TableName() string {
	return "recipe_analytics"
}

// BeforeCreate assigns an id and cook time when the caller did not
func (a *RecipeAnalytics) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.CookedAt.IsZero() {
		a.CookedAt = time.Now()
	}
	return nil
}

// RecipeCookCount is one row of the most-cooked report
type RecipeCookCount struct {
	RecipeID  uuid.UUID `json:"recipe_id"`
	Name      string    `json:"name"`
	CookCount int64     `json:"cook_count"`
}
