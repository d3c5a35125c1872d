package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/porkchop/backend/internal/matching"
)

// Recipe is a dish record with the tag lists used for matching
type Recipe struct {
	ID               uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	Name             string      `gorm:"size:255;not null" json:"name"`
	Description      string      `gorm:"type:text" json:"description"`
	Image            string      `gorm:"size:512" json:"image"`
	Ingredients      StringArray `gorm:"type:jsonb;not null;default:'[]'" json:"ingredients"`
	Steps            StringArray `gorm:"type:jsonb;not null;default:'[]'" json:"steps"`
	CookTime         string      `gorm:"size:50" json:"cook_time"`
	Servings         int         `json:"servings"`
	ProteinTags      StringArray `gorm:"type:jsonb;not null;default:'[]'" json:"protein_tags"`
	VeggieTags       StringArray `gorm:"type:jsonb;not null;default:'[]'" json:"veggie_tags"`
	HerbTags         StringArray `gorm:"type:jsonb;not null;default:'[]'" json:"herb_tags"`
	RequiredCookware StringArray `gorm:"type:jsonb;not null;default:'[]'" json:"required_cookware"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

func (Recipe) TableName() string {
	return "recipes"
}

// BeforeCreate assigns an id when the caller did not
func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// MatchTags returns the recipe's tag lists in the shape the scorer expects
func (r Recipe) MatchTags() matching.Tags {
	return matching.Tags{
		Proteins: r.ProteinTags,
		Veggies:  r.VeggieTags,
		Herbs:    r.HerbTags,
		Cookware: r.RequiredCookware,
	}
}

// MatchedRecipe is a recipe annotated with its match percentage
type MatchedRecipe struct {
	Recipe
	Match int `json:"match"`
}
