package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Subscription is a user's current plan. Each user has at most one.
type Subscription struct {
	ID        uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    string      `gorm:"type:text;not null;uniqueIndex" json:"user_id"`
	PlanID    string      `gorm:"size:50;not null" json:"plan_id"`
	Price     float64     `gorm:"not null" json:"price"`
	Features  StringArray `gorm:"type:jsonb;not null;default:'[]'" json:"features"`
	Status    string      `gorm:"size:50;not null" json:"status"`
	StartDate time.Time   `json:"start_date"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}

// BeforeCreate assigns an id when the caller did not
func (s *Subscription) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
