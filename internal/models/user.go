package models

import (
	"time"
)

// Plan identifiers stored on users and subscriptions
const (
	PlanFree   = "free"
	PlanPro    = "pro"
	PlanFamily = "family"
)

// User is the application's user record. The id is the identity provider
// subject (Wristband) or the Supabase auth user id for direct registrations.
type User struct {
	ID               string    `gorm:"type:text;primaryKey" json:"id"`
	Email            string    `gorm:"size:255;index" json:"email"`
	SubscriptionPlan string    `gorm:"size:50;not null" json:"subscription_plan"`
	IsNewUser        bool      `gorm:"not null" json:"is_new_user"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
