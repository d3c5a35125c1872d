package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/porkchop/backend/internal/models"
	"github.com/pageza/porkchop/backend/internal/types"
)

// Plan is an entry of the plan catalog
type Plan struct {
	ID       string
	Price    float64
	Features []string
}

var plans = map[string]Plan{
	models.PlanFree: {
		ID:    models.PlanFree,
		Price: 0,
		Features: []string{
			"Basic recipe suggestions",
			"Save up to 5 favorite recipes",
			"Standard ingredients database",
			"Basic meal planning",
		},
	},
	models.PlanPro: {
		ID:    models.PlanPro,
		Price: 7.99,
		Features: []string{
			"Advanced recipe suggestions",
			"Unlimited favorite recipes",
			"Extended ingredients database",
			"Advanced meal planning",
			"Shopping list generation",
			"Nutritional information",
		},
	},
	models.PlanFamily: {
		ID:    models.PlanFamily,
		Price: 12.99,
		Features: []string{
			"Everything in Pro plan",
			"Up to 5 family accounts",
			"Family meal preferences",
			"Shared shopping lists",
			"Cook together mode",
			"Priority chef assistance",
		},
	},
}

// PlanFor returns the catalog entry for planID; unknown plans price as free
func PlanFor(planID string) Plan {
	if p, ok := plans[planID]; ok {
		return p
	}
	return plans[models.PlanFree]
}

// DefaultSubscription is what a user without a subscription row is on
func DefaultSubscription(userID string) types.SubscriptionSummary {
	free := PlanFor(models.PlanFree)
	return types.SubscriptionSummary{
		UserID:   userID,
		PlanID:   free.ID,
		Price:    free.Price,
		Features: append([]string(nil), free.Features...),
		Status:   "active",
	}
}

// SubscriptionService handles plan selection
type SubscriptionService struct {
	db    *gorm.DB
	users *UserService
	log   *zap.Logger
}

// NewSubscriptionService creates a new SubscriptionService instance
func NewSubscriptionService(db *gorm.DB, users *UserService, log *zap.Logger) *SubscriptionService {
	return &SubscriptionService{db: db, users: users, log: log}
}

// GetSubscription retrieves the subscription of a user
func (s *SubscriptionService) GetSubscription(ctx context.Context, userID string) (*models.Subscription, error) {
	var sub models.Subscription
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}
	return &sub, nil
}

// UpsertSubscription moves the user onto planID, creating the subscription row
// on first use. It reports whether a row was created.
func (s *SubscriptionService) UpsertSubscription(ctx context.Context, userID, planID string) (bool, error) {
	if _, err := s.users.GetUser(ctx, userID); err != nil {
		return false, err
	}

	plan := PlanFor(planID)
	now := time.Now()
	created := false

	existing, err := s.GetSubscription(ctx, userID)
	switch {
	case err == nil:
		err = s.db.WithContext(ctx).Model(existing).Updates(map[string]interface{}{
			"plan_id":    planID,
			"price":      plan.Price,
			"features":   models.StringArray(plan.Features),
			"updated_at": now,
		}).Error
		if err != nil {
			return false, fmt.Errorf("failed to update subscription: %w", err)
		}
	case errors.Is(err, ErrSubscriptionNotFound):
		sub := &models.Subscription{
			UserID:    userID,
			PlanID:    planID,
			Price:     plan.Price,
			Features:  models.StringArray(plan.Features),
			Status:    "active",
			StartDate: now,
		}
		if err := s.db.WithContext(ctx).Create(sub).Error; err != nil {
			return false, fmt.Errorf("failed to create subscription: %w", err)
		}
		created = true
	default:
		return false, err
	}

	if err := s.users.UpdatePlan(ctx, userID, planID); err != nil {
		s.log.Warn("user record not updated with subscription info", zap.String("user_id", userID), zap.Error(err))
	}
	return created, nil
}
