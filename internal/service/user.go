package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/pageza/porkchop/backend/internal/models"
)

// UserService handles the users table
type UserService struct {
	db *gorm.DB
}

// NewUserService creates a new UserService instance
func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// GetUser retrieves a user by ID
func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// FindByEmail retrieves a user by email address
func (s *UserService) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}

// CreateUser inserts a new user on the free plan, flagged as new
func (s *UserService) CreateUser(ctx context.Context, id, email string) (*models.User, error) {
	user := &models.User{
		ID:               id,
		Email:            email,
		SubscriptionPlan: models.PlanFree,
		IsNewUser:        true,
	}
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// MarkNotNew clears the new-user flag
func (s *UserService) MarkNotNew(ctx context.Context, id string) error {
	err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"is_new_user": false, "updated_at": time.Now()}).Error
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

// UpdatePlan records the user's current subscription plan
func (s *UserService) UpdatePlan(ctx context.Context, id, planID string) error {
	err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"subscription_plan": planID, "updated_at": time.Now()}).Error
	if err != nil {
		return fmt.Errorf("failed to update user plan: %w", err)
	}
	return nil
}
