package service

import "errors"

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrMissingFields        = errors.New("missing required fields")
	ErrInvalidRecipeID      = errors.New("invalid recipe id")
)
