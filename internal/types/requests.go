package types

import (
	"bytes"
	"encoding/json"
	"strings"
)

// RegisterRequest represents the request body for email sign-up
type RegisterRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// ChefRecipe is the recipe the user is cooking while asking Chef Freddie
type ChefRecipe struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Ingredients json.RawMessage `json:"ingredients"`
	Steps       []string        `json:"steps"`
	CookTime    string          `json:"cook_time"`
	Servings    json.RawMessage `json:"servings"`
}

// IngredientsText renders the ingredient list as compact JSON
func (r ChefRecipe) IngredientsText() string {
	if len(r.Ingredients) == 0 {
		return ""
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, r.Ingredients); err != nil {
		return string(r.Ingredients)
	}
	return buf.String()
}

// ServingsText renders servings whether the client sent a number or a string
func (r ChefRecipe) ServingsText() string {
	if len(r.Servings) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(r.Servings, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(r.Servings))
}

// ChefRequest represents the request body for a Chef Freddie question
type ChefRequest struct {
	Query  string      `json:"query" binding:"required"`
	Recipe *ChefRecipe `json:"recipe" binding:"required"`
}

// ChefResponse is Chef Freddie's answer plus suggested follow-ups
type ChefResponse struct {
	Response     string   `json:"response"`
	QuickReplies []string `json:"quickReplies"`
}

// MarkNotNewRequest represents the request body for clearing the new-user flag
type MarkNotNewRequest struct {
	UserID string `json:"userId" binding:"required"`
}

// SubscriptionRequest represents the request body for choosing a plan
type SubscriptionRequest struct {
	UserID string `json:"userId" binding:"required"`
	PlanID string `json:"planId" binding:"required"`
}

// RecipeCookedRequest represents the request body for logging a cooked recipe
type RecipeCookedRequest struct {
	UserID   string `json:"user_id" binding:"required"`
	RecipeID string `json:"recipe_id" binding:"required"`
}

// SubscriptionSummary is the plan shape returned when a user never subscribed
type SubscriptionSummary struct {
	UserID   string   `json:"user_id"`
	PlanID   string   `json:"plan_id"`
	Price    float64  `json:"price"`
	Features []string `json:"features"`
	Status   string   `json:"status"`
}
