package service

import (
	"context"

	"github.com/pageza/porkchop/backend/internal/matching"
	"github.com/pageza/porkchop/backend/internal/models"
	"github.com/pageza/porkchop/backend/internal/session"
	"github.com/pageza/porkchop/backend/internal/types"
)

// IRecipeService defines the interface for recipe operations
type IRecipeService interface {
	ListRecipes(ctx context.Context) ([]models.Recipe, error)
	MatchRecipes(ctx context.Context, sel matching.Selection) ([]models.MatchedRecipe, error)
}

// IUserService defines the interface for user record operations
type IUserService interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	CreateUser(ctx context.Context, id, email string) (*models.User, error)
	MarkNotNew(ctx context.Context, id string) error
}

// ISubscriptionService defines the interface for plan selection
type ISubscriptionService interface {
	GetSubscription(ctx context.Context, userID string) (*models.Subscription, error)
	UpsertSubscription(ctx context.Context, userID, planID string) (bool, error)
}

// IAnalyticsService defines the interface for cook tracking
type IAnalyticsService interface {
	LogRecipeCooked(ctx context.Context, userID, recipeID string) error
	MostCooked(ctx context.Context, limit int) ([]models.RecipeCookCount, error)
}

// IChefService defines the interface for Chef Freddie answers
type IChefService interface {
	Ask(ctx context.Context, query string, recipe types.ChefRecipe) (*types.ChefResponse, error)
}

// ISignUpService defines the interface for email/password registration
type ISignUpService interface {
	SignUp(ctx context.Context, email, password string) (*AuthUser, error)
}

// IIdentityProvider defines the interface for the OIDC login flow
type IIdentityProvider interface {
	AuthorizeURL(tenant, state, verifier string) string
	Exchange(ctx context.Context, code, verifier string) (*session.TokenSet, error)
	RefreshTokens(ctx context.Context, refreshToken string) (*session.TokenSet, error)
	UserInfo(ctx context.Context, accessToken string) (*UserInfo, error)
	RevokeRefreshToken(ctx context.Context, refreshToken string) error
	LogoutURL(tenant string) string
}

var (
	_ IRecipeService       = (*RecipeService)(nil)
	_ IUserService         = (*UserService)(nil)
	_ ISubscriptionService = (*SubscriptionService)(nil)
	_ IAnalyticsService    = (*AnalyticsService)(nil)
	_ IChefService         = (*ChefService)(nil)
	_ ISignUpService       = (*SupabaseAuthService)(nil)
	_ IIdentityProvider    = (*WristbandService)(nil)
)
