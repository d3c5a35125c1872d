package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/porkchop/backend/internal/session"
)

// refreshWindow is how close to expiry an access token gets refreshed
const refreshWindow = time.Minute

// TokenRefresher exchanges a refresh token for a new token set
type TokenRefresher interface {
	RefreshTokens(ctx context.Context, refreshToken string) (*session.TokenSet, error)
}

// RequireSession loads the session cookie, refreshes tokens close to expiry and
// extends the session on every request
func RequireSession(manager *session.Manager, refresher TokenRefresher, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, err := manager.Load(c)
		if err != nil || !s.IsAuthenticated {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		if s.RefreshToken != "" && refresher != nil && s.ExpiresWithin(time.Now(), refreshWindow) {
			tokens, err := refresher.RefreshTokens(c.Request.Context(), s.RefreshToken)
			if err != nil {
				log.Warn("token refresh failed", zap.String("user_id", s.UserID), zap.Error(err))
				c.AbortWithStatus(http.StatusUnauthorized)
				return
			}
			s.Apply(tokens)
		}

		// rolling session
		if err := manager.Save(c, s); err != nil {
			log.Error("failed to extend session", zap.Error(err))
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		session.SetContext(c, s)
		c.Set("user_id", s.UserID)
		c.Next()
	}
}
