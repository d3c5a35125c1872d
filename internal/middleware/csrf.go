package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/porkchop/backend/internal/session"
)

// RequireCSRF checks the X-XSRF-TOKEN header against the session secret and
// rotates the token cookie on success. Must run after RequireSession.
func RequireCSRF(manager *session.Manager, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := session.FromContext(c)
		if !ok || !session.VerifyCSRFToken(s.CSRFSecret, c.GetHeader(session.CSRFHeaderName)) {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}

		if err := manager.IssueCSRFCookie(c, s); err != nil {
			log.Error("failed to issue csrf cookie", zap.Error(err))
		}
		c.Next()
	}
}
