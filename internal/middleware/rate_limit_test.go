package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pageza/porkchop/backend/internal/testhelpers"
)

func TestChefRateLimiter(t *testing.T) {
	client := testhelpers.SetupRedis(t)
	rl := NewChefRateLimiter(client, 2, zap.NewNop())

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/ask", func(c *gin.Context) {
		c.Set("user_id", "user-1")
		c.Next()
	}, rl.RateLimitMiddleware(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	codes := make([]int, 0, 3)
	var last *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/ask", nil))
		codes = append(codes, w.Code)
		last = w
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
	assert.Equal(t, "2", last.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", last.Header().Get("X-RateLimit-Remaining"))

	remaining, _, err := rl.GetRemainingRequests(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 0, remaining)

	remaining, _, err = rl.GetRemainingRequests(context.Background(), "user-2")
	require.NoError(t, err)
	assert.Equal(t, 2, remaining)
}

func TestRateLimitRequiresUser(t *testing.T) {
	rl := NewChefRateLimiter(nil, 2, zap.NewNop())

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/ask", rl.RateLimitMiddleware(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/ask", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
