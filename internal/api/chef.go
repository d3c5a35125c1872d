package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/porkchop/backend/internal/middleware"
	"github.com/pageza/porkchop/backend/internal/service"
	"github.com/pageza/porkchop/backend/internal/types"
)

// ChefHandler answers Chef Freddie questions
type ChefHandler struct {
	chef    service.IChefService
	limiter *middleware.RateLimiter
	metrics *middleware.Metrics
	log     *zap.Logger
}

// NewChefHandler creates a ChefHandler. A nil limiter disables rate limiting.
func NewChefHandler(chef service.IChefService, limiter *middleware.RateLimiter, metrics *middleware.Metrics, log *zap.Logger) *ChefHandler {
	return &ChefHandler{chef: chef, limiter: limiter, metrics: metrics, log: log}
}

func (h *ChefHandler) RegisterRoutes(router *gin.RouterGroup) {
	if h.limiter != nil {
		router.POST("/chef-freddie/ask", h.limiter.RateLimitMiddleware(), h.Ask)
		router.GET("/rate-limits/chef-freddie", h.RateLimitStatus)
		return
	}
	router.POST("/chef-freddie/ask", h.Ask)
}

func (h *ChefHandler) Ask(c *gin.Context) {
	var req types.ChefRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}

	resp, err := h.chef.Ask(c.Request.Context(), req.Query, *req.Recipe)
	if err != nil {
		h.metrics.ChefCall("error")
		h.log.Error("error with Claude", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":        service.ChefStumpedMessage,
			"quickReplies": service.FallbackQuickReplies(),
		})
		return
	}

	h.metrics.ChefCall("ok")
	c.JSON(http.StatusOK, resp)
}

// RateLimitStatus reports how many questions the user has left this hour
func (h *ChefHandler) RateLimitStatus(c *gin.Context) {
	userID := c.GetString("user_id")
	remaining, reset, err := h.limiter.GetRemainingRequests(c.Request.Context(), userID)
	if err != nil {
		h.log.Error("failed to read rate limit", zap.String("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get rate limit status"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"limit":     h.limiter.Limit(),
		"remaining": remaining,
		"reset":     reset.Unix(),
	})
}
