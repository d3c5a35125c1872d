package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/porkchop/backend/internal/models"
	"github.com/pageza/porkchop/backend/internal/service"
	"github.com/pageza/porkchop/backend/internal/session"
	"github.com/pageza/porkchop/backend/internal/types"
)

type SessionHandler struct {
	users service.IUserService
	subs  service.ISubscriptionService
	log   *zap.Logger
}

func NewSessionHandler(users service.IUserService, subs service.ISubscriptionService, log *zap.Logger) *SessionHandler {
	return &SessionHandler{users: users, subs: subs, log: log}
}

func (h *SessionHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/session", h.GetSession)
	router.POST("/session/mark-not-new", h.MarkNotNew)
}

// GetSession describes the logged in user for the browser app
func (h *SessionHandler) GetSession(c *gin.Context) {
	noCache(c)

	s, ok := session.FromContext(c)
	if !ok || !s.IsAuthenticated || s.UserID == "" {
		c.JSON(http.StatusOK, gin.H{"isAuthenticated": false})
		return
	}

	ctx := c.Request.Context()
	user, err := h.users.GetUser(ctx, s.UserID)
	if err != nil {
		h.log.Error("error fetching user data", zap.String("user_id", s.UserID), zap.Error(err))
		c.JSON(http.StatusOK, gin.H{
			"isAuthenticated": s.IsAuthenticated,
			"tenantId":        s.TenantID,
			"userId":          s.UserID,
			"subscription":    models.PlanFree,
			"isNewUser":       false,
		})
		return
	}

	var details *models.Subscription
	sub, err := h.subs.GetSubscription(ctx, s.UserID)
	switch {
	case err == nil:
		details = sub
	case !errors.Is(err, service.ErrSubscriptionNotFound):
		h.log.Warn("error fetching subscription", zap.String("user_id", s.UserID), zap.Error(err))
	}

	plan := user.SubscriptionPlan
	if plan == "" {
		plan = models.PlanFree
	}

	c.JSON(http.StatusOK, gin.H{
		"isAuthenticated":     s.IsAuthenticated,
		"tenantId":            s.TenantID,
		"userId":              s.UserID,
		"email":               user.Email,
		"subscription":        plan,
		"isNewUser":           user.IsNewUser,
		"subscriptionDetails": details,
	})
}

func (h *SessionHandler) MarkNotNew(c *gin.Context) {
	var req types.MarkNotNewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing user ID"})
		return
	}

	if err := h.users.MarkNotNew(c.Request.Context(), req.UserID); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
