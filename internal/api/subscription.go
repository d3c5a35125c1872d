package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/porkchop/backend/internal/service"
	"github.com/pageza/porkchop/backend/internal/types"
)

type SubscriptionHandler struct {
	subs service.ISubscriptionService
	log  *zap.Logger
}

func NewSubscriptionHandler(subs service.ISubscriptionService, log *zap.Logger) *SubscriptionHandler {
	return &SubscriptionHandler{subs: subs, log: log}
}

func (h *SubscriptionHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/subscription", h.Upsert)
	router.GET("/subscription/:userId", h.Get)
}

// Upsert creates or updates the user's subscription
func (h *SubscriptionHandler) Upsert(c *gin.Context) {
	var req types.SubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}

	created, err := h.subs.UpsertSubscription(c.Request.Context(), req.UserID, req.PlanID)
	if errors.Is(err, service.ErrUserNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if err != nil {
		h.log.Error("error handling subscription", zap.String("user_id", req.UserID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	msg := "Subscription updated successfully"
	if created {
		msg = "Subscription created successfully"
	}
	c.JSON(http.StatusOK, gin.H{"message": msg})
}

// Get returns the user's subscription, or the free plan when there is none
func (h *SubscriptionHandler) Get(c *gin.Context) {
	userID := c.Param("userId")

	sub, err := h.subs.GetSubscription(c.Request.Context(), userID)
	if errors.Is(err, service.ErrSubscriptionNotFound) {
		c.JSON(http.StatusOK, service.DefaultSubscription(userID))
		return
	}
	if err != nil {
		h.log.Error("error fetching subscription", zap.String("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, sub)
}
