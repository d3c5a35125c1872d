package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/porkchop/backend/internal/models"
	"github.com/pageza/porkchop/backend/internal/service"
	"github.com/pageza/porkchop/backend/internal/types"
)

type AnalyticsHandler struct {
	analytics service.IAnalyticsService
	log       *zap.Logger
}

func NewAnalyticsHandler(analytics service.IAnalyticsService, log *zap.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics, log: log}
}

func (h *AnalyticsHandler) RegisterRoutes(router *gin.RouterGroup) {
	analytics := router.Group("/analytics")
	{
		analytics.POST("/recipe-cooked", h.RecipeCooked)
		analytics.GET("/most-cooked", h.MostCooked)
	}
}

func (h *AnalyticsHandler) RecipeCooked(c *gin.Context) {
	var req types.RecipeCookedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}

	err := h.analytics.LogRecipeCooked(c.Request.Context(), req.UserID, req.RecipeID)
	if errors.Is(err, service.ErrMissingFields) || errors.Is(err, service.ErrInvalidRecipeID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		h.log.Error("error logging recipe cook", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true})
}

func (h *AnalyticsHandler) MostCooked(c *gin.Context) {
	limit := leadingInt(c.Query("limit"))
	if limit <= 0 {
		limit = service.DefaultMostCookedLimit
	}

	counts, err := h.analytics.MostCooked(c.Request.Context(), limit)
	if err != nil {
		h.log.Error("error getting most cooked recipes", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if counts == nil {
		counts = []models.RecipeCookCount{}
	}
	c.JSON(http.StatusOK, counts)
}

// leadingInt reads the integer at the start of s, so "5abc" is 5. It returns 0
// when s does not start with a number.
func leadingInt(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}
