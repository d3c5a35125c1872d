package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/porkchop/backend/internal/matching"
	"github.com/pageza/porkchop/backend/internal/models"
	"github.com/pageza/porkchop/backend/internal/service"
)

type RecipeHandler struct {
	recipes service.IRecipeService
	log     *zap.Logger
}

func NewRecipeHandler(recipes service.IRecipeService, log *zap.Logger) *RecipeHandler {
	return &RecipeHandler{recipes: recipes, log: log}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes")
	{
		recipes.GET("", h.ListRecipes)
		recipes.GET("/match", h.MatchRecipes)
	}
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	recipes, err := h.recipes.ListRecipes(c.Request.Context())
	if err != nil {
		h.log.Error("error fetching recipes", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if recipes == nil {
		recipes = []models.Recipe{}
	}
	c.JSON(http.StatusOK, recipes)
}

// MatchRecipes scores recipes against ?proteins=&veggies=&herbs=&cookware=
func (h *RecipeHandler) MatchRecipes(c *gin.Context) {
	sel := matching.Selection{
		Proteins: matching.ParseList(c.Query("proteins")),
		Veggies:  matching.ParseList(c.Query("veggies")),
		Herbs:    matching.ParseList(c.Query("herbs")),
		Cookware: matching.ParseList(c.Query("cookware")),
	}

	matched, err := h.recipes.MatchRecipes(c.Request.Context(), sel)
	if err != nil {
		h.log.Error("error matching recipes", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, matched)
}
