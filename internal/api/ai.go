package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"recipebook/internal/recipe"
)

type suggestRequest struct {
	Ingredients string `json:"ingredients"`
	Language    string `json:"language"`
}

// SuggestRecipe handles POST /ai-suggest. The path is stateless and never
// touches the storage layer; every failure carries a user-facing fallback
// suggestion alongside a machine-readable error code.
func (h *Handler) SuggestRecipe(c *gin.Context) {
	var req suggestRequest
	_ = c.ShouldBindJSON(&req)

	ingredients := strings.TrimSpace(req.Ingredients)
	if ingredients == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":      "Ingredients are required",
			"suggestion": "Please provide some ingredients to generate a recipe suggestion.",
		})
		return
	}

	if h.ai == nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":      "API key not configured",
			"suggestion": "Please configure your Google Gemini API key in the environment variables.",
		})
		return
	}

	language := req.Language
	if language == "" {
		language = "en"
	}

	suggestion, err := h.ai.SuggestRecipe(c.Request.Context(), ingredients, language)
	if err != nil {
		h.logger.Error("ai suggestion failed", zap.String("language", language), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":      "AI request failed",
			"suggestion": "Sorry, there was an error connecting to the AI service. Please try again later.",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"suggestion": suggestion,
		"metadata": gin.H{
			"is_ai_generated": true,
			"source":          recipe.SourceGemini,
			"generated_at":    time.Now().UTC().Format(time.RFC3339),
		},
	})
}
