package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"recipebook/internal/recipe"
	"recipebook/internal/storage"
)

// Suggester defines the interface for the AI suggestion client.
type Suggester interface {
	SuggestRecipe(ctx context.Context, ingredients, language string) (string, error)
}

// Handler handles HTTP requests. The storage backend and the AI client are
// injected at startup; a nil Suggester means no API key is configured.
type Handler struct {
	store  storage.Store
	ai     Suggester
	logger *zap.Logger
}

// NewHandler creates a new Handler.
func NewHandler(store storage.Store, ai Suggester, logger *zap.Logger) *Handler {
	return &Handler{store: store, ai: ai, logger: logger}
}

// RegisterRoutes attaches the recipe and AI routes to the router.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.POST("/recipes", h.CreateRecipe)
	r.GET("/recipes", h.GetRecipes)
	r.GET("/recipes/:id", h.GetRecipe)
	r.PUT("/recipes/:id", h.UpdateRecipe)
	r.DELETE("/recipes/:id", h.DeleteRecipe)
	r.POST("/ai-suggest", h.SuggestRecipe)
}

// recipePayload is the request body for create and update. The numeric and
// boolean fields are declared loosely so junk values can be coerced the way
// the API has always behaved instead of failing the bind.
type recipePayload struct {
	Title         string   `json:"title"`
	Instructions  string   `json:"instructions"`
	Ingredients   string   `json:"ingredients"`
	IsAIGenerated any      `json:"is_ai_generated"`
	Source        *string  `json:"source"`
	Tags          []string `json:"tags"`
	Difficulty    *string  `json:"difficulty"`
	PrepTime      any      `json:"prep_time"`
	CookTime      any      `json:"cook_time"`
	Servings      any      `json:"servings"`
}

// asBool coerces a JSON value to a boolean by truthiness.
func asBool(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case float64:
		return t != 0
	default:
		return true
	}
}

// asInt coerces a JSON value to an integer. Non-numeric values collapse to
// def; values below min clamp to min.
func asInt(v any, def, min int) int {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return def
		}
		f = parsed
	default:
		return def
	}
	if n := int(f); n >= min {
		return n
	}
	return min
}

// CreateRecipe handles POST /recipes.
func (h *Handler) CreateRecipe(c *gin.Context) {
	var p recipePayload
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	title := strings.TrimSpace(p.Title)
	instructions := strings.TrimSpace(p.Instructions)
	if title == "" || instructions == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title and instructions are required"})
		return
	}

	d := &recipe.Draft{
		Title:         title,
		Instructions:  instructions,
		Ingredients:   strings.TrimSpace(p.Ingredients),
		IsAIGenerated: asBool(p.IsAIGenerated),
		Source:        recipe.SourceManual,
		Tags:          []string{},
		Difficulty:    recipe.DifficultyEasy,
		PrepTime:      asInt(p.PrepTime, 0, 0),
		CookTime:      asInt(p.CookTime, 0, 0),
		Servings:      asInt(p.Servings, 1, 1),
	}
	if p.Source != nil {
		d.Source = strings.TrimSpace(*p.Source)
	}
	if p.Tags != nil {
		d.Tags = p.Tags
	}
	if p.Difficulty != nil {
		d.Difficulty = strings.TrimSpace(*p.Difficulty)
	}

	created, err := h.store.CreateRecipe(c.Request.Context(), d)
	if err != nil {
		h.logger.Error("create recipe failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create recipe"})
		return
	}
	c.JSON(http.StatusOK, created)
}

// GetRecipes handles GET /recipes.
func (h *Handler) GetRecipes(c *gin.Context) {
	recipes, err := h.store.GetAllRecipes(c.Request.Context())
	if err != nil {
		h.logger.Error("load recipes failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load recipes"})
		return
	}
	if recipes == nil {
		recipes = []*recipe.Recipe{}
	}
	c.JSON(http.StatusOK, recipes)
}

// GetRecipe handles GET /recipes/:id.
func (h *Handler) GetRecipe(c *gin.Context) {
	r, err := h.store.GetRecipeByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.logger.Error("load recipe failed", zap.String("id", c.Param("id")), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load recipe"})
		return
	}
	if r == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Recipe not found"})
		return
	}
	c.JSON(http.StatusOK, r)
}

// UpdateRecipe handles PUT /recipes/:id. Title and instructions are required
// on every update; title, instructions and ingredients are always rewritten,
// and the remaining fields are merged only when present in the payload.
func (h *Handler) UpdateRecipe(c *gin.Context) {
	var p recipePayload
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	title := strings.TrimSpace(p.Title)
	instructions := strings.TrimSpace(p.Instructions)
	if title == "" || instructions == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title and instructions are required"})
		return
	}

	u := &recipe.Update{
		Title:        title,
		Instructions: instructions,
		Ingredients:  strings.TrimSpace(p.Ingredients),
	}
	if p.IsAIGenerated != nil {
		b := asBool(p.IsAIGenerated)
		u.IsAIGenerated = &b
	}
	if p.Source != nil {
		s := strings.TrimSpace(*p.Source)
		u.Source = &s
	}
	if p.Tags != nil {
		u.Tags = p.Tags
	}
	if p.Difficulty != nil {
		d := strings.TrimSpace(*p.Difficulty)
		u.Difficulty = &d
	}
	if p.PrepTime != nil {
		n := asInt(p.PrepTime, 0, 0)
		u.PrepTime = &n
	}
	if p.CookTime != nil {
		n := asInt(p.CookTime, 0, 0)
		u.CookTime = &n
	}
	if p.Servings != nil {
		n := asInt(p.Servings, 1, 1)
		u.Servings = &n
	}

	updated, err := h.store.UpdateRecipe(c.Request.Context(), c.Param("id"), u)
	if err != nil {
		h.logger.Error("update recipe failed", zap.String("id", c.Param("id")), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update recipe"})
		return
	}
	if updated == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Recipe not found"})
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteRecipe handles DELETE /recipes/:id.
func (h *Handler) DeleteRecipe(c *gin.Context) {
	deleted, err := h.store.DeleteRecipe(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.logger.Error("delete recipe failed", zap.String("id", c.Param("id")), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete recipe"})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "Recipe not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Recipe deleted successfully"})
}
