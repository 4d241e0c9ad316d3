package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"recipebook/internal/recipe"
)

// mockStore is an in-memory Store with file-backend id semantics and
// injectable failures.
type mockStore struct {
	recipes []*recipe.Recipe
	nextID  int64

	getAllErr error
	getErr    error
	createErr error
	updateErr error
	deleteErr error

	createCalls int
}

func newMockStore() *mockStore {
	return &mockStore{nextID: 1}
}

func (m *mockStore) GetAllRecipes(ctx context.Context) ([]*recipe.Recipe, error) {
	if m.getAllErr != nil {
		return nil, m.getAllErr
	}
	out := make([]*recipe.Recipe, 0, len(m.recipes))
	for i := len(m.recipes) - 1; i >= 0; i-- {
		out = append(out, m.recipes[i])
	}
	return out, nil
}

func (m *mockStore) GetRecipeByID(ctx context.Context, id string) (*recipe.Recipe, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return nil, nil
	}
	for _, r := range m.recipes {
		if r.ID.Int64() == n {
			return r, nil
		}
	}
	return nil, nil
}

func (m *mockStore) CreateRecipe(ctx context.Context, d *recipe.Draft) (*recipe.Recipe, error) {
	m.createCalls++
	if m.createErr != nil {
		return nil, m.createErr
	}
	now := time.Now().UTC()
	r := &recipe.Recipe{
		ID:            recipe.NumericID(m.nextID),
		Title:         d.Title,
		Instructions:  d.Instructions,
		Ingredients:   d.Ingredients,
		IsAIGenerated: d.IsAIGenerated,
		Source:        d.Source,
		Tags:          d.Tags,
		Difficulty:    d.Difficulty,
		PrepTime:      d.PrepTime,
		CookTime:      d.CookTime,
		Servings:      d.Servings,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	m.nextID++
	m.recipes = append(m.recipes, r)
	return r, nil
}

func (m *mockStore) UpdateRecipe(ctx context.Context, id string, u *recipe.Update) (*recipe.Recipe, error) {
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	r, _ := m.GetRecipeByID(ctx, id)
	if r == nil {
		return nil, nil
	}
	u.Apply(r)
	r.UpdatedAt = r.UpdatedAt.Add(time.Millisecond)
	return r, nil
}

func (m *mockStore) DeleteRecipe(ctx context.Context, id string) (bool, error) {
	if m.deleteErr != nil {
		return false, m.deleteErr
	}
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return false, nil
	}
	for i, r := range m.recipes {
		if r.ID.Int64() == n {
			m.recipes = append(m.recipes[:i], m.recipes[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// mockSuggester is a mock of the AI suggestion client.
type mockSuggester struct {
	suggestion string
	err        error

	gotIngredients string
	gotLanguage    string
}

func (m *mockSuggester) SuggestRecipe(ctx context.Context, ingredients, language string) (string, error) {
	m.gotIngredients = ingredients
	m.gotLanguage = language
	if m.err != nil {
		return "", m.err
	}
	return m.suggestion, nil
}

func setupRouter(store *mockStore, ai Suggester) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(store, ai, zap.NewNop()).RegisterRoutes(r)
	return r
}

func doJSON(r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestCreateRecipe(t *testing.T) {
	r := setupRouter(newMockStore(), nil)

	w := doJSON(r, http.MethodPost, "/recipes", gin.H{"title": "Soup", "instructions": "Boil it"})
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, float64(1), body["id"])
	assert.Equal(t, "Soup", body["title"])
	assert.Equal(t, "Boil it", body["instructions"])
	assert.Equal(t, false, body["is_ai_generated"])
	assert.Equal(t, "manual", body["source"])
	assert.Equal(t, "easy", body["difficulty"])
	assert.Equal(t, float64(1), body["servings"])
	assert.Equal(t, body["created_at"], body["updated_at"])
}

func TestCreateRecipeTrimsFields(t *testing.T) {
	r := setupRouter(newMockStore(), nil)

	w := doJSON(r, http.MethodPost, "/recipes", gin.H{
		"title":        "  Soup \n",
		"instructions": " Boil it ",
		"ingredients":  "  water  ",
	})
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "Soup", body["title"])
	assert.Equal(t, "Boil it", body["instructions"])
	assert.Equal(t, "water", body["ingredients"])
}

func TestCreateRecipeMissingRequiredFields(t *testing.T) {
	store := newMockStore()
	r := setupRouter(store, nil)

	for _, payload := range []gin.H{
		{"instructions": "Boil it"},
		{"title": "Soup"},
		{"title": "   ", "instructions": "Boil it"},
		{"title": "Soup", "instructions": " \t "},
	} {
		w := doJSON(r, http.MethodPost, "/recipes", payload)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Title and instructions are required", decodeBody(t, w)["error"])
	}
	// Validation failures never reach the store.
	assert.Zero(t, store.createCalls)
}

func TestCreateRecipeCoercesLooseFields(t *testing.T) {
	r := setupRouter(newMockStore(), nil)

	w := doJSON(r, http.MethodPost, "/recipes", gin.H{
		"title":           "Soup",
		"instructions":    "Boil it",
		"prep_time":       "abc",
		"cook_time":       -10,
		"servings":        0,
		"is_ai_generated": "yes",
	})
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, float64(0), body["prep_time"])
	assert.Equal(t, float64(0), body["cook_time"])
	assert.Equal(t, float64(1), body["servings"])
	assert.Equal(t, true, body["is_ai_generated"])
}

func TestCreateRecipeStorageError(t *testing.T) {
	store := newMockStore()
	store.createErr = errors.New("disk full")
	r := setupRouter(store, nil)

	w := doJSON(r, http.MethodPost, "/recipes", gin.H{"title": "Soup", "instructions": "Boil it"})
	require.Equal(t, http.StatusInternalServerError, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "Failed to create recipe", body["error"])
	// Internal details stay out of the response.
	assert.NotContains(t, w.Body.String(), "disk full")
}

func TestGetRecipesNewestFirst(t *testing.T) {
	store := newMockStore()
	r := setupRouter(store, nil)

	for _, title := range []string{"first", "second", "third"} {
		w := doJSON(r, http.MethodPost, "/recipes", gin.H{"title": title, "instructions": "x"})
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := doJSON(r, http.MethodGet, "/recipes", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var recipes []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &recipes))
	require.Len(t, recipes, 3)
	assert.Equal(t, "third", recipes[0]["title"])
	assert.Equal(t, "first", recipes[2]["title"])
}

func TestGetRecipesEmpty(t *testing.T) {
	r := setupRouter(newMockStore(), nil)

	w := doJSON(r, http.MethodGet, "/recipes", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestGetRecipeByID(t *testing.T) {
	store := newMockStore()
	r := setupRouter(store, nil)

	w := doJSON(r, http.MethodPost, "/recipes", gin.H{"title": "Soup", "instructions": "Boil it"})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodGet, "/recipes/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Soup", decodeBody(t, w)["title"])

	w = doJSON(r, http.MethodGet, "/recipes/99", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Recipe not found", decodeBody(t, w)["error"])
}

func TestUpdateRecipe(t *testing.T) {
	store := newMockStore()
	r := setupRouter(store, nil)

	w := doJSON(r, http.MethodPost, "/recipes", gin.H{"title": "Soup", "instructions": "Boil it"})
	require.Equal(t, http.StatusOK, w.Code)
	created := decodeBody(t, w)

	w = doJSON(r, http.MethodPut, "/recipes/1", gin.H{
		"title":        "Soup",
		"instructions": "Boil it well",
		"difficulty":   "hard",
	})
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "Boil it well", body["instructions"])
	assert.Equal(t, "hard", body["difficulty"])
	// servings was not in the payload and keeps its default.
	assert.Equal(t, float64(1), body["servings"])
	assert.Equal(t, created["created_at"], body["created_at"])

	before, err := time.Parse(time.RFC3339Nano, created["updated_at"].(string))
	require.NoError(t, err)
	after, err := time.Parse(time.RFC3339Nano, body["updated_at"].(string))
	require.NoError(t, err)
	assert.True(t, after.After(before))
}

func TestUpdateRecipeMissingRequiredFields(t *testing.T) {
	store := newMockStore()
	r := setupRouter(store, nil)

	w := doJSON(r, http.MethodPost, "/recipes", gin.H{"title": "Soup", "instructions": "Boil it"})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodPut, "/recipes/1", gin.H{"difficulty": "hard"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Title and instructions are required", decodeBody(t, w)["error"])
}

func TestUpdateRecipeNotFound(t *testing.T) {
	r := setupRouter(newMockStore(), nil)

	w := doJSON(r, http.MethodPut, "/recipes/99", gin.H{"title": "Soup", "instructions": "Boil it"})
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteRecipe(t *testing.T) {
	store := newMockStore()
	r := setupRouter(store, nil)

	w := doJSON(r, http.MethodPost, "/recipes", gin.H{"title": "Soup", "instructions": "Boil it"})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodDelete, "/recipes/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])

	// A second delete reports not-found.
	w = doJSON(r, http.MethodDelete, "/recipes/1", nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(r, http.MethodGet, "/recipes/1", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteRecipeStorageError(t *testing.T) {
	store := newMockStore()
	store.deleteErr = errors.New("connection reset")
	r := setupRouter(store, nil)

	w := doJSON(r, http.MethodDelete, "/recipes/1", nil)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Failed to delete recipe", decodeBody(t, w)["error"])
}

func TestSuggestRecipe(t *testing.T) {
	ai := &mockSuggester{suggestion: "**Menu Name:** Egg Fried Rice"}
	r := setupRouter(newMockStore(), ai)

	w := doJSON(r, http.MethodPost, "/ai-suggest", gin.H{"ingredients": " eggs, rice ", "language": "th"})
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "**Menu Name:** Egg Fried Rice", body["suggestion"])

	metadata, ok := body["metadata"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, true, metadata["is_ai_generated"])
	assert.Equal(t, "ai_gemini", metadata["source"])
	assert.NotEmpty(t, metadata["generated_at"])

	assert.Equal(t, "eggs, rice", ai.gotIngredients)
	assert.Equal(t, "th", ai.gotLanguage)
}

func TestSuggestRecipeDefaultsLanguage(t *testing.T) {
	ai := &mockSuggester{suggestion: "ok"}
	r := setupRouter(newMockStore(), ai)

	w := doJSON(r, http.MethodPost, "/ai-suggest", gin.H{"ingredients": "eggs"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "en", ai.gotLanguage)
}

func TestSuggestRecipeMissingIngredients(t *testing.T) {
	ai := &mockSuggester{suggestion: "ok"}
	r := setupRouter(newMockStore(), ai)

	for _, payload := range []gin.H{{}, {"ingredients": "   "}} {
		w := doJSON(r, http.MethodPost, "/ai-suggest", payload)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, "Ingredients are required", body["error"])
		assert.NotEmpty(t, body["suggestion"])
	}
	// Rejected before any external call.
	assert.Empty(t, ai.gotIngredients)
}

func TestSuggestRecipeNoAPIKey(t *testing.T) {
	r := setupRouter(newMockStore(), nil)

	w := doJSON(r, http.MethodPost, "/ai-suggest", gin.H{"ingredients": "eggs"})
	require.Equal(t, http.StatusInternalServerError, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "API key not configured", body["error"])
	assert.NotEmpty(t, body["suggestion"])
}

func TestSuggestRecipeAIFailure(t *testing.T) {
	ai := &mockSuggester{err: errors.New("upstream 503")}
	r := setupRouter(newMockStore(), ai)

	w := doJSON(r, http.MethodPost, "/ai-suggest", gin.H{"ingredients": "eggs"})
	require.Equal(t, http.StatusInternalServerError, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "AI request failed", body["error"])
	assert.NotEmpty(t, body["suggestion"])
	assert.NotContains(t, w.Body.String(), "upstream 503")
}
