package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"recipebook/internal/recipe"
)

// JSONStore holds the entire collection as one JSON array in a single local
// file, read in full and rewritten in full on every mutation. A missing or
// malformed file reads as an empty collection; the store self-heals by
// writing a fresh file on the next successful create. There is no temp-file
// or rename protocol, so a crash mid-write can corrupt the file.
type JSONStore struct {
	path   string
	logger *zap.Logger

	// mu serializes the read-modify-write cycle so that concurrent creates
	// cannot compute the same max+1 id.
	mu sync.Mutex
}

// NewJSONStore creates a JSONStore backed by the file at path.
func NewJSONStore(path string, logger *zap.Logger) *JSONStore {
	return &JSONStore{path: path, logger: logger}
}

func (s *JSONStore) readRecipes() []*recipe.Recipe {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("failed to read recipes file, treating as empty",
				zap.String("path", s.path), zap.Error(err))
		}
		return []*recipe.Recipe{}
	}

	var recipes []*recipe.Recipe
	if err := json.Unmarshal(data, &recipes); err != nil {
		s.logger.Warn("recipes file is malformed, treating as empty",
			zap.String("path", s.path), zap.Error(err))
		return []*recipe.Recipe{}
	}
	return recipes
}

func (s *JSONStore) writeRecipes(recipes []*recipe.Recipe) error {
	data, err := json.MarshalIndent(recipes, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal recipes: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create data directory: %w", err)
		}
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write recipes file: %w", err)
	}
	return nil
}

func nextID(recipes []*recipe.Recipe) int64 {
	var max int64
	for _, r := range recipes {
		if n := r.ID.Int64(); n > max {
			max = n
		}
	}
	return max + 1
}

// parseFileID interprets a path parameter as a file-backend id. Malformed
// or non-positive values resolve to not-found.
func parseFileID(id string) (int64, bool) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// GetAllRecipes returns the collection newest-created first.
func (s *JSONStore) GetAllRecipes(ctx context.Context) ([]*recipe.Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	recipes := s.readRecipes()
	sort.Slice(recipes, func(i, j int) bool {
		if !recipes[i].CreatedAt.Equal(recipes[j].CreatedAt) {
			return recipes[i].CreatedAt.After(recipes[j].CreatedAt)
		}
		return recipes[i].ID.Int64() > recipes[j].ID.Int64()
	})
	return recipes, nil
}

// GetRecipeByID returns the recipe with the given id, or nil if absent.
func (s *JSONStore) GetRecipeByID(ctx context.Context, id string) (*recipe.Recipe, error) {
	n, ok := parseFileID(id)
	if !ok {
		return nil, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.readRecipes() {
		if r.ID.Int64() == n {
			return r, nil
		}
	}
	return nil, nil
}

// CreateRecipe appends a new recipe with the next sequential id and rewrites
// the file.
func (s *JSONStore) CreateRecipe(ctx context.Context, d *recipe.Draft) (*recipe.Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	recipes := s.readRecipes()
	now := time.Now().UTC()
	r := &recipe.Recipe{
		ID:            recipe.NumericID(nextID(recipes)),
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

	recipes = append(recipes, r)
	if err := s.writeRecipes(recipes); err != nil {
		return nil, fmt.Errorf("failed to save recipe: %w", err)
	}
	return r, nil
}

// UpdateRecipe merges the update onto the stored recipe and rewrites the
// file. Returns nil if no recipe has the given id.
func (s *JSONStore) UpdateRecipe(ctx context.Context, id string, u *recipe.Update) (*recipe.Recipe, error) {
	n, ok := parseFileID(id)
	if !ok {
		return nil, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	recipes := s.readRecipes()
	for _, r := range recipes {
		if r.ID.Int64() != n {
			continue
		}
		u.Apply(r)
		now := time.Now().UTC()
		if !now.After(r.UpdatedAt) {
			// Coarse clocks can report the same instant twice.
			now = r.UpdatedAt.Add(time.Millisecond)
		}
		r.UpdatedAt = now
		if err := s.writeRecipes(recipes); err != nil {
			return nil, fmt.Errorf("failed to update recipe: %w", err)
		}
		return r, nil
	}
	return nil, nil
}

// DeleteRecipe removes the recipe with the given id and rewrites the file.
func (s *JSONStore) DeleteRecipe(ctx context.Context, id string) (bool, error) {
	n, ok := parseFileID(id)
	if !ok {
		return false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	recipes := s.readRecipes()
	for i, r := range recipes {
		if r.ID.Int64() != n {
			continue
		}
		recipes = append(recipes[:i], recipes[i+1:]...)
		if err := s.writeRecipes(recipes); err != nil {
			return false, fmt.Errorf("failed to delete recipe: %w", err)
		}
		return true, nil
	}
	return false, nil
}
