package storage

import (
	"context"

	"recipebook/internal/recipe"
)

// Store defines the interface for recipe persistence. Exactly one backend is
// constructed at process start (see New); callers depend only on this
// interface, never on the concrete backend.
//
// Not-found is a value, never an error: reads and updates return nil, nil
// for an unknown or malformed id, and DeleteRecipe returns false, nil.
// Errors are reserved for writes that cannot be completed.
type Store interface {
	// GetAllRecipes returns every recipe, newest-created first. It does not
	// fail the caller: an unreadable backend yields an empty slice.
	GetAllRecipes(ctx context.Context) ([]*recipe.Recipe, error)

	// GetRecipeByID returns the recipe with the given id, or nil if absent
	// or if id is not a well-formed identifier for this backend.
	GetRecipeByID(ctx context.Context, id string) (*recipe.Recipe, error)

	// CreateRecipe persists a new recipe built from the draft plus a freshly
	// assigned id and timestamps, and returns the stored recipe.
	CreateRecipe(ctx context.Context, d *recipe.Draft) (*recipe.Recipe, error)

	// UpdateRecipe merges the update onto the recipe with the given id,
	// refreshes updated_at and returns the result, or nil if absent.
	UpdateRecipe(ctx context.Context, id string, u *recipe.Update) (*recipe.Recipe, error)

	// DeleteRecipe removes the recipe with the given id and reports whether
	// it existed.
	DeleteRecipe(ctx context.Context, id string) (bool, error)
}
