package config

import (
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application, read once from the
// process environment at startup.
type Config struct {
	// Port the HTTP server listens on.
	Port string

	// StorageType selects the persistence backend ("json" or "mongodb").
	StorageType string

	// MongoURI and MongoDatabase locate the document backend.
	MongoURI      string
	MongoDatabase string

	// RecipesFile is the JSON backend's data file.
	RecipesFile string

	// APIKey and Model configure the Gemini suggestion proxy. An empty
	// APIKey disables the proxy; /ai-suggest then reports a configuration
	// error without any network call.
	APIKey string
	Model  string

	// WebDir is the directory the static front end is served from.
	WebDir string
}

// Load reads configuration from the environment, applying defaults for
// everything but the API key.
func Load() *Config {
	v := viper.New()
	v.SetDefault("PORT", "3000")
	v.SetDefault("STORAGE_TYPE", "json")
	v.SetDefault("MONGODB_URI", "mongodb://localhost:27017/recipe_manager")
	v.SetDefault("MONGODB_DB", "recipe_manager")
	v.SetDefault("RECIPES_FILE", filepath.Join("data", "recipes.json"))
	v.SetDefault("MODEL", "gemini-1.5-flash")
	v.SetDefault("WEB_DIR", "web")
	v.AutomaticEnv()

	return &Config{
		Port:          v.GetString("PORT"),
		StorageType:   v.GetString("STORAGE_TYPE"),
		MongoURI:      v.GetString("MONGODB_URI"),
		MongoDatabase: v.GetString("MONGODB_DB"),
		RecipesFile:   v.GetString("RECIPES_FILE"),
		APIKey:        v.GetString("API_KEY"),
		Model:         v.GetString("MODEL"),
		WebDir:        v.GetString("WEB_DIR"),
	}
}
