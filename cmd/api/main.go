package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"recipebook/internal/api"
	"recipebook/internal/config"
	"recipebook/internal/platform/gemini"
	"recipebook/internal/storage"
)

func main() {
	ctx := context.Background()

	cfg := config.Load()

	logger, err := zap.NewProductionConfig().Build()
	if err != nil {
		panic(fmt.Errorf("failed to initialize logger: %w", err))
	}
	defer logger.Sync()

	store, err := storage.New(ctx, cfg.StorageType, storage.Options{
		RecipesFile:   cfg.RecipesFile,
		MongoURI:      cfg.MongoURI,
		MongoDatabase: cfg.MongoDatabase,
	}, logger)
	if err != nil {
		logger.Fatal("failed to initialize storage", zap.String("type", cfg.StorageType), zap.Error(err))
	}
	logger.Info("storage initialized", zap.String("type", cfg.StorageType))

	var suggester api.Suggester
	if cfg.APIKey != "" {
		client, err := gemini.NewClient(ctx, cfg.APIKey, cfg.Model)
		if err != nil {
			logger.Fatal("failed to create gemini client", zap.Error(err))
		}
		suggester = client
		logger.Info("gemini api key loaded", zap.String("model", cfg.Model))
	} else {
		logger.Warn("API_KEY not set, /ai-suggest will report a configuration error")
	}

	handler := api.NewHandler(store, suggester, logger)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders: []string{"Content-Type"},
	}))

	handler.RegisterRoutes(r)

	// Static front end.
	r.StaticFile("/", filepath.Join(cfg.WebDir, "index.html"))
	r.Static("/assets", filepath.Join(cfg.WebDir, "assets"))

	logger.Info("server listening", zap.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
