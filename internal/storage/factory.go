package storage

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Backend kinds selectable through STORAGE_TYPE.
const (
	KindJSON    = "json"
	KindMongoDB = "mongodb"
)

// Options carries the backend-specific settings consumed by New.
type Options struct {
	// RecipesFile is the path of the JSON backend's data file.
	RecipesFile string

	// MongoURI and MongoDatabase locate the document backend's collection.
	MongoURI      string
	MongoDatabase string
}

// New constructs the storage backend selected by kind. This is the single
// selection point: it runs once at process start, and an unknown kind is a
// fatal configuration error, not a per-request one.
func New(ctx context.Context, kind string, opts Options, logger *zap.Logger) (Store, error) {
	switch kind {
	case KindJSON:
		return NewJSONStore(opts.RecipesFile, logger), nil

	case KindMongoDB:
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(opts.MongoURI))
		if err != nil {
			return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
		}
		if err := client.Ping(ctx, nil); err != nil {
			return nil, fmt.Errorf("failed to ping mongodb: %w", err)
		}
		coll := client.Database(opts.MongoDatabase).Collection("recipes")
		return NewMongoStore(coll, logger), nil

	default:
		return nil, fmt.Errorf("invalid storage backend: %q", kind)
	}
}
