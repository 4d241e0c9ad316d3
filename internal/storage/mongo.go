package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"recipebook/internal/recipe"
)

// mongoRecipe is the native document shape. Timestamp fields keep the
// store's camel casing; the transform to recipe.Recipe renames them.
type mongoRecipe struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	Title         string             `bson:"title"`
	Instructions  string             `bson:"instructions"`
	Ingredients   string             `bson:"ingredients"`
	IsAIGenerated bool               `bson:"is_ai_generated"`
	Source        string             `bson:"source"`
	Tags          []string           `bson:"tags"`
	Difficulty    string             `bson:"difficulty"`
	PrepTime      int                `bson:"prep_time"`
	CookTime      int                `bson:"cook_time"`
	Servings      int                `bson:"servings"`
	CreatedAt     time.Time          `bson:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt"`
}

func (d *mongoRecipe) toRecipe() *recipe.Recipe {
	return &recipe.Recipe{
		ID:            recipe.StringID(d.ID.Hex()),
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
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

// MongoStore delegates persistence to a MongoDB collection reached over a
// connection established once at startup. Single-document atomicity is the
// only guarantee used; there are no cross-document transactions.
type MongoStore struct {
	coll   *mongo.Collection
	logger *zap.Logger
}

// NewMongoStore creates a MongoStore over the given collection.
func NewMongoStore(coll *mongo.Collection, logger *zap.Logger) *MongoStore {
	return &MongoStore{coll: coll, logger: logger}
}

// validateDraft enforces the schema constraints the document store would
// apply on save: enum membership and numeric minimums. Violations surface
// as storage errors.
func validateDraft(d *recipe.Draft) error {
	if !recipe.ValidSource(d.Source) {
		return fmt.Errorf("recipe validation: source %q is not a valid enum value", d.Source)
	}
	if !recipe.ValidDifficulty(d.Difficulty) {
		return fmt.Errorf("recipe validation: difficulty %q is not a valid enum value", d.Difficulty)
	}
	if d.PrepTime < 0 {
		return fmt.Errorf("recipe validation: prep_time (%d) must be at least 0", d.PrepTime)
	}
	if d.CookTime < 0 {
		return fmt.Errorf("recipe validation: cook_time (%d) must be at least 0", d.CookTime)
	}
	if d.Servings < 1 {
		return fmt.Errorf("recipe validation: servings (%d) must be at least 1", d.Servings)
	}
	return nil
}

// validateUpdate enforces the same constraints for the fields present in an
// update (mongoose runValidators equivalent).
func validateUpdate(u *recipe.Update) error {
	if u.Source != nil && !recipe.ValidSource(*u.Source) {
		return fmt.Errorf("recipe validation: source %q is not a valid enum value", *u.Source)
	}
	if u.Difficulty != nil && !recipe.ValidDifficulty(*u.Difficulty) {
		return fmt.Errorf("recipe validation: difficulty %q is not a valid enum value", *u.Difficulty)
	}
	if u.PrepTime != nil && *u.PrepTime < 0 {
		return fmt.Errorf("recipe validation: prep_time (%d) must be at least 0", *u.PrepTime)
	}
	if u.CookTime != nil && *u.CookTime < 0 {
		return fmt.Errorf("recipe validation: cook_time (%d) must be at least 0", *u.CookTime)
	}
	if u.Servings != nil && *u.Servings < 1 {
		return fmt.Errorf("recipe validation: servings (%d) must be at least 1", *u.Servings)
	}
	return nil
}

// GetAllRecipes returns the collection sorted by creation time descending.
// Read errors are logged and yield an empty slice rather than failing the
// caller.
func (s *MongoStore) GetAllRecipes(ctx context.Context) ([]*recipe.Recipe, error) {
	cursor, err := s.coll.Find(ctx, bson.D{},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		s.logger.Error("mongodb read failed", zap.Error(err))
		return []*recipe.Recipe{}, nil
	}
	defer cursor.Close(ctx)

	var docs []mongoRecipe
	if err := cursor.All(ctx, &docs); err != nil {
		s.logger.Error("mongodb cursor read failed", zap.Error(err))
		return []*recipe.Recipe{}, nil
	}

	recipes := make([]*recipe.Recipe, 0, len(docs))
	for i := range docs {
		recipes = append(recipes, docs[i].toRecipe())
	}
	return recipes, nil
}

// GetRecipeByID returns the recipe with the given object id, or nil if the
// id is malformed or no document matches.
func (s *MongoStore) GetRecipeByID(ctx context.Context, id string) (*recipe.Recipe, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	var doc mongoRecipe
	err = s.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("mongodb findOne failed: %w", err)
	}
	return doc.toRecipe(), nil
}

// CreateRecipe inserts a new document and returns it with the assigned
// object id.
func (s *MongoStore) CreateRecipe(ctx context.Context, d *recipe.Draft) (*recipe.Recipe, error) {
	if err := validateDraft(d); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	doc := mongoRecipe{
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

	result, err := s.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("mongodb insert failed: %w", err)
	}
	doc.ID = result.InsertedID.(primitive.ObjectID)
	return doc.toRecipe(), nil
}

// UpdateRecipe applies a $set of the supplied fields plus a refreshed
// updatedAt, returning the post-update document or nil if absent.
func (s *MongoStore) UpdateRecipe(ctx context.Context, id string, u *recipe.Update) (*recipe.Recipe, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	if err := validateUpdate(u); err != nil {
		return nil, err
	}

	set := bson.M{
		"title":        u.Title,
		"instructions": u.Instructions,
		"ingredients":  u.Ingredients,
		"updatedAt":    time.Now().UTC(),
	}
	if u.IsAIGenerated != nil {
		set["is_ai_generated"] = *u.IsAIGenerated
	}
	if u.Source != nil {
		set["source"] = *u.Source
	}
	if u.Tags != nil {
		set["tags"] = u.Tags
	}
	if u.Difficulty != nil {
		set["difficulty"] = *u.Difficulty
	}
	if u.PrepTime != nil {
		set["prep_time"] = *u.PrepTime
	}
	if u.CookTime != nil {
		set["cook_time"] = *u.CookTime
	}
	if u.Servings != nil {
		set["servings"] = *u.Servings
	}

	var doc mongoRecipe
	err = s.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("mongodb update failed: %w", err)
	}
	return doc.toRecipe(), nil
}

// DeleteRecipe removes the document with the given object id.
func (s *MongoStore) DeleteRecipe(ctx context.Context, id string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}

	result, err := s.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return false, fmt.Errorf("mongodb delete failed: %w", err)
	}
	return result.DeletedCount > 0, nil
}
