package repository

import (
	"context"
	"fmt"

	"energia_assistant/internal/config"
	"energia_assistant/internal/domain"
	"energia_assistant/pkg/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore implements Store on a MongoDB collection
type MongoStore struct {
	db *config.MongoDatabase
}

// NewMongoStore creates a new MongoDB store
func NewMongoStore(db *config.MongoDatabase) *MongoStore {
	return &MongoStore{db: db}
}

func (r *MongoStore) Add(ctx context.Context, rec domain.ReceivedRecord) error {
	if _, err := r.db.Collection.InsertOne(ctx, rec); err != nil {
		logger.Errorf("MongoDB insert failed for record %s: %v", rec.ID, err)
		return fmt.Errorf("insert failed: %w", err)
	}
	return nil
}

func (r *MongoStore) List(ctx context.Context, limit int) ([]domain.ReceivedRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "received_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := r.db.Collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find failed: %w", err)
	}
	defer cursor.Close(ctx)

	var results []domain.ReceivedRecord
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("decode failed: %w", err)
	}

	// newest first from the query, oldest first to the caller
	for i, j := 0, len(results)-1; i < j; i, j = i+1, j-1 {
		results[i], results[j] = results[j], results[i]
	}
	return results, nil
}

func (r *MongoStore) Count(ctx context.Context) (int64, error) {
	return r.db.Collection.CountDocuments(ctx, bson.M{})
}

func (r *MongoStore) Type() string {
	return "mongo"
}
