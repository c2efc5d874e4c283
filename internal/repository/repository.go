package repository

import (
	"context"
	"fmt"

	"energia_assistant/internal/config"
	"energia_assistant/internal/domain"
)

// Store keeps the records received by the collector service
type Store interface {
	// Add saves one record
	Add(ctx context.Context, rec domain.ReceivedRecord) error

	// List returns the most recent limit records, oldest first. limit <= 0 means all.
	List(ctx context.Context, limit int) ([]domain.ReceivedRecord, error)

	// Count returns the number of stored records
	Count(ctx context.Context) (int64, error)

	// Type returns the backend name
	Type() string
}

// NewStore returns the store for an initialized backend
func NewStore(db config.Database) (Store, error) {
	switch d := db.(type) {
	case *config.MemoryDatabase:
		return NewMemoryStore(d.Capacity), nil
	case *config.MongoDatabase:
		return NewMongoStore(d), nil
	case *config.InfluxDatabase:
		return NewInfluxStore(d), nil
	default:
		return nil, fmt.Errorf("unsupported store backend: %T", db)
	}
}
