package config

import (
	"context"
	"fmt"
	"time"

	influxdb3 "github.com/InfluxCommunity/influxdb3-go/v2/influxdb3"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"energia_assistant/pkg/logger"
)

// Database is the backend behind the received-record store
type Database interface {
	Close() error
	GetType() string
}

// MemoryDatabase is the in-process backend; it only carries the capacity
type MemoryDatabase struct {
	Capacity int
}

// MongoDatabase wraps MongoDB client
type MongoDatabase struct {
	Client     *mongo.Client
	Database   *mongo.Database
	Collection *mongo.Collection
}

// InfluxDatabase wraps InfluxDB v3 client
type InfluxDatabase struct {
	Client   *influxdb3.Client
	Database string
}

// InitDatabase creates the backend selected by STORE_TYPE
func InitDatabase(cfg *Config) (Database, error) {
	switch cfg.StoreType {
	case "memory":
		return &MemoryDatabase{Capacity: cfg.StoreCapacity}, nil
	case "mongo":
		return initMongo(cfg)
	case "influx":
		return initInflux(cfg)
	default:
		return nil, fmt.Errorf("unsupported store type: %s", cfg.StoreType)
	}
}

func (m *MemoryDatabase) Close() error {
	return nil
}

func (m *MemoryDatabase) GetType() string {
	return "memory"
}

func initMongo(cfg *Config) (*MongoDatabase, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	clientOpts := options.Client().
		ApplyURI(cfg.MongoURI).
		SetMaxPoolSize(20).
		SetMinPoolSize(2)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect failed: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("mongo ping failed: %w", err)
	}

	database := client.Database(cfg.MongoDB)
	collection := database.Collection(cfg.MongoCollection)

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "received_at", Value: -1}}},
		{Keys: bson.D{{Key: "inverter_sn", Value: 1}}},
	}
	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return nil, fmt.Errorf("failed to create indexes: %w", err)
	}

	logger.Infof("MongoDB connected: %s/%s", cfg.MongoDB, cfg.MongoCollection)

	return &MongoDatabase{
		Client:     client,
		Database:   database,
		Collection: collection,
	}, nil
}

func (m *MongoDatabase) Close() error {
	if m.Client != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return m.Client.Disconnect(ctx)
	}
	return nil
}

func (m *MongoDatabase) GetType() string {
	return "mongo"
}

func initInflux(cfg *Config) (*InfluxDatabase, error) {
	if cfg.InfluxURL == "" {
		return nil, fmt.Errorf("INFLUXDB_URL is required")
	}
	if cfg.InfluxDatabase == "" {
		return nil, fmt.Errorf("INFLUXDB_DATABASE is required")
	}

	logger.Infof("Initializing InfluxDB v3 connection (url=%s, database=%s, token=%s)",
		cfg.InfluxURL, cfg.InfluxDatabase, maskToken(cfg.InfluxToken))

	clientConfig := influxdb3.ClientConfig{
		Host:     cfg.InfluxURL,
		Database: cfg.InfluxDatabase,
		WriteOptions: &influxdb3.WriteOptions{
			DefaultTags: map[string]string{
				"source": "energia_assistant",
			},
		},
	}

	// InfluxDB v3 Core may run without a token
	if cfg.InfluxToken != "" {
		clientConfig.Token = cfg.InfluxToken
	}

	client, err := influxdb3.New(clientConfig)
	if err != nil {
		return nil, fmt.Errorf("influx client creation failed: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	iterator, err := client.Query(ctx, "SHOW TABLES")
	if err != nil {
		logger.Warnf("InfluxDB test query failed (database may be empty): %v", err)
	} else {
		count := 0
		for iterator.Next() {
			count++
		}
		logger.Infof("InfluxDB connected: %s (%d tables)", cfg.InfluxDatabase, count)
	}

	return &InfluxDatabase{
		Client:   client,
		Database: cfg.InfluxDatabase,
	}, nil
}

func (i *InfluxDatabase) Close() error {
	if i.Client != nil {
		return i.Client.Close()
	}
	return nil
}

func (i *InfluxDatabase) GetType() string {
	return "influx"
}

// maskToken hides most of the token in logs
func maskToken(token string) string {
	if token == "" {
		return "(not set)"
	}
	if len(token) <= 8 {
		return "***"
	}
	return token[:4] + "..." + token[len(token)-4:]
}
