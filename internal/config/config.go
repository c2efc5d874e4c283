package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds application configuration
type Config struct {
	// Server
	ServerPort    int
	CollectorPort int

	// Telemetry source
	TelemetrySource string // "file" or "s3"
	MockPath        string
	S3Bucket        string
	S3Key           string

	// Remote collector
	CollectorURL     string
	CollectorTimeout int // milliseconds

	// Received-record store
	StoreType     string // "memory", "mongo" or "influx"
	StoreCapacity int

	// MongoDB
	MongoURI        string
	MongoDB         string
	MongoCollection string

	// InfluxDB
	InfluxURL      string
	InfluxToken    string
	InfluxDatabase string

	// MQTT
	MQTTBroker      string
	MQTTClientID    string
	MQTTTopicPrefix string
	MQTTRetained    bool

	// Logging
	LogLevel      string
	LogDir        string
	LogFileMaxAge int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		ServerPort:    getEnvInt("SERVER_PORT", 8080),
		CollectorPort: getEnvInt("COLLECTOR_PORT", 8001),

		TelemetrySource: getEnv("TELEMETRY_SOURCE", "file"),
		MockPath:        getEnv("MOCK_PATH", "./data/mock_today.json"),
		S3Bucket:        getEnv("S3_BUCKET", ""),
		S3Key:           getEnv("S3_KEY", ""),

		CollectorURL:     getEnv("COLLECTOR_URL", "https://sprint-challenge.onrender.com"),
		CollectorTimeout: getEnvInt("COLLECTOR_TIMEOUT_MS", 10000),

		StoreType:     getEnv("STORE_TYPE", "memory"),
		StoreCapacity: getEnvInt("STORE_CAPACITY", 1000),

		MongoURI:        getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:         getEnv("MONGO_DATABASE", "energia"),
		MongoCollection: getEnv("MONGO_COLLECTION", "dados_recebidos"),

		InfluxURL:      getEnv("INFLUXDB_URL", "http://localhost:8181"),
		InfluxToken:    getEnv("INFLUXDB_TOKEN", ""),
		InfluxDatabase: getEnv("INFLUXDB_DATABASE", "energia"),

		MQTTBroker:      getEnv("MQTT_BROKER", ""),
		MQTTClientID:    getEnv("MQTT_CLIENT_ID", "energia-assistant"),
		MQTTTopicPrefix: getEnv("MQTT_TOPIC_PREFIX", "energia"),
		MQTTRetained:    getEnvBool("MQTT_RETAINED", false),

		LogLevel:      getEnv("LOG_LEVEL", "INFO"),
		LogDir:        getEnv("LOG_DIRECTORY", "./logs"),
		LogFileMaxAge: getEnvInt("LOG_FILE_MAX_AGE", 2),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if configuration is valid
func (c *Config) Validate() error {
	switch c.TelemetrySource {
	case "file":
		if c.MockPath == "" {
			return fmt.Errorf("MOCK_PATH is required for TELEMETRY_SOURCE=file")
		}
	case "s3":
		if c.S3Bucket == "" || c.S3Key == "" {
			return fmt.Errorf("S3_BUCKET and S3_KEY are required for TELEMETRY_SOURCE=s3")
		}
	default:
		return fmt.Errorf("invalid TELEMETRY_SOURCE: %s (use 'file' or 's3')", c.TelemetrySource)
	}

	switch c.StoreType {
	case "memory", "mongo", "influx":
	default:
		return fmt.Errorf("invalid STORE_TYPE: %s (use 'memory', 'mongo' or 'influx')", c.StoreType)
	}

	if c.StoreCapacity < 1 || c.StoreCapacity > 1000000 {
		return fmt.Errorf("invalid STORE_CAPACITY: %d (must be 1-1000000)", c.StoreCapacity)
	}

	if c.CollectorTimeout < 100 || c.CollectorTimeout > 120000 {
		return fmt.Errorf("invalid COLLECTOR_TIMEOUT_MS: %d (must be 100-120000ms)", c.CollectorTimeout)
	}

	return nil
}

// CollectorTimeoutDuration returns the collector client timeout.
func (c *Config) CollectorTimeoutDuration() time.Duration {
	return time.Duration(c.CollectorTimeout) * time.Millisecond
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
