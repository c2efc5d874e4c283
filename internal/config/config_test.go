package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"SERVER_PORT", "TELEMETRY_SOURCE", "MOCK_PATH", "COLLECTOR_URL", "COLLECTOR_TIMEOUT_MS", "STORE_TYPE", "STORE_CAPACITY", "MQTT_RETAINED"} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, 8001, cfg.CollectorPort)
	assert.Equal(t, "file", cfg.TelemetrySource)
	assert.Equal(t, "./data/mock_today.json", cfg.MockPath)
	assert.Equal(t, "https://sprint-challenge.onrender.com", cfg.CollectorURL)
	assert.Equal(t, 10*time.Second, cfg.CollectorTimeoutDuration())
	assert.Equal(t, "memory", cfg.StoreType)
	assert.Equal(t, 1000, cfg.StoreCapacity)
	assert.False(t, cfg.MQTTRetained)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("TELEMETRY_SOURCE", "s3")
	t.Setenv("S3_BUCKET", "telemetria")
	t.Setenv("S3_KEY", "2025/10/01.json")
	t.Setenv("STORE_TYPE", "mongo")
	t.Setenv("MQTT_RETAINED", "true")
	t.Setenv("COLLECTOR_TIMEOUT_MS", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.ServerPort)
	assert.Equal(t, "s3", cfg.TelemetrySource)
	assert.Equal(t, "mongo", cfg.StoreType)
	assert.True(t, cfg.MQTTRetained)
	assert.Equal(t, 10000, cfg.CollectorTimeout, "unparseable values fall back to the default")
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			TelemetrySource:  "file",
			MockPath:         "day.json",
			StoreType:        "memory",
			StoreCapacity:    10,
			CollectorTimeout: 1000,
		}
	}
	require.NoError(t, valid().Validate())

	cases := map[string]func(*Config){
		"unknown source":   func(c *Config) { c.TelemetrySource = "ftp" },
		"s3 without key":   func(c *Config) { c.TelemetrySource = "s3"; c.S3Bucket = "b" },
		"empty mock path":  func(c *Config) { c.MockPath = "" },
		"unknown store":    func(c *Config) { c.StoreType = "redis" },
		"zero capacity":    func(c *Config) { c.StoreCapacity = 0 },
		"timeout too long": func(c *Config) { c.CollectorTimeout = 500000 },
	}
	for name, mutate := range cases {
		c := valid()
		mutate(c)
		assert.Error(t, c.Validate(), name)
	}
}

func TestInitDatabaseMemory(t *testing.T) {
	db, err := InitDatabase(&Config{StoreType: "memory", StoreCapacity: 5})
	require.NoError(t, err)
	defer db.Close()

	assert.Equal(t, "memory", db.GetType())
	mem, ok := db.(*MemoryDatabase)
	require.True(t, ok)
	assert.Equal(t, 5, mem.Capacity)
}

func TestMaskToken(t *testing.T) {
	assert.Equal(t, "(not set)", maskToken(""))
	assert.Equal(t, "***", maskToken("short"))
	assert.Equal(t, "apiv...wxyz", maskToken("apiv3_abcdefwxyz"))
}
