package schooldesk

import (
	"os"
	"time"
)

// Config identifies the backends the facade may use.
type Config struct {
	// MongoURI is the connection string of the document store.
	MongoURI string
	// Database is the logical database name within the document store.
	Database string
	// DataFile is the JSON file backing the memory store fallback.
	DataFile string
	// ConnectTimeout bounds the eager connection attempt at open.
	ConnectTimeout time.Duration
}

// DefaultConfig returns the local-development configuration.
func DefaultConfig() Config {
	return Config{
		MongoURI:       "mongodb://localhost:27017",
		Database:       "schooldesk",
		DataFile:       "students.json",
		ConnectTimeout: 5 * time.Second,
	}
}

// ConfigFromEnv reads the configuration from the environment, falling back
// to DefaultConfig values for anything unset.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	cfg.MongoURI = getEnv("SCHOOLDESK_MONGO_URI", cfg.MongoURI)
	cfg.Database = getEnv("SCHOOLDESK_DB_NAME", cfg.Database)
	cfg.DataFile = getEnv("SCHOOLDESK_DATA_FILE", cfg.DataFile)
	if v, ok := os.LookupEnv("SCHOOLDESK_CONNECT_TIMEOUT"); ok {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.ConnectTimeout = d
		}
	}
	return cfg
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
