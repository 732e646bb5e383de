package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Supported datastore drivers.
const (
	DriverFirestore = "firestore"
	DriverMongo     = "mongo"
	DriverSQLite    = "sqlite"
)

// Config holds the application configuration.
type Config struct {
	ServerPort     int      `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`

	Datastore Datastore `yaml:"datastore"`

	// ProbeSchedule is a cron spec for the background store probe.
	ProbeSchedule string `yaml:"probe_schedule"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// Datastore selects and configures the document store backing the events collection.
type Datastore struct {
	Driver     string `yaml:"driver"`
	Collection string `yaml:"collection"`

	ProjectID       string `yaml:"project_id"`
	CredentialsJSON string `yaml:"credentials_json"`

	MongoURI string `yaml:"mongo_uri"`
	MongoDB  string `yaml:"mongo_db"`

	SQLitePath string `yaml:"sqlite_path"`
}

// Default returns the configuration used when nothing else is set.
func Default() *Config {
	return &Config{
		ServerPort:     8082,
		AllowedOrigins: []string{"*"},
		Datastore: Datastore{
			Driver:     DriverFirestore,
			Collection: "Events",
			MongoURI:   "mongodb://localhost:27017",
			MongoDB:    "events",
			SQLitePath: "./events.db",
		},
		ProbeSchedule: "@every 1m",
		LogLevel:      "info",
		LogFormat:     "console",
	}
}

// Load builds the configuration from defaults, an optional YAML file named by
// CONFIG_FILE and finally environment variables. A .env file in the working
// directory is loaded first if present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path := getEnv("CONFIG_FILE", ""); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return fmt.Errorf("parse yaml: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	if portStr := getEnv("PORT", ""); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", portStr, err)
		}
		c.ServerPort = port
	}
	if origins := getEnv("CORS_ALLOWED_ORIGINS", ""); origins != "" {
		c.AllowedOrigins = splitList(origins)
	}

	c.Datastore.Driver = getEnv("DATASTORE_DRIVER", c.Datastore.Driver)
	c.Datastore.Collection = getEnv("EVENTS_COLLECTION", c.Datastore.Collection)
	c.Datastore.ProjectID = getEnv("GOOGLE_CLOUD_PROJECT", c.Datastore.ProjectID)
	c.Datastore.CredentialsJSON = getEnv("FIRESTORE_CREDENTIALS_JSON", c.Datastore.CredentialsJSON)
	c.Datastore.MongoURI = getEnv("MONGO_URI", c.Datastore.MongoURI)
	c.Datastore.MongoDB = getEnv("MONGO_DB", c.Datastore.MongoDB)
	c.Datastore.SQLitePath = getEnv("SQLITE_PATH", c.Datastore.SQLitePath)

	c.ProbeSchedule = getEnv("STORE_PROBE_SCHEDULE", c.ProbeSchedule)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.LogFormat = getEnv("LOG_FORMAT", c.LogFormat)
	return nil
}

// Validate reports configuration that cannot be used to start the service.
func (c *Config) Validate() error {
	if c.ServerPort <= 0 || c.ServerPort > 65535 {
		return fmt.Errorf("port %d out of range", c.ServerPort)
	}
	switch c.Datastore.Driver {
	case DriverFirestore, DriverMongo, DriverSQLite:
	default:
		return fmt.Errorf("unknown datastore driver %q", c.Datastore.Driver)
	}
	if c.Datastore.Collection == "" {
		return errors.New("events collection name is empty")
	}
	return nil
}

// Helper to get an environment variable with a default value. Empty values
// count as unset.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
