package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ConfigFileName is the optional YAML config for the dev server.
// Environment variables take precedence over the file.
const ConfigFileName = "arkiv-server.yaml"

// Config holds all configuration for the dev server
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Storage  StorageConfig  `yaml:"storage"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Addr      string `yaml:"addr"`
	JWTSecret string `yaml:"jwt_secret"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	URL string `yaml:"url"`
}

// StorageConfig holds uploaded-file storage configuration
type StorageConfig struct {
	Dir string `yaml:"dir"`
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // json, console
}

// Load loads configuration from the optional YAML file and environment
// variables, with the environment winning.
func Load() (*Config, error) {
	// Load .env files (fails silently if files don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	cfg := &Config{}

	if data, err := os.ReadFile(ConfigFileName); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", ConfigFileName, err)
		}
	}

	applyEnv(&cfg.Server.Addr, "ARKIV_SERVER_ADDR", ":8080")
	applyEnv(&cfg.Server.JWTSecret, "ARKIV_JWT_SECRET", "")
	applyEnv(&cfg.Database.URL, "DATABASE_URL", "arkiv.sqlite")
	applyEnv(&cfg.Storage.Dir, "ARKIV_STORAGE_DIR", "uploads")
	applyEnv(&cfg.Logging.Level, "LOG_LEVEL", "info")
	applyEnv(&cfg.Logging.Format, "LOG_FORMAT", "console")

	return cfg, nil
}

func applyEnv(target *string, key, fallback string) {
	if value := os.Getenv(key); value != "" {
		*target = value
		return
	}
	if *target == "" {
		*target = fallback
	}
}
