package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const ConfigFileName = "arkiv.json"

// DefaultServerURL is used when neither arkiv.json nor ARKIV_API_URL
// provides a backend address. It matches the local dev server.
const DefaultServerURL = "http://localhost:8080"

// EnvServerURL overrides every configured server when set. Useful for CI
// and one-off runs against a non-default backend.
const EnvServerURL = "ARKIV_API_URL"

// Server represents an Arkiv server configuration
type Server struct {
	URL   string `json:"url"`
	Alias string `json:"alias"`
}

// Config represents the project configuration stored in arkiv.json
type Config struct {
	Servers []Server `json:"servers"`
}

// Load reads the configuration from a file path
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &cfg, nil
}

// LoadFromCurrentDir loads arkiv.json from the current working directory.
// When the file is absent but ARKIV_API_URL is set, a synthetic
// single-server config is returned so commands still work.
func LoadFromCurrentDir() (*Config, error) {
	currentDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get current directory: %w", err)
	}

	path := filepath.Join(currentDir, ConfigFileName)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if url := os.Getenv(EnvServerURL); url != "" {
			return &Config{Servers: []Server{{URL: url, Alias: "env"}}}, nil
		}
		return nil, fmt.Errorf("%s not found", ConfigFileName)
	}

	return Load(path)
}

// Save writes the configuration to a file path
func (c *Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GetServerByAlias returns the server with the given alias
func (c *Config) GetServerByAlias(alias string) (*Server, error) {
	for i := range c.Servers {
		if c.Servers[i].Alias == alias {
			return &c.Servers[i], nil
		}
	}
	return nil, fmt.Errorf("server '%s' not found in %s", alias, ConfigFileName)
}

// GetDefaultServer returns the first configured server
func (c *Config) GetDefaultServer() (*Server, error) {
	if len(c.Servers) == 0 {
		return nil, fmt.Errorf("no servers configured in %s", ConfigFileName)
	}
	return &c.Servers[0], nil
}

// ResolveURL returns the effective base URL for a server, honoring the
// ARKIV_API_URL override and falling back to the local default.
func ResolveURL(server *Server) string {
	if url := os.Getenv(EnvServerURL); url != "" {
		return url
	}
	if server != nil && server.URL != "" {
		return server.URL
	}
	return DefaultServerURL
}
