package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ServerConfig holds configuration for the Notor server.
type ServerConfig struct {
	Addr      string `yaml:"addr"`       // Listen address (default ":3693")
	LogLevel  string `yaml:"log_level"`  // Log level: debug, info, warn, error
	LogFormat string `yaml:"log_format"` // Log format: text, json
	DBPath    string `yaml:"db"`         // SQLite database path (":memory:" for testing)
	Secret    string `yaml:"secret"`     // Token signing secret (or NOTOR_SECRET env)
	Secure    bool   `yaml:"secure"`     // Set Secure on cookies (HTTPS deployments)
}

// DefaultServerConfig returns sensible defaults.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:      ":3693",
		LogLevel:  "info",
		LogFormat: "text",
	}
}

// Load reads a YAML config file over the defaults. An empty path returns the
// defaults untouched. The signing secret falls back to the NOTOR_SECRET
// environment variable so it never has to live in the file.
func Load(path string) (ServerConfig, error) {
	cfg := DefaultServerConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if cfg.Secret == "" {
		cfg.Secret = os.Getenv("NOTOR_SECRET")
	}

	return cfg, nil
}

// Validate checks that required settings are present.
func (c *ServerConfig) Validate() error {
	if c.Secret == "" {
		return fmt.Errorf("signing secret is not set (config 'secret' or NOTOR_SECRET)")
	}
	return nil
}
