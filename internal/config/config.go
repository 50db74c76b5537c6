// Package config loads CLI configuration for the examine tool.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/examine-dev/examine/storage"
)

// Config is the top-level CLI configuration.
type Config struct {
	Storage Storage `yaml:"storage"`
}

// Storage configures where extracted diagrams are persisted. When
// Endpoint and Token are set, diagrams upload to remote object storage;
// otherwise they are written under Dir.
type Storage struct {
	Endpoint  string `yaml:"endpoint"`
	Bucket    string `yaml:"bucket"`
	Token     string `yaml:"token"`
	PublicURL string `yaml:"public_url"`
	Dir       string `yaml:"dir"`
	BaseURL   string `yaml:"base_url"`
}

// Load reads a YAML configuration file. An empty path yields the zero
// configuration, which falls back to environment variables.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Store builds the storage backend described by the configuration.
// Unset fields defer to environment variables.
func (c *Config) Store() storage.Store {
	s := c.Storage

	if s.Token != "" && s.Endpoint != "" {
		return storage.NewHTTPStore(s.Endpoint, s.Bucket, s.Token, s.PublicURL)
	}
	if s.Dir != "" {
		return storage.NewFileStore(s.Dir, s.BaseURL)
	}

	return storage.FromEnv()
}
