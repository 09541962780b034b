package core

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator"
	"gopkg.in/yaml.v3"
)

type StoreConfig struct {
	Type             string `yaml:"type" validate:"oneof=memory sqlite redis"`
	ConnectionString string `yaml:"connectionString"`
}

type EngineConfig struct {
	Type    string        `yaml:"type" validate:"oneof=builtin exec"`
	Binary  string        `yaml:"binary"`
	Timeout time.Duration `yaml:"timeout" validate:"min=0"`
}

type PreviewConfig struct {
	Workers        int    `yaml:"workers" validate:"min=1,max=64"`
	ThumbnailWidth int    `yaml:"thumbnailWidth" validate:"min=16,max=2048"`
	DataURI        bool   `yaml:"dataURI"`
	URLPrefix      string `yaml:"urlPrefix"`
}

type ServiceConfig struct {
	Port     int           `yaml:"port" validate:"min=1,max=65535"`
	LogLevel string        `yaml:"logLevel" validate:"oneof=debug info warn error"`
	Store    StoreConfig   `yaml:"store"`
	Engine   EngineConfig  `yaml:"engine"`
	Preview  PreviewConfig `yaml:"preview"`
}

// DefaultConfig is the configuration used when no file overrides a value.
func DefaultConfig() *ServiceConfig {
	config := &ServiceConfig{}
	applyDefaults(config)
	return config
}

// LoadConfig loads configuration from the specified YAML file
func LoadConfig(configPath string) (*ServiceConfig, error) {
	// Read the config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	// Parse YAML
	var config ServiceConfig
	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}

	applyDefaults(&config)
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", configPath, err)
	}

	return &config, nil
}

// Validate checks struct constraints and the cross-field rules.
func (c *ServiceConfig) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}
	return validateStore(c.Store)
}

// validateStore ensures stores that need a server have an address
func validateStore(store StoreConfig) error {
	if store.Type == "redis" && store.ConnectionString == "" {
		return fmt.Errorf("store type redis requires a connectionString")
	}
	if store.Type == "redis" && !strings.HasPrefix(store.ConnectionString, "redis://") && !strings.HasPrefix(store.ConnectionString, "rediss://") {
		return fmt.Errorf("redis connectionString must be a redis:// URL, got %q", store.ConnectionString)
	}
	return nil
}

func applyDefaults(config *ServiceConfig) {
	if config.Port == 0 {
		config.Port = 8080
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	if config.Store.Type == "" {
		config.Store.Type = "memory"
	}
	if config.Store.Type == "sqlite" && config.Store.ConnectionString == "" {
		config.Store.ConnectionString = ":memory:"
	}
	if config.Engine.Type == "" {
		config.Engine.Type = "builtin"
	}
	if config.Preview.Workers == 0 {
		config.Preview.Workers = 4
	}
	if config.Preview.ThumbnailWidth == 0 {
		config.Preview.ThumbnailWidth = 160
	}
	if config.Preview.URLPrefix == "" {
		config.Preview.URLPrefix = "/api/files/"
	}
}

// SlogLevel maps the configured log level to a slog level.
func (c *ServiceConfig) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
