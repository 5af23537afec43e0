// Package config defines the service configuration. The configuration is
// loaded once at startup and passed explicitly into the components that
// need it; there is no package-level configuration state.
package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/localrivet/configurator"
	"github.com/mcuadros/go-defaults"
)

// Default configuration values
const (
	DefaultConfigFilename     = ".faceverifyconfig"
	DefaultDBPath             = "facial_templates.db"
	DefaultSimilarityThreshold = 0.6
	DefaultPort               = 8004
)

// Config represents the face verification service configuration.
type Config struct {
	// Store contains storage-related configuration.
	Store struct {
		// DBPath is the path to the SQLite database file.
		DBPath string `json:"db_path" env:"DB_PATH" default:"facial_templates.db" validate:"required"`
	} `json:"store"`

	// Recognition contains face recognition configuration.
	Recognition struct {
		// SimilarityThreshold is the distance cutoff below which two
		// embeddings are declared a match.
		SimilarityThreshold float64 `json:"similarity_threshold" env:"SIMILARITY_THRESHOLD" default:"0.6"`

		// ModelsDir is the directory holding the dlib model files.
		ModelsDir string `json:"models_dir" env:"MODELS_DIR" default:"models"`
	} `json:"recognition"`

	// Server contains HTTP server configuration.
	Server struct {
		// Port is the TCP port the service listens on.
		Port int `json:"port" env:"PORT" default:"8004" validate:"min:1"`

		// Debug enables verbose request logging.
		Debug bool `json:"debug" env:"DEBUG"`
	} `json:"server"`

	// Logging contains logging-related configuration.
	Logging struct {
		// Level is the minimum log level to display ("debug", "info", "warn", "error").
		Level string `json:"level" env:"LOG_LEVEL" default:"info" validate:"required"`

		// Format is the log format to use ("text", "json").
		Format string `json:"format" env:"LOG_FORMAT" default:"text"`

		// File is an optional log file path; when set, logs rotate daily.
		File string `json:"file" env:"LOG_FILE"`
	} `json:"logging"`

	// Internal state (not saved to config file)
	configPath string `json:"-"`
}

// NewConfig creates a new Config instance with default values.
func NewConfig() *Config {
	config := &Config{}
	defaults.SetDefaults(config)
	return config
}

// LoadConfig loads the configuration from the default path.
func LoadConfig() (*Config, error) {
	return LoadConfigWithPath(DefaultConfigFilename)
}

// LoadConfigWithPath loads the configuration, layering an optional config
// file and FACEVERIFY-prefixed environment variables over the defaults.
func LoadConfigWithPath(configPath string) (*Config, error) {
	stdLogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	cfg := NewConfig()

	if configPath == DefaultConfigFilename {
		foundPath, err := configurator.FindConfigFile(configPath)
		if err == nil {
			configPath = foundPath
			stdLogger.Debug("Found config file at " + foundPath)
		}
	}

	config := configurator.New(stdLogger).
		WithProvider(configurator.NewDefaultProvider())

	if _, err := os.Stat(configPath); err == nil {
		stdLogger.Info("Loading configuration", "path", configPath)
		config = config.WithProvider(configurator.NewFileProvider(configPath))
	} else {
		stdLogger.Info("Config file not found, using defaults and environment", "path", configPath)
	}

	config = config.
		WithProvider(configurator.NewEnvProvider("FACEVERIFY")).
		WithValidator(configurator.NewDefaultValidator())

	ctx := context.Background()
	if err := config.Load(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg.configPath = configPath
	return cfg, nil
}

// Validate checks configuration values that the tag validators cannot
// express.
func (c *Config) Validate() error {
	if c.Recognition.SimilarityThreshold <= 0 {
		return fmt.Errorf("similarity threshold must be positive, got %g", c.Recognition.SimilarityThreshold)
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("port must be in 1..65535, got %d", c.Server.Port)
	}
	return nil
}

// GetConfigPath returns the path of the currently loaded configuration file.
func (c *Config) GetConfigPath() string {
	return c.configPath
}
