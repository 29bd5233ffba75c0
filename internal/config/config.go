package config

import (
	"errors"
	"net/url"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"pingcheck/internal/apperr"
	"pingcheck/internal/models"
)

// Environment variables that override the file values for the project block.
const (
	EnvEndpoint    = "APPWRITE_ENDPOINT"
	EnvProjectID   = "APPWRITE_PROJECT_ID"
	EnvProjectName = "APPWRITE_PROJECT_NAME"
)

// Config represents configuration data for the connection checker.
type Config struct {
	Endpoint         string `yaml:"endpoint"`
	ProjectID        string `yaml:"project_id"`
	ProjectName      string `yaml:"project_name"`
	ListenAddr       string `yaml:"listen_addr"`
	TimeoutSeconds   int    `yaml:"timeout_seconds"`
	PanelOpenOnStart bool   `yaml:"panel_open_on_start"`
	LogLevel         string `yaml:"log_level"`
}

// DefaultConfig returns sensible defaults in case no configuration file is provided.
func DefaultConfig() Config {
	return Config{
		Endpoint:       "https://cloud.appwrite.io/v1",
		ListenAddr:     ":8080",
		TimeoutSeconds: 30,
		LogLevel:       "info",
	}
}

// Project returns the display block shown in the log panel.
func (c Config) Project() models.Project {
	return models.Project{
		Endpoint: c.Endpoint,
		ID:       c.ProjectID,
		Name:     c.ProjectName,
	}
}

// Timeout is the vendor client's request timeout.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Load reads configuration from a yaml file and applies environment
// overrides. Missing files fall back to defaults.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		content, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return Config{}, apperr.Wrap(err, apperr.CodeConfigReadFailure, "read config", apperr.Field("path", path))
		default:
			if err := yaml.Unmarshal(content, &cfg); err != nil {
				return Config{}, apperr.Wrap(err, apperr.CodeConfigInvalidFormat, "parse config", apperr.Field("path", path))
			}
		}
	}

	applyEnv(&cfg)

	if cfg.ListenAddr == "" {
		cfg.ListenAddr = DefaultConfig().ListenAddr
	}
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = DefaultConfig().TimeoutSeconds
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultConfig().LogLevel
	}
	cfg.Endpoint = strings.TrimRight(strings.TrimSpace(cfg.Endpoint), "/")

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the values the checker depends on.
func (c Config) Validate() error {
	if c.Endpoint == "" {
		return apperr.New(apperr.CodeConfigInvalidValue, "endpoint is required")
	}
	u, err := url.Parse(c.Endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return apperr.Errorf(apperr.CodeConfigInvalidValue, "endpoint %q must be an absolute http(s) URL", c.Endpoint)
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return apperr.Errorf(apperr.CodeConfigInvalidValue, "unknown log level %q", c.LogLevel)
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v, ok := os.LookupEnv(EnvEndpoint); ok && v != "" {
		cfg.Endpoint = v
	}
	if v, ok := os.LookupEnv(EnvProjectID); ok && v != "" {
		cfg.ProjectID = v
	}
	if v, ok := os.LookupEnv(EnvProjectName); ok && v != "" {
		cfg.ProjectName = v
	}
}
