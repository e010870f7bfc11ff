// Package config provides configuration loading for the nodedb CLI.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"git.canoozie.net/riddling/nodedb/pkg/graph"
)

// Environment variables read by ApplyEnv
const (
	EnvGraphPath = "NODEDB_PATH"
	EnvLogLevel  = "LOG_LEVEL"
)

// DefaultGraphPath is where the graph lives when nothing else is configured
const DefaultGraphPath = "./data/graph.json"

// Config represents the complete nodedb configuration
type Config struct {
	Graph  GraphConfig  `yaml:"graph"`
	Log    LogConfig    `yaml:"log"`
	Decode DecodeConfig `yaml:"decode"`
	Match  MatchConfig  `yaml:"match"`

	// Overrides maps persisted type paths to their replacements on load
	Overrides map[string]string `yaml:"overrides"`
}

// GraphConfig locates the graph file
type GraphConfig struct {
	Path string `yaml:"path" validate:"required"`
}

// LogConfig configures logging
type LogConfig struct {
	// Level is one of debug, info, warn, error
	Level string `yaml:"level" validate:"required,oneof=debug info warn error"`
}

// DecodeConfig configures type resolution on load
type DecodeConfig struct {
	// Strict fails a load when a type path cannot be resolved
	Strict bool `yaml:"strict"`
	// StrictOverrides fails a load when an override is invalid
	StrictOverrides bool `yaml:"strict_overrides"`
}

// MatchConfig configures closest-match lookups
type MatchConfig struct {
	// Cutoff is the minimum similarity ratio accepted, in (0, 1]
	Cutoff float64 `yaml:"cutoff" validate:"gt=0,lte=1"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Graph: GraphConfig{Path: DefaultGraphPath},
		Log:   LogConfig{Level: "info"},
		Match: MatchConfig{Cutoff: graph.DefaultCutoff},
	}
}

var validate = validator.New()

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %s", describe(err))
	}
	return nil
}

func describe(err error) string {
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		field := strings.ToLower(e.Namespace())
		switch e.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", field))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of: %s", field, e.Param()))
		case "gt", "lte":
			msgs = append(msgs, fmt.Sprintf("%s must be in (0, 1]", field))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", field))
		}
	}
	return strings.Join(msgs, "; ")
}

// LoadFromFile reads a YAML config file on top of the defaults
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// SaveToFile writes the configuration as YAML, creating parent directories
func (c *Config) SaveToFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// ApplyEnv overrides the graph path and log level from the environment
func (c *Config) ApplyEnv() {
	if path := os.Getenv(EnvGraphPath); path != "" {
		c.Graph.Path = path
	}
	if level := os.Getenv(EnvLogLevel); level != "" {
		c.Log.Level = strings.ToLower(level)
	}
}
