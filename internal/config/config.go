// Package config loads the report engine settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Config holds all report engine configuration.
type Config struct {
	Catalog CatalogConfig `yaml:"catalog"`
	Render  RenderConfig  `yaml:"render"`
	Logging LoggingConfig `yaml:"logging"`
}

// CatalogConfig locates the message catalog and translation bundles.
type CatalogConfig struct {
	Path         string `yaml:"path"`         // id::template or YAML file; empty uses the built-in catalog
	Translations string `yaml:"translations"` // YAML bundle file, optional
	Locale       string `yaml:"locale"`       // BCP-47 tag for the bundles
}

// RenderConfig tunes template resolution and per-recipient rendering.
type RenderConfig struct {
	IndentUnit string `yaml:"indent_unit"` // emitted once per indentation column
	MaxNesting int    `yaml:"max_nesting"` // <msg> expansion depth limit
	Workers    int    `yaml:"workers"`     // concurrent recipients rendered
}

// LoggingConfig controls the zap logger.
type LoggingConfig struct {
	Level       string `yaml:"level"` // debug, info, warn, error
	Development bool   `yaml:"development"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Catalog: CatalogConfig{
			Locale: "en",
		},
		Render: RenderConfig{
			IndentUnit: "&nbsp;",
			MaxNesting: 8,
			Workers:    4,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
// Environment overrides are applied last.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
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

func (c *Config) applyEnv() error {
	if v := os.Getenv("REPORT_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("REPORT_CATALOG"); v != "" {
		c.Catalog.Path = v
	}
	if v := os.Getenv("REPORT_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid REPORT_WORKERS=%q", v)
		}
		c.Render.Workers = n
	}
	return nil
}

// Validate checks the configuration for values the engine cannot use.
func (c *Config) Validate() error {
	if _, err := c.Language(); err != nil {
		return err
	}
	if c.Render.MaxNesting <= 0 {
		return fmt.Errorf("render.max_nesting must be positive, got %d", c.Render.MaxNesting)
	}
	if c.Render.Workers <= 0 {
		return fmt.Errorf("render.workers must be positive, got %d", c.Render.Workers)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn or error, got %q", c.Logging.Level)
	}
	return nil
}

// Language parses the configured locale.
func (c *Config) Language() (language.Tag, error) {
	tag, err := language.Parse(c.Catalog.Locale)
	if err != nil {
		return language.Und, fmt.Errorf("catalog.locale %q: %w", c.Catalog.Locale, err)
	}
	return tag, nil
}
