package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
catalog:
  path: messages.txt
  locale: de
render:
  indent_unit: " "
  workers: 2
logging:
  level: debug
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "messages.txt", cfg.Catalog.Path)
	assert.Equal(t, " ", cfg.Render.IndentUnit)
	assert.Equal(t, 2, cfg.Render.Workers)
	assert.Equal(t, 8, cfg.Render.MaxNesting, "unset keys keep their defaults")
	assert.Equal(t, "debug", cfg.Logging.Level)

	tag, err := cfg.Language()
	require.NoError(t, err)
	assert.Equal(t, language.German, tag)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("REPORT_LOG_LEVEL", "warn")
	t.Setenv("REPORT_CATALOG", "/tmp/catalog.yaml")
	t.Setenv("REPORT_WORKERS", "7")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "/tmp/catalog.yaml", cfg.Catalog.Path)
	assert.Equal(t, 7, cfg.Render.Workers)

	t.Setenv("REPORT_WORKERS", "many")
	_, err = Load("")
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad locale", func(c *Config) { c.Catalog.Locale = "not a locale!" }},
		{"zero nesting", func(c *Config) { c.Render.MaxNesting = 0 }},
		{"zero workers", func(c *Config) { c.Render.Workers = 0 }},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
	assert.NoError(t, DefaultConfig().Validate())
}

func TestLoad_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.yaml")
	require.NoError(t, os.WriteFile(path, []byte("render: [unclosed"), 0o644))
	_, err := Load(path)
	require.Error(t, err)
}
