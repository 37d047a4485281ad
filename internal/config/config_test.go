package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, k := range []string{
		"ROADMAP_CONFIG", "ROADMAP_CONTENT", "ROADMAP_STORAGE", "ROADMAP_DB",
		"ROADMAP_STATE_FILE", "ROADMAP_STORAGE_KEY", "ROADMAP_START_DATE",
		"ROADMAP_LOG_LEVEL", "ROADMAP_LOG_FORMAT", "ROADMAP_LOG_USE_CASES",
		"ROADMAP_SERVE_ADDR", "ROADMAP_EXPORT_DIR",
	} {
		t.Setenv(k, "")
	}
	return home
}

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	home := isolate(t)
	cfg := Default()

	assert.Equal(t, StorageSQLite, cfg.Storage)
	assert.Equal(t, "roadmap_progress_v1", cfg.StorageKey)
	assert.Equal(t, filepath.Join(home, ".roadmap", "roadmap.db"), cfg.DBPath)
	assert.Equal(t, filepath.Join(home, ".roadmap", "roadmap.json"), cfg.ContentPath)
	assert.Equal(t, DefaultServeAddr, cfg.Serve.Addr)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_NoFileUsesDefaults(t *testing.T) {
	isolate(t)
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_DefaultFile(t *testing.T) {
	home := isolate(t)
	writeConfig(t, filepath.Join(home, ".roadmap"), `
storage = "file"
start_date = "2026-01-05"

[serve]
addr = "127.0.0.1:9999"
`)
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, StorageFile, cfg.Storage)
	assert.Equal(t, "127.0.0.1:9999", cfg.Serve.Addr)
	start, ok := cfg.Start()
	require.True(t, ok)
	assert.Equal(t, time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC), start)
}

func TestLoad_ExplicitMissingFileFails(t *testing.T) {
	isolate(t)
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_ConfigEnvNamesFile(t *testing.T) {
	isolate(t)
	path := writeConfig(t, t.TempDir(), `storage_key = "custom"`)
	t.Setenv("ROADMAP_CONFIG", path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "custom", cfg.StorageKey)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	isolate(t)
	path := writeConfig(t, t.TempDir(), `
storage = "file"
log_level = "info"
`)
	t.Setenv("ROADMAP_STORAGE", "memory")
	t.Setenv("ROADMAP_LOG_USE_CASES", "true")
	t.Setenv("ROADMAP_EXPORT_DIR", "/tmp/site")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, StorageMemory, cfg.Storage)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.True(t, cfg.LogUseCases)
	assert.Equal(t, "/tmp/site", cfg.Export.Dir)
}

func TestLoad_BadEnvBoolIgnored(t *testing.T) {
	isolate(t)
	t.Setenv("ROADMAP_LOG_USE_CASES", "maybe")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.False(t, cfg.LogUseCases)
}

func TestLoad_UnknownKeys(t *testing.T) {
	isolate(t)
	path := writeConfig(t, t.TempDir(), `colour = "blue"`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "colour")
}

func TestLoad_MalformedTOML(t *testing.T) {
	isolate(t)
	path := writeConfig(t, t.TempDir(), `storage = `)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	isolate(t)
	cases := map[string]func(*Config){
		"storage":     func(c *Config) { c.Storage = "redis" },
		"storage key": func(c *Config) { c.StorageKey = "" },
		"log format":  func(c *Config) { c.LogFormat = "xml" },
		"start date":  func(c *Config) { c.StartDate = "05/01/2026" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestStart_Unset(t *testing.T) {
	_, ok := Config{}.Start()
	assert.False(t, ok)
}
