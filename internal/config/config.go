// Package config resolves runtime settings from defaults, an optional TOML
// file, and ROADMAP_* environment variables. Command-line flags are applied
// last by the CLI.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Storage backends for the progress slot.
const (
	StorageSQLite = "sqlite"
	StorageFile   = "file"
	StorageMemory = "memory"
)

const (
	DefaultStorageKey = "roadmap_progress_v1"
	DefaultServeAddr  = "127.0.0.1:8080"
	dateLayout        = "2006-01-02"
)

type Config struct {
	ContentPath string `toml:"content_path"`
	Storage     string `toml:"storage"`
	DBPath      string `toml:"db_path"`
	StateFile   string `toml:"state_file"`
	StorageKey  string `toml:"storage_key"`
	StartDate   string `toml:"start_date"`

	LogLevel    string `toml:"log_level"`
	LogFormat   string `toml:"log_format"`
	LogUseCases bool   `toml:"log_use_cases"`

	Serve  ServeConfig  `toml:"serve"`
	Export ExportConfig `toml:"export"`
}

type ServeConfig struct {
	Addr string `toml:"addr"`
}

type ExportConfig struct {
	Dir string `toml:"dir"`
}

// DataDir returns ~/.roadmap, or .roadmap when the home directory is unknown.
func DataDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".roadmap"
	}
	return filepath.Join(home, ".roadmap")
}

// Default returns a Config with every path under DataDir.
func Default() Config {
	dir := DataDir()
	return Config{
		ContentPath: filepath.Join(dir, "roadmap.json"),
		Storage:     StorageSQLite,
		DBPath:      filepath.Join(dir, "roadmap.db"),
		StateFile:   filepath.Join(dir, "progress.json"),
		StorageKey:  DefaultStorageKey,
		LogLevel:    "warn",
		LogFormat:   "text",
		Serve:       ServeConfig{Addr: DefaultServeAddr},
		Export:      ExportConfig{Dir: filepath.Join(dir, "site")},
	}
}

// DefaultFile is the config file read when no explicit path is given.
func DefaultFile() string {
	return filepath.Join(DataDir(), "config.toml")
}

// Load builds the effective configuration. An explicit path must exist; the
// default file is optional. ROADMAP_CONFIG names the file when path is empty.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		if v := os.Getenv("ROADMAP_CONFIG"); v != "" {
			path, explicit = v, true
		} else {
			path = DefaultFile()
		}
	}

	if err := loadFile(&cfg, path); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return cfg, err
		}
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func loadFile(cfg *Config, path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("config file %s: %w", path, err)
	}
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("config file %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return nil
}

// applyEnv overrides values from ROADMAP_* environment variables, ignoring
// empty and unparsable values.
func applyEnv(cfg *Config) {
	setString(&cfg.ContentPath, "ROADMAP_CONTENT")
	setString(&cfg.Storage, "ROADMAP_STORAGE")
	setString(&cfg.DBPath, "ROADMAP_DB")
	setString(&cfg.StateFile, "ROADMAP_STATE_FILE")
	setString(&cfg.StorageKey, "ROADMAP_STORAGE_KEY")
	setString(&cfg.StartDate, "ROADMAP_START_DATE")
	setString(&cfg.LogLevel, "ROADMAP_LOG_LEVEL")
	setString(&cfg.LogFormat, "ROADMAP_LOG_FORMAT")
	setString(&cfg.Serve.Addr, "ROADMAP_SERVE_ADDR")
	setString(&cfg.Export.Dir, "ROADMAP_EXPORT_DIR")

	if v := os.Getenv("ROADMAP_LOG_USE_CASES"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.LogUseCases = b
		}
	}
}

func setString(dst *string, env string) {
	if v := strings.TrimSpace(os.Getenv(env)); v != "" {
		*dst = v
	}
}

// Validate rejects values no component can act on.
func (c Config) Validate() error {
	switch c.Storage {
	case StorageSQLite, StorageFile, StorageMemory:
	default:
		return fmt.Errorf("storage: invalid value %q (expected sqlite, file or memory)", c.Storage)
	}
	if c.StorageKey == "" {
		return fmt.Errorf("storage_key is required")
	}
	switch c.LogFormat {
	case "text", "json", "logfmt":
	default:
		return fmt.Errorf("log_format: invalid value %q (expected text, json or logfmt)", c.LogFormat)
	}
	if c.StartDate != "" {
		if _, err := time.Parse(dateLayout, c.StartDate); err != nil {
			return fmt.Errorf("start_date: invalid date format %q (expected YYYY-MM-DD)", c.StartDate)
		}
	}
	return nil
}

// Start returns the parsed calendar anchor, if one is configured.
func (c Config) Start() (time.Time, bool) {
	if c.StartDate == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(dateLayout, c.StartDate)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
