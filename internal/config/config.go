// Package config resolves labels-db settings from defaults, an optional TOML
// file and the environment. Command-line flags are applied by the CLI last.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml"
)

const (
	EnvConfig        = "LABELSDB_CONFIG"
	EnvLogLevel      = "LABELSDB_LOG_LEVEL"
	EnvNames         = "LABELSDB_NAMES"
	EnvResampler     = "LABELSDB_RESAMPLER"
	EnvArchiveFormat = "LABELSDB_ARCHIVE_FORMAT"

	ConfigFileName = "config.toml"
	appDir         = "labelsdb"
)

type Config struct {
	// LogLevel is left empty so the logging package can apply its own default
	LogLevel      string `toml:"log_level"`
	Names         string `toml:"names"`
	Resampler     string `toml:"resampler"`
	ArchiveFormat string `toml:"archive_format"`
	Header        string `toml:"header"`
}

var DefaultConfig = Config{
	Resampler:     "catmullrom",
	ArchiveFormat: "tar.gz",
}

// ReadConfig decodes TOML on top of the defaults. Keys absent from the file
// keep their default values.
func ReadConfig(r io.Reader) (*Config, error) {
	var file Config
	if err := toml.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("error decoding config file: %w", err)
	}

	cfg := DefaultConfig
	cfg.merge(file)
	return &cfg, nil
}

func (c *Config) merge(o Config) {
	if o.LogLevel != "" {
		c.LogLevel = o.LogLevel
	}
	if o.Names != "" {
		c.Names = o.Names
	}
	if o.Resampler != "" {
		c.Resampler = o.Resampler
	}
	if o.ArchiveFormat != "" {
		c.ArchiveFormat = o.ArchiveFormat
	}
	if o.Header != "" {
		c.Header = o.Header
	}
}

// Load reads the config file at path, falling back to LABELSDB_CONFIG and then
// the per-user default location. Only an explicitly named file must exist.
// Environment overrides are applied to the result.
func Load(path string) (*Config, error) {
	explicit := true
	if path == "" {
		path = os.Getenv(EnvConfig)
	}
	if path == "" {
		path = DefaultPath()
		explicit = false
	}

	cfg := DefaultConfig
	if path != "" {
		expanded, err := ExpandPath(path)
		if err != nil {
			return nil, err
		}
		f, err := os.Open(expanded)
		switch {
		case err == nil:
			defer f.Close()
			read, err := ReadConfig(f)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", expanded, err)
			}
			cfg = *read
		case os.IsNotExist(err) && !explicit:
		default:
			return nil, fmt.Errorf("opening config: %w", err)
		}
	}

	cfg.ApplyEnv()
	return &cfg, nil
}

// ApplyEnv overrides fields from LABELSDB_* environment variables
func (c *Config) ApplyEnv() {
	c.merge(Config{
		LogLevel:      os.Getenv(EnvLogLevel),
		Names:         os.Getenv(EnvNames),
		Resampler:     os.Getenv(EnvResampler),
		ArchiveFormat: os.Getenv(EnvArchiveFormat),
	})
}

// ExpandPath expands a leading ~ to the user's home directory
func ExpandPath(path string) (string, error) {
	res, err := homedir.Expand(path)
	if err != nil {
		return "", fmt.Errorf("expanding %q: %w", path, err)
	}
	return res, nil
}

// DefaultPath returns the per-user config file location, or "" when no
// home directory can be determined
func DefaultPath() string {
	root := ConfigRoot()
	if root == "" {
		return ""
	}
	return filepath.Join(root, ConfigFileName)
}

// ConfigRoot returns the platform config directory for labels-db
func ConfigRoot() string {
	switch runtime.GOOS {
	case "darwin":
		if home, err := homedir.Dir(); err == nil {
			return filepath.Join(home, "Library", "Application Support", appDir)
		}
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, appDir)
		}
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, appDir)
		}
		if home, err := homedir.Dir(); err == nil {
			return filepath.Join(home, ".config", appDir)
		}
	}
	return ""
}
