package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".cartsync"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File is the YAML configuration file. Every field is optional; values
// present in the file override the built-in defaults but lose to CLI
// flags. Durations are Go duration strings ("3s", "2m30s").
type File struct {
	ListName          string `yaml:"list_name"`
	CDPURL            string `yaml:"cdp_url"`
	Environment       string `yaml:"environment"`
	EnvFile           string `yaml:"env_file"`
	SearchLimit       int    `yaml:"search_limit"`
	ItemDelay         string `yaml:"item_delay"`
	BlockPollInterval string `yaml:"block_poll_interval"`
	BlockTimeout      string `yaml:"block_timeout"`
	NavigationTimeout string `yaml:"navigation_timeout"`
	DBDir             string `yaml:"db_dir"`
	ArtifactDir       string `yaml:"artifact_dir"`
}

// LoadConfigFile loads configuration overrides from a YAML file.
// If the file does not exist, it returns ErrConfigNotFound.
// Callers should handle this error based on whether the config file path
// was explicitly specified by the user.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}
	return &cf, nil
}

// ApplyTo copies the file's non-empty values onto the config.
// CLI flags are applied after this, so flags win over the file.
func (f *File) ApplyTo(c *Config) error {
	if f.ListName != "" {
		c.ListName = f.ListName
	}
	if f.CDPURL != "" {
		c.CDPURL = f.CDPURL
	}
	if f.Environment != "" {
		c.Environment = f.Environment
	}
	if f.EnvFile != "" {
		c.EnvFile = f.EnvFile
	}
	if f.SearchLimit != 0 {
		c.SearchLimit = f.SearchLimit
	}
	if f.DBDir != "" {
		c.DBDir = f.DBDir
	}
	if f.ArtifactDir != "" {
		c.ArtifactDir = f.ArtifactDir
	}

	durations := []struct {
		raw  string
		name string
		dst  *time.Duration
	}{
		{f.ItemDelay, "item_delay", &c.ItemDelay},
		{f.BlockPollInterval, "block_poll_interval", &c.BlockPollInterval},
		{f.BlockTimeout, "block_timeout", &c.BlockTimeout},
		{f.NavigationTimeout, "navigation_timeout", &c.NavigationTimeout},
	}
	for _, d := range durations {
		if d.raw == "" {
			continue
		}
		parsed, err := time.ParseDuration(d.raw)
		if err != nil {
			return fmt.Errorf("config file %s: %w", d.name, err)
		}
		*d.dst = parsed
	}
	return nil
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .cartsync in the current directory
// 3. Look for .cartsync in the user's home directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	cwd, err := os.Getwd()
	if err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	home, err := os.UserHomeDir()
	if err == nil {
		homeConfig := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(homeConfig); err == nil {
			return homeConfig
		}
	}

	return ""
}
