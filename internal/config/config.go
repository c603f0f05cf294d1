// Package config handles global configuration and API credentials.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// GlobalConfig represents configuration stored in ~/.config/litshelf/config.yml.
type GlobalConfig struct {
	APIKey      string `yaml:"api_key,omitempty"`
	BaseURL     string `yaml:"base_url,omitempty"`
	Model       string `yaml:"model,omitempty"`
	Separator   string `yaml:"separator,omitempty"`
	DedupPolicy string `yaml:"dedup_policy,omitempty"`
	Database    string `yaml:"database,omitempty"`
}

const (
	// GlobalConfigDir is the directory name under XDG_CONFIG_HOME.
	GlobalConfigDir = "litshelf"
	// GlobalConfigFile is the config file name.
	GlobalConfigFile = "config.yml"
	// DatabaseFile is the default catalog database file name.
	DatabaseFile = "catalog.db"
)

// APIKeyEnv overrides the configured API key when set.
const APIKeyEnv = "LITSHELF_API_KEY"

// ErrAPIKeyMissing signals that no API key was found in the environment or
// the global config. LLM-backed commands cannot run without one.
var ErrAPIKeyMissing = errors.New("API key not configured")

// globalConfigCache caches the loaded global config.
var globalConfigCache *GlobalConfig

// GlobalConfigPath returns the path to the global config file.
// Respects XDG_CONFIG_HOME, defaults to ~/.config/litshelf/config.yml.
func GlobalConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, GlobalConfigDir, GlobalConfigFile)
}

// DefaultDatabasePath returns the default catalog database location,
// ~/.local/share/litshelf/catalog.db, respecting XDG_DATA_HOME.
func DefaultDatabasePath() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return DatabaseFile
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, GlobalConfigDir, DatabaseFile)
}

// LoadGlobalConfig loads the global configuration file.
// Returns an empty config (not an error) if the file doesn't exist.
func LoadGlobalConfig() (*GlobalConfig, error) {
	if globalConfigCache != nil {
		return globalConfigCache, nil
	}

	path := GlobalConfigPath()
	if path == "" {
		return &GlobalConfig{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &GlobalConfig{}, nil
		}
		return nil, fmt.Errorf("reading global config: %w", err)
	}

	var cfg GlobalConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing global config: %w", err)
	}

	globalConfigCache = &cfg
	return &cfg, nil
}

// ResetGlobalConfigCache clears the cached global config.
// Useful for testing.
func ResetGlobalConfigCache() {
	globalConfigCache = nil
}

// ResolveAPIKey returns the API key for LLM calls. The environment variable
// takes precedence over the config file; OPENAI_API_KEY is accepted as a
// fallback. Returns ErrAPIKeyMissing when nothing is set.
func ResolveAPIKey() (string, error) {
	if key := os.Getenv(APIKeyEnv); key != "" {
		return key, nil
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return key, nil
	}

	cfg, err := LoadGlobalConfig()
	if err != nil {
		return "", err
	}
	if cfg.APIKey != "" {
		return cfg.APIKey, nil
	}

	return "", fmt.Errorf("%w: set %s or api_key in %s", ErrAPIKeyMissing, APIKeyEnv, GlobalConfigPath())
}

// GetBaseURL returns the configured LLM endpoint, or empty for the default.
func GetBaseURL() string {
	cfg, _ := LoadGlobalConfig()
	return cfg.BaseURL
}

// GetModel returns the configured model name, or empty for the default.
func GetModel() string {
	cfg, _ := LoadGlobalConfig()
	return cfg.Model
}

// GetSeparator returns the configured filename separator, or empty for the
// default.
func GetSeparator() string {
	cfg, _ := LoadGlobalConfig()
	return cfg.Separator
}

// GetDedupPolicy returns the configured duplicate policy name, or empty for
// the default.
func GetDedupPolicy() string {
	cfg, _ := LoadGlobalConfig()
	return cfg.DedupPolicy
}

// GetDatabase returns the configured catalog database path, or empty for the
// default.
func GetDatabase() string {
	cfg, _ := LoadGlobalConfig()
	return cfg.Database
}
