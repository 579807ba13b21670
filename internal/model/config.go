package model

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Default configuration values.
const (
	DefaultGitHubAPIURL      = "https://api.github.com"
	DefaultLogLevel          = "info"
	DefaultRequestTimeoutSec = 15
	DefaultHandlerTimeoutSec = 60
)

// envKeyReplacer maps nested viper keys onto environment variable names.
var envKeyReplacer = strings.NewReplacer(".", "_")

// GitHubConfig holds settings for talking to the GitHub REST API.
type GitHubConfig struct {
	// APIURL is the root of the REST API (overridden in tests and for
	// GitHub Enterprise).
	APIURL string `mapstructure:"api_url" yaml:"api_url"`

	// AppID is the GitHub App identifier. Zero means no App is configured
	// and github_app integrations are skipped.
	AppID int64 `mapstructure:"app_id" yaml:"app_id"`

	// PrivateKeyPath points at the App's PEM-encoded private key.
	PrivateKeyPath string `mapstructure:"private_key_path" yaml:"private_key_path"`

	// RequestTimeoutSec bounds every individual GitHub call.
	RequestTimeoutSec int `mapstructure:"request_timeout_sec" yaml:"request_timeout_sec"`
}

// SyncConfig holds settings for the issue synchronizer.
type SyncConfig struct {
	// HandlerTimeoutSec bounds a whole lifecycle handler invocation.
	HandlerTimeoutSec int `mapstructure:"handler_timeout_sec" yaml:"handler_timeout_sec"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	DatabasePath string       `mapstructure:"database_path" yaml:"database_path"`
	LogLevel     string       `mapstructure:"log_level" yaml:"log_level"`
	GitHub       GitHubConfig `mapstructure:"github" yaml:"github"`
	Sync         SyncConfig   `mapstructure:"sync" yaml:"sync"`
}

// RequestTimeout returns the per-call GitHub timeout.
func (c *AppConfig) RequestTimeout() time.Duration {
	return time.Duration(c.GitHub.RequestTimeoutSec) * time.Second
}

// HandlerTimeout returns the bound on a single handler invocation.
func (c *AppConfig) HandlerTimeout() time.Duration {
	return time.Duration(c.Sync.HandlerTimeoutSec) * time.Second
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/kaneo-sync/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "kaneo-sync", "config.yaml")
}

// defaultDatabasePath returns ~/.local/share/kaneo-sync/kaneo.db.
func defaultDatabasePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "kaneo.db"
	}
	return filepath.Join(home, ".local", "share", "kaneo-sync", "kaneo.db")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	return &AppConfig{
		DatabasePath: defaultDatabasePath(),
		LogLevel:     DefaultLogLevel,
		GitHub: GitHubConfig{
			APIURL:            DefaultGitHubAPIURL,
			RequestTimeoutSec: DefaultRequestTimeoutSec,
		},
		Sync: SyncConfig{
			HandlerTimeoutSec: DefaultHandlerTimeoutSec,
		},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration.
// Values can be overridden with KANEO_SYNC_* environment variables
// (e.g. KANEO_SYNC_GITHUB_APP_ID).
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("kaneo_sync")
	v.SetEnvKeyReplacer(envKeyReplacer)
	v.AutomaticEnv()

	defaults := defaultAppConfig()
	v.SetDefault("database_path", defaults.DatabasePath)
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("github.api_url", defaults.GitHub.APIURL)
	v.SetDefault("github.app_id", 0)
	v.SetDefault("github.private_key_path", "")
	v.SetDefault("github.request_timeout_sec", defaults.GitHub.RequestTimeoutSec)
	v.SetDefault("sync.handler_timeout_sec", defaults.Sync.HandlerTimeoutSec)

	if err := v.ReadInConfig(); err != nil {
		_, isPathErr := err.(*os.PathError)
		_, isNotFound := err.(viper.ConfigFileNotFoundError)
		if !isPathErr && !isNotFound {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.GitHub.RequestTimeoutSec <= 0 {
		cfg.GitHub.RequestTimeoutSec = DefaultRequestTimeoutSec
	}
	if cfg.Sync.HandlerTimeoutSec <= 0 {
		cfg.Sync.HandlerTimeoutSec = DefaultHandlerTimeoutSec
	}
	if cfg.GitHub.AppID != 0 && cfg.GitHub.PrivateKeyPath == "" {
		return nil, fmt.Errorf("github.app_id is set but github.private_key_path is empty")
	}

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("database_path", cfg.DatabasePath)
	v.Set("log_level", cfg.LogLevel)
	v.Set("github", cfg.GitHub)
	v.Set("sync", cfg.Sync)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
