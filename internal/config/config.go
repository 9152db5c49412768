// Package config handles the XDG configuration directory and environment settings.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
)

const (
	// AppName is the application directory name.
	AppName = "doitlist"

	// DatabaseFile is the default SQLite database filename.
	DatabaseFile = "doitlist.db"

	// OAuthClientFile is the OAuth client credentials filename.
	OAuthClientFile = "oauth_client.json"

	// TokenFile is the stored OAuth token filename.
	TokenFile = "token.json"
)

// Env holds settings read from environment variables.
type Env struct {
	// StoreDriver selects the storage backend: sqlite, postgres or mysql.
	StoreDriver string `env:"DOITLIST_STORE_DRIVER" envDefault:"sqlite"`

	// StoreDSN overrides the storage connection string.
	// Empty means the SQLite file in the config directory.
	StoreDSN string `env:"DOITLIST_STORE_DSN"`

	// Addr is the listen address of the web view.
	Addr string `env:"DOITLIST_ADDR" envDefault:"127.0.0.1:3000"`

	// RepoURL is the external link shown in the web view.
	RepoURL string `env:"DOITLIST_REPO_URL" envDefault:"https://github.com/dilkhush/doitlist"`

	// OTelEndpoint enables trace export when set.
	OTelEndpoint string `env:"DOITLIST_OTEL_ENDPOINT"`
}

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool

	// Memory keeps tasks in memory only; nothing is read from or written to disk.
	Memory bool

	Env Env
}

// New creates a new Config with the default or specified config directory
// and environment settings.
// If configDir is empty, uses XDG_CONFIG_HOME/doitlist or $HOME/.config/doitlist.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	cfg := &Config{Dir: dir}
	if err := ParseEnv(&cfg.Env); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// DatabasePath returns the path to the default SQLite database.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.Dir, DatabaseFile)
}

// OAuthClientPath returns the path to the OAuth client credentials file.
func (c *Config) OAuthClientPath() string {
	return filepath.Join(c.Dir, OAuthClientFile)
}

// TokenPath returns the path to the stored OAuth token file.
func (c *Config) TokenPath() string {
	return filepath.Join(c.Dir, TokenFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// HasOAuthClient checks if the OAuth client credentials file exists.
func (c *Config) HasOAuthClient() bool {
	_, err := os.Stat(c.OAuthClientPath())
	return err == nil
}

// HasToken checks if the token file exists.
func (c *Config) HasToken() bool {
	_, err := os.Stat(c.TokenPath())
	return err == nil
}

// RemoveToken deletes the token file.
func (c *Config) RemoveToken() error {
	return os.Remove(c.TokenPath())
}
