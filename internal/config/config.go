// Package config provides configuration management for solconnect.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mrz1836/solconnect/internal/chain"
	walleterr "github.com/mrz1836/solconnect/pkg/errors"
)

// Storage backends for the persisted session key.
const (
	StorageMemory  = "memory"
	StorageFile    = "file"
	StorageKeyring = "keyring"
)

// Config represents the application configuration.
type Config struct {
	Version int           `yaml:"version" json:"version"`
	Home    string        `yaml:"home" json:"home"`
	Cluster string        `yaml:"cluster" json:"cluster"`
	RPC     RPCConfig     `yaml:"rpc" json:"rpc"`
	Session SessionConfig `yaml:"session" json:"session"`
	Policy  PolicyConfig  `yaml:"policy" json:"policy"`
	Output  OutputConfig  `yaml:"output" json:"output"`
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// RPCConfig defines the RPC endpoint used for blockhash lookups.
type RPCConfig struct {
	// URL overrides the cluster's default endpoint when set.
	URL       string  `yaml:"url,omitempty" json:"url,omitempty"`
	RateLimit float64 `yaml:"rate_limit" json:"rate_limit"`
	Burst     int     `yaml:"burst" json:"burst"`
}

// SessionConfig defines where the last selected wallet name is persisted.
type SessionConfig struct {
	Storage    string `yaml:"storage" json:"storage"`
	StorageKey string `yaml:"storage_key" json:"storage_key"`
	File       string `yaml:"file" json:"file"`
	// PassphraseEnv names the environment variable holding the passphrase
	// that encrypts the session file. Empty disables encryption.
	PassphraseEnv string `yaml:"passphrase_env,omitempty" json:"passphrase_env,omitempty"`
}

// PolicyConfig defines connection policy knobs.
type PolicyConfig struct {
	AutoConnect               bool `yaml:"auto_connect" json:"auto_connect"`
	DisconnectOnAccountChange bool `yaml:"disconnect_on_account_change" json:"disconnect_on_account_change"`
	OpenInstallPage           bool `yaml:"open_install_page" json:"open_install_page"`
}

// OutputConfig defines output formatting settings.
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format" json:"default_format"`
	Color         string `yaml:"color" json:"color"`
	Verbose       bool   `yaml:"verbose" json:"verbose"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// Load reads configuration from the specified file.
func Load(path string) (*Config, error) {
	// #nosec G304 -- config file path is from validated user input
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, walleterr.WithCause(walleterr.ErrConfigInvalid, err)
	}

	return cfg, nil
}

// Save writes configuration to the specified file.
func Save(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o600)
}

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	if _, err := chain.ParseCluster(c.Cluster); err != nil {
		return walleterr.WithDetails(walleterr.ErrConfigInvalid, map[string]string{"cluster": c.Cluster})
	}

	switch c.Session.Storage {
	case StorageMemory, StorageFile, StorageKeyring:
	default:
		return walleterr.WithDetails(walleterr.ErrConfigInvalid, map[string]string{"session.storage": c.Session.Storage})
	}

	if strings.TrimSpace(c.Session.StorageKey) == "" {
		return walleterr.WithDetails(walleterr.ErrConfigInvalid, map[string]string{"session.storage_key": "empty"})
	}

	if c.RPC.RateLimit < 0 || c.RPC.Burst < 0 {
		return walleterr.WithDetails(walleterr.ErrConfigInvalid, map[string]string{
			"rpc.rate_limit": fmt.Sprintf("%g", c.RPC.RateLimit),
			"rpc.burst":      fmt.Sprintf("%d", c.RPC.Burst),
		})
	}

	return nil
}

// Path returns the default config file path.
func Path(home string) string {
	return filepath.Join(home, "config.yaml")
}

// GetCluster returns the configured cluster, falling back to devnet when
// the value does not parse.
func (c *Config) GetCluster() chain.Cluster {
	cl, err := chain.ParseCluster(c.Cluster)
	if err != nil {
		return chain.Devnet
	}
	return cl
}

// GetRPCURL returns the RPC endpoint, defaulting to the cluster endpoint.
func (c *Config) GetRPCURL() string {
	if c.RPC.URL != "" {
		return c.RPC.URL
	}
	return c.GetCluster().Endpoint()
}

// GetSessionFile returns the session file path with the home directory
// expanded.
func (c *Config) GetSessionFile() string {
	return ExpandHome(c.Session.File)
}

// GetLoggingLevel returns the configured logging level.
func (c *Config) GetLoggingLevel() string {
	return c.Logging.Level
}

// GetLoggingFile returns the configured log file path.
func (c *Config) GetLoggingFile() string {
	return c.Logging.File
}

// GetOutputFormat returns the default output format.
func (c *Config) GetOutputFormat() string {
	return c.Output.DefaultFormat
}

// IsVerbose returns true if verbose output is enabled.
func (c *Config) IsVerbose() bool {
	return c.Output.Verbose
}

// DefaultHome returns the default solconnect home directory.
func DefaultHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".solconnect"
	}
	return filepath.Join(home, ".solconnect")
}

// ExpandHome replaces a leading "~/" with the user's home directory.
func ExpandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
