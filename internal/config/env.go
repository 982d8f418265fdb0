package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/mrz1836/go-sanitize"
)

// Environment variable names.
const (
	EnvHome         = "SOLCONNECT_HOME"
	EnvCluster      = "SOLCONNECT_CLUSTER"
	EnvRPC          = "SOLCONNECT_RPC"
	EnvStorage      = "SOLCONNECT_STORAGE"
	EnvStorageKey   = "SOLCONNECT_STORAGE_KEY"
	EnvAutoConnect  = "SOLCONNECT_AUTO_CONNECT"
	EnvOutputFormat = "SOLCONNECT_OUTPUT_FORMAT"
	EnvVerbose      = "SOLCONNECT_VERBOSE"
	EnvLogLevel     = "SOLCONNECT_LOG_LEVEL"
	EnvNoColor      = "NO_COLOR"
)

// ApplyEnvironment applies environment variable overrides to the configuration.
//
//nolint:gocyclo // Environment variable overrides require sequential checks
func ApplyEnvironment(cfg *Config) {
	if v := os.Getenv(EnvHome); v != "" {
		cfg.Home = v
	}

	if v := os.Getenv(EnvCluster); v != "" {
		cfg.Cluster = strings.ToLower(strings.TrimSpace(v))
	}

	if v := os.Getenv(EnvRPC); v != "" {
		cfg.RPC.URL = SanitizeURL(v)
	}

	if v := os.Getenv(EnvStorage); v != "" {
		cfg.Session.Storage = strings.ToLower(strings.TrimSpace(v))
	}

	if v := os.Getenv(EnvStorageKey); v != "" {
		cfg.Session.StorageKey = v
	}

	if v := os.Getenv(EnvAutoConnect); v != "" {
		cfg.Policy.AutoConnect = parseBool(v)
	}

	if v := os.Getenv(EnvOutputFormat); v != "" {
		cfg.Output.DefaultFormat = strings.ToLower(v)
	}

	if v := os.Getenv(EnvVerbose); v != "" {
		cfg.Output.Verbose = parseBool(v)
	}

	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}

	if _, ok := os.LookupEnv(EnvNoColor); ok {
		cfg.Output.Color = "never"
	}
}

// parseBool parses a boolean string value.
func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "1" || s == "true" || s == "yes" || s == "on" {
		return true
	}
	b, _ := strconv.ParseBool(s)
	return b
}

// SanitizeURL cleans a URL string by removing invalid characters and trimming whitespace.
func SanitizeURL(url string) string {
	return sanitize.URL(strings.TrimSpace(url))
}
