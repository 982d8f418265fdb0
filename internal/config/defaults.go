package config

import "github.com/mrz1836/solconnect/internal/chain"

// DefaultStorageKey is the key under which the last selected wallet name
// is persisted.
const DefaultStorageKey = "walletName"

// Defaults returns the default configuration.
func Defaults() *Config {
	return &Config{
		Version: 1,
		Home:    "~/.solconnect",
		Cluster: string(chain.Devnet),
		RPC: RPCConfig{
			RateLimit: 5,
			Burst:     10,
		},
		Session: SessionConfig{
			Storage:    StorageFile,
			StorageKey: DefaultStorageKey,
			File:       "~/.solconnect/session.json",
		},
		Policy: PolicyConfig{
			AutoConnect:               true,
			DisconnectOnAccountChange: true,
			OpenInstallPage:           true,
		},
		Output: OutputConfig{
			DefaultFormat: "auto",
			Color:         "auto",
			Verbose:       false,
		},
		Logging: LoggingConfig{
			Level: "error",
			File:  "~/.solconnect/solconnect.log",
		},
	}
}
