package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/solconnect/internal/chain"
	"github.com/mrz1836/solconnect/internal/config"
	walleterr "github.com/mrz1836/solconnect/pkg/errors"
)

func TestDefaults(t *testing.T) {
	t.Parallel()
	cfg := config.Defaults()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, chain.Devnet, cfg.GetCluster())
	assert.Equal(t, config.DefaultStorageKey, cfg.Session.StorageKey)
	assert.Equal(t, chain.Devnet.Endpoint(), cfg.GetRPCURL())
	assert.True(t, cfg.Policy.AutoConnect)
	assert.True(t, cfg.Policy.DisconnectOnAccountChange)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Parallel()
	path := config.Path(t.TempDir())

	cfg := config.Defaults()
	cfg.Cluster = string(chain.MainnetBeta)
	cfg.RPC.URL = "https://rpc.example.com"
	cfg.Session.Storage = config.StorageMemory

	require.NoError(t, config.Save(cfg, path))

	loaded, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, chain.MainnetBeta, loaded.GetCluster())
	assert.Equal(t, "https://rpc.example.com", loaded.GetRPCURL())
	assert.Equal(t, config.StorageMemory, loaded.Session.Storage)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("cluster: testnet\n"), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, chain.Testnet, cfg.GetCluster())
	assert.Equal(t, config.DefaultStorageKey, cfg.Session.StorageKey)
}

func TestLoad_InvalidYAML(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("cluster: [unterminated"), 0o600))

	_, err := config.Load(path)
	require.ErrorIs(t, err, walleterr.ErrConfigInvalid)
}

func TestValidate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"unknown cluster", func(c *config.Config) { c.Cluster = "localnet" }},
		{"unknown storage", func(c *config.Config) { c.Session.Storage = "cookie" }},
		{"empty storage key", func(c *config.Config) { c.Session.StorageKey = " " }},
		{"negative rate", func(c *config.Config) { c.RPC.RateLimit = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := config.Defaults()
			tt.mutate(cfg)
			require.ErrorIs(t, cfg.Validate(), walleterr.ErrConfigInvalid)
		})
	}
}

func TestGetCluster_FallsBackToDevnet(t *testing.T) {
	t.Parallel()
	cfg := config.Defaults()
	cfg.Cluster = "bogus"
	assert.Equal(t, chain.Devnet, cfg.GetCluster())
}
