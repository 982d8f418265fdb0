package chain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/solconnect/internal/chain"
)

func TestParseCluster(t *testing.T) {
	t.Parallel()
	tests := []struct {
		input    string
		expected chain.Cluster
		wantErr  bool
	}{
		{"devnet", chain.Devnet, false},
		{" Testnet ", chain.Testnet, false},
		{"mainnet-beta", chain.MainnetBeta, false},
		{"mainnet", chain.MainnetBeta, false},
		{"localnet", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			got, err := chain.ParseCluster(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, chain.ErrUnknownCluster)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestCluster_ChainIDAndEndpoint(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "solana:devnet", chain.Devnet.ChainID())
	assert.Equal(t, "solana:testnet", chain.Testnet.ChainID())
	assert.Equal(t, "solana:mainnet", chain.MainnetBeta.ChainID())

	assert.Equal(t, "https://api.devnet.solana.com", chain.Devnet.Endpoint())
	assert.Equal(t, "https://api.mainnet-beta.solana.com", chain.MainnetBeta.Endpoint())
	assert.Len(t, chain.Clusters(), 3)
}

func TestIsSolanaChain(t *testing.T) {
	t.Parallel()
	assert.True(t, chain.IsSolanaChain("solana:mainnet"))
	assert.False(t, chain.IsSolanaChain("eip155:1"))
}
