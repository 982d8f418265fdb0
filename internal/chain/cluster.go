// Package chain describes the Solana clusters a session can target and
// the RPC connection used to fetch recent blockhashes.
package chain

import (
	"fmt"
	"strings"

	"github.com/gagliardetto/solana-go/rpc"
)

// Cluster identifies a Solana network environment.
type Cluster string

// Supported clusters.
const (
	Devnet      Cluster = "devnet"
	Testnet     Cluster = "testnet"
	MainnetBeta Cluster = "mainnet-beta"
)

// Wallet-standard chain identifiers.
const (
	ChainDevnet  = "solana:devnet"
	ChainTestnet = "solana:testnet"
	ChainMainnet = "solana:mainnet"

	// ChainPrefix is shared by every Solana chain identifier.
	ChainPrefix = "solana:"
)

// ErrUnknownCluster is returned by ParseCluster for unrecognized names.
var ErrUnknownCluster = fmt.Errorf("unknown cluster")

// Clusters lists every supported cluster.
func Clusters() []Cluster {
	return []Cluster{Devnet, Testnet, MainnetBeta}
}

// ParseCluster parses a cluster name. "mainnet" is accepted as an alias
// for mainnet-beta.
func ParseCluster(s string) (Cluster, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "devnet":
		return Devnet, nil
	case "testnet":
		return Testnet, nil
	case "mainnet-beta", "mainnet":
		return MainnetBeta, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownCluster, s)
	}
}

// ChainID returns the wallet-standard chain identifier for the cluster.
func (c Cluster) ChainID() string {
	switch c {
	case Testnet:
		return ChainTestnet
	case MainnetBeta:
		return ChainMainnet
	default:
		return ChainDevnet
	}
}

// Endpoint returns the public RPC endpoint for the cluster.
func (c Cluster) Endpoint() string {
	switch c {
	case Testnet:
		return rpc.TestNet_RPC
	case MainnetBeta:
		return rpc.MainNetBeta_RPC
	default:
		return rpc.DevNet_RPC
	}
}

// IsSolanaChain reports whether id is a Solana wallet-standard chain.
func IsSolanaChain(id string) bool {
	return strings.HasPrefix(id, ChainPrefix)
}
