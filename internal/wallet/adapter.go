package wallet

import (
	"context"

	"github.com/gagliardetto/solana-go"

	"github.com/mrz1836/solconnect/internal/standard"
)

// ReadyState is the availability of a legacy adapter.
type ReadyState string

// Ready states.
const (
	ReadyInstalled   ReadyState = "Installed"
	ReadyLoadable    ReadyState = "Loadable"
	ReadyNotDetected ReadyState = "NotDetected"
	ReadyUnsupported ReadyState = "Unsupported"
)

// Usable reports whether a connect may be attempted.
func (r ReadyState) Usable() bool {
	return r == ReadyInstalled || r == ReadyLoadable
}

// Adapter is a legacy wallet integration with a bespoke API.
type Adapter interface {
	Name() string
	Icon() string
	// URL is the wallet's install page.
	URL() string
	ReadyState() ReadyState
	// PublicKey returns the connected key, or nil.
	PublicKey() *solana.PublicKey
	Connect(ctx context.Context) error
	Disconnect(ctx context.Context) error
}

// MessageSigner is implemented by adapters that sign arbitrary messages.
type MessageSigner interface {
	SignMessage(ctx context.Context, message []byte) ([]byte, error)
}

// TransactionSigner is implemented by adapters that sign transactions.
type TransactionSigner interface {
	SignTransaction(ctx context.Context, tx *solana.Transaction) (*solana.Transaction, error)
}

// BatchSigner is implemented by adapters that sign several transactions
// with one prompt.
type BatchSigner interface {
	SignAllTransactions(ctx context.Context, txs []*solana.Transaction) ([]*solana.Transaction, error)
}

// TransactionSender is implemented by adapters that sign and submit.
type TransactionSender interface {
	SendTransaction(ctx context.Context, tx *solana.Transaction, opts standard.SendOptions) (solana.Signature, error)
}
