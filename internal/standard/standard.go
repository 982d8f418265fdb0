// Package standard models the wallet-standard discovery protocol: wallets
// expose a name, an icon, the chains they support, a map of named features
// and the accounts they have authorized.
package standard

import (
	"context"
	"slices"
	"strings"
)

// Feature names.
const (
	FeatureConnect                = "standard:connect"
	FeatureDisconnect             = "standard:disconnect"
	FeatureEvents                 = "standard:events"
	FeatureSignMessage            = "solana:signMessage"
	FeatureSignTransaction        = "solana:signTransaction"
	FeatureSignAndSendTransaction = "solana:signAndSendTransaction"
)

// EventChange is the only event emitted through the events feature.
const EventChange = "change"

// Features maps a feature name to its implementation.
type Features map[string]any

// Has reports whether name is present.
func (f Features) Has(name string) bool {
	_, ok := f[name]
	return ok
}

// Names returns the feature names in sorted order.
func (f Features) Names() []string {
	names := make([]string, 0, len(f))
	for name := range f {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Account is an account a wallet has authorized for the application.
type Account struct {
	Address   string   // base58 address
	PublicKey []byte   // raw 32-byte key
	Chains    []string // chains this account may be used on
	Features  []string // features this account may be used with
	Label     string
	Icon      string
}

// Wallet is a wallet announced through the discovery registry.
type Wallet interface {
	Name() string
	Icon() string
	Version() string
	Chains() []string
	Features() Features
	Accounts() []Account
}

// Feature returns the implementation of the named feature as T.
func Feature[T any](w Wallet, name string) (T, bool) {
	var zero T
	if w == nil {
		return zero, false
	}
	raw, ok := w.Features()[name]
	if !ok {
		return zero, false
	}
	impl, ok := raw.(T)
	return impl, ok
}

// SupportsChainPrefix reports whether any chain of w starts with prefix.
func SupportsChainPrefix(w Wallet, prefix string) bool {
	for _, c := range w.Chains() {
		if strings.HasPrefix(c, prefix) {
			return true
		}
	}
	return false
}

// ConnectInput configures standard:connect.
type ConnectInput struct {
	// Silent asks the wallet not to prompt the user.
	Silent bool
}

// ConnectOutput is the result of standard:connect.
type ConnectOutput struct {
	Accounts []Account
}

// Connector is the standard:connect feature.
type Connector interface {
	Connect(ctx context.Context, input ConnectInput) (ConnectOutput, error)
}

// Disconnector is the standard:disconnect feature.
type Disconnector interface {
	Disconnect(ctx context.Context) error
}

// ChangeEvent carries the properties of a wallet that changed. A nil
// slice or map means the property was not reported.
type ChangeEvent struct {
	Accounts []Account
	Chains   []string
	Features Features
}

// ReportsAccounts reports whether the event carries an accounts list,
// including an empty one.
func (e ChangeEvent) ReportsAccounts() bool {
	return e.Accounts != nil
}

// Events is the standard:events feature.
type Events interface {
	On(event string, listener func(ChangeEvent)) (off func())
}

// SignMessageInput is one message to sign.
type SignMessageInput struct {
	Account Account
	Message []byte
}

// SignMessageOutput is the result for one message.
type SignMessageOutput struct {
	SignedMessage []byte
	Signature     []byte
}

// MessageSigner is the solana:signMessage feature.
type MessageSigner interface {
	SignMessage(ctx context.Context, inputs ...SignMessageInput) ([]SignMessageOutput, error)
}

// SignTransactionInput is one serialized transaction to sign.
type SignTransactionInput struct {
	Account     Account
	Transaction []byte
	Chain       string
}

// SignTransactionOutput carries the signed wire bytes.
type SignTransactionOutput struct {
	SignedTransaction []byte
}

// TransactionSigner is the solana:signTransaction feature.
type TransactionSigner interface {
	SignTransaction(ctx context.Context, inputs ...SignTransactionInput) ([]SignTransactionOutput, error)
}

// SendOptions are the send options of solana:signAndSendTransaction.
type SendOptions struct {
	PreflightCommitment string
	SkipPreflight       bool
	MaxRetries          *uint
	MinContextSlot      *uint64
}

// SignAndSendTransactionInput is one serialized transaction to sign and
// submit.
type SignAndSendTransactionInput struct {
	Account     Account
	Transaction []byte
	Chain       string
	Options     SendOptions
}

// SignAndSendTransactionOutput carries the transaction signature.
type SignAndSendTransactionOutput struct {
	Signature []byte
}

// TransactionSender is the solana:signAndSendTransaction feature.
type TransactionSender interface {
	SignAndSendTransaction(ctx context.Context, inputs ...SignAndSendTransactionInput) ([]SignAndSendTransactionOutput, error)
}
