// Package standardtest provides an in-memory wallet-standard wallet that
// signs with a real ed25519 key, for tests of the registry, connection
// and signing layers.
package standardtest

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"

	"github.com/mrz1836/solconnect/internal/standard"
)

// DefaultChains are the chains a new Wallet reports.
var DefaultChains = []string{"solana:devnet", "solana:testnet", "solana:mainnet"}

// ErrRejected is returned by a Wallet configured to reject a call.
var ErrRejected = errors.New("user rejected the request")

// Wallet is a scriptable standard.Wallet. By default it supports every
// feature, connects with its own key's account, and signs honestly.
type Wallet struct {
	name    string
	icon    string
	version string
	chains  []string
	key     solana.PrivateKey

	mu        sync.Mutex
	features  standard.Features
	accounts  []standard.Account
	listeners map[uint64]func(standard.ChangeEvent)
	nextID    uint64
	calls     map[string]int
	sent      [][]byte

	// Hooks override the default behavior when set.
	ConnectFunc     func(ctx context.Context) ([]standard.Account, error)
	DisconnectFunc  func(ctx context.Context) error
	SignMessageFunc func(ctx context.Context, inputs []standard.SignMessageInput) ([]standard.SignMessageOutput, error)
	SignTxFunc      func(ctx context.Context, inputs []standard.SignTransactionInput) ([]standard.SignTransactionOutput, error)
	SignAndSendFunc func(ctx context.Context, inputs []standard.SignAndSendTransactionInput) ([]standard.SignAndSendTransactionOutput, error)
}

// Option configures a Wallet.
type Option func(*Wallet)

// WithIcon sets the icon.
func WithIcon(icon string) Option {
	return func(w *Wallet) { w.icon = icon }
}

// WithChains replaces the supported chains.
func WithChains(chains ...string) Option {
	return func(w *Wallet) { w.chains = chains }
}

// WithoutFeatures removes features.
func WithoutFeatures(names ...string) Option {
	return func(w *Wallet) {
		for _, n := range names {
			delete(w.features, n)
		}
	}
}

// New creates a wallet with a fresh random key.
func New(name string, opts ...Option) *Wallet {
	key, err := solana.NewRandomPrivateKey()
	if err != nil {
		panic(fmt.Sprintf("generating test key: %v", err))
	}

	w := &Wallet{
		name:      name,
		icon:      "data:image/svg+xml;base64,PHN2Zy8+",
		version:   "1.0.0",
		chains:    slices.Clone(DefaultChains),
		key:       key,
		listeners: make(map[uint64]func(standard.ChangeEvent)),
		calls:     make(map[string]int),
	}
	w.features = standard.Features{
		standard.FeatureConnect:                w,
		standard.FeatureDisconnect:             w,
		standard.FeatureEvents:                 w,
		standard.FeatureSignMessage:            w,
		standard.FeatureSignTransaction:        w,
		standard.FeatureSignAndSendTransaction: w,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Name implements standard.Wallet.
func (w *Wallet) Name() string { return w.name }

// Icon implements standard.Wallet.
func (w *Wallet) Icon() string { return w.icon }

// Version implements standard.Wallet.
func (w *Wallet) Version() string { return w.version }

// Chains implements standard.Wallet.
func (w *Wallet) Chains() []string { return slices.Clone(w.chains) }

// Features implements standard.Wallet.
func (w *Wallet) Features() standard.Features {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make(standard.Features, len(w.features))
	for k, v := range w.features {
		out[k] = v
	}
	return out
}

// RemoveFeatures drops features after construction, as a wallet does when
// it revokes capabilities.
func (w *Wallet) RemoveFeatures(names ...string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, n := range names {
		delete(w.features, n)
	}
}

// Accounts implements standard.Wallet.
func (w *Wallet) Accounts() []standard.Account {
	w.mu.Lock()
	defer w.mu.Unlock()
	return slices.Clone(w.accounts)
}

// PublicKey returns the key the wallet signs with.
func (w *Wallet) PublicKey() solana.PublicKey {
	return w.key.PublicKey()
}

// Account returns the account for the wallet's own key.
func (w *Wallet) Account() standard.Account {
	pub := w.key.PublicKey()
	return AccountFor(pub, w.chains...)
}

// AccountFor builds an account for pub.
func AccountFor(pub solana.PublicKey, chains ...string) standard.Account {
	return standard.Account{
		Address:   pub.String(),
		PublicKey: pub.Bytes(),
		Chains:    chains,
		Features: []string{
			standard.FeatureSignMessage,
			standard.FeatureSignTransaction,
			standard.FeatureSignAndSendTransaction,
		},
	}
}

// Calls returns how often the named feature was invoked.
func (w *Wallet) Calls(feature string) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.calls[feature]
}

// Sent returns the wire transactions passed to signAndSendTransaction.
func (w *Wallet) Sent() [][]byte {
	w.mu.Lock()
	defer w.mu.Unlock()
	return slices.Clone(w.sent)
}

// Listeners returns the number of attached change listeners.
func (w *Wallet) Listeners() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.listeners)
}

// Emit fires a change event to every listener.
func (w *Wallet) Emit(ev standard.ChangeEvent) {
	w.mu.Lock()
	if ev.Accounts != nil {
		w.accounts = slices.Clone(ev.Accounts)
	}
	ids := make([]uint64, 0, len(w.listeners))
	for id := range w.listeners {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	listeners := make([]func(standard.ChangeEvent), 0, len(ids))
	for _, id := range ids {
		listeners = append(listeners, w.listeners[id])
	}
	w.mu.Unlock()

	for _, l := range listeners {
		l(ev)
	}
}

func (w *Wallet) record(feature string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.calls[feature]++
}

// Connect implements standard.Connector.
func (w *Wallet) Connect(ctx context.Context, _ standard.ConnectInput) (standard.ConnectOutput, error) {
	w.record(standard.FeatureConnect)

	var (
		accounts []standard.Account
		err      error
	)
	if w.ConnectFunc != nil {
		accounts, err = w.ConnectFunc(ctx)
	} else {
		accounts = []standard.Account{w.Account()}
	}
	if err != nil {
		return standard.ConnectOutput{}, err
	}

	w.mu.Lock()
	w.accounts = slices.Clone(accounts)
	w.mu.Unlock()
	return standard.ConnectOutput{Accounts: accounts}, nil
}

// Disconnect implements standard.Disconnector.
func (w *Wallet) Disconnect(ctx context.Context) error {
	w.record(standard.FeatureDisconnect)
	if w.DisconnectFunc != nil {
		return w.DisconnectFunc(ctx)
	}
	w.mu.Lock()
	w.accounts = nil
	w.mu.Unlock()
	return nil
}

// On implements standard.Events.
func (w *Wallet) On(event string, listener func(standard.ChangeEvent)) func() {
	if event != standard.EventChange {
		return func() {}
	}

	w.mu.Lock()
	id := w.nextID
	w.nextID++
	w.listeners[id] = listener
	w.mu.Unlock()

	return func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		delete(w.listeners, id)
	}
}

// SignMessage implements standard.MessageSigner.
func (w *Wallet) SignMessage(ctx context.Context, inputs ...standard.SignMessageInput) ([]standard.SignMessageOutput, error) {
	w.record(standard.FeatureSignMessage)
	if w.SignMessageFunc != nil {
		return w.SignMessageFunc(ctx, inputs)
	}

	out := make([]standard.SignMessageOutput, 0, len(inputs))
	for _, in := range inputs {
		sig, err := w.key.Sign(in.Message)
		if err != nil {
			return nil, err
		}
		out = append(out, standard.SignMessageOutput{SignedMessage: in.Message, Signature: sig[:]})
	}
	return out, nil
}

// SignTransaction implements standard.TransactionSigner.
func (w *Wallet) SignTransaction(ctx context.Context, inputs ...standard.SignTransactionInput) ([]standard.SignTransactionOutput, error) {
	w.record(standard.FeatureSignTransaction)
	if w.SignTxFunc != nil {
		return w.SignTxFunc(ctx, inputs)
	}

	out := make([]standard.SignTransactionOutput, 0, len(inputs))
	for _, in := range inputs {
		signed, _, err := w.sign(in.Transaction)
		if err != nil {
			return nil, err
		}
		out = append(out, standard.SignTransactionOutput{SignedTransaction: signed})
	}
	return out, nil
}

// SignAndSendTransaction implements standard.TransactionSender.
func (w *Wallet) SignAndSendTransaction(ctx context.Context, inputs ...standard.SignAndSendTransactionInput) ([]standard.SignAndSendTransactionOutput, error) {
	w.record(standard.FeatureSignAndSendTransaction)
	w.mu.Lock()
	for _, in := range inputs {
		w.sent = append(w.sent, slices.Clone(in.Transaction))
	}
	w.mu.Unlock()

	if w.SignAndSendFunc != nil {
		return w.SignAndSendFunc(ctx, inputs)
	}

	out := make([]standard.SignAndSendTransactionOutput, 0, len(inputs))
	for _, in := range inputs {
		_, sig, err := w.sign(in.Transaction)
		if err != nil {
			return nil, err
		}
		out = append(out, standard.SignAndSendTransactionOutput{Signature: sig[:]})
	}
	return out, nil
}

// sign decodes wire bytes, fills the wallet's signature slot and
// re-encodes the transaction.
func (w *Wallet) sign(wire []byte) ([]byte, solana.Signature, error) {
	tx, err := solana.TransactionFromDecoder(bin.NewBinDecoder(wire))
	if err != nil {
		return nil, solana.Signature{}, fmt.Errorf("decoding transaction: %w", err)
	}

	message, err := tx.Message.MarshalBinary()
	if err != nil {
		return nil, solana.Signature{}, fmt.Errorf("encoding message: %w", err)
	}

	idx, err := tx.GetAccountIndex(w.key.PublicKey())
	if err != nil || int(idx) >= int(tx.Message.Header.NumRequiredSignatures) {
		return nil, solana.Signature{}, fmt.Errorf("%s is not a signer of this transaction", w.key.PublicKey())
	}

	sig, err := w.key.Sign(message)
	if err != nil {
		return nil, solana.Signature{}, err
	}
	for len(tx.Signatures) < int(tx.Message.Header.NumRequiredSignatures) {
		tx.Signatures = append(tx.Signatures, solana.Signature{})
	}
	tx.Signatures[idx] = sig

	signed, err := tx.MarshalBinary()
	if err != nil {
		return nil, solana.Signature{}, err
	}
	return signed, sig, nil
}
