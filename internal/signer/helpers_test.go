package signer_test

import (
	"context"
	"sync"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/solconnect/internal/chain"
	"github.com/mrz1836/solconnect/internal/connection"
	"github.com/mrz1836/solconnect/internal/standard"
	"github.com/mrz1836/solconnect/internal/standard/standardtest"
	"github.com/mrz1836/solconnect/internal/wallet"
)

type staticProvider struct {
	sess connection.Session
	err  error
}

func (p staticProvider) Session() (connection.Session, error) { return p.sess, p.err }

func standardSession(t *testing.T, w *standardtest.Wallet) staticProvider {
	t.Helper()
	info, err := wallet.NewStandardAccount(w, w.Account())
	require.NoError(t, err)
	return staticProvider{sess: connection.Session{
		Account: info,
		Source:  wallet.NewStandard(w),
		Cluster: chain.Devnet,
	}}
}

func customSession(t *testing.T, a wallet.Adapter) staticProvider {
	t.Helper()
	require.NoError(t, a.Connect(context.Background()))
	info, err := wallet.NewCustomAccount(a)
	require.NoError(t, err)
	return staticProvider{sess: connection.Session{
		Account: info,
		Source:  wallet.NewCustom(a),
		Cluster: chain.Devnet,
	}}
}

var recipient = solana.MustPublicKeyFromBase58("TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA")

func transfer(t *testing.T, payer solana.PublicKey, lamports uint64) *solana.Transaction {
	t.Helper()
	tx, err := solana.NewTransactionBuilder().
		AddInstruction(system.NewTransferInstruction(lamports, payer, recipient).Build()).
		SetRecentBlockHash(solana.Hash{}).
		SetFeePayer(payer).
		Build()
	require.NoError(t, err)
	return tx
}

// verifies reports whether tx carries a valid signature from pub.
func verifies(t *testing.T, tx *solana.Transaction, pub solana.PublicKey) bool {
	t.Helper()
	message, err := tx.Message.MarshalBinary()
	require.NoError(t, err)
	idx, err := tx.GetAccountIndex(pub)
	require.NoError(t, err)
	if int(idx) >= len(tx.Signatures) {
		return false
	}
	return tx.Signatures[idx].Verify(pub, message)
}

type fakeConn struct {
	mu    sync.Mutex
	hash  solana.Hash
	err   error
	calls int
}

func (c *fakeConn) LatestBlockhash(context.Context) (chain.Blockhash, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	if c.err != nil {
		return chain.Blockhash{}, c.err
	}
	return chain.Blockhash{Hash: c.hash, LastValidBlockHeight: 100}, nil
}

// signingAdapter is a legacy adapter that signs with a real key.
type signingAdapter struct {
	mu        sync.Mutex
	key       solana.PrivateKey
	connected bool
	sendErr   error
	sent      []*solana.Transaction
	sendOpts  []standard.SendOptions
	calls     map[string]int
}

func newSigningAdapter(t *testing.T) *signingAdapter {
	t.Helper()
	key, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)
	return &signingAdapter{key: key, calls: make(map[string]int)}
}

func (a *signingAdapter) Name() string                  { return "Legacy" }
func (a *signingAdapter) Icon() string                  { return "" }
func (a *signingAdapter) URL() string                   { return "https://legacy.example.com" }
func (a *signingAdapter) ReadyState() wallet.ReadyState { return wallet.ReadyInstalled }

func (a *signingAdapter) PublicKey() *solana.PublicKey {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.connected {
		return nil
	}
	pub := a.key.PublicKey()
	return &pub
}

func (a *signingAdapter) Connect(context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.connected = true
	return nil
}

func (a *signingAdapter) Disconnect(context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.connected = false
	return nil
}

func (a *signingAdapter) record(name string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls[name]++
}

func (a *signingAdapter) count(name string) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.calls[name]
}

func (a *signingAdapter) SignMessage(_ context.Context, message []byte) ([]byte, error) {
	a.record("signMessage")
	sig, err := a.key.Sign(message)
	if err != nil {
		return nil, err
	}
	return sig[:], nil
}

func (a *signingAdapter) SignTransaction(_ context.Context, tx *solana.Transaction) (*solana.Transaction, error) {
	a.record("signTransaction")
	return a.sign(tx)
}

func (a *signingAdapter) SendTransaction(_ context.Context, tx *solana.Transaction, opts standard.SendOptions) (solana.Signature, error) {
	a.record("sendTransaction")
	a.mu.Lock()
	a.sent = append(a.sent, tx)
	a.sendOpts = append(a.sendOpts, opts)
	err := a.sendErr
	a.mu.Unlock()
	if err != nil {
		return solana.Signature{}, err
	}
	signed, err := a.sign(tx)
	if err != nil {
		return solana.Signature{}, err
	}
	return signed.Signatures[0], nil
}

func (a *signingAdapter) sign(tx *solana.Transaction) (*solana.Transaction, error) {
	out := *tx
	out.Signatures = nil
	_, err := out.Sign(func(pub solana.PublicKey) *solana.PrivateKey {
		if pub.Equals(a.key.PublicKey()) {
			return &a.key
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// batchAdapter adds SignAllTransactions to signingAdapter.
type batchAdapter struct {
	*signingAdapter
}

func (a batchAdapter) SignAllTransactions(_ context.Context, txs []*solana.Transaction) ([]*solana.Transaction, error) {
	a.record("signAllTransactions")
	out := make([]*solana.Transaction, 0, len(txs))
	for _, tx := range txs {
		signed, err := a.sign(tx)
		if err != nil {
			return nil, err
		}
		out = append(out, signed)
	}
	return out, nil
}

// bareAdapter hides every optional capability of the adapter it wraps.
type bareAdapter struct {
	wallet.Adapter
}
