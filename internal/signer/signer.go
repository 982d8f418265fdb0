// Package signer signs and sends with whichever wallet is connected. The
// facade is generic over the caller's transaction model; Legacy and Kit
// bind it to the two models in internal/sdk.
package signer

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/mrz1836/solconnect/internal/chain"
	"github.com/mrz1836/solconnect/internal/connection"
	"github.com/mrz1836/solconnect/internal/metrics"
	"github.com/mrz1836/solconnect/internal/sdk"
	"github.com/mrz1836/solconnect/internal/standard"
	"github.com/mrz1836/solconnect/internal/wallet"
	walleterr "github.com/mrz1836/solconnect/pkg/errors"
)

// Provider supplies the connected session. *connection.Store implements it.
type Provider interface {
	Session() (connection.Session, error)
}

var _ Provider = (*connection.Store)(nil)

// Option configures a facade.
type Option func(*config)

type config struct {
	metrics *metrics.Metrics
	conn    chain.Connection
}

// WithMetrics records operations on m instead of metrics.Global.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *config) { c.metrics = m }
}

// WithConnection sets the connection used when a legacy send is not given
// one.
func WithConnection(conn chain.Connection) Option {
	return func(c *config) { c.conn = conn }
}

func newConfig(opts []Option) config {
	c := config{metrics: metrics.Global}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// Facade signs messages and transactions of type T.
type Facade[T any] struct {
	provider Provider
	codec    sdk.Codec[T]
	metrics  *metrics.Metrics

	// Legacy adapters only understand object transactions.
	toLegacy   func(T) (*solana.Transaction, error)
	fromLegacy func(*solana.Transaction) (T, error)
}

func (f *Facade[T]) session() (connection.Session, error) {
	sess, err := f.provider.Session()
	if err != nil {
		return connection.Session{}, err
	}
	if sess.Account == nil || sess.Source == nil {
		return connection.Session{}, walleterr.ErrNotConnected
	}
	return sess, nil
}

// SignMessage signs message with the connected account and returns the
// signature bytes.
func (f *Facade[T]) SignMessage(ctx context.Context, message []byte) (sig []byte, err error) {
	defer func() { f.metrics.RecordOp(metrics.OpSignMsg, err) }()

	sess, err := f.session()
	if err != nil {
		return nil, err
	}

	switch src := sess.Source.(type) {
	case *wallet.StandardSource:
		signer, ok := standard.Feature[standard.MessageSigner](src.Wallet, standard.FeatureSignMessage)
		if !ok {
			return nil, missingFeature(src.Name(), standard.FeatureSignMessage)
		}
		out, err := signer.SignMessage(ctx, standard.SignMessageInput{Account: sess.Account.Account, Message: message})
		if err != nil {
			return nil, err
		}
		if len(out) != 1 {
			return nil, outputMissing(src.Name(), 1, len(out))
		}
		return out[0].Signature, nil

	case *wallet.CustomSource:
		signer, ok := src.Adapter.(wallet.MessageSigner)
		if !ok {
			return nil, missingFeature(src.Name(), "signMessage")
		}
		return signer.SignMessage(ctx, message)

	default:
		return nil, missingFeature(sess.Source.Name(), standard.FeatureSignMessage)
	}
}

// SignTransaction has the connected wallet sign tx and returns the signed
// transaction.
func (f *Facade[T]) SignTransaction(ctx context.Context, tx T) (signed T, err error) {
	defer func() { f.metrics.RecordOp(metrics.OpSignTx, err) }()

	var zero T
	sess, err := f.session()
	if err != nil {
		return zero, err
	}

	switch src := sess.Source.(type) {
	case *wallet.StandardSource:
		out, err := f.signStandard(ctx, sess, src, []T{tx})
		if err != nil {
			return zero, err
		}
		return out[0], nil

	case *wallet.CustomSource:
		signer, ok := src.Adapter.(wallet.TransactionSigner)
		if !ok {
			return zero, missingFeature(src.Name(), "signTransaction")
		}
		legacy, err := f.toLegacy(tx)
		if err != nil {
			return zero, err
		}
		res, err := signer.SignTransaction(ctx, legacy)
		if err != nil {
			return zero, err
		}
		if res == nil {
			return zero, outputMissing(src.Name(), 1, 0)
		}
		return f.fromLegacy(res)

	default:
		return zero, missingFeature(sess.Source.Name(), standard.FeatureSignTransaction)
	}
}

// SignAllTransactions signs txs in one wallet request where the wallet
// allows it. The result has the same order as txs.
func (f *Facade[T]) SignAllTransactions(ctx context.Context, txs []T) (signed []T, err error) {
	defer func() { f.metrics.RecordOp(metrics.OpSignTx, err) }()

	sess, err := f.session()
	if err != nil {
		return nil, err
	}
	if len(txs) == 0 {
		return nil, walleterr.ErrNoTransactions
	}

	switch src := sess.Source.(type) {
	case *wallet.StandardSource:
		return f.signStandard(ctx, sess, src, txs)

	case *wallet.CustomSource:
		return f.signCustomAll(ctx, src, txs)

	default:
		return nil, missingFeature(sess.Source.Name(), standard.FeatureSignTransaction)
	}
}

func (f *Facade[T]) signStandard(ctx context.Context, sess connection.Session, src *wallet.StandardSource, txs []T) ([]T, error) {
	signer, ok := standard.Feature[standard.TransactionSigner](src.Wallet, standard.FeatureSignTransaction)
	if !ok {
		return nil, missingFeature(src.Name(), standard.FeatureSignTransaction)
	}

	inputs := make([]standard.SignTransactionInput, 0, len(txs))
	for _, tx := range txs {
		wire, err := f.codec.Encode(tx)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, standard.SignTransactionInput{
			Account:     sess.Account.Account,
			Transaction: wire,
			Chain:       sess.Cluster.ChainID(),
		})
	}

	out, err := signer.SignTransaction(ctx, inputs...)
	if err != nil {
		return nil, err
	}
	if len(out) != len(txs) {
		return nil, outputMissing(src.Name(), len(txs), len(out))
	}

	signed := make([]T, 0, len(out))
	for _, o := range out {
		tx, err := f.codec.Decode(o.SignedTransaction)
		if err != nil {
			return nil, err
		}
		signed = append(signed, tx)
	}
	return signed, nil
}

func (f *Facade[T]) signCustomAll(ctx context.Context, src *wallet.CustomSource, txs []T) ([]T, error) {
	legacy := make([]*solana.Transaction, 0, len(txs))
	for _, tx := range txs {
		l, err := f.toLegacy(tx)
		if err != nil {
			return nil, err
		}
		legacy = append(legacy, l)
	}

	var res []*solana.Transaction
	switch a := src.Adapter.(type) {
	case wallet.BatchSigner:
		out, err := a.SignAllTransactions(ctx, legacy)
		if err != nil {
			return nil, err
		}
		res = out
	case wallet.TransactionSigner:
		for _, l := range legacy {
			out, err := a.SignTransaction(ctx, l)
			if err != nil {
				return nil, err
			}
			res = append(res, out)
		}
	default:
		return nil, missingFeature(src.Name(), "signAllTransactions")
	}
	if len(res) != len(txs) {
		return nil, outputMissing(src.Name(), len(txs), len(res))
	}

	signed := make([]T, 0, len(res))
	for _, l := range res {
		if l == nil {
			return nil, outputMissing(src.Name(), len(txs), len(signed))
		}
		tx, err := f.fromLegacy(l)
		if err != nil {
			return nil, err
		}
		signed = append(signed, tx)
	}
	return signed, nil
}

func missingFeature(walletName, feature string) error {
	return walleterr.WithDetails(walleterr.ErrSignCapabilityMissing, map[string]string{
		"wallet":  walletName,
		"feature": feature,
	})
}

func outputMissing(walletName string, want, got int) error {
	return walleterr.WithDetails(walleterr.ErrSignOutputMissing, map[string]string{
		"wallet":   walletName,
		"expected": fmt.Sprint(want),
		"returned": fmt.Sprint(got),
	})
}

func sendFailure(walletName string, err error) error {
	return walleterr.WithDetails(walleterr.WithCause(walleterr.ErrSendFailure, err), map[string]string{"wallet": walletName})
}

func signatureFrom(walletName string, raw []byte) (solana.Signature, error) {
	if len(raw) != solana.SignatureLength {
		return solana.Signature{}, walleterr.WithDetails(walleterr.ErrSignOutputMissing, map[string]string{
			"wallet": walletName,
			"reason": fmt.Sprintf("signature has %d bytes", len(raw)),
		})
	}
	return solana.SignatureFromBytes(raw), nil
}
