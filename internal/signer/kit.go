package signer

import (
	"context"

	"github.com/gagliardetto/solana-go"

	"github.com/mrz1836/solconnect/internal/connection"
	"github.com/mrz1836/solconnect/internal/metrics"
	"github.com/mrz1836/solconnect/internal/sdk"
	"github.com/mrz1836/solconnect/internal/standard"
	"github.com/mrz1836/solconnect/internal/wallet"
	walleterr "github.com/mrz1836/solconnect/pkg/errors"
)

// Kit is the facade for callers that hold compiled *sdk.Transaction values.
type Kit struct {
	Facade[*sdk.Transaction]
}

// NewKit creates a kit facade reading the session from p.
func NewKit(p Provider, opts ...Option) *Kit {
	cfg := newConfig(opts)
	return &Kit{Facade: Facade[*sdk.Transaction]{
		provider:   p,
		codec:      sdk.Kit{},
		metrics:    cfg.metrics,
		toLegacy:   sdk.ToLegacy,
		fromLegacy: sdk.FromLegacy,
	}}
}

// SendTransaction returns a signer bound to the connected account.
func (k *Kit) SendTransaction() (*TransactionSendingSigner, error) {
	sess, err := k.session()
	if err != nil {
		return nil, err
	}
	return &TransactionSendingSigner{Address: sess.Account.Address, session: sess, metrics: k.metrics}, nil
}

// SendConfig tunes a TransactionSendingSigner call.
type SendConfig struct {
	MinContextSlot *uint64
}

// TransactionSendingSigner signs and submits in one wallet call.
type TransactionSendingSigner struct {
	Address solana.PublicKey

	session connection.Session
	metrics *metrics.Metrics
}

// SignAndSendTransactions submits the first transaction in txs and returns
// the signatures the wallet reports. A done ctx fails before any work.
func (s *TransactionSendingSigner) SignAndSendTransactions(ctx context.Context, txs []*sdk.Transaction, cfg SendConfig) (sigs []solana.Signature, err error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	defer func() { s.metrics.RecordOp(metrics.OpSend, err) }()

	if len(txs) == 0 {
		return nil, walleterr.ErrNoTransactions
	}
	wire, err := sdk.EncodeTransaction(txs[0])
	if err != nil {
		return nil, err
	}
	opts := standard.SendOptions{MinContextSlot: cfg.MinContextSlot}

	switch src := s.session.Source.(type) {
	case *wallet.StandardSource:
		sender, ok := standard.Feature[standard.TransactionSender](src.Wallet, standard.FeatureSignAndSendTransaction)
		if !ok {
			return nil, missingFeature(src.Name(), standard.FeatureSignAndSendTransaction)
		}
		out, err := sender.SignAndSendTransaction(ctx, standard.SignAndSendTransactionInput{
			Account:     s.session.Account.Account,
			Transaction: wire,
			Chain:       s.session.Cluster.ChainID(),
			Options:     opts,
		})
		if err != nil {
			return nil, sendFailure(src.Name(), err)
		}
		if len(out) == 0 {
			return nil, outputMissing(src.Name(), 1, 0)
		}
		sigs := make([]solana.Signature, 0, len(out))
		for _, o := range out {
			sig, err := signatureFrom(src.Name(), o.Signature)
			if err != nil {
				return nil, err
			}
			sigs = append(sigs, sig)
		}
		return sigs, nil

	case *wallet.CustomSource:
		sender, ok := src.Adapter.(wallet.TransactionSender)
		if !ok {
			return nil, missingFeature(src.Name(), "sendTransaction")
		}
		legacy, err := sdk.Legacy{}.Decode(wire)
		if err != nil {
			return nil, err
		}
		sig, err := sender.SendTransaction(ctx, legacy, opts)
		if err != nil {
			return nil, sendFailure(src.Name(), err)
		}
		return []solana.Signature{sig}, nil

	default:
		return nil, missingFeature(s.session.Source.Name(), standard.FeatureSignAndSendTransaction)
	}
}
