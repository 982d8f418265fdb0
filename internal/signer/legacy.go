package signer

import (
	"context"

	"github.com/gagliardetto/solana-go"

	"github.com/mrz1836/solconnect/internal/chain"
	"github.com/mrz1836/solconnect/internal/metrics"
	"github.com/mrz1836/solconnect/internal/sdk"
	"github.com/mrz1836/solconnect/internal/standard"
	"github.com/mrz1836/solconnect/internal/wallet"
	walleterr "github.com/mrz1836/solconnect/pkg/errors"
)

// Legacy is the facade for callers that build *solana.Transaction values.
type Legacy struct {
	Facade[*solana.Transaction]

	conn chain.Connection
}

// NewLegacy creates a legacy facade reading the session from p.
func NewLegacy(p Provider, opts ...Option) *Legacy {
	cfg := newConfig(opts)
	return &Legacy{
		Facade: Facade[*solana.Transaction]{
			provider:   p,
			codec:      sdk.Legacy{},
			metrics:    cfg.metrics,
			toLegacy:   func(tx *solana.Transaction) (*solana.Transaction, error) { return tx, nil },
			fromLegacy: func(tx *solana.Transaction) (*solana.Transaction, error) { return tx, nil },
		},
		conn: cfg.conn,
	}
}

// SendTransaction stamps tx with a fresh blockhash from conn, or from the
// facade's connection when conn is nil, then has the wallet sign and
// submit it.
//
// tx is already compiled, so its fee payer is not rewritten: the first
// account key must be the connected account, otherwise ErrFeePayerMismatch
// is returned before any RPC or wallet call. Build tx with
// solana.TransactionPayer set to the connected address.
func (l *Legacy) SendTransaction(ctx context.Context, tx *solana.Transaction, conn chain.Connection, opts standard.SendOptions) (sig solana.Signature, err error) {
	defer func() { l.metrics.RecordOp(metrics.OpSend, err) }()

	sess, err := l.session()
	if err != nil {
		return solana.Signature{}, err
	}
	if tx == nil {
		return solana.Signature{}, walleterr.Wrap(walleterr.ErrInvalidTransaction, "transaction is nil")
	}
	if conn == nil {
		conn = l.conn
	}
	if conn == nil {
		return solana.Signature{}, walleterr.Wrap(walleterr.ErrInvalidInput, "no connection to fetch a blockhash from")
	}

	payer, err := l.codec.FeePayer(tx)
	if err != nil {
		return solana.Signature{}, err
	}
	if !payer.Equals(sess.Account.Address) {
		return solana.Signature{}, walleterr.WithDetails(walleterr.ErrFeePayerMismatch, map[string]string{
			"fee_payer": payer.String(),
			"account":   sess.Account.Address.String(),
		})
	}

	bh, err := conn.LatestBlockhash(ctx)
	if err != nil {
		return solana.Signature{}, err
	}
	tx.Message.RecentBlockhash = bh.Hash

	switch src := sess.Source.(type) {
	case *wallet.StandardSource:
		sender, ok := standard.Feature[standard.TransactionSender](src.Wallet, standard.FeatureSignAndSendTransaction)
		if !ok {
			return solana.Signature{}, missingFeature(src.Name(), standard.FeatureSignAndSendTransaction)
		}
		wire, err := l.codec.Encode(tx)
		if err != nil {
			return solana.Signature{}, err
		}
		out, err := sender.SignAndSendTransaction(ctx, standard.SignAndSendTransactionInput{
			Account:     sess.Account.Account,
			Transaction: wire,
			Chain:       sess.Cluster.ChainID(),
			Options:     opts,
		})
		if err != nil {
			return solana.Signature{}, sendFailure(src.Name(), err)
		}
		if len(out) == 0 {
			return solana.Signature{}, outputMissing(src.Name(), 1, 0)
		}
		return signatureFrom(src.Name(), out[0].Signature)

	case *wallet.CustomSource:
		sender, ok := src.Adapter.(wallet.TransactionSender)
		if !ok {
			return solana.Signature{}, missingFeature(src.Name(), "sendTransaction")
		}
		sig, err := sender.SendTransaction(ctx, tx, opts)
		if err != nil {
			return solana.Signature{}, sendFailure(src.Name(), err)
		}
		return sig, nil

	default:
		return solana.Signature{}, missingFeature(sess.Source.Name(), standard.FeatureSignAndSendTransaction)
	}
}
