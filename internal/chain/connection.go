package chain

import (
	"context"
	"errors"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	"github.com/mrz1836/solconnect/internal/metrics"
	walleterr "github.com/mrz1836/solconnect/pkg/errors"
)

// Blockhash is a recent blockhash with its expiry height.
type Blockhash struct {
	Hash                 solana.Hash
	LastValidBlockHeight uint64
}

// Connection fetches recency information for transactions.
type Connection interface {
	LatestBlockhash(ctx context.Context) (Blockhash, error)
}

// BlockhashClient is the subset of *rpc.Client used by RPCConnection.
type BlockhashClient interface {
	GetLatestBlockhash(ctx context.Context, commitment rpc.CommitmentType) (*rpc.GetLatestBlockhashResult, error)
}

// RPCConnection is a Connection backed by a Solana JSON-RPC endpoint.
type RPCConnection struct {
	endpoint   string
	client     BlockhashClient
	limiter    *RateLimiter
	retry      RetryConfig
	commitment rpc.CommitmentType
}

// Option configures an RPCConnection.
type Option func(*RPCConnection)

// WithClient replaces the RPC client, for tests or custom transports.
func WithClient(c BlockhashClient) Option {
	return func(r *RPCConnection) { r.client = c }
}

// WithRateLimiter sets the limiter shared across connections.
func WithRateLimiter(l *RateLimiter) Option {
	return func(r *RPCConnection) { r.limiter = l }
}

// WithRetry sets the retry policy.
func WithRetry(cfg RetryConfig) Option {
	return func(r *RPCConnection) { r.retry = cfg }
}

// WithCommitment sets the commitment used for blockhash lookups.
func WithCommitment(c rpc.CommitmentType) Option {
	return func(r *RPCConnection) { r.commitment = c }
}

// NewRPCConnection creates a connection to endpoint.
func NewRPCConnection(endpoint string, opts ...Option) *RPCConnection {
	c := &RPCConnection{
		endpoint:   endpoint,
		limiter:    NewRateLimiter(5, 10),
		retry:      DefaultRetryConfig(),
		commitment: rpc.CommitmentFinalized,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.client == nil {
		c.client = rpc.New(endpoint)
	}
	return c
}

// Endpoint returns the RPC endpoint URL.
func (c *RPCConnection) Endpoint() string {
	return c.endpoint
}

// LatestBlockhash returns the most recent blockhash at the configured
// commitment.
func (c *RPCConnection) LatestBlockhash(ctx context.Context) (Blockhash, error) {
	return RetryWithConfig(ctx, c.retry, func() (Blockhash, error) {
		if err := c.limiter.Wait(ctx, c.endpoint); err != nil {
			return Blockhash{}, err
		}

		done := metrics.Global.StartRPC()
		out, err := c.client.GetLatestBlockhash(ctx, c.commitment)
		done(err)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return Blockhash{}, err
			}
			return Blockhash{}, WrapRetryable(walleterr.WithCause(walleterr.ErrNetworkError, err))
		}
		if out == nil || out.Value == nil {
			return Blockhash{}, walleterr.WithDetails(walleterr.ErrNetworkError, map[string]string{"endpoint": c.endpoint, "reason": "empty blockhash response"})
		}

		return Blockhash{
			Hash:                 out.Value.Blockhash,
			LastValidBlockHeight: out.Value.LastValidBlockHeight,
		}, nil
	})
}
