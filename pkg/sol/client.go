package sol

import (
	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"
)

// Client wraps a Solana RPC connection with rate limiting and structured
// logging. All on-chain reads the engine needs (pool, tick arrays, oracle,
// clock) go through it.
type Client struct {
	rpcClient   *rpc.Client
	rateLimiter *RateLimiter
	commitment  rpc.CommitmentType
	log         *zap.Logger
}

// NewClient connects to an RPC endpoint with the given request budget per
// second.
func NewClient(endpoint string, reqLimitPerSecond int, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		rpcClient:   rpc.New(endpoint),
		rateLimiter: NewRateLimiter(reqLimitPerSecond),
		commitment:  rpc.CommitmentProcessed,
		log:         logger.Named("sol"),
	}
}

// SetCommitment changes the commitment level used for reads.
func (c *Client) SetCommitment(commitment rpc.CommitmentType) {
	c.commitment = commitment
}
