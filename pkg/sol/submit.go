package sol

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"
)

// AssembleTransaction builds a transaction from instructions and signs it
// with every provided key. The first signer pays. No RPC calls happen here,
// so assembly and signing stay testable offline.
func AssembleTransaction(blockhash solana.Hash, signers []solana.PrivateKey, instrs ...solana.Instruction) (*solana.Transaction, error) {
	if len(signers) == 0 {
		return nil, fmt.Errorf("at least one signer is required")
	}
	tx, err := solana.NewTransaction(instrs, blockhash, solana.TransactionPayer(signers[0].PublicKey()))
	if err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}
	_, err = tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		for i := range signers {
			if signers[i].PublicKey().Equals(key) {
				return &signers[i]
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}
	return tx, nil
}

// SimulateInstructions runs the assembled transaction through the node's
// simulator without broadcasting it.
func (c *Client) SimulateInstructions(ctx context.Context, signers []solana.PrivateKey, instrs ...solana.Instruction) (*rpc.SimulateTransactionResponse, error) {
	res, err := c.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
	if err != nil {
		return nil, fmt.Errorf("failed to get blockhash: %w", err)
	}
	tx, err := AssembleTransaction(res.Value.Blockhash, signers, instrs...)
	if err != nil {
		return nil, err
	}
	return c.SimulateTransaction(ctx, tx)
}

// SubmitInstructions signs the instructions under a fresh blockhash and
// sends them. Preflight is skipped; the caller already validated the outcome
// against its own computed state.
func (c *Client) SubmitInstructions(ctx context.Context, signers []solana.PrivateKey, instrs ...solana.Instruction) (solana.Signature, error) {
	res, err := c.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to get blockhash: %w", err)
	}
	tx, err := AssembleTransaction(res.Value.Blockhash, signers, instrs...)
	if err != nil {
		return solana.Signature{}, err
	}
	sig, err := c.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		SkipPreflight:       true,
		PreflightCommitment: rpc.CommitmentProcessed,
	})
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to send transaction: %w", err)
	}
	c.log.Info("transaction sent", zap.Stringer("signature", sig))
	return sig, nil
}
