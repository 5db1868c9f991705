package sol

import (
	"context"
	"fmt"
	"strconv"

	"github.com/gagliardetto/solana-go"
	associatedtokenaccount "github.com/gagliardetto/solana-go/programs/associated-token-account"
	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"
)

// EnsureTokenAccount returns the owner's associated token account for mint,
// creating it on chain when it does not exist yet. Swap and collect flows
// need one per token side before amounts can settle.
func (c *Client) EnsureTokenAccount(ctx context.Context, owner solana.PrivateKey, mint solana.PublicKey) (solana.PublicKey, error) {
	ata, _, err := solana.FindAssociatedTokenAddress(owner.PublicKey(), mint)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("failed to derive associated token address: %w", err)
	}
	if info, err := c.GetAccountInfoWithOpts(ctx, ata); err == nil && info.Value != nil {
		return ata, nil
	}

	createInst, err := associatedtokenaccount.NewCreateInstruction(
		owner.PublicKey(), owner.PublicKey(), mint,
	).ValidateAndBuild()
	if err != nil {
		return solana.PublicKey{}, err
	}
	if _, err := c.SubmitInstructions(ctx, []solana.PrivateKey{owner}, createInst); err != nil {
		return solana.PublicKey{}, err
	}
	c.log.Info("created associated token account",
		zap.Stringer("mint", mint), zap.Stringer("account", ata))
	return ata, nil
}

// GetTokenBalance reads a token account's balance, used to check the input
// side before a swap and reward vaults before emission changes.
func (c *Client) GetTokenBalance(ctx context.Context, account solana.PublicKey) (uint64, error) {
	res, err := c.GetTokenAccountBalance(ctx, account, rpc.CommitmentConfirmed)
	if err != nil {
		return 0, fmt.Errorf("failed to get token account balance: %w", err)
	}
	return strconv.ParseUint(res.Value.Amount, 10, 64)
}

// GetUserTokenBalance finds the owner's token account holding mint and
// returns it with its balance.
func (c *Client) GetUserTokenBalance(ctx context.Context, owner solana.PublicKey, mint solana.PublicKey) (solana.PublicKey, uint64, error) {
	acc, err := c.GetTokenAccountsByOwner(ctx, owner,
		&rpc.GetTokenAccountsConfig{Mint: mint.ToPointer()},
		&rpc.GetTokenAccountsOpts{Encoding: "jsonParsed"},
	)
	if err != nil {
		return solana.PublicKey{}, 0, err
	}
	if len(acc.Value) == 0 {
		return solana.PublicKey{}, 0, fmt.Errorf("no token account holds mint %s", mint)
	}
	amount, err := c.GetTokenBalance(ctx, acc.Value[0].Pubkey)
	if err != nil {
		return solana.PublicKey{}, 0, err
	}
	return acc.Value[0].Pubkey, amount, nil
}
