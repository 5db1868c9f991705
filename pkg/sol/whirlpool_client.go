package sol

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"

	"github.com/orca-so/whirlpools-sub004/pkg/whirlpool"
)

// FetchWhirlpool loads and decodes a pool account.
func (c *Client) FetchWhirlpool(ctx context.Context, address solana.PublicKey) (*whirlpool.Whirlpool, error) {
	resp, err := c.GetAccountInfoWithOpts(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch whirlpool %s: %w", address, err)
	}
	if resp.Value == nil {
		return nil, fmt.Errorf("whirlpool %s not found", address)
	}
	return whirlpool.DecodeWhirlpool(resp.Value.Data.GetBinary())
}

// FetchPosition loads and decodes a position account.
func (c *Client) FetchPosition(ctx context.Context, address solana.PublicKey) (*whirlpool.Position, error) {
	resp, err := c.GetAccountInfoWithOpts(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch position %s: %w", address, err)
	}
	if resp.Value == nil {
		return nil, fmt.Errorf("position %s not found", address)
	}
	return whirlpool.DecodePosition(resp.Value.Data.GetBinary())
}

// FetchOracle loads a pool's adaptive fee oracle if one exists; pools on
// static fee tiers have none and return nil.
func (c *Client) FetchOracle(ctx context.Context, whirlpoolKey solana.PublicKey) (*whirlpool.Oracle, error) {
	oracleKey, _, err := whirlpool.DeriveOracleAddress(whirlpoolKey)
	if err != nil {
		return nil, err
	}
	resp, err := c.GetAccountInfoWithOpts(ctx, oracleKey)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch oracle %s: %w", oracleKey, err)
	}
	if resp.Value == nil {
		return nil, nil
	}
	return whirlpool.DecodeOracle(resp.Value.Data.GetBinary())
}

// FetchSwapTickArrays loads the tick arrays a swap starting at the pool's
// current tick will traverse. Arrays that were never created come back as
// zeroed placeholders so the swap can jump the empty region.
func (c *Client) FetchSwapTickArrays(ctx context.Context, whirlpoolKey solana.PublicKey, pool *whirlpool.Whirlpool, aToB bool) ([]whirlpool.TickArrayLike, []solana.PublicKey, error) {
	span := int32(pool.TickSpacing) * whirlpool.TickArraySize
	start := whirlpool.TickArrayStartIndex(pool.TickCurrentIndex, pool.TickSpacing)

	starts := make([]int32, 0, whirlpool.MaxSwapTickArrays)
	keys := make([]solana.PublicKey, 0, whirlpool.MaxSwapTickArrays)
	for i := 0; i < whirlpool.MaxSwapTickArrays; i++ {
		starts = append(starts, start)
		key, _, err := whirlpool.DeriveTickArrayAddress(whirlpoolKey, start)
		if err != nil {
			return nil, nil, err
		}
		keys = append(keys, key)
		if aToB {
			start -= span
		} else {
			start += span
		}
	}

	resp, err := c.GetMultipleAccountsWithOpts(ctx, keys)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch tick arrays: %w", err)
	}

	arrays := make([]whirlpool.TickArrayLike, len(keys))
	for i, acct := range resp.Value {
		if acct == nil {
			c.log.Debug("tick array uninitialized, using placeholder",
				zap.Int32("startTickIndex", starts[i]))
			arrays[i] = whirlpool.NewZeroedTickArray(starts[i])
			continue
		}
		ta, err := whirlpool.DecodeTickArray(acct.Data.GetBinary())
		if err != nil {
			return nil, nil, fmt.Errorf("failed to decode tick array %s: %w", keys[i], err)
		}
		arrays[i] = ta
	}
	return arrays, keys, nil
}

// FindWhirlpools enumerates pools for a token pair via byte-offset equality
// filters, no decoding on the node side.
func (c *Client) FindWhirlpools(ctx context.Context, tokenMintA, tokenMintB solana.PublicKey) (map[solana.PublicKey]*whirlpool.Whirlpool, error) {
	size := uint64(whirlpool.WhirlpoolAccountSize)
	accounts, err := c.GetProgramAccountsWithOpts(ctx, whirlpool.ProgramID, &rpc.GetProgramAccountsOpts{
		Commitment: c.commitment,
		Filters: []rpc.RPCFilter{
			{DataSize: size},
			{Memcmp: &rpc.RPCFilterMemcmp{
				Offset: whirlpool.WhirlpoolTokenMintAOffset,
				Bytes:  tokenMintA.Bytes(),
			}},
			{Memcmp: &rpc.RPCFilterMemcmp{
				Offset: whirlpool.WhirlpoolTokenMintBOffset,
				Bytes:  tokenMintB.Bytes(),
			}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan whirlpools: %w", err)
	}

	pools := make(map[solana.PublicKey]*whirlpool.Whirlpool, len(accounts))
	for _, acct := range accounts {
		pool, err := whirlpool.DecodeWhirlpool(acct.Account.Data.GetBinary())
		if err != nil {
			c.log.Warn("skipping undecodable whirlpool account",
				zap.Stringer("account", acct.Pubkey), zap.Error(err))
			continue
		}
		pools[acct.Pubkey] = pool
	}
	return pools, nil
}
