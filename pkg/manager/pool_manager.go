package manager

import (
	cosmath "cosmossdk.io/math"
	"github.com/gagliardetto/solana-go"

	"github.com/orca-so/whirlpools-sub004/pkg/math"
	"github.com/orca-so/whirlpools-sub004/pkg/whirlpool"
)

// InitializePoolParams carries everything needed to seed a new pool.
type InitializePoolParams struct {
	WhirlpoolsConfig       solana.PublicKey
	FeeTier                *whirlpool.FeeTier
	TokenMintA             solana.PublicKey
	TokenVaultA            solana.PublicKey
	TokenMintB             solana.PublicKey
	TokenVaultB            solana.PublicKey
	InitialSqrtPrice       cosmath.Int
	DefaultProtocolFeeRate uint16
	Bump                   uint8
}

// InitializePool seeds a pool at the given sqrt price. The starting tick is
// derived from the price, establishing the invariant that the pool's sqrt
// price always sits inside its current tick's span.
func InitializePool(params *InitializePoolParams) (*whirlpool.Whirlpool, error) {
	if params.FeeTier.TickSpacing == 0 {
		return nil, whirlpool.ErrInvalidTickSpacing
	}
	if params.InitialSqrtPrice.LT(whirlpool.MinSqrtPrice) || params.InitialSqrtPrice.GT(whirlpool.MaxSqrtPrice) {
		return nil, whirlpool.ErrSqrtPriceOutOfBounds
	}

	tickIndex, err := math.TickIndexFromSqrtPrice(params.InitialSqrtPrice)
	if err != nil {
		return nil, err
	}
	if err := checkPriceTickConsistency(params.InitialSqrtPrice, tickIndex); err != nil {
		return nil, err
	}

	sqrtPrice, err := whirlpool.U128FromInt(params.InitialSqrtPrice)
	if err != nil {
		return nil, err
	}

	pool := &whirlpool.Whirlpool{
		WhirlpoolsConfig: params.WhirlpoolsConfig,
		WhirlpoolBump:    [1]byte{params.Bump},
		TickSpacing:      params.FeeTier.TickSpacing,
		FeeRate:          params.FeeTier.DefaultFeeRate,
		ProtocolFeeRate:  params.DefaultProtocolFeeRate,
		SqrtPrice:        sqrtPrice,
		TickCurrentIndex: tickIndex,
		TokenMintA:       params.TokenMintA,
		TokenVaultA:      params.TokenVaultA,
		TokenMintB:       params.TokenMintB,
		TokenVaultB:      params.TokenVaultB,
	}
	// Static fee tiers seed the fee-tier index with the tick spacing.
	pool.FeeTierIndexSeed[0] = byte(params.FeeTier.TickSpacing)
	pool.FeeTierIndexSeed[1] = byte(params.FeeTier.TickSpacing >> 8)
	return pool, nil
}

// checkPriceTickConsistency verifies sqrtPrice lies in
// [price(tick), price(tick+1)).
func checkPriceTickConsistency(sqrtPrice cosmath.Int, tickIndex int32) error {
	lower, err := math.SqrtPriceFromTickIndex(tickIndex)
	if err != nil {
		return err
	}
	if sqrtPrice.LT(lower) {
		return whirlpool.ErrInvalidPriceTickOrder
	}
	if tickIndex < whirlpool.MaxTickIndex {
		upper, err := math.SqrtPriceFromTickIndex(tickIndex + 1)
		if err != nil {
			return err
		}
		if sqrtPrice.GTE(upper) {
			return whirlpool.ErrInvalidPriceTickOrder
		}
	}
	return nil
}
