package math

import (
	cosmath "cosmossdk.io/math"

	"github.com/orca-so/whirlpools-sub004/pkg/whirlpool"
)

// AddLiquidityDelta applies a signed i128 delta to a u128 liquidity value.
// The result must stay within [0, u128::MAX]; anything else is a fault, never
// a wrap.
func AddLiquidityDelta(liquidity, delta cosmath.Int) (cosmath.Int, error) {
	next := liquidity.Add(delta)
	if next.IsNegative() {
		return cosmath.Int{}, whirlpool.ErrLiquidityUnderflow
	}
	if next.GT(whirlpool.MaxU128) {
		return cosmath.Int{}, whirlpool.ErrLiquidityOverflow
	}
	return next, nil
}

// ConvertToLiquidityDelta turns an unsigned liquidity amount into the signed
// delta applied when liquidity is added (positive) or removed (negative).
func ConvertToLiquidityDelta(amount cosmath.Int, positive bool) (cosmath.Int, error) {
	if amount.GT(whirlpool.MaxI128) {
		return cosmath.Int{}, whirlpool.ErrLiquidityTooHigh
	}
	if positive {
		return amount, nil
	}
	return amount.Neg(), nil
}
