package manager

import (
	cosmath "cosmossdk.io/math"
	"lukechampine.com/uint128"

	"github.com/orca-so/whirlpools-sub004/pkg/math"
	"github.com/orca-so/whirlpools-sub004/pkg/whirlpool"
)

// PostSwapUpdate is the complete outcome of a swap: realized token totals
// plus the pool's next state, computed in full before anything is committed.
type PostSwapUpdate struct {
	AmountA uint64
	AmountB uint64

	NextLiquidity       uint128.Uint128
	NextTickIndex       int32
	NextSqrtPrice       uint128.Uint128
	NextFeeGrowthGlobal uint128.Uint128
	NextRewardInfos     [whirlpool.NumRewards]whirlpool.RewardInfo
	NextProtocolFee     uint64

	AToB bool
}

// Swap walks the price from the pool's current sqrt price toward
// sqrtPriceLimit, consuming amount (exact input or exact output per
// amountSpecifiedIsInput) across the supplied tick sequence. Crossed ticks
// are flipped in place through the sequence; the pool itself is untouched
// until the returned update is applied.
//
// A zero-liquidity region is not an error: the step math moves the price to
// the region's far boundary with zero amounts and zero fees.
func Swap(
	pool *whirlpool.Whirlpool,
	tickSequence *SwapTickSequence,
	feeRateManager *FeeRateManager,
	amount uint64,
	sqrtPriceLimit cosmath.Int,
	amountSpecifiedIsInput bool,
	aToB bool,
	timestamp uint64,
) (*PostSwapUpdate, error) {
	if amount == 0 {
		return nil, whirlpool.ErrZeroTradableAmount
	}
	if sqrtPriceLimit.LT(whirlpool.MinSqrtPrice) || sqrtPriceLimit.GT(whirlpool.MaxSqrtPrice) {
		return nil, whirlpool.ErrSqrtPriceOutOfBounds
	}

	startSqrtPrice := whirlpool.U128Int(pool.SqrtPrice)
	if aToB && sqrtPriceLimit.GTE(startSqrtPrice) {
		return nil, whirlpool.ErrInvalidSqrtPriceLimit
	}
	if !aToB && sqrtPriceLimit.LTE(startSqrtPrice) {
		return nil, whirlpool.ErrInvalidSqrtPriceLimit
	}

	rewardInfos, err := NextWhirlpoolRewardInfos(pool, timestamp)
	if err != nil {
		return nil, err
	}

	currFeeGrowthGlobal := pool.FeeGrowthGlobalA
	if !aToB {
		currFeeGrowthGlobal = pool.FeeGrowthGlobalB
	}

	amountRemaining := cosmath.NewIntFromUint64(amount)
	amountCalculated := cosmath.ZeroInt()
	currSqrtPrice := startSqrtPrice
	currTickIndex := pool.TickCurrentIndex
	currLiquidity := whirlpool.U128Int(pool.Liquidity)
	currProtocolFee := cosmath.ZeroInt()
	currArrayIndex := 0

	for amountRemaining.IsPositive() && !currSqrtPrice.Equal(sqrtPriceLimit) {
		arrayIndex, nextTickIndex, nextTickInitialized, err := tickSequence.GetNextInitializedTickIndex(
			currTickIndex, pool.TickSpacing, aToB, currArrayIndex)
		if err != nil {
			return nil, err
		}

		nextTickSqrtPrice, err := math.SqrtPriceFromTickIndex(nextTickIndex)
		if err != nil {
			return nil, err
		}
		targetSqrtPrice := nextTickSqrtPrice
		if aToB && sqrtPriceLimit.GT(targetSqrtPrice) {
			targetSqrtPrice = sqrtPriceLimit
		}
		if !aToB && sqrtPriceLimit.LT(targetSqrtPrice) {
			targetSqrtPrice = sqrtPriceLimit
		}

		step, err := math.ComputeSwapStep(
			amountRemaining, feeRateManager.TotalFeeRate(),
			currLiquidity, currSqrtPrice, targetSqrtPrice,
			amountSpecifiedIsInput, aToB)
		if err != nil {
			return nil, err
		}

		if amountSpecifiedIsInput {
			amountRemaining = amountRemaining.Sub(step.AmountIn).Sub(step.FeeAmount)
			if amountRemaining.IsNegative() {
				return nil, whirlpool.ErrAmountCalcOverflow
			}
			amountCalculated = amountCalculated.Add(step.AmountOut)
		} else {
			amountRemaining = amountRemaining.Sub(step.AmountOut)
			amountCalculated = amountCalculated.Add(step.AmountIn).Add(step.FeeAmount)
		}
		if amountCalculated.GT(whirlpool.MaxU64) {
			return nil, whirlpool.ErrAmountCalcOverflow
		}

		currFeeGrowthGlobal, currProtocolFee, err = accumulateFees(
			step.FeeAmount, pool.ProtocolFeeRate, currLiquidity,
			currFeeGrowthGlobal, currProtocolFee)
		if err != nil {
			return nil, err
		}

		if step.NextSqrtPrice.Equal(nextTickSqrtPrice) {
			if nextTickInitialized {
				tick, err := tickSequence.GetTick(arrayIndex, nextTickIndex, pool.TickSpacing)
				if err != nil {
					return nil, err
				}

				feeGrowthA, feeGrowthB := currFeeGrowthGlobal, pool.FeeGrowthGlobalB
				if !aToB {
					feeGrowthA, feeGrowthB = pool.FeeGrowthGlobalA, currFeeGrowthGlobal
				}
				crossUpdate := NextTickCrossUpdate(&tick, feeGrowthA, feeGrowthB, rewardInfos)
				if err := tickSequence.UpdateTick(arrayIndex, nextTickIndex, pool.TickSpacing, &crossUpdate); err != nil {
					return nil, err
				}

				liquidityNet := tick.LiquidityNet
				if aToB {
					liquidityNet = liquidityNet.Neg()
				}
				currLiquidity, err = math.AddLiquidityDelta(currLiquidity, liquidityNet)
				if err != nil {
					return nil, err
				}
			}
			if aToB {
				currTickIndex = nextTickIndex - 1
			} else {
				currTickIndex = nextTickIndex
			}
		} else if !step.NextSqrtPrice.Equal(currSqrtPrice) {
			currTickIndex, err = math.TickIndexFromSqrtPrice(step.NextSqrtPrice)
			if err != nil {
				return nil, err
			}
		}

		currSqrtPrice = step.NextSqrtPrice
		currArrayIndex = arrayIndex
		feeRateManager.SyncTickGroup(currTickIndex)
	}

	// An exact-out request that ran out of price room cannot be settled
	// partially.
	if !amountSpecifiedIsInput && amountRemaining.IsPositive() {
		return nil, whirlpool.ErrPartialFillNotAllowed
	}

	var amountIn, amountOut cosmath.Int
	if amountSpecifiedIsInput {
		amountIn = cosmath.NewIntFromUint64(amount).Sub(amountRemaining)
		amountOut = amountCalculated
	} else {
		amountIn = amountCalculated
		amountOut = cosmath.NewIntFromUint64(amount).Sub(amountRemaining)
	}

	if err := feeRateManager.UpdateMajorSwapTimestamp(startSqrtPrice, currSqrtPrice, timestamp); err != nil {
		return nil, err
	}

	update := &PostSwapUpdate{NextTickIndex: currTickIndex, NextRewardInfos: rewardInfos, AToB: aToB}
	if aToB {
		update.AmountA, err = whirlpool.U64FromInt(amountIn)
		if err == nil {
			update.AmountB, err = whirlpool.U64FromInt(amountOut)
		}
	} else {
		update.AmountA, err = whirlpool.U64FromInt(amountOut)
		if err == nil {
			update.AmountB, err = whirlpool.U64FromInt(amountIn)
		}
	}
	if err != nil {
		return nil, err
	}
	update.NextLiquidity, err = whirlpool.U128FromInt(currLiquidity)
	if err != nil {
		return nil, err
	}
	update.NextSqrtPrice, err = whirlpool.U128FromInt(currSqrtPrice)
	if err != nil {
		return nil, err
	}
	update.NextFeeGrowthGlobal = currFeeGrowthGlobal
	update.NextProtocolFee, err = whirlpool.U64FromInt(currProtocolFee)
	if err != nil {
		return nil, err
	}
	return update, nil
}

// ExecuteSwap runs Swap and commits the outcome to the pool, returning the
// token totals for the caller to settle via transfer.
func ExecuteSwap(
	pool *whirlpool.Whirlpool,
	tickSequence *SwapTickSequence,
	oracle *whirlpool.Oracle,
	amount uint64,
	sqrtPriceLimit cosmath.Int,
	amountSpecifiedIsInput bool,
	aToB bool,
	timestamp uint64,
) (*PostSwapUpdate, error) {
	feeRateManager, err := NewFeeRateManager(pool.TickCurrentIndex, pool.FeeRate, oracle, timestamp)
	if err != nil {
		return nil, err
	}
	update, err := Swap(pool, tickSequence, feeRateManager, amount, sqrtPriceLimit, amountSpecifiedIsInput, aToB, timestamp)
	if err != nil {
		return nil, err
	}
	poolUpdate := &whirlpool.PoolSwapUpdate{
		Liquidity:        update.NextLiquidity,
		SqrtPrice:        update.NextSqrtPrice,
		TickCurrentIndex: update.NextTickIndex,
		FeeGrowthGlobal:  update.NextFeeGrowthGlobal,
		RewardInfos:      update.NextRewardInfos,
		ProtocolFee:      update.NextProtocolFee,
		AToB:             update.AToB,
	}
	if err := pool.ApplySwapUpdate(poolUpdate, timestamp); err != nil {
		return nil, err
	}
	return update, nil
}

// accumulateFees splits a step's fee between the protocol's bucket (floored)
// and the per-unit-liquidity global accumulator. Fees taken while liquidity
// is zero can land nowhere and are dropped.
func accumulateFees(
	feeAmount cosmath.Int,
	protocolFeeRate uint16,
	liquidity cosmath.Int,
	feeGrowthGlobal uint128.Uint128,
	protocolFee cosmath.Int,
) (uint128.Uint128, cosmath.Int, error) {
	fee := feeAmount
	if protocolFeeRate > 0 {
		delta := fee.MulRaw(int64(protocolFeeRate)).QuoRaw(whirlpool.ProtocolFeeRateMulValue)
		fee = fee.Sub(delta)
		protocolFee = protocolFee.Add(delta)
	}
	if liquidity.IsPositive() {
		growthDelta, err := whirlpool.U128FromInt(fee.Mul(math.Q64).Quo(liquidity))
		if err != nil {
			return uint128.Uint128{}, cosmath.Int{}, err
		}
		feeGrowthGlobal = feeGrowthGlobal.AddWrap(growthDelta)
	}
	return feeGrowthGlobal, protocolFee, nil
}
