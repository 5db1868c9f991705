package manager

import (
	cosmath "cosmossdk.io/math"
	"lukechampine.com/uint128"

	"github.com/orca-so/whirlpools-sub004/pkg/math"
	"github.com/orca-so/whirlpools-sub004/pkg/whirlpool"
)

// Growth accumulators are wrapping u128 counters: only deltas between two
// snapshots are meaningful, so subtraction wraps instead of failing.

// NextTickCrossUpdate flips a tick's outside accumulators as the price
// crosses it: outside becomes global minus outside on every crossing, which
// keeps growth-inside computable from either side.
func NextTickCrossUpdate(
	tick *whirlpool.Tick,
	feeGrowthGlobalA, feeGrowthGlobalB uint128.Uint128,
	rewardInfos [whirlpool.NumRewards]whirlpool.RewardInfo,
) whirlpool.TickUpdate {
	update := whirlpool.TickUpdate{
		Initialized:       tick.Initialized,
		LiquidityNet:      tick.LiquidityNet,
		LiquidityGross:    tick.LiquidityGross,
		FeeGrowthOutsideA: feeGrowthGlobalA.SubWrap(tick.FeeGrowthOutsideA),
		FeeGrowthOutsideB: feeGrowthGlobalB.SubWrap(tick.FeeGrowthOutsideB),
	}
	for i := 0; i < whirlpool.NumRewards; i++ {
		update.RewardGrowthsOutside[i] = rewardInfos[i].GrowthGlobalX64.SubWrap(tick.RewardGrowthsOutside[i])
	}
	return update
}

// NextTickModifyLiquidityUpdate applies a liquidity delta to a tick. A tick
// initializing below or at the current price seeds its outside accumulators
// from the globals so growth-inside starts at zero; a tick whose gross
// liquidity returns to zero collapses back to the placeholder value.
func NextTickModifyLiquidityUpdate(
	tick *whirlpool.Tick,
	tickIndex, tickCurrentIndex int32,
	feeGrowthGlobalA, feeGrowthGlobalB uint128.Uint128,
	rewardInfos [whirlpool.NumRewards]whirlpool.RewardInfo,
	liquidityDelta cosmath.Int,
	isUpperTick bool,
) (whirlpool.TickUpdate, error) {
	if liquidityDelta.IsZero() {
		return whirlpool.TickUpdate{
			Initialized:          tick.Initialized,
			LiquidityNet:         tick.LiquidityNet,
			LiquidityGross:       tick.LiquidityGross,
			FeeGrowthOutsideA:    tick.FeeGrowthOutsideA,
			FeeGrowthOutsideB:    tick.FeeGrowthOutsideB,
			RewardGrowthsOutside: tick.RewardGrowthsOutside,
		}, nil
	}

	liquidityGross, err := math.AddLiquidityDelta(whirlpool.U128Int(tick.LiquidityGross), liquidityDelta)
	if err != nil {
		return whirlpool.TickUpdate{}, err
	}

	// The tick uninitializes when no position references it anymore.
	if liquidityGross.IsZero() {
		return whirlpool.TickUpdate{LiquidityNet: cosmath.ZeroInt()}, nil
	}

	update := whirlpool.TickUpdate{Initialized: true}
	update.LiquidityGross, err = whirlpool.U128FromInt(liquidityGross)
	if err != nil {
		return whirlpool.TickUpdate{}, err
	}

	if tick.LiquidityGross.IsZero() {
		// First position touching this tick.
		if tickCurrentIndex >= tickIndex {
			update.FeeGrowthOutsideA = feeGrowthGlobalA
			update.FeeGrowthOutsideB = feeGrowthGlobalB
			for i := 0; i < whirlpool.NumRewards; i++ {
				update.RewardGrowthsOutside[i] = rewardInfos[i].GrowthGlobalX64
			}
		}
	} else {
		update.FeeGrowthOutsideA = tick.FeeGrowthOutsideA
		update.FeeGrowthOutsideB = tick.FeeGrowthOutsideB
		update.RewardGrowthsOutside = tick.RewardGrowthsOutside
	}

	liquidityNet := tick.LiquidityNet
	if isUpperTick {
		liquidityNet = liquidityNet.Sub(liquidityDelta)
	} else {
		liquidityNet = liquidityNet.Add(liquidityDelta)
	}
	if liquidityNet.GT(whirlpool.MaxI128) || liquidityNet.LT(whirlpool.MinI128) {
		return whirlpool.TickUpdate{}, whirlpool.ErrLiquidityOverflow
	}
	update.LiquidityNet = liquidityNet
	return update, nil
}

// NextFeeGrowthsInside computes the per-unit-liquidity fee growth accrued
// strictly inside [tickLowerIndex, tickUpperIndex), from the outside
// accumulators on both bounds.
func NextFeeGrowthsInside(
	tickCurrentIndex int32,
	tickLower *whirlpool.Tick, tickLowerIndex int32,
	tickUpper *whirlpool.Tick, tickUpperIndex int32,
	feeGrowthGlobalA, feeGrowthGlobalB uint128.Uint128,
) (insideA, insideB uint128.Uint128) {
	var belowA, belowB uint128.Uint128
	switch {
	case !tickLower.Initialized:
		belowA, belowB = feeGrowthGlobalA, feeGrowthGlobalB
	case tickCurrentIndex < tickLowerIndex:
		belowA = feeGrowthGlobalA.SubWrap(tickLower.FeeGrowthOutsideA)
		belowB = feeGrowthGlobalB.SubWrap(tickLower.FeeGrowthOutsideB)
	default:
		belowA, belowB = tickLower.FeeGrowthOutsideA, tickLower.FeeGrowthOutsideB
	}

	var aboveA, aboveB uint128.Uint128
	switch {
	case !tickUpper.Initialized:
		// Zero.
	case tickCurrentIndex < tickUpperIndex:
		aboveA, aboveB = tickUpper.FeeGrowthOutsideA, tickUpper.FeeGrowthOutsideB
	default:
		aboveA = feeGrowthGlobalA.SubWrap(tickUpper.FeeGrowthOutsideA)
		aboveB = feeGrowthGlobalB.SubWrap(tickUpper.FeeGrowthOutsideB)
	}

	insideA = feeGrowthGlobalA.SubWrap(belowA).SubWrap(aboveA)
	insideB = feeGrowthGlobalB.SubWrap(belowB).SubWrap(aboveB)
	return insideA, insideB
}

// NextRewardGrowthsInside is the reward analogue of NextFeeGrowthsInside,
// one accumulator per reward slot. Uninitialized slots stay at zero.
func NextRewardGrowthsInside(
	tickCurrentIndex int32,
	tickLower *whirlpool.Tick, tickLowerIndex int32,
	tickUpper *whirlpool.Tick, tickUpperIndex int32,
	rewardInfos [whirlpool.NumRewards]whirlpool.RewardInfo,
) [whirlpool.NumRewards]uint128.Uint128 {
	var inside [whirlpool.NumRewards]uint128.Uint128
	for i := 0; i < whirlpool.NumRewards; i++ {
		if !rewardInfos[i].Initialized() {
			continue
		}
		global := rewardInfos[i].GrowthGlobalX64

		var below uint128.Uint128
		switch {
		case !tickLower.Initialized:
			below = global
		case tickCurrentIndex < tickLowerIndex:
			below = global.SubWrap(tickLower.RewardGrowthsOutside[i])
		default:
			below = tickLower.RewardGrowthsOutside[i]
		}

		var above uint128.Uint128
		switch {
		case !tickUpper.Initialized:
			// Zero.
		case tickCurrentIndex < tickUpperIndex:
			above = tickUpper.RewardGrowthsOutside[i]
		default:
			above = global.SubWrap(tickUpper.RewardGrowthsOutside[i])
		}

		inside[i] = global.SubWrap(below).SubWrap(above)
	}
	return inside
}
