package manager

import (
	cosmath "cosmossdk.io/math"
	"lukechampine.com/uint128"

	"github.com/orca-so/whirlpools-sub004/pkg/math"
	"github.com/orca-so/whirlpools-sub004/pkg/whirlpool"
)

// NextPositionModifiedLiquidity syncs a position against fresh
// growth-inside snapshots and applies a liquidity delta. Owed amounts accrue
// from the growth delta since the last checkpoint times the liquidity held
// over that interval (the pre-delta liquidity), floored in the position
// holder's disfavor.
func NextPositionModifiedLiquidity(
	position *whirlpool.Position,
	liquidityDelta cosmath.Int,
	feeGrowthInsideA, feeGrowthInsideB uint128.Uint128,
	rewardGrowthsInside [whirlpool.NumRewards]uint128.Uint128,
) (whirlpool.PositionUpdate, error) {
	update := whirlpool.PositionUpdate{}

	liquidity := whirlpool.U128Int(position.Liquidity)
	nextLiquidity, err := math.AddLiquidityDelta(liquidity, liquidityDelta)
	if err != nil {
		return whirlpool.PositionUpdate{}, err
	}
	update.Liquidity, err = whirlpool.U128FromInt(nextLiquidity)
	if err != nil {
		return whirlpool.PositionUpdate{}, err
	}

	feeOwedDeltaA, err := owedDelta(liquidity, feeGrowthInsideA, position.FeeGrowthCheckpointA)
	if err != nil {
		return whirlpool.PositionUpdate{}, err
	}
	feeOwedDeltaB, err := owedDelta(liquidity, feeGrowthInsideB, position.FeeGrowthCheckpointB)
	if err != nil {
		return whirlpool.PositionUpdate{}, err
	}
	update.FeeGrowthCheckpointA = feeGrowthInsideA
	update.FeeOwedA, err = whirlpool.CheckedAddOwed(position.FeeOwedA, feeOwedDeltaA)
	if err != nil {
		return whirlpool.PositionUpdate{}, err
	}
	update.FeeGrowthCheckpointB = feeGrowthInsideB
	update.FeeOwedB, err = whirlpool.CheckedAddOwed(position.FeeOwedB, feeOwedDeltaB)
	if err != nil {
		return whirlpool.PositionUpdate{}, err
	}

	for i := 0; i < whirlpool.NumRewards; i++ {
		amountOwedDelta, err := owedDelta(liquidity, rewardGrowthsInside[i], position.RewardInfos[i].GrowthInsideCheckpoint)
		if err != nil {
			return whirlpool.PositionUpdate{}, err
		}
		amountOwed, err := whirlpool.CheckedAddOwed(position.RewardInfos[i].AmountOwed, amountOwedDelta)
		if err != nil {
			return whirlpool.PositionUpdate{}, err
		}
		update.RewardInfos[i] = whirlpool.PositionRewardInfo{
			GrowthInsideCheckpoint: rewardGrowthsInside[i],
			AmountOwed:             amountOwed,
		}
	}
	return update, nil
}

// owedDelta converts a growth-inside delta (wrapping Q64.64 per unit
// liquidity) into a token amount for the given liquidity.
func owedDelta(liquidity cosmath.Int, growthInside, checkpoint uint128.Uint128) (uint64, error) {
	growthDelta := whirlpool.U128Int(growthInside.SubWrap(checkpoint))
	amount, err := math.CheckedMulShiftRight(liquidity, growthDelta)
	if err != nil {
		return 0, err
	}
	return amount.Uint64(), nil
}
