package manager

import (
	cosmath "cosmossdk.io/math"
	"lukechampine.com/uint128"

	"github.com/orca-so/whirlpools-sub004/pkg/math"
	"github.com/orca-so/whirlpools-sub004/pkg/whirlpool"
)

// ModifyLiquidityUpdate is the complete outcome of a liquidity change,
// computed in full before any account is written.
type ModifyLiquidityUpdate struct {
	WhirlpoolLiquidity uint128.Uint128
	TickLowerUpdate    whirlpool.TickUpdate
	TickUpperUpdate    whirlpool.TickUpdate
	RewardInfos        [whirlpool.NumRewards]whirlpool.RewardInfo
	PositionUpdate     whirlpool.PositionUpdate
}

// CalculateModifyLiquidity computes the state transition for adding or
// removing liquidityDelta on a position. Pool liquidity only moves when the
// position's range straddles the current tick.
func CalculateModifyLiquidity(
	pool *whirlpool.Whirlpool,
	position *whirlpool.Position,
	tickLower, tickUpper *whirlpool.Tick,
	liquidityDelta cosmath.Int,
	timestamp uint64,
) (*ModifyLiquidityUpdate, error) {
	if liquidityDelta.IsZero() {
		return nil, whirlpool.ErrLiquidityZero
	}

	rewardInfos, err := NextWhirlpoolRewardInfos(pool, timestamp)
	if err != nil {
		return nil, err
	}

	update := &ModifyLiquidityUpdate{RewardInfos: rewardInfos}

	update.WhirlpoolLiquidity = pool.Liquidity
	if pool.TickCurrentIndex >= position.TickLowerIndex && pool.TickCurrentIndex < position.TickUpperIndex {
		nextLiquidity, err := math.AddLiquidityDelta(whirlpool.U128Int(pool.Liquidity), liquidityDelta)
		if err != nil {
			return nil, err
		}
		update.WhirlpoolLiquidity, err = whirlpool.U128FromInt(nextLiquidity)
		if err != nil {
			return nil, err
		}
	}

	update.TickLowerUpdate, err = NextTickModifyLiquidityUpdate(
		tickLower, position.TickLowerIndex, pool.TickCurrentIndex,
		pool.FeeGrowthGlobalA, pool.FeeGrowthGlobalB, rewardInfos,
		liquidityDelta, false,
	)
	if err != nil {
		return nil, err
	}
	update.TickUpperUpdate, err = NextTickModifyLiquidityUpdate(
		tickUpper, position.TickUpperIndex, pool.TickCurrentIndex,
		pool.FeeGrowthGlobalA, pool.FeeGrowthGlobalB, rewardInfos,
		liquidityDelta, true,
	)
	if err != nil {
		return nil, err
	}

	insideA, insideB := NextFeeGrowthsInside(
		pool.TickCurrentIndex,
		tickLower, position.TickLowerIndex,
		tickUpper, position.TickUpperIndex,
		pool.FeeGrowthGlobalA, pool.FeeGrowthGlobalB,
	)
	rewardsInside := NextRewardGrowthsInside(
		pool.TickCurrentIndex,
		tickLower, position.TickLowerIndex,
		tickUpper, position.TickUpperIndex,
		rewardInfos,
	)
	update.PositionUpdate, err = NextPositionModifiedLiquidity(position, liquidityDelta, insideA, insideB, rewardsInside)
	if err != nil {
		return nil, err
	}
	return update, nil
}

// CalculateLiquidityTokenDeltas converts a liquidity delta into the token
// amounts it represents at the current price. Deposits round up (owed to the
// pool), withdrawals round down (owed to the trader).
func CalculateLiquidityTokenDeltas(
	tickCurrentIndex int32,
	sqrtPrice cosmath.Int,
	position *whirlpool.Position,
	liquidityDelta cosmath.Int,
) (deltaA, deltaB cosmath.Int, err error) {
	if liquidityDelta.IsZero() {
		return cosmath.Int{}, cosmath.Int{}, whirlpool.ErrLiquidityZero
	}

	roundUp := liquidityDelta.IsPositive()
	liquidity := liquidityDelta.Abs()

	lowerPrice, err := math.SqrtPriceFromTickIndex(position.TickLowerIndex)
	if err != nil {
		return cosmath.Int{}, cosmath.Int{}, err
	}
	upperPrice, err := math.SqrtPriceFromTickIndex(position.TickUpperIndex)
	if err != nil {
		return cosmath.Int{}, cosmath.Int{}, err
	}

	deltaA, deltaB = cosmath.ZeroInt(), cosmath.ZeroInt()
	switch {
	case tickCurrentIndex < position.TickLowerIndex:
		// Price below the range: the position is entirely token A.
		deltaA, err = math.GetAmountDeltaA(lowerPrice, upperPrice, liquidity, roundUp)
	case tickCurrentIndex < position.TickUpperIndex:
		deltaA, err = math.GetAmountDeltaA(sqrtPrice, upperPrice, liquidity, roundUp)
		if err == nil {
			deltaB, err = math.GetAmountDeltaB(lowerPrice, sqrtPrice, liquidity, roundUp)
		}
	default:
		// Price above the range: entirely token B.
		deltaB, err = math.GetAmountDeltaB(lowerPrice, upperPrice, liquidity, roundUp)
	}
	if err != nil {
		return cosmath.Int{}, cosmath.Int{}, err
	}
	return deltaA, deltaB, nil
}

// SyncModifyLiquidityValues commits a computed update to the pool, position
// and both boundary ticks.
func SyncModifyLiquidityValues(
	pool *whirlpool.Whirlpool,
	position *whirlpool.Position,
	tickArrayLower, tickArrayUpper whirlpool.TickArrayLike,
	update *ModifyLiquidityUpdate,
	timestamp uint64,
) error {
	position.Update(&update.PositionUpdate)
	if err := tickArrayLower.UpdateTick(position.TickLowerIndex, pool.TickSpacing, &update.TickLowerUpdate); err != nil {
		return err
	}
	if err := tickArrayUpper.UpdateTick(position.TickUpperIndex, pool.TickSpacing, &update.TickUpperUpdate); err != nil {
		return err
	}
	return pool.UpdateRewardsAndLiquidity(update.RewardInfos, update.WhirlpoolLiquidity, timestamp)
}

// IncreaseLiquidity deposits liquidity into a position and returns the token
// amounts the caller must transfer in. Amounts above the caller's maximums
// abort before anything is written.
func IncreaseLiquidity(
	pool *whirlpool.Whirlpool,
	position *whirlpool.Position,
	tickArrayLower, tickArrayUpper whirlpool.TickArrayLike,
	liquidityAmount uint128.Uint128,
	tokenMaxA, tokenMaxB uint64,
	timestamp uint64,
) (amountA, amountB uint64, err error) {
	delta, err := math.ConvertToLiquidityDelta(whirlpool.U128Int(liquidityAmount), true)
	if err != nil {
		return 0, 0, err
	}
	return modifyLiquidity(pool, position, tickArrayLower, tickArrayUpper, delta, tokenMaxA, tokenMaxB, timestamp)
}

// DecreaseLiquidity withdraws liquidity from a position and returns the
// token amounts owed to the caller. Amounts below the caller's minimums
// abort before anything is written.
func DecreaseLiquidity(
	pool *whirlpool.Whirlpool,
	position *whirlpool.Position,
	tickArrayLower, tickArrayUpper whirlpool.TickArrayLike,
	liquidityAmount uint128.Uint128,
	tokenMinA, tokenMinB uint64,
	timestamp uint64,
) (amountA, amountB uint64, err error) {
	delta, err := math.ConvertToLiquidityDelta(whirlpool.U128Int(liquidityAmount), false)
	if err != nil {
		return 0, 0, err
	}
	return modifyLiquidity(pool, position, tickArrayLower, tickArrayUpper, delta, tokenMinA, tokenMinB, timestamp)
}

func modifyLiquidity(
	pool *whirlpool.Whirlpool,
	position *whirlpool.Position,
	tickArrayLower, tickArrayUpper whirlpool.TickArrayLike,
	liquidityDelta cosmath.Int,
	tokenLimitA, tokenLimitB uint64,
	timestamp uint64,
) (amountA, amountB uint64, err error) {
	tickLower, err := tickArrayLower.GetTick(position.TickLowerIndex, pool.TickSpacing)
	if err != nil {
		return 0, 0, err
	}
	tickUpper, err := tickArrayUpper.GetTick(position.TickUpperIndex, pool.TickSpacing)
	if err != nil {
		return 0, 0, err
	}

	update, err := CalculateModifyLiquidity(pool, position, &tickLower, &tickUpper, liquidityDelta, timestamp)
	if err != nil {
		return 0, 0, err
	}
	deltaA, deltaB, err := CalculateLiquidityTokenDeltas(pool.TickCurrentIndex, whirlpool.U128Int(pool.SqrtPrice), position, liquidityDelta)
	if err != nil {
		return 0, 0, err
	}

	amountA, err = whirlpool.U64FromInt(deltaA)
	if err != nil {
		return 0, 0, err
	}
	amountB, err = whirlpool.U64FromInt(deltaB)
	if err != nil {
		return 0, 0, err
	}

	if liquidityDelta.IsPositive() {
		if amountA > tokenLimitA || amountB > tokenLimitB {
			return 0, 0, whirlpool.ErrTokenMaxExceeded
		}
	} else {
		if amountA < tokenLimitA || amountB < tokenLimitB {
			return 0, 0, whirlpool.ErrTokenMinSubceeded
		}
	}

	if err := SyncModifyLiquidityValues(pool, position, tickArrayLower, tickArrayUpper, update, timestamp); err != nil {
		return 0, 0, err
	}
	return amountA, amountB, nil
}
