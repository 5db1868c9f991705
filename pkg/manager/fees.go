package manager

import (
	cosmath "cosmossdk.io/math"
	"github.com/gagliardetto/solana-go"

	"github.com/orca-so/whirlpools-sub004/pkg/whirlpool"
)

// UpdateFeesAndRewards syncs a position's fee and reward checkpoints to the
// present without changing liquidity, making its owed buckets collectable.
func UpdateFeesAndRewards(
	pool *whirlpool.Whirlpool,
	position *whirlpool.Position,
	tickArrayLower, tickArrayUpper whirlpool.TickArrayLike,
	timestamp uint64,
) error {
	tickLower, err := tickArrayLower.GetTick(position.TickLowerIndex, pool.TickSpacing)
	if err != nil {
		return err
	}
	tickUpper, err := tickArrayUpper.GetTick(position.TickUpperIndex, pool.TickSpacing)
	if err != nil {
		return err
	}

	rewardInfos, err := NextWhirlpoolRewardInfos(pool, timestamp)
	if err != nil {
		return err
	}

	insideA, insideB := NextFeeGrowthsInside(
		pool.TickCurrentIndex,
		&tickLower, position.TickLowerIndex,
		&tickUpper, position.TickUpperIndex,
		pool.FeeGrowthGlobalA, pool.FeeGrowthGlobalB,
	)
	rewardsInside := NextRewardGrowthsInside(
		pool.TickCurrentIndex,
		&tickLower, position.TickLowerIndex,
		&tickUpper, position.TickUpperIndex,
		rewardInfos,
	)

	update, err := NextPositionModifiedLiquidity(position, cosmath.ZeroInt(), insideA, insideB, rewardsInside)
	if err != nil {
		return err
	}
	position.Update(&update)
	return pool.UpdateRewards(rewardInfos, timestamp)
}

// CollectFees captures a position's owed fees and zeroes the buckets, in
// that order, so an aborted transfer can never pay twice.
func CollectFees(position *whirlpool.Position) (feeA, feeB uint64) {
	return position.ResetFeesOwed()
}

// CollectReward captures one reward slot's owed amount, capped by what the
// vault can pay out, and zeroes the bucket.
func CollectReward(position *whirlpool.Position, rewardIndex int, vaultAmount uint64) (uint64, error) {
	if rewardIndex < 0 || rewardIndex >= whirlpool.NumRewards {
		return 0, whirlpool.ErrRewardIndexOutOfBounds
	}
	owed, err := position.ResetRewardOwed(rewardIndex)
	if err != nil {
		return 0, err
	}
	if owed > vaultAmount {
		// The shortfall stays owed for a later collection.
		position.RewardInfos[rewardIndex].AmountOwed = owed - vaultAmount
		return vaultAmount, nil
	}
	return owed, nil
}

// CollectProtocolFees captures the pool's protocol fee buckets and zeroes
// them. Only keys in the injected authority set may collect.
func CollectProtocolFees(pool *whirlpool.Whirlpool, authoritySet *whirlpool.AuthoritySet, authority solana.PublicKey) (feeA, feeB uint64, err error) {
	if err := authoritySet.Require(authority); err != nil {
		return 0, 0, err
	}
	feeA, feeB = pool.ResetProtocolFeesOwed()
	return feeA, feeB, nil
}
