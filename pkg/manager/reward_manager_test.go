package manager

import (
	"testing"

	"github.com/stretchr/testify/require"
	"lukechampine.com/uint128"

	"github.com/orca-so/whirlpools-sub004/pkg/whirlpool"
)

func rewardTestPool() *whirlpool.Whirlpool {
	pool := swapScenarioPool()
	pool.RewardInfos[0] = whirlpool.RewardInfo{
		Mint: whirlpool.ProgramID,
		// 10 tokens per second in Q64.64.
		EmissionsPerSecondX64: uint128.New(0, 10),
	}
	return pool
}

func TestNextWhirlpoolRewardInfos(t *testing.T) {
	pool := rewardTestPool()

	// 100 seconds of emissions over 1_000_000 units of liquidity.
	next, err := NextWhirlpoolRewardInfos(pool, swapTestTimestamp+100)
	require.NoError(t, err)
	require.Equal(t, uint128.From64(18_446_744_073_709_551), next[0].GrowthGlobalX64)

	// Uninitialized slots never accrue.
	require.True(t, next[1].GrowthGlobalX64.IsZero())
	require.True(t, next[2].GrowthGlobalX64.IsZero())

	// The projection leaves the pool untouched.
	require.True(t, pool.RewardInfos[0].GrowthGlobalX64.IsZero())
}

func TestNextWhirlpoolRewardInfosZeroLiquidity(t *testing.T) {
	pool := rewardTestPool()
	pool.Liquidity = uint128.Zero

	// Emissions over an empty pool are forfeited, not carried over.
	next, err := NextWhirlpoolRewardInfos(pool, swapTestTimestamp+100)
	require.NoError(t, err)
	require.True(t, next[0].GrowthGlobalX64.IsZero())
}

func TestNextWhirlpoolRewardInfosRejectsRegression(t *testing.T) {
	pool := rewardTestPool()
	_, err := NextWhirlpoolRewardInfos(pool, swapTestTimestamp-1)
	require.ErrorIs(t, err, whirlpool.ErrInvalidTimestamp)
}

func TestSetRewardEmissionsSettlesBeforeRateChange(t *testing.T) {
	pool := rewardTestPool()

	// Growth accrued at the old rate must land before the new rate applies,
	// keeping growth additive across the change.
	err := SetRewardEmissions(pool, 0, uint128.New(0, 20), 2_000_000, swapTestTimestamp+100)
	require.NoError(t, err)
	require.Equal(t, uint128.From64(18_446_744_073_709_551), pool.RewardInfos[0].GrowthGlobalX64)
	require.Equal(t, uint128.New(0, 20), pool.RewardInfos[0].EmissionsPerSecondX64)
	require.Equal(t, swapTestTimestamp+100, pool.RewardLastUpdatedTimestamp)
}

func TestSetRewardEmissionsVaultSufficiency(t *testing.T) {
	pool := rewardTestPool()

	// 1 token per second needs 86_400 in the vault for the first day.
	oneTokenPerSecond := uint128.New(0, 1)
	err := SetRewardEmissions(pool, 0, oneTokenPerSecond, 86_399, swapTestTimestamp)
	require.ErrorIs(t, err, whirlpool.ErrRewardVaultAmountInsufficient)

	require.NoError(t, SetRewardEmissions(pool, 0, oneTokenPerSecond, 86_400, swapTestTimestamp))
}

func TestSetRewardEmissionsIndexBounds(t *testing.T) {
	pool := rewardTestPool()
	err := SetRewardEmissions(pool, whirlpool.NumRewards, uint128.Zero, 0, swapTestTimestamp)
	require.ErrorIs(t, err, whirlpool.ErrRewardIndexOutOfBounds)

	// Slot 1 was never bound to a mint.
	err = SetRewardEmissions(pool, 1, uint128.Zero, 0, swapTestTimestamp)
	require.ErrorIs(t, err, whirlpool.ErrInvalidRewardSchedule)
}
