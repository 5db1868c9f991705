package manager

import (
	cosmath "cosmossdk.io/math"
	"lukechampine.com/uint128"

	"github.com/orca-so/whirlpools-sub004/pkg/whirlpool"
)

const secondsPerDay = 60 * 60 * 24

// NextWhirlpoolRewardInfos projects each live reward slot's global growth to
// the given timestamp without mutating the pool:
//
//	growth += emissions_per_second_x64 * elapsed / liquidity
//
// While the pool holds zero liquidity, emissions do not accrue at all; that
// window's rewards are forfeited rather than carried over.
func NextWhirlpoolRewardInfos(pool *whirlpool.Whirlpool, timestamp uint64) ([whirlpool.NumRewards]whirlpool.RewardInfo, error) {
	if timestamp < pool.RewardLastUpdatedTimestamp {
		return pool.RewardInfos, whirlpool.ErrInvalidTimestamp
	}
	next := pool.RewardInfos
	if pool.Liquidity.IsZero() || timestamp == pool.RewardLastUpdatedTimestamp {
		return next, nil
	}

	elapsed := cosmath.NewIntFromUint64(timestamp - pool.RewardLastUpdatedTimestamp)
	liquidity := whirlpool.U128Int(pool.Liquidity)
	for i := 0; i < whirlpool.NumRewards; i++ {
		if !next[i].Initialized() {
			continue
		}
		growthDelta := whirlpool.U128Int(next[i].EmissionsPerSecondX64).Mul(elapsed).Quo(liquidity)
		if growthDelta.GT(whirlpool.MaxU128) {
			// Saturated accumulators stop growing rather than fail the swap.
			growthDelta = cosmath.ZeroInt()
		}
		delta, err := whirlpool.U128FromInt(growthDelta)
		if err != nil {
			return pool.RewardInfos, err
		}
		next[i].GrowthGlobalX64 = next[i].GrowthGlobalX64.AddWrap(delta)
	}
	return next, nil
}

// SetRewardEmissions updates a reward slot's emission rate after settling
// growth up to the change point, keeping growth additive across rate
// changes. The vault must hold at least one day of emissions at the new
// rate.
func SetRewardEmissions(
	pool *whirlpool.Whirlpool,
	rewardIndex int,
	emissionsPerSecondX64 uint128.Uint128,
	rewardVaultAmount uint64,
	timestamp uint64,
) error {
	if rewardIndex < 0 || rewardIndex >= whirlpool.NumRewards {
		return whirlpool.ErrRewardIndexOutOfBounds
	}

	emissionsPerDay := whirlpool.U128Int(emissionsPerSecondX64).
		MulRaw(secondsPerDay).
		Quo(whirlpool.MaxU64.AddRaw(1))
	if emissionsPerDay.GT(cosmath.NewIntFromUint64(rewardVaultAmount)) {
		return whirlpool.ErrRewardVaultAmountInsufficient
	}

	nextRewards, err := NextWhirlpoolRewardInfos(pool, timestamp)
	if err != nil {
		return err
	}
	if err := pool.UpdateRewards(nextRewards, timestamp); err != nil {
		return err
	}
	return pool.SetRewardEmissions(rewardIndex, emissionsPerSecondX64)
}
