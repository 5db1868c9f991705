package manager

import (
	"testing"

	cosmath "cosmossdk.io/math"
	"github.com/stretchr/testify/require"
	"lukechampine.com/uint128"

	"github.com/orca-so/whirlpools-sub004/pkg/whirlpool"
)

func TestNextTickCrossUpdateFlipsOutside(t *testing.T) {
	tick := whirlpool.Tick{
		Initialized:       true,
		LiquidityNet:      cosmath.NewInt(500),
		LiquidityGross:    uint128.From64(500),
		FeeGrowthOutsideA: uint128.From64(100),
		FeeGrowthOutsideB: uint128.From64(40),
	}
	tick.RewardGrowthsOutside[0] = uint128.From64(7)

	globalA := uint128.From64(1000)
	globalB := uint128.From64(300)
	var rewards [whirlpool.NumRewards]whirlpool.RewardInfo
	rewards[0].GrowthGlobalX64 = uint128.From64(50)

	update := NextTickCrossUpdate(&tick, globalA, globalB, rewards)
	require.Equal(t, uint128.From64(900), update.FeeGrowthOutsideA)
	require.Equal(t, uint128.From64(260), update.FeeGrowthOutsideB)
	require.Equal(t, uint128.From64(43), update.RewardGrowthsOutside[0])

	// Liquidity bookkeeping rides along unchanged.
	require.Equal(t, "500", update.LiquidityNet.String())
	require.Equal(t, uint128.From64(500), update.LiquidityGross)

	// Crossing back at the same globals restores the original outside values.
	crossed := tick
	crossed.FeeGrowthOutsideA = update.FeeGrowthOutsideA
	crossed.FeeGrowthOutsideB = update.FeeGrowthOutsideB
	crossed.RewardGrowthsOutside = update.RewardGrowthsOutside
	back := NextTickCrossUpdate(&crossed, globalA, globalB, rewards)
	require.Equal(t, tick.FeeGrowthOutsideA, back.FeeGrowthOutsideA)
	require.Equal(t, tick.RewardGrowthsOutside[0], back.RewardGrowthsOutside[0])
}

func TestNextTickCrossUpdateWraps(t *testing.T) {
	// Outside may exceed global; the difference wraps, and only deltas between
	// snapshots carry meaning.
	tick := whirlpool.Tick{
		Initialized:       true,
		LiquidityNet:      cosmath.ZeroInt(),
		FeeGrowthOutsideA: uint128.From64(10),
	}
	update := NextTickCrossUpdate(&tick, uint128.From64(4), uint128.Zero, [whirlpool.NumRewards]whirlpool.RewardInfo{})
	require.Equal(t, uint128.Max.Sub64(5), update.FeeGrowthOutsideA)
}

func TestNextTickModifyLiquidityFirstInitialization(t *testing.T) {
	globalA := uint128.From64(111)
	globalB := uint128.From64(222)
	var rewards [whirlpool.NumRewards]whirlpool.RewardInfo
	rewards[0].Mint = whirlpool.ProgramID
	rewards[0].GrowthGlobalX64 = uint128.From64(333)
	blank := whirlpool.Tick{LiquidityNet: cosmath.ZeroInt()}

	// A tick at or below the current price seeds its outside accumulators from
	// the globals so growth inside starts from zero.
	update, err := NextTickModifyLiquidityUpdate(&blank, -128, 0, globalA, globalB, rewards, cosmath.NewInt(1000), false)
	require.NoError(t, err)
	require.True(t, update.Initialized)
	require.Equal(t, globalA, update.FeeGrowthOutsideA)
	require.Equal(t, globalB, update.FeeGrowthOutsideB)
	require.Equal(t, uint128.From64(333), update.RewardGrowthsOutside[0])
	require.Equal(t, "1000", update.LiquidityNet.String())

	// A tick above the current price starts with zeroed outside accumulators.
	update, err = NextTickModifyLiquidityUpdate(&blank, 128, 0, globalA, globalB, rewards, cosmath.NewInt(1000), true)
	require.NoError(t, err)
	require.True(t, update.FeeGrowthOutsideA.IsZero())
	require.Equal(t, "-1000", update.LiquidityNet.String())
}

func TestNextTickModifyLiquidityExistingTick(t *testing.T) {
	tick := whirlpool.Tick{
		Initialized:       true,
		LiquidityNet:      cosmath.NewInt(1000),
		LiquidityGross:    uint128.From64(1000),
		FeeGrowthOutsideA: uint128.From64(55),
	}
	var rewards [whirlpool.NumRewards]whirlpool.RewardInfo

	// An established tick keeps its accumulators regardless of price side.
	update, err := NextTickModifyLiquidityUpdate(&tick, -128, 0, uint128.From64(999), uint128.Zero, rewards, cosmath.NewInt(500), false)
	require.NoError(t, err)
	require.Equal(t, uint128.From64(55), update.FeeGrowthOutsideA)
	require.Equal(t, "1500", update.LiquidityNet.String())
	require.Equal(t, uint128.From64(1500), update.LiquidityGross)

	// Removing the last liquidity collapses it back to a placeholder.
	update, err = NextTickModifyLiquidityUpdate(&tick, -128, 0, uint128.From64(999), uint128.Zero, rewards, cosmath.NewInt(-1000), false)
	require.NoError(t, err)
	require.False(t, update.Initialized)
	require.True(t, update.LiquidityGross.IsZero())
	require.True(t, update.LiquidityNet.IsZero())
	require.True(t, update.FeeGrowthOutsideA.IsZero())
}

func TestNextTickModifyLiquidityZeroDeltaCopies(t *testing.T) {
	tick := whirlpool.Tick{
		Initialized:       true,
		LiquidityNet:      cosmath.NewInt(-7),
		LiquidityGross:    uint128.From64(7),
		FeeGrowthOutsideB: uint128.From64(3),
	}
	var rewards [whirlpool.NumRewards]whirlpool.RewardInfo

	update, err := NextTickModifyLiquidityUpdate(&tick, 0, 0, uint128.Zero, uint128.Zero, rewards, cosmath.ZeroInt(), false)
	require.NoError(t, err)
	require.Equal(t, tick.LiquidityNet, update.LiquidityNet)
	require.Equal(t, tick.LiquidityGross, update.LiquidityGross)
	require.Equal(t, tick.FeeGrowthOutsideB, update.FeeGrowthOutsideB)
}

func TestNextTickModifyLiquidityUnderflow(t *testing.T) {
	blank := whirlpool.Tick{LiquidityNet: cosmath.ZeroInt()}
	var rewards [whirlpool.NumRewards]whirlpool.RewardInfo
	_, err := NextTickModifyLiquidityUpdate(&blank, 0, 0, uint128.Zero, uint128.Zero, rewards, cosmath.NewInt(-1), false)
	require.ErrorIs(t, err, whirlpool.ErrLiquidityUnderflow)
}

func TestNextFeeGrowthsInside(t *testing.T) {
	globalA := uint128.From64(1000)
	globalB := uint128.From64(2000)

	// Uninitialized bounds contribute global below and zero above, so nothing
	// has accrued inside yet.
	blank := whirlpool.Tick{LiquidityNet: cosmath.ZeroInt()}
	insideA, insideB := NextFeeGrowthsInside(0, &blank, -128, &blank, 128, globalA, globalB)
	require.True(t, insideA.IsZero())
	require.True(t, insideB.IsZero())

	// With the price in range, inside is global minus both outside values.
	lower := whirlpool.Tick{Initialized: true, LiquidityNet: cosmath.ZeroInt(), FeeGrowthOutsideA: uint128.From64(100), FeeGrowthOutsideB: uint128.From64(200)}
	upper := whirlpool.Tick{Initialized: true, LiquidityNet: cosmath.ZeroInt(), FeeGrowthOutsideA: uint128.From64(50), FeeGrowthOutsideB: uint128.From64(80)}
	insideA, insideB = NextFeeGrowthsInside(0, &lower, -128, &upper, 128, globalA, globalB)
	require.Equal(t, uint128.From64(850), insideA)
	require.Equal(t, uint128.From64(1720), insideB)

	// With the price below the range, the lower bound's contribution flips.
	insideA, _ = NextFeeGrowthsInside(-200, &lower, -128, &upper, 128, globalA, globalB)
	require.Equal(t, uint128.From64(50), insideA)
}

func TestNextRewardGrowthsInside(t *testing.T) {
	var rewards [whirlpool.NumRewards]whirlpool.RewardInfo
	rewards[0].Mint = whirlpool.ProgramID
	rewards[0].GrowthGlobalX64 = uint128.From64(500)
	// Slot 1 left uninitialized on purpose.
	rewards[1].GrowthGlobalX64 = uint128.From64(9999)

	lower := whirlpool.Tick{Initialized: true, LiquidityNet: cosmath.ZeroInt()}
	lower.RewardGrowthsOutside[0] = uint128.From64(120)
	upper := whirlpool.Tick{Initialized: true, LiquidityNet: cosmath.ZeroInt()}
	upper.RewardGrowthsOutside[0] = uint128.From64(30)

	inside := NextRewardGrowthsInside(0, &lower, -128, &upper, 128, rewards)
	require.Equal(t, uint128.From64(350), inside[0])
	require.True(t, inside[1].IsZero())
	require.True(t, inside[2].IsZero())
}
