package manager

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/orca-so/whirlpools-sub004/pkg/math"
	"github.com/orca-so/whirlpools-sub004/pkg/whirlpool"
)

func adaptiveOracle(t *testing.T) *whirlpool.Oracle {
	t.Helper()
	oracle, err := whirlpool.InitializeOracle(whirlpool.ProgramID, 64, whirlpool.AdaptiveFeeConstants{
		FilterPeriod:             30,
		DecayPeriod:              600,
		ReductionFactor:          500,
		AdaptiveFeeControlFactor: 4000,
		MaxVolatilityAccumulator: 350_000,
		TickGroupSize:            64,
		MajorSwapThresholdTicks:  64,
	}, 0)
	require.NoError(t, err)
	return oracle
}

func TestFeeRateManagerStatic(t *testing.T) {
	m, err := NewFeeRateManager(0, 3000, nil, swapTestTimestamp)
	require.NoError(t, err)
	require.Equal(t, uint32(3000), m.TotalFeeRate())

	// Without an oracle there is no volatility state to maintain.
	m.SyncTickGroup(-5000)
	require.Equal(t, uint32(3000), m.TotalFeeRate())
	require.NoError(t, m.UpdateMajorSwapTimestamp(whirlpool.MinSqrtPrice, whirlpool.MaxSqrtPrice, swapTestTimestamp))
}

func TestFeeRateManagerAdaptive(t *testing.T) {
	oracle := adaptiveOracle(t)

	// A cold oracle contributes no surcharge on the first step.
	m, err := NewFeeRateManager(-130, 3000, oracle, swapTestTimestamp)
	require.NoError(t, err)
	require.Equal(t, uint32(3000), m.TotalFeeRate())
	require.Equal(t, int32(-3), oracle.Variables.TickGroupIndexReference)

	// Moving one tick group away raises the accumulator and the rate.
	m.SyncTickGroup(-200)
	require.Equal(t, uint32(10_000), oracle.Variables.VolatilityAccumulator)
	require.Equal(t, uint32(3164), m.TotalFeeRate())

	// Staying inside the same group changes nothing.
	m.SyncTickGroup(-210)
	require.Equal(t, uint32(10_000), oracle.Variables.VolatilityAccumulator)
}

func TestFeeRateManagerMajorSwapThreshold(t *testing.T) {
	oracle := adaptiveOracle(t)
	m, err := NewFeeRateManager(0, 3000, oracle, swapTestTimestamp)
	require.NoError(t, err)

	// 20 ticks of movement stays under the 64-tick threshold.
	pre, err := math.SqrtPriceFromTickIndex(0)
	require.NoError(t, err)
	post, err := math.SqrtPriceFromTickIndex(20)
	require.NoError(t, err)
	require.NoError(t, m.UpdateMajorSwapTimestamp(pre, post, swapTestTimestamp))
	require.Equal(t, uint64(0), oracle.Variables.LastMajorSwapTimestamp)

	// A move of exactly the threshold is major; the boundary is inclusive.
	post, err = math.SqrtPriceFromTickIndex(-64)
	require.NoError(t, err)
	require.NoError(t, m.UpdateMajorSwapTimestamp(pre, post, swapTestTimestamp))
	require.Equal(t, swapTestTimestamp, oracle.Variables.LastMajorSwapTimestamp)
}

func TestNewFeeRateManagerPropagatesTimestampError(t *testing.T) {
	oracle := adaptiveOracle(t)
	oracle.Variables.LastReferenceUpdateTimestamp = swapTestTimestamp + 100
	_, err := NewFeeRateManager(0, 3000, oracle, swapTestTimestamp)
	require.ErrorIs(t, err, whirlpool.ErrInvalidTimestamp)
}
