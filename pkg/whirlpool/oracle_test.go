package whirlpool

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"
)

func testConstants() AdaptiveFeeConstants {
	return AdaptiveFeeConstants{
		FilterPeriod:             30,
		DecayPeriod:              600,
		ReductionFactor:          500,
		AdaptiveFeeControlFactor: 4000,
		MaxVolatilityAccumulator: 350_000,
		TickGroupSize:            64,
		MajorSwapThresholdTicks:  64,
	}
}

func TestAdaptiveFeeConstantsValidate(t *testing.T) {
	c := testConstants()
	require.NoError(t, c.Validate(64))

	bad := c
	bad.FilterPeriod = 0
	require.ErrorIs(t, bad.Validate(64), ErrInvalidAdaptiveFeeConstants)

	bad = c
	bad.DecayPeriod = c.FilterPeriod
	require.ErrorIs(t, bad.Validate(64), ErrInvalidAdaptiveFeeConstants)

	bad = c
	bad.ReductionFactor = ReductionFactorDenominator
	require.ErrorIs(t, bad.Validate(64), ErrInvalidAdaptiveFeeConstants)

	bad = c
	bad.AdaptiveFeeControlFactor = AdaptiveFeeControlFactorDenominator
	require.ErrorIs(t, bad.Validate(64), ErrInvalidAdaptiveFeeConstants)

	bad = c
	bad.TickGroupSize = 48 // does not divide the tick spacing
	require.ErrorIs(t, bad.Validate(64), ErrInvalidAdaptiveFeeConstants)

	bad = c
	bad.TickGroupSize = 0
	require.ErrorIs(t, bad.Validate(64), ErrInvalidAdaptiveFeeConstants)

	bad = c
	bad.MajorSwapThresholdTicks = 0
	require.ErrorIs(t, bad.Validate(64), ErrInvalidAdaptiveFeeConstants)

	// max accumulator times group size must fit u32
	bad = c
	bad.MaxVolatilityAccumulator = 1 << 31
	require.ErrorIs(t, bad.Validate(64), ErrInvalidAdaptiveFeeConstants)
}

func TestUpdateReferenceHoldsWithinFilterPeriod(t *testing.T) {
	c := testConstants()
	v := AdaptiveFeeVariables{
		LastReferenceUpdateTimestamp: 1000,
		TickGroupIndexReference:      5,
		VolatilityAccumulator:        80_000,
	}

	require.NoError(t, v.UpdateReference(9, 1000+uint64(c.FilterPeriod)-1, &c))
	require.Equal(t, int32(5), v.TickGroupIndexReference)
	require.Equal(t, uint32(0), v.VolatilityReference)
	require.Equal(t, uint64(1000), v.LastReferenceUpdateTimestamp)
}

func TestUpdateReferenceDecays(t *testing.T) {
	c := testConstants()
	v := AdaptiveFeeVariables{
		LastReferenceUpdateTimestamp: 1000,
		TickGroupIndexReference:      5,
		VolatilityAccumulator:        80_000,
	}

	// Between filter and decay the accumulator is carried over, reduced.
	ts := uint64(1000 + 100)
	require.NoError(t, v.UpdateReference(9, ts, &c))
	require.Equal(t, int32(9), v.TickGroupIndexReference)
	require.Equal(t, uint32(4000), v.VolatilityReference) // 80_000 * 500 / 10_000
	require.Equal(t, ts, v.LastReferenceUpdateTimestamp)
}

func TestUpdateReferenceGoesColdPastDecay(t *testing.T) {
	c := testConstants()
	v := AdaptiveFeeVariables{
		LastReferenceUpdateTimestamp: 1000,
		TickGroupIndexReference:      5,
		VolatilityAccumulator:        80_000,
	}

	require.NoError(t, v.UpdateReference(9, 1000+uint64(c.DecayPeriod), &c))
	require.Equal(t, int32(9), v.TickGroupIndexReference)
	require.Equal(t, uint32(0), v.VolatilityReference)
}

func TestUpdateReferenceAgesOut(t *testing.T) {
	c := testConstants()
	// A recent major swap keeps elapsed inside the filter period, but the
	// reference itself is older than an hour and must reset anyway.
	v := AdaptiveFeeVariables{
		LastReferenceUpdateTimestamp: 1000,
		LastMajorSwapTimestamp:       1000 + MaxReferenceAge + 90,
		TickGroupIndexReference:      5,
		VolatilityAccumulator:        80_000,
	}

	require.NoError(t, v.UpdateReference(9, 1000+MaxReferenceAge+100, &c))
	require.Equal(t, int32(9), v.TickGroupIndexReference)
	require.Equal(t, uint32(0), v.VolatilityReference)
}

func TestUpdateReferenceRejectsRegression(t *testing.T) {
	c := testConstants()
	v := AdaptiveFeeVariables{LastReferenceUpdateTimestamp: 1000}
	require.ErrorIs(t, v.UpdateReference(0, 999, &c), ErrInvalidTimestamp)

	v = AdaptiveFeeVariables{LastMajorSwapTimestamp: 2000}
	require.ErrorIs(t, v.UpdateReference(0, 1500, &c), ErrInvalidTimestamp)
}

func TestUpdateVolatilityAccumulator(t *testing.T) {
	c := testConstants()
	v := AdaptiveFeeVariables{
		VolatilityReference:     4000,
		TickGroupIndexReference: 10,
	}

	v.UpdateVolatilityAccumulator(13, &c)
	require.Equal(t, uint32(34_000), v.VolatilityAccumulator) // 4000 + 3*10_000

	// Direction does not matter.
	v.UpdateVolatilityAccumulator(7, &c)
	require.Equal(t, uint32(34_000), v.VolatilityAccumulator)

	// Clamped at the configured maximum.
	v.UpdateVolatilityAccumulator(10+1000, &c)
	require.Equal(t, c.MaxVolatilityAccumulator, v.VolatilityAccumulator)
}

func TestComputeAdaptiveFeeRate(t *testing.T) {
	c := testConstants()

	v := AdaptiveFeeVariables{VolatilityAccumulator: 0}
	require.Equal(t, uint32(0), ComputeAdaptiveFeeRate(&c, &v))

	// One full tick group crossed: ceil(4000 * 640_000^2 / 1e13) = 164.
	v.VolatilityAccumulator = 10_000
	require.Equal(t, uint32(164), ComputeAdaptiveFeeRate(&c, &v))

	// Saturated volatility pins the surcharge at the hard limit.
	v.VolatilityAccumulator = c.MaxVolatilityAccumulator
	require.Equal(t, uint32(FeeRateHardLimit), ComputeAdaptiveFeeRate(&c, &v))
}

func TestComputeTotalFeeRate(t *testing.T) {
	c := testConstants()

	v := AdaptiveFeeVariables{VolatilityAccumulator: 10_000}
	require.Equal(t, uint32(3164), ComputeTotalFeeRate(3000, &c, &v))

	v.VolatilityAccumulator = c.MaxVolatilityAccumulator
	require.Equal(t, uint32(FeeRateHardLimit), ComputeTotalFeeRate(30_000, &c, &v))
}

func TestSetAdaptiveFeeConstants(t *testing.T) {
	key := solana.MustPublicKeyFromBase58("So11111111111111111111111111111111111111112")
	oracle, err := InitializeOracle(key, 64, testConstants(), 0)
	require.NoError(t, err)
	oracle.Variables.VolatilityAccumulator = 50_000
	oracle.Variables.TickGroupIndexReference = 3

	// Identical constants are a rejected no-op; state is untouched.
	err = oracle.SetAdaptiveFeeConstants(testConstants(), 64)
	require.ErrorIs(t, err, ErrAdaptiveFeeConstantsUnchanged)
	require.Equal(t, uint32(50_000), oracle.Variables.VolatilityAccumulator)

	// Invalid replacements are rejected without side effects.
	bad := testConstants()
	bad.DecayPeriod = 10
	err = oracle.SetAdaptiveFeeConstants(bad, 64)
	require.ErrorIs(t, err, ErrInvalidAdaptiveFeeConstants)
	require.Equal(t, testConstants(), oracle.Constants)

	// A valid change resets the volatility state machine.
	next := testConstants()
	next.AdaptiveFeeControlFactor = 5000
	require.NoError(t, oracle.SetAdaptiveFeeConstants(next, 64))
	require.Equal(t, next, oracle.Constants)
	require.Equal(t, AdaptiveFeeVariables{}, oracle.Variables)
}

func TestInitializeOracleRejectsBadConstants(t *testing.T) {
	key := solana.MustPublicKeyFromBase58("So11111111111111111111111111111111111111112")
	bad := testConstants()
	bad.TickGroupSize = 128 // larger than the tick spacing
	_, err := InitializeOracle(key, 64, bad, 0)
	require.ErrorIs(t, err, ErrInvalidAdaptiveFeeConstants)
}

func TestOracleEncodeDecodeRoundTrip(t *testing.T) {
	key := solana.MustPublicKeyFromBase58("So11111111111111111111111111111111111111112")
	oracle, err := InitializeOracle(key, 64, testConstants(), 1_700_000_000)
	require.NoError(t, err)
	oracle.Variables = AdaptiveFeeVariables{
		LastReferenceUpdateTimestamp: 1_700_000_500,
		LastMajorSwapTimestamp:       1_700_000_400,
		VolatilityReference:          4000,
		TickGroupIndexReference:      -17,
		VolatilityAccumulator:        34_000,
	}

	data := oracle.Encode()
	require.Len(t, data, OracleAccountSize)

	decoded, err := DecodeOracle(data)
	require.NoError(t, err)
	require.Equal(t, oracle, decoded)
}
