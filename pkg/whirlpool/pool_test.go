package whirlpool

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"
	"lukechampine.com/uint128"
)

func testPool() *Whirlpool {
	return &Whirlpool{
		WhirlpoolsConfig:           solana.MustPublicKeyFromBase58("2LecshUwdy9xi7meFgHtFJQNSKk4KdTrcpvaB56dP2NQ"),
		WhirlpoolBump:              [1]byte{255},
		TickSpacing:                64,
		FeeTierIndexSeed:           [2]byte{64, 0},
		FeeRate:                    3000,
		ProtocolFeeRate:            300,
		Liquidity:                  uint128.From64(1_000_000),
		SqrtPrice:                  uint128.New(0, 1), // 2^64, tick 0
		TickCurrentIndex:           0,
		TokenMintA:                 solana.MustPublicKeyFromBase58("So11111111111111111111111111111111111111112"),
		TokenVaultA:                solana.MustPublicKeyFromBase58("3YQm7ujtXWJU2e9jhp2QGHpnn1ShXn12QjvzMvDgabpX"),
		TokenMintB:                 solana.MustPublicKeyFromBase58("EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"),
		TokenVaultB:                solana.MustPublicKeyFromBase58("8x9c5qa4nvakKo5wHPbPa5xvTVMKmS26w4DRpCQLCLk3"),
		RewardLastUpdatedTimestamp: 1_700_000_000,
	}
}

func TestWhirlpoolEncodeDecodeRoundTrip(t *testing.T) {
	pool := testPool()
	pool.ProtocolFeeOwedA = 12345
	pool.FeeGrowthGlobalA = uint128.New(7, 9)
	pool.RewardInfos[0] = RewardInfo{
		Mint:                  solana.MustPublicKeyFromBase58("So11111111111111111111111111111111111111112"),
		Vault:                 solana.MustPublicKeyFromBase58("3YQm7ujtXWJU2e9jhp2QGHpnn1ShXn12QjvzMvDgabpX"),
		Authority:             solana.MustPublicKeyFromBase58("2LecshUwdy9xi7meFgHtFJQNSKk4KdTrcpvaB56dP2NQ"),
		EmissionsPerSecondX64: uint128.From64(500),
		GrowthGlobalX64:       uint128.From64(9000),
	}

	data := pool.Encode()
	require.Len(t, data, WhirlpoolAccountSize)

	decoded, err := DecodeWhirlpool(data)
	require.NoError(t, err)
	require.Equal(t, pool, decoded)
}

func TestWhirlpoolMemcmpOffsets(t *testing.T) {
	pool := testPool()
	data := pool.Encode()
	require.Equal(t, pool.WhirlpoolsConfig[:], data[WhirlpoolConfigOffset:WhirlpoolConfigOffset+32])
	require.Equal(t, pool.TokenMintA[:], data[WhirlpoolTokenMintAOffset:WhirlpoolTokenMintAOffset+32])
	require.Equal(t, pool.TokenMintB[:], data[WhirlpoolTokenMintBOffset:WhirlpoolTokenMintBOffset+32])
	require.Equal(t, uint16(64), getU16(data[WhirlpoolTickSpacingOffset:]))
}

func TestApplySwapUpdateSides(t *testing.T) {
	update := PoolSwapUpdate{
		Liquidity:        uint128.From64(2_000_000),
		SqrtPrice:        uint128.From64(99),
		TickCurrentIndex: -5,
		FeeGrowthGlobal:  uint128.From64(777),
		ProtocolFee:      42,
		AToB:             true,
	}

	pool := testPool()
	require.NoError(t, pool.ApplySwapUpdate(&update, 1_700_000_100))
	require.Equal(t, uint128.From64(777), pool.FeeGrowthGlobalA)
	require.Equal(t, uint64(42), pool.ProtocolFeeOwedA)
	require.True(t, pool.FeeGrowthGlobalB.IsZero())
	require.Equal(t, uint64(0), pool.ProtocolFeeOwedB)
	require.Equal(t, int32(-5), pool.TickCurrentIndex)
	require.Equal(t, uint64(1_700_000_100), pool.RewardLastUpdatedTimestamp)

	pool = testPool()
	update.AToB = false
	require.NoError(t, pool.ApplySwapUpdate(&update, 1_700_000_100))
	require.Equal(t, uint128.From64(777), pool.FeeGrowthGlobalB)
	require.Equal(t, uint64(42), pool.ProtocolFeeOwedB)
	require.Equal(t, uint64(0), pool.ProtocolFeeOwedA)

	// Clocks never run backwards.
	err := pool.ApplySwapUpdate(&update, 1_600_000_000)
	require.ErrorIs(t, err, ErrInvalidTimestamp)
}

func TestApplySwapUpdateProtocolFeeDoesNotWrap(t *testing.T) {
	update := PoolSwapUpdate{
		Liquidity:   uint128.From64(2_000_000),
		SqrtPrice:   uint128.From64(99),
		ProtocolFee: 1,
		AToB:        true,
	}

	pool := testPool()
	pool.ProtocolFeeOwedA = ^uint64(0)
	err := pool.ApplySwapUpdate(&update, 1_700_000_100)
	require.ErrorIs(t, err, ErrAmountOwedOverflow)

	// The failed commit leaves the pool untouched.
	require.Equal(t, ^uint64(0), pool.ProtocolFeeOwedA)
	require.Equal(t, testPool().SqrtPrice, pool.SqrtPrice)
	require.Equal(t, testPool().RewardLastUpdatedTimestamp, pool.RewardLastUpdatedTimestamp)

	pool = testPool()
	pool.ProtocolFeeOwedB = ^uint64(0)
	update.AToB = false
	require.ErrorIs(t, pool.ApplySwapUpdate(&update, 1_700_000_100), ErrAmountOwedOverflow)
}

func TestSetFeeRateBounds(t *testing.T) {
	pool := testPool()

	// The cap itself is accepted; one past it is not.
	require.NoError(t, pool.SetFeeRate(MaxFeeRate))
	require.Equal(t, uint16(MaxFeeRate), pool.FeeRate)
	require.ErrorIs(t, pool.SetFeeRate(MaxFeeRate+1), ErrFeeRateMaxExceeded)

	require.NoError(t, pool.SetProtocolFeeRate(MaxProtocolFeeRate))
	require.ErrorIs(t, pool.SetProtocolFeeRate(MaxProtocolFeeRate+1), ErrProtocolFeeRateMaxExceeded)
}

func TestInitializeRewardOrdering(t *testing.T) {
	pool := testPool()
	mint := solana.MustPublicKeyFromBase58("So11111111111111111111111111111111111111112")
	vault := solana.MustPublicKeyFromBase58("3YQm7ujtXWJU2e9jhp2QGHpnn1ShXn12QjvzMvDgabpX")
	authority := solana.MustPublicKeyFromBase58("2LecshUwdy9xi7meFgHtFJQNSKk4KdTrcpvaB56dP2NQ")

	// Slots fill lowest first.
	require.ErrorIs(t, pool.InitializeReward(1, mint, vault, authority), ErrRewardIndexOutOfBounds)
	require.NoError(t, pool.InitializeReward(0, mint, vault, authority))
	require.True(t, pool.RewardInfos[0].Initialized())

	// Re-initializing a live slot is rejected.
	require.ErrorIs(t, pool.InitializeReward(0, mint, vault, authority), ErrRewardIndexOutOfBounds)
	require.NoError(t, pool.InitializeReward(1, mint, vault, authority))

	require.ErrorIs(t, pool.InitializeReward(3, mint, vault, authority), ErrRewardIndexOutOfBounds)
}

func TestSetRewardEmissionsRequiresInitializedSlot(t *testing.T) {
	pool := testPool()
	err := pool.SetRewardEmissions(0, uint128.From64(100))
	require.ErrorIs(t, err, ErrInvalidRewardSchedule)

	mint := solana.MustPublicKeyFromBase58("So11111111111111111111111111111111111111112")
	require.NoError(t, pool.InitializeReward(0, mint, mint, mint))
	require.NoError(t, pool.SetRewardEmissions(0, uint128.From64(100)))
	require.Equal(t, uint128.From64(100), pool.RewardInfos[0].EmissionsPerSecondX64)
}

func TestResetProtocolFeesOwed(t *testing.T) {
	pool := testPool()
	pool.ProtocolFeeOwedA = 11
	pool.ProtocolFeeOwedB = 22

	feeA, feeB := pool.ResetProtocolFeesOwed()
	require.Equal(t, uint64(11), feeA)
	require.Equal(t, uint64(22), feeB)
	require.Equal(t, uint64(0), pool.ProtocolFeeOwedA)
	require.Equal(t, uint64(0), pool.ProtocolFeeOwedB)
}

func TestFeeTierIndex(t *testing.T) {
	pool := testPool()
	require.Equal(t, uint16(64), pool.FeeTierIndex())
	require.False(t, pool.IsInitializedWithAdaptiveFee())

	pool.FeeTierIndexSeed = [2]byte{0x41, 0x04} // 1089
	require.Equal(t, uint16(1089), pool.FeeTierIndex())
	require.True(t, pool.IsInitializedWithAdaptiveFee())
}
