package whirlpool

import (
	cosmath "cosmossdk.io/math"
	"github.com/gagliardetto/solana-go"
)

// ProgramID is the deployed program this state layout belongs to.
var ProgramID = solana.MustPublicKeyFromBase58("whirLbMiicVdio4qvUfM5KAg6Ct8VwpYzGff3uctyCc")

const (
	// TickArraySize is the number of tick records held by one tick-array
	// account.
	TickArraySize = 88

	// MinTickIndex and MaxTickIndex bound the usable tick range. Prices move
	// as 1.0001^tick, so this range covers the full u64 token amount domain.
	MinTickIndex = -443636
	MaxTickIndex = 443636

	// NumRewards is the fixed number of reward emission slots per pool.
	NumRewards = 3

	// FeeRateMulValue is the denominator of all fee rates: a fee_rate of
	// 10_000 is 1%.
	FeeRateMulValue = 1_000_000

	// ProtocolFeeRateMulValue is the denominator of the protocol's cut of
	// collected fees: a protocol_fee_rate of 300 is 3%.
	ProtocolFeeRateMulValue = 10_000

	// MaxFeeRate caps the static fee rate of a fee tier (3%).
	MaxFeeRate = 30_000

	// MaxProtocolFeeRate caps the protocol's share (25%).
	MaxProtocolFeeRate = 2_500

	// FeeRateHardLimit caps the combined static + adaptive fee rate (10%).
	FeeRateHardLimit = 100_000

	// MaxSwapTickArrays is how many tick arrays a single swap may traverse.
	MaxSwapTickArrays = 3

	// Adaptive fee scaling.
	VolatilityAccumulatorScaleFactor    = 10_000
	AdaptiveFeeControlFactorDenominator = 100_000
	ReductionFactorDenominator          = 10_000

	// MaxReferenceAge forces a volatility reference reset after an hour of
	// inactivity regardless of the configured decay period.
	MaxReferenceAge = 3600
)

var (
	// MinSqrtPrice and MaxSqrtPrice are the Q64.64 sqrt prices at
	// MinTickIndex and MaxTickIndex.
	MinSqrtPrice = cosmath.NewInt(4295048016)
	MaxSqrtPrice = mustIntFromString("79226673521066979257578248091")

	// MaxU128 and MaxU64 bound the persisted accumulator fields.
	MaxU128 = mustIntFromString("340282366920938463463374607431768211455")
	MaxI128 = mustIntFromString("170141183460469231731687303715884105727")
	MinI128 = mustIntFromString("-170141183460469231731687303715884105728")
	MaxU64  = mustIntFromString("18446744073709551615")
)

func mustIntFromString(s string) cosmath.Int {
	v, ok := cosmath.NewIntFromString(s)
	if !ok {
		panic("whirlpool: bad integer constant " + s)
	}
	return v
}
