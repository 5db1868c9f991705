package whirlpool

import (
	"github.com/gagliardetto/solana-go"
	"lukechampine.com/uint128"
)

const (
	adaptiveFeeConstantsSize = 18 + 16 // fields + reserved
	adaptiveFeeVariablesSize = 28 + 16 // fields + reserved

	// OracleAccountSize is the serialized size of an oracle account.
	OracleAccountSize = 8 + 32 + 8 + adaptiveFeeConstantsSize + adaptiveFeeVariablesSize + 128
)

// AdaptiveFeeConstants are the per-pool parameters of the adaptive fee model,
// set at oracle initialization and rarely changed.
type AdaptiveFeeConstants struct {
	FilterPeriod             uint16
	DecayPeriod              uint16
	ReductionFactor          uint16
	AdaptiveFeeControlFactor uint32
	MaxVolatilityAccumulator uint32
	TickGroupSize            uint16
	MajorSwapThresholdTicks  uint16
}

// Validate checks the constants against each other and the pool's tick
// spacing.
func (c *AdaptiveFeeConstants) Validate(tickSpacing uint16) error {
	if c.FilterPeriod == 0 || c.DecayPeriod == 0 || c.DecayPeriod <= c.FilterPeriod {
		return ErrInvalidAdaptiveFeeConstants
	}
	if c.ReductionFactor >= ReductionFactorDenominator {
		return ErrInvalidAdaptiveFeeConstants
	}
	if c.AdaptiveFeeControlFactor >= AdaptiveFeeControlFactorDenominator {
		return ErrInvalidAdaptiveFeeConstants
	}
	if c.TickGroupSize == 0 || c.TickGroupSize > tickSpacing || tickSpacing%c.TickGroupSize != 0 {
		return ErrInvalidAdaptiveFeeConstants
	}
	if c.MajorSwapThresholdTicks == 0 || c.MajorSwapThresholdTicks > tickSpacing {
		return ErrInvalidAdaptiveFeeConstants
	}
	// The tick-group-scaled accumulator must stay inside u32 so its square
	// fits u64.
	if uint64(c.MaxVolatilityAccumulator)*uint64(c.TickGroupSize) > uint64(^uint32(0)) {
		return ErrInvalidAdaptiveFeeConstants
	}
	return nil
}

// AdaptiveFeeVariables is the mutable half of the oracle: the volatility
// state machine driven by swaps. The state is implicit: a fresh or aged-out
// oracle is "cold" (zero reference), recent trading keeps it "warm".
type AdaptiveFeeVariables struct {
	LastReferenceUpdateTimestamp uint64
	LastMajorSwapTimestamp       uint64
	VolatilityReference          uint32
	TickGroupIndexReference      int32
	VolatilityAccumulator        uint32
}

// UpdateReference advances the reference point for volatility measurement.
// Within the filter period the reference holds still so rapid-fire swaps
// accumulate; past the decay period (or MaxReferenceAge) it goes cold.
func (v *AdaptiveFeeVariables) UpdateReference(tickGroupIndex int32, timestamp uint64, c *AdaptiveFeeConstants) error {
	maxTimestamp := v.LastReferenceUpdateTimestamp
	if v.LastMajorSwapTimestamp > maxTimestamp {
		maxTimestamp = v.LastMajorSwapTimestamp
	}
	if timestamp < maxTimestamp {
		return ErrInvalidTimestamp
	}

	referenceAge := timestamp - v.LastReferenceUpdateTimestamp
	if referenceAge > MaxReferenceAge {
		v.TickGroupIndexReference = tickGroupIndex
		v.VolatilityReference = 0
		v.LastReferenceUpdateTimestamp = timestamp
		return nil
	}

	elapsed := timestamp - maxTimestamp
	switch {
	case elapsed < uint64(c.FilterPeriod):
		// High-frequency trading, reference unchanged.
	case elapsed < uint64(c.DecayPeriod):
		v.TickGroupIndexReference = tickGroupIndex
		v.VolatilityReference = uint32(uint64(v.VolatilityAccumulator) * uint64(c.ReductionFactor) / ReductionFactorDenominator)
		v.LastReferenceUpdateTimestamp = timestamp
	default:
		v.TickGroupIndexReference = tickGroupIndex
		v.VolatilityReference = 0
		v.LastReferenceUpdateTimestamp = timestamp
	}
	return nil
}

// UpdateVolatilityAccumulator folds the tick-group movement since the
// reference into the accumulator, clamped to the configured maximum.
func (v *AdaptiveFeeVariables) UpdateVolatilityAccumulator(tickGroupIndex int32, c *AdaptiveFeeConstants) {
	delta := tickGroupIndex - v.TickGroupIndexReference
	if delta < 0 {
		delta = -delta
	}
	accumulator := uint64(v.VolatilityReference) + uint64(delta)*VolatilityAccumulatorScaleFactor
	if accumulator > uint64(c.MaxVolatilityAccumulator) {
		accumulator = uint64(c.MaxVolatilityAccumulator)
	}
	v.VolatilityAccumulator = uint32(accumulator)
}

// MarkMajorSwap records that a swap moved the price past the major-swap
// threshold. Collaborators gate trade-enablement windows on this timestamp.
func (v *AdaptiveFeeVariables) MarkMajorSwap(timestamp uint64) {
	v.LastMajorSwapTimestamp = timestamp
}

func (v *AdaptiveFeeVariables) reset() {
	*v = AdaptiveFeeVariables{}
}

// ComputeAdaptiveFeeRate maps the current volatility state to a fee
// surcharge:
//
//	ceil(control_factor * (accumulator*tick_group_size)^2 / (DENOM * SCALE^2))
//
// The square is taken over the u64 range and widened to u128 before the
// multiply so the committed integer result is exact.
func ComputeAdaptiveFeeRate(c *AdaptiveFeeConstants, v *AdaptiveFeeVariables) uint32 {
	crossed := uint64(v.VolatilityAccumulator) * uint64(c.TickGroupSize)
	squared := uint128.From64(crossed).Mul64(crossed)
	numerator := squared.Mul64(uint64(c.AdaptiveFeeControlFactor))

	const denominator = uint64(AdaptiveFeeControlFactorDenominator) *
		uint64(VolatilityAccumulatorScaleFactor) * uint64(VolatilityAccumulatorScaleFactor)
	feeRate := numerator.Add64(denominator - 1).Div64(denominator)

	if feeRate.Cmp64(FeeRateHardLimit) > 0 {
		return FeeRateHardLimit
	}
	return uint32(feeRate.Lo)
}

// ComputeTotalFeeRate combines the pool's static rate with the adaptive
// surcharge, hard-capped at FeeRateHardLimit.
func ComputeTotalFeeRate(staticFeeRate uint16, c *AdaptiveFeeConstants, v *AdaptiveFeeVariables) uint32 {
	total := uint32(staticFeeRate) + ComputeAdaptiveFeeRate(c, v)
	if total > FeeRateHardLimit {
		return FeeRateHardLimit
	}
	return total
}

// Oracle is the per-pool adaptive fee account. TradeEnableTimestamp lets
// collaborators delay trading after pool creation.
type Oracle struct {
	Whirlpool            solana.PublicKey
	TradeEnableTimestamp uint64
	Constants            AdaptiveFeeConstants
	Variables            AdaptiveFeeVariables
}

// InitializeOracle builds a cold oracle for a pool.
func InitializeOracle(whirlpoolKey solana.PublicKey, tickSpacing uint16, constants AdaptiveFeeConstants, tradeEnableTimestamp uint64) (*Oracle, error) {
	if err := constants.Validate(tickSpacing); err != nil {
		return nil, err
	}
	return &Oracle{
		Whirlpool:            whirlpoolKey,
		TradeEnableTimestamp: tradeEnableTimestamp,
		Constants:            constants,
	}, nil
}

// SetAdaptiveFeeConstants replaces the fee model parameters and resets the
// volatility state machine to cold. Submitting identical constants is
// rejected as a no-op.
func (o *Oracle) SetAdaptiveFeeConstants(constants AdaptiveFeeConstants, tickSpacing uint16) error {
	if constants == o.Constants {
		return ErrAdaptiveFeeConstantsUnchanged
	}
	if err := constants.Validate(tickSpacing); err != nil {
		return err
	}
	o.Constants = constants
	o.Variables.reset()
	return nil
}

// DecodeOracle parses an oracle account buffer.
func DecodeOracle(data []byte) (*Oracle, error) {
	if err := checkDiscriminator(data, "Oracle", OracleAccountSize); err != nil {
		return nil, err
	}
	o := &Oracle{}
	copy(o.Whirlpool[:], data[8:40])
	o.TradeEnableTimestamp = getU64(data[40:])
	c := &o.Constants
	c.FilterPeriod = getU16(data[48:])
	c.DecayPeriod = getU16(data[50:])
	c.ReductionFactor = getU16(data[52:])
	c.AdaptiveFeeControlFactor = getU32(data[54:])
	c.MaxVolatilityAccumulator = getU32(data[58:])
	c.TickGroupSize = getU16(data[62:])
	c.MajorSwapThresholdTicks = getU16(data[64:])
	v := &o.Variables
	base := 48 + adaptiveFeeConstantsSize
	v.LastReferenceUpdateTimestamp = getU64(data[base:])
	v.LastMajorSwapTimestamp = getU64(data[base+8:])
	v.VolatilityReference = getU32(data[base+16:])
	v.TickGroupIndexReference = getI32(data[base+20:])
	v.VolatilityAccumulator = getU32(data[base+24:])
	return o, nil
}

// Encode serializes the oracle back to its fixed account layout. Reserved
// regions round-trip as zero.
func (o *Oracle) Encode() []byte {
	data := make([]byte, OracleAccountSize)
	d := AccountDiscriminator("Oracle")
	copy(data[:8], d[:])
	copy(data[8:40], o.Whirlpool[:])
	putU64(data[40:], o.TradeEnableTimestamp)
	c := &o.Constants
	putU16(data[48:], c.FilterPeriod)
	putU16(data[50:], c.DecayPeriod)
	putU16(data[52:], c.ReductionFactor)
	putU32(data[54:], c.AdaptiveFeeControlFactor)
	putU32(data[58:], c.MaxVolatilityAccumulator)
	putU16(data[62:], c.TickGroupSize)
	putU16(data[64:], c.MajorSwapThresholdTicks)
	v := &o.Variables
	base := 48 + adaptiveFeeConstantsSize
	putU64(data[base:], v.LastReferenceUpdateTimestamp)
	putU64(data[base+8:], v.LastMajorSwapTimestamp)
	putU32(data[base+16:], v.VolatilityReference)
	putI32(data[base+20:], v.TickGroupIndexReference)
	putU32(data[base+24:], v.VolatilityAccumulator)
	return data
}
