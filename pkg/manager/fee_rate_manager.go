package manager

import (
	cosmath "cosmossdk.io/math"

	"github.com/orca-so/whirlpools-sub004/pkg/math"
	"github.com/orca-so/whirlpools-sub004/pkg/whirlpool"
)

// FeeRateManager supplies the fee rate for each swap step. Pools without an
// oracle trade at their static rate; adaptive pools fold tick-group movement
// into the oracle's volatility state as the swap walks the price.
type FeeRateManager struct {
	staticFeeRate uint16

	// Adaptive state, nil oracle means static only.
	oracle         *whirlpool.Oracle
	tickGroupIndex int32
}

// NewFeeRateManager prepares the fee state for one swap. For adaptive pools
// this advances the oracle's reference per its filter and decay periods
// before the first step.
func NewFeeRateManager(
	currentTickIndex int32,
	staticFeeRate uint16,
	oracle *whirlpool.Oracle,
	timestamp uint64,
) (*FeeRateManager, error) {
	m := &FeeRateManager{staticFeeRate: staticFeeRate, oracle: oracle}
	if oracle == nil {
		return m, nil
	}

	m.tickGroupIndex = floorDivision(currentTickIndex, int32(oracle.Constants.TickGroupSize))
	if err := oracle.Variables.UpdateReference(m.tickGroupIndex, timestamp, &oracle.Constants); err != nil {
		return nil, err
	}
	oracle.Variables.UpdateVolatilityAccumulator(m.tickGroupIndex, &oracle.Constants)
	return m, nil
}

// TotalFeeRate is the rate applied to the current step's input, in
// FeeRateMulValue denomination.
func (m *FeeRateManager) TotalFeeRate() uint32 {
	if m.oracle == nil {
		return uint32(m.staticFeeRate)
	}
	return whirlpool.ComputeTotalFeeRate(m.staticFeeRate, &m.oracle.Constants, &m.oracle.Variables)
}

// SyncTickGroup folds the price's new tick into the volatility accumulator.
// Called after every step that moved the price; a single crossing may jump
// several tick groups at once.
func (m *FeeRateManager) SyncTickGroup(tickIndex int32) {
	if m.oracle == nil {
		return
	}
	groupIndex := floorDivision(tickIndex, int32(m.oracle.Constants.TickGroupSize))
	if groupIndex == m.tickGroupIndex {
		return
	}
	m.tickGroupIndex = groupIndex
	m.oracle.Variables.UpdateVolatilityAccumulator(m.tickGroupIndex, &m.oracle.Constants)
}

// UpdateMajorSwapTimestamp records the swap as major when the whole-swap
// tick movement reaches the configured threshold. The boundary is inclusive:
// a move of exactly MajorSwapThresholdTicks counts, matching the on-chain
// program's behavior.
func (m *FeeRateManager) UpdateMajorSwapTimestamp(preSqrtPrice, postSqrtPrice cosmath.Int, timestamp uint64) error {
	if m.oracle == nil {
		return nil
	}
	preTick, err := math.TickIndexFromSqrtPrice(preSqrtPrice)
	if err != nil {
		return err
	}
	postTick, err := math.TickIndexFromSqrtPrice(postSqrtPrice)
	if err != nil {
		return err
	}
	movement := postTick - preTick
	if movement < 0 {
		movement = -movement
	}
	if movement >= int32(m.oracle.Constants.MajorSwapThresholdTicks) {
		m.oracle.Variables.MarkMajorSwap(timestamp)
	}
	return nil
}

// floorDivision rounds toward negative infinity so tick group boundaries
// line up across zero.
func floorDivision(dividend, divisor int32) int32 {
	q := dividend / divisor
	if (dividend%divisor != 0) && ((dividend < 0) != (divisor < 0)) {
		q--
	}
	return q
}
