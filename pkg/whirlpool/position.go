package whirlpool

import (
	"github.com/gagliardetto/solana-go"
	"lukechampine.com/uint128"
)

// PositionAccountSize is the serialized size of a position account.
const PositionAccountSize = 216

// PositionRewardInfo checkpoints one reward slot for a position: the growth
// inside the range last seen, and the amount accrued but not yet collected.
type PositionRewardInfo struct {
	GrowthInsideCheckpoint uint128.Uint128
	AmountOwed             uint64
}

// Position is a liquidity claim over the tick range
// [TickLowerIndex, TickUpperIndex) of one pool, with fee and reward
// checkpoints taken against the range's inside growth.
type Position struct {
	Whirlpool    solana.PublicKey
	PositionMint solana.PublicKey
	Liquidity    uint128.Uint128

	TickLowerIndex int32
	TickUpperIndex int32

	FeeGrowthCheckpointA uint128.Uint128
	FeeOwedA             uint64
	FeeGrowthCheckpointB uint128.Uint128
	FeeOwedB             uint64

	RewardInfos [NumRewards]PositionRewardInfo
}

// PositionUpdate is the full next-state of a position's balances, computed
// before anything is written.
type PositionUpdate struct {
	Liquidity            uint128.Uint128
	FeeGrowthCheckpointA uint128.Uint128
	FeeOwedA             uint64
	FeeGrowthCheckpointB uint128.Uint128
	FeeOwedB             uint64
	RewardInfos          [NumRewards]PositionRewardInfo
}

// ValidateTickRange checks that a position's bounds are ordered, inside the
// usable range, and aligned to the pool's tick spacing.
func ValidateTickRange(tickLower, tickUpper int32, tickSpacing uint16) error {
	if tickSpacing == 0 {
		return ErrInvalidTickSpacing
	}
	if tickLower >= tickUpper {
		return ErrInvalidTickRange
	}
	if tickLower < MinTickIndex || tickUpper > MaxTickIndex {
		return ErrInvalidTickRange
	}
	if tickLower%int32(tickSpacing) != 0 || tickUpper%int32(tickSpacing) != 0 {
		return ErrInvalidTickRange
	}
	return nil
}

// OpenPosition creates an empty position over a validated tick range.
func OpenPosition(pool *Whirlpool, whirlpoolKey, positionMint solana.PublicKey, tickLower, tickUpper int32) (*Position, error) {
	if err := ValidateTickRange(tickLower, tickUpper, pool.TickSpacing); err != nil {
		return nil, err
	}
	return &Position{
		Whirlpool:      whirlpoolKey,
		PositionMint:   positionMint,
		TickLowerIndex: tickLower,
		TickUpperIndex: tickUpper,
	}, nil
}

// Update commits a fully computed balance update.
func (p *Position) Update(update *PositionUpdate) {
	p.Liquidity = update.Liquidity
	p.FeeGrowthCheckpointA = update.FeeGrowthCheckpointA
	p.FeeOwedA = update.FeeOwedA
	p.FeeGrowthCheckpointB = update.FeeGrowthCheckpointB
	p.FeeOwedB = update.FeeOwedB
	p.RewardInfos = update.RewardInfos
}

// ResetFeesOwed zeroes the collectable fee buckets, returning what was owed.
func (p *Position) ResetFeesOwed() (feeA, feeB uint64) {
	feeA, feeB = p.FeeOwedA, p.FeeOwedB
	p.FeeOwedA = 0
	p.FeeOwedB = 0
	return feeA, feeB
}

// ResetRewardOwed zeroes one reward bucket, returning what was owed.
func (p *Position) ResetRewardOwed(index int) (uint64, error) {
	if index < 0 || index >= NumRewards {
		return 0, ErrRewardIndexOutOfBounds
	}
	owed := p.RewardInfos[index].AmountOwed
	p.RewardInfos[index].AmountOwed = 0
	return owed, nil
}

// IsEmpty reports whether the position holds no liquidity and no collectable
// balances. Only an empty position may be closed.
func (p *Position) IsEmpty() bool {
	if !p.Liquidity.IsZero() || p.FeeOwedA != 0 || p.FeeOwedB != 0 {
		return false
	}
	for i := range p.RewardInfos {
		if p.RewardInfos[i].AmountOwed != 0 {
			return false
		}
	}
	return true
}

// Close verifies the position may be discarded.
func (p *Position) Close() error {
	if !p.IsEmpty() {
		return ErrClosePositionNotEmpty
	}
	return nil
}

// DecodePosition parses a position account buffer.
func DecodePosition(data []byte) (*Position, error) {
	if err := checkDiscriminator(data, "Position", PositionAccountSize); err != nil {
		return nil, err
	}
	p := &Position{}
	copy(p.Whirlpool[:], data[8:40])
	copy(p.PositionMint[:], data[40:72])
	p.Liquidity = getU128(data[72:])
	p.TickLowerIndex = getI32(data[88:])
	p.TickUpperIndex = getI32(data[92:])
	p.FeeGrowthCheckpointA = getU128(data[96:])
	p.FeeOwedA = getU64(data[112:])
	p.FeeGrowthCheckpointB = getU128(data[120:])
	p.FeeOwedB = getU64(data[136:])
	offset := 144
	for i := 0; i < NumRewards; i++ {
		p.RewardInfos[i].GrowthInsideCheckpoint = getU128(data[offset:])
		p.RewardInfos[i].AmountOwed = getU64(data[offset+16:])
		offset += 24
	}
	return p, nil
}

// Encode serializes the position back to its fixed account layout.
func (p *Position) Encode() []byte {
	data := make([]byte, PositionAccountSize)
	d := AccountDiscriminator("Position")
	copy(data[:8], d[:])
	copy(data[8:40], p.Whirlpool[:])
	copy(data[40:72], p.PositionMint[:])
	putU128(data[72:], p.Liquidity)
	putI32(data[88:], p.TickLowerIndex)
	putI32(data[92:], p.TickUpperIndex)
	putU128(data[96:], p.FeeGrowthCheckpointA)
	putU64(data[112:], p.FeeOwedA)
	putU128(data[120:], p.FeeGrowthCheckpointB)
	putU64(data[136:], p.FeeOwedB)
	offset := 144
	for i := 0; i < NumRewards; i++ {
		putU128(data[offset:], p.RewardInfos[i].GrowthInsideCheckpoint)
		putU64(data[offset+16:], p.RewardInfos[i].AmountOwed)
		offset += 24
	}
	return data
}
