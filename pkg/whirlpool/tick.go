package whirlpool

import (
	cosmath "cosmossdk.io/math"
	"lukechampine.com/uint128"
)

const (
	// TickRecordSize is the serialized size of one tick record.
	TickRecordSize = 1 + 16 + 16 + 16 + 16 + NumRewards*16

	// TickArrayAccountSize: discriminator + start tick index + 88 records.
	TickArrayAccountSize = 8 + 4 + TickArraySize*TickRecordSize
)

// Tick is the accounting record at one initializable price point. A tick is
// initialized iff liquidity_gross > 0; an uninitialized tick is a zero-valued
// placeholder.
type Tick struct {
	Initialized          bool
	LiquidityNet         cosmath.Int // i128, applied when the price crosses this tick
	LiquidityGross       uint128.Uint128
	FeeGrowthOutsideA    uint128.Uint128
	FeeGrowthOutsideB    uint128.Uint128
	RewardGrowthsOutside [NumRewards]uint128.Uint128
}

// TickUpdate is the full next-state of a tick, applied atomically.
type TickUpdate struct {
	Initialized          bool
	LiquidityNet         cosmath.Int
	LiquidityGross       uint128.Uint128
	FeeGrowthOutsideA    uint128.Uint128
	FeeGrowthOutsideB    uint128.Uint128
	RewardGrowthsOutside [NumRewards]uint128.Uint128
}

func (t *Tick) apply(u *TickUpdate) {
	t.Initialized = u.Initialized
	t.LiquidityNet = u.LiquidityNet
	t.LiquidityGross = u.LiquidityGross
	t.FeeGrowthOutsideA = u.FeeGrowthOutsideA
	t.FeeGrowthOutsideB = u.FeeGrowthOutsideB
	t.RewardGrowthsOutside = u.RewardGrowthsOutside
}

// zeroTick is the placeholder value of any uninitialized tick.
func zeroTick() Tick {
	return Tick{LiquidityNet: cosmath.ZeroInt()}
}

// TickArrayLike abstracts over the two physical tick-array layouts: a real
// persisted account and a zeroed virtual placeholder for a region no one has
// initialized yet. The placeholder is read-only.
type TickArrayLike interface {
	StartTickIndex() int32
	GetTick(tickIndex int32, tickSpacing uint16) (Tick, error)
	UpdateTick(tickIndex int32, tickSpacing uint16, update *TickUpdate) error
	// NextInitializedTickIndex scans from tickIndex in the traversal
	// direction (aToB is decreasing, inclusive of tickIndex) and returns the
	// first initialized tick, or found=false when the array is exhausted.
	NextInitializedTickIndex(tickIndex int32, tickSpacing uint16, aToB bool) (next int32, found bool, err error)
	IsMinTickArray() bool
	IsMaxTickArray(tickSpacing uint16) bool
	InSearchRange(tickIndex int32, tickSpacing uint16, shifted bool) bool
}

// TickArray is a persisted account holding 88 consecutive initializable
// ticks starting at StartTickIndex.
type TickArray struct {
	startTickIndex int32
	Ticks          [TickArraySize]Tick
}

var _ TickArrayLike = (*TickArray)(nil)

// NewTickArray returns a zeroed array anchored at startTickIndex, which must
// be a multiple of tickSpacing*TickArraySize within the usable range.
func NewTickArray(startTickIndex int32, tickSpacing uint16) (*TickArray, error) {
	if tickSpacing == 0 {
		return nil, ErrInvalidTickSpacing
	}
	span := int32(tickSpacing) * TickArraySize
	if startTickIndex%span != 0 {
		return nil, ErrInvalidTickIndex
	}
	if startTickIndex > MaxTickIndex || startTickIndex+span <= MinTickIndex {
		return nil, ErrInvalidTickIndex
	}
	ta := &TickArray{startTickIndex: startTickIndex}
	for i := range ta.Ticks {
		ta.Ticks[i] = zeroTick()
	}
	return ta, nil
}

func (ta *TickArray) StartTickIndex() int32 { return ta.startTickIndex }

func (ta *TickArray) IsMinTickArray() bool {
	return ta.startTickIndex <= MinTickIndex
}

func (ta *TickArray) IsMaxTickArray(tickSpacing uint16) bool {
	return ta.startTickIndex+int32(tickSpacing)*TickArraySize > MaxTickIndex
}

// InSearchRange reports whether tickIndex falls inside this array's span,
// shifted one spacing to the left for upward traversal so the boundary tick
// of the previous array still resolves here.
func (ta *TickArray) InSearchRange(tickIndex int32, tickSpacing uint16, shifted bool) bool {
	lower := ta.startTickIndex
	upper := ta.startTickIndex + int32(tickSpacing)*TickArraySize
	if shifted {
		lower -= int32(tickSpacing)
		upper -= int32(tickSpacing)
	}
	return tickIndex >= lower && tickIndex < upper
}

// tickOffset maps a tick index to its slot, requiring spacing alignment and
// array bounds.
func (ta *TickArray) tickOffset(tickIndex int32, tickSpacing uint16) (int, error) {
	if tickSpacing == 0 {
		return 0, ErrInvalidTickSpacing
	}
	lhs := tickIndex - ta.startTickIndex
	if lhs < 0 || lhs%int32(tickSpacing) != 0 {
		return 0, ErrTickNotFound
	}
	offset := int(lhs / int32(tickSpacing))
	if offset >= TickArraySize {
		return 0, ErrTickNotFound
	}
	return offset, nil
}

func (ta *TickArray) GetTick(tickIndex int32, tickSpacing uint16) (Tick, error) {
	offset, err := ta.tickOffset(tickIndex, tickSpacing)
	if err != nil {
		return Tick{}, err
	}
	return ta.Ticks[offset], nil
}

func (ta *TickArray) UpdateTick(tickIndex int32, tickSpacing uint16, update *TickUpdate) error {
	offset, err := ta.tickOffset(tickIndex, tickSpacing)
	if err != nil {
		return err
	}
	ta.Ticks[offset].apply(update)
	return nil
}

func (ta *TickArray) NextInitializedTickIndex(tickIndex int32, tickSpacing uint16, aToB bool) (int32, bool, error) {
	if !ta.InSearchRange(tickIndex, tickSpacing, !aToB) {
		return 0, false, ErrInvalidTickArraySequence
	}

	var currOffset int
	if aToB {
		currOffset = int(tickIndex-ta.startTickIndex) / int(tickSpacing)
	} else {
		currOffset = int(tickIndex+int32(tickSpacing)-ta.startTickIndex) / int(tickSpacing)
	}
	for currOffset >= 0 && currOffset < TickArraySize {
		if ta.Ticks[currOffset].Initialized {
			return int32(currOffset)*int32(tickSpacing) + ta.startTickIndex, true, nil
		}
		if aToB {
			currOffset--
		} else {
			currOffset++
		}
	}
	return 0, false, nil
}

// DecodeTickArray parses a persisted tick-array buffer.
func DecodeTickArray(data []byte) (*TickArray, error) {
	if err := checkDiscriminator(data, "TickArray", TickArrayAccountSize); err != nil {
		return nil, err
	}
	ta := &TickArray{startTickIndex: getI32(data[8:])}
	offset := 12
	for i := 0; i < TickArraySize; i++ {
		ta.Ticks[i] = Tick{
			Initialized:       getBool(data[offset:]),
			LiquidityNet:      getI128(data[offset+1:]),
			LiquidityGross:    getU128(data[offset+17:]),
			FeeGrowthOutsideA: getU128(data[offset+33:]),
			FeeGrowthOutsideB: getU128(data[offset+49:]),
		}
		for j := 0; j < NumRewards; j++ {
			ta.Ticks[i].RewardGrowthsOutside[j] = getU128(data[offset+65+j*16:])
		}
		offset += TickRecordSize
	}
	return ta, nil
}

// Encode serializes the array back to its fixed account layout.
func (ta *TickArray) Encode() []byte {
	data := make([]byte, TickArrayAccountSize)
	d := AccountDiscriminator("TickArray")
	copy(data[:8], d[:])
	putI32(data[8:], ta.startTickIndex)
	offset := 12
	for i := 0; i < TickArraySize; i++ {
		t := &ta.Ticks[i]
		putBool(data[offset:], t.Initialized)
		putI128(data[offset+1:], t.LiquidityNet)
		putU128(data[offset+17:], t.LiquidityGross)
		putU128(data[offset+33:], t.FeeGrowthOutsideA)
		putU128(data[offset+49:], t.FeeGrowthOutsideB)
		for j := 0; j < NumRewards; j++ {
			putU128(data[offset+65+j*16:], t.RewardGrowthsOutside[j])
		}
		offset += TickRecordSize
	}
	return data
}

// ZeroedTickArray stands in for a tick-array account that was never created.
// Reads resolve to placeholder ticks; any update is a programming error.
type ZeroedTickArray struct {
	startTickIndex int32
}

var _ TickArrayLike = ZeroedTickArray{}

func NewZeroedTickArray(startTickIndex int32) ZeroedTickArray {
	return ZeroedTickArray{startTickIndex: startTickIndex}
}

func (z ZeroedTickArray) StartTickIndex() int32 { return z.startTickIndex }

func (z ZeroedTickArray) IsMinTickArray() bool {
	return z.startTickIndex <= MinTickIndex
}

func (z ZeroedTickArray) IsMaxTickArray(tickSpacing uint16) bool {
	return z.startTickIndex+int32(tickSpacing)*TickArraySize > MaxTickIndex
}

func (z ZeroedTickArray) InSearchRange(tickIndex int32, tickSpacing uint16, shifted bool) bool {
	lower := z.startTickIndex
	upper := z.startTickIndex + int32(tickSpacing)*TickArraySize
	if shifted {
		lower -= int32(tickSpacing)
		upper -= int32(tickSpacing)
	}
	return tickIndex >= lower && tickIndex < upper
}

func (z ZeroedTickArray) GetTick(tickIndex int32, tickSpacing uint16) (Tick, error) {
	if tickSpacing == 0 {
		return Tick{}, ErrInvalidTickSpacing
	}
	lhs := tickIndex - z.startTickIndex
	if lhs < 0 || lhs%int32(tickSpacing) != 0 || lhs/int32(tickSpacing) >= TickArraySize {
		return Tick{}, ErrTickNotFound
	}
	return zeroTick(), nil
}

func (z ZeroedTickArray) UpdateTick(int32, uint16, *TickUpdate) error {
	return ErrTickArrayUpdateNotAllowed
}

func (z ZeroedTickArray) NextInitializedTickIndex(tickIndex int32, tickSpacing uint16, aToB bool) (int32, bool, error) {
	if !z.InSearchRange(tickIndex, tickSpacing, !aToB) {
		return 0, false, ErrInvalidTickArraySequence
	}
	return 0, false, nil
}

// TickArrayStartIndex returns the start index of the array containing
// tickIndex (floor division toward negative infinity).
func TickArrayStartIndex(tickIndex int32, tickSpacing uint16) int32 {
	span := int32(tickSpacing) * TickArraySize
	q := tickIndex / span
	if tickIndex < 0 && tickIndex%span != 0 {
		q--
	}
	return q * span
}
