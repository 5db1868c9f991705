package manager

import (
	"github.com/orca-so/whirlpools-sub004/pkg/whirlpool"
)

// SwapTickSequence walks an ordered set of tick arrays covering the expected
// price path of one swap. The caller supplies the arrays; each hop checks
// that the next array is the direct neighbor in the traversal direction, so a
// gapped or reversed sequence fails instead of silently skipping ticks.
type SwapTickSequence struct {
	arrays []whirlpool.TickArrayLike
}

func NewSwapTickSequence(arrays ...whirlpool.TickArrayLike) *SwapTickSequence {
	return &SwapTickSequence{arrays: arrays}
}

// GetNextInitializedTickIndex finds the next initialized tick at or beyond
// tickIndex in the traversal direction, advancing through the sequence as
// arrays are exhausted. When the final array ends at the usable tick bound,
// the bound itself is returned with initialized=false so the swap can run to
// the edge without crossing anything.
func (s *SwapTickSequence) GetNextInitializedTickIndex(
	tickIndex int32,
	tickSpacing uint16,
	aToB bool,
	startArrayIndex int,
) (arrayIndex int, nextTickIndex int32, initialized bool, err error) {
	searchIndex := tickIndex
	for i := startArrayIndex; i < len(s.arrays); i++ {
		array := s.arrays[i]
		next, found, err := array.NextInitializedTickIndex(searchIndex, tickSpacing, aToB)
		if err != nil {
			return 0, 0, false, err
		}
		if found {
			return i, next, true, nil
		}

		last := i == len(s.arrays)-1
		if last {
			if aToB && array.IsMinTickArray() {
				return i, whirlpool.MinTickIndex, false, nil
			}
			if !aToB && array.IsMaxTickArray(tickSpacing) {
				return i, whirlpool.MaxTickIndex, false, nil
			}
			return 0, 0, false, whirlpool.ErrInvalidTickArraySequence
		}

		// The next array must cover the ticks directly adjacent to this
		// one; anything else would skip an unsupplied span.
		span := int32(tickSpacing) * whirlpool.TickArraySize
		nextStart := s.arrays[i+1].StartTickIndex()
		if aToB {
			if nextStart != array.StartTickIndex()-span {
				return 0, 0, false, whirlpool.ErrInvalidTickArraySequence
			}
			searchIndex = nextStart + span - 1
		} else {
			if nextStart != array.StartTickIndex()+span {
				return 0, 0, false, whirlpool.ErrInvalidTickArraySequence
			}
			searchIndex = nextStart - int32(tickSpacing)
		}
	}
	return 0, 0, false, whirlpool.ErrInvalidTickArraySequence
}

// GetTick reads a tick from the array at arrayIndex.
func (s *SwapTickSequence) GetTick(arrayIndex int, tickIndex int32, tickSpacing uint16) (whirlpool.Tick, error) {
	if arrayIndex < 0 || arrayIndex >= len(s.arrays) {
		return whirlpool.Tick{}, whirlpool.ErrTickArrayIndexOutOfBounds
	}
	return s.arrays[arrayIndex].GetTick(tickIndex, tickSpacing)
}

// UpdateTick writes a tick in the array at arrayIndex.
func (s *SwapTickSequence) UpdateTick(arrayIndex int, tickIndex int32, tickSpacing uint16, update *whirlpool.TickUpdate) error {
	if arrayIndex < 0 || arrayIndex >= len(s.arrays) {
		return whirlpool.ErrTickArrayIndexOutOfBounds
	}
	return s.arrays[arrayIndex].UpdateTick(tickIndex, tickSpacing, update)
}
