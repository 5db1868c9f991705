package manager

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/orca-so/whirlpools-sub004/pkg/whirlpool"
)

func TestTickSequenceAdvancesAcrossArrays(t *testing.T) {
	a0, err := whirlpool.NewTickArray(0, 64)
	require.NoError(t, err)
	a1, err := whirlpool.NewTickArray(-5632, 64)
	require.NoError(t, err)
	require.NoError(t, a1.UpdateTick(-5440, 64, liquidityTickUpdate(t, 42)))
	seq := NewSwapTickSequence(a0, a1)

	arrayIndex, next, initialized, err := seq.GetNextInitializedTickIndex(100, 64, true, 0)
	require.NoError(t, err)
	require.True(t, initialized)
	require.Equal(t, 1, arrayIndex)
	require.Equal(t, int32(-5440), next)

	// The scan resumes within the array it last matched.
	_, _, initialized, err = seq.GetNextInitializedTickIndex(-5441, 64, true, 1)
	require.NoError(t, err)
	require.False(t, initialized)
}

func TestTickSequenceStopsAtUsableBounds(t *testing.T) {
	// The lowest array ends the downward walk at the usable minimum without
	// reporting a crossable tick.
	low, err := whirlpool.NewTickArray(-444928, 64)
	require.NoError(t, err)
	seq := NewSwapTickSequence(low)
	_, next, initialized, err := seq.GetNextInitializedTickIndex(-444000, 64, true, 0)
	require.NoError(t, err)
	require.False(t, initialized)
	require.Equal(t, int32(whirlpool.MinTickIndex), next)

	high, err := whirlpool.NewTickArray(439296, 64)
	require.NoError(t, err)
	seq = NewSwapTickSequence(high)
	_, next, initialized, err = seq.GetNextInitializedTickIndex(440000, 64, false, 0)
	require.NoError(t, err)
	require.False(t, initialized)
	require.Equal(t, int32(whirlpool.MaxTickIndex), next)
}

func TestTickSequenceRejectsGappedArrays(t *testing.T) {
	// Arrays at 0 and -176 with the array at -88 missing: hopping would skip
	// the ticks in (-176, -88] without ever looking at them.
	a0, err := whirlpool.NewTickArray(0, 1)
	require.NoError(t, err)
	a1, err := whirlpool.NewTickArray(-176, 1)
	require.NoError(t, err)
	require.NoError(t, a1.UpdateTick(-160, 1, liquidityTickUpdate(t, 42)))

	seq := NewSwapTickSequence(a0, a1)
	_, _, _, err = seq.GetNextInitializedTickIndex(0, 1, true, 0)
	require.ErrorIs(t, err, whirlpool.ErrInvalidTickArraySequence)
}

func TestTickSequenceRejectsReversedArrays(t *testing.T) {
	a0, err := whirlpool.NewTickArray(0, 1)
	require.NoError(t, err)
	a1, err := whirlpool.NewTickArray(88, 1)
	require.NoError(t, err)

	// Downward traversal supplied with the upward neighbor.
	seq := NewSwapTickSequence(a0, a1)
	_, _, _, err = seq.GetNextInitializedTickIndex(0, 1, true, 0)
	require.ErrorIs(t, err, whirlpool.ErrInvalidTickArraySequence)

	// And the mirror case going up.
	seq = NewSwapTickSequence(a1, a0)
	_, _, _, err = seq.GetNextInitializedTickIndex(100, 1, false, 0)
	require.ErrorIs(t, err, whirlpool.ErrInvalidTickArraySequence)
}

func TestTickSequenceExhaustedMidRange(t *testing.T) {
	a0, err := whirlpool.NewTickArray(0, 64)
	require.NoError(t, err)
	seq := NewSwapTickSequence(a0)
	_, _, _, err = seq.GetNextInitializedTickIndex(100, 64, true, 0)
	require.ErrorIs(t, err, whirlpool.ErrInvalidTickArraySequence)
}

func TestTickSequenceIndexBounds(t *testing.T) {
	a0, err := whirlpool.NewTickArray(0, 64)
	require.NoError(t, err)
	seq := NewSwapTickSequence(a0)

	_, err = seq.GetTick(1, 0, 64)
	require.ErrorIs(t, err, whirlpool.ErrTickArrayIndexOutOfBounds)
	err = seq.UpdateTick(-1, 0, 64, &whirlpool.TickUpdate{})
	require.ErrorIs(t, err, whirlpool.ErrTickArrayIndexOutOfBounds)
}
