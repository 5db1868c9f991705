// Package math implements the fixed-point arithmetic the engine is built on.
// All values are integers: sqrt prices are Q64.64, fee rates are parts per
// million, reward emissions are Q64.64 per second. Every operation is checked;
// nothing here wraps silently. Rounding direction is explicit at every call
// site: ceiling for amounts owed to the pool, floor for amounts owed to the
// trader.
package math

import (
	"math/big"

	cosmath "cosmossdk.io/math"

	"github.com/orca-so/whirlpools-sub004/pkg/whirlpool"
)

// Resolution is the fractional bit width of Q64.64 sqrt prices and growth
// accumulators.
const Resolution = 64

var (
	oneInt = cosmath.OneInt()

	// Q64 is 2^64, the fixed-point one.
	Q64 = cosmath.NewIntFromBigInt(new(big.Int).Lsh(big.NewInt(1), Resolution))
)

// MulDivFloor returns floor(a*b/den).
func MulDivFloor(a, b, den cosmath.Int) (cosmath.Int, error) {
	if den.IsZero() {
		return cosmath.Int{}, whirlpool.ErrDivideByZero
	}
	return a.Mul(b).Quo(den), nil
}

// MulDivCeil returns ceil(a*b/den).
func MulDivCeil(a, b, den cosmath.Int) (cosmath.Int, error) {
	if den.IsZero() {
		return cosmath.Int{}, whirlpool.ErrDivideByZero
	}
	return a.Mul(b).Add(den.Sub(oneInt)).Quo(den), nil
}

// DivRoundUp returns ceil(a/den).
func DivRoundUp(a, den cosmath.Int) (cosmath.Int, error) {
	if den.IsZero() {
		return cosmath.Int{}, whirlpool.ErrDivideByZero
	}
	return a.Add(den.Sub(oneInt)).Quo(den), nil
}

// CheckedMulShiftRight computes (n0*n1)>>64 over a widened intermediate and
// fails if the result does not fit in a u64. It is the primitive behind all
// "growth delta times liquidity" owed-amount computations.
func CheckedMulShiftRight(n0, n1 cosmath.Int) (cosmath.Int, error) {
	p := n0.Mul(n1).Quo(Q64)
	if p.GT(whirlpool.MaxU64) {
		return cosmath.Int{}, whirlpool.ErrMultiplicationOverflow
	}
	return p, nil
}

// CheckedMulDivFloor is MulDivFloor with a u128 result bound.
func CheckedMulDivFloor(a, b, den cosmath.Int) (cosmath.Int, error) {
	r, err := MulDivFloor(a, b, den)
	if err != nil {
		return cosmath.Int{}, err
	}
	if r.GT(whirlpool.MaxU128) {
		return cosmath.Int{}, whirlpool.ErrMulDivOverflow
	}
	return r, nil
}

// CheckedMulDivCeil is MulDivCeil with a u128 result bound.
func CheckedMulDivCeil(a, b, den cosmath.Int) (cosmath.Int, error) {
	r, err := MulDivCeil(a, b, den)
	if err != nil {
		return cosmath.Int{}, err
	}
	if r.GT(whirlpool.MaxU128) {
		return cosmath.Int{}, whirlpool.ErrMulDivOverflow
	}
	return r, nil
}
