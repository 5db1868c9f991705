package math

import (
	cosmath "cosmossdk.io/math"

	"github.com/orca-so/whirlpools-sub004/pkg/whirlpool"
)

// Token A is the base token whose amount follows Δ(1/sqrt_price); token B is
// the quote token whose amount follows Δsqrt_price. Amounts are u64.

// GetAmountDeltaA returns the token A amount moved across the sqrt-price
// range [lower, upper] at constant liquidity:
//
//	amount_a = (liquidity << 64) * (upper - lower) / upper / lower
//
// roundUp selects ceiling (amount owed to the pool) vs floor (owed to the
// trader).
func GetAmountDeltaA(sqrtPrice0, sqrtPrice1, liquidity cosmath.Int, roundUp bool) (cosmath.Int, error) {
	lower, upper := orderSqrtPrices(sqrtPrice0, sqrtPrice1)
	if !lower.IsPositive() {
		return cosmath.Int{}, whirlpool.ErrSqrtPriceOutOfBounds
	}

	numerator1 := liquidity.Mul(Q64)
	numerator2 := upper.Sub(lower)

	var amount cosmath.Int
	if roundUp {
		q, err := MulDivCeil(numerator1, numerator2, upper)
		if err != nil {
			return cosmath.Int{}, err
		}
		amount, err = DivRoundUp(q, lower)
		if err != nil {
			return cosmath.Int{}, err
		}
	} else {
		q, err := MulDivFloor(numerator1, numerator2, upper)
		if err != nil {
			return cosmath.Int{}, err
		}
		amount = q.Quo(lower)
	}
	if amount.GT(whirlpool.MaxU64) {
		return cosmath.Int{}, whirlpool.ErrAmountCalcOverflow
	}
	return amount, nil
}

// GetAmountDeltaB returns the token B amount moved across the sqrt-price
// range at constant liquidity: amount_b = liquidity * (upper - lower) >> 64.
func GetAmountDeltaB(sqrtPrice0, sqrtPrice1, liquidity cosmath.Int, roundUp bool) (cosmath.Int, error) {
	lower, upper := orderSqrtPrices(sqrtPrice0, sqrtPrice1)
	if !lower.IsPositive() {
		return cosmath.Int{}, whirlpool.ErrSqrtPriceOutOfBounds
	}

	var amount cosmath.Int
	var err error
	if roundUp {
		amount, err = MulDivCeil(liquidity, upper.Sub(lower), Q64)
	} else {
		amount, err = MulDivFloor(liquidity, upper.Sub(lower), Q64)
	}
	if err != nil {
		return cosmath.Int{}, err
	}
	if amount.GT(whirlpool.MaxU64) {
		return cosmath.Int{}, whirlpool.ErrAmountCalcOverflow
	}
	return amount, nil
}

// NextSqrtPriceFromInput returns the sqrt price after consuming amount of the
// input token. Rounds up for token A input so the price falls no further
// than it should, down for token B input so it rises no further. Both round
// against the trader.
func NextSqrtPriceFromInput(sqrtPrice, liquidity, amount cosmath.Int, aToB bool) (cosmath.Int, error) {
	if !sqrtPrice.IsPositive() || !liquidity.IsPositive() {
		return cosmath.Int{}, whirlpool.ErrDivideByZero
	}
	if amount.IsZero() {
		return sqrtPrice, nil
	}
	if aToB {
		return nextSqrtPriceFromAmountARoundingUp(sqrtPrice, liquidity, amount, true)
	}
	return nextSqrtPriceFromAmountBRoundingDown(sqrtPrice, liquidity, amount, true)
}

// NextSqrtPriceFromOutput returns the sqrt price after producing amount of
// the output token.
func NextSqrtPriceFromOutput(sqrtPrice, liquidity, amount cosmath.Int, aToB bool) (cosmath.Int, error) {
	if !sqrtPrice.IsPositive() || !liquidity.IsPositive() {
		return cosmath.Int{}, whirlpool.ErrDivideByZero
	}
	if aToB {
		return nextSqrtPriceFromAmountBRoundingDown(sqrtPrice, liquidity, amount, false)
	}
	return nextSqrtPriceFromAmountARoundingUp(sqrtPrice, liquidity, amount, false)
}

// nextSqrtPriceFromAmountARoundingUp solves the token A side:
// next = (L<<64) * sqrt_price / ((L<<64) ± amount*sqrt_price), rounded up.
func nextSqrtPriceFromAmountARoundingUp(sqrtPrice, liquidity, amount cosmath.Int, add bool) (cosmath.Int, error) {
	if amount.IsZero() {
		return sqrtPrice, nil
	}
	liquidityShifted := liquidity.Mul(Q64)

	if add {
		denominator := liquidityShifted.Add(amount.Mul(sqrtPrice))
		if denominator.GTE(liquidityShifted) {
			return MulDivCeil(liquidityShifted, sqrtPrice, denominator)
		}
		quotient := liquidityShifted.Quo(sqrtPrice).Add(amount)
		return DivRoundUp(liquidityShifted, quotient)
	}

	product := amount.Mul(sqrtPrice)
	if liquidityShifted.LTE(product) {
		return cosmath.Int{}, whirlpool.ErrSqrtPriceOutOfBounds
	}
	return MulDivCeil(liquidityShifted, sqrtPrice, liquidityShifted.Sub(product))
}

// nextSqrtPriceFromAmountBRoundingDown solves the token B side:
// next = sqrt_price ± (amount<<64)/L, rounded down.
func nextSqrtPriceFromAmountBRoundingDown(sqrtPrice, liquidity, amount cosmath.Int, add bool) (cosmath.Int, error) {
	deltaY := amount.Mul(Q64)
	if add {
		return sqrtPrice.Add(deltaY.Quo(liquidity)), nil
	}
	quotient, err := DivRoundUp(deltaY, liquidity)
	if err != nil {
		return cosmath.Int{}, err
	}
	if sqrtPrice.LTE(quotient) {
		return cosmath.Int{}, whirlpool.ErrSqrtPriceOutOfBounds
	}
	return sqrtPrice.Sub(quotient), nil
}

func orderSqrtPrices(p0, p1 cosmath.Int) (lower, upper cosmath.Int) {
	if p0.GT(p1) {
		return p1, p0
	}
	return p0, p1
}
