package math

import (
	cosmath "cosmossdk.io/math"

	"github.com/orca-so/whirlpools-sub004/pkg/whirlpool"
)

// SwapStep is the result of one bounded swap step at constant liquidity.
type SwapStep struct {
	AmountIn      cosmath.Int
	AmountOut     cosmath.Int
	NextSqrtPrice cosmath.Int
	FeeAmount     cosmath.Int
}

// ComputeSwapStep advances the price from sqrtPriceCurrent toward
// sqrtPriceTarget, consuming at most amountRemaining of the specified token.
// The fee is charged on the input side and rounds up (owed to the pool); the
// output amount rounds down (owed to the trader). amountRemaining is
// interpreted as input when amountSpecifiedIsInput, as output otherwise.
func ComputeSwapStep(
	amountRemaining cosmath.Int,
	feeRate uint32,
	liquidity cosmath.Int,
	sqrtPriceCurrent, sqrtPriceTarget cosmath.Int,
	amountSpecifiedIsInput bool,
	aToB bool,
) (SwapStep, error) {
	var step SwapStep
	feeRateInt := cosmath.NewInt(int64(feeRate))
	feeRateComplement := cosmath.NewInt(whirlpool.FeeRateMulValue).Sub(feeRateInt)

	var err error
	if amountSpecifiedIsInput {
		amountNet, ferr := MulDivFloor(amountRemaining, feeRateComplement, cosmath.NewInt(whirlpool.FeeRateMulValue))
		if ferr != nil {
			return SwapStep{}, ferr
		}
		step.AmountIn, err = fixedDelta(sqrtPriceCurrent, sqrtPriceTarget, liquidity, aToB, true)
		if err != nil {
			return SwapStep{}, err
		}
		if amountNet.GTE(step.AmountIn) {
			step.NextSqrtPrice = sqrtPriceTarget
		} else {
			step.NextSqrtPrice, err = NextSqrtPriceFromInput(sqrtPriceCurrent, liquidity, amountNet, aToB)
			if err != nil {
				return SwapStep{}, err
			}
		}
	} else {
		step.AmountOut, err = unfixedDelta(sqrtPriceCurrent, sqrtPriceTarget, liquidity, aToB, false)
		if err != nil {
			return SwapStep{}, err
		}
		if amountRemaining.GTE(step.AmountOut) {
			step.NextSqrtPrice = sqrtPriceTarget
		} else {
			step.NextSqrtPrice, err = NextSqrtPriceFromOutput(sqrtPriceCurrent, liquidity, amountRemaining, aToB)
			if err != nil {
				return SwapStep{}, err
			}
		}
	}

	reachedTarget := step.NextSqrtPrice.Equal(sqrtPriceTarget)

	if !(reachedTarget && amountSpecifiedIsInput) {
		step.AmountIn, err = fixedDelta(sqrtPriceCurrent, step.NextSqrtPrice, liquidity, aToB, true)
		if err != nil {
			return SwapStep{}, err
		}
	}
	if !(reachedTarget && !amountSpecifiedIsInput) {
		step.AmountOut, err = unfixedDelta(sqrtPriceCurrent, step.NextSqrtPrice, liquidity, aToB, false)
		if err != nil {
			return SwapStep{}, err
		}
	}

	// An exact-out step may not pay out more than was asked for.
	if !amountSpecifiedIsInput && step.AmountOut.GT(amountRemaining) {
		step.AmountOut = amountRemaining
	}

	if amountSpecifiedIsInput && !reachedTarget {
		// Everything left over after the partial step is the fee.
		step.FeeAmount = amountRemaining.Sub(step.AmountIn)
	} else {
		step.FeeAmount, err = MulDivCeil(step.AmountIn, feeRateInt, feeRateComplement)
		if err != nil {
			return SwapStep{}, err
		}
	}
	return step, nil
}

// fixedDelta is the input-side token amount for the step: token A when
// selling A, token B when selling B.
func fixedDelta(sqrtPrice0, sqrtPrice1, liquidity cosmath.Int, aToB, roundUp bool) (cosmath.Int, error) {
	if aToB {
		return GetAmountDeltaA(sqrtPrice0, sqrtPrice1, liquidity, roundUp)
	}
	return GetAmountDeltaB(sqrtPrice0, sqrtPrice1, liquidity, roundUp)
}

// unfixedDelta is the output-side token amount for the step.
func unfixedDelta(sqrtPrice0, sqrtPrice1, liquidity cosmath.Int, aToB, roundUp bool) (cosmath.Int, error) {
	if aToB {
		return GetAmountDeltaB(sqrtPrice0, sqrtPrice1, liquidity, roundUp)
	}
	return GetAmountDeltaA(sqrtPrice0, sqrtPrice1, liquidity, roundUp)
}
