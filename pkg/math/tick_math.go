package math

import (
	"math/big"

	cosmath "cosmossdk.io/math"

	"github.com/orca-so/whirlpools-sub004/pkg/whirlpool"
)

// sqrtPriceMulConsts[i] is 2^64 * 1.0001^(-2^i / 2), the Q64.64 factor
// applied when bit i of the absolute tick index is set. The product of the
// selected factors gives the sqrt price of a non-positive tick exactly; the
// price of a positive tick is the u128 reciprocal.
var sqrtPriceMulConsts = [19]cosmath.Int{
	mustInt("18445821805675395072"),
	mustInt("18444899583751176192"),
	mustInt("18443055278223355904"),
	mustInt("18439367220385607680"),
	mustInt("18431993317065453568"),
	mustInt("18417254355718170624"),
	mustInt("18387811781193609216"),
	mustInt("18329067761203558400"),
	mustInt("18212142134806163456"),
	mustInt("17980523815641700352"),
	mustInt("17526086738831433728"),
	mustInt("16651378430235570176"),
	mustInt("15030750278694412288"),
	mustInt("12247334978884435968"),
	mustInt("8131365268886854656"),
	mustInt("3584323654725218816"),
	mustInt("696457651848324352"),
	mustInt("26294789957507116"),
	mustInt("37481735321082"),
}

const tickBitPrecision = 14

var (
	logB2X32             = mustInt("59543866431248")
	logBPErrMarginLowerX64 = mustInt("184467440737095516")
	logBPErrMarginUpperX64 = mustInt("15793534762490258745")
)

func mustInt(s string) cosmath.Int {
	v, ok := cosmath.NewIntFromString(s)
	if !ok {
		panic("math: bad integer constant " + s)
	}
	return v
}

// mulShiftRight64 computes (val*mulBy)>>64 without bounding the result; the
// factor table keeps intermediates inside u192.
func mulShiftRight64(val, mulBy cosmath.Int) cosmath.Int {
	return val.Mul(mulBy).Quo(Q64)
}

// SqrtPriceFromTickIndex returns the Q64.64 sqrt price at the given tick.
// The result is exact for every tick in [MinTickIndex, MaxTickIndex]:
// SqrtPriceFromTickIndex(MinTickIndex) == MinSqrtPrice and
// SqrtPriceFromTickIndex(MaxTickIndex) == MaxSqrtPrice.
func SqrtPriceFromTickIndex(tick int32) (cosmath.Int, error) {
	if tick < whirlpool.MinTickIndex || tick > whirlpool.MaxTickIndex {
		return cosmath.Int{}, whirlpool.ErrInvalidTickIndex
	}

	tickAbs := uint32(tick)
	if tick < 0 {
		tickAbs = uint32(-tick)
	}

	ratio := Q64
	if tickAbs&1 != 0 {
		ratio = sqrtPriceMulConsts[0]
	}
	for i := 1; i < len(sqrtPriceMulConsts); i++ {
		if tickAbs&(1<<uint(i)) != 0 {
			ratio = mulShiftRight64(ratio, sqrtPriceMulConsts[i])
		}
	}

	if tick > 0 {
		ratio = whirlpool.MaxU128.Quo(ratio)
	}
	return ratio, nil
}

// TickIndexFromSqrtPrice inverts SqrtPriceFromTickIndex via a base-2 log
// approximation with 14 fractional bits, then resolves the remaining
// one-tick ambiguity against the exact forward function. For any tick t,
// TickIndexFromSqrtPrice(SqrtPriceFromTickIndex(t)) == t.
func TickIndexFromSqrtPrice(sqrtPrice cosmath.Int) (int32, error) {
	if sqrtPrice.LT(whirlpool.MinSqrtPrice) || sqrtPrice.GT(whirlpool.MaxSqrtPrice) {
		return 0, whirlpool.ErrSqrtPriceOutOfBounds
	}

	sp := sqrtPrice.BigInt()
	msb := sp.BitLen() - 1
	log2pIntegerX32 := new(big.Int).Lsh(big.NewInt(int64(msb-64)), 32)

	var r *big.Int
	if msb >= 64 {
		r = new(big.Int).Rsh(sp, uint(msb-63))
	} else {
		r = new(big.Int).Lsh(sp, uint(63-msb))
	}

	bit, _ := new(big.Int).SetString("8000000000000000", 16)
	log2pFractionX64 := big.NewInt(0)
	for precision := 0; bit.Sign() > 0 && precision < tickBitPrecision; precision++ {
		r.Mul(r, r)
		rMoreThanTwo := new(big.Int).Rsh(r, 127)
		r.Rsh(r, uint(63+rMoreThanTwo.Int64()))
		log2pFractionX64.Add(log2pFractionX64, new(big.Int).Mul(bit, rMoreThanTwo))
		bit.Rsh(bit, 1)
	}

	log2pFractionX32 := new(big.Int).Rsh(log2pFractionX64, 32)
	log2pX32 := new(big.Int).Add(log2pIntegerX32, log2pFractionX32)
	logbpX64 := new(big.Int).Mul(log2pX32, logB2X32.BigInt())

	tickLow := new(big.Int).Rsh(new(big.Int).Sub(logbpX64, logBPErrMarginLowerX64.BigInt()), 64)
	tickHigh := new(big.Int).Rsh(new(big.Int).Add(logbpX64, logBPErrMarginUpperX64.BigInt()), 64)

	if tickLow.Cmp(tickHigh) == 0 {
		return int32(tickLow.Int64()), nil
	}

	derivedHigh, err := SqrtPriceFromTickIndex(int32(tickHigh.Int64()))
	if err != nil {
		return 0, err
	}
	if derivedHigh.LTE(sqrtPrice) {
		return int32(tickHigh.Int64()), nil
	}
	return int32(tickLow.Int64()), nil
}

// IsTickInitializable reports whether a tick index can hold liquidity for the
// given spacing.
func IsTickInitializable(tick int32, tickSpacing uint16) bool {
	return tick%int32(tickSpacing) == 0
}
