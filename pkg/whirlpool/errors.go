package whirlpool

import "cosmossdk.io/errors"

// Codespace for every error the engine can surface. Each failure cause gets
// its own discriminant so callers can branch on it; none of these are
// retryable within the same instruction.
const Codespace = "whirlpool"

var (
	// Arithmetic faults.
	ErrMultiplicationOverflow = errors.Register(Codespace, 2, "multiplication overflow")
	ErrMulDivOverflow         = errors.Register(Codespace, 3, "mul-div overflow")
	ErrNumberDownCast         = errors.Register(Codespace, 4, "number downcast overflow")
	ErrDivideByZero           = errors.Register(Codespace, 5, "divide by zero")
	ErrLiquidityOverflow      = errors.Register(Codespace, 6, "liquidity overflow")
	ErrLiquidityUnderflow     = errors.Register(Codespace, 7, "liquidity underflow")
	ErrLiquidityTooHigh       = errors.Register(Codespace, 8, "liquidity amount exceeds i128 range")
	ErrAmountCalcOverflow     = errors.Register(Codespace, 9, "token amount calculation overflow")
	ErrAmountOwedOverflow     = errors.Register(Codespace, 10, "owed token amount overflows u64")

	// Tick / price invariant violations.
	ErrInvalidTickIndex       = errors.Register(Codespace, 20, "tick index out of bounds or misaligned")
	ErrInvalidTickSpacing     = errors.Register(Codespace, 21, "invalid tick spacing")
	ErrTickNotFound           = errors.Register(Codespace, 22, "tick not found in tick array")
	ErrSqrtPriceOutOfBounds   = errors.Register(Codespace, 23, "sqrt price out of bounds")
	ErrInvalidSqrtPriceLimit  = errors.Register(Codespace, 24, "sqrt price limit on wrong side of current price")
	ErrZeroTradableAmount     = errors.Register(Codespace, 25, "no tradable amount")
	ErrTokenMaxExceeded       = errors.Register(Codespace, 26, "token maximum exceeded")
	ErrTokenMinSubceeded      = errors.Register(Codespace, 27, "token minimum subceeded")
	ErrPartialFillNotAllowed  = errors.Register(Codespace, 28, "exact-out swap could not be fully filled")
	ErrLiquidityZero          = errors.Register(Codespace, 29, "liquidity delta must be nonzero")
	ErrInvalidPriceTickOrder  = errors.Register(Codespace, 30, "sqrt price inconsistent with current tick index")

	// Sequencing faults.
	ErrInvalidTickArraySequence  = errors.Register(Codespace, 40, "tick array sequence exhausted or out of order")
	ErrTickArrayUpdateNotAllowed = errors.Register(Codespace, 41, "tick array is an uninitialized placeholder and cannot be updated")
	ErrTickArrayIndexOutOfBounds = errors.Register(Codespace, 42, "tick array index out of bounds")

	// Fee / reward faults.
	ErrFeeRateMaxExceeded            = errors.Register(Codespace, 50, "fee rate exceeds maximum")
	ErrProtocolFeeRateMaxExceeded    = errors.Register(Codespace, 51, "protocol fee rate exceeds maximum")
	ErrRewardIndexOutOfBounds        = errors.Register(Codespace, 52, "reward index out of bounds")
	ErrRewardVaultAmountInsufficient = errors.Register(Codespace, 53, "reward vault balance cannot cover one day of emissions")

	// Position lifecycle.
	ErrClosePositionNotEmpty = errors.Register(Codespace, 60, "position has liquidity or unclaimed fees")
	ErrInvalidTickRange      = errors.Register(Codespace, 61, "invalid position tick range")

	// Adaptive fee.
	ErrAdaptiveFeeConstantsUnchanged = errors.Register(Codespace, 70, "adaptive fee constants unchanged")
	ErrInvalidAdaptiveFeeConstants   = errors.Register(Codespace, 71, "invalid adaptive fee constants")
	ErrInvalidTimestamp              = errors.Register(Codespace, 72, "timestamp not monotonically non-decreasing")

	// Authorization and account plumbing.
	ErrUnauthorized          = errors.Register(Codespace, 80, "authority not allowed to perform this update")
	ErrAccountDataSize       = errors.Register(Codespace, 81, "account data has unexpected size")
	ErrInvalidDiscriminator  = errors.Register(Codespace, 82, "account discriminator mismatch")
	ErrInvalidRewardSchedule = errors.Register(Codespace, 83, "reward must be initialized before emissions can be set")
)
