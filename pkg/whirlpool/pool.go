package whirlpool

import (
	"github.com/gagliardetto/solana-go"
	"lukechampine.com/uint128"
)

// WhirlpoolAccountSize is the serialized size of a pool account.
const WhirlpoolAccountSize = 653

// Byte offsets into the serialized pool, for memcmp filters on account scans.
const (
	WhirlpoolConfigOffset     = 8
	WhirlpoolTickSpacingOffset = 41
	WhirlpoolTokenMintAOffset = 101
	WhirlpoolTokenMintBOffset = 181
)

// RewardInfo is one of the pool's emission slots. A slot is live once a mint
// has been assigned; emissions and growth stay zero until then.
type RewardInfo struct {
	Mint                  solana.PublicKey
	Vault                 solana.PublicKey
	Authority             solana.PublicKey
	EmissionsPerSecondX64 uint128.Uint128
	GrowthGlobalX64       uint128.Uint128
}

// Initialized reports whether the slot has been bound to a reward mint.
func (r *RewardInfo) Initialized() bool {
	return !r.Mint.IsZero()
}

// Whirlpool is the pool account: global price and liquidity state, fee
// configuration and accumulators, and the three reward slots.
type Whirlpool struct {
	WhirlpoolsConfig solana.PublicKey
	WhirlpoolBump    [1]byte
	TickSpacing      uint16
	FeeTierIndexSeed [2]byte
	FeeRate          uint16
	ProtocolFeeRate  uint16

	Liquidity        uint128.Uint128
	SqrtPrice        uint128.Uint128
	TickCurrentIndex int32

	ProtocolFeeOwedA uint64
	ProtocolFeeOwedB uint64

	TokenMintA       solana.PublicKey
	TokenVaultA      solana.PublicKey
	FeeGrowthGlobalA uint128.Uint128

	TokenMintB       solana.PublicKey
	TokenVaultB      solana.PublicKey
	FeeGrowthGlobalB uint128.Uint128

	RewardLastUpdatedTimestamp uint64
	RewardInfos                [NumRewards]RewardInfo
}

// FeeTierIndex decodes the fee-tier seed. Pools on a static fee tier carry
// their tick spacing here; adaptive-fee pools carry the fee-tier index of
// their oracle configuration instead.
func (p *Whirlpool) FeeTierIndex() uint16 {
	return uint16(p.FeeTierIndexSeed[0]) | uint16(p.FeeTierIndexSeed[1])<<8
}

// IsInitializedWithAdaptiveFee reports whether the pool trades under an
// adaptive fee rate.
func (p *Whirlpool) IsInitializedWithAdaptiveFee() bool {
	return p.FeeTierIndex() != p.TickSpacing
}

// PoolSwapUpdate is the committed outcome of a swap, produced in full before
// any pool field is touched.
type PoolSwapUpdate struct {
	Liquidity        uint128.Uint128
	SqrtPrice        uint128.Uint128
	TickCurrentIndex int32
	FeeGrowthGlobal  uint128.Uint128
	RewardInfos      [NumRewards]RewardInfo
	ProtocolFee      uint64
	AToB             bool
}

// CheckedAddOwed accumulates an owed token amount. Growth accumulators wrap
// on purpose; owed amounts never do, they fail instead.
func CheckedAddOwed(owed, delta uint64) (uint64, error) {
	sum := owed + delta
	if sum < owed {
		return 0, ErrAmountOwedOverflow
	}
	return sum, nil
}

// ApplySwapUpdate commits a fully computed swap outcome. The fee growth and
// protocol fee land on the input token's side. Nothing is written until every
// field, the owed protocol fee included, has been computed.
func (p *Whirlpool) ApplySwapUpdate(update *PoolSwapUpdate, timestamp uint64) error {
	if timestamp < p.RewardLastUpdatedTimestamp {
		return ErrInvalidTimestamp
	}
	owed := p.ProtocolFeeOwedA
	if !update.AToB {
		owed = p.ProtocolFeeOwedB
	}
	owed, err := CheckedAddOwed(owed, update.ProtocolFee)
	if err != nil {
		return err
	}
	p.Liquidity = update.Liquidity
	p.SqrtPrice = update.SqrtPrice
	p.TickCurrentIndex = update.TickCurrentIndex
	p.RewardInfos = update.RewardInfos
	p.RewardLastUpdatedTimestamp = timestamp
	if update.AToB {
		p.FeeGrowthGlobalA = update.FeeGrowthGlobal
		p.ProtocolFeeOwedA = owed
	} else {
		p.FeeGrowthGlobalB = update.FeeGrowthGlobal
		p.ProtocolFeeOwedB = owed
	}
	return nil
}

// UpdateRewards commits projected reward growth and advances the reward
// clock. Timestamps never move backwards.
func (p *Whirlpool) UpdateRewards(rewardInfos [NumRewards]RewardInfo, timestamp uint64) error {
	if timestamp < p.RewardLastUpdatedTimestamp {
		return ErrInvalidTimestamp
	}
	p.RewardInfos = rewardInfos
	p.RewardLastUpdatedTimestamp = timestamp
	return nil
}

// UpdateRewardsAndLiquidity additionally moves the pool's active liquidity,
// used when a position modification straddles the current tick.
func (p *Whirlpool) UpdateRewardsAndLiquidity(rewardInfos [NumRewards]RewardInfo, liquidity uint128.Uint128, timestamp uint64) error {
	if err := p.UpdateRewards(rewardInfos, timestamp); err != nil {
		return err
	}
	p.Liquidity = liquidity
	return nil
}

// SetFeeRate replaces the static fee rate, bounded by MaxFeeRate.
func (p *Whirlpool) SetFeeRate(feeRate uint16) error {
	if feeRate > MaxFeeRate {
		return ErrFeeRateMaxExceeded
	}
	p.FeeRate = feeRate
	return nil
}

// SetProtocolFeeRate replaces the protocol's cut, bounded by
// MaxProtocolFeeRate.
func (p *Whirlpool) SetProtocolFeeRate(protocolFeeRate uint16) error {
	if protocolFeeRate > MaxProtocolFeeRate {
		return ErrProtocolFeeRateMaxExceeded
	}
	p.ProtocolFeeRate = protocolFeeRate
	return nil
}

// InitializeReward binds a reward slot to a mint. Slots fill in order so the
// growth accumulators of live slots keep their positions.
func (p *Whirlpool) InitializeReward(index int, mint, vault, authority solana.PublicKey) error {
	if index < 0 || index >= NumRewards {
		return ErrRewardIndexOutOfBounds
	}
	lowestUninitialized := NumRewards
	for i := range p.RewardInfos {
		if !p.RewardInfos[i].Initialized() {
			lowestUninitialized = i
			break
		}
	}
	if index != lowestUninitialized {
		return ErrRewardIndexOutOfBounds
	}
	p.RewardInfos[index].Mint = mint
	p.RewardInfos[index].Vault = vault
	p.RewardInfos[index].Authority = authority
	return nil
}

// SetRewardEmissions replaces the emission rate of an initialized slot.
// Accrued growth must be settled by the caller before the rate changes.
func (p *Whirlpool) SetRewardEmissions(index int, emissionsPerSecondX64 uint128.Uint128) error {
	if index < 0 || index >= NumRewards {
		return ErrRewardIndexOutOfBounds
	}
	if !p.RewardInfos[index].Initialized() {
		return ErrInvalidRewardSchedule
	}
	p.RewardInfos[index].EmissionsPerSecondX64 = emissionsPerSecondX64
	return nil
}

// ResetProtocolFeesOwed zeroes the protocol fee buckets and returns the
// collected amounts.
func (p *Whirlpool) ResetProtocolFeesOwed() (feeA, feeB uint64) {
	feeA, feeB = p.ProtocolFeeOwedA, p.ProtocolFeeOwedB
	p.ProtocolFeeOwedA = 0
	p.ProtocolFeeOwedB = 0
	return feeA, feeB
}

// DecodeWhirlpool parses a pool account buffer.
func DecodeWhirlpool(data []byte) (*Whirlpool, error) {
	if err := checkDiscriminator(data, "Whirlpool", WhirlpoolAccountSize); err != nil {
		return nil, err
	}
	p := &Whirlpool{}
	copy(p.WhirlpoolsConfig[:], data[8:40])
	p.WhirlpoolBump[0] = data[40]
	p.TickSpacing = getU16(data[41:])
	p.FeeTierIndexSeed[0] = data[43]
	p.FeeTierIndexSeed[1] = data[44]
	p.FeeRate = getU16(data[45:])
	p.ProtocolFeeRate = getU16(data[47:])
	p.Liquidity = getU128(data[49:])
	p.SqrtPrice = getU128(data[65:])
	p.TickCurrentIndex = getI32(data[81:])
	p.ProtocolFeeOwedA = getU64(data[85:])
	p.ProtocolFeeOwedB = getU64(data[93:])
	copy(p.TokenMintA[:], data[101:133])
	copy(p.TokenVaultA[:], data[133:165])
	p.FeeGrowthGlobalA = getU128(data[165:])
	copy(p.TokenMintB[:], data[181:213])
	copy(p.TokenVaultB[:], data[213:245])
	p.FeeGrowthGlobalB = getU128(data[245:])
	p.RewardLastUpdatedTimestamp = getU64(data[261:])
	offset := 269
	for i := 0; i < NumRewards; i++ {
		r := &p.RewardInfos[i]
		copy(r.Mint[:], data[offset:offset+32])
		copy(r.Vault[:], data[offset+32:offset+64])
		copy(r.Authority[:], data[offset+64:offset+96])
		r.EmissionsPerSecondX64 = getU128(data[offset+96:])
		r.GrowthGlobalX64 = getU128(data[offset+112:])
		offset += 128
	}
	return p, nil
}

// Encode serializes the pool back to its fixed account layout.
func (p *Whirlpool) Encode() []byte {
	data := make([]byte, WhirlpoolAccountSize)
	d := AccountDiscriminator("Whirlpool")
	copy(data[:8], d[:])
	copy(data[8:40], p.WhirlpoolsConfig[:])
	data[40] = p.WhirlpoolBump[0]
	putU16(data[41:], p.TickSpacing)
	data[43] = p.FeeTierIndexSeed[0]
	data[44] = p.FeeTierIndexSeed[1]
	putU16(data[45:], p.FeeRate)
	putU16(data[47:], p.ProtocolFeeRate)
	putU128(data[49:], p.Liquidity)
	putU128(data[65:], p.SqrtPrice)
	putI32(data[81:], p.TickCurrentIndex)
	putU64(data[85:], p.ProtocolFeeOwedA)
	putU64(data[93:], p.ProtocolFeeOwedB)
	copy(data[101:133], p.TokenMintA[:])
	copy(data[133:165], p.TokenVaultA[:])
	putU128(data[165:], p.FeeGrowthGlobalA)
	copy(data[181:213], p.TokenMintB[:])
	copy(data[213:245], p.TokenVaultB[:])
	putU128(data[245:], p.FeeGrowthGlobalB)
	putU64(data[261:], p.RewardLastUpdatedTimestamp)
	offset := 269
	for i := 0; i < NumRewards; i++ {
		r := &p.RewardInfos[i]
		copy(data[offset:offset+32], r.Mint[:])
		copy(data[offset+32:offset+64], r.Vault[:])
		copy(data[offset+64:offset+96], r.Authority[:])
		putU128(data[offset+96:], r.EmissionsPerSecondX64)
		putU128(data[offset+112:], r.GrowthGlobalX64)
		offset += 128
	}
	return data
}
