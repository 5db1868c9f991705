package whirlpool

import "github.com/gagliardetto/solana-go"

const (
	// WhirlpoolsConfigAccountSize: discriminator + three authorities +
	// default protocol fee rate + reserved.
	WhirlpoolsConfigAccountSize = 8 + 32*3 + 2 + 2

	// FeeTierAccountSize: discriminator + config ref + tick spacing +
	// default fee rate.
	FeeTierAccountSize = 8 + 32 + 2 + 2

	// TokenBadgeAccountSize: discriminator + config ref + mint + reserved.
	TokenBadgeAccountSize = 8 + 32 + 32 + 128
)

// WhirlpoolsConfig is the protocol-level account every pool hangs off:
// authorities and the default protocol fee rate new pools inherit.
type WhirlpoolsConfig struct {
	FeeAuthority                  solana.PublicKey
	CollectProtocolFeesAuthority  solana.PublicKey
	RewardEmissionsSuperAuthority solana.PublicKey
	DefaultProtocolFeeRate        uint16
}

// SetDefaultProtocolFeeRate replaces the rate inherited by new pools.
func (c *WhirlpoolsConfig) SetDefaultProtocolFeeRate(rate uint16) error {
	if rate > MaxProtocolFeeRate {
		return ErrProtocolFeeRateMaxExceeded
	}
	c.DefaultProtocolFeeRate = rate
	return nil
}

func DecodeWhirlpoolsConfig(data []byte) (*WhirlpoolsConfig, error) {
	if err := checkDiscriminator(data, "WhirlpoolsConfig", WhirlpoolsConfigAccountSize); err != nil {
		return nil, err
	}
	c := &WhirlpoolsConfig{}
	copy(c.FeeAuthority[:], data[8:40])
	copy(c.CollectProtocolFeesAuthority[:], data[40:72])
	copy(c.RewardEmissionsSuperAuthority[:], data[72:104])
	c.DefaultProtocolFeeRate = getU16(data[104:])
	return c, nil
}

func (c *WhirlpoolsConfig) Encode() []byte {
	data := make([]byte, WhirlpoolsConfigAccountSize)
	d := AccountDiscriminator("WhirlpoolsConfig")
	copy(data[:8], d[:])
	copy(data[8:40], c.FeeAuthority[:])
	copy(data[40:72], c.CollectProtocolFeesAuthority[:])
	copy(data[72:104], c.RewardEmissionsSuperAuthority[:])
	putU16(data[104:], c.DefaultProtocolFeeRate)
	return data
}

// FeeTier fixes the default static fee rate for pools of one tick spacing
// under a config.
type FeeTier struct {
	WhirlpoolsConfig solana.PublicKey
	TickSpacing      uint16
	DefaultFeeRate   uint16
}

// NewFeeTier validates and builds a fee tier.
func NewFeeTier(config solana.PublicKey, tickSpacing uint16, defaultFeeRate uint16) (*FeeTier, error) {
	if tickSpacing == 0 {
		return nil, ErrInvalidTickSpacing
	}
	if defaultFeeRate > MaxFeeRate {
		return nil, ErrFeeRateMaxExceeded
	}
	return &FeeTier{WhirlpoolsConfig: config, TickSpacing: tickSpacing, DefaultFeeRate: defaultFeeRate}, nil
}

// SetDefaultFeeRate replaces the tier's rate, bounded by MaxFeeRate.
func (f *FeeTier) SetDefaultFeeRate(rate uint16) error {
	if rate > MaxFeeRate {
		return ErrFeeRateMaxExceeded
	}
	f.DefaultFeeRate = rate
	return nil
}

func DecodeFeeTier(data []byte) (*FeeTier, error) {
	if err := checkDiscriminator(data, "FeeTier", FeeTierAccountSize); err != nil {
		return nil, err
	}
	f := &FeeTier{}
	copy(f.WhirlpoolsConfig[:], data[8:40])
	f.TickSpacing = getU16(data[40:])
	f.DefaultFeeRate = getU16(data[42:])
	return f, nil
}

func (f *FeeTier) Encode() []byte {
	data := make([]byte, FeeTierAccountSize)
	d := AccountDiscriminator("FeeTier")
	copy(data[:8], d[:])
	copy(data[8:40], f.WhirlpoolsConfig[:])
	putU16(data[40:], f.TickSpacing)
	putU16(data[42:], f.DefaultFeeRate)
	return data
}

// TokenBadge whitelists a token mint under a config. The trailing reserved
// region round-trips as zero.
type TokenBadge struct {
	WhirlpoolsConfig solana.PublicKey
	TokenMint        solana.PublicKey
}

func DecodeTokenBadge(data []byte) (*TokenBadge, error) {
	if err := checkDiscriminator(data, "TokenBadge", TokenBadgeAccountSize); err != nil {
		return nil, err
	}
	t := &TokenBadge{}
	copy(t.WhirlpoolsConfig[:], data[8:40])
	copy(t.TokenMint[:], data[40:72])
	return t, nil
}

func (t *TokenBadge) Encode() []byte {
	data := make([]byte, TokenBadgeAccountSize)
	d := AccountDiscriminator("TokenBadge")
	copy(data[:8], d[:])
	copy(data[8:40], t.WhirlpoolsConfig[:])
	copy(data[40:72], t.TokenMint[:])
	return data
}

// AuthoritySet is an injected allowlist of keys permitted to run privileged
// updates, replacing any hard-coded admin list so tests can use arbitrary
// authority sets.
type AuthoritySet struct {
	keys map[solana.PublicKey]struct{}
}

func NewAuthoritySet(keys ...solana.PublicKey) *AuthoritySet {
	s := &AuthoritySet{keys: make(map[solana.PublicKey]struct{}, len(keys))}
	for _, k := range keys {
		s.keys[k] = struct{}{}
	}
	return s
}

// Contains reports whether key is in the set.
func (s *AuthoritySet) Contains(key solana.PublicKey) bool {
	_, ok := s.keys[key]
	return ok
}

// Require returns ErrUnauthorized unless key is in the set.
func (s *AuthoritySet) Require(key solana.PublicKey) error {
	if !s.Contains(key) {
		return ErrUnauthorized
	}
	return nil
}
