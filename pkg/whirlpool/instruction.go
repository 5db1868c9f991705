package whirlpool

import (
	"bytes"
	"encoding/binary"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"lukechampine.com/uint128"
)

// Instruction builders. Argument data is the 8-byte instruction
// discriminator followed by the args Borsh-encoded little-endian; u128 args
// are written low word first.

func writeU128(enc *bin.Encoder, v uint128.Uint128) error {
	if err := enc.WriteUint64(v.Lo, binary.LittleEndian); err != nil {
		return err
	}
	return enc.WriteUint64(v.Hi, binary.LittleEndian)
}

// SwapInstruction trades against a pool across up to three tick arrays.
type SwapInstruction struct {
	bin.BaseVariant
	Amount                 uint64
	OtherAmountThreshold   uint64
	SqrtPriceLimit         uint128.Uint128
	AmountSpecifiedIsInput bool
	AToB                   bool
	solana.AccountMetaSlice `bin:"-" borsh_skip:"true"`
}

func (inst *SwapInstruction) ProgramID() solana.PublicKey {
	return ProgramID
}

func (inst *SwapInstruction) Accounts() []*solana.AccountMeta {
	return inst.AccountMetaSlice
}

func (inst *SwapInstruction) Data() ([]byte, error) {
	buf := new(bytes.Buffer)
	d := InstructionDiscriminator("swap")
	if _, err := buf.Write(d[:]); err != nil {
		return nil, fmt.Errorf("failed to write discriminator: %w", err)
	}
	enc := bin.NewBorshEncoder(buf)
	if err := enc.WriteUint64(inst.Amount, binary.LittleEndian); err != nil {
		return nil, fmt.Errorf("failed to encode amount: %w", err)
	}
	if err := enc.WriteUint64(inst.OtherAmountThreshold, binary.LittleEndian); err != nil {
		return nil, fmt.Errorf("failed to encode other amount threshold: %w", err)
	}
	if err := writeU128(enc, inst.SqrtPriceLimit); err != nil {
		return nil, fmt.Errorf("failed to encode sqrt price limit: %w", err)
	}
	if err := enc.WriteBool(inst.AmountSpecifiedIsInput); err != nil {
		return nil, fmt.Errorf("failed to encode amount specified is input: %w", err)
	}
	if err := enc.WriteBool(inst.AToB); err != nil {
		return nil, fmt.Errorf("failed to encode a to b: %w", err)
	}
	return buf.Bytes(), nil
}

// SwapAccounts names the accounts a swap touches.
type SwapAccounts struct {
	TokenAuthority     solana.PublicKey
	Whirlpool          solana.PublicKey
	TokenOwnerAccountA solana.PublicKey
	TokenVaultA        solana.PublicKey
	TokenOwnerAccountB solana.PublicKey
	TokenVaultB        solana.PublicKey
	TickArray0         solana.PublicKey
	TickArray1         solana.PublicKey
	TickArray2         solana.PublicKey
	Oracle             solana.PublicKey
}

// NewSwapInstruction assembles a swap with its account metas in program
// order.
func NewSwapInstruction(
	amount, otherAmountThreshold uint64,
	sqrtPriceLimit uint128.Uint128,
	amountSpecifiedIsInput, aToB bool,
	accounts SwapAccounts,
) *SwapInstruction {
	inst := &SwapInstruction{
		Amount:                 amount,
		OtherAmountThreshold:   otherAmountThreshold,
		SqrtPriceLimit:         sqrtPriceLimit,
		AmountSpecifiedIsInput: amountSpecifiedIsInput,
		AToB:                   aToB,
		AccountMetaSlice:       make(solana.AccountMetaSlice, 11),
	}
	inst.BaseVariant = bin.BaseVariant{Impl: inst}

	inst.AccountMetaSlice[0] = solana.NewAccountMeta(solana.TokenProgramID, false, false)
	inst.AccountMetaSlice[1] = solana.NewAccountMeta(accounts.TokenAuthority, false, true)
	inst.AccountMetaSlice[2] = solana.NewAccountMeta(accounts.Whirlpool, true, false)
	inst.AccountMetaSlice[3] = solana.NewAccountMeta(accounts.TokenOwnerAccountA, true, false)
	inst.AccountMetaSlice[4] = solana.NewAccountMeta(accounts.TokenVaultA, true, false)
	inst.AccountMetaSlice[5] = solana.NewAccountMeta(accounts.TokenOwnerAccountB, true, false)
	inst.AccountMetaSlice[6] = solana.NewAccountMeta(accounts.TokenVaultB, true, false)
	inst.AccountMetaSlice[7] = solana.NewAccountMeta(accounts.TickArray0, true, false)
	inst.AccountMetaSlice[8] = solana.NewAccountMeta(accounts.TickArray1, true, false)
	inst.AccountMetaSlice[9] = solana.NewAccountMeta(accounts.TickArray2, true, false)
	inst.AccountMetaSlice[10] = solana.NewAccountMeta(accounts.Oracle, true, false)
	return inst
}

// ModifyLiquidityInstruction covers increase_liquidity and
// decrease_liquidity, which share an argument layout: the liquidity delta
// plus the caller's token limits (maximums in, minimums out).
type ModifyLiquidityInstruction struct {
	bin.BaseVariant
	Name            string
	LiquidityAmount uint128.Uint128
	TokenLimitA     uint64
	TokenLimitB     uint64
	solana.AccountMetaSlice `bin:"-" borsh_skip:"true"`
}

func (inst *ModifyLiquidityInstruction) ProgramID() solana.PublicKey {
	return ProgramID
}

func (inst *ModifyLiquidityInstruction) Accounts() []*solana.AccountMeta {
	return inst.AccountMetaSlice
}

func (inst *ModifyLiquidityInstruction) Data() ([]byte, error) {
	buf := new(bytes.Buffer)
	d := InstructionDiscriminator(inst.Name)
	if _, err := buf.Write(d[:]); err != nil {
		return nil, fmt.Errorf("failed to write discriminator: %w", err)
	}
	enc := bin.NewBorshEncoder(buf)
	if err := writeU128(enc, inst.LiquidityAmount); err != nil {
		return nil, fmt.Errorf("failed to encode liquidity amount: %w", err)
	}
	if err := enc.WriteUint64(inst.TokenLimitA, binary.LittleEndian); err != nil {
		return nil, fmt.Errorf("failed to encode token limit a: %w", err)
	}
	if err := enc.WriteUint64(inst.TokenLimitB, binary.LittleEndian); err != nil {
		return nil, fmt.Errorf("failed to encode token limit b: %w", err)
	}
	return buf.Bytes(), nil
}

// LiquidityAccounts names the accounts a liquidity modification touches.
type LiquidityAccounts struct {
	Whirlpool            solana.PublicKey
	PositionAuthority    solana.PublicKey
	Position             solana.PublicKey
	PositionTokenAccount solana.PublicKey
	TokenOwnerAccountA   solana.PublicKey
	TokenOwnerAccountB   solana.PublicKey
	TokenVaultA          solana.PublicKey
	TokenVaultB          solana.PublicKey
	TickArrayLower       solana.PublicKey
	TickArrayUpper       solana.PublicKey
}

func newModifyLiquidityInstruction(name string, liquidity uint128.Uint128, tokenLimitA, tokenLimitB uint64, accounts LiquidityAccounts) *ModifyLiquidityInstruction {
	inst := &ModifyLiquidityInstruction{
		Name:             name,
		LiquidityAmount:  liquidity,
		TokenLimitA:      tokenLimitA,
		TokenLimitB:      tokenLimitB,
		AccountMetaSlice: make(solana.AccountMetaSlice, 11),
	}
	inst.BaseVariant = bin.BaseVariant{Impl: inst}

	inst.AccountMetaSlice[0] = solana.NewAccountMeta(accounts.Whirlpool, true, false)
	inst.AccountMetaSlice[1] = solana.NewAccountMeta(solana.TokenProgramID, false, false)
	inst.AccountMetaSlice[2] = solana.NewAccountMeta(accounts.PositionAuthority, false, true)
	inst.AccountMetaSlice[3] = solana.NewAccountMeta(accounts.Position, true, false)
	inst.AccountMetaSlice[4] = solana.NewAccountMeta(accounts.PositionTokenAccount, false, false)
	inst.AccountMetaSlice[5] = solana.NewAccountMeta(accounts.TokenOwnerAccountA, true, false)
	inst.AccountMetaSlice[6] = solana.NewAccountMeta(accounts.TokenOwnerAccountB, true, false)
	inst.AccountMetaSlice[7] = solana.NewAccountMeta(accounts.TokenVaultA, true, false)
	inst.AccountMetaSlice[8] = solana.NewAccountMeta(accounts.TokenVaultB, true, false)
	inst.AccountMetaSlice[9] = solana.NewAccountMeta(accounts.TickArrayLower, true, false)
	inst.AccountMetaSlice[10] = solana.NewAccountMeta(accounts.TickArrayUpper, true, false)
	return inst
}

// NewIncreaseLiquidityInstruction deposits liquidity into a position. The
// token limits are the maximum amounts the caller will pay.
func NewIncreaseLiquidityInstruction(liquidity uint128.Uint128, tokenMaxA, tokenMaxB uint64, accounts LiquidityAccounts) *ModifyLiquidityInstruction {
	return newModifyLiquidityInstruction("increase_liquidity", liquidity, tokenMaxA, tokenMaxB, accounts)
}

// NewDecreaseLiquidityInstruction withdraws liquidity from a position. The
// token limits are the minimum amounts the caller will accept.
func NewDecreaseLiquidityInstruction(liquidity uint128.Uint128, tokenMinA, tokenMinB uint64, accounts LiquidityAccounts) *ModifyLiquidityInstruction {
	return newModifyLiquidityInstruction("decrease_liquidity", liquidity, tokenMinA, tokenMinB, accounts)
}

// CollectInstruction covers collect_fees and collect_reward; the latter
// carries the reward slot index.
type CollectInstruction struct {
	bin.BaseVariant
	Name        string
	RewardIndex uint8
	solana.AccountMetaSlice `bin:"-" borsh_skip:"true"`
}

func (inst *CollectInstruction) ProgramID() solana.PublicKey {
	return ProgramID
}

func (inst *CollectInstruction) Accounts() []*solana.AccountMeta {
	return inst.AccountMetaSlice
}

func (inst *CollectInstruction) Data() ([]byte, error) {
	buf := new(bytes.Buffer)
	d := InstructionDiscriminator(inst.Name)
	if _, err := buf.Write(d[:]); err != nil {
		return nil, fmt.Errorf("failed to write discriminator: %w", err)
	}
	if inst.Name == "collect_reward" {
		if err := bin.NewBorshEncoder(buf).WriteUint8(inst.RewardIndex); err != nil {
			return nil, fmt.Errorf("failed to encode reward index: %w", err)
		}
	}
	return buf.Bytes(), nil
}

// NewCollectFeesInstruction sweeps a position's accrued fees to the owner's
// token accounts.
func NewCollectFeesInstruction(whirlpoolKey, positionAuthority, position, positionTokenAccount, ownerAccountA, vaultA, ownerAccountB, vaultB solana.PublicKey) *CollectInstruction {
	inst := &CollectInstruction{
		Name:             "collect_fees",
		AccountMetaSlice: make(solana.AccountMetaSlice, 9),
	}
	inst.BaseVariant = bin.BaseVariant{Impl: inst}
	inst.AccountMetaSlice[0] = solana.NewAccountMeta(whirlpoolKey, false, false)
	inst.AccountMetaSlice[1] = solana.NewAccountMeta(positionAuthority, false, true)
	inst.AccountMetaSlice[2] = solana.NewAccountMeta(position, true, false)
	inst.AccountMetaSlice[3] = solana.NewAccountMeta(positionTokenAccount, false, false)
	inst.AccountMetaSlice[4] = solana.NewAccountMeta(ownerAccountA, true, false)
	inst.AccountMetaSlice[5] = solana.NewAccountMeta(vaultA, true, false)
	inst.AccountMetaSlice[6] = solana.NewAccountMeta(ownerAccountB, true, false)
	inst.AccountMetaSlice[7] = solana.NewAccountMeta(vaultB, true, false)
	inst.AccountMetaSlice[8] = solana.NewAccountMeta(solana.TokenProgramID, false, false)
	return inst
}

// NewCollectRewardInstruction sweeps one reward slot's accrued emissions.
func NewCollectRewardInstruction(rewardIndex uint8, whirlpoolKey, positionAuthority, position, positionTokenAccount, rewardOwnerAccount, rewardVault solana.PublicKey) *CollectInstruction {
	inst := &CollectInstruction{
		Name:             "collect_reward",
		RewardIndex:      rewardIndex,
		AccountMetaSlice: make(solana.AccountMetaSlice, 7),
	}
	inst.BaseVariant = bin.BaseVariant{Impl: inst}
	inst.AccountMetaSlice[0] = solana.NewAccountMeta(whirlpoolKey, false, false)
	inst.AccountMetaSlice[1] = solana.NewAccountMeta(positionAuthority, false, true)
	inst.AccountMetaSlice[2] = solana.NewAccountMeta(position, true, false)
	inst.AccountMetaSlice[3] = solana.NewAccountMeta(positionTokenAccount, false, false)
	inst.AccountMetaSlice[4] = solana.NewAccountMeta(rewardOwnerAccount, true, false)
	inst.AccountMetaSlice[5] = solana.NewAccountMeta(rewardVault, true, false)
	inst.AccountMetaSlice[6] = solana.NewAccountMeta(solana.TokenProgramID, false, false)
	return inst
}
