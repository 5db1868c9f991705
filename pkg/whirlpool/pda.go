package whirlpool

import (
	"encoding/binary"
	"strconv"

	"github.com/gagliardetto/solana-go"
)

// Program-derived addresses. The seed templates are part of the on-chain
// layout: reproducing them bit for bit is what makes independently derived
// addresses land on the same accounts.

func tickSpacingSeed(tickSpacing uint16) []byte {
	seed := make([]byte, 2)
	binary.LittleEndian.PutUint16(seed, tickSpacing)
	return seed
}

// DeriveWhirlpoolAddress derives a pool address from its config, token pair
// and tick spacing.
func DeriveWhirlpoolAddress(config, tokenMintA, tokenMintB solana.PublicKey, tickSpacing uint16) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress([][]byte{
		[]byte("whirlpool"),
		config.Bytes(),
		tokenMintA.Bytes(),
		tokenMintB.Bytes(),
		tickSpacingSeed(tickSpacing),
	}, ProgramID)
}

// DeriveFeeTierAddress derives the fee tier for one tick spacing under a
// config.
func DeriveFeeTierAddress(config solana.PublicKey, tickSpacing uint16) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress([][]byte{
		[]byte("fee_tier"),
		config.Bytes(),
		tickSpacingSeed(tickSpacing),
	}, ProgramID)
}

// DeriveTickArrayAddress derives a tick array from its pool and start index.
// The start index is seeded as its decimal string, sign included.
func DeriveTickArrayAddress(whirlpoolKey solana.PublicKey, startTickIndex int32) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress([][]byte{
		[]byte("tick_array"),
		whirlpoolKey.Bytes(),
		[]byte(strconv.FormatInt(int64(startTickIndex), 10)),
	}, ProgramID)
}

// DerivePositionAddress derives a position from its NFT mint.
func DerivePositionAddress(positionMint solana.PublicKey) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress([][]byte{
		[]byte("position"),
		positionMint.Bytes(),
	}, ProgramID)
}

// DeriveOracleAddress derives a pool's adaptive fee oracle.
func DeriveOracleAddress(whirlpoolKey solana.PublicKey) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress([][]byte{
		[]byte("oracle"),
		whirlpoolKey.Bytes(),
	}, ProgramID)
}

// DeriveTokenBadgeAddress derives a token badge under a config.
func DeriveTokenBadgeAddress(config, tokenMint solana.PublicKey) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress([][]byte{
		[]byte("token_badge"),
		config.Bytes(),
		tokenMint.Bytes(),
	}, ProgramID)
}
