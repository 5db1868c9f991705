package whirlpool

import (
	"crypto/sha256"
	"encoding/binary"

	cosmath "cosmossdk.io/math"
	"lukechampine.com/uint128"
)

// AccountDiscriminator returns the 8-byte prefix that tags every persisted
// account buffer: sha256("account:<Name>")[..8].
func AccountDiscriminator(name string) [8]byte {
	sum := sha256.Sum256([]byte("account:" + name))
	var d [8]byte
	copy(d[:], sum[:8])
	return d
}

// InstructionDiscriminator returns the 8-byte prefix of instruction data:
// sha256("global:<name>")[..8].
func InstructionDiscriminator(name string) [8]byte {
	sum := sha256.Sum256([]byte("global:" + name))
	var d [8]byte
	copy(d[:], sum[:8])
	return d
}

// U128Int widens a stored u128 into a math-friendly Int.
func U128Int(u uint128.Uint128) cosmath.Int {
	return cosmath.NewIntFromBigInt(u.Big())
}

// U128FromInt narrows an Int back into a stored u128.
func U128FromInt(v cosmath.Int) (uint128.Uint128, error) {
	if v.IsNegative() || v.GT(MaxU128) {
		return uint128.Uint128{}, ErrNumberDownCast
	}
	return uint128.FromBig(v.BigInt()), nil
}

// U64FromInt narrows an Int into a u64.
func U64FromInt(v cosmath.Int) (uint64, error) {
	if v.IsNegative() || v.GT(MaxU64) {
		return 0, ErrNumberDownCast
	}
	return v.Uint64(), nil
}

// putU128 writes a u128 little-endian.
func putU128(b []byte, u uint128.Uint128) {
	u.PutBytes(b[:16])
}

// getU128 reads a little-endian u128.
func getU128(b []byte) uint128.Uint128 {
	return uint128.FromBytes(b[:16])
}

// putI128 writes a signed 128-bit value as little-endian two's complement.
func putI128(b []byte, v cosmath.Int) {
	raw := v
	if v.IsNegative() {
		raw = v.Add(MaxU128).Add(cosmath.OneInt())
	}
	uint128.FromBig(raw.BigInt()).PutBytes(b[:16])
}

// getI128 reads a little-endian two's-complement 128-bit value.
func getI128(b []byte) cosmath.Int {
	v := cosmath.NewIntFromBigInt(uint128.FromBytes(b[:16]).Big())
	if v.GT(MaxI128) {
		v = v.Sub(MaxU128).Sub(cosmath.OneInt())
	}
	return v
}

func putU64(b []byte, v uint64)  { binary.LittleEndian.PutUint64(b, v) }
func getU64(b []byte) uint64     { return binary.LittleEndian.Uint64(b) }
func putU32(b []byte, v uint32)  { binary.LittleEndian.PutUint32(b, v) }
func getU32(b []byte) uint32     { return binary.LittleEndian.Uint32(b) }
func putU16(b []byte, v uint16)  { binary.LittleEndian.PutUint16(b, v) }
func getU16(b []byte) uint16     { return binary.LittleEndian.Uint16(b) }
func putI32(b []byte, v int32)   { binary.LittleEndian.PutUint32(b, uint32(v)) }
func getI32(b []byte) int32      { return int32(binary.LittleEndian.Uint32(b)) }
func putBool(b []byte, v bool) {
	if v {
		b[0] = 1
	} else {
		b[0] = 0
	}
}
func getBool(b []byte) bool { return b[0] != 0 }

// checkDiscriminator validates the buffer's type tag and expected length.
func checkDiscriminator(data []byte, name string, size int) error {
	if len(data) != size {
		return ErrAccountDataSize
	}
	want := AccountDiscriminator(name)
	for i := 0; i < 8; i++ {
		if data[i] != want[i] {
			return ErrInvalidDiscriminator
		}
	}
	return nil
}
