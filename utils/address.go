package utils

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"

	"github.com/mr-tron/base58"
)

// ParseAddress validates a base58 string as a 32-byte account address and
// returns the raw bytes.
func ParseAddress(s string) ([]byte, error) {
	raw, err := base58.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("invalid base58 address %q: %w", s, err)
	}
	if len(raw) != 32 {
		return nil, fmt.Errorf("invalid address %q: expected 32 bytes, got %d", s, len(raw))
	}
	return raw, nil
}

// ShortAddress abbreviates an address for log lines.
func ShortAddress(s string) string {
	if len(s) <= 8 {
		return s
	}
	return s[:4] + ".." + s[len(s)-4:]
}

// GenerateMintKeypair makes a fresh ed25519 keypair, base58 encoded. Each
// position is minted under one of these.
func GenerateMintKeypair() (pubKey string, privKey string, err error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return "", "", err
	}
	return base58.Encode(pub), base58.Encode(priv), nil
}
