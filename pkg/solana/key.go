package solana

import (
	"crypto/ed25519"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
)

// ErrInvalidKeyLength is returned when decoded key material isn't 32 bytes.
var ErrInvalidKeyLength = errors.New("invalid key length")

// MustBase58Decode decodes a base58 encoded public key, and panics on failure.
// Intended for well-known program and sysvar addresses.
func MustBase58Decode(value string) ed25519.PublicKey {
	decoded, err := PublicKeyFromBase58(value)
	if err != nil {
		panic(err)
	}
	return decoded
}

// PublicKeyFromBase58 decodes a base58 encoded public key.
func PublicKeyFromBase58(value string) (ed25519.PublicKey, error) {
	decoded, err := base58.Decode(value)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid base58 key %q", value)
	}
	if len(decoded) != ed25519.PublicKeySize {
		return nil, errors.Wrapf(ErrInvalidKeyLength, "decoded %d bytes", len(decoded))
	}
	return decoded, nil
}

// ToBase58 returns the human readable form of a public key.
func ToBase58(key ed25519.PublicKey) string {
	return base58.Encode(key)
}
