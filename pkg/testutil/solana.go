package testutil

import (
	"crypto/ed25519"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

// GenerateSolanaKeys returns n random account addresses
func GenerateSolanaKeys(t *testing.T, n int) []ed25519.PublicKey {
	keys := make([]ed25519.PublicKey, 0, n)
	for len(keys) < n {
		pub, _, err := ed25519.GenerateKey(rand.Reader)
		require.NoError(t, err)

		keys = append(keys, pub)
	}
	return keys
}
