package vault

import (
	"crypto/ed25519"

	"github.com/code-payments/code-vault-program/pkg/cache"
	"github.com/code-payments/code-vault-program/pkg/solana"
)

const (
	addressCacheBudget = 10_000
)

const (
	vaultPrefix = "vault"
)

// addressCache memoizes derivations per program and owner
var addressCache = cache.NewCache[derivedAddress](addressCacheBudget)

type derivedAddress struct {
	address ed25519.PublicKey
	bump    uint8
}

type GetVaultAddressArgs struct {
	Owner ed25519.PublicKey
}

// GetVaultAddress returns the vault address and bump for an owner. The
// returned key is owned by the caller.
func GetVaultAddress(args *GetVaultAddressArgs) (ed25519.PublicKey, uint8, error) {
	return getVaultAddress(PROGRAM_ID, args.Owner)
}

func getVaultAddress(program, owner ed25519.PublicKey) (ed25519.PublicKey, uint8, error) {
	key := solana.ToBase58(program) + ":" + solana.ToBase58(owner)
	if cached, ok := addressCache.Retrieve(key); ok {
		return cloneKey(cached.address), cached.bump, nil
	}

	address, bump, err := solana.FindProgramAddressAndBump(
		program,
		[]byte(vaultPrefix),
		owner,
	)
	if err != nil {
		return nil, 0, err
	}

	// A concurrent derivation may have inserted the same result first
	_ = addressCache.Insert(key, derivedAddress{address: cloneKey(address), bump: bump}, 1)

	return address, bump, nil
}

func cloneKey(key ed25519.PublicKey) ed25519.PublicKey {
	return append(ed25519.PublicKey(nil), key...)
}
