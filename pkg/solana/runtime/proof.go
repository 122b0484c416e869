package runtime

import (
	"crypto/ed25519"

	"github.com/code-payments/code-vault-program/pkg/solana"
)

// AuthorizationProof lets a program sign for an address derived from its own
// id. The runtime re-derives the address from the seeds and bump and grants
// signer privilege to that address only.
type AuthorizationProof struct {
	Program ed25519.PublicKey
	Seeds   [][]byte
	Bump    uint8
}

func NewAuthorizationProof(program ed25519.PublicKey, bump uint8, seeds ...[]byte) AuthorizationProof {
	return AuthorizationProof{
		Program: program,
		Seeds:   seeds,
		Bump:    bump,
	}
}

// Address derives the program address the proof authorizes
func (p AuthorizationProof) Address() (ed25519.PublicKey, error) {
	withBump := make([][]byte, len(p.Seeds), len(p.Seeds)+1)
	copy(withBump, p.Seeds)
	withBump = append(withBump, []byte{p.Bump})

	return solana.CreateProgramAddress(p.Program, withBump...)
}
