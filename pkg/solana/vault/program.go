package vault

import (
	"crypto/ed25519"

	"github.com/sirupsen/logrus"

	"github.com/code-payments/code-vault-program/pkg/solana"
	"github.com/code-payments/code-vault-program/pkg/solana/system"
)

var (
	PROGRAM_ADDRESS = solana.MustBase58Decode("vau1tMASi45ub7Qe4ZE36UT5G6cU4ud8Fhhe4deS4F3")
	PROGRAM_ID      = ed25519.PublicKey(PROGRAM_ADDRESS)
)

var (
	SYSTEM_PROGRAM_ID = system.ProgramKey
)

// Program is the vault program. It keeps a custodial lamport balance for each
// owner at an address derived from the owner's key.
type Program struct {
	log  *logrus.Entry
	conf *conf
}

func NewProgram(configProvider ConfigProvider) *Program {
	return &Program{
		log:  logrus.StandardLogger().WithField("type", "solana/vault/program"),
		conf: configProvider(),
	}
}

// ProgramID implements runtime.Program.ProgramID
func (p *Program) ProgramID() ed25519.PublicKey {
	return PROGRAM_ID
}
