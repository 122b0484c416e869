package vault

import (
	"bytes"
	"crypto/ed25519"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/code-payments/code-vault-program/pkg/solana"
	"github.com/code-payments/code-vault-program/pkg/solana/runtime"
	"github.com/code-payments/code-vault-program/pkg/solana/system"
)

const (
	CreateVaultInstructionArgsSize = 0
)

type CreateVaultInstructionArgs struct {
}

type CreateVaultInstructionAccounts struct {
	Owner ed25519.PublicKey
	Vault ed25519.PublicKey
}

// NewCreateVaultInstruction creates the owner's vault, funded by the owner
// with the rent exempt minimum for an empty account.
//
// Accounts expected by this instruction:
//
//	0. [WRITE, SIGNER] owner
//	1. [WRITE] vault
//	2. [] system program
func NewCreateVaultInstruction(
	accounts *CreateVaultInstructionAccounts,
	args *CreateVaultInstructionArgs,
) solana.Instruction {
	var offset int

	data := make([]byte, 1+CreateVaultInstructionArgsSize)
	putInstructionType(data, InstructionTypeCreateVault, &offset)

	return solana.NewInstruction(
		PROGRAM_ID,
		data,
		solana.AccountMeta{
			PublicKey:  accounts.Owner,
			IsWritable: true,
			IsSigner:   true,
		},
		solana.AccountMeta{
			PublicKey:  accounts.Vault,
			IsWritable: true,
			IsSigner:   false,
		},
		solana.AccountMeta{
			PublicKey:  SYSTEM_PROGRAM_ID,
			IsWritable: false,
			IsSigner:   false,
		},
	)
}

func (p *Program) processCreateVault(env runtime.Environment, accounts []*runtime.AccountInfo) error {
	if len(accounts) < 3 {
		return solana.InstructionErrorNotEnoughAccountKeys
	}
	owner, vault := accounts[0], accounts[1]

	log := p.log.WithFields(logrus.Fields{
		"method": "processCreateVault",
		"owner":  solana.ToBase58(owner.Key),
		"vault":  solana.ToBase58(vault.Key),
	})

	expected, bump, err := getVaultAddress(env.ProgramID(), owner.Key)
	if err != nil {
		return errors.Wrap(solana.InstructionErrorInvalidSeeds, err.Error())
	}

	if !bytes.Equal(expected, vault.Key) {
		env.Log("vault %s is not derived from owner %s", solana.ToBase58(vault.Key), solana.ToBase58(owner.Key))
		return solana.InstructionErrorInvalidArgument
	}

	lamports := env.Rent().MinimumBalance(0)

	env.Log("creating vault %s with %d lamports", solana.ToBase58(vault.Key), lamports)

	err = env.InvokeSigned(
		system.CreateAccount(owner.Key, vault.Key, env.ProgramID(), lamports, 0),
		accounts,
		runtime.NewAuthorizationProof(env.ProgramID(), bump, []byte(vaultPrefix), owner.Key),
	)
	if err != nil {
		return err
	}

	log.WithField("lamports", lamports).Trace("vault created")
	return nil
}
