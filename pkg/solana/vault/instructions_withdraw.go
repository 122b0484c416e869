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
	WithdrawInstructionArgsSize = 0
)

type WithdrawInstructionArgs struct {
}

type WithdrawInstructionAccounts struct {
	Owner     ed25519.PublicKey
	Vault     ed25519.PublicKey
	Recipient ed25519.PublicKey
}

// NewWithdrawInstruction moves a fixed fraction of the owner's vault balance
// to the recipient.
//
// Accounts expected by this instruction:
//
//	0. [SIGNER] owner
//	1. [WRITE] vault
//	2. [WRITE] recipient
func NewWithdrawInstruction(
	accounts *WithdrawInstructionAccounts,
	args *WithdrawInstructionArgs,
) solana.Instruction {
	var offset int

	data := make([]byte, 1+WithdrawInstructionArgsSize)
	putInstructionType(data, InstructionTypeWithdraw, &offset)

	return solana.NewInstruction(
		PROGRAM_ID,
		data,
		solana.AccountMeta{
			PublicKey:  accounts.Owner,
			IsWritable: false,
			IsSigner:   true,
		},
		solana.AccountMeta{
			PublicKey:  accounts.Vault,
			IsWritable: true,
			IsSigner:   false,
		},
		solana.AccountMeta{
			PublicKey:  accounts.Recipient,
			IsWritable: true,
			IsSigner:   false,
		},
	)
}

// WithdrawAmount is the number of lamports a withdrawal from a vault holding
// balance moves
func WithdrawAmount(balance, divisor uint64) uint64 {
	if divisor == 0 {
		divisor = defaultWithdrawDivisor
	}
	return balance / divisor
}

func (p *Program) processWithdraw(env runtime.Environment, policy Policy, accounts []*runtime.AccountInfo) error {
	if len(accounts) < 3 {
		return solana.InstructionErrorNotEnoughAccountKeys
	}
	owner, vault, recipient := accounts[0], accounts[1], accounts[2]

	log := p.log.WithFields(logrus.Fields{
		"method":    "processWithdraw",
		"owner":     solana.ToBase58(owner.Key),
		"vault":     solana.ToBase58(vault.Key),
		"recipient": solana.ToBase58(recipient.Key),
	})

	expected, bump, err := getVaultAddress(env.ProgramID(), owner.Key)
	if err != nil {
		return errors.Wrap(solana.InstructionErrorInvalidSeeds, err.Error())
	}

	if !bytes.Equal(expected, vault.Key) {
		env.Log("vault %s is not derived from owner %s", solana.ToBase58(vault.Key), solana.ToBase58(owner.Key))
		return solana.InstructionErrorInvalidArgument
	}

	if policy.RequireOwnerSignature && !owner.IsSigner {
		env.Log("owner %s must sign", solana.ToBase58(owner.Key))
		return solana.InstructionErrorMissingRequiredSignature
	}

	if policy.RequireRecipientIsOwner && !bytes.Equal(recipient.Key, owner.Key) {
		env.Log("recipient %s is not the vault owner", solana.ToBase58(recipient.Key))
		return solana.InstructionErrorInvalidArgument
	}

	amount := WithdrawAmount(vault.Lamports(), policy.WithdrawDivisor)

	env.Log("withdrawing %d of %d lamports from vault %s", amount, vault.Lamports(), solana.ToBase58(vault.Key))

	err = env.InvokeSigned(
		system.Transfer(vault.Key, recipient.Key, amount),
		[]*runtime.AccountInfo{vault, recipient},
		runtime.NewAuthorizationProof(env.ProgramID(), bump, []byte(vaultPrefix), owner.Key),
	)
	if err != nil {
		return err
	}

	log.WithField("amount", amount).Trace("withdraw processed")
	return nil
}
