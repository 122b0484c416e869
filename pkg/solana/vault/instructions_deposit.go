package vault

import (
	"bytes"
	"crypto/ed25519"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/code-payments/code-vault-program/pkg/solana"
	"github.com/code-payments/code-vault-program/pkg/solana/binary"
	"github.com/code-payments/code-vault-program/pkg/solana/runtime"
)

const (
	DepositInstructionArgsSize = 8 // amount
)

type DepositInstructionArgs struct {
	Amount uint64
}

type DepositInstructionAccounts struct {
	Depositor ed25519.PublicKey
	Vault     ed25519.PublicKey
}

// NewDepositInstruction moves lamports from the depositor into a vault.
//
// Accounts expected by this instruction:
//
//	0. [WRITE, SIGNER] depositor
//	1. [WRITE] vault
func NewDepositInstruction(
	accounts *DepositInstructionAccounts,
	args *DepositInstructionArgs,
) solana.Instruction {
	var offset int

	data := make([]byte, 1+DepositInstructionArgsSize)
	putInstructionType(data, InstructionTypeDeposit, &offset)
	binary.PutUint64(data, args.Amount, &offset)

	return solana.NewInstruction(
		PROGRAM_ID,
		data,
		solana.AccountMeta{
			PublicKey:  accounts.Depositor,
			IsWritable: true,
			IsSigner:   true,
		},
		solana.AccountMeta{
			PublicKey:  accounts.Vault,
			IsWritable: true,
			IsSigner:   false,
		},
	)
}

func getDepositInstructionArgs(data []byte) (*DepositInstructionArgs, error) {
	var args DepositInstructionArgs

	offset := 1
	if err := binary.GetUint64(data, &args.Amount, &offset); err != nil {
		return nil, err
	}
	return &args, nil
}

func (p *Program) processDeposit(env runtime.Environment, policy Policy, accounts []*runtime.AccountInfo, data []byte) error {
	if len(accounts) < 2 {
		return solana.InstructionErrorNotEnoughAccountKeys
	}
	depositor, vault := accounts[0], accounts[1]

	if !vault.IsWritable {
		env.Log("vault %s must be writable", solana.ToBase58(vault.Key))
		return solana.InstructionErrorInvalidAccountData
	}

	args, err := getDepositInstructionArgs(data)
	if err != nil {
		return errors.Wrap(solana.InstructionErrorInvalidInstructionData, err.Error())
	}

	log := p.log.WithFields(logrus.Fields{
		"method":    "processDeposit",
		"depositor": solana.ToBase58(depositor.Key),
		"vault":     solana.ToBase58(vault.Key),
		"amount":    args.Amount,
	})

	if policy.RequireDepositorSignature && !depositor.IsSigner {
		env.Log("depositor %s must sign", solana.ToBase58(depositor.Key))
		return solana.InstructionErrorMissingRequiredSignature
	}

	if policy.RequireDerivedDepositVault {
		expected, _, err := getVaultAddress(env.ProgramID(), depositor.Key)
		if err != nil {
			return errors.Wrap(solana.InstructionErrorInvalidSeeds, err.Error())
		}

		if !bytes.Equal(expected, vault.Key) {
			env.Log("vault %s is not derived from depositor %s", solana.ToBase58(vault.Key), solana.ToBase58(depositor.Key))
			return solana.InstructionErrorInvalidArgument
		}
	}

	if policy.RequireSufficientDepositFunds && depositor.Lamports() < args.Amount {
		env.Log("depositor %s holds %d lamports, need %d", solana.ToBase58(depositor.Key), depositor.Lamports(), args.Amount)
		return solana.InstructionErrorInsufficientFunds
	}

	if err := vault.AddLamports(args.Amount); err != nil {
		return err
	}
	if err := depositor.SubLamports(args.Amount); err != nil {
		return err
	}

	env.Log("deposited %d lamports into vault %s", args.Amount, solana.ToBase58(vault.Key))
	log.Trace("deposit processed")
	return nil
}
