package runtime

import (
	"crypto/ed25519"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/code-payments/code-vault-program/pkg/solana"
	"github.com/code-payments/code-vault-program/pkg/solana/system"
)

// systemProgram is the native implementation of the system program commands
// the bank supports: CreateAccount, Assign and Transfer
type systemProgram struct {
	log *logrus.Entry
}

func newSystemProgram() *systemProgram {
	return &systemProgram{
		log: logrus.StandardLogger().WithField("type", "solana/runtime/system"),
	}
}

func (p *systemProgram) ProgramID() ed25519.PublicKey {
	return system.ProgramKey
}

func (p *systemProgram) Process(env Environment, accounts []*AccountInfo, data []byte) error {
	command, err := system.GetCommand(data)
	if err != nil {
		return errors.Wrap(solana.InstructionErrorInvalidInstructionData, err.Error())
	}

	switch command {
	case system.CommandCreateAccount:
		return p.createAccount(env, accounts, data)
	case system.CommandAssign:
		return p.assign(env, accounts, data)
	case system.CommandTransfer:
		return p.transfer(env, accounts, data)
	default:
		return errors.Wrapf(solana.InstructionErrorInvalidInstructionData, "unsupported system command %d", command)
	}
}

func (p *systemProgram) createAccount(env Environment, accounts []*AccountInfo, data []byte) error {
	if len(accounts) < 2 {
		return solana.InstructionErrorNotEnoughAccountKeys
	}
	funder, account := accounts[0], accounts[1]

	args, err := system.DecompileCreateAccount(toInstruction(data, funder, account))
	if err != nil {
		return errors.Wrap(solana.InstructionErrorInvalidInstructionData, err.Error())
	}

	log := p.log.WithFields(logrus.Fields{
		"method":   "createAccount",
		"funder":   solana.ToBase58(funder.Key),
		"account":  solana.ToBase58(account.Key),
		"owner":    solana.ToBase58(args.Owner),
		"lamports": args.Lamports,
		"size":     args.Size,
	})

	if account.Lamports() > 0 || len(account.Data()) > 0 || !account.IsOwnedBy(system.ProgramKey) {
		env.Log("Create Account: account %s already in use", solana.ToBase58(account.Key))
		return system.ErrAccountAlreadyInUse
	}

	if args.Size > system.MaxPermittedDataLength {
		env.Log("Create Account: requested %d bytes exceeds the maximum of %d", args.Size, system.MaxPermittedDataLength)
		return system.ErrInvalidAccountDataLength
	}

	if !account.IsSigner {
		env.Log("Create Account: account %s must sign", solana.ToBase58(account.Key))
		return solana.InstructionErrorMissingRequiredSignature
	}

	if err := p.debit(env, funder, args.Lamports, "Create Account"); err != nil {
		return err
	}

	account.Allocate(args.Size)
	account.Assign(args.Owner)
	if err := account.AddLamports(args.Lamports); err != nil {
		return err
	}

	log.Trace("account created")
	return nil
}

func (p *systemProgram) assign(env Environment, accounts []*AccountInfo, data []byte) error {
	if len(accounts) < 1 {
		return solana.InstructionErrorNotEnoughAccountKeys
	}
	account := accounts[0]

	args, err := system.DecompileAssign(toInstruction(data, account))
	if err != nil {
		return errors.Wrap(solana.InstructionErrorInvalidInstructionData, err.Error())
	}

	if account.IsOwnedBy(args.Owner) {
		return nil
	}

	if !account.IsSigner {
		env.Log("Assign: account %s must sign", solana.ToBase58(account.Key))
		return solana.InstructionErrorMissingRequiredSignature
	}

	account.Assign(args.Owner)
	return nil
}

func (p *systemProgram) transfer(env Environment, accounts []*AccountInfo, data []byte) error {
	if len(accounts) < 2 {
		return solana.InstructionErrorNotEnoughAccountKeys
	}
	from, to := accounts[0], accounts[1]

	args, err := system.DecompileTransfer(toInstruction(data, from, to))
	if err != nil {
		return errors.Wrap(solana.InstructionErrorInvalidInstructionData, err.Error())
	}

	if err := p.debit(env, from, args.Lamports, "Transfer"); err != nil {
		return err
	}

	if err := to.AddLamports(args.Lamports); err != nil {
		return err
	}

	p.log.WithFields(logrus.Fields{
		"method":   "transfer",
		"from":     solana.ToBase58(from.Key),
		"to":       solana.ToBase58(to.Key),
		"lamports": args.Lamports,
	}).Trace("lamports transferred")
	return nil
}

// debit removes lamports from an account funding a system operation. The
// account must sign and must not carry data.
func (p *systemProgram) debit(env Environment, from *AccountInfo, lamports uint64, operation string) error {
	if !from.IsSigner {
		env.Log("%s: from account %s must sign", operation, solana.ToBase58(from.Key))
		return solana.InstructionErrorMissingRequiredSignature
	}

	if len(from.Data()) > 0 {
		env.Log("%s: from account %s must not carry data", operation, solana.ToBase58(from.Key))
		return solana.InstructionErrorInvalidArgument
	}

	if from.Lamports() < lamports {
		env.Log("%s: insufficient lamports %d, need %d", operation, from.Lamports(), lamports)
		return system.ErrResultWithNegativeLamports
	}

	return from.SubLamports(lamports)
}

func toInstruction(data []byte, accounts ...*AccountInfo) solana.Instruction {
	metas := make([]solana.AccountMeta, len(accounts))
	for i, account := range accounts {
		metas[i] = account.Meta()
	}
	return solana.NewInstruction(system.ProgramKey, data, metas...)
}
