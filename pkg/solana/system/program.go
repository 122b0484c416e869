package system

import (
	"crypto/ed25519"

	"github.com/pkg/errors"

	"github.com/code-payments/code-vault-program/pkg/solana"
	"github.com/code-payments/code-vault-program/pkg/solana/binary"
)

// ProgramKey is the address of the system program (all zeros).
//
// https://explorer.solana.com/address/11111111111111111111111111111111
var ProgramKey = solana.MustBase58Decode("11111111111111111111111111111111")

// Command is the u32 discriminator of a system program instruction.
type Command uint32

const (
	CommandCreateAccount Command = iota
	CommandAssign
	CommandTransfer
)

const (
	createAccountDataSize = 4 + 8 + 8 + ed25519.PublicKeySize
	assignDataSize        = 4 + ed25519.PublicKeySize
	transferDataSize      = 4 + 8
)

// Errors returned by the system program, as custom program error codes.
//
// Source: https://github.com/solana-labs/solana/blob/f02a78d8fff2dd7297dc6ce6eb5a68a3002f5359/sdk/program/src/system_instruction.rs#L20
const (
	ErrAccountAlreadyInUse        solana.CustomError = 0
	ErrResultWithNegativeLamports solana.CustomError = 1
	ErrInvalidProgramID           solana.CustomError = 2
	ErrInvalidAccountDataLength   solana.CustomError = 3
)

// MaxPermittedDataLength bounds the size of a newly created account.
const MaxPermittedDataLength = 10 * 1024 * 1024

// Reference: https://github.com/solana-labs/solana/blob/f02a78d8fff2dd7297dc6ce6eb5a68a3002f5359/sdk/src/system_instruction.rs#L58-L72
func CreateAccount(funder, address, owner ed25519.PublicKey, lamports, size uint64) solana.Instruction {
	// # Account references
	//   0. [WRITE, SIGNER] Funding account
	//   1. [WRITE, SIGNER] New account
	//
	// CreateAccount {
	//   // Number of lamports to transfer to the new account
	//   lamports: u64,
	//   // Number of bytes of memory to allocate
	//   space: u64,
	//
	//   //Address of program that will own the new account
	//   owner: Pubkey,
	// }
	//
	data := make([]byte, createAccountDataSize)

	var offset int
	binary.PutUint32(data, uint32(CommandCreateAccount), &offset)
	binary.PutUint64(data, lamports, &offset)
	binary.PutUint64(data, size, &offset)
	binary.PutKey32(data, owner, &offset)

	return solana.NewInstruction(
		ProgramKey,
		data,
		solana.NewAccountMeta(funder, true),
		solana.NewAccountMeta(address, true),
	)
}

type DecompiledCreateAccount struct {
	Funder  ed25519.PublicKey
	Address ed25519.PublicKey

	Lamports uint64
	Size     uint64
	Owner    ed25519.PublicKey
}

// DecompileCreateAccount parses a CreateAccount instruction.
func DecompileCreateAccount(i solana.Instruction) (*DecompiledCreateAccount, error) {
	if !i.IsProgram(ProgramKey) {
		return nil, solana.ErrIncorrectProgram
	}
	if err := checkCommand(i.Data, CommandCreateAccount); err != nil {
		return nil, err
	}
	if len(i.Accounts) != 2 {
		return nil, errors.Errorf("invalid number of accounts: %d", len(i.Accounts))
	}
	if len(i.Data) != createAccountDataSize {
		return nil, errors.Errorf("invalid instruction data size: %d", len(i.Data))
	}

	v := &DecompiledCreateAccount{
		Funder:  i.Accounts[0].PublicKey,
		Address: i.Accounts[1].PublicKey,
	}

	offset := 4
	if err := binary.GetUint64(i.Data, &v.Lamports, &offset); err != nil {
		return nil, err
	}
	if err := binary.GetUint64(i.Data, &v.Size, &offset); err != nil {
		return nil, err
	}
	if err := binary.GetKey32(i.Data, &v.Owner, &offset); err != nil {
		return nil, err
	}
	return v, nil
}

// Assign hands ownership of an account to a program.
func Assign(address, owner ed25519.PublicKey) solana.Instruction {
	// # Account references
	//   0. [WRITE, SIGNER] Assigned account public key
	data := make([]byte, assignDataSize)

	var offset int
	binary.PutUint32(data, uint32(CommandAssign), &offset)
	binary.PutKey32(data, owner, &offset)

	return solana.NewInstruction(
		ProgramKey,
		data,
		solana.NewAccountMeta(address, true),
	)
}

type DecompiledAssign struct {
	Address ed25519.PublicKey
	Owner   ed25519.PublicKey
}

// DecompileAssign parses an Assign instruction.
func DecompileAssign(i solana.Instruction) (*DecompiledAssign, error) {
	if !i.IsProgram(ProgramKey) {
		return nil, solana.ErrIncorrectProgram
	}
	if err := checkCommand(i.Data, CommandAssign); err != nil {
		return nil, err
	}
	if len(i.Accounts) != 1 {
		return nil, errors.Errorf("invalid number of accounts: %d", len(i.Accounts))
	}
	if len(i.Data) != assignDataSize {
		return nil, errors.Errorf("invalid instruction data size: %d", len(i.Data))
	}

	v := &DecompiledAssign{
		Address: i.Accounts[0].PublicKey,
	}

	offset := 4
	if err := binary.GetKey32(i.Data, &v.Owner, &offset); err != nil {
		return nil, err
	}
	return v, nil
}

// Reference: https://github.com/solana-labs/solana/blob/f02a78d8fff2dd7297dc6ce6eb5a68a3002f5359/sdk/src/system_instruction.rs#L96-L101
func Transfer(from, to ed25519.PublicKey, lamports uint64) solana.Instruction {
	// # Account references
	//   0. [WRITE, SIGNER] Funding account
	//   1. [WRITE] Recipient account
	data := make([]byte, transferDataSize)

	var offset int
	binary.PutUint32(data, uint32(CommandTransfer), &offset)
	binary.PutUint64(data, lamports, &offset)

	return solana.NewInstruction(
		ProgramKey,
		data,
		solana.NewAccountMeta(from, true),
		solana.NewAccountMeta(to, false),
	)
}

type DecompiledTransfer struct {
	From     ed25519.PublicKey
	To       ed25519.PublicKey
	Lamports uint64
}

// DecompileTransfer parses a Transfer instruction.
func DecompileTransfer(i solana.Instruction) (*DecompiledTransfer, error) {
	if !i.IsProgram(ProgramKey) {
		return nil, solana.ErrIncorrectProgram
	}
	if err := checkCommand(i.Data, CommandTransfer); err != nil {
		return nil, err
	}
	if len(i.Accounts) != 2 {
		return nil, errors.Errorf("invalid number of accounts: %d", len(i.Accounts))
	}
	if len(i.Data) != transferDataSize {
		return nil, errors.Errorf("invalid instruction data size: %d", len(i.Data))
	}

	v := &DecompiledTransfer{
		From: i.Accounts[0].PublicKey,
		To:   i.Accounts[1].PublicKey,
	}

	offset := 4
	if err := binary.GetUint64(i.Data, &v.Lamports, &offset); err != nil {
		return nil, err
	}
	return v, nil
}

// GetCommand returns the discriminator of a system program instruction.
func GetCommand(data []byte) (Command, error) {
	var command uint32
	var offset int
	if err := binary.GetUint32(data, &command, &offset); err != nil {
		return 0, err
	}
	return Command(command), nil
}

func checkCommand(data []byte, expected Command) error {
	command, err := GetCommand(data)
	if err != nil || command != expected {
		return solana.ErrIncorrectInstruction
	}
	return nil
}
