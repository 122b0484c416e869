package runtime

import (
	"bytes"
	"crypto/ed25519"
	"math"

	"github.com/pkg/errors"

	"github.com/code-payments/code-vault-program/pkg/ledger"
	"github.com/code-payments/code-vault-program/pkg/solana"
	"github.com/code-payments/code-vault-program/pkg/solana/system"
)

// NativeLoaderKey owns the accounts of programs compiled into the bank
var NativeLoaderKey = solana.MustBase58Decode("NativeLoader1111111111111111111111111111111")

// Account is the full state of a ledger account
type Account struct {
	Address    ed25519.PublicKey
	Lamports   uint64
	Owner      ed25519.PublicKey
	Data       []byte
	Executable bool
}

// NewEmptyAccount returns the state of an address that holds nothing. Such
// accounts are owned by the system program.
func NewEmptyAccount(address ed25519.PublicKey) *Account {
	return &Account{
		Address: address,
		Owner:   system.ProgramKey,
		Data:    []byte{},
	}
}

func (a *Account) Clone() *Account {
	cloned := &Account{
		Address:    make([]byte, len(a.Address)),
		Lamports:   a.Lamports,
		Owner:      make([]byte, len(a.Owner)),
		Data:       make([]byte, len(a.Data)),
		Executable: a.Executable,
	}
	copy(cloned.Address, a.Address)
	copy(cloned.Owner, a.Owner)
	copy(cloned.Data, a.Data)
	return cloned
}

// Equals compares every field of the account state
func (a *Account) Equals(other *Account) bool {
	return bytes.Equal(a.Address, other.Address) &&
		a.Lamports == other.Lamports &&
		bytes.Equal(a.Owner, other.Owner) &&
		bytes.Equal(a.Data, other.Data) &&
		a.Executable == other.Executable
}

func (a *Account) toRecord() *ledger.Record {
	return &ledger.Record{
		Address:    solana.ToBase58(a.Address),
		Lamports:   a.Lamports,
		Owner:      solana.ToBase58(a.Owner),
		Data:       a.Data,
		Executable: a.Executable,
	}
}

func accountFromRecord(record *ledger.Record) (*Account, error) {
	address, err := solana.PublicKeyFromBase58(record.Address)
	if err != nil {
		return nil, errors.Wrap(err, "invalid account address")
	}

	owner, err := solana.PublicKeyFromBase58(record.Owner)
	if err != nil {
		return nil, errors.Wrap(err, "invalid account owner")
	}

	data := make([]byte, len(record.Data))
	copy(data, record.Data)

	return &Account{
		Address:    address,
		Lamports:   record.Lamports,
		Owner:      owner,
		Data:       data,
		Executable: record.Executable,
	}, nil
}

// AccountInfo is a program's view of an account within a single invocation.
// References to the same address share state, so a change made through one
// is visible through every other.
type AccountInfo struct {
	Key        ed25519.PublicKey
	IsSigner   bool
	IsWritable bool

	state *Account
}

// NewAccountInfo wraps account state with the privileges granted to it
func NewAccountInfo(state *Account, isSigner, isWritable bool) *AccountInfo {
	return &AccountInfo{
		Key:        state.Address,
		IsSigner:   isSigner,
		IsWritable: isWritable,
		state:      state,
	}
}

func (a *AccountInfo) Lamports() uint64 {
	return a.state.Lamports
}

func (a *AccountInfo) Owner() ed25519.PublicKey {
	return a.state.Owner
}

func (a *AccountInfo) IsOwnedBy(program ed25519.PublicKey) bool {
	return bytes.Equal(a.state.Owner, program)
}

// Data returns the account's data. Writes through the returned slice modify
// the account.
func (a *AccountInfo) Data() []byte {
	return a.state.Data
}

func (a *AccountInfo) Executable() bool {
	return a.state.Executable
}

// AddLamports credits the account, failing with ArithmeticOverflow instead
// of wrapping
func (a *AccountInfo) AddLamports(amount uint64) error {
	if a.state.Lamports > math.MaxUint64-amount {
		return errors.Wrapf(solana.InstructionErrorArithmeticOverflow, "crediting %d lamports to %s", amount, solana.ToBase58(a.Key))
	}
	a.state.Lamports += amount
	return nil
}

// SubLamports debits the account, failing with ArithmeticOverflow when the
// balance is insufficient
func (a *AccountInfo) SubLamports(amount uint64) error {
	if a.state.Lamports < amount {
		return errors.Wrapf(solana.InstructionErrorArithmeticOverflow, "debiting %d lamports from %s", amount, solana.ToBase58(a.Key))
	}
	a.state.Lamports -= amount
	return nil
}

// Assign changes the owning program
func (a *AccountInfo) Assign(owner ed25519.PublicKey) {
	a.state.Owner = make([]byte, len(owner))
	copy(a.state.Owner, owner)
}

// Allocate replaces the account's data with size zeroed bytes
func (a *AccountInfo) Allocate(size uint64) {
	a.state.Data = make([]byte, size)
}

func (a *AccountInfo) Meta() solana.AccountMeta {
	return solana.AccountMeta{
		PublicKey:  a.Key,
		IsSigner:   a.IsSigner,
		IsWritable: a.IsWritable,
	}
}
