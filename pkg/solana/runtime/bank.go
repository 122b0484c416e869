package runtime

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/code-payments/code-vault-program/pkg/ledger"
	"github.com/code-payments/code-vault-program/pkg/metrics"
	"github.com/code-payments/code-vault-program/pkg/solana"
	"github.com/code-payments/code-vault-program/pkg/solana/system"
)

const (
	metricsStructName = "runtime.Bank"

	executeEventName      = "BankExecute"
	executeDurationMetric = "Bank.Execute.Duration"
	accountsChangedMetric = "Bank.Execute.AccountsChanged"
)

var (
	ErrNoInstructions = errors.New("no instructions to execute")
)

// Result describes a completed invocation, successful or not
type Result struct {
	InvocationID uuid.UUID
	Logs         []string
}

// Bank executes instructions against accounts persisted in a ledger.Store.
// Invocations are serialized, and each one either commits every account it
// changed or none of them.
type Bank struct {
	log   *logrus.Entry
	conf  *conf
	store ledger.Store

	mu       sync.Mutex
	programs map[string]Program
}

// NewBank returns a bank that dispatches to the native system program and
// the provided programs
func NewBank(store ledger.Store, configProvider ConfigProvider, programs ...Program) *Bank {
	b := &Bank{
		log:      logrus.StandardLogger().WithField("type", "solana/runtime/bank"),
		conf:     configProvider(),
		store:    store,
		programs: make(map[string]Program),
	}

	sp := newSystemProgram()
	b.programs[solana.ToBase58(sp.ProgramID())] = sp

	for _, program := range programs {
		b.programs[solana.ToBase58(program.ProgramID())] = program
	}

	return b
}

// Rent returns the rent parameters programs observe
func (b *Bank) Rent(ctx context.Context) system.Rent {
	return system.Rent{
		LamportsPerByteYear: b.conf.lamportsPerByteYear.Get(ctx),
		ExemptionThreshold:  b.conf.exemptionThreshold.Get(ctx),
	}
}

// Execute runs the instructions in order as a single atomic invocation. A
// failing instruction is reported as a solana.InstructionError carrying its
// index, and no account changes are persisted.
func (b *Bank) Execute(ctx context.Context, ixns ...solana.Instruction) (*Result, error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "Execute")
	defer tracer.End()

	start := time.Now()
	id := uuid.New()

	log := b.log.WithFields(logrus.Fields{
		"method":       "Execute",
		"invocation":   id.String(),
		"instructions": len(ixns),
	})

	result := &Result{
		InvocationID: id,
	}

	if len(ixns) == 0 {
		return result, ErrNoInstructions
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	inv, err := b.load(ctx, id, ixns)
	if err != nil {
		log.WithError(err).Warn("failure loading accounts")
		tracer.OnError(err)
		return result, err
	}

	for i, ix := range ixns {
		if err := inv.process(ix, 1); err != nil {
			txnErr := solana.InstructionError{Index: i, Err: err}

			result.Logs = inv.logs
			log.WithError(txnErr).Debug("invocation failed")
			tracer.OnError(txnErr)
			b.recordExecuteEvent(ctx, id, len(ixns), time.Since(start), txnErr)
			return result, txnErr
		}
	}
	result.Logs = inv.logs

	changed := inv.changed()
	if len(changed) > 0 {
		if err := b.store.Save(ctx, changed...); err != nil {
			err = errors.Wrap(err, "error committing account changes")
			log.WithError(err).Warn("failure committing invocation")
			tracer.OnError(err)
			b.recordExecuteEvent(ctx, id, len(ixns), time.Since(start), err)
			return result, err
		}
	}

	log.WithField("accounts_changed", len(changed)).Debug("invocation committed")
	metrics.RecordCount(ctx, accountsChangedMetric, uint64(len(changed)))
	b.recordExecuteEvent(ctx, id, len(ixns), time.Since(start), nil)
	return result, nil
}

// GetAccount returns the committed state of an account. Addresses that hold
// nothing return ledger.ErrAccountNotFound.
func (b *Bank) GetAccount(ctx context.Context, address ed25519.PublicKey) (*Account, error) {
	if program, ok := b.programs[solana.ToBase58(address)]; ok {
		return newProgramAccount(program), nil
	}

	record, err := b.store.Get(ctx, solana.ToBase58(address))
	if err != nil {
		return nil, err
	}
	return accountFromRecord(record)
}

// GetBalance returns the committed lamport balance of an address
func (b *Bank) GetBalance(ctx context.Context, address ed25519.PublicKey) (uint64, error) {
	account, err := b.GetAccount(ctx, address)
	if err == ledger.ErrAccountNotFound {
		return 0, nil
	} else if err != nil {
		return 0, err
	}
	return account.Lamports, nil
}

// StoreAccount writes account state directly to the ledger, bypassing
// program execution. Intended for genesis and test fixtures.
func (b *Bank) StoreAccount(ctx context.Context, account *Account) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.store.Save(ctx, account.toRecord())
}

// Airdrop credits lamports to an address, creating a system owned account
// if none exists
func (b *Bank) Airdrop(ctx context.Context, address ed25519.PublicKey, lamports uint64) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	account := NewEmptyAccount(address)

	record, err := b.store.Get(ctx, solana.ToBase58(address))
	if err == nil {
		account, err = accountFromRecord(record)
		if err != nil {
			return err
		}
	} else if err != ledger.ErrAccountNotFound {
		return err
	}

	if err := NewAccountInfo(account, false, true).AddLamports(lamports); err != nil {
		return err
	}
	return b.store.Save(ctx, account.toRecord())
}

func (b *Bank) load(ctx context.Context, id uuid.UUID, ixns []solana.Instruction) (*invocation, error) {
	inv := &invocation{
		bank:     b,
		log:      b.log.WithField("invocation", id.String()),
		rent:     b.Rent(ctx),
		maxDepth: int(b.conf.maxInvokeDepth.Get(ctx)),
		accounts: make(map[string]*Account),
		loaded:   make(map[string]*Account),
	}

	for _, ix := range ixns {
		for _, meta := range ix.Accounts {
			key := solana.ToBase58(meta.PublicKey)
			if _, ok := inv.accounts[key]; ok {
				continue
			}

			account, err := b.loadAccount(ctx, meta.PublicKey)
			if err != nil {
				return nil, errors.Wrapf(err, "error loading account %s", key)
			}

			inv.accounts[key] = account
			inv.loaded[key] = account.Clone()
		}
	}

	return inv, nil
}

func (b *Bank) loadAccount(ctx context.Context, address ed25519.PublicKey) (*Account, error) {
	account, err := b.GetAccount(ctx, address)
	if err == ledger.ErrAccountNotFound {
		return NewEmptyAccount(address), nil
	}
	return account, err
}

func (b *Bank) recordExecuteEvent(ctx context.Context, id uuid.UUID, instructions int, duration time.Duration, err error) {
	kvPairs := map[string]interface{}{
		"invocation":   id.String(),
		"instructions": instructions,
		"success":      err == nil,
	}
	if err != nil {
		kvPairs["error"] = string(solana.ErrorKeyOf(err))
	}

	metrics.RecordEvent(ctx, executeEventName, kvPairs)
	metrics.RecordDuration(ctx, executeDurationMetric, duration)
}

func newProgramAccount(program Program) *Account {
	return &Account{
		Address:    program.ProgramID(),
		Lamports:   1,
		Owner:      NativeLoaderKey,
		Data:       []byte{},
		Executable: true,
	}
}

// invocation is the working state of a single call to Bank.Execute
type invocation struct {
	bank     *Bank
	log      *logrus.Entry
	rent     system.Rent
	maxDepth int

	accounts map[string]*Account
	loaded   map[string]*Account

	stack []ed25519.PublicKey
	logs  []string
}

func (inv *invocation) process(ix solana.Instruction, depth int) error {
	programKey := solana.ToBase58(ix.Program)

	if depth > inv.maxDepth {
		return errors.Wrapf(solana.InstructionErrorCallDepth, "depth %d exceeds %d", depth, inv.maxDepth)
	}

	program, ok := inv.bank.programs[programKey]
	if !ok {
		return errors.Wrapf(solana.InstructionErrorUnsupportedProgramID, "program %s", programKey)
	}

	// A program may call itself directly, but never re-enter from deeper in
	// the stack
	if n := len(inv.stack); n > 0 && !bytes.Equal(inv.stack[n-1], ix.Program) {
		for _, caller := range inv.stack {
			if bytes.Equal(caller, ix.Program) {
				return errors.Wrapf(solana.InstructionErrorReentrancyNotAllowed, "program %s", programKey)
			}
		}
	}

	accounts := make([]*AccountInfo, len(ix.Accounts))
	for i, meta := range ix.Accounts {
		state, ok := inv.accounts[solana.ToBase58(meta.PublicKey)]
		if !ok {
			return errors.Wrapf(solana.InstructionErrorMissingAccount, "account %s", solana.ToBase58(meta.PublicKey))
		}

		accounts[i] = &AccountInfo{
			Key:        meta.PublicKey,
			IsSigner:   meta.IsSigner,
			IsWritable: meta.IsWritable,
			state:      state,
		}
	}

	f := newFrame(inv, ix.Program, depth, accounts)

	inv.stack = append(inv.stack, ix.Program)
	defer func() {
		inv.stack = inv.stack[:len(inv.stack)-1]
	}()

	inv.logf("Program %s invoke [%d]", programKey, depth)

	if err := program.Process(f, accounts, ix.Data); err != nil {
		inv.logf("Program %s failed: %v", programKey, err)
		return err
	}

	if err := f.verify(); err != nil {
		inv.logf("Program %s failed: %v", programKey, err)
		return err
	}

	inv.logf("Program %s success", programKey)
	return nil
}

func (inv *invocation) logf(format string, args ...interface{}) {
	line := fmt.Sprintf(format, args...)
	inv.logs = append(inv.logs, line)
	inv.log.Trace(line)
}

// changed returns records for every account whose state differs from what
// was loaded
func (inv *invocation) changed() []*ledger.Record {
	var res []*ledger.Record
	for key, account := range inv.accounts {
		if account.Executable {
			continue
		}

		if !account.Equals(inv.loaded[key]) {
			res = append(res, account.toRecord())
		}
	}
	return res
}
