package main

import (
	"bufio"
	"context"
	"crypto/ed25519"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/code-payments/code-vault-program/pkg/database/query"
	"github.com/code-payments/code-vault-program/pkg/ledger"
	"github.com/code-payments/code-vault-program/pkg/metrics"
	"github.com/code-payments/code-vault-program/pkg/solana"
	"github.com/code-payments/code-vault-program/pkg/solana/runtime"
	"github.com/code-payments/code-vault-program/pkg/solana/vault"
)

const (
	accountsPageSize = 100
)

var (
	errUsage = errors.New("usage")
)

type command struct {
	usage string
	nargs int
	run   func(ctx context.Context, args []string) error
}

// cli maps text commands onto bank operations
type cli struct {
	bank  *runtime.Bank
	store ledger.Store
	out   io.Writer

	commands map[string]command
}

func newCLI(bank *runtime.Bank, store ledger.Store, out io.Writer) *cli {
	c := &cli{
		bank:  bank,
		store: store,
		out:   out,
	}

	c.commands = map[string]command{
		"address":      {"address <owner>", 1, c.address},
		"airdrop":      {"airdrop <address> <lamports>", 2, c.airdrop},
		"balance":      {"balance <address>", 1, c.balance},
		"create-vault": {"create-vault <owner>", 1, c.createVault},
		"deposit":      {"deposit <depositor> <vault> <lamports>", 3, c.deposit},
		"withdraw":     {"withdraw <owner> <recipient>", 2, c.withdraw},
		"accounts":     {"accounts [owner]", 0, c.accounts},
	}
	return c
}

func (c *cli) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}

	cmd, ok := c.commands[args[0]]
	if !ok {
		return errors.Wrapf(errUsage, "unknown command %q", args[0])
	}

	if len(args)-1 < cmd.nargs {
		return errors.Wrap(errUsage, cmd.usage)
	}

	ctx, end := metrics.StartTransaction(ctx, "vault "+args[0])
	defer end()

	return cmd.run(ctx, args[1:])
}

// runScript executes one command per line, stopping at the first failure
func (c *cli) runScript(ctx context.Context, r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if len(line) == 0 || strings.HasPrefix(line, "#") {
			continue
		}

		if err := ctx.Err(); err != nil {
			return err
		}

		if err := c.run(ctx, strings.Fields(line)); err != nil {
			return errors.Wrapf(err, "%q", line)
		}
	}
	return scanner.Err()
}

func (c *cli) address(_ context.Context, args []string) error {
	owner, err := solana.PublicKeyFromBase58(args[0])
	if err != nil {
		return err
	}

	address, bump, err := vault.GetVaultAddress(&vault.GetVaultAddressArgs{Owner: owner})
	if err != nil {
		return err
	}

	fmt.Fprintf(c.out, "%s %d\n", solana.ToBase58(address), bump)
	return nil
}

func (c *cli) airdrop(ctx context.Context, args []string) error {
	address, err := solana.PublicKeyFromBase58(args[0])
	if err != nil {
		return err
	}

	lamports, err := strconv.ParseUint(args[1], 10, 64)
	if err != nil {
		return errors.Wrap(err, "invalid lamports")
	}

	return c.bank.Airdrop(ctx, address, lamports)
}

func (c *cli) balance(ctx context.Context, args []string) error {
	address, err := solana.PublicKeyFromBase58(args[0])
	if err != nil {
		return err
	}

	balance, err := c.bank.GetBalance(ctx, address)
	if err != nil {
		return err
	}

	fmt.Fprintln(c.out, balance)
	return nil
}

func (c *cli) createVault(ctx context.Context, args []string) error {
	owner, err := solana.PublicKeyFromBase58(args[0])
	if err != nil {
		return err
	}

	address, _, err := vault.GetVaultAddress(&vault.GetVaultAddressArgs{Owner: owner})
	if err != nil {
		return err
	}

	return c.execute(ctx, vault.NewCreateVaultInstruction(
		&vault.CreateVaultInstructionAccounts{
			Owner: owner,
			Vault: address,
		},
		&vault.CreateVaultInstructionArgs{},
	))
}

func (c *cli) deposit(ctx context.Context, args []string) error {
	keys, err := parseKeys(args[:2])
	if err != nil {
		return err
	}

	amount, err := strconv.ParseUint(args[2], 10, 64)
	if err != nil {
		return errors.Wrap(err, "invalid lamports")
	}

	return c.execute(ctx, vault.NewDepositInstruction(
		&vault.DepositInstructionAccounts{
			Depositor: keys[0],
			Vault:     keys[1],
		},
		&vault.DepositInstructionArgs{
			Amount: amount,
		},
	))
}

func (c *cli) withdraw(ctx context.Context, args []string) error {
	keys, err := parseKeys(args[:2])
	if err != nil {
		return err
	}
	owner, recipient := keys[0], keys[1]

	address, _, err := vault.GetVaultAddress(&vault.GetVaultAddressArgs{Owner: owner})
	if err != nil {
		return err
	}

	return c.execute(ctx, vault.NewWithdrawInstruction(
		&vault.WithdrawInstructionAccounts{
			Owner:     owner,
			Vault:     address,
			Recipient: recipient,
		},
		&vault.WithdrawInstructionArgs{},
	))
}

// accounts lists every account held by an owner, vault accounts by default
func (c *cli) accounts(ctx context.Context, args []string) error {
	owner := solana.ToBase58(vault.PROGRAM_ID)
	if len(args) > 0 {
		owner = args[0]
	}

	var cursor query.Cursor
	for {
		opts := []query.Option{query.WithLimit(accountsPageSize)}
		if cursor != nil {
			opts = append(opts, query.WithCursor(cursor))
		}

		records, err := c.store.GetAllByOwner(ctx, owner, opts...)
		if err == ledger.ErrAccountNotFound {
			return nil
		} else if err != nil {
			return err
		}

		for _, record := range records {
			fmt.Fprintf(c.out, "%s %d\n", record.Address, record.Lamports)
		}

		if len(records) < accountsPageSize {
			return nil
		}
		cursor = query.ToCursor(records[len(records)-1].Id)
	}
}

func (c *cli) execute(ctx context.Context, ix solana.Instruction) error {
	result, err := c.bank.Execute(ctx, ix)
	if result != nil {
		for _, line := range result.Logs {
			fmt.Fprintln(c.out, line)
		}
	}
	return err
}

func parseKeys(args []string) ([]ed25519.PublicKey, error) {
	keys := make([]ed25519.PublicKey, len(args))
	for i, arg := range args {
		key, err := solana.PublicKeyFromBase58(arg)
		if err != nil {
			return nil, err
		}
		keys[i] = key
	}
	return keys, nil
}
