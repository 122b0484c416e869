package main

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/code-vault-program/pkg/ledger/memory"
	"github.com/code-payments/code-vault-program/pkg/solana"
	"github.com/code-payments/code-vault-program/pkg/solana/runtime"
	"github.com/code-payments/code-vault-program/pkg/solana/system"
	"github.com/code-payments/code-vault-program/pkg/solana/vault"
	"github.com/code-payments/code-vault-program/pkg/testutil"
)

func setup(t *testing.T) (*cli, *bytes.Buffer) {
	store := memory.New()
	bank := runtime.NewBank(store, runtime.WithEnvConfigs(), vault.NewProgram(vault.WithPolicy(vault.DefaultPolicy())))

	out := &bytes.Buffer{}
	return newCLI(bank, store, out), out
}

func TestCLI_Script(t *testing.T) {
	c, out := setup(t)
	ctx := context.Background()

	keys := testutil.GenerateSolanaKeys(t, 2)
	owner, recipient := solana.ToBase58(keys[0]), solana.ToBase58(keys[1])

	address, _, err := vault.GetVaultAddress(&vault.GetVaultAddressArgs{Owner: keys[0]})
	require.NoError(t, err)
	vaultAddress := solana.ToBase58(address)

	script := fmt.Sprintf(`
# fund and open a vault
airdrop %[1]s 1000000000
create-vault %[1]s
deposit %[1]s %[2]s 109120
withdraw %[1]s %[3]s
`, owner, vaultAddress, recipient)

	require.NoError(t, c.runScript(ctx, strings.NewReader(script)))
	assert.Contains(t, out.String(), "invoke [1]")
	assert.Contains(t, out.String(), "invoke [2]")

	for _, tc := range []struct {
		address  string
		expected string
	}{
		{vaultAddress, "900000"},
		{recipient, "100000"},
		{owner, fmt.Sprint(1_000_000_000 - 890880 - 109120)},
	} {
		out.Reset()
		require.NoError(t, c.run(ctx, []string{"balance", tc.address}))
		assert.Equal(t, tc.expected+"\n", out.String())
	}

	out.Reset()
	require.NoError(t, c.run(ctx, []string{"accounts"}))
	assert.Equal(t, vaultAddress+" 900000\n", out.String())

	out.Reset()
	require.NoError(t, c.run(ctx, []string{"address", owner}))
	assert.True(t, strings.HasPrefix(out.String(), vaultAddress+" "))
}

func TestCLI_Errors(t *testing.T) {
	c, _ := setup(t)
	ctx := context.Background()

	owner := solana.ToBase58(testutil.GenerateSolanaKeys(t, 1)[0])

	assert.True(t, errors.Is(c.run(ctx, nil), errUsage))
	assert.True(t, errors.Is(c.run(ctx, []string{"unknown"}), errUsage))
	assert.True(t, errors.Is(c.run(ctx, []string{"deposit", owner}), errUsage))

	assert.Error(t, c.run(ctx, []string{"balance", "invalid"}))
	assert.Error(t, c.run(ctx, []string{"airdrop", owner, "-1"}))

	err := c.run(ctx, []string{"create-vault", owner})
	assert.True(t, errors.Is(err, system.ErrResultWithNegativeLamports), err)

	err = c.runScript(ctx, strings.NewReader("balance "+owner+"\nunknown\nbalance "+owner))
	assert.True(t, errors.Is(err, errUsage))
}
