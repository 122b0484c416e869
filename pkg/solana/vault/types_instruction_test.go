package vault

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/code-vault-program/pkg/testutil"
)

func TestInstructionLayout(t *testing.T) {
	keys := testutil.GenerateSolanaKeys(t, 3)

	create := NewCreateVaultInstruction(&CreateVaultInstructionAccounts{Owner: keys[0], Vault: keys[1]}, &CreateVaultInstructionArgs{})
	assert.Equal(t, []byte{0}, create.Data)
	require.Len(t, create.Accounts, 3)
	assert.True(t, create.Accounts[0].IsSigner)
	assert.True(t, create.Accounts[1].IsWritable)
	assert.EqualValues(t, SYSTEM_PROGRAM_ID, create.Accounts[2].PublicKey)
	assert.EqualValues(t, PROGRAM_ID, create.Program)

	deposit := NewDepositInstruction(&DepositInstructionAccounts{Depositor: keys[0], Vault: keys[1]}, &DepositInstructionArgs{Amount: 500})
	require.Len(t, deposit.Data, 9)
	assert.EqualValues(t, InstructionTypeDeposit, deposit.Data[0])
	assert.EqualValues(t, 500, binary.LittleEndian.Uint64(deposit.Data[1:]))

	args, err := getDepositInstructionArgs(deposit.Data)
	require.NoError(t, err)
	assert.EqualValues(t, 500, args.Amount)

	withdraw := NewWithdrawInstruction(&WithdrawInstructionAccounts{Owner: keys[0], Vault: keys[1], Recipient: keys[2]}, &WithdrawInstructionArgs{})
	assert.Equal(t, []byte{2}, withdraw.Data)
	require.Len(t, withdraw.Accounts, 3)
	assert.False(t, withdraw.Accounts[0].IsWritable)
	assert.True(t, withdraw.Accounts[2].IsWritable)

	assert.Equal(t, "create_vault", InstructionTypeCreateVault.String())
	assert.Equal(t, "unknown(7)", InstructionType(7).String())
}
