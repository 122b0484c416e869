package system

import (
	"crypto/ed25519"
	"encoding/binary"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/code-vault-program/pkg/solana"
)

func TestCreateAccount(t *testing.T) {
	keys := generateKeys(t, 3)

	instruction := CreateAccount(keys[0], keys[1], keys[2], 12345, 67890)

	command := make([]byte, 4)
	lamports := make([]byte, 8)
	binary.LittleEndian.PutUint64(lamports, 12345)
	size := make([]byte, 8)
	binary.LittleEndian.PutUint64(size, 67890)

	assert.Equal(t, command, instruction.Data[0:4])
	assert.Equal(t, lamports, instruction.Data[4:12])
	assert.Equal(t, size, instruction.Data[12:20])
	assert.Equal(t, []byte(keys[2]), instruction.Data[20:52])

	require.Len(t, instruction.Accounts, 2)
	assert.True(t, instruction.Accounts[0].IsSigner)
	assert.True(t, instruction.Accounts[0].IsWritable)
	assert.True(t, instruction.Accounts[1].IsSigner)
	assert.True(t, instruction.Accounts[1].IsWritable)

	decompiled, err := DecompileCreateAccount(instruction)
	require.NoError(t, err)
	assert.Equal(t, decompiled.Funder, keys[0])
	assert.Equal(t, decompiled.Address, keys[1])
	assert.Equal(t, decompiled.Owner, keys[2])
	assert.EqualValues(t, decompiled.Lamports, 12345)
	assert.EqualValues(t, decompiled.Size, 67890)
}

func TestDecompileNonCreate(t *testing.T) {
	keys := generateKeys(t, 4)

	instruction := CreateAccount(keys[0], keys[1], keys[2], 12345, 67890)

	instruction.Accounts = instruction.Accounts[:1]
	_, err := DecompileCreateAccount(instruction)
	assert.NotNil(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "invalid number of accounts"), err)

	binary.LittleEndian.PutUint32(instruction.Data, uint32(CommandAssign))
	_, err = DecompileCreateAccount(instruction)
	assert.Equal(t, solana.ErrIncorrectInstruction, err)

	instruction.Data = make([]byte, 3)
	_, err = DecompileCreateAccount(instruction)
	assert.Equal(t, solana.ErrIncorrectInstruction, err)

	instruction.Program = keys[3]
	_, err = DecompileCreateAccount(instruction)
	assert.Equal(t, solana.ErrIncorrectProgram, err)
}

func TestTransfer(t *testing.T) {
	keys := generateKeys(t, 3)

	instruction := Transfer(keys[0], keys[1], 100)

	command := make([]byte, 4)
	binary.LittleEndian.PutUint32(command, uint32(CommandTransfer))
	assert.Equal(t, command, instruction.Data[0:4])
	assert.EqualValues(t, 100, binary.LittleEndian.Uint64(instruction.Data[4:]))
	assert.EqualValues(t, ProgramKey, instruction.Program)

	require.Len(t, instruction.Accounts, 2)
	assert.True(t, instruction.Accounts[0].IsSigner)
	assert.True(t, instruction.Accounts[0].IsWritable)
	assert.False(t, instruction.Accounts[1].IsSigner)
	assert.True(t, instruction.Accounts[1].IsWritable)

	decompiled, err := DecompileTransfer(instruction)
	require.NoError(t, err)
	assert.EqualValues(t, keys[0], decompiled.From)
	assert.EqualValues(t, keys[1], decompiled.To)
	assert.EqualValues(t, 100, decompiled.Lamports)

	_, err = DecompileCreateAccount(instruction)
	assert.Equal(t, solana.ErrIncorrectInstruction, err)

	instruction.Data = append(instruction.Data, 0)
	_, err = DecompileTransfer(instruction)
	assert.NotNil(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "invalid instruction data size"))

	instruction.Program = keys[2]
	_, err = DecompileTransfer(instruction)
	assert.Equal(t, solana.ErrIncorrectProgram, err)
}

func TestAssign(t *testing.T) {
	keys := generateKeys(t, 2)

	instruction := Assign(keys[0], keys[1])

	command := make([]byte, 4)
	binary.LittleEndian.PutUint32(command, uint32(CommandAssign))
	assert.Equal(t, command, instruction.Data[0:4])
	assert.Equal(t, []byte(keys[1]), instruction.Data[4:])

	require.Len(t, instruction.Accounts, 1)
	assert.True(t, instruction.Accounts[0].IsSigner)
	assert.True(t, instruction.Accounts[0].IsWritable)

	decompiled, err := DecompileAssign(instruction)
	require.NoError(t, err)
	assert.EqualValues(t, keys[0], decompiled.Address)
	assert.EqualValues(t, keys[1], decompiled.Owner)

	_, err = DecompileTransfer(instruction)
	assert.Equal(t, solana.ErrIncorrectInstruction, err)
}

func TestGetCommand(t *testing.T) {
	keys := generateKeys(t, 2)

	command, err := GetCommand(Transfer(keys[0], keys[1], 1).Data)
	require.NoError(t, err)
	assert.Equal(t, CommandTransfer, command)

	_, err = GetCommand([]byte{1})
	assert.Error(t, err)
}

func TestRent(t *testing.T) {
	rent := Rent{
		LamportsPerByteYear: DefaultLamportsPerByteYear,
		ExemptionThreshold:  DefaultExemptionThreshold,
	}

	assert.EqualValues(t, 890880, rent.MinimumBalance(0))
	assert.EqualValues(t, 946560, rent.MinimumBalance(8))

	rent.ExemptionThreshold = 1.0
	assert.EqualValues(t, 445440, rent.MinimumBalance(0))
}

func generateKeys(t *testing.T, amount int) []ed25519.PublicKey {
	keys := make([]ed25519.PublicKey, amount)

	for i := 0; i < amount; i++ {
		pub, _, err := ed25519.GenerateKey(nil)
		require.NoError(t, err)
		keys[i] = pub
	}

	return keys
}
