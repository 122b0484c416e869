package runtime

import (
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/code-vault-program/pkg/solana"
	"github.com/code-payments/code-vault-program/pkg/solana/system"
	"github.com/code-payments/code-vault-program/pkg/testutil"
)

func TestAccountInfo_Lamports(t *testing.T) {
	key := testutil.GenerateSolanaKeys(t, 1)[0]

	state := NewEmptyAccount(key)
	info := NewAccountInfo(state, true, true)
	alias := NewAccountInfo(state, false, false)

	require.NoError(t, info.AddLamports(100))
	assert.EqualValues(t, 100, alias.Lamports())

	require.NoError(t, alias.SubLamports(40))
	assert.EqualValues(t, 60, info.Lamports())

	err := info.SubLamports(61)
	assert.True(t, errors.Is(err, solana.InstructionErrorArithmeticOverflow))
	assert.EqualValues(t, 60, info.Lamports())

	err = info.AddLamports(math.MaxUint64)
	assert.True(t, errors.Is(err, solana.InstructionErrorArithmeticOverflow))
	assert.EqualValues(t, 60, info.Lamports())
}

func TestAccountInfo_State(t *testing.T) {
	keys := testutil.GenerateSolanaKeys(t, 2)

	info := NewAccountInfo(NewEmptyAccount(keys[0]), true, false)
	assert.True(t, info.IsOwnedBy(system.ProgramKey))
	assert.Empty(t, info.Data())
	assert.False(t, info.Executable())

	info.Allocate(4)
	info.Assign(keys[1])
	assert.Equal(t, make([]byte, 4), info.Data())
	assert.True(t, info.IsOwnedBy(keys[1]))

	meta := info.Meta()
	assert.EqualValues(t, keys[0], meta.PublicKey)
	assert.True(t, meta.IsSigner)
	assert.False(t, meta.IsWritable)
}

func TestAccount_RecordConversion(t *testing.T) {
	keys := testutil.GenerateSolanaKeys(t, 2)

	account := &Account{
		Address:    keys[0],
		Lamports:   123,
		Owner:      keys[1],
		Data:       []byte{1, 2, 3},
		Executable: false,
	}

	record := account.toRecord()
	assert.Equal(t, solana.ToBase58(keys[0]), record.Address)
	assert.Equal(t, solana.ToBase58(keys[1]), record.Owner)

	converted, err := accountFromRecord(record)
	require.NoError(t, err)
	assert.True(t, account.Equals(converted))

	cloned := account.Clone()
	cloned.Data[0] = 0xff
	assert.False(t, account.Equals(cloned))
	assert.EqualValues(t, 1, account.Data[0])

	record.Owner = "invalid"
	_, err = accountFromRecord(record)
	assert.Error(t, err)
}

func TestAuthorizationProof(t *testing.T) {
	program := testutil.GenerateSolanaKeys(t, 1)[0]
	seeds := [][]byte{[]byte("vault"), []byte("owner")}

	expected, bump, err := solana.FindProgramAddressAndBump(program, seeds...)
	require.NoError(t, err)

	proof := NewAuthorizationProof(program, bump, seeds...)
	actual, err := proof.Address()
	require.NoError(t, err)
	assert.EqualValues(t, expected, actual)
	assert.Len(t, proof.Seeds, 2)

	proof.Seeds = [][]byte{make([]byte, 33)}
	_, err = proof.Address()
	assert.Equal(t, solana.ErrMaxSeedLengthExceeded, err)
}
