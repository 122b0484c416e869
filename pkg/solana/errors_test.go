package solana

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorKeyOf(t *testing.T) {
	assert.EqualValues(t, "", ErrorKeyOf(nil))

	wrapped := errors.Wrap(InstructionErrorInvalidArgument, "vault address mismatch")
	assert.Equal(t, InstructionErrorInvalidArgument, ErrorKeyOf(wrapped))
	assert.True(t, errors.Is(wrapped, InstructionErrorInvalidArgument))
	assert.False(t, errors.Is(wrapped, InstructionErrorInvalidAccountData))

	assert.Equal(t, InstructionErrorCustom, ErrorKeyOf(errors.Wrap(CustomError(1), "create account")))
	assert.Equal(t, InstructionErrorGenericError, ErrorKeyOf(errors.New("boom")))
}

func TestInstructionError(t *testing.T) {
	err := error(InstructionError{
		Index: 2,
		Err:   errors.Wrap(InstructionErrorInvalidInstructionData, "unknown opcode 3"),
	})

	assert.True(t, errors.Is(err, InstructionErrorInvalidInstructionData))

	var ixnErr InstructionError
	require.True(t, errors.As(err, &ixnErr))
	assert.Equal(t, 2, ixnErr.Index)
	assert.Equal(t, InstructionErrorInvalidInstructionData, ixnErr.ErrorKey())
	assert.Nil(t, ixnErr.CustomError())
	assert.Equal(t, `[2, "InvalidInstructionData"]`, ixnErr.JSONString())

	ixnErr = InstructionError{
		Index: 0,
		Err:   errors.Wrap(CustomError(3), "system program"),
	}
	require.NotNil(t, ixnErr.CustomError())
	assert.Equal(t, CustomError(3), *ixnErr.CustomError())
	assert.Equal(t, InstructionErrorCustom, ixnErr.ErrorKey())
	assert.Equal(t, `[0, {"Custom": 3}]`, ixnErr.JSONString())
}
