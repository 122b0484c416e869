package solana

import (
	"fmt"

	"github.com/pkg/errors"
)

// InstructionErrorKey is the string key of an instruction error. Keys are
// themselves errors so programs can return them directly and callers can
// match them with errors.Is after any amount of wrapping.
//
// Source: https://github.com/solana-labs/solana/blob/4e2754341514cd181ae3f373cc2548bd22e918b8/sdk/program/src/instruction.rs#L23
type InstructionErrorKey string

const (
	InstructionErrorGenericError                InstructionErrorKey = "GenericError"
	InstructionErrorInvalidArgument             InstructionErrorKey = "InvalidArgument"
	InstructionErrorInvalidInstructionData      InstructionErrorKey = "InvalidInstructionData"
	InstructionErrorInvalidAccountData          InstructionErrorKey = "InvalidAccountData"
	InstructionErrorAccountDataTooSmall         InstructionErrorKey = "AccountDataTooSmall"
	InstructionErrorInsufficientFunds           InstructionErrorKey = "InsufficientFunds"
	InstructionErrorIncorrectProgramID          InstructionErrorKey = "IncorrectProgramId"
	InstructionErrorMissingRequiredSignature    InstructionErrorKey = "MissingRequiredSignature"
	InstructionErrorAccountAlreadyInitialized   InstructionErrorKey = "AccountAlreadyInitialized"
	InstructionErrorUninitializedAccount        InstructionErrorKey = "UninitializedAccount"
	InstructionErrorUnbalancedInstruction       InstructionErrorKey = "UnbalancedInstruction"
	InstructionErrorModifiedProgramID           InstructionErrorKey = "ModifiedProgramId"
	InstructionErrorExternalAccountDataModified InstructionErrorKey = "ExternalAccountDataModified"
	InstructionErrorReadonlyLamportChange       InstructionErrorKey = "ReadonlyLamportChange"
	InstructionErrorReadonlyDataModified        InstructionErrorKey = "ReadonlyDataModified"
	InstructionErrorNotEnoughAccountKeys        InstructionErrorKey = "NotEnoughAccountKeys"
	InstructionErrorCustom                      InstructionErrorKey = "Custom"
	InstructionErrorUnsupportedProgramID        InstructionErrorKey = "UnsupportedProgramId"
	InstructionErrorCallDepth                   InstructionErrorKey = "CallDepth"
	InstructionErrorMissingAccount              InstructionErrorKey = "MissingAccount"
	InstructionErrorReentrancyNotAllowed        InstructionErrorKey = "ReentrancyNotAllowed"
	InstructionErrorMaxSeedLengthExceeded       InstructionErrorKey = "MaxSeedLengthExceeded"
	InstructionErrorInvalidSeeds                InstructionErrorKey = "InvalidSeeds"
	InstructionErrorPrivilegeEscalation         InstructionErrorKey = "PrivilegeEscalation"
	InstructionErrorArithmeticOverflow          InstructionErrorKey = "ArithmeticOverflow"
	InstructionErrorExecutableModified          InstructionErrorKey = "ExecutableModified"
)

// Error implements error.
func (k InstructionErrorKey) Error() string {
	return string(k)
}

// CustomError is the numerical error returned by a non-system program.
type CustomError int

func (c CustomError) Error() string {
	return fmt.Sprintf("custom program error: %x", int(c))
}

// ErrorKeyOf returns the instruction error key found in err's chain, if any.
// Custom program errors map to InstructionErrorCustom.
func ErrorKeyOf(err error) InstructionErrorKey {
	if err == nil {
		return ""
	}

	var custom CustomError
	if errors.As(err, &custom) {
		return InstructionErrorCustom
	}

	var key InstructionErrorKey
	if errors.As(err, &key) {
		return key
	}

	return InstructionErrorGenericError
}

// InstructionError indicates an instruction returned an error in a transaction.
type InstructionError struct {
	Index int
	Err   error
}

func (i InstructionError) Error() string {
	return fmt.Sprintf("Error processing Instruction %d: %v", i.Index, i.Err)
}

// Unwrap exposes the underlying program error to errors.Is and errors.As.
func (i InstructionError) Unwrap() error {
	return i.Err
}

func (i InstructionError) ErrorKey() InstructionErrorKey {
	return ErrorKeyOf(i.Err)
}

// JSONString renders the error the way a cluster reports it in transaction
// results, for example `[0, "InvalidArgument"]` or `[1, {"Custom": 0}]`.
func (i InstructionError) JSONString() string {
	if ce := i.CustomError(); ce != nil {
		return fmt.Sprintf(`[%d, {"%s": %d}]`, i.Index, InstructionErrorCustom, *ce)
	}

	return fmt.Sprintf(`[%d, "%s"]`, i.Index, i.ErrorKey())
}

func (i InstructionError) CustomError() *CustomError {
	var ce CustomError
	if errors.As(i.Err, &ce) {
		return &ce
	}

	return nil
}
