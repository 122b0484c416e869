package vault

import "fmt"

type InstructionType uint8

const (
	InstructionTypeCreateVault InstructionType = iota
	InstructionTypeDeposit
	InstructionTypeWithdraw
)

func (i InstructionType) String() string {
	switch i {
	case InstructionTypeCreateVault:
		return "create_vault"
	case InstructionTypeDeposit:
		return "deposit"
	case InstructionTypeWithdraw:
		return "withdraw"
	}
	return fmt.Sprintf("unknown(%d)", uint8(i))
}

func putInstructionType(dst []byte, v InstructionType, offset *int) {
	dst[*offset] = uint8(v)
	*offset += 1
}
