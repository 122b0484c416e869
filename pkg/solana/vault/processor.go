package vault

import (
	"context"

	"github.com/pkg/errors"

	"github.com/code-payments/code-vault-program/pkg/solana"
	"github.com/code-payments/code-vault-program/pkg/solana/runtime"
)

// Process implements runtime.Program.Process. The first byte of the payload
// selects the handler.
func (p *Program) Process(env runtime.Environment, accounts []*runtime.AccountInfo, data []byte) error {
	if len(data) == 0 {
		return errors.Wrap(solana.InstructionErrorInvalidInstructionData, "empty instruction data")
	}

	policy := p.conf.policy(context.Background())

	switch instruction := InstructionType(data[0]); instruction {
	case InstructionTypeCreateVault:
		return p.processCreateVault(env, accounts)
	case InstructionTypeDeposit:
		return p.processDeposit(env, policy, accounts, data)
	case InstructionTypeWithdraw:
		return p.processWithdraw(env, policy, accounts)
	default:
		return errors.Wrapf(solana.InstructionErrorInvalidInstructionData, "unknown instruction %s", instruction)
	}
}
