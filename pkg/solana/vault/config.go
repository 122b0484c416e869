package vault

import (
	"context"

	"github.com/code-payments/code-vault-program/pkg/config"
	"github.com/code-payments/code-vault-program/pkg/config/env"
	"github.com/code-payments/code-vault-program/pkg/config/memory"
	"github.com/code-payments/code-vault-program/pkg/config/wrapper"
)

const (
	envConfigPrefix = "VAULT_PROGRAM_"

	RequireDerivedDepositVaultConfigEnvName = envConfigPrefix + "REQUIRE_DERIVED_DEPOSIT_VAULT"
	defaultRequireDerivedDepositVault       = false

	RequireSufficientDepositFundsConfigEnvName = envConfigPrefix + "REQUIRE_SUFFICIENT_DEPOSIT_FUNDS"
	defaultRequireSufficientDepositFunds       = false

	RequireDepositorSignatureConfigEnvName = envConfigPrefix + "REQUIRE_DEPOSITOR_SIGNATURE"
	defaultRequireDepositorSignature       = false

	RequireRecipientIsOwnerConfigEnvName = envConfigPrefix + "REQUIRE_RECIPIENT_IS_OWNER"
	defaultRequireRecipientIsOwner       = false

	RequireOwnerSignatureConfigEnvName = envConfigPrefix + "REQUIRE_OWNER_SIGNATURE"
	defaultRequireOwnerSignature       = false

	WithdrawDivisorConfigEnvName = envConfigPrefix + "WITHDRAW_DIVISOR"
	defaultWithdrawDivisor       = 10
)

type conf struct {
	requireDerivedDepositVault    config.Bool
	requireSufficientDepositFunds config.Bool
	requireDepositorSignature     config.Bool
	requireRecipientIsOwner       config.Bool
	requireOwnerSignature         config.Bool
	withdrawDivisor               config.Uint64
}

// ConfigProvider defines how config values are pulled
type ConfigProvider func() *conf

// WithEnvConfigs returns configuration pulled from environment variables
func WithEnvConfigs() ConfigProvider {
	return func() *conf {
		return &conf{
			requireDerivedDepositVault:    env.NewBoolConfig(RequireDerivedDepositVaultConfigEnvName, defaultRequireDerivedDepositVault),
			requireSufficientDepositFunds: env.NewBoolConfig(RequireSufficientDepositFundsConfigEnvName, defaultRequireSufficientDepositFunds),
			requireDepositorSignature:     env.NewBoolConfig(RequireDepositorSignatureConfigEnvName, defaultRequireDepositorSignature),
			requireRecipientIsOwner:       env.NewBoolConfig(RequireRecipientIsOwnerConfigEnvName, defaultRequireRecipientIsOwner),
			requireOwnerSignature:         env.NewBoolConfig(RequireOwnerSignatureConfigEnvName, defaultRequireOwnerSignature),
			withdrawDivisor:               env.NewUint64Config(WithdrawDivisorConfigEnvName, defaultWithdrawDivisor),
		}
	}
}

// Policy is the set of optional validations layered over the program's
// base behavior. The zero value matches the base behavior except for the
// withdraw divisor.
type Policy struct {
	// RequireDerivedDepositVault rejects deposits into any account other than
	// the depositor's own vault
	RequireDerivedDepositVault bool

	// RequireSufficientDepositFunds rejects deposits larger than the
	// depositor's balance with InsufficientFunds instead of
	// ArithmeticOverflow
	RequireSufficientDepositFunds bool

	// RequireDepositorSignature requires the depositor to sign deposits
	RequireDepositorSignature bool

	// RequireRecipientIsOwner only allows withdrawals back to the owner
	RequireRecipientIsOwner bool

	// RequireOwnerSignature requires the owner to sign withdrawals
	RequireOwnerSignature bool

	// WithdrawDivisor is the fraction of the vault balance a withdrawal
	// moves, as 1/WithdrawDivisor
	WithdrawDivisor uint64
}

// DefaultPolicy returns the program's base behavior
func DefaultPolicy() Policy {
	return Policy{
		WithdrawDivisor: defaultWithdrawDivisor,
	}
}

// WithPolicy returns configuration fixed to the provided policy
func WithPolicy(policy Policy) ConfigProvider {
	return func() *conf {
		return &conf{
			requireDerivedDepositVault:    wrapper.NewBoolConfig(memory.NewConfig(policy.RequireDerivedDepositVault), defaultRequireDerivedDepositVault),
			requireSufficientDepositFunds: wrapper.NewBoolConfig(memory.NewConfig(policy.RequireSufficientDepositFunds), defaultRequireSufficientDepositFunds),
			requireDepositorSignature:     wrapper.NewBoolConfig(memory.NewConfig(policy.RequireDepositorSignature), defaultRequireDepositorSignature),
			requireRecipientIsOwner:       wrapper.NewBoolConfig(memory.NewConfig(policy.RequireRecipientIsOwner), defaultRequireRecipientIsOwner),
			requireOwnerSignature:         wrapper.NewBoolConfig(memory.NewConfig(policy.RequireOwnerSignature), defaultRequireOwnerSignature),
			withdrawDivisor:               wrapper.NewUint64Config(memory.NewConfig(policy.WithdrawDivisor), defaultWithdrawDivisor),
		}
	}
}

func (c *conf) policy(ctx context.Context) Policy {
	divisor := c.withdrawDivisor.Get(ctx)
	if divisor == 0 {
		divisor = defaultWithdrawDivisor
	}

	return Policy{
		RequireDerivedDepositVault:    c.requireDerivedDepositVault.Get(ctx),
		RequireSufficientDepositFunds: c.requireSufficientDepositFunds.Get(ctx),
		RequireDepositorSignature:     c.requireDepositorSignature.Get(ctx),
		RequireRecipientIsOwner:       c.requireRecipientIsOwner.Get(ctx),
		RequireOwnerSignature:         c.requireOwnerSignature.Get(ctx),
		WithdrawDivisor:               divisor,
	}
}
