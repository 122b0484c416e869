package vault

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithEnvConfigs(t *testing.T) {
	assert.Equal(t, DefaultPolicy(), WithEnvConfigs()().policy(context.Background()))

	t.Setenv(RequireDerivedDepositVaultConfigEnvName, "true")
	t.Setenv(RequireSufficientDepositFundsConfigEnvName, "true")
	t.Setenv(RequireDepositorSignatureConfigEnvName, "true")
	t.Setenv(RequireRecipientIsOwnerConfigEnvName, "true")
	t.Setenv(RequireOwnerSignatureConfigEnvName, "true")
	t.Setenv(WithdrawDivisorConfigEnvName, "4")

	assert.Equal(t, Policy{
		RequireDerivedDepositVault:    true,
		RequireSufficientDepositFunds: true,
		RequireDepositorSignature:     true,
		RequireRecipientIsOwner:       true,
		RequireOwnerSignature:         true,
		WithdrawDivisor:               4,
	}, WithEnvConfigs()().policy(context.Background()))
}

func TestWithPolicy(t *testing.T) {
	policy := Policy{
		RequireRecipientIsOwner: true,
		WithdrawDivisor:         3,
	}
	assert.Equal(t, policy, WithPolicy(policy)().policy(context.Background()))

	// A zero divisor falls back to the default
	actual := WithPolicy(Policy{})().policy(context.Background())
	assert.Equal(t, DefaultPolicy(), actual)
}
