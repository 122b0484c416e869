package runtime

import (
	"github.com/code-payments/code-vault-program/pkg/config"
	"github.com/code-payments/code-vault-program/pkg/config/env"
	"github.com/code-payments/code-vault-program/pkg/solana/system"
)

const (
	envConfigPrefix = "BANK_"

	LamportsPerByteYearConfigEnvName = envConfigPrefix + "LAMPORTS_PER_BYTE_YEAR"
	defaultLamportsPerByteYear       = system.DefaultLamportsPerByteYear

	ExemptionThresholdConfigEnvName = envConfigPrefix + "EXEMPTION_THRESHOLD"
	defaultExemptionThreshold       = system.DefaultExemptionThreshold

	MaxInvokeDepthConfigEnvName = envConfigPrefix + "MAX_INVOKE_DEPTH"
	defaultMaxInvokeDepth       = 5
)

type conf struct {
	lamportsPerByteYear config.Uint64
	exemptionThreshold  config.Float64
	maxInvokeDepth      config.Uint64
}

// ConfigProvider defines how config values are pulled
type ConfigProvider func() *conf

// WithEnvConfigs returns configuration pulled from environment variables
func WithEnvConfigs() ConfigProvider {
	return func() *conf {
		return &conf{
			lamportsPerByteYear: env.NewUint64Config(LamportsPerByteYearConfigEnvName, defaultLamportsPerByteYear),
			exemptionThreshold:  env.NewFloat64Config(ExemptionThresholdConfigEnvName, defaultExemptionThreshold),
			maxInvokeDepth:      env.NewUint64Config(MaxInvokeDepthConfigEnvName, defaultMaxInvokeDepth),
		}
	}
}
