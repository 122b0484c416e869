package runtime

import (
	"github.com/code-payments/code-vault-program/pkg/config/memory"
	"github.com/code-payments/code-vault-program/pkg/config/wrapper"
)

type testOverrides struct {
	lamportsPerByteYear uint64
	exemptionThreshold  float64
	maxInvokeDepth      uint64
}

func withManualTestOverrides(overrides *testOverrides) ConfigProvider {
	return func() *conf {
		if overrides.lamportsPerByteYear == 0 {
			overrides.lamportsPerByteYear = defaultLamportsPerByteYear
		}
		if overrides.exemptionThreshold == 0 {
			overrides.exemptionThreshold = defaultExemptionThreshold
		}
		if overrides.maxInvokeDepth == 0 {
			overrides.maxInvokeDepth = defaultMaxInvokeDepth
		}

		return &conf{
			lamportsPerByteYear: wrapper.NewUint64Config(memory.NewConfig(overrides.lamportsPerByteYear), defaultLamportsPerByteYear),
			exemptionThreshold:  wrapper.NewFloat64Config(memory.NewConfig(overrides.exemptionThreshold), defaultExemptionThreshold),
			maxInvokeDepth:      wrapper.NewUint64Config(memory.NewConfig(overrides.maxInvokeDepth), defaultMaxInvokeDepth),
		}
	}
}
