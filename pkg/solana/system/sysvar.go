package system

const (
	// AccountStorageOverhead is the number of bytes every account is charged
	// for on top of its data.
	AccountStorageOverhead = 128

	DefaultLamportsPerByteYear = 3480
	DefaultExemptionThreshold  = 2.0
)

// Rent mirrors the cluster's rent sysvar.
//
// Source: https://github.com/solana-labs/solana/blob/f02a78d8fff2dd7297dc6ce6eb5a68a3002f5359/sdk/program/src/rent.rs
type Rent struct {
	LamportsPerByteYear uint64
	ExemptionThreshold  float64
}

// MinimumBalance is the smallest balance an account with dataLen bytes of
// data must hold to be exempt from rent collection.
func (r Rent) MinimumBalance(dataLen uint64) uint64 {
	bytes := AccountStorageOverhead + dataLen
	return uint64(float64(bytes*r.LamportsPerByteYear) * r.ExemptionThreshold)
}
