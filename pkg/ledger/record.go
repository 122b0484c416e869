package ledger

import (
	"bytes"
	"math"
	"time"

	"github.com/pkg/errors"
)

const (
	// SystemProgramOwner is the base58 system program address. Only accounts
	// it owns are garbage collected.
	SystemProgramOwner = "11111111111111111111111111111111"

	// MaxLamports is the largest balance a record may carry
	MaxLamports = math.MaxInt64
)

// Record is the persisted state of a single ledger account. Addresses and
// owners are base58 encoded public keys.
type Record struct {
	Id uint64

	Address    string
	Lamports   uint64
	Owner      string
	Data       []byte
	Executable bool

	LastUpdatedAt time.Time
}

func (r *Record) Validate() error {
	if len(r.Address) == 0 {
		return errors.New("address is required")
	}

	if len(r.Owner) == 0 {
		return errors.New("owner is required")
	}

	if r.Lamports > MaxLamports {
		return errors.Errorf("lamports exceeds maximum of %d", uint64(MaxLamports))
	}

	return nil
}

// IsPurgeable reports whether the ledger should drop the account. Empty
// system accounts are garbage collected. Program owned accounts stay
// allocated at a zero balance.
func (r *Record) IsPurgeable() bool {
	return r.Lamports == 0 && len(r.Data) == 0 && r.Owner == SystemProgramOwner
}

// Equals compares account state, ignoring bookkeeping fields.
func (r *Record) Equals(other *Record) bool {
	return r.Address == other.Address &&
		r.Lamports == other.Lamports &&
		r.Owner == other.Owner &&
		bytes.Equal(r.Data, other.Data) &&
		r.Executable == other.Executable
}

func (r *Record) Clone() Record {
	var data []byte
	if r.Data != nil {
		data = make([]byte, len(r.Data))
		copy(data, r.Data)
	}

	return Record{
		Id: r.Id,

		Address:    r.Address,
		Lamports:   r.Lamports,
		Owner:      r.Owner,
		Data:       data,
		Executable: r.Executable,

		LastUpdatedAt: r.LastUpdatedAt,
	}
}

func (r *Record) CopyTo(dst *Record) {
	cloned := r.Clone()

	dst.Id = cloned.Id

	dst.Address = cloned.Address
	dst.Lamports = cloned.Lamports
	dst.Owner = cloned.Owner
	dst.Data = cloned.Data
	dst.Executable = cloned.Executable

	dst.LastUpdatedAt = cloned.LastUpdatedAt
}
