package ledger

import (
	"context"
	"errors"

	"github.com/code-payments/code-vault-program/pkg/database/query"
)

var (
	ErrAccountNotFound = errors.New("ledger account not found")
)

// Store persists the account state the runtime executes against.
type Store interface {
	// Get returns the account record for an address. ErrAccountNotFound is
	// returned if the account doesn't exist.
	Get(ctx context.Context, address string) (*Record, error)

	// Save creates or updates every record in a single atomic write. Empty
	// system owned records are purged from the ledger. Balances above
	// MaxLamports are rejected.
	Save(ctx context.Context, records ...*Record) error

	// Count returns the number of accounts in the ledger.
	Count(ctx context.Context) (uint64, error)

	// GetAllByOwner returns a page of accounts owned by a program. Paging is
	// controlled with query.WithCursor, query.WithLimit and query.WithDirection.
	//
	// Returns ErrAccountNotFound if no records are found.
	GetAllByOwner(ctx context.Context, owner string, opts ...query.Option) ([]*Record, error)
}
