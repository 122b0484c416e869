package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/code-payments/code-vault-program/pkg/database/query"
	"github.com/code-payments/code-vault-program/pkg/ledger"
)

type store struct {
	mu      sync.Mutex
	records []*ledger.Record
	last    uint64
}

type ById []*ledger.Record

func (a ById) Len() int           { return len(a) }
func (a ById) Swap(i, j int)      { a[i], a[j] = a[j], a[i] }
func (a ById) Less(i, j int) bool { return a[i].Id < a[j].Id }

// New returns a new in memory ledger.Store
func New() ledger.Store {
	return &store{
		records: make([]*ledger.Record, 0),
	}
}

func (s *store) reset() {
	s.mu.Lock()
	s.records = make([]*ledger.Record, 0)
	s.last = 0
	s.mu.Unlock()
}

func (s *store) findIndex(address string) int {
	for i, item := range s.records {
		if item.Address == address {
			return i
		}
	}
	return -1
}

func (s *store) findByOwner(owner string) []*ledger.Record {
	res := make([]*ledger.Record, 0)
	for _, item := range s.records {
		if item.Owner == owner {
			res = append(res, item)
		}
	}
	return res
}

func (s *store) filter(items []*ledger.Record, cursor query.Cursor, limit uint64, direction query.Ordering) []*ledger.Record {
	var start uint64

	start = 0
	if direction == query.Descending {
		start = s.last + 1
	}
	if len(cursor) > 0 {
		start = cursor.ToUint64()
	}

	var res []*ledger.Record
	for _, item := range items {
		if item.Id > start && direction == query.Ascending {
			res = append(res, item)
		}
		if item.Id < start && direction == query.Descending {
			res = append(res, item)
		}
	}

	if direction == query.Descending {
		sort.Sort(sort.Reverse(ById(res)))
	} else {
		sort.Sort(ById(res))
	}

	if limit > 0 && len(res) >= int(limit) {
		return res[:limit]
	}

	return res
}

// Get implements ledger.Store.Get
func (s *store) Get(_ context.Context, address string) (*ledger.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.findIndex(address); i >= 0 {
		cloned := s.records[i].Clone()
		return &cloned, nil
	}
	return nil, ledger.ErrAccountNotFound
}

// Save implements ledger.Store.Save
func (s *store) Save(_ context.Context, records ...*ledger.Record) error {
	for _, record := range records {
		if err := record.Validate(); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for _, record := range records {
		i := s.findIndex(record.Address)

		if record.IsPurgeable() {
			if i >= 0 {
				s.records = append(s.records[:i], s.records[i+1:]...)
			}
			continue
		}

		record.LastUpdatedAt = now

		if i >= 0 {
			record.Id = s.records[i].Id
			cloned := record.Clone()
			s.records[i] = &cloned
			continue
		}

		s.last++
		record.Id = s.last
		cloned := record.Clone()
		s.records = append(s.records, &cloned)
	}

	return nil
}

// Count implements ledger.Store.Count
func (s *store) Count(_ context.Context) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return uint64(len(s.records)), nil
}

// GetAllByOwner implements ledger.Store.GetAllByOwner
func (s *store) GetAllByOwner(_ context.Context, owner string, opts ...query.Option) ([]*ledger.Record, error) {
	req, err := query.DefaultPaginationHandler(opts...)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.filter(s.findByOwner(owner), req.Cursor, req.Limit, req.SortBy)
	if len(items) == 0 {
		return nil, ledger.ErrAccountNotFound
	}

	res := make([]*ledger.Record, len(items))
	for i, item := range items {
		cloned := item.Clone()
		res[i] = &cloned
	}
	return res, nil
}
