package tests

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/code-vault-program/pkg/database/query"
	"github.com/code-payments/code-vault-program/pkg/ledger"
)

func RunTests(t *testing.T, s ledger.Store, teardown func()) {
	for _, tf := range []func(t *testing.T, s ledger.Store){
		testRoundTrip,
		testUpdate,
		testPurge,
		testProgramOwnedZeroBalance,
		testLamportsLimit,
		testAtomicValidation,
		testGetAllByOwner,
	} {
		tf(t, s)
		teardown()
	}
}

func testRoundTrip(t *testing.T, s ledger.Store) {
	ctx := context.Background()

	actual, err := s.Get(ctx, "test_address")
	assert.Equal(t, ledger.ErrAccountNotFound, err)
	assert.Nil(t, actual)

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)

	expected := &ledger.Record{
		Address:  "test_address",
		Lamports: 890880,
		Owner:    "test_owner",
		Data:     []byte{},
	}
	cloned := expected.Clone()
	require.NoError(t, s.Save(ctx, expected))
	assert.EqualValues(t, 1, expected.Id)
	assert.False(t, expected.LastUpdatedAt.IsZero())

	actual, err = s.Get(ctx, "test_address")
	require.NoError(t, err)
	assertEquivalentRecords(t, &cloned, actual)
	assert.EqualValues(t, 1, actual.Id)

	count, err = s.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func testUpdate(t *testing.T, s ledger.Store) {
	ctx := context.Background()

	record := &ledger.Record{
		Address:  "test_address",
		Lamports: 100,
		Owner:    "test_owner",
	}
	require.NoError(t, s.Save(ctx, record))
	assert.EqualValues(t, 1, record.Id)

	record.Lamports = 1000
	record.Owner = "test_new_owner"
	record.Data = []byte{1, 2, 3}
	record.Executable = true
	require.NoError(t, s.Save(ctx, record))

	actual, err := s.Get(ctx, "test_address")
	require.NoError(t, err)
	assertEquivalentRecords(t, record, actual)
	assert.EqualValues(t, 1, actual.Id)

	// Mutating a returned record must not leak into the store
	actual.Data[0] = 0xff
	actual, err = s.Get(ctx, "test_address")
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, actual.Data)

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func testPurge(t *testing.T, s ledger.Store) {
	ctx := context.Background()

	first := &ledger.Record{Address: "first", Lamports: 10, Owner: ledger.SystemProgramOwner}
	second := &ledger.Record{Address: "second", Lamports: 20, Owner: ledger.SystemProgramOwner}
	require.NoError(t, s.Save(ctx, first, second))

	first.Lamports = 0
	second.Lamports = 30
	require.NoError(t, s.Save(ctx, first, second))

	_, err := s.Get(ctx, "first")
	assert.Equal(t, ledger.ErrAccountNotFound, err)

	actual, err := s.Get(ctx, "second")
	require.NoError(t, err)
	assert.EqualValues(t, 30, actual.Lamports)

	// Never persisted, so purging is a no-op
	require.NoError(t, s.Save(ctx, &ledger.Record{Address: "third", Lamports: 0, Owner: ledger.SystemProgramOwner}))
	_, err = s.Get(ctx, "third")
	assert.Equal(t, ledger.ErrAccountNotFound, err)

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func testProgramOwnedZeroBalance(t *testing.T, s ledger.Store) {
	ctx := context.Background()

	owned := &ledger.Record{Address: "owned", Lamports: 890880, Owner: "test_program", Data: []byte{}}
	withData := &ledger.Record{Address: "with_data", Lamports: 10, Owner: ledger.SystemProgramOwner, Data: []byte{1}}
	require.NoError(t, s.Save(ctx, owned, withData))

	owned.Lamports = 0
	withData.Lamports = 0
	require.NoError(t, s.Save(ctx, owned, withData))

	actual, err := s.Get(ctx, "owned")
	require.NoError(t, err)
	assert.EqualValues(t, 0, actual.Lamports)
	assert.Equal(t, "test_program", actual.Owner)

	actual, err = s.Get(ctx, "with_data")
	require.NoError(t, err)
	assert.EqualValues(t, 0, actual.Lamports)

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}

func testLamportsLimit(t *testing.T, s ledger.Store) {
	ctx := context.Background()

	record := &ledger.Record{Address: "max", Lamports: ledger.MaxLamports, Owner: "test_owner"}
	require.NoError(t, s.Save(ctx, record))

	actual, err := s.Get(ctx, "max")
	require.NoError(t, err)
	assert.EqualValues(t, uint64(ledger.MaxLamports), actual.Lamports)

	record.Lamports = ledger.MaxLamports + 1
	assert.Error(t, s.Save(ctx, record))

	actual, err = s.Get(ctx, "max")
	require.NoError(t, err)
	assert.EqualValues(t, uint64(ledger.MaxLamports), actual.Lamports)
}

func testAtomicValidation(t *testing.T, s ledger.Store) {
	ctx := context.Background()

	valid := &ledger.Record{Address: "valid", Lamports: 10, Owner: "test_owner"}
	invalid := &ledger.Record{Address: "invalid", Lamports: 10}
	assert.Error(t, s.Save(ctx, valid, invalid))

	_, err := s.Get(ctx, "valid")
	assert.Equal(t, ledger.ErrAccountNotFound, err)

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)
}

func testGetAllByOwner(t *testing.T, s ledger.Store) {
	ctx := context.Background()

	_, err := s.GetAllByOwner(ctx, "test_owner")
	assert.Equal(t, ledger.ErrAccountNotFound, err)

	var expected []*ledger.Record
	for i := 0; i < 5; i++ {
		record := &ledger.Record{
			Address:  fmt.Sprintf("address%d", i),
			Lamports: uint64(i + 1),
			Owner:    "test_owner",
		}
		require.NoError(t, s.Save(ctx, record))
		expected = append(expected, record)
	}
	require.NoError(t, s.Save(ctx, &ledger.Record{Address: "other", Lamports: 1, Owner: "other_owner"}))

	actual, err := s.GetAllByOwner(ctx, "test_owner")
	require.NoError(t, err)
	require.Len(t, actual, 5)
	for i, record := range actual {
		assertEquivalentRecords(t, expected[i], record)
	}

	actual, err = s.GetAllByOwner(ctx, "test_owner", query.WithDirection(query.Descending))
	require.NoError(t, err)
	require.Len(t, actual, 5)
	for i, record := range actual {
		assertEquivalentRecords(t, expected[4-i], record)
	}

	actual, err = s.GetAllByOwner(ctx, "test_owner", query.WithLimit(2))
	require.NoError(t, err)
	require.Len(t, actual, 2)
	assert.Equal(t, "address0", actual[0].Address)
	assert.Equal(t, "address1", actual[1].Address)

	actual, err = s.GetAllByOwner(ctx, "test_owner", query.WithLimit(2), query.WithCursor(query.ToCursor(actual[1].Id)))
	require.NoError(t, err)
	require.Len(t, actual, 2)
	assert.Equal(t, "address2", actual[0].Address)
	assert.Equal(t, "address3", actual[1].Address)

	actual, err = s.GetAllByOwner(ctx, "test_owner", query.WithDirection(query.Descending), query.WithCursor(query.ToCursor(expected[1].Id)))
	require.NoError(t, err)
	require.Len(t, actual, 1)
	assert.Equal(t, "address0", actual[0].Address)

	_, err = s.GetAllByOwner(ctx, "test_owner", query.WithCursor(query.ToCursor(expected[4].Id)))
	assert.Equal(t, ledger.ErrAccountNotFound, err)

	actual, err = s.GetAllByOwner(ctx, "other_owner")
	require.NoError(t, err)
	require.Len(t, actual, 1)
	assert.Equal(t, "other", actual[0].Address)
}

func assertEquivalentRecords(t *testing.T, obj1, obj2 *ledger.Record) {
	assert.Equal(t, obj1.Address, obj2.Address)
	assert.Equal(t, obj1.Lamports, obj2.Lamports)
	assert.Equal(t, obj1.Owner, obj2.Owner)
	assert.Equal(t, len(obj1.Data), len(obj2.Data))
	if len(obj1.Data) > 0 {
		assert.Equal(t, obj1.Data, obj2.Data)
	}
	assert.Equal(t, obj1.Executable, obj2.Executable)
}
