package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaginateQuery(t *testing.T) {
	base := "SELECT * FROM table WHERE (owner = $1)"

	q, args := PaginateQuery(base, []interface{}{"owner"}, nil, 0, Ascending)
	assert.Equal(t, base+" ORDER BY id ASC", q)
	assert.Len(t, args, 1)

	q, args = PaginateQuery(base, []interface{}{"owner"}, ToCursor(5), 10, Descending)
	assert.Equal(t, base+" AND id < $2 ORDER BY id DESC LIMIT $3", q)
	require.Len(t, args, 3)
	assert.EqualValues(t, 5, args[1])
	assert.EqualValues(t, 10, args[2])
}

func TestDefaultPaginationHandler(t *testing.T) {
	req, err := DefaultPaginationHandler()
	require.NoError(t, err)
	assert.EqualValues(t, defaultPagingLimit, req.Limit)
	assert.Equal(t, Ascending, req.SortBy)
	assert.Empty(t, req.Cursor)

	req, err = DefaultPaginationHandler(WithLimit(5), WithDirection(Descending), WithCursor(ToCursor(42)))
	require.NoError(t, err)
	assert.EqualValues(t, 5, req.Limit)
	assert.Equal(t, Descending, req.SortBy)
	assert.EqualValues(t, 42, req.Cursor.ToUint64())

	_, err = DefaultPaginationHandler(WithLimit(defaultPagingLimit + 1))
	assert.Equal(t, ErrQueryNotSupported, err)

	_, err = DefaultPaginationHandler(WithCursor([]byte{1, 2}))
	assert.Equal(t, ErrInvalidCursor, err)
}

func TestCursorBase58(t *testing.T) {
	cursor := ToCursor(1234)

	decoded, err := CursorFromBase58(cursor.ToBase58())
	require.NoError(t, err)
	assert.EqualValues(t, 1234, decoded.ToUint64())

	_, err = CursorFromBase58("abc")
	assert.Error(t, err)
}
