package query

import (
	"encoding/binary"
	"errors"

	"github.com/mr-tron/base58"
)

const cursorSize = 8

var (
	ErrInvalidCursor = errors.New("invalid cursor")
)

// Cursor is an opaque paging token wrapping a record's row id
type Cursor []byte

var (
	EmptyCursor Cursor = Cursor([]byte{})
)

func ToCursor(val uint64) Cursor {
	b := make([]byte, cursorSize)
	binary.BigEndian.PutUint64(b, val)
	return b
}

func (c Cursor) ToUint64() uint64 {
	return binary.BigEndian.Uint64(c)
}

func (c Cursor) ToBase58() string {
	return base58.Encode(c)
}

func CursorFromBase58(val string) (Cursor, error) {
	decoded, err := base58.Decode(val)
	if err != nil {
		return nil, err
	}
	if len(decoded) != cursorSize {
		return nil, ErrInvalidCursor
	}
	return decoded, nil
}
