package binary

import (
	"crypto/ed25519"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPutGet(t *testing.T) {
	key, _, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	buf := make([]byte, 1+4+8+ed25519.PublicKeySize)

	var offset int
	PutUint8(buf, 7, &offset)
	PutUint32(buf, 123456, &offset)
	PutUint64(buf, 1<<60, &offset)
	PutKey32(buf, key, &offset)
	assert.Equal(t, len(buf), offset)

	var (
		u8  uint8
		u32 uint32
		u64 uint64
		pub ed25519.PublicKey
	)

	offset = 0
	require.NoError(t, GetUint8(buf, &u8, &offset))
	require.NoError(t, GetUint32(buf, &u32, &offset))
	require.NoError(t, GetUint64(buf, &u64, &offset))
	require.NoError(t, GetKey32(buf, &pub, &offset))
	assert.Equal(t, len(buf), offset)

	assert.EqualValues(t, 7, u8)
	assert.EqualValues(t, 123456, u32)
	assert.EqualValues(t, uint64(1<<60), u64)
	assert.EqualValues(t, key, pub)
}

func TestGet_BufferTooShort(t *testing.T) {
	buf := []byte{1, 0, 0, 0, 0, 0, 0, 0}

	var u64 uint64
	offset := 1
	err := GetUint64(buf, &u64, &offset)
	assert.True(t, errors.Is(err, ErrBufferTooShort))
	assert.Equal(t, 1, offset)
	assert.Zero(t, u64)

	var u8 uint8
	offset = len(buf)
	assert.True(t, errors.Is(GetUint8(buf, &u8, &offset), ErrBufferTooShort))

	var pub ed25519.PublicKey
	offset = 0
	assert.True(t, errors.Is(GetKey32(buf, &pub, &offset), ErrBufferTooShort))
	assert.Nil(t, pub)
}
