package binary

import (
	"crypto/ed25519"
	"encoding/binary"

	"github.com/pkg/errors"
)

// ErrBufferTooShort is returned when a read would run past the end of the
// source buffer.
var ErrBufferTooShort = errors.New("buffer too short")

func PutKey32(dst []byte, src []byte, offset *int) {
	copy(dst[*offset:], src)
	*offset += ed25519.PublicKeySize
}

func PutUint64(dst []byte, v uint64, offset *int) {
	binary.LittleEndian.PutUint64(dst[*offset:], v)
	*offset += 8
}

func PutUint32(dst []byte, v uint32, offset *int) {
	binary.LittleEndian.PutUint32(dst[*offset:], v)
	*offset += 4
}

func PutUint8(dst []byte, v uint8, offset *int) {
	dst[*offset] = v
	*offset += 1
}

func GetKey32(src []byte, dst *ed25519.PublicKey, offset *int) error {
	if err := checkRemaining(src, *offset, ed25519.PublicKeySize); err != nil {
		return err
	}

	*dst = make([]byte, ed25519.PublicKeySize)
	copy(*dst, src[*offset:])
	*offset += ed25519.PublicKeySize
	return nil
}

func GetUint64(src []byte, dst *uint64, offset *int) error {
	if err := checkRemaining(src, *offset, 8); err != nil {
		return err
	}

	*dst = binary.LittleEndian.Uint64(src[*offset:])
	*offset += 8
	return nil
}

func GetUint32(src []byte, dst *uint32, offset *int) error {
	if err := checkRemaining(src, *offset, 4); err != nil {
		return err
	}

	*dst = binary.LittleEndian.Uint32(src[*offset:])
	*offset += 4
	return nil
}

func GetUint8(src []byte, dst *uint8, offset *int) error {
	if err := checkRemaining(src, *offset, 1); err != nil {
		return err
	}

	*dst = src[*offset]
	*offset += 1
	return nil
}

func checkRemaining(src []byte, offset, size int) error {
	if offset < 0 || len(src)-offset < size {
		return errors.Wrapf(ErrBufferTooShort, "need %d bytes at offset %d, have %d", size, offset, len(src))
	}
	return nil
}
