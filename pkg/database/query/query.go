package query

import (
	"errors"
)

var (
	ErrQueryNotSupported = errors.New("the requested query option is not supported")
)

type SupportedOptions byte

const (
	CanLimitResults  SupportedOptions = 0x01
	CanSortBy        SupportedOptions = 0x01 << 1
	CanQueryByCursor SupportedOptions = 0x01 << 2
)

// QueryOptions are the resolved paging parameters for a list query
type QueryOptions struct {
	Supported SupportedOptions

	SortBy Ordering
	Limit  uint64
	Cursor Cursor
}

type Option func(*QueryOptions) error

func (qo *QueryOptions) unsupported(cap SupportedOptions) bool {
	return qo.Supported&cap != cap
}

func (qo *QueryOptions) Apply(opts ...Option) error {
	for _, o := range opts {
		if err := o(qo); err != nil {
			return err
		}
	}
	return nil
}

func WithDirection(val Ordering) Option {
	return func(qo *QueryOptions) error {
		if qo.unsupported(CanSortBy) {
			return ErrQueryNotSupported
		}
		qo.SortBy = val
		return nil
	}
}

func WithLimit(val uint64) Option {
	return func(qo *QueryOptions) error {
		if qo.unsupported(CanLimitResults) {
			return ErrQueryNotSupported
		}
		qo.Limit = val
		return nil
	}
}

func WithCursor(val Cursor) Option {
	return func(qo *QueryOptions) error {
		if qo.unsupported(CanQueryByCursor) {
			return ErrQueryNotSupported
		}
		if len(val) != 0 && len(val) != cursorSize {
			return ErrInvalidCursor
		}
		qo.Cursor = val
		return nil
	}
}
