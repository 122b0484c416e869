package config

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

var (
	// ErrNoValue indicates no value was set for the config
	ErrNoValue = errors.New("config: no value set")

	// ErrShutdown indicates the use of a Config after calling Shutdown
	ErrShutdown = errors.New("config: shutdown")
)

// Config is a source of untyped configuration values
type Config interface {
	// Get returns the latest config value
	Get(ctx context.Context) (interface{}, error)

	// Shutdown signals the config to stop all underlying resources
	Shutdown()
}

// Value is a typed view over a Config
type Value[T any] interface {
	// Get returns the latest value, falling back to the last known or
	// default value when the source fails
	Get(ctx context.Context) T

	// GetSafe is Get, but surfaces errors from the underlying source
	GetSafe(ctx context.Context) (T, error)

	Shutdown()
}

type (
	Bool     = Value[bool]
	Uint64   = Value[uint64]
	Float64  = Value[float64]
	String   = Value[string]
	Duration = Value[time.Duration]
)
