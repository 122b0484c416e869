package memory

import (
	"context"
	"sync"

	"github.com/code-payments/code-vault-program/pkg/config"
)

// Config is an in memory config used for testing and for fixing values at
// construction time
type Config struct {
	mu       sync.RWMutex
	value    interface{}
	err      error
	shutdown bool
}

// NewConfig returns a new in memory config. A nil value means no value is set.
func NewConfig(value interface{}) *Config {
	return &Config{
		value: value,
	}
}

// Get implements config.Config.Get
func (c *Config) Get(_ context.Context) (interface{}, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	switch {
	case c.shutdown:
		return nil, config.ErrShutdown
	case c.err != nil:
		return nil, c.err
	case c.value == nil:
		return nil, config.ErrNoValue
	}
	return c.value, nil
}

// Shutdown implements config.Config.Shutdown
func (c *Config) Shutdown() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.shutdown = true
}

// SetValue sets the value returned by subsequent Get calls. Setting nil
// behaves as if no value was ever set.
func (c *Config) SetValue(value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.value = value
}

// SetError makes subsequent Get calls fail with err until it is cleared with
// a nil error
func (c *Config) SetError(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.err = err
}
