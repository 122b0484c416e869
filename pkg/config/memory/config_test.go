package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/code-vault-program/pkg/config"
)

func TestConfig(t *testing.T) {
	ctx := context.Background()

	c := NewConfig(nil)
	_, err := c.Get(ctx)
	assert.Equal(t, config.ErrNoValue, err)

	c.SetValue(uint64(10))
	val, err := c.Get(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 10, val)

	failure := errors.New("failure")
	c.SetError(failure)
	_, err = c.Get(ctx)
	assert.Equal(t, failure, err)

	c.SetError(nil)
	c.SetValue(nil)
	_, err = c.Get(ctx)
	assert.Equal(t, config.ErrNoValue, err)

	c.SetValue(true)
	c.Shutdown()
	_, err = c.Get(ctx)
	assert.Equal(t, config.ErrShutdown, err)
}
