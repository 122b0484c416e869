package wrapper

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/code-vault-program/pkg/config"
	"github.com/code-payments/code-vault-program/pkg/config/memory"
)

// testValueConfig walks a wrapper through its default, override, error and
// conversion failure states
func testValueConfig[T any](t *testing.T, newWrapper func(config.Config, T) config.Value[T], defaultValue, overridenValue T, rawOverride, unsupported interface{}) {
	ctx := context.Background()
	mock := memory.NewConfig(nil)
	wrapper := newWrapper(mock, defaultValue)

	// Return the default value when no override is set
	val, err := wrapper.GetSafe(ctx)
	require.NoError(t, err)
	assert.Equal(t, defaultValue, val)

	// The overriden value is returned when set
	mock.SetValue(rawOverride)
	val, err = wrapper.GetSafe(ctx)
	require.NoError(t, err)
	assert.Equal(t, overridenValue, val)
	assert.Equal(t, overridenValue, wrapper.Get(ctx))

	// The last observed config value is returned on error
	mock.SetError(errors.New("unavailable"))
	val, err = wrapper.GetSafe(ctx)
	require.Error(t, err)
	assert.Equal(t, overridenValue, val)
	assert.Equal(t, overridenValue, wrapper.Get(ctx))

	// The default value is returned when the override no longer has a value
	mock.SetError(nil)
	mock.SetValue(nil)
	val, err = wrapper.GetSafe(ctx)
	require.NoError(t, err)
	assert.Equal(t, defaultValue, val)

	// Unsupported source types keep the last value
	mock.SetValue(unsupported)
	val, err = wrapper.GetSafe(ctx)
	assert.Equal(t, ErrUnsuportedConversion, err)
	assert.Equal(t, defaultValue, val)
}

func TestBoolConfig(t *testing.T) {
	testValueConfig(t, NewBoolConfig, true, false, false, "not supported")
	testValueConfig(t, NewBoolConfig, true, false, []byte("false"), 1)
}

func TestUint64Config(t *testing.T) {
	testValueConfig(t, NewUint64Config, 10, 20, uint64(20), "not supported")
	testValueConfig(t, NewUint64Config, 10, 20, []byte("20"), int64(1))
	testValueConfig(t, NewUint64Config, 10, 20, 20, 1.5)
}

func TestFloat64Config(t *testing.T) {
	testValueConfig(t, NewFloat64Config, 2.0, 1.5, 1.5, "not supported")
	testValueConfig(t, NewFloat64Config, 2.0, 1.5, []byte("1.5"), 1)
}

func TestStringConfig(t *testing.T) {
	testValueConfig(t, NewStringConfig, "default", "override", "override", 1)
	testValueConfig(t, NewStringConfig, "default", "override", []byte("override"), 1)
}

func TestDurationConfig(t *testing.T) {
	testValueConfig(t, NewDurationConfig, time.Second, time.Minute, time.Minute, "not supported")
	testValueConfig(t, NewDurationConfig, time.Second, time.Minute, []byte("1m"), 1)
}

func TestParseFailureKeepsLastValue(t *testing.T) {
	ctx := context.Background()
	mock := memory.NewConfig(uint64(5))
	wrapper := NewUint64Config(mock, 10)

	assert.EqualValues(t, 5, wrapper.Get(ctx))

	mock.SetValue([]byte("not a number"))
	val, err := wrapper.GetSafe(ctx)
	assert.Error(t, err)
	assert.EqualValues(t, 5, val)

	mock.SetValue(-1)
	_, err = wrapper.GetSafe(ctx)
	assert.Error(t, err)
}
