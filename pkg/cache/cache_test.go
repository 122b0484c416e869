package cache

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_Insert(t *testing.T) {
	c := NewCache[string](3)
	assert.Equal(t, 3, c.GetBudget())

	require.NoError(t, c.Insert("A", "valueA", 1))
	require.NoError(t, c.Insert("B", "valueB", 1))
	require.NoError(t, c.Insert("C", "valueC", 1))
	assert.Equal(t, 3, c.GetWeight())

	assert.Equal(t, ErrKeyExists, c.Insert("A", "other", 1))

	value, ok := c.Retrieve("A")
	require.True(t, ok)
	assert.Equal(t, "valueA", value)
}

func TestCache_Eviction(t *testing.T) {
	c := NewCache[int](2)
	c.SetVerbose(true)

	require.NoError(t, c.Insert("A", 1, 1))
	require.NoError(t, c.Insert("B", 2, 1))

	// A becomes the most recently used, leaving B to be evicted
	_, ok := c.Retrieve("A")
	require.True(t, ok)

	require.NoError(t, c.Insert("C", 3, 1))
	assert.Equal(t, 2, c.GetWeight())

	_, ok = c.Retrieve("B")
	assert.False(t, ok)

	for key, expected := range map[string]int{"A": 1, "C": 3} {
		actual, ok := c.Retrieve(key)
		require.True(t, ok)
		assert.Equal(t, expected, actual)
	}

	// An item heavier than the budget evicts everything, including itself
	require.NoError(t, c.Insert("D", 4, 3))
	assert.Equal(t, 0, c.GetWeight())
	_, ok = c.Retrieve("D")
	assert.False(t, ok)
}

func TestCache_Clear(t *testing.T) {
	c := NewCache[string](10)

	require.NoError(t, c.Insert("A", "valueA", 5))
	c.Clear()

	assert.Equal(t, 0, c.GetWeight())
	_, ok := c.Retrieve("A")
	assert.False(t, ok)

	require.NoError(t, c.Insert("A", "valueA", 5))
}

func TestCache_Concurrent(t *testing.T) {
	c := NewCache[int](100)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()

			for j := 0; j < 100; j++ {
				key := fmt.Sprintf("%d-%d", worker, j)
				assert.NoError(t, c.Insert(key, j, 1))
				c.Retrieve(key)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 100, c.GetWeight())
}
