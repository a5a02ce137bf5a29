package types

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCached(t *testing.T) {
	{
		var c Cached[float64]
		v, ok := c.Get()
		assert.False(t, ok)
		assert.Equal(t, 0., v)
		assert.True(t, c.Set(1.5))
		assert.False(t, c.Set(2.5))
		v, ok = c.Get()
		assert.True(t, ok)
		assert.Equal(t, 1.5, v)
	}
	{ // Compute only runs once
		var (
			c     Cached[[]int]
			calls int
		)
		compute := func() ([]int, error) {
			calls++
			return []int{1, 2}, nil
		}
		v, err := c.GetOrCompute(compute)
		assert.NoError(t, err)
		assert.Equal(t, []int{1, 2}, v)
		_, _ = c.GetOrCompute(compute)
		assert.Equal(t, 1, calls)
	}
	{ // Failed computes leave it absent
		var c Cached[int]
		_, err := c.GetOrCompute(func() (int, error) { return 0, errors.New("boom") })
		assert.Error(t, err)
		assert.False(t, c.IsSet())
		c2 := NewCached(3)
		v, ok := c2.Get()
		assert.True(t, ok)
		assert.Equal(t, 3, v)
	}
}
