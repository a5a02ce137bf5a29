package types

// Cached holds a value that is either absent or computed. Once set it is
// never invalidated.
type Cached[T any] struct {
	value T
	valid bool
}

func NewCached[T any](value T) Cached[T] {
	return Cached[T]{value: value, valid: true}
}

// Get returns the cached value and whether it has been computed
func (c *Cached[T]) Get() (value T, ok bool) {
	return c.value, c.valid
}

func (c *Cached[T]) IsSet() bool { return c.valid }

// Set stores value unless one is already present and reports whether it
// stored it.
func (c *Cached[T]) Set(value T) bool {
	if c.valid {
		return false
	}
	c.value, c.valid = value, true
	return true
}

// GetOrCompute returns the cached value, calling compute to fill it in on the
// first call. A compute error leaves the value absent.
func (c *Cached[T]) GetOrCompute(compute func() (T, error)) (T, error) {
	if c.valid {
		return c.value, nil
	}
	value, err := compute()
	if err != nil {
		var zero T
		return zero, err
	}
	c.value, c.valid = value, true
	return value, nil
}
