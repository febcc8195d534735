package query

import (
	"context"
	"fmt"
)

// FetchAs is the typed front door to Cache.Fetch. Entries are stored
// untyped, so a key fetched as one type and read back as another reports a
// plain error instead of panicking.
func FetchAs[T any](ctx context.Context, c *Cache, key Key, policy Policy, fn func(context.Context) (T, error)) (T, error) {
	var zero T

	value, err := c.Fetch(ctx, key, policy, func(ctx context.Context) (any, error) {
		return fn(ctx)
	})
	if err != nil {
		return zero, err
	}

	typed, ok := value.(T)
	if !ok {
		return zero, fmt.Errorf("cache entry for %s holds %T, want %T", key, value, zero)
	}
	return typed, nil
}
