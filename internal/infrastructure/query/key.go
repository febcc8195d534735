// Package query implements the keyed, time-windowed cache that fronts all
// upstream data fetches. Entries move through an idle/loading/success/error
// lifecycle, serve stale values while revalidating in the background, and
// coalesce concurrent fetches of an equal key into one upstream call.
package query

import (
	"fmt"
	"net/url"
	"strings"
)

// Key identifies a cached resource and its parameters. A key is an ordered
// tuple compared structurally: two invocations with equal parts share one
// cache entry and one in-flight fetch. Keys are hierarchical; a shorter key
// prefixes all keys that extend it, which is what bulk invalidation
// operates on.
type Key []string

// NewKey builds a key from ordered parts.
func NewKey(parts ...string) Key {
	return Key(parts)
}

// Equal reports structural equality.
func (k Key) Equal(other Key) bool {
	if len(k) != len(other) {
		return false
	}
	for i := range k {
		if k[i] != other[i] {
			return false
		}
	}
	return true
}

// HasPrefix reports whether prefix is an initial segment of k. Every key is
// a prefix of itself.
func (k Key) HasPrefix(prefix Key) bool {
	if len(prefix) > len(k) {
		return false
	}
	for i := range prefix {
		if k[i] != prefix[i] {
			return false
		}
	}
	return true
}

// Canonical returns the stable string form used for map indexing, in-flight
// de-duplication, and snapshot persistence. Parts are escaped so a part
// containing the separator cannot collide with a structurally different key.
func (k Key) Canonical() string {
	escaped := make([]string, len(k))
	for i, part := range k {
		escaped[i] = url.PathEscape(part)
	}
	return strings.Join(escaped, "/")
}

// ParseKey reverses Canonical.
func ParseKey(canonical string) (Key, error) {
	if canonical == "" {
		return nil, fmt.Errorf("empty cache key")
	}

	parts := strings.Split(canonical, "/")
	key := make(Key, len(parts))
	for i, part := range parts {
		unescaped, err := url.PathUnescape(part)
		if err != nil {
			return nil, fmt.Errorf("bad cache key segment %q: %w", part, err)
		}
		key[i] = unescaped
	}
	return key, nil
}

func (k Key) String() string {
	return k.Canonical()
}
