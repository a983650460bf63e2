// Package inventory holds the per-scan cache of fetched provider resources.
//
// A Cache maps a scope (subscription, account, cluster) to the ordered list
// of records of one resource kind. It is written once while the scan is being
// populated, frozen, and then read concurrently by any number of checks
// without locking.
package inventory

import (
	"errors"
	"fmt"
	"slices"
	"sort"
)

// ErrFrozen is returned by Put once the cache has been frozen.
var ErrFrozen = errors.New("inventory: cache is frozen")

// Source is the read side of a service-client cache: the only capability a
// check needs. Scopes returns every scope in a stable order; Get returns the
// records stored for scope in insertion order, or nil when the scope is
// unknown. An unknown scope and a scope with no records are equivalent.
type Source[T any] interface {
	Scopes() []string
	Get(scope string) []T
}

// Cache is the default Source implementation.
type Cache[T any] struct {
	order  []string
	items  map[string][]T
	frozen bool
}

// NewCache returns an empty, writable cache.
func NewCache[T any]() *Cache[T] {
	return &Cache[T]{items: make(map[string][]T)}
}

// FromMap builds a frozen cache from m. Scopes are ordered lexically so the
// result does not depend on map iteration order.
func FromMap[T any](m map[string][]T) *Cache[T] {
	c := NewCache[T]()
	scopes := make([]string, 0, len(m))
	for s := range m {
		scopes = append(scopes, s)
	}
	sort.Strings(scopes)
	for _, s := range scopes {
		// Put cannot fail on a fresh cache.
		_ = c.Put(s, m[s]...)
	}
	c.Freeze()
	return c
}

// Put appends records under scope. The scope is registered even when no
// records are given, so an explicitly empty scope is still listed by Scopes.
func (c *Cache[T]) Put(scope string, records ...T) error {
	if c.frozen {
		return fmt.Errorf("put scope %q: %w", scope, ErrFrozen)
	}
	if _, ok := c.items[scope]; !ok {
		c.order = append(c.order, scope)
		c.items[scope] = nil
	}
	c.items[scope] = append(c.items[scope], records...)
	return nil
}

// Freeze ends population. Every later Put fails with ErrFrozen.
func (c *Cache[T]) Freeze() { c.frozen = true }

// Frozen reports whether Freeze has been called.
func (c *Cache[T]) Frozen() bool { return c.frozen }

// Scopes returns the registered scopes in first-seen order.
func (c *Cache[T]) Scopes() []string {
	return slices.Clone(c.order)
}

// Get returns a copy of the records stored for scope. The copy keeps callers
// from reordering or replacing the cached entries; records themselves are
// shared and must be treated as read-only.
func (c *Cache[T]) Get(scope string) []T {
	return slices.Clone(c.items[scope])
}

// Len returns the total number of records across all scopes.
func (c *Cache[T]) Len() int {
	n := 0
	for _, recs := range c.items {
		n += len(recs)
	}
	return n
}

// Empty is a Source with no scopes. Service clients substitute it for a nil
// Source so a provider that was never populated reads as "no resources".
type Empty[T any] struct{}

func (Empty[T]) Scopes() []string { return nil }
func (Empty[T]) Get(string) []T   { return nil }

// OrEmpty returns src, or an Empty source when src is nil.
func OrEmpty[T any](src Source[T]) Source[T] {
	if src == nil {
		return Empty[T]{}
	}
	return src
}

// Index builds a lookup table over every record in src keyed by key(record).
// Records whose key is empty are skipped. When two records share a key the
// first one in scope/insertion order wins.
func Index[T any](src Source[T], key func(T) string) map[string]T {
	idx := make(map[string]T)
	src = OrEmpty(src)
	for _, scope := range src.Scopes() {
		for _, rec := range src.Get(scope) {
			k := key(rec)
			if k == "" {
				continue
			}
			if _, seen := idx[k]; !seen {
				idx[k] = rec
			}
		}
	}
	return idx
}

// Count returns the number of records visible through src.
func Count[T any](src Source[T]) int {
	src = OrEmpty(src)
	n := 0
	for _, scope := range src.Scopes() {
		n += len(src.Get(scope))
	}
	return n
}
