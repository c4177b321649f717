package cache

import (
	"reflect"
	"sync"
)

// TypeCache is an append-only map keyed by reflect.Type. Entries are never
// replaced or evicted once stored.
type TypeCache[V any] struct {
	data sync.Map // map[reflect.Type]V
}

func NewTypeCache[V any]() *TypeCache[V] {
	return &TypeCache[V]{}
}

func (c *TypeCache[V]) Load(t reflect.Type) (V, bool) {
	if v, ok := c.data.Load(t); ok {
		return v.(V), true
	}
	var zero V
	return zero, false
}

// GetOrAdd returns the value stored for t, building and inserting one if
// absent. Concurrent callers for the same unseen key may each run build, but
// only one result is kept and every caller receives that one.
func (c *TypeCache[V]) GetOrAdd(t reflect.Type, build func(reflect.Type) V) V {
	if v, ok := c.data.Load(t); ok {
		return v.(V)
	}
	actual, _ := c.data.LoadOrStore(t, build(t))
	return actual.(V)
}

// Len counts stored entries. It walks the map, so keep it off hot paths.
func (c *TypeCache[V]) Len() int {
	n := 0
	c.data.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

func (c *TypeCache[V]) Range(fn func(t reflect.Type, v V) bool) {
	c.data.Range(func(k, v any) bool {
		t, _ := k.(reflect.Type) // nil keys are allowed
		return fn(t, v.(V))
	})
}
