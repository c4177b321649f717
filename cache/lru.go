package cache

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// LRU is a bounded cache with an optional eviction callback.
type LRU[K comparable, V any] struct {
	cache *lru.Cache[K, V]
	mu    sync.RWMutex
}

// NewLRU creates a cache holding at most size entries. onEvict may be nil.
func NewLRU[K comparable, V any](size int, onEvict func(K, V)) (*LRU[K, V], error) {
	var (
		c   *lru.Cache[K, V]
		err error
	)
	if onEvict != nil {
		c, err = lru.NewWithEvict(size, onEvict)
	} else {
		c, err = lru.New[K, V](size)
	}
	if err != nil {
		return nil, err
	}
	return &LRU[K, V]{cache: c}, nil
}

func (l *LRU[K, V]) Get(key K) (V, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.cache.Get(key)
}

func (l *LRU[K, V]) Add(key K, val V) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cache.Add(key, val)
}

// GetOrCreate returns the cached value for key or builds and stores it.
// Build errors are returned to the caller and nothing is stored.
func (l *LRU[K, V]) GetOrCreate(key K, build func() (V, error)) (V, error) {
	// Fast path: read lock only
	l.mu.RLock()
	if v, ok := l.cache.Get(key); ok {
		l.mu.RUnlock()
		return v, nil
	}
	l.mu.RUnlock()

	l.mu.Lock()
	defer l.mu.Unlock()

	// Double-check after acquiring write lock
	if v, ok := l.cache.Get(key); ok {
		return v, nil
	}

	v, err := build()
	if err != nil {
		var zero V
		return zero, err
	}
	l.cache.Add(key, v)
	return v, nil
}

func (l *LRU[K, V]) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.cache.Len()
}

// Purge drops every entry, firing the eviction callback for each.
func (l *LRU[K, V]) Purge() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cache.Purge()
}
