package cache

import (
	"errors"
	"reflect"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type alpha struct{ A int }
type beta struct{ B string }

func TestTypeCacheGetOrAdd(t *testing.T) {
	c := NewTypeCache[*int]()
	aType := reflect.TypeOf(alpha{})

	var builds int
	build := func(reflect.Type) *int {
		builds++
		v := builds
		return &v
	}

	first := c.GetOrAdd(aType, build)
	second := c.GetOrAdd(aType, build)

	assert.True(t, first == second, "Expected the stored value to be returned")
	assert.Equal(t, 1, builds)
	assert.Equal(t, 1, c.Len())

	loaded, ok := c.Load(aType)
	require.True(t, ok)
	assert.True(t, loaded == first)

	_, ok = c.Load(reflect.TypeOf(beta{}))
	assert.False(t, ok)
}

func TestTypeCacheIsolatesKeys(t *testing.T) {
	c := NewTypeCache[string]()
	a := c.GetOrAdd(reflect.TypeOf(alpha{}), func(t reflect.Type) string { return t.Name() })
	b := c.GetOrAdd(reflect.TypeOf(beta{}), func(t reflect.Type) string { return t.Name() })

	assert.Equal(t, "alpha", a)
	assert.Equal(t, "beta", b)
	assert.Equal(t, 2, c.Len())

	seen := map[string]bool{}
	c.Range(func(_ reflect.Type, v string) bool {
		seen[v] = true
		return true
	})
	assert.Equal(t, map[string]bool{"alpha": true, "beta": true}, seen)
}

func TestTypeCacheConcurrentGetOrAdd(t *testing.T) {
	const numGoroutines = 50

	c := NewTypeCache[*alpha]()
	aType := reflect.TypeOf(alpha{})

	var wg sync.WaitGroup
	results := make([]*alpha, numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = c.GetOrAdd(aType, func(reflect.Type) *alpha { return &alpha{A: i} })
		}(i)
	}
	wg.Wait()

	for i := 1; i < numGoroutines; i++ {
		assert.True(t, results[0] == results[i], "All callers must observe the single stored value")
	}
	assert.Equal(t, 1, c.Len())
}

func TestLRUGetOrCreate(t *testing.T) {
	l, err := NewLRU[string, int](2, nil)
	require.NoError(t, err)

	var calls int32
	build := func() (int, error) {
		return int(atomic.AddInt32(&calls, 1)), nil
	}

	v, err := l.GetOrCreate("a", build)
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	v, err = l.GetOrCreate("a", build)
	require.NoError(t, err)
	assert.Equal(t, 1, v)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestLRUGetOrCreateErrorNotCached(t *testing.T) {
	l, err := NewLRU[string, int](4, nil)
	require.NoError(t, err)

	boom := errors.New("boom")
	_, err = l.GetOrCreate("a", func() (int, error) { return 0, boom })
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, l.Len())

	v, err := l.GetOrCreate("a", func() (int, error) { return 7, nil })
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}

func TestLRUEviction(t *testing.T) {
	var evicted []string
	l, err := NewLRU(2, func(k string, _ int) { evicted = append(evicted, k) })
	require.NoError(t, err)

	l.Add("a", 1)
	l.Add("b", 2)
	l.Add("c", 3)

	assert.Equal(t, []string{"a"}, evicted)
	assert.Equal(t, 2, l.Len())

	_, ok := l.Get("a")
	assert.False(t, ok)

	l.Purge()
	assert.Equal(t, 0, l.Len())
	assert.ElementsMatch(t, []string{"a", "b", "c"}, evicted)
}

func TestLRUInvalidSize(t *testing.T) {
	_, err := NewLRU[string, int](0, nil)
	assert.Error(t, err)
}
