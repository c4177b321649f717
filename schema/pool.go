package schema

import (
	"reflect"
	"sync"
)

var valuePools sync.Map // map[reflect.Type]*sync.Pool

// getScratch returns a pointer to a zeroed value of t from a per-type pool.
func getScratch(t reflect.Type) reflect.Value {
	poolIface, ok := valuePools.Load(t)
	if !ok {
		poolIface, _ = valuePools.LoadOrStore(t, &sync.Pool{
			New: func() any {
				return reflect.New(t)
			},
		})
	}
	return poolIface.(*sync.Pool).Get().(reflect.Value)
}

// putScratch zeroes v so the pool does not retain references, then returns it.
func putScratch(t reflect.Type, v reflect.Value) {
	v.Elem().SetZero()
	if poolIface, ok := valuePools.Load(t); ok {
		poolIface.(*sync.Pool).Put(v)
	}
}
