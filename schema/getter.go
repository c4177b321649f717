package schema

import (
	"fmt"
	"reflect"
	"unsafe"

	"github.com/pkg/errors"
)

// MakeFastGetter compiles a reader for property p of owner that returns the
// field value as T. The field type must be assignable to T.
//
// The returned function accepts owner or a pointer to it at any depth. A nil
// pointer on the way to owner, a nil embedded pointer along the path, or a nil
// pointer/map/interface/func field all yield the zero T rather than a typed
// nil. Any other instance type is a programming error and panics.
//
// Example:
//
//	meta, _ := schema.Introspect(reflect.TypeOf(HomeController{}))
//	p, _ := meta.Property("TempData")
//	get, err := schema.MakeFastGetter[tempdata.Dictionary](meta.Type, p)
//	td := get(&home)
func MakeFastGetter[T any](owner reflect.Type, p *PropertyMeta) (func(instance any) T, error) {
	owner, err := checkType(owner)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, errors.New("nil property")
	}

	target := reflect.TypeFor[T]()
	if !p.Type.AssignableTo(target) {
		return nil, errors.Errorf("property %s.%s of type %s is not assignable to %s", owner.Name(), p.Name, p.Type, target)
	}

	read := readerFor[T](p.Type, target)
	hops := p.hops
	ptrType := reflect.PointerTo(owner)

	return func(instance any) T {
		var zero T
		if instance == nil {
			return zero
		}

		v := reflect.ValueOf(instance)
		// Unwrap **owner and deeper down to *owner
		for v.Kind() == reflect.Ptr && v.Type() != ptrType && indirectType(v.Type()) == owner {
			if v.IsNil() {
				return zero
			}
			v = v.Elem()
		}

		switch v.Type() {
		case ptrType:
			base := v.UnsafePointer()
			if base == nil {
				return zero
			}
			if addr := fieldAddr(base, hops); addr != nil {
				return read(addr)
			}
			return zero
		case owner:
			// Values are not addressable; read from a pooled copy
			scratch := getScratch(owner)
			defer putScratch(owner, scratch)
			scratch.Elem().Set(v)
			if addr := fieldAddr(scratch.UnsafePointer(), hops); addr != nil {
				return read(addr)
			}
			return zero
		}

		panic(fmt.Sprintf("schema: getter for %s.%s called with %T", owner, p.Name, instance))
	}, nil
}

// fieldAddr resolves the address of a field from the owner's base pointer,
// following embedded pointers. It returns nil when a link is nil.
func fieldAddr(base unsafe.Pointer, hops []uintptr) unsafe.Pointer {
	addr := unsafe.Add(base, hops[0])
	for _, off := range hops[1:] {
		next := *(*unsafe.Pointer)(addr)
		if next == nil {
			return nil
		}
		addr = unsafe.Add(next, off)
	}
	return addr
}

func readerFor[T any](fieldType, target reflect.Type) func(unsafe.Pointer) T {
	// Identical types: plain load, no reflection
	if fieldType == target {
		return func(addr unsafe.Pointer) T {
			return *(*T)(addr)
		}
	}

	nillable := canBeNil(fieldType)
	return func(addr unsafe.Pointer) T {
		fv := reflect.NewAt(fieldType, addr).Elem()
		if nillable && fv.IsNil() {
			var zero T
			return zero
		}
		return fv.Interface().(T)
	}
}

func canBeNil(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Interface, reflect.Func, reflect.Chan, reflect.Slice, reflect.UnsafePointer:
		return true
	}
	return false
}
