package schema

import (
	"reflect"

	"github.com/Konsultn-Engineering/ctrlprops/cache"
)

var (
	typeCache     = cache.NewTypeCache[*TypeMeta]()
	defaultParser = NewTagParser(DefaultTagName)
)

// Introspect retrieves or builds property metadata for a struct type using
// the process-wide cache. Pointer types are normalized to their element type.
// Failures are not cached.
func Introspect(t reflect.Type) (*TypeMeta, error) {
	t, err := checkType(t)
	if err != nil {
		return nil, err
	}

	if meta, ok := typeCache.Load(t); ok {
		return meta, nil
	}

	meta, err := buildMeta(t, defaultParser)
	if err != nil {
		return nil, err
	}
	return typeCache.GetOrAdd(t, func(reflect.Type) *TypeMeta { return meta }), nil
}

// IntrospectOf is Introspect for the static type T.
func IntrospectOf[T any]() (*TypeMeta, error) {
	return Introspect(reflect.TypeFor[T]())
}
