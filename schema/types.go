package schema

import (
	"reflect"
)

// TypeMeta describes the readable properties of a struct type.
type TypeMeta struct {
	Type        reflect.Type
	Name        string
	Properties  []*PropertyMeta          // Enumeration order: declaration order, promoted fields after their embedder
	PropertyMap map[string]*PropertyMeta // Property name -> PropertyMeta
}

// Property returns the property registered under name.
func (m *TypeMeta) Property(name string) (*PropertyMeta, bool) {
	p, ok := m.PropertyMap[name]
	return p, ok
}

// PropertyMeta describes one exported field reachable from the owning type,
// either declared directly or promoted through embedded structs.
type PropertyMeta struct {
	Name  string // Property name (field name unless renamed by tag)
	Field string // Go field name
	Type  reflect.Type
	Index []int
	Tag   *ParsedTag

	// Offset from the owner's base address. Only meaningful when Direct is set.
	Offset uintptr
	// Direct is false when reaching the field goes through an embedded pointer.
	Direct bool

	// hops holds the offsets between pointer dereferences along Index.
	hops []uintptr
}

// Introspector enumerates the readable properties of a type.
type Introspector interface {
	Introspect(t reflect.Type) (*TypeMeta, error)
}

// IntrospectorFunc adapts an ordinary function to Introspector.
type IntrospectorFunc func(t reflect.Type) (*TypeMeta, error)

func (f IntrospectorFunc) Introspect(t reflect.Type) (*TypeMeta, error) {
	return f(t)
}

// Default is the process-wide introspector backed by the package cache.
var Default Introspector = IntrospectorFunc(Introspect)
