package schema

import (
	"reflect"

	"github.com/pkg/errors"
)

// ErrInvalidType is returned when introspecting anything but a struct or a
// pointer (at any depth) to one.
var ErrInvalidType = errors.New("invalid model type")

// indirectType strips every pointer level.
func indirectType(t reflect.Type) reflect.Type {
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t
}

func checkType(t reflect.Type) (reflect.Type, error) {
	if t == nil {
		return nil, errors.Wrap(ErrInvalidType, "nil type")
	}
	t = indirectType(t)
	if t.Kind() != reflect.Struct {
		return nil, errors.Wrapf(ErrInvalidType, "%s (expected struct)", t.Kind())
	}
	return t, nil
}

// buildMeta enumerates the readable properties of a struct type and
// precomputes the memory path to each of them.
//
// This function performs the expensive reflection once; callers cache the
// result per type.
func buildMeta(t reflect.Type, parser *TagParser) (*TypeMeta, error) {
	t, err := checkType(t)
	if err != nil {
		return nil, err
	}

	fields := reflect.VisibleFields(t)

	meta := &TypeMeta{
		Type:        t,
		Name:        t.Name(),
		Properties:  make([]*PropertyMeta, 0, len(fields)),
		PropertyMap: make(map[string]*PropertyMeta, len(fields)),
	}

	for _, f := range fields {
		// An exported embedded field is itself readable (x.Dictionary) and is
		// listed ahead of the fields it promotes.
		if !f.IsExported() {
			continue
		}

		parsedTag, err := parser.ParseTag(f.Name, f.Tag)
		if err != nil {
			return nil, errors.Wrapf(err, "error parsing tag for field %s", f.Name)
		}
		if parsedTag.IsSkipped() {
			continue
		}
		if _, dup := meta.PropertyMap[parsedTag.Name]; dup {
			return nil, errors.Errorf("duplicate property name %q on %s", parsedTag.Name, t)
		}

		hops := fieldHops(t, f.Index)
		pm := &PropertyMeta{
			Name:   parsedTag.Name,
			Field:  f.Name,
			Type:   f.Type,
			Index:  f.Index,
			Tag:    parsedTag,
			Direct: len(hops) == 1,
			hops:   hops,
		}
		if pm.Direct {
			pm.Offset = hops[0]
		}

		meta.Properties = append(meta.Properties, pm)
		meta.PropertyMap[pm.Name] = pm
	}

	return meta, nil
}

// fieldHops walks index from t and splits the accumulated field offsets at
// every embedded pointer, which must be dereferenced at read time.
func fieldHops(t reflect.Type, index []int) []uintptr {
	hops := make([]uintptr, 1, 2)
	cur := t
	for i, idx := range index {
		sf := cur.Field(idx)
		hops[len(hops)-1] += sf.Offset
		if i == len(index)-1 {
			break
		}
		cur = sf.Type
		if cur.Kind() == reflect.Ptr {
			cur = cur.Elem()
			hops = append(hops, 0)
		}
	}
	return hops
}
