package controllers

import (
	"reflect"

	"github.com/Konsultn-Engineering/ctrlprops/schema"
)

// PropertyHelper exposes the readable properties of one controller type.
// Enumeration is delegated to an Introspector, which does its own caching.
type PropertyHelper struct {
	controllerType reflect.Type
	introspector   schema.Introspector
}

func NewPropertyHelper(controllerType reflect.Type, introspector schema.Introspector) *PropertyHelper {
	if introspector == nil {
		introspector = schema.Default
	}
	return &PropertyHelper{
		controllerType: controllerType,
		introspector:   introspector,
	}
}

func (h *PropertyHelper) Type() reflect.Type {
	return h.controllerType
}

// Properties returns the controller's readable properties in enumeration order.
func (h *PropertyHelper) Properties() ([]*schema.PropertyMeta, error) {
	meta, err := h.introspector.Introspect(h.controllerType)
	if err != nil {
		return nil, err
	}
	return meta.Properties, nil
}

// Property looks up a property by name.
func (h *PropertyHelper) Property(name string) (*schema.PropertyMeta, bool, error) {
	meta, err := h.introspector.Introspect(h.controllerType)
	if err != nil {
		return nil, false, err
	}
	p, ok := meta.Property(name)
	return p, ok, nil
}

// FindProperty returns the first property whose declared type is assignable
// to target, or nil.
func (h *PropertyHelper) FindProperty(target reflect.Type) (*schema.TypeMeta, *schema.PropertyMeta, error) {
	meta, err := h.introspector.Introspect(h.controllerType)
	if err != nil {
		return nil, nil, err
	}
	for _, p := range meta.Properties {
		if p.Type.AssignableTo(target) {
			return meta, p, nil
		}
	}
	return meta, nil, nil
}

func (h *PropertyHelper) newResolutionError(capability string, cause error) error {
	return &ResolutionError{
		Type:       h.controllerType,
		Capability: capability,
		Cause:      cause,
	}
}
