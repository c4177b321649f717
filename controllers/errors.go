package controllers

import (
	"fmt"
	"reflect"

	"github.com/pkg/errors"
)

// ErrCapabilityPropertyNotFound matches every *ResolutionError.
var ErrCapabilityPropertyNotFound = errors.New("capability property not found")

// ResolutionError reports that a controller type exposes no property of the
// requested capability. It is a usage error and is never retried.
type ResolutionError struct {
	Type       reflect.Type
	Capability string
	Cause      error // set when the type could not be introspected at all
}

func (e *ResolutionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("type %s does not expose a property of type %s: %v", typeName(e.Type), e.Capability, e.Cause)
	}
	return fmt.Sprintf("type %s does not expose a property of type %s", typeName(e.Type), e.Capability)
}

func (e *ResolutionError) Is(target error) bool {
	return target == ErrCapabilityPropertyNotFound
}

func (e *ResolutionError) Unwrap() error {
	return e.Cause
}
