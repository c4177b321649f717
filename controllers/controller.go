package controllers

import (
	"reflect"

	"github.com/Konsultn-Engineering/ctrlprops/tempdata"
	"github.com/pkg/errors"
)

// Controller is the base embedded by application controllers. Its fields are
// promoted and therefore discovered as properties of the embedding type.
type Controller struct {
	TempData tempdata.Dictionary
	ViewData map[string]any
}

// TempDataCapability is the capability name reported for TempData lookups.
const TempDataCapability = "TempDataDictionary"

type (
	TempDataPropertyHelper = CapabilityHelper[tempdata.Dictionary]
	TempDataCache          = Cache[tempdata.Dictionary]
)

// NewTempDataCache creates an isolated TempData accessor cache.
func NewTempDataCache(options ...Option) *TempDataCache {
	opts := append([]Option{WithCapabilityName(TempDataCapability)}, options...)
	return NewCache[tempdata.Dictionary](opts...)
}

// DefaultTempDataCache is shared by the package-level TempData helpers.
var DefaultTempDataCache = NewTempDataCache()

// GetTempDataProperties returns the TempData helper for TController.
func GetTempDataProperties[TController any]() *TempDataPropertyHelper {
	return GetFor[TController](DefaultTempDataCache)
}

// GetTempDataPropertiesFor returns the TempData helper for controllerType.
func GetTempDataPropertiesFor(controllerType reflect.Type) *TempDataPropertyHelper {
	return DefaultTempDataCache.Get(controllerType)
}

// TempDataOf reads the TempData dictionary of a controller instance.
func TempDataOf(controller any) (tempdata.Dictionary, error) {
	if controller == nil {
		return nil, errors.New("nil controller")
	}
	get, err := DefaultTempDataCache.GetAccessor(reflect.TypeOf(controller))
	if err != nil {
		return nil, err
	}
	return get(controller), nil
}
