package controllers

import (
	"reflect"
	"sync/atomic"

	"github.com/Konsultn-Engineering/ctrlprops/cache"
	"github.com/Konsultn-Engineering/ctrlprops/schema"
	"github.com/sirupsen/logrus"
)

// Getter reads the capability property from a controller instance. It
// accepts a pointer to the controller or the controller value.
type Getter[C any] func(instance any) C

// resolution is the settled state of a CapabilityHelper: either a getter or
// the error that prevented building one.
type resolution[C any] struct {
	getter   Getter[C]
	property *schema.PropertyMeta
	err      error
}

// CapabilityHelper holds the capability getter for one controller type. The
// getter is resolved on first use, not when the helper is created.
type CapabilityHelper[C any] struct {
	*PropertyHelper

	capability string
	logger     logrus.FieldLogger
	state      atomic.Pointer[resolution[C]]
}

// Getter returns the getter for the first property assignable to C. A type
// without such a property fails with a *ResolutionError, the same one on
// every call.
//
// Resolution takes no lock. Concurrent first callers may each scan, but only
// the first result is installed and all of them return it.
func (h *CapabilityHelper[C]) Getter() (Getter[C], error) {
	r := h.state.Load()
	if r == nil {
		r = h.resolve()
		if !h.state.CompareAndSwap(nil, r) {
			r = h.state.Load()
		}
	}
	return r.getter, r.err
}

// CapabilityProperty returns the property the getter reads.
func (h *CapabilityHelper[C]) CapabilityProperty() (*schema.PropertyMeta, error) {
	if _, err := h.Getter(); err != nil {
		return nil, err
	}
	return h.state.Load().property, nil
}

// Resolved reports whether resolution has been attempted, successfully or not.
func (h *CapabilityHelper[C]) Resolved() bool {
	return h.state.Load() != nil
}

func (h *CapabilityHelper[C]) resolve() *resolution[C] {
	log := h.logger.WithFields(logrus.Fields{
		"controller": typeName(h.Type()),
		"capability": h.capability,
	})

	meta, p, err := h.FindProperty(reflect.TypeFor[C]())
	if err != nil {
		log.WithError(err).Warn("controllers: cannot introspect controller type")
		return &resolution[C]{err: h.newResolutionError(h.capability, err)}
	}
	if p == nil {
		log.Warn("controllers: no capability property found")
		return &resolution[C]{err: h.newResolutionError(h.capability, nil)}
	}

	get, err := schema.MakeFastGetter[C](meta.Type, p)
	if err != nil {
		log.WithError(err).Warn("controllers: cannot build capability getter")
		return &resolution[C]{err: h.newResolutionError(h.capability, err)}
	}

	log.WithField("property", p.Name).Debug("controllers: resolved capability property")
	return &resolution[C]{getter: Getter[C](get), property: p}
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}

type config struct {
	capability   string
	introspector schema.Introspector
	logger       logrus.FieldLogger
}

type Option func(*config)

// WithCapabilityName sets the name reported in resolution errors. It defaults
// to the Go name of the capability type.
func WithCapabilityName(name string) Option {
	return func(c *config) { c.capability = name }
}

// WithIntrospector replaces the property enumerator, schema.Default by default.
func WithIntrospector(introspector schema.Introspector) Option {
	return func(c *config) { c.introspector = introspector }
}

func WithLogger(logger logrus.FieldLogger) Option {
	return func(c *config) { c.logger = logger }
}

// Cache maps controller types to their CapabilityHelper for capability C.
// Entries are created on first request and kept for the cache's lifetime.
type Cache[C any] struct {
	cfg     config
	helpers *cache.TypeCache[*CapabilityHelper[C]]
}

func NewCache[C any](options ...Option) *Cache[C] {
	cfg := config{
		capability:   reflect.TypeFor[C]().Name(),
		introspector: schema.Default,
		logger:       logrus.StandardLogger(),
	}
	for _, opt := range options {
		opt(&cfg)
	}
	return &Cache[C]{
		cfg:     cfg,
		helpers: cache.NewTypeCache[*CapabilityHelper[C]](),
	}
}

// Get returns the helper for controllerType, creating it if absent. Pointer
// types at any depth share the entry of the type they point to.
func (c *Cache[C]) Get(controllerType reflect.Type) *CapabilityHelper[C] {
	for controllerType != nil && controllerType.Kind() == reflect.Ptr {
		controllerType = controllerType.Elem()
	}
	return c.helpers.GetOrAdd(controllerType, c.newHelper)
}

// GetAccessor returns the capability getter for controllerType.
func (c *Cache[C]) GetAccessor(controllerType reflect.Type) (Getter[C], error) {
	return c.Get(controllerType).Getter()
}

// Len returns the number of controller types seen.
func (c *Cache[C]) Len() int {
	return c.helpers.Len()
}

// Capability returns the name reported in resolution errors.
func (c *Cache[C]) Capability() string {
	return c.cfg.capability
}

func (c *Cache[C]) newHelper(controllerType reflect.Type) *CapabilityHelper[C] {
	return &CapabilityHelper[C]{
		PropertyHelper: NewPropertyHelper(controllerType, c.cfg.introspector),
		capability:     c.cfg.capability,
		logger:         c.cfg.logger,
	}
}

// GetFor is Cache.Get for the static controller type T.
func GetFor[T any, C any](c *Cache[C]) *CapabilityHelper[C] {
	return c.Get(reflect.TypeFor[T]())
}

// AccessorFor is Cache.GetAccessor for the static controller type T.
func AccessorFor[T any, C any](c *Cache[C]) (Getter[C], error) {
	return c.GetAccessor(reflect.TypeFor[T]())
}
