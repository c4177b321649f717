package schema

import (
	"reflect"

	"github.com/Konsultn-Engineering/ctrlprops/cache"
	"github.com/sirupsen/logrus"
)

// Context is a configurable introspector with its own bounded metadata cache.
// Use it instead of the package-level Introspect when the property tag differs
// or when the set of introspected types must be bounded.
type Context struct {
	// Configuration
	tagName   string
	cacheSize int
	onEvict   func(reflect.Type, *TypeMeta)
	logger    logrus.FieldLogger

	parser    *TagParser
	typeCache *cache.LRU[reflect.Type, *TypeMeta]
}

type Option func(*Context)

// WithTagName sets the struct tag consulted for property names and skips.
func WithTagName(tagName string) Option {
	return func(ctx *Context) { ctx.tagName = tagName }
}

// WithCacheSize sets the LRU cache size for type metadata
func WithCacheSize(size int) Option {
	return func(ctx *Context) { ctx.cacheSize = size }
}

// WithEvictionCallback sets a callback for cache eviction events. The callback
// runs while the cache is locked and must not call back into the Context.
func WithEvictionCallback(onEvict func(reflect.Type, *TypeMeta)) Option {
	return func(ctx *Context) { ctx.onEvict = onEvict }
}

func WithLogger(logger logrus.FieldLogger) Option {
	return func(ctx *Context) { ctx.logger = logger }
}

// New creates an introspection Context.
func New(options ...Option) (*Context, error) {
	ctx := &Context{
		tagName:   DefaultTagName,
		cacheSize: 256,
		logger:    logrus.StandardLogger(),
	}

	for _, opt := range options {
		opt(ctx)
	}

	ctx.parser = NewTagParser(ctx.tagName)

	c, err := cache.NewLRU(ctx.cacheSize, ctx.evicted)
	if err != nil {
		return nil, err
	}
	ctx.typeCache = c
	return ctx, nil
}

func (ctx *Context) evicted(t reflect.Type, meta *TypeMeta) {
	ctx.logger.WithField("type", t.String()).Debug("schema: evicted type metadata")
	if ctx.onEvict != nil {
		ctx.onEvict(t, meta)
	}
}

// Introspect retrieves or builds property metadata for t.
func (ctx *Context) Introspect(t reflect.Type) (*TypeMeta, error) {
	t, err := checkType(t)
	if err != nil {
		return nil, err
	}
	return ctx.typeCache.GetOrCreate(t, func() (*TypeMeta, error) {
		meta, err := buildMeta(t, ctx.parser)
		if err != nil {
			return nil, err
		}
		ctx.logger.WithFields(logrus.Fields{
			"type":       t.String(),
			"properties": len(meta.Properties),
		}).Debug("schema: introspected type")
		return meta, nil
	})
}

// Len returns the number of cached types.
func (ctx *Context) Len() int {
	return ctx.typeCache.Len()
}

// Purge empties the metadata cache.
func (ctx *Context) Purge() {
	ctx.typeCache.Purge()
}
