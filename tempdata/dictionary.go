// Package tempdata implements the side-channel TempData dictionary that
// controllers expose to carry values across exactly one subsequent request.
package tempdata

import (
	"context"
	"sort"
	"sync"

	"github.com/pkg/errors"
)

// Dictionary is the TempData capability. Values read with Get are dropped on
// the next Save unless kept; Peek reads without marking.
type Dictionary interface {
	Get(key string) (any, bool)
	Peek(key string) (any, bool)
	Set(key string, value any)
	Delete(key string) bool
	ContainsKey(key string) bool
	Keys() []string
	Len() int
	Clear()

	// Keep retains the given keys past the next Save, or every key when
	// called without arguments.
	Keep(keys ...string)

	Load(ctx context.Context) error
	Save(ctx context.Context) error
}

var _ Dictionary = (*TempData)(nil)

// TempData is the default Dictionary, persisted through a Provider under one
// session ID. It is safe for concurrent use.
type TempData struct {
	provider  Provider
	sessionID string

	mu       sync.Mutex
	data     map[string]any
	initial  map[string]struct{} // loaded or set, not yet read
	retained map[string]struct{} // explicitly kept
}

// New creates a dictionary bound to provider and sessionID. A nil provider
// yields a detached dictionary whose Load and Save do nothing.
func New(provider Provider, sessionID string) *TempData {
	return &TempData{
		provider:  provider,
		sessionID: sessionID,
		data:      make(map[string]any),
		initial:   make(map[string]struct{}),
		retained:  make(map[string]struct{}),
	}
}

func (d *TempData) SessionID() string {
	return d.sessionID
}

func (d *TempData) Get(key string) (any, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	v, ok := d.data[key]
	if ok {
		delete(d.initial, key)
	}
	return v, ok
}

func (d *TempData) Peek(key string) (any, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	v, ok := d.data[key]
	return v, ok
}

func (d *TempData) Set(key string, value any) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.data[key] = value
	d.initial[key] = struct{}{}
}

func (d *TempData) Delete(key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.data[key]
	delete(d.data, key)
	delete(d.initial, key)
	delete(d.retained, key)
	return ok
}

func (d *TempData) ContainsKey(key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.data[key]
	return ok
}

// Keys returns the stored keys in sorted order.
func (d *TempData) Keys() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	keys := make([]string, 0, len(d.data))
	for k := range d.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (d *TempData) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.data)
}

func (d *TempData) Clear() {
	d.mu.Lock()
	defer d.mu.Unlock()
	clear(d.data)
	clear(d.initial)
	clear(d.retained)
}

func (d *TempData) Keep(keys ...string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(keys) == 0 {
		for k := range d.data {
			d.retained[k] = struct{}{}
		}
		return
	}
	for _, k := range keys {
		if _, ok := d.data[k]; ok {
			d.retained[k] = struct{}{}
		}
	}
}

// Load replaces the current contents with what the provider holds for the
// session. Every loaded key starts out unread.
func (d *TempData) Load(ctx context.Context) error {
	if d.provider == nil {
		return nil
	}
	values, err := d.provider.LoadTempData(ctx, d.sessionID)
	if err != nil {
		return errors.Wrapf(err, "failed to load tempdata for session %s", d.sessionID)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	clear(d.data)
	clear(d.initial)
	clear(d.retained)
	for k, v := range values {
		d.data[k] = v
		d.initial[k] = struct{}{}
	}
	return nil
}

// Save drops every key that was read and not kept, then hands the rest to
// the provider.
func (d *TempData) Save(ctx context.Context) error {
	d.mu.Lock()
	for k := range d.data {
		_, unread := d.initial[k]
		_, kept := d.retained[k]
		if !unread && !kept {
			delete(d.data, k)
		}
	}
	if d.provider == nil {
		d.mu.Unlock()
		return nil
	}
	snapshot := make(map[string]any, len(d.data))
	for k, v := range d.data {
		snapshot[k] = v
	}
	d.mu.Unlock()

	if err := d.provider.SaveTempData(ctx, d.sessionID, snapshot); err != nil {
		return errors.Wrapf(err, "failed to save tempdata for session %s", d.sessionID)
	}
	return nil
}
