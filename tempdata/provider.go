package tempdata

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Provider persists TempData between requests of one session.
type Provider interface {
	LoadTempData(ctx context.Context, sessionID string) (map[string]any, error)
	SaveTempData(ctx context.Context, sessionID string, values map[string]any) error
}

// NewSessionID returns a fresh random session key.
func NewSessionID() string {
	return uuid.NewString()
}

// MemoryProvider keeps TempData in process memory keyed by session ID.
type MemoryProvider struct {
	mu       sync.RWMutex
	sessions map[string]map[string]any
}

func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{
		sessions: make(map[string]map[string]any),
	}
}

// LoadTempData returns a copy of the session's values; an unknown session
// yields an empty map.
func (p *MemoryProvider) LoadTempData(ctx context.Context, sessionID string) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	stored := p.sessions[sessionID]
	out := make(map[string]any, len(stored))
	for k, v := range stored {
		out[k] = v
	}
	return out, nil
}

// SaveTempData stores a copy of values. An empty map removes the session.
func (p *MemoryProvider) SaveTempData(ctx context.Context, sessionID string, values map[string]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(values) == 0 {
		delete(p.sessions, sessionID)
		return nil
	}
	stored := make(map[string]any, len(values))
	for k, v := range values {
		stored[k] = v
	}
	p.sessions[sessionID] = stored
	return nil
}

// Sessions returns the number of sessions with stored values.
func (p *MemoryProvider) Sessions() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.sessions)
}
