package form

import (
	"sync"
	"time"
)

// Registry maps session ids to their live engines. With a positive idle
// timeout, engines that have not been touched for that long are evicted.
type Registry struct {
	mu        sync.Mutex
	engines   map[string]*registryEntry
	idle      time.Duration
	lastSweep time.Time
	now       func() time.Time
}

type registryEntry struct {
	engine   *Engine
	lastSeen time.Time
}

// NewRegistry creates an empty registry that never evicts
func NewRegistry() *Registry {
	return NewRegistryWithIdle(0)
}

// NewRegistryWithIdle creates an empty registry evicting engines idle for
// longer than idle
func NewRegistryWithIdle(idle time.Duration) *Registry {
	return &Registry{
		engines: make(map[string]*registryEntry),
		idle:    idle,
		now:     time.Now,
	}
}

// Put stores e under id, replacing any previous engine
func (r *Registry) Put(id string, e *Engine) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	r.sweep(now)
	r.engines[id] = &registryEntry{engine: e, lastSeen: now}
}

// GetOrPut returns the engine already stored under id, or stores and
// returns e when there is none
func (r *Registry) GetOrPut(id string, e *Engine) *Engine {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	r.sweep(now)
	if entry, ok := r.live(id, now); ok {
		return entry.engine
	}
	r.engines[id] = &registryEntry{engine: e, lastSeen: now}
	return e
}

// Get returns the engine for id and marks it as used
func (r *Registry) Get(id string) (*Engine, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.live(id, r.now())
	if !ok {
		return nil, false
	}
	return entry.engine, true
}

// live looks up id, dropping it when idle; caller holds mu
func (r *Registry) live(id string, now time.Time) (*registryEntry, bool) {
	entry, ok := r.engines[id]
	if !ok {
		return nil, false
	}
	if r.expired(entry, now) {
		delete(r.engines, id)
		return nil, false
	}
	entry.lastSeen = now
	return entry, true
}

func (r *Registry) expired(entry *registryEntry, now time.Time) bool {
	return r.idle > 0 && now.Sub(entry.lastSeen) > r.idle
}

// sweep drops idle engines at most once per minute; caller holds mu
func (r *Registry) sweep(now time.Time) {
	if r.idle <= 0 || now.Sub(r.lastSweep) < time.Minute {
		return
	}
	r.lastSweep = now
	for id, entry := range r.engines {
		if r.expired(entry, now) {
			delete(r.engines, id)
		}
	}
}

// Delete drops the engine for id
func (r *Registry) Delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.engines, id)
}

// Len returns the number of engines currently held
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.engines)
}
