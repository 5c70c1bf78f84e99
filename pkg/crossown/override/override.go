// Package override dispatches calls on bound objects to a per-instance
// override when the other runtime registered one, and to the base
// implementation otherwise.
//
// Overrides are keyed by the same object id the keep-alive registry uses
// rather than expressed through embedding chains:
//
//	var speakers override.Table[Speaker]
//	speakers.Set(id, pythonDog)
//	speakers.Resolve(id, baseDog).Speak()
package override

import (
	"sync"

	"github.com/hsiuhsiu/crossown-go/pkg/crossown/keepalive"
)

// Table holds overrides of capability T. The zero value is ready to use and
// safe for concurrent use.
type Table[T any] struct {
	mu sync.RWMutex
	m  map[keepalive.ObjectID]T
}

// Set registers impl as the override for id, replacing any previous one.
func (t *Table[T]) Set(id keepalive.ObjectID, impl T) {
	t.mu.Lock()
	if t.m == nil {
		t.m = make(map[keepalive.ObjectID]T)
	}
	t.m[id] = impl
	t.mu.Unlock()
}

// Remove drops the override for id and reports whether one existed. Hosts
// call it when the overriding object is finalized.
func (t *Table[T]) Remove(id keepalive.ObjectID) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.m[id]; !ok {
		return false
	}
	delete(t.m, id)
	return true
}

// Lookup returns the override registered for id.
func (t *Table[T]) Lookup(id keepalive.ObjectID) (T, bool) {
	t.mu.RLock()
	impl, ok := t.m[id]
	t.mu.RUnlock()
	return impl, ok
}

// Resolve returns the override for id, or base when none is registered.
func (t *Table[T]) Resolve(id keepalive.ObjectID, base T) T {
	if impl, ok := t.Lookup(id); ok {
		return impl
	}
	return base
}

// Len reports the number of registered overrides.
func (t *Table[T]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.m)
}
