// Package handles issues process-wide object identities for values that cross
// the runtime boundary and keeps the Go side of each value reachable while the
// other runtime holds its id.
//
// Ids are issued monotonically and never reused, so an id that has been
// finalized can never alias a later object.
package handles

import (
	"errors"
	"sync"

	"fortio.org/safecast"
)

// ID identifies one crossing value. Zero is never issued.
type ID uint64

// None is the absent id.
const None ID = 0

var (
	// ErrUnknownHandle reports a lookup or release of an id that is not live.
	ErrUnknownHandle = errors.New("handles: unknown handle")

	// ErrExhausted reports that the id space has been used up.
	ErrExhausted = errors.New("handles: id space exhausted")
)

// Table maps live ids to their Go values.
type Table struct {
	mu   sync.Mutex
	next ID
	reg  map[ID]any
}

// NewTable returns an empty table whose first issued id is 1.
func NewTable() *Table {
	return &Table{next: 1, reg: make(map[ID]any)}
}

// Put stores v and returns the id it was issued.
func (t *Table) Put(v any) (ID, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.next == None {
		return None, ErrExhausted
	}
	h := t.next
	t.next++
	t.reg[h] = v
	return h, nil
}

// Get returns the value stored under h.
func (t *Table) Get(h ID) (any, bool) {
	t.mu.Lock()
	v, ok := t.reg[h]
	t.mu.Unlock()
	return v, ok
}

// Delete drops h from the table. Deleting an unknown id returns
// ErrUnknownHandle.
func (t *Table) Delete(h ID) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.reg[h]; !ok {
		return ErrUnknownHandle
	}
	delete(t.reg, h)
	return nil
}

// Len reports the number of live ids.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.reg)
}

// FromPointerBits converts an opaque pointer-sized token handed back by the
// other runtime into an ID.
func FromPointerBits(p uintptr) (ID, error) {
	v, err := safecast.Conv[uint64](p)
	if err != nil {
		return None, err
	}
	return ID(v), nil
}

// PointerBits is the inverse of FromPointerBits. It fails when the id does not
// fit in a pointer on this platform.
func (h ID) PointerBits() (uintptr, error) {
	return safecast.Conv[uintptr](uint64(h))
}
