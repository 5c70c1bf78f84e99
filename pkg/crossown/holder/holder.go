package holder

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Kind is the holder type that owns instances of a bound type on the caller
// side.
type Kind int

const (
	// Unique holders have a single owner and are the default.
	Unique Kind = iota
	// Shared holders are reference counted.
	Shared
)

func (k Kind) String() string {
	switch k {
	case Unique:
		return "unique"
	case Shared:
		return "shared"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind accepts "unique" and "shared". An empty name is Unique.
func ParseKind(name string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "unique":
		return Unique, nil
	case "shared":
		return Shared, nil
	}
	return 0, fmt.Errorf("holder: unknown holder kind %q", name)
}

var (
	// ErrDuplicateType reports a second registration for the same type.
	ErrDuplicateType = errors.New("holder: type already registered")

	// ErrFrozen reports use of a Builder after Freeze.
	ErrFrozen = errors.New("holder: builder already frozen")

	// ErrAlreadyInitialized reports a second SetDefault.
	ErrAlreadyInitialized = errors.New("holder: default registry already initialized")
)

// Registry maps bound type names to their holder kind. A Registry is immutable
// and safe for concurrent use.
type Registry struct {
	kinds map[string]Kind
}

// Lookup returns the holder kind registered for typeName. Unregistered types
// report Unique with ok == false.
func (r *Registry) Lookup(typeName string) (Kind, bool) {
	if r == nil {
		return Unique, false
	}
	k, ok := r.kinds[typeName]
	if !ok {
		return Unique, false
	}
	return k, true
}

// IsShared reports whether typeName is held by a shared holder.
func (r *Registry) IsShared(typeName string) bool {
	k, _ := r.Lookup(typeName)
	return k == Shared
}

// Len reports the number of registered types.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.kinds)
}

// Entry is one registered type.
type Entry struct {
	Type string
	Kind Kind
}

// Entries returns every registration sorted by type name.
func (r *Registry) Entries() []Entry {
	if r == nil {
		return nil
	}
	out := make([]Entry, 0, len(r.kinds))
	for name, k := range r.kinds {
		out = append(out, Entry{Type: name, Kind: k})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Type < out[j].Type })
	return out
}

// Builder collects registrations before the registry is frozen.
type Builder struct {
	kinds  map[string]Kind
	frozen bool
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{kinds: make(map[string]Kind)}
}

// Add registers the holder kind for typeName. A type can be registered once.
func (b *Builder) Add(typeName string, kind Kind) error {
	if b.frozen {
		return ErrFrozen
	}
	name := strings.TrimSpace(typeName)
	if name == "" {
		return errors.New("holder: type name is required")
	}
	if kind != Unique && kind != Shared {
		return fmt.Errorf("holder: type %q: invalid kind %d", name, int(kind))
	}
	if _, dup := b.kinds[name]; dup {
		return fmt.Errorf("%w: %q", ErrDuplicateType, name)
	}
	b.kinds[name] = kind
	return nil
}

// Freeze returns the immutable registry. The builder cannot be used
// afterwards.
func (b *Builder) Freeze() *Registry {
	b.frozen = true
	kinds := b.kinds
	b.kinds = nil
	return &Registry{kinds: kinds}
}

var (
	defaultMu  sync.RWMutex
	defaultReg *Registry
)

// SetDefault installs the process-wide registry. It must be called once,
// before any crossing consults Default.
func SetDefault(r *Registry) error {
	if r == nil {
		return errors.New("holder: nil registry")
	}
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultReg != nil {
		return ErrAlreadyInitialized
	}
	defaultReg = r
	return nil
}

// Default returns the process-wide registry, or an empty one when SetDefault
// has not been called.
func Default() *Registry {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	if defaultReg == nil {
		return &Registry{}
	}
	return defaultReg
}
