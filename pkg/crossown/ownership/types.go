package ownership

import (
	"fmt"
	"strings"
)

// ValueShape is the structural category of a value returned across the
// boundary.
type ValueShape int

const (
	// OwningHandle is a unique-ownership smart handle.
	OwningHandle ValueShape = iota
	// SharedHandle is a reference-counted shared-ownership handle.
	SharedHandle
	// RawReference is a bare pointer or reference with no ownership information.
	RawReference
	// ByValue is a value meant to be copied or moved.
	ByValue
)

var shapeNames = [...]string{
	OwningHandle: "owning",
	SharedHandle: "shared",
	RawReference: "raw",
	ByValue:      "value",
}

func (s ValueShape) valid() bool { return s >= OwningHandle && s <= ByValue }

func (s ValueShape) String() string {
	if !s.valid() {
		return fmt.Sprintf("ValueShape(%d)", int(s))
	}
	return shapeNames[s]
}

// Shapes lists every shape in declaration order.
func Shapes() []ValueShape {
	return []ValueShape{OwningHandle, SharedHandle, RawReference, ByValue}
}

// ParseShape accepts the names printed by ValueShape.String.
func ParseShape(name string) (ValueShape, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for i, n := range shapeNames {
		if n == key {
			return ValueShape(i), nil
		}
	}
	return 0, fmt.Errorf("ownership: unknown value shape %q", name)
}

// Policy is the declared return-value policy of a callable.
type Policy int

const (
	TakeOwnership Policy = iota
	Copy
	Move
	Reference
	ReferenceInternal
	Automatic
	AutomaticReference
)

var policyNames = [...]string{
	TakeOwnership:      "take_ownership",
	Copy:               "copy",
	Move:               "move",
	Reference:          "reference",
	ReferenceInternal:  "reference_internal",
	Automatic:          "automatic",
	AutomaticReference: "automatic_reference",
}

func (p Policy) valid() bool { return p >= TakeOwnership && p <= AutomaticReference }

func (p Policy) String() string {
	if !p.valid() {
		return fmt.Sprintf("Policy(%d)", int(p))
	}
	return policyNames[p]
}

// Policies lists every policy in declaration order.
func Policies() []Policy {
	return []Policy{TakeOwnership, Copy, Move, Reference, ReferenceInternal, Automatic, AutomaticReference}
}

// ParsePolicy accepts the names printed by Policy.String. Hyphens are treated
// as underscores.
func ParsePolicy(name string) (Policy, error) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_")
	for i, n := range policyNames {
		if n == key {
			return Policy(i), nil
		}
	}
	return 0, fmt.Errorf("ownership: unknown policy %q", name)
}

// Owner names the runtime responsible for releasing a value's storage.
type Owner int

const (
	// CallerRuntime is the runtime that received the value.
	CallerRuntime Owner = iota
	// CalleeRuntime is the runtime that produced the value.
	CalleeRuntime
	// Shared means an existing shared-ownership token governs release.
	Shared
)

func (o Owner) String() string {
	switch o {
	case CallerRuntime:
		return "caller"
	case CalleeRuntime:
		return "callee"
	case Shared:
		return "shared"
	default:
		return fmt.Sprintf("Owner(%d)", int(o))
	}
}

// Decision is the outcome of resolving one crossing. It is a plain value and
// is never mutated after Resolve returns it.
type Decision struct {
	Owner                Owner
	RequiresLifetimeLink bool
}

func (d Decision) String() string {
	if d.RequiresLifetimeLink {
		return d.Owner.String() + "+keep_alive"
	}
	return d.Owner.String()
}

// Crossing describes a returned value and the policy declared for it.
type Crossing struct {
	Shape       ValueShape
	Policy      Policy
	IsPointer   bool
	IsRValueRef bool

	// SharedHolder reports that the value's type is held by a shared-ownership
	// holder on the caller side.
	SharedHolder bool

	// TrackedElsewhere reports that the pointee is already owned by a holder
	// the caller side does not know about.
	TrackedElsewhere bool
}
