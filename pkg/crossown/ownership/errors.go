package ownership

import (
	"errors"
	"fmt"
)

var (
	// ErrPolicyShapeMismatch indicates the declared policy cannot apply to the
	// value's shape. The crossing must fail.
	ErrPolicyShapeMismatch = errors.New("ownership: policy incompatible with value shape")

	// ErrDoubleOwnershipRisk indicates the policy would have created a second
	// independent owner. It is a warning: the Decision returned with it is the
	// safe callee-owned fallback.
	ErrDoubleOwnershipRisk = errors.New("ownership: double ownership risk")
)

// ResolveError records the crossing that failed to resolve.
type ResolveError struct {
	Shape  ValueShape
	Policy Policy
	Err    error
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("ownership: resolve %s value under %s: %v", e.Shape, e.Policy, e.Err)
}

func (e *ResolveError) Unwrap() error {
	return e.Err
}

func mismatch(c Crossing, format string, args ...any) error {
	return &ResolveError{
		Shape:  c.Shape,
		Policy: c.Policy,
		Err:    fmt.Errorf("%w: "+format, append([]any{ErrPolicyShapeMismatch}, args...)...),
	}
}

func doubleOwnership(c Crossing, would Owner) error {
	return &ResolveError{
		Shape:  c.Shape,
		Policy: c.Policy,
		Err:    fmt.Errorf("%w: pointee already owned elsewhere, would become %s-owned", ErrDoubleOwnershipRisk, would),
	}
}

// IsWarning reports whether err only carries a DoubleOwnershipRisk warning, in
// which case the Decision returned alongside it is usable.
func IsWarning(err error) bool {
	return errors.Is(err, ErrDoubleOwnershipRisk) && !errors.Is(err, ErrPolicyShapeMismatch)
}
