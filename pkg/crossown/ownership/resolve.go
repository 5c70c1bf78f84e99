package ownership

// Effective returns the concrete policy that Automatic and AutomaticReference
// stand for given the C-level kind of the returned expression. Other policies
// are returned unchanged.
func Effective(p Policy, isPointer, isRValueRef bool) Policy {
	switch p {
	case Automatic:
		switch {
		case isPointer:
			return TakeOwnership
		case isRValueRef:
			return Move
		default:
			return Copy
		}
	case AutomaticReference:
		switch {
		case isPointer:
			return Reference
		case isRValueRef:
			return Move
		default:
			return Copy
		}
	}
	return p
}

// Resolve decides ownership for a value of the given shape returned under
// policy. It is ResolveCrossing without holder or tracking information.
func Resolve(shape ValueShape, policy Policy, isPointer, isRValueRef bool) (Decision, error) {
	return ResolveCrossing(Crossing{
		Shape:       shape,
		Policy:      policy,
		IsPointer:   isPointer,
		IsRValueRef: isRValueRef,
	})
}

// ResolveCrossing decides which runtime owns a returned value and whether a
// keep-alive link to the receiver must be recorded.
//
// A PolicyShapeMismatch error comes with a zero Decision. A DoubleOwnershipRisk
// error (see IsWarning) comes with the usable callee-owned fallback.
func ResolveCrossing(c Crossing) (Decision, error) {
	if !c.Shape.valid() {
		return Decision{}, mismatch(c, "unknown value shape")
	}
	if !c.Policy.valid() {
		return Decision{}, mismatch(c, "unknown policy")
	}

	link := c.Policy == ReferenceInternal

	// A shared handle already carries the ownership token.
	if c.Shape == SharedHandle {
		return Decision{Owner: Shared, RequiresLifetimeLink: link}, nil
	}

	eff := Effective(c.Policy, c.IsPointer, c.IsRValueRef)

	var owner Owner
	switch eff {
	case TakeOwnership:
		switch {
		case c.Shape == OwningHandle:
		case c.Shape == RawReference && c.IsPointer:
		case c.Shape == RawReference:
			return Decision{}, mismatch(c, "a reference cannot be released by the caller")
		default:
			return Decision{}, mismatch(c, "%s storage was not heap allocated by the callee", c.Shape)
		}
		owner = CallerRuntime
	case Copy:
		owner = CallerRuntime
	case Move:
		if c.Shape == RawReference {
			return Decision{}, mismatch(c, "no movable storage behind a raw reference")
		}
		owner = CallerRuntime
	case Reference, ReferenceInternal:
		owner = CalleeRuntime
	}

	if c.SharedHolder && promotable(c.Shape, eff) {
		owner = Shared
	}

	// Adopting a raw pointer the host already owns would create a second
	// owner, shared holder or not.
	if c.Shape == RawReference && c.TrackedElsewhere && eff == TakeOwnership {
		would := owner
		if c.SharedHolder {
			would = Shared
		}
		return Decision{Owner: CalleeRuntime, RequiresLifetimeLink: link}, doubleOwnership(c, would)
	}

	return Decision{Owner: owner, RequiresLifetimeLink: link}, nil
}

// promotable reports whether a value taken into caller ownership is adopted by
// a shared holder rather than a unique one. Only owning handles qualify; a raw
// reference or a by-value result is never marked Shared.
func promotable(shape ValueShape, eff Policy) bool {
	return shape == OwningHandle && (eff == TakeOwnership || eff == Move)
}
