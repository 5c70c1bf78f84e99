// Package ownership decides which runtime owns a value after it crosses the
// boundary between two independently memory-managed runtimes.
//
// # Resolution
//
// A crossing is described by the value's shape and the policy declared for the
// callable that returned it:
//
//	d, err := ownership.Resolve(ownership.OwningHandle, ownership.Automatic, true, false)
//	// d.Owner == ownership.CallerRuntime
//
// The table applied by Resolve:
//
//	take_ownership       caller   owning handles and heap pointers only
//	copy                 caller   always valid, storage is duplicated
//	move                 caller   not for raw references
//	reference            callee   caller side wrapper does not own
//	reference_internal   callee   plus a keep-alive link to the receiver
//	automatic            pointer: take_ownership, rvalue: move, else copy
//	automatic_reference  pointer: reference, rvalue: move, else copy
//
// Shared handles always resolve to Shared: they already carry a correct
// ownership token and tracking them a second time is the double free this
// package exists to prevent.
//
// # Errors
//
// ErrPolicyShapeMismatch fails the crossing. ErrDoubleOwnershipRisk is a
// warning returned together with a usable callee-owned Decision; use IsWarning
// to tell the two apart and surface the warning to the caller.
//
// Resolve is pure and safe for concurrent use.
package ownership
