// Package dispatch is the boundary-crossing call dispatcher that ties the
// ownership resolver, the holder registry and the keep-alive registry
// together.
//
// For every returned value the binding layer calls Return with the callable's
// Site and the object ids of the returned value and of the receiver argument.
// The host memory manager reports finalization through Finalized and asks
// CanRelease before releasing a candidate object.
package dispatch
