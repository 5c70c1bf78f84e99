// Package keepalive tracks "keep alive" links between values that crossed the
// runtime boundary.
//
// A link (nurse, patient) says the nurse must not be released while the
// patient is alive. A nurse may be kept alive by any number of patients. The
// host runtime's memory manager drives the registry:
//
//	reg := keepalive.New(keepalive.Options{})
//	reg.Register(returned, receiver)
//	...
//	reg.OnPatientFinalized(receiver)   // from the host finalizer
//	if !reg.HasActiveLinks(returned) {
//	    // host may release returned
//	}
//
// The registry is advisory: it never releases anything and never returns
// errors. A link moves from registered to released exactly once, when its
// patient is finalized; a finalized patient is remembered so that a late
// registration naming it is dropped instead of resurrecting the link.
package keepalive
