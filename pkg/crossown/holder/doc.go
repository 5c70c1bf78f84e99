// Package holder records which holder kind, unique or shared, owns instances
// of each bound type on the caller side.
//
// The choice is made once per type at registration time. Registrations are
// collected in a Builder and frozen into an immutable Registry before any
// crossing happens; a process installs its registry once with SetDefault.
package holder
