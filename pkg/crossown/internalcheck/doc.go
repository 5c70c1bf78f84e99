// Package internalcheck holds source-level checks run as tests against the
// crossown packages.
//
// It is not intended for external use.
package internalcheck
