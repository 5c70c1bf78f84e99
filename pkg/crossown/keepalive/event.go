package keepalive

// EventKind classifies registry state changes.
type EventKind int

const (
	// Registered: a new link entered the registry.
	Registered EventKind = iota + 1
	// Released: the link's patient was finalized. Released is terminal.
	Released
	// Dropped: a registration named a patient that was already finalized.
	Dropped
	// Unverified: a registration was recorded for a patient that may have been
	// finalized after its tombstone was evicted. If it was, the link leaks.
	Unverified
)

func (k EventKind) String() string {
	switch k {
	case Registered:
		return "registered"
	case Released:
		return "released"
	case Dropped:
		return "dropped"
	case Unverified:
		return "unverified"
	default:
		return "unknown"
	}
}

// Event is delivered to Options.Observer.
type Event struct {
	Kind EventKind
	Link Link
}
