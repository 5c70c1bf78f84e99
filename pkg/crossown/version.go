package crossown

// Version is populated at build time via ldflags.
var Version = "v0.0.0-in-progress"

// WrapperVersion returns Version. In development it is v0.0.0-in-progress.
func WrapperVersion() string {
	return Version
}
