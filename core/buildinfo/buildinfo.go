// Package buildinfo carries build metadata stamped via -ldflags.
package buildinfo

var (
	// Version is the semantic version of the binary.
	Version = "dev"
	// Commit is the git commit the binary was built from.
	Commit = "unknown"
	// Date is the build timestamp.
	Date = "unknown"
)
