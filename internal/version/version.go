// Package version holds the gateway's version string.
package version

// Version is the semantic version of this build. Release tooling overrides
// it with -ldflags at link time.
var Version = "0.1.0"
