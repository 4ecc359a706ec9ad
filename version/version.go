package version

import (
	"fmt"
	"io"
	"os"
)

var (
	// Package is filled at linking time
	Package = "github.com/moby/fdbkit"

	// Version holds the complete version number. Filled in at linking time.
	Version = "v0.1.0+unknown"

	// Revision is filled with the VCS (e.g. git) revision being used to build
	// the program at linking time.
	Revision = ""
)

// FprintVersion outputs the version string to the writer, in the following
// format, followed by a newline:
//
//	<cmd> <project> <version>
//
// For example, a binary "fdbd" built from github.com/moby/fdbkit with version
// "v0.1.0" would print the following:
//
//	fdbd github.com/moby/fdbkit v0.1.0
func FprintVersion(w io.Writer) {
	fmt.Fprint(w, os.Args[0], " ", Package, " ", Version)
	if Revision != "" {
		fmt.Fprint(w, " ", Revision)
	}
	fmt.Fprintln(w)
}

// PrintVersion outputs the version information, from Fprint, to stdout.
func PrintVersion() {
	FprintVersion(os.Stdout)
}
