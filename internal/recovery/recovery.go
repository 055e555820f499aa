// Package recovery turns panics into a logged exit after releasing resources.
package recovery

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
)

var (
	stderr io.Writer = os.Stderr
	exit             = os.Exit
)

// HandlePanic should be deferred at the top of main.
func HandlePanic() {
	if r := recover(); r != nil {
		report(r)
	}
}

// HandlePanicFunc runs cleanup before reporting a panic, so an audio device
// or terminal can be released first.
func HandlePanicFunc(cleanup func()) {
	if r := recover(); r != nil {
		if cleanup != nil {
			cleanup()
		}
		report(r)
	}
}

func report(r any) {
	_, _ = fmt.Fprintf(stderr, "FATAL: %v\n\nStack trace:\n%s\n", r, debug.Stack())
	exit(1)
}
