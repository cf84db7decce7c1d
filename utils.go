/* utils.go
 * Utility functions used by main
 */

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
)

const (
	exitOK          = 0
	exitError       = 1
	exitInterrupted = 130
)

// exitCode reports how a command ended and returns the process exit status
// Preconditions: Receives the error returned by the command and whether an interrupt signal arrived
// Postconditions: Writes "Aborted." for interruptions and "Error: <message>" for other errors to w
func exitCode(w io.Writer, err error, interrupted bool) int {
	if err == nil {
		return exitOK
	}
	if interrupted || errors.Is(err, context.Canceled) {
		fmt.Fprintln(w, "Aborted.")
		return exitInterrupted
	}
	fmt.Fprintf(w, "Error: %v\n", err)
	return exitError
}
