/* runner.go
 * Runs external programs: the arbitration server, the log converters and every ssh call to the hosts
 */

package external

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
)

// Runner executes a Command and blocks until it exits
type Runner interface {
	Run(ctx context.Context, cmd Command) Outcome
}

// ExecRunner runs commands as local processes
type ExecRunner struct{}

// NewExecRunner returns a Runner backed by os/exec
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run starts the command and waits for it. Cancelling ctx kills the process
// Preconditions: Receives a context and a Command with a program name
// Postconditions: Returns the Outcome. Err is set when the program could not be started or was killed
func (r *ExecRunner) Run(ctx context.Context, cmd Command) Outcome {
	outcome := Outcome{Command: cmd.String()}

	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Dir = cmd.Dir

	stdout, err := openAppend(cmd.Stdout)
	if err != nil {
		outcome.Err = err
		return outcome
	}
	defer stdout.Close()

	stderr, err := openAppend(cmd.Stderr)
	if err != nil {
		outcome.Err = err
		return outcome
	}
	defer stderr.Close()

	c.Stdout = stdout
	c.Stderr = stderr

	err = c.Run()
	if ctx.Err() != nil {
		outcome.Err = ctx.Err()
		return outcome
	}

	var exitErr *exec.ExitError
	switch {
	case errors.As(err, &exitErr):
		outcome.ExitCode = exitErr.ExitCode()
	case err != nil:
		outcome.Err = err
	}
	return outcome
}

// openAppend opens path for appending, creating it if needed. An empty path yields a sink that discards writes
func openAppend(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopWriteCloser{io.Discard}, nil
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("error opening %s: %w", path, err)
	}
	return f, nil
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
