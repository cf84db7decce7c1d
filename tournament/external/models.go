/* models.go
 * Describes an external program invocation and what came back from it
 */

package external

import (
	"fmt"
	"strings"

	"robocup-tournament/logger"
)

// Command is one invocation of an external program
type Command struct {
	Name string
	Args []string
	// Dir is the working directory of the process, empty for the current one
	Dir string
	// Stdout and Stderr name files the process output is appended to. Empty discards the stream
	Stdout string
	Stderr string
}

func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// Outcome is the result of running a Command. Best-effort call sites log it and move on
type Outcome struct {
	Command  string
	ExitCode int
	Err      error
}

// Failed reports whether the command could not be started or exited non-zero
func (o Outcome) Failed() bool {
	return o.Err != nil || o.ExitCode != 0
}

// Error returns a description of the failure, or nil for a successful outcome
func (o Outcome) Error() error {
	if !o.Failed() {
		return nil
	}
	if o.Err != nil {
		return fmt.Errorf("%s: %w", o.Command, o.Err)
	}
	return fmt.Errorf("%s: exit status %d", o.Command, o.ExitCode)
}

// Log writes a warning for failed outcomes and a debug line otherwise
func (o Outcome) Log(log logger.Logger) {
	if !o.Failed() {
		log.Debug("Command finished", logger.String("command", o.Command))
		return
	}
	fields := []logger.Field{logger.String("command", o.Command), logger.Int("exit_code", o.ExitCode)}
	if o.Err != nil {
		fields = append(fields, logger.Error(o.Err))
	}
	log.Warn("Command failed", fields...)
}
