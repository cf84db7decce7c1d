/* runners.go
 * The ways a scheduled pairing can be consumed: played live, printed by a dry run, or replayed from the results
 * of an interrupted run
 */

package engine

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"robocup-tournament/logger"
	"robocup-tournament/metrics"
	"robocup-tournament/tournament/results"
	"robocup-tournament/tournament/shared"
)

// Result tells the tournament how a pairing was consumed
type Result int

const (
	Played Result = iota + 1
	Replayed
	Simulated
)

func (r Result) String() string {
	switch r {
	case Played:
		return metrics.ResultPlayed
	case Replayed:
		return metrics.ResultReplayed
	case Simulated:
		return metrics.ResultSimulated
	default:
		return "unknown"
	}
}

// PairingRunner consumes one pairing
type PairingRunner interface {
	Run(ctx context.Context, pairing shared.Pairing) (Result, error)
}

// MatchRunner plays a match, *match.Executor implements it
type MatchRunner interface {
	Run(ctx context.Context, pairing shared.Pairing) error
}

// LiveRunner plays every pairing
type LiveRunner struct {
	matches MatchRunner
}

func NewLiveRunner(matches MatchRunner) *LiveRunner {
	return &LiveRunner{matches: matches}
}

func (r *LiveRunner) Run(ctx context.Context, pairing shared.Pairing) (Result, error) {
	if err := r.matches.Run(ctx, pairing); err != nil {
		return 0, err
	}
	return Played, nil
}

// SimulateRunner prints the pairings instead of playing them
type SimulateRunner struct {
	out io.Writer
}

func NewSimulateRunner(out io.Writer) *SimulateRunner {
	return &SimulateRunner{out: out}
}

func (r *SimulateRunner) Run(_ context.Context, pairing shared.Pairing) (Result, error) {
	if _, err := fmt.Fprintf(r.out, "%4d: %s vs %s\n", pairing.Index, pairing.Left, pairing.Right); err != nil {
		return 0, fmt.Errorf("error printing match %d: %w", pairing.Index, err)
	}
	return Simulated, nil
}

// ResumeRunner skips the matches an interrupted run already played by writing their recorded outcome lines back
// to results.log, and hands every other pairing to next
type ResumeRunner struct {
	logDir string
	next   PairingRunner
	logger logger.Logger
	resume *results.ResumeLog
}

func NewResumeRunner(logDir string, next PairingRunner, log logger.Logger) *ResumeRunner {
	return &ResumeRunner{logDir: logDir, next: next, logger: log}
}

// Run replays pairing if its match directory exists, otherwise delegates
// Preconditions: Pairings arrive in schedule order
// Postconditions: Returns Replayed after appending the next recorded line, or a RuntimeStateError when a match
// directory exists without a recorded result
func (r *ResumeRunner) Run(ctx context.Context, pairing shared.Pairing) (Result, error) {
	if r.resume == nil {
		resume, err := results.AttachResume(r.logDir)
		if err != nil {
			return 0, err
		}
		r.logger.Info("Resuming tournament", logger.Int("recorded", resume.Remaining()))
		r.resume = resume
	}

	dir := filepath.Join(r.logDir, shared.MatchDirName(pairing.Index))
	if _, err := os.Stat(dir); err != nil {
		return r.next.Run(ctx, pairing)
	}

	if r.resume.Remaining() == 0 {
		return 0, shared.NewRuntimeStateError(nil,
			"match directory %s exists but no result was recorded for it (remove it to play the match again)", dir)
	}
	if _, err := r.resume.ReplayNext(); err != nil {
		return 0, err
	}
	r.logger.Info(fmt.Sprintf("Skipping match %d.", pairing.Index))
	return Replayed, nil
}
