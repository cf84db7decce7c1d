/* lifecycle.go
 * What happens around the matches of a tournament: preparing the log and work directories, building the teams,
 * keeping results.xml current and printing the final report
 */

package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"robocup-tournament/logger"
	"robocup-tournament/tournament/external"
	"robocup-tournament/tournament/hosts"
	"robocup-tournament/tournament/match"
	"robocup-tournament/tournament/report"
	"robocup-tournament/tournament/shared"
	"robocup-tournament/tournament/standings"
)

// ReportFile is rewritten in the log directory whenever the standings change
const ReportFile = "results.xml"

// Lifecycle runs before the first and after the last match
type Lifecycle interface {
	// Prepare receives the full roster, including teams only named by an explicit match list
	Prepare(ctx context.Context, roster []string) error
	// Recorded receives the standings rebuilt after a played or replayed match
	Recorded(ctx context.Context, s *standings.Standings) error
	// Finish receives the final standings, nil when no result was recorded
	Finish(ctx context.Context, s *standings.Standings) error
}

// SimulateLifecycle touches nothing
type SimulateLifecycle struct{}

func (SimulateLifecycle) Prepare(context.Context, []string) error              { return nil }
func (SimulateLifecycle) Recorded(context.Context, *standings.Standings) error { return nil }
func (SimulateLifecycle) Finish(context.Context, *standings.Standings) error   { return nil }

// LiveLifecycle prepares a real tournament
type LiveLifecycle struct {
	LogDir   string
	WorkDir  string
	TeamsDir string
	Resume   bool

	Build     bool
	BuildRate float64

	GameLogExt string
	TextLogExt string

	Hosts  *hosts.Allocator
	Runner external.Runner
	Remote external.Remote
	Logger logger.Logger

	Report report.Options
	// Out receives the text report, nil to skip it
	Out io.Writer
}

// LiveLifecycleFromSettings fills the paths and file extensions from the match settings
func LiveLifecycleFromSettings(s match.Settings) *LiveLifecycle {
	return &LiveLifecycle{
		LogDir:     s.LogDir,
		WorkDir:    s.WorkDir,
		GameLogExt: s.GameLogExt,
		TextLogExt: s.TextLogExt,
		Report: report.Options{
			GameLogExt: s.GameLogExt,
			TextLogExt: s.TextLogExt,
		},
	}
}

// Prepare checks the teams, creates the log directory, removes leftovers of earlier runs from the work
// directory and builds the teams when asked to
// Preconditions: Receives the roster of the tournament
// Postconditions: The log directory exists. Returns a PreflightError for a broken team, or a RuntimeStateError
// when the log directory exists without resume or is missing with resume
func (l *LiveLifecycle) Prepare(ctx context.Context, roster []string) error {
	if err := Preflight(roster, l.TeamsDir, l.Build); err != nil {
		return err
	}

	_, err := os.Stat(l.LogDir)
	switch {
	case l.Resume && err != nil:
		return shared.NewRuntimeStateError(err, "resume directory not found: %s", l.LogDir)
	case !l.Resume && err == nil:
		return shared.NewRuntimeStateError(nil, "log directory %s already exists (use --resume to resume aborted tournament)", l.LogDir)
	case !l.Resume:
		if err := os.MkdirAll(l.LogDir, 0o755); err != nil {
			return shared.NewRuntimeStateError(err, "cannot create log directory %s", l.LogDir)
		}
	}

	if err := l.cleanWorkDir(); err != nil {
		return err
	}

	if l.Build {
		return BuildTeams(ctx, BuildConfig{
			Teams:  buildable(roster),
			Hosts:  l.Hosts.All(),
			LogDir: l.LogDir,
			Rate:   l.BuildRate,
			Runner: l.Runner,
			Remote: l.Remote,
			Logger: l.Logger,
		})
	}
	return nil
}

// cleanWorkDir removes launch scripts and game logs a crashed run left behind, they would otherwise be harvested
// into the first match
func (l *LiveLifecycle) cleanWorkDir() error {
	patterns := []string{"team_?_start.sh", "*" + l.GameLogExt, "*" + l.TextLogExt}
	for _, pattern := range patterns {
		files, err := filepath.Glob(filepath.Join(l.WorkDir, pattern))
		if err != nil {
			return fmt.Errorf("error listing %s: %w", pattern, err)
		}
		for _, file := range files {
			if err := os.Remove(file); err != nil && !errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("error removing %s: %w", file, err)
			}
			l.Logger.Debug("Removed stale file", logger.String("file", file))
		}
	}
	return nil
}

// Recorded rewrites results.xml
func (l *LiveLifecycle) Recorded(_ context.Context, s *standings.Standings) error {
	path := filepath.Join(l.LogDir, ReportFile)
	if err := report.WriteFile(path, "xml", s, l.Report); err != nil {
		return err
	}
	l.Logger.Debug("Report written", logger.String("path", path))
	return nil
}

// Finish prints the text report
func (l *LiveLifecycle) Finish(_ context.Context, s *standings.Standings) error {
	if s == nil {
		l.Logger.Info("No results recorded, skipping report")
		return nil
	}

	l.Logger.Info("Tournament finished", logger.String("report", filepath.Join(l.LogDir, ReportFile)))
	if l.Out != nil {
		return report.WriteText(l.Out, s)
	}
	return nil
}
